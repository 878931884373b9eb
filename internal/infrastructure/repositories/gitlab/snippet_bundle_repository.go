package gitlab

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	logger "github.com/sirupsen/logrus"
	gl "gitlab.com/gitlab-org/api/client-go"

	"github.com/rios0rios0/cdlist/internal/domain/entities"
	"github.com/rios0rios0/cdlist/internal/domain/repositories"
)

const (
	providerName   = "gitlab"
	snippetsMarker = "snippets"
	rawMarker      = "/raw/"
	defaultRef     = "main"
	visibility     = "private"
)

// SnippetBundleRepository implements repositories.BundleRepository on GitLab snippets.
type SnippetBundleRepository struct {
	host   string
	client *gl.Client
}

type snippetFile struct {
	Path   string `json:"path"`
	RawURL string `json:"raw_url"`
}

type snippet struct {
	ID     int64         `json:"id"`
	WebURL string        `json:"web_url"`
	Files  []snippetFile `json:"files"`
}

type createSnippetFile struct {
	FilePath string `json:"file_path"`
	Content  string `json:"content"`
}

type createSnippetOptions struct {
	Title      string              `json:"title"`
	Visibility string              `json:"visibility"`
	Files      []createSnippetFile `json:"files"`
}

// NewSnippetBundleRepository creates a snippet store on bundles.gitlab.base_url.
func NewSnippetBundleRepository(settings *entities.Settings) (repositories.BundleRepository, error) {
	baseURL := settings.Bundles.GitLab.BaseURL
	client, err := gl.NewClient(settings.Bundles.GitLab.Token, gl.WithBaseURL(baseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to create gitlab client: %w", err)
	}
	return NewSnippetBundleRepositoryWithClient(baseURL, client)
}

// NewSnippetBundleRepositoryWithClient creates a snippet store on an existing client.
// References are only accepted on the host of baseURL.
func NewSnippetBundleRepositoryWithClient(baseURL string, client *gl.Client) (*SnippetBundleRepository, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Hostname() == "" {
		return nil, fmt.Errorf("invalid gitlab base url %q", baseURL)
	}
	return &SnippetBundleRepository{host: parsed.Hostname(), client: client}, nil
}

func (p *SnippetBundleRepository) Name() string { return providerName }

// ParseReference extracts the id of https://{host}/-/snippets/{id} (or /snippets/{id}).
func (p *SnippetBundleRepository) ParseReference(rawURL string) (string, bool, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || parsed.Scheme != "https" || !strings.EqualFold(parsed.Hostname(), p.host) {
		return "", false, nil
	}

	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	for i, segment := range segments {
		if segment != snippetsMarker || (i > 0 && segments[i-1] != "-") {
			continue
		}
		if i+1 < len(segments) && isNumeric(segments[i+1]) {
			return segments[i+1], true, nil
		}
		return "", true, fmt.Errorf("snippet url %s: %w", rawURL, entities.ErrMalformedBundleURL)
	}
	return "", false, nil
}

// Fetch returns the files of a snippet keyed by file path.
func (p *SnippetBundleRepository) Fetch(ctx context.Context, id string) (map[string]string, error) {
	var found snippet
	if err := p.do(ctx, http.MethodGet, snippetsMarker+"/"+id, nil, &found); err != nil {
		return nil, fmt.Errorf("failed to get snippet %q: %w", id, err)
	}

	files := make(map[string]string, len(found.Files))
	for _, file := range found.Files {
		var content bytes.Buffer
		endpoint := fmt.Sprintf("%s/%s/files/%s/%s/raw",
			snippetsMarker, id, refOf(file.RawURL), url.PathEscape(file.Path))
		if err := p.do(ctx, http.MethodGet, endpoint, nil, &content); err != nil {
			return nil, fmt.Errorf("failed to read snippet %q file %q: %w", id, file.Path, err)
		}
		files[file.Path] = content.String()
	}
	logger.Debugf("Snippet %s has %d files", id, len(files))
	return files, nil
}

// Create stores a new private snippet holding one file and returns its page URL.
func (p *SnippetBundleRepository) Create(ctx context.Context, name, content string) (string, error) {
	opts := createSnippetOptions{
		Title:      "Component list " + name,
		Visibility: visibility,
		Files:      []createSnippetFile{{FilePath: name, Content: content}},
	}

	var created snippet
	if err := p.do(ctx, http.MethodPost, snippetsMarker, opts, &created); err != nil {
		var errResp *gl.ErrorResponse
		if errors.As(err, &errResp) && errResp.Response != nil && isPermissionStatus(errResp.Response.StatusCode) {
			return "", fmt.Errorf("%w: %w", entities.ErrBundlePermission, err)
		}
		return "", fmt.Errorf("failed to create snippet: %w", err)
	}
	return created.WebURL, nil
}

func (p *SnippetBundleRepository) do(ctx context.Context, method, path string, opt, into any) error {
	req, err := p.client.NewRequest(method, path, opt, []gl.RequestOptionFunc{gl.WithContext(ctx)})
	if err != nil {
		return err
	}
	_, err = p.client.Do(req, into)
	return err
}

// refOf reads the revision out of a raw file URL (.../raw/{ref}/{path}).
func refOf(rawURL string) string {
	_, rest, found := strings.Cut(rawURL, rawMarker)
	if !found {
		return defaultRef
	}
	ref, _, _ := strings.Cut(rest, "/")
	if ref == "" {
		return defaultRef
	}
	return ref
}

func isNumeric(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isPermissionStatus(status int) bool {
	return status == http.StatusForbidden || status == http.StatusNotFound || status == http.StatusUnauthorized
}

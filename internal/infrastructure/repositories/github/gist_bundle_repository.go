package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v66/github"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/cdlist/internal/domain/entities"
	"github.com/rios0rios0/cdlist/internal/domain/repositories"
)

const (
	providerName = "github"
	gistHost     = "gist.github.com"
	gistIDIndex  = 2
)

// GistBundleRepository implements repositories.BundleRepository on GitHub Gists.
type GistBundleRepository struct {
	client *gh.Client
}

// NewGistBundleRepository creates a gist store authenticated with bundles.github.token.
// Without a token only public gists can be read.
func NewGistBundleRepository(settings *entities.Settings) (repositories.BundleRepository, error) {
	client := gh.NewClient(nil)
	if token := settings.Bundles.GitHub.Token; token != "" {
		client = client.WithAuthToken(token)
	}
	return NewGistBundleRepositoryWithClient(client), nil
}

// NewGistBundleRepositoryWithClient creates a gist store on an existing client.
func NewGistBundleRepositoryWithClient(client *gh.Client) *GistBundleRepository {
	return &GistBundleRepository{client: client}
}

func (p *GistBundleRepository) Name() string { return providerName }

// ParseReference extracts the id of https://gist.github.com/{user}/{id}.
func (p *GistBundleRepository) ParseReference(rawURL string) (string, bool, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || parsed.Scheme != "https" || !strings.EqualFold(parsed.Hostname(), gistHost) {
		return "", false, nil
	}

	segments := strings.Split(parsed.Path, "/")
	if len(segments) <= gistIDIndex || segments[gistIDIndex] == "" {
		return "", true, fmt.Errorf("gist url %s: %w", rawURL, entities.ErrMalformedBundleURL)
	}
	return segments[gistIDIndex], true, nil
}

// Fetch returns the files of a gist keyed by file name.
func (p *GistBundleRepository) Fetch(ctx context.Context, id string) (map[string]string, error) {
	gist, _, err := p.client.Gists.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get gist %q: %w", id, err)
	}

	files := make(map[string]string, len(gist.Files))
	for name, file := range gist.Files {
		files[string(name)] = file.GetContent()
	}
	logger.Debugf("Gist %s has %d files", id, len(files))
	return files, nil
}

// Create stores a new secret gist holding one file and returns its page URL.
func (p *GistBundleRepository) Create(ctx context.Context, name, content string) (string, error) {
	public := false
	description := "Component list " + name
	gist := &gh.Gist{
		Description: &description,
		Public:      &public,
		Files: map[gh.GistFilename]gh.GistFile{
			gh.GistFilename(name): {Filename: &name, Content: &content},
		},
	}

	created, _, err := p.client.Gists.Create(ctx, gist)
	if err != nil {
		var errResp *gh.ErrorResponse
		if errors.As(err, &errResp) && errResp.Response != nil && isPermissionStatus(errResp.Response.StatusCode) {
			return "", fmt.Errorf("%w: %w", entities.ErrBundlePermission, err)
		}
		return "", fmt.Errorf("failed to create gist: %w", err)
	}
	return created.GetHTMLURL(), nil
}

func isPermissionStatus(status int) bool {
	return status == http.StatusForbidden || status == http.StatusNotFound || status == http.StatusUnauthorized
}

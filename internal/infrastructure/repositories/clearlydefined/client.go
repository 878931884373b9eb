package clearlydefined

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/cdlist/internal/domain/entities"
	"github.com/rios0rios0/cdlist/internal/domain/repositories"
)

const (
	definitionsEndpoint = "/definitions"
	suggestionsEndpoint = "/suggestions"
	maxErrorBody        = 512
)

// HTTPError is returned for any response outside the 2xx range.
type HTTPError struct {
	Method     string
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("API error %s %s (status %d): %s", e.Method, e.Endpoint, e.StatusCode, e.Body)
}

// Client implements repositories.MetadataRepository against the ClearlyDefined REST API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

var _ repositories.MetadataRepository = (*Client)(nil)

// NewClient creates a client from the metadata settings.
func NewClient(settings *entities.Settings) *Client {
	return NewClientWithHTTP(settings, &http.Client{Timeout: settings.Metadata.Timeout})
}

// NewClientWithHTTP creates a client using the given HTTP client.
func NewClientWithHTTP(settings *entities.Settings, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(settings.Metadata.BaseURL, "/"),
		token:      settings.Metadata.Token,
		httpClient: httpClient,
	}
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchOne retrieves the definition of a single coordinate.
func (c *Client) FetchOne(
	ctx context.Context,
	coordinate entities.Coordinate,
	opts repositories.FetchOptions,
) (entities.Definition, error) {
	endpoint := definitionsEndpoint + "/" + coordinate.ToPath()
	if opts.ExpandPRs {
		endpoint += "?expandPrs=true"
	}

	resp, err := c.doRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return entities.Definition{}, err
	}

	var definition entities.Definition
	if err = json.Unmarshal(resp, &definition); err != nil {
		return entities.Definition{}, fmt.Errorf("failed to parse definition response: %w", err)
	}
	return definition, nil
}

// FetchMany retrieves several definitions in one request. The response is re-keyed by
// the canonical key of each returned definition.
func (c *Client) FetchMany(ctx context.Context, keys []string) (map[string]entities.Definition, error) {
	if len(keys) == 0 {
		return map[string]entities.Definition{}, nil
	}

	resp, err := c.doRequest(ctx, http.MethodPost, definitionsEndpoint, keys)
	if err != nil {
		return nil, err
	}

	var result map[string]entities.Definition
	if err = json.Unmarshal(resp, &result); err != nil {
		return nil, fmt.Errorf("failed to parse definitions response: %w", err)
	}

	bodies := make(map[string]entities.Definition, len(result))
	for key, definition := range result {
		if coordinate, ok := entities.ValidateAndCreate(definition.Coordinates); ok {
			key = coordinate.ToPath()
		}
		bodies[key] = definition
	}
	logger.Debugf("Received %d definitions for %d keys", len(bodies), len(keys))
	return bodies, nil
}

// Search returns one page of definitions matching the query.
func (c *Client) Search(ctx context.Context, query entities.SearchQuery) (entities.SearchResult, error) {
	params := url.Values{}
	setParam(params, "name", query.Pattern)
	setParam(params, "type", query.Type)
	setParam(params, "provider", query.Provider)
	setParam(params, "license", query.License)
	setParam(params, "sort", query.Sort)
	setParam(params, "continuationToken", query.ContinuationToken)
	if query.SortDesc {
		params.Set("sortDesc", strconv.FormatBool(true))
	}

	endpoint := definitionsEndpoint
	if encoded := params.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	resp, err := c.doRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return entities.SearchResult{}, err
	}

	var result entities.SearchResult
	if err = json.Unmarshal(resp, &result); err != nil {
		return entities.SearchResult{}, fmt.Errorf("failed to parse search response: %w", err)
	}
	return result, nil
}

// Suggest returns canonical keys matching the prefix.
func (c *Client) Suggest(ctx context.Context, prefix string) ([]string, error) {
	endpoint := definitionsEndpoint + "?pattern=" + url.QueryEscape(prefix)

	resp, err := c.doRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var suggestions []string
	if err = json.Unmarshal(resp, &suggestions); err != nil {
		return nil, fmt.Errorf("failed to parse suggestions response: %w", err)
	}
	return suggestions, nil
}

// SuggestedData returns values suggested for the empty fields of a definition.
func (c *Client) SuggestedData(ctx context.Context, coordinate entities.Coordinate) (map[string]any, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, suggestionsEndpoint+"/"+coordinate.ToPath(), nil)
	if err != nil {
		return nil, err
	}

	var data map[string]any
	if err = json.Unmarshal(resp, &data); err != nil {
		return nil, fmt.Errorf("failed to parse suggested data response: %w", err)
	}
	return data, nil
}

// PreviewCuration returns the definition as it would look with the patch applied.
func (c *Client) PreviewCuration(
	ctx context.Context,
	coordinate entities.Coordinate,
	patch map[string]any,
) (entities.Definition, error) {
	endpoint := definitionsEndpoint + "/" + coordinate.ToPath() + "?preview=true"

	resp, err := c.doRequest(ctx, http.MethodPost, endpoint, patch)
	if err != nil {
		return entities.Definition{}, err
	}

	var definition entities.Definition
	if err = json.Unmarshal(resp, &definition); err != nil {
		return entities.Definition{}, fmt.Errorf("failed to parse preview response: %w", err)
	}
	return definition, nil
}

func (c *Client) doRequest(ctx context.Context, method, endpoint string, body any) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text := string(respBody)
		if len(text) > maxErrorBody {
			text = text[:maxErrorBody]
		}
		return nil, &HTTPError{Method: method, Endpoint: endpoint, StatusCode: resp.StatusCode, Body: text}
	}

	return respBody, nil
}

func setParam(params url.Values, key, value string) {
	if value != "" {
		params.Set(key, value)
	}
}

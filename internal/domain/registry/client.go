package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client errors.
var (
	ErrFetchFailed     = errors.New("fetch failed")
	ErrNetworkError    = errors.New("network error")
	ErrRateLimited     = errors.New("rate limited")
	ErrServerError     = errors.New("server error")
	ErrProjectNotFound = errors.New("project not found")
	ErrVersionNotFound = errors.New("version not found")
)

// DefaultBaseURL is the Modrinth v2 API root.
const DefaultBaseURL = "https://api.modrinth.com/v2"

// projectTypeFacet restricts search results to server plugins.
const projectTypeFacet = "project_type:plugin"

// ClientConfig configures the registry client.
type ClientConfig struct {
	// BaseURL is the API root without a trailing slash.
	BaseURL string
	// Timeout bounds every request; a stuck remote reads as an error.
	Timeout time.Duration
	// UserAgent identifies this client to the registry.
	UserAgent string
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		BaseURL:   DefaultBaseURL,
		Timeout:   10 * time.Second,
		UserAgent: "plugdex/1.0 (github.com/plugdex/plugdex)",
	}
}

// Client provides read-only HTTP access to the plugin registry. All four
// operations are idempotent GETs; nothing else in the engine touches the
// network except artifact downloads.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
}

// NewClient creates a registry client.
func NewClient(config ClientConfig) *Client {
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// Search queries the registry for plugins matching query, sorted by
// relevance. When loaders is non-empty the results are restricted to
// projects supporting at least one of them. Returns the hits in registry
// order.
func (c *Client) Search(ctx context.Context, query string, loaders []string, limit, offset int) ([]ProjectSummary, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("facets", searchFacets(loaders))
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))
	params.Set("index", "relevance")

	data, err := c.fetch(ctx, c.config.BaseURL+"/search?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	hits, err := parseSearch(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse search results: %w", err)
	}
	return hits, nil
}

// GetProject fetches a single project by id or slug.
func (c *Client) GetProject(ctx context.Context, idOrSlug string) (*Project, error) {
	data, err := c.fetch(ctx, c.config.BaseURL+"/project/"+url.PathEscape(idOrSlug))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch project %s: %w", idOrSlug, err)
	}

	var project Project
	if err := json.Unmarshal(data, &project); err != nil {
		return nil, fmt.Errorf("failed to parse project %s: %w", idOrSlug, err)
	}
	if project.ID == "" && project.Slug == "" {
		return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, idOrSlug)
	}
	return &project, nil
}

// GetVersions fetches a project's versions, newest first. When loaders is
// non-empty the request is narrowed server-side to those loaders.
func (c *Client) GetVersions(ctx context.Context, idOrSlug string, loaders []string) ([]Version, error) {
	endpoint := c.config.BaseURL + "/project/" + url.PathEscape(idOrSlug) + "/version"
	if len(loaders) > 0 {
		encoded, err := json.Marshal(loaders)
		if err != nil {
			return nil, fmt.Errorf("failed to encode loaders: %w", err)
		}
		params := url.Values{}
		params.Set("loaders", string(encoded))
		endpoint += "?" + params.Encode()
	}

	data, err := c.fetch(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch versions for %s: %w", idOrSlug, err)
	}

	versions, err := parseVersions(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse versions for %s: %w", idOrSlug, err)
	}
	return versions, nil
}

// GetVersion fetches a single version by id.
func (c *Client) GetVersion(ctx context.Context, id string) (*Version, error) {
	data, err := c.fetch(ctx, c.config.BaseURL+"/version/"+url.PathEscape(id))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch version %s: %w", id, err)
	}

	var version Version
	if err := json.Unmarshal(data, &version); err != nil {
		return nil, fmt.Errorf("failed to parse version %s: %w", id, err)
	}
	if version.ID == "" {
		return nil, fmt.Errorf("%w: %s", ErrVersionNotFound, id)
	}
	version.Files = validFiles(version.Files)
	return &version, nil
}

// searchFacets builds the facet expression: AND of OR groups. The plugin
// project-type group is always present; the loader group only when at
// least one loader is enabled, matching the "empty means unrestricted"
// policy.
func searchFacets(loaders []string) string {
	facets := [][]string{{projectTypeFacet}}
	if len(loaders) > 0 {
		group := make([]string, 0, len(loaders))
		for _, loader := range loaders {
			group = append(group, "categories:"+loader)
		}
		facets = append(facets, group)
	}

	encoded, _ := json.Marshal(facets)
	return string(encoded)
}

// fetch performs an HTTP GET request with the fixed identification header.
func (c *Client) fetch(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: request creation failed", ErrNetworkError)
	}

	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		// Continue
	case http.StatusNotFound:
		return nil, ErrProjectNotFound
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		return nil, fmt.Errorf("%w: status %d", ErrServerError, resp.StatusCode)
	default:
		return nil, fmt.Errorf("%w: status %d", ErrFetchFailed, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response", ErrNetworkError)
	}
	return data, nil
}

package gitlab

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// ErrAuth marks a 401/403 from GitLab so the presentation layer can tell
// the user a valid token is needed instead of a generic fetch failure.
var ErrAuth = errors.New("gitlab: authentication required")

const (
	DefaultBaseURL = "https://gitlab.com"

	cacheEntries = 64
	cacheTTL     = 2 * time.Minute
)

// Client fetches raw repository files from the GitLab API. Responses are
// cached briefly so a dashboard reload does not re-hit GitLab for the
// same document.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
	cache   *expirable.LRU[string, []byte]
}

// New builds a client. baseURL may be empty for gitlab.com; token may be
// empty for public projects.
func New(baseURL, token string) *Client {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{
		baseURL: base,
		token:   strings.TrimSpace(token),
		httpc:   &http.Client{Timeout: 30 * time.Second},
		cache:   expirable.NewLRU[string, []byte](cacheEntries, nil, cacheTTL),
	}
}

// FetchProjectFile retrieves a raw file from a project. project is the
// numeric ID or the "namespace/project" path; ref defaults to "main".
func (c *Client) FetchProjectFile(ctx context.Context, project, filePath, ref string) ([]byte, error) {
	project = strings.TrimSpace(project)
	filePath = strings.TrimSpace(filePath)
	if project == "" || filePath == "" {
		return nil, errors.New("gitlab: project and file path are required")
	}
	ref = strings.TrimSpace(ref)
	if ref == "" {
		ref = "main"
	}
	endpoint := fmt.Sprintf("%s/api/v4/projects/%s/repository/files/%s/raw?ref=%s",
		c.baseURL,
		url.PathEscape(project),
		url.PathEscape(filePath),
		url.QueryEscape(ref),
	)
	return c.fetch(ctx, endpoint)
}

// FetchURL retrieves a document from a direct link, still sending the
// token so private raw URLs work.
func (c *Client) FetchURL(ctx context.Context, rawURL string) ([]byte, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, errors.New("gitlab: url is required")
	}
	return c.fetch(ctx, rawURL)
}

// Invalidate drops any cached responses, forcing the next fetch to hit
// the source. Used by the explicit reload action.
func (c *Client) Invalidate() {
	c.cache.Purge()
}

func (c *Client) fetch(ctx context.Context, endpoint string) ([]byte, error) {
	if body, ok := c.cache.Get(endpoint); ok {
		return body, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("gitlab: build request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("PRIVATE-TOKEN", c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gitlab: fetch %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w (status %d)", ErrAuth, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("gitlab: unexpected status %d for %s", resp.StatusCode, endpoint)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gitlab: read response: %w", err)
	}
	c.cache.Add(endpoint, body)
	return body, nil
}

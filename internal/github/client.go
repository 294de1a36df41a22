// Package github is the remote repository client. It lists mod file trees
// with their git blob SHA-1 hashes through the GitHub trees API and streams
// raw file content from raw.githubusercontent.com.
package github

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/imroc/req/v3"

	"github.com/darkmatro/hd2sync/internal/plan"
)

const (
	defaultAPIBase = "https://api.github.com"
	defaultRawBase = "https://raw.githubusercontent.com"

	defaultTimeout    = 30 * time.Second
	defaultRetryCount = 3
)

var versionPattern = regexp.MustCompile(`v([\d.]+)`)

// Client talks to GitHub. All methods take the repository as "owner/name"
// and a ref (branch name or commit SHA).
type Client struct {
	http    *req.Client
	apiBase string
	rawBase string
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets an API token, raising the unauthenticated rate limit.
func WithToken(token string) Option {
	return func(c *Client) {
		if token != "" {
			c.http.SetCommonHeader("Authorization", "token "+token)
		}
	}
}

// WithBaseURLs overrides the API and raw-content endpoints. Used in tests.
func WithBaseURLs(api, raw string) Option {
	return func(c *Client) {
		c.apiBase = strings.TrimRight(api, "/")
		c.rawBase = strings.TrimRight(raw, "/")
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

// NewClient creates a GitHub client with rate-limit aware retries.
func NewClient(opts ...Option) *Client {
	httpClient := req.C().
		SetTimeout(defaultTimeout).
		SetUserAgent("hd2sync").
		SetCommonRetryCount(defaultRetryCount).
		SetCommonRetryCondition(func(resp *req.Response, err error) bool {
			if err != nil {
				return true
			}
			return isRateLimited(resp)
		}).
		SetCommonRetryInterval(func(resp *req.Response, attempt int) time.Duration {
			if resp != nil && resp.Response != nil {
				if after := resp.Header.Get("Retry-After"); after != "" {
					if d, err := time.ParseDuration(after + "s"); err == nil {
						return d
					}
				}
			}
			return time.Duration(attempt+1) * 2 * time.Second
		})

	c := &Client{
		http:    httpClient,
		apiBase: defaultAPIBase,
		rawBase: defaultRawBase,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func isRateLimited(resp *req.Response) bool {
	return resp.StatusCode == 403 && resp.Header.Get("X-RateLimit-Remaining") == "0"
}

type treeEntry struct {
	Path string `json:"path"`
	Type string `json:"type"`
	SHA  string `json:"sha"`
	Size int64  `json:"size"`
}

type treeResponse struct {
	SHA       string      `json:"sha"`
	Tree      []treeEntry `json:"tree"`
	Truncated bool        `json:"truncated"`
}

// ListTree returns the blob entries under repo's folder at ref, recursively.
// Entry paths are prefixed with the folder so they are relative to the mod
// root. A folder absent from the repository yields ErrNotFound.
func (c *Client) ListTree(ctx context.Context, repo, ref, folder string) ([]plan.RemoteFileEntry, error) {
	treeURL := fmt.Sprintf("%s/repos/%s/git/trees/%s?recursive=1",
		c.apiBase, repo, url.PathEscape(ref+":"+folder))

	var tree treeResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetSuccessResult(&tree).
		Get(treeURL)
	if err := checkResponse(resp, err, treeURL); err != nil {
		return nil, err
	}

	if tree.Truncated {
		return nil, fmt.Errorf("tree listing for %s:%s is truncated, folder too large", repo, folder)
	}

	entries := make([]plan.RemoteFileEntry, 0, len(tree.Tree))
	for _, e := range tree.Tree {
		if e.Type != "blob" {
			continue
		}
		entries = append(entries, plan.RemoteFileEntry{
			Path: path.Join(folder, e.Path),
			Hash: e.SHA,
			Size: e.Size,
		})
	}
	return entries, nil
}

// FetchFile streams the raw content of repo's file at ref into w.
// Retries are disabled here: a retry after partial body bytes would
// corrupt the stream, and the executor re-runs failed ops anyway.
func (c *Client) FetchFile(ctx context.Context, repo, ref, filePath string, w io.Writer) error {
	rawURL := fmt.Sprintf("%s/%s/%s/%s", c.rawBase, repo, ref, pathEscapeSegments(filePath))

	resp, err := c.http.R().
		SetContext(ctx).
		SetRetryCount(0).
		SetOutput(w).
		Get(rawURL)
	return checkResponse(resp, err, rawURL)
}

// FetchVersion scrapes the mod version from the repository README at ref.
func (c *Client) FetchVersion(ctx context.Context, repo, ref string) (string, error) {
	readmeURL := fmt.Sprintf("%s/%s/%s/README.md", c.rawBase, repo, ref)

	resp, err := c.http.R().
		SetContext(ctx).
		Get(readmeURL)
	if err := checkResponse(resp, err, readmeURL); err != nil {
		return "", err
	}

	m := versionPattern.FindStringSubmatch(resp.String())
	if m == nil {
		return "", fmt.Errorf("no version marker in README of %s", repo)
	}
	return m[1], nil
}

// Ping probes connectivity to the API endpoint.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.http.R().
		SetContext(ctx).
		SetRetryCount(0).
		Head(c.apiBase)
	if err != nil {
		return &TransportError{URL: c.apiBase, Err: err}
	}
	return nil
}

// pathEscapeSegments escapes each path segment, keeping the slashes.
func pathEscapeSegments(p string) string {
	segs := strings.Split(p, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}

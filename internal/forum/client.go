package forum

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// API defines the forum endpoints the client reads.
// This interface is implemented by *Client and can be used for testing.
type API interface {
	ListThreads(ctx context.Context, query ListQuery) (ResultPage, error)
	SearchThreads(ctx context.Context, query SearchQuery) (ResultPage, error)
	ListCategories(ctx context.Context) ([]Category, error)
	ListTags(ctx context.Context) ([]Tag, error)
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)

const (
	DefaultBaseURL   = "http://127.0.0.1:8000/api/"
	defaultUserAgent = "commons/dev"
	defaultTimeout   = 10 * time.Second
	maxBodyBytes     = 8 << 20

	// MaxKeywordLength is the longest search keyword the backend accepts.
	MaxKeywordLength = 100
)

// Options configure a Client. Zero values select defaults.
type Options struct {
	BaseURL    string
	Token      string
	UserAgent  string
	Timeout    time.Duration
	Limiter    *rate.Limiter
	Logger     *log.Logger
	HTTPClient *http.Client
}

// Client talks to the forum REST API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	token     string
	userAgent string
	limiter   *rate.Limiter
	logger    *log.Logger
}

// NewClient builds a Client for the API rooted at opts.BaseURL.
func NewClient(opts Options) (*Client, error) {
	base, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	userAgent := strings.TrimSpace(opts.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Client{
		baseURL:   base,
		http:      httpClient,
		token:     strings.TrimSpace(opts.Token),
		userAgent: userAgent,
		limiter:   opts.Limiter,
		logger:    logger,
	}, nil
}

// ListQuery configures threads/ requests.
type ListQuery struct {
	Page           int
	Tags           []string
	CategoryID     int
	IDs            []int64
	IncludeDeleted bool
}

func (q ListQuery) values() url.Values {
	values := url.Values{}
	if len(q.IDs) > 0 {
		ids := make([]string, len(q.IDs))
		for i, id := range q.IDs {
			ids[i] = strconv.FormatInt(id, 10)
		}
		values.Set("ids", strings.Join(ids, ","))
	} else if q.Page > 1 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if len(q.Tags) > 0 {
		values.Set("tag", strings.Join(q.Tags, ","))
	}
	if q.CategoryID > 0 {
		values.Set("category", strconv.Itoa(q.CategoryID))
	}
	if q.IncludeDeleted {
		values.Set("include_deleted", "true")
	}
	return values
}

// ListThreads retrieves a filtered thread listing. When IDs is set the
// listing is restricted to those threads and Page is not sent.
func (c *Client) ListThreads(ctx context.Context, query ListQuery) (ResultPage, error) {
	if c == nil {
		return ResultPage{}, fmt.Errorf("client is nil")
	}
	page := query.Page
	if len(query.IDs) > 0 {
		page = 1
	}
	rel := &url.URL{Path: "threads/", RawQuery: query.values().Encode()}
	body, err := c.get(ctx, rel)
	if err != nil {
		return ResultPage{}, err
	}
	return decodeThreadList(body, page)
}

// SearchQuery configures search/ requests.
type SearchQuery struct {
	Keyword string
	Page    int
	Limit   int
}

// SearchThreads runs a relevance-ordered thread search.
func (c *Client) SearchThreads(ctx context.Context, query SearchQuery) (ResultPage, error) {
	if c == nil {
		return ResultPage{}, fmt.Errorf("client is nil")
	}
	keyword := strings.TrimSpace(query.Keyword)
	if keyword == "" {
		return ResultPage{}, fmt.Errorf("search keyword required")
	}
	page := query.Page
	if page < 1 {
		page = 1
	}
	values := url.Values{}
	values.Set("q", keyword)
	values.Set("type", "threads")
	values.Set("sort", "relevance")
	values.Set("page", strconv.Itoa(page))
	if query.Limit > 0 {
		values.Set("limit", strconv.Itoa(query.Limit))
	}
	rel := &url.URL{Path: "search/", RawQuery: values.Encode()}
	body, err := c.get(ctx, rel)
	if err != nil {
		return ResultPage{}, err
	}
	return decodeSearch(body, page)
}

// ListCategories retrieves every category.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	body, err := c.get(ctx, &url.URL{Path: "categories/"})
	if err != nil {
		return nil, err
	}
	return decodeList[Category](body, "category")
}

// ListTags retrieves every tag the viewer can see.
func (c *Client) ListTags(ctx context.Context) ([]Tag, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	body, err := c.get(ctx, &url.URL{Path: "tags/"})
	if err != nil {
		return nil, err
	}
	return decodeList[Tag](body, "tag")
}

func (c *Client) get(ctx context.Context, rel *url.URL) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if c.token != "" {
		req.Header.Set("Authorization", "Token "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("forum request failed", "path", rel.Path, "request_id", requestID, "err", err)
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	c.logger.Debug("forum request",
		"path", rel.Path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start).Round(time.Millisecond),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newAPIError(resp.StatusCode, rel.String(), body)
	}
	return body, nil
}

// parseBaseURL normalizes the configured API root so relative endpoint
// paths resolve beneath it.
func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base_url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse base_url %q: missing host", raw)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pkt.systems/docqa"
)

const (
	processDocumentPath = "/api/v1/process-document"
	queryPath           = "/api/v1/query"
	queryStreamPath     = "/api/v1/query/stream"
	collectionsPath     = "/api/v1/collections/"

	// maxErrorBody bounds how much of an error response is read.
	maxErrorBody = 1 << 20
)

// Client calls the question-answering API.
type Client struct {
	base    *url.URL
	http    *http.Client
	log     *slog.Logger
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger for request diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithTimeout bounds upload, query and collection calls. Streaming queries
// are bounded only by their context. Zero disables the timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// New returns a Client for the API at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, fmt.Errorf("client: base URL is required")
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("client: parse base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("client: unsupported scheme %q", u.Scheme)
	}
	c := &Client{
		base: u,
		http: http.DefaultClient,
		log:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// BaseURL returns the API base URL.
func (c *Client) BaseURL() string {
	return c.base.String()
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawPath = ""
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return context.WithCancel(ctx)
}

// ProcessDocument uploads a document for companyID. name is the file name
// reported to the server.
func (c *Client) ProcessDocument(ctx context.Context, companyID, name string, r io.Reader) (*UploadResult, error) {
	companyID = strings.TrimSpace(companyID)
	if err := requireCompany(companyID); err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("client: please select a file")
	}
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return nil, fmt.Errorf("client: upload: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("client: upload: read document: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("client: upload: %w", err)
	}

	ctx, cancel := c.bounded(ctx)
	defer cancel()
	endpoint := c.endpoint(processDocumentPath, url.Values{"company_id": {companyID}})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("client: upload: build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	raw, err := c.do(req, "Upload failed")
	if err != nil {
		return nil, err
	}
	res := &UploadResult{Raw: raw}
	if err := json.Unmarshal(raw, res); err != nil {
		return nil, fmt.Errorf("client: upload: decode response: %w", err)
	}
	c.log.Debug("document processed", "company", companyID, "file", name, "chunks", res.ChunksCount)
	return res, nil
}

// Query asks query against the documents of companyID and waits for the
// complete answer.
func (c *Client) Query(ctx context.Context, companyID, query string) (*QueryResult, error) {
	req, err := c.queryRequest(ctx, queryPath, companyID, query)
	if err != nil {
		return nil, err
	}
	ctx, cancel := c.bounded(req.Context())
	defer cancel()
	raw, err := c.do(req.WithContext(ctx), "Query failed")
	if err != nil {
		return nil, err
	}
	res := &QueryResult{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return res, nil
	}
	if err := json.Unmarshal(raw, res); err != nil {
		return nil, fmt.Errorf("client: query: decode response: %w", err)
	}
	return res, nil
}

// QueryStream asks query and returns the answer as a byte stream. The caller
// must Close the returned Source.
func (c *Client) QueryStream(ctx context.Context, companyID, query string) (docqa.Source, error) {
	req, err := c.queryRequest(ctx, queryStreamPath, companyID, query)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client: stream query: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, apiError(resp, "Streaming query failed")
	}
	c.log.Debug("stream opened", "status", resp.StatusCode)
	return docqa.NewHTTPSource(resp)
}

// CollectionInfo returns the collection description for companyID as the
// server sent it.
func (c *Client) CollectionInfo(ctx context.Context, companyID string) (json.RawMessage, error) {
	companyID = strings.TrimSpace(companyID)
	if err := requireCompany(companyID); err != nil {
		return nil, err
	}
	ctx, cancel := c.bounded(ctx)
	defer cancel()
	// The company ID is one path segment even when it contains a slash.
	u := *c.base
	u.Path = strings.TrimRight(c.base.Path, "/") + collectionsPath + companyID
	u.RawPath = strings.TrimRight(c.base.EscapedPath(), "/") + collectionsPath + url.PathEscape(companyID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("client: collection info: build request: %w", err)
	}
	raw, err := c.do(req, "Collection info failed")
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}

func (c *Client) queryRequest(ctx context.Context, path, companyID, query string) (*http.Request, error) {
	companyID = strings.TrimSpace(companyID)
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("client: please enter a query")
	}
	if err := requireCompany(companyID); err != nil {
		return nil, err
	}
	payload, err := json.Marshal(QueryRequest{CompanyID: companyID, Query: query})
	if err != nil {
		return nil, fmt.Errorf("client: encode query: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path, nil), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// do sends req and returns the body of a 2xx response.
func (c *Client) do(req *http.Request, fallback string) ([]byte, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	c.log.Debug("api response", "method", req.Method, "path", req.URL.Path, "status", resp.StatusCode, "elapsed", time.Since(start))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apiError(resp, fallback)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("client: read response: %w", err)
	}
	return raw, nil
}

func apiError(resp *http.Response, fallback string) *APIError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &APIError{
		StatusCode: resp.StatusCode,
		Detail:     detailOf(body, fallback),
		Body:       body,
	}
}

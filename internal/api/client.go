// Package api is the HTTP client for the to-do backend.
package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"

	"github.com/nibzard/todocard-go/internal/todo"
)

// DefaultBaseURL is the backend origin used when none is configured.
const DefaultBaseURL = "https://localhost:3333"

// DefaultTimeout bounds a single request.
const DefaultTimeout = 10 * time.Second

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// maxErrorBody caps how much of an error response is kept.
const maxErrorBody = 4 << 10

// ErrNotFound is matched by errors.Is for 404 responses.
var ErrNotFound = errors.New("not found")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Is reports 404 responses as ErrNotFound.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Options configures a Client.
type Options struct {
	BaseURL string
	Timeout time.Duration
	// InsecureSkipVerify accepts self-signed certificates on local backends.
	InsecureSkipVerify bool
	// HTTPClient overrides the transport. Its Jar is replaced when nil.
	HTTPClient *http.Client
	Logger     *log.Logger
}

// Client calls the to-do backend. Session cookies are kept in a jar and sent
// with every request.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  *log.Logger
}

// New creates a Client.
func New(opts Options) (*Client, error) {
	raw := strings.TrimSpace(opts.BaseURL)
	if raw == "" {
		raw = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", raw)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("base url %q: missing host", raw)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if opts.InsecureSkipVerify {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		}
		httpClient = &http.Client{Timeout: timeout, Transport: transport}
	}
	if httpClient.Jar == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
		httpClient.Jar = jar
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Client{
		baseURL: base,
		http:    httpClient,
		logger:  logger,
	}, nil
}

// BaseURL returns the backend origin.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// GetDetail fetches the full task for id.
func (c *Client) GetDetail(ctx context.Context, id string) (todo.Detail, error) {
	body, err := c.do(ctx, http.MethodGet, itemPath(id, "detail"), nil, nil)
	if err != nil {
		return todo.Detail{}, err
	}
	detail, err := todo.DecodeDetail(body)
	if err != nil {
		return todo.Detail{}, fmt.Errorf("detail %s: %w", id, err)
	}
	return detail, nil
}

// SetCompleted sets the completion flag of id.
func (c *Client) SetCompleted(ctx context.Context, id string, completed bool) error {
	_, err := c.do(ctx, http.MethodPut, itemPath(id, "complete"), nil, todo.CompleteRequest{IsCompleted: completed})
	return err
}

// ListItems fetches the summaries shown for params.
func (c *Client) ListItems(ctx context.Context, params todo.Params) ([]todo.Summary, error) {
	query := url.Values{}
	query.Set("isDeleted", strconv.FormatBool(params.IsDeleted))
	body, err := c.do(ctx, http.MethodGet, "/to-do-item", query, nil)
	if err != nil {
		return nil, err
	}
	items, err := todo.DecodeSummaries(body)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// UpdateItem saves the title and content of id.
func (c *Client) UpdateItem(ctx context.Context, id string, req todo.UpdateRequest) error {
	_, err := c.do(ctx, http.MethodPut, itemPath(id, ""), nil, req)
	return err
}

// DeleteItem deletes id.
func (c *Client) DeleteItem(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, itemPath(id, ""), nil, nil)
	return err
}

func itemPath(id, action string) string {
	p := "/to-do-item/" + url.PathEscape(id)
	if action != "" {
		p += "/" + action
	}
	return p
}

// do sends one request and returns the response body of a 2xx reply.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	// path is already escaped by itemPath.
	target := c.baseURL.String() + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "request_id", requestID, "method", method, "path", path, "err", err)
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s %s: %w", method, path, err)
	}
	c.logger.Debug("request",
		"request_id", requestID,
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start).Round(time.Millisecond),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}
	return body, nil
}

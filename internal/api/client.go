// Package api is the client for the iSee industrial-asset-monitoring web API:
// two-step bearer login, asset hierarchy and telemetry reads, and the
// create/patch/delete calls guarded by If-Match concurrency tokens.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"iseesync/internal/logging"
)

const (
	// DefaultPageSize is the page size used for collection endpoints.
	DefaultPageSize = 1000
	// DefaultPageWorkers caps concurrent page fetches. Fixed, independent of
	// page count.
	DefaultPageWorkers = 10
)

// Client is an authenticated session against one iSee server. It owns the
// base URL, the bearer token and the HTTP transport; pass it by reference to
// every operation. The token is set once during Login, before any
// request-issuing concurrency begins.
type Client struct {
	baseURL     string
	username    string
	password    string
	http        *resty.Client
	pageSize    int
	pageWorkers int
}

// NewClient creates a client for the given server base URL. Call Login
// before any other method.
func NewClient(baseURL, username, password string) *Client {
	client := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		username:    username,
		password:    password,
		pageSize:    DefaultPageSize,
		pageWorkers: DefaultPageWorkers,
	}

	// Retries are restricted to GETs so that a flaky 5xx can never
	// double-submit a create or delete.
	client.http = resty.New().
		SetBaseURL(client.baseURL).
		SetHeader("Accept", "application/json").
		SetHeader("Accept-Language", "en").
		SetTimeout(120 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if r == nil || r.Request.Method != http.MethodGet {
				return false
			}
			return r.StatusCode() == http.StatusTooManyRequests ||
				(r.StatusCode() >= 500 && r.StatusCode() <= 504)
		})

	return client
}

// SetPageSize overrides the page size for paginated endpoints.
func (c *Client) SetPageSize(size int) {
	if size > 0 {
		c.pageSize = size
	}
}

// SetPageWorkers overrides the concurrent page-fetch cap.
func (c *Client) SetPageWorkers(workers int) {
	if workers > 0 {
		c.pageWorkers = workers
	}
}

// SetTimeout allows customizing the timeout for specific operations
func (c *Client) SetTimeout(timeout time.Duration) {
	c.http.SetTimeout(timeout)
}

// BaseURL returns the server base URL the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// request performs one API call. A non-2xx response becomes an *APIError.
// On 2xx the body is decoded into out when out is non-nil; if the body is
// not valid JSON the raw text is returned instead of an error, since a few
// endpoints occasionally answer plain text.
func (c *Client) request(ctx context.Context, method, endpoint string, params map[string]string, ifMatch string, body, out any) (string, error) {
	req := c.http.R().SetContext(ctx)
	if params != nil {
		req.SetQueryParams(params)
	}
	if ifMatch != "" {
		req.SetHeader("If-Match", ifMatch)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	resp, err := req.Execute(method, endpoint)
	if err != nil {
		return "", fmt.Errorf("request to %s failed: %w", endpoint, err)
	}

	if !resp.IsSuccess() {
		return "", &APIError{
			StatusCode: resp.StatusCode(),
			Status:     resp.Status(),
			Body:       strings.TrimSpace(resp.String()),
			Endpoint:   endpoint,
		}
	}

	raw := resp.Body()
	if out == nil || len(raw) == 0 {
		return string(raw), nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		logging.Debug().Str("endpoint", endpoint).Err(err).Msg("response is not JSON, returning raw text")
		return string(raw), nil
	}
	return "", nil
}

func (c *Client) get(ctx context.Context, endpoint string, params map[string]string, out any) error {
	_, err := c.request(ctx, http.MethodGet, endpoint, params, "", nil, out)
	return err
}

func (c *Client) post(ctx context.Context, endpoint string, body, out any) error {
	_, err := c.request(ctx, http.MethodPost, endpoint, nil, "", body, out)
	return err
}

// uploadFile posts a multipart file and decodes the JSON response into out.
func (c *Client) uploadFile(ctx context.Context, endpoint, fieldName, fileName string, reader io.Reader, out any) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetFileReader(fieldName, fileName, reader).
		Post(endpoint)
	if err != nil {
		return fmt.Errorf("upload to %s failed: %w", endpoint, err)
	}
	if !resp.IsSuccess() {
		return &APIError{
			StatusCode: resp.StatusCode(),
			Status:     resp.Status(),
			Body:       strings.TrimSpace(resp.String()),
			Endpoint:   endpoint,
		}
	}
	if out != nil {
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return fmt.Errorf("failed to parse upload response: %w", err)
		}
	}
	return nil
}

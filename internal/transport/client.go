// Package transport is the HTTP client every backend call goes through. Requests pass the
// interceptor chain; failures come back as *apierror.Error.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"admin-console/desktop/internal/apierror"
	"admin-console/desktop/internal/transport/interceptors"
)

const defaultTimeout = 30 * time.Second

// Response is a successful (2xx) backend response. Data is the payload with any
// {data, status, statusText} envelope removed.
type Response struct {
	Data       json.RawMessage
	Status     int
	StatusText string
}

// API is the request surface repositories depend on. *Client implements it.
type API interface {
	Get(ctx context.Context, path string, out any) (*Response, error)
	Post(ctx context.Context, path string, in, out any) (*Response, error)
	Put(ctx context.Context, path string, in, out any) (*Response, error)
	Delete(ctx context.Context, path string) (*Response, error)
}

var _ API = (*Client)(nil)

// Client sends JSON requests relative to a base URL.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
}

// Options configures a Client.
type Options struct {
	BaseURL      string
	Timeout      time.Duration     // per request; 0 means 30s
	Transport    http.RoundTripper // nil means http.DefaultTransport
	Interceptors []interceptors.Interceptor
}

// NewClient returns a Client sending through opts.Interceptors in order.
func NewClient(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("transport: invalid base URL %q", opts.BaseURL)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: base,
		timeout: timeout,
		http:    &http.Client{Transport: interceptors.Chain(opts.Transport, opts.Interceptors...)},
	}, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Do sends in (JSON-encoded, may be nil) to path and decodes a 2xx body into out (may be nil).
// Every failure is an *apierror.Error.
func (c *Client) Do(ctx context.Context, method, path string, in, out any) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	route := "/" + strings.TrimLeft(path, "/")
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, &apierror.Error{Code: apierror.CodeUnknown, Message: "Could not encode the request.", Raw: err}
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(interceptors.WithRoute(ctx, route), method, c.baseURL+route, body)
	if err != nil {
		return nil, &apierror.Error{Code: apierror.CodeUnknown, Message: "Could not build the request.", Raw: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apierror.FromTransport(ctx, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apierror.FromTransport(ctx, err)
	}
	statusText := statusText(resp)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apierror.FromResponse(resp.StatusCode, statusText, data)
	}
	data = unwrapEnvelope(data)
	if out != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return nil, &apierror.Error{
				Code:    apierror.CodeUnknown,
				Message: "The server returned an unexpected response.",
				Status:  resp.StatusCode,
				Raw:     string(data),
			}
		}
	}
	return &Response{Data: data, Status: resp.StatusCode, StatusText: statusText}, nil
}

// envelopeKeys are the fields allowed next to "data" in a {data, status, statusText} envelope.
var envelopeKeys = map[string]bool{"data": true, "status": true, "statusText": true, "message": true, "msg": true, "success": true}

// unwrapEnvelope returns the "data" member of an envelope body, or body unchanged when it is
// not an envelope.
func unwrapEnvelope(body []byte) []byte {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return body
	}
	inner, ok := obj["data"]
	if !ok {
		return body
	}
	for k := range obj {
		if !envelopeKeys[k] {
			return body
		}
	}
	return inner
}

// statusText returns the reason phrase without the numeric prefix ("404 Not Found" -> "Not Found").
func statusText(resp *http.Response) string {
	s := strings.TrimSpace(resp.Status)
	if i := strings.IndexByte(s, ' '); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return http.StatusText(resp.StatusCode)
}

// Get sends GET path and decodes into out.
func (c *Client) Get(ctx context.Context, path string, out any) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post sends POST path with in and decodes into out.
func (c *Client) Post(ctx context.Context, path string, in, out any) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, in, out)
}

// Put sends PUT path with in and decodes into out.
func (c *Client) Put(ctx context.Context, path string, in, out any) (*Response, error) {
	return c.Do(ctx, http.MethodPut, path, in, out)
}

// Delete sends DELETE path.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// WithQuery appends q to path, skipping empty values.
func WithQuery(path string, q url.Values) string {
	clean := url.Values{}
	for k, vs := range q {
		for _, v := range vs {
			if v != "" {
				clean.Add(k, v)
			}
		}
	}
	if len(clean) == 0 {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + clean.Encode()
}

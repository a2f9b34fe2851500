package httpclient

import (
	"context"
	"net/http"
	"time"
)

// RequestOption customizes a single request issued through the verb
// helpers.
type RequestOption func(*Request)

// WithHeader sets one header on the request.
func WithHeader(key, value string) RequestOption {
	return func(r *Request) {
		if r.Headers == nil {
			r.Headers = map[string]string{}
		}
		r.Headers[key] = value
	}
}

// WithQuery sets one query parameter on the request.
func WithQuery(key, value string) RequestOption {
	return func(r *Request) {
		if r.Query == nil {
			r.Query = map[string]string{}
		}
		r.Query[key] = value
	}
}

// WithRequestTimeout overrides the client timeout for this request.
func WithRequestTimeout(d time.Duration) RequestOption {
	return func(r *Request) { r.Timeout = d }
}

// Get issues a GET request against path.
func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.verb(ctx, http.MethodGet, path, nil, opts)
}

// Post issues a POST request with body against path.
func (c *Client) Post(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.verb(ctx, http.MethodPost, path, body, opts)
}

// Put issues a PUT request with body against path.
func (c *Client) Put(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.verb(ctx, http.MethodPut, path, body, opts)
}

// Patch issues a PATCH request with body against path.
func (c *Client) Patch(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.verb(ctx, http.MethodPatch, path, body, opts)
}

// Delete issues a DELETE request against path.
func (c *Client) Delete(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.verb(ctx, http.MethodDelete, path, nil, opts)
}

// Head issues a HEAD request against path.
func (c *Client) Head(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.verb(ctx, http.MethodHead, path, nil, opts)
}

// Options issues an OPTIONS request against path.
func (c *Client) Options(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.verb(ctx, http.MethodOptions, path, nil, opts)
}

// GetJSON issues a GET request and decodes the response body into out.
func (c *Client) GetJSON(ctx context.Context, path string, out any, opts ...RequestOption) error {
	resp, err := c.Get(ctx, path, opts...)
	if err != nil {
		return err
	}
	return resp.JSON(out)
}

// PostJSON issues a POST request and decodes the response body into
// out.
func (c *Client) PostJSON(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	resp, err := c.Post(ctx, path, body, opts...)
	if err != nil {
		return err
	}
	return resp.JSON(out)
}

func (c *Client) verb(ctx context.Context, method, path string, body any, opts []RequestOption) (*Response, error) {
	req := Request{Method: method, Path: path, Body: body}
	for _, opt := range opts {
		opt(&req)
	}
	return c.Do(ctx, req)
}

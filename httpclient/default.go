package httpclient

import (
	"context"
	"sync"
)

var (
	defaultMu     sync.Mutex
	defaultClient *Client
)

// Default returns the shared package-level client, creating it with an
// all-defaults configuration on first use. Code that needs specific
// behavior should construct its own Client with New.
func Default() *Client {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultClient == nil {
		// An all-defaults config cannot fail validation.
		c, err := New(Config{Name: "default"})
		if err != nil {
			panic("httpclient: default client construction failed: " + err.Error())
		}
		defaultClient = c
	}
	return defaultClient
}

// SetDefault replaces the shared client. Passing nil resets to lazy
// construction on the next Default call.
func SetDefault(c *Client) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultClient = c
}

// ResetDefault closes and discards the shared client. The next Default
// call builds a fresh one. Mainly useful in tests.
func ResetDefault() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultClient != nil {
		_ = defaultClient.Close(context.Background())
		defaultClient = nil
	}
}

// Get issues a GET request through the default client.
func Get(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return Default().Get(ctx, path, opts...)
}

// Post issues a POST request through the default client.
func Post(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return Default().Post(ctx, path, body, opts...)
}

// Put issues a PUT request through the default client.
func Put(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return Default().Put(ctx, path, body, opts...)
}

// Patch issues a PATCH request through the default client.
func Patch(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return Default().Patch(ctx, path, body, opts...)
}

// Delete issues a DELETE request through the default client.
func Delete(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return Default().Delete(ctx, path, opts...)
}

// Head issues a HEAD request through the default client.
func Head(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return Default().Head(ctx, path, opts...)
}

// Options issues an OPTIONS request through the default client.
func Options(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return Default().Options(ctx, path, opts...)
}

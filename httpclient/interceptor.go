package httpclient

import (
	"context"
	"sync"
)

// RequestInterceptor can inspect and mutate a request before it is
// sent. Returning an error aborts the request; the error flows through
// the normal failure path.
type RequestInterceptor func(ctx context.Context, req *Request) error

// ResponseInterceptor can inspect and mutate a successful response
// before it is returned to the caller. Returning an error converts the
// response into a failure.
type ResponseInterceptor func(ctx context.Context, resp *Response) error

type interceptorEntry[T any] struct {
	id int
	fn T
}

// interceptorChain holds interceptors in registration order and hands
// out removal ids.
type interceptorChain[T any] struct {
	mu      sync.RWMutex
	nextID  int
	entries []interceptorEntry[T]
}

func (c *interceptorChain[T]) add(fn T) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	c.entries = append(c.entries, interceptorEntry[T]{id: c.nextID, fn: fn})
	return c.nextID
}

func (c *interceptorChain[T]) remove(id int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, e := range c.entries {
		if e.id == id {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			return true
		}
	}
	return false
}

// snapshot copies the current functions so a chain can run without
// holding the lock.
func (c *interceptorChain[T]) snapshot() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.fn
	}
	return out
}

// AddRequestInterceptor registers fn to run before every request, in
// registration order. The returned id removes it again.
func (c *Client) AddRequestInterceptor(fn RequestInterceptor) int {
	return c.reqInterceptors.add(fn)
}

// RemoveRequestInterceptor removes a previously registered request
// interceptor. It reports whether the id was known.
func (c *Client) RemoveRequestInterceptor(id int) bool {
	return c.reqInterceptors.remove(id)
}

// AddResponseInterceptor registers fn to run on every successful
// response, in registration order. The returned id removes it again.
func (c *Client) AddResponseInterceptor(fn ResponseInterceptor) int {
	return c.respInterceptors.add(fn)
}

// RemoveResponseInterceptor removes a previously registered response
// interceptor. It reports whether the id was known.
func (c *Client) RemoveResponseInterceptor(id int) bool {
	return c.respInterceptors.remove(id)
}

func (c *Client) applyRequestInterceptors(ctx context.Context, req *Request) error {
	for _, fn := range c.reqInterceptors.snapshot() {
		if err := fn(ctx, req); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) applyResponseInterceptors(ctx context.Context, resp *Response) error {
	for _, fn := range c.respInterceptors.snapshot() {
		if err := fn(ctx, resp); err != nil {
			return err
		}
	}
	return nil
}

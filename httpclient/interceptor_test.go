package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestRequestInterceptors_RunInRegistrationOrder(t *testing.T) {
	var gotHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-Order")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(t, Config{Name: "test", BaseURL: srv.URL})

	var order []string
	c.AddRequestInterceptor(func(_ context.Context, req *Request) error {
		order = append(order, "first")
		if req.Headers == nil {
			req.Headers = map[string]string{}
		}
		req.Headers["X-Order"] = "first"
		return nil
	})
	c.AddRequestInterceptor(func(_ context.Context, req *Request) error {
		order = append(order, "second")
		req.Headers["X-Order"] = req.Headers["X-Order"] + ",second"
		return nil
	})

	if _, err := c.Get(context.Background(), "/x"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("order = %v", order)
	}
	if gotHeader != "first,second" {
		t.Errorf("header = %q, mutations must accumulate in order", gotHeader)
	}
}

func TestRequestInterceptor_Remove(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(t, Config{Name: "test", BaseURL: srv.URL})

	var calls atomic.Int64
	id := c.AddRequestInterceptor(func(context.Context, *Request) error {
		calls.Add(1)
		return nil
	})

	if _, err := c.Get(context.Background(), "/x"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !c.RemoveRequestInterceptor(id) {
		t.Fatal("remove reported unknown id")
	}
	if c.RemoveRequestInterceptor(id) {
		t.Error("second remove must report false")
	}
	if _, err := c.Get(context.Background(), "/x"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, removed interceptor must not run", calls.Load())
	}
}

func TestRequestInterceptor_ErrorAbortsRequest(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(t, Config{Name: "test", BaseURL: srv.URL})
	c.AddRequestInterceptor(func(context.Context, *Request) error {
		return NewClientError(0, "missing credentials", nil)
	})

	_, err := c.Get(context.Background(), "/x")
	if !IsClientError(err) {
		t.Fatalf("expected the interceptor error, got %v", err)
	}
	if hits.Load() != 0 {
		t.Errorf("transport hits = %d, aborted request must not send", hits.Load())
	}
}

func TestResponseInterceptor_MutatesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("raw"))
	}))
	defer srv.Close()

	c := newTestClient(t, Config{Name: "test", BaseURL: srv.URL})
	c.AddResponseInterceptor(func(_ context.Context, resp *Response) error {
		resp.Body = []byte("rewritten")
		return nil
	})

	resp, err := c.Get(context.Background(), "/x")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(resp.Body) != "rewritten" {
		t.Errorf("body = %q", resp.Body)
	}
}

func TestResponseInterceptor_ErrorFailsRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(t, Config{Name: "test", BaseURL: srv.URL})
	c.AddResponseInterceptor(func(context.Context, *Response) error {
		return errors.New("payload signature mismatch")
	})

	_, err := c.Get(context.Background(), "/x")
	if err == nil {
		t.Fatal("expected the interceptor error to surface")
	}
	var e *Error
	if !errors.As(err, &e) {
		t.Errorf("interceptor errors must come back classified, got %T", err)
	}
}

func TestResponseInterceptor_Remove(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(t, Config{Name: "test", BaseURL: srv.URL})

	var calls int
	id := c.AddResponseInterceptor(func(context.Context, *Response) error {
		calls++
		return nil
	})
	if !c.RemoveResponseInterceptor(id) {
		t.Fatal("remove reported unknown id")
	}
	if _, err := c.Get(context.Background(), "/x"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if calls != 0 {
		t.Errorf("calls = %d, removed interceptor must not run", calls)
	}
}

package httpclient

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strings"
	"time"
)

// Request describes a single HTTP request to be executed by a Client.
// Body may be nil, a []byte, a string, an io.Reader or any value that
// encodes to JSON. Reader bodies are consumed by the first attempt, so
// requests that may be retried should use one of the other forms.
type Request struct {
	Method  string
	Path    string
	Headers map[string]string
	Query   map[string]string
	Body    any

	// Timeout overrides the client timeout for this request. Zero
	// means use the client default.
	Timeout time.Duration
}

// Response is the result of a completed request. Body is fully read
// and the underlying connection released before the Response is
// returned to the caller.
type Response struct {
	StatusCode int
	Status     string
	Headers    map[string]string
	Body       []byte

	// Duration covers the final attempt only, not time spent in
	// earlier attempts or backoff delays.
	Duration time.Duration
}

// JSON decodes the response body into v using encoding/json.
func (r *Response) JSON(v any) error {
	return decodeJSON(r.Body, v)
}

// IsSuccess reports whether the status code is in the 2xx range.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsError reports whether the status code is in the 4xx or 5xx range.
func (r *Response) IsError() bool {
	return r.StatusCode >= 400
}

// URL resolves the request path against baseURL and appends query
// parameters. A path that is itself an absolute URL is used as is.
func (r *Request) URL(baseURL string) (string, error) {
	raw := r.Path
	if !isAbsoluteURL(raw) && baseURL != "" {
		raw = strings.TrimSuffix(baseURL, "/") + "/" + strings.TrimPrefix(raw, "/")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if len(r.Query) > 0 {
		q := u.Query()
		for k, v := range r.Query {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func decodeJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

func isAbsoluteURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// clone returns a deep copy of the request so interceptors and retry
// bookkeeping never mutate the caller's value.
func (r Request) clone() Request {
	out := r
	if r.Headers != nil {
		out.Headers = make(map[string]string, len(r.Headers))
		for k, v := range r.Headers {
			out.Headers[k] = v
		}
	}
	if r.Query != nil {
		out.Query = make(map[string]string, len(r.Query))
		for k, v := range r.Query {
			out.Query[k] = v
		}
	}
	return out
}

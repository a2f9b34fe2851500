package httpclient

import (
	"strings"
	"testing"
	"time"
)

func TestRequestKey_Stable(t *testing.T) {
	req := Request{
		Method: "POST",
		Path:   "/orders",
		Query:  map[string]string{"b": "2", "a": "1"},
		Body:   map[string]any{"zeta": 1, "alpha": 2},
	}
	first := RequestKey("https://api.example.com", req)
	second := RequestKey("https://api.example.com", req)
	if first != second {
		t.Error("identical requests must share a key")
	}
	if len(first) != 32 {
		t.Errorf("key length = %d, want 32 hex chars", len(first))
	}
}

func TestRequestKey_IgnoresHeadersAndTimeout(t *testing.T) {
	base := Request{Method: "GET", Path: "/orders"}
	withExtras := Request{
		Method:  "GET",
		Path:    "/orders",
		Headers: map[string]string{"Authorization": "Bearer xyz"},
		Timeout: 5 * time.Second,
	}
	if RequestKey("", base) != RequestKey("", withExtras) {
		t.Error("headers and timeout must not affect the key")
	}
}

func TestRequestKey_Discriminates(t *testing.T) {
	base := Request{Method: "GET", Path: "/orders"}
	variants := []Request{
		{Method: "POST", Path: "/orders"},
		{Method: "GET", Path: "/orders/1"},
		{Method: "GET", Path: "/orders", Query: map[string]string{"page": "2"}},
		{Method: "GET", Path: "/orders", Body: "x"},
	}
	baseKey := RequestKey("https://api.example.com", base)
	for i, v := range variants {
		if RequestKey("https://api.example.com", v) == baseKey {
			t.Errorf("variant %d unexpectedly shares the base key", i)
		}
	}
}

func TestRequestKey_BaseURLResolution(t *testing.T) {
	rel := Request{Method: "GET", Path: "/orders"}
	abs := Request{Method: "GET", Path: "https://api.example.com/orders"}
	if RequestKey("https://api.example.com", rel) != RequestKey("", abs) {
		t.Error("resolved relative path must match the absolute form")
	}
}

func TestRequestKey_BodyTruncation(t *testing.T) {
	prefix := strings.Repeat("a", keyBodyLimit)
	one := Request{Method: "POST", Path: "/upload", Body: prefix + "tail-one"}
	two := Request{Method: "POST", Path: "/upload", Body: prefix + "tail-two"}
	if RequestKey("", one) != RequestKey("", two) {
		t.Error("bodies differing only beyond the limit must share a key")
	}

	short := Request{Method: "POST", Path: "/upload", Body: "different"}
	if RequestKey("", one) == RequestKey("", short) {
		t.Error("bodies differing within the limit must not share a key")
	}
}

func TestRequestKey_MapOrderIndependent(t *testing.T) {
	// json.Marshal sorts map keys, so two maps with the same pairs
	// hash identically no matter the insertion order.
	a := map[string]any{"x": 1, "y": 2, "z": 3}
	b := map[string]any{"z": 3, "x": 1, "y": 2}
	ra := Request{Method: "POST", Path: "/p", Body: a}
	rb := Request{Method: "POST", Path: "/p", Body: b}
	if RequestKey("", ra) != RequestKey("", rb) {
		t.Error("logically equal JSON bodies must share a key")
	}
}

package httpclient

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"sort"
	"strings"
)

// keyBodyLimit caps how much of the request body contributes to the
// identity key. Bodies that differ only beyond this prefix map to the
// same key, which is acceptable for retry correlation.
const keyBodyLimit = 1024

// RequestKey derives a stable identity for a request from its method,
// resolved URL, sorted query parameters and a bounded body prefix.
// Requests that differ only in timeout or headers share a key, so a
// retried request finds its existing retry state.
func RequestKey(baseURL string, req Request) string {
	h := sha256.New()
	io.WriteString(h, strings.ToUpper(req.Method))
	io.WriteString(h, "\x00")

	target := req.Path
	if !isAbsoluteURL(target) && baseURL != "" {
		target = strings.TrimSuffix(baseURL, "/") + "/" + strings.TrimPrefix(target, "/")
	}
	io.WriteString(h, target)
	io.WriteString(h, "\x00")

	if len(req.Query) > 0 {
		keys := make([]string, 0, len(req.Query))
		for k := range req.Query {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			io.WriteString(h, k)
			io.WriteString(h, "=")
			io.WriteString(h, req.Query[k])
			io.WriteString(h, "&")
		}
	}
	io.WriteString(h, "\x00")

	h.Write(keyBody(req.Body))

	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:16])
}

// keyBody renders the body into canonical bytes. JSON marshaling sorts
// map keys, so logically equal bodies hash identically regardless of
// construction order.
func keyBody(body any) []byte {
	var raw []byte
	switch b := body.(type) {
	case nil:
		return nil
	case []byte:
		raw = b
	case string:
		raw = []byte(b)
	default:
		encoded, err := json.Marshal(b)
		if err != nil {
			return nil
		}
		raw = encoded
	}
	if len(raw) > keyBodyLimit {
		raw = raw[:keyBodyLimit]
	}
	return raw
}

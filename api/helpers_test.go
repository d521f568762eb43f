package api

import (
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
)

const testToken = "test-token"

// newTestClient creates a client pointed at an httptest server.
func newTestClient(serverURL string) *Client {
	return New(serverURL, testToken)
}

// capturedRequest is what a capture server saw.
type capturedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// JSONBody decodes the captured body as a JSON object.
func (c capturedRequest) JSONBody(t *testing.T) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(c.Body, &body); err != nil {
		t.Fatalf("body is not a JSON object: %v (%q)", err, c.Body)
	}
	return body
}

// MultipartForm parses the captured body as multipart/form-data.
func (c capturedRequest) MultipartForm(t *testing.T) *multipart.Form {
	t.Helper()
	mediaType, params, err := mime.ParseMediaType(c.Header.Get("Content-Type"))
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		t.Fatalf("expected multipart content type, got %q", c.Header.Get("Content-Type"))
	}
	form, err := multipart.NewReader(strings.NewReader(string(c.Body)), params["boundary"]).ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("failed to parse multipart body: %v", err)
	}
	return form
}

// captureServer records every request and answers with status and body.
type captureServer struct {
	*httptest.Server
	mu       sync.Mutex
	requests []capturedRequest
}

func newCaptureServer(t *testing.T, status int, body string) *captureServer {
	t.Helper()
	cs := &captureServer{}
	cs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		cs.mu.Lock()
		cs.requests = append(cs.requests, capturedRequest{
			Method: r.Method,
			Path:   r.URL.EscapedPath(),
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
			Body:   data,
		})
		cs.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(cs.Close)
	return cs
}

func (cs *captureServer) client() *Client {
	return newTestClient(cs.URL)
}

func (cs *captureServer) last(t *testing.T) capturedRequest {
	t.Helper()
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if len(cs.requests) == 0 {
		t.Fatal("server received no requests")
	}
	return cs.requests[len(cs.requests)-1]
}

func (cs *captureServer) count() int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return len(cs.requests)
}

// expectCall asserts the verb and escaped path of a captured request.
func expectCall(t *testing.T, got capturedRequest, method, path string) {
	t.Helper()
	if got.Method != method {
		t.Errorf("Expected %s, got %s", method, got.Method)
	}
	if got.Path != path {
		t.Errorf("Expected path %s, got %s", path, got.Path)
	}
}

// expectKeys asserts the exact set of keys in a JSON body.
func expectKeys(t *testing.T, body map[string]any, keys ...string) {
	t.Helper()
	if len(body) != len(keys) {
		t.Errorf("Expected keys %v, got %v", keys, body)
	}
	for _, k := range keys {
		if _, ok := body[k]; !ok {
			t.Errorf("Expected key %q in body %v", k, body)
		}
	}
}

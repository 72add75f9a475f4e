// package testing contains shared testing utilities
package testing

import (
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

// TokenServer is a fake client-credentials endpoint that accepts a single id/secret pair.
type TokenServer struct {
	*httptest.Server
	hits int32
}

// Hits returns the number of token requests served.
func (s *TokenServer) Hits() int {
	return int(atomic.LoadInt32(&s.hits))
}

func NewTokenServer(t *testing.T, clientID, clientSecret string) *TokenServer {
	t.Helper()

	want := "Basic " + base64.StdEncoding.EncodeToString([]byte(clientID+":"+clientSecret))
	ts := &TokenServer{}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&ts.hits, 1)
		w.Header().Set("Content-Type", "application/json")

		if r.Header.Get("Authorization") != want {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_client","error_description":"Invalid client"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"test-token","token_type":"Bearer","expires_in":3600}`))
	}))
	t.Cleanup(ts.Close)
	return ts
}

// CatalogServer serves canned JSON bodies keyed by request path.
//
// Search requests are keyed as "/search?type=<kind>". Unknown paths get a 404 error body.
type CatalogServer struct {
	*httptest.Server
	hits int32

	mu      sync.Mutex
	queries []string
}

func (s *CatalogServer) Hits() int {
	return int(atomic.LoadInt32(&s.hits))
}

// Queries returns the q parameter of every search request, in order.
func (s *CatalogServer) Queries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.queries)
}

func NewCatalogServer(t *testing.T, routes map[string]string) *CatalogServer {
	t.Helper()

	cs := &CatalogServer{}
	cs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&cs.hits, 1)
		w.Header().Set("Content-Type", "application/json")

		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"status":401,"message":"No token provided"}}`))
			return
		}

		key := r.URL.Path
		if key == "/search" {
			key += "?type=" + r.URL.Query().Get("type")
			cs.mu.Lock()
			cs.queries = append(cs.queries, r.URL.Query().Get("q"))
			cs.mu.Unlock()
		}

		body, ok := routes[key]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"status":404,"message":"Resource not found"}}`))
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(cs.Close)
	return cs
}

// Prompter replays scripted answers in order. Password and Input share the queue.
type Prompter struct {
	Answers  []string
	Confirms []bool
	Asked    []string
}

func (p *Prompter) next(message string) (string, error) {
	p.Asked = append(p.Asked, message)
	if len(p.Answers) == 0 {
		return "", io.EOF
	}
	a := p.Answers[0]
	p.Answers = p.Answers[1:]
	return a, nil
}

func (p *Prompter) Input(message string) (string, error)    { return p.next(message) }
func (p *Prompter) Password(message string) (string, error) { return p.next(message) }

func (p *Prompter) Confirm(message string) (bool, error) {
	p.Asked = append(p.Asked, message)
	if len(p.Confirms) == 0 {
		return false, nil
	}
	c := p.Confirms[0]
	p.Confirms = p.Confirms[1:]
	return c, nil
}

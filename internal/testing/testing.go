// package testing contains shared testing utilities
package testing

import (
	"errors"
	"io"
	"net/http"
	"os"
	"testing"
)

// ErrInjected is returned by the failing doubles below unless they carry their own error.
var ErrInjected = errors.New("injected failure")

// FWriter fails every Write with Err, or [ErrInjected] when Err is nil.
type FWriter struct {
	Err error
}

func (f *FWriter) Write(p []byte) (int, error) {
	if f.Err != nil {
		return 0, f.Err
	}
	return 0, ErrInjected
}

// LimitedWriter forwards the first n writes to its target and fails the rest.
type LimitedWriter struct {
	remaining int
	target    io.Writer
}

// NewLimitedWriter allows n successful writes to target.
func NewLimitedWriter(n int, target io.Writer) *LimitedWriter {
	return &LimitedWriter{remaining: n, target: target}
}

func (l *LimitedWriter) Write(p []byte) (int, error) {
	if l.remaining <= 0 {
		return 0, ErrInjected
	}
	l.remaining--
	return l.target.Write(p)
}

// RoundTripFunc adapts a function to [http.RoundTripper].
type RoundTripFunc func(*http.Request) (*http.Response, error)

func (f RoundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// FailingTransport returns a transport whose every request fails with err.
func FailingTransport(err error) RoundTripFunc {
	return func(*http.Request) (*http.Response, error) {
		return nil, err
	}
}

// BrokenBodyTransport answers every request with status and a body that cannot be read.
func BrokenBodyTransport(status int) RoundTripFunc {
	return func(*http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: status, Header: http.Header{}, Body: brokenBody{}}, nil
	}
}

type brokenBody struct{}

func (brokenBody) Read([]byte) (int, error) { return 0, ErrInjected }
func (brokenBody) Close() error             { return nil }

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file %s: %v", path, err)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(content)
}

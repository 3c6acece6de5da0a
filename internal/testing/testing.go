// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/Qi-2007/musicgate/internal/models"
)

// MockService is a configurable test double for [services.Service]. Zero
// value returns empty results and no errors.
type MockService struct {
	ServiceName string

	SearchFunc      func(ctx context.Context, keyword string) ([]models.Track, error)
	ResolveLinkFunc func(ctx context.Context, id, bitrate string) (string, error)
	LyricFunc       func(ctx context.Context, id string) (*models.LyricDocument, error)
}

func (m *MockService) Search(ctx context.Context, keyword string) ([]models.Track, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, keyword)
	}
	return []models.Track{}, nil
}

func (m *MockService) ResolveLink(ctx context.Context, id, bitrate string) (string, error) {
	if m.ResolveLinkFunc != nil {
		return m.ResolveLinkFunc(ctx, id, bitrate)
	}
	return "", nil
}

func (m *MockService) Lyric(ctx context.Context, id string) (*models.LyricDocument, error) {
	if m.LyricFunc != nil {
		return m.LyricFunc(ctx, id)
	}
	return &models.LyricDocument{}, nil
}

func (m *MockService) Name() string {
	if m.ServiceName != "" {
		return m.ServiceName
	}
	return "mock"
}

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

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

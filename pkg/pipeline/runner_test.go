package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/resograph/resograph/pkg/cache"
	apperrors "github.com/resograph/resograph/pkg/errors"
)

const articlePayload = `{
	"data": {
		"type": "article", "id": "1",
		"attributes": {"title": "Pipelines"},
		"relationships": {"author": {"data": {"type": "person", "id": "9"}}}
	}
}`

func TestRunnerFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payload.json")
	if err := os.WriteFile(path, []byte(articlePayload), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewRunner(nil, nil)
	result, err := r.Run(context.Background(), path, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.ResourceCount != 1 {
		t.Errorf("ResourceCount = %d, want 1", result.ResourceCount)
	}
	if result.Store.Size() != 2 {
		t.Errorf("store size = %d, want 2 (article + person placeholder)", result.Store.Size())
	}
	if result.Sync.Record == nil || result.Sync.Record.ID() != "1" {
		t.Errorf("Sync.Record = %+v", result.Sync.Record)
	}
	if result.Cached {
		t.Error("file payloads are never cached")
	}
}

func TestRunnerMissingFile(t *testing.T) {
	r := NewRunner(nil, nil)
	_, err := r.Run(context.Background(), "/does/not/exist.json", Options{})
	if !apperrors.Is(err, apperrors.ErrCodeFileNotFound) {
		t.Fatalf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestRunnerFromURLUsesCache(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		calls.Add(1)
		w.Write([]byte(articlePayload))
	}))
	defer ts.Close()

	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil)
	r.Client = ts.Client()

	ctx := context.Background()
	first, err := r.Run(ctx, ts.URL, Options{})
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if first.Cached {
		t.Error("first run should not be cached")
	}

	second, err := r.Run(ctx, ts.URL, Options{})
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if !second.Cached {
		t.Error("second run should hit the cache")
	}
	if calls.Load() != 1 {
		t.Errorf("server calls = %d, want 1", calls.Load())
	}

	// Refresh evicts and refetches.
	third, err := r.Run(ctx, ts.URL, Options{Refresh: true})
	if err != nil {
		t.Fatalf("third Run: %v", err)
	}
	if third.Cached {
		t.Error("refresh run should not report cached")
	}
	if calls.Load() != 2 {
		t.Errorf("server calls = %d, want 2 after refresh", calls.Load())
	}
}

func TestRunnerErrorDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "errors.json")
	payload := `{"errors": [{"status": "500", "title": "upstream broken"}]}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewRunner(nil, nil)
	result, err := r.Run(context.Background(), path, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Sync.Errors) != 1 {
		t.Fatalf("Sync.Errors = %+v", result.Sync.Errors)
	}
	if result.Store.Size() != 0 {
		t.Errorf("error document must not touch the store, size = %d", result.Store.Size())
	}
}

func TestIsURL(t *testing.T) {
	tests := []struct {
		source string
		want   bool
	}{
		{"https://api.example.com/articles", true},
		{"http://localhost:8080/payload", true},
		{"articles.json", false},
		{"/var/data/articles.json", false},
		{"httpdocs/payload.json", false},
	}
	for _, tt := range tests {
		if got := IsURL(tt.source); got != tt.want {
			t.Errorf("IsURL(%q) = %v, want %v", tt.source, got, tt.want)
		}
	}
}

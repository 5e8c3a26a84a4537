package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/resograph/resograph/pkg/cache"
)

func TestCacheClearRemovesPayloads(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	dir, err := cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	for _, source := range []string{"https://a.example/doc", "https://b.example/doc"} {
		if err := fc.Set(ctx, cache.PayloadKey(source), []byte(`{"data": null}`), time.Hour); err != nil {
			t.Fatal(err)
		}
	}
	if got := countPayloadEntries(dir); got != 2 {
		t.Fatalf("countPayloadEntries = %d, want 2", got)
	}

	c := New(io.Discard, LogInfo)
	cmd := c.cacheClearCommand()
	if err := cmd.RunE(cmd, nil); err != nil {
		t.Fatalf("cache clear: %v", err)
	}

	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("cache directory should be removed")
	}
}

func TestCacheClearEmptyCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c := New(io.Discard, LogInfo)
	cmd := c.cacheClearCommand()
	if err := cmd.RunE(cmd, nil); err != nil {
		t.Errorf("clearing an empty cache should not fail: %v", err)
	}
}

func TestCountPayloadEntries(t *testing.T) {
	dir := t.TempDir()

	if got := countPayloadEntries(filepath.Join(dir, "missing")); got != 0 {
		t.Errorf("missing dir count = %d, want 0", got)
	}

	shard := filepath.Join(dir, "ab")
	if err := os.MkdirAll(shard, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(shard, "cd.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(shard, "stray.tmp"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	if got := countPayloadEntries(dir); got != 1 {
		t.Errorf("count = %d, want 1 (only envelope files)", got)
	}
}

package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/logsmart/designer/pkg/cache"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", "designer")
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if dir != filepath.Join("/tmp/xdg", "designer") {
		t.Errorf("cacheDir() = %q", dir)
	}
}

func TestCacheCommands(t *testing.T) {
	cfg, _ := testEnv(t, "")

	out, err := run(t, cfg, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	dir := strings.TrimSpace(out)
	if !strings.HasSuffix(dir, filepath.Join("cache", "designer")) {
		t.Errorf("cache path = %q", dir)
	}

	if _, err := run(t, cfg, "cache", "clear"); err != nil {
		t.Fatalf("clear on missing dir: %v", err)
	}

	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	fc.Set(ctx, "gen:one", []byte("[]"), time.Hour)
	fc.Set(ctx, "gen:two", []byte("[]"), time.Hour)

	if _, err := run(t, cfg, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if _, ok, _ := fc.Get(ctx, "gen:one"); ok {
		t.Error("entry survived cache clear")
	}
	if n, _ := countFiles(dir); n != 0 {
		t.Errorf("%d files left after clear", n)
	}
}

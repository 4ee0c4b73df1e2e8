package gosyncpack

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDirCache(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	c, err := NewDirCache(dir, 0)
	if err != nil {
		t.Fatalf("NewDirCache() error = %v", err)
	}
	ctx := context.Background()

	if _, ok, err := c.Get(ctx, "react"); ok || err != nil {
		t.Errorf("Get(react) = _, %v, %v; want miss", ok, err)
	}

	for _, name := range []string{"react", "@types/node"} {
		if err := c.Put(ctx, name, []byte(`{"name":"`+name+`"}`)); err != nil {
			t.Fatalf("Put(%q) error = %v", name, err)
		}
		got, ok, err := c.Get(ctx, name)
		if err != nil || !ok {
			t.Fatalf("Get(%q) = _, %v, %v; want hit", name, ok, err)
		}
		if want := `{"name":"` + name + `"}`; string(got) != want {
			t.Errorf("Get(%q) = %q, want %q", name, got, want)
		}
	}

	if err := c.Put(ctx, "react", []byte(`{"name":"react","v":2}`)); err != nil {
		t.Fatal(err)
	}
	if got, _, _ := c.Get(ctx, "react"); string(got) != `{"name":"react","v":2}` {
		t.Errorf("Get(react) after overwrite = %q", got)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("cache directory has %d entries, want 2 (no temp files left)", len(entries))
	}
}

func TestDirCacheMaxAge(t *testing.T) {
	c, err := NewDirCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := c.Put(ctx, "react", []byte("{}")); err != nil {
		t.Fatal(err)
	}

	if _, ok, _ := c.Get(ctx, "react"); !ok {
		t.Error("Get() missed a fresh entry")
	}
	c.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, ok, err := c.Get(ctx, "react"); ok || err != nil {
		t.Errorf("Get() = _, %v, %v; want expired miss", ok, err)
	}
}

func TestDirCacheErrors(t *testing.T) {
	if _, err := NewDirCache("", 0); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("NewDirCache(\"\") error = %v, want ErrInvalidConfig", err)
	}
	if _, err := NewDirCache(t.TempDir(), -time.Second); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("NewDirCache(negative) error = %v, want ErrInvalidConfig", err)
	}

	c, err := NewDirCache(t.TempDir(), 0)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := c.Get(ctx, "react"); !errors.Is(err, context.Canceled) {
		t.Errorf("Get() error = %v, want context.Canceled", err)
	}
	if err := c.Put(ctx, "react", nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Put() error = %v, want context.Canceled", err)
	}
}

func TestDirCacheWithRegistry(t *testing.T) {
	srv, hits := packumentServer(t, map[string]string{
		"react": packumentJSON(t, "react", "18.3.1", "18.2.0", "18.3.1"),
	})
	cacheDir := t.TempDir()
	ctx := context.Background()

	for range 2 {
		c, err := NewDirCache(cacheDir, 0)
		if err != nil {
			t.Fatal(err)
		}
		reg, err := NewRegistry([]string{srv.URL}, WithCache(c))
		if err != nil {
			t.Fatal(err)
		}
		p, err := reg.Packument(ctx, "react")
		if err != nil {
			t.Fatalf("Packument() error = %v", err)
		}
		if p.DistTags["latest"] != "18.3.1" {
			t.Errorf("latest = %q, want 18.3.1", p.DistTags["latest"])
		}
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("server hits = %d, want 1 across runs sharing a cache directory", got)
	}
}

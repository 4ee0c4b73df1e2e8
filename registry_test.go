package gosyncpack

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

// packumentServer serves the given packuments by escaped path, e.g.
// "/@types%2fnode", and counts requests.
func packumentServer(t *testing.T, docs map[string]string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		doc, ok := docs[strings.TrimPrefix(r.URL.EscapedPath(), "/")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(doc))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestNewRegistry(t *testing.T) {
	tests := []struct {
		name      string
		urls      []string
		wantErr   bool
		wantChain bool
		wantBase  string
	}{
		{name: "default", urls: nil, wantBase: DefaultRegistry},
		{name: "single", urls: []string{"https://npm.example.com"}, wantBase: "https://npm.example.com"},
		{
			name:      "chain",
			urls:      []string{"https://npm.example.com", DefaultRegistry},
			wantChain: true,
			wantBase:  "https://npm.example.com," + DefaultRegistry,
		},
		{
			name:      "invalid local skipped",
			urls:      []string{"file:///nonexistent/packuments", DefaultRegistry},
			wantChain: true,
			wantBase:  DefaultRegistry,
		},
		{
			name:    "all invalid",
			urls:    []string{"file:///nonexistent/a", "file:///nonexistent/b"},
			wantErr: true,
		},
		{name: "single invalid local", urls: []string{"file:///nonexistent/a"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, err := NewRegistry(tt.urls)
			if tt.wantErr {
				if err == nil {
					t.Fatal("NewRegistry() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewRegistry() error = %v", err)
			}
			if _, isChain := reg.(*RegistryChain); isChain != tt.wantChain {
				t.Errorf("NewRegistry() chain = %v, want %v", isChain, tt.wantChain)
			}
			if got := reg.BaseURL(); got != tt.wantBase {
				t.Errorf("BaseURL() = %q, want %q", got, tt.wantBase)
			}
		})
	}
}

func TestRegistryPackument(t *testing.T) {
	srv, hits := packumentServer(t, map[string]string{
		"react":          packumentJSON(t, "react", "18.3.1", "18.2.0", "18.3.1"),
		"@types%2fnode":  packumentJSON(t, "@types/node", "20.0.0", "20.0.0"),
		"broken":         `{"name": "broken", "versions": `,
		"wrong-versions": `{"name": "wrong-versions", "versions": {"1.0.0": {"version": "2.0.0"}}}`,
	})
	reg, err := NewRegistry([]string{srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	p, err := reg.Packument(ctx, "react")
	if err != nil {
		t.Fatalf("Packument(react) error = %v", err)
	}
	if got := p.LatestVersion(); got != "18.3.1" {
		t.Errorf("LatestVersion() = %q, want 18.3.1", got)
	}
	if _, err := reg.Packument(ctx, "react"); err != nil {
		t.Fatalf("second Packument(react) error = %v", err)
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("server hits = %d, want 1 (second lookup memoized)", got)
	}

	if _, err := reg.Packument(ctx, "@types/node"); err != nil {
		t.Errorf("Packument(@types/node) error = %v", err)
	}

	_, err = reg.Packument(ctx, "missing")
	if !errors.Is(err, ErrPackageNotFound) {
		t.Errorf("Packument(missing) error = %v, want ErrPackageNotFound", err)
	}
	var regErr *RegistryError
	if !errors.As(err, &regErr) || regErr.StatusCode != http.StatusNotFound || regErr.PackageName != "missing" {
		t.Errorf("Packument(missing) error = %#v, want *RegistryError 404", err)
	}

	if _, err := reg.Packument(ctx, "broken"); err == nil {
		t.Error("Packument(broken) error = nil, want parse error")
	}
	if _, err := reg.Packument(ctx, "wrong-versions"); err == nil {
		t.Error("Packument(wrong-versions) error = nil, want validation error")
	}
	if _, err := reg.Packument(ctx, "Not A Name"); err == nil {
		t.Error("Packument(invalid name) error = nil, want error")
	}
}

func TestRegistryStatusErrors(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusNotFound, ErrPackageNotFound},
		{http.StatusTooManyRequests, ErrRateLimited},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrUnauthorized},
	}
	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))
		reg, err := NewRegistry([]string{srv.URL})
		if err != nil {
			t.Fatal(err)
		}
		_, err = reg.Packument(context.Background(), "react")
		if !errors.Is(err, tt.want) {
			t.Errorf("status %d: error = %v, want %v", tt.status, err, tt.want)
		}
		srv.Close()
	}
}

func TestRegistryToken(t *testing.T) {
	var got atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.Store(r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	reg, err := NewRegistry([]string{srv.URL}, WithToken("s3cret"))
	if err != nil {
		t.Fatal(err)
	}
	_, _ = reg.Packument(context.Background(), "react")
	if got.Load() != "Bearer s3cret" {
		t.Errorf("Authorization = %v, want %q", got.Load(), "Bearer s3cret")
	}
}

func TestRegistryExternalCache(t *testing.T) {
	srv, hits := packumentServer(t, map[string]string{
		"react": packumentJSON(t, "react", "18.3.1", "18.3.1"),
	})
	cache := NewMemoryCache()
	ctx := context.Background()

	first, err := NewRegistry([]string{srv.URL}, WithCache(cache))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := first.Packument(ctx, "react"); err != nil {
		t.Fatalf("Packument() error = %v", err)
	}
	if cache.Len() != 1 {
		t.Errorf("cache.Len() = %d, want 1", cache.Len())
	}

	// A fresh registry sharing the cache must not hit the server.
	second, err := NewRegistry([]string{srv.URL}, WithCache(cache))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := second.Packument(ctx, "react"); err != nil {
		t.Fatalf("Packument() error = %v", err)
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("server hits = %d, want 1", got)
	}
}

func TestRegistryFailingCache(t *testing.T) {
	srv, _ := packumentServer(t, map[string]string{
		"react": packumentJSON(t, "react", "18.3.1", "18.3.1"),
	})
	reg, err := NewRegistry([]string{srv.URL}, WithCache(brokenCache{err: errors.New("disk full")}))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := reg.Packument(context.Background(), "react"); err != nil {
		t.Errorf("Packument() error = %v, want cache failures ignored", err)
	}
}

func TestRegistryCorruptCacheEntry(t *testing.T) {
	srv, hits := packumentServer(t, map[string]string{
		"react": packumentJSON(t, "react", "18.3.1", "18.3.1"),
	})
	cache := NewMemoryCache()
	_ = cache.Put(context.Background(), "react", []byte("not json"))

	reg, err := NewRegistry([]string{srv.URL}, WithCache(cache))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := reg.Packument(context.Background(), "react"); err != nil {
		t.Fatalf("Packument() error = %v", err)
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("server hits = %d, want 1 (corrupt entry refetched)", got)
	}
}

package gosyncpack

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/albertocavalcante/go-syncpack/registry"
)

// DefaultRegistry is the public npm registry.
const DefaultRegistry = registry.DefaultURL

// Registry serves packuments for package names.
type Registry interface {
	Packument(ctx context.Context, name string) (*registry.Packument, error)
	BaseURL() string
}

// registryClient adapts registry.Client to Registry, with an optional
// external cache and error mapping onto the package sentinels.
type registryClient struct {
	client *registry.Client
	cache  PackumentCache
	logger *slog.Logger
	memo   sync.Map // map[string]*registry.Packument keyed by package name
}

func newRegistryClient(url string, cfg *config) *registryClient {
	var opts []registry.ClientOption
	if cfg.httpClient != nil {
		// WithTimeout writes to the client, so a shared one is copied.
		hc := *cfg.httpClient
		opts = append(opts, registry.WithHTTPClient(&hc))
	}
	if cfg.timeout > 0 {
		opts = append(opts, registry.WithTimeout(cfg.timeout))
	}
	if cfg.token != "" {
		opts = append(opts, registry.WithToken(cfg.token))
	}

	cache := cfg.cache
	if cache == nil {
		cache = NoopCache{}
	}
	return &registryClient{
		client: registry.NewClient(url, opts...),
		cache:  cache,
		logger: cfg.log().With("registry", url),
	}
}

// BaseURL returns the registry base URL.
func (r *registryClient) BaseURL() string {
	return r.client.BaseURL()
}

// Packument fetches a packument, consulting the memo and the external
// cache first. Cache failures are logged and otherwise ignored.
func (r *registryClient) Packument(ctx context.Context, name string) (*registry.Packument, error) {
	if cached, ok := r.memo.Load(name); ok {
		return cached.(*registry.Packument), nil
	}

	data, hit, err := r.cache.Get(ctx, name)
	if err != nil {
		r.logger.Debug("packument cache read failed", "package", name, "error", err)
	}
	if hit {
		p, err := r.client.Decode(name, data)
		if err == nil {
			r.memo.Store(name, p)
			return p, nil
		}
		r.logger.Debug("discarding cached packument", "package", name, "error", err)
	}

	data, err = r.client.FetchPackument(ctx, name)
	if err != nil {
		var se *registry.StatusError
		if errors.As(err, &se) {
			return nil, &RegistryError{StatusCode: se.StatusCode, PackageName: name, URL: se.URL}
		}
		return nil, fmt.Errorf("fetch packument %s: %w", name, err)
	}

	p, err := r.client.Decode(name, data)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Put(ctx, name, data); err != nil {
		r.logger.Debug("packument cache write failed", "package", name, "error", err)
	}
	r.memo.Store(name, p)
	return p, nil
}

// NewRegistry creates a Registry from URLs in priority order. With no URLs
// the public npm registry is used; with several, a RegistryChain is built.
// Both http(s):// and file:// URLs are accepted.
func NewRegistry(urls []string, opts ...Option) (Registry, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	return registryFromConfig(urls, cfg)
}

func registryFromConfig(urls []string, cfg *config) (Registry, error) {
	if len(urls) == 0 {
		urls = []string{DefaultRegistry}
	}
	if len(urls) == 1 {
		return createRegistry(urls[0], cfg)
	}

	regs := make([]Registry, 0, len(urls))
	for _, url := range urls {
		reg, err := createRegistry(url, cfg)
		if err != nil {
			cfg.log().Warn("skipping registry", "url", url, "error", err)
			continue
		}
		regs = append(regs, reg)
	}
	if len(regs) == 0 {
		return nil, fmt.Errorf("%w: no valid registries could be created from %d URLs", ErrInvalidConfig, len(urls))
	}
	return NewRegistryChain(regs...), nil
}

// createRegistry handles file:// URLs for local registries and http(s)://
// for remote ones.
func createRegistry(url string, cfg *config) (Registry, error) {
	if isFileURL(url) {
		path, err := parseFileURL(url)
		if err != nil {
			return nil, err
		}
		return NewLocalRegistry(path)
	}
	return newRegistryClient(url, cfg), nil
}

// Verify implementations
var (
	_ Registry = (*registryClient)(nil)
	_ Registry = (*RegistryChain)(nil)
	_ Registry = (*LocalRegistry)(nil)
)

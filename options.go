package gosyncpack

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/albertocavalcante/go-syncpack/manifest"
	"github.com/albertocavalcante/go-syncpack/selection"
)

// DefaultConcurrency bounds parallel registry requests.
const DefaultConcurrency = 8

// Option configures Check and Update.
type Option func(*config) error

// config holds all run configuration.
type config struct {
	sources          []string
	dependencyTypes  []string
	specifierTypes   []string
	dependencyFilter []string
	versionGroups    []selection.VersionGroup
	semverGroups     []selection.SemverGroup
	customTypes      []manifest.DependencyType
	strict           bool

	registries  []string
	httpClient  *http.Client
	timeout     time.Duration
	cache       PackumentCache
	token       string
	concurrency int
	target      UpdateTarget
	prerelease  bool

	// logger is the structured logger for debug/info output.
	// If nil, logging is disabled (silent mode).
	logger *slog.Logger
}

// WithSource replaces workspace discovery with explicit package.json globs,
// relative to the workspace root.
func WithSource(patterns ...string) Option {
	return func(c *config) error {
		c.sources = append(c.sources, patterns...)
		return nil
	}
}

// WithDependencyTypes limits which dependency types are read, by name.
// Names prefixed with "!" are excluded.
func WithDependencyTypes(names ...string) Option {
	return func(c *config) error {
		c.dependencyTypes = append(c.dependencyTypes, names...)
		return nil
	}
}

// WithSpecifierTypes limits which instances are read by specifier kind,
// e.g. "exact" or "!workspace-protocol".
func WithSpecifierTypes(kinds ...string) Option {
	return func(c *config) error {
		c.specifierTypes = append(c.specifierTypes, kinds...)
		return nil
	}
}

// WithDependencyFilter limits which dependencies are read, by glob over
// the dependency name. Patterns prefixed with "!" are excluded.
func WithDependencyFilter(patterns ...string) Option {
	return func(c *config) error {
		c.dependencyFilter = append(c.dependencyFilter, patterns...)
		return nil
	}
}

// WithVersionGroups appends version groups, in priority order.
func WithVersionGroups(groups ...selection.VersionGroup) Option {
	return func(c *config) error {
		c.versionGroups = append(c.versionGroups, groups...)
		return nil
	}
}

// WithSemverGroups appends semver groups, in priority order.
func WithSemverGroups(groups ...selection.SemverGroup) Option {
	return func(c *config) error {
		c.semverGroups = append(c.semverGroups, groups...)
		return nil
	}
}

// WithCustomTypes adds dependency types read from arbitrary fields.
func WithCustomTypes(types ...manifest.DependencyType) Option {
	return func(c *config) error {
		c.customTypes = append(c.customTypes, types...)
		return nil
	}
}

// WithStrict counts suspect instances as issues.
func WithStrict(strict bool) Option {
	return func(c *config) error {
		c.strict = strict
		return nil
	}
}

// WithRegistries sets the registry URLs to use (in priority order).
func WithRegistries(urls ...string) Option {
	return func(c *config) error {
		c.registries = append(c.registries, urls...)
		return nil
	}
}

// WithHTTPClient sets a custom HTTP client for registry requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *config) error {
		c.httpClient = client
		return nil
	}
}

// WithTimeout sets the HTTP request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *config) error {
		c.timeout = d
		return nil
	}
}

// WithCache sets an external cache for packuments.
func WithCache(cache PackumentCache) Option {
	return func(c *config) error {
		c.cache = cache
		return nil
	}
}

// WithToken sends a bearer token to every remote registry.
func WithToken(token string) Option {
	return func(c *config) error {
		c.token = token
		return nil
	}
}

// WithConcurrency bounds parallel registry requests.
func WithConcurrency(n int) Option {
	return func(c *config) error {
		c.concurrency = n
		return nil
	}
}

// WithUpdateTarget limits how far Update may move a dependency.
func WithUpdateTarget(t UpdateTarget) Option {
	return func(c *config) error {
		c.target = t
		return nil
	}
}

// WithPrerelease lets Update offer pre-release versions.
func WithPrerelease(allow bool) Option {
	return func(c *config) error {
		c.prerelease = allow
		return nil
	}
}

// WithLogger sets a structured logger for diagnostics.
// If not set, logging is disabled (silent mode).
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil)).With("component", "syncpack")
//	Check(ctx, dir, WithLogger(logger))
func WithLogger(l *slog.Logger) Option {
	return func(c *config) error {
		c.logger = l
		return nil
	}
}

// validate checks the configuration for logical consistency.
func (c *config) validate() error {
	var errs []error
	if c.timeout < 0 {
		errs = append(errs, errors.New("timeout must be positive"))
	}
	if c.concurrency < 0 {
		errs = append(errs, errors.New("concurrency must be positive"))
	}
	if _, err := ParseUpdateTarget(string(c.target)); err != nil {
		errs = append(errs, err)
	}
	builtin := make(map[string]bool)
	for _, t := range manifest.DefaultTypes() {
		builtin[t.Name] = true
	}
	for _, t := range c.customTypes {
		switch {
		case t.Name == "" || t.Path == "":
			errs = append(errs, fmt.Errorf("custom type %q: name and path are required", t.Name))
		case builtin[t.Name]:
			errs = append(errs, fmt.Errorf("custom type %q: shadows a built-in dependency type", t.Name))
		}
		if _, err := manifest.ParseStrategy(string(t.Strategy)); err != nil {
			errs = append(errs, fmt.Errorf("custom type %q: %w", t.Name, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// log returns the configured logger, or a no-op logger if none was set.
func (c *config) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.New(discardHandler{})
}

// discardHandler is a slog.Handler that discards all log records.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }

// newConfig applies opts over the defaults and validates the result.
func newConfig(opts ...Option) (*config, error) {
	c := &config{
		concurrency: DefaultConcurrency,
		target:      TargetLatest,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.concurrency == 0 {
		c.concurrency = DefaultConcurrency
	}
	if c.target == "" {
		c.target = TargetLatest
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

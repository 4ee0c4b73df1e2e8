package gosyncpack

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/albertocavalcante/go-syncpack/registry"
	"github.com/albertocavalcante/go-syncpack/selection"
	"github.com/albertocavalcante/go-syncpack/specifier"
)

// UpdateTarget limits how far Update may move a dependency.
type UpdateTarget string

const (
	// TargetLatest allows any newer version.
	TargetLatest UpdateTarget = "latest"
	// TargetMinor keeps the major version.
	TargetMinor UpdateTarget = "minor"
	// TargetPatch keeps the major and minor versions.
	TargetPatch UpdateTarget = "patch"
)

// ParseUpdateTarget validates an update target name.
func ParseUpdateTarget(s string) (UpdateTarget, error) {
	switch t := UpdateTarget(s); t {
	case TargetLatest, TargetMinor, TargetPatch:
		return t, nil
	}
	return "", fmt.Errorf("unknown update target %q (want latest, minor or patch)", s)
}

// fetchCandidates fetches packuments for every dependency that registry
// versions may raise: HighestSemver dependencies with no local package and
// at least one semver instance.
//
// Fetches run with bounded concurrency and fail open: a failed fetch is
// logged, recorded, and leaves the dependency to be resolved from the
// versions already in use. Only cancellation of ctx is returned as an error.
func fetchCandidates(ctx context.Context, reg Registry, sel *selection.Context, cfg *config) (map[string][]specifier.Specifier, []FetchError, error) {
	logger := cfg.log()

	current := make(map[string]specifier.Version)
	for _, dep := range sel.Dependencies() {
		if _, ok := dep.Policy().(selection.HighestSemver); !ok || dep.Local != nil {
			continue
		}
		var specs []specifier.Specifier
		for _, inst := range dep.Instances {
			if inst.Specifier.IsComparable() {
				specs = append(specs, inst.Specifier)
			}
		}
		highest, ok := specifier.Highest(specs)
		if !ok {
			continue
		}
		v, _ := highest.Version()
		// The same name may appear in several groups; keep the highest.
		if prev, seen := current[dep.Name]; !seen || specifier.CompareVersions(v, prev) > 0 {
			current[dep.Name] = v
		}
	}

	var (
		mu         sync.Mutex
		candidates = make(map[string][]specifier.Specifier, len(current))
		fetchErrs  []FetchError
	)

	var g errgroup.Group
	g.SetLimit(cfg.concurrency)
	for _, name := range slices.Sorted(maps.Keys(current)) {
		v := current[name]
		g.Go(func() error {
			p, err := reg.Packument(ctx, name)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				logger.Warn("registry lookup failed", "package", name, "error", err)
				mu.Lock()
				fetchErrs = append(fetchErrs, FetchError{Package: name, Err: err.Error()})
				mu.Unlock()
				return nil
			}
			versions := filterVersions(p, v, cfg.target, cfg.prerelease)
			logger.Debug("registry candidates", "package", name, "current", v.String(), "candidates", len(versions))
			mu.Lock()
			candidates[name] = versions
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	slices.SortFunc(fetchErrs, func(a, b FetchError) int {
		return strings.Compare(a.Package, b.Package)
	})
	logger.Info("registry lookups finished", "packages", len(current), "failed", len(fetchErrs))
	return candidates, fetchErrs, nil
}

// filterVersions returns the published versions Update may move to from
// current: not deprecated, not pre-releases unless allowed or current is
// one, and within target.
func filterVersions(p *registry.Packument, current specifier.Version, target UpdateTarget, prerelease bool) []specifier.Specifier {
	allowPre := prerelease || current.IsPrerelease()

	var out []specifier.Specifier
	for _, raw := range p.SortedVersions() {
		if p.IsDeprecated(raw) {
			continue
		}
		s := specifier.Classify(raw)
		v, ok := s.Version()
		if s.Kind() != specifier.KindExact || !ok {
			continue
		}
		if v.IsPrerelease() && !allowPre {
			continue
		}
		switch target {
		case TargetMinor:
			if v.Major != current.Major {
				continue
			}
		case TargetPatch:
			if v.Major != current.Major || v.Minor != current.Minor {
				continue
			}
		}
		out = append(out, s)
	}
	return out
}

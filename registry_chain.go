package gosyncpack

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/albertocavalcante/go-syncpack/registry"
)

// RegistryChain looks packages up in several registries, in order, and
// remembers which registry served each package.
//
// Behaviors:
//  1. Packages are looked up in registry order (first to last)
//  2. The first registry a package is found in serves it from then on
//  3. Any error, not only 404, moves on to the next registry, so an
//     unreachable mirror does not hide a reachable one
type RegistryChain struct {
	registries []Registry

	// packageRegistry tracks which registry serves each package
	packageRegistry   map[string]int
	packageRegistryMu sync.RWMutex
}

// NewRegistryChain creates a chain over the given registries.
func NewRegistryChain(registries ...Registry) *RegistryChain {
	return &RegistryChain{
		registries:      registries,
		packageRegistry: make(map[string]int),
	}
}

// Packument fetches a packument from the first registry that has it.
func (rc *RegistryChain) Packument(ctx context.Context, name string) (*registry.Packument, error) {
	rc.packageRegistryMu.RLock()
	idx, found := rc.packageRegistry[name]
	rc.packageRegistryMu.RUnlock()

	if found {
		return rc.registries[idx].Packument(ctx, name)
	}

	var errs []error
	allNotFound := true
	for i, reg := range rc.registries {
		p, err := reg.Packument(ctx, name)
		if err == nil {
			rc.packageRegistryMu.Lock()
			if _, exists := rc.packageRegistry[name]; !exists {
				rc.packageRegistry[name] = i
			}
			rc.packageRegistryMu.Unlock()
			return p, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if !isNotFound(err) {
			allNotFound = false
		}
		errs = append(errs, fmt.Errorf("%s: %w", reg.BaseURL(), err))
	}

	if len(errs) == 0 {
		return nil, fmt.Errorf("%w: %s (no registries configured)", ErrPackageNotFound, name)
	}
	if allNotFound {
		return nil, fmt.Errorf("%w: %s not found in any registry: %w", ErrPackageNotFound, name, errors.Join(errs...))
	}
	return nil, fmt.Errorf("package %s unavailable: %w", name, errors.Join(errs...))
}

// BaseURL returns the URLs of every registry in the chain, comma separated.
func (rc *RegistryChain) BaseURL() string {
	urls := make([]string, len(rc.registries))
	for i, reg := range rc.registries {
		urls[i] = reg.BaseURL()
	}
	return strings.Join(urls, ",")
}

// RegistryFor returns the URL of the registry that served name, or "" if
// the package has not been looked up yet.
func (rc *RegistryChain) RegistryFor(name string) string {
	rc.packageRegistryMu.RLock()
	defer rc.packageRegistryMu.RUnlock()

	if idx, found := rc.packageRegistry[name]; found {
		return rc.registries[idx].BaseURL()
	}
	return ""
}

package gosyncpack

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"

	"github.com/albertocavalcante/go-syncpack/specifier"
)

// instanceFilter drops instances before they reach the resolver.
type instanceFilter struct {
	include, exclude         []glob.Glob
	kindInclude, kindExclude map[string]bool
}

func newInstanceFilter(dependencies, specifierTypes []string) (*instanceFilter, error) {
	f := &instanceFilter{
		kindInclude: make(map[string]bool),
		kindExclude: make(map[string]bool),
	}
	for _, p := range dependencies {
		negated := strings.HasPrefix(p, "!")
		p = strings.TrimPrefix(p, "!")
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("dependency filter %q: %w", p, err)
		}
		if negated {
			f.exclude = append(f.exclude, g)
		} else {
			f.include = append(f.include, g)
		}
	}
	for _, k := range specifierTypes {
		negated := strings.HasPrefix(k, "!")
		k = strings.TrimPrefix(k, "!")
		if _, err := specifier.ParseKind(k); err != nil {
			return nil, fmt.Errorf("specifier type filter: %w", err)
		}
		if negated {
			f.kindExclude[k] = true
		} else {
			f.kindInclude[k] = true
		}
	}
	return f, nil
}

// allowsName applies only the dependency name globs. Local instances are
// filtered this way so their dependents can still be checked against them.
func (f *instanceFilter) allowsName(name string) bool {
	for _, g := range f.exclude {
		if g.Match(name) {
			return false
		}
	}
	return len(f.include) == 0 || matchesAny(f.include, name)
}

// allows reports whether an instance named name with specifier raw is kept.
func (f *instanceFilter) allows(name, raw string) bool {
	if !f.allowsName(name) {
		return false
	}
	if len(f.kindInclude) == 0 && len(f.kindExclude) == 0 {
		return true
	}
	kind := specifierKindOf(raw)
	if f.kindExclude[kind] {
		return false
	}
	return len(f.kindInclude) == 0 || f.kindInclude[kind]
}

func matchesAny(globs []glob.Glob, s string) bool {
	for _, g := range globs {
		if g.Match(s) {
			return true
		}
	}
	return false
}

package selection

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gobwas/glob"

	"github.com/albertocavalcante/go-syncpack/specifier"
)

// Selector picks instances by dependency name, dependency type, owning
// package and specifier type. Each list matches everything when empty.
// Entries prefixed with "!" exclude; the other entries are alternatives.
type Selector struct {
	Dependencies    []string `json:"dependencies,omitempty"`
	DependencyTypes []string `json:"dependencyTypes,omitempty"`
	Packages        []string `json:"packages,omitempty"`
	SpecifierTypes  []string `json:"specifierTypes,omitempty"`
}

// Policy is the identity policy of a version group.
type Policy interface {
	isPolicy()
	String() string
}

// HighestSemver converges every instance on the highest version in use.
type HighestSemver struct{}

// LowestSemver converges every instance on the lowest version in use.
type LowestSemver struct{}

// Pinned converges every instance on a fixed value.
type Pinned struct {
	Version string
}

// Banned marks every instance for removal.
type Banned struct{}

// Ignored opts instances out of every check.
type Ignored struct{}

// SameRange requires every pair of ranges to overlap.
type SameRange struct{}

// SnappedTo mirrors the specifier used by the first matching package.
type SnappedTo struct {
	Packages []string
}

func (HighestSemver) isPolicy() {}
func (LowestSemver) isPolicy()  {}
func (Pinned) isPolicy()        {}
func (Banned) isPolicy()        {}
func (Ignored) isPolicy()       {}
func (SameRange) isPolicy()     {}
func (SnappedTo) isPolicy()     {}

func (HighestSemver) String() string { return "highestSemver" }
func (LowestSemver) String() string  { return "lowestSemver" }
func (p Pinned) String() string      { return "pinned(" + p.Version + ")" }
func (Banned) String() string        { return "banned" }
func (Ignored) String() string       { return "ignored" }
func (SameRange) String() string     { return "sameRange" }
func (p SnappedTo) String() string   { return "snappedTo(" + strings.Join(p.Packages, ",") + ")" }

// VersionGroup assigns an identity policy to the instances its selector matches.
type VersionGroup struct {
	Label    string
	Selector Selector
	Policy   Policy
}

// SemverGroup assigns a preferred range to the instances its selector matches.
// An ignored semver group claims instances without expressing a preference.
type SemverGroup struct {
	Label     string
	Selector  Selector
	Range     specifier.Range
	IsIgnored bool
}

// DefaultVersionGroup governs instances no configured version group matches.
var DefaultVersionGroup = VersionGroup{Label: "default", Policy: HighestSemver{}}

// patternList is a compiled Selector field.
type patternList struct {
	include []glob.Glob
	exclude []glob.Glob
}

func compilePatterns(field string, patterns []string) (patternList, error) {
	var pl patternList
	for _, p := range patterns {
		negate := strings.HasPrefix(p, "!")
		p = strings.TrimPrefix(p, "!")
		g, err := glob.Compile(p)
		if err != nil {
			return patternList{}, fmt.Errorf("%s: invalid pattern %q: %w", field, p, err)
		}
		if negate {
			pl.exclude = append(pl.exclude, g)
		} else {
			pl.include = append(pl.include, g)
		}
	}
	return pl, nil
}

// match reports whether any of values is included and none is excluded.
func (pl patternList) match(values ...string) bool {
	for _, g := range pl.exclude {
		for _, v := range values {
			if g.Match(v) {
				return false
			}
		}
	}
	if len(pl.include) == 0 {
		return true
	}
	for _, g := range pl.include {
		for _, v := range values {
			if g.Match(v) {
				return true
			}
		}
	}
	return false
}

type compiledSelector struct {
	dependencies    patternList
	dependencyTypes patternList
	packages        patternList
	specifierTypes  patternList
}

func compileSelector(s Selector) (compiledSelector, error) {
	var cs compiledSelector
	var err error
	if cs.dependencies, err = compilePatterns("dependencies", s.Dependencies); err != nil {
		return cs, err
	}
	if cs.dependencyTypes, err = compilePatterns("dependencyTypes", s.DependencyTypes); err != nil {
		return cs, err
	}
	if cs.packages, err = compilePatterns("packages", s.Packages); err != nil {
		return cs, err
	}
	for _, st := range s.SpecifierTypes {
		if _, err := specifier.ParseKind(strings.TrimPrefix(st, "!")); err != nil {
			return cs, fmt.Errorf("specifierTypes: %w", err)
		}
	}
	if cs.specifierTypes, err = compilePatterns("specifierTypes", s.SpecifierTypes); err != nil {
		return cs, err
	}
	return cs, nil
}

func (cs compiledSelector) matches(inst *Instance, pkg Package) bool {
	return cs.dependencies.match(inst.Name, inst.InternalName) &&
		cs.dependencyTypes.match(inst.Type) &&
		cs.packages.match(pkg.Name) &&
		cs.specifierTypes.match(inst.Specifier.Kind().String())
}

type versionGroup struct {
	VersionGroup
	index    int
	selector compiledSelector
	snapTo   patternList
}

type semverGroup struct {
	SemverGroup
	index    int
	selector compiledSelector
}

func compileVersionGroups(groups []VersionGroup) ([]*versionGroup, error) {
	out := make([]*versionGroup, 0, len(groups)+1)
	for i, g := range append(slices.Clip(groups), DefaultVersionGroup) {
		if g.Policy == nil {
			g.Policy = HighestSemver{}
		}
		sel, err := compileSelector(g.Selector)
		if err != nil {
			return nil, &GroupError{Kind: "version", Index: i, Label: g.Label, Err: err}
		}
		vg := &versionGroup{VersionGroup: g, index: i, selector: sel}
		if snap, ok := g.Policy.(SnappedTo); ok {
			if len(snap.Packages) == 0 {
				return nil, &GroupError{Kind: "version", Index: i, Label: g.Label, Err: fmt.Errorf("snapTo: at least one package is required")}
			}
			if vg.snapTo, err = compilePatterns("snapTo", snap.Packages); err != nil {
				return nil, &GroupError{Kind: "version", Index: i, Label: g.Label, Err: err}
			}
		}
		if pin, ok := g.Policy.(Pinned); ok && strings.TrimSpace(pin.Version) == "" {
			return nil, &GroupError{Kind: "version", Index: i, Label: g.Label, Err: fmt.Errorf("pinVersion cannot be empty")}
		}
		out = append(out, vg)
	}
	return out, nil
}

func compileSemverGroups(groups []SemverGroup) ([]*semverGroup, error) {
	out := make([]*semverGroup, 0, len(groups))
	for i, g := range groups {
		sel, err := compileSelector(g.Selector)
		if err != nil {
			return nil, &GroupError{Kind: "semver", Index: i, Label: g.Label, Err: err}
		}
		out = append(out, &semverGroup{SemverGroup: g, index: i, selector: sel})
	}
	return out, nil
}

// GroupError reports a group definition that cannot be compiled.
type GroupError struct {
	Kind  string // "version" or "semver"
	Index int
	Label string
	Err   error
}

func (e *GroupError) Error() string {
	if e.Label != "" {
		return fmt.Sprintf("%s group %d (%s): %v", e.Kind, e.Index, e.Label, e.Err)
	}
	return fmt.Sprintf("%s group %d: %v", e.Kind, e.Index, e.Err)
}

func (e *GroupError) Unwrap() error {
	return e.Err
}

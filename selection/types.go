package selection

import (
	"cmp"
	"slices"

	"github.com/albertocavalcante/go-syncpack/specifier"
)

// PackageID is a handle to a Package held by a Context.
type PackageID int

// Package is a manifest known to the Context. Instances refer to it by handle.
type Package struct {
	Name    string
	File    string // manifest path, relative to the workspace root
	Version string // raw "version" field; empty when absent
}

// Dependency types the manifest layer produces.
const (
	TypeDev           = "dev"
	TypeLocal         = "local"
	TypeOverrides     = "overrides"
	TypePeer          = "peer"
	TypePnpmOverrides = "pnpmOverrides"
	TypeProd          = "prod"
	TypeResolutions   = "resolutions"
	TypeOptional      = "optional"
)

// Instance is one occurrence of a dependency in one manifest field.
type Instance struct {
	ID           int
	Name         string // key as written in the manifest
	InternalName string // alias-resolved name used for grouping
	Package      PackageID
	Path         string // e.g. "/dependencies/react"
	Type         string
	IsLocal      bool // the package's own "version" field
	Specifier    specifier.Specifier

	semverGroup  *semverGroup
	versionGroup *versionGroup

	// Written by Resolve.
	State      State
	Expected   *specifier.Specifier // nil until resolved, or when the field should be removed
	Overridden *specifier.Specifier // semver group rewrite a pin took precedence over
}

// PreferredRange returns the range this instance's semver group asks for.
func (i *Instance) PreferredRange() (specifier.Range, bool) {
	if i.IsLocal || i.semverGroup == nil || i.semverGroup.IsIgnored {
		return specifier.RangeExact, false
	}
	return i.semverGroup.Range, true
}

// SpecifierWithPreferredRange re-expresses the specifier under the
// preferred range, when both a semver group applies and the specifier
// carries a version.
func (i *Instance) SpecifierWithPreferredRange() (specifier.Specifier, bool) {
	r, ok := i.PreferredRange()
	if !ok {
		return specifier.Specifier{}, false
	}
	return i.Specifier.WithRange(r)
}

// SemverGroupLabel returns the label of the semver group governing the
// instance, or "" when none does.
func (i *Instance) SemverGroupLabel() string {
	if i.semverGroup == nil {
		return ""
	}
	return i.semverGroup.Label
}

// IsUnchanged reports whether the expected specifier equals the actual one.
func (i *Instance) IsUnchanged() bool {
	return i.Expected != nil && i.Expected.Equal(i.Specifier)
}

func (i *Instance) set(state State, expected *specifier.Specifier) {
	i.State = state
	i.Expected = expected
	i.Overridden = nil
}

func (i *Instance) keep(state State) {
	actual := i.Specifier
	i.set(state, &actual)
}

func (i *Instance) expect(state State, expected specifier.Specifier) {
	i.set(state, &expected)
}

// Dependency is every instance of one internal name governed by one version group.
type Dependency struct {
	Name      string
	Instances []*Instance
	// Local is the package's own version instance for this name, looked up
	// across the whole Context. It may belong to another version group.
	Local    *Instance
	HasAlias bool

	group *versionGroup
	ctx   *Context
}

// Policy returns the identity policy governing the dependency.
func (d *Dependency) Policy() Policy {
	return d.group.Policy
}

// GroupLabel returns the label of the governing version group.
func (d *Dependency) GroupLabel() string {
	return d.group.Label
}

// GroupIndex returns the declaration index of the governing version group.
// The default group comes after every configured one.
func (d *Dependency) GroupIndex() int {
	return d.group.index
}

// SortedInstances returns the instances ordered by package name, field path
// and dependency key.
func (d *Dependency) SortedInstances() []*Instance {
	out := slices.Clone(d.Instances)
	slices.SortFunc(out, func(a, b *Instance) int {
		return cmp.Or(
			cmp.Compare(d.ctx.packages[a.Package].Name, d.ctx.packages[b.Package].Name),
			cmp.Compare(d.ctx.packages[a.Package].File, d.ctx.packages[b.Package].File),
			cmp.Compare(a.Path, b.Path),
			cmp.Compare(a.Name, b.Name),
		)
	})
	return out
}

// Worst returns the most severe state among the instances.
func (d *Dependency) Worst() State {
	worst := Unknown
	rank := func(s State) int {
		switch s.Category() {
		case CategoryConflict:
			return 5
		case CategoryUnfixable:
			return 4
		case CategoryFixable:
			return 3
		case CategorySuspect:
			return 2
		case CategoryValid:
			return 1
		}
		return 0
	}
	for _, inst := range d.Instances {
		if rank(inst.State) > rank(worst) {
			worst = inst.State
		}
	}
	return worst
}

// SortOrder selects how SortedDependencies orders its result.
type SortOrder int

const (
	// ByName orders by dependency name, then group declaration order.
	ByName SortOrder = iota
	// ByCount orders by descending instance count, then by name.
	ByCount
)

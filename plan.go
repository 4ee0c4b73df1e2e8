package gosyncpack

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/albertocavalcante/go-syncpack/manifest"
	"github.com/albertocavalcante/go-syncpack/selection"
	"github.com/albertocavalcante/go-syncpack/specifier"
)

// ChangeKind classifies a planned change.
type ChangeKind string

const (
	// ChangeUpgrade moves to a higher version.
	ChangeUpgrade ChangeKind = "upgrade"
	// ChangeDowngrade moves to a lower version.
	ChangeDowngrade ChangeKind = "downgrade"
	// ChangeRange keeps the version and changes the range operator.
	ChangeRange ChangeKind = "range"
	// ChangeReplace swaps specifiers that cannot be ordered, such as a
	// tag for a version.
	ChangeReplace ChangeKind = "replace"
	// ChangeRemove deletes the dependency.
	ChangeRemove ChangeKind = "remove"
)

// Change is one field rewrite in one manifest.
type Change struct {
	// Package is the name of the manifest's package.
	Package string `json:"package"`

	// File is the manifest path relative to the workspace root.
	File string `json:"file"`

	// Path is the JSON pointer of the rewritten field.
	Path string `json:"path"`

	// Dependency is the dependency key as written in the manifest.
	Dependency string `json:"dependency"`

	// From is the current specifier.
	From string `json:"from"`

	// To is the new specifier; empty when Removed.
	To string `json:"to,omitempty"`

	// Removed is true when the field is deleted.
	Removed bool `json:"removed,omitempty"`

	Kind  ChangeKind      `json:"kind"`
	State selection.State `json:"state"`

	entry manifest.Entry
}

func (c Change) String() string {
	if c.Removed {
		return fmt.Sprintf("%s %s: remove %s", c.File, c.Path, c.From)
	}
	return fmt.Sprintf("%s %s: %s -> %s", c.File, c.Path, c.From, c.To)
}

// Plan lists the changes that would make every fixable instance valid.
//
// Example usage:
//
//	report, _ := Check(ctx, dir)
//	plan := NewPlan(report)
//	if !plan.IsEmpty() {
//	    s := plan.Summary()
//	    fmt.Printf("%d upgrades, %d removals in %d files\n", s.Upgrades, s.Removals, s.Files)
//	}
type Plan struct {
	// Changes are sorted by file, then path.
	Changes []Change `json:"changes"`

	// Skipped are fixes for instances read through a pnpm catalog. Those
	// must be made in pnpm-workspace.yaml and are not applied.
	Skipped []Change `json:"skipped,omitempty"`
}

// PlanSummary counts changes per kind.
type PlanSummary struct {
	Upgrades     int `json:"upgrades"`
	Downgrades   int `json:"downgrades"`
	RangeChanges int `json:"range_changes"`
	Replacements int `json:"replacements"`
	Removals     int `json:"removals"`
	Files        int `json:"files"`
	Skipped      int `json:"skipped"`
}

// NewPlan collects the fixable instances of r. Unfixable, conflicting and
// suspect instances never produce changes.
func NewPlan(r *Report) *Plan {
	p := &Plan{}
	for _, dep := range r.Dependencies {
		for _, inst := range dep.Instances {
			if !inst.State.IsFixable() {
				continue
			}
			c := Change{
				Package:    inst.Package,
				File:       inst.File,
				Path:       inst.Path,
				Dependency: inst.Name,
				From:       inst.Actual,
				State:      inst.State,
				entry:      inst.entry,
			}
			if inst.Expected == nil {
				c.Removed = true
				c.Kind = ChangeRemove
			} else {
				c.To = *inst.Expected
				if c.To == c.From {
					continue
				}
				c.Kind = classifyChange(c.From, c.To)
			}
			if inst.CatalogRef != "" {
				p.Skipped = append(p.Skipped, c)
				continue
			}
			p.Changes = append(p.Changes, c)
		}
	}
	sortChanges(p.Changes)
	sortChanges(p.Skipped)
	return p
}

func classifyChange(from, to string) ChangeKind {
	a, b := specifier.Classify(from), specifier.Classify(to)
	va, okA := a.Version()
	vb, okB := b.Version()
	if !okA || !okB {
		return ChangeReplace
	}
	switch n := specifier.CompareVersions(vb, va); {
	case n > 0:
		return ChangeUpgrade
	case n < 0:
		return ChangeDowngrade
	}
	return ChangeRange
}

func sortChanges(changes []Change) {
	slices.SortFunc(changes, func(a, b Change) int {
		return cmp.Or(cmp.Compare(a.File, b.File), cmp.Compare(a.Path, b.Path))
	})
}

// IsEmpty returns true if there is nothing to apply.
func (p *Plan) IsEmpty() bool {
	return len(p.Changes) == 0
}

// Summary counts the changes per kind.
func (p *Plan) Summary() PlanSummary {
	var s PlanSummary
	files := make(map[string]bool)
	for _, c := range p.Changes {
		files[c.File] = true
		switch c.Kind {
		case ChangeUpgrade:
			s.Upgrades++
		case ChangeDowngrade:
			s.Downgrades++
		case ChangeRange:
			s.RangeChanges++
		case ChangeReplace:
			s.Replacements++
		case ChangeRemove:
			s.Removals++
		}
	}
	s.Files = len(files)
	s.Skipped = len(p.Skipped)
	return s
}

// Apply returns copies of the manifests touched by the plan with every
// change made. pkgs is keyed by file, as returned by Report.Manifests; it
// is not modified.
func (p *Plan) Apply(pkgs map[string]*manifest.Package) (map[string]*manifest.Package, error) {
	out := make(map[string]*manifest.Package)
	for _, c := range p.Changes {
		pkg, ok := out[c.File]
		if !ok {
			orig, found := pkgs[c.File]
			if !found {
				return nil, fmt.Errorf("apply %s: manifest not loaded", c.File)
			}
			pkg = orig.Clone()
			out[c.File] = pkg
		}

		var err error
		if c.Removed {
			err = pkg.Delete(c.entry)
		} else {
			err = pkg.Set(c.entry, c.To)
		}
		if err != nil {
			return nil, &ManifestError{Path: c.File, Err: err}
		}
	}
	return out, nil
}

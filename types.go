package gosyncpack

import (
	"maps"

	"github.com/albertocavalcante/go-syncpack/manifest"
	"github.com/albertocavalcante/go-syncpack/selection"
)

// Report is the outcome of Check or Update for a whole workspace.
type Report struct {
	// Root is the workspace directory.
	Root string `json:"root"`

	// Packages lists every manifest read, root first.
	Packages []PackageReport `json:"packages"`

	// Dependencies lists every dependency, sorted by name then group order.
	Dependencies []DependencyReport `json:"dependencies"`

	// Summary counts instances per category.
	Summary Summary `json:"summary"`

	// FetchErrors lists packages whose registry lookup failed. Those
	// packages were resolved without registry candidates.
	FetchErrors []FetchError `json:"fetch_errors,omitempty"`

	// Strict makes suspect instances count as issues.
	Strict bool `json:"strict,omitempty"`

	manifests map[string]*manifest.Package // keyed by PackageReport.File
}

// PackageReport identifies one manifest of the workspace.
type PackageReport struct {
	// Name is the "name" field; empty when the manifest has none.
	Name string `json:"name"`

	// Version is the raw "version" field.
	Version string `json:"version,omitempty"`

	// File is the manifest path, slash separated and relative to Root.
	File string `json:"file"`
}

// DependencyReport is every instance of one dependency under one version group.
type DependencyReport struct {
	// Name is the internal name: the aliased package for npm: aliases.
	Name string `json:"name"`

	// Group is the label of the governing version group.
	Group string `json:"group"`

	// GroupIndex is the declaration index of the governing version group.
	GroupIndex int `json:"group_index"`

	// Policy describes the identity policy, e.g. "highestSemver" or "pinned(1.0.0)".
	Policy string `json:"policy"`

	// HasAlias is true when any instance uses an npm: alias.
	HasAlias bool `json:"has_alias,omitempty"`

	// Worst is the most severe instance state.
	Worst selection.State `json:"worst"`

	// Instances are sorted by package, file and path.
	Instances []InstanceReport `json:"instances"`
}

// InstanceReport is the verdict for one dependency occurrence.
type InstanceReport struct {
	Package string `json:"package"`
	File    string `json:"file"`
	Path    string `json:"path"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Actual  string `json:"actual"`
	Kind    string `json:"kind"`

	// Expected is the specifier the instance should have. Nil means the
	// instance should be removed.
	Expected *string `json:"expected"`

	// Overridden is the semver group rewrite a pinned version took precedence over.
	Overridden string `json:"overridden,omitempty"`

	State       selection.State `json:"state"`
	Category    string          `json:"category"`
	SemverGroup string          `json:"semver_group,omitempty"`
	IsLocal     bool            `json:"is_local,omitempty"`

	// CatalogRef is the pnpm catalog reference Actual was read through.
	CatalogRef string `json:"catalog_ref,omitempty"`

	entry manifest.Entry
}

// ExpectedOr returns the expected specifier, or fallback when the instance
// should be removed.
func (i InstanceReport) ExpectedOr(fallback string) string {
	if i.Expected == nil {
		return fallback
	}
	return *i.Expected
}

// Summary counts instances per category.
type Summary struct {
	Packages     int `json:"packages"`
	Dependencies int `json:"dependencies"`
	Instances    int `json:"instances"`
	Valid        int `json:"valid"`
	Fixable      int `json:"fixable"`
	Unfixable    int `json:"unfixable"`
	Conflicts    int `json:"conflicts"`
	Suspect      int `json:"suspect"`
}

// Issues returns the number of instances that fail a lint. Suspect
// instances count only in strict mode.
func (s Summary) Issues(strict bool) int {
	n := s.Fixable + s.Unfixable + s.Conflicts
	if strict {
		n += s.Suspect
	}
	return n
}

func (s *Summary) add(state selection.State) {
	s.Instances++
	switch state.Category() {
	case selection.CategoryValid:
		s.Valid++
	case selection.CategoryFixable:
		s.Fixable++
	case selection.CategoryUnfixable:
		s.Unfixable++
	case selection.CategoryConflict:
		s.Conflicts++
	case selection.CategorySuspect:
		s.Suspect++
	}
}

// FetchError records a failed registry lookup.
type FetchError struct {
	Package string `json:"package"`
	Err     string `json:"error"`
}

func (e FetchError) Error() string {
	return e.Package + ": " + e.Err
}

// HasIssues reports whether any instance fails a lint.
func (r *Report) HasIssues() bool {
	return r.Summary.Issues(r.Strict) > 0
}

// Manifests returns the parsed manifests keyed by file. The packages are
// shared with the report; clone before modifying.
func (r *Report) Manifests() map[string]*manifest.Package {
	return maps.Clone(r.manifests)
}

// Dependency returns the first dependency report with the given name.
func (r *Report) Dependency(name string) (DependencyReport, bool) {
	for _, d := range r.Dependencies {
		if d.Name == name {
			return d, true
		}
	}
	return DependencyReport{}, false
}

package manifest

import (
	"fmt"
	"slices"
	"strings"

	"github.com/albertocavalcante/go-syncpack/selection"
)

// Strategy says how a dependency type reads its field.
type Strategy string

const (
	// VersionsByName reads an object of name to specifier.
	VersionsByName Strategy = "versionsByName"
	// NameAtVersion reads a single "name@specifier" string.
	NameAtVersion Strategy = "name@version"
	// VersionOnly reads a single specifier string named after the package.
	VersionOnly Strategy = "version"
)

// ParseStrategy validates a strategy name.
func ParseStrategy(s string) (Strategy, error) {
	switch st := Strategy(s); st {
	case VersionsByName, NameAtVersion, VersionOnly:
		return st, nil
	}
	return "", fmt.Errorf("unknown strategy %q", s)
}

// DependencyType locates one kind of dependency inside package.json.
type DependencyType struct {
	Name     string
	Path     string // dot separated, e.g. "pnpm.overrides"
	Strategy Strategy
}

// IsLocal reports whether the type reads the package's own version.
func (t DependencyType) IsLocal() bool {
	return t.Name == selection.TypeLocal
}

func (t DependencyType) segments() []string {
	return strings.Split(t.Path, ".")
}

var defaultTypes = []DependencyType{
	{Name: selection.TypeDev, Path: "devDependencies", Strategy: VersionsByName},
	{Name: selection.TypeLocal, Path: "version", Strategy: VersionOnly},
	{Name: selection.TypeOverrides, Path: "overrides", Strategy: VersionsByName},
	{Name: selection.TypePeer, Path: "peerDependencies", Strategy: VersionsByName},
	{Name: selection.TypePnpmOverrides, Path: "pnpm.overrides", Strategy: VersionsByName},
	{Name: selection.TypeProd, Path: "dependencies", Strategy: VersionsByName},
	{Name: selection.TypeResolutions, Path: "resolutions", Strategy: VersionsByName},
	{Name: selection.TypeOptional, Path: "optionalDependencies", Strategy: VersionsByName},
}

// DefaultTypes returns the built-in dependency types.
func DefaultTypes() []DependencyType {
	return slices.Clone(defaultTypes)
}

// SelectTypes narrows all to the names listed. An empty list, or "**",
// selects everything. Names prefixed with "!" are removed; a list made
// only of negations starts from everything.
func SelectTypes(all []DependencyType, names []string) ([]DependencyType, error) {
	known := make(map[string]bool, len(all))
	for _, t := range all {
		known[t.Name] = true
	}

	include := make(map[string]bool)
	exclude := make(map[string]bool)
	for _, n := range names {
		if n == "**" {
			continue
		}
		negated := strings.HasPrefix(n, "!")
		n = strings.TrimPrefix(n, "!")
		if !known[n] {
			return nil, fmt.Errorf("unknown dependency type %q", n)
		}
		if negated {
			exclude[n] = true
		} else {
			include[n] = true
		}
	}

	out := make([]DependencyType, 0, len(all))
	for _, t := range all {
		if exclude[t.Name] {
			continue
		}
		if len(include) > 0 && !include[t.Name] {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// Entry is one dependency read out of a manifest.
type Entry struct {
	Path     string // JSON pointer to the field holding the specifier
	Name     string
	Raw      string
	Type     string
	Strategy Strategy
	// Ref is the catalog reference Raw was resolved from, if any.
	Ref string
}

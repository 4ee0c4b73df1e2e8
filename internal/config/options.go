package config

import (
	"fmt"
	"maps"
	"slices"

	gosyncpack "github.com/albertocavalcante/go-syncpack"
	"github.com/albertocavalcante/go-syncpack/manifest"
	"github.com/albertocavalcante/go-syncpack/selection"
	"github.com/albertocavalcante/go-syncpack/specifier"
)

// Options converts the configuration into options for gosyncpack.Check
// and gosyncpack.Update.
func (c *Config) Options() ([]gosyncpack.Option, error) {
	vgs := make([]selection.VersionGroup, 0, len(c.VersionGroups))
	for i, g := range c.VersionGroups {
		policy, err := g.policy()
		if err != nil {
			return nil, fmt.Errorf("versionGroups[%d]: %w", i, err)
		}
		vgs = append(vgs, selection.VersionGroup{Label: g.Label, Selector: g.selector(), Policy: policy})
	}

	sgs := make([]selection.SemverGroup, 0, len(c.SemverGroups))
	for i, g := range c.SemverGroups {
		r, err := specifier.ParseRange(g.Range)
		if err != nil && !g.IsIgnored {
			return nil, fmt.Errorf("semverGroups[%d]: %w", i, err)
		}
		sgs = append(sgs, selection.SemverGroup{Label: g.Label, Selector: g.selector(), Range: r, IsIgnored: g.IsIgnored})
	}

	var types []manifest.DependencyType
	for _, name := range slices.Sorted(maps.Keys(c.CustomTypes)) {
		ct := c.CustomTypes[name]
		strategy, err := manifest.ParseStrategy(ct.Strategy)
		if err != nil {
			return nil, fmt.Errorf("customTypes.%s: %w", name, err)
		}
		types = append(types, manifest.DependencyType{Name: name, Path: ct.Path, Strategy: strategy})
	}

	target := gosyncpack.TargetLatest
	if c.Update.Target != "" {
		var err error
		if target, err = gosyncpack.ParseUpdateTarget(c.Update.Target); err != nil {
			return nil, fmt.Errorf("update.target: %w", err)
		}
	}

	return []gosyncpack.Option{
		gosyncpack.WithSource(c.Source...),
		gosyncpack.WithDependencyTypes(c.DependencyTypes...),
		gosyncpack.WithSpecifierTypes(c.SpecifierTypes...),
		gosyncpack.WithDependencyFilter(c.Filter...),
		gosyncpack.WithStrict(c.Strict),
		gosyncpack.WithRegistries(c.Registries...),
		gosyncpack.WithVersionGroups(vgs...),
		gosyncpack.WithSemverGroups(sgs...),
		gosyncpack.WithCustomTypes(types...),
		gosyncpack.WithUpdateTarget(target),
		gosyncpack.WithConcurrency(c.Update.Concurrency),
		gosyncpack.WithTimeout(c.Update.Timeout),
		gosyncpack.WithPrerelease(c.Update.AllowPrerelease),
	}, nil
}

func (s Selector) selector() selection.Selector {
	return selection.Selector{
		Dependencies:    s.Dependencies,
		DependencyTypes: s.DependencyTypes,
		Packages:        s.Packages,
		SpecifierTypes:  s.SpecifierTypes,
	}
}

// policy maps the mutually exclusive policy keys onto a selection.Policy.
func (g VersionGroup) policy() (selection.Policy, error) {
	var set []string
	var p selection.Policy = selection.HighestSemver{}
	if g.IsBanned {
		set, p = append(set, "isBanned"), selection.Banned{}
	}
	if g.IsIgnored {
		set, p = append(set, "isIgnored"), selection.Ignored{}
	}
	if g.PinVersion != "" {
		set, p = append(set, "pinVersion"), selection.Pinned{Version: g.PinVersion}
	}
	if len(g.SnapTo) > 0 {
		set, p = append(set, "snapTo"), selection.SnappedTo{Packages: g.SnapTo}
	}
	switch g.Policy {
	case "":
	case "sameRange":
		set, p = append(set, "policy"), selection.SameRange{}
	default:
		return nil, fmt.Errorf("unknown policy %q", g.Policy)
	}
	switch g.PreferVersion {
	case "":
	case "highestSemver":
		set, p = append(set, "preferVersion"), selection.HighestSemver{}
	case "lowestSemver":
		set, p = append(set, "preferVersion"), selection.LowestSemver{}
	default:
		return nil, fmt.Errorf("unknown preferVersion %q", g.PreferVersion)
	}
	if len(set) > 1 {
		return nil, fmt.Errorf("conflicting policies %v, set at most one", set)
	}
	return p, nil
}

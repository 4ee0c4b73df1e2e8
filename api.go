// Package gosyncpack keeps dependency versions consistent across the
// package.json files of a JavaScript monorepo.
//
// Every dependency occurrence (an instance) is classified, grouped with the
// other instances of the same package, and checked against the policy of
// its version group: highest or lowest semver, a pinned version, a banned
// package, an ignored package, overlapping ranges, or the version used by
// another package. Semver groups additionally prescribe a range operator.
//
// # Overview
//
// The module is split into layers:
//
//   - specifier: classifies and orders version specifiers
//   - selection: groups instances and resolves their states
//   - manifest: discovers and reads package.json files and pnpm catalogs
//   - registry: fetches packuments from npm registries
//
// This package wires them together.
//
// # Quick Start
//
//	report, err := gosyncpack.Check(ctx, ".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, dep := range report.Dependencies {
//	    for _, inst := range dep.Instances {
//	        fmt.Println(inst.File, inst.Name, inst.Actual, inst.State)
//	    }
//	}
//
// With policies:
//
//	report, err := gosyncpack.Check(ctx, ".",
//	    gosyncpack.WithVersionGroups(selection.VersionGroup{
//	        Label:    "react 18",
//	        Selector: selection.Selector{Dependencies: []string{"react", "react-dom"}},
//	        Policy:   selection.Pinned{Version: "18.3.1"},
//	    }),
//	    gosyncpack.WithSemverGroups(selection.SemverGroup{
//	        Selector: selection.Selector{DependencyTypes: []string{"dev"}},
//	        Range:    specifier.RangeMinor,
//	    }),
//	)
//
// # Registry updates
//
// Update additionally offers published versions to HighestSemver groups:
//
//	report, err := gosyncpack.Update(ctx, ".",
//	    gosyncpack.WithUpdateTarget(gosyncpack.TargetMinor),
//	    gosyncpack.WithRegistries("https://npm.example.com", gosyncpack.DefaultRegistry),
//	)
//
// # Fixing
//
// NewPlan lists the changes that would make every fixable instance valid.
// Nothing is written to disk; Plan.Apply returns modified copies of the
// manifests.
//
// # Thread Safety
//
// Check and Update may run concurrently. A Report must not be modified
// while a Plan built from it is applied.
package gosyncpack

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"

	"github.com/albertocavalcante/go-syncpack/manifest"
	"github.com/albertocavalcante/go-syncpack/selection"
	"github.com/albertocavalcante/go-syncpack/specifier"
)

// Check reads the workspace at dir and resolves every instance against
// its groups. The registry is never contacted.
func Check(ctx context.Context, dir string, opts ...Option) (*Report, error) {
	return run(ctx, dir, false, opts)
}

// Update is Check with published versions from the registry joining the
// candidates of HighestSemver dependencies. Registry failures degrade to
// Check behavior for the affected packages and are listed in
// Report.FetchErrors.
func Update(ctx context.Context, dir string, opts ...Option) (*Report, error) {
	return run(ctx, dir, true, opts)
}

func run(ctx context.Context, dir string, update bool, opts []Option) (*Report, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	logger := cfg.log()

	ws, err := loadWorkspace(ctx, dir, cfg)
	if err != nil {
		return nil, err
	}

	sel, entries, err := buildContext(ws, cfg)
	if err != nil {
		return nil, err
	}

	var resolveOpts selection.ResolveOptions
	var fetchErrs []FetchError
	if update {
		reg, err := registryFromConfig(cfg.registries, cfg)
		if err != nil {
			return nil, err
		}
		resolveOpts.RegistryCandidates, fetchErrs, err = fetchCandidates(ctx, reg, sel, cfg)
		if err != nil {
			return nil, err
		}
	}

	if err := sel.Resolve(resolveOpts); err != nil {
		return nil, err
	}

	report := newReport(ws, sel, entries)
	report.FetchErrors = fetchErrs
	report.Strict = cfg.strict
	logger.Info("workspace checked",
		"packages", report.Summary.Packages,
		"dependencies", report.Summary.Dependencies,
		"instances", report.Summary.Instances,
		"issues", report.Summary.Issues(cfg.strict))
	return report, nil
}

// workspace is a loaded monorepo: its layout and its parsed manifests.
type workspace struct {
	root      string
	layout    *manifest.Workspace
	files     []string
	manifests map[string]*manifest.Package
}

func loadWorkspace(ctx context.Context, dir string, cfg *config) (*workspace, error) {
	logger := cfg.log()

	layout, err := manifest.LoadWorkspace(dir, cfg.sources)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w in %s", ErrNoManifests, dir)
		}
		return nil, &ManifestError{Path: filepath.Join(dir, manifest.FileName), Err: err}
	}
	logger.Debug("workspace layout", "source", layout.PatternSource, "patterns", layout.Patterns)

	files, err := manifest.Discover(ctx, dir, layout.Patterns)
	if err != nil {
		return nil, err
	}

	ws := &workspace{
		root:      dir,
		layout:    layout,
		files:     files,
		manifests: make(map[string]*manifest.Package, len(files)),
	}
	for _, f := range files {
		pkg, err := manifest.Load(filepath.Join(dir, filepath.FromSlash(f)))
		if err != nil {
			return nil, &ManifestError{Path: f, Err: err}
		}
		logger.Debug("discovered package", "file", f, "name", pkg.Name, "version", pkg.Version)
		ws.manifests[f] = pkg
	}
	return ws, nil
}

// buildContext registers every package and instance of ws, honoring the
// type, specifier and dependency filters. It returns the manifest entry
// each instance was read from.
func buildContext(ws *workspace, cfg *config) (*selection.Context, map[*selection.Instance]manifest.Entry, error) {
	sel, err := selection.NewContext(selection.Config{
		VersionGroups: cfg.versionGroups,
		SemverGroups:  cfg.semverGroups,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	types, err := manifest.SelectTypes(slices.Concat(manifest.DefaultTypes(), cfg.customTypes), cfg.dependencyTypes)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	withLocal := slices.ContainsFunc(types, manifest.DependencyType.IsLocal)

	filter, err := newInstanceFilter(cfg.dependencyFilter, cfg.specifierTypes)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	entries := make(map[*selection.Instance]manifest.Entry)
	for _, f := range ws.files {
		pkg := ws.manifests[f]
		id := sel.AddPackage(selection.Package{Name: pkg.Name, File: f, Version: pkg.Version})

		if withLocal && pkg.Name != "" && filter.allowsName(pkg.Name) {
			inst, ok, err := sel.AddLocal(id)
			if err != nil {
				return nil, nil, err
			}
			if ok {
				entries[inst] = manifest.Entry{Path: "/version", Name: pkg.Name, Raw: pkg.Version, Type: selection.TypeLocal, Strategy: manifest.VersionOnly}
			}
		}

		for _, e := range ws.layout.Catalogs.Apply(pkg.Entries(types)) {
			if !filter.allows(e.Name, e.Raw) {
				continue
			}
			inst, ok, err := sel.AddInstance(selection.InstanceSpec{
				Package:   id,
				Name:      e.Name,
				Path:      e.Path,
				Type:      e.Type,
				Specifier: e.Raw,
			})
			if err != nil {
				return nil, nil, err
			}
			if ok {
				entries[inst] = e
			}
		}
	}
	return sel, entries, nil
}

func newReport(ws *workspace, sel *selection.Context, entries map[*selection.Instance]manifest.Entry) *Report {
	r := &Report{Root: ws.root, manifests: ws.manifests}

	for _, p := range sel.Packages() {
		r.Packages = append(r.Packages, PackageReport{Name: p.Name, Version: p.Version, File: p.File})
	}

	for _, dep := range sel.SortedDependencies(selection.ByName) {
		dr := DependencyReport{
			Name:       dep.Name,
			Group:      dep.GroupLabel(),
			GroupIndex: dep.GroupIndex(),
			Policy:     dep.Policy().String(),
			HasAlias:   dep.HasAlias,
			Worst:      dep.Worst(),
		}
		for _, inst := range dep.SortedInstances() {
			pkg := sel.Package(inst.Package)
			ir := InstanceReport{
				Package:     pkg.Name,
				File:        pkg.File,
				Path:        inst.Path,
				Name:        inst.Name,
				Type:        inst.Type,
				Actual:      inst.Specifier.Raw(),
				Kind:        inst.Specifier.Kind().String(),
				State:       inst.State,
				Category:    inst.State.Category().String(),
				SemverGroup: inst.SemverGroupLabel(),
				IsLocal:     inst.IsLocal,
				CatalogRef:  entries[inst].Ref,
				entry:       entries[inst],
			}
			if inst.Expected != nil {
				raw := inst.Expected.Raw()
				ir.Expected = &raw
			}
			if inst.Overridden != nil {
				ir.Overridden = inst.Overridden.Raw()
			}
			r.Summary.add(inst.State)
			dr.Instances = append(dr.Instances, ir)
		}
		r.Dependencies = append(r.Dependencies, dr)
	}

	r.Summary.Packages = len(r.Packages)
	r.Summary.Dependencies = len(r.Dependencies)
	return r
}

// specifierKindOf classifies raw for the specifier type filter.
func specifierKindOf(raw string) string {
	return specifier.Classify(raw).Kind().String()
}

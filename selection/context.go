package selection

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/albertocavalcante/go-syncpack/label"
	"github.com/albertocavalcante/go-syncpack/specifier"
)

// ErrUnknownPackage is returned when an instance refers to a handle the
// Context never issued.
var ErrUnknownPackage = errors.New("unknown package handle")

// Config holds the group tables for one run. It is read-only once a
// Context has been created from it.
type Config struct {
	VersionGroups []VersionGroup
	SemverGroups  []SemverGroup
}

// Context is the arena owning every Package and Instance of a run.
type Context struct {
	versionGroups []*versionGroup
	semverGroups  []*semverGroup

	packages     []Package
	instances    []*Instance
	dependencies []*Dependency // nil until grouped
	locals       map[string]*Instance
}

// NewContext compiles the group tables. Selector patterns that do not
// compile are reported as *GroupError.
func NewContext(cfg Config) (*Context, error) {
	vgs, err := compileVersionGroups(cfg.VersionGroups)
	if err != nil {
		return nil, err
	}
	sgs, err := compileSemverGroups(cfg.SemverGroups)
	if err != nil {
		return nil, err
	}
	return &Context{versionGroups: vgs, semverGroups: sgs}, nil
}

// AddPackage registers a manifest and returns its handle.
func (c *Context) AddPackage(p Package) PackageID {
	c.packages = append(c.packages, p)
	c.dependencies = nil
	return PackageID(len(c.packages) - 1)
}

// Package returns the package behind a handle.
func (c *Context) Package(id PackageID) Package {
	return c.packages[id]
}

// Packages returns every registered package in registration order.
func (c *Context) Packages() []Package {
	return slices.Clone(c.packages)
}

// InstanceSpec describes one dependency occurrence to add to a Context.
type InstanceSpec struct {
	Package   PackageID
	Name      string
	Path      string
	Type      string
	Specifier string
	IsLocal   bool
}

// AddInstance registers a dependency occurrence. Names that carry
// annotation syntax are not supported and are skipped, returning false.
func (c *Context) AddInstance(spec InstanceSpec) (*Instance, bool, error) {
	if int(spec.Package) < 0 || int(spec.Package) >= len(c.packages) {
		return nil, false, fmt.Errorf("%w: %d", ErrUnknownPackage, spec.Package)
	}
	if !label.InternalNameIsSupported(spec.Name) {
		return nil, false, nil
	}
	s := specifier.Classify(spec.Specifier)
	internal := spec.Name
	if s.Kind() == specifier.KindAlias && s.AliasName() != "" {
		internal = s.AliasName()
	}
	inst := &Instance{
		ID:           len(c.instances),
		Name:         spec.Name,
		InternalName: internal,
		Package:      spec.Package,
		Path:         spec.Path,
		Type:         spec.Type,
		IsLocal:      spec.IsLocal,
		Specifier:    s,
	}
	c.instances = append(c.instances, inst)
	c.dependencies = nil
	return inst, true, nil
}

// AddLocal registers a package's own version field as a local instance.
func (c *Context) AddLocal(id PackageID) (*Instance, bool, error) {
	if int(id) < 0 || int(id) >= len(c.packages) {
		return nil, false, fmt.Errorf("%w: %d", ErrUnknownPackage, id)
	}
	p := c.packages[id]
	return c.AddInstance(InstanceSpec{
		Package:   id,
		Name:      p.Name,
		Path:      "/version",
		Type:      TypeLocal,
		Specifier: p.Version,
		IsLocal:   true,
	})
}

// Instances returns every instance in registration order.
func (c *Context) Instances() []*Instance {
	return slices.Clone(c.instances)
}

// Dependencies assigns groups and returns the dependencies in first-seen order.
func (c *Context) Dependencies() []*Dependency {
	c.group()
	return slices.Clone(c.dependencies)
}

// SortedDependencies returns the dependencies in a deterministic order.
func (c *Context) SortedDependencies(order SortOrder) []*Dependency {
	deps := c.Dependencies()
	slices.SortFunc(deps, func(a, b *Dependency) int {
		if order == ByCount {
			if n := cmp.Compare(len(b.Instances), len(a.Instances)); n != 0 {
				return n
			}
		}
		return cmp.Or(
			cmp.Compare(a.Name, b.Name),
			cmp.Compare(a.group.index, b.group.index),
		)
	})
	return deps
}

// LocalInstance returns the local instance of a package name, if any
// package in the Context declares that name.
func (c *Context) LocalInstance(name string) (*Instance, bool) {
	c.group()
	inst, ok := c.locals[name]
	return inst, ok
}

type depKey struct {
	group int
	name  string
}

// group assigns every instance to its semver and version group and
// partitions instances into dependencies. It is idempotent until the
// next Add call.
func (c *Context) group() {
	if c.dependencies != nil {
		return
	}

	c.locals = make(map[string]*Instance)
	for _, inst := range c.instances {
		if inst.IsLocal {
			// At most one package should own a name; the first one wins.
			if _, seen := c.locals[inst.InternalName]; !seen {
				c.locals[inst.InternalName] = inst
			}
		}
	}

	byKey := make(map[depKey]*Dependency)
	c.dependencies = make([]*Dependency, 0)
	for _, inst := range c.instances {
		pkg := c.packages[inst.Package]

		inst.semverGroup = nil
		if !inst.IsLocal {
			for _, sg := range c.semverGroups {
				if sg.selector.matches(inst, pkg) {
					inst.semverGroup = sg
					break
				}
			}
		}

		inst.versionGroup = c.versionGroups[len(c.versionGroups)-1]
		for _, vg := range c.versionGroups {
			if vg.selector.matches(inst, pkg) {
				inst.versionGroup = vg
				break
			}
		}

		key := depKey{group: inst.versionGroup.index, name: inst.InternalName}
		dep, ok := byKey[key]
		if !ok {
			dep = &Dependency{Name: inst.InternalName, group: inst.versionGroup, ctx: c}
			dep.Local = c.locals[inst.InternalName]
			byKey[key] = dep
			c.dependencies = append(c.dependencies, dep)
		}
		dep.Instances = append(dep.Instances, inst)
		if inst.Specifier.Kind() == specifier.KindAlias {
			dep.HasAlias = true
		}
	}
}

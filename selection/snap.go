package selection

import (
	"cmp"
	"slices"
)

// resolveSnappedTo mirrors the specifier used by the snap target package.
func resolveSnappedTo(c *Context, dep *Dependency) {
	for _, inst := range dep.Instances {
		target, ok := c.snapTarget(dep, inst)
		if !ok {
			inst.keep(DependsOnMissingSnapTarget)
			continue
		}
		if inst.IsLocal {
			if inst.Specifier.Equal(target.Specifier) {
				inst.keep(IsIdenticalToSnapTarget)
			} else {
				inst.keep(RefuseToSnapLocal)
			}
			continue
		}
		checkAgainstTarget(inst, target.Specifier, targetSnap)
	}
}

// snapTarget finds the instance of the same dependency in the first snapTo
// package that has one. An instance of the same dependency type is
// preferred; remaining ties go to package name and field path.
func (c *Context) snapTarget(dep *Dependency, inst *Instance) (*Instance, bool) {
	for _, pattern := range dep.group.snapTo.include {
		var found []*Instance
		for _, other := range c.instances {
			if other.InternalName != dep.Name {
				continue
			}
			pkg := c.packages[other.Package]
			if !pattern.Match(pkg.Name) || !dep.group.snapTo.match(pkg.Name) {
				continue
			}
			found = append(found, other)
		}
		if len(found) == 0 {
			continue
		}
		slices.SortFunc(found, func(a, b *Instance) int {
			aSame, bSame := a.Type == inst.Type, b.Type == inst.Type
			if aSame != bSame {
				if aSame {
					return -1
				}
				return 1
			}
			return cmp.Or(
				cmp.Compare(c.packages[a.Package].Name, c.packages[b.Package].Name),
				cmp.Compare(a.Path, b.Path),
			)
		})
		return found[0], true
	}
	return nil, false
}

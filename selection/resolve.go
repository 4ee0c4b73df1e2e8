package selection

import (
	"errors"
	"fmt"

	"github.com/albertocavalcante/go-syncpack/specifier"
)

// ErrUnresolvedInstance means an instance still had no state after a
// resolution pass. It indicates a bug, never bad input.
var ErrUnresolvedInstance = errors.New("instance left unresolved after resolution")

// ResolveOptions tunes a resolution pass.
type ResolveOptions struct {
	// RegistryCandidates offers published versions per internal name. They
	// join the candidate set of HighestSemver dependencies that have no
	// local instance.
	RegistryCandidates map[string][]specifier.Specifier
}

// Resolve computes the state and expected specifier of every instance.
// Each dependency is resolved from its full instance set, so the result
// does not depend on visiting order. Running it again after applying every
// fixable expected value reaches a fixed point.
func (c *Context) Resolve(opts ResolveOptions) error {
	c.group()
	for _, inst := range c.instances {
		inst.set(Unknown, nil)
	}

	for _, dep := range c.dependencies {
		switch p := dep.group.Policy.(type) {
		case Ignored:
			resolveIgnored(dep)
		case Banned:
			resolveBanned(dep)
		case Pinned:
			resolvePinned(dep, p)
		case SameRange:
			resolveSameRange(dep)
		case SnappedTo:
			resolveSnappedTo(c, dep)
		case HighestSemver:
			resolvePreferred(dep, false, opts.RegistryCandidates[dep.Name])
		case LowestSemver:
			resolvePreferred(dep, true, nil)
		default:
			return fmt.Errorf("version group %q: unsupported policy %T", dep.group.Label, p)
		}
	}

	for _, inst := range c.instances {
		if inst.State == Unknown {
			pkg := c.packages[inst.Package]
			return fmt.Errorf("%w: %s %s%s", ErrUnresolvedInstance, inst.Name, pkg.File, inst.Path)
		}
	}
	return nil
}

func resolveIgnored(dep *Dependency) {
	for _, inst := range dep.Instances {
		inst.keep(IsIgnored)
	}
}

func resolveBanned(dep *Dependency) {
	for _, inst := range dep.Instances {
		if inst.IsLocal {
			inst.keep(RefuseToBanLocal)
			continue
		}
		inst.set(IsBanned, nil)
	}
}

func resolvePinned(dep *Dependency, p Pinned) {
	pin := specifier.Classify(p.Version)
	for _, inst := range dep.Instances {
		actual := inst.Specifier
		if inst.IsLocal {
			if actual.Equal(pin) {
				inst.keep(IsIdenticalToPin)
			} else {
				inst.keep(RefuseToPinLocal)
			}
			continue
		}

		expected := specifier.Rehost(actual, pin)
		if actual.Equal(expected) {
			inst.keep(IsIdenticalToPin)
			continue
		}

		r, hasRange := inst.PreferredRange()
		if hasRange && expected.IsSemver() {
			ranged, _ := expected.WithRange(r)
			if actual.Equal(ranged) {
				inst.keep(IsIdenticalToPin)
				continue
			}
			if actual.IsSemver() {
				actualRange, _ := actual.Range()
				switch {
				case specifier.SameVersion(actual, expected):
					inst.expect(PinOverridesSemverRangeMismatch, expected)
					inst.Overridden = &ranged
					continue
				case actualRange == r:
					inst.expect(PinOverridesSemverRange, expected)
					inst.Overridden = &ranged
					continue
				}
			}
		}

		inst.expect(DiffersToPin, expected)
	}
}

// allIdentical reports whether every instance has the same raw specifier.
func allIdentical(instances []*Instance) bool {
	for _, inst := range instances[1:] {
		if !inst.Specifier.Equal(instances[0].Specifier) {
			return false
		}
	}
	return true
}

// resolveNonSemver records the verdict for an instance that cannot be
// ordered or ranged. There is no safe rewrite, so expected stays actual.
func resolveNonSemver(inst *Instance, identical bool) {
	if identical {
		inst.keep(IsNonSemverButIdentical)
		return
	}
	inst.keep(NonSemverMismatch)
}

package selection

import "github.com/albertocavalcante/go-syncpack/specifier"

// resolveSameRange requires every pair of semver ranges to overlap. A
// failing range has no single correct rewrite, so expected stays actual.
func resolveSameRange(dep *Dependency) {
	identical := allIdentical(dep.Instances)
	for _, inst := range dep.Instances {
		if _, ok := inst.Specifier.Constraint(); !ok {
			resolveNonSemver(inst, identical)
			continue
		}
		state := SatisfiesSameRangeGroup
		for _, other := range dep.Instances {
			if other == inst {
				continue
			}
			if _, ok := other.Specifier.Constraint(); !ok {
				continue
			}
			if !specifier.Intersects(inst.Specifier, other.Specifier) {
				state = SameRangeMismatch
				break
			}
		}
		inst.keep(state)
	}
}

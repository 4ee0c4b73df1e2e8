package selection

import "github.com/albertocavalcante/go-syncpack/specifier"

// targetKind names what produced the identity an instance is checked against.
type targetKind uint8

const (
	targetPreferred targetKind = iota // highest or lowest semver in use
	targetRegistry                    // highest semver published to the registry
	targetLocal                       // the package's own version
	targetSnap                        // the instance in the snap target package
)

type targetStates struct {
	is, satisfies, differs, matchConflict, mismatchConflict State
}

var statesFor = map[targetKind]targetStates{
	targetPreferred: {
		IsHighestOrLowestSemver, SatisfiesHighestOrLowestSemver, DiffersToHighestOrLowestSemver,
		MatchConflictsWithHighestOrLowestSemver, MismatchConflictsWithHighestOrLowestSemver,
	},
	targetRegistry: {
		IsHighestOrLowestSemver, SatisfiesHighestOrLowestSemver, DiffersToNpmRegistry,
		MatchConflictsWithHighestOrLowestSemver, MismatchConflictsWithHighestOrLowestSemver,
	},
	targetLocal: {
		IsIdenticalToLocal, SatisfiesLocal, DiffersToLocal,
		MatchConflictsWithLocal, MismatchConflictsWithLocal,
	},
	targetSnap: {
		IsIdenticalToSnapTarget, SatisfiesSnapTarget, DiffersToSnapTarget,
		MatchConflictsWithSnapTarget, MismatchConflictsWithSnapTarget,
	},
}

// checkAgainstTarget overlays the instance's preferred range on the target
// identity, detects policy conflicts and records the final verdict.
func checkAgainstTarget(inst *Instance, target specifier.Specifier, kind targetKind) {
	states := statesFor[kind]
	actual := inst.Specifier

	final := target
	r, hasRange := inst.PreferredRange()
	if hasRange && target.IsSemver() {
		final, _ = target.WithRange(r)
		if conflicts(final, target) {
			if specifier.SameVersion(actual, target) {
				inst.keep(states.matchConflict)
			} else {
				inst.keep(states.mismatchConflict)
			}
			return
		}
	}

	final = specifier.Rehost(actual, final)
	switch {
	case actual.Equal(final):
		inst.keep(states.is)
	case actual.IsComparable() && final.IsComparable() &&
		specifier.Compare(actual.Orderable(), final.Orderable()) == 0:
		inst.keep(states.satisfies)
	case (kind == targetLocal || kind == targetSnap) && hasRange && satisfiesWithRange(actual, target, r):
		inst.keep(states.satisfies)
	case actual.IsSemver() && final.IsSemver() && specifier.SameVersion(actual, final):
		inst.expect(SemverRangeMismatch, final)
	default:
		inst.expect(states.differs, final)
	}
}

// conflicts reports whether applying the semver group's range to the target
// leaves an identity that no longer admits the target's version. A range
// that only changes how the same version is written is not a conflict.
func conflicts(final, target specifier.Specifier) bool {
	v, ok := target.Version()
	return ok && !final.Admits(v)
}

// satisfiesWithRange reports whether actual already uses the preferred range
// and still admits the target's version.
func satisfiesWithRange(actual, target specifier.Specifier, r specifier.Range) bool {
	actualRange, ok := actual.Range()
	if !ok || actualRange != r || !actual.IsSemver() {
		return false
	}
	v, ok := target.Version()
	return ok && actual.Admits(v)
}

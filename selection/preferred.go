package selection

import "github.com/albertocavalcante/go-syncpack/specifier"

// resolvePreferred implements HighestSemver and LowestSemver. A local
// instance anchors identity; otherwise the highest or lowest comparable
// specifier in use wins, optionally raised by registry candidates.
func resolvePreferred(dep *Dependency, lowest bool, registry []specifier.Specifier) {
	if dep.Local != nil {
		resolveAgainstLocal(dep)
		return
	}

	candidates := make([]specifier.Specifier, 0, len(dep.Instances))
	for _, inst := range dep.Instances {
		if !inst.Specifier.IsComparable() {
			continue
		}
		if ranged, ok := inst.SpecifierWithPreferredRange(); ok {
			candidates = append(candidates, ranged)
		} else {
			candidates = append(candidates, inst.Specifier)
		}
	}

	pick := specifier.Highest
	if lowest {
		pick = specifier.Lowest
	}
	target, found := pick(candidates)

	var plain specifier.Specifier
	if found {
		plain = ungroupedTarget(dep, target, pick)
	}

	kind := targetPreferred
	if found && !lowest && len(registry) > 0 {
		if published, ok := highestPublished(target, registry); ok {
			target, kind = published, targetRegistry
			if s, ok := plain.WithVersion(published); ok {
				plain = s
			} else {
				plain = published
			}
		}
	}

	identical := allIdentical(dep.Instances)
	for _, inst := range dep.Instances {
		if !found || !inst.Specifier.IsComparable() {
			resolveNonSemver(inst, identical)
			continue
		}
		if _, ok := inst.PreferredRange(); ok {
			checkAgainstTarget(inst, target, kind)
		} else {
			checkAgainstTarget(inst, plain, kind)
		}
	}
}

// ungroupedTarget returns the identity for instances outside any semver
// group. A range projected by some other instance's semver group must not
// leak into them, so the preferred specifier already written at the target's
// version wins, ungrouped instances first.
func ungroupedTarget(dep *Dependency, target specifier.Specifier, pick func([]specifier.Specifier) (specifier.Specifier, bool)) specifier.Specifier {
	var ungrouped, grouped []specifier.Specifier
	for _, inst := range dep.Instances {
		if !inst.Specifier.IsComparable() || !specifier.SameVersion(inst.Specifier, target) {
			continue
		}
		if _, ok := inst.PreferredRange(); ok {
			grouped = append(grouped, inst.Specifier.Unwrap())
		} else {
			ungrouped = append(ungrouped, inst.Specifier.Unwrap())
		}
	}
	if s, ok := pick(ungrouped); ok {
		return s
	}
	if s, ok := pick(grouped); ok {
		return s
	}
	return target
}

// highestPublished re-expresses each published version in the shape of the
// current target and returns the highest one when it beats the target.
func highestPublished(current specifier.Specifier, published []specifier.Specifier) (specifier.Specifier, bool) {
	ranged := make([]specifier.Specifier, 0, len(published))
	for _, p := range published {
		if s, ok := current.WithVersion(p); ok {
			ranged = append(ranged, s)
		}
	}
	best, ok := specifier.Highest(ranged)
	if !ok || specifier.CompareSpecifiers(best, current) <= 0 {
		return specifier.Specifier{}, false
	}
	return best, true
}

// resolveAgainstLocal checks every instance against the package's own version.
func resolveAgainstLocal(dep *Dependency) {
	local := dep.Local.Specifier
	localIsValid := local.Kind() == specifier.KindExact

	for _, inst := range dep.Instances {
		switch {
		case inst == dep.Local:
			if localIsValid {
				inst.keep(IsLocalAndValid)
			} else {
				inst.keep(InvalidLocalVersion)
			}
		case !localIsValid:
			inst.keep(DependsOnInvalidLocalPackage)
		case inst.Specifier.Kind() == specifier.KindWorkspaceProtocol:
			resolveWorkspace(inst, local)
		default:
			checkAgainstTarget(inst, local, targetLocal)
		}
	}
}

// resolveWorkspace checks a workspace: specifier by expressing it against
// the local version.
func resolveWorkspace(inst *Instance, local specifier.Specifier) {
	resolved, ok := inst.Specifier.ResolveWorkspace(local)
	v, _ := local.Version()
	if ok && resolved.Admits(v) {
		inst.keep(SatisfiesLocal)
		return
	}
	op, _ := inst.Specifier.WorkspaceRange()
	expected := specifier.Classify("workspace:" + op.String())
	if op == specifier.RangeExact {
		expected = specifier.Classify("workspace:" + local.Raw())
	}
	if expected.Equal(inst.Specifier) {
		inst.keep(SatisfiesLocal)
		return
	}
	inst.expect(DiffersToLocal, expected)
}

package specifier

import (
	"regexp"

	"github.com/Masterminds/semver/v3"
)

// boundPattern finds version-like bounds inside a constraint.
var boundPattern = regexp.MustCompile(`\d+(?:\.\d+){0,2}(?:-[0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*)?`)

// Constraint returns the semver constraint the specifier expresses.
// Specifiers with no version semantics (tags, git, files, urls, bare
// workspace protocols) return false.
func (s Specifier) Constraint() (*semver.Constraints, bool) {
	text, ok := s.constraintText()
	if !ok {
		return nil, false
	}
	c, err := semver.NewConstraint(text)
	if err != nil {
		return nil, false
	}
	return c, true
}

func (s Specifier) constraintText() (string, bool) {
	switch s.kind {
	case KindExact, KindRange, KindRangeMajor, KindMajor, KindRangeMinor, KindMinor, KindComplexSemver, KindLatest:
		return s.raw, true
	case KindAlias, KindWorkspaceProtocol:
		if s.inner != nil {
			return s.inner.constraintText()
		}
	}
	return "", false
}

// Admits reports whether the specifier's range admits version.
func (s Specifier) Admits(version Version) bool {
	c, ok := s.Constraint()
	if !ok {
		return false
	}
	v, err := semver.NewVersion(version.String())
	if err != nil {
		return false
	}
	return c.Check(v)
}

// Intersects reports whether some version satisfies both a and b.
// Candidates are every bound named by either constraint, its next patch,
// minor and major, and 0.0.0.
func Intersects(a, b Specifier) bool {
	ca, ok := a.Constraint()
	if !ok {
		return false
	}
	cb, ok := b.Constraint()
	if !ok {
		return false
	}
	for _, v := range candidateVersions(a.raw, b.raw) {
		if ca.Check(v) && cb.Check(v) {
			return true
		}
	}
	return false
}

func candidateVersions(texts ...string) []*semver.Version {
	out := []*semver.Version{semver.New(0, 0, 0, "", "")}
	seen := map[string]bool{"0.0.0": true}
	add := func(v semver.Version) {
		if key := v.String(); !seen[key] {
			seen[key] = true
			out = append(out, &v)
		}
	}
	for _, text := range texts {
		for _, bound := range boundPattern.FindAllString(text, -1) {
			v, err := semver.NewVersion(bound)
			if err != nil {
				continue
			}
			add(*v)
			add(v.IncPatch())
			add(v.IncMinor())
			add(v.IncMajor())
		}
	}
	return out
}

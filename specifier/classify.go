package specifier

import (
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

const (
	aliasPrefix     = "npm:"
	workspacePrefix = "workspace:"
)

var (
	majorPattern = regexp.MustCompile(`^\d+$`)
	minorPattern = regexp.MustCompile(`^\d+\.\d+$`)
	// operatorPattern splits a leading range operator from the version.
	operatorPattern = regexp.MustCompile(`^(\^|~|>=|<=|>|<)(\S+)$`)
	tagPattern      = regexp.MustCompile(`^[A-Za-z][0-9A-Za-z._-]*$`)
	// gitShorthandPattern matches owner/repo with an optional #ref.
	gitShorthandPattern = regexp.MustCompile(`^[A-Za-z0-9][\w.-]*/[\w.-]+(#\S*)?$`)
)

var gitPrefixes = []string{
	"git://", "git+ssh://", "git+https://", "git+http://", "git+file://",
	"github:", "gitlab:", "bitbucket:", "gist:",
}

// Classify maps a raw version string to exactly one Specifier variant.
// It never fails: anything unrecognized is Unsupported.
func Classify(raw string) Specifier {
	raw = strings.TrimSpace(raw)

	switch {
	case raw == "*":
		return Specifier{kind: KindLatest, raw: raw, op: RangeAny}
	case strings.HasPrefix(raw, aliasPrefix):
		return classifyAlias(raw)
	case strings.HasPrefix(raw, "file:"), strings.HasPrefix(raw, "link:"):
		return Specifier{kind: KindFile, raw: raw}
	case strings.HasPrefix(raw, workspacePrefix):
		return classifyWorkspace(raw)
	case isGit(raw):
		return Specifier{kind: KindGit, raw: raw}
	case strings.HasPrefix(raw, "http://"), strings.HasPrefix(raw, "https://"):
		return Specifier{kind: KindURL, raw: raw}
	}

	if s, ok := classifySemver(raw); ok {
		return s
	}

	if strings.ContainsAny(raw, "0123456789") {
		if _, err := semver.NewConstraint(raw); err == nil {
			return Specifier{kind: KindComplexSemver, raw: raw}
		}
	}

	if tagPattern.MatchString(raw) {
		return Specifier{kind: KindTag, raw: raw}
	}

	return Specifier{kind: KindUnsupported, raw: raw}
}

// classifySemver recognizes the single-version shapes, with or without an
// operator.
func classifySemver(raw string) (Specifier, bool) {
	op := RangeExact
	text := raw
	if m := operatorPattern.FindStringSubmatch(raw); m != nil {
		r, err := ParseRange(m[1])
		if err != nil {
			return Specifier{}, false
		}
		op, text = r, m[2]
	}

	var kind Kind
	switch {
	case versionPattern.MatchString(text):
		kind = KindExact
		if op != RangeExact {
			kind = KindRange
		}
	case majorPattern.MatchString(text):
		kind = KindMajor
		if op != RangeExact {
			kind = KindRangeMajor
		}
	case minorPattern.MatchString(text):
		kind = KindMinor
		if op != RangeExact {
			kind = KindRangeMinor
		}
	default:
		return Specifier{}, false
	}

	s, err := newSemver(kind, raw, op, text)
	if err != nil {
		return Specifier{}, false
	}
	return s, true
}

// newSemver builds a semver-bearing Specifier. An error means the text
// looked like a version but did not parse, which callers degrade to a
// different variant rather than aborting.
func newSemver(kind Kind, raw string, op Range, text string) (Specifier, error) {
	v, err := ParseVersion(text)
	if err != nil {
		return Specifier{}, err
	}
	return Specifier{kind: kind, raw: raw, op: op, versionText: text, version: v}, nil
}

// classifyAlias parses npm:<name>[@<semver>]. The name is everything before
// the last '@' as long as that prefix is not empty.
func classifyAlias(raw string) Specifier {
	rest := strings.TrimPrefix(raw, aliasPrefix)
	s := Specifier{kind: KindAlias, raw: raw, aliasName: rest}

	idx := strings.LastIndex(rest, "@")
	if idx <= 0 {
		return s
	}
	s.aliasName = rest[:idx]
	inner := Classify(rest[idx+1:])
	if inner.raw == "" {
		return s
	}
	s.inner = &inner
	return s
}

// classifyWorkspace parses workspace:<*|^|~|semver>.
func classifyWorkspace(raw string) Specifier {
	rest := strings.TrimPrefix(raw, workspacePrefix)
	s := Specifier{kind: KindWorkspaceProtocol, raw: raw}
	switch rest {
	case "*", "^", "~":
		r, _ := ParseRange(rest)
		s.op = r
		return s
	}
	inner := Classify(rest)
	switch inner.kind {
	case KindExact, KindRange, KindRangeMajor, KindMajor, KindRangeMinor, KindMinor:
		s.op = inner.op
		s.inner = &inner
		return s
	}
	return Specifier{kind: KindUnsupported, raw: raw}
}

func isGit(raw string) bool {
	for _, prefix := range gitPrefixes {
		if strings.HasPrefix(raw, prefix) {
			return true
		}
	}
	return gitShorthandPattern.MatchString(raw)
}

func stripBuild(text string) string {
	if i := strings.IndexByte(text, '+'); i >= 0 {
		return text[:i]
	}
	return text
}

package specifier

import (
	"cmp"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// versionPattern matches a concrete npm version with optional pre-release and build.
// The build part is captured only so it can be dropped.
var versionPattern = regexp.MustCompile(
	`^(\d+)\.(\d+)\.(\d+)(?:-([0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*))?(?:\+([0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*))?$`,
)

// Identifier represents a dot-separated segment of a pre-release.
//
// Numeric identifiers compare numerically and sort before alphanumeric ones.
type Identifier struct {
	IsDigitsOnly bool
	AsNumber     uint64 // Only valid if IsDigitsOnly
	AsString     string
}

// ParseIdentifier creates an Identifier from a string segment.
func ParseIdentifier(s string) Identifier {
	if s == "" {
		return Identifier{AsString: s}
	}

	allDigits := true
	for _, r := range s {
		if !unicode.IsDigit(r) {
			allDigits = false
			break
		}
	}

	if allDigits {
		num, err := strconv.ParseUint(s, 10, 64)
		if err == nil {
			return Identifier{IsDigitsOnly: true, AsNumber: num, AsString: s}
		}
	}

	return Identifier{AsString: s}
}

// CompareIdentifiers compares two pre-release identifiers.
//   - Digits-only identifiers sort BEFORE alphanumeric
//   - Digits-only identifiers compare numerically
//   - Alphanumeric identifiers compare lexicographically
func CompareIdentifiers(a, b Identifier) int {
	if a.IsDigitsOnly != b.IsDigitsOnly {
		if a.IsDigitsOnly {
			return -1
		}
		return 1
	}

	if a.IsDigitsOnly {
		return cmp.Compare(a.AsNumber, b.AsNumber)
	}

	return strings.Compare(a.AsString, b.AsString)
}

// Version is a parsed MAJOR.MINOR.PATCH[-PRERELEASE] version.
// Build metadata is never part of a Version.
type Version struct {
	Major      uint64
	Minor      uint64
	Patch      uint64
	Prerelease []Identifier
}

// ParseError represents a version parsing error.
type ParseError struct {
	Version string
	Message string
}

func (e *ParseError) Error() string {
	return "bad version " + strconv.Quote(e.Version) + ": " + e.Message
}

// ParseVersion parses a concrete version. Missing minor and patch parts are
// padded with zero, so "1" and "1.2" are accepted as well.
func ParseVersion(s string) (Version, error) {
	if m := versionPattern.FindStringSubmatch(s); m != nil {
		return versionFromParts(s, m[1], m[2], m[3], m[4])
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return Version{}, &ParseError{Version: s, Message: "does not match version pattern"}
	}
	for len(parts) < 3 {
		parts = append(parts, "0")
	}
	return versionFromParts(s, parts[0], parts[1], parts[2], "")
}

func versionFromParts(raw, major, minor, patch, pre string) (Version, error) {
	var v Version
	var err error
	if v.Major, err = parseNumber(raw, major); err != nil {
		return Version{}, err
	}
	if v.Minor, err = parseNumber(raw, minor); err != nil {
		return Version{}, err
	}
	if v.Patch, err = parseNumber(raw, patch); err != nil {
		return Version{}, err
	}
	if pre != "" {
		for _, part := range strings.Split(pre, ".") {
			v.Prerelease = append(v.Prerelease, ParseIdentifier(part))
		}
	}
	return v, nil
}

func parseNumber(raw, s string) (uint64, error) {
	if s == "" {
		return 0, &ParseError{Version: raw, Message: "empty numeric part"}
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, &ParseError{Version: raw, Message: "invalid numeric part " + strconv.Quote(s)}
	}
	return n, nil
}

// IsPrerelease reports whether the version carries a pre-release.
func (v Version) IsPrerelease() bool {
	return len(v.Prerelease) > 0
}

// String returns the canonical MAJOR.MINOR.PATCH[-PRERELEASE] form.
func (v Version) String() string {
	var b strings.Builder
	b.WriteString(strconv.FormatUint(v.Major, 10))
	b.WriteByte('.')
	b.WriteString(strconv.FormatUint(v.Minor, 10))
	b.WriteByte('.')
	b.WriteString(strconv.FormatUint(v.Patch, 10))
	for i, id := range v.Prerelease {
		if i == 0 {
			b.WriteByte('-')
		} else {
			b.WriteByte('.')
		}
		b.WriteString(id.AsString)
	}
	return b.String()
}

// CompareVersions compares two versions.
// Returns -1 if a < b, 0 if a == b, 1 if a > b.
//
// Order:
//  1. Major, minor and patch numerically
//  2. Pre-release versions sort BEFORE the matching release
//  3. Pre-release identifiers lexicographically
func CompareVersions(a, b Version) int {
	if c := cmp.Compare(a.Major, b.Major); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Minor, b.Minor); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Patch, b.Patch); c != 0 {
		return c
	}

	aIsPre := a.IsPrerelease()
	bIsPre := b.IsPrerelease()
	if aIsPre != bIsPre {
		if aIsPre {
			return -1
		}
		return 1
	}

	return compareIdentifierLists(a.Prerelease, b.Prerelease)
}

// compareIdentifierLists compares two lists of identifiers lexicographically.
func compareIdentifierLists(a, b []Identifier) int {
	minLen := min(len(a), len(b))

	for i := range minLen {
		c := CompareIdentifiers(a[i], b[i])
		if c != 0 {
			return c
		}
	}

	// Shorter list is less (lexicographic)
	return cmp.Compare(len(a), len(b))
}

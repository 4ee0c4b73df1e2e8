package specifier

import "cmp"

type orderClass uint8

const (
	orderMinimum orderClass = iota // non-semver sentinel
	orderVersion
	orderInfinity // "*"
)

// Orderable is the total-order projection of a Specifier used for highest
// and lowest selection.
type Orderable struct {
	Range   Range
	Version Version
	class   orderClass
}

// Orderable projects the specifier. Non-semver specifiers produce the
// sentinel minimum and Latest orders above every version.
func (s Specifier) Orderable() Orderable {
	if !s.IsComparable() {
		return Orderable{}
	}
	if r, _ := s.Range(); r == RangeAny && s.Unwrap().kind == KindLatest {
		return Orderable{Range: RangeAny, class: orderInfinity}
	}
	base, _ := s.semverBase()
	return Orderable{Range: base.op, Version: base.version, class: orderVersion}
}

// IsMinimum reports whether o is the non-semver sentinel.
func (o Orderable) IsMinimum() bool {
	return o.class == orderMinimum
}

// Compare orders a and b by version and then by range greediness.
// Returns -1 if a < b, 0 if a == b, 1 if a > b.
func Compare(a, b Orderable) int {
	if c := cmp.Compare(a.class, b.class); c != 0 {
		return c
	}
	if a.class != orderVersion {
		return 0
	}
	if c := CompareVersions(a.Version, b.Version); c != 0 {
		return c
	}
	return cmp.Compare(a.Range.Greediness(), b.Range.Greediness())
}

// CompareSpecifiers compares the Orderable projections of a and b.
func CompareSpecifiers(a, b Specifier) int {
	return Compare(a.Orderable(), b.Orderable())
}

// SameVersion reports whether a and b carry the same version number,
// regardless of range. Latest only matches Latest.
func SameVersion(a, b Specifier) bool {
	oa, ob := a.Orderable(), b.Orderable()
	if oa.class != ob.class {
		return false
	}
	if oa.class == orderMinimum {
		return a.raw == b.raw
	}
	return CompareVersions(oa.Version, ob.Version) == 0
}

// Highest returns the greatest comparable specifier. Ties keep the earliest.
func Highest(specs []Specifier) (Specifier, bool) {
	return pick(specs, 1)
}

// Lowest returns the smallest comparable specifier by version. At an equal
// version the greedier range is still preferred.
func Lowest(specs []Specifier) (Specifier, bool) {
	return pick(specs, -1)
}

func pick(specs []Specifier, want int) (Specifier, bool) {
	var best Specifier
	found := false
	for _, s := range specs {
		if !s.IsComparable() {
			continue
		}
		if !found {
			best, found = s, true
			continue
		}
		a, b := s.Orderable(), best.Orderable()
		if a.class == b.class && a.class == orderVersion && CompareVersions(a.Version, b.Version) == 0 {
			if a.Range.Greediness() > b.Range.Greediness() {
				best = s
			}
			continue
		}
		if Compare(a, b) == want {
			best = s
		}
	}
	return best, found
}

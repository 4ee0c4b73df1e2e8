package specifier

import "fmt"

// Range is the operator an instance wants applied to a bare version.
type Range uint8

const (
	RangeExact Range = iota // ""
	RangeAny                // "*"
	RangeMinor              // "^"
	RangePatch              // "~"
	RangeGt                 // ">"
	RangeGte                // ">="
	RangeLt                 // "<"
	RangeLte                // "<="
)

// AllRanges lists every Range in greediness order, least greedy first.
var AllRanges = []Range{RangeLt, RangeLte, RangeExact, RangePatch, RangeMinor, RangeGte, RangeGt, RangeAny}

// String returns the operator as written in a package.json.
func (r Range) String() string {
	switch r {
	case RangeExact:
		return ""
	case RangeAny:
		return "*"
	case RangeMinor:
		return "^"
	case RangePatch:
		return "~"
	case RangeGt:
		return ">"
	case RangeGte:
		return ">="
	case RangeLt:
		return "<"
	case RangeLte:
		return "<="
	}
	return fmt.Sprintf("Range(%d)", uint8(r))
}

// Greediness ranks how much of the version space a range admits.
// It is only ever used to break ties between equal versions.
func (r Range) Greediness() int {
	switch r {
	case RangeLt:
		return 0
	case RangeLte:
		return 1
	case RangeExact:
		return 2
	case RangePatch:
		return 3
	case RangeMinor:
		return 4
	case RangeGte:
		return 5
	case RangeGt:
		return 6
	case RangeAny:
		return 7
	}
	return -1
}

// ParseRange parses an operator as written in configuration.
func ParseRange(s string) (Range, error) {
	switch s {
	case "":
		return RangeExact, nil
	case "*":
		return RangeAny, nil
	case "^":
		return RangeMinor, nil
	case "~":
		return RangePatch, nil
	case ">":
		return RangeGt, nil
	case ">=":
		return RangeGte, nil
	case "<":
		return RangeLt, nil
	case "<=":
		return RangeLte, nil
	}
	return RangeExact, fmt.Errorf("unknown semver range %q", s)
}

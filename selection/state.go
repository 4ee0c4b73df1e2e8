package selection

import "fmt"

// Category groups states by what a consumer may do with them.
type Category uint8

const (
	CategoryUnknown Category = iota
	CategoryValid
	CategoryFixable
	CategoryUnfixable
	CategoryConflict
	CategorySuspect
)

func (c Category) String() string {
	switch c {
	case CategoryUnknown:
		return "unknown"
	case CategoryValid:
		return "valid"
	case CategoryFixable:
		return "fixable"
	case CategoryUnfixable:
		return "unfixable"
	case CategoryConflict:
		return "conflict"
	case CategorySuspect:
		return "suspect"
	}
	return fmt.Sprintf("Category(%d)", uint8(c))
}

// State is the verdict recorded on an Instance by a resolution pass.
type State uint8

const (
	Unknown State = iota

	// Valid.
	IsIgnored
	IsLocalAndValid
	IsIdenticalToLocal
	SatisfiesLocal
	IsHighestOrLowestSemver
	SatisfiesHighestOrLowestSemver
	IsNonSemverButIdentical
	IsIdenticalToPin
	SatisfiesSameRangeGroup
	IsIdenticalToSnapTarget
	SatisfiesSnapTarget

	// Invalid, fixable.
	IsBanned
	DiffersToLocal
	DiffersToHighestOrLowestSemver
	DiffersToNpmRegistry
	DiffersToSnapTarget
	DiffersToPin
	SemverRangeMismatch
	PinOverridesSemverRange
	PinOverridesSemverRangeMismatch

	// Invalid, unfixable.
	DependsOnInvalidLocalPackage
	NonSemverMismatch
	SameRangeMismatch

	// Invalid, conflicting policies.
	MatchConflictsWithHighestOrLowestSemver
	MismatchConflictsWithHighestOrLowestSemver
	MatchConflictsWithSnapTarget
	MismatchConflictsWithSnapTarget
	MatchConflictsWithLocal
	MismatchConflictsWithLocal

	// Suspect.
	RefuseToBanLocal
	RefuseToPinLocal
	RefuseToSnapLocal
	InvalidLocalVersion
	DependsOnMissingSnapTarget

	stateCount
)

var stateNames = [stateCount]string{
	Unknown:                                    "Unknown",
	IsIgnored:                                  "IsIgnored",
	IsLocalAndValid:                            "IsLocalAndValid",
	IsIdenticalToLocal:                         "IsIdenticalToLocal",
	SatisfiesLocal:                             "SatisfiesLocal",
	IsHighestOrLowestSemver:                    "IsHighestOrLowestSemver",
	SatisfiesHighestOrLowestSemver:             "SatisfiesHighestOrLowestSemver",
	IsNonSemverButIdentical:                    "IsNonSemverButIdentical",
	IsIdenticalToPin:                           "IsIdenticalToPin",
	SatisfiesSameRangeGroup:                    "SatisfiesSameRangeGroup",
	IsIdenticalToSnapTarget:                    "IsIdenticalToSnapTarget",
	SatisfiesSnapTarget:                        "SatisfiesSnapTarget",
	IsBanned:                                   "IsBanned",
	DiffersToLocal:                             "DiffersToLocal",
	DiffersToHighestOrLowestSemver:             "DiffersToHighestOrLowestSemver",
	DiffersToNpmRegistry:                       "DiffersToNpmRegistry",
	DiffersToSnapTarget:                        "DiffersToSnapTarget",
	DiffersToPin:                               "DiffersToPin",
	SemverRangeMismatch:                        "SemverRangeMismatch",
	PinOverridesSemverRange:                    "PinOverridesSemverRange",
	PinOverridesSemverRangeMismatch:            "PinOverridesSemverRangeMismatch",
	DependsOnInvalidLocalPackage:               "DependsOnInvalidLocalPackage",
	NonSemverMismatch:                          "NonSemverMismatch",
	SameRangeMismatch:                          "SameRangeMismatch",
	MatchConflictsWithHighestOrLowestSemver:    "MatchConflictsWithHighestOrLowestSemver",
	MismatchConflictsWithHighestOrLowestSemver: "MismatchConflictsWithHighestOrLowestSemver",
	MatchConflictsWithSnapTarget:               "MatchConflictsWithSnapTarget",
	MismatchConflictsWithSnapTarget:            "MismatchConflictsWithSnapTarget",
	MatchConflictsWithLocal:                    "MatchConflictsWithLocal",
	MismatchConflictsWithLocal:                 "MismatchConflictsWithLocal",
	RefuseToBanLocal:                           "RefuseToBanLocal",
	RefuseToPinLocal:                           "RefuseToPinLocal",
	RefuseToSnapLocal:                          "RefuseToSnapLocal",
	InvalidLocalVersion:                        "InvalidLocalVersion",
	DependsOnMissingSnapTarget:                 "DependsOnMissingSnapTarget",
}

func (s State) String() string {
	if s < stateCount {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// ParseState is the inverse of State.String.
func ParseState(name string) (State, error) {
	for s := Unknown; s < stateCount; s++ {
		if stateNames[s] == name {
			return s, nil
		}
	}
	return Unknown, fmt.Errorf("unknown instance state %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(b []byte) error {
	parsed, err := ParseState(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Category returns the group a state belongs to.
func (s State) Category() Category {
	switch s {
	case Unknown:
		return CategoryUnknown
	case IsIgnored, IsLocalAndValid, IsIdenticalToLocal, SatisfiesLocal,
		IsHighestOrLowestSemver, SatisfiesHighestOrLowestSemver, IsNonSemverButIdentical,
		IsIdenticalToPin, SatisfiesSameRangeGroup, IsIdenticalToSnapTarget, SatisfiesSnapTarget:
		return CategoryValid
	case IsBanned, DiffersToLocal, DiffersToHighestOrLowestSemver, DiffersToNpmRegistry,
		DiffersToSnapTarget, DiffersToPin, SemverRangeMismatch,
		PinOverridesSemverRange, PinOverridesSemverRangeMismatch:
		return CategoryFixable
	case DependsOnInvalidLocalPackage, NonSemverMismatch, SameRangeMismatch:
		return CategoryUnfixable
	case MatchConflictsWithHighestOrLowestSemver, MismatchConflictsWithHighestOrLowestSemver,
		MatchConflictsWithSnapTarget, MismatchConflictsWithSnapTarget,
		MatchConflictsWithLocal, MismatchConflictsWithLocal:
		return CategoryConflict
	case RefuseToBanLocal, RefuseToPinLocal, RefuseToSnapLocal,
		InvalidLocalVersion, DependsOnMissingSnapTarget:
		return CategorySuspect
	}
	return CategoryUnknown
}

// IsValid reports whether the instance needs no change.
func (s State) IsValid() bool { return s.Category() == CategoryValid }

// IsFixable reports whether the expected specifier may be written automatically.
func (s State) IsFixable() bool { return s.Category() == CategoryFixable }

// IsInvalid reports whether the instance breaks a policy, fixable or not.
func (s State) IsInvalid() bool {
	switch s.Category() {
	case CategoryFixable, CategoryUnfixable, CategoryConflict:
		return true
	}
	return false
}

// IsSuspect reports whether the instance was left alone for safety.
func (s State) IsSuspect() bool { return s.Category() == CategorySuspect }

package specifier

import "fmt"

// Kind is the syntactic variant of a Specifier.
type Kind uint8

const (
	KindUnsupported Kind = iota
	KindExact
	KindRange
	KindRangeMajor
	KindMajor
	KindRangeMinor
	KindMinor
	KindLatest
	KindComplexSemver
	KindTag
	KindAlias
	KindFile
	KindGit
	KindURL
	KindWorkspaceProtocol
)

// String returns the name used for the kind in configuration and reports.
func (k Kind) String() string {
	switch k {
	case KindUnsupported:
		return "unsupported"
	case KindExact:
		return "exact"
	case KindRange:
		return "range"
	case KindRangeMajor:
		return "range-major"
	case KindMajor:
		return "major"
	case KindRangeMinor:
		return "range-minor"
	case KindMinor:
		return "minor"
	case KindLatest:
		return "latest"
	case KindComplexSemver:
		return "range-complex"
	case KindTag:
		return "tag"
	case KindAlias:
		return "alias"
	case KindFile:
		return "file"
	case KindGit:
		return "git"
	case KindURL:
		return "url"
	case KindWorkspaceProtocol:
		return "workspace-protocol"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for k := KindUnsupported; k <= KindWorkspaceProtocol; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return KindUnsupported, fmt.Errorf("unknown specifier type %q", s)
}

// Specifier is the classified form of a raw dependency version string.
// The zero value is an Unsupported empty specifier.
type Specifier struct {
	kind Kind
	raw  string

	// Semver-bearing variants.
	op          Range
	versionText string // version as written, without the operator
	version     Version

	// Alias and WorkspaceProtocol.
	aliasName string
	inner     *Specifier
}

// Kind returns the variant.
func (s Specifier) Kind() Kind {
	return s.kind
}

// Raw returns the original text with incidental whitespace removed.
func (s Specifier) Raw() string {
	return s.raw
}

// String implements fmt.Stringer.
func (s Specifier) String() string {
	return s.raw
}

// Equal reports whether both specifiers have the same text.
func (s Specifier) Equal(o Specifier) bool {
	return s.raw == o.raw
}

// AliasName returns the aliased package of an npm: alias, or "".
func (s Specifier) AliasName() string {
	return s.aliasName
}

// Inner returns the nested specifier of an Alias or WorkspaceProtocol.
func (s Specifier) Inner() (Specifier, bool) {
	if s.inner == nil {
		return Specifier{}, false
	}
	return *s.inner, true
}

// semverBase returns the specifier carrying the version for semver-bearing variants.
func (s Specifier) semverBase() (Specifier, bool) {
	switch s.kind {
	case KindExact, KindRange, KindRangeMajor, KindMajor, KindRangeMinor, KindMinor:
		return s, true
	case KindAlias, KindWorkspaceProtocol:
		if s.inner != nil {
			return s.inner.semverBase()
		}
	}
	return Specifier{}, false
}

// SemverNumber returns the bare version portion, without range, protocol or
// alias wrappers and without build metadata.
func (s Specifier) SemverNumber() (string, bool) {
	base, ok := s.semverBase()
	if !ok {
		return "", false
	}
	return stripBuild(base.versionText), true
}

// Version returns the padded version of a semver-bearing specifier.
func (s Specifier) Version() (Version, bool) {
	base, ok := s.semverBase()
	if !ok {
		return Version{}, false
	}
	return base.version, true
}

// Range returns the operator of a semver-bearing specifier.
func (s Specifier) Range() (Range, bool) {
	if s.kind == KindLatest {
		return RangeAny, true
	}
	if s.kind == KindAlias && s.inner != nil && s.inner.kind == KindLatest {
		return RangeAny, true
	}
	base, ok := s.semverBase()
	if !ok {
		return RangeExact, false
	}
	return base.op, true
}

// IsComparable reports whether the specifier has an Orderable projection
// taking part in highest and lowest selection.
func (s Specifier) IsComparable() bool {
	switch s.kind {
	case KindExact, KindRange, KindRangeMajor, KindMajor, KindRangeMinor, KindMinor, KindLatest:
		return true
	case KindAlias:
		return s.inner != nil && s.inner.IsComparable()
	}
	return false
}

// IsSemver reports whether WithRange is defined for the specifier.
func (s Specifier) IsSemver() bool {
	_, ok := s.semverBase()
	return ok
}

// WithRange re-expresses the specifier under another range operator.
// It is defined for Exact, Range, Major, Minor, RangeMajor, RangeMinor and
// for Alias or WorkspaceProtocol specifiers wrapping one of those.
func (s Specifier) WithRange(r Range) (Specifier, bool) {
	switch s.kind {
	case KindExact, KindRange, KindRangeMajor, KindMajor, KindRangeMinor, KindMinor:
		if r == RangeAny {
			return Classify("*"), true
		}
		return Classify(r.String() + s.versionText), true
	case KindAlias:
		if s.inner == nil {
			return Specifier{}, false
		}
		in, ok := s.inner.WithRange(r)
		if !ok {
			return Specifier{}, false
		}
		return Classify(aliasPrefix + s.aliasName + "@" + in.raw), true
	case KindWorkspaceProtocol:
		if s.inner == nil || !s.inner.IsSemver() {
			return Specifier{}, false
		}
		in, ok := s.inner.WithRange(r)
		if !ok || in.kind == KindLatest {
			return Specifier{}, false
		}
		return Classify(workspacePrefix + in.raw), true
	}
	return Specifier{}, false
}

// WithVersion keeps the shape of s (operator, alias name, protocol) and
// substitutes the version of other. It returns false when either side has
// no version.
func (s Specifier) WithVersion(other Specifier) (Specifier, bool) {
	target, ok := other.semverBase()
	if !ok {
		return Specifier{}, false
	}
	switch s.kind {
	case KindAlias:
		if s.inner == nil {
			return Classify(aliasPrefix + s.aliasName + "@" + target.raw), true
		}
		in, ok := s.inner.WithVersion(other)
		if !ok {
			return Specifier{}, false
		}
		return Classify(aliasPrefix + s.aliasName + "@" + in.raw), true
	case KindExact, KindRange, KindRangeMajor, KindMajor, KindRangeMinor, KindMinor:
		return Classify(s.op.String() + target.versionText), true
	}
	return Specifier{}, false
}

// Unwrap strips an Alias wrapper, returning the nested specifier.
// Other variants are returned unchanged.
func (s Specifier) Unwrap() Specifier {
	if s.kind == KindAlias && s.inner != nil {
		return *s.inner
	}
	return s
}

// Rehost writes a target specifier into the shape of an existing one: an
// alias keeps its aliased name and takes the target's value, while a plain
// specifier receiving an alias target takes the unwrapped value.
func Rehost(current, target Specifier) Specifier {
	if current.kind == KindAlias && target.kind != KindAlias {
		switch target.kind {
		case KindExact, KindRange, KindRangeMajor, KindMajor, KindRangeMinor, KindMinor,
			KindLatest, KindTag, KindComplexSemver:
			return Classify(aliasPrefix + current.aliasName + "@" + target.raw)
		}
		return target
	}
	if current.kind != KindAlias && target.kind == KindAlias {
		return target.Unwrap()
	}
	return target
}

// WorkspaceRange returns the operator of a workspace: specifier.
func (s Specifier) WorkspaceRange() (Range, bool) {
	if s.kind != KindWorkspaceProtocol {
		return RangeExact, false
	}
	return s.op, true
}

// ResolveWorkspace expresses a workspace: specifier against the local
// package's own version. "workspace:^" with a local "1.2.3" is "^1.2.3";
// an explicit inner version is returned as is.
func (s Specifier) ResolveWorkspace(local Specifier) (Specifier, bool) {
	if s.kind != KindWorkspaceProtocol {
		return Specifier{}, false
	}
	if s.inner != nil {
		return *s.inner, true
	}
	return local.WithRange(s.op)
}

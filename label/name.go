// Package label provides validated npm package names.
//
// All types in this package are immutable and validate their values at construction time.
// Zero values are invalid; use [NewPackage] to create valid instances.
//
// # Validation Patterns
//
// Package names must match: (@scope/)?name where both parts use
// [A-Za-z0-9~-][A-Za-z0-9._~-]* and the whole name is at most 214 characters.
// Uppercase letters are accepted because the registry still serves legacy
// packages that use them.
package label

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// MaxNameLength is the longest name the npm registry accepts.
const MaxNameLength = 214

// Package represents a validated npm package name, scoped or not.
type Package struct {
	name string
}

var packageNameRegex = regexp.MustCompile(`^(?:@[A-Za-z0-9~-][A-Za-z0-9._~-]*/)?[A-Za-z0-9~-][A-Za-z0-9._~-]*$`)

// NewPackage creates a validated Package from a string.
func NewPackage(name string) (Package, error) {
	if name == "" {
		return Package{}, fmt.Errorf("package name cannot be empty")
	}
	if len(name) > MaxNameLength {
		return Package{}, fmt.Errorf("invalid package name %q: longer than %d characters", name, MaxNameLength)
	}
	if !packageNameRegex.MatchString(name) {
		return Package{}, fmt.Errorf("invalid package name %q: must match pattern (@scope/)?name", name)
	}
	return Package{name: name}, nil
}

// MustPackage creates a Package or panics. Use only for constants/tests.
func MustPackage(name string) Package {
	p, err := NewPackage(name)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the package name string.
func (p Package) String() string {
	return p.name
}

// IsEmpty returns true if this is a zero-value Package.
func (p Package) IsEmpty() bool {
	return p.name == ""
}

// IsScoped reports whether the name has an @scope/ prefix.
func (p Package) IsScoped() bool {
	return strings.HasPrefix(p.name, "@")
}

// Scope returns the scope without '@', or "" for unscoped names.
func (p Package) Scope() string {
	if !p.IsScoped() {
		return ""
	}
	scope, _, _ := strings.Cut(p.name[1:], "/")
	return scope
}

// Bare returns the name without its scope.
func (p Package) Bare() string {
	if !p.IsScoped() {
		return p.name
	}
	_, bare, _ := strings.Cut(p.name, "/")
	return bare
}

// PathEscape returns the name as it appears in a registry URL path.
// The scope separator is encoded: "@scope/pkg" becomes "@scope%2fpkg".
func (p Package) PathEscape() string {
	if !p.IsScoped() {
		return p.name
	}
	return "@" + p.Scope() + "%2f" + p.Bare()
}

// InternalNameIsSupported reports whether a dependency key names a real
// package. Keys carrying audit or resolution annotations, such as
// "oclif>pkg" or "pkg@<1.0.0", are not supported.
func InternalNameIsSupported(name string) bool {
	if name == "" {
		return false
	}
	if strings.Contains(name, ">") {
		return false
	}
	if strings.LastIndex(name, "@") > 0 {
		return false
	}
	if strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		return false
	}
	return true
}

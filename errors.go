package gosyncpack

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for common failures.
var (
	// ErrPackageNotFound indicates the requested package does not exist in any registry.
	ErrPackageNotFound = errors.New("package not found")

	// ErrRateLimited indicates the registry is rate limiting requests.
	ErrRateLimited = errors.New("rate limited")

	// ErrUnauthorized indicates authentication is required or failed.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNoManifests indicates the workspace root has no package.json.
	ErrNoManifests = errors.New("no package.json found")

	// ErrInvalidConfig indicates a version group, semver group or option
	// that cannot be used.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// RegistryError describes a failed registry request.
type RegistryError struct {
	StatusCode  int
	PackageName string
	URL         string
}

func (e *RegistryError) Error() string {
	return fmt.Sprintf("registry returned status %d for package %s (%s)", e.StatusCode, e.PackageName, e.URL)
}

// Unwrap maps the status code onto a sentinel error.
func (e *RegistryError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound, http.StatusGone:
		return ErrPackageNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	}
	return nil
}

// ManifestError describes a package.json that could not be read.
type ManifestError struct {
	Path string
	Err  error
}

func (e *ManifestError) Error() string {
	return fmt.Sprintf("manifest %s: %v", e.Path, e.Err)
}

func (e *ManifestError) Unwrap() error {
	return e.Err
}

// isNotFound reports whether err means the package is absent from a registry.
func isNotFound(err error) bool {
	return errors.Is(err, ErrPackageNotFound)
}

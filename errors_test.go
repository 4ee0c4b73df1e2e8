package gosyncpack

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/albertocavalcante/go-syncpack/manifest"
)

func TestRegistryErrorUnwrap(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusNotFound, ErrPackageNotFound},
		{http.StatusGone, ErrPackageNotFound},
		{http.StatusTooManyRequests, ErrRateLimited},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrUnauthorized},
		{http.StatusInternalServerError, nil},
	}
	for _, tt := range tests {
		err := &RegistryError{StatusCode: tt.status, PackageName: "react", URL: "https://registry.npmjs.org/react"}
		if got := err.Unwrap(); got != tt.want {
			t.Errorf("RegistryError{%d}.Unwrap() = %v, want %v", tt.status, got, tt.want)
		}
		wrapped := fmt.Errorf("lookup: %w", err)
		if tt.want != nil && !errors.Is(wrapped, tt.want) {
			t.Errorf("errors.Is(wrapped %d, %v) = false, want true", tt.status, tt.want)
		}
		if !strings.Contains(err.Error(), "react") {
			t.Errorf("Error() = %q, want package name", err.Error())
		}
	}
}

func TestManifestError(t *testing.T) {
	err := &ManifestError{Path: "packages/a/package.json", Err: manifest.ErrNotObject}
	if !errors.Is(err, manifest.ErrNotObject) {
		t.Error("errors.Is(ManifestError, ErrNotObject) = false, want true")
	}
	if !strings.Contains(err.Error(), "packages/a/package.json") {
		t.Errorf("Error() = %q, want path", err.Error())
	}
}

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{&RegistryError{StatusCode: 404}, true},
		{fmt.Errorf("chain: %w", ErrPackageNotFound), true},
		{&RegistryError{StatusCode: 500}, false},
		{errors.New("connection refused"), false},
	}
	for _, tt := range tests {
		if got := isNotFound(tt.err); got != tt.want {
			t.Errorf("isNotFound(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

package registry

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/albertocavalcante/go-syncpack/label"
)

// FieldError represents a validation failure for a specific field.
type FieldError struct {
	Field   string // Field path (e.g., `versions["1.0.0"].version`)
	Message string // Human-readable error message
}

func (e *FieldError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// ValidationErrors collects multiple validation errors.
type ValidationErrors struct {
	Errors []*FieldError
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d validation errors:", len(e.Errors))
	for _, err := range e.Errors {
		fmt.Fprintf(&b, "\n  - %s", err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying errors for errors.Is/As compatibility.
func (e *ValidationErrors) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		errs[i] = err
	}
	return errs
}

// Add appends a validation error.
func (e *ValidationErrors) Add(field, message string) {
	e.Errors = append(e.Errors, &FieldError{Field: field, Message: message})
}

// ToError returns nil if no errors, otherwise returns self.
func (e *ValidationErrors) ToError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// Validate checks that the Packument is usable for version selection.
// Returns nil if valid, or ValidationErrors containing all issues found.
func (p *Packument) Validate() error {
	var errs ValidationErrors

	if p.Name == "" {
		errs.Add("name", "required field is missing")
	} else if _, err := label.NewPackage(p.Name); err != nil {
		errs.Add("name", err.Error())
	}

	for _, raw := range slices.Sorted(maps.Keys(p.Versions)) {
		field := fmt.Sprintf("versions[%q]", raw)
		if strings.TrimSpace(raw) == "" {
			errs.Add(field, "version key is empty")
		}
		if v := p.Versions[raw].Version; v != "" && v != raw {
			errs.Add(field+".version", fmt.Sprintf("does not match key, got %q", v))
		}
	}

	// Cross-field validation: dist-tags must point at published versions
	for _, tag := range slices.Sorted(maps.Keys(p.DistTags)) {
		if !p.HasVersion(p.DistTags[tag]) {
			errs.Add(
				fmt.Sprintf("dist-tags[%q]", tag),
				fmt.Sprintf("version %q is not published", p.DistTags[tag]),
			)
		}
	}

	return errs.ToError()
}

// ValidatePackumentJSON validates raw JSON bytes as a Packument.
// This is a convenience function that unmarshals and validates in one step.
func ValidatePackumentJSON(data []byte) (*Packument, error) {
	var p Packument
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, &FieldError{Message: fmt.Sprintf("invalid JSON: %v", err)}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

package label

import (
	"strings"
	"testing"
)

func TestNewPackage(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "react", false},
		{"valid with dashes", "react-dom", false},
		{"valid with dots", "lodash.merge", false},
		{"valid scoped", "@babel/core", false},
		{"valid legacy uppercase", "JSONStream", false},
		{"valid single char", "a", false},
		{"empty", "", true},
		{"starts with dot", ".bin", true},
		{"starts with underscore", "_private", true},
		{"contains spaces", "react dom", true},
		{"contains slash without scope", "a/b", true},
		{"scope without name", "@babel/", true},
		{"too long", strings.Repeat("a", MaxNameLength+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPackage(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("NewPackage(%q) expected error, got nil", tt.input)
				}
			} else {
				if err != nil {
					t.Errorf("NewPackage(%q) unexpected error: %v", tt.input, err)
				}
				if p.String() != tt.input {
					t.Errorf("NewPackage(%q).String() = %q, want %q", tt.input, p.String(), tt.input)
				}
			}
		})
	}
}

func TestMustPackage(t *testing.T) {
	p := MustPackage("react")
	if p.String() != "react" {
		t.Errorf("MustPackage('react').String() = %q, want 'react'", p.String())
	}

	defer func() {
		if r := recover(); r == nil {
			t.Error("MustPackage('in valid') should have panicked")
		}
	}()
	MustPackage("in valid")
}

func TestPackageParts(t *testing.T) {
	tests := []struct {
		input      string
		wantScope  string
		wantBare   string
		wantEscape string
	}{
		{"react", "", "react", "react"},
		{"@babel/core", "babel", "core", "@babel%2fcore"},
		{"@types/node", "types", "node", "@types%2fnode"},
	}
	for _, tt := range tests {
		p := MustPackage(tt.input)
		if got := p.Scope(); got != tt.wantScope {
			t.Errorf("%q.Scope() = %q, want %q", tt.input, got, tt.wantScope)
		}
		if got := p.Bare(); got != tt.wantBare {
			t.Errorf("%q.Bare() = %q, want %q", tt.input, got, tt.wantBare)
		}
		if got := p.PathEscape(); got != tt.wantEscape {
			t.Errorf("%q.PathEscape() = %q, want %q", tt.input, got, tt.wantEscape)
		}
		if got := p.IsScoped(); got != (tt.wantScope != "") {
			t.Errorf("%q.IsScoped() = %v", tt.input, got)
		}
	}
	if !(Package{}).IsEmpty() {
		t.Error("zero Package should be empty")
	}
}

func TestInternalNameIsSupported(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"react", true},
		{"@scope/pkg", true},
		{"pkg@<1.0.0", false},
		{"@scope/pkg@1.0.0", false},
		{"oclif>pkg", false},
		{"", false},
		{"has space", false},
	}
	for _, tt := range tests {
		if got := InternalNameIsSupported(tt.input); got != tt.want {
			t.Errorf("InternalNameIsSupported(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

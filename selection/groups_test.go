package selection

import (
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/albertocavalcante/go-syncpack/specifier"
)

func TestSelectorMatching(t *testing.T) {
	tests := []struct {
		name     string
		selector Selector
		want     []string // "pkg/dep" pairs that land in the group
	}{
		{
			name:     "dependency glob",
			selector: Selector{Dependencies: []string{"@types/*"}},
			want:     []string{"a/@types/node", "b/@types/react"},
		},
		{
			name:     "negated dependency",
			selector: Selector{Dependencies: []string{"!react*"}},
			want:     []string{"a/@types/node", "a/lodash", "b/@types/react"},
		},
		{
			name:     "dependency types",
			selector: Selector{DependencyTypes: []string{TypeDev}},
			want:     []string{"a/@types/node", "b/@types/react"},
		},
		{
			name:     "negated dependency types",
			selector: Selector{DependencyTypes: []string{"!" + TypeDev}},
			want:     []string{"a/lodash", "a/react", "b/react-dom"},
		},
		{
			name:     "packages",
			selector: Selector{Packages: []string{"b"}},
			want:     []string{"b/@types/react", "b/react-dom"},
		},
		{
			name:     "specifier types",
			selector: Selector{SpecifierTypes: []string{"exact"}},
			want:     []string{"a/lodash", "b/react-dom"},
		},
		{
			name:     "combined",
			selector: Selector{Dependencies: []string{"react*"}, Packages: []string{"a"}},
			want:     []string{"a/react"},
		},
	}

	pkgs := []testPkg{
		{name: "a", deps: []testDep{prod("react", "^18.0.0"), prod("lodash", "4.17.21"), dev("@types/node", "^20.0.0")}},
		{name: "b", deps: []testDep{prod("react-dom", "18.2.0"), dev("@types/react", "^18.0.0")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Exclude local instances so only dependency fields are counted.
			sel := tt.selector
			sel.DependencyTypes = append(sel.DependencyTypes, "!"+TypeLocal)
			cfg := Config{VersionGroups: []VersionGroup{{Label: "picked", Selector: sel, Policy: Ignored{}}}}
			c := build(t, cfg, pkgs)

			var got []string
			for _, dep := range c.SortedDependencies(ByName) {
				if dep.GroupLabel() != "picked" {
					continue
				}
				for _, inst := range dep.Instances {
					got = append(got, c.Package(inst.Package).Name+"/"+inst.Name)
				}
			}
			slices.Sort(got)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("selected instances mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFirstMatchingGroupWins(t *testing.T) {
	cfg := Config{
		VersionGroups: []VersionGroup{
			{Label: "first", Selector: Selector{Dependencies: []string{"react"}}, Policy: Pinned{Version: "18.0.0"}},
			{Label: "second", Selector: Selector{Dependencies: []string{"react*"}}, Policy: Banned{}},
		},
		SemverGroups: []SemverGroup{
			{Label: "exact", Selector: Selector{Dependencies: []string{"react"}}, IsIgnored: true},
			{Label: "caret", Selector: Selector{Dependencies: []string{"react*"}}, Range: specifier.RangeMinor},
		},
	}
	c := resolve(t, cfg, []testPkg{{name: "a", version: "1.0.0", deps: []testDep{prod("react", "17.0.0"), prod("react-dom", "17.0.0")}}})

	react := find(t, c, "a", "react")
	if react.State != DiffersToPin {
		t.Errorf("react state = %v, want DiffersToPin", react.State)
	}
	if _, ok := react.PreferredRange(); ok {
		t.Error("react should have no preferred range (ignored semver group)")
	}
	if react.SemverGroupLabel() != "exact" {
		t.Errorf("react semver group = %q, want exact", react.SemverGroupLabel())
	}
	dom := find(t, c, "a", "react-dom")
	if dom.State != IsBanned {
		t.Errorf("react-dom state = %v, want IsBanned", dom.State)
	}
	if r, ok := dom.PreferredRange(); !ok || r != specifier.RangeMinor {
		t.Errorf("react-dom preferred range = (%q, %v), want ^", r, ok)
	}
	if got, ok := dom.SpecifierWithPreferredRange(); !ok || got.Raw() != "^17.0.0" {
		t.Errorf("react-dom SpecifierWithPreferredRange() = (%q, %v), want ^17.0.0", got.Raw(), ok)
	}
}

func TestNewContextErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"bad glob", Config{VersionGroups: []VersionGroup{{Selector: Selector{Dependencies: []string{"[a"}}}}}},
		{"bad specifier type", Config{SemverGroups: []SemverGroup{{Selector: Selector{SpecifierTypes: []string{"nope"}}}}}},
		{"empty snap", Config{VersionGroups: []VersionGroup{{Policy: SnappedTo{}}}}},
		{"empty pin", Config{VersionGroups: []VersionGroup{{Label: "pins", Policy: Pinned{}}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewContext(tt.cfg)
			var ge *GroupError
			if !errors.As(err, &ge) {
				t.Fatalf("NewContext() error = %v, want *GroupError", err)
			}
		})
	}
}

func TestSortedDependencies(t *testing.T) {
	c := build(t, Config{}, []testPkg{
		{name: "a", version: "1.0.0", deps: []testDep{prod("zod", "3.0.0"), prod("axios", "1.0.0")}},
		{name: "b", version: "1.0.0", deps: []testDep{prod("zod", "3.0.0")}},
	})

	var byName []string
	for _, d := range c.SortedDependencies(ByName) {
		byName = append(byName, d.Name)
	}
	if diff := cmp.Diff([]string{"a", "axios", "b", "zod"}, byName); diff != "" {
		t.Errorf("ByName mismatch (-want +got):\n%s", diff)
	}

	byCount := c.SortedDependencies(ByCount)
	if byCount[0].Name != "zod" {
		t.Errorf("ByCount first = %q, want zod", byCount[0].Name)
	}

	zod := byCount[0].SortedInstances()
	if c.Package(zod[0].Package).Name != "a" || c.Package(zod[1].Package).Name != "b" {
		t.Error("SortedInstances() should order by package name")
	}
}

func TestStateCategories(t *testing.T) {
	counts := map[Category]int{}
	for s := Unknown; s < stateCount; s++ {
		counts[s.Category()]++
		parsed, err := ParseState(s.String())
		if err != nil || parsed != s {
			t.Errorf("ParseState(%q) = (%v, %v), want %v", s.String(), parsed, err, s)
		}
	}
	want := map[Category]int{
		CategoryUnknown:   1,
		CategoryValid:     11,
		CategoryFixable:   9,
		CategoryUnfixable: 3,
		CategoryConflict:  6,
		CategorySuspect:   5,
	}
	if diff := cmp.Diff(want, counts); diff != "" {
		t.Errorf("category counts mismatch (-want +got):\n%s", diff)
	}
	if !IsBanned.IsFixable() || !IsBanned.IsInvalid() {
		t.Error("IsBanned should be fixable and invalid")
	}
	if RefuseToPinLocal.IsInvalid() || !RefuseToPinLocal.IsSuspect() {
		t.Error("RefuseToPinLocal should be suspect, not invalid")
	}
	if !MatchConflictsWithLocal.IsInvalid() || MatchConflictsWithLocal.IsFixable() {
		t.Error("conflicts are invalid and never fixable")
	}
}

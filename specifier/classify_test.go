package specifier

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		input string
		want  Kind
	}{
		{"1.2.3", KindExact},
		{"1.2.3-alpha.1", KindExact},
		{"1.2.3+build.5", KindExact},
		{"  1.2.3  ", KindExact},
		{"^1.2.3", KindRange},
		{"~1.2.3", KindRange},
		{">=1.2.3", KindRange},
		{"<=1.2.3", KindRange},
		{">1.2.3", KindRange},
		{"<1.2.3-rc.1", KindRange},
		{"1", KindMajor},
		{"^1", KindRangeMajor},
		{">=1", KindRangeMajor},
		{"1.2", KindMinor},
		{"~1.2", KindRangeMinor},
		{"*", KindLatest},
		{"^1.2.3 || ^2.0.0", KindComplexSemver},
		{">=1.0.0 <2.0.0", KindComplexSemver},
		{"1.2.3 - 2.3.4", KindComplexSemver},
		{"1.x", KindComplexSemver},
		{"alpha", KindTag},
		{"latest", KindTag},
		{"canary", KindTag},
		{"npm:foo@1.2.3", KindAlias},
		{"npm:@scope/pkg@^1.2.3", KindAlias},
		{"npm:foo", KindAlias},
		{"file:./packages/a", KindFile},
		{"link:../b", KindFile},
		{"git://github.com/owner/repo.git", KindGit},
		{"git+ssh://git@github.com/owner/repo.git#v1.0.0", KindGit},
		{"git+https://github.com/owner/repo.git", KindGit},
		{"github:owner/repo", KindGit},
		{"owner/repo#main", KindGit},
		{"https://example.com/pkg.tgz", KindURL},
		{"http://example.com/pkg.tgz", KindURL},
		{"workspace:*", KindWorkspaceProtocol},
		{"workspace:^", KindWorkspaceProtocol},
		{"workspace:~", KindWorkspaceProtocol},
		{"workspace:^1.2.3", KindWorkspaceProtocol},
		{"workspace:banana", KindUnsupported},
		{"", KindUnsupported},
		{"   ", KindUnsupported},
		{"$$$", KindUnsupported},
		{"^", KindUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got := Classify(tt.input)
			if got.Kind() != tt.want {
				t.Errorf("Classify(%q).Kind() = %v, want %v", tt.input, got.Kind(), tt.want)
			}
			if again := Classify(tt.input); !again.Equal(got) || again.Kind() != got.Kind() {
				t.Errorf("Classify(%q) is not deterministic", tt.input)
			}
		})
	}
}

func TestClassifyTrimsRaw(t *testing.T) {
	if got := Classify(" ^1.0.0\n").Raw(); got != "^1.0.0" {
		t.Errorf("Raw() = %q, want %q", got, "^1.0.0")
	}
}

func TestSemverNumber(t *testing.T) {
	tests := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{"1.2.3", "1.2.3", true},
		{"^1.2.3-beta.1", "1.2.3-beta.1", true},
		{"1.2.3+build", "1.2.3", true},
		{"~1.2", "1.2", true},
		{"npm:foo@1.2.3", "1.2.3", true},
		{"npm:@foo/bar@^1.2.3", "1.2.3", true},
		{"npm:foo", "", false},
		{"workspace:^1.2.3", "1.2.3", true},
		{"workspace:*", "", false},
		{"*", "", false},
		{"alpha", "", false},
		{"^1 || ^2", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := Classify(tt.input).SemverNumber()
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Classify(%q).SemverNumber() = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestAliasName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"npm:foo@1.2.3", "foo"},
		{"npm:@foo/bar@1.2.3", "@foo/bar"},
		{"npm:@foo/bar", "@foo/bar"},
		{"npm:foo", "foo"},
		{"npm:foo@", "foo"},
	}
	for _, tt := range tests {
		if got := Classify(tt.input).AliasName(); got != tt.want {
			t.Errorf("Classify(%q).AliasName() = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestWithRange(t *testing.T) {
	tests := []struct {
		input  string
		r      Range
		want   string
		wantOK bool
	}{
		{"1.2.3", RangeMinor, "^1.2.3", true},
		{"^1.2.3", RangeExact, "1.2.3", true},
		{"^1.2.3", RangeGte, ">=1.2.3", true},
		{"~1.2", RangeMinor, "^1.2", true},
		{"1", RangePatch, "~1", true},
		{"1.2.3", RangeAny, "*", true},
		{"npm:foo@1.2.3", RangeMinor, "npm:foo@^1.2.3", true},
		{"npm:@s/foo@^1.2.3", RangeLt, "npm:@s/foo@<1.2.3", true},
		{"workspace:1.2.3", RangePatch, "workspace:~1.2.3", true},
		{"workspace:*", RangeMinor, "", false},
		{"npm:foo", RangeMinor, "", false},
		{"*", RangeMinor, "", false},
		{"alpha", RangeMinor, "", false},
		{"^1 || ^2", RangeMinor, "", false},
		{"file:./a", RangeMinor, "", false},
		{"github:a/b", RangeMinor, "", false},
		{"https://a.b/c.tgz", RangeMinor, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input+tt.r.String(), func(t *testing.T) {
			got, ok := Classify(tt.input).WithRange(tt.r)
			if ok != tt.wantOK {
				t.Fatalf("Classify(%q).WithRange(%q) ok = %v, want %v", tt.input, tt.r, ok, tt.wantOK)
			}
			if ok && got.Raw() != tt.want {
				t.Errorf("Classify(%q).WithRange(%q) = %q, want %q", tt.input, tt.r, got.Raw(), tt.want)
			}
		})
	}
}

func TestResolveWorkspace(t *testing.T) {
	local := Classify("1.2.3")
	tests := []struct {
		input string
		want  string
	}{
		{"workspace:*", "*"},
		{"workspace:^", "^1.2.3"},
		{"workspace:~", "~1.2.3"},
		{"workspace:1.0.0", "1.0.0"},
	}
	for _, tt := range tests {
		got, ok := Classify(tt.input).ResolveWorkspace(local)
		if !ok || got.Raw() != tt.want {
			t.Errorf("Classify(%q).ResolveWorkspace(1.2.3) = (%q, %v), want %q", tt.input, got.Raw(), ok, tt.want)
		}
	}
}

func TestRehost(t *testing.T) {
	tests := []struct {
		current, target, want string
	}{
		{"npm:foo@1.0.0", "2.0.0", "npm:foo@2.0.0"},
		{"npm:@s/foo@^1.0.0", "^2.0.0", "npm:@s/foo@^2.0.0"},
		{"1.0.0", "npm:foo@2.0.0", "2.0.0"},
		{"1.0.0", "2.0.0", "2.0.0"},
		{"npm:foo@1.0.0", "npm:foo@2.0.0", "npm:foo@2.0.0"},
		{"npm:foo@1.0.0", "github:a/b", "github:a/b"},
	}
	for _, tt := range tests {
		got := Rehost(Classify(tt.current), Classify(tt.target))
		if got.Raw() != tt.want {
			t.Errorf("Rehost(%q, %q) = %q, want %q", tt.current, tt.target, got.Raw(), tt.want)
		}
	}
}

func TestParseKindRoundTrip(t *testing.T) {
	for k := KindUnsupported; k <= KindWorkspaceProtocol; k++ {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = (%v, %v), want %v", k.String(), got, err, k)
		}
	}
	if _, err := ParseKind("nope"); err == nil {
		t.Error("ParseKind(\"nope\") expected error")
	}
}

package manifest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestLoadWorkspacePatterns(t *testing.T) {
	tests := []struct {
		name       string
		files      map[string]string
		sources    []string
		wantSource PatternSource
		want       []string
	}{
		{
			name:       "default",
			files:      map[string]string{"package.json": `{"name": "root"}`},
			wantSource: SourceDefault,
			want:       []string{"package.json", "packages/*/package.json"},
		},
		{
			name:       "workspaces array",
			files:      map[string]string{"package.json": `{"workspaces": ["apps/*", "./libs/core/"]}`},
			wantSource: SourceWorkspaces,
			want:       []string{"package.json", "apps/*/package.json", "libs/core/package.json"},
		},
		{
			name:       "workspaces object",
			files:      map[string]string{"package.json": `{"workspaces": {"packages": ["modules/**"]}}`},
			wantSource: SourceWorkspaces,
			want:       []string{"package.json", "modules/**/package.json"},
		},
		{
			name: "pnpm wins over workspaces",
			files: map[string]string{
				"package.json":        `{"workspaces": ["apps/*"]}`,
				"pnpm-workspace.yaml": "packages:\n  - 'packages/*'\n  - '!packages/private'\n",
			},
			wantSource: SourcePnpm,
			want:       []string{"package.json", "packages/*/package.json", "!packages/private/package.json"},
		},
		{
			name: "explicit wins over everything",
			files: map[string]string{
				"package.json":        `{"workspaces": ["apps/*"]}`,
				"pnpm-workspace.yaml": "packages: ['packages/*']\n",
			},
			sources:    []string{"tools/*/package.json"},
			wantSource: SourceExplicit,
			want:       []string{"tools/*/package.json"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeFiles(t, tt.files)
			ws, err := LoadWorkspace(dir, tt.sources)
			if err != nil {
				t.Fatalf("LoadWorkspace() error = %v", err)
			}
			if ws.PatternSource != tt.wantSource {
				t.Errorf("PatternSource = %q, want %q", ws.PatternSource, tt.wantSource)
			}
			if diff := cmp.Diff(tt.want, ws.Patterns); diff != "" {
				t.Errorf("Patterns mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadWorkspaceErrors(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
	}{
		{"missing root manifest", map[string]string{"pnpm-workspace.yaml": "packages: []\n"}},
		{"bad yaml", map[string]string{"package.json": `{}`, "pnpm-workspace.yaml": "packages: [\n"}},
		{"bad workspaces", map[string]string{"package.json": `{"workspaces": 3}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeFiles(t, tt.files)
			if _, err := LoadWorkspace(dir, nil); err == nil {
				t.Error("LoadWorkspace() succeeded, want error")
			}
		})
	}
}

func TestCatalogs(t *testing.T) {
	const pnpmWorkspace = `packages:
  - packages/*
catalog:
  react: ^18.2.0
catalogs:
  legacy:
    react: ^17.0.2
`
	dir := writeFiles(t, map[string]string{
		"package.json":        `{"name": "root", "syncpack": {"strict": true}}`,
		"pnpm-workspace.yaml": pnpmWorkspace,
	})
	ws, err := LoadWorkspace(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	if ws.Config["strict"] != true {
		t.Errorf("Config = %v, want the syncpack property", ws.Config)
	}

	entries := ws.Catalogs.Apply([]Entry{
		{Name: "react", Raw: "catalog:"},
		{Name: "react", Raw: "catalog:legacy"},
		{Name: "react", Raw: "catalog:default"},
		{Name: "vue", Raw: "catalog:"},
		{Name: "react", Raw: "^16.0.0"},
	})
	want := []Entry{
		{Name: "react", Raw: "^18.2.0", Ref: "catalog:"},
		{Name: "react", Raw: "^17.0.2", Ref: "catalog:legacy"},
		{Name: "react", Raw: "^18.2.0", Ref: "catalog:default"},
		{Name: "vue", Raw: "catalog:"},
		{Name: "react", Raw: "^16.0.0"},
	}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
	}
}

func TestDiscover(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"package.json":                           `{}`,
		"packages/a/package.json":                `{}`,
		"packages/b/package.json":                `{}`,
		"packages/private/package.json":          `{}`,
		"packages/a/node_modules/x/package.json": `{}`,
		"packages/a/nested/package.json":         `{}`,
		"apps/web/package.json":                  `{}`,
		"apps/web/README.md":                     "",
	})

	tests := []struct {
		name     string
		patterns []string
		want     []string
	}{
		{
			name:     "single level",
			patterns: []string{"packages/*/package.json"},
			want:     []string{"package.json", "packages/a/package.json", "packages/b/package.json", "packages/private/package.json"},
		},
		{
			name:     "exclusion",
			patterns: []string{"packages/*/package.json", "!packages/private/package.json"},
			want:     []string{"package.json", "packages/a/package.json", "packages/b/package.json"},
		},
		{
			name:     "recursive skips node_modules",
			patterns: []string{"packages/**/package.json"},
			want:     []string{"package.json", "packages/a/nested/package.json", "packages/a/package.json", "packages/b/package.json", "packages/private/package.json"},
		},
		{
			name:     "root only",
			patterns: nil,
			want:     []string{"package.json"},
		},
		{
			name:     "several roots",
			patterns: []string{"./apps/*/package.json", "packages/a/package.json"},
			want:     []string{"package.json", "apps/web/package.json", "packages/a/package.json"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Discover(context.Background(), dir, tt.patterns)
			if err != nil {
				t.Fatalf("Discover() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Discover() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDiscoverErrors(t *testing.T) {
	dir := writeFiles(t, map[string]string{"package.json": `{}`})

	if _, err := Discover(context.Background(), dir, []string{"[a"}); err == nil {
		t.Error("Discover() with bad pattern succeeded, want error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Discover(ctx, dir, []string{"**"}); err == nil {
		t.Error("Discover() with canceled context succeeded, want error")
	}
}

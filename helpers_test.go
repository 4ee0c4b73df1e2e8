package gosyncpack

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/albertocavalcante/go-syncpack/registry"
)

// writeFiles creates files under a fresh temporary directory and returns it.
func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// packumentJSON builds a packument for name. Versions prefixed with "!"
// are published as deprecated.
func packumentJSON(t *testing.T, name, latest string, versions ...string) string {
	t.Helper()
	p := registry.Packument{
		Name:     name,
		DistTags: map[string]string{"latest": latest},
		Versions: make(map[string]registry.PackumentVersion),
	}
	for _, v := range versions {
		var deprecated registry.Deprecation
		if v[0] == '!' {
			v = v[1:]
			deprecated = "do not use"
		}
		p.Versions[v] = registry.PackumentVersion{Name: name, Version: v, Deprecated: deprecated}
	}
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

// monorepo is a small workspace with one fixable instance of react and
// one of typescript.
var monorepo = map[string]string{
	"package.json": `{
  "name": "root",
  "version": "0.0.0",
  "private": true,
  "workspaces": ["packages/*"],
  "devDependencies": {"typescript": "5.4.0"}
}`,
	"packages/a/package.json": `{
  "name": "a",
  "version": "1.0.0",
  "dependencies": {"react": "^18.2.0", "lodash": "4.17.20"}
}`,
	"packages/b/package.json": `{
  "name": "b",
  "version": "2.0.0",
  "dependencies": {"a": "1.0.0", "react": "^18.3.1"},
  "devDependencies": {"typescript": "5.3.3"}
}`,
}

// findInstance returns the instance of dep declared in the manifest file.
func findInstance(t *testing.T, r *Report, dep, file string) InstanceReport {
	t.Helper()
	for _, d := range r.Dependencies {
		if d.Name != dep {
			continue
		}
		for _, inst := range d.Instances {
			if inst.File == file {
				return inst
			}
		}
	}
	t.Fatalf("no instance of %s in %s", dep, file)
	return InstanceReport{}
}

package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/albertocavalcante/go-syncpack/label"
)

// FileName is the manifest file name of every package.
const FileName = "package.json"

// ErrNotObject is returned when a manifest is valid JSON but not an object.
var ErrNotObject = errors.New("manifest is not a JSON object")

// Package is a decoded package.json. The full document is kept so that
// custom dependency types can read arbitrary fields.
type Package struct {
	Path    string
	Name    string
	Version string
	doc     map[string]any
}

// Load reads and parses the manifest at path.
func Load(path string) (*Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	pkg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	pkg.Path = path
	return pkg, nil
}

// Parse parses package.json data.
func Parse(data []byte) (*Package, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse manifest JSON: %w", err)
	}
	doc, ok := raw.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	pkg := &Package{doc: doc}
	pkg.Name, _ = doc["name"].(string)
	pkg.Version, _ = doc["version"].(string)
	return pkg, nil
}

// Field returns the value at a dot separated path.
func (p *Package) Field(path string) (any, bool) {
	return lookup(p.doc, strings.Split(path, "."))
}

func lookup(doc map[string]any, segments []string) (any, bool) {
	var cur any = doc
	for _, s := range segments {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = obj[s]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// Entries reads every dependency of the given types, sorted by path.
// Local types are skipped: the package version is exposed as Version.
// Names that carry annotation syntax are dropped.
func (p *Package) Entries(types []DependencyType) []Entry {
	var out []Entry
	for _, t := range types {
		if t.IsLocal() {
			continue
		}
		segs := t.segments()
		v, ok := lookup(p.doc, segs)
		if !ok {
			continue
		}
		base := pointer(segs...)
		switch t.Strategy {
		case VersionsByName:
			if obj, ok := v.(map[string]any); ok {
				out = appendVersionsByName(out, t, base, obj)
			}
		case NameAtVersion:
			if s, ok := v.(string); ok {
				if name, raw, ok := splitNameAtVersion(s); ok {
					out = append(out, Entry{Path: base, Name: name, Raw: raw, Type: t.Name, Strategy: t.Strategy})
				}
			}
		case VersionOnly:
			if s, ok := v.(string); ok {
				out = append(out, Entry{Path: base, Name: t.Name, Raw: s, Type: t.Name, Strategy: t.Strategy})
			}
		}
	}

	out = slices.DeleteFunc(out, func(e Entry) bool {
		return !label.InternalNameIsSupported(e.Name)
	})
	slices.SortStableFunc(out, func(a, b Entry) int {
		return strings.Compare(a.Path, b.Path)
	})
	return out
}

// appendVersionsByName reads an object of specifiers. Nested objects follow
// the npm overrides shape, where "." holds the version of the parent key.
func appendVersionsByName(out []Entry, t DependencyType, base string, obj map[string]any) []Entry {
	for _, name := range slices.Sorted(maps.Keys(obj)) {
		path := base + "/" + escapeToken(name)
		switch v := obj[name].(type) {
		case string:
			out = append(out, Entry{Path: path, Name: name, Raw: v, Type: t.Name, Strategy: t.Strategy})
		case map[string]any:
			if self, ok := v["."].(string); ok {
				out = append(out, Entry{Path: path + "/.", Name: name, Raw: self, Type: t.Name, Strategy: t.Strategy})
			}
			nested := maps.Clone(v)
			delete(nested, ".")
			out = appendVersionsByName(out, t, path, nested)
		}
	}
	return out
}

func splitNameAtVersion(s string) (name, version string, ok bool) {
	i := strings.LastIndex(s, "@")
	if i <= 0 {
		return "", "", false
	}
	return s[:i], s[i+1:], true
}

// Set writes raw as the specifier of e, creating objects along the path.
func (p *Package) Set(e Entry, raw string) error {
	segs, err := parsePointer(e.Path)
	if err != nil {
		return err
	}
	value := raw
	if e.Strategy == NameAtVersion {
		value = e.Name + "@" + raw
	}
	obj := p.doc
	for _, s := range segs[:len(segs)-1] {
		next, ok := obj[s].(map[string]any)
		if !ok {
			if _, exists := obj[s]; exists {
				return fmt.Errorf("%s: %q is not an object", e.Path, s)
			}
			next = make(map[string]any)
			obj[s] = next
		}
		obj = next
	}
	obj[segs[len(segs)-1]] = value
	if e.Path == "/version" {
		p.Version = raw
	}
	return nil
}

// Delete removes the field holding e. Missing fields are not an error.
func (p *Package) Delete(e Entry) error {
	segs, err := parsePointer(e.Path)
	if err != nil {
		return err
	}
	obj := p.doc
	for _, s := range segs[:len(segs)-1] {
		next, ok := obj[s].(map[string]any)
		if !ok {
			return nil
		}
		obj = next
	}
	delete(obj, segs[len(segs)-1])
	return nil
}

// Clone returns a deep copy of the package.
func (p *Package) Clone() *Package {
	c := *p
	c.doc = cloneValue(p.doc).(map[string]any)
	return &c
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = cloneValue(e)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = cloneValue(e)
		}
		return out
	}
	return v
}

// MarshalIndent serializes the document with sorted keys.
func (p *Package) MarshalIndent(prefix, indent string) ([]byte, error) {
	return json.MarshalIndent(p.doc, prefix, indent)
}

// pointer builds a JSON pointer (RFC 6901) from unescaped tokens.
func pointer(tokens ...string) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteByte('/')
		b.WriteString(escapeToken(t))
	}
	return b.String()
}

func escapeToken(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~", "~0"), "/", "~1")
}

func parsePointer(p string) ([]string, error) {
	if !strings.HasPrefix(p, "/") || len(p) < 2 {
		return nil, fmt.Errorf("invalid JSON pointer %q", p)
	}
	segs := strings.Split(p[1:], "/")
	for i, s := range segs {
		segs[i] = strings.ReplaceAll(strings.ReplaceAll(s, "~1", "/"), "~0", "~")
	}
	return segs, nil
}

package manifest

import "strings"

// DefaultCatalog is the name of the top-level pnpm "catalog".
const DefaultCatalog = "default"

const catalogPrefix = "catalog:"

// Catalogs maps catalog name to dependency name to specifier.
type Catalogs map[string]map[string]string

// Resolve returns the specifier a "catalog:" reference points at. The
// second result is false when raw is not a reference or the entry is missing.
func (c Catalogs) Resolve(name, raw string) (string, bool) {
	ref, ok := strings.CutPrefix(raw, catalogPrefix)
	if !ok {
		return "", false
	}
	ref = strings.TrimSpace(ref)
	if ref == "" {
		ref = DefaultCatalog
	}
	spec, ok := c[ref][name]
	return spec, ok
}

// Apply replaces catalog references with the specifiers they point at.
// Unresolvable references are kept as they are.
func (c Catalogs) Apply(entries []Entry) []Entry {
	for i, e := range entries {
		if spec, ok := c.Resolve(e.Name, e.Raw); ok {
			entries[i].Ref = e.Raw
			entries[i].Raw = spec
		}
	}
	return entries
}

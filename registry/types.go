package registry

import (
	"encoding/json"
	"slices"

	"github.com/albertocavalcante/go-syncpack/specifier"
)

// Packument is the registry document describing every published version of
// a package.
type Packument struct {
	// Name is the package name, scope included.
	Name string `json:"name"`

	// DistTags maps tag names such as "latest" or "next" to versions.
	DistTags map[string]string `json:"dist-tags"`

	// Versions holds the manifest of each published version.
	Versions map[string]PackumentVersion `json:"versions"`

	// Time maps versions to their publish timestamp, plus "created" and
	// "modified" entries.
	Time map[string]string `json:"time,omitempty"`
}

// PackumentVersion is the subset of a published manifest this package reads.
type PackumentVersion struct {
	Name    string `json:"name"`
	Version string `json:"version"`

	// Deprecated explains why the version should not be used. Registries
	// send either a message or false; any other value is treated as empty.
	Deprecated Deprecation `json:"deprecated,omitempty"`
}

// Deprecation is a deprecation notice. npm emits a string when a version is
// deprecated; some mirrors emit false or true instead.
type Deprecation string

// UnmarshalJSON accepts a string or a boolean.
func (d *Deprecation) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "false", "null":
		*d = ""
		return nil
	case "true":
		*d = "deprecated"
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*d = Deprecation(s)
	return nil
}

// LatestVersion returns the "latest" dist-tag, falling back to the highest
// published version.
func (p *Packument) LatestVersion() string {
	if v, ok := p.DistTags["latest"]; ok && v != "" {
		return v
	}
	versions := p.SortedVersions()
	if len(versions) == 0 {
		return ""
	}
	return versions[len(versions)-1]
}

// HasVersion reports whether the version has been published.
func (p *Packument) HasVersion(version string) bool {
	_, ok := p.Versions[version]
	return ok
}

// IsDeprecated reports whether the version carries a deprecation notice.
func (p *Packument) IsDeprecated(version string) bool {
	return p.DeprecationReason(version) != ""
}

// DeprecationReason returns the deprecation notice of the version, or "".
func (p *Packument) DeprecationReason(version string) string {
	return string(p.Versions[version].Deprecated)
}

// SortedVersions returns the published versions in ascending semver order.
// Keys that are not semver versions are skipped.
func (p *Packument) SortedVersions() []string {
	type parsed struct {
		raw string
		v   specifier.Version
	}
	list := make([]parsed, 0, len(p.Versions))
	for raw := range p.Versions {
		v, err := specifier.ParseVersion(raw)
		if err != nil {
			continue
		}
		list = append(list, parsed{raw, v})
	}
	slices.SortFunc(list, func(a, b parsed) int {
		return specifier.CompareVersions(a.v, b.v)
	})
	out := make([]string, len(list))
	for i, e := range list {
		out[i] = e.raw
	}
	return out
}

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/albertocavalcante/go-syncpack/manifest"
)

// EnvPrefix prefixes environment variable overrides, e.g. SYNCPACK_STRICT
// or SYNCPACK_UPDATE_TARGET.
const EnvPrefix = "SYNCPACK"

// FileNames are the configuration files looked up in the workspace root,
// in order.
var FileNames = []string{".syncpackrc", ".syncpackrc.json", ".syncpackrc.yaml", ".syncpackrc.yml"}

// PackageSource is reported as the source of configuration read from the
// root package.json.
const PackageSource = manifest.FileName + "#syncpack"

//go:embed schema.cue
var schema string

// Default values.
const (
	DefaultTarget      = "latest"
	DefaultConcurrency = 8
)

// Config is a decoded configuration file.
type Config struct {
	Source          []string              `mapstructure:"source"`
	DependencyTypes []string              `mapstructure:"dependencyTypes"`
	SpecifierTypes  []string              `mapstructure:"specifierTypes"`
	Filter          []string              `mapstructure:"filter"`
	Strict          bool                  `mapstructure:"strict"`
	Registries      []string              `mapstructure:"registries"`
	VersionGroups   []VersionGroup        `mapstructure:"versionGroups"`
	SemverGroups    []SemverGroup         `mapstructure:"semverGroups"`
	CustomTypes     map[string]CustomType `mapstructure:"customTypes"`
	Update          Update                `mapstructure:"update"`
}

// Selector narrows which instances a group governs.
type Selector struct {
	Label           string   `mapstructure:"label"`
	Dependencies    []string `mapstructure:"dependencies"`
	DependencyTypes []string `mapstructure:"dependencyTypes"`
	Packages        []string `mapstructure:"packages"`
	SpecifierTypes  []string `mapstructure:"specifierTypes"`
}

// VersionGroup is a version group as written in configuration. At most
// one of IsBanned, IsIgnored, PinVersion, Policy, PreferVersion and SnapTo
// may be set; with none, the group prefers the highest semver.
type VersionGroup struct {
	Selector      `mapstructure:",squash"`
	IsBanned      bool     `mapstructure:"isBanned"`
	IsIgnored     bool     `mapstructure:"isIgnored"`
	PinVersion    string   `mapstructure:"pinVersion"`
	Policy        string   `mapstructure:"policy"`
	PreferVersion string   `mapstructure:"preferVersion"`
	SnapTo        []string `mapstructure:"snapTo"`
}

// SemverGroup is a semver group as written in configuration.
type SemverGroup struct {
	Selector  `mapstructure:",squash"`
	IsIgnored bool   `mapstructure:"isIgnored"`
	Range     string `mapstructure:"range"`
}

// CustomType reads dependencies from an arbitrary package.json field.
type CustomType struct {
	Path     string `mapstructure:"path"`
	Strategy string `mapstructure:"strategy"`
}

// Update holds the settings of the update command.
type Update struct {
	Target          string        `mapstructure:"target"`
	Concurrency     int           `mapstructure:"concurrency"`
	Timeout         time.Duration `mapstructure:"timeout"`
	AllowPrerelease bool          `mapstructure:"allowPrerelease"`
}

// LoadOptions controls where Load looks for configuration.
type LoadOptions struct {
	// Dir is the workspace root.
	Dir string

	// File, when set, is used exclusively and must exist.
	File string
}

// Load reads the configuration for a workspace. It returns the decoded
// configuration and where it came from: a file path, PackageSource, or ""
// when only defaults apply.
func Load(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	v.SetDefault("source", []string{})
	v.SetDefault("dependencyTypes", []string{})
	v.SetDefault("specifierTypes", []string{})
	v.SetDefault("filter", []string{})
	v.SetDefault("strict", false)
	v.SetDefault("registries", []string{})
	v.SetDefault("update.target", DefaultTarget)
	v.SetDefault("update.concurrency", DefaultConcurrency)
	v.SetDefault("update.timeout", time.Duration(0))
	v.SetDefault("update.allowPrerelease", false)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	raw, source, err := find(opts)
	if err != nil {
		return nil, "", err
	}
	if raw != nil {
		if err := validate(raw, source); err != nil {
			return nil, "", err
		}
		if err := v.MergeConfigMap(raw); err != nil {
			return nil, "", fmt.Errorf("failed to merge config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config %s: %w", source, err)
	}
	cfg.CustomTypes = restoreKeys(cfg.CustomTypes, raw)
	return &cfg, source, nil
}

// find returns the raw configuration and its source.
func find(opts LoadOptions) (map[string]any, string, error) {
	if opts.File != "" {
		raw, err := readFile(opts.File)
		if err != nil {
			return nil, "", err
		}
		return raw, opts.File, nil
	}

	for _, name := range FileNames {
		path := filepath.Join(opts.Dir, name)
		if !fileExists(path) {
			continue
		}
		raw, err := readFile(path)
		if err != nil {
			return nil, "", err
		}
		return raw, path, nil
	}

	ws, err := manifest.LoadWorkspace(opts.Dir, nil)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", PackageSource, err)
	}
	if ws.Config == nil {
		return nil, "", nil
	}
	return ws.Config, PackageSource, nil
}

// readFile decodes a JSON or YAML configuration file. JSON is read by the
// YAML decoder, which accepts it unchanged.
func readFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	raw := make(map[string]any)
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return raw, nil
}

// validate unifies raw with the #Config schema.
func validate(raw map[string]any, source string) error {
	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(schema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.Encode(normalize(raw))
	if userValue.Err() != nil {
		return formatError(userValue.Err(), source)
	}

	unified := schemaValue.LookupPath(cue.ParsePath("#Config")).Unify(userValue)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return formatError(err, source)
	}
	return nil
}

// normalize turns integral float64 values, as decoded from package.json,
// into ints so they satisfy int constraints.
func normalize(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = normalize(e)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = normalize(e)
		}
		return out
	case float64:
		if v == math.Trunc(v) {
			return int(v)
		}
	}
	return v
}

// restoreKeys undoes the key lowercasing viper applies to maps, so custom
// type names keep the spelling users refer to them by.
func restoreKeys(decoded map[string]CustomType, raw map[string]any) map[string]CustomType {
	original, _ := raw["customTypes"].(map[string]any)
	if len(decoded) == 0 || len(original) == 0 {
		return decoded
	}
	out := make(map[string]CustomType, len(decoded))
	for name := range original {
		ct, ok := decoded[name]
		if !ok {
			ct, ok = decoded[strings.ToLower(name)]
		}
		if ok {
			out[name] = ct
		}
	}
	return out
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

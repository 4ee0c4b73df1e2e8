package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// PnpmWorkspaceFile is the pnpm workspace definition at the repository root.
const PnpmWorkspaceFile = "pnpm-workspace.yaml"

// DefaultPatterns are used when neither pnpm nor the root manifest lists
// workspace packages.
var DefaultPatterns = []string{"package.json", "packages/*/package.json"}

// PatternSource records where the workspace patterns came from.
type PatternSource string

const (
	SourceExplicit   PatternSource = "explicit"
	SourcePnpm       PatternSource = "pnpm-workspace.yaml"
	SourceWorkspaces PatternSource = "package.json workspaces"
	SourceDefault    PatternSource = "default"
)

// Workspace describes the layout of a monorepo.
type Workspace struct {
	Root          string
	Patterns      []string
	PatternSource PatternSource
	Catalogs      Catalogs
	// Config is the "syncpack" property of the root manifest, if present.
	Config map[string]any
}

type pnpmWorkspace struct {
	Packages []string                     `yaml:"packages"`
	Catalog  map[string]string            `yaml:"catalog"`
	Catalogs map[string]map[string]string `yaml:"catalogs"`
}

// LoadWorkspace reads the workspace definition under root. Non-empty
// sources replace every other pattern source.
func LoadWorkspace(root string, sources []string) (*Workspace, error) {
	ws := &Workspace{Root: root, Catalogs: Catalogs{}}

	rootPkg, err := Load(filepath.Join(root, FileName))
	if err != nil {
		return nil, err
	}
	if cfg, ok := rootPkg.doc["syncpack"].(map[string]any); ok {
		ws.Config = cfg
	}

	pnpm, err := readPnpmWorkspace(filepath.Join(root, PnpmWorkspaceFile))
	if err != nil {
		return nil, err
	}
	if pnpm != nil {
		if len(pnpm.Catalog) > 0 {
			ws.Catalogs[DefaultCatalog] = pnpm.Catalog
		}
		for name, entries := range pnpm.Catalogs {
			ws.Catalogs[name] = entries
		}
	}

	switch {
	case len(sources) > 0:
		ws.Patterns, ws.PatternSource = sources, SourceExplicit
	case pnpm != nil && len(pnpm.Packages) > 0:
		ws.Patterns, ws.PatternSource = manifestPatterns(pnpm.Packages), SourcePnpm
	default:
		workspaces, err := rootPkg.workspaces()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Join(root, FileName), err)
		}
		if len(workspaces) > 0 {
			ws.Patterns, ws.PatternSource = manifestPatterns(workspaces), SourceWorkspaces
		} else {
			ws.Patterns, ws.PatternSource = DefaultPatterns, SourceDefault
		}
	}
	return ws, nil
}

func readPnpmWorkspace(path string) (*pnpmWorkspace, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", PnpmWorkspaceFile, err)
	}
	var pw pnpmWorkspace
	if err := yaml.Unmarshal(data, &pw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", PnpmWorkspaceFile, err)
	}
	return &pw, nil
}

// workspaces reads the npm/yarn "workspaces" field, which is either an
// array of globs or an object with a "packages" array.
func (p *Package) workspaces() ([]string, error) {
	v, ok := p.doc["workspaces"]
	if !ok {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}
	var obj struct {
		Packages []string `json:"packages"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("workspaces must be an array or an object with packages: %w", err)
	}
	return obj.Packages, nil
}

// manifestPatterns turns directory globs into package.json globs.
func manifestPatterns(dirs []string) []string {
	out := make([]string, 0, len(dirs)+1)
	out = append(out, FileName)
	for _, d := range dirs {
		negated := strings.HasPrefix(d, "!")
		d = strings.TrimPrefix(d, "!")
		d = strings.TrimPrefix(d, "./")
		d = strings.TrimSuffix(d, "/")
		if d != FileName && !strings.HasSuffix(d, "/"+FileName) {
			d += "/" + FileName
		}
		if negated {
			d = "!" + d
		}
		out = append(out, d)
	}
	return out
}

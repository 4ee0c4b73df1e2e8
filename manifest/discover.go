package manifest

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"
)

var skippedDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
}

// Discover walks root and returns the slash separated paths, relative to
// root, of every package.json matching patterns. Patterns prefixed with
// "!" exclude. The root manifest is always first.
func Discover(ctx context.Context, root string, patterns []string) ([]string, error) {
	var include, exclude []glob.Glob
	for _, p := range patterns {
		negated := strings.HasPrefix(p, "!")
		p = strings.TrimPrefix(strings.TrimPrefix(p, "!"), "./")
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid source pattern %q: %w", p, err)
		}
		if negated {
			exclude = append(exclude, g)
		} else {
			include = append(include, g)
		}
	}

	var found []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && skippedDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() != FileName {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == FileName || (matchAny(include, rel) && !matchAny(exclude, rel)) {
			found = append(found, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(found, func(a, b string) int {
		switch {
		case a == FileName:
			return -1
		case b == FileName:
			return 1
		}
		return strings.Compare(a, b)
	})
	return found, nil
}

func matchAny(globs []glob.Glob, s string) bool {
	for _, g := range globs {
		if g.Match(s) {
			return true
		}
	}
	return false
}

package gosyncpack

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/albertocavalcante/go-syncpack/label"
	"github.com/albertocavalcante/go-syncpack/registry"
)

// LocalRegistry serves packuments from a directory, for offline and
// airgapped workflows. Each packument lives at {root}/{name}.json, so a
// scoped package is stored as {root}/@scope/name.json.
//
// Create with file:// URLs:
//
//	reg, err := NewRegistry([]string{"file:///path/to/packuments"})
//
// Or use NewLocalRegistry directly with a native path.
type LocalRegistry struct {
	rootPath string
	decoder  *registry.Client
	cache    sync.Map // map[string]*registry.Packument keyed by package name
}

// NewLocalRegistry creates a registry for a local directory, which must exist.
func NewLocalRegistry(rootPath string) (*LocalRegistry, error) {
	rootPath = filepath.Clean(rootPath)
	info, err := os.Stat(rootPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("local registry path does not exist: %s", rootPath)
		}
		return nil, fmt.Errorf("cannot access local registry path %s: %w", rootPath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("local registry path is not a directory: %s", rootPath)
	}
	return &LocalRegistry{
		rootPath: rootPath,
		decoder:  registry.NewClient(""),
	}, nil
}

// parseFileURL extracts the path from a file:// URL.
// Handles both Unix (file:///path) and Windows (file:///C:/path) formats.
func parseFileURL(url string) (string, error) {
	if !isFileURL(url) {
		return "", fmt.Errorf("not a file:// URL: %s", url)
	}

	path := strings.TrimPrefix(url, "file://")

	// file:///C:/path -> C:/path
	if len(path) >= 3 && path[0] == '/' && isWindowsDriveLetter(path[1]) && path[2] == ':' {
		path = path[1:]
	}

	return filepath.Clean(path), nil
}

// isWindowsDriveLetter returns true if c is a valid Windows drive letter (A-Z, a-z).
func isWindowsDriveLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// isFileURL checks if a URL is a file:// URL.
func isFileURL(url string) bool {
	return strings.HasPrefix(url, "file://")
}

// BaseURL returns the file:// URL for this registry.
// The URL uses forward slashes regardless of OS, per RFC 8089.
func (r *LocalRegistry) BaseURL() string {
	urlPath := filepath.ToSlash(r.rootPath)
	if runtime.GOOS == "windows" && len(urlPath) >= 2 && isWindowsDriveLetter(urlPath[0]) && urlPath[1] == ':' {
		urlPath = "/" + urlPath
	}
	return "file://" + urlPath
}

// Packument reads {root}/{name}.json.
func (r *LocalRegistry) Packument(ctx context.Context, name string) (*registry.Packument, error) {
	if cached, ok := r.cache.Load(name); ok {
		return cached.(*registry.Packument), nil
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	pkg, err := label.NewPackage(name)
	if err != nil {
		return nil, err
	}
	path := filepath.Join(r.rootPath, filepath.FromSlash(pkg.String())+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &RegistryError{
				StatusCode:  404,
				PackageName: name,
				URL:         pathToFileURL(path),
			}
		}
		return nil, fmt.Errorf("read local packument %s: %w", path, err)
	}

	p, err := r.decoder.Decode(name, data)
	if err != nil {
		return nil, fmt.Errorf("parse local packument %s: %w", path, err)
	}

	r.cache.Store(name, p)
	return p, nil
}

// pathToFileURL converts a native file path to a file:// URL.
func pathToFileURL(path string) string {
	urlPath := filepath.ToSlash(path)
	if len(urlPath) >= 2 && isWindowsDriveLetter(urlPath[0]) && urlPath[1] == ':' {
		urlPath = "/" + urlPath
	}
	return "file://" + urlPath
}

package gosyncpack

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// cacheFilePermissions is the file permission mode for cached packuments.
const cacheFilePermissions = 0o600

var _ PackumentCache = (*DirCache)(nil)

// DirCache stores packuments as files in a directory so that repeated
// runs reuse registry responses. Entries older than the maximum age are
// treated as misses and overwritten on the next fetch.
type DirCache struct {
	dir    string
	maxAge time.Duration
	now    func() time.Time
}

// NewDirCache creates the cache directory if needed. A maxAge of zero
// keeps entries forever.
func NewDirCache(dir string, maxAge time.Duration) (*DirCache, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: cache directory is required", ErrInvalidConfig)
	}
	if maxAge < 0 {
		return nil, fmt.Errorf("%w: cache max age must be positive", ErrInvalidConfig)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	return &DirCache{dir: dir, maxAge: maxAge, now: time.Now}, nil
}

// path maps a package name to a flat file name; scoped names keep their
// scope with the slash escaped.
func (c *DirCache) path(name string) string {
	return filepath.Join(c.dir, url.PathEscape(name)+".json")
}

// Get reads a cached packument.
func (c *DirCache) Get(ctx context.Context, name string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	path := c.path(name)
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("stat cached packument: %w", err)
	}
	if c.maxAge > 0 && c.now().Sub(info.ModTime()) > c.maxAge {
		return nil, false, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("read cached packument: %w", err)
	}
	return data, true, nil
}

// Put writes a packument. The file is replaced atomically so concurrent
// readers never see a partial document.
func (c *DirCache) Put(ctx context.Context, name string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(c.dir, ".packument-*")
	if err != nil {
		return fmt.Errorf("write cached packument: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return fmt.Errorf("write cached packument: %w", err)
	}
	if err := tmp.Chmod(cacheFilePermissions); err != nil {
		tmp.Close()
		return fmt.Errorf("write cached packument: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write cached packument: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path(name)); err != nil {
		return fmt.Errorf("write cached packument: %w", err)
	}
	return nil
}

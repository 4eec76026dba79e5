// Package cache stores classified warning lines per log file between checks.
//
// Entries are keyed by the sha256 of the compressed log bytes, so a rebuilt
// log is always decoded again. Classification depends only on line text,
// which keeps cached lines valid under any rule set. A nil *Cache is a valid
// no-op cache.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/pithecene-io/warncheck/diag"
	"github.com/pithecene-io/warncheck/types"
)

// DefaultPath is the cache location relative to the working directory.
const DefaultPath = ".warning_checker/cache.msgpack"

// formatVersion is bumped whenever the stored Line shape changes.
const formatVersion = 1

type cacheFile struct {
	Format  int                    `msgpack:"format"`
	Version string                 `msgpack:"version"`
	Entries map[string][]diag.Line `msgpack:"entries"`
}

// Cache is a msgpack-backed map from log content hash to classified lines.
// Safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	path    string
	entries map[string][]diag.Line
	dirty   bool
}

// Key returns the cache key for a compressed log.
func Key(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Open loads the cache at path. A missing file yields an empty cache.
// A file written by another version, or one that does not decode, is
// discarded and the cache starts empty.
func Open(path string) (*Cache, error) {
	c := &Cache{path: path, entries: make(map[string][]diag.Line)}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cache: %w", err)
	}

	var stored cacheFile
	if err := msgpack.Unmarshal(data, &stored); err != nil {
		c.dirty = true
		return c, nil
	}
	if stored.Format != formatVersion || stored.Version != types.Version {
		c.dirty = true
		return c, nil
	}
	if stored.Entries != nil {
		c.entries = stored.Entries
	}
	return c, nil
}

// Path returns the file the cache is persisted to.
func (c *Cache) Path() string {
	if c == nil {
		return ""
	}
	return c.path
}

// Get returns the cached lines for key.
func (c *Cache) Get(key string) ([]diag.Line, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	lines, ok := c.entries[key]
	return lines, ok
}

// Put stores lines for key.
func (c *Cache) Put(key string, lines []diag.Line) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if lines == nil {
		lines = []diag.Line{}
	}
	c.entries[key] = lines
	c.dirty = true
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Save writes the cache back to disk if it changed since Open.
// The file is replaced atomically.
func (c *Cache) Save() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return nil
	}

	data, err := msgpack.Marshal(&cacheFile{
		Format:  formatVersion,
		Version: types.Version,
		Entries: c.entries,
	})
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace cache: %w", err)
	}
	c.dirty = false
	return nil
}

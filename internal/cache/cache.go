// Package cache remembers files that are already in normalized form, so that
// repeated runs over an unchanged tree skip the formatting pipeline.
//
// The cache is a single msgpack file holding one Entry per absolute path.
// An entry only matches when the size, modification time and content hash of
// the file are unchanged. The whole file is dropped when it was written by a
// different tool version or schema.
package cache

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when the on-disk format changes
const schemaVersion uint16 = 1

// FileName is the name of the cache file inside the cache directory.
const FileName = "formatted.mp"

// Entry describes a file known to be formatted.
type Entry struct {
	Size    uint64
	ModUnix int64 // modification time in nanoseconds
	Sum     [32]byte
}

// payload is the on-disk layout.
type payload struct {
	Schema  uint16
	Version string
	Entries map[string]Entry
}

// Cache is safe for concurrent use. A nil *Cache is a valid cache that never
// matches and never stores anything.
type Cache struct {
	mu      sync.Mutex
	path    string
	version string
	entries map[string]Entry
	dirty   bool
}

// Open loads the cache stored in dir, creating dir if needed. A missing,
// unreadable or outdated cache file starts an empty cache.
func Open(dir, version string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	c := &Cache{
		path:    filepath.Join(dir, FileName),
		version: version,
		entries: make(map[string]Entry),
	}

	f, err := os.Open(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return nil, fmt.Errorf("cache: %w", err)
	}
	defer f.Close()

	var p payload
	if err := msgpack.NewDecoder(f).Decode(&p); err != nil {
		// Corrupt caches are rebuilt rather than reported
		return c, nil
	}
	if p.Schema == schemaVersion && p.Version == version && p.Entries != nil {
		c.entries = p.Entries
	}
	return c, nil
}

// Default opens the cache at $XDG_CACHE_HOME/<app>, falling back to
// ~/.cache/<app>.
func Default(app, version string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cache: %w", err)
		}
		base = filepath.Join(home, ".cache")
	}
	return Open(filepath.Join(base, app), version)
}

// Formatted reports whether path, with the given stat and content, was
// recorded as formatted.
func (c *Cache) Formatted(path string, info fs.FileInfo, content []byte) bool {
	if c == nil {
		return false
	}
	want, ok := entryFor(info, content)
	if !ok {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	got, found := c.entries[key(path)]
	return found && got == want
}

// Record marks path as formatted.
func (c *Cache) Record(path string, info fs.FileInfo, content []byte) {
	if c == nil {
		return
	}
	e, ok := entryFor(info, content)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key(path)] = e
	c.dirty = true
}

// Forget removes path from the cache.
func (c *Cache) Forget(path string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key(path)]; ok {
		delete(c.entries, key(path))
		c.dirty = true
	}
}

// Len returns the number of recorded files.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Save writes the cache back to disk if it changed. The file is replaced
// atomically.
func (c *Cache) Save() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return nil
	}

	f, err := os.CreateTemp(filepath.Dir(c.path), "tmp-*")
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	err = msgpack.NewEncoder(f).Encode(&payload{
		Schema:  schemaVersion,
		Version: c.version,
		Entries: c.entries,
	})
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	// Atomic replace
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	c.dirty = false
	return nil
}

func entryFor(info fs.FileInfo, content []byte) (Entry, bool) {
	size, err := safecast.Conv[uint64](info.Size())
	if err != nil {
		return Entry{}, false
	}
	return Entry{
		Size:    size,
		ModUnix: info.ModTime().UnixNano(),
		Sum:     sha256.Sum256(content),
	}, true
}

func key(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

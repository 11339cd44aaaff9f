package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

const entryExt = ".json"

// FileCache implements a file-based cache with TTL. Several bcnt processes
// may share one directory, so entries are written atomically.
type FileCache struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

// cacheEntry represents a cached item with expiration
type cacheEntry struct {
	Key       string    `json:"key"`
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Stats summarizes the cache directory
type Stats struct {
	Dir     string `json:"dir"`
	Entries int    `json:"entries"`
	Expired int    `json:"expired"`
	Bytes   int64  `json:"bytes"`
}

// NewFileCache creates a new file cache
func NewFileCache(dir string, ttl time.Duration) (*FileCache, error) {
	if ttl < 0 {
		return nil, fmt.Errorf("cache ttl must not be negative: %s", ttl)
	}
	// Create cache directory if it doesn't exist (0750 for security)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, err
	}

	return &FileCache{
		dir: dir,
		ttl: ttl,
		now: time.Now,
	}, nil
}

// DefaultCacheDir returns the default cache directory
func DefaultCacheDir() string {
	// Check XDG_CACHE_HOME first
	if xdgCache := os.Getenv("XDG_CACHE_HOME"); xdgCache != "" {
		return filepath.Join(xdgCache, "bcnt")
	}

	// Fall back to ~/.cache/bcnt
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "bcnt-cache")
	}

	return filepath.Join(home, ".cache", "bcnt")
}

// TTL returns how long entries stay fresh
func (c *FileCache) TTL() time.Duration {
	return c.ttl
}

// Dir returns the cache directory
func (c *FileCache) Dir() string {
	return c.dir
}

// keyToFilename converts a cache key to a filename
func (c *FileCache) keyToFilename(key string) string {
	hash := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(hash[:])+entryExt)
}

// readEntry loads an entry file; corrupt files are removed
func readEntry(filename string) (*cacheEntry, bool) {
	// #nosec G304 -- filename is derived from hash of cache key or ReadDir
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, false
	}

	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		_ = os.Remove(filename)
		return nil, false
	}
	return &entry, true
}

// Get retrieves a value from the cache
func (c *FileCache) Get(key string) ([]byte, bool) {
	filename := c.keyToFilename(key)

	entry, ok := readEntry(filename)
	if !ok {
		return nil, false
	}

	if entry.Key != key || c.now().After(entry.ExpiresAt) {
		_ = os.Remove(filename)
		return nil, false
	}

	return entry.Data, true
}

// Set stores a value in the cache
func (c *FileCache) Set(key string, value []byte) error {
	entry := cacheEntry{
		Key:       key,
		Data:      value,
		ExpiresAt: c.now().Add(c.ttl),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(c.dir, "entry-*.tmp")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	// CreateTemp uses 0600, restricting access to the owner
	return os.Rename(tmp.Name(), c.keyToFilename(key))
}

// walk calls fn for every entry file in the cache directory
func (c *FileCache) walk(fn func(path string, info fs.FileInfo)) error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return err
	}

	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != entryExt {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		fn(filepath.Join(c.dir, e.Name()), info)
	}
	return nil
}

// Clear removes all cache entries
func (c *FileCache) Clear() error {
	return c.walk(func(path string, _ fs.FileInfo) {
		_ = os.Remove(path)
	})
}

// Cleanup removes expired entries
func (c *FileCache) Cleanup() error {
	now := c.now()
	return c.walk(func(path string, _ fs.FileInfo) {
		entry, ok := readEntry(path)
		if ok && now.After(entry.ExpiresAt) {
			_ = os.Remove(path)
		}
	})
}

// Stats counts the entries on disk without modifying them
func (c *FileCache) Stats() (Stats, error) {
	st := Stats{Dir: c.dir}
	now := c.now()
	err := c.walk(func(path string, info fs.FileInfo) {
		st.Entries++
		st.Bytes += info.Size()
		// #nosec G304 -- path comes from ReadDir within the cache directory
		data, err := os.ReadFile(path)
		if err != nil {
			return
		}
		var entry cacheEntry
		if json.Unmarshal(data, &entry) != nil || now.After(entry.ExpiresAt) {
			st.Expired++
		}
	})
	return st, err
}

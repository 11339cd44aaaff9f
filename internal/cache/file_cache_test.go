package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// newTestCache returns a cache whose clock is controlled by the returned
// advance function.
func newTestCache(t *testing.T, ttl time.Duration) (*FileCache, func(time.Duration)) {
	t.Helper()
	c, err := NewFileCache(t.TempDir(), ttl)
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return c, func(d time.Duration) { now = now.Add(d) }
}

func TestNewFileCache(t *testing.T) {
	cache, err := NewFileCache(t.TempDir(), 60*time.Second)
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	if cache == nil {
		t.Fatal("NewFileCache() returned nil")
	}

	if _, err := NewFileCache(t.TempDir(), -time.Second); err == nil {
		t.Error("NewFileCache() accepted a negative ttl")
	}
}

func TestFileCache_SetAndGet(t *testing.T) {
	cache, _ := newTestCache(t, time.Hour)

	key := "es https://api.bcntransit.app/metro/lines"
	value := []byte(`[{"code": "1"}]`)

	if err := cache.Set(key, value); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, ok := cache.Get(key)
	if !ok {
		t.Fatal("Get() returned false, want true")
	}
	if string(got) != string(value) {
		t.Errorf("Get() = %q, want %q", got, value)
	}

	// Overwrite keeps a single entry
	if err := cache.Set(key, []byte(`[]`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, _ = cache.Get(key)
	if string(got) != `[]` {
		t.Errorf("Get() after overwrite = %q", got)
	}

	st, err := cache.Stats()
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if st.Entries != 1 {
		t.Errorf("Stats().Entries = %d, want 1", st.Entries)
	}
}

func TestFileCache_GetMissing(t *testing.T) {
	cache, _ := newTestCache(t, time.Hour)

	if _, ok := cache.Get("non-existent-key"); ok {
		t.Error("Get() returned true for non-existent key")
	}
}

func TestFileCache_Expiration(t *testing.T) {
	cache, advance := newTestCache(t, time.Minute)

	key := "es https://api.bcntransit.app/bus/lines"
	if err := cache.Set(key, []byte(`[]`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	advance(59 * time.Second)
	if _, ok := cache.Get(key); !ok {
		t.Error("Get() returned false before expiry")
	}

	advance(2 * time.Second)
	if _, ok := cache.Get(key); ok {
		t.Error("Get() returned true for expired key")
	}

	// Expired entries are removed on read
	if _, err := os.Stat(cache.keyToFilename(key)); !os.IsNotExist(err) {
		t.Error("expired entry file still exists")
	}
}

func TestFileCache_HashKey(t *testing.T) {
	cache, _ := newTestCache(t, time.Hour)

	key1 := "es https://api.bcntransit.app/metro/lines"
	key2 := "ca https://api.bcntransit.app/metro/lines"

	if err := cache.Set(key1, []byte("data1")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := cache.Set(key2, []byte("data2")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	data1, ok1 := cache.Get(key1)
	data2, ok2 := cache.Get(key2)

	if !ok1 || !ok2 {
		t.Error("Failed to retrieve one or both keys")
	}
	if string(data1) != "data1" || string(data2) != "data2" {
		t.Error("Data mismatch")
	}
}

func TestFileCache_KeyMismatch(t *testing.T) {
	cache, _ := newTestCache(t, time.Hour)

	if err := cache.Set("a", []byte("data")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	// Move the entry under another key's filename
	if err := os.Rename(cache.keyToFilename("a"), cache.keyToFilename("b")); err != nil {
		t.Fatalf("Rename() error = %v", err)
	}
	if _, ok := cache.Get("b"); ok {
		t.Error("Get() returned an entry stored for another key")
	}
}

func TestFileCache_CorruptEntry(t *testing.T) {
	cache, _ := newTestCache(t, time.Hour)

	filename := cache.keyToFilename("broken")
	if err := os.WriteFile(filename, []byte("not json"), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, ok := cache.Get("broken"); ok {
		t.Error("Get() returned true for a corrupt entry")
	}
	if _, err := os.Stat(filename); !os.IsNotExist(err) {
		t.Error("corrupt entry was not removed")
	}
}

func TestFileCache_NoTempFilesLeft(t *testing.T) {
	cache, _ := newTestCache(t, time.Hour)

	for _, k := range []string{"a", "b", "c"} {
		if err := cache.Set(k, []byte(k)); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
	}

	matches, err := filepath.Glob(filepath.Join(cache.Dir(), "*.tmp"))
	if err != nil {
		t.Fatalf("Glob() error = %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("temporary files left behind: %v", matches)
	}
}

func TestFileCache_CreateDirectory(t *testing.T) {
	// Use a nested directory that doesn't exist
	baseDir := t.TempDir()
	nestedDir := filepath.Join(baseDir, "nested", "cache", "dir")

	cache, err := NewFileCache(nestedDir, 60*time.Second)
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}

	if _, err := os.Stat(nestedDir); os.IsNotExist(err) {
		t.Error("Cache directory was not created")
	}

	if err := cache.Set("test", []byte("data")); err != nil {
		t.Errorf("Set() error = %v", err)
	}
}

func TestDefaultCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
	if dir := DefaultCacheDir(); dir != filepath.Join("/tmp/xdg-cache", "bcnt") {
		t.Errorf("DefaultCacheDir() = %q", dir)
	}

	t.Setenv("XDG_CACHE_HOME", "")
	if dir := DefaultCacheDir(); dir == "" {
		t.Error("DefaultCacheDir() returned empty string")
	}
}

func TestFileCache_Clear(t *testing.T) {
	cache, _ := newTestCache(t, time.Hour)

	keys := []string{"metro", "bus", "tram"}
	for _, key := range keys {
		if err := cache.Set(key, []byte(`{"data": "`+key+`"}`)); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
	}

	for _, key := range keys {
		if _, ok := cache.Get(key); !ok {
			t.Errorf("Get(%q) returned false before Clear()", key)
		}
	}

	if err := cache.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	for _, key := range keys {
		if _, ok := cache.Get(key); ok {
			t.Errorf("Get(%q) returned true after Clear()", key)
		}
	}

	if _, err := os.Stat(cache.Dir()); os.IsNotExist(err) {
		t.Error("Cache directory was deleted by Clear()")
	}
}

func TestFileCache_ClearEmptyCache(t *testing.T) {
	cache, _ := newTestCache(t, time.Hour)

	if err := cache.Clear(); err != nil {
		t.Errorf("Clear() on empty cache error = %v", err)
	}
}

func TestFileCache_Cleanup(t *testing.T) {
	cache, advance := newTestCache(t, time.Minute)

	oldKeys := []string{"old1", "old2"}
	for _, key := range oldKeys {
		if err := cache.Set(key, []byte("old data")); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
	}

	advance(2 * time.Minute)

	if err := cache.Set("fresh", []byte("fresh data")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	st, err := cache.Stats()
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if st.Entries != 3 || st.Expired != 2 {
		t.Errorf("Stats() = %+v, want 3 entries with 2 expired", st)
	}

	if err := cache.Cleanup(); err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}

	for _, key := range oldKeys {
		if _, err := os.Stat(cache.keyToFilename(key)); !os.IsNotExist(err) {
			t.Errorf("expired entry %q not removed by Cleanup()", key)
		}
	}

	if _, ok := cache.Get("fresh"); !ok {
		t.Error("Get(fresh) returned false after Cleanup(), fresh entry was removed")
	}
}

func TestFileCache_CleanupEmptyCache(t *testing.T) {
	cache, _ := newTestCache(t, time.Hour)

	if err := cache.Cleanup(); err != nil {
		t.Errorf("Cleanup() on empty cache error = %v", err)
	}
}

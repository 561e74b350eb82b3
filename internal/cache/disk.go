// Package cache remembers, across runs, which files are already formatted
// under a given set of settings.
package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when Payload changes.
const schemaVersion uint16 = 1

// DiskCache stores payloads on disk keyed by Digest. Safe for concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// Payload records that a file with ContentHash was found clean.
type Payload struct {
	Schema       uint16
	Path         string
	ContentHash  Digest
	SettingsHash Digest
	Size         uint32
	Clean        bool
	CheckedAt    int64 // unix seconds
}

// NewPayload builds a payload for content found clean under settings.
func NewPayload(path string, content []byte, settings Digest) (*Payload, error) {
	size, err := safecast.Conv[uint32](len(content))
	if err != nil {
		return nil, fmt.Errorf("%s: too large to cache: %w", path, err)
	}
	return &Payload{
		Schema:       schemaVersion,
		Path:         path,
		ContentHash:  Of(content),
		SettingsHash: settings,
		Size:         size,
		Clean:        true,
		CheckedAt:    time.Now().Unix(),
	}, nil
}

// Key is the cache key of content under settings.
func Key(content []byte, settings Digest) Digest {
	return Combine(Of(content), settings)
}

// DefaultDir returns $XDG_CACHE_HOME/<app>, or ~/.cache/<app>.
func DefaultDir(app string) (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, app), nil
}

// Open initializes a disk cache at the standard location for app.
func Open(app string) (*DiskCache, error) {
	dir, err := DefaultDir(app)
	if err != nil {
		return nil, err
	}
	return OpenAt(dir)
}

// OpenAt initializes a disk cache in dir.
func OpenAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := key.String()
	return filepath.Join(c.dir, "files", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload.
func (c *DiskCache) Put(key Digest, payload *Payload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads a payload. A missing entry, or one written by another schema
// version, reports false.
func (c *DiskCache) Get(key Digest) (*Payload, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var out Payload
	if err := msgpack.NewDecoder(f).Decode(&out); err != nil {
		return nil, false, err
	}
	if out.Schema != schemaVersion {
		return nil, false, nil
	}
	return &out, true, nil
}

// IsClean reports whether content was recorded clean under settings.
func (c *DiskCache) IsClean(content []byte, settings Digest) bool {
	p, ok, err := c.Get(Key(content, settings))
	if err != nil || !ok {
		return false
	}
	return p.Clean && p.ContentHash == Of(content) && p.SettingsHash == settings
}

// MarkClean records content as clean under settings.
func (c *DiskCache) MarkClean(path string, content []byte, settings Digest) error {
	if c == nil {
		return nil
	}
	p, err := NewPayload(path, content, settings)
	if err != nil {
		return err
	}
	return c.Put(Key(content, settings), p)
}

// DropAll removes every cached entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}

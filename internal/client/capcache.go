package client

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Bump when CapPayload changes shape.
const capCacheSchemaVersion uint16 = 1

// CapPayload is the cached summary of what a server advertised at
// initialize time, keyed by its launch command line. It lets `remedy
// servers` report capabilities without spawning anything.
type CapPayload struct {
	Schema            uint16
	ServerName        string
	CommandLine       string
	PositionEncoding  string
	CodeAction        bool
	CodeActionResolve bool
	ExecuteCommand    bool
	CachedAtUnix      int64
}

// CapCache persists initialize results under the user cache directory.
// Safe for concurrent use.
type CapCache struct {
	mu  sync.RWMutex
	dir string
}

// OpenCapCache initializes the cache at the standard location for app.
func OpenCapCache(app string) (*CapCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &CapCache{dir: dir}, nil
}

// Key digests a server launch command line into a cache key.
func Key(command string, args []string) string {
	sum := sha256.Sum256([]byte(command + "\x00" + strings.Join(args, "\x00")))
	return hex.EncodeToString(sum[:])
}

func (c *CapCache) pathFor(key string) string {
	return filepath.Join(c.dir, "caps", key+".mp")
}

// Put writes a payload atomically.
func (c *CapCache) Put(key string, payload *CapPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	payload.Schema = capCacheSchemaVersion
	payload.CachedAtUnix = time.Now().Unix()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads a payload; a schema mismatch counts as a miss.
func (c *CapCache) Get(key string, out *CapPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	if out.Schema != capCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

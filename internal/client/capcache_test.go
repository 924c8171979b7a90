package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

func openTestCache(t *testing.T) *CapCache {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cache, err := OpenCapCache("remedy-test")
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	return cache
}

func TestCapCacheRoundTrip(t *testing.T) {
	cache := openTestCache(t)
	key := Key("gopls", []string{"serve", "-rpc.trace"})

	in := &CapPayload{
		ServerName:        "gopls",
		CommandLine:       "gopls serve -rpc.trace",
		PositionEncoding:  "utf-16",
		CodeAction:        true,
		CodeActionResolve: true,
	}
	if err := cache.Put(key, in); err != nil {
		t.Fatalf("put: %v", err)
	}

	var out CapPayload
	ok, err := cache.Get(key, &out)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok {
		t.Fatalf("expected a hit")
	}
	if out.ServerName != "gopls" || !out.CodeAction || !out.CodeActionResolve || out.ExecuteCommand {
		t.Fatalf("payload mismatch: %+v", out)
	}
	if out.CachedAtUnix == 0 {
		t.Fatalf("cache timestamp not stamped")
	}
}

func TestCapCacheMissOnUnknownKey(t *testing.T) {
	cache := openTestCache(t)
	var out CapPayload
	ok, err := cache.Get(Key("never", nil), &out)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatalf("expected a miss")
	}
}

func TestCapCacheSchemaMismatchIsAMiss(t *testing.T) {
	cache := openTestCache(t)
	key := Key("gopls", nil)
	if err := cache.Put(key, &CapPayload{ServerName: "gopls"}); err != nil {
		t.Fatalf("put: %v", err)
	}

	// Rewrite the stored payload with a future schema number.
	var stored CapPayload
	if ok, err := cache.Get(key, &stored); err != nil || !ok {
		t.Fatalf("reload: ok=%v err=%v", ok, err)
	}
	stored.Schema = capCacheSchemaVersion + 1
	forceStoredSchema(t, cache, key, &stored)

	var out CapPayload
	ok, err := cache.Get(key, &out)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatalf("schema mismatch must read as a miss")
	}
}

func TestKeyDistinguishesArgs(t *testing.T) {
	a := Key("gopls", []string{"serve"})
	b := Key("gopls", []string{"serve", "-v"})
	c := Key("gopls", []string{"serve -v"})
	if a == b || b == c {
		t.Fatalf("keys collided: %s %s %s", a, b, c)
	}
	if a != Key("gopls", []string{"serve"}) {
		t.Fatalf("key not deterministic")
	}
}

func TestNilCapCacheIsInert(t *testing.T) {
	var cache *CapCache
	if err := cache.Put("k", &CapPayload{}); err != nil {
		t.Fatalf("nil put: %v", err)
	}
	var out CapPayload
	ok, err := cache.Get("k", &out)
	if err != nil || ok {
		t.Fatalf("nil get: ok=%v err=%v", ok, err)
	}
}

// forceStoredSchema rewrites a cache entry bypassing Put, which always
// stamps the current schema.
func forceStoredSchema(t *testing.T, cache *CapCache, key string, payload *CapPayload) {
	t.Helper()
	raw, err := msgpack.Marshal(payload)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	p := cache.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, raw, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

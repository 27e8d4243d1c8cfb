package cache

import (
	"testing"
	"time"
)

func TestKey(t *testing.T) {
	k1 := Key("arxiv", "coffee health")
	k2 := Key("pubmed", "coffee health")
	k3 := Key("arxiv", "coffee health")

	if k1 == k2 {
		t.Error("different sources must produce different keys")
	}
	if k1 != k3 {
		t.Error("same source and query must produce the same key")
	}

	// The separator keeps ("ab","c") and ("a","bc") apart
	if Key("ab", "c") == Key("a", "bc") {
		t.Error("key must not collapse source/query boundary")
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("expected miss for unknown key")
	}

	if err := c.Set("k", []byte("value"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, found := c.Get("k")
	if !found || string(val) != "value" {
		t.Errorf("expected hit with value, got %q found=%v", val, found)
	}

	if err := c.Delete("k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("expected miss after delete")
	}
}

func TestDiskCache(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Minute)

	if err := c.Set(Key("arxiv", "q"), []byte("payload"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// A fresh instance over the same directory sees the entry
	c2 := NewDiskCache(dir, time.Minute)
	val, found := c2.Get(Key("arxiv", "q"))
	if !found || string(val) != "payload" {
		t.Errorf("expected persisted value, got %q found=%v", val, found)
	}

	if err := c2.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, found := c2.Get(Key("arxiv", "q")); found {
		t.Error("expected miss after clear")
	}
}

func TestDiskCache_TTL(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Minute)

	if err := c.Set("short", []byte("x"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	time.Sleep(30 * time.Millisecond)

	if _, found := c.Get("short"); found {
		t.Error("expected expired entry to miss")
	}
}

func TestLayeredCache_Promotion(t *testing.T) {
	dir := t.TempDir()

	// Seed only the disk layer
	disk := NewDiskCache(dir, time.Minute)
	if err := disk.Set("k", []byte("from disk"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	layered := NewLayeredCache(time.Minute, dir, time.Minute)

	val, found := layered.Get("k")
	if !found || string(val) != "from disk" {
		t.Fatalf("expected disk hit through layered cache, got %q found=%v", val, found)
	}

	// After promotion the memory layer answers
	if val, found := layered.memory.Get("k"); !found || string(val) != "from disk" {
		t.Error("expected value promoted to memory layer")
	}
}

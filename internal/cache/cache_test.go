package cache

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mahdieldaw/strata/internal/model"
)

func TestDocumentKey_Stable(t *testing.T) {
	doc := model.Document{
		Query:      "q",
		ModelCount: 3,
		Claims: []model.Claim{
			{ID: "a", Label: "a", Supporters: []int{0, 1}},
		},
		Edges: []model.Edge{{From: "a", To: "b", Type: model.EdgeSupports}},
	}

	if DocumentKey(doc) != DocumentKey(doc) {
		t.Error("equal documents must hash to equal keys")
	}

	other := doc
	other.Query = "different"
	if DocumentKey(doc) == DocumentKey(other) {
		t.Error("different documents must hash to different keys")
	}
}

func TestMemoryCache_RoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("empty cache must miss")
	}

	if err := c.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	val, found := c.Get("k")
	if !found || string(val) != "v" {
		t.Errorf("expected hit with v, got %q found=%v", val, found)
	}

	if err := c.Delete("k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("deleted key must miss")
	}
}

func TestDiskCache_Expiry(t *testing.T) {
	c := NewDiskCache(filepath.Join(t.TempDir(), "cache"), time.Minute)

	if err := c.Set("k", []byte("v"), -time.Second); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("expired entry must miss")
	}

	if err := c.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if val, found := c.Get("k"); !found || string(val) != "v" {
		t.Errorf("expected fresh hit, got %q found=%v", val, found)
	}
}

func TestMemoryCache_CopiesValues(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	orig := []byte("envelope")
	if err := c.Set("k", orig, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	orig[0] = 'X' // Mutating the caller's slice must not reach the cache

	val, found := c.Get("k")
	if !found || string(val) != "envelope" {
		t.Fatalf("expected pristine envelope, got %q", val)
	}
	val[0] = 'Y' // Nor must mutating a returned copy

	again, _ := c.Get("k")
	if string(again) != "envelope" {
		t.Errorf("cached envelope was mutated through a returned slice: %q", again)
	}
}

func TestDiskCache_RejectsForeignSchema(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Minute)

	if err := c.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	// Rewrite the entry as if an older release had produced it.
	path := filepath.Join(dir, "k.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read entry: %v", err)
	}
	data = bytes.Replace(data, []byte(entrySchema), []byte("strata/0"), 1)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("rewrite entry: %v", err)
	}

	if _, found := c.Get("k"); found {
		t.Error("an entry from another schema must miss")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("a foreign-schema entry must be removed on read")
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	c := NewLayeredCache(time.Minute, dir, time.Hour)

	if err := c.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	// Simulate a restart: a fresh layered cache over the same disk dir.
	fresh := NewLayeredCache(time.Minute, dir, time.Hour)
	val, found := fresh.Get("k")
	if !found || string(val) != "v" {
		t.Fatalf("disk layer must survive restarts, got %q found=%v", val, found)
	}
}

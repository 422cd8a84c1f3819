// Package cache memoizes analysis results. The engine is deterministic, so
// a result keyed by the canonical hash of its input document never goes
// stale; TTLs only bound disk growth.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/mahdieldaw/strata/internal/model"
)

// Cache defines the interface for result caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// DocumentKey derives the cache key for an analysis input. Marshaling the
// document struct yields a canonical byte form (fixed field order, no
// map iteration), so equal documents always hash to the same key.
func DocumentKey(doc model.Document) string {
	data, err := json.Marshal(doc)
	if err != nil {
		// Document contains only marshalable types; treat failure as a
		// distinct uncacheable key rather than propagating an error.
		return "strata:v1:unkeyed"
	}
	hash := sha256.Sum256(data)
	return "strata:v1:" + hex.EncodeToString(hash[:])
}

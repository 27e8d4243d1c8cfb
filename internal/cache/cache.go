package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching collector query results
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key from a source name and query string
func Key(source, query string) string {
	hash := sha256.Sum256([]byte(source + "\x00" + query))
	return "factlens:v1:" + hex.EncodeToString(hash[:])
}

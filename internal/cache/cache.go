package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache stores fetched page bodies so repeated analyses of the same
// URLs within the TTL skip the network round trip.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// PageKey derives the cache key for a fetched URL.
func PageKey(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "newslens:page:v1:" + hex.EncodeToString(hash[:])
}

// Package cache stores rendered artifacts by content hash.
//
// Rendering a scene is deterministic: the same scene, options and format
// always produce the same bytes. The render pipeline hashes all three into
// an [ArtifactKey] and skips the overlay pass on a hit.
//
// Three implementations are provided:
//   - [FileCache] for the CLI, under $XDG_CACHE_HOME/relline
//   - [MemoryCache] for the server
//   - [NullCache] when caching is disabled
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A non-positive ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// ArtifactKeyOpts are the render settings that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format       string  `json:"format"`
	Elements     bool    `json:"elements,omitempty"`
	Labels       bool    `json:"labels,omitempty"`
	Scale        float64 `json:"scale,omitempty"`
	StrokeColor  string  `json:"stroke,omitempty"`
	DefaultColor string  `json:"fill,omitempty"`
	Detailed     bool    `json:"detailed,omitempty"`
}

// ArtifactKey returns the key of one rendered format of a scene.
func ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sceneHash, opts)
}

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

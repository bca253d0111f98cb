// Package cache provides pluggable byte caches and key generation for
// the takeoff pipeline.
//
// Three backends implement the same [Cache] interface:
//   - [FileCache] for CLI usage (entries under a cache directory)
//   - [RedisCache] for server deployments
//   - [NullCache] to disable caching entirely
//
// Keys are generated by a [Keyer] so every pipeline stage derives its
// key the same way regardless of entry point: the report key covers the
// model content hash plus the selection, and the artifact key covers
// the report hash plus render options.
package cache

import (
	"context"
	"time"
)

// Cache TTLs per key type.
const (
	// TTLModel bounds how long a loaded model snapshot is reused.
	TTLModel = 1 * time.Hour

	// TTLReport bounds how long an extracted report is reused.
	TTLReport = 24 * time.Hour

	// TTLArtifact bounds how long a rendered artifact is reused.
	TTLArtifact = 24 * time.Hour
)

// Cache stores opaque byte values under string keys with expiration.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The boolean reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero stores without expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// ReportKeyOpts are the inputs that distinguish one extraction run from
// another over the same model.
type ReportKeyOpts struct {
	Elements []int64
}

// ArtifactKeyOpts are the render options that distinguish one artifact
// from another for the same report.
type ArtifactKeyOpts struct {
	Format string
	Style  string
}

// Keyer generates cache keys for the pipeline stages.
type Keyer interface {
	// ModelKey identifies a loaded model snapshot by source and name.
	ModelKey(source, name string) string

	// ReportKey identifies an extracted report by model content hash
	// and selection.
	ReportKey(modelHash string, opts ReportKeyOpts) string

	// ArtifactKey identifies a rendered artifact by report hash and
	// render options.
	ArtifactKey(reportHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer generates namespaced hash keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// ModelKey generates a key for model snapshot caching.
func (k *DefaultKeyer) ModelKey(source, name string) string {
	return hashKey("model", source, name)
}

// ReportKey generates a key for report caching.
func (k *DefaultKeyer) ReportKey(modelHash string, opts ReportKeyOpts) string {
	return hashKey("report", modelHash, opts)
}

// ArtifactKey generates a key for artifact caching.
func (k *DefaultKeyer) ArtifactKey(reportHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", reportHash, opts)
}

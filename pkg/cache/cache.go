// Package cache provides caching for the layout pipeline.
//
// Three backends are included: FileCache for CLI usage, RedisCache for the
// API server, and NullCache for tests or disabled caching. Keys are built
// through a Keyer so every stage of the pipeline (normalized program,
// generated layout, rendered artifact) gets a stable, collision-resistant
// key derived from its inputs.
package cache

import (
	"context"
	"time"
)

// Cache is the storage interface shared by all backends.
type Cache interface {
	// Get retrieves a value. The bool reports a hit; an expired or invalid
	// entry is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A non-positive TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// TTL classes per pipeline stage. Normalized programs are cheap to recompute
// but requests repeat often; layouts are the expensive stage; rendered
// artifacts are derived purely from layouts and can live longest.
const (
	TTLProgram  = 24 * time.Hour
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 30 * 24 * time.Hour
	TTLHTTP     = time.Hour
)

// ProgramKeyOpts are the normalization parameters that affect the resulting
// room program.
type ProgramKeyOpts struct {
	CoverageRatio float64 `json:"coverage_ratio"`
	CellFt        float64 `json:"cell_ft"`
}

// LayoutKeyOpts are the generation parameters that affect the resulting
// layout. WeightsHash covers the scoring weight table.
type LayoutKeyOpts struct {
	Seed        uint64  `json:"seed"`
	CellFt      float64 `json:"cell_ft"`
	Aspect      float64 `json:"aspect"`
	DoorwayFt   float64 `json:"doorway_ft"`
	PrivacyFt   float64 `json:"privacy_ft"`
	MaxPasses   int     `json:"max_passes"`
	Anneal      bool    `json:"anneal"`
	WeightsHash string  `json:"weights_hash"`
}

// ArtifactKeyOpts are the rendering parameters that affect the output bytes.
type ArtifactKeyOpts struct {
	Format string  `json:"format"` // "svg", "png", "dot"
	Scale  float64 `json:"scale"`  // pixels per foot
}

// Keyer generates cache keys for the pipeline stages.
type Keyer interface {
	// HTTPKey generates a key for HTTP response caching.
	HTTPKey(namespace, key string) string

	// ProgramKey generates a key for a normalized room program, derived
	// from the raw request hash and the normalization parameters.
	ProgramKey(requestHash string, opts ProgramKeyOpts) string

	// LayoutKey generates a key for a generated layout, derived from the
	// normalized program hash and the generation parameters.
	LayoutKey(programHash string, opts LayoutKeyOpts) string

	// ArtifactKey generates a key for a rendered artifact, derived from
	// the layout hash and the rendering parameters.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard key generator.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// HTTPKey generates a key for HTTP response caching.
// Format: http:namespace:key
func (k *DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// ProgramKey generates a key for a normalized room program.
func (k *DefaultKeyer) ProgramKey(requestHash string, opts ProgramKeyOpts) string {
	return hashKey("program", requestHash, opts)
}

// LayoutKey generates a key for a generated layout.
func (k *DefaultKeyer) LayoutKey(programHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", programHash, opts)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)

package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/roomforge/pkg/cache"
	"github.com/matzehuels/roomforge/pkg/layout"
	"github.com/matzehuels/roomforge/pkg/observability"
	"github.com/matzehuels/roomforge/pkg/program"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete normalize → generate → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Normalize
	normalizeStart := time.Now()
	spec, normalizeHit, err := r.NormalizeWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	result.Spec = spec
	result.Stats.NormalizeTime = time.Since(normalizeStart)
	result.Stats.RoomCount = len(spec.Rooms)
	result.CacheInfo.NormalizeHit = normalizeHit

	// Compute spec hash for cache keys and API responses
	if specData, err := json.Marshal(spec); err == nil {
		result.SpecHash = cache.Hash(specData)
	}

	r.Logger.Info("normalized program",
		"rooms", len(spec.Rooms),
		"rules", len(spec.Rules),
		"duration", result.Stats.NormalizeTime)

	// Stage 2: Generate
	generateStart := time.Now()
	l, generateHit, err := r.GenerateWithCacheInfo(ctx, spec, opts)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	result.Layout = l
	result.Stats.GenerateTime = time.Since(generateStart)
	result.Stats.Violations = len(l.Violations)
	result.CacheInfo.GenerateHit = generateHit

	r.Logger.Info("generated layout",
		"rooms", len(l.Rooms),
		"status", l.Status,
		"violations", len(l.Violations),
		"duration", result.Stats.GenerateTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, spec.Rules, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// NormalizeWithCacheInfo normalizes the raw program with caching and returns cache hit info.
func (r *Runner) NormalizeWithCacheInfo(ctx context.Context, opts Options) (*program.Spec, bool, error) {
	if err := opts.ValidateForNormalize(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key from the raw request
	rawData, _ := json.Marshal(opts.Program)
	cacheKey := r.Keyer.ProgramKey(cache.Hash(rawData), opts.ProgramKeyOpts())

	// Try cache first
	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		var spec program.Spec
		if err := json.Unmarshal(data, &spec); err == nil {
			observability.Cache().OnCacheHit(ctx, "program")
			return &spec, true, nil // Cache hit
		}
	}
	observability.Cache().OnCacheMiss(ctx, "program")

	start := time.Now()
	observability.Pipeline().OnNormalizeStart(ctx, len(opts.Program.Rooms))
	spec, err := program.NormalizeWithCoverage(&opts.Program, opts.CoverageRatio)
	observability.Pipeline().OnNormalizeComplete(ctx, len(opts.Program.Rooms), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	if data, err := json.Marshal(spec); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLProgram)
		observability.Cache().OnCacheSet(ctx, "program", len(data))
	}

	return spec, false, nil // Cache miss
}

// Normalize is a convenience wrapper that calls NormalizeWithCacheInfo and discards the cache hit info.
func (r *Runner) Normalize(ctx context.Context, opts Options) (*program.Spec, error) {
	spec, _, err := r.NormalizeWithCacheInfo(ctx, opts)
	return spec, err
}

// GenerateWithCacheInfo generates a layout with caching and returns cache hit info.
func (r *Runner) GenerateWithCacheInfo(ctx context.Context, spec *program.Spec, opts Options) (layout.Layout, bool, error) {
	if err := opts.ValidateForGenerate(); err != nil {
		return layout.Layout{}, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key
	specData, _ := json.Marshal(spec)
	specHash := cache.Hash(specData)
	cacheKey := r.Keyer.LayoutKey(specHash, opts.LayoutKeyOpts())

	// Try cache first
	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		cached, err := layout.Unmarshal(data)
		if err == nil {
			observability.Cache().OnCacheHit(ctx, "layout")
			return cached, true, nil // Cache hit
		}
		// If deserialization fails, fall through to recompute
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	start := time.Now()
	observability.Pipeline().OnGenerateStart(ctx, len(spec.Rooms), opts.Seed)
	l, err := Generate(spec, opts)
	observability.Pipeline().OnGenerateComplete(ctx, len(l.Rooms), len(l.Violations), time.Since(start), err)
	if err != nil {
		return layout.Layout{}, false, err
	}

	// Cache the result
	if data, err := layout.Marshal(l); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
		observability.Cache().OnCacheSet(ctx, "layout", len(data))
	}

	return l, false, nil // Cache miss
}

// Generate is a convenience wrapper that calls GenerateWithCacheInfo and discards the cache hit info.
func (r *Runner) Generate(ctx context.Context, spec *program.Spec, opts Options) (layout.Layout, error) {
	l, _, err := r.GenerateWithCacheInfo(ctx, spec, opts)
	return l, err
}

// RenderWithCacheInfo renders artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l layout.Layout, rules []program.AdjacencyRule, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key from layout data
	layoutData, err := layout.Marshal(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil // All artifacts from cache
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	rendered, err := RenderFromLayout(l, rules, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l layout.Layout, rules []program.AdjacencyRule, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, rules, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

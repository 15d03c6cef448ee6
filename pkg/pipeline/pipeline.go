// Package pipeline provides the core layout generation pipeline for Roomforge.
//
// This package implements the complete normalize → generate → render pipeline
// that can be used by CLI and API components. By centralizing this logic, we
// ensure consistent behavior across all entry points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Normalize: Validate and scale the raw room program to fit the lot
//  2. Generate: Place, validate and repair rooms on the occupancy grid
//  3. Render: Generate output in various formats (SVG, PNG, DOT, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Program: raw,
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Normalize only
//	spec, err := runner.Normalize(ctx, opts)
//
//	// Generate with an existing program
//	l, err := runner.Generate(ctx, spec, opts)
//
//	// Render with an existing layout
//	artifacts, err := runner.Render(ctx, l, opts)
package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/roomforge/pkg/cache"
	"github.com/matzehuels/roomforge/pkg/core/grid"
	"github.com/matzehuels/roomforge/pkg/core/place"
	"github.com/matzehuels/roomforge/pkg/core/repair"
	"github.com/matzehuels/roomforge/pkg/core/validate"
	"github.com/matzehuels/roomforge/pkg/layout"
	"github.com/matzehuels/roomforge/pkg/program"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)

	// DefaultScale is the default rendering scale in pixels per foot.
	DefaultScale = 10.0

	// DefaultRepairPasses bounds the local repair loop.
	DefaultRepairPasses = repair.DefaultMaxPasses
)

// Format constants for output formats.
const (
	FormatSVG      = "svg"
	FormatPNG      = "png"
	FormatDOT      = "dot"
	FormatGraphSVG = "graph-svg"
	FormatJSON     = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:      true,
	FormatPNG:      true,
	FormatDOT:      true,
	FormatGraphSVG: true,
	FormatJSON:     true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the layout pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Normalize options
	Program       program.RawProgram `json:"program"`
	CoverageRatio float64            `json:"coverage_ratio,omitempty"`

	// Generate options
	CellFt       float64       `json:"cell_ft,omitempty"`
	Aspect       float64       `json:"aspect,omitempty"`
	DoorwayFt    float64       `json:"doorway_ft,omitempty"`
	PrivacyFt    float64       `json:"privacy_ft,omitempty"`
	Seed         uint64        `json:"seed,omitempty"`
	RepairPasses int           `json:"repair_passes,omitempty"`
	Anneal       bool          `json:"anneal,omitempty"` // simulated-annealing fallback after local repair
	Weights      place.Weights `json:"weights,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Scale   float64  `json:"scale,omitempty"` // pixels per foot

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Spec is the normalized room program.
	Spec *program.Spec

	// SpecHash is the content hash of the normalized program.
	SpecHash string

	// Layout contains the generated floor plan.
	Layout layout.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	RoomCount     int
	Violations    int
	NormalizeTime time.Duration
	GenerateTime  time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	NormalizeHit bool // Whether the normalized program came from cache
	GenerateHit  bool // Whether the layout came from cache
	RenderHit    bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, png, dot, graph-svg, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForNormalize(); err != nil {
		return err
	}
	o.SetGenerateDefaults()
	o.SetRenderDefaults()
	o.validated = true
	return nil
}

// ValidateForNormalize sets defaults for normalization. Content-level
// validation of the program itself happens inside program.Normalize, which
// returns typed errors the API maps to status codes.
func (o *Options) ValidateForNormalize() error {
	if o.CoverageRatio == 0 {
		o.CoverageRatio = program.DefaultCoverageRatio
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetGenerateDefaults sets default values for layout generation.
func (o *Options) SetGenerateDefaults() {
	if o.CellFt <= 0 {
		o.CellFt = grid.DefaultCellFt
	}
	if o.Aspect <= 0 {
		o.Aspect = grid.DefaultAspect
	}
	if o.DoorwayFt <= 0 {
		o.DoorwayFt = place.DefaultDoorwayFt
	}
	if o.PrivacyFt <= 0 {
		o.PrivacyFt = validate.DefaultPrivacyFt
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.RepairPasses <= 0 {
		o.RepairPasses = DefaultRepairPasses
	}
	if o.Weights == (place.Weights{}) {
		o.Weights = place.DefaultWeights()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForGenerate validates and sets defaults for layout generation.
func (o *Options) ValidateForGenerate() error {
	o.SetGenerateDefaults()
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// ProgramKeyOpts returns cache key options for program normalization.
func (o *Options) ProgramKeyOpts() cache.ProgramKeyOpts {
	return cache.ProgramKeyOpts{
		CoverageRatio: o.CoverageRatio,
		CellFt:        o.CellFt,
	}
}

// LayoutKeyOpts returns cache key options for layout generation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	weightsData, _ := json.Marshal(o.Weights)
	return cache.LayoutKeyOpts{
		Seed:        o.Seed,
		CellFt:      o.CellFt,
		Aspect:      o.Aspect,
		DoorwayFt:   o.DoorwayFt,
		PrivacyFt:   o.PrivacyFt,
		MaxPasses:   o.RepairPasses,
		Anneal:      o.Anneal,
		WeightsHash: cache.Hash(weightsData),
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Scale:  o.Scale,
	}
}

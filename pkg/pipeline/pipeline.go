// Package pipeline runs the relayout → render steps shared by the CLI and
// the HTTP API.
//
// # Architecture
//
// The pipeline has two stages:
//
//  1. Layout: run the radial engine for a focus node
//  2. Render: serialize the layout as JSON, Graphviz DOT or SVG
//
// Each stage can be run on its own or through [Runner.Execute].
//
// # Caching
//
// Layouts are cached only when a seed is given, since an unseeded layout
// draws fresh jitter on every call. Rendered artifacts are keyed by the
// layout they came from, so they are cached whenever their layout is.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	seed := uint64(42)
//	result, err := runner.Execute(ctx, g, pipeline.Options{
//	    Focus:  "n1",
//	    Seed:   &seed,
//	    Format: pipeline.FormatSVG,
//	})
//	os.WriteFile("out.svg", result.Artifact, 0o644)
package pipeline

import (
	"fmt"
	"time"

	"github.com/matzehuels/kgraph/pkg/cache"
	"github.com/matzehuels/kgraph/pkg/errors"
	"github.com/matzehuels/kgraph/pkg/graph"
	"github.com/matzehuels/kgraph/pkg/radial"
)

// Cache lifetimes per stage.
const (
	TTLLayout   = 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures one pipeline run. It supports JSON for API requests.
type Options struct {
	// Layout options
	Focus      string  `json:"focus"`
	Seed       *uint64 `json:"seed,omitempty"` // nil draws unseeded jitter
	Concentric bool    `json:"concentric,omitempty"`
	Strict     bool    `json:"strict,omitempty"`
	BaseRadius float64 `json:"base_radius,omitempty"`
	Cutoff     int     `json:"cutoff,omitempty"`

	// Render options
	Format        string `json:"format,omitempty"`
	Detailed      bool   `json:"detailed,omitempty"`
	IncludeHidden bool   `json:"include_hidden,omitempty"`
	EdgeLabels    bool   `json:"edge_labels,omitempty"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// GraphHash is the content hash of the graph structure.
	GraphHash string

	// Layout is the relayout result in serialization form.
	Layout graph.Layout

	// Artifact is the rendered output in Options.Format.
	Artifact []byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: json, dot, svg)", format)
	}
	return nil
}

// SetDefaults fills unset options.
func (o *Options) SetDefaults() {
	if o.Format == "" {
		o.Format = FormatJSON
	}
	if o.BaseRadius == 0 {
		o.BaseRadius = radial.DefaultBaseRadius
	}
	if o.Cutoff == 0 {
		o.Cutoff = radial.DefaultCutoff
	}
}

// Validate checks required fields after applying defaults.
func (o *Options) Validate() error {
	o.SetDefaults()
	if o.Focus == "" {
		return errors.New(errors.ErrCodeInvalidInput, "focus is required")
	}
	if o.BaseRadius < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "base radius must be positive, got %v", o.BaseRadius)
	}
	if o.Cutoff < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cutoff must be positive, got %d", o.Cutoff)
	}
	return ValidateFormat(o.Format)
}

// Seeded reports whether the layout is reproducible.
func (o *Options) Seeded() bool { return o.Seed != nil }

// EngineOptions returns the radial engine configuration.
func (o *Options) EngineOptions() *radial.Options {
	opts := &radial.Options{
		BaseRadius: o.BaseRadius,
		Cutoff:     o.Cutoff,
		Concentric: o.Concentric,
		Strict:     o.Strict,
	}
	if o.Seed != nil {
		opts.Jitter = radial.SeededJitter(*o.Seed)
	}
	return opts
}

// LayoutKeyOpts returns cache key options for the layout stage.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	k := cache.LayoutKeyOpts{
		Focus:      o.Focus,
		Concentric: o.Concentric,
		Radius:     o.BaseRadius,
		Cutoff:     o.Cutoff,
	}
	if o.Seed != nil {
		k.Seed = *o.Seed
	}
	return k
}

// ArtifactKeyOpts returns cache key options for the render stage.
func (o *Options) ArtifactKeyOpts() cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: fmt.Sprintf("%s/d=%t/h=%t/e=%t", o.Format, o.Detailed, o.IncludeHidden, o.EdgeLabels),
	}
}

// Package pipeline provides the core takeoff pipeline for Stratum.
//
// This package implements the complete load → extract → render pipeline
// that is shared by the CLI and the HTTP API. By centralizing this
// logic, both entry points behave identically and caching works the
// same way everywhere.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read a model snapshot from a source (local file or model
//     store) and build the in-memory document.
//  2. Extract: Run the takeoff core over the selected elements,
//     producing the ordered record sequence.
//  3. Render: Generate report artifacts in the requested formats
//     (table, JSON, CSV, DOT, SVG, PNG).
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Source:   local.New(),
//	    Model:    "tower.json",
//	    Elements: []int64{100, 101},
//	    Formats:  []string{"json"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    return err
//	}
//	report := result.Artifacts["json"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tmengistu/stratum/pkg/cache"
	"github.com/tmengistu/stratum/pkg/errors"
	"github.com/tmengistu/stratum/pkg/render"
	"github.com/tmengistu/stratum/pkg/source"
	"github.com/tmengistu/stratum/pkg/takeoff"
)

// DefaultSourceName labels the local file source in cache keys and
// hook events when the caller does not name its source.
const DefaultSourceName = "local"

// Options contains all configuration for the takeoff pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	Model      string `json:"model"`                 // file path or stored model name
	SourceName string `json:"source_name,omitempty"` // source label for cache keys and hooks
	Refresh    bool   `json:"refresh,omitempty"`     // bypass report/model caches

	// Selection options
	Elements []int64 `json:"elements,omitempty"` // explicit element ids, in order
	All      bool    `json:"all,omitempty"`      // select every placed element instead

	// Render options
	Formats []string `json:"formats,omitempty"`

	// Runtime options (not serialized)
	Source source.Source `json:"-"`
	Logger *log.Logger   `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies this pipeline run.
	RunID string

	// Model is the loaded model's display name.
	Model string

	// ModelHash is the content hash of the loaded snapshot.
	ModelHash string

	// Records is the ordered takeoff record sequence.
	Records []takeoff.Record

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ElementCount int
	RecordCount  int
	LoadTime     time.Duration
	ExtractTime  time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ModelHit  bool // Whether the model snapshot came from cache
	ReportHit bool // Whether the extracted report came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// ValidateAndSetDefaults checks required fields and applies defaults for
// the full pipeline. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Source == nil {
		return errors.New(errors.ErrCodeInvalidSource, "model source is required")
	}
	if o.Model == "" {
		return errors.New(errors.ErrCodeInvalidModel, "model is required")
	}
	if o.SourceName == "" {
		o.SourceName = DefaultSourceName
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{render.FormatTable}
	}
	if err := render.ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ReportKeyOpts returns cache key options for the extraction stage.
func (o *Options) ReportKeyOpts(elements []int64) cache.ReportKeyOpts {
	return cache.ReportKeyOpts{Elements: elements}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: format}
}

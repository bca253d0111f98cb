package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/tmengistu/stratum/pkg/cache"
	"github.com/tmengistu/stratum/pkg/errors"
	"github.com/tmengistu/stratum/pkg/model"
	"github.com/tmengistu/stratum/pkg/observability"
	"github.com/tmengistu/stratum/pkg/render"
	"github.com/tmengistu/stratum/pkg/source"
	"github.com/tmengistu/stratum/pkg/takeoff"
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

// Execute runs the complete load → extract → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		RunID:     uuid.NewString(),
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	snap, modelHit, err := r.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	doc, err := snap.Document()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidModel, err, "building document for %q", snap.Name)
	}
	canonical, err := snap.Canonical()
	if err != nil {
		return nil, fmt.Errorf("hashing model %q: %w", snap.Name, err)
	}
	result.Model = snap.Name
	result.ModelHash = cache.Hash(canonical)
	result.Stats.LoadTime = time.Since(loadStart)
	result.CacheInfo.ModelHit = modelHit

	opts.Logger.Info("loaded model",
		"model", snap.Name,
		"elements", len(snap.Elements),
		"types", len(snap.Types),
		"duration", result.Stats.LoadTime)

	// Selection is validated before any extraction work starts; a nil
	// or empty selection is the run's only fatal user-input error.
	ids, err := takeoff.Normalize(r.selection(doc, opts))
	if err != nil {
		return nil, err
	}
	result.Stats.ElementCount = len(ids)

	// Stage 2: Extract
	extractStart := time.Now()
	records, reportHit, err := r.ExtractWithCacheInfo(ctx, doc, result.ModelHash, ids, opts)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	result.Records = records
	result.Stats.ExtractTime = time.Since(extractStart)
	result.Stats.RecordCount = len(records)
	result.CacheInfo.ReportHit = reportHit

	opts.Logger.Info("extracted material layers",
		"model", snap.Name,
		"elements", len(ids),
		"records", len(records),
		"duration", result.Stats.ExtractTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, records, snap.Name, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered report",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LoadWithCacheInfo loads the model snapshot with caching and returns
// cache hit info. The cached form is the canonical snapshot encoding,
// so a hit skips the source entirely.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) (*source.Snapshot, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	cacheKey := r.Keyer.ModelKey(opts.SourceName, opts.Model)

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var snap source.Snapshot
			if err := json.Unmarshal(data, &snap); err == nil {
				observability.Cache().OnCacheHit(ctx, "model")
				return &snap, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "model")
	}

	loadStart := time.Now()
	observability.Takeoff().OnLoadStart(ctx, opts.SourceName, opts.Model)
	snap, err := opts.Source.Load(ctx, opts.Model)
	observability.Takeoff().OnLoadComplete(ctx, opts.SourceName, opts.Model, time.Since(loadStart), err)
	if err != nil {
		return nil, false, err
	}

	if data, err := snap.Canonical(); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLModel)
		observability.Cache().OnCacheSet(ctx, "model", len(data))
	}

	return snap, false, nil
}

// ExtractWithCacheInfo runs the takeoff core with report caching and
// returns cache hit info. The cache key covers the model content hash
// and the normalized selection, so a cached report is byte-identical to
// a fresh extraction over the same inputs.
func (r *Runner) ExtractWithCacheInfo(ctx context.Context, doc model.Document, modelHash string, ids []model.ID, opts Options) ([]takeoff.Record, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	elements := idsToInt64(ids)
	cacheKey := r.Keyer.ReportKey(modelHash, opts.ReportKeyOpts(elements))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var records []takeoff.Record
			if err := json.Unmarshal(data, &records); err == nil {
				observability.Cache().OnCacheHit(ctx, "report")
				return records, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "report")
	}

	extractStart := time.Now()
	observability.Takeoff().OnExtractStart(ctx, opts.Model, len(ids))
	records, err := takeoff.Extract(doc, takeoff.Many(ids), opts.Logger)
	observability.Takeoff().OnExtractComplete(ctx, opts.Model, len(records), time.Since(extractStart), err)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(records); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLReport)
		observability.Cache().OnCacheSet(ctx, "report", len(data))
	}

	return records, false, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns
// cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, records []takeoff.Record, modelName string, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	reportData, err := json.Marshal(records)
	if err != nil {
		return nil, false, fmt.Errorf("serialize report for cache key: %w", err)
	}
	reportHash := cache.Hash(reportData)

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(reportHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil
	}

	renderStart := time.Now()
	observability.Takeoff().OnRenderStart(ctx, opts.Formats)
	rendered := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := render.Render(records, format, render.WithJSONModel(modelName))
		if err != nil {
			observability.Takeoff().OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
			return nil, false, fmt.Errorf("render %s: %w", format, err)
		}
		rendered[format] = data
	}
	observability.Takeoff().OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), nil)

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(reportHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	return rendered, false, nil
}

// selection builds the run's selection from options: every placed
// element when All is set, otherwise the explicit id list.
func (r *Runner) selection(doc *model.MemoryDocument, opts Options) takeoff.Selection {
	if opts.All {
		elements := doc.Elements()
		ids := make(takeoff.Many, len(elements))
		for i, el := range elements {
			ids[i] = el.ID()
		}
		return ids
	}
	ids := make(takeoff.Many, len(opts.Elements))
	for i, id := range opts.Elements {
		ids[i] = model.ID(id)
	}
	return ids
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

func idsToInt64(ids []model.ID) []int64 {
	out := make([]int64, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}
	return out
}

package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/crosscover/pkg/cache"
	"github.com/matzehuels/crosscover/pkg/coverage"
	"github.com/matzehuels/crosscover/pkg/cross"
	"github.com/matzehuels/crosscover/pkg/errors"
	"github.com/matzehuels/crosscover/pkg/observability"
	"github.com/matzehuels/crosscover/pkg/report"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner holds no results; multiple goroutines can use the same Runner
// with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// MaxTTL caps the lifetime of every cache entry. Zero keeps the
	// per-kind defaults.
	MaxTTL time.Duration
}

// NewRunner creates a runner. A nil keyer uses the DefaultKeyer, a nil
// cache disables caching, and a nil logger uses log.Default().
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
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs the complete load → select → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, invalidOptions(err)
	}
	hooks := observability.Pipeline()

	result := &Result{}

	// Stage 1: Load
	hooks.OnLoadStart(ctx, opts.Assay)
	start := time.Now()
	loaded, hit, err := r.LoadWithCacheInfo(ctx, opts)
	result.Stats.LoadTime = time.Since(start)
	if err != nil {
		hooks.OnLoadComplete(ctx, opts.Assay, 0, 0, result.Stats.LoadTime, err)
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Map = loaded.Map
	result.MapHash = loaded.Hash
	result.Candidates = loaded.Candidates
	result.Stats.Loci = loaded.Map.Index().Len()
	result.Stats.Crosses = loaded.Map.Len()
	result.CacheInfo.LoadHit = hit
	hooks.OnLoadComplete(ctx, opts.Assay, result.Stats.Loci, result.Stats.Crosses, result.Stats.LoadTime, nil)

	r.Logger.Info("built informative map",
		"loci", result.Stats.Loci,
		"crosses", result.Stats.Crosses,
		"cached", hit,
		"duration", result.Stats.LoadTime)

	// Stage 2: Select
	hooks.OnSelectStart(ctx, opts.Strategy, len(loaded.Candidates), opts.MaxK)
	start = time.Now()
	sel, hit, err := r.SelectWithCacheInfo(ctx, loaded, opts)
	result.Stats.SelectTime = time.Since(start)
	if err != nil {
		hooks.OnSelectComplete(ctx, opts.Strategy, 0, result.Stats.SelectTime, err)
		return nil, fmt.Errorf("select: %w", err)
	}
	result.Report = sel.Report
	result.Greedy = sel.Greedy
	result.CacheInfo.SelectHit = hit
	hooks.OnSelectComplete(ctx, opts.Strategy, sel.Report.Reached, result.Stats.SelectTime, nil)

	r.Logger.Info("selected crosses",
		"strategy", opts.Strategy,
		"requested", sel.Report.Requested,
		"reached", sel.Report.Reached,
		"cached", hit,
		"duration", result.Stats.SelectTime)

	// Stage 3: Render
	hooks.OnRenderStart(ctx, opts.Formats)
	start = time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, sel.Report, opts)
	result.Stats.RenderTime = time.Since(start)
	hooks.OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = hit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Loaded is the outcome of the load stage.
type Loaded struct {
	Map        *coverage.Map
	Candidates []cross.Cross

	// Hash is the content hash of the serialised map, used to key the
	// select stage.
	Hash string
}

// LoadWithCacheInfo builds the informative map with caching and returns
// cache hit info. The pair list is always read, since the candidate order
// and duplicates are not part of the cached map.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) (Loaded, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLoad(); err != nil {
		return Loaded{}, false, err
	}

	candidates, err := cross.ReadPairsFile(opts.Pairs)
	if err != nil {
		return Loaded{}, false, err
	}

	assayHash, err := cache.HashFile(opts.Assay)
	if err != nil {
		if os.IsNotExist(err) {
			return Loaded{}, false, errors.Wrap(errors.ErrCodeFileNotFound, err, "assay file %s", opts.Assay)
		}
		return Loaded{}, false, errors.Wrap(errors.ErrCodeInvalidAssay, err, "read %s", opts.Assay)
	}
	pairsHash, err := cache.HashFile(opts.Pairs)
	if err != nil {
		return Loaded{}, false, err
	}
	cacheKey := r.Keyer.MapKey(assayHash, pairsHash, opts.MapKeyOpts())

	if !opts.Refresh {
		if data, ok := r.get(ctx, "map", cacheKey); ok {
			if m, err := coverage.Unmarshal(data); err == nil {
				return Loaded{Map: m, Candidates: candidates, Hash: cache.Hash(data)}, true, nil
			}
			r.Logger.Debug("discarding unreadable cached map", "key", cacheKey)
		}
	}

	m, err := loadMap(opts, candidates)
	if err != nil {
		return Loaded{}, false, err
	}
	data, err := coverage.Marshal(m)
	if err != nil {
		return Loaded{}, false, err
	}
	r.set(ctx, "map", cacheKey, data, cache.MapTTL)
	return Loaded{Map: m, Candidates: candidates, Hash: cache.Hash(data)}, false, nil
}

// Load is a convenience wrapper that calls LoadWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Load(ctx context.Context, opts Options) (Loaded, error) {
	l, _, err := r.LoadWithCacheInfo(ctx, opts)
	return l, err
}

// selectionEntry is the cached form of a Selection.
type selectionEntry struct {
	Report *report.Report `json:"report"`
	Greedy *report.Report `json:"greedy,omitempty"`
}

// SelectWithCacheInfo runs the optimizer with caching and returns cache hit
// info. Cached reports get a fresh run id.
func (r *Runner) SelectWithCacheInfo(ctx context.Context, l Loaded, opts Options) (Selection, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForSelect(); err != nil {
		return Selection{}, false, err
	}

	// The candidate list decides order and duplicates, so it is part of the key.
	var pairs bytes.Buffer
	if err := cross.WritePairs(&pairs, l.Candidates); err != nil {
		return Selection{}, false, err
	}
	cacheKey := r.Keyer.SelectionKey(cache.Hash([]byte(l.Hash+cache.Hash(pairs.Bytes()))), opts.SelectionKeyOpts())

	if !opts.Refresh {
		if data, ok := r.get(ctx, "selection", cacheKey); ok {
			var entry selectionEntry
			if err := json.Unmarshal(data, &entry); err == nil && entry.Report != nil {
				entry.Report.RunID = uuid.NewString()
				if entry.Greedy != nil {
					entry.Greedy.RunID = uuid.NewString()
				}
				return Selection(entry), true, nil
			}
			r.Logger.Debug("discarding unreadable cached selection", "key", cacheKey)
		}
	}

	sel, err := Select(ctx, l.Map, l.Candidates, opts)
	if err != nil {
		return Selection{}, false, err
	}
	if data, err := json.Marshal(selectionEntry(sel)); err == nil {
		r.set(ctx, "selection", cacheKey, data, cache.SelectionTTL)
	}
	return sel, false, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit
// info. JSON output carries the run id and is never cached.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, rep *report.Report, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	reportHash, err := hashReport(rep)
	if err != nil {
		return nil, false, fmt.Errorf("serialize report for cache key: %w", err)
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if format == FormatJSON || opts.Refresh {
			missing = append(missing, format)
			continue
		}
		key := r.Keyer.ArtifactKey(reportHash, opts.ArtifactKeyOpts(format))
		if data, ok := r.get(ctx, "artifact", key); ok {
			artifacts[format] = data
		} else {
			missing = append(missing, format)
		}
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	renderOpts := opts
	renderOpts.Formats = missing
	rendered, err := Render(ctx, rep, renderOpts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		artifacts[format] = data
		if format == FormatJSON {
			continue
		}
		r.set(ctx, "artifact", r.Keyer.ArtifactKey(reportHash, opts.ArtifactKeyOpts(format)), data, cache.ArtifactTTL)
	}
	return artifacts, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, rep *report.Report, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, rep, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) get(ctx context.Context, kind, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "kind", kind, "error", err)
		return nil, false
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, kind)
		return data, true
	}
	observability.Cache().OnCacheMiss(ctx, kind)
	return nil, false
}

func (r *Runner) set(ctx context.Context, kind, key string, data []byte, ttl time.Duration) {
	if r.MaxTTL > 0 && ttl > r.MaxTTL {
		ttl = r.MaxTTL
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "kind", kind, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, kind, len(data))
}

// hashReport hashes r without its run id, so repeated runs share artifacts.
func hashReport(r *report.Report) (string, error) {
	c := *r
	c.RunID = ""
	data, err := json.Marshal(&c)
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

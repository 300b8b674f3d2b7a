package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/kgraph/pkg/cache"
	"github.com/matzehuels/kgraph/pkg/graph"
	"github.com/matzehuels/kgraph/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so caching behaves the same everywhere.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
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

// Execute runs relayout and render for g.
func (r *Runner) Execute(ctx context.Context, g graph.Graph, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	result := &Result{
		GraphHash: GraphHash(g),
		Stats: Stats{
			NodeCount: len(g.Nodes),
			EdgeCount: len(g.Edges),
		},
	}

	layoutStart := time.Now()
	layout, layoutHit, err := r.layout(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	result.Layout = layout
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"focus", opts.Focus,
		"visible", layout.Stats.VisibleNodes,
		"hidden", layout.Stats.HiddenNodes,
		"rings", len(layout.Rings),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	renderStart := time.Now()
	artifact, renderHit, err := r.render(ctx, layout, opts, opts.Seeded())
	if err != nil {
		return nil, err
	}
	result.Artifact = artifact
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Debug("rendered layout",
		"format", opts.Format,
		"bytes", len(artifact),
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Layout relayouts g with caching for seeded runs and reports whether the
// layout was served from the cache.
func (r *Runner) Layout(ctx context.Context, g graph.Graph, opts Options) (graph.Layout, bool, error) {
	if err := opts.Validate(); err != nil {
		return graph.Layout{}, false, err
	}
	return r.layout(ctx, g, opts)
}

// Render renders l. Artifacts are cached only when l is seeded, since an
// unseeded layout is never requested twice.
func (r *Runner) Render(ctx context.Context, l graph.Layout, opts Options) ([]byte, error) {
	opts.SetDefaults()
	if err := ValidateFormat(opts.Format); err != nil {
		return nil, err
	}
	data, _, err := r.render(ctx, l, opts, l.Seed != 0)
	return data, err
}

func (r *Runner) layout(ctx context.Context, g graph.Graph, opts Options) (graph.Layout, bool, error) {
	if !opts.Seeded() {
		l, err := ComputeLayout(ctx, g, opts)
		return l, false, err
	}

	key := r.Keyer.LayoutKey(InputHash(g), opts.LayoutKeyOpts())
	if data, ok := r.get(ctx, key, "layout"); ok {
		if cached, err := graph.UnmarshalLayout(data); err == nil {
			return cached, true, nil
		}
	}

	l, err := ComputeLayout(ctx, g, opts)
	if err != nil {
		return graph.Layout{}, false, err
	}
	if data, err := graph.MarshalLayout(l); err == nil {
		r.set(ctx, key, "layout", data, TTLLayout)
	}
	return l, false, nil
}

func (r *Runner) render(ctx context.Context, l graph.Layout, opts Options, cacheable bool) ([]byte, bool, error) {
	if !cacheable {
		data, err := RenderFromLayout(ctx, l, opts)
		return data, false, err
	}

	layoutData, err := graph.MarshalLayout(l)
	if err != nil {
		return nil, false, err
	}
	key := r.Keyer.ArtifactKey(cache.Hash(layoutData), opts.ArtifactKeyOpts())
	if data, ok := r.get(ctx, key, "artifact"); ok {
		return data, true, nil
	}

	data, err := RenderFromLayout(ctx, l, opts)
	if err != nil {
		return nil, false, err
	}
	r.set(ctx, key, "artifact", data, TTLArtifact)
	return data, false, nil
}

// get reads key, logging backend errors and treating them as misses.
func (r *Runner) get(ctx context.Context, key, keyType string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "type", keyType, "error", err)
		return nil, false
	}
	result := observability.CacheMiss
	if hit {
		result = observability.CacheHit
	}
	observability.RecordCache(ctx, keyType, result, 0)
	return data, hit
}

func (r *Runner) set(ctx context.Context, key, keyType string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "error", err)
		return
	}
	observability.RecordCache(ctx, keyType, observability.CacheSet, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// GraphHash returns the content hash of g's structure. Layout-derived
// fields do not affect it.
func GraphHash(g graph.Graph) string {
	data, _ := graph.MarshalGraph(graph.Structure(g))
	return cache.Hash(data)
}

// InputHash returns the hash seeded layouts are cached under. Positions and
// styles count because the engine carries them into its output (hidden
// nodes keep their position, non-opacity style keys pass through). Hidden
// and Selected are recomputed on every call and do not.
func InputHash(g graph.Graph) string {
	in := graph.Graph{
		Nodes: make([]graph.Node, len(g.Nodes)),
		Edges: make([]graph.Edge, len(g.Edges)),
	}
	for i, n := range g.Nodes {
		n.Hidden, n.Selected = false, false
		in.Nodes[i] = n
	}
	for i, e := range g.Edges {
		e.Hidden = false
		in.Edges[i] = e
	}
	data, _ := graph.MarshalGraph(in)
	return cache.Hash(data)
}

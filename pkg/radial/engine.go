package radial

import (
	"github.com/matzehuels/kgraph/pkg/errors"
	"github.com/matzehuels/kgraph/pkg/graph"
)

// Options configures an [Engine]. Zero fields select the defaults.
type Options struct {
	// BaseRadius is the ring radius in canvas units. Default 400.
	BaseRadius float64

	// JitterFraction is the radial jitter span relative to BaseRadius.
	// Default 0.125. Use a negative value to disable jitter entirely.
	JitterFraction float64

	// Cutoff is the largest hop distance still shown. Default 3.
	Cutoff int

	// Concentric places each distance tier on its own ring.
	Concentric bool

	// Strict rejects a focus that names no node.
	Strict bool

	// Jitter supplies radius jitter. Default [SystemJitter].
	Jitter JitterSource
}

// DefaultOptions returns the options used by [Relayout].
func DefaultOptions() Options {
	return Options{
		BaseRadius:     DefaultBaseRadius,
		JitterFraction: DefaultJitterFraction,
		Cutoff:         DefaultCutoff,
	}
}

// Engine runs the relayout pipeline with fixed options. It holds no
// per-call state and may be shared by goroutines when its jitter source
// allows it.
type Engine struct {
	policy Policy
	placer Placer
	strict bool
}

// NewEngine creates an engine. A nil opts uses [DefaultOptions].
func NewEngine(opts *Options) *Engine {
	o := DefaultOptions()
	if opts != nil {
		if opts.BaseRadius > 0 {
			o.BaseRadius = opts.BaseRadius
		}
		switch {
		case opts.JitterFraction > 0:
			o.JitterFraction = opts.JitterFraction
		case opts.JitterFraction < 0:
			o.JitterFraction = 0
		}
		if opts.Cutoff > 0 {
			o.Cutoff = opts.Cutoff
		}
		o.Concentric = opts.Concentric
		o.Strict = opts.Strict
		o.Jitter = opts.Jitter
	}
	if o.Jitter == nil {
		o.Jitter = SystemJitter()
	}

	policy := Policy{Cutoff: o.Cutoff}
	return &Engine{
		policy: policy,
		placer: Placer{
			BaseRadius:     o.BaseRadius,
			JitterFraction: o.JitterFraction,
			Jitter:         o.Jitter,
			Policy:         policy,
			Concentric:     o.Concentric,
		},
		strict: o.Strict,
	}
}

// Result is the outcome of one relayout.
type Result struct {
	Focus     string
	Nodes     []graph.Node
	Edges     []graph.Edge
	Distances DistanceMap
	Rings     map[int][]graph.Node
	Stats     graph.LayoutStats
}

// Export converts the result to its serialization format. Seed is recorded
// as given; pass 0 when the layout was not seeded.
func (r Result) Export(seed uint64, concentric bool) graph.Layout {
	return graph.Layout{
		Focus:      r.Focus,
		Nodes:      r.Nodes,
		Edges:      r.Edges,
		Rings:      Summaries(r.Rings),
		Stats:      r.Stats,
		Seed:       seed,
		Concentric: concentric,
	}
}

// Concentric reports whether the engine places tiers on separate rings.
func (e *Engine) Concentric() bool { return e.placer.Concentric }

// Relayout lays out nodes and edges around focusID.
//
// The returned slices have the same length and order as the inputs, with
// position, visibility, selection and opacity filled in. The inputs are not
// modified. An empty focus is rejected with errors.ErrCodeInvalidInput; in
// strict mode a focus that names no node is rejected with
// errors.ErrCodeFocusNotFound.
func (e *Engine) Relayout(focusID string, nodes []graph.Node, edges []graph.Edge) (Result, error) {
	if focusID == "" {
		return Result{}, errors.New(errors.ErrCodeInvalidInput, "focus id is required")
	}
	if e.strict && !containsNode(nodes, focusID) {
		return Result{}, errors.New(errors.ErrCodeFocusNotFound, "focus %q is not a node", focusID)
	}

	d := Distances(focusID, edges)
	rings := Rings(nodes, d)

	outNodes := e.placer.Place(nodes, d, focusID)
	for i := range outNodes {
		outNodes[i].Selected = outNodes[i].ID == focusID
	}
	outEdges := e.policy.ApplyEdges(edges, d)

	return Result{
		Focus:     focusID,
		Nodes:     outNodes,
		Edges:     outEdges,
		Distances: d,
		Rings:     rings,
		Stats:     stats(outNodes, outEdges, rings),
	}, nil
}

// Relayout lays out nodes and edges around focusID with the default options.
//
// It never fails: an unknown focus simply yields a layout in which only
// nodes connected to that ID through edges are visible. Edges with an empty
// endpoint are never traversed, so an empty focus reaches nothing and only a
// node whose ID is itself empty could be shown.
func Relayout(focusID string, nodes []graph.Node, edges []graph.Edge) ([]graph.Node, []graph.Edge) {
	d := Distances(focusID, edges)
	p := DefaultPolicy()
	placer := Placer{
		BaseRadius:     DefaultBaseRadius,
		JitterFraction: DefaultJitterFraction,
		Jitter:         SystemJitter(),
		Policy:         p,
	}

	outNodes := placer.Place(nodes, d, focusID)
	for i := range outNodes {
		outNodes[i].Selected = outNodes[i].ID == focusID
	}
	return outNodes, p.ApplyEdges(edges, d)
}

func containsNode(nodes []graph.Node, id string) bool {
	for _, n := range nodes {
		if n.ID == id {
			return true
		}
	}
	return false
}

func stats(nodes []graph.Node, edges []graph.Edge, rings map[int][]graph.Node) graph.LayoutStats {
	var s graph.LayoutStats
	for _, n := range nodes {
		if n.Hidden {
			s.HiddenNodes++
		} else {
			s.VisibleNodes++
		}
	}
	for _, e := range edges {
		if e.Hidden {
			s.HiddenEdges++
		} else {
			s.VisibleEdges++
		}
	}
	for dist := range rings {
		s.MaxDistance = max(s.MaxDistance, dist)
	}
	return s
}

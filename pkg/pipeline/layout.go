package pipeline

import (
	"context"

	"github.com/matzehuels/kgraph/pkg/graph"
	"github.com/matzehuels/kgraph/pkg/observability"
	"github.com/matzehuels/kgraph/pkg/radial"
)

// ComputeLayout relayouts g around opts.Focus without caching.
func ComputeLayout(ctx context.Context, g graph.Graph, opts Options) (graph.Layout, error) {
	if err := opts.Validate(); err != nil {
		return graph.Layout{}, err
	}

	done := observability.Begin(ctx, observability.StepLayout, opts.Focus)
	res, err := radial.NewEngine(opts.EngineOptions()).Relayout(opts.Focus, g.Nodes, g.Edges)
	done(res.Stats.VisibleNodes, err)
	if err != nil {
		return graph.Layout{}, err
	}

	var seed uint64
	if opts.Seed != nil {
		seed = *opts.Seed
	}
	return res.Export(seed, opts.Concentric), nil
}

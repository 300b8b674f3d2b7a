package pipeline

import (
	"context"

	"github.com/matzehuels/kgraph/pkg/graph"
	"github.com/matzehuels/kgraph/pkg/observability"
	"github.com/matzehuels/kgraph/pkg/render/nodelink"
)

// RenderFromLayout produces the artifact for opts.Format without caching.
func RenderFromLayout(ctx context.Context, l graph.Layout, opts Options) ([]byte, error) {
	opts.SetDefaults()
	if err := ValidateFormat(opts.Format); err != nil {
		return nil, err
	}

	done := observability.Begin(ctx, observability.StepRender, opts.Format)
	data, err := render(ctx, l, opts)
	done(len(data), err)
	return data, err
}

func render(ctx context.Context, l graph.Layout, opts Options) ([]byte, error) {
	switch opts.Format {
	case FormatDOT:
		return []byte(nodelink.ToDOT(l, nodelinkOptions(opts))), nil
	case FormatSVG:
		return nodelink.RenderSVG(ctx, nodelink.ToDOT(l, nodelinkOptions(opts)))
	default:
		return graph.MarshalLayout(l)
	}
}

func nodelinkOptions(opts Options) nodelink.Options {
	return nodelink.Options{
		Detailed:      opts.Detailed,
		IncludeHidden: opts.IncludeHidden,
		EdgeLabels:    opts.EdgeLabels,
	}
}

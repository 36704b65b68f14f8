package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/relline/pkg/render/nodelink"
	"github.com/matzehuels/relline/pkg/render/sink"
	"github.com/matzehuels/relline/pkg/scene"
)

// renderFormat produces one artifact. p is nil for formats that do not need
// a draw pass.
func renderFormat(ctx context.Context, format string, s *scene.Scene, p *pass, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		var svgOpts []sink.SVGOption
		if opts.Labels {
			svgOpts = append(svgOpts, sink.WithLabels())
		}
		return sink.RenderSVG(p.frame, p.connectors, svgOpts...), nil
	case FormatPNG:
		pngOpts := []sink.PNGOption{sink.WithScale(opts.Scale)}
		if opts.Labels {
			pngOpts = append(pngOpts, sink.WithPNGLabels())
		}
		return sink.RenderPNG(p.frame, p.connectors, pngOpts...)
	case FormatJSON:
		return sink.RenderJSON(p.frame, p.connectors)
	case FormatDOT:
		return []byte(toDOT(s, opts)), nil
	case FormatNodelink:
		return nodelink.RenderSVG(ctx, toDOT(s, opts))
	}
	return nil, fmt.Errorf("unsupported format: %s", format)
}

func toDOT(s *scene.Scene, opts Options) string {
	return nodelink.ToDOT(s, nodelink.Options{Detailed: opts.Detailed, DefaultColor: opts.DefaultColor})
}

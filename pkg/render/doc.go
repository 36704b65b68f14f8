// Package render groups the output formats for relline scenes.
//
// # Overview
//
//   - Connector overlays (in [sink]): SVG, PNG, JSON and terminal grids
//     built from the connectors of a draw pass
//   - Node-link diagrams (in [nodelink]): Graphviz views of a scene's
//     elements and relations
//
// A typical render collects one settled draw pass and writes it out:
//
//	c := sink.NewCollector()
//	o := overlay.New(page, page, c)
//	o.SetBoundID(s.BoundID)
//	o.SetRelations(s.Relations)
//	_ = o.Init()
//	o.Flush()
//	svg := sink.RenderSVG(sink.FrameOf(page, s.BoundID, true), c.Connectors())
//
// [sink]: github.com/matzehuels/relline/pkg/render/sink
// [nodelink]: github.com/matzehuels/relline/pkg/render/nodelink
package render

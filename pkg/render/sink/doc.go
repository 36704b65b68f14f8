// Package sink provides renderers for connector overlays.
//
// # Overview
//
// A [Collector] is the overlay's [overlay.Renderer]: it keeps the connectors
// of the current draw pass and forgets them on ClearAll. The Render
// functions turn a snapshot of connectors into an output format:
//
//   - SVG: one nested <svg> per connector, positioned at its host box,
//     holding a <polygon> in local coordinates
//   - PNG: the same picture rasterized with fogleman/gg
//   - JSON: connector geometry for external tools
//   - Cells: a character grid for terminal previews
//
// Basic usage:
//
//	c := sink.NewCollector()
//	o := overlay.New(page, page, c)
//	// ... Init, wait for the settle delay or Flush
//	svg := sink.RenderSVG(sink.FrameOf(page, boundID, true), c.Connectors())
//
// # Frames
//
// A [Frame] carries what the overlay does not draw itself: the viewport size
// and, optionally, the element outlines with the bounding element
// highlighted. Without elements only the connectors are drawn.
//
// # Colors
//
// Relation colors are CSS-like strings. [ParseColor] accepts #rgb, #rrggbb,
// CSS color names and "none"/"transparent".
//
// [overlay.Renderer]: github.com/matzehuels/relline/pkg/overlay.Renderer
package sink

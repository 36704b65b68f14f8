// Package geom computes the connector geometry between two rectangles.
//
// # Coordinates
//
// All values are absolute viewport pixels with y growing downward, the same
// space an element's bounding client rect is reported in.
//
// # Quads
//
// [Connect] joins the right edge of a start rectangle to the left edge of an
// end rectangle with a four-point polygon:
//
//	A ─────────── B      A = top-right of start
//	│              │     B = top-left of end
//	D ─────────── C      C = bottom-left of end
//	                     D = bottom-right of start
//
// The [HostBox] is the smallest box holding the polygon. It is positioned in
// viewport coordinates; the polygon's [Quad.Local] points are relative to the
// box origin so a renderer can place a local drawing surface at the box and
// draw the polygon inside it. Host spans are never clamped: a negative width
// means the end rectangle starts left of the start rectangle's right edge,
// and [Quad.Renderable] reports false.
//
// # Scope
//
// [InScope] gates a connection on a bounding rectangle. Only the connecting
// edges are checked horizontally; both rectangles must fit vertically.
package geom

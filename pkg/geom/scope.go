package geom

// InScope reports whether a connector between start and end stays inside
// bound. A nil rectangle stands for an element that could not be found and
// is never in scope.
//
// Horizontally only the connecting edges are checked: start's right edge and
// end's left edge must lie within the bound's span. Vertically both
// rectangles must fit entirely. Boundaries are inclusive.
func InScope(start, end, bound *Rect) bool {
	if start == nil || end == nil || bound == nil {
		return false
	}

	minX, maxX := bound.X, bound.Right()
	minY, maxY := bound.Y, bound.Bottom()

	if startX := start.Right(); startX < minX || startX > maxX {
		return false
	}
	if endX := end.X; endX < minX || endX > maxX {
		return false
	}

	if start.Y < minY || end.Y < minY {
		return false
	}
	if start.Bottom() > maxY || end.Bottom() > maxY {
		return false
	}
	return true
}

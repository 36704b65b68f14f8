package geom

// HostBox is the viewport-fixed box that hosts one connector polygon.
type HostBox struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Origin returns the top-left corner of the box.
func (h HostBox) Origin() Point { return Point{X: h.Left, Y: h.Top} }

// Quad is the polygon joining two rectangles.
//
// A, B, C and D are absolute. Local holds the same corners, in the same
// order, relative to Host's origin.
type Quad struct {
	A, B, C, D Point
	Host       HostBox
	Local      [4]Point
}

// Connect computes the quad joining the right edge of start to the left edge
// of end. It is a pure function of the two rectangles.
func Connect(start, end Rect) Quad {
	a := Point{X: start.Right(), Y: start.Y}
	b := Point{X: end.X, Y: end.Y}
	c := Point{X: end.X, Y: end.Bottom()}
	d := Point{X: start.Right(), Y: start.Bottom()}

	highest := b
	if a.Y <= b.Y {
		highest = a
	}
	lowest := c
	if d.Y >= c.Y {
		lowest = d
	}

	host := HostBox{
		Left:   a.X,
		Top:    highest.Y,
		Width:  b.X - a.X,
		Height: lowest.Y - highest.Y,
	}

	// Within the host box the higher of A/B sits on y=0 and the lower of
	// C/D on y=Height, whichever rectangle is on top. Local points are a
	// plain translation; placing corners by edge height instead would swap
	// C and B when one rectangle spans the other vertically.
	origin := host.Origin()
	return Quad{
		A: a, B: b, C: c, D: d,
		Host:  host,
		Local: [4]Point{a.Sub(origin), b.Sub(origin), c.Sub(origin), d.Sub(origin)},
	}
}

// Points returns the absolute corners in drawing order.
func (q Quad) Points() [4]Point { return [4]Point{q.A, q.B, q.C, q.D} }

// Renderable reports whether the host box has a positive area. Quads whose
// end rectangle begins left of the start's right edge produce a negative
// width and are skipped rather than clamped.
func (q Quad) Renderable() bool {
	return q.Host.Width > 0 && q.Host.Height > 0
}

// Contains reports whether p lies inside the quad polygon (even-odd rule).
func (q Quad) Contains(p Point) bool {
	pts := q.Points()
	inside := false
	for i, j := 0, len(pts)-1; i < len(pts); j, i = i, i+1 {
		pi, pj := pts[i], pts[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) &&
			p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			inside = !inside
		}
	}
	return inside
}

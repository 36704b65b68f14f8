package sink

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/relline/pkg/geom"
	"github.com/matzehuels/relline/pkg/overlay"
)

const (
	runeEmpty     = ' '
	runeElement   = '·'
	runeBound     = '░'
	runeConnector = '█'
)

const outlineColor = "#adb5bd"

// Cell is one character of a terminal grid.
type Cell struct {
	Rune  rune
	Color string // #rrggbb, empty for the terminal default
}

// Grid is a terminal-sized raster of a frame. Each cell covers
// Frame.Width/Cols by Frame.Height/Rows pixels and takes the color of the
// last connector whose quad contains the cell's centre.
type Grid struct {
	Cols, Rows int
	Cells      [][]Cell
}

// Rasterize maps the frame and connectors onto a cols by rows grid. Elements
// are shaded with their label written from their top-left cell.
func Rasterize(f Frame, connectors []overlay.Connector, cols, rows int) Grid {
	g := Grid{Cols: max(cols, 0), Rows: max(rows, 0)}
	g.Cells = make([][]Cell, g.Rows)
	for y := range g.Cells {
		g.Cells[y] = make([]Cell, g.Cols)
		for x := range g.Cells[y] {
			g.Cells[y][x] = Cell{Rune: runeEmpty}
		}
	}
	if g.Cols == 0 || g.Rows == 0 || f.Width <= 0 || f.Height <= 0 {
		return g
	}

	cw, ch := f.Width/float64(g.Cols), f.Height/float64(g.Rows)
	centre := func(x, y int) geom.Point {
		return geom.Pt((float64(x)+0.5)*cw, (float64(y)+0.5)*ch)
	}
	vp := f.viewport()

	for _, e := range f.Elements {
		r := e.View
		if r.Empty() {
			continue
		}
		shade := runeElement
		if e.ID == f.BoundID {
			shade = runeBound
		}
		for y := 0; y < g.Rows; y++ {
			for x := 0; x < g.Cols; x++ {
				p := centre(x, y)
				if r.ContainsPoint(p) && vp.ContainsPoint(p) {
					g.Cells[y][x] = Cell{Rune: shade, Color: outlineColor}
				}
			}
		}
		if e.ID != f.BoundID {
			g.writeLabel(e.DisplayLabel(), int(r.X/cw+0.5), int(r.Y/ch+0.5), int(r.Width/cw))
		}
	}

	for _, c := range connectors {
		hex, ok := HexColor(c.Fill)
		if !ok {
			continue
		}
		for y := 0; y < g.Rows; y++ {
			for x := 0; x < g.Cols; x++ {
				if c.Quad.Contains(centre(x, y)) {
					g.Cells[y][x] = Cell{Rune: runeConnector, Color: hex}
				}
			}
		}
	}
	return g
}

func (g Grid) writeLabel(label string, x, y, width int) {
	if y < 0 || y >= g.Rows {
		return
	}
	for i, r := range []rune(label) {
		if i >= width || x+i >= g.Cols {
			return
		}
		if x+i < 0 {
			continue
		}
		g.Cells[y][x+i] = Cell{Rune: r}
	}
}

// String returns the grid without styling, one line per row.
func (g Grid) String() string {
	var b strings.Builder
	for y, row := range g.Cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		for _, c := range row {
			b.WriteRune(c.Rune)
		}
	}
	return b.String()
}

// Render returns the grid styled with lipgloss, one line per row. Runs of
// cells sharing a color are styled together.
func (g Grid) Render() string {
	lines := make([]string, len(g.Cells))
	for y, row := range g.Cells {
		var line strings.Builder
		for x := 0; x < len(row); {
			end := x
			var run strings.Builder
			for end < len(row) && row[end].Color == row[x].Color {
				run.WriteRune(row[end].Rune)
				end++
			}
			if row[x].Color == "" {
				line.WriteString(run.String())
			} else {
				line.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(row[x].Color)).Render(run.String()))
			}
			x = end
		}
		lines[y] = line.String()
	}
	return strings.Join(lines, "\n")
}

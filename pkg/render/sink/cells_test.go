package sink

import (
	"strings"
	"testing"

	"github.com/matzehuels/relline/pkg/overlay"
)

func TestRasterize(t *testing.T) {
	// 10x10 pixel cells.
	g := Rasterize(testFrame(), []overlay.Connector{testConnector("red")}, 20, 10)

	if g.Cols != 20 || g.Rows != 10 || len(g.Cells) != 10 || len(g.Cells[0]) != 20 {
		t.Fatalf("grid = %dx%d, want 20x10", g.Cols, g.Rows)
	}

	tests := []struct {
		name      string
		x, y      int
		wantRune  rune
		wantColor string
	}{
		{"quad", 7, 4, runeConnector, "#ff0000"},
		{"bound only", 17, 0, runeBound, outlineColor},
		{"element", 3, 3, runeElement, outlineColor},
		{"id as label", 1, 2, 's', ""},
		{"label", 10, 4, 'E', ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := g.Cells[tt.y][tt.x]
			if c.Rune != tt.wantRune || c.Color != tt.wantColor {
				t.Errorf("cell(%d,%d) = %q %q, want %q %q", tt.x, tt.y, c.Rune, c.Color, tt.wantRune, tt.wantColor)
			}
		})
	}
}

func TestRasterizeSkipsTransparent(t *testing.T) {
	g := Rasterize(Frame{Width: 200, Height: 100}, []overlay.Connector{testConnector("none")}, 20, 10)
	if strings.ContainsRune(g.String(), runeConnector) {
		t.Error("transparent connectors should not be painted")
	}
}

func TestRasterizeEmpty(t *testing.T) {
	g := Rasterize(Frame{}, nil, 4, 2)
	if got := g.String(); got != "    \n    " {
		t.Errorf("String() = %q, want two blank rows", got)
	}
	if g := Rasterize(testFrame(), nil, 0, 0); len(g.Cells) != 0 {
		t.Error("zero-sized grid should have no cells")
	}
}

func TestGridRender(t *testing.T) {
	g := Rasterize(Frame{Width: 200, Height: 100}, []overlay.Connector{testConnector("red")}, 20, 10)
	out := g.Render()
	if got := strings.Count(out, "\n"); got != 9 {
		t.Errorf("Render() has %d newlines, want 9", got)
	}
	if !strings.ContainsRune(out, runeConnector) {
		t.Error("Render() should contain connector cells")
	}
}

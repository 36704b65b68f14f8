package sink

import (
	"github.com/matzehuels/relline/pkg/geom"
	"github.com/matzehuels/relline/pkg/overlay"
	"github.com/matzehuels/relline/pkg/relation"
	"github.com/matzehuels/relline/pkg/scene"
)

// testFrame is a 200x100 viewport with a start element left of an end
// element, both inside a fixed bound.
func testFrame() Frame {
	return Frame{
		Width:   200,
		Height:  100,
		BoundID: "bound",
		Elements: []scene.Placed{
			{Element: scene.Element{ID: "bound", Fixed: true}, View: geom.R(0, 0, 200, 100)},
			{Element: scene.Element{ID: "s"}, View: geom.R(10, 20, 40, 30)},
			{Element: scene.Element{ID: "e", Label: "End"}, View: geom.R(100, 40, 40, 30)},
		},
	}
}

// testConnector joins s and e: A(50,20) B(100,40) C(100,70) D(50,50) in a
// 50x50 host box at (50,20).
func testConnector(color string) overlay.Connector {
	q := geom.Connect(geom.R(10, 20, 40, 30), geom.R(100, 40, 40, 30))
	return overlay.Connector{
		Relation: relation.New("s", "e", color),
		Quad:     q,
		Fill:     color,
		Stroke:   overlay.DefaultStroke,
	}
}

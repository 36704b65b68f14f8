package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/relline/pkg/relation"
	"github.com/matzehuels/relline/pkg/scene"
)

func testScene() *scene.Scene {
	return &scene.Scene{
		Width:   800,
		Height:  600,
		BoundID: "frame",
		Elements: []scene.Element{
			{ID: "frame", X: 0, Y: 0, Width: 800, Height: 600, Fixed: true},
			{ID: "a", Label: "Alpha", X: 10, Y: 10, Width: 100, Height: 40},
			{ID: "b", X: 300, Y: 10, Width: 100, Height: 40},
		},
		Relations: relation.List{
			relation.New("a", "b", "#ff0000"),
			relation.New("a", "ghost"),
		},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testScene(), Options{DefaultColor: "#000000"})

	for _, want := range []string{
		"digraph G {",
		`subgraph "cluster_frame" {`,
		`"a" [label="Alpha"];`,
		`"b" [label="b"];`,
		`"a" -> "b" [color="#ff0000"];`,
		`"ghost" [style="rounded,dotted"];`,
		`"a" -> "ghost" [color="#000000"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %s\n%s", want, dot)
		}
	}
	if strings.Contains(dot, `"frame" [label`) {
		t.Error("bound should be a cluster, not a node")
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(testScene(), Options{Detailed: true})
	if !strings.Contains(dot, `Alpha\n[10,10 100x40]`) {
		t.Errorf("detailed label missing rectangle:\n%s", dot)
	}
	if !strings.Contains(dot, `"a" -> "ghost";`) {
		t.Error("relation without color and no default should have no color attribute")
	}
}

func TestToDOTWithoutBound(t *testing.T) {
	s := testScene()
	s.BoundID = "missing"
	dot := ToDOT(s, Options{})
	if strings.Contains(dot, "subgraph") {
		t.Error("unknown bound should not produce a cluster")
	}
	if !strings.Contains(dot, `"frame" [label="frame"];`) {
		t.Error("former bound should be an ordinary node")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50">`
	if !strings.HasPrefix(out, want) {
		t.Errorf("normalizeViewBox() = %s, want prefix %s", out, want)
	}
	if got := normalizeViewBox([]byte("<svg/>")); string(got) != "<svg/>" {
		t.Errorf("svg without viewBox should be unchanged, got %s", got)
	}
}

package scene

import (
	"testing"

	"github.com/matzehuels/relline/pkg/geom"
	"github.com/matzehuels/relline/pkg/overlay"
	"github.com/matzehuels/relline/pkg/relation"
)

func testScene() Scene {
	return Scene{
		Width:   500,
		Height:  400,
		BoundID: "frame",
		Elements: []Element{
			{ID: "frame", X: 0, Y: 0, Width: 500, Height: 400, Fixed: true},
			{ID: "a", X: 10, Y: 10, Width: 50, Height: 30},
			{ID: "b", X: 200, Y: 40, Width: 50, Height: 30},
		},
		Relations: relation.List{relation.New("a", "b", "#ff0000")},
	}
}

func TestPageResolve(t *testing.T) {
	p := NewPage(testScene())

	el, ok := p.Resolve("a")
	if !ok {
		t.Fatal("Resolve(a) not found")
	}
	if got, want := el.Rect(), geom.R(10, 10, 50, 30); got != want {
		t.Errorf("Rect() = %v, want %v", got, want)
	}

	if _, ok := p.Resolve("missing"); ok {
		t.Error("Resolve(missing) found an element")
	}
}

func TestPageScrollMovesElements(t *testing.T) {
	p := NewPage(testScene())
	a, _ := p.Resolve("a")
	frame, _ := p.Resolve("frame")

	p.ScrollBy(5, 20)

	if got, want := a.Rect(), geom.R(5, -10, 50, 30); got != want {
		t.Errorf("scrolled Rect() = %v, want %v", got, want)
	}
	if got, want := frame.Rect(), geom.R(0, 0, 500, 400); got != want {
		t.Errorf("fixed Rect() = %v, want %v", got, want)
	}
	if got := p.Scroll(); got != geom.Pt(5, 20) {
		t.Errorf("Scroll() = %v, want (5,20)", got)
	}

	p.ScrollTo(0, 0)
	if got, want := a.Rect(), geom.R(10, 10, 50, 30); got != want {
		t.Errorf("Rect() after ScrollTo = %v, want %v", got, want)
	}
}

func TestPageRemovedElementIsEmpty(t *testing.T) {
	p := NewPage(testScene())
	a, _ := p.Resolve("a")

	p.Remove("a")
	if !a.Rect().Empty() {
		t.Errorf("Rect() of removed element = %v, want empty", a.Rect())
	}
	if _, ok := p.Resolve("a"); ok {
		t.Error("Resolve(a) found a removed element")
	}

	p.Put(Element{ID: "a", X: 1, Y: 1, Width: 2, Height: 2})
	if got := a.Rect(); got != geom.R(1, 1, 2, 2) {
		t.Errorf("Rect() after Put = %v", got)
	}
}

func TestPageEvents(t *testing.T) {
	p := NewPage(testScene())

	var scrolls, resizes, frameScrolls int
	unsubScroll := p.Listen(overlay.Window, overlay.EventScroll, func() { scrolls++ })
	unsubResize := p.Listen(overlay.Window, overlay.EventResize, func() { resizes++ })
	unsubFrame := p.Listen(overlay.ElementTarget("frame"), overlay.EventScroll, func() { frameScrolls++ })

	if n := p.ListenerCount(); n != 3 {
		t.Fatalf("ListenerCount() = %d, want 3", n)
	}

	p.ScrollBy(0, 10)
	p.Resize(300, 300)
	p.ScrollElement("frame")

	if scrolls != 1 || resizes != 1 || frameScrolls != 1 {
		t.Errorf("scrolls=%d resizes=%d frameScrolls=%d, want 1 1 1", scrolls, resizes, frameScrolls)
	}
	if got := p.Viewport(); got != geom.R(0, 0, 300, 300) {
		t.Errorf("Viewport() = %v", got)
	}

	unsubScroll()
	unsubScroll()
	unsubResize()
	unsubFrame()

	p.ScrollBy(0, 10)
	p.Resize(100, 100)
	p.ScrollElement("frame")

	if scrolls != 1 || resizes != 1 || frameScrolls != 1 {
		t.Errorf("handlers ran after unsubscribe: %d %d %d", scrolls, resizes, frameScrolls)
	}
	if n := p.ListenerCount(); n != 0 {
		t.Errorf("ListenerCount() = %d after unsubscribe, want 0", n)
	}
}

func TestPageElementsOrder(t *testing.T) {
	p := NewPage(testScene())
	p.ScrollBy(0, 10)

	els := p.Elements()
	if len(els) != 3 {
		t.Fatalf("Elements() len = %d, want 3", len(els))
	}
	if els[0].ID != "frame" || els[1].ID != "a" || els[2].ID != "b" {
		t.Errorf("order = %s %s %s", els[0].ID, els[1].ID, els[2].ID)
	}
	if els[1].View != geom.R(10, 0, 50, 30) {
		t.Errorf("View = %v", els[1].View)
	}
}

func TestSceneValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Scene)
		wantErr bool
	}{
		{"valid", func(*Scene) {}, false},
		{"no size", func(s *Scene) { s.Width = 0 }, true},
		{"duplicate id", func(s *Scene) { s.Elements = append(s.Elements, Element{ID: "a"}) }, true},
		{"bad id", func(s *Scene) { s.Elements[1].ID = "<a>" }, true},
		{"no bound", func(s *Scene) { s.BoundID = "" }, true},
		{"unknown bound", func(s *Scene) { s.BoundID = "nope" }, false},
		{"bad relation", func(s *Scene) { s.Relations = append(s.Relations, relation.New("a", "")) }, true},
		{"dangling relation", func(s *Scene) { s.Relations = append(s.Relations, relation.New("a", "zzz")) }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testScene()
			tt.mutate(&s)
			if err := s.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

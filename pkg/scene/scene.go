// Package scene models a page of positioned elements for the overlay.
//
// A [Scene] is plain data: a viewport size, a scroll offset, the bounding
// element id, the elements and the relations to draw. It is what scene files
// decode into (see the io package).
//
// A [Page] is a live scene. It implements overlay.Document and
// overlay.Events: elements resolve to handles whose rectangles are computed
// from the current scroll offset on every read, and ScrollBy/Resize fire the
// same events a browser window would.
//
//	p := scene.NewPage(s)
//	o := overlay.New(p, p, sink.NewCollector())
//	o.SetBoundID(s.BoundID)
//	o.SetRelations(s.Relations)
//	_ = o.Init()
//	p.ScrollBy(0, 120) // clears, then redraws after the settle delay
package scene

import (
	"github.com/matzehuels/relline/pkg/errors"
	"github.com/matzehuels/relline/pkg/geom"
	"github.com/matzehuels/relline/pkg/relation"
)

// Element is a positioned box in document coordinates.
//
// Fixed elements keep their position in the viewport when the page scrolls;
// the others move up and left by the scroll offset.
type Element struct {
	ID     string  `json:"id" toml:"id"`
	Label  string  `json:"label,omitempty" toml:"label"`
	X      float64 `json:"x" toml:"x"`
	Y      float64 `json:"y" toml:"y"`
	Width  float64 `json:"width" toml:"width"`
	Height float64 `json:"height" toml:"height"`
	Fixed  bool    `json:"fixed,omitempty" toml:"fixed"`
}

// Rect returns the element's box in document coordinates.
func (e Element) Rect() geom.Rect { return geom.R(e.X, e.Y, e.Width, e.Height) }

// DisplayLabel returns Label, falling back to ID.
func (e Element) DisplayLabel() string {
	if e.Label != "" {
		return e.Label
	}
	return e.ID
}

// Scene describes a page to draw connectors on.
type Scene struct {
	Width     float64       `json:"width" toml:"width"`
	Height    float64       `json:"height" toml:"height"`
	ScrollX   float64       `json:"scroll_x,omitempty" toml:"scroll_x"`
	ScrollY   float64       `json:"scroll_y,omitempty" toml:"scroll_y"`
	BoundID   string        `json:"bound" toml:"bound"`
	Elements  []Element     `json:"elements" toml:"elements"`
	Relations relation.List `json:"relations" toml:"relations"`
}

// Element returns the element with the given id.
func (s *Scene) Element(id string) (Element, bool) {
	for _, e := range s.Elements {
		if e.ID == id {
			return e, true
		}
	}
	return Element{}, false
}

// Validate checks the scene for structural errors.
//
// Relations may reference ids that are not in the scene: the overlay skips
// them, the same as elements that have not been mounted yet. Whether the
// bound id resolves is checked by the overlay at setup.
func (s *Scene) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidScene, "viewport must have a positive size, got %gx%g", s.Width, s.Height)
	}
	seen := make(map[string]struct{}, len(s.Elements))
	for i, e := range s.Elements {
		if err := errors.ValidateElementID(e.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScene, err, "element %d", i)
		}
		if _, dup := seen[e.ID]; dup {
			return errors.New(errors.ErrCodeInvalidScene, "duplicate element id %q", e.ID)
		}
		seen[e.ID] = struct{}{}
	}
	if s.BoundID == "" {
		return errors.New(errors.ErrCodeInvalidScene, "bound element id is required")
	}
	if err := s.Relations.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidScene, err, "relations")
	}
	return nil
}

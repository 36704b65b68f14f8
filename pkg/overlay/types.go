package overlay

import (
	"github.com/matzehuels/relline/pkg/geom"
	"github.com/matzehuels/relline/pkg/relation"
)

// Element is a live, layout-bearing handle.
type Element interface {
	// Rect returns the element's current bounding box in viewport pixels.
	Rect() geom.Rect
}

// Document resolves element ids.
type Document interface {
	Resolve(id string) (Element, bool)
}

// Event is a layout-changing event kind.
type Event string

const (
	EventScroll Event = "scroll"
	EventResize Event = "resize"
)

// Target names what an event listener is attached to. The zero value is the
// window.
type Target struct {
	ElementID string
}

// Window is the window target.
var Window = Target{}

// ElementTarget returns the target for the element with the given id.
func ElementTarget(id string) Target { return Target{ElementID: id} }

// IsWindow reports whether t is the window.
func (t Target) IsWindow() bool { return t.ElementID == "" }

func (t Target) String() string {
	if t.IsWindow() {
		return "window"
	}
	return "#" + t.ElementID
}

// Events registers event handlers.
type Events interface {
	// Listen attaches handler to event on target and returns a function
	// that detaches it.
	Listen(target Target, event Event, handler func()) (unsubscribe func())
}

// Connector is one materialized connection.
type Connector struct {
	Relation relation.Relation
	Quad     geom.Quad
	Fill     string
	Stroke   string
}

// Renderer materializes connectors. Draw and ClearAll are called from the
// scheduler's goroutine.
type Renderer interface {
	Draw(c Connector)
	ClearAll()
}

// SkipReason explains why a relation was not drawn.
type SkipReason string

const (
	SkipMissingElement SkipReason = "missing_element"
	SkipEmptyRect      SkipReason = "empty_rect"
	SkipOutOfScope     SkipReason = "out_of_scope"
	SkipDegenerate     SkipReason = "degenerate"
)

// Stats summarizes one draw pass.
type Stats struct {
	Drawn   int
	Skipped int
	Reasons map[SkipReason]int
}

func (s *Stats) skip(reason SkipReason) {
	s.Skipped++
	if s.Reasons == nil {
		s.Reasons = make(map[SkipReason]int)
	}
	s.Reasons[reason]++
}

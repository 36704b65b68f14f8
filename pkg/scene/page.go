package scene

import (
	"sync"

	"github.com/matzehuels/relline/pkg/geom"
	"github.com/matzehuels/relline/pkg/overlay"
)

// Page is a live scene. It is safe for concurrent use; event handlers run
// on the goroutine that triggered the event, after the page lock is
// released.
type Page struct {
	mu        sync.RWMutex
	width     float64
	height    float64
	scrollX   float64
	scrollY   float64
	elements  map[string]Element
	order     []string
	listeners map[listenerKey][]*listener
}

type listenerKey struct {
	target overlay.Target
	event  overlay.Event
}

type listener struct {
	handler func()
	once    sync.Once
}

// NewPage returns a live page initialized from s.
func NewPage(s Scene) *Page {
	p := &Page{
		width:     s.Width,
		height:    s.Height,
		scrollX:   s.ScrollX,
		scrollY:   s.ScrollY,
		elements:  make(map[string]Element, len(s.Elements)),
		listeners: make(map[listenerKey][]*listener),
	}
	for _, e := range s.Elements {
		if _, dup := p.elements[e.ID]; !dup {
			p.order = append(p.order, e.ID)
		}
		p.elements[e.ID] = e
	}
	return p
}

// handle is the overlay.Element for one page element. It reads the page on
// every call so callers always see the current layout.
type handle struct {
	p  *Page
	id string
}

// Rect returns the element's viewport rectangle, or an empty rect if the
// element has been removed.
func (h handle) Rect() geom.Rect {
	h.p.mu.RLock()
	defer h.p.mu.RUnlock()
	e, ok := h.p.elements[h.id]
	if !ok {
		return geom.Rect{}
	}
	return h.p.viewportRectLocked(e)
}

func (p *Page) viewportRectLocked(e Element) geom.Rect {
	if e.Fixed {
		return e.Rect()
	}
	return e.Rect().Translate(-p.scrollX, -p.scrollY)
}

// Resolve implements overlay.Document.
func (p *Page) Resolve(id string) (overlay.Element, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if _, ok := p.elements[id]; !ok {
		return nil, false
	}
	return handle{p: p, id: id}, true
}

// Listen implements overlay.Events. The returned function detaches the
// handler; calling it more than once has no further effect.
func (p *Page) Listen(target overlay.Target, event overlay.Event, handler func()) func() {
	l := &listener{handler: handler}
	key := listenerKey{target: target, event: event}

	p.mu.Lock()
	p.listeners[key] = append(p.listeners[key], l)
	p.mu.Unlock()

	return func() {
		l.once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			ls := p.listeners[key]
			for i, x := range ls {
				if x == l {
					p.listeners[key] = append(ls[:i:i], ls[i+1:]...)
					break
				}
			}
			if len(p.listeners[key]) == 0 {
				delete(p.listeners, key)
			}
		})
	}
}

// ListenerCount returns the number of attached handlers.
func (p *Page) ListenerCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	n := 0
	for _, ls := range p.listeners {
		n += len(ls)
	}
	return n
}

func (p *Page) fire(target overlay.Target, event overlay.Event) {
	p.mu.RLock()
	ls := append([]*listener(nil), p.listeners[listenerKey{target: target, event: event}]...)
	p.mu.RUnlock()

	for _, l := range ls {
		l.handler()
	}
}

// ScrollTo sets the window scroll offset and fires a window scroll event.
func (p *Page) ScrollTo(x, y float64) {
	p.mu.Lock()
	p.scrollX, p.scrollY = x, y
	p.mu.Unlock()
	p.fire(overlay.Window, overlay.EventScroll)
}

// ScrollBy moves the window scroll offset and fires a window scroll event.
func (p *Page) ScrollBy(dx, dy float64) {
	p.mu.Lock()
	p.scrollX += dx
	p.scrollY += dy
	p.mu.Unlock()
	p.fire(overlay.Window, overlay.EventScroll)
}

// Scroll returns the window scroll offset.
func (p *Page) Scroll() geom.Point {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return geom.Pt(p.scrollX, p.scrollY)
}

// ScrollElement fires a scroll event on the element with the given id, as a
// scrollable container would. Element positions are not changed.
func (p *Page) ScrollElement(id string) {
	p.fire(overlay.ElementTarget(id), overlay.EventScroll)
}

// Resize changes the viewport size and fires a window resize event.
func (p *Page) Resize(width, height float64) {
	p.mu.Lock()
	p.width, p.height = width, height
	p.mu.Unlock()
	p.fire(overlay.Window, overlay.EventResize)
}

// Viewport returns the viewport rectangle, anchored at the origin.
func (p *Page) Viewport() geom.Rect {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return geom.R(0, 0, p.width, p.height)
}

// Put adds or replaces an element. No event fires; layout changes that are
// not scrolls or resizes are picked up on the next refresh.
func (p *Page) Put(e Element) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.elements[e.ID]; !ok {
		p.order = append(p.order, e.ID)
	}
	p.elements[e.ID] = e
}

// Remove unmounts the element with the given id.
func (p *Page) Remove(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.elements[id]; !ok {
		return
	}
	delete(p.elements, id)
	for i, x := range p.order {
		if x == id {
			p.order = append(p.order[:i:i], p.order[i+1:]...)
			break
		}
	}
}

// Placed is an element with its current viewport rectangle.
type Placed struct {
	Element
	View geom.Rect
}

// Elements returns every element with its viewport rectangle, in insertion
// order.
func (p *Page) Elements() []Placed {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Placed, 0, len(p.order))
	for _, id := range p.order {
		e := p.elements[id]
		out = append(out, Placed{Element: e, View: p.viewportRectLocked(e)})
	}
	return out
}

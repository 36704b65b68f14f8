package sink

import (
	"sync"

	"github.com/matzehuels/relline/pkg/geom"
	"github.com/matzehuels/relline/pkg/overlay"
	"github.com/matzehuels/relline/pkg/scene"
)

// Collector records the connectors of the current draw pass. It implements
// overlay.Renderer and is safe for concurrent use.
type Collector struct {
	mu         sync.Mutex
	connectors []overlay.Connector
	onChange   func()
}

// NewCollector returns an empty collector. If onChange is given it is called
// after every Draw and ClearAll, outside the collector's lock.
func NewCollector(onChange ...func()) *Collector {
	c := &Collector{}
	if len(onChange) > 0 {
		c.onChange = onChange[0]
	}
	return c
}

// Draw implements overlay.Renderer.
func (c *Collector) Draw(conn overlay.Connector) {
	c.mu.Lock()
	c.connectors = append(c.connectors, conn)
	c.mu.Unlock()
	c.changed()
}

// ClearAll implements overlay.Renderer.
func (c *Collector) ClearAll() {
	c.mu.Lock()
	c.connectors = nil
	c.mu.Unlock()
	c.changed()
}

func (c *Collector) changed() {
	if c.onChange != nil {
		c.onChange()
	}
}

// Connectors returns a snapshot of the drawn connectors in draw order.
func (c *Collector) Connectors() []overlay.Connector {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]overlay.Connector(nil), c.connectors...)
}

// Len returns the number of drawn connectors.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.connectors)
}

// Frame is the drawing surface around the connectors.
type Frame struct {
	Width    float64
	Height   float64
	Elements []scene.Placed
	BoundID  string
}

// FrameOf builds a frame from a live page. Element outlines are included
// only when outlines is true.
func FrameOf(p *scene.Page, boundID string, outlines bool) Frame {
	vp := p.Viewport()
	f := Frame{Width: vp.Width, Height: vp.Height, BoundID: boundID}
	if outlines {
		f.Elements = p.Elements()
	}
	return f
}

func (f Frame) viewport() geom.Rect { return geom.R(0, 0, f.Width, f.Height) }

package overlay

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/relline/pkg/errors"
	"github.com/matzehuels/relline/pkg/geom"
	"github.com/matzehuels/relline/pkg/observability"
	"github.com/matzehuels/relline/pkg/refresh"
	"github.com/matzehuels/relline/pkg/relation"
)

const (
	// DefaultStroke outlines every connector polygon.
	DefaultStroke = "#dee2e6"

	// DefaultFill is used for relations without a color. It matches the SVG
	// default fill.
	DefaultFill = "#000000"
)

// Option configures an Overlay.
type Option func(*Overlay)

// WithDelay sets the refresh settle delay.
func WithDelay(d time.Duration) Option { return func(o *Overlay) { o.delay = d } }

// WithClock replaces the clock driving the settle delay.
func WithClock(c refresh.Clock) Option { return func(o *Overlay) { o.clock = c } }

// WithLogger sets the logger. Skips and pass summaries are logged at debug.
func WithLogger(l *log.Logger) Option { return func(o *Overlay) { o.logger = l } }

// WithStrokeColor sets the outline color of every connector.
func WithStrokeColor(c string) Option { return func(o *Overlay) { o.stroke = c } }

// WithDefaultColor sets the fill for relations that carry no color.
func WithDefaultColor(c string) Option { return func(o *Overlay) { o.fill = c } }

// Overlay draws connectors for a relation list inside a bounding element.
//
// It is safe for concurrent use. Draw passes run on the scheduler's
// goroutine; the relation list and bound are read under a lock at the start
// of each pass.
type Overlay struct {
	doc      Document
	events   Events
	renderer Renderer

	delay  time.Duration
	clock  refresh.Clock
	logger *log.Logger
	stroke string
	fill   string

	sched *refresh.Scheduler

	mu          sync.Mutex
	relations   relation.List
	boundID     string
	bound       Element
	initialized bool
	closed      bool
	subs        []func()
	boundSub    func()
	last        Stats
}

// New returns an overlay over doc that listens on events and draws into
// renderer. Nothing is subscribed or drawn until Init.
func New(doc Document, events Events, renderer Renderer, opts ...Option) *Overlay {
	o := &Overlay{
		doc:      doc,
		events:   events,
		renderer: renderer,
		clock:    refresh.SystemClock{},
		logger:   log.Default(),
		stroke:   DefaultStroke,
		fill:     DefaultFill,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.sched = refresh.New(o.delay, o.renderer.ClearAll, func() { o.DrawPass() }, refresh.WithClock(o.clock))
	return o
}

// Delay returns the settle delay in effect.
func (o *Overlay) Delay() time.Duration { return o.sched.Delay() }

// SetRelations replaces the relation list. Once initialized, it requests a
// refresh.
func (o *Overlay) SetRelations(list relation.List) {
	o.mu.Lock()
	o.relations = list.Clone()
	request := o.initialized && !o.closed
	o.mu.Unlock()

	if request {
		o.RequestRefresh()
	}
}

// Relations returns a copy of the current relation list.
func (o *Overlay) Relations() relation.List {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.relations.Clone()
}

// SetBoundID sets the id of the bounding element. Before Init it only
// records the id. Afterwards it resolves the new bound, moves the bound's
// scroll listener and requests a refresh; if the id does not resolve it
// returns a BOUND_NOT_FOUND error and keeps the previous bound.
func (o *Overlay) SetBoundID(id string) error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return errors.New(errors.ErrCodeClosed, "overlay is closed")
	}
	if !o.initialized {
		o.boundID = id
		o.mu.Unlock()
		return nil
	}
	bound, err := o.resolveBound(id)
	if err != nil {
		o.mu.Unlock()
		return err
	}
	oldSub := o.boundSub
	o.boundID = id
	o.bound = bound
	o.boundSub = o.events.Listen(ElementTarget(id), EventScroll, o.RequestRefresh)
	o.mu.Unlock()

	if oldSub != nil {
		oldSub()
	}
	o.RequestRefresh()
	return nil
}

// BoundID returns the id of the bounding element.
func (o *Overlay) BoundID() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.boundID
}

// Init resolves the bounding element, subscribes to window scroll, window
// resize and bound scroll, and requests the first refresh. A bound id that
// does not resolve is a configuration error: Init returns BOUND_NOT_FOUND
// and subscribes nothing. Calling Init again is a no-op.
func (o *Overlay) Init() error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return errors.New(errors.ErrCodeClosed, "overlay is closed")
	}
	if o.initialized {
		o.mu.Unlock()
		return nil
	}
	bound, err := o.resolveBound(o.boundID)
	if err != nil {
		o.mu.Unlock()
		return err
	}
	o.bound = bound
	o.subs = append(o.subs,
		o.events.Listen(Window, EventScroll, o.RequestRefresh),
		o.events.Listen(Window, EventResize, o.RequestRefresh),
	)
	o.boundSub = o.events.Listen(ElementTarget(o.boundID), EventScroll, o.RequestRefresh)
	o.initialized = true
	o.mu.Unlock()

	o.logger.Debugf("Overlay bound to #%s (%s settle delay)", o.boundID, o.sched.Delay())
	o.RequestRefresh()
	return nil
}

func (o *Overlay) resolveBound(id string) (Element, error) {
	if id == "" {
		return nil, errors.New(errors.ErrCodeBoundNotFound, "bounding element id is empty")
	}
	el, ok := o.doc.Resolve(id)
	if !ok || el == nil {
		return nil, errors.New(errors.ErrCodeBoundNotFound, "bounding element %q could not be found", id)
	}
	return el, nil
}

// RequestRefresh clears all connectors and schedules a draw pass after the
// settle delay, superseding any pending one. It does nothing after Close.
func (o *Overlay) RequestRefresh() {
	if o.sched.Request() {
		observability.Overlay().OnRefreshRequested()
	}
}

// Pending reports whether a draw pass is scheduled.
func (o *Overlay) Pending() bool { return o.sched.Pending() }

// Flush runs a scheduled draw pass now instead of waiting for the settle
// delay. It reports whether a pass ran.
func (o *Overlay) Flush() bool { return o.sched.Flush() }

// DrawPass draws every relation that resolves, fits the bound and yields a
// renderable quad. It never fails; skipped relations are counted in the
// returned stats. The scheduler calls it once a refresh settles; callers may
// also call it directly for a synchronous render.
func (o *Overlay) DrawPass() Stats {
	start := time.Now()

	o.mu.Lock()
	relations := o.relations
	bound := o.bound
	o.mu.Unlock()

	var stats Stats
	for _, r := range relations {
		reason, ok := o.drawOne(r, bound)
		if !ok {
			stats.skip(reason)
			o.logger.Debugf("Skipped %s: %s", r, reason)
			observability.Overlay().OnSkip(r.StartID, r.EndID, string(reason))
			continue
		}
		stats.Drawn++
	}

	elapsed := time.Since(start)
	if len(relations) > 0 {
		o.logger.Debugf("Drew %d of %d connectors (%s)", stats.Drawn, len(relations), elapsed.Round(time.Microsecond))
	}
	observability.Overlay().OnDrawPass(stats.Drawn, stats.Skipped, elapsed)

	o.mu.Lock()
	o.last = stats
	o.mu.Unlock()
	return stats
}

func (o *Overlay) drawOne(r relation.Relation, bound Element) (SkipReason, bool) {
	startEl, okS := o.doc.Resolve(r.StartID)
	endEl, okE := o.doc.Resolve(r.EndID)
	if !okS || !okE || startEl == nil || endEl == nil {
		return SkipMissingElement, false
	}

	startRect, endRect := startEl.Rect(), endEl.Rect()
	if startRect.Empty() || endRect.Empty() {
		return SkipEmptyRect, false
	}

	var boundRect *geom.Rect
	if bound != nil {
		br := bound.Rect()
		boundRect = &br
	}
	if !geom.InScope(&startRect, &endRect, boundRect) {
		return SkipOutOfScope, false
	}

	q := geom.Connect(startRect, endRect)
	if !q.Renderable() {
		return SkipDegenerate, false
	}

	fill := r.Color
	if fill == "" {
		fill = o.fill
	}
	o.renderer.Draw(Connector{Relation: r, Quad: q, Fill: fill, Stroke: o.stroke})
	return "", true
}

// LastStats returns the stats of the most recent draw pass.
func (o *Overlay) LastStats() Stats {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.last
}

// Close cancels any pending draw pass and unregisters every listener, each
// exactly once. It is idempotent.
func (o *Overlay) Close() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	subs := o.subs
	if o.boundSub != nil {
		subs = append(subs, o.boundSub)
	}
	o.subs = nil
	o.boundSub = nil
	o.mu.Unlock()

	o.sched.Close()
	for _, unsubscribe := range subs {
		if unsubscribe != nil {
			unsubscribe()
		}
	}
}

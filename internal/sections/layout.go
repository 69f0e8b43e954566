package sections

import (
	"maps"
	"slices"
)

// LayoutOption configures a Layout.
type LayoutOption func(*Layout)

// WithThreshold sets the minimum fraction of a region that has to be
// inside the band for it to count as intersecting. Zero means any overlap.
func WithThreshold(ratio float64) LayoutOption {
	return func(l *Layout) { l.threshold = ratio }
}

// Layout is a Host that compares region bounds with the scroll position.
// Hosts without a native visibility primitive (a terminal, a server that
// only receives scroll reports) place regions and report scrolling here.
//
// Like the tracker, a Layout is confined to a single goroutine.
type Layout struct {
	threshold   float64
	regions     map[string]Rect
	viewport    Viewport
	hasViewport bool
	observers   []*layoutObserver
}

// NewLayout returns an empty layout.
func NewLayout(opts ...LayoutOption) *Layout {
	l := &Layout{regions: make(map[string]Rect)}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Place renders or moves a region.
func (l *Layout) Place(id string, r Rect) {
	l.regions[id] = r
	l.Flush()
}

// PlaceAll renders or moves several regions and flushes once, so observers
// never see a half-applied layout.
func (l *Layout) PlaceAll(regions map[string]Rect) {
	maps.Copy(l.regions, regions)
	l.Flush()
}

// Remove drops a region. Observers stop watching it.
func (l *Layout) Remove(id string) {
	delete(l.regions, id)
	for _, o := range l.observers {
		o.forget(id)
	}
}

// Has reports whether a region is rendered.
func (l *Layout) Has(id string) bool {
	_, ok := l.regions[id]
	return ok
}

// Region returns a region's bounds.
func (l *Layout) Region(id string) (Rect, bool) {
	r, ok := l.regions[id]
	return r, ok
}

// Viewport returns the last reported viewport.
func (l *Layout) Viewport() (Viewport, bool) {
	return l.viewport, l.hasViewport
}

// Scroll records a new viewport and notifies observers.
func (l *Layout) Scroll(v Viewport) {
	l.viewport = v
	l.hasViewport = true
	l.Flush()
}

// Flush delivers pending notifications: the first report for newly
// observed regions, and every intersecting-state change since the last
// flush. Nothing is delivered before the first Scroll.
func (l *Layout) Flush() {
	if !l.hasViewport {
		return
	}
	for _, o := range slices.Clone(l.observers) {
		if !o.connected {
			continue
		}
		if batch := o.collect(); len(batch) > 0 {
			o.fn(batch)
		}
	}
}

// NewObserver implements Host.
func (l *Layout) NewObserver(band Band, fn func([]Entry)) Observer {
	o := &layoutObserver{
		layout:    l,
		band:      band,
		fn:        fn,
		reported:  make(map[string]bool),
		connected: true,
	}
	l.observers = append(l.observers, o)
	return o
}

type layoutObserver struct {
	layout    *Layout
	band      Band
	fn        func([]Entry)
	targets   []string
	reported  map[string]bool
	connected bool
}

func (o *layoutObserver) Observe(id string) bool {
	if !o.connected || !o.layout.Has(id) {
		return false
	}
	if !slices.Contains(o.targets, id) {
		o.targets = append(o.targets, id)
	}
	return true
}

func (o *layoutObserver) Disconnect() {
	if !o.connected {
		return
	}
	o.connected = false
	o.targets = nil
	l := o.layout
	l.observers = slices.DeleteFunc(l.observers, func(x *layoutObserver) bool { return x == o })
}

func (o *layoutObserver) forget(id string) {
	o.targets = slices.DeleteFunc(o.targets, func(t string) bool { return t == id })
	delete(o.reported, id)
}

func (o *layoutObserver) collect() []Entry {
	var batch []Entry
	for _, id := range o.targets {
		r, ok := o.layout.regions[id]
		if !ok {
			continue
		}
		overlap, ratio := o.band.Intersect(r, o.layout.viewport)
		in := overlap > 0 && ratio >= o.layout.threshold
		if prev, seen := o.reported[id]; seen && prev == in {
			continue
		}
		o.reported[id] = in
		batch = append(batch, Entry{ID: id, Intersecting: in, Ratio: ratio})
	}
	return batch
}

package sections

// Entry is one visibility notification for a region.
type Entry struct {
	ID           string
	Intersecting bool
	Ratio        float64
}

// Host is the environment's visibility primitive.
type Host interface {
	// NewObserver returns an observer that delivers batches of entries to
	// fn whenever an observed region crosses the band.
	NewObserver(band Band, fn func([]Entry)) Observer
}

// Observer watches a set of regions for band crossings.
type Observer interface {
	// Observe starts watching the region named id. It reports false when
	// no such region is rendered.
	Observe(id string) bool
	// Disconnect stops watching every region.
	Disconnect()
}

// Policy picks the winner when several regions intersect in one batch.
type Policy int

const (
	// LastDelivered applies entries in host order, so the last
	// intersecting entry of a batch wins.
	LastDelivered Policy = iota
	// Topmost picks the intersecting entry earliest in document order.
	Topmost
)

// Option configures a Tracker.
type Option func(*Tracker)

// WithBand overrides DefaultBand.
func WithBand(b Band) Option {
	return func(t *Tracker) { t.band = b }
}

// WithPolicy sets the tie-break policy.
func WithPolicy(p Policy) Option {
	return func(t *Tracker) { t.policy = p }
}

// WithOnChange registers fn to be called whenever the active id changes.
func WithOnChange(fn func(string)) Option {
	return func(t *Tracker) { t.onChange = fn }
}

// Tracker reports the current section. Like the typewriter driver it is
// confined to one goroutine; Hosts must deliver batches on it.
type Tracker struct {
	reg      *Registry
	host     Host
	band     Band
	policy   Policy
	onChange func(string)

	active   string
	observer Observer
	observed []string
	skipped  []string
	gen      uint64
	running  bool
}

// NewTracker returns a stopped tracker whose active section is the first
// registered one.
func NewTracker(reg *Registry, host Host, opts ...Option) *Tracker {
	t := &Tracker{
		reg:    reg,
		host:   host,
		band:   DefaultBand,
		active: reg.First(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start observes every registered region that is rendered right now.
// Regions that are missing are skipped and never retried.
func (t *Tracker) Start() {
	if t.running {
		return
	}
	t.running = true
	t.gen++
	gen := t.gen
	t.observed = t.observed[:0]
	t.skipped = t.skipped[:0]

	t.observer = t.host.NewObserver(t.band, func(entries []Entry) {
		t.handle(gen, entries)
	})
	for _, id := range t.reg.ids {
		if t.observer.Observe(id) {
			t.observed = append(t.observed, id)
		} else {
			t.skipped = append(t.skipped, id)
		}
	}
}

// Stop disconnects the observer. Batches delivered afterwards are dropped.
func (t *Tracker) Stop() {
	if !t.running {
		return
	}
	t.running = false
	t.gen++
	t.observer.Disconnect()
	t.observer = nil
}

// Active returns the current section id.
func (t *Tracker) Active() string {
	return t.active
}

// Running reports whether the tracker is observing.
func (t *Tracker) Running() bool {
	return t.running
}

// Observed returns the regions watched by the last Start.
func (t *Tracker) Observed() []string {
	return append([]string(nil), t.observed...)
}

// Skipped returns the regions that were missing at the last Start.
func (t *Tracker) Skipped() []string {
	return append([]string(nil), t.skipped...)
}

func (t *Tracker) handle(gen uint64, entries []Entry) {
	if !t.running || gen != t.gen {
		return
	}
	next := t.active
	best := -1
	for _, e := range entries {
		if !e.Intersecting {
			continue
		}
		idx, ok := t.reg.Index(e.ID)
		if !ok {
			continue
		}
		switch t.policy {
		case Topmost:
			if best == -1 || idx < best {
				best = idx
				next = e.ID
			}
		default:
			next = e.ID
		}
	}
	if next == t.active {
		return
	}
	t.active = next
	if t.onChange != nil {
		t.onChange(next)
	}
}

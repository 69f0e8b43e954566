// Package typewriter cycles through phrases one character at a time,
// typing each out, holding it, deleting it, and moving to the next.
package typewriter

import (
	"errors"
	"fmt"
	"time"

	"github.com/Zachkp/portfolio/internal/clock"
)

var (
	// ErrNoPhrases is returned when the phrase list is empty.
	ErrNoPhrases = errors.New("typewriter: no phrases")

	// ErrInvalidInterval is returned when the typing interval is not positive.
	ErrInvalidInterval = errors.New("typewriter: typing interval must be positive")

	// ErrInvalidPause is returned when the pause is negative.
	ErrInvalidPause = errors.New("typewriter: pause must not be negative")
)

// Phase is the direction the driver is moving in.
type Phase int

const (
	// Growing adds one character per interval.
	Growing Phase = iota
	// Pausing holds the full phrase for the pause duration.
	Pausing
	// Shrinking removes one character per half interval.
	Shrinking
)

func (p Phase) String() string {
	switch p {
	case Growing:
		return "growing"
	case Pausing:
		return "pausing"
	case Shrinking:
		return "shrinking"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Config configures a Driver.
type Config struct {
	Phrases  []string
	Interval time.Duration
	Pause    time.Duration
}

// Validate checks the config.
func (c Config) Validate() error {
	if len(c.Phrases) == 0 {
		return ErrNoPhrases
	}
	if c.Interval <= 0 {
		return ErrInvalidInterval
	}
	if c.Pause < 0 {
		return ErrInvalidPause
	}
	return nil
}

// State is a snapshot of the driver.
type State struct {
	Index int
	Shown int
	Phase Phase
}

// next is the single transition taken when the pending tick fires.
func (s State) next(phrases [][]rune) State {
	switch s.Phase {
	case Growing:
		if s.Shown < len(phrases[s.Index]) {
			s.Shown++
		}
		if s.Shown == len(phrases[s.Index]) {
			s.Phase = Pausing
		}
	case Pausing:
		s.Phase = Shrinking
		if len(phrases[s.Index]) == 0 {
			// nothing to delete
			s.Index = (s.Index + 1) % len(phrases)
			s.Phase = Growing
		}
	case Shrinking:
		if s.Shown > 0 {
			s.Shown--
		}
		if s.Shown == 0 {
			s.Index = (s.Index + 1) % len(phrases)
			s.Phase = Growing
		}
	}
	return s
}

// Driver animates a phrase list. It is not safe for concurrent use: all
// calls, and all scheduler callbacks, must happen on one goroutine, which
// is what clock.Loop and clock.Fake provide.
type Driver struct {
	phrases  [][]rune
	interval time.Duration
	pause    time.Duration
	sched    clock.Scheduler
	onChange func(string)

	state   State
	timer   clock.Timer
	gen     uint64
	running bool
}

// New returns a stopped driver showing the empty prefix of the first phrase.
// onChange may be nil.
func New(cfg Config, sched clock.Scheduler, onChange func(string)) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	phrases := make([][]rune, len(cfg.Phrases))
	for i, p := range cfg.Phrases {
		phrases[i] = []rune(p)
	}
	return &Driver{
		phrases:  phrases,
		interval: cfg.Interval,
		pause:    cfg.Pause,
		sched:    sched,
		onChange: onChange,
	}, nil
}

// Start emits the current display and begins ticking. Calling Start on a
// running driver does nothing.
func (d *Driver) Start() {
	if d.running {
		return
	}
	d.running = true
	d.emit()
	if d.running {
		d.schedule()
	}
}

// Stop cancels the pending tick. Ticks already handed to the scheduler's
// queue are ignored when they arrive.
func (d *Driver) Stop() {
	if !d.running {
		return
	}
	d.running = false
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Running reports whether the driver is ticking.
func (d *Driver) Running() bool {
	return d.running
}

// State returns the current state.
func (d *Driver) State() State {
	return d.state
}

// Display returns the visible prefix of the active phrase.
func (d *Driver) Display() string {
	return string(d.phrases[d.state.Index][:d.state.Shown])
}

// Phrase returns the active phrase in full.
func (d *Driver) Phrase() string {
	return string(d.phrases[d.state.Index])
}

func (d *Driver) delay() time.Duration {
	switch d.state.Phase {
	case Pausing:
		return d.pause
	case Shrinking:
		return d.interval / 2
	default:
		return d.interval
	}
}

func (d *Driver) schedule() {
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = d.sched.AfterFunc(d.delay(), func() {
		d.tick(gen)
	})
}

func (d *Driver) tick(gen uint64) {
	if !d.running || gen != d.gen {
		return
	}
	d.timer = nil
	d.state = d.state.next(d.phrases)
	d.emit()
	if d.running {
		d.schedule()
	}
}

func (d *Driver) emit() {
	if d.onChange != nil {
		d.onChange(d.Display())
	}
}

// Package shell holds the page's view state: the typewriter text, the
// active section, and the small flags the navigation and footer read.
package shell

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Zachkp/portfolio/internal/clock"
	"github.com/Zachkp/portfolio/internal/sections"
	"github.com/Zachkp/portfolio/internal/typewriter"
)

// Default timings and thresholds.
const (
	DefaultCopyResetAfter  = 2500 * time.Millisecond
	DefaultScrollThreshold = 50
)

// ErrClipboardDenied is returned by a Clipboard when the host refuses the write.
var ErrClipboardDenied = errors.New("shell: clipboard write denied")

// ErrNotMounted is returned by CopyEmail before Mount or after Unmount.
var ErrNotMounted = errors.New("shell: not mounted")

// Clipboard writes text to the system clipboard.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// ClipboardFunc adapts a function to Clipboard.
type ClipboardFunc func(ctx context.Context, text string) error

// WriteText calls f.
func (f ClipboardFunc) WriteText(ctx context.Context, text string) error {
	return f(ctx, text)
}

// Options configures a Shell.
type Options struct {
	Typewriter      typewriter.Config
	Sections        *sections.Registry
	Band            sections.Band
	Policy          sections.Policy
	Email           string
	CopyResetAfter  time.Duration
	ScrollThreshold float64
}

// View is a read-only snapshot handed to renderers.
type View struct {
	Typed    string `json:"typed"`
	Active   string `json:"active"`
	MenuOpen bool   `json:"menuOpen"`
	Scrolled bool   `json:"scrolled"`
	Copied   bool   `json:"copied"`
}

// Shell owns both drivers and the transient flags. It is confined to the
// scheduler's goroutine, like the drivers it owns.
type Shell struct {
	opts    Options
	sched   clock.Scheduler
	typer   *typewriter.Driver
	tracker *sections.Tracker

	typed     string
	menuOpen  bool
	scrolled  bool
	copied    bool
	copyTimer clock.Timer
	copyGen   uint64
	mounted   bool

	listeners []func(View)
}

// New builds an unmounted shell.
func New(opts Options, sched clock.Scheduler, host sections.Host) (*Shell, error) {
	if opts.Sections == nil {
		return nil, sections.ErrNoSections
	}
	if opts.CopyResetAfter <= 0 {
		opts.CopyResetAfter = DefaultCopyResetAfter
	}
	if opts.ScrollThreshold <= 0 {
		opts.ScrollThreshold = DefaultScrollThreshold
	}
	if opts.Band == (sections.Band{}) {
		opts.Band = sections.DefaultBand
	}
	if !opts.Band.Valid() {
		return nil, fmt.Errorf("shell: band %+v leaves no visible strip", opts.Band)
	}

	s := &Shell{opts: opts, sched: sched}
	typer, err := typewriter.New(opts.Typewriter, sched, func(text string) {
		s.typed = text
		s.notify()
	})
	if err != nil {
		return nil, fmt.Errorf("shell: %w", err)
	}
	s.typer = typer
	s.tracker = sections.NewTracker(opts.Sections, host,
		sections.WithBand(opts.Band),
		sections.WithPolicy(opts.Policy),
		sections.WithOnChange(func(string) { s.notify() }),
	)
	return s, nil
}

// OnChange registers fn to receive a snapshot after every change.
func (s *Shell) OnChange(fn func(View)) {
	s.listeners = append(s.listeners, fn)
}

// Mount starts the typewriter and the section tracker.
func (s *Shell) Mount() {
	if s.mounted {
		return
	}
	s.mounted = true
	s.tracker.Start()
	s.typer.Start()
}

// Unmount stops both drivers and any pending copy reset. Nothing changes
// state after Unmount returns.
func (s *Shell) Unmount() {
	if !s.mounted {
		return
	}
	s.mounted = false
	s.typer.Stop()
	s.tracker.Stop()
	s.stopCopyTimer()
}

// Mounted reports whether the shell is mounted.
func (s *Shell) Mounted() bool {
	return s.mounted
}

// View returns the current snapshot.
func (s *Shell) View() View {
	return View{
		Typed:    s.typed,
		Active:   s.tracker.Active(),
		MenuOpen: s.menuOpen,
		Scrolled: s.scrolled,
		Copied:   s.copied,
	}
}

// Tracker exposes the section tracker, mostly for diagnostics.
func (s *Shell) Tracker() *sections.Tracker {
	return s.tracker
}

// Sections returns the registry the shell tracks.
func (s *Shell) Sections() *sections.Registry {
	return s.opts.Sections
}

// ToggleMenu opens or closes the mobile menu.
func (s *Shell) ToggleMenu() {
	s.menuOpen = !s.menuOpen
	s.notify()
}

// Navigate handles a click on a navigation entry: the menu closes and the
// browser follows the anchor. It reports whether id is a known section.
func (s *Shell) Navigate(id string) bool {
	if !s.opts.Sections.Contains(id) {
		return false
	}
	if s.menuOpen {
		s.menuOpen = false
		s.notify()
	}
	return true
}

// Scroll updates the scrolled-past-threshold flag.
func (s *Shell) Scroll(y float64) {
	scrolled := y > s.opts.ScrollThreshold
	if scrolled == s.scrolled {
		return
	}
	s.scrolled = scrolled
	s.notify()
}

// CopyEmail writes the email address to clip. On success the copied flag
// turns on and a reset timer starts, replacing any earlier one. On failure
// nothing changes; the error is only meant for logging. An unmounted shell
// returns ErrNotMounted without touching the clipboard.
func (s *Shell) CopyEmail(ctx context.Context, clip Clipboard) error {
	if !s.mounted {
		return ErrNotMounted
	}
	if err := clip.WriteText(ctx, s.opts.Email); err != nil {
		return fmt.Errorf("copy email: %w", err)
	}
	s.stopCopyTimer()
	s.copyGen++
	gen := s.copyGen
	s.copyTimer = s.sched.AfterFunc(s.opts.CopyResetAfter, func() {
		if gen != s.copyGen || !s.mounted {
			return
		}
		s.copyTimer = nil
		s.copied = false
		s.notify()
	})
	if !s.copied {
		s.copied = true
		s.notify()
	}
	return nil
}

func (s *Shell) stopCopyTimer() {
	s.copyGen++
	if s.copyTimer != nil {
		s.copyTimer.Stop()
		s.copyTimer = nil
	}
}

func (s *Shell) notify() {
	if len(s.listeners) == 0 {
		return
	}
	v := s.View()
	for _, fn := range s.listeners {
		fn(v)
	}
}

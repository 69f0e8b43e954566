package live

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Zachkp/portfolio/internal/clock"
	"github.com/Zachkp/portfolio/internal/sections"
	"github.com/Zachkp/portfolio/internal/shell"
)

// Region is the bounds of one rendered section, as measured by the browser.
type Region struct {
	ID string `json:"id"`
	sections.Rect
}

// Recorder receives analytics events. Calls happen on their own goroutine.
type Recorder interface {
	RecordSectionView(ctx context.Context, session, section string) error
	RecordCopy(ctx context.Context, session string, granted bool) error
}

// Session is one open page. Its shell and layout live on the session's
// loop; every method posts to it.
type Session struct {
	id     string
	loop   *clock.Loop
	layout *sections.Layout
	shell  *shell.Shell
	rec    Recorder

	// loop-confined
	lastActive string
	batching   bool
	dirty      bool
	pending    shell.View

	mu     sync.Mutex
	latest shell.View
	seq    uint64 // views published
	subs   map[chan shell.View]struct{}

	lastSeen atomic.Int64
	done     chan struct{}
}

func newSession(id string, opts shell.Options, rec Recorder, now time.Time) (*Session, error) {
	s := &Session{
		id:     id,
		loop:   clock.NewLoop(64),
		layout: sections.NewLayout(),
		rec:    rec,
		subs:   make(map[chan shell.View]struct{}),
		done:   make(chan struct{}),
	}
	sh, err := shell.New(opts, s.loop, s.layout)
	if err != nil {
		return nil, err
	}
	s.shell = sh
	s.latest = sh.View()
	s.lastActive = s.latest.Active
	s.lastSeen.Store(now.UnixNano())
	sh.OnChange(s.publish)

	go func() {
		defer close(s.done)
		_ = s.loop.Run(context.Background())
	}()
	return s, nil
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// Place records the rendered regions and the viewport they were measured
// in. The first call mounts the page: the tracker observes exactly the
// regions present at that moment.
func (s *Session) Place(ctx context.Context, v sections.Viewport, regions []Region) error {
	placed := make(map[string]sections.Rect, len(regions))
	for _, r := range regions {
		placed[r.ID] = r.Rect
	}
	return s.call(ctx, func() {
		s.layout.PlaceAll(placed)
		s.shell.Mount()
		s.layout.Scroll(v)
		s.shell.Scroll(v.ScrollY)
	})
}

// Scroll reports a new viewport.
func (s *Session) Scroll(ctx context.Context, v sections.Viewport) error {
	return s.call(ctx, func() {
		s.layout.Scroll(v)
		s.shell.Scroll(v.ScrollY)
	})
}

// ToggleMenu opens or closes the mobile menu.
func (s *Session) ToggleMenu(ctx context.Context) error {
	return s.call(ctx, s.shell.ToggleMenu)
}

// Navigate handles a nav click. It reports whether id is a known section.
func (s *Session) Navigate(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := s.call(ctx, func() {
		ok = s.shell.Navigate(id)
	})
	return ok, err
}

// CopyResult applies the browser's clipboard outcome. A denied write
// returns an error wrapping shell.ErrClipboardDenied and leaves the view
// alone. Before the first Place it returns shell.ErrNotMounted and nothing
// is recorded.
func (s *Session) CopyResult(ctx context.Context, granted bool) error {
	clip := shell.ClipboardFunc(func(context.Context, string) error {
		if !granted {
			return shell.ErrClipboardDenied
		}
		return nil
	})
	var copyErr error
	if err := s.call(ctx, func() {
		copyErr = s.shell.CopyEmail(ctx, clip)
	}); err != nil {
		return err
	}
	if s.rec != nil && !errors.Is(copyErr, shell.ErrNotMounted) {
		go func() {
			if err := s.rec.RecordCopy(context.Background(), s.id, granted); err != nil {
				log.Printf("Error recording copy: %v", err)
			}
		}()
	}
	return copyErr
}

// View returns the current view.
func (s *Session) View(ctx context.Context) (shell.View, error) {
	var v shell.View
	err := s.loop.Call(ctx, func() {
		v = s.shell.View()
	})
	return v, err
}

// Subscribe returns a channel that always holds the most recent view. A
// slow reader skips intermediate views. The channel is closed when the
// session closes or cancel is called.
func (s *Session) Subscribe() (<-chan shell.View, func()) {
	ch := make(chan shell.View, 1)

	s.mu.Lock()
	select {
	case <-s.done:
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	default:
	}
	ch <- s.latest
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if _, ok := s.subs[ch]; ok {
				delete(s.subs, ch)
				close(ch)
			}
		})
	}
}

// Subscribers returns the number of open subscriptions.
func (s *Session) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Touch marks the session as used at now.
func (s *Session) Touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

// LastSeen returns when the session was last used.
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// Done is closed once the session has shut down.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// close unmounts the shell, stops the loop and ends every subscription.
func (s *Session) close() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.loop.Call(ctx, s.shell.Unmount); err != nil && !errors.Is(err, clock.ErrLoopClosed) {
		log.Printf("Error unmounting session %s: %v", s.id, err)
	}
	s.loop.Close()
	<-s.done

	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subs {
		close(ch)
	}
	clear(s.subs)
}

// call runs f on the loop as one batch: the view it leaves behind is
// published once, after f returns.
func (s *Session) call(ctx context.Context, f func()) error {
	return s.loop.Call(ctx, func() {
		s.batching = true
		f()
		s.batching = false
		if s.dirty {
			s.dirty = false
			s.flush(s.pending)
		}
	})
}

// publish runs on the loop after every view change. Inside a batch it only
// keeps the newest view; timer ticks publish straight away.
func (s *Session) publish(v shell.View) {
	if s.batching {
		s.dirty = true
		s.pending = v
		return
	}
	s.flush(v)
}

func (s *Session) flush(v shell.View) {
	if v.Active != s.lastActive {
		s.lastActive = v.Active
		if s.rec != nil {
			id, section := s.id, v.Active
			go func() {
				if err := s.rec.RecordSectionView(context.Background(), id, section); err != nil {
					log.Printf("Error recording section view: %v", err)
				}
			}()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = v
	s.seq++
	for ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- v
	}
}

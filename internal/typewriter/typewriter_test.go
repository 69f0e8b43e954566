package typewriter

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio/internal/clock"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func newDriver(t *testing.T, phrases []string, interval, pause time.Duration) (*Driver, *clock.Fake, *[]string) {
	t.Helper()

	c := clock.NewFake(epoch)
	var seen []string
	d, err := New(Config{Phrases: phrases, Interval: interval, Pause: pause}, c, func(s string) {
		seen = append(seen, s)
	})
	require.NoError(t, err)
	return d, c, &seen
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"no phrases", Config{Interval: time.Millisecond}, ErrNoPhrases},
		{"zero interval", Config{Phrases: []string{"a"}}, ErrInvalidInterval},
		{"negative pause", Config{Phrases: []string{"a"}, Interval: time.Millisecond, Pause: -1}, ErrInvalidPause},
		{"valid", Config{Phrases: []string{"a"}, Interval: time.Millisecond}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.cfg.Validate()
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.want)

			_, err = New(tt.cfg, clock.NewFake(epoch), nil)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDriverDisplayIsAlwaysAPrefix(t *testing.T) {
	t.Parallel()

	phrases := []string{"Architecting scalable cloud solutions.", "", "héllo wörld", "x"}
	c := clock.NewFake(epoch)
	var d *Driver
	d, err := New(Config{Phrases: phrases, Interval: 50 * time.Millisecond, Pause: 2500 * time.Millisecond}, c, func(s string) {
		active := phrases[d.State().Index]
		require.True(t, strings.HasPrefix(active, s), "%q is not a prefix of %q", s, active)
		require.LessOrEqual(t, len([]rune(s)), len([]rune(active)))
		require.GreaterOrEqual(t, d.State().Shown, 0)
		require.LessOrEqual(t, d.State().Shown, len([]rune(active)))
	})
	require.NoError(t, err)

	d.Start()
	for range 5000 {
		c.Advance(25 * time.Millisecond)
	}
}

func TestDriverCyclesBackToFirstPhrase(t *testing.T) {
	t.Parallel()

	phrases := []string{"A", "BB"}
	d, c, seen := newDriver(t, phrases, 60*time.Millisecond, 2000*time.Millisecond)
	d.Start()
	c.Advance(time.Minute)

	var full []string
	for i, s := range *seen {
		// a full phrase is reported once when typed and again when the pause ends
		if (s == "A" || s == "BB") && (i == 0 || (*seen)[i-1] != s) {
			full = append(full, s)
		}
	}
	require.GreaterOrEqual(t, len(full), 10)
	for i, s := range full {
		require.Equal(t, phrases[i%2], s, "full phrase #%d", i)
	}
}

func TestDriverCycleTiming(t *testing.T) {
	t.Parallel()

	// 3 chars at 60ms, a 2000ms hold, 3 deletions at 30ms
	d, c, _ := newDriver(t, []string{"abc", "z"}, 60*time.Millisecond, 2000*time.Millisecond)
	d.Start()

	c.Advance(180 * time.Millisecond)
	require.Equal(t, "abc", d.Display())
	require.Equal(t, Pausing, d.State().Phase)

	c.Advance(2000 * time.Millisecond)
	require.Equal(t, Shrinking, d.State().Phase)
	require.Equal(t, "abc", d.Display())

	c.Advance(89 * time.Millisecond)
	require.Equal(t, 0, d.State().Index)
	require.Equal(t, "a", d.Display())

	c.Advance(time.Millisecond)
	require.Equal(t, State{Index: 1, Shown: 0, Phase: Growing}, d.State())
	require.Equal(t, epoch.Add(2270*time.Millisecond), c.Now())
}

func TestDriverSinglePhraseRetypes(t *testing.T) {
	t.Parallel()

	d, c, seen := newDriver(t, []string{"hi"}, 10*time.Millisecond, 100*time.Millisecond)
	d.Start()
	c.Advance(time.Second)

	require.Equal(t, 0, d.State().Index)
	joined := strings.Join(*seen, "|")
	require.Contains(t, joined, "|h|hi|hi|h||h|hi|")
}

func TestDriverEmptyPhrase(t *testing.T) {
	t.Parallel()

	t.Run("only phrase", func(t *testing.T) {
		t.Parallel()

		d, c, _ := newDriver(t, []string{""}, 10*time.Millisecond, 100*time.Millisecond)
		d.Start()

		c.Advance(10 * time.Millisecond)
		require.Equal(t, Pausing, d.State().Phase)
		c.Advance(100 * time.Millisecond)
		require.Equal(t, State{Index: 0, Shown: 0, Phase: Growing}, d.State())
		require.Empty(t, d.Display())
	})

	t.Run("advances straight after the pause", func(t *testing.T) {
		t.Parallel()

		d, c, _ := newDriver(t, []string{"", "ab"}, 10*time.Millisecond, 100*time.Millisecond)
		d.Start()

		c.Advance(110 * time.Millisecond)
		require.Equal(t, State{Index: 1, Shown: 0, Phase: Growing}, d.State())
		c.Advance(10 * time.Millisecond)
		require.Equal(t, "a", d.Display())
	})
}

func TestDriverStop(t *testing.T) {
	t.Parallel()

	t.Run("no ticks after stop", func(t *testing.T) {
		t.Parallel()

		d, c, seen := newDriver(t, []string{"hello"}, 10*time.Millisecond, 100*time.Millisecond)
		d.Start()
		c.Advance(30 * time.Millisecond)
		before := d.State()
		n := len(*seen)

		d.Stop()
		require.False(t, d.Running())
		require.Zero(t, c.Pending())
		c.Advance(time.Minute)

		require.Equal(t, before, d.State())
		require.Len(t, *seen, n)
	})

	t.Run("stale callback is ignored", func(t *testing.T) {
		t.Parallel()

		// a scheduler that hands back timers which cannot be cancelled,
		// like a queue that already holds the callback
		s := &leakyScheduler{}
		d, err := New(Config{Phrases: []string{"hello"}, Interval: time.Millisecond}, s, nil)
		require.NoError(t, err)
		d.Start()
		require.Len(t, s.pending, 1)

		d.Stop()
		s.pending[0]()
		require.Equal(t, State{}, d.State())
	})

	t.Run("restart resumes from the current state", func(t *testing.T) {
		t.Parallel()

		d, c, _ := newDriver(t, []string{"hello"}, 10*time.Millisecond, 100*time.Millisecond)
		d.Start()
		c.Advance(20 * time.Millisecond)
		d.Stop()
		d.Start()
		d.Start()
		require.Equal(t, 1, c.Pending())

		c.Advance(10 * time.Millisecond)
		require.Equal(t, "hel", d.Display())
	})

	t.Run("stop from inside the change callback", func(t *testing.T) {
		t.Parallel()

		c := clock.NewFake(epoch)
		var d *Driver
		d, err := New(Config{Phrases: []string{"hello"}, Interval: time.Millisecond}, c, func(s string) {
			if s == "he" {
				d.Stop()
			}
		})
		require.NoError(t, err)
		d.Start()
		c.Advance(time.Second)

		require.Equal(t, "he", d.Display())
		require.Zero(t, c.Pending())
	})
}

type leakyScheduler struct {
	pending []func()
}

func (s *leakyScheduler) Now() time.Time { return epoch }

func (s *leakyScheduler) AfterFunc(_ time.Duration, f func()) clock.Timer {
	s.pending = append(s.pending, f)
	return noopTimer{}
}

type noopTimer struct{}

func (noopTimer) Stop() bool { return false }

func TestPhaseString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "growing", Growing.String())
	require.Equal(t, "pausing", Pausing.String())
	require.Equal(t, "shrinking", Shrinking.String())
	require.Equal(t, "Phase(9)", Phase(9).String())
}

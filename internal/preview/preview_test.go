package preview

import (
	"bytes"
	"context"
	"encoding/base64"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio/internal/clock"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/shell"
)

type recordingClipboard struct {
	texts []string
	err   error
}

func (c *recordingClipboard) WriteText(_ context.Context, text string) error {
	if c.err != nil {
		return c.err
	}
	c.texts = append(c.texts, text)
	return nil
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T, clip shell.Clipboard) (*Model, *clock.Fake) {
	t.Helper()
	fake := clock.NewFake(time.Unix(0, 0))
	m, err := New(content.Default(), Options{Scheduler: fake, Clipboard: clip})
	require.NoError(t, err)
	require.Nil(t, m.Init())
	return m, fake
}

func TestModel(t *testing.T) {
	t.Parallel()

	t.Run("waits for the first size", func(t *testing.T) {
		t.Parallel()

		m, fake := newTestModel(t, &recordingClipboard{})
		require.Equal(t, "loading…", m.View())
		m.Update(runes("j"))
		require.False(t, m.shell.Mounted())
		require.Zero(t, fake.Pending())

		m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
		require.True(t, m.shell.Mounted())
		require.Equal(t, "home", m.shell.View().Active)
		require.Contains(t, m.View(), "1 Home")
	})

	t.Run("types the first phrase", func(t *testing.T) {
		t.Parallel()

		m, fake := newTestModel(t, &recordingClipboard{})
		m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})

		fake.Advance(200 * time.Millisecond)
		require.Equal(t, "Arch", m.shell.View().Typed)
		require.Contains(t, m.View(), "> Arch")
	})

	t.Run("jumping highlights the section", func(t *testing.T) {
		t.Parallel()

		m, _ := newTestModel(t, &recordingClipboard{})
		m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})

		m.Update(runes("3"))
		v := m.shell.View()
		require.Equal(t, "projects", v.Active)
		require.True(t, v.Scrolled)
		require.Contains(t, m.View(), "Things I've Shipped")

		m.Update(runes("9"))
		require.Equal(t, "projects", m.shell.View().Active)

		m.Update(runes("g"))
		require.Zero(t, m.offset)
		require.Equal(t, "home", m.shell.View().Active)
		require.False(t, m.shell.View().Scrolled)

		m.Update(runes("G"))
		require.Equal(t, m.maxOffset(), m.offset)
		m.Update(tea.KeyMsg{Type: tea.KeyDown})
		require.Equal(t, m.maxOffset(), m.offset)
	})

	t.Run("menu closes on navigation", func(t *testing.T) {
		t.Parallel()

		m, _ := newTestModel(t, &recordingClipboard{})
		m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})

		m.Update(runes("m"))
		require.True(t, m.shell.View().MenuOpen)
		require.Contains(t, m.View(), "5  Achievements")

		m.Update(runes("2"))
		v := m.shell.View()
		require.False(t, v.MenuOpen)
		require.Equal(t, "experience", v.Active)
	})

	t.Run("copy shows the toast until it resets", func(t *testing.T) {
		t.Parallel()

		clip := &recordingClipboard{}
		m, fake := newTestModel(t, clip)
		m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})

		m.Update(runes("c"))
		require.Equal(t, []string{"bhandaanu123@gmail.com"}, clip.texts)
		require.True(t, m.shell.View().Copied)
		require.Contains(t, m.View(), "Email copied to clipboard!")

		fake.Advance(2499 * time.Millisecond)
		require.True(t, m.shell.View().Copied)
		fake.Advance(time.Millisecond)
		require.False(t, m.shell.View().Copied)
		require.NotContains(t, m.View(), "Email copied to clipboard!")
	})

	t.Run("denied copy reports the error", func(t *testing.T) {
		t.Parallel()

		m, _ := newTestModel(t, &recordingClipboard{err: shell.ErrClipboardDenied})
		m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})

		m.Update(runes("c"))
		require.False(t, m.shell.View().Copied)
		require.Contains(t, m.View(), "denied")
	})

	t.Run("quit unmounts", func(t *testing.T) {
		t.Parallel()

		m, fake := newTestModel(t, &recordingClipboard{})
		m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})

		_, cmd := m.Update(runes("q"))
		require.NotNil(t, cmd)
		require.IsType(t, tea.QuitMsg{}, cmd())
		require.False(t, m.shell.Mounted())

		before := m.shell.View().Typed
		fake.Advance(time.Second)
		require.Equal(t, before, m.shell.View().Typed)
	})
}

func TestRenderPage(t *testing.T) {
	t.Parallel()

	p := content.Default()
	pg := renderPage(p, 100)

	require.Len(t, pg.regions, len(p.Sections))
	next := 0
	for i, r := range pg.regions {
		require.Equal(t, p.Sections[i].ID, r.id)
		require.Equal(t, next, r.top)
		require.Positive(t, r.height)
		next = r.top + r.height
	}
	require.Greater(t, len(pg.lines), next)

	home := pg.regions[0]
	require.GreaterOrEqual(t, pg.heroRow, home.top)
	require.Less(t, pg.heroRow, home.top+home.height)
}

func TestLoopPump(t *testing.T) {
	t.Parallel()

	m, err := New(content.Default(), Options{Clipboard: &recordingClipboard{}})
	require.NoError(t, err)
	cmd := m.Init()
	require.NotNil(t, cmd)

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
	// the first tick arrives through the loop as a message
	msg := cmd()
	require.IsType(t, taskMsg(nil), msg)
	_, next := m.Update(msg)
	require.NotNil(t, next)
	require.Equal(t, "A", m.shell.View().Typed)

	m.close()
	require.Nil(t, next())
}

func TestOSC52(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, OSC52(&buf).WriteText(context.Background(), "me@example.com"))
	require.Contains(t, buf.String(), "52;c;")
	require.Contains(t, buf.String(), base64.StdEncoding.EncodeToString([]byte("me@example.com")))
}

// Package preview renders the portfolio in a terminal. Scrolling the
// body drives the same section tracker and typewriter the web page uses.
package preview

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Zachkp/portfolio/internal/clock"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/sections"
	"github.com/Zachkp/portfolio/internal/shell"
)

// DefaultScrollThreshold is the scrolled-flag threshold in rows.
const DefaultScrollThreshold = 3

// Options configures a Model.
type Options struct {
	// Scheduler runs the drivers' timers. Nil means a clock.Loop whose
	// tasks are delivered to Update as messages.
	Scheduler clock.Scheduler
	// Clipboard receives the email on copy. Nil means OSC52 on stderr.
	Clipboard       shell.Clipboard
	Policy          sections.Policy
	ScrollThreshold float64
}

// Model is the bubbletea model of the preview.
type Model struct {
	portfolio *content.Portfolio
	shell     *shell.Shell
	layout    *sections.Layout
	loop      *clock.Loop
	clip      shell.Clipboard
	keys      keyMap
	help      help.Model

	width, height int
	page          page
	offset        int
	status        string
	ready         bool
}

// taskMsg carries a timer callback from the loop into Update.
type taskMsg func()

// New builds a preview of p.
func New(p *content.Portfolio, opts Options) (*Model, error) {
	reg, err := p.Registry()
	if err != nil {
		return nil, err
	}

	m := &Model{
		portfolio: p,
		layout:    sections.NewLayout(),
		clip:      opts.Clipboard,
		keys:      defaultKeys,
		help:      help.New(),
	}
	sched := opts.Scheduler
	if sched == nil {
		m.loop = clock.NewLoop(16)
		sched = m.loop
	}
	if m.clip == nil {
		m.clip = OSC52(os.Stderr)
	}
	if opts.ScrollThreshold <= 0 {
		opts.ScrollThreshold = DefaultScrollThreshold
	}

	m.shell, err = shell.New(shell.Options{
		Typewriter:      p.Typewriter(),
		Sections:        reg,
		Policy:          opts.Policy,
		Email:           p.Profile.Email,
		ScrollThreshold: opts.ScrollThreshold,
	}, sched, m.layout)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Run shows the preview until the user quits or ctx is done.
func Run(ctx context.Context, p *content.Portfolio, opts Options) error {
	m, err := New(p, opts)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	m.close()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.waitTask()
}

func (m *Model) waitTask() tea.Cmd {
	if m.loop == nil {
		return nil
	}
	loop := m.loop
	return func() tea.Msg {
		select {
		case f := <-loop.Tasks():
			return taskMsg(f)
		case <-loop.Done():
			return nil
		}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case taskMsg:
		msg()
		return m, m.waitTask()
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.close()
		return m, tea.Quit
	case !m.ready:
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.scrollTo(m.offset + 1)
	case key.Matches(msg, m.keys.Up):
		m.scrollTo(m.offset - 1)
	case key.Matches(msg, m.keys.PageDown):
		m.scrollTo(m.offset + m.bodyHeight())
	case key.Matches(msg, m.keys.PageUp):
		m.scrollTo(m.offset - m.bodyHeight())
	case key.Matches(msg, m.keys.Top):
		m.scrollTo(0)
	case key.Matches(msg, m.keys.Bottom):
		m.scrollTo(len(m.page.lines))
	case key.Matches(msg, m.keys.Jump):
		ids := m.shell.Sections().IDs()
		n := int(msg.Runes[0] - '1')
		if n < len(ids) {
			m.jump(ids[n])
		}
	case key.Matches(msg, m.keys.Menu):
		m.shell.ToggleMenu()
	case key.Matches(msg, m.keys.Copy):
		m.status = ""
		if err := m.shell.CopyEmail(context.Background(), m.clip); err != nil {
			m.status = err.Error()
		}
	}
	return m, nil
}

// resize lays the page out again. The first call mounts the shell, so the
// tracker sees every region that rendered.
func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.help.Width = width
	m.page = renderPage(m.portfolio, width)
	placed := make(map[string]sections.Rect, len(m.page.regions))
	for _, r := range m.page.regions {
		placed[r.id] = sections.Rect{Top: float64(r.top), Height: float64(r.height)}
	}
	m.layout.PlaceAll(placed)
	if !m.ready {
		m.ready = true
		m.shell.Mount()
	}
	m.scrollTo(m.offset)
}

func (m *Model) bodyHeight() int {
	// nav bar and status line
	return max(m.height-2, 1)
}

func (m *Model) maxOffset() int {
	return max(len(m.page.lines)-m.bodyHeight(), 0)
}

func (m *Model) scrollTo(offset int) {
	m.offset = min(max(offset, 0), m.maxOffset())
	m.layout.Scroll(sections.Viewport{
		ScrollY: float64(m.offset),
		Height:  float64(m.bodyHeight()),
	})
	m.shell.Scroll(float64(m.offset))
}

// jump scrolls a section's first row to the top, like following a nav
// anchor.
func (m *Model) jump(id string) {
	if !m.shell.Navigate(id) {
		return
	}
	if r, ok := m.layout.Region(id); ok {
		m.scrollTo(int(r.Top))
	}
}

func (m *Model) close() {
	m.shell.Unmount()
	if m.loop != nil {
		m.loop.Close()
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if !m.ready {
		return "loading…"
	}
	v := m.shell.View()

	var b strings.Builder
	b.WriteString(m.navBar(v))
	b.WriteByte('\n')

	if v.MenuOpen {
		b.WriteString(m.menu(v))
	} else {
		end := min(m.offset+m.bodyHeight(), len(m.page.lines))
		for row := m.offset; row < end; row++ {
			line := m.page.lines[row]
			if row == m.page.heroRow {
				line = typedStyle.Render("> "+v.Typed) + typedStyle.Blink(true).Render("▌")
			}
			b.WriteString(line)
			b.WriteByte('\n')
		}
		for row := end - m.offset; row < m.bodyHeight(); row++ {
			b.WriteByte('\n')
		}
	}

	switch {
	case v.Copied:
		b.WriteString(toastStyle.Render("✓ " + m.portfolio.Contact.Toast))
	case m.status != "":
		b.WriteString(errorStyle.Render(m.status))
	default:
		b.WriteString(m.help.View(m.keys))
	}
	return b.String()
}

func (m *Model) navBar(v shell.View) string {
	items := []string{brandStyle.Render(m.portfolio.Profile.Initials)}
	for i, id := range m.shell.Sections().IDs() {
		label := m.label(id)
		if id == v.Active {
			items = append(items, navActive.Render(fmt.Sprintf("%d %s", i+1, label)))
		} else {
			items = append(items, navStyle.Render(fmt.Sprintf("%d %s", i+1, label)))
		}
	}
	style := navBarStyle
	if v.Scrolled {
		style = navBarScroll
	}
	return style.Width(m.width).MaxHeight(1).Render(strings.Join(items, "  "))
}

func (m *Model) menu(v shell.View) string {
	var rows []string
	for i, id := range m.shell.Sections().IDs() {
		style := menuItemStyle
		if id == v.Active {
			style = navActive
		}
		rows = append(rows, style.Render(fmt.Sprintf("%d  %s", i+1, m.label(id))))
	}
	box := menuStyle.Render(strings.Join(rows, "\n"))
	return lipgloss.Place(m.width, m.bodyHeight(), lipgloss.Center, lipgloss.Center, box) + "\n"
}

func (m *Model) label(id string) string {
	if s, ok := m.portfolio.Section(id); ok {
		return s.DisplayLabel()
	}
	return content.Label(id)
}

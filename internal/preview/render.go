package preview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Zachkp/portfolio/internal/content"
)

// region is where a section landed in the rendered body, in rows.
type region struct {
	id     string
	top    int
	height int
}

// page is the portfolio laid out for one terminal width.
type page struct {
	lines   []string
	regions []region
	// heroRow is the body row that shows the typewriter, or -1.
	heroRow int
}

func renderPage(p *content.Portfolio, width int) page {
	width = max(width-2, 20)
	pg := page{heroRow: -1}

	for _, s := range p.Sections {
		var lines []string
		hero := -1
		switch s.ID {
		case "home":
			lines, hero = renderHome(p, width)
		case "experience":
			lines = renderExperience(p, s, width)
		case "projects":
			lines = renderProjects(p, s, width)
		case "skills":
			lines = renderSkills(p, s, width)
		case "achievements":
			lines = renderAchievements(p, s, width)
		default:
			lines = renderHeading(s, width)
		}
		lines = append(lines, "")

		top := len(pg.lines)
		if hero >= 0 {
			pg.heroRow = top + hero
		}
		pg.regions = append(pg.regions, region{id: s.ID, top: top, height: len(lines)})
		pg.lines = append(pg.lines, lines...)
	}

	pg.lines = append(pg.lines, renderContact(p, width)...)
	return pg
}

func wrap(style lipgloss.Style, width int, text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(style.Width(width).Render(text), "\n")
}

func renderHeading(s content.Section, width int) []string {
	var lines []string
	if s.Eyebrow != "" {
		lines = append(lines, eyebrowStyle.Render(s.Eyebrow))
	}
	title := s.Title
	if title == "" {
		title = s.DisplayLabel()
	}
	lines = append(lines, titleStyle.Render(title))
	lines = append(lines, wrap(mutedStyle, width, s.Blurb)...)
	return append(lines, "")
}

func renderHome(p *content.Portfolio, width int) ([]string, int) {
	var lines []string
	if p.Profile.Available {
		lines = append(lines, typedStyle.Render("● Available for opportunities"), "")
	}
	lines = append(lines, brandStyle.Render(p.Profile.Name))
	lines = append(lines, wrap(titleStyle, width, p.Profile.Headline)...)
	lines = append(lines, "")
	hero := len(lines)
	lines = append(lines, "") // typewriter row, filled in by View
	lines = append(lines, "")
	lines = append(lines, wrap(bodyStyle, width, p.Profile.Summary)...)

	if len(p.Hero.Stats) > 0 {
		stats := make([]string, 0, len(p.Hero.Stats))
		for _, s := range p.Hero.Stats {
			stats = append(stats, statStyle.Render(s.Value)+" "+mutedStyle.Render(s.Label))
		}
		lines = append(lines, "")
		lines = append(lines, wrap(lipgloss.NewStyle(), width, strings.Join(stats, "   "))...)
	}
	return lines, hero
}

func renderExperience(p *content.Portfolio, s content.Section, width int) []string {
	lines := renderHeading(s, width)
	for _, r := range p.Experience {
		head := titleStyle.Render(r.Title) + mutedStyle.Render(" @ ") + eyebrowStyle.Render(r.Company)
		if r.Current {
			head += " " + toastStyle.Render("now")
		}
		lines = append(lines, head)
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("%s · %s", r.Period, r.Location)))
		for _, h := range r.Highlights {
			tag := lipgloss.NewStyle().Foreground(toneColor(h.Tone)).Render("[" + h.Tag + "]")
			lines = append(lines, wrap(bodyStyle, width, tag+" "+h.Text)...)
		}
		lines = append(lines, "")
	}
	return lines
}

func renderProjects(p *content.Portfolio, s content.Section, width int) []string {
	lines := renderHeading(s, width)
	for _, pr := range p.Projects {
		title := titleStyle.Render(pr.Title)
		if pr.Star {
			title = statStyle.Render("★ ") + title
		}
		lines = append(lines, title)
		lines = append(lines, wrap(eyebrowStyle, width, pr.Tagline)...)
		lines = append(lines, wrap(bodyStyle, width, pr.Description)...)
		lines = append(lines, wrap(mutedStyle, width, strings.Join(pr.Tech, " · "))...)
		if pr.Link != "" {
			lines = append(lines, mutedStyle.Render("↗ "+pr.Link))
		}
		lines = append(lines, "")
	}
	return lines
}

func renderSkills(p *content.Portfolio, s content.Section, width int) []string {
	lines := renderHeading(s, width)
	for _, g := range p.Skills {
		lines = append(lines, lipgloss.NewStyle().Foreground(toneColor(g.Tone)).Bold(true).Render(g.Title))
		lines = append(lines, wrap(bodyStyle, width, strings.Join(g.Items, " · "))...)
		lines = append(lines, "")
	}
	return lines
}

func renderAchievements(p *content.Portfolio, s content.Section, width int) []string {
	lines := renderHeading(s, width)
	for _, a := range p.Achievements {
		lines = append(lines, lipgloss.NewStyle().Foreground(toneColor(a.Tone)).Bold(true).Render(a.Title))
		lines = append(lines, wrap(mutedStyle, width, a.Detail)...)
		lines = append(lines, "")
	}
	return lines
}

func renderContact(p *content.Portfolio, width int) []string {
	var lines []string
	if p.Contact.Title != "" {
		lines = append(lines, titleStyle.Render(p.Contact.Title))
	}
	lines = append(lines, wrap(mutedStyle, width, p.Contact.Blurb)...)
	lines = append(lines, eyebrowStyle.Render("✉ "+p.Profile.Email)+mutedStyle.Render("  (c to copy)"))
	if p.Contact.Credit != "" {
		lines = append(lines, "", mutedStyle.Render(p.Contact.Credit))
	}
	return lines
}

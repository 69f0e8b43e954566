// Package resume renders the portfolio as a Markdown resume.
package resume

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/Zachkp/portfolio/internal/content"
)

// Write renders p to w.
func Write(w io.Writer, p *content.Portfolio) error {
	md := markdown.NewMarkdown(w)

	writeHeader(md, p)
	writeExperience(md, p)
	writeProjects(md, p)
	writeSkills(md, p)
	writeAchievements(md, p)

	if p.Contact.Credit != "" {
		md.HorizontalRule()
		md.PlainText("")
		md.PlainTextf("*%s*", p.Contact.Credit)
	}

	if err := md.Build(); err != nil {
		return fmt.Errorf("build resume: %w", err)
	}
	return nil
}

func writeHeader(md *markdown.Markdown, p *content.Portfolio) {
	md.H1(p.Profile.Name)
	md.PlainText("")
	if p.Profile.Headline != "" {
		md.PlainText(markdown.Bold(p.Profile.Headline))
		md.PlainText("")
	}
	if p.Profile.Summary != "" {
		md.PlainText(p.Profile.Summary)
		md.PlainText("")
	}

	contact := []string{markdown.Link(p.Profile.Email, "mailto:"+p.Profile.Email)}
	if p.Profile.LinkedIn != "" {
		contact = append(contact, markdown.Link("LinkedIn", p.Profile.LinkedIn))
	}
	if p.Profile.GitHub != "" {
		contact = append(contact, markdown.Link("GitHub", p.Profile.GitHub))
	}
	md.PlainText(strings.Join(contact, " · "))
	md.PlainText("")

	if len(p.Hero.Stats) > 0 {
		rows := make([][]string, 0, len(p.Hero.Stats))
		for _, s := range p.Hero.Stats {
			rows = append(rows, []string{s.Value, s.Label})
		}
		md.Table(markdown.TableSet{Header: []string{"Value", "Metric"}, Rows: rows})
		md.PlainText("")
	}
}

func writeExperience(md *markdown.Markdown, p *content.Portfolio) {
	if len(p.Experience) == 0 {
		return
	}
	md.H2(sectionTitle(p, "experience"))
	md.PlainText("")

	for _, r := range p.Experience {
		md.H3(fmt.Sprintf("%s, %s", r.Title, r.Company))
		md.PlainText("")
		md.PlainTextf("*%s · %s*", r.Period, r.Location)
		md.PlainText("")
		items := make([]string, 0, len(r.Highlights))
		for _, h := range r.Highlights {
			items = append(items, fmt.Sprintf("%s %s", markdown.Bold("["+h.Tag+"]"), h.Text))
		}
		md.BulletList(items...)
		md.PlainText("")
	}

	if chart, ok := focusChart(p); ok {
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart)
		md.PlainText("")
	}
}

// focusChart counts highlight tags across every role.
func focusChart(p *content.Portfolio) (string, bool) {
	counts := make(map[string]uint64)
	for _, r := range p.Experience {
		for _, h := range r.Highlights {
			if h.Tag != "" {
				counts[h.Tag]++
			}
		}
	}
	if len(counts) == 0 {
		return "", false
	}
	tags := make([]string, 0, len(counts))
	for tag := range counts {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool {
		if counts[tags[i]] != counts[tags[j]] {
			return counts[tags[i]] > counts[tags[j]]
		}
		return tags[i] < tags[j]
	})

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Focus Areas"),
		piechart.WithShowData(true),
	)
	for _, tag := range tags {
		chart.LabelAndIntValue(tag, counts[tag])
	}
	return chart.String(), true
}

func writeProjects(md *markdown.Markdown, p *content.Portfolio) {
	if len(p.Projects) == 0 {
		return
	}
	md.H2(sectionTitle(p, "projects"))
	md.PlainText("")

	rows := make([][]string, 0, len(p.Projects))
	for _, pr := range p.Projects {
		title := pr.Title
		if pr.Link != "" {
			title = markdown.Link(pr.Title, pr.Link)
		}
		if pr.Star {
			title = "★ " + title
		}
		rows = append(rows, []string{title, pr.Tagline, strings.Join(pr.Tech, ", ")})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Project", "About", "Stack"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, pr := range p.Projects {
		md.PlainTextf("%s %s", markdown.Bold(pr.Title+":"), pr.Description)
		md.PlainText("")
	}
}

func writeSkills(md *markdown.Markdown, p *content.Portfolio) {
	if len(p.Skills) == 0 {
		return
	}
	md.H2(sectionTitle(p, "skills"))
	md.PlainText("")

	items := make([]string, 0, len(p.Skills))
	for _, g := range p.Skills {
		items = append(items, fmt.Sprintf("%s %s", markdown.Bold(g.Title+":"), strings.Join(g.Items, ", ")))
	}
	md.BulletList(items...)
	md.PlainText("")
}

func writeAchievements(md *markdown.Markdown, p *content.Portfolio) {
	if len(p.Achievements) == 0 {
		return
	}
	md.H2(sectionTitle(p, "achievements"))
	md.PlainText("")

	items := make([]string, 0, len(p.Achievements))
	for _, a := range p.Achievements {
		items = append(items, fmt.Sprintf("%s %s", markdown.Bold(a.Title), a.Detail))
	}
	md.BulletList(items...)
	md.PlainText("")
}

// sectionTitle prefers the section's display title, then its nav label.
func sectionTitle(p *content.Portfolio, id string) string {
	s, ok := p.Section(id)
	if !ok {
		return content.Label(id)
	}
	if s.Title != "" {
		return s.Title
	}
	return s.DisplayLabel()
}

// Package content is the portfolio's static copy: profile, experience,
// projects, skills, achievements, and the settings the page drivers are
// configured with. It is loaded from YAML.
package content

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Zachkp/portfolio/internal/sections"
	"github.com/Zachkp/portfolio/internal/typewriter"
)

//go:embed portfolio.yaml
var defaultPortfolio []byte

// Portfolio is everything the page renders.
type Portfolio struct {
	Profile      Profile       `yaml:"profile"`
	Hero         Hero          `yaml:"hero"`
	Sections     []Section     `yaml:"sections"`
	Experience   []Role        `yaml:"experience"`
	Projects     []Project     `yaml:"projects"`
	Skills       []SkillGroup  `yaml:"skills"`
	Achievements []Achievement `yaml:"achievements"`
	Contact      Contact       `yaml:"contact"`
}

// Profile is who the page is about.
type Profile struct {
	Name      string `yaml:"name"`
	Initials  string `yaml:"initials"`
	Headline  string `yaml:"headline"`
	Summary   string `yaml:"summary"`
	Email     string `yaml:"email"`
	Available bool   `yaml:"available"`
	LinkedIn  string `yaml:"linkedin"`
	GitHub    string `yaml:"github"`
}

// Hero configures the landing section and its typewriter.
type Hero struct {
	Phrases      []string      `yaml:"phrases"`
	TypeInterval time.Duration `yaml:"typeInterval"`
	Pause        time.Duration `yaml:"pause"`
	Stats        []Stat        `yaml:"stats"`
}

// Stat is one line of the hero's stats card.
type Stat struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

// Section is one navigable region, in document order.
type Section struct {
	ID      string `yaml:"id"`
	Label   string `yaml:"label"`
	Eyebrow string `yaml:"eyebrow"`
	Title   string `yaml:"title"`
	Blurb   string `yaml:"blurb"`
}

// Role is one position in the experience timeline.
type Role struct {
	Title      string      `yaml:"title"`
	Company    string      `yaml:"company"`
	Location   string      `yaml:"location"`
	Period     string      `yaml:"period"`
	Current    bool        `yaml:"current"`
	Highlights []Highlight `yaml:"highlights"`
}

// Highlight is a tagged accomplishment within a role.
type Highlight struct {
	Tag  string `yaml:"tag"`
	Tone string `yaml:"tone"`
	Text string `yaml:"text"`
}

// Project is one project card.
type Project struct {
	Title       string   `yaml:"title"`
	Tagline     string   `yaml:"tagline"`
	Description string   `yaml:"description"`
	Link        string   `yaml:"link"`
	Tech        []string `yaml:"tech"`
	Star        bool     `yaml:"star"`
}

// SkillGroup is a titled group of skill chips.
type SkillGroup struct {
	Title string   `yaml:"title"`
	Tone  string   `yaml:"tone"`
	Items []string `yaml:"items"`
}

// Achievement is one milestone card.
type Achievement struct {
	Title  string `yaml:"title"`
	Detail string `yaml:"detail"`
	Tone   string `yaml:"tone"`
}

// Contact is the footer copy.
type Contact struct {
	Title  string `yaml:"title"`
	Blurb  string `yaml:"blurb"`
	Toast  string `yaml:"toast"`
	Credit string `yaml:"credit"`
}

// Default returns the bundled portfolio.
func Default() *Portfolio {
	p, err := Decode(bytes.NewReader(defaultPortfolio))
	if err != nil {
		panic(fmt.Sprintf("content: bundled portfolio is invalid: %v", err))
	}
	return p
}

// Load reads and validates a portfolio file. An empty path loads the
// bundled portfolio.
func Load(path string) (*Portfolio, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open content: %w", err)
	}
	defer f.Close()

	p, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Decode parses and validates a portfolio. Unknown keys are errors.
func Decode(r io.Reader) (*Portfolio, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var p Portfolio
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("decode content: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// SectionIDs returns the section identifiers in document order.
func (p *Portfolio) SectionIDs() []string {
	ids := make([]string, len(p.Sections))
	for i, s := range p.Sections {
		ids[i] = s.ID
	}
	return ids
}

// Registry builds the section registry the tracker watches.
func (p *Portfolio) Registry() (*sections.Registry, error) {
	return sections.NewRegistry(p.SectionIDs()...)
}

// Section looks a section up by id.
func (p *Portfolio) Section(id string) (Section, bool) {
	for _, s := range p.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

// Typewriter returns the hero typewriter configuration.
func (p *Portfolio) Typewriter() typewriter.Config {
	return typewriter.Config{
		Phrases:  append([]string(nil), p.Hero.Phrases...),
		Interval: p.Hero.TypeInterval,
		Pause:    p.Hero.Pause,
	}
}

package content

import (
	"errors"
	"fmt"
	"net/mail"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Content validation errors.
var (
	// ErrEmpty is returned for a content file with no document.
	ErrEmpty = errors.New("content: empty document")

	// ErrNoPhrases is returned when the hero has no typewriter phrases.
	ErrNoPhrases = errors.New("content: hero needs at least one phrase")

	// ErrBadTiming is returned for non-positive typing intervals or negative pauses.
	ErrBadTiming = errors.New("content: hero timing must be positive")

	// ErrBadEmail is returned when the profile email cannot be parsed.
	ErrBadEmail = errors.New("content: profile email is invalid")

	// ErrNoSections is returned when no sections are declared.
	ErrNoSections = errors.New("content: no sections declared")

	// ErrDuplicateSection is returned when a section id repeats.
	ErrDuplicateSection = errors.New("content: duplicate section")

	// ErrUnknownSection is returned for a section id no renderer handles.
	ErrUnknownSection = errors.New("content: unknown section")
)

// Kinds lists the section ids the page knows how to render, in their
// usual order.
var Kinds = []string{"home", "experience", "projects", "skills", "achievements"}

// Validate reports every problem with the portfolio at once.
func (p *Portfolio) Validate() error {
	var errs []error

	if len(p.Hero.Phrases) == 0 {
		errs = append(errs, ErrNoPhrases)
	}
	if p.Hero.TypeInterval <= 0 || p.Hero.Pause < 0 {
		errs = append(errs, fmt.Errorf("%w: typeInterval=%s pause=%s", ErrBadTiming, p.Hero.TypeInterval, p.Hero.Pause))
	}
	if _, err := mail.ParseAddress(p.Profile.Email); err != nil {
		errs = append(errs, fmt.Errorf("%w: %q", ErrBadEmail, p.Profile.Email))
	}

	if len(p.Sections) == 0 {
		errs = append(errs, ErrNoSections)
	}
	seen := make(map[string]bool, len(p.Sections))
	for _, s := range p.Sections {
		if seen[s.ID] {
			errs = append(errs, fmt.Errorf("%w: %q", ErrDuplicateSection, s.ID))
			continue
		}
		seen[s.ID] = true
		if !IsKind(s.ID) {
			err := fmt.Errorf("%w: %q", ErrUnknownSection, s.ID)
			if hint, ok := Suggest(s.ID); ok {
				err = fmt.Errorf("%w (did you mean %q?)", err, hint)
			}
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// IsKind reports whether id names a section the page can render.
func IsKind(id string) bool {
	for _, k := range Kinds {
		if k == id {
			return true
		}
	}
	return false
}

// Suggest returns the section kind closest to id, when it is close enough
// to be a plausible typo.
func Suggest(id string) (string, bool) {
	return closest(strings.ToLower(strings.TrimSpace(id)), Kinds)
}

// SuggestIn is like Suggest but picks from ids.
func SuggestIn(id string, ids []string) (string, bool) {
	return closest(strings.ToLower(strings.TrimSpace(id)), ids)
}

func closest(id string, candidates []string) (string, bool) {
	if id == "" || len(candidates) == 0 {
		return "", false
	}
	type scored struct {
		id   string
		dist int
	}
	all := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		all = append(all, scored{c, levenshtein.ComputeDistance(id, c)})
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].dist < all[j].dist })

	best := all[0]
	// allow roughly one edit per three characters
	if best.dist > max(2, len(best.id)/3) {
		return "", false
	}
	return best.id, true
}

// DisplayLabel returns the navigation label for a section.
func (s Section) DisplayLabel() string {
	if s.Label != "" {
		return s.Label
	}
	return Label(s.ID)
}

// Label turns a section id into a navigation label.
func Label(id string) string {
	// casers carry state, so one per call
	return cases.Title(language.English).String(strings.ReplaceAll(id, "-", " "))
}

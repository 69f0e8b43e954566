package content

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	p := Default()
	require.Equal(t, "Anushka Bhandari", p.Profile.Name)
	require.Equal(t, "bhandaanu123@gmail.com", p.Profile.Email)
	require.Equal(t, Kinds, p.SectionIDs())
	require.Len(t, p.Hero.Phrases, 4)
	require.Equal(t, 50*time.Millisecond, p.Hero.TypeInterval)
	require.Equal(t, 2500*time.Millisecond, p.Hero.Pause)
	require.Len(t, p.Experience, 2)
	require.Len(t, p.Experience[0].Highlights, 6)
	require.True(t, p.Projects[0].Star)
	require.Empty(t, p.Projects[1].Link)

	reg, err := p.Registry()
	require.NoError(t, err)
	require.Equal(t, "home", reg.First())

	tw := p.Typewriter()
	require.NoError(t, tw.Validate())
	tw.Phrases[0] = "changed"
	require.NotEqual(t, "changed", p.Hero.Phrases[0])

	s, ok := p.Section("skills")
	require.True(t, ok)
	require.Equal(t, "Tech Arsenal", s.Title)
	_, ok = p.Section("blog")
	require.False(t, ok)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("empty path loads the bundled portfolio", func(t *testing.T) {
		t.Parallel()

		p, err := Load("")
		require.NoError(t, err)
		require.Equal(t, "AB", p.Profile.Initials)
	})

	t.Run("reads a file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "portfolio.yaml")
		doc := `
profile:
  name: Zach
  email: zach@example.com
hero:
  phrases: [Go, HTMX]
  typeInterval: 60ms
  pause: 2s
sections:
  - id: home
  - id: projects
`
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

		p, err := Load(path)
		require.NoError(t, err)
		require.Equal(t, []string{"home", "projects"}, p.SectionIDs())
		require.Equal(t, "Projects", p.Sections[1].DisplayLabel())
		require.Equal(t, 2*time.Second, p.Hero.Pause)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("unknown keys are rejected", func(t *testing.T) {
		t.Parallel()

		_, err := Decode(strings.NewReader("profile:\n  nickname: x\n"))
		require.Error(t, err)
		require.Contains(t, err.Error(), "nickname")
	})

	t.Run("empty document", func(t *testing.T) {
		t.Parallel()

		_, err := Decode(strings.NewReader(""))
		require.ErrorIs(t, err, ErrEmpty)
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	p := &Portfolio{
		Profile: Profile{Email: "not an email"},
		Hero:    Hero{TypeInterval: 0},
		Sections: []Section{
			{ID: "home"},
			{ID: "experiance"},
			{ID: "home"},
			{ID: "zzzzzzzzzz"},
		},
	}
	err := p.Validate()
	require.ErrorIs(t, err, ErrNoPhrases)
	require.ErrorIs(t, err, ErrBadTiming)
	require.ErrorIs(t, err, ErrBadEmail)
	require.ErrorIs(t, err, ErrDuplicateSection)
	require.ErrorIs(t, err, ErrUnknownSection)
	require.Contains(t, err.Error(), `did you mean "experience"?`)
	require.NotContains(t, err.Error(), `"zzzzzzzzzz" (did you mean`)

	require.ErrorIs(t, (&Portfolio{}).Validate(), ErrNoSections)
}

func TestSuggest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"experiance", "experience", true},
		{"Project", "projects", true},
		{" skils ", "skills", true},
		{"achievments", "achievements", true},
		{"blog", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, ok := Suggest(tt.in)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}

	got, ok := SuggestIn("hme", []string{"home", "projects"})
	require.True(t, ok)
	require.Equal(t, "home", got)
}

func TestLabel(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Achievements", Label("achievements"))
	require.Equal(t, "Open Source", Label("open-source"))
	require.Equal(t, "Home", Section{ID: "home"}.DisplayLabel())
	require.Equal(t, "Start", Section{ID: "home", Label: "Start"}.DisplayLabel())
}

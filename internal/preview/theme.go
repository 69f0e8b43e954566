package preview

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha
const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorMauve    lipgloss.Color = "#cba6f7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorPeach    lipgloss.Color = "#fab387"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorSky      lipgloss.Color = "#89dceb"
	colorBlue     lipgloss.Color = "#89b4fa"
	colorLavender lipgloss.Color = "#b4befe"

	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorSurface0 lipgloss.Color = "#313244"
	colorBase     lipgloss.Color = "#1e1e2e"
)

// tones maps the content file's accent names onto the palette.
var tones = map[string]lipgloss.Color{
	"red":     colorRed,
	"blue":    colorBlue,
	"amber":   colorPeach,
	"emerald": colorGreen,
	"green":   colorGreen,
	"violet":  colorMauve,
	"pink":    colorPink,
	"yellow":  colorYellow,
	"cyan":    colorSky,
	"teal":    colorTeal,
}

func toneColor(name string) lipgloss.Color {
	if c, ok := tones[name]; ok {
		return c
	}
	return colorLavender
}

var (
	brandStyle    = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	navStyle      = lipgloss.NewStyle().Foreground(colorSubtext0)
	navActive     = lipgloss.NewStyle().Foreground(colorGreen).Bold(true).Underline(true)
	navBarStyle   = lipgloss.NewStyle().Padding(0, 1)
	navBarScroll  = navBarStyle.Background(colorSurface0)
	titleStyle    = lipgloss.NewStyle().Foreground(colorText).Bold(true)
	eyebrowStyle  = lipgloss.NewStyle().Foreground(colorGreen)
	bodyStyle     = lipgloss.NewStyle().Foreground(colorText)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorOverlay1)
	typedStyle    = lipgloss.NewStyle().Foreground(colorGreen)
	statStyle     = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	toastStyle    = lipgloss.NewStyle().Foreground(colorBase).Background(colorGreen).Padding(0, 1)
	errorStyle    = lipgloss.NewStyle().Foreground(colorRed)
	menuStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorSurface0).Padding(0, 2)
	menuItemStyle = lipgloss.NewStyle().Foreground(colorText)
)

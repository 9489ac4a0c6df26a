package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"cichat/config"
)

// palette is one color theme. Colors are ANSI indexes so the terminal's own
// scheme still applies and backgrounds stay transparent.
type palette struct {
	dim       lipgloss.Color
	accent    lipgloss.Color
	success   lipgloss.Color
	warning   lipgloss.Color
	danger    lipgloss.Color
	highlight lipgloss.Color
	markFg    lipgloss.Color
	markBg    lipgloss.Color
}

var (
	darkPalette = palette{
		dim:       lipgloss.Color("7"),
		accent:    lipgloss.Color("12"),
		success:   lipgloss.Color("10"),
		warning:   lipgloss.Color("11"),
		danger:    lipgloss.Color("9"),
		highlight: lipgloss.Color("13"),
		markFg:    lipgloss.Color("0"),
		markBg:    lipgloss.Color("11"),
	}
	lightPalette = palette{
		dim:       lipgloss.Color("8"),
		accent:    lipgloss.Color("4"),
		success:   lipgloss.Color("2"),
		warning:   lipgloss.Color("3"),
		danger:    lipgloss.Color("1"),
		highlight: lipgloss.Color("5"),
		markFg:    lipgloss.Color("0"),
		markBg:    lipgloss.Color("3"),
	}
)

var (
	dimColor       lipgloss.Color
	accentColor    lipgloss.Color
	successColor   lipgloss.Color
	warningColor   lipgloss.Color
	dangerColor    lipgloss.Color
	highlightColor lipgloss.Color

	UserStyle      lipgloss.Style
	AssistantStyle lipgloss.Style
	DimStyle       lipgloss.Style
	TitleStyle     lipgloss.Style
	StatusStyle    lipgloss.Style
	SelectedStyle  lipgloss.Style
	HighlightStyle lipgloss.Style

	// MarkStyle paints search matches; CurrentMarkStyle the one under the cursor.
	MarkStyle        lipgloss.Style
	CurrentMarkStyle lipgloss.Style

	ChipStyle lipgloss.Style
)

func init() {
	ApplyTheme(config.ThemeDark)
}

// ApplyTheme rebuilds the package styles for theme.
func ApplyTheme(theme string) {
	p := darkPalette
	if theme == config.ThemeLight {
		p = lightPalette
	}

	dimColor = p.dim
	accentColor = p.accent
	successColor = p.success
	warningColor = p.warning
	dangerColor = p.danger
	highlightColor = p.highlight

	UserStyle = lipgloss.NewStyle().Foreground(successColor).Bold(true)
	AssistantStyle = lipgloss.NewStyle().Foreground(accentColor)
	DimStyle = lipgloss.NewStyle().Foreground(dimColor)
	TitleStyle = lipgloss.NewStyle().Bold(true)
	StatusStyle = lipgloss.NewStyle().Foreground(dimColor)
	SelectedStyle = lipgloss.NewStyle().Foreground(warningColor).Bold(true)
	HighlightStyle = lipgloss.NewStyle().Foreground(highlightColor).Bold(true)

	MarkStyle = lipgloss.NewStyle().Foreground(p.markFg).Background(p.markBg)
	CurrentMarkStyle = MarkStyle.Bold(true).Underline(true)

	ChipStyle = lipgloss.NewStyle().
		Foreground(accentColor).
		Border(lipgloss.RoundedBorder(), false, true).
		BorderForeground(dimColor).
		Padding(0, 1)
}

// FormatFooter formats a footer string with alternating keys and descriptions.
// Usage: FormatFooter("j/k", "Navigate", "Enter", "Select", "Esc", "Close")
func FormatFooter(parts ...string) string {
	descStyle := lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	var result []string
	for i := 0; i < len(parts); i += 2 {
		if i+1 < len(parts) {
			result = append(result, parts[i]+" "+descStyle.Render(parts[i+1]))
		}
	}
	return strings.Join(result, "  ")
}

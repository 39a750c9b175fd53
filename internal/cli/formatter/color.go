package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/trainhub/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// CategoryStyle colors an activity category so the session's shape is
// visible at a glance: openers and closers frame the agenda, delivery is
// the body.
func CategoryStyle(c domain.ActivityCategory) lipgloss.Style {
	switch c {
	case domain.CategoryOpeners, domain.CategoryClosing:
		return StyleGreen
	case domain.CategoryDelivery:
		return StyleBlue
	case domain.CategoryPractice:
		return StylePurple
	case domain.CategoryEnergizer:
		return StyleYellow
	case domain.CategoryLinking:
		return StyleFg
	default:
		return StyleDim
	}
}

// CategoryLabel renders a category in its color. Unknown categories render
// as "N/A".
func CategoryLabel(c domain.ActivityCategory) string {
	if c == "" {
		return StyleDim.Render("N/A")
	}
	return CategoryStyle(c).Render(string(c))
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}

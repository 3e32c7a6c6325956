package color

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Semantic styles used by console output.
var (
	PassStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "42"}).Bold(true)
	FailStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "203"}).Bold(true)
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "127", Dark: "213"}).Bold(true)
	SkipStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "136", Dark: "220"})
	MutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "244", Dark: "245"})
	HeaderStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	SummaryStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// Initialize fixes the background assumption used by adaptive colours.
func Initialize(isDarkMode bool) {
	lipgloss.SetHasDarkBackground(isDarkMode)
}

// InitializeFromEnv honours ATKCTL_THEME=light|dark and otherwise keeps
// lipgloss's own detection.
func InitializeFromEnv() {
	switch strings.ToLower(os.Getenv("ATKCTL_THEME")) {
	case "light":
		Initialize(false)
	case "dark":
		Initialize(true)
	}
}

// SafeIcon appends enough spaces after icon that wide glyphs do not
// swallow the following character.
func SafeIcon(icon string) string {
	spaces := 1
	if runewidth.StringWidth(icon) >= 2 {
		spaces = 2
	}
	return fmt.Sprintf("%s%s", icon, strings.Repeat(" ", spaces))
}

// PadRight pads s with spaces to width display cells, truncating with an
// ellipsis when it is wider.
func PadRight(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w > width {
		return runewidth.Truncate(s, width, "…")
	}
	return s + strings.Repeat(" ", width-w)
}

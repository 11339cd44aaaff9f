package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/bcntransit/bcnt-cli/internal/prefs"
)

// tones names the ANSI colors of one theme
type tones struct {
	line, alert, urgent, countdown, platform, text, muted, bar string
}

// Dark terminals use the output/colors.go scheme; light ones swap the
// white text for black and soften the status bar.
var (
	darkTones = tones{
		line:      "6",  // Cyan - lines
		alert:     "3",  // Yellow - minor delays, alerts
		urgent:    "1",  // Red - major delays, arriving
		countdown: "2",  // Green - countdowns
		platform:  "5",  // Magenta - platforms
		text:      "15", // White - times, text
		muted:     "8",  // Gray - muted text
		bar:       "0",
	}
	lightTones = tones{
		line:      "4",
		alert:     "130",
		urgent:    "1",
		countdown: "22",
		platform:  "5",
		text:      "0",
		muted:     "242",
		bar:       "254",
	}
)

// palette holds the resolved colors the styles are built from
type palette struct {
	line, alert, urgent, countdown, platform, text, muted, bar lipgloss.TerminalColor
}

// paletteFor resolves the colors of a stored theme. SYSTEM follows the
// terminal background.
func paletteFor(mode prefs.ThemeMode) palette {
	pick := func(light, dark string) lipgloss.TerminalColor {
		switch mode {
		case prefs.ThemeLight:
			return lipgloss.Color(light)
		case prefs.ThemeDark:
			return lipgloss.Color(dark)
		}
		return lipgloss.AdaptiveColor{Light: light, Dark: dark}
	}
	l, d := lightTones, darkTones
	return palette{
		line:      pick(l.line, d.line),
		alert:     pick(l.alert, d.alert),
		urgent:    pick(l.urgent, d.urgent),
		countdown: pick(l.countdown, d.countdown),
		platform:  pick(l.platform, d.platform),
		text:      pick(l.text, d.text),
		muted:     pick(l.muted, d.muted),
		bar:       pick(l.bar, d.bar),
	}
}

// Text styles
var (
	styleTime      lipgloss.Style
	styleCountdown lipgloss.Style
	styleUrgent    lipgloss.Style
	styleDelay     lipgloss.Style
	styleDelayHigh lipgloss.Style
	styleOnTime    lipgloss.Style
	styleLine      lipgloss.Style
	stylePlatform  lipgloss.Style
	styleAlert     lipgloss.Style
	styleFavorite  lipgloss.Style
	styleMuted     lipgloss.Style
	styleHeader    lipgloss.Style
)

// Panel, list and bar styles
var (
	stylePanelFocused lipgloss.Style
	stylePanelNormal  lipgloss.Style
	styleSelected     lipgloss.Style
	styleChipCursor   lipgloss.Style
	styleStatusBar    lipgloss.Style
	styleLoading      lipgloss.Style
	styleError        lipgloss.Style
	styleLogo         lipgloss.Style
)

func init() {
	applyTheme(prefs.ThemeDark)
}

// applyTheme rebuilds every style from the palette of mode.
func applyTheme(mode prefs.ThemeMode) {
	p := paletteFor(mode)

	styleTime = lipgloss.NewStyle().Foreground(p.text).Bold(true)
	styleCountdown = lipgloss.NewStyle().Foreground(p.countdown).Bold(true)
	styleUrgent = lipgloss.NewStyle().Foreground(p.urgent).Bold(true)
	styleDelay = lipgloss.NewStyle().Foreground(p.alert)
	styleDelayHigh = lipgloss.NewStyle().Foreground(p.urgent).Bold(true)
	styleOnTime = lipgloss.NewStyle().Foreground(p.countdown)
	styleLine = lipgloss.NewStyle().Foreground(p.line).Bold(true)
	stylePlatform = lipgloss.NewStyle().Foreground(p.platform)
	styleAlert = lipgloss.NewStyle().Foreground(p.alert).Bold(true)
	styleFavorite = lipgloss.NewStyle().Foreground(p.alert)
	styleMuted = lipgloss.NewStyle().Foreground(p.muted)
	styleHeader = lipgloss.NewStyle().Foreground(p.text).Bold(true)

	stylePanelFocused = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.line)
	stylePanelNormal = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.muted)

	styleSelected = lipgloss.NewStyle().Foreground(p.line).Bold(true)

	// Reverse-video cursor on the focused chip
	styleChipCursor = lipgloss.NewStyle().
		Foreground(p.bar).
		Background(p.line).
		Bold(true)

	styleStatusBar = lipgloss.NewStyle().
		Foreground(p.muted).
		Background(p.bar)

	styleLoading = lipgloss.NewStyle().Foreground(p.alert).Italic(true)
	styleError = lipgloss.NewStyle().Foreground(p.urgent)
	styleLogo = lipgloss.NewStyle().Foreground(p.urgent).Bold(true)
}

// lineBadge renders a line name on its network color. Lines without a
// color use the default line style.
func lineBadge(name, hex string) string {
	if hex == "" {
		return styleLine.Render(name)
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color(hex)).
		Bold(true).
		Padding(0, 1).
		Render(name)
}

// formatDelay returns a styled "(+N min)" delay, empty when on time
func formatDelay(delay int) string {
	switch {
	case delay == 0:
		return ""
	case delay >= 10:
		return styleDelayHigh.Render(fmt.Sprintf("(%+d min)", delay))
	case delay > 0:
		return styleDelay.Render(fmt.Sprintf("(%+d min)", delay))
	}
	return styleOnTime.Render(fmt.Sprintf("(%d min)", delay))
}

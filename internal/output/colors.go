package output

import (
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ColorMode represents the color output mode
type ColorMode int

const (
	// ColorAuto enables colors if output is a TTY
	ColorAuto ColorMode = iota
	// ColorAlways forces colors on
	ColorAlways
	// ColorNever disables colors
	ColorNever
)

// Colors holds the color functions for different output types
type Colors struct {
	Time      func(format string, a ...interface{}) string
	Countdown func(format string, a ...interface{}) string
	Urgent    func(format string, a ...interface{}) string
	Delay     func(format string, a ...interface{}) string
	DelayHigh func(format string, a ...interface{}) string
	OnTime    func(format string, a ...interface{}) string
	Line      func(format string, a ...interface{}) string
	Platform  func(format string, a ...interface{}) string
	Dest      func(format string, a ...interface{}) string
	Alert     func(format string, a ...interface{}) string
	Header    func(format string, a ...interface{}) string
	Muted     func(format string, a ...interface{}) string
}

// IsTerminal reports whether stdout is a terminal.
func IsTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// NewColors creates a new Colors instance based on the color mode
func NewColors(mode ColorMode) *Colors {
	useColors := false
	switch mode {
	case ColorAlways:
		useColors = true
		color.NoColor = false // Force colors on
	case ColorNever:
		useColors = false
	case ColorAuto:
		useColors = IsTerminal()
	}

	if !useColors {
		noColor := func(format string, a ...interface{}) string {
			if len(a) == 0 {
				return format
			}
			return color.New().Sprintf(format, a...)
		}
		return &Colors{
			Time:      noColor,
			Countdown: noColor,
			Urgent:    noColor,
			Delay:     noColor,
			DelayHigh: noColor,
			OnTime:    noColor,
			Line:      noColor,
			Platform:  noColor,
			Dest:      noColor,
			Alert:     noColor,
			Header:    noColor,
			Muted:     noColor,
		}
	}

	return &Colors{
		Time:      color.New(color.FgWhite, color.Bold).SprintfFunc(),
		Countdown: color.New(color.FgGreen, color.Bold).SprintfFunc(),
		Urgent:    color.New(color.FgRed, color.Bold).SprintfFunc(),
		Delay:     color.New(color.FgYellow).SprintfFunc(),
		DelayHigh: color.New(color.FgRed, color.Bold).SprintfFunc(),
		OnTime:    color.New(color.FgGreen).SprintfFunc(),
		Line:      color.New(color.FgCyan, color.Bold).SprintfFunc(),
		Platform:  color.New(color.FgMagenta).SprintfFunc(),
		Dest:      color.New(color.FgWhite).SprintfFunc(),
		Alert:     color.New(color.FgYellow, color.Bold).SprintfFunc(),
		Header:    color.New(color.FgWhite, color.Bold).SprintfFunc(),
		Muted:     color.New(color.FgHiBlack).SprintfFunc(),
	}
}

// FormatDelay formats a delay in minutes as "(+N min)". Zero delay is empty.
func (c *Colors) FormatDelay(delay int) string {
	switch {
	case delay == 0:
		return ""
	case delay >= 10:
		return c.DelayHigh("(%+d min)", delay)
	case delay > 0:
		return c.Delay("(%+d min)", delay)
	}
	return c.OnTime("(%d min)", delay)
}

// ParseColorMode parses a color mode string
func ParseColorMode(s string) ColorMode {
	switch s {
	case "always":
		return ColorAlways
	case "never":
		return ColorNever
	default:
		return ColorAuto
	}
}

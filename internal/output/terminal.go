package output

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// ClearScreen clears the terminal screen and moves cursor to top-left
func ClearScreen(w io.Writer) {
	_, _ = fmt.Fprint(w, "\033[2J\033[H")
}

// HideCursor hides the terminal cursor
func HideCursor(w io.Writer) {
	_, _ = fmt.Fprint(w, "\033[?25l")
}

// ShowCursor shows the terminal cursor
func ShowCursor(w io.Writer) {
	_, _ = fmt.Fprint(w, "\033[?25h")
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// RenderWatchFooter prints when the board was fetched and how to quit
func RenderWatchFooter(w io.Writer, c *Colors, fetched time.Time) {
	if c == nil {
		c = NewColors(ColorNever)
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, c.Muted("Updated %s · Ctrl+C to quit", fetched.Format("15:04:05")))
}

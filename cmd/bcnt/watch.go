package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/bcntransit/bcnt-cli/internal/countdown"
	"github.com/bcntransit/bcnt-cli/internal/models"
	"github.com/bcntransit/bcnt-cli/internal/output"
)

// soonestArrival returns the earliest trip that has not arrived yet.
func soonestArrival(routes []models.Route, now int64) (int64, bool) {
	var (
		best  int64
		found bool
	)
	for i := range routes {
		for _, t := range routes[i].Upcoming(now, 0) {
			if !found || t.Arrival < best {
				best, found = t.Arrival, true
			}
		}
	}
	return best, found
}

// runWatch redraws the board on every tick of a countdown bound to the
// soonest trip and refetches it every refresh interval, until SIGINT or
// SIGTERM.
func runWatch(ctx context.Context, opts output.TableOptions, fetch func(context.Context) ([]models.Route, error)) error {
	ctx, stop := output.SignalContext(ctx)
	defer stop()

	// Hide cursor during watch mode
	output.HideCursor(os.Stdout)
	defer output.ShowCursor(os.Stdout)

	ticker := countdown.NewTicker(opts.Formatter, nil)
	refresh := time.NewTicker(cfg.Refresh)
	defer refresh.Stop()

	for {
		routes, fetchErr := fetch(ctx)
		fetched := time.Now()
		if ctx.Err() != nil {
			break
		}

		draw := func() {
			output.ClearScreen(os.Stdout)
			if fetchErr != nil {
				_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", fetchErr)
			} else {
				output.RenderRoutes(os.Stdout, routes, opts)
			}
			output.RenderWatchFooter(os.Stdout, opts.Colors, fetched)
		}

		// One pending redraw is enough; the board is recomputed from the
		// wall clock each time
		redraws := make(chan struct{}, 1)
		var handle *countdown.Handle
		if target, ok := soonestArrival(routes, fetched.Unix()); ok && fetchErr == nil {
			handle = ticker.Start(ctx, target, func(countdown.Display) {
				select {
				case redraws <- struct{}{}:
				default:
				}
			})
		} else {
			draw()
		}

		done := false
	wait:
		for {
			select {
			case <-ctx.Done():
				done = true
				break wait
			case <-redraws:
				draw()
			case <-refresh.C:
				break wait
			}
		}

		if handle != nil {
			handle.Cancel()
		}
		if done {
			break
		}
	}

	output.ClearScreen(os.Stdout)
	fmt.Println("Watch mode ended.")
	return nil
}

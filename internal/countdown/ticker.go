package countdown

import (
	"context"
	"sync"
	"time"
)

// maxBackoff caps the sleep between recomputations while the arrival is
// still more than an hour away.
const maxBackoff int64 = 30

// Clock is the time source of a Ticker.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

// SystemClock reads the system wall clock.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time { return time.Now() }

// After waits for d to elapse.
func (SystemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// NextInterval returns how long to wait before recomputing the label for
// target. Inside the last hour the label changes every second; further out
// only the time of day is shown, so the wait grows with the distance to the
// one-hour boundary, between 1 and 30 seconds.
func NextInterval(target, now int64) time.Duration {
	diff := secondsUntil(target, now)
	if diff <= ExactTimeThreshold {
		return time.Second
	}
	wait := diff - ExactTimeThreshold
	if wait < 1 {
		wait = 1
	}
	if wait > maxBackoff {
		wait = maxBackoff
	}
	return time.Duration(wait) * time.Second
}

// Ticker drives countdown labels.
type Ticker struct {
	formatter *Formatter
	clock     Clock
}

// NewTicker creates a ticker. Nil arguments select the default formatter
// and the system clock.
func NewTicker(f *Formatter, c Clock) *Ticker {
	if f == nil {
		f = defaultFormatter
	}
	if c == nil {
		c = SystemClock{}
	}
	return &Ticker{formatter: f, clock: c}
}

// Handle controls one running countdown.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Start emits the current label for target right away, then keeps emitting
// a fresh label after every NextInterval until the handle is cancelled or
// ctx is done. onUpdate runs on the ticker's goroutine after the first call.
func (t *Ticker) Start(ctx context.Context, target int64, onUpdate func(Display)) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}

	now := t.clock.Now().Unix()
	onUpdate(t.formatter.Format(target, now))

	go t.run(ctx, target, now, onUpdate, h.done)
	return h
}

func (t *Ticker) run(ctx context.Context, target, now int64, onUpdate func(Display), done chan struct{}) {
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.clock.After(NextInterval(target, now)):
		}

		if ctx.Err() != nil {
			return
		}

		next := t.clock.Now().Unix()
		if next > now {
			now = next
		}
		onUpdate(t.formatter.Format(target, now))
	}
}

// Cancel stops the countdown. It returns once the ticker goroutine has
// exited, so no update is delivered after Cancel returns. It must not be
// called from inside onUpdate; cancel the context given to Start instead.
func (h *Handle) Cancel() {
	h.once.Do(h.cancel)
	<-h.done
}

// Done is closed when the countdown has stopped.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

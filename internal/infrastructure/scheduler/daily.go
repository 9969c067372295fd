package scheduler

import (
	"context"
	"sync"
	"time"

	"PaperRecommender/internal/ports"
)

// DailyScheduler fires the job once at startup and then at a fixed local
// hour every day. The next trigger is recomputed from the completion time
// of the previous run, so long cycles never accumulate drift.
type DailyScheduler struct {
	hour     int
	location *time.Location
	now      func() time.Time

	mu      sync.Mutex
	stop    chan struct{}
	started bool
}

var _ ports.Scheduler = (*DailyScheduler)(nil)

// NewDailyScheduler builds a scheduler for the given hour-of-day.
func NewDailyScheduler(hour int, loc *time.Location) *DailyScheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &DailyScheduler{hour: hour, location: loc, now: time.Now}
}

// Start runs the job immediately, then keeps waking at the configured
// hour until the context is cancelled or Stop is called.
func (d *DailyScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return nil
	}
	d.started = true
	d.stop = make(chan struct{})

	// The goroutine captures the channel; the field is only touched
	// under the mutex.
	stop := d.stop
	go func() {
		job(d.now())
		for {
			timer := time.NewTimer(d.untilNext(d.now()))
			select {
			case t := <-timer.C:
				job(t)
			case <-ctx.Done():
				timer.Stop()
				return
			case <-stop:
				timer.Stop()
				return
			}
		}
	}()

	return nil
}

// Stop halts the scheduling goroutine. It is safe to call repeatedly and
// concurrently with a running job.
func (d *DailyScheduler) Stop(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.started {
		return nil
	}
	d.started = false
	close(d.stop)
	return nil
}

// untilNext returns the duration until the next occurrence of the
// configured hour strictly after now.
func (d *DailyScheduler) untilNext(now time.Time) time.Duration {
	local := now.In(d.location)
	next := time.Date(local.Year(), local.Month(), local.Day(), d.hour, 0, 0, 0, d.location)
	if !next.After(local) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(local)
}

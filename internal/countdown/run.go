package countdown

import (
	"context"
	"time"
)

// Interval is the refresh cadence of hosted countdown views.
const Interval = time.Second

// Run recomputes the countdown every interval and hands each record to emit,
// starting with an immediate one. It returns when ctx is cancelled (the view went
// away) or right after emitting the terminal record. The ticker is always stopped.
func Run(ctx context.Context, target time.Time, interval time.Duration, now func() time.Time, emit func(TimeRemaining)) {
	if now == nil {
		now = time.Now
	}

	tr := Compute(target, now())
	emit(tr)
	if tr.Expired() {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tr = Compute(target, now())
			emit(tr)
			if tr.Expired() {
				return
			}
		}
	}
}

package countdown

import "time"

// FlipDuration is how long a unit's flip transition lasts.
const FlipDuration = 600 * time.Millisecond

// Flip is an in-progress transition of one unit from Old to New.
type Flip struct {
	Unit  Unit
	Old   int
	New   int
	Until time.Time
}

// OldText and NewText are formatted for display
func (f Flip) OldText() string { return f.Unit.Format(f.Old) }
func (f Flip) NewText() string { return f.Unit.Format(f.New) }

// FlipTracker detects unit changes between ticks and holds each transition's
// old/new pair stable until it finishes. A flip is never interrupted: a change
// arriving mid-flip is picked up by the first observation after it ends.
type FlipTracker struct {
	duration time.Duration
	shown    map[Unit]int
	flips    map[Unit]Flip
}

// NewFlipTracker creates a tracker; d <= 0 uses FlipDuration.
func NewFlipTracker(d time.Duration) *FlipTracker {
	if d <= 0 {
		d = FlipDuration
	}
	return &FlipTracker{
		duration: d,
		shown:    make(map[Unit]int),
		flips:    make(map[Unit]Flip),
	}
}

// Observe feeds the record computed at instant at and returns the flips it started.
func (f *FlipTracker) Observe(tr TimeRemaining, at time.Time) []Flip {
	if tr.Expired() {
		f.shown = make(map[Unit]int)
		f.flips = make(map[Unit]Flip)
		return nil
	}

	var started []Flip
	for _, uv := range tr.Units() {
		if fl, ok := f.flips[uv.Unit]; ok {
			if at.Before(fl.Until) {
				continue
			}
			delete(f.flips, uv.Unit)
		}

		prev, seen := f.shown[uv.Unit]
		f.shown[uv.Unit] = uv.Value
		if !seen || prev == uv.Value {
			continue
		}

		fl := Flip{Unit: uv.Unit, Old: prev, New: uv.Value, Until: at.Add(f.duration)}
		f.flips[uv.Unit] = fl
		started = append(started, fl)
	}
	return started
}

// Active returns the flips still running at instant at, largest unit first,
// and discards the finished ones.
func (f *FlipTracker) Active(at time.Time) []Flip {
	var out []Flip
	for _, u := range AllUnits {
		fl, ok := f.flips[u]
		if !ok {
			continue
		}
		if !at.Before(fl.Until) {
			delete(f.flips, u)
			continue
		}
		out = append(out, fl)
	}
	return out
}

// Flipping reports whether unit u is mid-transition at instant at
func (f *FlipTracker) Flipping(u Unit, at time.Time) (Flip, bool) {
	fl, ok := f.flips[u]
	if !ok || !at.Before(fl.Until) {
		return Flip{}, false
	}
	return fl, true
}

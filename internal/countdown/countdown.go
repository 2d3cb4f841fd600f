// Package countdown computes the time left until a fixed instant, broken down
// into calendar units, and keeps hosted views refreshed while they are open.
package countdown

import (
	"fmt"
	"time"
)

// FinishedMessage replaces the clock once the target instant has passed.
const FinishedMessage = "É hora do casamento!"

// Unit is one component of a TimeRemaining breakdown
type Unit int

const (
	Years Unit = iota
	Months
	Days
	Hours
	Minutes
	Seconds
)

// AllUnits lists the units from largest to smallest
var AllUnits = []Unit{Years, Months, Days, Hours, Minutes, Seconds}

var unitLabels = [...]string{"Ano", "Meses", "Dias", "Horas", "Minutos", "Segundos"}
var unitKeys = [...]string{"anos", "meses", "dias", "horas", "minutos", "segundos"}

// Label is the caption rendered under the unit
func (u Unit) Label() string {
	return unitLabels[u]
}

// Key is a stable lowercase identifier, used for element ids and signals
func (u Unit) Key() string {
	return unitKeys[u]
}

// Format renders a unit value; years are shown as is, everything else zero-padded to two digits.
func (u Unit) Format(v int) string {
	if u == Years {
		return fmt.Sprintf("%d", v)
	}
	return fmt.Sprintf("%02d", v)
}

// UnitValue pairs a unit with its value
type UnitValue struct {
	Unit  Unit
	Value int
}

// Label is a convenience for templates
func (uv UnitValue) Label() string { return uv.Unit.Label() }

// Text is the formatted value
func (uv UnitValue) Text() string { return uv.Unit.Format(uv.Value) }

// TimeRemaining is the breakdown of the delta between now and the target.
// The zero value is the terminal record: the target has been reached.
type TimeRemaining struct {
	values  [6]int
	running bool
}

// Expired reports whether the record is empty because the target has passed
func (t TimeRemaining) Expired() bool {
	return !t.running
}

// Get returns the value of a unit and whether it is populated
func (t TimeRemaining) Get(u Unit) (int, bool) {
	if !t.running {
		return 0, false
	}
	return t.values[u], true
}

// Units returns the populated units from largest to smallest; nil once expired.
func (t TimeRemaining) Units() []UnitValue {
	if !t.running {
		return nil
	}
	out := make([]UnitValue, 0, len(AllUnits))
	for _, u := range AllUnits {
		out = append(out, UnitValue{Unit: u, Value: t.values[u]})
	}
	return out
}

func (t TimeRemaining) String() string {
	if !t.running {
		return FinishedMessage
	}
	return fmt.Sprintf("%dy %dmo %dd %02d:%02d:%02d",
		t.values[Years], t.values[Months], t.values[Days],
		t.values[Hours], t.values[Minutes], t.values[Seconds])
}

// Compute returns the calendar-aware breakdown of target - now.
//
// Months are counted backwards from the target in its location, clamping to the last
// day of shorter months, so "1 year, 2 months" is exact rather than an average. The
// month anchor stays fixed while now advances, and what is left before it is split
// into whole 24h days, hours, minutes and seconds. A later now therefore never yields
// a larger breakdown, and hours stay below 24 across DST changes. Sub-second
// remainders are truncated.
func Compute(target, now time.Time) TimeRemaining {
	if !target.After(now) {
		return TimeRemaining{}
	}
	now = now.In(target.Location())

	months := (target.Year()-now.Year())*12 + int(target.Month()-now.Month())
	for months > 0 && addMonths(target, -months).Before(now) {
		months--
	}
	anchor := addMonths(target, -months)

	rest := anchor.Sub(now)
	day := 24 * time.Hour
	var t TimeRemaining
	t.running = true
	t.values[Years] = months / 12
	t.values[Months] = months % 12
	t.values[Days] = int(rest / day)
	rest %= day
	t.values[Hours] = int(rest / time.Hour)
	t.values[Minutes] = int(rest % time.Hour / time.Minute)
	t.values[Seconds] = int(rest % time.Minute / time.Second)
	return t
}

// addMonths moves t by n calendar months keeping the wall clock, clamping the day
// to the end of the destination month (Jan 31 + 1 month = Feb 28/29).
func addMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(first.Year(), first.Month(), t.Location()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

package appointment

import (
	"github.com/clinicbase/clinic/pkg/civil"
)

// WeekWindow is the Monday through Saturday booking window containing a
// reference date. Sundays are never part of a window; the clinic is closed.
type WeekWindow struct {
	Start civil.Date `json:"start"`
	End   civil.Date `json:"end"`
}

// WeekOf returns the window for the week containing d. For a Sunday the
// window is the preceding Monday through Saturday, so the whole window lies
// before d.
func WeekOf(d civil.Date) WeekWindow {
	offset := (int(d.Weekday()) + 6) % 7
	start := d.AddDays(-offset)
	return WeekWindow{Start: start, End: start.AddDays(5)}
}

// IsZero reports whether the window is unset.
func (w WeekWindow) IsZero() bool {
	return w.Start.IsZero() && w.End.IsZero()
}

// Next returns the window one week later. Navigating an unset window is a
// no-op.
func (w WeekWindow) Next() WeekWindow {
	if w.IsZero() {
		return w
	}
	return WeekOf(w.Start.AddDays(7))
}

// Prev returns the window one week earlier. Navigating an unset window is a
// no-op.
func (w WeekWindow) Prev() WeekWindow {
	if w.IsZero() {
		return w
	}
	return WeekOf(w.Start.AddDays(-7))
}

// Contains reports whether d falls within the window, inclusive on both ends.
func (w WeekWindow) Contains(d civil.Date) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

// Days returns the window's six dates from Monday through Saturday.
func (w WeekWindow) Days() []civil.Date {
	days := make([]civil.Date, 0, 6)
	for d := w.Start; !d.After(w.End); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

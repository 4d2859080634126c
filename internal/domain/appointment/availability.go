package appointment

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/clinicbase/clinic/pkg/civil"
)

// DayAvailability is one bookable day and its remaining start times. It has
// no persisted identity; it is recomputed on every request.
type DayAvailability struct {
	Date  civil.Date        `json:"date"`
	Slots []civil.TimeOfDay `json:"slots"`
}

// HoursProvider yields a practitioner's configured slot start times for a
// date, before existing bookings are subtracted.
type HoursProvider interface {
	SlotsOn(ctx context.Context, practitionerID uuid.UUID, date civil.Date) ([]civil.TimeOfDay, error)
}

// SlotStatus classifies a chosen (date, time) pair against an availability
// list.
type SlotStatus int

const (
	// SlotAvailable means the pair is in the list and still bookable.
	SlotAvailable SlotStatus = iota
	// SlotPast means the pair is in the list but the time has already
	// passed today.
	SlotPast
	// SlotUnavailable means the pair is not offered at all.
	SlotUnavailable
)

func sortSlots(slots []civil.TimeOfDay) {
	sort.Slice(slots, func(i, j int) bool {
		return slots[i].Before(slots[j])
	})
}

// CheckSelection reconciles a chosen date and time against the availability
// list. The pair must be a member of its day's slot set, and when the day is
// today the time must be strictly later than now. A slot at the exact
// current minute counts as already past.
func CheckSelection(days []DayAvailability, date civil.Date, t civil.TimeOfDay, now time.Time) SlotStatus {
	var slots []civil.TimeOfDay
	for _, day := range days {
		if day.Date == date {
			slots = day.Slots
			break
		}
	}
	member := false
	for _, s := range slots {
		if s == t {
			member = true
			break
		}
	}
	if !member {
		return SlotUnavailable
	}
	if date == civil.DateOf(now) && !t.After(civil.TimeOfDayOf(now)) {
		return SlotPast
	}
	return SlotAvailable
}

// FilterDays keeps the days that fall inside the window and are not before
// today. A day equal to today stays eligible even when all of its slots have
// passed; the per-slot check excludes past times.
func FilterDays(days []DayAvailability, window WeekWindow, today civil.Date) []DayAvailability {
	out := make([]DayAvailability, 0, len(days))
	for _, day := range days {
		if window.Contains(day.Date) && !day.Date.Before(today) {
			out = append(out, day)
		}
	}
	return out
}

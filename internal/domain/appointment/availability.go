package appointment

import (
	"sort"
	"time"

	"github.com/BruksfildServices01/studio-booking/internal/models"
)

// Interval is half-open: [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

func NewInterval(start time.Time, d time.Duration) Interval {
	return Interval{Start: start, End: start.Add(d)}
}

func IntervalOf(ap models.Appointment) Interval {
	return Interval{Start: ap.StartTime, End: ap.EndTime()}
}

// Overlaps treats touching intervals as disjoint, so back-to-back bookings fit.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

// FindConflict returns the earliest-starting active appointment overlapping
// candidate. ignoreID skips the appointment being replaced on reschedule.
func FindConflict(candidate Interval, existing []models.Appointment, ignoreID string) (models.Appointment, bool) {
	active := make([]models.Appointment, 0, len(existing))
	for _, ap := range existing {
		if ap.Active() && ap.ID != ignoreID {
			active = append(active, ap)
		}
	}

	sort.Slice(active, func(i, j int) bool {
		return active[i].StartTime.Before(active[j].StartTime)
	})

	for _, ap := range active {
		if !ap.StartTime.Before(candidate.End) {
			break
		}
		if IntervalOf(ap).Overlaps(candidate) {
			return ap, true
		}
	}

	return models.Appointment{}, false
}

type AvailabilityInput struct {
	EmployeeID  string
	Date        time.Time
	DurationMin int
}

// BusyIntervals merges the active appointments into disjoint intervals
// clipped to window.
func BusyIntervals(window Interval, aps []models.Appointment) []Interval {
	var busy []Interval
	for _, ap := range aps {
		if !ap.Active() {
			continue
		}
		iv := IntervalOf(ap)
		if !iv.Overlaps(window) {
			continue
		}
		if iv.Start.Before(window.Start) {
			iv.Start = window.Start
		}
		if iv.End.After(window.End) {
			iv.End = window.End
		}
		busy = append(busy, iv)
	}

	sort.Slice(busy, func(i, j int) bool { return busy[i].Start.Before(busy[j].Start) })

	merged := make([]Interval, 0, len(busy))
	for _, iv := range busy {
		if n := len(merged); n > 0 && !iv.Start.After(merged[n-1].End) {
			if iv.End.After(merged[n-1].End) {
				merged[n-1].End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// FreeIntervals is the complement of busy (sorted, disjoint) inside window.
func FreeIntervals(window Interval, busy []Interval) []Interval {
	var free []Interval
	cur := window.Start
	for _, b := range busy {
		if b.Start.After(cur) {
			free = append(free, Interval{Start: cur, End: b.Start})
		}
		if b.End.After(cur) {
			cur = b.End
		}
	}
	if window.End.After(cur) {
		free = append(free, Interval{Start: cur, End: window.End})
	}
	return free
}

// SlotStarts lists start times, stepping by step from each free interval's
// start, where a booking of length d fits and start is not before notBefore.
func SlotStarts(free []Interval, d, step time.Duration, notBefore time.Time) []time.Time {
	if d <= 0 || step <= 0 {
		return nil
	}

	var out []time.Time
	for _, f := range free {
		for t := f.Start; !t.Add(d).After(f.End); t = t.Add(step) {
			if t.Before(notBefore) {
				continue
			}
			out = append(out, t)
		}
	}
	return out
}

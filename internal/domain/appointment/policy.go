package appointment

import (
	"fmt"
	"time"

	"github.com/BruksfildServices01/studio-booking/internal/httperr"
	"github.com/BruksfildServices01/studio-booking/internal/timezone"
)

// Policy holds the business booking rules. The zero value accepts any
// positive duration at any time, in UTC.
type Policy struct {
	Location *time.Location

	// Granularity, when set, requires start offsets from midnight and
	// durations to be multiples of it.
	Granularity time.Duration

	// OpensAt/ClosesAt are offsets from local midnight.
	OpensAt              time.Duration
	ClosesAt             time.Duration
	EnforceBusinessHours bool

	AllowPastBookings bool

	DefaultDuration time.Duration

	// Used when creating clients and recording budgets.
	PhoneRegion string
	Currency    string

	Clock func() time.Time
}

func (p Policy) Loc() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}

func (p Policy) Now() time.Time {
	if p.Clock != nil {
		return p.Clock().In(p.Loc())
	}
	return time.Now().In(p.Loc())
}

func (p Policy) DayRange(t time.Time) (time.Time, time.Time) {
	return timezone.DayRange(t, p.Loc())
}

// Window is the bookable part of the calendar day containing day.
func (p Policy) Window(day time.Time) Interval {
	start, end := p.DayRange(day)
	if !p.EnforceBusinessHours {
		return Interval{Start: start, End: end}
	}
	return Interval{Start: wallClock(start, p.OpensAt), End: wallClock(start, p.ClosesAt)}
}

// wallClock places a clock offset on the calendar day of midnight, so DST
// days still open at the configured local time.
func wallClock(midnight time.Time, off time.Duration) time.Time {
	return time.Date(
		midnight.Year(), midnight.Month(), midnight.Day(),
		int(off/time.Hour), int(off%time.Hour/time.Minute), 0, 0,
		midnight.Location(),
	)
}

// SlotStep is the spacing between offered slot starts.
func (p Policy) SlotStep(d time.Duration) time.Duration {
	if p.Granularity > 0 {
		return p.Granularity
	}
	return d
}

// Validate checks a proposed booking against the policy. Overlaps are not
// its concern.
func (p Policy) Validate(start time.Time, d time.Duration) error {
	if d <= 0 {
		return httperr.ErrValidation("duration_min", "out_of_range")
	}

	start = start.In(p.Loc())
	dayStart, dayEnd := p.DayRange(start)

	if p.Granularity > 0 {
		if start.Sub(dayStart)%p.Granularity != 0 {
			return httperr.ErrValidation("start_time", "off_grid")
		}
		if d%p.Granularity != 0 {
			return httperr.ErrValidation("duration_min", "off_grid")
		}
	}

	if !p.AllowPastBookings && start.Before(p.Now()) {
		return httperr.ErrValidation("start_time", "in_the_past")
	}

	if p.EnforceBusinessHours {
		end := start.Add(d)
		if end.After(dayEnd) {
			return httperr.ErrValidation("start_time", "outside_business_hours")
		}
		w := p.Window(start)
		if start.Before(w.Start) || end.After(w.End) {
			return httperr.ErrValidation("start_time", "outside_business_hours")
		}
	}

	return nil
}

// ParseClock reads "HH:MM" as an offset from midnight.
func ParseClock(hm string) (time.Duration, error) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return 0, fmt.Errorf("invalid clock %q: %w", hm, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

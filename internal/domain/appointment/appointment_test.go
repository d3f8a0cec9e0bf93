package appointment

import (
	"testing"
	"time"

	"github.com/BruksfildServices01/studio-booking/internal/httperr"
	"github.com/BruksfildServices01/studio-booking/internal/models"
)

var jan15 = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return jan15.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func booked(id string, start time.Time, minutes int, status Status) models.Appointment {
	return models.Appointment{ID: id, StartTime: start, DurationMin: minutes, Status: string(status)}
}

func TestFindConflict(t *testing.T) {
	existing := []models.Appointment{
		booked("morning", at(9, 0), 120, StatusConfirmed),
		booked("cancelled", at(12, 0), 60, StatusCancelled),
		booked("afternoon", at(14, 0), 180, StatusPending),
	}

	tests := []struct {
		name      string
		candidate Interval
		ignore    string
		want      string
	}{
		{"inside existing", NewInterval(at(10, 0), 30*time.Minute), "", "morning"},
		{"abuts end", NewInterval(at(11, 0), time.Hour), "", ""},
		{"abuts start", NewInterval(at(13, 0), time.Hour), "", ""},
		{"one minute overlap", NewInterval(at(10, 59), 30*time.Minute), "", "morning"},
		{"cancelled slot is free", NewInterval(at(12, 0), time.Hour), "", ""},
		{"covers both", NewInterval(at(8, 0), 10*time.Hour), "", "morning"},
		{"ignored self", NewInterval(at(9, 30), time.Hour), "morning", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := FindConflict(tt.candidate, existing, tt.ignore)
			if tt.want == "" {
				if found {
					t.Fatalf("unexpected conflict with %s", got.ID)
				}
				return
			}
			if !found || got.ID != tt.want {
				t.Fatalf("expected conflict with %s, got %q (found=%v)", tt.want, got.ID, found)
			}
		})
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	ap := booked("a1", at(9, 0), 60, StatusConfirmed)
	now := at(8, 0)

	changed, err := Cancel(&ap, now)
	if err != nil || !changed {
		t.Fatalf("first cancel: changed=%v err=%v", changed, err)
	}
	if ap.Status != models.AppointmentCancelled || ap.CancelledAt == nil {
		t.Fatalf("unexpected appointment %+v", ap)
	}

	changed, err = Cancel(&ap, now.Add(time.Minute))
	if err != nil || changed {
		t.Fatalf("second cancel: changed=%v err=%v", changed, err)
	}
	if !ap.CancelledAt.Equal(now) {
		t.Fatal("second cancel rewrote cancelled_at")
	}
}

func TestConfirmTransitions(t *testing.T) {
	pending := booked("a1", at(9, 0), 60, StatusPending)
	if changed, err := Confirm(&pending, at(8, 0)); err != nil || !changed {
		t.Fatalf("confirm pending: changed=%v err=%v", changed, err)
	}
	if changed, err := Confirm(&pending, at(8, 0)); err != nil || changed {
		t.Fatalf("confirm confirmed: changed=%v err=%v", changed, err)
	}

	cancelled := booked("a2", at(9, 0), 60, StatusCancelled)
	if _, err := Confirm(&cancelled, at(8, 0)); !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("expected invalid_state, got %v", err)
	}
}

func TestBusyAndFreeIntervals(t *testing.T) {
	window := Interval{Start: at(9, 0), End: at(18, 0)}
	aps := []models.Appointment{
		booked("a", at(8, 0), 120, StatusConfirmed),
		booked("b", at(9, 30), 60, StatusPending),
		booked("c", at(14, 0), 60, StatusCancelled),
		booked("d", at(16, 0), 180, StatusConfirmed),
	}

	busy := BusyIntervals(window, aps)
	wantBusy := []Interval{
		{Start: at(9, 0), End: at(10, 30)},
		{Start: at(16, 0), End: at(18, 0)},
	}
	if len(busy) != len(wantBusy) {
		t.Fatalf("expected %d busy intervals, got %v", len(wantBusy), busy)
	}
	for i := range wantBusy {
		if !busy[i].Start.Equal(wantBusy[i].Start) || !busy[i].End.Equal(wantBusy[i].End) {
			t.Fatalf("busy[%d]: expected %v, got %v", i, wantBusy[i], busy[i])
		}
	}

	free := FreeIntervals(window, busy)
	if len(free) != 1 || !free[0].Start.Equal(at(10, 30)) || !free[0].End.Equal(at(16, 0)) {
		t.Fatalf("unexpected free intervals %v", free)
	}

	slots := SlotStarts(free, 2*time.Hour, time.Hour, at(11, 0))
	// 10:30 is before notBefore; 11:30, 12:30, 13:30 fit; 14:30 would end at 16:30.
	want := []time.Time{at(11, 30), at(12, 30), at(13, 30)}
	if len(slots) != len(want) {
		t.Fatalf("expected %d slots, got %v", len(want), slots)
	}
	for i := range want {
		if !slots[i].Equal(want[i]) {
			t.Fatalf("slot %d: expected %s, got %s", i, want[i], slots[i])
		}
	}
}

func TestPolicyValidate(t *testing.T) {
	p := Policy{
		Location:             time.UTC,
		Granularity:          15 * time.Minute,
		OpensAt:              9 * time.Hour,
		ClosesAt:             18 * time.Hour,
		EnforceBusinessHours: true,
		Clock:                func() time.Time { return at(8, 0) },
	}

	tests := []struct {
		name  string
		start time.Time
		d     time.Duration
		field string
		code  string
	}{
		{"ok", at(9, 0), 2 * time.Hour, "", ""},
		{"ends at closing", at(17, 0), time.Hour, "", ""},
		{"zero duration", at(9, 0), 0, "duration_min", "out_of_range"},
		{"negative duration", at(9, 0), -time.Hour, "duration_min", "out_of_range"},
		{"off grid start", at(9, 10), time.Hour, "start_time", "off_grid"},
		{"off grid duration", at(9, 0), 50 * time.Minute, "duration_min", "off_grid"},
		{"in the past", at(7, 0), time.Hour, "start_time", "in_the_past"},
		{"before opening", jan15.AddDate(0, 0, 1).Add(8 * time.Hour), time.Hour, "start_time", "outside_business_hours"},
		{"after closing", at(17, 30), time.Hour, "start_time", "outside_business_hours"},
		{"crosses midnight", at(23, 0), 2 * time.Hour, "start_time", "outside_business_hours"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.Validate(tt.start, tt.d)
			if tt.code == "" {
				if err != nil {
					t.Fatalf("unexpected error %v", err)
				}
				return
			}
			ve, ok := httperr.AsValidation(err)
			if !ok || ve.Field != tt.field || ve.Code != tt.code {
				t.Fatalf("expected %s/%s, got %v", tt.field, tt.code, err)
			}
		})
	}
}

func TestPolicyAllowsPastWhenConfigured(t *testing.T) {
	p := Policy{AllowPastBookings: true, Clock: func() time.Time { return at(12, 0) }}
	if err := p.Validate(at(9, 0), time.Hour); err != nil {
		t.Fatalf("expected past booking to be accepted, got %v", err)
	}
}

func TestParseClock(t *testing.T) {
	got, err := ParseClock("09:30")
	if err != nil || got != 9*time.Hour+30*time.Minute {
		t.Fatalf("got %s, %v", got, err)
	}
	if _, err := ParseClock("9am"); err == nil {
		t.Fatal("expected error")
	}
}

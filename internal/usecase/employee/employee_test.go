package employee

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/BruksfildServices01/studio-booking/internal/audit"
	domain "github.com/BruksfildServices01/studio-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/studio-booking/internal/httperr"
	"github.com/BruksfildServices01/studio-booking/internal/models"
	"github.com/BruksfildServices01/studio-booking/internal/store"
)

var now = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*store.Store, domain.Policy) {
	t.Helper()
	s := store.New(store.WithClock(func() time.Time { return now }))
	p := domain.Policy{Location: time.UTC, Clock: func() time.Time { return now }}

	ctx := context.Background()
	for _, e := range []models.Employee{
		{ID: "carlos", Name: "Carlos Mendoza", Email: "carlos@studio.es", Specialty: "Realismo", Role: models.RoleAdmin, Status: models.EmployeeActive},
		{ID: "ana", Name: "Ana García", Email: "ana@studio.es", Specialty: "Fine line, blackwork", Role: models.RoleEmployee, Status: models.EmployeeActive},
	} {
		if _, err := s.UpsertEmployee(ctx, e); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	if _, err := s.UpsertClient(ctx, models.Client{ID: "maria", Name: "María", Phone: "+34666123456"}); err != nil {
		t.Fatalf("seed client: %v", err)
	}
	return s, p
}

func TestUpsertEmployee(t *testing.T) {
	s, p := setup(t)
	ctx := context.Background()
	uc := NewUpsertEmployee(s, p, audit.Nop{})

	created, err := uc.Execute(ctx, UpsertEmployeeInput{Name: " Luis Pérez ", Color: "#3366FF", WeeklyHours: 40})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Name != "Luis Pérez" || created.Role != models.RoleEmployee || created.Status != models.EmployeeActive || created.Color != "#3366ff" {
		t.Fatalf("unexpected defaults %+v", created)
	}
	if !created.JoinedAt.Equal(now) {
		t.Fatalf("expected joined_at %s, got %s", now, created.JoinedAt)
	}

	updated, err := uc.Execute(ctx, UpsertEmployeeInput{ID: created.ID, Name: "Luis Pérez", Status: models.EmployeeInactive})
	if err != nil || updated.Status != models.EmployeeInactive || updated.Role != models.RoleEmployee {
		t.Fatalf("update: %+v, %v", updated, err)
	}

	tests := []struct {
		name  string
		in    UpsertEmployeeInput
		field string
		code  string
	}{
		{"missing name", UpsertEmployeeInput{}, "name", "required"},
		{"bad email", UpsertEmployeeInput{Name: "X", Email: "x@"}, "email", "invalid_email"},
		{"bad color", UpsertEmployeeInput{Name: "X", Color: "red"}, "color", "invalid_color"},
		{"too many hours", UpsertEmployeeInput{Name: "X", WeeklyHours: 200}, "weekly_hours", "out_of_range"},
		{"unknown role", UpsertEmployeeInput{Name: "X", Role: "owner"}, "role", "invalid_value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(ctx, tt.in)
			ve, ok := httperr.AsValidation(err)
			if !ok || ve.Field != tt.field || ve.Code != tt.code {
				t.Fatalf("expected %s/%s, got %v", tt.field, tt.code, err)
			}
		})
	}

	if _, err := uc.Execute(ctx, UpsertEmployeeInput{ID: "ghost", Name: "Ghost"}); !httperr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteEmployee(t *testing.T) {
	s, p := setup(t)
	ctx := context.Background()
	uc := NewDeleteEmployee(s, p, audit.Nop{})

	if err := uc.Execute(ctx, "carlos"); !httperr.IsBusiness(err, "admin_not_deletable") {
		t.Fatalf("expected admin_not_deletable, got %v", err)
	}

	past := models.Appointment{ID: "past", ClientID: "maria", EmployeeID: "ana", StartTime: now.Add(-48 * time.Hour), DurationMin: 60, Status: models.AppointmentConfirmed}
	upcoming := models.Appointment{ID: "upcoming", ClientID: "maria", EmployeeID: "ana", StartTime: now.Add(24 * time.Hour), DurationMin: 60, Status: models.AppointmentPending}
	if _, err := s.Commit(ctx, store.Changeset{Appointments: []models.Appointment{past, upcoming}}); err != nil {
		t.Fatalf("seed appointments: %v", err)
	}

	if err := uc.Execute(ctx, "ana"); !httperr.IsBusiness(err, "employee_has_upcoming_appointments") {
		t.Fatalf("expected upcoming appointments refusal, got %v", err)
	}

	upcoming.Status = models.AppointmentCancelled
	if _, err := s.PutAppointment(ctx, upcoming); err != nil {
		t.Fatalf("cancel upcoming: %v", err)
	}

	if err := uc.Execute(ctx, "ana"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	snap := s.Snapshot()
	if _, ok := snap.Employee("ana"); ok {
		t.Fatal("employee still present")
	}
	if ap, ok := snap.Appointment("past"); !ok || ap.EmployeeID != "ana" {
		t.Fatal("past appointment should be kept as orphan")
	}

	if err := uc.Execute(ctx, "ana"); !httperr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpsertDoesNotResurrectDeletedEmployee(t *testing.T) {
	s, p := setup(t)
	ctx := context.Background()
	uc := NewUpsertEmployee(s, p, audit.Nop{})

	release, err := s.LockEmployees(ctx, "ana")
	if err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := uc.Execute(ctx, UpsertEmployeeInput{ID: "ana", Name: "Ana G."})
		done <- err
	}()

	// Deleted while the update waits for the schedule lock.
	if err := s.DeleteEmployee(ctx, "ana"); err != nil {
		t.Fatal(err)
	}
	release()

	if err := <-done; !httperr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, ok := s.Snapshot().Employee("ana"); ok {
		t.Fatal("deleted employee came back")
	}
}

func TestUpsertEmployeeHonoursContextWhileLocked(t *testing.T) {
	s, p := setup(t)
	uc := NewUpsertEmployee(s, p, audit.Nop{})

	release, err := s.LockEmployees(context.Background(), "ana")
	if err != nil {
		t.Fatal(err)
	}
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := uc.Execute(ctx, UpsertEmployeeInput{ID: "ana", Name: "Ana G."}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestSearchEmployees(t *testing.T) {
	s, _ := setup(t)
	uc := NewSearchEmployees(s)

	tests := []struct {
		term string
		want []string
	}{
		{"", []string{"Ana García", "Carlos Mendoza"}},
		{"REAL", []string{"Carlos Mendoza"}},
		{"blackwork", []string{"Ana García"}},
		{"studio.es", []string{"Ana García", "Carlos Mendoza"}},
		{"nobody", nil},
	}
	for _, tt := range tests {
		got, _ := uc.Execute(context.Background(), tt.term)
		if len(got) != len(tt.want) {
			t.Fatalf("%q: expected %v, got %d", tt.term, tt.want, len(got))
		}
		for i := range got {
			if got[i].Name != tt.want[i] {
				t.Fatalf("%q: result %d expected %s, got %s", tt.term, i, tt.want[i], got[i].Name)
			}
		}
	}
}

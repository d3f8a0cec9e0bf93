package client

import (
	"context"
	"testing"
	"time"

	"github.com/BruksfildServices01/studio-booking/internal/audit"
	domain "github.com/BruksfildServices01/studio-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/studio-booking/internal/httperr"
	"github.com/BruksfildServices01/studio-booking/internal/models"
	"github.com/BruksfildServices01/studio-booking/internal/store"
)

var now = time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*store.Store, domain.Policy) {
	t.Helper()
	s := store.New(store.WithClock(func() time.Time { return now }))
	p := domain.Policy{Location: time.UTC, PhoneRegion: "ES", Clock: func() time.Time { return now }}

	upsert := NewUpsertClient(s, p, audit.Nop{})
	for _, in := range []UpsertClientInput{
		{Name: "María González", Phone: "+34 666 123 456", Email: "maria@example.com"},
		{Name: "Lucía Fernández", Phone: "677987654", Email: "lucia@tattoo.es"},
		{Name: "Pedro Ruiz", Phone: "688456789"},
	} {
		if _, err := upsert.Execute(context.Background(), in); err != nil {
			t.Fatalf("seed %s: %v", in.Name, err)
		}
	}
	return s, p
}

func TestUpsertClient(t *testing.T) {
	s, p := setup(t)
	ctx := context.Background()
	uc := NewUpsertClient(s, p, audit.Nop{})

	maria, ok := s.Snapshot().ClientByPhone("+34666123456")
	if !ok || maria.Status != models.ClientActive {
		t.Fatalf("expected normalised phone lookup, got %+v", maria)
	}

	updated, err := uc.Execute(ctx, UpsertClientInput{ID: maria.ID, Name: "María G.", Phone: "666 123 456", Notes: "prefers mornings"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "María G." || updated.Notes != "prefers mornings" || !updated.CreatedAt.Equal(maria.CreatedAt) {
		t.Fatalf("unexpected update %+v", updated)
	}

	_, err = uc.Execute(ctx, UpsertClientInput{Name: "Copycat", Phone: "+34666123456"})
	if ve, ok := httperr.AsValidation(err); !ok || ve.Code != "already_registered" {
		t.Fatalf("expected duplicate phone error, got %v", err)
	}

	_, err = uc.Execute(ctx, UpsertClientInput{ID: "ghost", Name: "Ghost", Phone: "+34699000111"})
	if !httperr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}

	_, err = uc.Execute(ctx, UpsertClientInput{Name: "  ", Phone: "+34699000111"})
	if ve, ok := httperr.AsValidation(err); !ok || ve.Field != "name" {
		t.Fatalf("expected name validation, got %v", err)
	}
}

func TestDeactivateClient(t *testing.T) {
	s, p := setup(t)
	ctx := context.Background()
	uc := NewDeactivateClient(s, p, audit.Nop{})

	pedro, _ := s.Snapshot().ClientByPhone("+34688456789")
	got, err := uc.Execute(ctx, pedro.ID)
	if err != nil || got.Status != models.ClientInactive {
		t.Fatalf("deactivate: %+v, %v", got, err)
	}

	version := s.Snapshot().Version()
	if _, err := uc.Execute(ctx, pedro.ID); err != nil {
		t.Fatalf("second deactivate: %v", err)
	}
	if s.Snapshot().Version() != version {
		t.Fatal("second deactivate committed")
	}

	if _, err := uc.Execute(ctx, "ghost"); !httperr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestConcurrentClientWritesKeepBothChanges(t *testing.T) {
	s, p := setup(t)
	ctx := context.Background()
	update := NewUpsertClient(s, p, audit.Nop{})
	deactivate := NewDeactivateClient(s, p, audit.Nop{})

	maria, _ := s.Snapshot().ClientByPhone("+34666123456")

	release, err := s.LockClients(ctx, maria.ID)
	if err != nil {
		t.Fatal(err)
	}

	updated := make(chan error, 1)
	go func() {
		_, err := update.Execute(ctx, UpsertClientInput{ID: maria.ID, Name: maria.Name, Phone: maria.Phone, Notes: "allergic to latex"})
		updated <- err
	}()
	deactivated := make(chan error, 1)
	go func() {
		_, err := deactivate.Execute(ctx, maria.ID)
		deactivated <- err
	}()

	release()
	if err := <-updated; err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := <-deactivated; err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	got, _ := s.Snapshot().Client(maria.ID)
	if got.Status != models.ClientInactive || got.Notes != "allergic to latex" {
		t.Fatalf("a concurrent write was lost: %+v", got)
	}
}

func TestSearchClients(t *testing.T) {
	s, p := setup(t)
	ctx := context.Background()
	search := NewSearchClients(s)

	pedro, _ := s.Snapshot().ClientByPhone("+34688456789")
	if _, err := NewDeactivateClient(s, p, audit.Nop{}).Execute(ctx, pedro.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	tests := []struct {
		name       string
		term       string
		activeOnly bool
		want       []string
	}{
		{"by name any case", "MARÍA", false, []string{"María González"}},
		{"by phone", "677", false, []string{"Lucía Fernández"}},
		{"by email domain", "tattoo", false, []string{"Lucía Fernández"}},
		{"empty lists all by name", "", false, []string{"Lucía Fernández", "María González", "Pedro Ruiz"}},
		{"active only", "", true, []string{"Lucía Fernández", "María González"}},
		{"no match", "zzz", false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := search.Execute(ctx, tt.term, tt.activeOnly)
			if err != nil {
				t.Fatalf("search: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %d clients", tt.want, len(got))
			}
			for i, c := range got {
				if c.Name != tt.want[i] {
					t.Fatalf("result %d: expected %s, got %s", i, tt.want[i], c.Name)
				}
			}
		})
	}
}

package audit

import (
	"context"
	"testing"
	"time"

	"github.com/BruksfildServices01/studio-booking/internal/models"
)

func TestDispatcherDrainsOnClose(t *testing.T) {
	sink := NewMemorySink()
	d := NewDispatcher(sink, nil)

	for i := 0; i < 10; i++ {
		d.Dispatch(Event{Action: "appointment.created", Entity: "appointment", EntityID: "a1", Metadata: map[string]int{"n": i}})
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := d.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}

	logs, total, err := sink.List(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 10 || len(logs) != 10 {
		t.Fatalf("expected 10 rows, got %d (total %d)", len(logs), total)
	}
	if logs[0].Metadata == "" {
		t.Fatal("expected metadata to be JSON encoded")
	}

	// after close events are ignored
	d.Dispatch(Event{Action: "late"})
	if err := d.Close(ctx); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestMemorySinkFilterAndPaging(t *testing.T) {
	sink := NewMemorySink()
	base := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		action := "appointment.created"
		if i%2 == 1 {
			action = "appointment.cancelled"
		}
		_ = sink.Write(context.Background(), models.AuditLog{
			Action:    action,
			Entity:    "appointment",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}

	tests := []struct {
		name      string
		filter    Filter
		wantLen   int
		wantTotal int64
	}{
		{"all", Filter{}, 5, 5},
		{"by action", Filter{Action: "appointment.cancelled"}, 2, 2},
		{"by range", Filter{From: base.Add(time.Hour), To: base.Add(3 * time.Hour)}, 2, 2},
		{"second page", Filter{Page: 2, Limit: 2}, 2, 5},
		{"past the end", Filter{Page: 4, Limit: 2}, 0, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs, total, err := sink.List(context.Background(), tt.filter)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(logs) != tt.wantLen || total != tt.wantTotal {
				t.Fatalf("expected %d/%d, got %d/%d", tt.wantLen, tt.wantTotal, len(logs), total)
			}
		})
	}

	logs, _, _ := sink.List(context.Background(), Filter{})
	if !logs[0].CreatedAt.Equal(base.Add(4 * time.Hour)) {
		t.Fatalf("expected newest first, got %s", logs[0].CreatedAt)
	}
}

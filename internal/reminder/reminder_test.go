package reminder

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func testBooking() Booking {
	return Booking{
		AppointmentID: "a1",
		ClientName:    "Ana",
		ClientPhone:   "+34600000001",
		EmployeeName:  "Leo",
		Start:         time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
	}
}

func TestTemplateRender(t *testing.T) {
	tmpl := Template{Text: "Hi {name}, {business} on {date} at {time} with {employee}. {unknown}", Business: "Ink"}
	got := tmpl.Render(testBooking())
	want := "Hi Ana, Ink on 15/01/2024 at 09:00 with Leo. {unknown}"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestPlan(t *testing.T) {
	b := testBooking()
	offsets := []time.Duration{48 * time.Hour, 24 * time.Hour}
	tmpl := Template{Text: "{name}"}

	tests := []struct {
		name string
		now  time.Time
		want []string
	}{
		{"both ahead", b.Start.Add(-72 * time.Hour), []string{"reminder:a1:48h0m0s", "reminder:a1:24h0m0s"}},
		{"first passed", b.Start.Add(-30 * time.Hour), []string{"reminder:a1:24h0m0s"}},
		{"exactly at fire time", b.Start.Add(-24 * time.Hour), nil},
		{"booking soon", b.Start.Add(-time.Hour), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Plan(b, tmpl, offsets, tt.now)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d reminders, got %d", len(tt.want), len(got))
			}
			for i, r := range got {
				if r.TaskID != tt.want[i] {
					t.Fatalf("reminder %d: expected %s, got %s", i, tt.want[i], r.TaskID)
				}
				if r.Payload.Message != "Ana" || r.Payload.Phone != b.ClientPhone {
					t.Fatalf("unexpected payload %+v", r.Payload)
				}
			}
		})
	}
}

type recordingSender struct {
	phone, message string
	err            error
}

func (s *recordingSender) Send(_ context.Context, phone, message string) error {
	s.phone, s.message = phone, message
	return s.err
}

func TestHandleSend(t *testing.T) {
	sender := &recordingSender{}
	h := HandleSend(sender, zap.NewNop())

	body, _ := json.Marshal(Payload{AppointmentID: "a1", Phone: "+34600000001", Message: "hola"})
	if err := h(context.Background(), asynq.NewTask(TypeSendReminder, body)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sender.phone != "+34600000001" || sender.message != "hola" {
		t.Fatalf("unexpected send %+v", sender)
	}

	err := h(context.Background(), asynq.NewTask(TypeSendReminder, []byte("{")))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry for bad payload, got %v", err)
	}

	sender.err = errors.New("provider down")
	if err := h(context.Background(), asynq.NewTask(TypeSendReminder, body)); err == nil {
		t.Fatal("expected send error to be returned for retry")
	}
}

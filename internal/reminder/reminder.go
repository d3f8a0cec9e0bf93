package reminder

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hibiken/asynq"
)

const TypeSendReminder = "reminder:send"

// Booking is what a reminder is rendered from. Start is in business time.
type Booking struct {
	AppointmentID string
	ClientName    string
	ClientPhone   string
	EmployeeName  string
	Start         time.Time
}

type Payload struct {
	AppointmentID string    `json:"appointment_id"`
	Phone         string    `json:"phone"`
	Message       string    `json:"message"`
	FireAt        time.Time `json:"fire_at"`
}

// Reminder is one planned send.
type Reminder struct {
	TaskID  string
	FireAt  time.Time
	Payload Payload
}

// Scheduler queues reminders for a booking and removes them again.
type Scheduler interface {
	Schedule(ctx context.Context, b Booking) error
	Cancel(ctx context.Context, appointmentID string) error
}

// Template renders the message text. Supported placeholders are {name},
// {business}, {date}, {time} and {employee}.
type Template struct {
	Text     string
	Business string
}

func (t Template) Render(b Booking) string {
	r := strings.NewReplacer(
		"{name}", b.ClientName,
		"{business}", t.Business,
		"{date}", b.Start.Format("02/01/2006"),
		"{time}", b.Start.Format("15:04"),
		"{employee}", b.EmployeeName,
	)
	return r.Replace(t.Text)
}

func TaskID(appointmentID string, offset time.Duration) string {
	return fmt.Sprintf("reminder:%s:%s", appointmentID, offset)
}

// Plan lists the reminders to send before b.Start, one per offset,
// skipping those whose fire time is not after now.
func Plan(b Booking, tmpl Template, offsets []time.Duration, now time.Time) []Reminder {
	msg := tmpl.Render(b)

	var out []Reminder
	for _, off := range offsets {
		fireAt := b.Start.Add(-off)
		if !fireAt.After(now) {
			continue
		}
		out = append(out, Reminder{
			TaskID: TaskID(b.AppointmentID, off),
			FireAt: fireAt,
			Payload: Payload{
				AppointmentID: b.AppointmentID,
				Phone:         b.ClientPhone,
				Message:       msg,
				FireAt:        fireAt,
			},
		})
	}
	return out
}

func newTask(r Reminder) (*asynq.Task, error) {
	b, err := json.Marshal(r.Payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeSendReminder, b), nil
}

// Nop drops every reminder.
type Nop struct{}

func (Nop) Schedule(context.Context, Booking) error { return nil }
func (Nop) Cancel(context.Context, string) error    { return nil }

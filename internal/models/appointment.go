package models

import "time"

const (
	AppointmentPending   = "pending"
	AppointmentConfirmed = "confirmed"
	AppointmentCancelled = "cancelled"
)

type Appointment struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	ClientID   string `gorm:"size:36;index" json:"client_id"`
	EmployeeID string `gorm:"size:36;index:idx_appointments_employee_start" json:"employee_id"`

	StartTime   time.Time `gorm:"index:idx_appointments_employee_start" json:"start_time"`
	DurationMin int       `gorm:"not null" json:"duration_min"`

	Service string `gorm:"size:255" json:"service"`
	Status  string `gorm:"size:20;default:'pending'" json:"status"`

	BudgetCents *int64 `json:"budget_cents,omitempty"`
	Currency    string `gorm:"size:3" json:"currency,omitempty"`

	Notes           string  `gorm:"type:text" json:"notes,omitempty"`
	ReferenceImage  string  `gorm:"size:255" json:"reference_image,omitempty"`
	RescheduledFrom *string `gorm:"size:36" json:"rescheduled_from,omitempty"`

	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EndTime is the exclusive end of the booked interval.
func (a Appointment) EndTime() time.Time {
	return a.StartTime.Add(time.Duration(a.DurationMin) * time.Minute)
}

// Active reports whether the appointment still holds its slot.
func (a Appointment) Active() bool {
	return a.Status == AppointmentPending || a.Status == AppointmentConfirmed
}

package dto

import "time"

type AppointmentListDTO struct {
	ID          string    `json:"id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	DurationMin int       `json:"duration_min"`
	Status      string    `json:"status"`
	Service     string    `json:"service"`

	ClientID    string `json:"client_id"`
	ClientName  string `json:"client_name"`
	ClientPhone string `json:"client_phone"`

	EmployeeID    string `json:"employee_id"`
	EmployeeName  string `json:"employee_name,omitempty"`
	EmployeeColor string `json:"employee_color,omitempty"`

	BudgetCents    *int64 `json:"budget_cents,omitempty"`
	Currency       string `json:"currency,omitempty"`
	Notes          string `json:"notes,omitempty"`
	ReferenceImage string `json:"reference_image,omitempty"`

	RescheduledFrom *string `json:"rescheduled_from,omitempty"`
}

package models

import "time"

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"

	EmployeeActive   = "active"
	EmployeeInactive = "inactive"
)

type Employee struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	Name      string `gorm:"size:100;not null" json:"name"`
	Email     string `gorm:"size:100" json:"email,omitempty"`
	Specialty string `gorm:"size:255" json:"specialty,omitempty"`

	// Calendar colour, display only.
	Color string `gorm:"size:7" json:"color,omitempty"`

	WeeklyHours int    `json:"weekly_hours"`
	Role        string `gorm:"size:20;default:'employee'" json:"role"`
	Status      string `gorm:"size:20;default:'active'" json:"status"`

	JoinedAt  time.Time `json:"joined_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

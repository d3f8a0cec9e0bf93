package models

import "time"

const (
	ClientActive   = "active"
	ClientInactive = "inactive"
)

// Cliente do estúdio, sem login. Nunca é removido, apenas desativado.
type Client struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Phone string `gorm:"size:20;uniqueIndex" json:"phone"`
	Email string `gorm:"size:100" json:"email,omitempty"`
	Notes string `gorm:"type:text" json:"notes,omitempty"`

	Status string `gorm:"size:20;default:'active'" json:"status"`

	TotalAppointments int        `json:"total_appointments"`
	LastVisit         *time.Time `json:"last_visit,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package dto

type DashboardDTO struct {
	AppointmentsToday int `json:"appointments_today"`
	PendingToday      int `json:"pending_today"`
	Next24Hours       int `json:"next_24_hours"`

	TotalClients  int `json:"total_clients"`
	ActiveClients int `json:"active_clients"`

	ActiveEmployees int `json:"active_employees"`

	RevenueMonthCents int64  `json:"revenue_month_cents"`
	Currency          string `json:"currency"`

	Upcoming []AppointmentListDTO `json:"upcoming"`
}

type SettingsDTO struct {
	BusinessName         string `json:"business_name"`
	Timezone             string `json:"timezone"`
	Country              string `json:"country"`
	Currency             string `json:"currency"`
	OpeningTime          string `json:"opening_time"`
	ClosingTime          string `json:"closing_time"`
	EnforceBusinessHours bool   `json:"enforce_business_hours"`
	SlotGranularityMin   int    `json:"slot_granularity_min"`
	DefaultDurationMin   int    `json:"default_duration_min"`
	AllowPastBookings    bool   `json:"allow_past_bookings"`
	RemindersEnabled     bool   `json:"reminders_enabled"`
}

package dto

import "time"

type IntervalDTO struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type AvailabilityDTO struct {
	EmployeeID  string        `json:"employee_id"`
	Date        string        `json:"date"`
	DurationMin int           `json:"duration_min"`
	Window      IntervalDTO   `json:"window"`
	Busy        []IntervalDTO `json:"busy"`
	Free        []IntervalDTO `json:"free"`
	Slots       []time.Time   `json:"slots"`
}

// MonthOccupancyDTO maps day of month to the number of active appointments
// starting that day. Days without appointments are omitted.
type MonthOccupancyDTO struct {
	Year  int         `json:"year"`
	Month int         `json:"month"`
	Days  map[int]int `json:"days"`
}

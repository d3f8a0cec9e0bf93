package dto

import (
	"github.com/BruksfildServices01/studio-booking/internal/models"
	"github.com/BruksfildServices01/studio-booking/internal/store"
)

// AppointmentList joins each appointment with its client and employee as
// seen in snap. Orphaned appointments keep empty employee fields.
func AppointmentList(snap *store.Snapshot, aps []models.Appointment) []AppointmentListDTO {
	out := make([]AppointmentListDTO, 0, len(aps))
	for _, ap := range aps {
		d := AppointmentListDTO{
			ID:              ap.ID,
			StartTime:       ap.StartTime,
			EndTime:         ap.EndTime(),
			DurationMin:     ap.DurationMin,
			Status:          ap.Status,
			Service:         ap.Service,
			ClientID:        ap.ClientID,
			EmployeeID:      ap.EmployeeID,
			BudgetCents:     ap.BudgetCents,
			Currency:        ap.Currency,
			Notes:           ap.Notes,
			ReferenceImage:  ap.ReferenceImage,
			RescheduledFrom: ap.RescheduledFrom,
		}
		if c, ok := snap.Client(ap.ClientID); ok {
			d.ClientName = c.Name
			d.ClientPhone = c.Phone
		}
		if e, ok := snap.Employee(ap.EmployeeID); ok {
			d.EmployeeName = e.Name
			d.EmployeeColor = e.Color
		}
		out = append(out, d)
	}
	return out
}

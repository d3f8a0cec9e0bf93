package repository

import (
	"reflect"
	"testing"

	"github.com/BruksfildServices01/studio-booking/internal/models"
	"github.com/BruksfildServices01/studio-booking/internal/store"
)

func TestScheduleLockKeys(t *testing.T) {
	tests := []struct {
		name string
		cs   store.Changeset
		want []string
	}{
		{
			name: "no appointments",
			cs:   store.Changeset{Clients: []models.Client{{ID: "maria"}}},
			want: nil,
		},
		{
			name: "reschedule across employees is sorted and unique",
			cs: store.Changeset{Appointments: []models.Appointment{
				{ID: "new", EmployeeID: "luis", Status: models.AppointmentConfirmed},
				{ID: "b", EmployeeID: "ana", Status: models.AppointmentPending},
				{ID: "c", EmployeeID: "luis", Status: models.AppointmentPending},
			}},
			want: []string{"ana", "luis"},
		},
		{
			name: "cancellations need no lock",
			cs: store.Changeset{Appointments: []models.Appointment{
				{ID: "old", EmployeeID: "carlos", Status: models.AppointmentCancelled},
				{ID: "new", EmployeeID: "ana", Status: models.AppointmentPending},
			}},
			want: []string{"ana"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scheduleLockKeys(tt.cs); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

package repository

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/studio-booking/internal/httperr"
	"github.com/BruksfildServices01/studio-booking/internal/models"
	"github.com/BruksfildServices01/studio-booking/internal/store"
)

// EntityGormRepository is the durable side of the entity store: it writes
// committed changesets and loads everything back at startup.
type EntityGormRepository struct {
	db *gorm.DB
}

func NewEntityGormRepository(db *gorm.DB) *EntityGormRepository {
	return &EntityGormRepository{db: db}
}

// --------------------------------------------------
// Persist
// --------------------------------------------------

func (r *EntityGormRepository) Persist(
	ctx context.Context,
	cs store.Changeset,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Serialise bookings per employee across instances. The lock is held
		// until commit, so the overlap query below (a fresh statement under
		// READ COMMITTED) sees whatever the previous holder committed.
		for _, id := range scheduleLockKeys(cs) {
			if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", "schedule:"+id).Error; err != nil {
				return fmt.Errorf("lock schedule %s: %w", id, err)
			}
		}

		upsert := tx.Clauses(clause.OnConflict{UpdateAll: true})

		if len(cs.Clients) > 0 {
			if err := upsert.Create(&cs.Clients).Error; err != nil {
				return fmt.Errorf("upsert clients: %w", err)
			}
		}

		if len(cs.Employees) > 0 {
			if err := upsert.Create(&cs.Employees).Error; err != nil {
				return fmt.Errorf("upsert employees: %w", err)
			}
		}

		if len(cs.Appointments) > 0 {
			if err := upsert.Create(&cs.Appointments).Error; err != nil {
				return fmt.Errorf("upsert appointments: %w", err)
			}
		}

		// Another instance sharing the database may have booked the slot.
		for _, ap := range cs.Appointments {
			if !ap.Active() {
				continue
			}
			if err := assertNoOverlap(tx, ap); err != nil {
				return err
			}
		}

		if len(cs.DeletedEmployees) > 0 {
			if err := tx.
				Where("id IN ?", cs.DeletedEmployees).
				Delete(&models.Employee{}).Error; err != nil {
				return fmt.Errorf("delete employees: %w", err)
			}
		}

		return nil
	})
}

// scheduleLockKeys lists, sorted, the employees whose schedules cs books
// into. A fixed order keeps two instances from deadlocking.
func scheduleLockKeys(cs store.Changeset) []string {
	seen := map[string]bool{}
	var ids []string
	for _, ap := range cs.Appointments {
		if !ap.Active() || seen[ap.EmployeeID] {
			continue
		}
		seen[ap.EmployeeID] = true
		ids = append(ids, ap.EmployeeID)
	}
	sort.Strings(ids)
	return ids
}

func assertNoOverlap(tx *gorm.DB, ap models.Appointment) error {
	var other models.Appointment
	err := tx.
		Model(&models.Appointment{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(
			"employee_id = ? AND id <> ? AND status IN ? AND start_time < ? AND start_time + make_interval(mins => duration_min) > ?",
			ap.EmployeeID,
			ap.ID,
			[]string{models.AppointmentPending, models.AppointmentConfirmed},
			ap.EndTime(),
			ap.StartTime,
		).
		Order("start_time ASC").
		Limit(1).
		Find(&other).Error
	if err != nil {
		return fmt.Errorf("check overlap: %w", err)
	}

	if other.ID != "" {
		return httperr.ErrConflict(other.ID)
	}
	return nil
}

// --------------------------------------------------
// Load
// --------------------------------------------------

func (r *EntityGormRepository) LoadAll(ctx context.Context) (store.Changeset, error) {
	var cs store.Changeset
	db := r.db.WithContext(ctx)

	if err := db.Order("id").Find(&cs.Clients).Error; err != nil {
		return store.Changeset{}, fmt.Errorf("load clients: %w", err)
	}
	if err := db.Order("id").Find(&cs.Employees).Error; err != nil {
		return store.Changeset{}, fmt.Errorf("load employees: %w", err)
	}
	if err := db.Order("start_time, id").Find(&cs.Appointments).Error; err != nil {
		return store.Changeset{}, fmt.Errorf("load appointments: %w", err)
	}

	return cs, nil
}

// Compile-time check
var (
	_ store.Persister = (*EntityGormRepository)(nil)
	_ store.Loader    = (*EntityGormRepository)(nil)
)

package appointment

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/studio-booking/internal/audit"
	domain "github.com/BruksfildServices01/studio-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/studio-booking/internal/httperr"
	"github.com/BruksfildServices01/studio-booking/internal/models"
	"github.com/BruksfildServices01/studio-booking/internal/reminder"
	"github.com/BruksfildServices01/studio-booking/internal/store"
	"github.com/BruksfildServices01/studio-booking/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

// CreateAppointmentInput names the client either by ClientID or by phone;
// an unknown phone registers a new client with ClientName.
type CreateAppointmentInput struct {
	EmployeeID string `validate:"required"`

	ClientID    string
	ClientName  string `validate:"max=100"`
	ClientPhone string `validate:"required_without=ClientID"`
	ClientEmail string `validate:"omitempty,email"`

	StartTime   time.Time `validate:"required"`
	DurationMin int       `validate:"gte=0,lte=1440"`

	Service        string `validate:"max=255"`
	BudgetCents    *int64 `validate:"omitempty,gte=0"`
	Notes          string
	ReferenceImage string `validate:"max=255"`
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo      domain.Repository
	policy    domain.Policy
	audit     audit.Recorder
	reminders reminder.Scheduler
	log       *zap.Logger
}

func NewCreateAppointment(
	repo domain.Repository,
	policy domain.Policy,
	audit audit.Recorder,
	reminders reminder.Scheduler,
	log *zap.Logger,
) *CreateAppointment {
	return &CreateAppointment{
		repo:      repo,
		policy:    policy,
		audit:     audit,
		reminders: reminders,
		log:       orNop(log),
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (models.Appointment, error) {

	// --------------------------------------------------
	// 1️⃣ Input + policy
	// --------------------------------------------------
	if err := validators.Struct(in); err != nil {
		return models.Appointment{}, err
	}

	d := bookingDuration(uc.policy, in.DurationMin)
	start := in.StartTime.In(uc.policy.Loc())

	if err := uc.policy.Validate(start, d); err != nil {
		return models.Appointment{}, err
	}

	// --------------------------------------------------
	// 2️⃣ Employee schedule lock
	// --------------------------------------------------
	release, err := uc.repo.LockEmployees(ctx, in.EmployeeID)
	if err != nil {
		return models.Appointment{}, err
	}
	defer release()

	snap := uc.repo.Snapshot()
	now := uc.policy.Now()

	if _, err := bookableEmployee(snap, in.EmployeeID); err != nil {
		return models.Appointment{}, err
	}

	// --------------------------------------------------
	// 3️⃣ Client (get or create)
	// --------------------------------------------------
	client, clientChanged, err := resolveClient(snap, uc.policy, clientRef{
		ID:    in.ClientID,
		Name:  in.ClientName,
		Phone: in.ClientPhone,
		Email: in.ClientEmail,
	}, now)
	if err != nil {
		return models.Appointment{}, err
	}

	// Reactivating an existing client rewrites its record: take its lock
	// and resolve again against the latest snapshot.
	if clientChanged && client.ID != "" {
		if _, exists := snap.Client(client.ID); exists {
			releaseClient, err := uc.repo.LockClients(ctx, client.ID)
			if err != nil {
				return models.Appointment{}, err
			}
			defer releaseClient()

			snap = uc.repo.Snapshot()
			client, clientChanged, err = resolveClient(snap, uc.policy, clientRef{ID: client.ID}, now)
			if err != nil {
				return models.Appointment{}, err
			}
		}
	}

	// --------------------------------------------------
	// 4️⃣ Conflito de horário
	// --------------------------------------------------
	candidate := domain.NewInterval(start, d)
	if err := checkConflict(snap, uc.policy, in.EmployeeID, candidate, ""); err != nil {
		ce, _ := httperr.AsConflict(err)
		uc.audit.Dispatch(audit.Event{
			Action:   "appointment.conflict",
			Entity:   "employee",
			EntityID: in.EmployeeID,
			Metadata: map[string]any{
				"start":       start,
				"duration":    int(d / time.Minute),
				"conflicting": ce.ConflictingAppointmentID,
			},
		})
		return models.Appointment{}, err
	}

	// --------------------------------------------------
	// 5️⃣ Commit
	// --------------------------------------------------
	ap := models.Appointment{
		ID:             uuid.NewString(),
		ClientID:       client.ID,
		EmployeeID:     in.EmployeeID,
		StartTime:      start,
		DurationMin:    int(d / time.Minute),
		Service:        strings.TrimSpace(in.Service),
		Status:         string(domain.InitialStatus()),
		BudgetCents:    in.BudgetCents,
		Notes:          in.Notes,
		ReferenceImage: in.ReferenceImage,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if ap.BudgetCents != nil {
		ap.Currency = uc.policy.Currency
	}

	cs := store.Changeset{Appointments: []models.Appointment{ap}}
	if clientChanged {
		cs.Clients = []models.Client{client}
	}

	snap, err = uc.repo.Commit(ctx, cs)
	if err != nil {
		return models.Appointment{}, err
	}

	// --------------------------------------------------
	// 6️⃣ Auditoria + lembretes
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		Action:   "appointment.created",
		Entity:   "appointment",
		EntityID: ap.ID,
		Metadata: map[string]any{"employee_id": ap.EmployeeID, "client_id": ap.ClientID},
	})

	created, _ := snap.Appointment(ap.ID)
	scheduleReminder(ctx, uc.reminders, uc.log, snap, uc.policy, created)

	return created, nil
}

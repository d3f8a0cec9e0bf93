package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/studio-booking/internal/httperr"
	"github.com/BruksfildServices01/studio-booking/internal/models"
)

var ErrClosed = errors.New("store: closed")

// Changeset is the unit of commit: it becomes visible entirely or not at all.
type Changeset struct {
	Clients          []models.Client
	Employees        []models.Employee
	Appointments     []models.Appointment
	DeletedEmployees []string
}

func (cs Changeset) Empty() bool {
	return len(cs.Clients) == 0 &&
		len(cs.Employees) == 0 &&
		len(cs.Appointments) == 0 &&
		len(cs.DeletedEmployees) == 0
}

// Persister writes a validated changeset to durable storage in one transaction.
type Persister interface {
	Persist(ctx context.Context, cs Changeset) error
}

// Loader reads the full data set used to hydrate the store at startup.
type Loader interface {
	LoadAll(ctx context.Context) (Changeset, error)
}

type Option func(*Store)

func WithPersister(p Persister) Option {
	return func(s *Store) { s.persister = p }
}

func WithLogger(log *zap.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithClock sets the clock used for derived client counters and for
// deciding at read time which bookings count as a visit.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store owns Clients, Employees and Appointments.
//
// Readers take a Snapshot and never block. Writers go through Commit, which
// is serialised by writeMu; callers that check-then-write (overlap checks)
// additionally hold the per-employee locks from LockEmployees.
type Store struct {
	current atomic.Pointer[Snapshot]

	writeMu sync.Mutex
	closed  bool

	locks sync.Map // "employee:{id}" / "client:{id}" -> chan struct{}

	persister Persister
	log       *zap.Logger
	now       func() time.Time
}

func New(opts ...Option) *Store {
	s := &Store{
		log: zap.NewNop(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.current.Store(emptySnapshot(uuid.NewString()[:8], s.now))
	return s
}

func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// Load replaces the contents with what l returns. It does not persist.
func (s *Store) Load(ctx context.Context, l Loader) error {
	cs, err := l.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load entities: %w", err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	cur := s.current.Load()
	base := emptySnapshot(cur.instance, cur.clock)
	base.version = cur.version
	s.current.Store(base.next(cs))

	s.log.Info("store loaded",
		zap.Int("clients", len(cs.Clients)),
		zap.Int("employees", len(cs.Employees)),
		zap.Int("appointments", len(cs.Appointments)),
	)
	return nil
}

// Commit validates cs against the latest snapshot, refreshes derived client
// counters, persists, and publishes the next snapshot. On any error the
// store is left unchanged.
func (s *Store) Commit(ctx context.Context, cs Changeset) (*Snapshot, error) {
	if cs.Empty() {
		return s.Snapshot(), nil
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}

	cur := s.current.Load()
	if err := cur.validate(cs); err != nil {
		return nil, err
	}

	cs = cur.withDerivedClients(cs, s.now())

	if s.persister != nil {
		if err := s.persister.Persist(ctx, cs); err != nil {
			s.log.Error("persist changeset failed", zap.Error(err))
			return nil, fmt.Errorf("persist changeset: %w", err)
		}
	}

	next := cur.next(cs)
	s.current.Store(next)
	return next, nil
}

// --------------------------------------------------
// Single-entity writes
// --------------------------------------------------

func (s *Store) UpsertClient(ctx context.Context, c models.Client) (models.Client, error) {
	snap, err := s.Commit(ctx, Changeset{Clients: []models.Client{c}})
	if err != nil {
		return models.Client{}, err
	}
	out, _ := snap.Client(c.ID)
	return out, nil
}

func (s *Store) UpsertEmployee(ctx context.Context, e models.Employee) (models.Employee, error) {
	snap, err := s.Commit(ctx, Changeset{Employees: []models.Employee{e}})
	if err != nil {
		return models.Employee{}, err
	}
	out, _ := snap.Employee(e.ID)
	return out, nil
}

// PutAppointment stores ap as is. It performs no overlap check; booking
// goes through the appointment use cases.
func (s *Store) PutAppointment(ctx context.Context, ap models.Appointment) (models.Appointment, error) {
	snap, err := s.Commit(ctx, Changeset{Appointments: []models.Appointment{ap}})
	if err != nil {
		return models.Appointment{}, err
	}
	out, _ := snap.Appointment(ap.ID)
	return out, nil
}

func (s *Store) DeleteEmployee(ctx context.Context, id string) error {
	_, err := s.Commit(ctx, Changeset{DeletedEmployees: []string{id}})
	return err
}

// --------------------------------------------------
// Per-employee locks
// --------------------------------------------------

// LockEmployees acquires the schedule locks of the given employees in a
// fixed order and returns the release func. It gives up when ctx is done.
func (s *Store) LockEmployees(ctx context.Context, ids ...string) (func(), error) {
	return s.lock(ctx, "employee:", ids)
}

// LockClients serialises read-modify-write of client records. Callers that
// also hold employee locks take those first.
func (s *Store) LockClients(ctx context.Context, ids ...string) (func(), error) {
	return s.lock(ctx, "client:", ids)
}

func (s *Store) lock(ctx context.Context, prefix string, ids []string) (func(), error) {
	ids = sortedUnique(ids)

	held := make([]chan struct{}, 0, len(ids))
	var once sync.Once
	release := func() {
		once.Do(func() {
			for i := len(held) - 1; i >= 0; i-- {
				<-held[i]
			}
		})
	}

	for _, id := range ids {
		v, _ := s.locks.LoadOrStore(prefix+id, make(chan struct{}, 1))
		ch := v.(chan struct{})

		select {
		case ch <- struct{}{}:
			held = append(held, ch)
		case <-ctx.Done():
			release()
			return nil, ctx.Err()
		}
	}

	return release, nil
}

// Close rejects further commits. Snapshots stay readable.
func (s *Store) Close() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.closed = true
	return nil
}

// --------------------------------------------------
// Validation
// --------------------------------------------------

func (s *Snapshot) validate(cs Changeset) error {
	clientIDs := map[string]bool{}
	phones := map[string]string{}
	for _, c := range cs.Clients {
		if c.ID == "" {
			return httperr.ErrValidation("client.id", "required")
		}
		if clientIDs[c.ID] {
			return httperr.ErrValidation("client.id", "duplicate")
		}
		clientIDs[c.ID] = true

		if c.Phone == "" {
			return httperr.ErrValidation("phone", "required")
		}
		if other, ok := phones[c.Phone]; ok && other != c.ID {
			return httperr.ErrValidation("phone", "already_registered")
		}
		phones[c.Phone] = c.ID
		if owner, ok := s.clientsByPhone[c.Phone]; ok && owner != c.ID {
			return httperr.ErrValidation("phone", "already_registered")
		}
	}

	deleted := map[string]bool{}
	for _, id := range cs.DeletedEmployees {
		if _, ok := s.employees[id]; !ok {
			return httperr.ErrNotFound("employee", id)
		}
		deleted[id] = true
	}

	employeeIDs := map[string]bool{}
	for _, e := range cs.Employees {
		if e.ID == "" {
			return httperr.ErrValidation("employee.id", "required")
		}
		if employeeIDs[e.ID] || deleted[e.ID] {
			return httperr.ErrValidation("employee.id", "duplicate")
		}
		employeeIDs[e.ID] = true
	}

	appointmentIDs := map[string]bool{}
	for _, ap := range cs.Appointments {
		if ap.ID == "" {
			return httperr.ErrValidation("appointment.id", "required")
		}
		if appointmentIDs[ap.ID] {
			return httperr.ErrValidation("appointment.id", "duplicate")
		}
		appointmentIDs[ap.ID] = true

		if ap.DurationMin <= 0 {
			return httperr.ErrValidation("duration_min", "out_of_range")
		}

		// References are checked when they are set, so orphaned
		// appointments can still change status.
		old, exists := s.appointments[ap.ID]

		if !exists || old.ClientID != ap.ClientID {
			if _, ok := s.clients[ap.ClientID]; !ok && !clientIDs[ap.ClientID] {
				return httperr.ErrNotFound("client", ap.ClientID)
			}
		}

		if !exists || old.EmployeeID != ap.EmployeeID {
			_, ok := s.employees[ap.EmployeeID]
			if (!ok || deleted[ap.EmployeeID]) && !employeeIDs[ap.EmployeeID] {
				return httperr.ErrNotFound("employee", ap.EmployeeID)
			}
		}
	}

	return nil
}

func sortedUnique(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

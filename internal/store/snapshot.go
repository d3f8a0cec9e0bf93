package store

import (
	"sort"
	"strconv"
	"time"

	"github.com/BruksfildServices01/studio-booking/internal/models"
)

// Snapshot is an immutable view of the store at one version.
// Every accessor returns copies; nothing handed out aliases store memory.
type Snapshot struct {
	instance string
	version  uint64

	// clock decides which appointments already count as a visit.
	clock func() time.Time

	clients        map[string]models.Client
	clientsByPhone map[string]string
	employees      map[string]models.Employee
	appointments   map[string]models.Appointment

	// appointment ids ordered by start time
	byEmployee map[string][]string
	byClient   map[string][]string
}

func emptySnapshot(instance string, clock func() time.Time) *Snapshot {
	if clock == nil {
		clock = time.Now
	}
	return &Snapshot{
		instance:       instance,
		clock:          clock,
		clients:        map[string]models.Client{},
		clientsByPhone: map[string]string{},
		employees:      map[string]models.Employee{},
		appointments:   map[string]models.Appointment{},
		byEmployee:     map[string][]string{},
		byClient:       map[string][]string{},
	}
}

func (s *Snapshot) Version() uint64 {
	return s.version
}

// Tag identifies the snapshot across store instances, for cache keys.
func (s *Snapshot) Tag() string {
	return s.instance + ":" + strconv.FormatUint(s.version, 10)
}

// --------------------------------------------------
// Client
// --------------------------------------------------

func (s *Snapshot) Client(id string) (models.Client, bool) {
	c, ok := s.clients[id]
	if !ok {
		return models.Client{}, false
	}
	return s.withLastVisit(cloneClient(c)), true
}

// withLastVisit sets LastVisit from the clock at read time, so a booking
// becomes a visit once its start passes without another commit.
func (s *Snapshot) withLastVisit(c models.Client) models.Client {
	now := s.clock()
	ids := s.byClient[c.ID]

	c.LastVisit = nil
	for i := len(ids) - 1; i >= 0; i-- {
		ap := s.appointments[ids[i]]
		if !ap.Active() || ap.StartTime.After(now) {
			continue
		}
		start := ap.StartTime
		c.LastVisit = &start
		break
	}
	return c
}

// ClientByPhone expects an already normalised phone number.
func (s *Snapshot) ClientByPhone(phone string) (models.Client, bool) {
	id, ok := s.clientsByPhone[phone]
	if !ok {
		return models.Client{}, false
	}
	return s.Client(id)
}

// Clients returns every client ordered by name.
func (s *Snapshot) Clients() []models.Client {
	out := make([]models.Client, 0, len(s.clients))
	for _, c := range s.clients {
		out = append(out, s.withLastVisit(cloneClient(c)))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// --------------------------------------------------
// Employee
// --------------------------------------------------

func (s *Snapshot) Employee(id string) (models.Employee, bool) {
	e, ok := s.employees[id]
	return e, ok
}

func (s *Snapshot) Employees() []models.Employee {
	out := make([]models.Employee, 0, len(s.employees))
	for _, e := range s.employees {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (s *Snapshot) Appointment(id string) (models.Appointment, bool) {
	ap, ok := s.appointments[id]
	if !ok {
		return models.Appointment{}, false
	}
	return cloneAppointment(ap), true
}

// AppointmentsByEmployee returns the employee's appointments, any status,
// whose [start, end) intersects [from, to). Zero bounds are open.
func (s *Snapshot) AppointmentsByEmployee(employeeID string, from, to time.Time) []models.Appointment {
	ids := s.byEmployee[employeeID]
	out := make([]models.Appointment, 0, len(ids))
	for _, id := range ids {
		ap := s.appointments[id]
		if !to.IsZero() && !ap.StartTime.Before(to) {
			break
		}
		if !from.IsZero() && !ap.EndTime().After(from) {
			continue
		}
		out = append(out, cloneAppointment(ap))
	}
	return out
}

func (s *Snapshot) AppointmentsByClient(clientID string) []models.Appointment {
	ids := s.byClient[clientID]
	out := make([]models.Appointment, 0, len(ids))
	for _, id := range ids {
		out = append(out, cloneAppointment(s.appointments[id]))
	}
	return out
}

// AppointmentsStartingBetween returns appointments, any status, with
// from <= start < to, ordered by start.
func (s *Snapshot) AppointmentsStartingBetween(from, to time.Time) []models.Appointment {
	var out []models.Appointment
	for _, ap := range s.appointments {
		if ap.StartTime.Before(from) || !ap.StartTime.Before(to) {
			continue
		}
		out = append(out, cloneAppointment(ap))
	}
	sortByStart(out)
	return out
}

// --------------------------------------------------
// Copy-on-write
// --------------------------------------------------

// next builds the following version with cs applied. The receiver is untouched.
func (s *Snapshot) next(cs Changeset) *Snapshot {
	n := &Snapshot{
		instance:       s.instance,
		clock:          s.clock,
		version:        s.version + 1,
		clients:        cloneMap(s.clients),
		clientsByPhone: cloneMap(s.clientsByPhone),
		employees:      cloneMap(s.employees),
		appointments:   cloneMap(s.appointments),
		byEmployee:     cloneMap(s.byEmployee),
		byClient:       cloneMap(s.byClient),
	}

	for _, c := range cs.Clients {
		if old, ok := n.clients[c.ID]; ok && old.Phone != c.Phone {
			delete(n.clientsByPhone, old.Phone)
		}
		n.clients[c.ID] = cloneClient(c)
		n.clientsByPhone[c.Phone] = c.ID
	}

	for _, e := range cs.Employees {
		n.employees[e.ID] = e
	}
	for _, id := range cs.DeletedEmployees {
		delete(n.employees, id)
	}

	dirtyEmployees := map[string]bool{}
	dirtyClients := map[string]bool{}
	for _, ap := range cs.Appointments {
		if old, ok := n.appointments[ap.ID]; ok {
			if old.EmployeeID != ap.EmployeeID {
				n.byEmployee[old.EmployeeID] = without(n.byEmployee[old.EmployeeID], ap.ID)
			}
			if old.ClientID != ap.ClientID {
				n.byClient[old.ClientID] = without(n.byClient[old.ClientID], ap.ID)
			}
		}
		n.appointments[ap.ID] = cloneAppointment(ap)
		n.byEmployee[ap.EmployeeID] = withID(n.byEmployee[ap.EmployeeID], ap.ID)
		n.byClient[ap.ClientID] = withID(n.byClient[ap.ClientID], ap.ID)
		dirtyEmployees[ap.EmployeeID] = true
		dirtyClients[ap.ClientID] = true
	}

	for id := range dirtyEmployees {
		n.sortIndex(n.byEmployee[id])
	}
	for id := range dirtyClients {
		n.sortIndex(n.byClient[id])
	}

	return n
}

func (s *Snapshot) sortIndex(ids []string) {
	sort.Slice(ids, func(i, j int) bool {
		a, b := s.appointments[ids[i]], s.appointments[ids[j]]
		if !a.StartTime.Equal(b.StartTime) {
			return a.StartTime.Before(b.StartTime)
		}
		return a.ID < b.ID
	})
}

func sortByStart(aps []models.Appointment) {
	sort.Slice(aps, func(i, j int) bool {
		if !aps[i].StartTime.Equal(aps[j].StartTime) {
			return aps[i].StartTime.Before(aps[j].StartTime)
		}
		return aps[i].ID < aps[j].ID
	})
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// withID returns a fresh slice so older snapshots keep their own index.
func withID(ids []string, id string) []string {
	out := make([]string, 0, len(ids)+1)
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return append(out, id)
}

func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}

func cloneClient(c models.Client) models.Client {
	if c.LastVisit != nil {
		v := *c.LastVisit
		c.LastVisit = &v
	}
	return c
}

func cloneAppointment(ap models.Appointment) models.Appointment {
	if ap.BudgetCents != nil {
		v := *ap.BudgetCents
		ap.BudgetCents = &v
	}
	if ap.RescheduledFrom != nil {
		v := *ap.RescheduledFrom
		ap.RescheduledFrom = &v
	}
	if ap.ConfirmedAt != nil {
		v := *ap.ConfirmedAt
		ap.ConfirmedAt = &v
	}
	if ap.CancelledAt != nil {
		v := *ap.CancelledAt
		ap.CancelledAt = &v
	}
	return ap
}

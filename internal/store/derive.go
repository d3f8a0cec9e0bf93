package store

import (
	"time"

	"github.com/BruksfildServices01/studio-booking/internal/models"
)

// withDerivedClients returns cs with TotalAppointments and LastVisit
// recomputed for every client whose appointments change, and with the
// counters of other upserted clients carried over from s. Counters sent by
// callers are never trusted.
func (s *Snapshot) withDerivedClients(cs Changeset, now time.Time) Changeset {
	pending := map[string]models.Appointment{}
	touched := map[string]bool{}
	for _, ap := range cs.Appointments {
		pending[ap.ID] = ap
		touched[ap.ClientID] = true
		if old, ok := s.appointments[ap.ID]; ok && old.ClientID != ap.ClientID {
			touched[old.ClientID] = true
		}
	}

	out := cs
	out.Clients = make([]models.Client, 0, len(cs.Clients)+len(touched))

	seen := map[string]bool{}
	for _, c := range cs.Clients {
		seen[c.ID] = true
		if touched[c.ID] {
			c = s.deriveClient(c, pending, now)
		} else if old, ok := s.clients[c.ID]; ok {
			c.TotalAppointments = old.TotalAppointments
			c.LastVisit = old.LastVisit
		} else {
			c.TotalAppointments = 0
			c.LastVisit = nil
		}
		out.Clients = append(out.Clients, c)
	}

	for id := range touched {
		if seen[id] {
			continue
		}
		c, ok := s.clients[id]
		if !ok {
			continue
		}
		out.Clients = append(out.Clients, s.deriveClient(cloneClient(c), pending, now))
	}

	return out
}

func (s *Snapshot) deriveClient(c models.Client, pending map[string]models.Appointment, now time.Time) models.Client {
	total := 0
	var last *time.Time

	count := func(ap models.Appointment) {
		if ap.ClientID != c.ID || !ap.Active() {
			return
		}
		total++
		if ap.StartTime.After(now) {
			return
		}
		if last == nil || ap.StartTime.After(*last) {
			start := ap.StartTime
			last = &start
		}
	}

	for _, id := range s.byClient[c.ID] {
		if _, replaced := pending[id]; replaced {
			continue
		}
		count(s.appointments[id])
	}
	for _, ap := range pending {
		count(ap)
	}

	c.TotalAppointments = total
	c.LastVisit = last
	return c
}

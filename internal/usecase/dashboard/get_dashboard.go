package dashboard

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/studio-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/studio-booking/internal/dto"
	"github.com/BruksfildServices01/studio-booking/internal/models"
)

const upcomingLimit = 5

type GetDashboard struct {
	repo   domain.Repository
	policy domain.Policy
}

func NewGetDashboard(repo domain.Repository, policy domain.Policy) *GetDashboard {
	return &GetDashboard{repo: repo, policy: policy}
}

// Execute summarises the studio as of now, in business time. Revenue is the
// sum of budgets of non-cancelled appointments starting this month.
func (uc *GetDashboard) Execute(ctx context.Context) (dto.DashboardDTO, error) {
	snap := uc.repo.Snapshot()
	now := uc.policy.Now()
	loc := uc.policy.Loc()

	out := dto.DashboardDTO{Currency: uc.policy.Currency}

	// --------------------------------------------------
	// Hoje
	// --------------------------------------------------
	dayStart, dayEnd := uc.policy.DayRange(now)
	for _, ap := range snap.AppointmentsStartingBetween(dayStart, dayEnd) {
		if !ap.Active() {
			continue
		}
		out.AppointmentsToday++
		if ap.Status == models.AppointmentPending {
			out.PendingToday++
		}
	}

	// --------------------------------------------------
	// Próximas 24h
	// --------------------------------------------------
	var upcoming []models.Appointment
	for _, ap := range snap.AppointmentsStartingBetween(now, now.Add(24*time.Hour)) {
		if !ap.Active() {
			continue
		}
		out.Next24Hours++
		if len(upcoming) < upcomingLimit {
			upcoming = append(upcoming, ap)
		}
	}
	out.Upcoming = dto.AppointmentList(snap, upcoming)

	// --------------------------------------------------
	// Clientes / equipe
	// --------------------------------------------------
	for _, c := range snap.Clients() {
		out.TotalClients++
		if c.Status == models.ClientActive {
			out.ActiveClients++
		}
	}
	for _, e := range snap.Employees() {
		if e.Status == models.EmployeeActive {
			out.ActiveEmployees++
		}
	}

	// --------------------------------------------------
	// Receita do mês
	// --------------------------------------------------
	local := now.In(loc)
	monthStart := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	for _, ap := range snap.AppointmentsStartingBetween(monthStart, monthStart.AddDate(0, 1, 0)) {
		if ap.Active() && ap.BudgetCents != nil {
			out.RevenueMonthCents += *ap.BudgetCents
		}
	}

	return out, nil
}

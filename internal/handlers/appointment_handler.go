package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/studio-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/studio-booking/internal/httperr"
	"github.com/BruksfildServices01/studio-booking/internal/httpresp"
	ucAppointment "github.com/BruksfildServices01/studio-booking/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create       *ucAppointment.CreateAppointment
	cancel       *ucAppointment.CancelAppointment
	confirm      *ucAppointment.ConfirmAppointment
	reschedule   *ucAppointment.RescheduleAppointment
	dayView      *ucAppointment.GetDayView
	month        *ucAppointment.GetMonthOccupancy
	availability *ucAppointment.GetAvailability
	policy       domain.Policy
}

func NewAppointmentHandler(
	create *ucAppointment.CreateAppointment,
	cancel *ucAppointment.CancelAppointment,
	confirm *ucAppointment.ConfirmAppointment,
	reschedule *ucAppointment.RescheduleAppointment,
	dayView *ucAppointment.GetDayView,
	month *ucAppointment.GetMonthOccupancy,
	availability *ucAppointment.GetAvailability,
	policy domain.Policy,
) *AppointmentHandler {
	return &AppointmentHandler{
		create:       create,
		cancel:       cancel,
		confirm:      confirm,
		reschedule:   reschedule,
		dayView:      dayView,
		month:        month,
		availability: availability,
		policy:       policy,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	EmployeeID string `json:"employee_id"`

	ClientID    string `json:"client_id"`
	ClientName  string `json:"client_name"`
	ClientPhone string `json:"client_phone"`
	ClientEmail string `json:"client_email"`

	startFields
	DurationMin int `json:"duration_min"`

	Service        string `json:"service"`
	BudgetCents    *int64 `json:"budget_cents"`
	Notes          string `json:"notes"`
	ReferenceImage string `json:"reference_image"`
}

type RescheduleAppointmentRequest struct {
	startFields
	DurationMin int    `json:"duration_min"`
	EmployeeID  string `json:"employee_id"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	start, err := req.resolve(h.policy.Loc())
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		EmployeeID:     req.EmployeeID,
		ClientID:       req.ClientID,
		ClientName:     req.ClientName,
		ClientPhone:    req.ClientPhone,
		ClientEmail:    req.ClientEmail,
		StartTime:      start,
		DurationMin:    req.DurationMin,
		Service:        req.Service,
		BudgetCents:    req.BudgetCents,
		Notes:          req.Notes,
		ReferenceImage: req.ReferenceImage,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, ap)
}

// ======================================================
// CANCEL / CONFIRM
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	ap, err := h.cancel.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	ap, err := h.confirm.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, ap)
}

// ======================================================
// RESCHEDULE
// ======================================================

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	var req RescheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	start, err := req.resolve(h.policy.Loc())
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	ap, err := h.reschedule.Execute(c.Request.Context(), ucAppointment.RescheduleAppointmentInput{
		AppointmentID: c.Param("id"),
		StartTime:     start,
		DurationMin:   req.DurationMin,
		EmployeeID:    req.EmployeeID,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, ap)
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	date, err := queryDate(c, h.policy.Loc(), h.policy.Now())
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	list, err := h.dayView.Execute(c.Request.Context(), ucAppointment.DayViewInput{
		Date:       date,
		EmployeeID: c.Query("employee_id"),
		ActiveOnly: queryBool(c, "active_only"),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, list)
}

// ======================================================
// LIST BY MONTH
// ======================================================

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	now := h.policy.Now()

	year, err := queryInt(c, "year", now.Year())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	month, err := queryInt(c, "month", int(now.Month()))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	out, err := h.month.Execute(c.Request.Context(), year, month)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, out)
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *AppointmentHandler) Availability(c *gin.Context) {
	date, err := queryDate(c, h.policy.Loc(), h.policy.Now())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	minutes, err := queryInt(c, "duration_min", 0)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	out, err := h.availability.Execute(c.Request.Context(), domain.AvailabilityInput{
		EmployeeID:  c.Param("id"),
		Date:        date,
		DurationMin: minutes,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, out)
}

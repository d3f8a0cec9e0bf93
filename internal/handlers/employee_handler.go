package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/studio-booking/internal/httperr"
	"github.com/BruksfildServices01/studio-booking/internal/httpresp"
	"github.com/BruksfildServices01/studio-booking/internal/timezone"
	ucEmployee "github.com/BruksfildServices01/studio-booking/internal/usecase/employee"
)

type EmployeeHandler struct {
	upsert *ucEmployee.UpsertEmployee
	remove *ucEmployee.DeleteEmployee
	search *ucEmployee.SearchEmployees
	get    *ucEmployee.GetEmployee
	loc    *time.Location
}

func NewEmployeeHandler(
	upsert *ucEmployee.UpsertEmployee,
	remove *ucEmployee.DeleteEmployee,
	search *ucEmployee.SearchEmployees,
	get *ucEmployee.GetEmployee,
	loc *time.Location,
) *EmployeeHandler {
	return &EmployeeHandler{upsert: upsert, remove: remove, search: search, get: get, loc: loc}
}

type EmployeeRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Specialty   string `json:"specialty"`
	Color       string `json:"color"`
	WeeklyHours int    `json:"weekly_hours"`
	Role        string `json:"role"`
	Status      string `json:"status"`
	JoinedAt    string `json:"joined_at"` // YYYY-MM-DD
}

func (h *EmployeeHandler) List(c *gin.Context) {
	list, err := h.search.Execute(c.Request.Context(), c.Query("query"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, list)
}

func (h *EmployeeHandler) Get(c *gin.Context) {
	emp, err := h.get.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, emp)
}

func (h *EmployeeHandler) Create(c *gin.Context) {
	h.save(c, "", http.StatusCreated)
}

func (h *EmployeeHandler) Update(c *gin.Context) {
	h.save(c, c.Param("id"), http.StatusOK)
}

func (h *EmployeeHandler) save(c *gin.Context, id string, status int) {
	var req EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	var joined time.Time
	if req.JoinedAt != "" {
		d, err := timezone.ParseDate(req.JoinedAt, h.loc)
		if err != nil {
			httperr.Respond(c, httperr.ErrValidation("joined_at", "invalid_date"))
			return
		}
		joined = d
	}

	emp, err := h.upsert.Execute(c.Request.Context(), ucEmployee.UpsertEmployeeInput{
		ID:          id,
		Name:        req.Name,
		Email:       req.Email,
		Specialty:   req.Specialty,
		Color:       req.Color,
		WeeklyHours: req.WeeklyHours,
		Role:        req.Role,
		Status:      req.Status,
		JoinedAt:    joined,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(status, emp)
}

func (h *EmployeeHandler) Delete(c *gin.Context) {
	if err := h.remove.Execute(c.Request.Context(), c.Param("id")); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/studio-booking/internal/httperr"
	"github.com/BruksfildServices01/studio-booking/internal/httpresp"
	ucAppointment "github.com/BruksfildServices01/studio-booking/internal/usecase/appointment"
	ucClient "github.com/BruksfildServices01/studio-booking/internal/usecase/client"
)

type ClientHandler struct {
	upsert       *ucClient.UpsertClient
	deactivate   *ucClient.DeactivateClient
	search       *ucClient.SearchClients
	get          *ucClient.GetClient
	appointments *ucAppointment.ListClientAppointments
}

func NewClientHandler(
	upsert *ucClient.UpsertClient,
	deactivate *ucClient.DeactivateClient,
	search *ucClient.SearchClients,
	get *ucClient.GetClient,
	appointments *ucAppointment.ListClientAppointments,
) *ClientHandler {
	return &ClientHandler{
		upsert:       upsert,
		deactivate:   deactivate,
		search:       search,
		get:          get,
		appointments: appointments,
	}
}

type ClientRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
	Notes string `json:"notes"`
}

// ======================================================
// LIST / SEARCH
// ======================================================
func (h *ClientHandler) List(c *gin.Context) {
	clients, err := h.search.Execute(
		c.Request.Context(),
		c.Query("query"),
		queryBool(c, "active_only"),
	)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, clients)
}

// ======================================================
// GET
// ======================================================
func (h *ClientHandler) Get(c *gin.Context) {
	client, err := h.get.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, client)
}

// ======================================================
// CREATE / UPDATE
// ======================================================
func (h *ClientHandler) Create(c *gin.Context) {
	h.save(c, "", http.StatusCreated)
}

func (h *ClientHandler) Update(c *gin.Context) {
	h.save(c, c.Param("id"), http.StatusOK)
}

func (h *ClientHandler) save(c *gin.Context, id string, status int) {
	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	client, err := h.upsert.Execute(c.Request.Context(), ucClient.UpsertClientInput{
		ID:    id,
		Name:  req.Name,
		Phone: req.Phone,
		Email: req.Email,
		Notes: req.Notes,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(status, client)
}

// ======================================================
// DEACTIVATE
// ======================================================
func (h *ClientHandler) Deactivate(c *gin.Context) {
	client, err := h.deactivate.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, client)
}

// ======================================================
// HISTORY
// ======================================================
func (h *ClientHandler) Appointments(c *gin.Context) {
	list, err := h.appointments.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, list)
}

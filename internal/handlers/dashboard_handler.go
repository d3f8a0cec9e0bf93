package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/studio-booking/internal/dto"
	"github.com/BruksfildServices01/studio-booking/internal/httperr"
	"github.com/BruksfildServices01/studio-booking/internal/httpresp"
	ucDashboard "github.com/BruksfildServices01/studio-booking/internal/usecase/dashboard"
)

type DashboardHandler struct {
	dashboard *ucDashboard.GetDashboard
	settings  dto.SettingsDTO
}

func NewDashboardHandler(dashboard *ucDashboard.GetDashboard, settings dto.SettingsDTO) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, settings: settings}
}

// GET /api/dashboard
func (h *DashboardHandler) Get(c *gin.Context) {
	out, err := h.dashboard.Execute(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, out)
}

// GET /api/settings
func (h *DashboardHandler) Settings(c *gin.Context) {
	httpresp.OK(c, h.settings)
}

package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/studio-booking/internal/audit"
	"github.com/BruksfildServices01/studio-booking/internal/cache"
	domain "github.com/BruksfildServices01/studio-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/studio-booking/internal/dto"
	"github.com/BruksfildServices01/studio-booking/internal/handlers"
	"github.com/BruksfildServices01/studio-booking/internal/media"
	"github.com/BruksfildServices01/studio-booking/internal/middleware"
	"github.com/BruksfildServices01/studio-booking/internal/reminder"
	"github.com/BruksfildServices01/studio-booking/internal/store"
	ucAppointment "github.com/BruksfildServices01/studio-booking/internal/usecase/appointment"
	ucClient "github.com/BruksfildServices01/studio-booking/internal/usecase/client"
	ucDashboard "github.com/BruksfildServices01/studio-booking/internal/usecase/dashboard"
	ucEmployee "github.com/BruksfildServices01/studio-booking/internal/usecase/employee"
)

// Deps are the singletons built in main.
type Deps struct {
	Store     *store.Store
	Policy    domain.Policy
	Audit     *audit.Dispatcher
	Cache     cache.Cache
	Reminders reminder.Scheduler
	Uploader  *media.Uploader
	Limiter   *middleware.RateLimiter
	Settings  dto.SettingsDTO
	Log       *zap.Logger

	AllowedOrigins []string
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(middleware.CORSMiddleware(d.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"snapshot": d.Store.Snapshot().Tag(),
		})
	})

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	repo := d.Store
	policy := d.Policy
	loc := policy.Loc()

	// ======================================================
	// 🧠 USE CASES - APPOINTMENTS
	// ======================================================
	createAppointmentUC := ucAppointment.NewCreateAppointment(repo, policy, d.Audit, d.Reminders, d.Log)
	cancelAppointmentUC := ucAppointment.NewCancelAppointment(repo, policy, d.Audit, d.Reminders, d.Log)
	confirmAppointmentUC := ucAppointment.NewConfirmAppointment(repo, policy, d.Audit)
	rescheduleAppointmentUC := ucAppointment.NewRescheduleAppointment(repo, policy, d.Audit, d.Reminders, d.Log)

	dayViewUC := ucAppointment.NewGetDayView(repo, policy)
	monthOccupancyUC := ucAppointment.NewGetMonthOccupancy(repo, policy, d.Cache, d.Log)
	availabilityUC := ucAppointment.NewGetAvailability(repo, policy)
	clientAppointmentsUC := ucAppointment.NewListClientAppointments(repo)

	// ======================================================
	// 🧠 USE CASES - CLIENTS / EMPLOYEES / DASHBOARD
	// ======================================================
	upsertClientUC := ucClient.NewUpsertClient(repo, policy, d.Audit)
	deactivateClientUC := ucClient.NewDeactivateClient(repo, policy, d.Audit)
	searchClientsUC := ucClient.NewSearchClients(repo)
	getClientUC := ucClient.NewGetClient(repo)

	upsertEmployeeUC := ucEmployee.NewUpsertEmployee(repo, policy, d.Audit)
	deleteEmployeeUC := ucEmployee.NewDeleteEmployee(repo, policy, d.Audit)
	searchEmployeesUC := ucEmployee.NewSearchEmployees(repo)
	getEmployeeUC := ucEmployee.NewGetEmployee(repo)

	dashboardUC := ucDashboard.NewGetDashboard(repo, policy)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	appointmentHandler := handlers.NewAppointmentHandler(
		createAppointmentUC,
		cancelAppointmentUC,
		confirmAppointmentUC,
		rescheduleAppointmentUC,
		dayViewUC,
		monthOccupancyUC,
		availabilityUC,
		policy,
	)

	clientHandler := handlers.NewClientHandler(
		upsertClientUC,
		deactivateClientUC,
		searchClientsUC,
		getClientUC,
		clientAppointmentsUC,
	)

	employeeHandler := handlers.NewEmployeeHandler(
		upsertEmployeeUC,
		deleteEmployeeUC,
		searchEmployeesUC,
		getEmployeeUC,
		loc,
	)

	dashboardHandler := handlers.NewDashboardHandler(dashboardUC, d.Settings)
	mediaHandler := handlers.NewMediaHandler(d.Uploader)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.Audit, loc)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	if d.Limiter != nil {
		api.Use(middleware.RateLimit(d.Limiter, d.Log))
	}
	{
		// ------------------------------
		// APPOINTMENTS
		// ------------------------------
		api.POST("/appointments", appointmentHandler.Create)
		api.GET("/appointments", appointmentHandler.ListByDate)
		api.GET("/appointments/month", appointmentHandler.ListByMonth)
		api.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
		api.PATCH("/appointments/:id/confirm", appointmentHandler.Confirm)
		api.POST("/appointments/:id/reschedule", appointmentHandler.Reschedule)

		api.POST("/reference-images", mediaHandler.Upload)

		// ------------------------------
		// CLIENTS
		// ------------------------------
		api.GET("/clients", clientHandler.List)
		api.POST("/clients", clientHandler.Create)
		api.GET("/clients/:id", clientHandler.Get)
		api.PUT("/clients/:id", clientHandler.Update)
		api.PATCH("/clients/:id/deactivate", clientHandler.Deactivate)
		api.GET("/clients/:id/appointments", clientHandler.Appointments)

		// ------------------------------
		// EMPLOYEES
		// ------------------------------
		api.GET("/employees", employeeHandler.List)
		api.POST("/employees", employeeHandler.Create)
		api.GET("/employees/:id", employeeHandler.Get)
		api.PUT("/employees/:id", employeeHandler.Update)
		api.DELETE("/employees/:id", employeeHandler.Delete)
		api.GET("/employees/:id/availability", appointmentHandler.Availability)

		// ------------------------------
		// DASHBOARD / SETTINGS / AUDIT
		// ------------------------------
		api.GET("/dashboard", dashboardHandler.Get)
		api.GET("/settings", dashboardHandler.Settings)
		api.GET("/audit-logs", auditLogsHandler.List)
	}
}

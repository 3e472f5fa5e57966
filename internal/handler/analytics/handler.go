package analytics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Bhadra-Indranil/HealthCare-System/internal/handler"
	"github.com/Bhadra-Indranil/HealthCare-System/internal/middleware"
	"github.com/Bhadra-Indranil/HealthCare-System/internal/model"
	"github.com/Bhadra-Indranil/HealthCare-System/internal/service/analytics"
)

type Handler struct {
	service analytics.AnalyticsService
}

func NewHandler(service analytics.AnalyticsService) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires the reporting endpoints. Department metrics are
// admin and doctor territory; the nurse dashboard is the nurse's own.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	allStaff := middleware.RequireRoles(model.RoleAdmin, model.RoleDoctor, model.RoleNurse, model.RoleReceptionist)

	stats := r.Group("/analytics")
	{
		stats.GET("/dashboard", allStaff, h.Dashboard)
		stats.GET("/demographics", allStaff, h.Demographics)
		stats.GET("/conditions", allStaff, h.Conditions)
		stats.GET("/prescriptions", allStaff, h.Prescriptions)
		stats.GET("/visits", allStaff, h.VisitTrends)
		stats.GET("/lab-reports", allStaff, h.LabReports)
		stats.GET("/departments", middleware.RequireRoles(model.RoleAdmin, model.RoleDoctor), h.Departments)
		nurse := stats.Group("/nurse", middleware.RequireRoles(model.RoleNurse))
		{
			nurse.GET("/dashboard", h.NurseDashboard)
			nurse.GET("/patient-care", h.NursePatientCare)
			nurse.GET("/medications", h.NurseMedications)
			nurse.GET("/vitals", h.NurseVitalsChecks)
			nurse.GET("/recent-activity", h.NurseRecentActivity)
		}
	}
}

func (h *Handler) Dashboard(c *gin.Context) {
	overview, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(overview))
}

func (h *Handler) Demographics(c *gin.Context) {
	stats, err := h.service.Demographics(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(stats))
}

func (h *Handler) Conditions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	stats, err := h.service.TopConditions(c.Request.Context(), limit)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(stats))
}

func (h *Handler) Prescriptions(c *gin.Context) {
	stats, err := h.service.PrescriptionStats(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(stats))
}

func (h *Handler) VisitTrends(c *gin.Context) {
	q := &model.VisitTrendQuery{Interval: c.DefaultQuery("interval", "day")}
	if q.Interval != "day" && q.Interval != "month" {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("Interval must be 'day' or 'month'"))
		return
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			q.From = &t
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			q.To = &t
		}
	}

	trends, err := h.service.VisitTrends(c.Request.Context(), q)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(trends))
}

func (h *Handler) LabReports(c *gin.Context) {
	stats, err := h.service.LabReportStats(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(stats))
}

func (h *Handler) Departments(c *gin.Context) {
	metrics, err := h.service.DepartmentMetrics(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(metrics))
}

func (h *Handler) NurseDashboard(c *gin.Context) {
	account, ok := middleware.CurrentAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("Authorization token required"))
		return
	}

	stats, err := h.service.NurseDashboard(c.Request.Context(), account.ID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(stats))
}

func (h *Handler) NursePatientCare(c *gin.Context) {
	account, _ := middleware.CurrentAccount(c)
	count, err := h.service.NursePatientCare(c.Request.Context(), account.ID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *Handler) NurseMedications(c *gin.Context) {
	account, _ := middleware.CurrentAccount(c)
	count, err := h.service.NurseMedications(c.Request.Context(), account.ID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *Handler) NurseVitalsChecks(c *gin.Context) {
	count, err := h.service.NurseVitalsChecks(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *Handler) NurseRecentActivity(c *gin.Context) {
	account, _ := middleware.CurrentAccount(c)
	activity, err := h.service.NurseRecentActivity(c.Request.Context(), account.ID, 10)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(activity))
}

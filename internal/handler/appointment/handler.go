package appointment

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Bhadra-Indranil/HealthCare-System/internal/handler"
	"github.com/Bhadra-Indranil/HealthCare-System/internal/middleware"
	"github.com/Bhadra-Indranil/HealthCare-System/internal/model"
	"github.com/Bhadra-Indranil/HealthCare-System/internal/service/appointment"
)

type Handler struct {
	service appointment.AppointmentService
}

func NewHandler(service appointment.AppointmentService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	allStaff := middleware.RequireRoles(model.RoleAdmin, model.RoleDoctor, model.RoleNurse, model.RoleReceptionist)

	appointments := r.Group("/appointments")
	{
		appointments.POST("", allStaff, h.Create)
		appointments.GET("", allStaff, h.List)
		appointments.GET("/:id", allStaff, h.Get)
		appointments.PUT("/:id", allStaff, h.Update)
		appointments.PATCH("/:id/cancel", allStaff, h.Cancel)
		appointments.DELETE("/:id", allStaff, h.Delete)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondBindError(c, err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

func (h *Handler) Get(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("Invalid appointment ID"))
		return
	}

	appt, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(appt))
}

func (h *Handler) List(c *gin.Context) {
	filters := &model.AppointmentFilters{
		Status: model.AppointmentStatus(c.Query("status")),
	}
	if doctorID := c.Query("doctorId"); doctorID != "" {
		id, err := primitive.ObjectIDFromHex(doctorID)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("Invalid doctor ID"))
			return
		}
		filters.DoctorID = &id
	}
	if patientID := c.Query("patientId"); patientID != "" {
		id, err := primitive.ObjectIDFromHex(patientID)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("Invalid patient ID"))
			return
		}
		filters.PatientID = &id
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			filters.From = &t
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			filters.To = &t
		}
	}

	appointments, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointments))
}

func (h *Handler) Update(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("Invalid appointment ID"))
		return
	}

	var req model.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondBindError(c, err)
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(updated))
}

func (h *Handler) Cancel(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("Invalid appointment ID"))
		return
	}

	if err := h.service.Cancel(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"message": "Appointment cancelled"}))
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("Invalid appointment ID"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"message": "Appointment deleted"}))
}

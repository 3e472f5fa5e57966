package patient

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Bhadra-Indranil/HealthCare-System/internal/handler"
	"github.com/Bhadra-Indranil/HealthCare-System/internal/middleware"
	"github.com/Bhadra-Indranil/HealthCare-System/internal/model"
	"github.com/Bhadra-Indranil/HealthCare-System/internal/service/patient"
)

type Handler struct {
	service patient.PatientService
}

func NewHandler(service patient.PatientService) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes declares the per-route role table. Every route below
// already sits behind Authenticate.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	allStaff := middleware.RequireRoles(model.RoleAdmin, model.RoleDoctor, model.RoleNurse, model.RoleReceptionist)
	intake := middleware.RequireRoles(model.RoleDoctor, model.RoleNurse, model.RoleReceptionist)
	clinical := middleware.RequireRoles(model.RoleDoctor, model.RoleNurse)

	patients := r.Group("/patients")
	{
		patients.POST("", intake, h.Create)
		patients.GET("", allStaff, h.Search)
		patients.GET("/:id", allStaff, h.Get)
		patients.GET("/code/:code", allStaff, h.GetByCode)
		patients.PUT("/:id", clinical, h.Update)
		patients.DELETE("/:id", middleware.RequireRoles(model.RoleAdmin), h.Deactivate)

		patients.POST("/:id/medical-history", clinical, h.AddMedicalHistory)
		patients.POST("/:id/allergies", clinical, h.AddAllergy)
		patients.POST("/:id/prescriptions", clinical, h.AddPrescription)
		patients.POST("/:id/visits", clinical, h.AddVisit)
		patients.POST("/:id/lab-reports", clinical, h.AddLabReport)

		patients.GET("/:id/audit-log", middleware.RequireRoles(model.RoleAdmin, model.RoleDoctor), h.AccessLog)
		patients.GET("/:id/export", middleware.RequireRoles(model.RoleAdmin, model.RoleDoctor), h.Export)
	}
}

func (h *Handler) Create(c *gin.Context) {
	actor, _ := middleware.CurrentAccount(c)

	var req model.CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondBindError(c, err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), actor, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(model.ProjectPatient(created, actor.Role)))
}

func (h *Handler) Get(c *gin.Context) {
	actor, _ := middleware.CurrentAccount(c)
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("Invalid patient ID"))
		return
	}

	p, err := h.service.Get(c.Request.Context(), actor, id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(model.ProjectPatient(p, actor.Role)))
}

func (h *Handler) GetByCode(c *gin.Context) {
	actor, _ := middleware.CurrentAccount(c)

	p, err := h.service.GetByCode(c.Request.Context(), actor, c.Param("code"))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(model.ProjectPatient(p, actor.Role)))
}

func (h *Handler) Search(c *gin.Context) {
	actor, _ := middleware.CurrentAccount(c)

	var filters model.SearchFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		handler.RespondBindError(c, err)
		return
	}
	if from := c.Query("visitFrom"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			filters.VisitFrom = &t
		}
	}
	if to := c.Query("visitTo"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			filters.VisitTo = &t
		}
	}

	var page model.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		handler.RespondBindError(c, err)
		return
	}

	result, err := h.service.Search(c.Request.Context(), &filters, &page)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"patients":   model.ProjectPatients(result.Patients, actor.Role),
		"pagination": result.Pagination,
	}))
}

func (h *Handler) Update(c *gin.Context) {
	actor, _ := middleware.CurrentAccount(c)
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("Invalid patient ID"))
		return
	}

	var req model.UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondBindError(c, err)
		return
	}

	updated, err := h.service.Update(c.Request.Context(), actor, id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(model.ProjectPatient(updated, actor.Role)))
}

func (h *Handler) Deactivate(c *gin.Context) {
	actor, _ := middleware.CurrentAccount(c)
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("Invalid patient ID"))
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), actor, id); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"message": "Patient record deactivated"}))
}

func (h *Handler) AddMedicalHistory(c *gin.Context) {
	var entry model.MedicalHistoryEntry
	h.addEntry(c, &entry, func(ctx *gin.Context, actor *model.Account, id primitive.ObjectID) error {
		return h.service.AddMedicalHistory(ctx.Request.Context(), actor, id, &entry)
	})
}

func (h *Handler) AddAllergy(c *gin.Context) {
	var entry model.Allergy
	h.addEntry(c, &entry, func(ctx *gin.Context, actor *model.Account, id primitive.ObjectID) error {
		return h.service.AddAllergy(ctx.Request.Context(), actor, id, &entry)
	})
}

func (h *Handler) AddPrescription(c *gin.Context) {
	var entry model.Prescription
	h.addEntry(c, &entry, func(ctx *gin.Context, actor *model.Account, id primitive.ObjectID) error {
		return h.service.AddPrescription(ctx.Request.Context(), actor, id, &entry)
	})
}

func (h *Handler) AddVisit(c *gin.Context) {
	var entry model.Visit
	h.addEntry(c, &entry, func(ctx *gin.Context, actor *model.Account, id primitive.ObjectID) error {
		return h.service.AddVisit(ctx.Request.Context(), actor, id, &entry)
	})
}

func (h *Handler) AddLabReport(c *gin.Context) {
	var entry model.LabReport
	h.addEntry(c, &entry, func(ctx *gin.Context, actor *model.Account, id primitive.ObjectID) error {
		return h.service.AddLabReport(ctx.Request.Context(), actor, id, &entry)
	})
}

// addEntry binds the sub-record body and runs the append through the
// service so every path shares the same atomic audit behavior.
func (h *Handler) addEntry(c *gin.Context, entry interface{}, appendFn func(*gin.Context, *model.Account, primitive.ObjectID) error) {
	actor, _ := middleware.CurrentAccount(c)
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("Invalid patient ID"))
		return
	}

	if err := c.ShouldBindJSON(entry); err != nil {
		handler.RespondBindError(c, err)
		return
	}

	if err := appendFn(c, actor, id); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(entry))
}

func (h *Handler) AccessLog(c *gin.Context) {
	actor, _ := middleware.CurrentAccount(c)
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("Invalid patient ID"))
		return
	}

	var page model.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		handler.RespondBindError(c, err)
		return
	}

	auditPage, err := h.service.AccessLog(c.Request.Context(), actor, id, &page)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(auditPage))
}

func (h *Handler) Export(c *gin.Context) {
	actor, _ := middleware.CurrentAccount(c)
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("Invalid patient ID"))
		return
	}

	p, err := h.service.Export(c.Request.Context(), actor, id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=patient-"+p.PersonalInfo.PatientID+".json")
	c.JSON(http.StatusOK, p)
}

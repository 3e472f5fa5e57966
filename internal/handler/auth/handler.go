package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Bhadra-Indranil/HealthCare-System/internal/handler"
	"github.com/Bhadra-Indranil/HealthCare-System/internal/middleware"
	"github.com/Bhadra-Indranil/HealthCare-System/internal/model"
	"github.com/Bhadra-Indranil/HealthCare-System/internal/service/auth"
)

type Handler struct {
	service auth.AuthService
}

func NewHandler(service auth.AuthService) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires the public endpoints; none of these require a
// session.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/register", h.Register)
	r.POST("/login", h.Login)
	r.GET("/check-email", h.CheckEmail)
}

// RegisterProtectedRoutes wires the endpoints that need an
// authenticated account.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	r.GET("/me", h.Profile)
	r.PUT("/me", h.UpdateProfile)
	r.GET("/doctors", middleware.RequireRoles(model.RoleAdmin, model.RoleReceptionist, model.RoleNurse), h.ListDoctors)
	r.GET("/roles", middleware.RequireRoles(model.RoleAdmin), h.ListRoles)

	users := r.Group("/users", middleware.RequireRoles(model.RoleAdmin))
	{
		users.GET("", h.ListAccounts)
		users.PUT("/:id", h.UpdateAccount)
		users.DELETE("/:id", h.DeactivateAccount)
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondBindError(c, err)
		return
	}

	resp, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(resp))
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondBindError(c, err)
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(resp))
}

func (h *Handler) CheckEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("Email is required"))
		return
	}

	exists, err := h.service.EmailExists(c.Request.Context(), email)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"exists": exists}))
}

func (h *Handler) Profile(c *gin.Context) {
	account, ok := middleware.CurrentAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("Authorization token required"))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(account))
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	account, ok := middleware.CurrentAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("Authorization token required"))
		return
	}

	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondBindError(c, err)
		return
	}

	updated, err := h.service.UpdateProfile(c.Request.Context(), account.ID, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(updated))
}

func (h *Handler) ListDoctors(c *gin.Context) {
	doctors, err := h.service.ListDoctors(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(doctors))
}

func (h *Handler) ListRoles(c *gin.Context) {
	c.JSON(http.StatusOK, handler.NewSuccessResponse(model.Roles()))
}

func (h *Handler) ListAccounts(c *gin.Context) {
	accounts, err := h.service.ListAccounts(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(accounts))
}

func (h *Handler) UpdateAccount(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("Invalid user ID"))
		return
	}

	var req model.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondBindError(c, err)
		return
	}

	account, err := h.service.UpdateAccount(c.Request.Context(), id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(account))
}

func (h *Handler) DeactivateAccount(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("Invalid user ID"))
		return
	}

	if err := h.service.DeactivateAccount(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"message": "Account deactivated"}))
}

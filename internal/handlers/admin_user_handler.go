package handlers

import (
	"context"
	"net/http"

	"github.com/ArowuTest/toolsau-entries-backend/internal/models"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminUserService is the admin user behaviour the handler needs
type AdminUserService interface {
	GetUserProfile(ctx context.Context, userID primitive.ObjectID) (*models.AdminUserProfile, error)
	UpdateUser(ctx context.Context, userID primitive.ObjectID, req *models.AdminUserUpdateRequest) (*models.AdminUserProfile, error)
}

// AdminUserHandler handles admin user HTTP requests
type AdminUserHandler struct {
	userService AdminUserService
}

// NewAdminUserHandler creates a new AdminUserHandler
func NewAdminUserHandler(userService AdminUserService) *AdminUserHandler {
	return &AdminUserHandler{
		userService: userService,
	}
}

// GetUser handles GET /admin/users/:id
func (h *AdminUserHandler) GetUser(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	profile, err := h.userService.GetUserProfile(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateUser handles PATCH /admin/users/:id
func (h *AdminUserHandler) UpdateUser(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var req models.AdminUserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	profile, err := h.userService.UpdateUser(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

package handlers

import (
	"context"
	"net/http"

	"github.com/ArowuTest/toolsau-entries-backend/internal/models"
	"github.com/ArowuTest/toolsau-entries-backend/internal/services"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BenefitsService is the grant behaviour the handler needs
type BenefitsService interface {
	GrantOneTimePackage(ctx context.Context, userID primitive.ObjectID, packageID, paymentIntentID string) (*models.User, error)
	GrantMiniDrawPackage(ctx context.Context, userID, miniDrawID primitive.ObjectID, packageID, paymentIntentID string) (*models.User, error)
	ConvertReferral(ctx context.Context, referralID primitive.ObjectID) (*models.ReferralEvent, error)
}

// BenefitsHandler handles benefit grant HTTP requests
type BenefitsHandler struct {
	benefitsService BenefitsService
}

// NewBenefitsHandler creates a new BenefitsHandler
func NewBenefitsHandler(benefitsService BenefitsService) *BenefitsHandler {
	return &BenefitsHandler{
		benefitsService: benefitsService,
	}
}

type grantOneTimeRequest struct {
	PackageID       string `json:"packageId" validate:"required"`
	PaymentIntentID string `json:"paymentIntentId"`
}

type grantMiniDrawRequest struct {
	MiniDrawID      string `json:"miniDrawId" validate:"required,objectid"`
	PackageID       string `json:"packageId" validate:"required"`
	PaymentIntentID string `json:"paymentIntentId"`
}

// bindRequest decodes and validates the body into req, writing a 400 with
// field issues on failure.
func bindRequest(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondError(c, bindError(err))
		return false
	}
	if err := services.ValidateRequest(req); err != nil {
		respondError(c, err)
		return false
	}
	return true
}

// GrantOneTimePackage handles POST /admin/users/:id/grants/one-time
func (h *BenefitsHandler) GrantOneTimePackage(c *gin.Context) {
	userID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var request grantOneTimeRequest
	if !bindRequest(c, &request) {
		return
	}

	user, err := h.benefitsService.GrantOneTimePackage(c.Request.Context(), userID, request.PackageID, request.PaymentIntentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GrantMiniDrawPackage handles POST /admin/users/:id/grants/mini-draw
func (h *BenefitsHandler) GrantMiniDrawPackage(c *gin.Context) {
	userID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var request grantMiniDrawRequest
	if !bindRequest(c, &request) {
		return
	}
	miniDrawID, err := primitive.ObjectIDFromHex(request.MiniDrawID)
	if err != nil {
		respondError(c, err)
		return
	}

	user, err := h.benefitsService.GrantMiniDrawPackage(c.Request.Context(), userID, miniDrawID, request.PackageID, request.PaymentIntentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// ConvertReferral handles POST /admin/referrals/:id/convert
func (h *BenefitsHandler) ConvertReferral(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	referral, err := h.benefitsService.ConvertReferral(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, referral)
}

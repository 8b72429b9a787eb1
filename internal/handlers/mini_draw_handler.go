package handlers

import (
	"context"
	"math/rand"
	"net/http"
	"time"

	"github.com/ArowuTest/toolsau-entries-backend/internal/models"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MiniDrawService is the mini draw behaviour the handler needs
type MiniDrawService interface {
	SelectWinner(ctx context.Context, id primitive.ObjectID, rng *rand.Rand) (*models.MiniDraw, error)
	Cancel(ctx context.Context, id primitive.ObjectID) (*models.MiniDraw, error)
}

// MiniDrawHandler handles mini draw HTTP requests
type MiniDrawHandler struct {
	drawService MiniDrawService
	newRand     func() *rand.Rand
}

// NewMiniDrawHandler creates a new MiniDrawHandler
func NewMiniDrawHandler(drawService MiniDrawService) *MiniDrawHandler {
	return &MiniDrawHandler{
		drawService: drawService,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
}

// SelectWinner handles POST /admin/mini-draws/:id/winner
func (h *MiniDrawHandler) SelectWinner(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	draw, err := h.drawService.SelectWinner(c.Request.Context(), id, h.newRand())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draw)
}

// Cancel handles POST /admin/mini-draws/:id/cancel
func (h *MiniDrawHandler) Cancel(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	draw, err := h.drawService.Cancel(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draw)
}

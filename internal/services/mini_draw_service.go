package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/ArowuTest/toolsau-entries-backend/internal/models"
	"github.com/ArowuTest/toolsau-entries-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// MiniDrawService runs the end of a mini draw's lifecycle.
type MiniDrawService struct {
	miniDrawRepo repositories.MiniDrawRepository
	now          func() time.Time
}

// NewMiniDrawService creates a new MiniDrawService
func NewMiniDrawService(miniDrawRepo repositories.MiniDrawRepository) *MiniDrawService {
	return &MiniDrawService{
		miniDrawRepo: miniDrawRepo,
		now:          time.Now,
	}
}

// SelectWinner picks a winner for a closed mini draw. Each entry is one
// ticket, so a user's chance is proportional to their total entries.
func (s *MiniDrawService) SelectWinner(ctx context.Context, id primitive.ObjectID, rng *rand.Rand) (*models.MiniDraw, error) {
	draw, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if draw.Status != models.MiniDrawActive {
		return nil, fmt.Errorf("mini draw is %s: %w", draw.Status, ErrInvalidDrawState)
	}
	if draw.IsOpenForEntries {
		return nil, fmt.Errorf("mini draw is still open for entries: %w", ErrInvalidDrawState)
	}
	total := draw.Entries.Total()
	if total == 0 {
		return nil, fmt.Errorf("mini draw has no entries: %w", ErrInvalidDrawState)
	}

	// tickets are numbered 1..total in ledger order
	drawn := rng.Intn(total)
	var winner primitive.ObjectID
	cursor := 0
	for _, e := range draw.Entries {
		if drawn < cursor+e.TotalEntries {
			winner = e.UserID
			break
		}
		cursor += e.TotalEntries
	}

	draw.Winner = &models.MiniDrawWinner{
		UserID:       winner,
		EntryNumber:  drawn + 1,
		SelectedDate: s.now(),
	}
	draw.Status = models.MiniDrawCompleted
	if err := s.miniDrawRepo.SaveOutcome(ctx, draw); err != nil {
		return nil, fmt.Errorf("save mini draw outcome: %w", err)
	}
	zap.L().Info("mini draw winner selected",
		zap.String("miniDrawId", id.Hex()),
		zap.String("winnerId", winner.Hex()),
		zap.Int("totalEntries", total))
	return draw, nil
}

// Cancel stops a mini draw that has not completed.
func (s *MiniDrawService) Cancel(ctx context.Context, id primitive.ObjectID) (*models.MiniDraw, error) {
	draw, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if draw.Status == models.MiniDrawCompleted {
		return nil, fmt.Errorf("mini draw already completed: %w", ErrInvalidDrawState)
	}
	draw.Status = models.MiniDrawCancelled
	draw.IsOpenForEntries = false
	if err := s.miniDrawRepo.SaveOutcome(ctx, draw); err != nil {
		return nil, fmt.Errorf("save mini draw outcome: %w", err)
	}
	zap.L().Info("mini draw cancelled", zap.String("miniDrawId", id.Hex()))
	return draw, nil
}

func (s *MiniDrawService) load(ctx context.Context, id primitive.ObjectID) (*models.MiniDraw, error) {
	draw, err := s.miniDrawRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFoundf("mini draw %s", id.Hex())
		}
		return nil, fmt.Errorf("load mini draw: %w", err)
	}
	return draw, nil
}

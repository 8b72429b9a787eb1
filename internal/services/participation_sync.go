package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ArowuTest/toolsau-entries-backend/internal/models"
	"github.com/ArowuTest/toolsau-entries-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// MajorDrawChange sets a user's total entries in one major draw.
type MajorDrawChange struct {
	DrawID       primitive.ObjectID
	TotalEntries int
}

// MiniDrawChange sets a user's total entries in one mini draw.
type MiniDrawChange struct {
	MiniDrawID   primitive.ObjectID
	TotalEntries int
	IsActive     *bool
}

// ParticipationSynchronizer keeps the entries arrays embedded in draws and
// the user's own mini-draw mirror in agreement. It is the only writer that
// touches both sides, and it must always be called with a transaction
// context obtained from a repositories.Transactor.
type ParticipationSynchronizer struct {
	majorDraws repositories.MajorDrawRepository
	miniDraws  repositories.MiniDrawRepository
	now        func() time.Time
}

// NewParticipationSynchronizer creates a new ParticipationSynchronizer
func NewParticipationSynchronizer(majorDraws repositories.MajorDrawRepository, miniDraws repositories.MiniDrawRepository) *ParticipationSynchronizer {
	return &ParticipationSynchronizer{
		majorDraws: majorDraws,
		miniDraws:  miniDraws,
		now:        time.Now,
	}
}

// SyncMajorDrawParticipation applies admin-set totals to major draws.
//
// A zero total removes the user's entry and a negative total is rejected
// with a ValidationError before any draw is written. Any other total overwrites the
// entry's sources with a single membership bucket, so referral or promo
// attribution recorded earlier for that draw is replaced. The first-added
// date of an existing entry is kept. Each draw is saved once per change; a
// missing draw returns ErrNotFound and leaves rollback to the transaction.
func (s *ParticipationSynchronizer) SyncMajorDrawParticipation(txCtx context.Context, userID primitive.ObjectID, changes []MajorDrawChange) error {
	if err := negativeTotals("majorDrawParticipation", len(changes), func(i int) int { return changes[i].TotalEntries }); err != nil {
		return err
	}
	now := s.now()
	for _, c := range changes {
		draw, err := s.majorDraws.FindByID(txCtx, c.DrawID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return notFoundf("major draw %s", c.DrawID.Hex())
			}
			return fmt.Errorf("load major draw %s: %w", c.DrawID.Hex(), err)
		}

		if c.TotalEntries == 0 {
			draw.Entries.Remove(userID)
		} else {
			draw.Entries.Set(userID, models.EntriesBySource{models.SourceMembership: c.TotalEntries}, now)
		}

		if err := s.majorDraws.SaveEntries(txCtx, draw); err != nil {
			return fmt.Errorf("save major draw %s: %w", c.DrawID.Hex(), err)
		}
		zap.L().Debug("major draw participation synced",
			zap.String("userId", userID.Hex()),
			zap.String("drawId", c.DrawID.Hex()),
			zap.Int("totalEntries", c.TotalEntries))
	}
	return nil
}

// SyncMiniDrawParticipation applies admin-set totals to mini draws and
// rebuilds user.MiniDrawParticipation from changes.
//
// The mini-draw-package bucket is overwritten with the requested total and
// an existing free-entry bucket is carried over. Zero totals remove the
// draw entry and produce no mirror record. Negative totals are rejected
// before any draw is written. The mirror is a full replace:
// mini draws absent from changes disappear from it, so callers pass the
// complete desired list. The caller saves the user.
func (s *ParticipationSynchronizer) SyncMiniDrawParticipation(txCtx context.Context, user *models.User, changes []MiniDrawChange) error {
	if err := negativeTotals("miniDrawParticipation", len(changes), func(i int) int { return changes[i].TotalEntries }); err != nil {
		return err
	}
	now := s.now()
	records := make(map[primitive.ObjectID]models.MiniDrawParticipation, len(changes))
	order := make([]primitive.ObjectID, 0, len(changes))

	for _, c := range changes {
		draw, err := s.miniDraws.FindByID(txCtx, c.MiniDrawID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return notFoundf("mini draw %s", c.MiniDrawID.Hex())
			}
			return fmt.Errorf("load mini draw %s: %w", c.MiniDrawID.Hex(), err)
		}

		existingMirror := user.FindMiniDrawParticipation(c.MiniDrawID)

		if c.TotalEntries == 0 {
			draw.Entries.Remove(user.ID)
			delete(records, c.MiniDrawID)
		} else {
			sources := models.EntriesBySource{models.SourceMiniDrawPackage: c.TotalEntries}
			if free := freeEntries(draw.Entries.Find(user.ID), existingMirror); free > 0 {
				sources[models.SourceFreeEntry] = free
			}
			draw.Entries.Set(user.ID, sources, now)
			entry := draw.Entries.Find(user.ID)

			first := entry.FirstAddedDate
			if existingMirror != nil && !existingMirror.FirstParticipatedDate.IsZero() {
				first = existingMirror.FirstParticipatedDate
			}
			isActive := true
			if c.IsActive != nil {
				isActive = *c.IsActive
			}
			records[c.MiniDrawID] = models.MiniDrawParticipation{
				MiniDrawID:            c.MiniDrawID,
				TotalEntries:          entry.TotalEntries,
				EntriesBySource:       entry.EntriesBySource.Clone(),
				FirstParticipatedDate: first,
				LastParticipatedDate:  now,
				IsActive:              isActive,
			}
			order = append(order, c.MiniDrawID)
		}

		draw.RecalculateTotal()
		if err := s.miniDraws.SaveEntries(txCtx, draw); err != nil {
			return fmt.Errorf("save mini draw %s: %w", c.MiniDrawID.Hex(), err)
		}
	}

	// one record per mini draw, in first-seen order, last change wins
	participation := make([]models.MiniDrawParticipation, 0, len(records))
	for _, id := range order {
		if r, ok := records[id]; ok {
			participation = append(participation, r)
			delete(records, id)
		}
	}
	user.MiniDrawParticipation = participation
	zap.L().Debug("mini draw participation synced",
		zap.String("userId", user.ID.Hex()),
		zap.Int("records", len(participation)))
	return nil
}

// freeEntries returns the free-entry bucket recorded for the user, preferring
// the draw's own entry over the user's mirror.
func freeEntries(entry *models.DrawEntry, mirror *models.MiniDrawParticipation) int {
	if entry != nil {
		if n, ok := entry.EntriesBySource[models.SourceFreeEntry]; ok {
			return n
		}
	}
	if mirror != nil {
		return mirror.EntriesBySource[models.SourceFreeEntry]
	}
	return 0
}

// negativeTotals reports every change whose total is below zero.
func negativeTotals(field string, n int, total func(int) int) error {
	var issues []FieldIssue
	for i := 0; i < n; i++ {
		if total(i) < 0 {
			issues = append(issues, FieldIssue{
				Path:    fmt.Sprintf("%s[%d].totalEntries", field, i),
				Message: "must be at least 0",
			})
		}
	}
	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

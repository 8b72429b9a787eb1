package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ArowuTest/toolsau-entries-backend/internal/catalog"
	"github.com/ArowuTest/toolsau-entries-backend/internal/models"
	"github.com/ArowuTest/toolsau-entries-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ProfileBuilder assembles the consolidated admin view of a user.
type ProfileBuilder interface {
	BuildProfile(ctx context.Context, userID primitive.ObjectID) (*models.AdminUserProfile, error)
}

// AdminUserService applies admin edits to a user and every draw the user
// participates in as a single unit.
type AdminUserService struct {
	tx       repositories.Transactor
	userRepo repositories.UserRepository
	sync     *ParticipationSynchronizer
	profiles ProfileBuilder
	flags    FeatureFlags
	now      func() time.Time
}

// NewAdminUserService creates a new AdminUserService
func NewAdminUserService(
	tx repositories.Transactor,
	userRepo repositories.UserRepository,
	sync *ParticipationSynchronizer,
	profiles ProfileBuilder,
	flags FeatureFlags,
) *AdminUserService {
	return &AdminUserService{
		tx:       tx,
		userRepo: userRepo,
		sync:     sync,
		profiles: profiles,
		flags:    flags,
		now:      time.Now,
	}
}

// GetUserProfile returns the consolidated profile of a user
func (s *AdminUserService) GetUserProfile(ctx context.Context, userID primitive.ObjectID) (*models.AdminUserProfile, error) {
	return s.profiles.BuildProfile(ctx, userID)
}

// UpdateUser validates req, then applies every block of it in one
// transaction. Nothing is written unless every block succeeds.
func (s *AdminUserService) UpdateUser(ctx context.Context, userID primitive.ObjectID, req *models.AdminUserUpdateRequest) (*models.AdminUserProfile, error) {
	if issues := ValidateUpdateRequest(req); len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}

	if req.Rewards.TouchesBalances() {
		enabled, msg, err := s.flags.RewardsStatus(ctx)
		if err != nil {
			return nil, fmt.Errorf("check rewards status: %w", err)
		}
		if !enabled {
			return nil, &FeatureDisabledError{Feature: "rewards", Message: msg}
		}
	}

	now := s.now()
	err := s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		user, err := s.userRepo.FindByID(txCtx, userID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return notFoundf("user %s", userID.Hex())
			}
			return fmt.Errorf("load user: %w", err)
		}

		if err := s.checkEmailAvailable(txCtx, user, req.BasicInfo); err != nil {
			return err
		}

		applyBasicInfo(user, req.BasicInfo)
		applySubscription(user, req.Subscription, now)
		applyRewards(user, req.Rewards)
		if req.OneTimePackages != nil {
			user.OneTimePackages = buildOneTimePackages(*req.OneTimePackages)
		}
		if req.MiniDrawPackages != nil {
			user.MiniDrawPackages = buildMiniDrawPackages(*req.MiniDrawPackages)
		}
		if req.PartnerDiscountQueue != nil {
			user.PartnerDiscountQueue = buildPartnerDiscountQueue(*req.PartnerDiscountQueue, now)
		}

		if req.MajorDrawParticipation != nil {
			if err := s.sync.SyncMajorDrawParticipation(txCtx, user.ID, majorDrawChanges(*req.MajorDrawParticipation)); err != nil {
				return err
			}
		}
		if req.MiniDrawParticipation != nil {
			if err := s.sync.SyncMiniDrawParticipation(txCtx, user, miniDrawChanges(*req.MiniDrawParticipation)); err != nil {
				return err
			}
		}

		user.UpdatedAt = now
		return s.userRepo.Save(txCtx, user)
	})
	if err != nil {
		zap.L().Warn("admin user update aborted",
			zap.String("userId", userID.Hex()),
			zap.Error(err))
		return nil, &TransactionAbortedError{Err: err}
	}

	zap.L().Info("admin user updated", zap.String("userId", userID.Hex()))
	return s.profiles.BuildProfile(ctx, userID)
}

// checkEmailAvailable rejects an email change to an address held by another user.
func (s *AdminUserService) checkEmailAvailable(txCtx context.Context, user *models.User, in *models.BasicInfoUpdate) error {
	if in == nil || in.Email == nil {
		return nil
	}
	email := normalizeEmail(*in.Email)
	if email == user.Email {
		return nil
	}
	other, err := s.userRepo.FindByEmail(txCtx, email)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("check email: %w", err)
	case other.ID != user.ID:
		return &ValidationError{Issues: []FieldIssue{{Path: "basicInfo.email", Message: "is already in use"}}}
	}
	return nil
}

// ValidateUpdateRequest returns every schema and catalog issue in req.
func ValidateUpdateRequest(req *models.AdminUserUpdateRequest) []FieldIssue {
	if req == nil {
		return []FieldIssue{{Path: "", Message: "request body is required"}}
	}
	issues := validateStruct("", req)

	if v := req.Subscription.Value; v != nil {
		sub := validateStruct("subscription", v)
		issues = append(issues, sub...)
		if len(sub) == 0 {
			if _, ok := catalog.GetPackageByIDAndType(v.PackageID, catalog.TypeSubscription); !ok {
				issues = append(issues, FieldIssue{Path: "subscription.packageId", Message: "unknown subscription package"})
			}
		}
	}
	return issues
}

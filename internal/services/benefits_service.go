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

// BenefitsService grants the benefits of paid packages and referrals. Each
// grant updates the user, the affected draw and the payment log together.
type BenefitsService struct {
	tx            repositories.Transactor
	userRepo      repositories.UserRepository
	majorDrawRepo repositories.MajorDrawRepository
	miniDrawRepo  repositories.MiniDrawRepository
	eventRepo     repositories.PaymentEventRepository
	referralRepo  repositories.ReferralEventRepository
	promo         PromoSource
	now           func() time.Time
}

// NewBenefitsService creates a new BenefitsService
func NewBenefitsService(
	tx repositories.Transactor,
	userRepo repositories.UserRepository,
	majorDrawRepo repositories.MajorDrawRepository,
	miniDrawRepo repositories.MiniDrawRepository,
	eventRepo repositories.PaymentEventRepository,
	referralRepo repositories.ReferralEventRepository,
	promo PromoSource,
) *BenefitsService {
	return &BenefitsService{
		tx:            tx,
		userRepo:      userRepo,
		majorDrawRepo: majorDrawRepo,
		miniDrawRepo:  miniDrawRepo,
		eventRepo:     eventRepo,
		referralRepo:  referralRepo,
		promo:         promo,
		now:           time.Now,
	}
}

// GrantOneTimePackage records a one-time package purchase and adds its
// entries to the active major draw. A payment intent already granted is a
// no-op.
func (s *BenefitsService) GrantOneTimePackage(ctx context.Context, userID primitive.ObjectID, packageID, paymentIntentID string) (*models.User, error) {
	pkg, ok := catalog.GetPackageByIDAndType(packageID, catalog.TypeOneTime)
	if !ok {
		return nil, &ValidationError{Issues: []FieldIssue{{Path: "packageId", Message: "unknown one-time package"}}}
	}

	now := s.now()
	var result *models.User
	err := s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		user, err := s.loadUser(txCtx, userID)
		if err != nil {
			return err
		}
		result = user
		if user.HasPaymentIntent(paymentIntentID) {
			zap.L().Info("payment intent already granted", zap.String("paymentIntentId", paymentIntentID))
			return nil
		}

		draw, err := s.majorDrawRepo.FindActive(txCtx)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrNoActiveDraw
			}
			return fmt.Errorf("load active draw: %w", err)
		}
		draw.Entries.Add(user.ID, models.SourceOneTimePackage, pkg.Entries, now)
		if err := s.majorDrawRepo.SaveEntries(txCtx, draw); err != nil {
			return fmt.Errorf("save major draw %s: %w", draw.ID.Hex(), err)
		}

		user.OneTimePackages = append(user.OneTimePackages, models.OneTimePackage{
			PackageID:       pkg.ID,
			PackageName:     pkg.Name,
			PurchaseDate:    now,
			StartDate:       now,
			IsActive:        true,
			EntriesGranted:  pkg.Entries,
			PaymentIntentID: paymentIntentID,
		})
		queuePartnerDiscount(user, pkg.ID, pkg.Name, models.PackageTypeOneTime, pkg.PartnerDiscountDays, pkg.PartnerDiscountHours, now)
		user.UpdatedAt = now
		if err := s.userRepo.Save(txCtx, user); err != nil {
			return fmt.Errorf("save user: %w", err)
		}

		return s.eventRepo.Create(txCtx, &models.PaymentEvent{
			UserID:          user.ID,
			EventType:       models.EventBenefitsGranted,
			PackageType:     models.PackageTypeOneTime,
			PaymentIntentID: paymentIntentID,
			Data: models.PaymentEventData{
				PackageID:   pkg.ID,
				PackageName: pkg.Name,
				Price:       pkg.Price,
				Entries:     pkg.Entries,
			},
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, &TransactionAbortedError{Err: err}
	}
	return result, nil
}

// GrantMiniDrawPackage records a mini-draw package purchase. The active
// promo multiplies the package entries. The mini draw closes once it
// reaches its minimum entries. A payment intent already granted is a no-op.
func (s *BenefitsService) GrantMiniDrawPackage(ctx context.Context, userID, miniDrawID primitive.ObjectID, packageID, paymentIntentID string) (*models.User, error) {
	pkg, ok := catalog.GetMiniDrawPackageByID(packageID)
	if !ok {
		return nil, &ValidationError{Issues: []FieldIssue{{Path: "packageId", Message: "unknown mini-draw package"}}}
	}

	m, promoActive, err := s.promo.ActivePromo(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve promo: %w", err)
	}
	if promoActive {
		if pkg, err = catalog.ApplyPromoToMiniPackage(pkg, m); err != nil {
			return nil, err
		}
	}

	now := s.now()
	var result *models.User
	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		user, err := s.loadUser(txCtx, userID)
		if err != nil {
			return err
		}
		result = user
		if user.HasPaymentIntent(paymentIntentID) {
			zap.L().Info("payment intent already granted", zap.String("paymentIntentId", paymentIntentID))
			return nil
		}
		if pkg.IsMemberOnly && !user.HasActiveSubscription() {
			return &ValidationError{Issues: []FieldIssue{{Path: "packageId", Message: "requires an active membership"}}}
		}

		draw, err := s.miniDrawRepo.FindByID(txCtx, miniDrawID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return notFoundf("mini draw %s", miniDrawID.Hex())
			}
			return fmt.Errorf("load mini draw %s: %w", miniDrawID.Hex(), err)
		}
		if !draw.AcceptsEntries() {
			return ErrDrawClosed
		}

		draw.Entries.Add(user.ID, models.SourceMiniDrawPackage, pkg.Entries, now)
		draw.RecalculateTotal()
		if draw.CapacityReached() {
			draw.IsOpenForEntries = false
			draw.ClosedAt = &now
			zap.L().Info("mini draw reached minimum entries",
				zap.String("miniDrawId", draw.ID.Hex()),
				zap.Int("totalEntries", draw.TotalEntries))
		}
		if err := s.miniDrawRepo.SaveEntries(txCtx, draw); err != nil {
			return fmt.Errorf("save mini draw %s: %w", draw.ID.Hex(), err)
		}

		mirrorEntry(user, draw.Entries.Find(user.ID), draw.ID, now)
		user.MiniDrawPackages = append(user.MiniDrawPackages, models.MiniDrawPurchase{
			PackageID:            pkg.ID,
			PackageName:          pkg.Name,
			MiniDrawID:           draw.ID,
			PurchaseDate:         now,
			EntriesGranted:       pkg.Entries,
			PartnerDiscountHours: pkg.PartnerDiscountHours,
			PartnerDiscountDays:  pkg.PartnerDiscountDays,
			PaymentIntentID:      paymentIntentID,
			IsActive:             true,
		})
		queuePartnerDiscount(user, pkg.ID, pkg.Name, models.PackageTypeMiniDraw, pkg.PartnerDiscountDays, pkg.PartnerDiscountHours, now)
		user.UpdatedAt = now
		if err := s.userRepo.Save(txCtx, user); err != nil {
			return fmt.Errorf("save user: %w", err)
		}

		id := draw.ID
		return s.eventRepo.Create(txCtx, &models.PaymentEvent{
			UserID:          user.ID,
			EventType:       models.EventBenefitsGranted,
			PackageType:     models.PackageTypeMiniDraw,
			PaymentIntentID: paymentIntentID,
			Data: models.PaymentEventData{
				PackageID:   pkg.ID,
				PackageName: pkg.Name,
				Price:       pkg.Price,
				Entries:     pkg.Entries,
				MiniDrawID:  &id,
				Multiplier:  pkg.PromoMultiplier,
			},
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, &TransactionAbortedError{Err: err}
	}
	return result, nil
}

// ConvertReferral marks a pending referral converted and credits both
// parties in the active major draw.
func (s *BenefitsService) ConvertReferral(ctx context.Context, referralID primitive.ObjectID) (*models.ReferralEvent, error) {
	now := s.now()
	var result *models.ReferralEvent
	err := s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		ref, err := s.referralRepo.FindByID(txCtx, referralID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return notFoundf("referral %s", referralID.Hex())
			}
			return fmt.Errorf("load referral: %w", err)
		}
		if ref.Status == models.ReferralConverted {
			return ErrAlreadyConverted
		}

		draw, err := s.majorDrawRepo.FindActive(txCtx)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrNoActiveDraw
			}
			return fmt.Errorf("load active draw: %w", err)
		}
		if ref.ReferrerEntries > 0 {
			draw.Entries.Add(ref.ReferrerID, models.SourceReferral, ref.ReferrerEntries, now)
		}
		if ref.ReferredEntries > 0 {
			draw.Entries.Add(ref.ReferredUserID, models.SourceReferral, ref.ReferredEntries, now)
		}
		if err := s.majorDrawRepo.SaveEntries(txCtx, draw); err != nil {
			return fmt.Errorf("save major draw %s: %w", draw.ID.Hex(), err)
		}

		ref.Status = models.ReferralConverted
		ref.ConvertedAt = &now
		ref.UpdatedAt = now
		if err := s.referralRepo.Update(txCtx, ref); err != nil {
			return fmt.Errorf("save referral: %w", err)
		}
		result = ref
		return nil
	})
	if err != nil {
		return nil, &TransactionAbortedError{Err: err}
	}
	zap.L().Info("referral converted",
		zap.String("referralId", referralID.Hex()),
		zap.String("referrerId", result.ReferrerID.Hex()))
	return result, nil
}

func (s *BenefitsService) loadUser(txCtx context.Context, userID primitive.ObjectID) (*models.User, error) {
	user, err := s.userRepo.FindByID(txCtx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFoundf("user %s", userID.Hex())
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

// mirrorEntry copies the draw entry into the user's participation record.
func mirrorEntry(user *models.User, entry *models.DrawEntry, miniDrawID primitive.ObjectID, now time.Time) {
	if entry == nil {
		return
	}
	if p := user.FindMiniDrawParticipation(miniDrawID); p != nil {
		p.TotalEntries = entry.TotalEntries
		p.EntriesBySource = entry.EntriesBySource.Clone()
		p.LastParticipatedDate = now
		p.IsActive = true
		return
	}
	user.MiniDrawParticipation = append(user.MiniDrawParticipation, models.MiniDrawParticipation{
		MiniDrawID:            miniDrawID,
		TotalEntries:          entry.TotalEntries,
		EntriesBySource:       entry.EntriesBySource.Clone(),
		FirstParticipatedDate: entry.FirstAddedDate,
		LastParticipatedDate:  now,
		IsActive:              true,
	})
}

// queuePartnerDiscount appends a queued grant when the package carries a
// discount window.
func queuePartnerDiscount(user *models.User, packageID, packageName, packageType string, days, hours int, now time.Time) {
	if days <= 0 && hours <= 0 {
		return
	}
	user.PartnerDiscountQueue = append(user.PartnerDiscountQueue, models.PartnerDiscountGrant{
		PackageID:     packageID,
		PackageName:   packageName,
		PackageType:   packageType,
		DurationDays:  days,
		DurationHours: hours,
		Status:        models.DiscountQueued,
		QueuedDate:    now,
	})
}

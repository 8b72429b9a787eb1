package services

import (
	"strings"
	"time"

	"github.com/ArowuTest/toolsau-entries-backend/internal/catalog"
	"github.com/ArowuTest/toolsau-entries-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// normalizeEmail lowercases and trims an address for storage and lookup.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// applyBasicInfo copies the non-nil profile fields onto user.
func applyBasicInfo(user *models.User, in *models.BasicInfoUpdate) {
	if in == nil {
		return
	}
	if in.FirstName != nil {
		user.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		user.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Email != nil {
		user.Email = normalizeEmail(*in.Email)
	}
	if in.Phone != nil {
		user.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.State != nil {
		user.State = strings.ToUpper(strings.TrimSpace(*in.State))
	}
	if in.Role != nil {
		user.Role = *in.Role
	}
	if in.IsEmailVerified != nil {
		user.IsEmailVerified = *in.IsEmailVerified
	}
	if in.IsMobileVerified != nil {
		user.IsMobileVerified = *in.IsMobileVerified
	}
	if in.ProfileSetupCompleted != nil {
		user.ProfileSetupCompleted = *in.ProfileSetupCompleted
	}
}

// applySubscription upserts or clears the membership. An explicit null
// clears it; an absent block leaves it alone.
func applySubscription(user *models.User, f models.SubscriptionField, now time.Time) {
	if !f.Set {
		return
	}
	in := f.Value
	if in == nil {
		user.Subscription = nil
		return
	}

	sub := user.Subscription
	if sub == nil {
		sub = &models.Subscription{
			Status:    "active",
			IsActive:  true,
			StartDate: now,
			AutoRenew: true,
		}
	}
	if sub.PackageID != in.PackageID {
		sub.PendingChange = nil
	}
	sub.PackageID = in.PackageID
	sub.PackageName = catalog.ResolvePackageName(in.PackageID, sub.PackageName)

	if in.Status != "" {
		sub.Status = in.Status
		sub.IsActive = in.Status == "active"
	}
	if in.IsActive != nil {
		sub.IsActive = *in.IsActive
	}
	if in.StartDate != nil {
		sub.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		sub.EndDate = in.EndDate
	}
	if in.AutoRenew != nil {
		sub.AutoRenew = *in.AutoRenew
	}
	user.Subscription = sub
}

// applyRewards overwrites the balances present in the update.
func applyRewards(user *models.User, in *models.RewardsUpdate) {
	if in == nil {
		return
	}
	if in.RewardsPoints != nil {
		user.RewardsPoints = *in.RewardsPoints
	}
	if in.AccumulatedEntries != nil {
		user.AccumulatedEntries = *in.AccumulatedEntries
	}
	if in.EntryWallet != nil {
		user.EntryWallet = *in.EntryWallet
	}
}

// buildOneTimePackages returns the complete replacement list.
func buildOneTimePackages(in []models.OneTimePackageInput) []models.OneTimePackage {
	out := make([]models.OneTimePackage, 0, len(in))
	for _, p := range in {
		start := p.PurchaseDate
		if p.StartDate != nil {
			start = *p.StartDate
		}
		out = append(out, models.OneTimePackage{
			PackageID:       p.PackageID,
			PackageName:     catalog.ResolvePackageName(p.PackageID, p.PackageName),
			PurchaseDate:    p.PurchaseDate,
			StartDate:       start,
			EndDate:         p.EndDate,
			IsActive:        p.IsActive,
			EntriesGranted:  p.EntriesGranted,
			PaymentIntentID: p.PaymentIntentID,
		})
	}
	return out
}

// buildMiniDrawPackages returns the complete replacement list. Ids must
// already be validated.
func buildMiniDrawPackages(in []models.MiniDrawPackageInput) []models.MiniDrawPurchase {
	out := make([]models.MiniDrawPurchase, 0, len(in))
	for _, p := range in {
		id, _ := primitive.ObjectIDFromHex(p.MiniDrawID)
		out = append(out, models.MiniDrawPurchase{
			PackageID:            p.PackageID,
			PackageName:          catalog.ResolvePackageName(p.PackageID, p.PackageName),
			MiniDrawID:           id,
			PurchaseDate:         p.PurchaseDate,
			EntriesGranted:       p.EntriesGranted,
			PartnerDiscountHours: p.PartnerDiscountHours,
			PartnerDiscountDays:  p.PartnerDiscountDays,
			PaymentIntentID:      p.PaymentIntentID,
			IsActive:             p.IsActive,
		})
	}
	return out
}

// buildPartnerDiscountQueue returns the complete replacement queue. Active
// grants without a start date start now and run for their duration.
// Expired grants without an end date end now.
func buildPartnerDiscountQueue(in []models.PartnerDiscountInput, now time.Time) []models.PartnerDiscountGrant {
	out := make([]models.PartnerDiscountGrant, 0, len(in))
	for _, p := range in {
		g := models.PartnerDiscountGrant{
			PackageID:     p.PackageID,
			PackageName:   catalog.ResolvePackageName(p.PackageID, p.PackageName),
			PackageType:   p.PackageType,
			DurationDays:  p.DurationDays,
			DurationHours: p.DurationHours,
			Status:        p.Status,
			QueuedDate:    now,
			StartDate:     p.StartDate,
			EndDate:       p.EndDate,
		}
		if p.QueuedDate != nil {
			g.QueuedDate = *p.QueuedDate
		}

		switch g.Status {
		case models.DiscountActive:
			if g.StartDate == nil {
				start := now
				end := start.Add(g.Duration())
				g.StartDate = &start
				g.EndDate = &end
			}
		case models.DiscountExpired:
			if g.EndDate == nil {
				end := now
				g.EndDate = &end
			}
		}
		out = append(out, g)
	}
	return out
}

func majorDrawChanges(in []models.MajorDrawParticipationUpdate) []MajorDrawChange {
	out := make([]MajorDrawChange, 0, len(in))
	for _, u := range in {
		id, _ := primitive.ObjectIDFromHex(u.DrawID)
		out = append(out, MajorDrawChange{DrawID: id, TotalEntries: u.TotalEntries})
	}
	return out
}

func miniDrawChanges(in []models.MiniDrawParticipationUpdate) []MiniDrawChange {
	out := make([]MiniDrawChange, 0, len(in))
	for _, u := range in {
		id, _ := primitive.ObjectIDFromHex(u.MiniDrawID)
		out = append(out, MiniDrawChange{MiniDrawID: id, TotalEntries: u.TotalEntries, IsActive: u.IsActive})
	}
	return out
}

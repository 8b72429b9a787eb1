package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ArowuTest/toolsau-entries-backend/internal/catalog"
	"github.com/ArowuTest/toolsau-entries-backend/internal/models"
	"github.com/ArowuTest/toolsau-entries-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

const recentOrdersLimit = 10

// StatisticsService builds read-only profile views and derived metrics.
type StatisticsService struct {
	userRepo      repositories.UserRepository
	majorDrawRepo repositories.MajorDrawRepository
	miniDrawRepo  repositories.MiniDrawRepository
	eventRepo     repositories.PaymentEventRepository
	orderRepo     repositories.OrderRepository
	referralRepo  repositories.ReferralEventRepository
	now           func() time.Time
}

var _ ProfileBuilder = (*StatisticsService)(nil)

// NewStatisticsService creates a new StatisticsService
func NewStatisticsService(
	userRepo repositories.UserRepository,
	majorDrawRepo repositories.MajorDrawRepository,
	miniDrawRepo repositories.MiniDrawRepository,
	eventRepo repositories.PaymentEventRepository,
	orderRepo repositories.OrderRepository,
	referralRepo repositories.ReferralEventRepository,
) *StatisticsService {
	return &StatisticsService{
		userRepo:      userRepo,
		majorDrawRepo: majorDrawRepo,
		miniDrawRepo:  miniDrawRepo,
		eventRepo:     eventRepo,
		orderRepo:     orderRepo,
		referralRepo:  referralRepo,
		now:           time.Now,
	}
}

// BuildProfile loads everything known about a user and derives statistics.
func (s *StatisticsService) BuildProfile(ctx context.Context, userID primitive.ObjectID) (*models.AdminUserProfile, error) {
	var (
		user       *models.User
		events     []*models.PaymentEvent
		orders     []*models.Order
		majorDraws []*models.MajorDraw
		activeDraw *models.MajorDraw
		miniDraws  []*models.MiniDraw
		referrals  []*models.ReferralEvent
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		user, err = s.userRepo.FindByID(gctx, userID)
		if errors.Is(err, repositories.ErrNotFound) {
			return notFoundf("user %s", userID.Hex())
		}
		return err
	})
	g.Go(func() error {
		var err error
		events, err = s.eventRepo.FindByUserID(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		orders, err = s.orderRepo.FindByUserID(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		majorDraws, err = s.majorDrawRepo.FindByParticipant(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		activeDraw, err = s.majorDrawRepo.FindActive(gctx)
		if errors.Is(err, repositories.ErrNotFound) {
			activeDraw, err = nil, nil
		}
		return err
	})
	g.Go(func() error {
		var err error
		miniDraws, err = s.miniDrawRepo.FindByParticipant(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		referrals, err = s.referralRepo.FindByReferrer(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load profile of user %s: %w", userID.Hex(), err)
	}

	majorViews, majorEntries := majorDrawViews(majorDraws, activeDraw, userID)
	miniViews, miniEntries := miniDrawViews(user, miniDraws)
	ltv, counted := LifetimeValue(events, orders)

	stats := models.UserStatistics{
		LifetimeValue:         ltv,
		TotalOrders:           len(orders),
		TotalPurchases:        counted,
		CurrentDrawEntries:    CurrentDrawEntries(activeDraw, userID),
		TotalMajorDrawEntries: majorEntries,
		TotalMiniDrawEntries:  miniEntries,
		EngagementScore:       EngagementScore(user, counted, majorEntries, s.now()),
	}
	if counted > 0 {
		stats.AverageOrderValue = ltv / float64(counted)
	}

	history := packageHistory(events)
	return &models.AdminUserProfile{
		User:                   user,
		Statistics:             stats,
		MajorDrawParticipation: majorViews,
		MiniDrawParticipation:  miniViews,
		SubscriptionHistory:    history[models.PackageTypeSubscription],
		OneTimePackageHistory:  history[models.PackageTypeOneTime],
		UpsellHistory:          history[models.PackageTypeUpsell],
		MiniDrawHistory:        history[models.PackageTypeMiniDraw],
		RecentOrders:           recentOrders(orders, recentOrdersLimit),
		Referrals:              summarizeReferrals(referrals),
	}, nil
}

// EngagementScore rates a user's activity on a 0 to 100 scale.
func EngagementScore(user *models.User, purchases, majorEntries int, now time.Time) int {
	if user == nil {
		return 0
	}
	score := 0
	if user.IsEmailVerified {
		score += 10
	}
	if user.IsMobileVerified {
		score += 10
	}
	if user.ProfileSetupCompleted {
		score += 10
	}
	if user.LastLogin != nil {
		since := now.Sub(*user.LastLogin)
		switch {
		case since <= 7*24*time.Hour:
			score += 20
		case since <= 30*24*time.Hour:
			score += 10
		case since <= 90*24*time.Hour:
			score += 5
		}
	}
	if purchases > 0 {
		score += min(5*purchases, 20)
	}
	if majorEntries > 0 {
		score += min(majorEntries, 10)
	}
	if user.HasActiveSubscription() {
		score += 10
	}
	if len(user.OneTimePackages) > 0 {
		score += 5
	}
	if user.UpsellStats.TotalAccepted > 0 {
		score += 5
	}
	return max(0, min(score, 100))
}

// CurrentDrawEntries returns the user's entries in the active major draw.
func CurrentDrawEntries(active *models.MajorDraw, userID primitive.ObjectID) int {
	if active == nil {
		return 0
	}
	if e := active.Entries.Find(userID); e != nil {
		return e.TotalEntries
	}
	return 0
}

// LifetimeValue sums granted payment events and the non-cancelled orders
// not already represented by an event. It also returns how many
// transactions were counted.
func LifetimeValue(events []*models.PaymentEvent, orders []*models.Order) (float64, int) {
	var total float64
	counted := 0
	seen := make(map[string]struct{}, len(events))
	for _, e := range events {
		if e.EventType != models.EventBenefitsGranted {
			continue
		}
		total += e.Data.Price
		counted++
		if e.PaymentIntentID != "" {
			seen[e.PaymentIntentID] = struct{}{}
		}
	}
	for _, o := range orders {
		if o.Status == models.OrderCancelled {
			continue
		}
		if _, ok := seen[o.PaymentIntentID]; ok && o.PaymentIntentID != "" {
			continue
		}
		total += o.TotalAmount
		counted++
	}
	return total, counted
}

func majorDrawViews(draws []*models.MajorDraw, active *models.MajorDraw, userID primitive.ObjectID) ([]models.MajorDrawParticipationView, int) {
	views := make([]models.MajorDrawParticipationView, 0, len(draws))
	total := 0
	for _, d := range draws {
		e := d.Entries.Find(userID)
		if e == nil {
			continue
		}
		total += e.TotalEntries
		views = append(views, models.MajorDrawParticipationView{
			DrawID:          d.ID,
			DrawName:        d.Name,
			Status:          d.Status,
			DrawDate:        d.DrawDate,
			TotalEntries:    e.TotalEntries,
			EntriesBySource: e.EntriesBySource.Clone(),
			FirstAddedDate:  e.FirstAddedDate,
			LastUpdatedDate: e.LastUpdatedDate,
			IsCurrent:       active != nil && active.ID == d.ID,
		})
	}
	sort.SliceStable(views, func(i, j int) bool { return views[i].DrawDate.After(views[j].DrawDate) })
	return views, total
}

func miniDrawViews(user *models.User, draws []*models.MiniDraw) ([]models.MiniDrawParticipationView, int) {
	byID := make(map[primitive.ObjectID]*models.MiniDraw, len(draws))
	for _, d := range draws {
		byID[d.ID] = d
	}

	views := make([]models.MiniDrawParticipationView, 0, len(user.MiniDrawParticipation))
	total := 0
	for _, p := range user.MiniDrawParticipation {
		total += p.TotalEntries
		v := models.MiniDrawParticipationView{MiniDrawParticipation: p}
		if d, ok := byID[p.MiniDrawID]; ok {
			v.MiniDrawName = d.Name
			v.MiniDrawStatus = d.Status
			v.IsWinner = d.Winner != nil && d.Winner.UserID == user.ID
		}
		views = append(views, v)
	}
	return views, total
}

// packageHistory projects granted payment events by package type, newest first.
func packageHistory(events []*models.PaymentEvent) map[string][]models.PackageHistoryItem {
	out := map[string][]models.PackageHistoryItem{
		models.PackageTypeSubscription: {},
		models.PackageTypeOneTime:      {},
		models.PackageTypeUpsell:       {},
		models.PackageTypeMiniDraw:     {},
	}
	for _, e := range events {
		if e.EventType != models.EventBenefitsGranted {
			continue
		}
		out[e.PackageType] = append(out[e.PackageType], models.PackageHistoryItem{
			EventID:      e.ID,
			PackageID:    e.Data.PackageID,
			PackageName:  catalog.ResolvePackageName(e.Data.PackageID, e.Data.PackageName),
			PackageType:  e.PackageType,
			Price:        e.Data.Price,
			Entries:      e.Data.Entries,
			MiniDrawID:   e.Data.MiniDrawID,
			PurchaseDate: e.CreatedAt,
		})
	}
	for _, items := range out {
		sort.SliceStable(items, func(i, j int) bool { return items[i].PurchaseDate.After(items[j].PurchaseDate) })
	}
	return out
}

func recentOrders(orders []*models.Order, limit int) []*models.Order {
	sorted := make([]*models.Order, len(orders))
	copy(sorted, orders)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CreatedAt.After(sorted[j].CreatedAt) })
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

func summarizeReferrals(referrals []*models.ReferralEvent) models.ReferralSummary {
	sum := models.ReferralSummary{TotalReferrals: len(referrals)}
	for _, r := range referrals {
		if r.Status == models.ReferralConverted {
			sum.ConvertedReferrals++
			sum.EntriesEarned += r.ReferrerEntries
		}
	}
	return sum
}

package services

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/ArowuTest/toolsau-entries-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEngagementScore(t *testing.T) {
	recent := testNow.Add(-2 * 24 * time.Hour)
	month := testNow.Add(-20 * 24 * time.Hour)
	quarter := testNow.Add(-60 * 24 * time.Hour)
	stale := testNow.Add(-200 * 24 * time.Hour)

	tests := []struct {
		name         string
		user         *models.User
		purchases    int
		majorEntries int
		want         int
	}{
		{name: "nil user", user: nil, want: 0},
		{name: "empty user", user: &models.User{}, want: 0},
		{name: "verified only", user: &models.User{IsEmailVerified: true, IsMobileVerified: true, ProfileSetupCompleted: true}, want: 30},
		{name: "login this week", user: &models.User{LastLogin: &recent}, want: 20},
		{name: "login this month", user: &models.User{LastLogin: &month}, want: 10},
		{name: "login this quarter", user: &models.User{LastLogin: &quarter}, want: 5},
		{name: "stale login", user: &models.User{LastLogin: &stale}, want: 0},
		{name: "purchases capped", user: &models.User{}, purchases: 9, want: 20},
		{name: "two purchases", user: &models.User{}, purchases: 2, want: 10},
		{name: "entries capped", user: &models.User{}, majorEntries: 500, want: 10},
		{name: "few entries", user: &models.User{}, majorEntries: 3, want: 3},
		{
			name: "everything",
			user: &models.User{
				IsEmailVerified:       true,
				IsMobileVerified:      true,
				ProfileSetupCompleted: true,
				LastLogin:             &recent,
				Subscription:          &models.Subscription{IsActive: true},
				OneTimePackages:       []models.OneTimePackage{{PackageID: "boss-pack"}},
				UpsellStats:           models.UpsellStats{TotalAccepted: 1},
			},
			purchases:    10,
			majorEntries: 100,
			want:         100,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EngagementScore(tt.user, tt.purchases, tt.majorEntries, testNow))
		})
	}
}

func TestEngagementScoreBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		login := testNow.Add(-time.Duration(rng.Intn(400*24)) * time.Hour)
		if rng.Intn(4) == 0 {
			login = testNow.Add(time.Duration(rng.Intn(48)) * time.Hour)
		}
		user := &models.User{
			IsEmailVerified:       rng.Intn(2) == 0,
			IsMobileVerified:      rng.Intn(2) == 0,
			ProfileSetupCompleted: rng.Intn(2) == 0,
			LastLogin:             &login,
			UpsellStats:           models.UpsellStats{TotalAccepted: rng.Intn(3) - 1},
		}
		if rng.Intn(2) == 0 {
			user.Subscription = &models.Subscription{IsActive: rng.Intn(2) == 0}
		}
		for n := rng.Intn(3); n > 0; n-- {
			user.OneTimePackages = append(user.OneTimePackages, models.OneTimePackage{})
		}

		score := EngagementScore(user, rng.Intn(50)-10, rng.Intn(1000)-100, testNow)
		assert.GreaterOrEqual(t, score, 0)
		assert.LessOrEqual(t, score, 100)
	}
}

func TestLifetimeValue(t *testing.T) {
	events := []*models.PaymentEvent{
		{EventType: models.EventBenefitsGranted, PaymentIntentID: "pi_1", Data: models.PaymentEventData{Price: 50}},
		{EventType: models.EventBenefitsGranted, PaymentIntentID: "pi_2", Data: models.PaymentEventData{Price: 20}},
		{EventType: models.EventRefunded, PaymentIntentID: "pi_2", Data: models.PaymentEventData{Price: 20}},
	}
	orders := []*models.Order{
		{Status: models.OrderDelivered, PaymentIntentID: "pi_1", TotalAmount: 50},
		{Status: models.OrderShipped, PaymentIntentID: "pi_3", TotalAmount: 30},
		{Status: models.OrderCancelled, PaymentIntentID: "pi_4", TotalAmount: 99},
		{Status: models.OrderPending, TotalAmount: 10},
	}

	ltv, counted := LifetimeValue(events, orders)
	assert.InDelta(t, 110.0, ltv, 0.001)
	assert.Equal(t, 4, counted)

	ltv, counted = LifetimeValue(nil, nil)
	assert.Zero(t, ltv)
	assert.Zero(t, counted)
}

func TestCurrentDrawEntries(t *testing.T) {
	userID := primitive.NewObjectID()
	var entries models.EntryLedger
	entries.Set(userID, models.EntriesBySource{models.SourceMembership: 6, models.SourceReferral: 2}, testNow)

	assert.Equal(t, 8, CurrentDrawEntries(&models.MajorDraw{Entries: entries}, userID))
	assert.Zero(t, CurrentDrawEntries(&models.MajorDraw{Entries: entries}, primitive.NewObjectID()))
	assert.Zero(t, CurrentDrawEntries(nil, userID))
}

func TestBuildProfile(t *testing.T) {
	h := newHarness(fakeFlags{enabled: true}, fakePromo{})
	login := testNow.Add(-24 * time.Hour)
	user := h.store.putUser(&models.User{
		Email:           "jo@example.com",
		IsEmailVerified: true,
		LastLogin:       &login,
	})

	var current, past models.EntryLedger
	current.Set(user.ID, models.EntriesBySource{models.SourceMembership: 4}, testNow)
	past.Set(user.ID, models.EntriesBySource{models.SourceOneTimePackage: 3}, testNow)
	active := h.store.putMajorDraw(&models.MajorDraw{Name: "April", Status: models.MajorDrawActive, DrawDate: testNow.Add(20 * 24 * time.Hour), Entries: current})
	h.store.putMajorDraw(&models.MajorDraw{Name: "February", Status: models.MajorDrawCompleted, DrawDate: testNow.Add(-20 * 24 * time.Hour), Entries: past})

	var miniEntries models.EntryLedger
	miniEntries.Set(user.ID, models.EntriesBySource{models.SourceMiniDrawPackage: 7}, testNow)
	mini := h.store.putMiniDraw(&models.MiniDraw{
		Name:    "Drill Kit",
		Status:  models.MiniDrawCompleted,
		Entries: miniEntries,
		Winner:  &models.MiniDrawWinner{UserID: user.ID, EntryNumber: 3},
	})
	stored := h.store.user(user.ID)
	stored.MiniDrawParticipation = []models.MiniDrawParticipation{{MiniDrawID: mini.ID, TotalEntries: 7}}
	h.store.putUser(stored)

	ctx := context.Background()
	events := fakeEventRepo{h.store}
	require.NoError(t, events.Create(ctx, &models.PaymentEvent{
		UserID: user.ID, EventType: models.EventBenefitsGranted, PackageType: models.PackageTypeOneTime,
		PaymentIntentID: "pi_1", Data: models.PaymentEventData{PackageID: "boss-pack", Price: 100, Entries: 50}, CreatedAt: testNow.Add(-time.Hour),
	}))
	require.NoError(t, events.Create(ctx, &models.PaymentEvent{
		UserID: user.ID, EventType: models.EventBenefitsGranted, PackageType: models.PackageTypeMiniDraw,
		Data: models.PaymentEventData{PackageID: "gone-pack", PackageName: "Gone Pack", Price: 5}, CreatedAt: testNow,
	}))
	for i := 0; i < 12; i++ {
		h.store.putOrder(&models.Order{UserID: user.ID, Status: models.OrderCancelled, OrderNumber: "O" + string(rune('A'+i)), CreatedAt: testNow.Add(time.Duration(i) * time.Minute)})
	}
	h.store.putReferral(&models.ReferralEvent{ReferrerID: user.ID, Status: models.ReferralConverted, ReferrerEntries: 5})
	h.store.putReferral(&models.ReferralEvent{ReferrerID: user.ID, Status: models.ReferralPending, ReferrerEntries: 5})

	profile, err := h.stats.BuildProfile(ctx, user.ID)
	require.NoError(t, err)

	assert.Equal(t, user.ID, profile.User.ID)
	require.Len(t, profile.MajorDrawParticipation, 2)
	assert.Equal(t, active.ID, profile.MajorDrawParticipation[0].DrawID)
	assert.True(t, profile.MajorDrawParticipation[0].IsCurrent)
	assert.False(t, profile.MajorDrawParticipation[1].IsCurrent)

	require.Len(t, profile.MiniDrawParticipation, 1)
	assert.Equal(t, "Drill Kit", profile.MiniDrawParticipation[0].MiniDrawName)
	assert.True(t, profile.MiniDrawParticipation[0].IsWinner)

	require.Len(t, profile.OneTimePackageHistory, 1)
	assert.Equal(t, "Boss Pack", profile.OneTimePackageHistory[0].PackageName)
	require.Len(t, profile.MiniDrawHistory, 1)
	assert.Equal(t, "Gone Pack", profile.MiniDrawHistory[0].PackageName)
	assert.Empty(t, profile.SubscriptionHistory)
	assert.NotNil(t, profile.UpsellHistory)

	require.Len(t, profile.RecentOrders, 10)
	assert.Equal(t, "OL", profile.RecentOrders[0].OrderNumber)

	stats := profile.Statistics
	assert.InDelta(t, 105.0, stats.LifetimeValue, 0.001)
	assert.InDelta(t, 52.5, stats.AverageOrderValue, 0.001)
	assert.Equal(t, 12, stats.TotalOrders)
	assert.Equal(t, 2, stats.TotalPurchases)
	assert.Equal(t, 4, stats.CurrentDrawEntries)
	assert.Equal(t, 7, stats.TotalMajorDrawEntries)
	assert.Equal(t, 7, stats.TotalMiniDrawEntries)
	// email 10, login 20, purchases 10, entries 7
	assert.Equal(t, 47, stats.EngagementScore)

	assert.Equal(t, models.ReferralSummary{TotalReferrals: 2, ConvertedReferrals: 1, EntriesEarned: 5}, profile.Referrals)
}

func TestBuildProfile_NoActiveDraw(t *testing.T) {
	h := newHarness(fakeFlags{enabled: true}, fakePromo{})
	user := h.store.putUser(&models.User{})

	profile, err := h.stats.BuildProfile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Zero(t, profile.Statistics.CurrentDrawEntries)
	assert.Empty(t, profile.MajorDrawParticipation)
	assert.Empty(t, profile.RecentOrders)
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminUserProfile is the consolidated read model returned by the admin
// user endpoints. It is rebuilt from the collections on every request.
type AdminUserProfile struct {
	User                   *User                        `json:"user"`
	Statistics             UserStatistics               `json:"statistics"`
	MajorDrawParticipation []MajorDrawParticipationView `json:"majorDrawParticipation"`
	MiniDrawParticipation  []MiniDrawParticipationView  `json:"miniDrawParticipation"`
	SubscriptionHistory    []PackageHistoryItem         `json:"subscriptionHistory"`
	OneTimePackageHistory  []PackageHistoryItem         `json:"oneTimePackageHistory"`
	UpsellHistory          []PackageHistoryItem         `json:"upsellHistory"`
	MiniDrawHistory        []PackageHistoryItem         `json:"miniDrawHistory"`
	RecentOrders           []*Order                     `json:"recentOrders"`
	Referrals              ReferralSummary              `json:"referrals"`
}

// UserStatistics holds derived metrics.
type UserStatistics struct {
	LifetimeValue         float64 `json:"lifetimeValue"`
	AverageOrderValue     float64 `json:"averageOrderValue"`
	TotalOrders           int     `json:"totalOrders"`
	TotalPurchases        int     `json:"totalPurchases"`
	EngagementScore       int     `json:"engagementScore"`
	CurrentDrawEntries    int     `json:"currentDrawEntries"`
	TotalMajorDrawEntries int     `json:"totalMajorDrawEntries"`
	TotalMiniDrawEntries  int     `json:"totalMiniDrawEntries"`
}

// MajorDrawParticipationView is a user's entry in one major draw.
type MajorDrawParticipationView struct {
	DrawID          primitive.ObjectID `json:"drawId"`
	DrawName        string             `json:"drawName"`
	Status          MajorDrawStatus    `json:"status"`
	DrawDate        time.Time          `json:"drawDate"`
	TotalEntries    int                `json:"totalEntries"`
	EntriesBySource EntriesBySource    `json:"entriesBySource"`
	FirstAddedDate  time.Time          `json:"firstAddedDate"`
	LastUpdatedDate time.Time          `json:"lastUpdatedDate"`
	IsCurrent       bool               `json:"isCurrent"`
}

// MiniDrawParticipationView enriches the user's mirror with draw details.
type MiniDrawParticipationView struct {
	MiniDrawParticipation
	MiniDrawName   string         `json:"miniDrawName"`
	MiniDrawStatus MiniDrawStatus `json:"miniDrawStatus,omitempty"`
	IsWinner       bool           `json:"isWinner"`
}

// PackageHistoryItem is a read-only projection of a payment event.
type PackageHistoryItem struct {
	EventID      primitive.ObjectID  `json:"eventId"`
	PackageID    string              `json:"packageId"`
	PackageName  string              `json:"packageName"`
	PackageType  string              `json:"packageType"`
	Price        float64             `json:"price"`
	Entries      int                 `json:"entries"`
	MiniDrawID   *primitive.ObjectID `json:"miniDrawId,omitempty"`
	PurchaseDate time.Time           `json:"purchaseDate"`
}

// ReferralSummary aggregates a user's referrals as referrer.
type ReferralSummary struct {
	TotalReferrals     int `json:"totalReferrals"`
	ConvertedReferrals int `json:"convertedReferrals"`
	EntriesEarned      int `json:"entriesEarned"`
}

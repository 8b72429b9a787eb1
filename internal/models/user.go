package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Partner discount grant statuses
const (
	DiscountQueued  = "queued"
	DiscountActive  = "active"
	DiscountExpired = "expired"
)

// User represents a customer account with its commerce and draw state
type User struct {
	ID                    primitive.ObjectID      `bson:"_id,omitempty" json:"id,omitempty"`
	Email                 string                  `bson:"email" json:"email"`
	FirstName             string                  `bson:"firstName" json:"firstName"`
	LastName              string                  `bson:"lastName" json:"lastName"`
	Phone                 string                  `bson:"phone,omitempty" json:"phone,omitempty"`
	State                 string                  `bson:"state,omitempty" json:"state,omitempty"`
	Role                  string                  `bson:"role" json:"role"`
	IsEmailVerified       bool                    `bson:"isEmailVerified" json:"isEmailVerified"`
	IsMobileVerified      bool                    `bson:"isMobileVerified" json:"isMobileVerified"`
	ProfileSetupCompleted bool                    `bson:"profileSetupCompleted" json:"profileSetupCompleted"`
	Subscription          *Subscription           `bson:"subscription,omitempty" json:"subscription,omitempty"`
	OneTimePackages       []OneTimePackage        `bson:"oneTimePackages" json:"oneTimePackages"`
	MiniDrawPackages      []MiniDrawPurchase      `bson:"miniDrawPackages" json:"miniDrawPackages"`
	MiniDrawParticipation []MiniDrawParticipation `bson:"miniDrawParticipation" json:"miniDrawParticipation"`
	RewardsPoints         int                     `bson:"rewardsPoints" json:"rewardsPoints"`
	AccumulatedEntries    int                     `bson:"accumulatedEntries" json:"accumulatedEntries"`
	EntryWallet           int                     `bson:"entryWallet" json:"entryWallet"`
	PartnerDiscountQueue  []PartnerDiscountGrant  `bson:"partnerDiscountQueue" json:"partnerDiscountQueue"`
	UpsellStats           UpsellStats             `bson:"upsellStats" json:"upsellStats"`
	ReferralCode          string                  `bson:"referralCode,omitempty" json:"referralCode,omitempty"`
	LastLogin             *time.Time              `bson:"lastLogin,omitempty" json:"lastLogin,omitempty"`
	CreatedAt             time.Time               `bson:"createdAt" json:"createdAt"`
	UpdatedAt             time.Time               `bson:"updatedAt" json:"updatedAt"`
}

// Subscription is the single membership a user may hold.
type Subscription struct {
	PackageID     string         `bson:"packageId" json:"packageId"`
	PackageName   string         `bson:"packageName,omitempty" json:"packageName,omitempty"`
	Status        string         `bson:"status" json:"status"`
	IsActive      bool           `bson:"isActive" json:"isActive"`
	StartDate     time.Time      `bson:"startDate" json:"startDate"`
	EndDate       *time.Time     `bson:"endDate,omitempty" json:"endDate,omitempty"`
	AutoRenew     bool           `bson:"autoRenew" json:"autoRenew"`
	PendingChange *PendingChange `bson:"pendingChange,omitempty" json:"pendingChange,omitempty"`
}

// PendingChange describes a tier change scheduled for the next billing cycle.
type PendingChange struct {
	NewPackageID  string    `bson:"newPackageId" json:"newPackageId"`
	ChangeType    string    `bson:"changeType" json:"changeType"` // upgrade | downgrade
	EffectiveDate time.Time `bson:"effectiveDate" json:"effectiveDate"`
}

// OneTimePackage is a non-subscription package grant.
type OneTimePackage struct {
	PackageID       string     `bson:"packageId" json:"packageId"`
	PackageName     string     `bson:"packageName,omitempty" json:"packageName,omitempty"`
	PurchaseDate    time.Time  `bson:"purchaseDate" json:"purchaseDate"`
	StartDate       time.Time  `bson:"startDate" json:"startDate"`
	EndDate         *time.Time `bson:"endDate,omitempty" json:"endDate,omitempty"`
	IsActive        bool       `bson:"isActive" json:"isActive"`
	EntriesGranted  int        `bson:"entriesGranted" json:"entriesGranted"`
	PaymentIntentID string     `bson:"paymentIntentId,omitempty" json:"paymentIntentId,omitempty"`
}

// MiniDrawPurchase is a one-time purchase of entries into a specific mini draw.
type MiniDrawPurchase struct {
	PackageID            string             `bson:"packageId" json:"packageId"`
	PackageName          string             `bson:"packageName,omitempty" json:"packageName,omitempty"`
	MiniDrawID           primitive.ObjectID `bson:"miniDrawId" json:"miniDrawId"`
	PurchaseDate         time.Time          `bson:"purchaseDate" json:"purchaseDate"`
	EntriesGranted       int                `bson:"entriesGranted" json:"entriesGranted"`
	PartnerDiscountHours int                `bson:"partnerDiscountHours" json:"partnerDiscountHours"`
	PartnerDiscountDays  int                `bson:"partnerDiscountDays" json:"partnerDiscountDays"`
	PaymentIntentID      string             `bson:"paymentIntentId,omitempty" json:"paymentIntentId,omitempty"`
	IsActive             bool               `bson:"isActive" json:"isActive"`
}

// MiniDrawParticipation mirrors the user's position in a mini draw.
type MiniDrawParticipation struct {
	MiniDrawID            primitive.ObjectID `bson:"miniDrawId" json:"miniDrawId"`
	TotalEntries          int                `bson:"totalEntries" json:"totalEntries"`
	EntriesBySource       EntriesBySource    `bson:"entriesBySource" json:"entriesBySource"`
	FirstParticipatedDate time.Time          `bson:"firstParticipatedDate" json:"firstParticipatedDate"`
	LastParticipatedDate  time.Time          `bson:"lastParticipatedDate" json:"lastParticipatedDate"`
	IsActive              bool               `bson:"isActive" json:"isActive"`
}

// PartnerDiscountGrant is a time-boxed partner discount window.
type PartnerDiscountGrant struct {
	PackageID     string     `bson:"packageId" json:"packageId"`
	PackageName   string     `bson:"packageName,omitempty" json:"packageName,omitempty"`
	PackageType   string     `bson:"packageType" json:"packageType"`
	DurationDays  int        `bson:"durationDays" json:"durationDays"`
	DurationHours int        `bson:"durationHours" json:"durationHours"`
	Status        string     `bson:"status" json:"status"`
	QueuedDate    time.Time  `bson:"queuedDate" json:"queuedDate"`
	StartDate     *time.Time `bson:"startDate,omitempty" json:"startDate,omitempty"`
	EndDate       *time.Time `bson:"endDate,omitempty" json:"endDate,omitempty"`
}

// Duration is the total length of the discount window.
func (g PartnerDiscountGrant) Duration() time.Duration {
	return time.Duration(g.DurationDays)*24*time.Hour + time.Duration(g.DurationHours)*time.Hour
}

// UpsellStats counts upsell offers shown to and accepted by the user.
type UpsellStats struct {
	TotalShown    int `bson:"totalShown" json:"totalShown"`
	TotalAccepted int `bson:"totalAccepted" json:"totalAccepted"`
	TotalDeclined int `bson:"totalDeclined" json:"totalDeclined"`
}

// HasActiveSubscription reports whether the membership is currently active.
func (u *User) HasActiveSubscription() bool {
	return u.Subscription != nil && u.Subscription.IsActive
}

// FindMiniDrawParticipation returns the user's mirror record for a mini draw.
func (u *User) FindMiniDrawParticipation(miniDrawID primitive.ObjectID) *MiniDrawParticipation {
	for i := range u.MiniDrawParticipation {
		if u.MiniDrawParticipation[i].MiniDrawID == miniDrawID {
			return &u.MiniDrawParticipation[i]
		}
	}
	return nil
}

// HasPaymentIntent reports whether a grant for the payment intent was already recorded.
func (u *User) HasPaymentIntent(paymentIntentID string) bool {
	if paymentIntentID == "" {
		return false
	}
	for _, p := range u.MiniDrawPackages {
		if p.PaymentIntentID == paymentIntentID {
			return true
		}
	}
	for _, p := range u.OneTimePackages {
		if p.PaymentIntentID == paymentIntentID {
			return true
		}
	}
	return false
}

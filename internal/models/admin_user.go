package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// AdminUserUpdateRequest is the partial update accepted by the admin user
// endpoint. Every block is optional. List blocks replace the stored list
// entirely: callers send the complete desired list, an empty list clears it.
type AdminUserUpdateRequest struct {
	BasicInfo              *BasicInfoUpdate                `json:"basicInfo" validate:"omitempty"`
	Subscription           SubscriptionField               `json:"subscription" validate:"-"`
	Rewards                *RewardsUpdate                  `json:"rewards" validate:"omitempty"`
	OneTimePackages        *[]OneTimePackageInput          `json:"oneTimePackages" validate:"omitempty,dive"`
	MiniDrawPackages       *[]MiniDrawPackageInput         `json:"miniDrawPackages" validate:"omitempty,dive"`
	PartnerDiscountQueue   *[]PartnerDiscountInput         `json:"partnerDiscountQueue" validate:"omitempty,dive"`
	MajorDrawParticipation *[]MajorDrawParticipationUpdate `json:"majorDrawParticipation" validate:"omitempty,dive"`
	MiniDrawParticipation  *[]MiniDrawParticipationUpdate  `json:"miniDrawParticipation" validate:"omitempty,dive"`
}

// BasicInfoUpdate carries profile fields. Nil fields are left untouched.
type BasicInfoUpdate struct {
	FirstName             *string `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName              *string `json:"lastName" validate:"omitempty,min=1,max=100"`
	Email                 *string `json:"email" validate:"omitempty,email"`
	Phone                 *string `json:"phone" validate:"omitempty,max=20"`
	State                 *string `json:"state" validate:"omitempty,max=10"`
	Role                  *string `json:"role" validate:"omitempty,oneof=user admin"`
	IsEmailVerified       *bool   `json:"isEmailVerified"`
	IsMobileVerified      *bool   `json:"isMobileVerified"`
	ProfileSetupCompleted *bool   `json:"profileSetupCompleted"`
}

// SubscriptionField distinguishes an absent subscription block from an
// explicit null, which clears the membership.
type SubscriptionField struct {
	Set   bool
	Value *SubscriptionUpdate
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *SubscriptionField) UnmarshalJSON(b []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		f.Value = nil
		return nil
	}
	var v SubscriptionUpdate
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	f.Value = &v
	return nil
}

// MarshalJSON implements json.Marshaler.
func (f SubscriptionField) MarshalJSON() ([]byte, error) {
	if f.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// SubscriptionUpdate upserts the user's membership.
type SubscriptionUpdate struct {
	PackageID string     `json:"packageId" validate:"required"`
	Status    string     `json:"status" validate:"omitempty,oneof=active pending cancelled expired past_due"`
	IsActive  *bool      `json:"isActive"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
	AutoRenew *bool      `json:"autoRenew"`
}

// RewardsUpdate overwrites numeric balances.
type RewardsUpdate struct {
	RewardsPoints      *int `json:"rewardsPoints" validate:"omitempty,min=0"`
	AccumulatedEntries *int `json:"accumulatedEntries" validate:"omitempty,min=0"`
	EntryWallet        *int `json:"entryWallet" validate:"omitempty,min=0"`
}

// TouchesBalances reports whether any balance would be modified.
func (r *RewardsUpdate) TouchesBalances() bool {
	return r != nil && (r.RewardsPoints != nil || r.AccumulatedEntries != nil || r.EntryWallet != nil)
}

// OneTimePackageInput is one element of the one-time package list.
type OneTimePackageInput struct {
	PackageID       string     `json:"packageId" validate:"required"`
	PackageName     string     `json:"packageName"`
	PurchaseDate    time.Time  `json:"purchaseDate" validate:"required"`
	StartDate       *time.Time `json:"startDate"`
	EndDate         *time.Time `json:"endDate"`
	IsActive        bool       `json:"isActive"`
	EntriesGranted  int        `json:"entriesGranted" validate:"min=0"`
	PaymentIntentID string     `json:"paymentIntentId"`
}

// MiniDrawPackageInput is one element of the mini-draw package list.
type MiniDrawPackageInput struct {
	PackageID            string    `json:"packageId" validate:"required"`
	PackageName          string    `json:"packageName"`
	MiniDrawID           string    `json:"miniDrawId" validate:"required,objectid"`
	PurchaseDate         time.Time `json:"purchaseDate" validate:"required"`
	EntriesGranted       int       `json:"entriesGranted" validate:"min=0"`
	PartnerDiscountHours int       `json:"partnerDiscountHours" validate:"min=0"`
	PartnerDiscountDays  int       `json:"partnerDiscountDays" validate:"min=0"`
	PaymentIntentID      string    `json:"paymentIntentId"`
	IsActive             bool      `json:"isActive"`
}

// PartnerDiscountInput is one element of the partner discount queue.
type PartnerDiscountInput struct {
	PackageID     string     `json:"packageId" validate:"required"`
	PackageName   string     `json:"packageName"`
	PackageType   string     `json:"packageType" validate:"required,oneof=subscription one-time upsell mini-draw"`
	DurationDays  int        `json:"durationDays" validate:"min=0"`
	DurationHours int        `json:"durationHours" validate:"min=0"`
	Status        string     `json:"status" validate:"required,oneof=queued active expired"`
	QueuedDate    *time.Time `json:"queuedDate"`
	StartDate     *time.Time `json:"startDate"`
	EndDate       *time.Time `json:"endDate"`
}

// MajorDrawParticipationUpdate sets a user's entries in a major draw.
type MajorDrawParticipationUpdate struct {
	DrawID       string `json:"drawId" validate:"required,objectid"`
	TotalEntries int    `json:"totalEntries" validate:"min=0"`
}

// MiniDrawParticipationUpdate sets a user's entries in a mini draw.
type MiniDrawParticipationUpdate struct {
	MiniDrawID   string `json:"miniDrawId" validate:"required,objectid"`
	TotalEntries int    `json:"totalEntries" validate:"min=0"`
	IsActive     *bool  `json:"isActive"`
}

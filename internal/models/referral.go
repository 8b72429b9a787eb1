package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReferralStatus represents the status of a referral
type ReferralStatus string

const (
	ReferralPending   ReferralStatus = "pending"
	ReferralConverted ReferralStatus = "converted"
)

// ReferralEvent tracks one referral from code use to conversion.
type ReferralEvent struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ReferrerID      primitive.ObjectID `bson:"referrerId" json:"referrerId"`
	ReferredUserID  primitive.ObjectID `bson:"referredUserId" json:"referredUserId"`
	ReferralCode    string             `bson:"referralCode" json:"referralCode"`
	Status          ReferralStatus     `bson:"status" json:"status"`
	ReferrerEntries int                `bson:"referrerEntries" json:"referrerEntries"`
	ReferredEntries int                `bson:"referredEntries" json:"referredEntries"`
	ConvertedAt     *time.Time         `bson:"convertedAt,omitempty" json:"convertedAt,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

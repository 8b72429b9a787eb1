package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment event types
const (
	EventBenefitsGranted = "BenefitsGranted"
	EventRefunded        = "Refunded"
)

// Package types carried on payment events
const (
	PackageTypeSubscription = "subscription"
	PackageTypeOneTime      = "one-time"
	PackageTypeUpsell       = "upsell"
	PackageTypeMiniDraw     = "mini-draw"
)

// PaymentEvent is an append-only record of a benefit-granting payment.
type PaymentEvent struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	EventType       string             `bson:"eventType" json:"eventType"`
	PackageType     string             `bson:"packageType" json:"packageType"`
	PaymentIntentID string             `bson:"paymentIntentId,omitempty" json:"paymentIntentId,omitempty"`
	Data            PaymentEventData   `bson:"data" json:"data"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}

// PaymentEventData is the payload of a payment event.
type PaymentEventData struct {
	PackageID   string              `bson:"packageId" json:"packageId"`
	PackageName string              `bson:"packageName,omitempty" json:"packageName,omitempty"`
	Price       float64             `bson:"price" json:"price"`
	Entries     int                 `bson:"entries" json:"entries"`
	MiniDrawID  *primitive.ObjectID `bson:"miniDrawId,omitempty" json:"miniDrawId,omitempty"`
	Multiplier  int                 `bson:"multiplier,omitempty" json:"multiplier,omitempty"`
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SystemSettings represents system-wide feature switches
type SystemSettings struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	RewardsEnabled       bool               `bson:"rewardsEnabled" json:"rewardsEnabled"`
	RewardsPausedMessage string             `bson:"rewardsPausedMessage,omitempty" json:"rewardsPausedMessage,omitempty"`
	ActivePromo          *PromoWindow       `bson:"activePromo,omitempty" json:"activePromo,omitempty"`
	CreatedAt            time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time          `bson:"updatedAt" json:"updatedAt"`
	UpdatedBy            string             `bson:"updatedBy,omitempty" json:"updatedBy,omitempty"`
}

// PromoWindow is a time-boxed entry multiplier for mini-draw packages.
type PromoWindow struct {
	Multiplier int       `bson:"multiplier" json:"multiplier"`
	StartsAt   time.Time `bson:"startsAt" json:"startsAt"`
	EndsAt     time.Time `bson:"endsAt" json:"endsAt"`
}

package mongodb

import (
	"context"
	"time"

	"github.com/ArowuTest/toolsau-entries-backend/internal/models"
	"github.com/ArowuTest/toolsau-entries-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var _ repositories.ReferralEventRepository = (*ReferralEventRepository)(nil)

// ReferralEventRepository handles MongoDB operations for ReferralEvent
type ReferralEventRepository struct {
	collection *mongo.Collection
}

// NewReferralEventRepository creates a new ReferralEventRepository
func NewReferralEventRepository(db *mongo.Database) *ReferralEventRepository {
	return &ReferralEventRepository{
		collection: db.Collection("referralevents"),
	}
}

// FindByID finds a referral event by ID
func (r *ReferralEventRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.ReferralEvent, error) {
	var event models.ReferralEvent
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&event); err != nil {
		return nil, notFound(err)
	}
	return &event, nil
}

// FindByReferrer finds every referral made by a user
func (r *ReferralEventRepository) FindByReferrer(ctx context.Context, referrerID primitive.ObjectID) ([]*models.ReferralEvent, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"referrerId": referrerID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []*models.ReferralEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	if events == nil {
		events = []*models.ReferralEvent{}
	}
	return events, nil
}

// Update replaces an existing referral event
func (r *ReferralEventRepository) Update(ctx context.Context, event *models.ReferralEvent) error {
	event.UpdatedAt = time.Now()
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": event.ID}, event)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

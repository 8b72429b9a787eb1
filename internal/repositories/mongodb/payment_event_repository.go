package mongodb

import (
	"context"
	"time"

	"github.com/ArowuTest/toolsau-entries-backend/internal/models"
	"github.com/ArowuTest/toolsau-entries-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ repositories.PaymentEventRepository = (*PaymentEventRepository)(nil)

// PaymentEventRepository handles the append-only payment event log
type PaymentEventRepository struct {
	collection *mongo.Collection
}

// NewPaymentEventRepository creates a new PaymentEventRepository
func NewPaymentEventRepository(db *mongo.Database) *PaymentEventRepository {
	return &PaymentEventRepository{
		collection: db.Collection("paymentevents"),
	}
}

// Create inserts a new payment event
func (r *PaymentEventRepository) Create(ctx context.Context, event *models.PaymentEvent) error {
	event.ID = primitive.NewObjectID()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, event)
	return err
}

// FindByUserID finds all events for a user, newest first
func (r *PaymentEventRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.PaymentEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []*models.PaymentEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	if events == nil {
		events = []*models.PaymentEvent{}
	}
	return events, nil
}

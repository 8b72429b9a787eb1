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

var _ repositories.MajorDrawRepository = (*MajorDrawRepository)(nil)

// MajorDrawRepository handles MongoDB operations for MajorDraw
type MajorDrawRepository struct {
	collection *mongo.Collection
}

// NewMajorDrawRepository creates a new MajorDrawRepository
func NewMajorDrawRepository(db *mongo.Database) *MajorDrawRepository {
	return &MajorDrawRepository{
		collection: db.Collection("majordraws"),
	}
}

// FindByID finds a draw by ID
func (r *MajorDrawRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.MajorDraw, error) {
	var draw models.MajorDraw
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&draw); err != nil {
		return nil, notFound(err)
	}
	return &draw, nil
}

// FindActive returns the draw currently accepting entries
func (r *MajorDrawRepository) FindActive(ctx context.Context) (*models.MajorDraw, error) {
	var draw models.MajorDraw
	opts := options.FindOne().SetSort(bson.D{{Key: "activatedAt", Value: -1}})
	err := r.collection.FindOne(ctx, bson.M{"status": models.MajorDrawActive}, opts).Decode(&draw)
	if err != nil {
		return nil, notFound(err)
	}
	return &draw, nil
}

// FindByParticipant returns every draw holding an entry for the user, newest first
func (r *MajorDrawRepository) FindByParticipant(ctx context.Context, userID primitive.ObjectID) ([]*models.MajorDraw, error) {
	opts := options.Find().SetSort(bson.D{{Key: "drawDate", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"entries.userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var draws []*models.MajorDraw
	if err = cursor.All(ctx, &draws); err != nil {
		return nil, err
	}
	if draws == nil {
		draws = []*models.MajorDraw{}
	}
	return draws, nil
}

// SaveEntries writes the entries array back to the draw
func (r *MajorDrawRepository) SaveEntries(ctx context.Context, draw *models.MajorDraw) error {
	draw.UpdatedAt = time.Now()
	entries := draw.Entries
	if entries == nil {
		entries = models.EntryLedger{}
	}
	update := bson.M{"$set": bson.M{
		"entries":   entries,
		"updatedAt": draw.UpdatedAt,
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": draw.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

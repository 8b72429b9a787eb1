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

var _ repositories.MiniDrawRepository = (*MiniDrawRepository)(nil)

// MiniDrawRepository handles MongoDB operations for MiniDraw
type MiniDrawRepository struct {
	collection *mongo.Collection
}

// NewMiniDrawRepository creates a new MiniDrawRepository
func NewMiniDrawRepository(db *mongo.Database) *MiniDrawRepository {
	return &MiniDrawRepository{
		collection: db.Collection("minidraws"),
	}
}

// FindByID finds a mini draw by ID
func (r *MiniDrawRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.MiniDraw, error) {
	var draw models.MiniDraw
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&draw); err != nil {
		return nil, notFound(err)
	}
	return &draw, nil
}

// FindByParticipant returns every mini draw holding an entry for the user
func (r *MiniDrawRepository) FindByParticipant(ctx context.Context, userID primitive.ObjectID) ([]*models.MiniDraw, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"entries.userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var draws []*models.MiniDraw
	if err = cursor.All(ctx, &draws); err != nil {
		return nil, err
	}
	if draws == nil {
		draws = []*models.MiniDraw{}
	}
	return draws, nil
}

// SaveEntries writes entries, the denormalized total and the open flag
func (r *MiniDrawRepository) SaveEntries(ctx context.Context, draw *models.MiniDraw) error {
	draw.UpdatedAt = time.Now()
	entries := draw.Entries
	if entries == nil {
		entries = models.EntryLedger{}
	}
	set := bson.M{
		"entries":          entries,
		"totalEntries":     draw.TotalEntries,
		"isOpenForEntries": draw.IsOpenForEntries,
		"updatedAt":        draw.UpdatedAt,
	}
	if draw.ClosedAt != nil {
		set["closedAt"] = draw.ClosedAt
	}
	return r.updateOne(ctx, draw.ID, set)
}

// SaveOutcome writes the status and winner
func (r *MiniDrawRepository) SaveOutcome(ctx context.Context, draw *models.MiniDraw) error {
	draw.UpdatedAt = time.Now()
	set := bson.M{
		"status":           draw.Status,
		"isOpenForEntries": draw.IsOpenForEntries,
		"winner":           draw.Winner,
		"updatedAt":        draw.UpdatedAt,
	}
	return r.updateOne(ctx, draw.ID, set)
}

func (r *MiniDrawRepository) updateOne(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

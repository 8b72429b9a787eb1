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

var _ repositories.SystemSettingsRepository = (*SystemSettingsRepository)(nil)

// SystemSettingsRepository implements repositories.SystemSettingsRepository
type SystemSettingsRepository struct {
	collection *mongo.Collection
	defaults   models.SystemSettings
}

// NewSystemSettingsRepository creates a new SystemSettingsRepository. defaults
// are written the first time the settings are read.
func NewSystemSettingsRepository(db *mongo.Database, defaults models.SystemSettings) *SystemSettingsRepository {
	return &SystemSettingsRepository{
		collection: db.Collection("system_settings"),
		defaults:   defaults,
	}
}

// settingsFilter selects the single settings document. A fixed _id makes
// concurrent first reads converge on one document.
var settingsFilter = bson.M{"_id": primitive.ObjectID{11: 1}}

// defaultsUpdate writes defaults only when the settings document is created.
func defaultsUpdate(defaults models.SystemSettings, now time.Time) bson.M {
	return bson.M{
		"$setOnInsert": bson.M{
			"rewardsEnabled":       defaults.RewardsEnabled,
			"rewardsPausedMessage": defaults.RewardsPausedMessage,
			"activePromo":          defaults.ActivePromo,
			"createdAt":            now,
			"updatedAt":            now,
		},
	}
}

// GetSettings retrieves the current system settings, creating them from the
// defaults on first use.
func (r *SystemSettingsRepository) GetSettings(ctx context.Context) (*models.SystemSettings, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var settings models.SystemSettings
	err := r.collection.FindOneAndUpdate(ctx, settingsFilter, defaultsUpdate(r.defaults, time.Now()), opts).Decode(&settings)
	if mongo.IsDuplicateKeyError(err) {
		// lost the insert race; the other writer's document is there now
		err = r.collection.FindOne(ctx, settingsFilter).Decode(&settings)
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdateSettings updates all system settings
func (r *SystemSettingsRepository) UpdateSettings(ctx context.Context, settings *models.SystemSettings) error {
	settings.UpdatedAt = time.Now()
	update := bson.M{
		"$set": bson.M{
			"rewardsEnabled":       settings.RewardsEnabled,
			"rewardsPausedMessage": settings.RewardsPausedMessage,
			"activePromo":          settings.ActivePromo,
			"updatedAt":            settings.UpdatedAt,
			"updatedBy":            settings.UpdatedBy,
		},
		"$setOnInsert": bson.M{"createdAt": settings.UpdatedAt},
	}
	_, err := r.collection.UpdateOne(ctx, settingsFilter, update, options.Update().SetUpsert(true))
	return err
}

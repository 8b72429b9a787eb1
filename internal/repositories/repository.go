package repositories

import (
	"context"
	"errors"

	"github.com/ArowuTest/toolsau-entries-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("document not found")

// Transactor runs fn inside a database transaction. Repository calls made
// with txCtx take part in the transaction; an error from fn rolls back
// every write made through txCtx.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(txCtx context.Context) error) error
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// Save replaces the stored user document.
	Save(ctx context.Context, user *models.User) error
}

// MajorDrawRepository defines the interface for major draw data operations
type MajorDrawRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.MajorDraw, error)
	FindActive(ctx context.Context) (*models.MajorDraw, error)
	FindByParticipant(ctx context.Context, userID primitive.ObjectID) ([]*models.MajorDraw, error)
	// SaveEntries persists the entries array of the draw.
	SaveEntries(ctx context.Context, draw *models.MajorDraw) error
}

// MiniDrawRepository defines the interface for mini draw data operations
type MiniDrawRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.MiniDraw, error)
	FindByParticipant(ctx context.Context, userID primitive.ObjectID) ([]*models.MiniDraw, error)
	// SaveEntries persists entries, totals and open/closed state.
	SaveEntries(ctx context.Context, draw *models.MiniDraw) error
	// SaveOutcome persists status and winner.
	SaveOutcome(ctx context.Context, draw *models.MiniDraw) error
}

// PaymentEventRepository defines the interface for the append-only payment log
type PaymentEventRepository interface {
	Create(ctx context.Context, event *models.PaymentEvent) error
	FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.PaymentEvent, error)
}

// OrderRepository defines the interface for order data operations
type OrderRepository interface {
	FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.Order, error)
}

// ReferralEventRepository defines the interface for referral data operations
type ReferralEventRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.ReferralEvent, error)
	FindByReferrer(ctx context.Context, referrerID primitive.ObjectID) ([]*models.ReferralEvent, error)
	Update(ctx context.Context, event *models.ReferralEvent) error
}

// SystemSettingsRepository defines the interface for system settings operations
type SystemSettingsRepository interface {
	GetSettings(ctx context.Context) (*models.SystemSettings, error)
	UpdateSettings(ctx context.Context, settings *models.SystemSettings) error
}

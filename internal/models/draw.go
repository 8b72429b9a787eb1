package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MajorDrawStatus represents the status of a major draw
type MajorDrawStatus string

const (
	MajorDrawQueued    MajorDrawStatus = "queued"
	MajorDrawActive    MajorDrawStatus = "active"
	MajorDrawFrozen    MajorDrawStatus = "frozen"
	MajorDrawCompleted MajorDrawStatus = "completed"
)

// MiniDrawStatus represents the status of a mini draw
type MiniDrawStatus string

const (
	MiniDrawActive    MiniDrawStatus = "active"
	MiniDrawCompleted MiniDrawStatus = "completed"
	MiniDrawCancelled MiniDrawStatus = "cancelled"
)

// MajorDraw is the flagship recurring promotion. Only one is active at a time.
type MajorDraw struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Status      MajorDrawStatus    `bson:"status" json:"status"`
	DrawDate    time.Time          `bson:"drawDate" json:"drawDate"`
	ActivatedAt *time.Time         `bson:"activatedAt,omitempty" json:"activatedAt,omitempty"`
	FreezeAt    *time.Time         `bson:"freezeAt,omitempty" json:"freezeAt,omitempty"`
	Entries     EntryLedger        `bson:"entries" json:"entries"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// MiniDraw is a smaller promotion that closes once MinimumEntries is reached.
type MiniDraw struct {
	ID               primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	Name             string              `bson:"name" json:"name"`
	Status           MiniDrawStatus      `bson:"status" json:"status"`
	IsOpenForEntries bool                `bson:"isOpenForEntries" json:"isOpenForEntries"`
	MinimumEntries   int                 `bson:"minimumEntries" json:"minimumEntries"`
	TotalEntries     int                 `bson:"totalEntries" json:"totalEntries"`
	Entries          EntryLedger         `bson:"entries" json:"entries"`
	Winner           *MiniDrawWinner     `bson:"winner,omitempty" json:"winner,omitempty"`
	ClosedAt         *time.Time          `bson:"closedAt,omitempty" json:"closedAt,omitempty"`
	CreatedAt        time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time           `bson:"updatedAt" json:"updatedAt"`
	PrizeID          *primitive.ObjectID `bson:"prizeId,omitempty" json:"prizeId,omitempty"`
}

// MiniDrawWinner records the selected winner.
type MiniDrawWinner struct {
	UserID       primitive.ObjectID `bson:"userId" json:"userId"`
	EntryNumber  int                `bson:"entryNumber" json:"entryNumber"`
	SelectedDate time.Time          `bson:"selectedDate" json:"selectedDate"`
}

// AcceptsEntries reports whether new purchases may add entries.
func (d *MiniDraw) AcceptsEntries() bool {
	return d.Status == MiniDrawActive && d.IsOpenForEntries
}

// RecalculateTotal refreshes the denormalized entry count.
func (d *MiniDraw) RecalculateTotal() {
	d.TotalEntries = d.Entries.Total()
}

// CapacityReached reports whether the draw hit its minimum entry threshold.
func (d *MiniDraw) CapacityReached() bool {
	return d.MinimumEntries > 0 && d.TotalEntries >= d.MinimumEntries
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Entry sources. Admin-applied and purchase-applied entries use the same keys.
const (
	SourceMembership      = "membership"
	SourceOneTimePackage  = "one-time-package"
	SourceReferral        = "referral"
	SourcePromo           = "promo"
	SourceUpsell          = "upsell"
	SourceMiniDrawPackage = "mini-draw-package"
	SourceFreeEntry       = "free-entry"
)

// EntriesBySource records how many entries came from each origin.
type EntriesBySource map[string]int

// Total sums the non-negative buckets.
func (e EntriesBySource) Total() int {
	total := 0
	for _, n := range e {
		if n > 0 {
			total += n
		}
	}
	return total
}

// Clone returns an independent copy. A nil map clones to an empty one.
func (e EntriesBySource) Clone() EntriesBySource {
	out := make(EntriesBySource, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// DrawEntry is one user's position in a draw.
type DrawEntry struct {
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	TotalEntries    int                `bson:"totalEntries" json:"totalEntries"`
	EntriesBySource EntriesBySource    `bson:"entriesBySource" json:"entriesBySource"`
	FirstAddedDate  time.Time          `bson:"firstAddedDate" json:"firstAddedDate"`
	LastUpdatedDate time.Time          `bson:"lastUpdatedDate" json:"lastUpdatedDate"`
}

// Recalculate derives TotalEntries from the source buckets.
func (d *DrawEntry) Recalculate() {
	d.TotalEntries = d.EntriesBySource.Total()
}

// EntryLedger is the per-draw list of entries, at most one per user.
// Entries with zero total are removed rather than stored.
type EntryLedger []DrawEntry

// IndexOf returns the position of the user's entry or -1.
func (l EntryLedger) IndexOf(userID primitive.ObjectID) int {
	for i := range l {
		if l[i].UserID == userID {
			return i
		}
	}
	return -1
}

// Find returns a pointer into the ledger for the user's entry, or nil.
func (l EntryLedger) Find(userID primitive.ObjectID) *DrawEntry {
	if i := l.IndexOf(userID); i >= 0 {
		return &l[i]
	}
	return nil
}

// Remove drops the user's entry. It reports whether an entry existed.
func (l *EntryLedger) Remove(userID primitive.ObjectID) bool {
	i := l.IndexOf(userID)
	if i < 0 {
		return false
	}
	*l = append((*l)[:i], (*l)[i+1:]...)
	return true
}

// Set replaces the user's source buckets. firstAddedDate is kept for an
// existing entry. A zero total removes the entry.
func (l *EntryLedger) Set(userID primitive.ObjectID, sources EntriesBySource, now time.Time) {
	sources = sources.Clone()
	if sources.Total() == 0 {
		l.Remove(userID)
		return
	}

	if e := l.Find(userID); e != nil {
		e.EntriesBySource = sources
		e.LastUpdatedDate = now
		e.Recalculate()
		return
	}

	entry := DrawEntry{
		UserID:          userID,
		EntriesBySource: sources,
		FirstAddedDate:  now,
		LastUpdatedDate: now,
	}
	entry.Recalculate()
	*l = append(*l, entry)
}

// Add adds n entries to one source bucket, creating the entry if needed.
func (l *EntryLedger) Add(userID primitive.ObjectID, source string, n int, now time.Time) {
	var sources EntriesBySource
	if e := l.Find(userID); e != nil {
		sources = e.EntriesBySource.Clone()
	} else {
		sources = EntriesBySource{}
	}
	sources[source] += n
	l.Set(userID, sources, now)
}

// Total sums every user's entries.
func (l EntryLedger) Total() int {
	total := 0
	for i := range l {
		total += l[i].TotalEntries
	}
	return total
}

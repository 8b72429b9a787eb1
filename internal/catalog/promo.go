package catalog

import (
	"errors"
	"fmt"
	"time"
)

// PromoMultiplier is one of the supported entry multipliers.
type PromoMultiplier int

const (
	PromoDouble PromoMultiplier = 2
	PromoTriple PromoMultiplier = 3
	PromoFive   PromoMultiplier = 5
	PromoTen    PromoMultiplier = 10
)

// ErrInvalidMultiplier is returned for multipliers outside the supported set.
var ErrInvalidMultiplier = errors.New("invalid promo multiplier")

// Valid reports whether m is a supported multiplier.
func (m PromoMultiplier) Valid() bool {
	switch m {
	case PromoDouble, PromoTriple, PromoFive, PromoTen:
		return true
	}
	return false
}

// ParsePromoMultiplier converts a raw value into a supported multiplier.
func ParsePromoMultiplier(v int) (PromoMultiplier, error) {
	m := PromoMultiplier(v)
	if !m.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidMultiplier, v)
	}
	return m, nil
}

// ApplyPromoToMiniPackage returns a copy of pkg with its entries scaled by m.
// A package that already carries a promo is scaled from its original entries,
// so the previous promo is discarded and RemovePromoFromMiniPackage on the
// result yields the unpromoted base package. Removing undoes applying only
// for packages that had no promo.
func ApplyPromoToMiniPackage(pkg MiniDrawPackage, m PromoMultiplier) (MiniDrawPackage, error) {
	if !m.Valid() {
		return pkg, fmt.Errorf("%w: %d", ErrInvalidMultiplier, int(m))
	}
	base := RemovePromoFromMiniPackage(pkg)
	out := base
	out.OriginalEntries = base.Entries
	out.Entries = base.Entries * int(m)
	out.PromoMultiplier = int(m)
	out.IsPromoActive = true
	return out, nil
}

// RemovePromoFromMiniPackage undoes ApplyPromoToMiniPackage. Packages
// without an active promo are returned unchanged.
func RemovePromoFromMiniPackage(pkg MiniDrawPackage) MiniDrawPackage {
	if !pkg.IsPromoActive {
		return pkg
	}
	out := pkg
	out.Entries = pkg.OriginalEntries
	out.OriginalEntries = 0
	out.PromoMultiplier = 0
	out.IsPromoActive = false
	return out
}

// ApplyPromoToMiniPackages scales every package in the list.
func ApplyPromoToMiniPackages(pkgs []MiniDrawPackage, m PromoMultiplier) ([]MiniDrawPackage, error) {
	out := make([]MiniDrawPackage, 0, len(pkgs))
	for _, p := range pkgs {
		promoted, err := ApplyPromoToMiniPackage(p, m)
		if err != nil {
			return nil, err
		}
		out = append(out, promoted)
	}
	return out, nil
}

// ActiveMultiplier resolves the multiplier in effect at now. It returns
// false when no valid promo window covers now.
func ActiveMultiplier(multiplier int, startsAt, endsAt, now time.Time) (PromoMultiplier, bool) {
	m := PromoMultiplier(multiplier)
	if !m.Valid() {
		return 0, false
	}
	if now.Before(startsAt) || !now.Before(endsAt) {
		return 0, false
	}
	return m, true
}

// Package catalog holds the static package catalogs and the promo
// multiplier transform applied to them at read time.
package catalog

// Package types
const (
	TypeSubscription = "subscription"
	TypeOneTime      = "one-time"
	TypeUpsell       = "upsell"
)

// Package is a membership tier, one-time package or upsell offer.
type Package struct {
	ID                   string  `json:"id"`
	Name                 string  `json:"name"`
	Type                 string  `json:"type"`
	Price                float64 `json:"price"`
	Entries              int     `json:"entries"`
	ShopDiscountPercent  int     `json:"shopDiscountPercent"`
	PartnerDiscountDays  int     `json:"partnerDiscountDays"`
	PartnerDiscountHours int     `json:"partnerDiscountHours"`
}

// MiniDrawPackage is a purchasable bundle of mini-draw entries.
type MiniDrawPackage struct {
	ID                   string  `json:"id"`
	Name                 string  `json:"name"`
	Price                float64 `json:"price"`
	Entries              int     `json:"entries"`
	PartnerDiscountHours int     `json:"partnerDiscountHours"`
	PartnerDiscountDays  int     `json:"partnerDiscountDays"`
	IsMemberOnly         bool    `json:"isMemberOnly"`
	OriginalEntries      int     `json:"originalEntries,omitempty"`
	PromoMultiplier      int     `json:"promoMultiplier,omitempty"`
	IsPromoActive        bool    `json:"isPromoActive,omitempty"`
}

var packages = []Package{
	{ID: "tradie", Name: "Tradie", Type: TypeSubscription, Price: 20, Entries: 3, ShopDiscountPercent: 5, PartnerDiscountDays: 30},
	{ID: "foreman", Name: "Foreman", Type: TypeSubscription, Price: 40, Entries: 15, ShopDiscountPercent: 10, PartnerDiscountDays: 30},
	{ID: "boss", Name: "Boss", Type: TypeSubscription, Price: 100, Entries: 40, ShopDiscountPercent: 15, PartnerDiscountDays: 30},
	{ID: "apprentice-pack", Name: "Apprentice Pack", Type: TypeOneTime, Price: 25, Entries: 3, PartnerDiscountDays: 2},
	{ID: "tradie-pack", Name: "Tradie Pack", Type: TypeOneTime, Price: 50, Entries: 15, PartnerDiscountDays: 5},
	{ID: "boss-pack", Name: "Boss Pack", Type: TypeOneTime, Price: 100, Entries: 50, PartnerDiscountDays: 10},
	{ID: "upsell-10", Name: "Bonus 10 Entries", Type: TypeUpsell, Price: 10, Entries: 10, PartnerDiscountHours: 24},
	{ID: "upsell-30", Name: "Bonus 30 Entries", Type: TypeUpsell, Price: 25, Entries: 30, PartnerDiscountDays: 2},
}

var miniDrawPackages = []MiniDrawPackage{
	{ID: "mini-pack-1", Name: "Mini Pack 1", Price: 2, Entries: 1, PartnerDiscountHours: 2},
	{ID: "mini-pack-2", Name: "Mini Pack 2", Price: 5, Entries: 3, PartnerDiscountHours: 8},
	{ID: "mini-pack-3", Name: "Mini Pack 3", Price: 10, Entries: 7, PartnerDiscountHours: 24},
	{ID: "mini-pack-4", Name: "Mini Pack 4", Price: 25, Entries: 20, PartnerDiscountDays: 3},
	{ID: "mini-pack-member", Name: "Member Mini Pack", Price: 15, Entries: 15, PartnerDiscountDays: 2, IsMemberOnly: true},
}

// GetPackageByID looks up a subscription, one-time or upsell package.
func GetPackageByID(id string) (Package, bool) {
	for _, p := range packages {
		if p.ID == id {
			return p, true
		}
	}
	return Package{}, false
}

// GetPackageByIDAndType looks up a package and checks its type.
func GetPackageByIDAndType(id, packageType string) (Package, bool) {
	p, ok := GetPackageByID(id)
	if !ok || p.Type != packageType {
		return Package{}, false
	}
	return p, true
}

// GetMiniDrawPackageByID looks up a mini-draw package.
func GetMiniDrawPackageByID(id string) (MiniDrawPackage, bool) {
	for _, p := range miniDrawPackages {
		if p.ID == id {
			return p, true
		}
	}
	return MiniDrawPackage{}, false
}

// MiniDrawPackages returns a copy of the mini-draw catalog.
func MiniDrawPackages() []MiniDrawPackage {
	out := make([]MiniDrawPackage, len(miniDrawPackages))
	copy(out, miniDrawPackages)
	return out
}

// ResolvePackageName returns a display name for a package id. Catalogs can
// retire packages while history must stay readable, so the lookup falls
// back to the name stored with the record and then to the raw id.
func ResolvePackageName(id, storedName string) string {
	if p, ok := GetPackageByID(id); ok {
		return p.Name
	}
	if p, ok := GetMiniDrawPackageByID(id); ok {
		return p.Name
	}
	if storedName != "" {
		return storedName
	}
	return id
}

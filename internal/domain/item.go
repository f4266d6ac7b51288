package domain

import "github.com/shopspring/decimal"

// ApparelDetails holds the fields required for apparel items.
type ApparelDetails struct {
	PieceType string `json:"piece_type"`
	Material  string `json:"material"`
	Fit       string `json:"fit"`
}

// FootwearDetails holds the fields required for footwear items.
type FootwearDetails struct {
	ModelType     string `json:"model_type"`
	UpperMaterial string `json:"upper_material"`
	SoleType      string `json:"sole_type"`
	LaceType      string `json:"lace_type"`
}

// CatalogItem is the candidate record submitted from catalog-entry forms.
// Category is the explicit variant discriminator; exactly one of Apparel or
// Footwear is expected to be set for the matching category.
type CatalogItem struct {
	Category  ItemCategory    `json:"category"`
	SKU       string          `json:"sku"`
	Brand     string          `json:"brand"`
	Color     string          `json:"color"`
	Size      string          `json:"size"`
	Gender    string          `json:"gender"`
	Condition string          `json:"condition"`
	Price     decimal.Decimal `json:"price"`
	OwnerID   string          `json:"owner_id"`

	Apparel  *ApparelDetails  `json:"apparel,omitempty"`
	Footwear *FootwearDetails `json:"footwear,omitempty"`
}

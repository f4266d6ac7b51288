package vufs

import (
	"strings"

	"vufs/engine/internal/domain"
)

// ValidateCatalogItem checks a candidate item before it may be listed or
// sold. Common fields are checked first in fixed order, then the variant
// fields selected by the item's Category discriminator. All applicable
// checks run to completion so the result lists every defect at once; an
// item with an unknown category collects only the common-field errors.
func ValidateCatalogItem(item domain.CatalogItem) []string {
	var errs []string

	if strings.TrimSpace(item.SKU) == "" {
		errs = append(errs, "SKU is required")
	}
	if strings.TrimSpace(item.Brand) == "" {
		errs = append(errs, "Brand is required")
	}
	if strings.TrimSpace(item.Color) == "" {
		errs = append(errs, "Color is required")
	}
	if strings.TrimSpace(item.Size) == "" {
		errs = append(errs, "Size is required")
	}
	if strings.TrimSpace(item.Gender) == "" {
		errs = append(errs, "Gender is required")
	}
	if strings.TrimSpace(item.Condition) == "" {
		errs = append(errs, "Condition is required")
	}
	if !item.Price.IsPositive() {
		errs = append(errs, "Price must be greater than zero")
	}
	if strings.TrimSpace(item.OwnerID) == "" {
		errs = append(errs, "Owner is required")
	}

	switch item.Category {
	case domain.ItemCategoryApparel:
		errs = append(errs, validateApparel(item.Apparel)...)
	case domain.ItemCategoryFootwear:
		errs = append(errs, validateFootwear(item.Footwear)...)
	}

	return errs
}

func validateApparel(details *domain.ApparelDetails) []string {
	if details == nil {
		details = &domain.ApparelDetails{}
	}

	var errs []string
	if strings.TrimSpace(details.PieceType) == "" {
		errs = append(errs, "Piece type is required for apparel")
	}
	if strings.TrimSpace(details.Material) == "" {
		errs = append(errs, "Material is required for apparel")
	}
	if strings.TrimSpace(details.Fit) == "" {
		errs = append(errs, "Fit is required for apparel")
	}
	return errs
}

func validateFootwear(details *domain.FootwearDetails) []string {
	if details == nil {
		details = &domain.FootwearDetails{}
	}

	var errs []string
	if strings.TrimSpace(details.ModelType) == "" {
		errs = append(errs, "Model type is required for footwear")
	}
	if strings.TrimSpace(details.UpperMaterial) == "" {
		errs = append(errs, "Upper material is required for footwear")
	}
	if strings.TrimSpace(details.SoleType) == "" {
		errs = append(errs, "Sole type is required for footwear")
	}
	if strings.TrimSpace(details.LaceType) == "" {
		errs = append(errs, "Lace type is required for footwear")
	}
	return errs
}

package domain

type ItemCategory string

func (c ItemCategory) String() string {
	return string(c)
}

const (
	ItemCategoryApparel  ItemCategory = "APPAREL"
	ItemCategoryFootwear ItemCategory = "FOOTWEAR"
)

var ItemCategories = []ItemCategory{
	ItemCategoryApparel,
	ItemCategoryFootwear,
}

// SKUPrefix returns the 3-letter segment used as the first SKU component.
func (c ItemCategory) SKUPrefix() string {
	switch c {
	case ItemCategoryApparel:
		return "APP"
	case ItemCategoryFootwear:
		return "FTW"
	default:
		return "UNK"
	}
}

func (c ItemCategory) GetCategoryName() string {
	switch c {
	case ItemCategoryApparel:
		return "Apparel"
	case ItemCategoryFootwear:
		return "Footwear"
	default:
		return "Unknown"
	}
}

package vufs

import (
	"strings"

	"vufs/engine/internal/domain"
)

// GenerateSearchKeywords derives the keyword set an external search indexer
// consumes for an item: every non-empty category and brand field, plus the
// two field combinations worth the most in search (page + blue subcategory,
// brand + white subcategory). Everything is lowercased and deduplicated
// preserving first-occurrence order.
func GenerateSearchKeywords(category domain.CategoryHierarchy, brand domain.BrandHierarchy) []string {
	candidates := []string{
		category.Page,
		category.BlueSubcategory,
		category.WhiteSubcategory,
		category.GraySubcategory,
		brand.Brand,
	}
	if brand.Line != nil {
		candidates = append(candidates, *brand.Line)
	}
	if brand.Collaboration != nil {
		candidates = append(candidates, *brand.Collaboration)
	}
	candidates = append(candidates,
		combine(category.Page, category.BlueSubcategory),
		combine(brand.Brand, category.WhiteSubcategory),
	)

	seen := make(map[string]struct{}, len(candidates))
	keywords := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		keyword := strings.ToLower(strings.TrimSpace(candidate))
		if keyword == "" {
			continue
		}
		if _, dup := seen[keyword]; dup {
			continue
		}
		seen[keyword] = struct{}{}
		keywords = append(keywords, keyword)
	}

	return keywords
}

// combine joins two fields into one keyword; empty when either side is
// empty so partial records never emit dangling combinations.
func combine(a, b string) string {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if a == "" || b == "" {
		return ""
	}
	return a + " " + b
}

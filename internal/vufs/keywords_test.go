package vufs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"vufs/engine/internal/domain"
)

func TestGenerateSearchKeywords(t *testing.T) {
	t.Parallel()

	category := domain.CategoryHierarchy{
		Page:             "Men",
		BlueSubcategory:  "Clothing",
		WhiteSubcategory: "Shirts",
		GraySubcategory:  "Casual",
	}
	brand := domain.BrandHierarchy{
		Brand: "Nike",
		Line:  strPtr("Jordan"),
	}

	keywords := GenerateSearchKeywords(category, brand)
	require.Equal(t, []string{
		"men",
		"clothing",
		"shirts",
		"casual",
		"nike",
		"jordan",
		"men clothing",
		"nike shirts",
	}, keywords)
}

func TestGenerateSearchKeywordsDeduplicatesAndLowercases(t *testing.T) {
	t.Parallel()

	category := domain.CategoryHierarchy{
		Page:            "STREETWEAR",
		BlueSubcategory: "Streetwear", // duplicates page after lowercasing
	}
	brand := domain.BrandHierarchy{
		Brand: "Supreme",
		Line:  strPtr("SUPREME"), // duplicates brand after lowercasing
	}

	keywords := GenerateSearchKeywords(category, brand)

	seen := make(map[string]bool)
	for _, kw := range keywords {
		require.Equal(t, strings.ToLower(kw), kw, "keyword %q must be lowercase", kw)
		require.False(t, seen[kw], "keyword %q emitted twice", kw)
		seen[kw] = true
	}
	require.Equal(t, []string{"streetwear", "supreme", "streetwear streetwear"}, keywords)
}

func TestGenerateSearchKeywordsSkipsEmptyAndPartialCombos(t *testing.T) {
	t.Parallel()

	category := domain.CategoryHierarchy{Page: "Women"}
	brand := domain.BrandHierarchy{Brand: "Zara"}

	// No blue subcategory means no page combo; no white subcategory means
	// no brand combo.
	require.Equal(t, []string{"women", "zara"}, GenerateSearchKeywords(category, brand))

	require.Empty(t, GenerateSearchKeywords(domain.CategoryHierarchy{}, domain.BrandHierarchy{}))
}

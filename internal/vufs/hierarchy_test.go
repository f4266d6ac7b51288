package vufs

import (
	"testing"

	"github.com/stretchr/testify/require"

	"vufs/engine/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestValidateCategoryHierarchy(t *testing.T) {
	t.Parallel()

	valid := domain.CategoryHierarchy{
		Page:             "Men",
		BlueSubcategory:  "Clothing",
		WhiteSubcategory: "Shirts",
		GraySubcategory:  "Casual",
	}
	require.Empty(t, ValidateCategoryHierarchy(valid))

	allBlank := domain.CategoryHierarchy{
		Page:             "   ",
		BlueSubcategory:  "\t",
		WhiteSubcategory: "",
		GraySubcategory:  " \n ",
	}
	errs := ValidateCategoryHierarchy(allBlank)
	require.Equal(t, []string{
		"Page is required",
		"Blue subcategory is required",
		"White subcategory is required",
		"Gray subcategory is required",
	}, errs)

	oneMissing := valid
	oneMissing.WhiteSubcategory = "  "
	require.Equal(t, []string{"White subcategory is required"}, ValidateCategoryHierarchy(oneMissing))
}

func TestNormalizeCategoryHierarchy(t *testing.T) {
	t.Parallel()

	messy := domain.CategoryHierarchy{
		Page:             "  men  ",
		BlueSubcategory:  "CLOTHING",
		WhiteSubcategory: "t   shirts",
		GraySubcategory:  "casual wEAR",
	}
	normalized := NormalizeCategoryHierarchy(messy)
	require.Equal(t, domain.CategoryHierarchy{
		Page:             "Men",
		BlueSubcategory:  "Clothing",
		WhiteSubcategory: "T Shirts",
		GraySubcategory:  "Casual Wear",
	}, normalized)

	// Idempotence.
	require.Equal(t, normalized, NormalizeCategoryHierarchy(normalized))
}

func TestValidateBrandHierarchy(t *testing.T) {
	t.Parallel()

	require.Empty(t, ValidateBrandHierarchy(domain.BrandHierarchy{Brand: "Nike"}))

	withOptionals := domain.BrandHierarchy{
		Brand:         "Nike",
		Line:          strPtr("Jordan"),
		Collaboration: strPtr("Off-White"),
	}
	require.Empty(t, ValidateBrandHierarchy(withOptionals))

	blankOptionals := domain.BrandHierarchy{
		Brand:         "Nike",
		Line:          strPtr("   "),
		Collaboration: strPtr(""),
	}
	require.Equal(t, []string{
		"Line cannot be empty if provided",
		"Collaboration cannot be empty if provided",
	}, ValidateBrandHierarchy(blankOptionals))

	require.Equal(t, []string{"Brand is required"},
		ValidateBrandHierarchy(domain.BrandHierarchy{Brand: " "}))
}

func TestNormalizeBrandHierarchy(t *testing.T) {
	t.Parallel()

	in := domain.BrandHierarchy{
		Brand: "  calvin   klein ",
		Line:  strPtr("ck ONE"),
	}
	out := NormalizeBrandHierarchy(in)
	require.Equal(t, "Calvin Klein", out.Brand)
	require.NotNil(t, out.Line)
	require.Equal(t, "Ck One", *out.Line)
	require.Nil(t, out.Collaboration, "absent optional must stay absent")
}

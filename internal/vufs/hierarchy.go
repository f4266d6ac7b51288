package vufs

import (
	"strings"
	"unicode"

	"vufs/engine/internal/domain"
)

// ValidateCategoryHierarchy checks the four taxonomy levels in fixed order.
// Every check runs (no short-circuit) so a caller sees all missing fields
// at once. An empty result means the hierarchy is valid.
func ValidateCategoryHierarchy(h domain.CategoryHierarchy) []string {
	var errs []string

	if strings.TrimSpace(h.Page) == "" {
		errs = append(errs, "Page is required")
	}
	if strings.TrimSpace(h.BlueSubcategory) == "" {
		errs = append(errs, "Blue subcategory is required")
	}
	if strings.TrimSpace(h.WhiteSubcategory) == "" {
		errs = append(errs, "White subcategory is required")
	}
	if strings.TrimSpace(h.GraySubcategory) == "" {
		errs = append(errs, "Gray subcategory is required")
	}

	return errs
}

// NormalizeCategoryHierarchy returns a display-ready copy: each label is
// trimmed, internal whitespace runs collapse to one space, and every word
// is title-cased. Never fails; validate separately to reject bad input.
// Idempotent: normalizing a normalized hierarchy is a no-op.
func NormalizeCategoryHierarchy(h domain.CategoryHierarchy) domain.CategoryHierarchy {
	return domain.CategoryHierarchy{
		Page:             normalizeLabel(h.Page),
		BlueSubcategory:  normalizeLabel(h.BlueSubcategory),
		WhiteSubcategory: normalizeLabel(h.WhiteSubcategory),
		GraySubcategory:  normalizeLabel(h.GraySubcategory),
	}
}

// ValidateBrandHierarchy requires Brand; Line and Collaboration are checked
// only when supplied — nil is fine, present-but-blank is an error.
func ValidateBrandHierarchy(h domain.BrandHierarchy) []string {
	var errs []string

	if strings.TrimSpace(h.Brand) == "" {
		errs = append(errs, "Brand is required")
	}
	if h.Line != nil && strings.TrimSpace(*h.Line) == "" {
		errs = append(errs, "Line cannot be empty if provided")
	}
	if h.Collaboration != nil && strings.TrimSpace(*h.Collaboration) == "" {
		errs = append(errs, "Collaboration cannot be empty if provided")
	}

	return errs
}

// NormalizeBrandHierarchy normalizes like NormalizeCategoryHierarchy but
// leaves absent optional fields absent.
func NormalizeBrandHierarchy(h domain.BrandHierarchy) domain.BrandHierarchy {
	out := domain.BrandHierarchy{
		Brand: normalizeLabel(h.Brand),
	}
	if h.Line != nil {
		line := normalizeLabel(*h.Line)
		out.Line = &line
	}
	if h.Collaboration != nil {
		collab := normalizeLabel(*h.Collaboration)
		out.Collaboration = &collab
	}
	return out
}

func normalizeLabel(label string) string {
	words := strings.Fields(label)
	for i, word := range words {
		runes := []rune(strings.ToLower(word))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

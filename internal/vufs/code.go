package vufs

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"vufs/engine/internal/domain"
)

// VUFSCodePrefix is the fixed literal every VUFS code starts with. The full
// format is a persisted external contract and must stay byte-stable:
// VG-XXXX-YYYY-ZZZZZZZZ, uppercase alphanumeric, hyphen-delimited.
const VUFSCodePrefix = "VG"

var (
	vufsCodeRegex     = regexp.MustCompile(`^VG-[A-Z0-9]{4}-[A-Z0-9]{4}-[A-Z0-9]{8}$`)
	vufsSegment4Regex = regexp.MustCompile(`^[A-Z0-9]{4}$`)
	vufsSegment8Regex = regexp.MustCompile(`^[A-Z0-9]{8}$`)

	trademarkGlyphs = strings.NewReplacer("®", "", "™", "", "©", "")
)

// VUFSCode is a parsed VG-XXXX-YYYY-ZZZZZZZZ identifier.
type VUFSCode struct {
	Prefix       string `json:"prefix"`
	CategoryCode string `json:"category_code"`
	BrandCode    string `json:"brand_code"`
	UniqueID     string `json:"unique_id"`
}

// String reassembles the code; for any code produced by ParseVUFSCode the
// result is byte-identical to the parsed input.
func (c *VUFSCode) String() string {
	return c.Prefix + "-" + c.CategoryCode + "-" + c.BrandCode + "-" + c.UniqueID
}

// GenerateSKU builds the human-assigned stock code
// {categoryPrefix}-{brandCode}-{typeCode}-{sequence}. The result is
// deterministic: identical inputs always produce an identical SKU.
func GenerateSKU(category domain.ItemCategory, brand, itemTypeLabel string, sequence int) string {
	return fmt.Sprintf("%s-%s-%s-%04d",
		category.SKUPrefix(),
		BrandCode(brand),
		itemTypeCode(itemTypeLabel),
		sequence)
}

// BrandCode derives the SKU brand segment: trademark glyphs are stripped,
// a single-word brand contributes its first 3 letters, a multi-word brand
// contributes the initials of its first 4 words (so "Calvin Klein" -> "CK").
// The single-word path drops non-letters before truncating ("Y-3" -> "Y")
// so the segment never smuggles extra hyphens into the SKU.
func BrandCode(brand string) string {
	words := strings.Fields(trademarkGlyphs.Replace(brand))
	if len(words) == 0 {
		return ""
	}

	if len(words) == 1 {
		return leadingLetters(words[0], 3)
	}

	if len(words) > 4 {
		words = words[:4]
	}
	var initials strings.Builder
	for _, word := range words {
		initials.WriteRune(unicode.ToUpper([]rune(word)[0]))
	}
	return initials.String()
}

// itemTypeCode keeps only letters from the label and truncates to 3,
// uppercased ("T-Shirt" -> "TSH", "Sneakers" -> "SNE").
func itemTypeCode(label string) string {
	return leadingLetters(label, 3)
}

func leadingLetters(s string, n int) string {
	letters := make([]rune, 0, n)
	for _, r := range s {
		if unicode.IsLetter(r) {
			letters = append(letters, unicode.ToUpper(r))
			if len(letters) == n {
				break
			}
		}
	}
	return string(letters)
}

// IsValidVUFSCode reports whether code matches the exact VUFS shape. Any
// deviation in length, case, separator, or segment count is invalid.
func IsValidVUFSCode(code string) bool {
	return vufsCodeRegex.MatchString(code)
}

// ParseVUFSCode splits a VUFS code into its named segments. Malformed codes
// are expected input (user paste errors), so the failure result is nil
// rather than an error.
func ParseVUFSCode(code string) *VUFSCode {
	if !IsValidVUFSCode(code) {
		return nil
	}

	parts := strings.Split(code, "-")
	return &VUFSCode{
		Prefix:       parts[0],
		CategoryCode: parts[1],
		BrandCode:    parts[2],
		UniqueID:     parts[3],
	}
}

// BuildVUFSCode assembles a canonical VUFS code from its variable segments,
// uppercasing the inputs. ok is false when a segment does not fit the
// fixed-width alphanumeric contract.
func BuildVUFSCode(categoryCode, brandCode, uniqueID string) (string, bool) {
	categoryCode = strings.ToUpper(strings.TrimSpace(categoryCode))
	brandCode = strings.ToUpper(strings.TrimSpace(brandCode))
	uniqueID = strings.ToUpper(strings.TrimSpace(uniqueID))

	if !vufsSegment4Regex.MatchString(categoryCode) ||
		!vufsSegment4Regex.MatchString(brandCode) ||
		!vufsSegment8Regex.MatchString(uniqueID) {
		return "", false
	}

	code := VUFSCode{
		Prefix:       VUFSCodePrefix,
		CategoryCode: categoryCode,
		BrandCode:    brandCode,
		UniqueID:     uniqueID,
	}
	return code.String(), true
}

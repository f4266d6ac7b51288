package domain

// CategoryHierarchy is the four-level taxonomy attached to every catalog
// item. All four labels are required; validated instances are immutable
// once stored (edits create a new validated instance).
type CategoryHierarchy struct {
	Page             string `json:"page"`
	BlueSubcategory  string `json:"blue_subcategory"`
	WhiteSubcategory string `json:"white_subcategory"`
	GraySubcategory  string `json:"gray_subcategory"`
}

// BrandHierarchy carries a required brand plus two optional refinements.
// Line and Collaboration use pointers so an absent field (nil) can be told
// apart from a field that was supplied blank.
type BrandHierarchy struct {
	Brand         string  `json:"brand"`
	Line          *string `json:"line,omitempty"`
	Collaboration *string `json:"collaboration,omitempty"`
}

package model

// Repository represents a GitHub repository owned by a user.
type Repository struct {
	Name        string  `json:"name"`
	StarCount   int     `json:"starCount"`
	Language    *string `json:"language,omitempty"`
	Description *string `json:"description,omitempty"`
	URL         string  `json:"url"`
}

// LanguageOr returns the repository language, or fallback when GitHub did
// not detect one.
func (r Repository) LanguageOr(fallback string) string {
	if r.Language == nil || *r.Language == "" {
		return fallback
	}
	return *r.Language
}

// DescriptionOr returns the repository description, or fallback when unset.
func (r Repository) DescriptionOr(fallback string) string {
	if r.Description == nil || *r.Description == "" {
		return fallback
	}
	return *r.Description
}

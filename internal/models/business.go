// internal/models/business.go
package models

// BusinessCategory is read-only reference data owned by the external store.
// Name is the canonical lowercase identifier used for keyword matching.
type BusinessCategory struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name,omitempty"`
	Description string `json:"description,omitempty"`
	IconName    string `json:"icon_name,omitempty"`
}

// Business is a registered business that can fulfill orders. Only businesses
// with IsActive and IsVerified both set are ever eligible candidates.
type Business struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	CategoryID string  `json:"category_id"`
	IsActive   bool    `json:"is_active"`
	IsVerified bool    `json:"is_verified"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	City       string  `json:"city"`
	Email      string  `json:"email,omitempty"`
	Phone      string  `json:"phone,omitempty"`
}

// Eligible reports whether the business may be returned as a candidate.
func (b Business) Eligible() bool {
	return b.IsActive && b.IsVerified
}

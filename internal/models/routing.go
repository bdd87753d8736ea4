// internal/models/routing.go
package models

// ReasonCode records which fallback tier produced a routing decision.
type ReasonCode string

const (
	// ReasonLocationBased: category-matched candidates ranked by distance.
	ReasonLocationBased ReasonCode = "location_based"
	// ReasonFallbackAvailable: category-matched candidate chosen without
	// distance ranking (no usable customer location).
	ReasonFallbackAvailable ReasonCode = "fallback_available"
	// ReasonFallbackAnyActive: no category match; any active and verified
	// business was chosen.
	ReasonFallbackAnyActive ReasonCode = "fallback_any_active"
	// ReasonNoMatch: no eligible business exists under any tier.
	ReasonNoMatch ReasonCode = "no_match"
)

// RoutingResult is the single decision produced for an order. BusinessID is
// empty only when Reason is ReasonNoMatch. Detail carries an optional
// diagnostic (for example a store outage during the terminal tier) and is
// distinct from the reason code.
type RoutingResult struct {
	BusinessID string     `json:"business_id,omitempty"`
	Reason     ReasonCode `json:"reason"`
	DistanceKm *float64   `json:"distance_km,omitempty"`
	Detail     string     `json:"detail,omitempty"`
}

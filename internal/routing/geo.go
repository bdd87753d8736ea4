// internal/routing/geo.go
package routing

import (
	"math"
	"sort"

	"freeflow-backend/internal/models"
)

const earthRadiusKm = 6371.0

// RankedBusiness pairs a candidate with its great-circle distance from the
// customer location.
type RankedBusiness struct {
	Business   models.Business
	DistanceKm float64
}

// haversineKm calculates the great-circle distance between two lat/lng points
// in kilometers.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLng/2)*math.Sin(deltaLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// RankByDistance orders candidates by ascending haversine distance from the
// origin. Distance ties break on the lexicographically smaller business ID so
// the ranking is deterministic. An empty candidate list yields an empty
// ranking, not an error.
func RankByDistance(origin models.Location, candidates []models.Business) []RankedBusiness {
	ranked := make([]RankedBusiness, 0, len(candidates))
	for _, b := range candidates {
		ranked = append(ranked, RankedBusiness{
			Business:   b,
			DistanceKm: haversineKm(origin.Lat, origin.Lng, b.Latitude, b.Longitude),
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].DistanceKm != ranked[j].DistanceKm {
			return ranked[i].DistanceKm < ranked[j].DistanceKm
		}
		return ranked[i].Business.ID < ranked[j].Business.ID
	})

	return ranked
}

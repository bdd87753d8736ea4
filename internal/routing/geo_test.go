// internal/routing/geo_test.go
package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freeflow-backend/internal/models"
)

func TestHaversineKm(t *testing.T) {
	tests := []struct {
		name     string
		lat1     float64
		lng1     float64
		lat2     float64
		lng2     float64
		expected float64
		delta    float64
	}{
		{
			name: "same point", lat1: 50.0, lng1: 19.0, lat2: 50.0, lng2: 19.0,
			expected: 0, delta: 0.0001,
		},
		{
			name: "one hundredth of a degree of latitude", lat1: 50.0, lng1: 19.0, lat2: 50.01, lng2: 19.0,
			expected: 1.112, delta: 0.01,
		},
		{
			name: "krakow to warsaw", lat1: 50.0647, lng1: 19.945, lat2: 52.2297, lng2: 21.0122,
			expected: 252.0, delta: 3.0,
		},
		{
			name: "across the antimeridian", lat1: 0, lng1: 179.5, lat2: 0, lng2: -179.5,
			expected: 111.2, delta: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := haversineKm(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			assert.InDelta(t, tt.expected, got, tt.delta)
		})
	}
}

func TestRankByDistance(t *testing.T) {
	origin := models.Location{Lat: 50.0, Lng: 19.0}
	candidates := []models.Business{
		{ID: "biz-far", Latitude: 50.1, Longitude: 19.0},
		{ID: "biz-near", Latitude: 50.001, Longitude: 19.0},
		{ID: "biz-mid", Latitude: 50.01, Longitude: 19.0},
	}

	ranked := RankByDistance(origin, candidates)

	require.Len(t, ranked, 3)
	assert.Equal(t, "biz-near", ranked[0].Business.ID)
	assert.Equal(t, "biz-mid", ranked[1].Business.ID)
	assert.Equal(t, "biz-far", ranked[2].Business.ID)
	assert.Less(t, ranked[0].DistanceKm, ranked[1].DistanceKm)
	assert.Less(t, ranked[1].DistanceKm, ranked[2].DistanceKm)
}

func TestRankByDistance_TiesBreakOnID(t *testing.T) {
	origin := models.Location{Lat: 50.0, Lng: 19.0}
	candidates := []models.Business{
		{ID: "biz-b", Latitude: 50.01, Longitude: 19.0},
		{ID: "biz-a", Latitude: 50.01, Longitude: 19.0},
		{ID: "biz-c", Latitude: 50.01, Longitude: 19.0},
	}

	ranked := RankByDistance(origin, candidates)

	require.Len(t, ranked, 3)
	assert.Equal(t, "biz-a", ranked[0].Business.ID)
	assert.Equal(t, "biz-b", ranked[1].Business.ID)
	assert.Equal(t, "biz-c", ranked[2].Business.ID)
}

func TestRankByDistance_EmptyCandidates(t *testing.T) {
	ranked := RankByDistance(models.Location{Lat: 50.0, Lng: 19.0}, nil)
	assert.Empty(t, ranked)
}

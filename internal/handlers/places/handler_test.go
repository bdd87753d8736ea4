// internal/handlers/places/handler_test.go
package places

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freeflow-backend/internal/common/logger"
)

// ==========================
// Query Parsing Tests
// ==========================

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    *SearchQuery
		wantErr bool
	}{
		{
			name: "term only",
			url:  "/api/places/search?q=pizza",
			want: &SearchQuery{Term: "pizza", Size: defaultPageSize},
		},
		{
			name: "all filters with paging",
			url:  "/api/places/search?q=pizza&category=pizzeria&city=Katowice&from=20&size=10",
			want: &SearchQuery{Term: "pizza", Category: "pizzeria", City: "Katowice", From: 20, Size: 10},
		},
		{
			name: "size capped",
			url:  "/api/places/search?q=pizza&size=500",
			want: &SearchQuery{Term: "pizza", Size: maxPageSize},
		},
		{
			name:    "no filters",
			url:     "/api/places/search",
			wantErr: true,
		},
		{
			name:    "negative from",
			url:     "/api/places/search?q=pizza&from=-1",
			wantErr: true,
		},
		{
			name:    "non-numeric size",
			url:     "/api/places/search?q=pizza&size=abc",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, err := parseQuery(httptest.NewRequest(http.MethodGet, tt.url, nil))

			if tt.wantErr {
				require.NotNil(t, err)
				assert.Equal(t, "VALIDATION_FAILED", string(err.Code))
				return
			}
			require.Nil(t, err)
			assert.Equal(t, tt.want, query)
		})
	}
}

// ==========================
// Query Builder Tests
// ==========================

func TestBuildSearchBody_EligibilityAlwaysFiltered(t *testing.T) {
	body := buildSearchBody(SearchQuery{Term: "pizza"})

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	payload := string(raw)
	assert.Contains(t, payload, `"is_active":true`)
	assert.Contains(t, payload, `"is_verified":true`)
	assert.Contains(t, payload, `"multi_match"`)
	assert.Contains(t, payload, `"name^3"`)
}

func TestBuildSearchBody_NoTermMatchesAll(t *testing.T) {
	body := buildSearchBody(SearchQuery{Category: "pizzeria"})

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	payload := string(raw)
	assert.Contains(t, payload, `"match_all"`)
	assert.Contains(t, payload, `"category":"pizzeria"`)
	assert.NotContains(t, payload, `"multi_match"`)
}

func TestBuildSearchRequest_MissingIndex(t *testing.T) {
	_, err := BuildSearchRequest("", SearchQuery{Term: "pizza"})
	assert.Error(t, err)
}

// ==========================
// Response Parsing Tests
// ==========================

func TestParseSearchResponse(t *testing.T) {
	raw := `{
		"hits": {
			"total": {"value": 2},
			"max_score": 3.5,
			"hits": [
				{"_source": {"id": "biz-pizza-1", "name": "Mario Pizza"}},
				{"_source": {"id": "biz-pizza-2", "name": "Luigi Pizza"}}
			]
		}
	}`

	result, err := parseSearchResponse(strings.NewReader(raw), time.Now())

	require.NoError(t, err)
	assert.Equal(t, int64(2), result.TotalHits)
	assert.Equal(t, 3.5, result.MaxScore)
	require.Len(t, result.Businesses, 2)
	assert.Equal(t, "Mario Pizza", result.Businesses[0]["name"])
}

func TestParseSearchResponse_NullMaxScore(t *testing.T) {
	raw := `{"hits": {"total": {"value": 0}, "max_score": null, "hits": []}}`

	result, err := parseSearchResponse(strings.NewReader(raw), time.Now())

	require.NoError(t, err)
	assert.Zero(t, result.TotalHits)
	assert.Zero(t, result.MaxScore)
	assert.Empty(t, result.Businesses)
}

// ==========================
// Handler Tests
// ==========================

func TestHandler_Search_MissingFilters(t *testing.T) {
	handler := NewHandler(&Config{Index: "businesses", Timeout: 5 * time.Second}, nil, logger.NewNoOpLogger())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/places/search", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var apiErr struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.False(t, apiErr.OK)
	assert.Equal(t, "VALIDATION_FAILED", apiErr.Error)
}

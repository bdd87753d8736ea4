// internal/handlers/places/query.go
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// SearchQuery is a parsed and bounded search request.
type SearchQuery struct {
	Term     string
	Category string
	City     string
	From     int
	Size     int
}

// BuildSearchRequest builds the Elasticsearch request for a business search.
// Only active and verified businesses are ever returned.
func BuildSearchRequest(index string, q SearchQuery) (*esapi.SearchRequest, error) {
	if index == "" {
		return nil, fmt.Errorf("search index is not configured")
	}

	body, _ := json.Marshal(buildSearchBody(q))

	req := esapi.SearchRequest{
		Index: []string{index},
		Body:  strings.NewReader(string(body)),
		From:  &q.From,
		Size:  &q.Size,
	}
	return &req, nil
}

func buildSearchBody(q SearchQuery) map[string]interface{} {
	mustClauses := []interface{}{}
	filterClauses := []interface{}{
		map[string]interface{}{
			"term": map[string]interface{}{"is_active": true},
		},
		map[string]interface{}{
			"term": map[string]interface{}{"is_verified": true},
		},
	}

	if q.Term != "" {
		mustClauses = append(mustClauses, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  q.Term,
				"fields": []string{"name^3", "city", "category"},
				"type":   "best_fields",
			},
		})
	}

	if q.Category != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"category": q.Category},
		})
	}

	if q.City != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"city": q.City},
		})
	}

	boolQuery := map[string]interface{}{
		"filter": filterClauses,
	}
	if len(mustClauses) > 0 {
		boolQuery["must"] = mustClauses
	} else {
		boolQuery["must"] = []interface{}{
			map[string]interface{}{"match_all": map[string]interface{}{}},
		}
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": boolQuery,
		},
	}
}

// SearchResult mirrors the parts of the Elasticsearch response the API exposes.
type SearchResult struct {
	Businesses []map[string]interface{} `json:"businesses"`
	TotalHits  int64                    `json:"total_hits"`
	MaxScore   float64                  `json:"max_score"`
	Took       int64                    `json:"took_ms"`
}

func executeSearch(ctx context.Context, client *elasticsearch.Client, index string, q SearchQuery) (*SearchResult, error) {
	req, err := BuildSearchRequest(index, q)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := req.Do(ctx, client)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search query failed: %s", res.String())
	}

	return parseSearchResponse(res.Body, start)
}

func parseSearchResponse(body io.Reader, start time.Time) (*SearchResult, error) {
	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			MaxScore *float64 `json:"max_score"`
			Hits     []struct {
				Source map[string]interface{} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	result := &SearchResult{
		TotalHits: r.Hits.Total.Value,
		Took:      time.Since(start).Milliseconds(),
	}
	if r.Hits.MaxScore != nil {
		result.MaxScore = *r.Hits.MaxScore
	}
	for _, hit := range r.Hits.Hits {
		result.Businesses = append(result.Businesses, hit.Source)
	}
	return result, nil
}

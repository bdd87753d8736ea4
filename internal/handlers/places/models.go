// internal/handlers/places/models.go
package places

type Response struct {
	OK   bool          `json:"ok"`
	Data *SearchResult `json:"data"`
}

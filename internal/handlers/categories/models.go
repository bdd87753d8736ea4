// internal/handlers/categories/models.go
package categories

import "freeflow-backend/internal/models"

type Response struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	Data    struct {
		Categories []models.BusinessCategory `json:"categories"`
		TotalCount int                       `json:"total_count"`
	} `json:"data"`
}

// internal/handlers/routeorder/models.go
package routeorder

import (
	"freeflow-backend/internal/models"
	"freeflow-backend/internal/notify"
)

type Response struct {
	OK           bool                 `json:"ok"`
	OrderID      string               `json:"order_id"`
	Result       models.RoutingResult `json:"result"`
	Notification *notify.Receipt      `json:"notification,omitempty"`
}

// orderSchema accepts the order payload the frontend submits. Items may be
// empty: an order with no recognizable items still routes through the loosest
// tier.
const orderSchema = `{
	"type": "object",
	"required": ["order_items"],
	"properties": {
		"order_items": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["name"],
				"properties": {
					"name": {"type": "string", "minLength": 1},
					"quantity": {"type": "integer", "minimum": 1},
					"price": {"type": "number", "minimum": 0}
				}
			}
		},
		"customer_location": {
			"type": "object",
			"required": ["lat", "lng"],
			"properties": {
				"lat": {"type": "number"},
				"lng": {"type": "number"}
			}
		},
		"order_type": {"type": "string"}
	}
}`

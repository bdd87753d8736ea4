// internal/models/order.go
package models

const (
	OrderTypeOnline = "online"
	OrderTypePhone  = "phone"
)

// OrderItem is a single line item within an incoming order.
type OrderItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// Location is a plain latitude/longitude pair.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the coordinates are within range.
func (l Location) Valid() bool {
	return l.Lat >= -90 && l.Lat <= 90 && l.Lng >= -180 && l.Lng <= 180
}

// Order is an incoming order as submitted by the frontend. Immutable once
// constructed; the routing core never persists it.
type Order struct {
	Items            []OrderItem `json:"order_items"`
	CustomerLocation *Location   `json:"customer_location,omitempty"`
	OrderType        string      `json:"order_type,omitempty"`
}

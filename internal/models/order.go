package models

import (
	"time"
)

// UnknownItemName is shown for order lines whose menu item can no longer be found.
const UnknownItemName = "Unknown Item"

// OrderLine references a catalog item by id with the requested quantity
type OrderLine struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

// Order represents a customer order as it is persisted
type Order struct {
	ID           string      `json:"_id"`
	Items        []OrderLine `json:"items"`
	TotalAmount  float64     `json:"totalAmount"`
	CustomerName string      `json:"customerName"`
	Phone        string      `json:"phone"`
	Address      string      `json:"address"`
	PlacedAt     time.Time   `json:"placedAt"`
}

// RequestLine is an order line as submitted. A nil Quantity means the field
// was absent.
type RequestLine struct {
	ItemID   string `json:"itemId"`
	Quantity *int   `json:"quantity,omitempty"`
}

// NewRequestLine returns a line with an explicit quantity.
func NewRequestLine(itemID string, quantity int) RequestLine {
	return RequestLine{ItemID: itemID, Quantity: &quantity}
}

// CreateOrderRequest is the body accepted by POST /api/orders
type CreateOrderRequest struct {
	Items        []RequestLine `json:"items"`
	TotalAmount  float64       `json:"totalAmount"`
	CustomerName string        `json:"customerName"`
	Phone        string        `json:"phone"`
	Address      string        `json:"address"`
	PlacedAt     *time.Time    `json:"placedAt,omitempty"`
}

// ToOrder builds the order to persist. An absent quantity defaults to 1 and an
// absent placedAt defaults to now. Explicit values are kept as sent.
func (req *CreateOrderRequest) ToOrder(now time.Time) Order {
	items := make([]OrderLine, 0, len(req.Items))
	for _, line := range req.Items {
		quantity := 1
		if line.Quantity != nil {
			quantity = *line.Quantity
		}
		items = append(items, OrderLine{ItemID: line.ItemID, Quantity: quantity})
	}

	placedAt := now.UTC()
	if req.PlacedAt != nil && !req.PlacedAt.IsZero() {
		placedAt = req.PlacedAt.UTC()
	}

	return Order{
		Items:        items,
		TotalAmount:  req.TotalAmount,
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		Address:      req.Address,
		PlacedAt:     placedAt,
	}
}

// ItemIDs returns the distinct item ids referenced by the order, in first-seen order.
func (o *Order) ItemIDs() []string {
	seen := make(map[string]bool, len(o.Items))
	ids := make([]string, 0, len(o.Items))
	for _, line := range o.Items {
		if seen[line.ItemID] {
			continue
		}
		seen[line.ItemID] = true
		ids = append(ids, line.ItemID)
	}
	return ids
}

// ResolvedLine is an order line with its item reference expanded.
// Item is nil when the referenced item does not exist.
type ResolvedLine struct {
	Item     *MenuItem `json:"itemId"`
	Quantity int       `json:"quantity"`
	Name     string    `json:"name"`
}

// ResolvedOrder is an order as returned by GET /api/orders
type ResolvedOrder struct {
	ID           string         `json:"_id"`
	Items        []ResolvedLine `json:"items"`
	TotalAmount  float64        `json:"totalAmount"`
	CustomerName string         `json:"customerName"`
	Phone        string         `json:"phone"`
	Address      string         `json:"address"`
	PlacedAt     time.Time      `json:"placedAt"`
}

// Resolve joins the order lines against the given catalog items keyed by id.
func (o *Order) Resolve(items map[string]MenuItem) ResolvedOrder {
	lines := make([]ResolvedLine, 0, len(o.Items))
	for _, line := range o.Items {
		resolved := ResolvedLine{Quantity: line.Quantity, Name: UnknownItemName}
		if item, ok := items[line.ItemID]; ok {
			resolved.Item = &item
			resolved.Name = item.Name
		}
		lines = append(lines, resolved)
	}

	return ResolvedOrder{
		ID:           o.ID,
		Items:        lines,
		TotalAmount:  o.TotalAmount,
		CustomerName: o.CustomerName,
		Phone:        o.Phone,
		Address:      o.Address,
		PlacedAt:     o.PlacedAt,
	}
}

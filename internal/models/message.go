package models

import (
	"fmt"
	"strings"
	"time"
)

// OrderPlacedMessage is broadcast to notifiers once an order has been stored
type OrderPlacedMessage struct {
	OrderID      string         `json:"order_id"`
	CustomerName string         `json:"customer_name"`
	Phone        string         `json:"phone"`
	Address      string         `json:"address"`
	Items        []ResolvedLine `json:"items"`
	TotalAmount  float64        `json:"total_amount"`
	PlacedAt     time.Time      `json:"placed_at"`
}

// NewOrderPlacedMessage creates an OrderPlacedMessage from a resolved order
func NewOrderPlacedMessage(order ResolvedOrder) *OrderPlacedMessage {
	return &OrderPlacedMessage{
		OrderID:      order.ID,
		CustomerName: order.CustomerName,
		Phone:        order.Phone,
		Address:      order.Address,
		Items:        order.Items,
		TotalAmount:  order.TotalAmount,
		PlacedAt:     order.PlacedAt,
	}
}

// Summary renders a short multi-line text for chat and console notifications.
func (m *OrderPlacedMessage) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "New order %s from %s (%s)\n", m.OrderID, m.CustomerName, m.Phone)
	fmt.Fprintf(&b, "Address: %s\n", m.Address)
	for _, line := range m.Items {
		fmt.Fprintf(&b, "- %s × %d\n", line.Name, line.Quantity)
	}
	fmt.Fprintf(&b, "Total: ₹%s", FormatAmount(m.TotalAmount))
	return b.String()
}

// FormatAmount prints whole amounts without decimals and others with two.
func FormatAmount(amount float64) string {
	if amount == float64(int64(amount)) {
		return fmt.Sprintf("%d", int64(amount))
	}
	return fmt.Sprintf("%.2f", amount)
}

package validation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"hannas-kitchen/internal/models"
)

// ValidateOrderAgainstCatalog is used only in strict mode. It rejects lines
// that reference unknown items and totals that differ from price × quantity.
func ValidateOrderAgainstCatalog(order models.Order, items map[string]models.MenuItem) error {
	if len(order.Items) == 0 {
		return ValidationError{Field: "items", Message: "items cannot be empty"}
	}

	total := decimal.Zero
	for i, line := range order.Items {
		if line.Quantity < 1 {
			return ValidationError{
				Field:   fmt.Sprintf("items[%d].quantity", i),
				Message: "item quantity must be greater than 0",
			}
		}
		item, ok := items[line.ItemID]
		if !ok {
			return ValidationError{
				Field:   fmt.Sprintf("items[%d].itemId", i),
				Message: fmt.Sprintf("menu item %q does not exist", line.ItemID),
			}
		}
		total = total.Add(decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	if !total.Equal(decimal.NewFromFloat(order.TotalAmount)) {
		return ValidationError{
			Field:   "totalAmount",
			Message: fmt.Sprintf("total %s does not match items total %s", decimal.NewFromFloat(order.TotalAmount), total),
		}
	}
	return nil
}

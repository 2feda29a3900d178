// Package storefront holds the customer-facing ordering workflow: the cart,
// the session state around it and address lookup from device location.
package storefront

import (
	"github.com/shopspring/decimal"

	"hannas-kitchen/internal/models"
)

// CartEntry is one menu item in the cart. Quantity is always at least 1.
type CartEntry struct {
	ItemID   string
	Name     string
	Price    float64
	Quantity int
}

// Cart is an immutable list of entries keyed by item id. Every operation
// returns a new cart and leaves the receiver untouched.
type Cart struct {
	entries []CartEntry
}

// Add inserts item with quantity 1, or bumps the quantity when already present.
func (c Cart) Add(item models.MenuItem) Cart {
	if c.index(item.ID) >= 0 {
		return c.Increment(item.ID)
	}
	next := c.clone(len(c.entries) + 1)
	next.entries = append(next.entries, CartEntry{
		ItemID:   item.ID,
		Name:     item.Name,
		Price:    item.Price,
		Quantity: 1,
	})
	return next
}

// Increment adds one to the entry for itemID. Unknown ids are ignored.
func (c Cart) Increment(itemID string) Cart {
	i := c.index(itemID)
	if i < 0 {
		return c
	}
	next := c.clone(len(c.entries))
	next.entries[i].Quantity++
	return next
}

// Decrement removes one from the entry for itemID and drops the entry when it
// reaches zero. Unknown ids are ignored.
func (c Cart) Decrement(itemID string) Cart {
	i := c.index(itemID)
	if i < 0 {
		return c
	}
	if c.entries[i].Quantity <= 1 {
		next := Cart{entries: make([]CartEntry, 0, len(c.entries)-1)}
		next.entries = append(next.entries, c.entries[:i]...)
		next.entries = append(next.entries, c.entries[i+1:]...)
		return next
	}
	next := c.clone(len(c.entries))
	next.entries[i].Quantity--
	return next
}

// Total is the sum of price × quantity, summed in decimal to avoid float drift.
func (c Cart) Total() float64 {
	total := decimal.Zero
	for _, e := range c.entries {
		total = total.Add(decimal.NewFromFloat(e.Price).Mul(decimal.NewFromInt(int64(e.Quantity))))
	}
	f, _ := total.Float64()
	return f
}

// Lines returns the order payload lines. Names and prices are not sent.
func (c Cart) Lines() []models.OrderLine {
	lines := make([]models.OrderLine, 0, len(c.entries))
	for _, e := range c.entries {
		lines = append(lines, models.OrderLine{ItemID: e.ItemID, Quantity: e.Quantity})
	}
	return lines
}

// RequestLines returns Lines in request form, every quantity explicit.
func (c Cart) RequestLines() []models.RequestLine {
	lines := make([]models.RequestLine, 0, len(c.entries))
	for _, e := range c.entries {
		lines = append(lines, models.NewRequestLine(e.ItemID, e.Quantity))
	}
	return lines
}

// Without subtracts the given quantities and drops entries that reach zero.
// Anything added after lines were taken stays in the cart.
func (c Cart) Without(lines []models.OrderLine) Cart {
	next := c.clone(len(c.entries))
	for _, line := range lines {
		if i := next.index(line.ItemID); i >= 0 {
			next.entries[i].Quantity -= line.Quantity
		}
	}
	kept := next.entries[:0]
	for _, e := range next.entries {
		if e.Quantity > 0 {
			kept = append(kept, e)
		}
	}
	next.entries = kept
	return next
}

// Entries returns a copy of the cart contents in insertion order.
func (c Cart) Entries() []CartEntry {
	return append([]CartEntry(nil), c.entries...)
}

func (c Cart) Len() int {
	return len(c.entries)
}

// Quantity returns the quantity held for itemID, or 0.
func (c Cart) Quantity(itemID string) int {
	if i := c.index(itemID); i >= 0 {
		return c.entries[i].Quantity
	}
	return 0
}

func (c Cart) index(itemID string) int {
	for i, e := range c.entries {
		if e.ItemID == itemID {
			return i
		}
	}
	return -1
}

func (c Cart) clone(capacity int) Cart {
	entries := make([]CartEntry, len(c.entries), capacity)
	copy(entries, c.entries)
	return Cart{entries: entries}
}

// Package storage defines the persistence contracts shared by the catalog and
// order services and implemented by the postgres, mongo and memory backends.
package storage

import (
	"context"
	"errors"
	"fmt"

	"hannas-kitchen/internal/models"
)

// ErrUnavailable marks failures to reach the store or to persist a write.
var ErrUnavailable = errors.New("storage unavailable")

// Unavailable wraps err so that errors.Is(err, ErrUnavailable) holds.
func Unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}

// IsUnavailable reports whether err is a storage failure.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

type CatalogStore interface {
	// ListItems returns every menu item in natural store order.
	ListItems(ctx context.Context) ([]models.MenuItem, error)
	// CreateItem persists item and returns it with its assigned id.
	CreateItem(ctx context.Context, item models.MenuItem) (models.MenuItem, error)
	// GetItems returns the items that exist among ids, keyed by id. Unknown
	// or malformed ids are skipped.
	GetItems(ctx context.Context, ids []string) (map[string]models.MenuItem, error)
}

type OrderStore interface {
	// CreateOrder persists order and returns it with its assigned id.
	CreateOrder(ctx context.Context, order models.Order) (models.Order, error)
	// ListOrders returns every order in natural store order.
	ListOrders(ctx context.Context) ([]models.Order, error)
}

// Store is a backend serving both collections.
type Store interface {
	CatalogStore
	OrderStore
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

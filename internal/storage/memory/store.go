// Package memory keeps the catalog and orders in process memory.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"hannas-kitchen/internal/models"
	"hannas-kitchen/internal/storage"
)

type Store struct {
	mu     sync.RWMutex
	items  []models.MenuItem
	orders []models.Order

	// FailWith, when set, is returned (wrapped as unavailable) by every call.
	FailWith error
}

func New() *Store {
	return &Store{}
}

var _ storage.Store = (*Store)(nil)

func (s *Store) ListItems(ctx context.Context) ([]models.MenuItem, error) {
	if err := s.check("list items"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.MenuItem, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, copyItem(item))
	}
	return out, nil
}

func (s *Store) CreateItem(ctx context.Context, item models.MenuItem) (models.MenuItem, error) {
	if err := s.check("create item"); err != nil {
		return models.MenuItem{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	item.ID = uuid.NewString()
	item = copyItem(item)
	s.items = append(s.items, item)
	return copyItem(item), nil
}

func (s *Store) GetItems(ctx context.Context, ids []string) (map[string]models.MenuItem, error) {
	if err := s.check("get items"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	found := make(map[string]models.MenuItem, len(ids))
	for _, item := range s.items {
		if wanted[item.ID] {
			found[item.ID] = copyItem(item)
		}
	}
	return found, nil
}

// DeleteItem removes an item. The API never deletes items; tests use this to
// simulate a reference to an item that no longer exists.
func (s *Store) DeleteItem(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.items {
		if item.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

func (s *Store) CreateOrder(ctx context.Context, order models.Order) (models.Order, error) {
	if err := s.check("create order"); err != nil {
		return models.Order{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	order.ID = uuid.NewString()
	order.Items = append([]models.OrderLine(nil), order.Items...)
	s.orders = append(s.orders, order)
	return order, nil
}

func (s *Store) ListOrders(ctx context.Context) ([]models.Order, error) {
	if err := s.check("list orders"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Order, 0, len(s.orders))
	for _, order := range s.orders {
		order.Items = append([]models.OrderLine(nil), order.Items...)
		out = append(out, order)
	}
	return out, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.check("ping")
}

func (s *Store) Close(ctx context.Context) error {
	return nil
}

func (s *Store) check(op string) error {
	if s.FailWith != nil {
		return storage.Unavailable(op, s.FailWith)
	}
	return nil
}

func copyItem(item models.MenuItem) models.MenuItem {
	tags := make([]string, len(item.Tags))
	copy(tags, item.Tags)
	item.Tags = tags
	return item
}

package order

import (
	"context"
	"time"

	"hannas-kitchen/internal/logger"
	"hannas-kitchen/internal/models"
	"hannas-kitchen/internal/notify"
	"hannas-kitchen/internal/storage"
	"hannas-kitchen/internal/validation"
)

// Service places and lists customer orders
type Service struct {
	orders   storage.OrderStore
	catalog  storage.CatalogStore
	notifier notify.Notifier
	strict   bool
	logger   *logger.Logger
	now      func() time.Time
}

// NewService creates a new order service. notifier may be nil.
func NewService(orders storage.OrderStore, catalog storage.CatalogStore, notifier notify.Notifier, strict bool, log *logger.Logger) *Service {
	return &Service{
		orders:   orders,
		catalog:  catalog,
		notifier: notifier,
		strict:   strict,
		logger:   log,
		now:      time.Now,
	}
}

// CreateOrder persists the order as submitted. The client total is trusted
// and item references are not checked unless strict mode is on.
func (s *Service) CreateOrder(ctx context.Context, req *models.CreateOrderRequest, requestID string) (models.Order, error) {
	order := req.ToOrder(s.now())

	var items map[string]models.MenuItem
	if s.strict {
		var err error
		items, err = s.catalog.GetItems(ctx, order.ItemIDs())
		if err != nil {
			s.logger.Error("db_query_failed", "Failed to load items for order check", requestID, err, nil)
			return models.Order{}, err
		}
		if err := validation.ValidateOrderAgainstCatalog(order, items); err != nil {
			s.logger.Error("validation_failed", "Order rejected", requestID, err, map[string]interface{}{
				"customer_name": order.CustomerName,
				"total_amount":  order.TotalAmount,
			})
			return models.Order{}, err
		}
	}

	created, err := s.orders.CreateOrder(ctx, order)
	if err != nil {
		s.logger.Error("db_transaction_failed", "Failed to persist order", requestID, err, map[string]interface{}{
			"customer_name": order.CustomerName,
		})
		return models.Order{}, err
	}

	s.logger.Info("order_created", "Order placed", requestID, map[string]interface{}{
		"order_id":     created.ID,
		"items":        len(created.Items),
		"total_amount": created.TotalAmount,
	})

	s.notify(ctx, created, items, requestID)
	return created, nil
}

// notify publishes the placed order. Failures are logged only.
func (s *Service) notify(ctx context.Context, order models.Order, items map[string]models.MenuItem, requestID string) {
	if s.notifier == nil {
		return
	}
	if items == nil {
		var err error
		items, err = s.catalog.GetItems(ctx, order.ItemIDs())
		if err != nil {
			s.logger.Error("db_query_failed", "Failed to resolve items for notification", requestID, err, nil)
			items = map[string]models.MenuItem{}
		}
	}

	msg := models.NewOrderPlacedMessage(order.Resolve(items))
	if err := s.notifier.NotifyOrderPlaced(ctx, msg); err != nil {
		s.logger.Error("notification_failed", "Order notification failed", requestID, err, map[string]interface{}{
			"order_id": order.ID,
		})
	}
}

// ListOrders returns every order with its lines resolved against the current
// catalog. Items that no longer exist resolve to a placeholder.
func (s *Service) ListOrders(ctx context.Context, requestID string) ([]models.ResolvedOrder, error) {
	orders, err := s.orders.ListOrders(ctx)
	if err != nil {
		s.logger.Error("db_query_failed", "Failed to list orders", requestID, err, nil)
		return nil, err
	}

	seen := make(map[string]bool)
	var ids []string
	for i := range orders {
		for _, id := range orders[i].ItemIDs() {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	items := map[string]models.MenuItem{}
	if len(ids) > 0 {
		items, err = s.catalog.GetItems(ctx, ids)
		if err != nil {
			s.logger.Error("db_query_failed", "Failed to resolve order items", requestID, err, nil)
			return nil, err
		}
	}

	resolved := make([]models.ResolvedOrder, 0, len(orders))
	for i := range orders {
		resolved = append(resolved, orders[i].Resolve(items))
	}
	return resolved, nil
}

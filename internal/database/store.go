package database

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"

	"hannas-kitchen/internal/models"
	"hannas-kitchen/internal/storage"
)

var _ storage.Store = (*DB)(nil)

// ListItems returns all menu items ordered by id
func (db *DB) ListItems(ctx context.Context) ([]models.MenuItem, error) {
	rows, err := db.Query(ctx, ListMenuItemsSQL)
	if err != nil {
		return nil, storage.Unavailable("list menu items", err)
	}
	items, err := scanMenuItems(rows)
	if err != nil {
		return nil, storage.Unavailable("scan menu items", err)
	}
	return items, nil
}

// CreateItem inserts a menu item and returns it with its id
func (db *DB) CreateItem(ctx context.Context, item models.MenuItem) (models.MenuItem, error) {
	tags := item.Tags
	if tags == nil {
		tags = []string{}
	}

	var id int64
	err := db.Pool.QueryRow(ctx, InsertMenuItemSQL,
		item.Name, string(item.Category), item.Price, tags, item.ImageURL,
	).Scan(&id)
	if err != nil {
		return models.MenuItem{}, storage.Unavailable("insert menu item", err)
	}

	item.ID = strconv.FormatInt(id, 10)
	item.Tags = tags
	return item, nil
}

// GetItems looks up the given ids in one query
func (db *DB) GetItems(ctx context.Context, ids []string) (map[string]models.MenuItem, error) {
	found := make(map[string]models.MenuItem, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	rows, err := db.Query(ctx, GetMenuItemsByIDSQL, ids)
	if err != nil {
		return nil, storage.Unavailable("get menu items", err)
	}
	items, err := scanMenuItems(rows)
	if err != nil {
		return nil, storage.Unavailable("scan menu items", err)
	}
	for _, item := range items {
		found[item.ID] = item
	}
	return found, nil
}

// CreateOrder stores the order row and its lines in one transaction
func (db *DB) CreateOrder(ctx context.Context, order models.Order) (models.Order, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return models.Order{}, storage.Unavailable("begin order transaction", err)
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx, InsertOrderSQL,
		order.TotalAmount, order.CustomerName, order.Phone, order.Address, order.PlacedAt,
	).Scan(&id)
	if err != nil {
		return models.Order{}, storage.Unavailable("insert order", err)
	}

	for i, line := range order.Items {
		if _, err := tx.Exec(ctx, InsertOrderItemSQL, id, i, line.ItemID, line.Quantity); err != nil {
			return models.Order{}, storage.Unavailable("insert order item", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Order{}, storage.Unavailable("commit order", err)
	}

	order.ID = strconv.FormatInt(id, 10)
	return order, nil
}

// ListOrders returns all orders with their lines in insertion order
func (db *DB) ListOrders(ctx context.Context) ([]models.Order, error) {
	rows, err := db.Query(ctx, ListOrdersSQL)
	if err != nil {
		return nil, storage.Unavailable("list orders", err)
	}
	defer rows.Close()

	var orders []models.Order
	index := make(map[int64]int)
	for rows.Next() {
		var id int64
		var o models.Order
		if err := rows.Scan(&id, &o.TotalAmount, &o.CustomerName, &o.Phone, &o.Address, &o.PlacedAt); err != nil {
			return nil, storage.Unavailable("scan order", err)
		}
		o.ID = strconv.FormatInt(id, 10)
		o.Items = []models.OrderLine{}
		index[id] = len(orders)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.Unavailable("iterate orders", err)
	}

	lineRows, err := db.Query(ctx, ListOrderItemsSQL)
	if err != nil {
		return nil, storage.Unavailable("list order items", err)
	}
	defer lineRows.Close()

	for lineRows.Next() {
		var orderID int64
		var line models.OrderLine
		if err := lineRows.Scan(&orderID, &line.ItemID, &line.Quantity); err != nil {
			return nil, storage.Unavailable("scan order item", err)
		}
		if i, ok := index[orderID]; ok {
			orders[i].Items = append(orders[i].Items, line)
		}
	}
	if err := lineRows.Err(); err != nil {
		return nil, storage.Unavailable("iterate order items", err)
	}

	return orders, nil
}

func scanMenuItems(rows pgx.Rows) ([]models.MenuItem, error) {
	defer rows.Close()

	items := []models.MenuItem{}
	for rows.Next() {
		var id int64
		var category string
		var item models.MenuItem
		if err := rows.Scan(&id, &item.Name, &category, &item.Price, &item.Tags, &item.ImageURL); err != nil {
			return nil, err
		}
		item.ID = strconv.FormatInt(id, 10)
		item.Category = models.Category(category)
		if item.Tags == nil {
			item.Tags = []string{}
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

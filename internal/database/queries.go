package database

// Migration bookkeeping
const (
	CreateMigrationsTableSQL = `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			id SERIAL PRIMARY KEY,
			migration_name VARCHAR(255) NOT NULL UNIQUE,
			applied_at TIMESTAMPTZ DEFAULT NOW()
		)`

	SelectAppliedMigrationsSQL = `SELECT migration_name FROM schema_migrations`

	RecordMigrationSQL = `INSERT INTO schema_migrations (migration_name) VALUES ($1)`
)

// Catalog queries
const (
	InsertMenuItemSQL = `
		INSERT INTO menu_items (name, category, price, tags, image_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	ListMenuItemsSQL = `
		SELECT id, name, category, price, tags, image_url
		FROM menu_items
		ORDER BY id`

	GetMenuItemsByIDSQL = `
		SELECT id, name, category, price, tags, image_url
		FROM menu_items
		WHERE id::text = ANY($1)`
)

// Order queries
const (
	InsertOrderSQL = `
		INSERT INTO orders (total_amount, customer_name, phone, address, placed_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	InsertOrderItemSQL = `
		INSERT INTO order_items (order_id, position, item_id, quantity)
		VALUES ($1, $2, $3, $4)`

	ListOrdersSQL = `
		SELECT id, total_amount, customer_name, phone, address, placed_at
		FROM orders
		ORDER BY id`

	ListOrderItemsSQL = `
		SELECT order_id, item_id, quantity
		FROM order_items
		ORDER BY order_id, position`
)

package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/yoshii-hideaki/mikan-order/internal/domain"
)

var (
	// ErrNotFound signals an absent record, distinct from validation errors.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateOrderNumber signals a unique-constraint conflict on the
	// human-facing order number.
	ErrDuplicateOrderNumber = errors.New("order number already exists")
)

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

func (r *PostgresRepository) CreateMenuItem(item *domain.MenuItem) error {
	return r.DB.QueryRow(
		"INSERT INTO menu_items (name, price, category, image_url) VALUES ($1, $2, $3, $4) RETURNING id, created_at",
		item.Name, item.Price, item.Category, item.ImageURL,
	).Scan(&item.ID, &item.CreatedAt)
}

func (r *PostgresRepository) ListMenuItems() ([]domain.MenuItem, error) {
	rows, err := r.DB.Query(`
		SELECT id, name, price, category, COALESCE(image_url, ''), created_at
		FROM menu_items
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.MenuItem
	for rows.Next() {
		var item domain.MenuItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.Category, &item.ImageURL, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) GetMenuItem(id int) (*domain.MenuItem, error) {
	var item domain.MenuItem
	err := r.DB.QueryRow(`
		SELECT id, name, price, category, COALESCE(image_url, ''), created_at
		FROM menu_items
		WHERE id = $1`, id).
		Scan(&item.ID, &item.Name, &item.Price, &item.Category, &item.ImageURL, &item.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *PostgresRepository) DeleteMenuItem(id int) (int64, error) {
	result, err := r.DB.Exec("DELETE FROM menu_items WHERE id = $1", id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *PostgresRepository) CountMenuItems() (int, error) {
	var n int
	err := r.DB.QueryRow("SELECT COUNT(*) FROM menu_items").Scan(&n)
	return n, err
}

// NextOrderNumber draws from a store-backed sequence so numbers stay unique
// and are never reused, independent of row count.
func (r *PostgresRepository) NextOrderNumber() (int64, error) {
	var n int64
	err := r.DB.QueryRow("SELECT nextval('order_number_seq')").Scan(&n)
	return n, err
}

// CreateOrder inserts the order row and its items in one transaction so
// readers never observe a half-written order.
func (r *PostgresRepository) CreateOrder(order *domain.Order) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRow(`
		INSERT INTO orders (order_number, status, total_amount)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, order.OrderNumber, order.Status, order.TotalAmount).
		Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return mapOrderError(err)
	}

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		if err := tx.QueryRow(`
			INSERT INTO order_items (order_id, menu_item_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, item.OrderID, item.MenuItemID, item.Quantity, item.UnitPrice).Scan(&item.ID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ReplaceOrder updates the order row and swaps its item set wholesale, all in
// one transaction.
func (r *PostgresRepository) ReplaceOrder(order *domain.Order) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRow(`
		UPDATE orders
		SET order_number = $1, status = $2, total_amount = $3, updated_at = now()
		WHERE id = $4
		RETURNING created_at, updated_at
	`, order.OrderNumber, order.Status, order.TotalAmount, order.ID).
		Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return mapOrderError(err)
	}

	if _, err := tx.Exec("DELETE FROM order_items WHERE order_id = $1", order.ID); err != nil {
		return err
	}

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		if err := tx.QueryRow(`
			INSERT INTO order_items (order_id, menu_item_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, item.OrderID, item.MenuItemID, item.Quantity, item.UnitPrice).Scan(&item.ID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *PostgresRepository) UpdateOrderStatus(id int, status domain.OrderStatus) error {
	err := r.DB.QueryRow(`
		UPDATE orders SET status = $1, updated_at = now() WHERE id = $2 RETURNING id
	`, status, id).Scan(&id)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	return err
}

func (r *PostgresRepository) GetOrder(id int) (*domain.Order, error) {
	var order domain.Order
	err := r.DB.QueryRow(`
		SELECT id, order_number, status, total_amount, created_at, updated_at
		FROM orders WHERE id = $1
	`, id).Scan(&order.ID, &order.OrderNumber, &order.Status, &order.TotalAmount, &order.CreatedAt, &order.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	items, err := r.orderItems(order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return &order, nil
}

func (r *PostgresRepository) ListOrders(withItems bool) ([]domain.Order, error) {
	rows, err := r.DB.Query(`
		SELECT id, order_number, status, total_amount, created_at, updated_at
		FROM orders
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(&order.ID, &order.OrderNumber, &order.Status, &order.TotalAmount, &order.CreatedAt, &order.UpdatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if withItems {
		for i := range orders {
			items, err := r.orderItems(orders[i].ID)
			if err != nil {
				return nil, err
			}
			orders[i].Items = items
		}
	}
	return orders, nil
}

// orderItems resolves every item row's menu item reference. A dangling
// reference would drop the row here; the system does not guard against menu
// deletions under historical orders.
func (r *PostgresRepository) orderItems(orderID int) ([]domain.OrderItem, error) {
	rows, err := r.DB.Query(`
		SELECT oi.id, oi.order_id, oi.menu_item_id, m.name, oi.quantity, oi.unit_price
		FROM order_items oi
		JOIN menu_items m ON oi.menu_item_id = m.id
		WHERE oi.order_id = $1
		ORDER BY oi.id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.MenuItemID, &item.Name, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// DeleteOrder removes the order; the schema cascades to its items.
func (r *PostgresRepository) DeleteOrder(id int) (int64, error) {
	result, err := r.DB.Exec("DELETE FROM orders WHERE id = $1", id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *PostgresRepository) SaveQRCode(orderID int, qr []byte) error {
	_, err := r.DB.Exec("UPDATE orders SET qr_code = $1 WHERE id = $2", qr, orderID)
	return err
}

func (r *PostgresRepository) GetQRCode(orderID int) ([]byte, error) {
	var qr []byte
	err := r.DB.QueryRow("SELECT qr_code FROM orders WHERE id = $1", orderID).Scan(&qr)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return qr, nil
}

func (r *PostgresRepository) DailySummary(date string) (*domain.DailySummary, error) {
	s := domain.DailySummary{Date: date, ByStatus: map[domain.OrderStatus]int{}}
	err := r.DB.QueryRow(`
		SELECT COUNT(*)::int, COALESCE(SUM(total_amount), 0)::bigint
		FROM orders
		WHERE created_at::date = $1::date
	`, date).Scan(&s.OrdersCount, &s.Revenue)
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.Query(`
		SELECT status, COUNT(*)::int
		FROM orders
		WHERE created_at::date = $1::date
		GROUP BY status
	`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var status domain.OrderStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		s.ByStatus[status] = count
	}
	return &s, rows.Err()
}

func (r *PostgresRepository) EnsureSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS menu_items (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			price BIGINT NOT NULL CHECK (price >= 0),
			category TEXT NOT NULL,
			image_url TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id SERIAL PRIMARY KEY,
			order_number TEXT NOT NULL UNIQUE,
			status TEXT NOT NULL,
			total_amount BIGINT NOT NULL CHECK (total_amount >= 0),
			qr_code BYTEA,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id SERIAL PRIMARY KEY,
			order_id INT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			menu_item_id INT NOT NULL REFERENCES menu_items(id),
			quantity INT NOT NULL CHECK (quantity > 0),
			unit_price BIGINT NOT NULL CHECK (unit_price >= 0)
		)`,
		`CREATE SEQUENCE IF NOT EXISTS order_number_seq START 1`,
	}
	for _, stmt := range statements {
		if _, err := r.DB.Exec(stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func mapOrderError(err error) error {
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return ErrDuplicateOrderNumber
	}
	return err
}

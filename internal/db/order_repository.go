package db

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/prudhivi99/ecommerce-saga-go/internal/models"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(database *PostgresDB) *OrderRepository {
	return &OrderRepository{db: database.Conn}
}

// Create inserts an order with its items in one transaction. The caller
// fills item unit prices and totals; ids are assigned here.
func (r *OrderRepository) Create(order *models.Order) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	order.ID = uuid.NewString()

	orderQuery := `
		INSERT INTO orders (id, customer_id, total_cents, status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`
	err = tx.QueryRow(orderQuery, order.ID, order.CustomerID, order.TotalCents, order.Status).
		Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, product_id, quantity, unit_price_cents, total_cents)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for i := range order.Items {
		order.Items[i].ID = uuid.NewString()
		order.Items[i].OrderID = order.ID
		_, err = tx.Exec(itemQuery,
			order.Items[i].ID,
			order.ID,
			order.Items[i].ProductID,
			order.Items[i].Quantity,
			order.Items[i].UnitPriceCents,
			order.Items[i].TotalCents,
		)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetByID returns a single order with its items.
func (r *OrderRepository) GetByID(id string) (*models.Order, error) {
	orderQuery := `SELECT id, customer_id, total_cents, status, created_at, updated_at
	               FROM orders WHERE id = $1`

	var order models.Order
	err := r.db.QueryRow(orderQuery, id).
		Scan(&order.ID, &order.CustomerID, &order.TotalCents, &order.Status, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	itemsQuery := `SELECT id, order_id, product_id, quantity, unit_price_cents, total_cents
	               FROM order_items WHERE order_id = $1`

	rows, err := r.db.Query(itemsQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPriceCents, &item.TotalCents)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}

	return &order, rows.Err()
}

// List returns a page of orders, newest first, optionally filtered by
// customer and status. Items are not loaded for listings.
func (r *OrderRepository) List(page, limit int, customerID, status string) ([]models.Order, int, error) {
	where := " WHERE 1=1"
	args := []interface{}{}

	if customerID != "" {
		args = append(args, customerID)
		where += fmt.Sprintf(" AND customer_id = $%d", len(args))
	}
	if status != "" {
		args = append(args, status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var total int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM orders`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	args = append(args, limit, (page-1)*limit)
	query := fmt.Sprintf(
		`SELECT id, customer_id, total_cents, status, created_at, updated_at
		 FROM orders%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, len(args)-1, len(args),
	)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		err := rows.Scan(&o.ID, &o.CustomerID, &o.TotalCents, &o.Status, &o.CreatedAt, &o.UpdatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}

	return orders, total, rows.Err()
}

// UpdateStatus writes a new status. The value must belong to the closed
// status set; terminal-state transitions are not guarded here.
func (r *OrderRepository) UpdateStatus(id, status string) error {
	if !models.ValidStatus(status) {
		return models.ErrInvalidStatus
	}

	result, err := r.db.Exec(
		`UPDATE orders SET status = $1, updated_at = now() WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return models.ErrNotFound
	}

	return nil
}

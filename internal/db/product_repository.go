package db

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/prudhivi99/ecommerce-saga-go/internal/models"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(database *PostgresDB) *ProductRepository {
	return &ProductRepository{db: database.Conn}
}

// GetAll returns all products
func (r *ProductRepository) GetAll() ([]models.Product, error) {
	query := `SELECT id, name, price_cents, stock, description, created_at, updated_at
	          FROM products ORDER BY name`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		err := rows.Scan(&p.ID, &p.Name, &p.PriceCents, &p.Stock, &p.Description, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

// GetByID returns a single product
func (r *ProductRepository) GetByID(id string) (*models.Product, error) {
	query := `SELECT id, name, price_cents, stock, description, created_at, updated_at
	          FROM products WHERE id = $1`

	var p models.Product
	err := r.db.QueryRow(query, id).
		Scan(&p.ID, &p.Name, &p.PriceCents, &p.Stock, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return &p, nil
}

// Create inserts a new product
func (r *ProductRepository) Create(req models.CreateProductRequest) (*models.Product, error) {
	query := `
		INSERT INTO products (id, name, price_cents, stock, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, price_cents, stock, description, created_at, updated_at
	`

	var p models.Product
	err := r.db.QueryRow(query, uuid.NewString(), req.Name, req.PriceCents, req.Stock, req.Description).
		Scan(&p.ID, &p.Name, &p.PriceCents, &p.Stock, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return &p, nil
}

// Delete removes a product
func (r *ProductRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return models.ErrNotFound
	}

	return nil
}

// CheckStock reports whether the product has at least quantity units.
func (r *ProductRepository) CheckStock(productID string, quantity int) (bool, error) {
	product, err := r.GetByID(productID)
	if err != nil {
		return false, err
	}
	return product.Stock >= quantity, nil
}

// DebitStock decrements stock in a single conditional statement so a
// concurrent debit can never drive stock below zero. When the condition
// fails nothing is mutated and ErrInsufficientStock is returned.
func (r *ProductRepository) DebitStock(productID string, quantity int) error {
	query := `UPDATE products SET stock = stock - $1, updated_at = now()
	          WHERE id = $2 AND stock >= $1`

	result, err := r.db.Exec(query, quantity, productID)
	if err != nil {
		return fmt.Errorf("failed to debit stock: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		if _, err := r.GetByID(productID); err != nil {
			return err
		}
		return models.ErrInsufficientStock
	}

	return nil
}

// CreditStock returns quantity units to the product.
func (r *ProductRepository) CreditStock(productID string, quantity int) error {
	query := `UPDATE products SET stock = stock + $1, updated_at = now() WHERE id = $2`

	result, err := r.db.Exec(query, quantity, productID)
	if err != nil {
		return fmt.Errorf("failed to credit stock: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return models.ErrNotFound
	}

	return nil
}

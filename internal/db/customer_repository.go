package db

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/prudhivi99/ecommerce-saga-go/internal/models"
)

type CustomerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(database *PostgresDB) *CustomerRepository {
	return &CustomerRepository{db: database.Conn}
}

// Create inserts a new customer. Unique email/document violations are
// reported as ErrDuplicateCustomer.
func (r *CustomerRepository) Create(req models.CreateCustomerRequest) (*models.Customer, error) {
	query := `
		INSERT INTO customers (id, name, email, document)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, email, document, created_at, updated_at
	`

	var c models.Customer
	err := r.db.QueryRow(query, uuid.NewString(), req.Name, req.Email, req.Document).
		Scan(&c.ID, &c.Name, &c.Email, &c.Document, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, models.ErrDuplicateCustomer
		}
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	return &c, nil
}

// GetByID returns a single customer
func (r *CustomerRepository) GetByID(id string) (*models.Customer, error) {
	query := `SELECT id, name, email, document, created_at, updated_at
	          FROM customers WHERE id = $1`

	var c models.Customer
	err := r.db.QueryRow(query, id).
		Scan(&c.ID, &c.Name, &c.Email, &c.Document, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	return &c, nil
}

// GetAll returns all customers
func (r *CustomerRepository) GetAll() ([]models.Customer, error) {
	query := `SELECT id, name, email, document, created_at, updated_at
	          FROM customers ORDER BY name`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	var customers []models.Customer
	for rows.Next() {
		var c models.Customer
		err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Document, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}

	return customers, rows.Err()
}

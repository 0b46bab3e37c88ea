package models

import "time"

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	PriceCents  int64     `json:"price_cents"`
	Stock       int       `json:"stock"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateProductRequest struct {
	Name        string `json:"name" binding:"required"`
	PriceCents  int64  `json:"price_cents" binding:"required,gt=0"`
	Stock       int    `json:"stock" binding:"gte=0"`
	Description string `json:"description"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Description   string    `json:"description" db:"description"`
	Price         float64   `json:"price" db:"price"`
	Category      string    `json:"category" db:"category"`
	Size          string    `json:"size" db:"size"`
	Color         string    `json:"color" db:"color"`
	InStock       bool      `json:"in_stock" db:"in_stock"`
	ImageURL      string    `json:"image_url" db:"image_url"`
	ImagePublicID string    `json:"image_public_id" db:"image_public_id"`
	ImageProvider string    `json:"image_provider" db:"image_provider"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

func (Product) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS products (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name TEXT NOT NULL,
		description TEXT,
		price NUMERIC(12,2) NOT NULL CHECK (price >= 0),
		category TEXT,
		size TEXT,
		color TEXT,
		in_stock BOOLEAN DEFAULT TRUE,
		image_url TEXT,
		image_public_id TEXT,
		image_provider TEXT DEFAULT 'default',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);`
}

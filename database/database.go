package database

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/mentneo/sureshment001/models"

	_ "github.com/lib/pq"
)

type DB struct {
	*sql.DB
}

var Database *DB

// Connect establishes a connection to the PostgreSQL database
func Connect(databaseURL string) (*DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	Database = &DB{db}
	return Database, nil
}

// InitializeTables creates all tables if they don't exist
func (db *DB) InitializeTables() error {
	// Enable pgcrypto extension for gen_random_uuid
	if _, err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`); err != nil {
		return fmt.Errorf("failed to enable pgcrypto extension: %w", err)
	}

	// Table creation order respects foreign key dependencies
	tables := []interface{}{
		models.User{},
		models.Product{},
		models.Order{},
		models.OrderItem{},
		models.Video{},
	}

	for _, model := range tables {
		if tableModel, ok := model.(interface {
			TableName() string
			CreateTableSQL() string
		}); ok {
			tableName := tableModel.TableName()
			if _, err := db.Exec(tableModel.CreateTableSQL()); err != nil {
				return fmt.Errorf("failed to create table %s: %w", tableName, err)
			}
		}
	}

	if err := db.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("All tables created successfully")
	return nil
}

// runMigrations handles schema updates for existing tables
func (db *DB) runMigrations() error {
	migrations := []string{
		// Orders written before the provider columns existed
		`ALTER TABLE products ADD COLUMN IF NOT EXISTS image_public_id TEXT;`,
		`ALTER TABLE products ADD COLUMN IF NOT EXISTS image_provider TEXT DEFAULT 'default';`,

		// Role column predates some deployments
		`ALTER TABLE users ADD COLUMN IF NOT EXISTS role TEXT DEFAULT 'user';`,

		`CREATE INDEX IF NOT EXISTS idx_orders_user_id ON orders(user_id);`,
		`CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id);`,
		`CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			log.Printf("Migration warning (continuing): %v", err)
		}
	}

	return nil
}

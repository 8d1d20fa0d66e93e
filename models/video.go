package models

import (
	"time"

	"github.com/google/uuid"
)

type Video struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	URL       string    `json:"url" db:"url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (Video) TableName() string {
	return "videos"
}

func (Video) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS videos (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		title TEXT,
		url TEXT NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);`
}

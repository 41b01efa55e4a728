package repository

import (
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// NewRepository builds the PostgreSQL-backed repositories.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		Product: NewProductRepository(db),
		Blog:    NewBlogRepository(db),
		User:    NewUserRepository(db),
		Upload:  NewUploadRepository(db),
		Stats:   NewStatsRepository(db),
	}
}

// validID reports whether id can be used against a UUID primary key.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

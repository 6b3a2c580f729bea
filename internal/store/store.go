package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shop-api/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	pqForeignKeyViolation = "23503"
	pqUniqueViolation     = "23505"
)

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// mapWriteError translates Postgres constraint violations into the domain
// error taxonomy. Restrict-delete and duplicate-key violations both surface
// as conflicts.
func mapWriteError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqForeignKeyViolation, pqUniqueViolation:
			return fmt.Errorf("%s: %w", pqErr.Constraint, models.ErrConflict)
		}
	}
	return err
}

func notFound(entity string, id int64, err error) error {
	if err == sql.ErrNoRows {
		return fmt.Errorf("%s %d: %w", entity, id, models.ErrNotFound)
	}
	return err
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"phonestore/internal/domain"
	"phonestore/internal/errors"
)

type MySQLProfileRepository struct {
	db *sql.DB
}

// NewMySQLProfileRepository expects the read-only pool for lookups; Upsert
// needs the service pool.
func NewMySQLProfileRepository(db *sql.DB) *MySQLProfileRepository {
	return &MySQLProfileRepository{db: db}
}

func (r *MySQLProfileRepository) FindByID(ctx context.Context, id string) (*domain.Profile, error) {
	query := `
		SELECT id, email, isAdmin, createdAt, updatedAt
		FROM Profiles
		WHERE id = ?
	`

	var p domain.Profile
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Email, &p.IsAdmin, &p.CreatedAt, &p.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("profile with id %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying profile by id: %w", err)
	}

	return &p, nil
}

// Upsert creates the profile or overwrites its email and admin flag.
func (r *MySQLProfileRepository) Upsert(ctx context.Context, id, email string, isAdmin bool) error {
	query := `
		INSERT INTO Profiles (id, email, isAdmin)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE email = VALUES(email), isAdmin = VALUES(isAdmin)
	`

	if _, err := r.db.ExecContext(ctx, query, id, email, isAdmin); err != nil {
		return fmt.Errorf("upserting profile: %w", err)
	}
	return nil
}

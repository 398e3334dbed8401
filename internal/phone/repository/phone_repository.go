package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"phonestore/internal/domain"
	"phonestore/internal/errors"
	"phonestore/internal/infrastructure/mysql"
)

const phoneColumns = `
	id, macAddress, model, orderId, assignedTo, assignedExtension, status, createdAt, updatedAt`

type rowScanner interface {
	Scan(dest ...any) error
}

type MySQLPhoneRepository struct {
	db *sql.DB
}

func NewMySQLPhoneRepository(db *sql.DB) *MySQLPhoneRepository {
	return &MySQLPhoneRepository{db: db}
}

func (r *MySQLPhoneRepository) List(ctx context.Context) ([]domain.Phone, error) {
	query := `SELECT` + phoneColumns + ` FROM Phones ORDER BY createdAt DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying phones: %w", err)
	}
	return collectPhones(rows)
}

func (r *MySQLPhoneRepository) ListByOrder(ctx context.Context, orderID string) ([]domain.Phone, error) {
	query := `SELECT` + phoneColumns + ` FROM Phones WHERE orderId = ? ORDER BY createdAt DESC`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("querying phones by order: %w", err)
	}
	return collectPhones(rows)
}

// Insert stores a new phone. A MAC address that is already registered is
// reported as a conflict.
func (r *MySQLPhoneRepository) Insert(ctx context.Context, phone *domain.Phone) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	query := `
		INSERT INTO Phones (id, macAddress, model, orderId, assignedTo, assignedExtension, status, createdAt, updatedAt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		phone.ID, phone.MacAddress, phone.Model, phone.OrderID,
		phone.AssignedTo, phone.AssignedExtension, phone.Status, now, now,
	)
	if mysql.IsDuplicateKey(err) {
		return errors.NewConflictError("DUPLICATE_MAC", fmt.Sprintf("phone with mac address %s already exists", phone.MacAddress))
	}
	if err != nil {
		return fmt.Errorf("inserting phone: %w", err)
	}

	phone.CreatedAt = now
	phone.UpdatedAt = now
	return nil
}

func (r *MySQLPhoneRepository) FindByID(ctx context.Context, id string) (*domain.Phone, error) {
	query := `SELECT` + phoneColumns + ` FROM Phones WHERE id = ?`

	phone, err := scanPhone(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("phone with id %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying phone by id: %w", err)
	}
	return phone, nil
}

func (r *MySQLPhoneRepository) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id string) (*domain.Phone, error) {
	query := `SELECT` + phoneColumns + ` FROM Phones WHERE id = ? FOR UPDATE`

	phone, err := scanPhone(tx.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("phone with id %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("locking phone: %w", err)
	}
	return phone, nil
}

// Update writes the mutable fields of a phone previously locked in tx.
func (r *MySQLPhoneRepository) Update(ctx context.Context, tx *sql.Tx, phone *domain.Phone) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	query := `
		UPDATE Phones
		SET orderId = ?, assignedTo = ?, assignedExtension = ?, status = ?, updatedAt = ?
		WHERE id = ?
	`

	result, err := tx.ExecContext(ctx, query,
		phone.OrderID, phone.AssignedTo, phone.AssignedExtension, phone.Status, now, phone.ID,
	)
	if err != nil {
		return fmt.Errorf("updating phone: %w", err)
	}
	if err := expectOneRow(result, phone.ID); err != nil {
		return err
	}

	phone.UpdatedAt = now
	return nil
}

// Delete removes a phone. An order it was linked to is left as is.
func (r *MySQLPhoneRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM Phones WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting phone: %w", err)
	}
	return expectOneRow(result, id)
}

// ListByOrderForUpdate locks and returns the phones linked to the order.
func (r *MySQLPhoneRepository) ListByOrderForUpdate(ctx context.Context, tx *sql.Tx, orderID string) ([]domain.Phone, error) {
	query := `SELECT` + phoneColumns + ` FROM Phones WHERE orderId = ? ORDER BY createdAt DESC FOR UPDATE`

	rows, err := tx.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("locking phones of order: %w", err)
	}
	return collectPhones(rows)
}

func (r *MySQLPhoneRepository) CountByOrder(ctx context.Context, tx *sql.Tx, orderID string) (int, error) {
	var n int
	err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM Phones WHERE orderId = ?`, orderID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting phones of order: %w", err)
	}
	return n, nil
}

// ActivateByOrder marks every phone linked to the order active and returns
// how many were linked.
func (r *MySQLPhoneRepository) ActivateByOrder(ctx context.Context, tx *sql.Tx, orderID string) (int64, error) {
	query := `UPDATE Phones SET status = ? WHERE orderId = ?`

	result, err := tx.ExecContext(ctx, query, domain.PhoneStatusActive, orderID)
	if err != nil {
		return 0, fmt.Errorf("activating phones of order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("getting rows affected: %w", err)
	}
	return rowsAffected, nil
}

func collectPhones(rows *sql.Rows) ([]domain.Phone, error) {
	defer rows.Close()

	phones := []domain.Phone{}
	for rows.Next() {
		phone, err := scanPhone(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning phone: %w", err)
		}
		phones = append(phones, *phone)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating phones: %w", err)
	}
	return phones, nil
}

func scanPhone(row rowScanner) (*domain.Phone, error) {
	var phone domain.Phone
	err := row.Scan(
		&phone.ID, &phone.MacAddress, &phone.Model, &phone.OrderID,
		&phone.AssignedTo, &phone.AssignedExtension, &phone.Status,
		&phone.CreatedAt, &phone.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &phone, nil
}

func expectOneRow(result sql.Result, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("phone with id %s not found", id))
	}
	return nil
}

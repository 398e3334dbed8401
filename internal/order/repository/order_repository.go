package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"phonestore/internal/domain"
	"phonestore/internal/errors"
)

const orderColumns = `
	id, model, quantity, extensions, pricePerUnit, totalPrice, status,
	paymentSessionRef, paymentSubscriptionRef, customerEmail, createdAt, updatedAt`

type rowScanner interface {
	Scan(dest ...any) error
}

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

func (r *MySQLOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	extensions, err := json.Marshal(order.Extensions)
	if err != nil {
		return fmt.Errorf("encoding extensions: %w", err)
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	query := `
		INSERT INTO Orders (id, model, quantity, extensions, pricePerUnit, totalPrice, status, createdAt, updatedAt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		order.ID, order.Model, order.Quantity, extensions,
		order.PricePerUnit, order.TotalPrice, order.Status, now, now,
	)
	if err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}

	order.CreatedAt = now
	order.UpdatedAt = now
	return nil
}

func (r *MySQLOrderRepository) AttachSession(ctx context.Context, id string, sessionRef string) error {
	query := `UPDATE Orders SET paymentSessionRef = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, sessionRef, id)
	if err != nil {
		return fmt.Errorf("attaching payment session: %w", err)
	}
	return expectOneRow(result, id)
}

// MarkPaid records a completed checkout. Only pending or already paid orders
// are touched, so replays are harmless and a fulfilled order never moves back.
// It reports whether an eligible order matched.
func (r *MySQLOrderRepository) MarkPaid(ctx context.Context, id string, sessionRef, subscriptionRef, customerEmail *string) (bool, error) {
	query := `
		UPDATE Orders
		SET status = ?,
		    paymentSessionRef = COALESCE(?, paymentSessionRef),
		    paymentSubscriptionRef = COALESCE(?, paymentSubscriptionRef),
		    customerEmail = COALESCE(?, customerEmail)
		WHERE id = ? AND status IN (?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		domain.OrderStatusPaid, sessionRef, subscriptionRef, customerEmail,
		id, domain.OrderStatusPending, domain.OrderStatusPaid,
	)
	if err != nil {
		return false, fmt.Errorf("marking order paid: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// UpdateStatusBySubscriptionRef returns the number of matched orders.
func (r *MySQLOrderRepository) UpdateStatusBySubscriptionRef(ctx context.Context, subscriptionRef string, status domain.OrderStatus) (int64, error) {
	query := `UPDATE Orders SET status = ? WHERE paymentSubscriptionRef = ?`

	result, err := r.db.ExecContext(ctx, query, status, subscriptionRef)
	if err != nil {
		return 0, fmt.Errorf("updating orders by subscription: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("getting rows affected: %w", err)
	}
	return rowsAffected, nil
}

func (r *MySQLOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT` + orderColumns + ` FROM Orders WHERE id = ?`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order with id %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}
	return order, nil
}

func (r *MySQLOrderRepository) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id string) (*domain.Order, error) {
	query := `SELECT` + orderColumns + ` FROM Orders WHERE id = ? FOR UPDATE`

	order, err := scanOrder(tx.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order with id %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("locking order: %w", err)
	}
	return order, nil
}

func (r *MySQLOrderRepository) List(ctx context.Context) ([]domain.Order, error) {
	query := `SELECT` + orderColumns + ` FROM Orders ORDER BY createdAt DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating orders: %w", err)
	}
	return orders, nil
}

func (r *MySQLOrderRepository) UpdateStatus(ctx context.Context, tx *sql.Tx, id string, status domain.OrderStatus) error {
	query := `UPDATE Orders SET status = ? WHERE id = ?`

	result, err := tx.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("updating order status: %w", err)
	}
	return expectOneRow(result, id)
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		order      domain.Order
		extensions []byte
	)
	err := row.Scan(
		&order.ID, &order.Model, &order.Quantity, &extensions,
		&order.PricePerUnit, &order.TotalPrice, &order.Status,
		&order.PaymentSessionRef, &order.PaymentSubscriptionRef, &order.CustomerEmail,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(extensions) > 0 {
		if err := json.Unmarshal(extensions, &order.Extensions); err != nil {
			return nil, fmt.Errorf("decoding extensions of order %s: %w", order.ID, err)
		}
	}
	return &order, nil
}

func expectOneRow(result sql.Result, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("order with id %s not found", id))
	}
	return nil
}

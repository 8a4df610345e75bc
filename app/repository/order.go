package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vibast-solutions/ms-go-omise/app/entity"
)

var ErrOrderNotFound = errors.New("order not found")

// legacyChargeIDMetaKey is the meta key older plugin versions used before
// the transaction id column existed.
const legacyChargeIDMetaKey = "omise_charge_id"

type OrderRepository struct {
	db DBTX
}

func NewOrderRepository(db DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

// FindByID returns nil without error when the order does not exist.
func (r *OrderRepository) FindByID(ctx context.Context, orderID string) (*entity.Order, error) {
	query := `
		SELECT id, user_id, total, currency, status, transaction_id, paid_at, created_at, updated_at
		FROM orders
		WHERE id = ?
	`
	return scanOrder(r.db.QueryRowContext(ctx, query, orderID))
}

// SetTransactionID attaches the provider charge id to the order. The caller
// persists this before evaluating classification side effects so that a later
// sync can always locate the charge.
func (r *OrderRepository) SetTransactionID(ctx context.Context, orderID, transactionID string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE orders SET transaction_id = ?, updated_at = ? WHERE id = ?`,
		transactionID, time.Now().UTC(), orderID,
	)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID, status string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC(), orderID,
	)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// MarkPaid transitions the order to paid and stamps the completion time.
func (r *OrderRepository) MarkPaid(ctx context.Context, orderID string) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = ?, paid_at = ?, updated_at = ? WHERE id = ?`,
		entity.OrderStatusPaid, now, now, orderID,
	)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// AddNote appends an audit entry. Notes are append-only and never deleted.
func (r *OrderRepository) AddNote(ctx context.Context, orderID, note string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO order_notes (order_id, note, created_at) VALUES (?, ?, ?)`,
		orderID, note, time.Now().UTC(),
	)
	return err
}

// FindLegacyChargeID looks up the charge id under the old meta key. Empty
// string when absent.
func (r *OrderRepository) FindLegacyChargeID(ctx context.Context, orderID string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT meta_value FROM order_meta WHERE order_id = ? AND meta_key = ?`,
		orderID, legacyChargeIDMetaKey,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// FindLinkedChargeID resolves the oldest layout, a separate charge-items
// record linked to the order. Empty string when absent.
func (r *OrderRepository) FindLinkedChargeID(ctx context.Context, orderID string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT charge_id FROM charge_items WHERE order_id = ? ORDER BY id LIMIT 1`,
		orderID,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// ListPendingOlderThan returns pending orders with a transaction reference
// that have not been touched since before, for the background sync batch.
func (r *OrderRepository) ListPendingOlderThan(ctx context.Context, before time.Time, limit int32) ([]*entity.Order, error) {
	query := `
		SELECT id, user_id, total, currency, status, transaction_id, paid_at, created_at, updated_at
		FROM orders
		WHERE status = ? AND transaction_id IS NOT NULL AND updated_at < ?
		ORDER BY updated_at
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, entity.OrderStatusPending, before, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]*entity.Order, 0)
	for rows.Next() {
		order, err := scanOrderRow(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row *sql.Row) (*entity.Order, error) {
	order, err := scanOrderRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

func scanOrderRow(row rowScanner) (*entity.Order, error) {
	var order entity.Order
	var total string
	var transactionID sql.NullString
	var paidAt sql.NullTime

	err := row.Scan(
		&order.ID,
		&order.UserID,
		&total,
		&order.Currency,
		&order.Status,
		&transactionID,
		&paidAt,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	order.Total, err = decimal.NewFromString(total)
	if err != nil {
		return nil, err
	}
	order.TransactionID = stringPtrFromNull(transactionID)
	order.PaidAt = timePtrFromNull(paidAt)
	return &order, nil
}

func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

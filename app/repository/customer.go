package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/vibast-solutions/ms-go-omise/app/entity"
)

type CustomerRepository struct {
	db DBTX
}

func NewCustomerRepository(db DBTX) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// FindByUserAndMode returns nil without error when no profile is cached.
// Test and live provider accounts hold disjoint customer records, so mode is
// part of the key.
func (r *CustomerRepository) FindByUserAndMode(ctx context.Context, userID, mode string) (*entity.CustomerProfile, error) {
	query := `
		SELECT id, user_id, mode, customer_id, saved_card_id, created_at, updated_at
		FROM customer_profiles
		WHERE user_id = ? AND mode = ?
	`

	var profile entity.CustomerProfile
	var savedCardID sql.NullString
	err := r.db.QueryRowContext(ctx, query, userID, mode).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.Mode,
		&profile.CustomerID,
		&savedCardID,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	profile.SavedCardID = stringPtrFromNull(savedCardID)
	return &profile, nil
}

// Upsert writes the profile, replacing any existing row for the same
// (user, mode) pair. The unique key enforces the at-most-one invariant.
func (r *CustomerRepository) Upsert(ctx context.Context, profile *entity.CustomerProfile) error {
	now := time.Now().UTC()
	query := `
		INSERT INTO customer_profiles (user_id, mode, customer_id, saved_card_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			customer_id = VALUES(customer_id),
			saved_card_id = VALUES(saved_card_id),
			updated_at = VALUES(updated_at)
	`
	_, err := r.db.ExecContext(ctx, query,
		profile.UserID,
		profile.Mode,
		profile.CustomerID,
		nullableStringValue(profile.SavedCardID),
		now,
		now,
	)
	return err
}

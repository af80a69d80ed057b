package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/paydemo/paydemo/internal/model"
	"github.com/paydemo/paydemo/internal/store"
)

var _ store.PaymentStore = (*Repository)(nil)

// ErrInvalidPaymentStatus is returned when a stored row carries an unknown status.
var ErrInvalidPaymentStatus = errors.New("invalid payment status")

// CreatePayment inserts a settled payment record.
// Only card metadata is persisted; there is no column for a card number.
func (r *Repository) CreatePayment(ctx context.Context, p *model.Payment) error {
	query := `
		INSERT INTO payments (id, owner_id, amount_cents, status, description,
			card_last_four, card_holder, card_exp_month, card_exp_year, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	var (
		lastFour, holder *string
		month, year      *int
	)
	if p.Card != nil {
		lastFour = &p.Card.LastFour
		holder = &p.Card.HolderName
		month = &p.Card.ExpiryMonth
		year = &p.Card.ExpiryYear
	}

	_, err := r.pool.Exec(ctx, query,
		p.ID,
		p.OwnerID,
		int64(p.Amount),
		string(p.Status),
		p.Description,
		lastFour,
		holder,
		month,
		year,
		p.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrPaymentExists
		}
		return fmt.Errorf("failed to create payment: %w", err)
	}

	return nil
}

// ListPaymentsByOwner returns the owner's payments oldest first.
// ULIDs sort by creation time, so id breaks timestamp ties.
func (r *Repository) ListPaymentsByOwner(ctx context.Context, ownerID string) ([]*model.Payment, error) {
	query := `
		SELECT id, owner_id, amount_cents, status, description,
			card_last_four, card_holder, card_exp_month, card_exp_year, created_at
		FROM payments
		WHERE owner_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	payments := make([]*model.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}

	return payments, nil
}

func scanPayment(row pgx.Row) (*model.Payment, error) {
	var (
		p                model.Payment
		amount           int64
		status           string
		lastFour, holder *string
		month, year      *int
	)
	err := row.Scan(
		&p.ID,
		&p.OwnerID,
		&amount,
		&status,
		&p.Description,
		&lastFour,
		&holder,
		&month,
		&year,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan payment: %w", err)
	}

	p.Amount = model.Amount(amount)
	p.Status = model.PaymentStatus(status)
	if !p.Status.IsValid() {
		return nil, fmt.Errorf("payment %s: %w: %q", p.ID, ErrInvalidPaymentStatus, status)
	}
	if lastFour != nil {
		p.Card = &model.CardMetadata{LastFour: *lastFour}
		if holder != nil {
			p.Card.HolderName = *holder
		}
		if month != nil {
			p.Card.ExpiryMonth = *month
		}
		if year != nil {
			p.Card.ExpiryYear = *year
		}
	}
	p.CreatedAt = p.CreatedAt.UTC()

	return &p, nil
}

package model

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// PaymentStatus is the settlement state of a payment.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// ErrInvalidTransition is returned when a status change is not allowed.
var ErrInvalidTransition = errors.New("invalid payment status transition")

// IsValid reports whether s is a known status.
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentCompleted || s == PaymentFailed
}

// CanTransition reports whether moving from s to next is allowed.
// Only pending payments may settle, and only to completed or failed.
func (s PaymentStatus) CanTransition(next PaymentStatus) bool {
	return s == PaymentPending && next.IsTerminal()
}

// Amount is a monetary value in minor units (cents).
type Amount int64

// Amount errors.
var (
	ErrAmountNotPositive = errors.New("amount must be greater than zero")
	ErrAmountPrecision   = errors.New("amount must have at most two decimal places")
	ErrAmountTooLarge    = errors.New("amount exceeds the maximum allowed")
)

// maxAmount is the largest accepted amount in major units.
const maxAmount = 1e13

// ParseAmount converts a decimal amount (e.g. 42.50) into minor units.
// Cents are read from the shortest decimal form that round-trips to v,
// i.e. the literal a JSON client sent.
func ParseAmount(v float64) (Amount, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, ErrAmountNotPositive
	}
	if v > maxAmount {
		return 0, ErrAmountTooLarge
	}

	whole, frac, _ := strings.Cut(strconv.FormatFloat(v, 'f', -1, 64), ".")
	if len(frac) > 2 {
		return 0, ErrAmountPrecision
	}
	frac += strings.Repeat("0", 2-len(frac))

	cents, err := strconv.ParseInt(whole+frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %v: %w", v, err)
	}

	return Amount(cents), nil
}

// Float returns the amount in major units.
func (a Amount) Float() float64 {
	return float64(a) / 100
}

// CardMetadata is the card data kept with a payment.
// The full card number and verification code are never part of it.
type CardMetadata struct {
	LastFour    string `json:"last_four"`
	HolderName  string `json:"holder_name"`
	ExpiryMonth int    `json:"expiry_month"`
	ExpiryYear  int    `json:"expiry_year"`
}

// LastFour returns the last four digits of a card number, ignoring
// spaces and dashes. Shorter inputs return whatever digits exist.
func LastFour(number string) string {
	digits := make([]byte, 0, len(number))
	for i := 0; i < len(number); i++ {
		c := number[i]
		if c >= '0' && c <= '9' {
			digits = append(digits, c)
		}
	}
	if len(digits) <= 4 {
		return string(digits)
	}
	return string(digits[len(digits)-4:])
}

// Payment is a recorded payment. It is immutable once stored.
type Payment struct {
	ID          string        `json:"payment_id"`
	OwnerID     string        `json:"user_id"`
	Amount      Amount        `json:"amount"`
	Status      PaymentStatus `json:"status"`
	Description string        `json:"description,omitempty"`
	Card        *CardMetadata `json:"card,omitempty"`
	CreatedAt   time.Time     `json:"timestamp"`
}

// Settle moves a pending payment to a terminal status.
func (p *Payment) Settle(next PaymentStatus) error {
	if !p.Status.CanTransition(next) {
		return ErrInvalidTransition
	}
	p.Status = next
	return nil
}

// PaymentResponse is the client-facing view of a payment.
type PaymentResponse struct {
	PaymentID    string    `json:"payment_id"`
	CardLastFour string    `json:"card_last_four,omitempty"`
	Amount       float64   `json:"amount"`
	Status       string    `json:"status"`
	Description  string    `json:"description,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// ToResponse converts a Payment to its client-facing view.
func (p *Payment) ToResponse() PaymentResponse {
	resp := PaymentResponse{
		PaymentID:   p.ID,
		Amount:      p.Amount.Float(),
		Status:      string(p.Status),
		Description: p.Description,
		Timestamp:   p.CreatedAt,
	}
	if p.Card != nil {
		resp.CardLastFour = p.Card.LastFour
	}
	return resp
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"

	"github.com/paydemo/paydemo/internal/auth"
	"github.com/paydemo/paydemo/internal/metrics"
	"github.com/paydemo/paydemo/internal/model"
	"github.com/paydemo/paydemo/internal/store"
)

// Payment input limits.
const (
	MaxDescriptionLength = 500
	minCardDigits        = 12
	maxCardDigits        = 19
	maxExpiryYearsAhead  = 20
)

// CardInput is card data as submitted by a client. Only the last four
// digits of Number survive into the stored record; CVV is checked and dropped.
type CardInput struct {
	Number      string
	HolderName  string
	ExpiryMonth int
	ExpiryYear  int
	CVV         string
}

// CreatePaymentInput defines input for creating a payment.
type CreatePaymentInput struct {
	OwnerID     string
	Amount      float64
	Description string
	Card        *CardInput
}

// Processor settles a pending payment.
type Processor interface {
	Process(ctx context.Context, payment *model.Payment) (model.PaymentStatus, error)
}

// InstantApproval completes every payment without an external call.
type InstantApproval struct{}

// Process always approves.
func (InstantApproval) Process(ctx context.Context, payment *model.Payment) (model.PaymentStatus, error) {
	return model.PaymentCompleted, nil
}

// PaymentService records payments for authenticated users.
type PaymentService struct {
	payments  store.PaymentStore
	processor Processor
	now       store.Clock
	metrics   metrics.Recorder
}

// NewPaymentService creates a PaymentService. A nil processor approves
// everything and a nil clock uses time.Now.
func NewPaymentService(payments store.PaymentStore, processor Processor, now store.Clock, recorder metrics.Recorder) *PaymentService {
	if processor == nil {
		processor = InstantApproval{}
	}
	if now == nil {
		now = time.Now
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &PaymentService{
		payments:  payments,
		processor: processor,
		now:       now,
		metrics:   recorder,
	}
}

// Create validates the input, settles the payment and stores the result.
// A payment rejected by validation is never stored.
func (s *PaymentService) Create(ctx context.Context, input CreatePaymentInput) (*model.Payment, error) {
	amount, err := model.ParseAmount(input.Amount)
	if err != nil {
		s.metrics.IncPaymentRejected()
		return nil, fmt.Errorf("%w: %w", ErrInvalidAmount, err)
	}

	description := strings.TrimSpace(input.Description)
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		s.metrics.IncPaymentRejected()
		return nil, validationFailed(&auth.ValidationError{
			Field:   "description",
			Message: fmt.Sprintf("description must be at most %d characters", MaxDescriptionLength),
		})
	}

	now := s.now().UTC()

	var card *model.CardMetadata
	if input.Card != nil {
		card, err = validateCard(input.Card, now.Year())
		if err != nil {
			s.metrics.IncPaymentRejected()
			return nil, validationFailed(err)
		}
	}

	id, err := ulid.New(ulid.Timestamp(now), ulid.DefaultEntropy())
	if err != nil {
		return nil, fmt.Errorf("generate payment id: %w", err)
	}

	payment := &model.Payment{
		ID:          id.String(),
		OwnerID:     input.OwnerID,
		Amount:      amount,
		Status:      model.PaymentPending,
		Description: description,
		Card:        card,
		CreatedAt:   now,
	}

	status, err := s.processor.Process(ctx, payment)
	if err != nil {
		return nil, fmt.Errorf("process payment: %w", err)
	}
	if err := payment.Settle(status); err != nil {
		return nil, fmt.Errorf("settle payment as %q: %w", status, err)
	}

	if err := s.payments.CreatePayment(ctx, payment); err != nil {
		if errors.Is(err, store.ErrPaymentExists) {
			return nil, fmt.Errorf("payment id collision: %w", err)
		}
		return nil, fmt.Errorf("store payment: %w", err)
	}

	s.metrics.IncPaymentCreated(string(payment.Status))
	return payment, nil
}

// ListByOwner returns ownerID's payments in creation order.
func (s *PaymentService) ListByOwner(ctx context.Context, ownerID string) ([]*model.Payment, error) {
	payments, err := s.payments.ListPaymentsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}

// validateCard checks card input and reduces it to storable metadata.
func validateCard(card *CardInput, currentYear int) (*model.CardMetadata, error) {
	number := strings.NewReplacer(" ", "", "-", "").Replace(card.Number)
	if number == "" || !isDigits(number) {
		return nil, &auth.ValidationError{Field: "card_number", Message: "card number must contain only digits"}
	}
	if len(number) < minCardDigits || len(number) > maxCardDigits {
		return nil, &auth.ValidationError{Field: "card_number", Message: "card number must be 12-19 digits"}
	}

	if card.ExpiryMonth < 1 || card.ExpiryMonth > 12 {
		return nil, &auth.ValidationError{Field: "expiry_month", Message: "month must be between 1 and 12"}
	}
	if card.ExpiryYear < currentYear || card.ExpiryYear > currentYear+maxExpiryYearsAhead {
		return nil, &auth.ValidationError{
			Field:   "expiry_year",
			Message: fmt.Sprintf("year must be between %d and %d", currentYear, currentYear+maxExpiryYearsAhead),
		}
	}

	if l := len(card.CVV); l < 3 || l > 4 || !isDigits(card.CVV) {
		return nil, &auth.ValidationError{Field: "cvv", Message: "cvv must be 3 or 4 digits"}
	}

	holder := strings.TrimSpace(card.HolderName)
	if holder == "" {
		return nil, &auth.ValidationError{Field: "cardholder_name", Message: "cardholder name is required"}
	}

	return &model.CardMetadata{
		LastFour:    model.LastFour(number),
		HolderName:  holder,
		ExpiryMonth: card.ExpiryMonth,
		ExpiryYear:  card.ExpiryYear,
	}, nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

package store

import (
	"context"
	"sync"

	"github.com/paydemo/paydemo/internal/model"
)

// MemoryPayments is an in-memory PaymentStore.
// Payments are kept in insertion order, which is creation order.
type MemoryPayments struct {
	mu       sync.RWMutex
	payments []model.Payment
	byID     map[string]int
	byOwner  map[string][]int
}

// NewMemoryPayments creates an empty MemoryPayments.
func NewMemoryPayments() *MemoryPayments {
	return &MemoryPayments{
		byID:    make(map[string]int),
		byOwner: make(map[string][]int),
	}
}

// CreatePayment appends a copy of payment.
func (s *MemoryPayments) CreatePayment(ctx context.Context, payment *model.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[payment.ID]; exists {
		return ErrPaymentExists
	}

	stored := *payment
	if payment.Card != nil {
		card := *payment.Card
		stored.Card = &card
	}

	idx := len(s.payments)
	s.payments = append(s.payments, stored)
	s.byID[stored.ID] = idx
	s.byOwner[stored.OwnerID] = append(s.byOwner[stored.OwnerID], idx)
	return nil
}

// ListPaymentsByOwner returns copies of the owner's payments in creation order.
// An owner with no payments yields an empty, non-nil slice.
func (s *MemoryPayments) ListPaymentsByOwner(ctx context.Context, ownerID string) ([]*model.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	indexes := s.byOwner[ownerID]
	result := make([]*model.Payment, 0, len(indexes))
	for _, idx := range indexes {
		p := s.payments[idx]
		if p.Card != nil {
			card := *p.Card
			p.Card = &card
		}
		result = append(result, &p)
	}
	return result, nil
}

// Len returns the number of stored payments.
func (s *MemoryPayments) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.payments)
}

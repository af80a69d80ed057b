package dto

import (
	"github.com/paydemo/paydemo/internal/model"
	"github.com/paydemo/paydemo/internal/service"
)

// CreditCardRequest is card input. It is converted to service.CardInput
// and never echoed back.
type CreditCardRequest struct {
	CardNumber     string `json:"card_number"`
	ExpiryMonth    int    `json:"expiry_month"`
	ExpiryYear     int    `json:"expiry_year"`
	CVV            string `json:"cvv"`
	CardholderName string `json:"cardholder_name"`
}

// CreatePaymentRequest is the body of POST /payments.
type CreatePaymentRequest struct {
	CreditCard  *CreditCardRequest `json:"credit_card,omitempty"`
	Amount      *float64           `json:"amount"`
	Description string             `json:"description,omitempty"`
}

// ToInput converts the request into service input for ownerID.
// Callers must check Amount for nil first.
func (r *CreatePaymentRequest) ToInput(ownerID string) service.CreatePaymentInput {
	input := service.CreatePaymentInput{
		OwnerID:     ownerID,
		Amount:      *r.Amount,
		Description: r.Description,
	}
	if r.CreditCard != nil {
		input.Card = &service.CardInput{
			Number:      r.CreditCard.CardNumber,
			HolderName:  r.CreditCard.CardholderName,
			ExpiryMonth: r.CreditCard.ExpiryMonth,
			ExpiryYear:  r.CreditCard.ExpiryYear,
			CVV:         r.CreditCard.CVV,
		}
	}
	return input
}

// ToPaymentList converts payments to their client-facing views.
// The result is never nil so an empty list encodes as [].
func ToPaymentList(payments []*model.Payment) []model.PaymentResponse {
	out := make([]model.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, p.ToResponse())
	}
	return out
}

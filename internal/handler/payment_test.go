package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/paydemo/paydemo/internal/auth"
	"github.com/paydemo/paydemo/internal/metrics"
	"github.com/paydemo/paydemo/internal/model"
	"github.com/paydemo/paydemo/internal/service"
	"github.com/paydemo/paydemo/internal/store"
)

func newPaymentFixture() *PaymentHandler {
	svc := service.NewPaymentService(store.NewMemoryPayments(), nil, nil, metrics.NewNoop())
	return NewPaymentHandler(svc, discardLogger())
}

func withUser(req *http.Request, id string) *http.Request {
	user := &model.User{ID: id, Username: "alice01", Email: "alice@example.com"}
	return req.WithContext(auth.ContextWithUser(req.Context(), user, "token"))
}

func TestPaymentHandler_Create(t *testing.T) {
	t.Parallel()

	year := time.Now().Year() + 2
	cardBody := fmt.Sprintf(`{
		"amount": 42.50,
		"description": "Order 17",
		"credit_card": {
			"card_number": "4111 1111 1111 1111",
			"expiry_month": 12,
			"expiry_year": %d,
			"cvv": "123",
			"cardholder_name": "Alice Example"
		}
	}`, year)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
		wantField  string
	}{
		{name: "with card", body: cardBody, wantStatus: http.StatusCreated},
		{name: "without card", body: `{"amount": 10}`, wantStatus: http.StatusCreated},
		{name: "large amount", body: `{"amount": 1234567890.12}`, wantStatus: http.StatusCreated},
		{name: "missing amount", body: `{"description":"x"}`, wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_FAILED", wantField: "amount"},
		{name: "negative amount", body: `{"amount": -5}`, wantStatus: http.StatusBadRequest, wantCode: "INVALID_AMOUNT"},
		{name: "fractional cents", body: `{"amount": 1.005}`, wantStatus: http.StatusBadRequest, wantCode: "INVALID_AMOUNT"},
		{
			name:       "bad card number",
			body:       fmt.Sprintf(`{"amount": 1, "credit_card": {"card_number":"4111-abcd","expiry_month":1,"expiry_year":%d,"cvv":"123","cardholder_name":"A"}}`, year),
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
			wantField:  "card_number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := newPaymentFixture()

			rec := httptest.NewRecorder()
			h.Create(rec, withUser(jsonRequest(http.MethodPost, "/payments", tt.body), "user-1"))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d; body=%s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantCode != "" {
				body := decodeError(t, rec)
				if body.Code != tt.wantCode || body.Field != tt.wantField {
					t.Errorf("error = %+v, want code %s field %q", body, tt.wantCode, tt.wantField)
				}
				return
			}

			raw := rec.Body.String()
			if strings.Contains(raw, "4111 1111") || strings.Contains(raw, "4111111111111111") || strings.Contains(raw, `"cvv"`) {
				t.Errorf("response leaks card data: %s", raw)
			}

			var resp model.PaymentResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.PaymentID == "" || resp.Status != "completed" {
				t.Errorf("unexpected payment: %+v", resp)
			}
			if tt.name == "with card" {
				if resp.CardLastFour != "1111" || resp.Amount != 42.5 {
					t.Errorf("unexpected payment: %+v", resp)
				}
			} else if resp.CardLastFour != "" {
				t.Errorf("card_last_four = %q, want empty", resp.CardLastFour)
			}
		})
	}
}

func TestPaymentHandler_List(t *testing.T) {
	t.Parallel()
	h := newPaymentFixture()

	for _, body := range []string{`{"amount": 1}`, `{"amount": 2}`} {
		rec := httptest.NewRecorder()
		h.Create(rec, withUser(jsonRequest(http.MethodPost, "/payments", body), "user-1"))
		if rec.Code != http.StatusCreated {
			t.Fatalf("create: status %d", rec.Code)
		}
	}
	rec := httptest.NewRecorder()
	h.Create(rec, withUser(jsonRequest(http.MethodPost, "/payments", `{"amount": 3}`), "user-2"))

	rec = httptest.NewRecorder()
	h.List(rec, withUser(httptest.NewRequest(http.MethodGet, "/payments", nil), "user-1"))
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status %d", rec.Code)
	}

	var list []model.PaymentResponse
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 2 || list[0].Amount != 1 || list[1].Amount != 2 {
		t.Errorf("unexpected list: %+v", list)
	}
}

func TestPaymentHandler_ListEmpty(t *testing.T) {
	t.Parallel()
	h := newPaymentFixture()

	rec := httptest.NewRecorder()
	h.List(rec, withUser(httptest.NewRequest(http.MethodGet, "/payments", nil), "user-9"))

	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("body = %q, want []", rec.Body.String())
	}
}

func TestPaymentHandler_RequiresUser(t *testing.T) {
	t.Parallel()
	h := newPaymentFixture()

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/payments", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

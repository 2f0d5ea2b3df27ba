package response

import (
	"time"

	"gearbook/internal/usecase/commands"
	"gearbook/internal/usecase/queries"

	"github.com/google/uuid"
)

type InitiatePaymentResponse struct {
	PaymentID     uuid.UUID `json:"payment_id"`
	TransactionID string    `json:"transaction_id"`
	RedirectURL   string    `json:"redirect_url,omitempty"`
	Replayed      bool      `json:"replayed,omitempty"`
}

func FromInitiateResult(r *commands.InitiatePaymentResult) *InitiatePaymentResponse {
	return &InitiatePaymentResponse{
		PaymentID:     r.PaymentID,
		TransactionID: r.TransactionID,
		RedirectURL:   r.RedirectURL,
		Replayed:      r.IsReplayed,
	}
}

type PaymentResponse struct {
	ID           uuid.UUID  `json:"id"`
	BookingID    uuid.UUID  `json:"booking_id"`
	AmountCents  int64      `json:"amount_cents"`
	Status       string     `json:"status"`
	GatewayTxnID *string    `json:"gateway_txn_id,omitempty"`
	PaidAt       *time.Time `json:"paid_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func FromPaymentView(v *queries.PaymentView) *PaymentResponse {
	return &PaymentResponse{
		ID:           v.ID,
		BookingID:    v.BookingID,
		AmountCents:  v.AmountCents,
		Status:       v.Status,
		GatewayTxnID: v.GatewayTxnID,
		PaidAt:       v.PaidAt,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

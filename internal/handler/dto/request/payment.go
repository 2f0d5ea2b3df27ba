package request

import (
	"strconv"

	"github.com/google/uuid"
)

type InitiatePaymentRequest struct {
	BookingID    uuid.UUID `json:"booking_id" binding:"required"`
	PayerContact string    `json:"payer_contact" binding:"required"`
}

// PaymentCallbackRequest is the gateway's server-to-server notification.
// Every field except the signature participates in signature verification.
type PaymentCallbackRequest struct {
	TransactionID string `json:"transaction_id" binding:"required"`
	Status        string `json:"status" binding:"required"`
	Amount        *int64 `json:"amount,omitempty"`
	Reference     string `json:"reference,omitempty"`
	Signature     string `json:"signature" binding:"required"`
}

// SignedFields returns the callback payload as the flat string map the
// signature covers.
func (r PaymentCallbackRequest) SignedFields() map[string]string {
	fields := map[string]string{
		"transaction_id": r.TransactionID,
		"status":         r.Status,
	}
	if r.Amount != nil {
		fields["amount"] = strconv.FormatInt(*r.Amount, 10)
	}
	if r.Reference != "" {
		fields["reference"] = r.Reference
	}
	return fields
}

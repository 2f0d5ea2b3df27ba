package payment

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAlreadyPaid       = errors.New("booking is already paid")
	ErrInvalidAmount     = errors.New("payment amount must be positive")
	ErrTerminalState     = errors.New("payment is already in a terminal state")
	ErrMissingTxnID      = errors.New("gateway transaction id is empty")
	ErrAmountMismatch    = errors.New("payment amount does not match booking price")
	ErrInvalidTransition = errors.New("invalid payment transition")
)

type Payment struct {
	id           uuid.UUID
	bookingID    uuid.UUID
	payerID      uuid.UUID
	providerID   uuid.UUID
	amountCents  int64
	status       Status
	gatewayTxnID *string
	paidAt       *time.Time
	metadata     map[string]any
	createdAt    time.Time
	updatedAt    time.Time
}

func NewPayment(bookingID, payerID, providerID uuid.UUID, amountCents int64) (*Payment, error) {
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}

	return &Payment{
		id:          uuid.New(),
		bookingID:   bookingID,
		payerID:     payerID,
		providerID:  providerID,
		amountCents: amountCents,
		status:      StatusPending,
		metadata:    map[string]any{},
	}, nil
}

func ReconstructPayment(
	id, bookingID, payerID, providerID uuid.UUID,
	amountCents int64,
	status Status,
	gatewayTxnID *string,
	paidAt *time.Time,
	metadata map[string]any,
	createdAt, updatedAt time.Time,
) *Payment {
	if metadata == nil {
		metadata = map[string]any{}
	}
	return &Payment{
		id:           id,
		bookingID:    bookingID,
		payerID:      payerID,
		providerID:   providerID,
		amountCents:  amountCents,
		status:       status,
		gatewayTxnID: gatewayTxnID,
		paidAt:       paidAt,
		metadata:     metadata,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// AttachGatewayHandle records the transaction id returned by the gateway at
// initiation time, before any callback can reference it.
func (p *Payment) AttachGatewayHandle(txnID string, requestMeta map[string]any) error {
	if txnID == "" {
		return ErrMissingTxnID
	}
	p.gatewayTxnID = &txnID
	p.mergeMetadata(requestMeta)
	return nil
}

// ApplyGatewayResult moves the payment according to a verified gateway
// report. Pending (unrecognized) reports change nothing. A repeated report
// of the same terminal status is absorbed silently; conflicting terminal
// reports are rejected.
func (p *Payment) ApplyGatewayResult(next Status, payload map[string]any, now time.Time) (changed bool, err error) {
	if next == StatusPending {
		return false, nil
	}
	if p.status.IsTerminal() {
		if p.status == next {
			return false, nil
		}
		return false, ErrInvalidTransition
	}

	p.status = next
	p.mergeMetadata(payload)
	if next == StatusSuccess {
		t := now
		p.paidAt = &t
	}
	return true, nil
}

// Reinitiate reopens a failed or cancelled payment for another gateway
// attempt. A successful payment can never be reopened.
func (p *Payment) Reinitiate() error {
	switch p.status {
	case StatusSuccess:
		return ErrAlreadyPaid
	case StatusPending:
		return nil
	default:
		p.status = StatusPending
		p.gatewayTxnID = nil
		p.paidAt = nil
		return nil
	}
}

func (p *Payment) mergeMetadata(m map[string]any) {
	for k, v := range m {
		p.metadata[k] = v
	}
}

func (p *Payment) ID() uuid.UUID         { return p.id }
func (p *Payment) BookingID() uuid.UUID  { return p.bookingID }
func (p *Payment) PayerID() uuid.UUID    { return p.payerID }
func (p *Payment) ProviderID() uuid.UUID { return p.providerID }
func (p *Payment) AmountCents() int64    { return p.amountCents }
func (p *Payment) Status() Status        { return p.status }
func (p *Payment) GatewayTxnID() *string { return p.gatewayTxnID }
func (p *Payment) PaidAt() *time.Time    { return p.paidAt }
func (p *Payment) CreatedAt() time.Time  { return p.createdAt }
func (p *Payment) UpdatedAt() time.Time  { return p.updatedAt }

// Metadata returns a copy so callers cannot mutate the audit trail.
func (p *Payment) Metadata() map[string]any {
	out := make(map[string]any, len(p.metadata))
	for k, v := range p.metadata {
		out[k] = v
	}
	return out
}

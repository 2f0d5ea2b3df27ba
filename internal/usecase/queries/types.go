package queries

import (
	"time"

	"github.com/google/uuid"
)

// BookingView represents read-optimized booking data
type BookingView struct {
	ID           uuid.UUID `json:"id"`
	ResourceID   uuid.UUID `json:"resource_id"`
	ResourceName string    `json:"resource_name"`
	ProviderID   uuid.UUID `json:"provider_id"`
	RenterID     uuid.UUID `json:"renter_id"`
	BookedDate   time.Time `json:"booked_date"`
	StartMin     int       `json:"start_min"`
	EndMin       int       `json:"end_min"`
	Status       string    `json:"status"`
	TotalCents   int64     `json:"total_cents"`
	Lat          *float64  `json:"lat,omitempty"`
	Lng          *float64  `json:"lng,omitempty"`
	Note         *string   `json:"note,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type BookingListItem struct {
	ID           uuid.UUID `json:"id"`
	ResourceID   uuid.UUID `json:"resource_id"`
	ResourceName string    `json:"resource_name"`
	BookedDate   time.Time `json:"booked_date"`
	StartMin     int       `json:"start_min"`
	EndMin       int       `json:"end_min"`
	Status       string    `json:"status"`
	TotalCents   int64     `json:"total_cents"`
	CreatedAt    time.Time `json:"created_at"`
}

// PaymentView represents read-optimized payment data
type PaymentView struct {
	ID           uuid.UUID  `json:"id"`
	BookingID    uuid.UUID  `json:"booking_id"`
	PayerID      uuid.UUID  `json:"payer_id"`
	ProviderID   uuid.UUID  `json:"provider_id"`
	AmountCents  int64      `json:"amount_cents"`
	Status       string     `json:"status"`
	GatewayTxnID *string    `json:"gateway_txn_id,omitempty"`
	PaidAt       *time.Time `json:"paid_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ResourceView represents read-optimized resource data
type ResourceView struct {
	ID               uuid.UUID `json:"id"`
	ProviderID       uuid.UUID `json:"provider_id"`
	Name             string    `json:"name"`
	HourlyRateCents  *int64    `json:"hourly_rate_cents,omitempty"`
	DailyRateCents   *int64    `json:"daily_rate_cents,omitempty"`
	Available        bool      `json:"available"`
	ProviderApproved bool      `json:"provider_approved"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// IdempotencyKeyView represents read-optimized idempotency key data
type IdempotencyKeyView struct {
	Key              uuid.UUID  `json:"key"`
	UserID           uuid.UUID  `json:"user_id"`
	Endpoint         string     `json:"endpoint"`
	RequestHash      string     `json:"request_hash"`
	ResponseBodyHash *string    `json:"response_body_hash,omitempty"`
	Status           string     `json:"status"`
	ResultBookingID  *uuid.UUID `json:"result_booking_id,omitempty"`
	ExpiresAt        time.Time  `json:"expires_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

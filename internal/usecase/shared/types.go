package shared

import (
	"time"

	"github.com/google/uuid"
)

// Write-side snapshots prevent dependency on Read-side query types (CQRS separation)
type ResourceSnapshot struct {
	ID               uuid.UUID
	ProviderID       uuid.UUID
	Name             string
	HourlyRateCents  *int64
	DailyRateCents   *int64
	Available        bool
	ProviderApproved bool
}

type BookingSnapshot struct {
	ID         uuid.UUID
	ResourceID uuid.UUID
	ProviderID uuid.UUID
	RenterID   uuid.UUID
	Status     string
	PriceCents int64
}

type IdempotencyRecord struct {
	Key             uuid.UUID
	UserID          uuid.UUID
	Status          string
	RequestHash     string
	ResultBookingID *uuid.UUID
	ExpiresAt       time.Time
}

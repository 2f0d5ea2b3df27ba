package booking

import (
	"errors"
	"time"

	"gearbook/internal/domain/actor"

	"github.com/google/uuid"
)

var (
	ErrInvalidTransition = errors.New("invalid booking transition")
	ErrActorNotAllowed   = errors.New("actor not allowed to perform this transition")
	ErrNegativePrice     = errors.New("price cannot be negative")
)

type Actor struct {
	ID   uuid.UUID
	Role actor.Role
}

type Booking struct {
	id         uuid.UUID
	resourceID uuid.UUID
	providerID uuid.UUID
	renterID   uuid.UUID
	window     TimeWindow
	price      Money
	status     Status
	geo        *Geo
	note       Note
	createdAt  time.Time
	updatedAt  time.Time
}

func NewBooking(
	resourceID, providerID, renterID uuid.UUID,
	window TimeWindow,
	price Money,
	geo *Geo,
	note Note,
) (*Booking, error) {
	if price.Cents() < 0 {
		return nil, ErrNegativePrice
	}

	return &Booking{
		id:         uuid.New(),
		resourceID: resourceID,
		providerID: providerID,
		renterID:   renterID,
		window:     window,
		price:      price,
		status:     StatusPending,
		geo:        geo,
		note:       note,
	}, nil
}

func ReconstructBooking(
	id, resourceID, providerID, renterID uuid.UUID,
	window TimeWindow,
	price Money,
	status Status,
	geo *Geo,
	note Note,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:         id,
		resourceID: resourceID,
		providerID: providerID,
		renterID:   renterID,
		window:     window,
		price:      price,
		status:     status,
		geo:        geo,
		note:       note,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

// Confirm moves a pending booking to confirmed. Only the assigned provider
// or an admin may confirm directly; payment reconciliation uses
// ConfirmFromPayment instead.
func (b *Booking) Confirm(by Actor) error {
	if !b.isProviderOrAdmin(by) {
		return ErrActorNotAllowed
	}
	return b.transitionTo(StatusConfirmed)
}

// ConfirmFromPayment applies the reconciliation rule: confirm only if the
// booking is still pending, otherwise leave it untouched. The bool reports
// whether a transition happened.
func (b *Booking) ConfirmFromPayment() bool {
	if b.status != StatusPending {
		return false
	}
	b.status = StatusConfirmed
	return true
}

func (b *Booking) Cancel(by Actor) error {
	if by.ID != b.renterID && !b.isProviderOrAdmin(by) {
		return ErrActorNotAllowed
	}
	return b.transitionTo(StatusCancelled)
}

func (b *Booking) Complete(by Actor) error {
	if !b.isProviderOrAdmin(by) {
		return ErrActorNotAllowed
	}
	return b.transitionTo(StatusCompleted)
}

func (b *Booking) transitionTo(next Status) error {
	if !b.status.canTransitionTo(next) {
		return ErrInvalidTransition
	}
	b.status = next
	return nil
}

func (b *Booking) isProviderOrAdmin(a Actor) bool {
	return a.ID == b.providerID || a.Role == actor.RoleAdmin
}

// IsPayableBy reports whether the actor may initiate a payment: only the
// renter, and only while the booking is pending or confirmed.
func (b *Booking) IsPayableBy(payerID uuid.UUID) bool {
	return payerID == b.renterID && b.status.IsActive()
}

func (b *Booking) ID() uuid.UUID         { return b.id }
func (b *Booking) ResourceID() uuid.UUID { return b.resourceID }
func (b *Booking) ProviderID() uuid.UUID { return b.providerID }
func (b *Booking) RenterID() uuid.UUID   { return b.renterID }
func (b *Booking) Window() TimeWindow    { return b.window }
func (b *Booking) Price() Money          { return b.price }
func (b *Booking) Status() Status        { return b.status }
func (b *Booking) Geo() *Geo             { return b.geo }
func (b *Booking) Note() Note            { return b.note }
func (b *Booking) CreatedAt() time.Time  { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time  { return b.updatedAt }

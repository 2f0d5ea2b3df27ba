//go:build unit

package booking_test

import (
	"testing"

	"gearbook/internal/domain/actor"
	"gearbook/internal/domain/booking"
	"gearbook/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBooking(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		actual, err := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.Equal(t, booking.StatusPending, actual.Status())
		assert.Equal(t, int64(20000), actual.Price().Cents())
	})

	t.Run("negative price rejected", func(t *testing.T) {
		_, err := builder.NewBookingBuilder().
			With(func(b *builder.BookingBuilder) { b.PriceCents = -1 }).
			BuildDomain()
		assert.ErrorIs(t, err, booking.ErrNegativePrice)
	})
}

func TestBookingTransitions(t *testing.T) {
	b := builder.NewBookingBuilder()
	provider := booking.Actor{ID: b.ProviderID, Role: actor.RoleProvider}
	renter := booking.Actor{ID: b.RenterID, Role: actor.RoleRenter}
	admin := booking.Actor{ID: uuid.New(), Role: actor.RoleAdmin}
	stranger := booking.Actor{ID: uuid.New(), Role: actor.RoleRenter}

	build := func(status booking.Status) *booking.Booking {
		return b.With(func(bb *builder.BookingBuilder) { bb.Status = status }).BuildReconstructed()
	}

	t.Run("provider confirms pending booking", func(t *testing.T) {
		entity := build(booking.StatusPending)
		require.NoError(t, entity.Confirm(provider))
		assert.Equal(t, booking.StatusConfirmed, entity.Status())
	})

	t.Run("admin confirms pending booking", func(t *testing.T) {
		entity := build(booking.StatusPending)
		require.NoError(t, entity.Confirm(admin))
		assert.Equal(t, booking.StatusConfirmed, entity.Status())
	})

	t.Run("renter may not confirm", func(t *testing.T) {
		entity := build(booking.StatusPending)
		assert.ErrorIs(t, entity.Confirm(renter), booking.ErrActorNotAllowed)
		assert.Equal(t, booking.StatusPending, entity.Status())
	})

	t.Run("renter cancels own booking", func(t *testing.T) {
		entity := build(booking.StatusPending)
		require.NoError(t, entity.Cancel(renter))
		assert.Equal(t, booking.StatusCancelled, entity.Status())
	})

	t.Run("stranger may not cancel", func(t *testing.T) {
		entity := build(booking.StatusPending)
		assert.ErrorIs(t, entity.Cancel(stranger), booking.ErrActorNotAllowed)
	})

	t.Run("confirmed booking completes", func(t *testing.T) {
		entity := build(booking.StatusConfirmed)
		require.NoError(t, entity.Complete(provider))
		assert.Equal(t, booking.StatusCompleted, entity.Status())
	})

	t.Run("pending booking cannot complete", func(t *testing.T) {
		entity := build(booking.StatusPending)
		assert.ErrorIs(t, entity.Complete(provider), booking.ErrInvalidTransition)
	})

	t.Run("terminal states reject every transition", func(t *testing.T) {
		for _, status := range []booking.Status{booking.StatusCompleted, booking.StatusCancelled} {
			entity := build(status)
			assert.ErrorIs(t, entity.Confirm(provider), booking.ErrInvalidTransition, "confirm from %s", status)
			assert.ErrorIs(t, entity.Cancel(renter), booking.ErrInvalidTransition, "cancel from %s", status)
			assert.ErrorIs(t, entity.Complete(admin), booking.ErrInvalidTransition, "complete from %s", status)
		}
	})

	t.Run("actor check runs before transition check", func(t *testing.T) {
		entity := build(booking.StatusCompleted)
		assert.ErrorIs(t, entity.Confirm(stranger), booking.ErrActorNotAllowed)
	})
}

func TestConfirmFromPayment(t *testing.T) {
	b := builder.NewBookingBuilder()

	t.Run("pending booking confirms", func(t *testing.T) {
		entity := b.With(func(bb *builder.BookingBuilder) { bb.Status = booking.StatusPending }).BuildReconstructed()
		assert.True(t, entity.ConfirmFromPayment())
		assert.Equal(t, booking.StatusConfirmed, entity.Status())
	})

	t.Run("non-pending booking is left untouched", func(t *testing.T) {
		for _, status := range []booking.Status{booking.StatusConfirmed, booking.StatusCompleted, booking.StatusCancelled} {
			entity := b.With(func(bb *builder.BookingBuilder) { bb.Status = status }).BuildReconstructed()
			assert.False(t, entity.ConfirmFromPayment(), "status %s", status)
			assert.Equal(t, status, entity.Status())
		}
	})
}

func TestIsPayableBy(t *testing.T) {
	b := builder.NewBookingBuilder()

	t.Run("renter pays active booking", func(t *testing.T) {
		for _, status := range []booking.Status{booking.StatusPending, booking.StatusConfirmed} {
			entity := b.With(func(bb *builder.BookingBuilder) { bb.Status = status }).BuildReconstructed()
			assert.True(t, entity.IsPayableBy(b.RenterID), "status %s", status)
		}
	})

	t.Run("terminal booking is not payable", func(t *testing.T) {
		for _, status := range []booking.Status{booking.StatusCompleted, booking.StatusCancelled} {
			entity := b.With(func(bb *builder.BookingBuilder) { bb.Status = status }).BuildReconstructed()
			assert.False(t, entity.IsPayableBy(b.RenterID), "status %s", status)
		}
	})

	t.Run("only the renter may pay", func(t *testing.T) {
		entity := b.With(func(bb *builder.BookingBuilder) { bb.Status = booking.StatusPending }).BuildReconstructed()
		assert.False(t, entity.IsPayableBy(b.ProviderID))
		assert.False(t, entity.IsPayableBy(uuid.New()))
	})
}

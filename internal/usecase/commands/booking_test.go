//go:build unit

package commands_test

import (
	"testing"
	"time"

	"gearbook/internal/domain/actor"
	"gearbook/internal/domain/booking"
	reqdto "gearbook/internal/handler/dto/request"
	"gearbook/internal/pkg/clock"
	"gearbook/internal/usecase/commands"
	"gearbook/internal/usecase/shared"
	"gearbook/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookingFixture struct {
	store    *fakeStore
	clock    *clock.MockClock
	commands commands.BookingCommands
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()

	store := newFakeStore()
	mockClock := clock.NewMockClock(time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC))
	store.now = mockClock.Now

	return &bookingFixture{
		store:    store,
		clock:    mockClock,
		commands: commands.NewBookingCommands(&fakeUoW{store: store}, mockClock),
	}
}

func ptrInt64(v int64) *int64 { return &v }

// seedResource registers an available resource priced at 5000/h and 40000/day.
func seedResource(f *bookingFixture) *shared.ResourceSnapshot {
	res := &shared.ResourceSnapshot{
		ID:               uuid.New(),
		ProviderID:       uuid.New(),
		Name:             "Scissor Lift 12m",
		HourlyRateCents:  ptrInt64(5000),
		DailyRateCents:   ptrInt64(40000),
		Available:        true,
		ProviderApproved: true,
	}
	f.store.resources[res.ID] = res
	return res
}

func createRequest(resourceID uuid.UUID) reqdto.CreateBookingRequest {
	b := builder.NewBookingBuilder()
	b.ResourceID = resourceID
	return b.BuildCreateRequestDTO()
}

func TestCreateBooking(t *testing.T) {
	t.Run("creates a priced pending booking", func(t *testing.T) {
		f := newBookingFixture(t)
		res := seedResource(f)
		renterID := uuid.New()

		result, err := f.commands.CreateBooking(t.Context(), createRequest(res.ID), renterID, uuid.New())
		require.NoError(t, err)

		assert.False(t, result.IsReplayed)
		assert.Equal(t, int64(20000), result.TotalCents, "4h at 5000/h")

		stored := f.store.bookings[result.BookingID]
		require.NotNil(t, stored)
		assert.Equal(t, booking.StatusPending, stored.Status())
		assert.Equal(t, res.ProviderID, stored.ProviderID())
		assert.Equal(t, renterID, stored.RenterID())
		assert.Equal(t, []string{"booking_created"}, f.store.topics())
	})

	t.Run("daily rate applies to long rentals", func(t *testing.T) {
		f := newBookingFixture(t)
		res := seedResource(f)

		req := createRequest(res.ID)
		req.StartTime = "08:00"
		req.EndTime = "18:00" // 10h crosses the daily threshold

		result, err := f.commands.CreateBooking(t.Context(), req, uuid.New(), uuid.New())
		require.NoError(t, err)
		assert.Equal(t, int64(40000), result.TotalCents)
	})

	t.Run("replaying the same key returns the original booking", func(t *testing.T) {
		f := newBookingFixture(t)
		res := seedResource(f)
		renterID := uuid.New()
		key := uuid.New()
		req := createRequest(res.ID)

		first, err := f.commands.CreateBooking(t.Context(), req, renterID, key)
		require.NoError(t, err)

		second, err := f.commands.CreateBooking(t.Context(), req, renterID, key)
		require.NoError(t, err)

		assert.True(t, second.IsReplayed)
		assert.Equal(t, first.BookingID, second.BookingID)
		assert.Equal(t, first.TotalCents, second.TotalCents)
		assert.Len(t, f.store.bookings, 1, "replay must not create a second booking")
		assert.Len(t, f.store.notifications, 1)
	})

	t.Run("same key with a different request is rejected", func(t *testing.T) {
		f := newBookingFixture(t)
		res := seedResource(f)
		renterID := uuid.New()
		key := uuid.New()

		_, err := f.commands.CreateBooking(t.Context(), createRequest(res.ID), renterID, key)
		require.NoError(t, err)

		changed := createRequest(res.ID)
		changed.StartTime = "15:00"
		changed.EndTime = "17:00"

		_, err = f.commands.CreateBooking(t.Context(), changed, renterID, key)
		assert.ErrorIs(t, err, commands.ErrDuplicateRequest)
	})

	t.Run("same key for a different renter is independent", func(t *testing.T) {
		f := newBookingFixture(t)
		res := seedResource(f)
		key := uuid.New()

		_, err := f.commands.CreateBooking(t.Context(), createRequest(res.ID), uuid.New(), key)
		require.NoError(t, err)

		_, err = f.commands.CreateBooking(t.Context(), createRequest(res.ID), uuid.New(), key)
		require.NoError(t, err)
		assert.Len(t, f.store.bookings, 2)
	})

	t.Run("unknown resource", func(t *testing.T) {
		f := newBookingFixture(t)

		_, err := f.commands.CreateBooking(t.Context(), createRequest(uuid.New()), uuid.New(), uuid.New())
		assert.ErrorIs(t, err, commands.ErrResourceNotFound)
	})

	t.Run("unavailable resource", func(t *testing.T) {
		f := newBookingFixture(t)
		res := seedResource(f)
		res.Available = false

		_, err := f.commands.CreateBooking(t.Context(), createRequest(res.ID), uuid.New(), uuid.New())
		assert.ErrorIs(t, err, commands.ErrResourceUnavailable)
	})

	t.Run("unapproved provider", func(t *testing.T) {
		f := newBookingFixture(t)
		res := seedResource(f)
		res.ProviderApproved = false

		_, err := f.commands.CreateBooking(t.Context(), createRequest(res.ID), uuid.New(), uuid.New())
		assert.ErrorIs(t, err, commands.ErrProviderNotApproved)
		assert.Empty(t, f.store.bookings)
	})

	t.Run("expired idempotency key is reclaimed", func(t *testing.T) {
		f := newBookingFixture(t)
		res := seedResource(f)
		renterID := uuid.New()
		key := uuid.New()

		_, err := f.commands.CreateBooking(t.Context(), createRequest(res.ID), renterID, key)
		require.NoError(t, err)

		f.clock.Add(25 * time.Hour)

		changed := createRequest(res.ID)
		changed.StartTime = "15:00"
		changed.EndTime = "17:00"

		result, err := f.commands.CreateBooking(t.Context(), changed, renterID, key)
		require.NoError(t, err)
		assert.False(t, result.IsReplayed)
		assert.Len(t, f.store.bookings, 2, "expired key must allow a fresh booking")
	})

	t.Run("conflicting window", func(t *testing.T) {
		f := newBookingFixture(t)
		res := seedResource(f)
		f.store.windowUnavailable = true

		_, err := f.commands.CreateBooking(t.Context(), createRequest(res.ID), uuid.New(), uuid.New())
		assert.ErrorIs(t, err, commands.ErrBookingConflict)
		assert.Empty(t, f.store.bookings)
	})

	t.Run("no applicable rate", func(t *testing.T) {
		f := newBookingFixture(t)
		res := seedResource(f)
		res.HourlyRateCents = nil
		res.DailyRateCents = nil

		_, err := f.commands.CreateBooking(t.Context(), createRequest(res.ID), uuid.New(), uuid.New())
		assert.ErrorIs(t, err, commands.ErrPricingUnavailable)
	})

	t.Run("malformed time window", func(t *testing.T) {
		f := newBookingFixture(t)
		res := seedResource(f)

		req := createRequest(res.ID)
		req.StartTime = "25:00"

		_, err := f.commands.CreateBooking(t.Context(), req, uuid.New(), uuid.New())
		assert.ErrorIs(t, err, commands.ErrInvalidTimeWindow)
	})
}

func TestBookingTransitionCommands(t *testing.T) {
	seed := func(f *bookingFixture, status booking.Status) *booking.Booking {
		b := builder.NewBookingBuilder().
			With(func(bb *builder.BookingBuilder) { bb.Status = status }).
			BuildReconstructed()
		f.store.putBooking(b)
		return b
	}

	t.Run("provider confirms", func(t *testing.T) {
		f := newBookingFixture(t)
		b := seed(f, booking.StatusPending)

		err := f.commands.ConfirmBooking(t.Context(), commands.ActorFrom(b.ProviderID(), actor.RoleProvider), b.ID())
		require.NoError(t, err)

		assert.Equal(t, booking.StatusConfirmed, f.store.bookings[b.ID()].Status())
		assert.Equal(t, []string{"booking_confirmed"}, f.store.topics())
	})

	t.Run("renter cancels", func(t *testing.T) {
		f := newBookingFixture(t)
		b := seed(f, booking.StatusPending)

		err := f.commands.CancelBooking(t.Context(), commands.ActorFrom(b.RenterID(), actor.RoleRenter), b.ID())
		require.NoError(t, err)

		assert.Equal(t, booking.StatusCancelled, f.store.bookings[b.ID()].Status())
	})

	t.Run("provider completes a confirmed booking", func(t *testing.T) {
		f := newBookingFixture(t)
		b := seed(f, booking.StatusConfirmed)

		err := f.commands.CompleteBooking(t.Context(), commands.ActorFrom(b.ProviderID(), actor.RoleProvider), b.ID())
		require.NoError(t, err)

		assert.Equal(t, booking.StatusCompleted, f.store.bookings[b.ID()].Status())
	})

	t.Run("renter may not confirm", func(t *testing.T) {
		f := newBookingFixture(t)
		b := seed(f, booking.StatusPending)

		err := f.commands.ConfirmBooking(t.Context(), commands.ActorFrom(b.RenterID(), actor.RoleRenter), b.ID())
		assert.ErrorIs(t, err, commands.ErrBookingAccessDenied)
		assert.Equal(t, booking.StatusPending, f.store.bookings[b.ID()].Status())
	})

	t.Run("cancelled booking rejects further transitions", func(t *testing.T) {
		f := newBookingFixture(t)
		b := seed(f, booking.StatusCancelled)

		err := f.commands.ConfirmBooking(t.Context(), commands.ActorFrom(b.ProviderID(), actor.RoleProvider), b.ID())
		assert.ErrorIs(t, err, commands.ErrInvalidTransition)
		assert.Empty(t, f.store.notifications, "failed transition must not enqueue a notification")
	})

	t.Run("unknown booking", func(t *testing.T) {
		f := newBookingFixture(t)

		err := f.commands.ConfirmBooking(t.Context(), commands.ActorFrom(uuid.New(), actor.RoleAdmin), uuid.New())
		assert.ErrorIs(t, err, commands.ErrBookingNotFound)
	})

	t.Run("invalid role", func(t *testing.T) {
		f := newBookingFixture(t)
		b := seed(f, booking.StatusPending)

		err := f.commands.ConfirmBooking(t.Context(), booking.Actor{ID: b.ProviderID(), Role: actor.Role("ghost")}, b.ID())
		assert.ErrorIs(t, err, commands.ErrBookingAccessDenied)
	})
}

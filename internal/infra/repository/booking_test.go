//go:build unit

package repository

import (
	"testing"
	"time"

	"gearbook/internal/domain/booking"
	"gearbook/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBookingRow() bookingRow {
	return bookingRow{
		id:         uuid.New(),
		resourceID: uuid.New(),
		providerID: uuid.New(),
		renterID:   uuid.New(),
		bookedDate: pgtype.Date{Time: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), Valid: true},
		startMin:   10 * 60,
		endMin:     14 * 60,
		totalCents: 20000,
		status:     "pending",
		createdAt:  pgtype.Timestamptz{Time: time.Now(), Valid: true},
		updatedAt:  pgtype.Timestamptz{Time: time.Now(), Valid: true},
	}
}

func TestBookingRowToDomain(t *testing.T) {
	t.Run("maps stored coordinates", func(t *testing.T) {
		row := validBookingRow()
		row.lat = pgtype.Float8{Float64: 35.6812, Valid: true}
		row.lng = pgtype.Float8{Float64: 139.7671, Valid: true}

		b, err := row.toDomain()
		require.NoError(t, err)
		require.NotNil(t, b.Geo())
		assert.Equal(t, 35.6812, b.Geo().Lat())
		assert.Equal(t, booking.StatusPending, b.Status())
	})

	t.Run("missing coordinates yield no geo", func(t *testing.T) {
		b, err := validBookingRow().toDomain()
		require.NoError(t, err)
		assert.Nil(t, b.Geo())
	})

	t.Run("out-of-range coordinates surface a repository error", func(t *testing.T) {
		row := validBookingRow()
		row.lat = pgtype.Float8{Float64: 123.0, Valid: true}
		row.lng = pgtype.Float8{Float64: 139.7671, Valid: true}

		_, err := row.toDomain()
		require.Error(t, err, "corrupt coordinates must not be dropped silently")
		assert.True(t, infra.IsKind(err, infra.KindDBFailure))
	})

	t.Run("invalid stored window surfaces a repository error", func(t *testing.T) {
		row := validBookingRow()
		row.startMin = 2000

		_, err := row.toDomain()
		require.Error(t, err)
	})
}

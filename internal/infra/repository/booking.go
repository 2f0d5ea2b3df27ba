package repository

import (
	"context"

	"gearbook/internal/domain/booking"
	"gearbook/internal/infra"
	"gearbook/internal/infra/db"
	"gearbook/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type BookingRepository struct{}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{}
}

// spanEndExpr normalizes overnight windows so overlap comparisons work on a
// single minute axis: a window ending at or before its start extends past
// 1440.
const spanEndExpr = `(CASE WHEN end_min <= start_min THEN end_min + 1440 ELSE end_min END)`

// overlapQuery compares the candidate window [$3, $4) against three groups
// of rows on the candidate's minute axis. Same-date rows are compared
// directly. A previous-day row that wraps past midnight occupies
// [0, end_min) of the candidate's date. When the candidate itself wraps
// ($4 > 1440) it occupies [0, $4-1440) of the next date, so next-day rows
// starting before that point conflict too. Durations are capped at 24h, so
// no other dates can interact.
const overlapQuery = `
SELECT COUNT(1)
FROM bookings
WHERE resource_id = $1
  AND status IN ('pending', 'confirmed')
  AND ($5::uuid IS NULL OR id <> $5)
  AND (
        (booked_date = $2 AND start_min < $4 AND ` + spanEndExpr + ` > $3)
     OR (booked_date = $2::date - 1 AND end_min <= start_min AND end_min > $3)
     OR (booked_date = $2::date + 1 AND $4 > 1440 AND start_min < $4 - 1440)
  )`

// IsWindowAvailable reports whether no active booking overlaps the window,
// including overnight bookings that wrap onto an adjacent date. Windows are
// half-open [start, end): touching boundaries do not conflict.
func (r *BookingRepository) IsWindowAvailable(ctx context.Context, tx db.DBTX, resourceID uuid.UUID, window booking.TimeWindow, excludeBookingID *uuid.UUID) (bool, error) {
	candStart := window.StartMin()
	candEnd := window.StartMin() + window.DurationMinutes()

	var count int64
	err := tx.QueryRow(ctx, overlapQuery,
		resourceID,
		pgconv.DateToPgtype(window.Date()),
		candStart,
		candEnd,
		pgconv.UUIDPtrToPgtype(excludeBookingID),
	).Scan(&count)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check window availability", err)
	}

	return count == 0, nil
}

// LockResource serializes concurrent check-then-insert attempts on the same
// resource. Must run inside the transaction that performs the insert.
func (r *BookingRepository) LockResource(ctx context.Context, tx db.DBTX, resourceID uuid.UUID) error {
	var id uuid.UUID
	err := tx.QueryRow(ctx, `SELECT id FROM resources WHERE id = $1 FOR UPDATE`, resourceID).Scan(&id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return infra.WrapRepoErr("resource not found", err, infra.KindNotFound)
		}
		return infra.WrapRepoErr("failed to lock resource", err)
	}
	return nil
}

const insertBookingQuery = `
INSERT INTO bookings (
    id, resource_id, provider_id, renter_id,
    booked_date, start_min, end_min,
    total_cents, status, lat, lng, note,
    created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now(), now())
RETURNING id`

func (r *BookingRepository) Create(ctx context.Context, tx db.DBTX, b *booking.Booking) (uuid.UUID, error) {
	var lat, lng pgtype.Float8
	if g := b.Geo(); g != nil {
		lat = pgtype.Float8{Float64: g.Lat(), Valid: true}
		lng = pgtype.Float8{Float64: g.Lng(), Valid: true}
	}

	note := pgtype.Text{}
	if !b.Note().IsEmpty() {
		note = pgconv.StringToPgtype(b.Note().String())
	}

	var id uuid.UUID
	err := tx.QueryRow(ctx, insertBookingQuery,
		b.ID(), b.ResourceID(), b.ProviderID(), b.RenterID(),
		pgconv.DateToPgtype(b.Window().Date()), b.Window().StartMin(), b.Window().EndMin(),
		b.Price().Cents(), b.Status().String(), lat, lng, note,
	).Scan(&id)
	if err != nil {
		if kind, ok := kindFromPgErr(err); ok {
			return uuid.Nil, infra.WrapRepoErr("booking violates a constraint", err, kind)
		}
		return uuid.Nil, infra.WrapRepoErr("failed to create booking", err)
	}

	return id, nil
}

const selectBookingForUpdateQuery = `
SELECT id, resource_id, provider_id, renter_id,
       booked_date, start_min, end_min,
       total_cents, status, lat, lng, note,
       created_at, updated_at
FROM bookings
WHERE id = $1
FOR UPDATE`

// bookingRow carries raw column values so the mapping to a domain entity
// can be validated independently of the query.
type bookingRow struct {
	id, resourceID, providerID, renterID uuid.UUID
	bookedDate                           pgtype.Date
	startMin, endMin                     int
	totalCents                           int64
	status                               string
	lat, lng                             pgtype.Float8
	note                                 pgtype.Text
	createdAt, updatedAt                 pgtype.Timestamptz
}

func (row bookingRow) toDomain() (*booking.Booking, error) {
	window, err := booking.NewTimeWindow(pgconv.DateFromPgtype(row.bookedDate), row.startMin, row.endMin)
	if err != nil {
		return nil, infra.WrapRepoErr("stored booking window is invalid", err)
	}

	var geo *booking.Geo
	if row.lat.Valid && row.lng.Valid {
		g, gerr := booking.NewGeo(row.lat.Float64, row.lng.Float64)
		if gerr != nil {
			return nil, infra.WrapRepoErr("stored booking coordinates are invalid", gerr)
		}
		geo = &g
	}

	noteVal := booking.NewNote("")
	if row.note.Valid {
		noteVal = booking.NewNote(row.note.String)
	}

	return booking.ReconstructBooking(
		row.id, row.resourceID, row.providerID, row.renterID,
		window,
		booking.NewMoney(row.totalCents),
		booking.Status(row.status),
		geo,
		noteVal,
		pgconv.TimeFromPgtype(row.createdAt), pgconv.TimeFromPgtype(row.updatedAt),
	), nil
}

func (r *BookingRepository) FindByIDForUpdate(ctx context.Context, tx db.DBTX, id uuid.UUID) (*booking.Booking, error) {
	var row bookingRow
	err := tx.QueryRow(ctx, selectBookingForUpdateQuery, id).Scan(
		&row.id, &row.resourceID, &row.providerID, &row.renterID,
		&row.bookedDate, &row.startMin, &row.endMin,
		&row.totalCents, &row.status, &row.lat, &row.lng, &row.note,
		&row.createdAt, &row.updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}

	return row.toDomain()
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, tx db.DBTX, id uuid.UUID, status booking.Status) error {
	tag, err := tx.Exec(ctx, `UPDATE bookings SET status = $2, updated_at = now() WHERE id = $1`, id, status.String())
	if err != nil {
		return infra.WrapRepoErr("failed to update booking status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

package readstore

import (
	"context"
	"time"

	"gearbook/internal/infra"
	"gearbook/internal/infra/db"
	"gearbook/internal/pkg/pgconv"
	"gearbook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(db db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: db}
}

const bookingViewQuery = `
SELECT b.id, b.resource_id, r.name AS resource_name, b.provider_id, b.renter_id,
       b.booked_date, b.start_min, b.end_min, b.status, b.total_cents,
       b.lat, b.lng, b.note, b.created_at, b.updated_at
FROM bookings b
JOIN resources r ON r.id = b.resource_id
WHERE b.id = $1`

func (s *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	var (
		view       queries.BookingView
		bookedDate pgtype.Date
		lat, lng   pgtype.Float8
		note       pgtype.Text
		createdAt  pgtype.Timestamptz
		updatedAt  pgtype.Timestamptz
	)
	err := s.db.QueryRow(ctx, bookingViewQuery, id).Scan(
		&view.ID, &view.ResourceID, &view.ResourceName, &view.ProviderID, &view.RenterID,
		&bookedDate, &view.StartMin, &view.EndMin, &view.Status, &view.TotalCents,
		&lat, &lng, &note, &createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by ID", err)
	}

	view.BookedDate = pgconv.DateFromPgtype(bookedDate)
	view.Lat = pgconv.Float64PtrFromPgtype(lat)
	view.Lng = pgconv.Float64PtrFromPgtype(lng)
	view.Note = pgconv.StringPtrFromPgtype(note)
	view.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	view.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return &view, nil
}

const bookingListFirstPageQuery = `
SELECT b.id, b.resource_id, r.name AS resource_name,
       b.booked_date, b.start_min, b.end_min, b.status, b.total_cents, b.created_at
FROM bookings b
JOIN resources r ON r.id = b.resource_id
WHERE b.renter_id = $1
ORDER BY b.created_at DESC, b.id DESC
LIMIT $2`

func (s *BookingReadStore) FindByRenterFirstPage(ctx context.Context, renterID uuid.UUID, limit int32) ([]*queries.BookingListItem, error) {
	rows, err := s.db.Query(ctx, bookingListFirstPageQuery, renterID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings first page", err)
	}
	defer rows.Close()

	return scanBookingListItems(rows)
}

const bookingListKeysetQuery = `
SELECT b.id, b.resource_id, r.name AS resource_name,
       b.booked_date, b.start_min, b.end_min, b.status, b.total_cents, b.created_at
FROM bookings b
JOIN resources r ON r.id = b.resource_id
WHERE b.renter_id = $1
  AND (b.created_at, b.id) < ($2, $3)
ORDER BY b.created_at DESC, b.id DESC
LIMIT $4`

func (s *BookingReadStore) FindByRenterKeyset(ctx context.Context, renterID uuid.UUID, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*queries.BookingListItem, error) {
	rows, err := s.db.Query(ctx, bookingListKeysetQuery, renterID, pgconv.TimeToPgtype(lastCreatedAt), lastID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings keyset", err)
	}
	defer rows.Close()

	return scanBookingListItems(rows)
}

func scanBookingListItems(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]*queries.BookingListItem, error) {
	var result []*queries.BookingListItem
	for rows.Next() {
		var (
			item       queries.BookingListItem
			bookedDate pgtype.Date
			createdAt  pgtype.Timestamptz
		)
		if err := rows.Scan(
			&item.ID, &item.ResourceID, &item.ResourceName,
			&bookedDate, &item.StartMin, &item.EndMin, &item.Status, &item.TotalCents, &createdAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking list item", err)
		}
		item.BookedDate = pgconv.DateFromPgtype(bookedDate)
		item.CreatedAt = pgconv.TimeFromPgtype(createdAt)
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booking list", err)
	}
	return result, nil
}

package queries

import (
	"context"
	"time"

	"gearbook/internal/domain/actor"
	"gearbook/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrBookingViewAccessDenied = errs.New("booking is not visible to this user")

type BookingQueries interface {
	GetByID(ctx context.Context, actorID uuid.UUID, role actor.Role, id uuid.UUID) (*BookingView, error)
	ListByRenter(ctx context.Context, renterID uuid.UUID, after *Cursor, limit int) ([]*BookingListItem, *Cursor, error)
}

type BookingViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	FindByRenterFirstPage(ctx context.Context, renterID uuid.UUID, limit int32) ([]*BookingListItem, error)
	FindByRenterKeyset(ctx context.Context, renterID uuid.UUID, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*BookingListItem, error)
}

type bookingQueriesImpl struct {
	repo BookingViewRepo
}

func NewBookingQueries(repo BookingViewRepo) BookingQueries {
	return &bookingQueriesImpl{repo: repo}
}

// GetByID restricts visibility to the booking's renter, its provider, and
// admins.
func (q *bookingQueriesImpl) GetByID(ctx context.Context, actorID uuid.UUID, role actor.Role, id uuid.UUID) (*BookingView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role != actor.RoleAdmin && view.RenterID != actorID && view.ProviderID != actorID {
		return nil, ErrBookingViewAccessDenied
	}
	return view, nil
}

func (q *bookingQueriesImpl) ListByRenter(ctx context.Context, renterID uuid.UUID, after *Cursor, limit int) ([]*BookingListItem, *Cursor, error) {
	limit = ValidateLimit(limit)

	var (
		rows []*BookingListItem
		err  error
	)
	if after == nil || after.After == "" {
		rows, err = q.repo.FindByRenterFirstPage(ctx, renterID, int32(limit)+1)
	} else {
		lastCreatedAt, lastID, decodeErr := DecodeAfterCursor(after.After)
		if decodeErr != nil {
			return nil, nil, errs.Wrap(decodeErr, "invalid pagination cursor")
		}
		rows, err = q.repo.FindByRenterKeyset(ctx, renterID, lastCreatedAt, lastID, int32(limit)+1)
	}
	if err != nil {
		return nil, nil, err
	}

	// Fetch limit+1 rows to know whether a next page exists.
	var next *Cursor
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = &Cursor{After: EncodeAfterCursor(last.CreatedAt, last.ID)}
	}

	return rows, next, nil
}

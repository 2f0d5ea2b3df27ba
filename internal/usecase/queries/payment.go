package queries

import (
	"context"

	"gearbook/internal/domain/actor"
	"gearbook/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrPaymentViewAccessDenied = errs.New("payment is not visible to this user")

type PaymentQueries interface {
	GetByID(ctx context.Context, actorID uuid.UUID, role actor.Role, id uuid.UUID) (*PaymentView, error)
	GetByBookingID(ctx context.Context, actorID uuid.UUID, role actor.Role, bookingID uuid.UUID) (*PaymentView, error)
}

type PaymentViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PaymentView, error)
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*PaymentView, error)
}

type paymentQueriesImpl struct {
	repo PaymentViewRepo
}

func NewPaymentQueries(repo PaymentViewRepo) PaymentQueries {
	return &paymentQueriesImpl{repo: repo}
}

func (q *paymentQueriesImpl) GetByID(ctx context.Context, actorID uuid.UUID, role actor.Role, id uuid.UUID) (*PaymentView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := q.authorize(view, actorID, role); err != nil {
		return nil, err
	}
	return view, nil
}

func (q *paymentQueriesImpl) GetByBookingID(ctx context.Context, actorID uuid.UUID, role actor.Role, bookingID uuid.UUID) (*PaymentView, error) {
	view, err := q.repo.FindByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := q.authorize(view, actorID, role); err != nil {
		return nil, err
	}
	return view, nil
}

func (q *paymentQueriesImpl) authorize(view *PaymentView, actorID uuid.UUID, role actor.Role) error {
	if role != actor.RoleAdmin && view.PayerID != actorID && view.ProviderID != actorID {
		return ErrPaymentViewAccessDenied
	}
	return nil
}

package commands

import (
	"context"
	"encoding/json"

	"gearbook/internal/domain/payment"
	"gearbook/internal/infra"
	"gearbook/internal/pkg/clock"
	"gearbook/internal/pkg/errs"
	"gearbook/internal/usecase/shared"
)

// Reconciler ties a successful payment back to its booking inside the same
// transaction that recorded the payment result.
type Reconciler interface {
	OnPaymentSucceeded(ctx context.Context, tx shared.Tx, p *payment.Payment) error
}

type reconcilerImpl struct {
	clock clock.Clock
}

func NewReconciler(clock clock.Clock) Reconciler {
	return &reconcilerImpl{clock: clock}
}

// OnPaymentSucceeded confirms the booking if it is still pending. Any other
// booking state (already confirmed, cancelled, completed) leaves the booking
// untouched: the payment record alone carries the money trail.
func (r *reconcilerImpl) OnPaymentSucceeded(ctx context.Context, tx shared.Tx, p *payment.Payment) error {
	entity, err := tx.Bookings().FindByIDForUpdate(ctx, tx.DB(), p.BookingID())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrBookingNotFound
		}
		return errs.Mark(err, ErrDatabaseOperation)
	}

	if err := r.enqueue(ctx, tx, p, "payment_received"); err != nil {
		return errs.Mark(err, ErrDatabaseOperation)
	}

	if !entity.ConfirmFromPayment() {
		return nil
	}

	if err := tx.Bookings().UpdateStatus(ctx, tx.DB(), entity.ID(), entity.Status()); err != nil {
		return errs.Mark(err, ErrDatabaseOperation)
	}

	return r.enqueue(ctx, tx, p, "booking_confirmed")
}

func (r *reconcilerImpl) enqueue(ctx context.Context, tx shared.Tx, p *payment.Payment, event string) error {
	payload, err := json.Marshal(map[string]any{
		"booking_id": p.BookingID(),
		"payment_id": p.ID(),
		"type":       event,
	})
	if err != nil {
		return err
	}
	return tx.Notifications().CreateJob(ctx, tx.DB(), "email", event, payload, r.clock.Now())
}

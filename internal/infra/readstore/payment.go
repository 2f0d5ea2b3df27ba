package readstore

import (
	"context"

	"gearbook/internal/infra"
	"gearbook/internal/infra/db"
	"gearbook/internal/pkg/pgconv"
	"gearbook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type PaymentReadStore struct {
	db db.DBTX
}

func NewPaymentReadStore(db db.DBTX) *PaymentReadStore {
	return &PaymentReadStore{db: db}
}

const paymentViewColumns = `
SELECT id, booking_id, payer_id, provider_id,
       amount_cents, status, gateway_txn_id, paid_at,
       created_at, updated_at
FROM payments`

func (s *PaymentReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.PaymentView, error) {
	return s.findOne(ctx, paymentViewColumns+` WHERE id = $1`, id)
}

func (s *PaymentReadStore) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*queries.PaymentView, error) {
	return s.findOne(ctx, paymentViewColumns+` WHERE booking_id = $1`, bookingID)
}

func (s *PaymentReadStore) findOne(ctx context.Context, query string, arg any) (*queries.PaymentView, error) {
	var (
		view      queries.PaymentView
		txnID     pgtype.Text
		paidAt    pgtype.Timestamptz
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	err := s.db.QueryRow(ctx, query, arg).Scan(
		&view.ID, &view.BookingID, &view.PayerID, &view.ProviderID,
		&view.AmountCents, &view.Status, &txnID, &paidAt,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("payment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find payment", err)
	}

	view.GatewayTxnID = pgconv.StringPtrFromPgtype(txnID)
	view.PaidAt = pgconv.TimePtrFromPgtype(paidAt)
	view.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	view.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return &view, nil
}

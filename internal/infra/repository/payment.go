package repository

import (
	"context"
	"encoding/json"

	"gearbook/internal/domain/payment"
	"gearbook/internal/infra"
	"gearbook/internal/infra/db"
	"gearbook/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type PaymentRepository struct{}

func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{}
}

const insertPaymentQuery = `
INSERT INTO payments (
    id, booking_id, payer_id, provider_id,
    amount_cents, status, gateway_txn_id, paid_at, metadata,
    created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
RETURNING id`

// Create relies on the unique constraint over booking_id: a concurrent
// second initiation surfaces as KindDuplicateKey.
func (r *PaymentRepository) Create(ctx context.Context, tx db.DBTX, p *payment.Payment) (uuid.UUID, error) {
	meta, err := json.Marshal(p.Metadata())
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to encode payment metadata", err)
	}

	var id uuid.UUID
	err = tx.QueryRow(ctx, insertPaymentQuery,
		p.ID(), p.BookingID(), p.PayerID(), p.ProviderID(),
		p.AmountCents(), p.Status().String(),
		pgconv.StringPtrToPgtype(p.GatewayTxnID()),
		pgconv.TimePtrToPgtype(p.PaidAt()),
		meta,
	).Scan(&id)
	if err != nil {
		if kind, ok := kindFromPgErr(err); ok {
			return uuid.Nil, infra.WrapRepoErr("payment violates a constraint", err, kind)
		}
		return uuid.Nil, infra.WrapRepoErr("failed to create payment", err)
	}

	return id, nil
}

func (r *PaymentRepository) FindByIDForUpdate(ctx context.Context, tx db.DBTX, id uuid.UUID) (*payment.Payment, error) {
	row := tx.QueryRow(ctx,
		`SELECT id, booking_id, payer_id, provider_id,
		        amount_cents, status, gateway_txn_id, paid_at, metadata,
		        created_at, updated_at
		 FROM payments WHERE id = $1 FOR UPDATE`, id)
	return scanPayment(row, "payment not found")
}

func (r *PaymentRepository) FindByBookingIDForUpdate(ctx context.Context, tx db.DBTX, bookingID uuid.UUID) (*payment.Payment, error) {
	row := tx.QueryRow(ctx,
		`SELECT id, booking_id, payer_id, provider_id,
		        amount_cents, status, gateway_txn_id, paid_at, metadata,
		        created_at, updated_at
		 FROM payments WHERE booking_id = $1 FOR UPDATE`, bookingID)
	return scanPayment(row, "payment not found for booking")
}

func (r *PaymentRepository) FindByTxnIDForUpdate(ctx context.Context, tx db.DBTX, txnID string) (*payment.Payment, error) {
	row := tx.QueryRow(ctx,
		`SELECT id, booking_id, payer_id, provider_id,
		        amount_cents, status, gateway_txn_id, paid_at, metadata,
		        created_at, updated_at
		 FROM payments WHERE gateway_txn_id = $1 FOR UPDATE`, txnID)
	return scanPayment(row, "payment not found for transaction")
}

const updatePaymentQuery = `
UPDATE payments
SET status = $2, gateway_txn_id = $3, paid_at = $4, metadata = $5, updated_at = now()
WHERE id = $1`

func (r *PaymentRepository) Update(ctx context.Context, tx db.DBTX, p *payment.Payment) error {
	meta, err := json.Marshal(p.Metadata())
	if err != nil {
		return infra.WrapRepoErr("failed to encode payment metadata", err)
	}

	tag, err := tx.Exec(ctx, updatePaymentQuery,
		p.ID(), p.Status().String(),
		pgconv.StringPtrToPgtype(p.GatewayTxnID()),
		pgconv.TimePtrToPgtype(p.PaidAt()),
		meta,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update payment", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("payment not found", nil, infra.KindNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPayment(row rowScanner, notFoundMsg string) (*payment.Payment, error) {
	var (
		id, bookingID, payerID, providerID uuid.UUID
		amountCents                        int64
		status                             string
		txnID                              pgtype.Text
		paidAt                             pgtype.Timestamptz
		rawMeta                            []byte
		createdAt, updatedAt               pgtype.Timestamptz
	)
	err := row.Scan(
		&id, &bookingID, &payerID, &providerID,
		&amountCents, &status, &txnID, &paidAt, &rawMeta,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(notFoundMsg, err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find payment", err)
	}

	var meta map[string]any
	if len(rawMeta) > 0 {
		if err := json.Unmarshal(rawMeta, &meta); err != nil {
			return nil, infra.WrapRepoErr("stored payment metadata is invalid", err)
		}
	}

	return payment.ReconstructPayment(
		id, bookingID, payerID, providerID,
		amountCents,
		payment.Status(status),
		pgconv.StringPtrFromPgtype(txnID),
		pgconv.TimePtrFromPgtype(paidAt),
		meta,
		pgconv.TimeFromPgtype(createdAt), pgconv.TimeFromPgtype(updatedAt),
	), nil
}

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

type IdempotencyReadStore struct{}

func NewIdempotencyReadStore() *IdempotencyReadStore {
	return &IdempotencyReadStore{}
}

const idempotencyKeyQuery = `
SELECT key, user_id, endpoint, request_hash, response_body_hash, status,
       result_booking_id, expires_at, created_at, updated_at
FROM idempotency_keys
WHERE key = $1 AND user_id = $2`

// Get takes an explicit DBTX so the caller can read the key inside the same
// transaction that claimed it.
func (s *IdempotencyReadStore) Get(ctx context.Context, db db.DBTX, key, userID uuid.UUID) (*queries.IdempotencyKeyView, error) {
	var (
		view             queries.IdempotencyKeyView
		responseBodyHash pgtype.Text
		resultBookingID  pgtype.UUID
		expiresAt        pgtype.Timestamptz
		createdAt        pgtype.Timestamptz
		updatedAt        pgtype.Timestamptz
	)
	err := db.QueryRow(ctx, idempotencyKeyQuery, key, userID).Scan(
		&view.Key, &view.UserID, &view.Endpoint, &view.RequestHash, &responseBodyHash, &view.Status,
		&resultBookingID, &expiresAt, &createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("idempotency key not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find idempotency key", err)
	}

	view.ResponseBodyHash = pgconv.StringPtrFromPgtype(responseBodyHash)
	view.ResultBookingID = pgconv.UUIDPtrFromPgtype(resultBookingID)
	view.ExpiresAt = pgconv.TimeFromPgtype(expiresAt)
	view.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	view.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return &view, nil
}

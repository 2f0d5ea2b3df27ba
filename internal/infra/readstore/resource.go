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

type ResourceReadStore struct {
	db db.DBTX
}

func NewResourceReadStore(db db.DBTX) *ResourceReadStore {
	return &ResourceReadStore{db: db}
}

const resourceViewQuery = `
SELECT id, provider_id, name, hourly_rate_cents, daily_rate_cents, available,
       provider_approved, created_at, updated_at
FROM resources
WHERE id = $1`

func (s *ResourceReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ResourceView, error) {
	var (
		view       queries.ResourceView
		hourlyRate pgtype.Int8
		dailyRate  pgtype.Int8
		createdAt  pgtype.Timestamptz
		updatedAt  pgtype.Timestamptz
	)
	err := s.db.QueryRow(ctx, resourceViewQuery, id).Scan(
		&view.ID, &view.ProviderID, &view.Name, &hourlyRate, &dailyRate, &view.Available,
		&view.ProviderApproved, &createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("resource not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find resource by ID", err)
	}

	view.HourlyRateCents = pgconv.Int64PtrFromPgtype(hourlyRate)
	view.DailyRateCents = pgconv.Int64PtrFromPgtype(dailyRate)
	view.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	view.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return &view, nil
}

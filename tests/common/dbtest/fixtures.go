//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// CreateTestResource inserts a bookable resource and returns its id. Pass nil
// for a rate the resource does not offer; at least one must be non-nil.
func CreateTestResource(t *testing.T, db DBLike, providerID uuid.UUID, name string, hourlyCents, dailyCents *int64) uuid.UUID {
	t.Helper()

	resourceID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx,
		"INSERT INTO resources (id, provider_id, name, hourly_rate_cents, daily_rate_cents, available) VALUES ($1, $2, $3, $4, $5, true)",
		resourceID, providerID, name, hourlyCents, dailyCents)
	require.NoError(t, err)

	return resourceID
}

// CreateTestBooking inserts a booking row directly, bypassing the command
// layer, for tests that need a booking in a particular state.
func CreateTestBooking(t *testing.T, db DBLike, resourceID, providerID, renterID uuid.UUID, date time.Time, startMin, endMin int, totalCents int64, status string) uuid.UUID {
	t.Helper()

	bookingID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx,
		"INSERT INTO bookings (id, resource_id, provider_id, renter_id, booked_date, start_min, end_min, total_cents, status) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)",
		bookingID, resourceID, providerID, renterID, date, startMin, endMin, totalCents, status)
	require.NoError(t, err)

	return bookingID
}

// RevokeProviderApproval puts a resource's provider back into the
// unapproved onboarding state.
func RevokeProviderApproval(t *testing.T, db DBLike, resourceID uuid.UUID) {
	t.Helper()

	_, err := db.Exec(context.Background(),
		"UPDATE resources SET provider_approved = false, updated_at = now() WHERE id = $1", resourceID)
	require.NoError(t, err)
}

// MarkResourceUnavailable flips a resource off the catalog.
func MarkResourceUnavailable(t *testing.T, db DBLike, resourceID uuid.UUID) {
	t.Helper()

	_, err := db.Exec(context.Background(),
		"UPDATE resources SET available = false, updated_at = now() WHERE id = $1", resourceID)
	require.NoError(t, err)
}

// inserts basic reference data needed by tests
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	// A demo resource so smoke tests have something to book without
	// creating their own catalog entries.
	_, err := pool.Exec(ctx, `
		INSERT INTO resources (id, provider_id, name, hourly_rate_cents, daily_rate_cents, available)
		VALUES (gen_random_uuid(), gen_random_uuid(), 'Demo Excavator', 5000, 40000, true);
	`)
	if err != nil {
		return err
	}

	return nil
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables and reseeds reference data
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}

package shared

import (
	"context"
	"time"

	"gearbook/internal/domain/booking"
	"gearbook/internal/domain/payment"
	"gearbook/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Bookings() BookingRepository
	Payments() PaymentRepository
	Idempotency() IdempotencyRepository
	Notifications() NotificationRepository
	Reads() CommandReads
	DB() db.DBTX
}

type CommandReads interface {
	ResourceByID(ctx context.Context, id uuid.UUID) (*ResourceSnapshot, error)
	BookingByID(ctx context.Context, id uuid.UUID) (*BookingSnapshot, error)
	IdempotencyByKey(ctx context.Context, key, userID uuid.UUID) (*IdempotencyRecord, error)
}

type BookingRepository interface {
	// IsWindowAvailable runs the overlap query over active bookings only.
	// Callers that need check-then-insert atomicity must hold the resource
	// row lock for the duration of the transaction (LockResource).
	IsWindowAvailable(ctx context.Context, tx db.DBTX, resourceID uuid.UUID, window booking.TimeWindow, excludeBookingID *uuid.UUID) (bool, error)
	LockResource(ctx context.Context, tx db.DBTX, resourceID uuid.UUID) error
	Create(ctx context.Context, tx db.DBTX, b *booking.Booking) (uuid.UUID, error)
	FindByIDForUpdate(ctx context.Context, tx db.DBTX, id uuid.UUID) (*booking.Booking, error)
	UpdateStatus(ctx context.Context, tx db.DBTX, id uuid.UUID, status booking.Status) error
}

type PaymentRepository interface {
	Create(ctx context.Context, tx db.DBTX, p *payment.Payment) (uuid.UUID, error)
	FindByIDForUpdate(ctx context.Context, tx db.DBTX, id uuid.UUID) (*payment.Payment, error)
	FindByBookingIDForUpdate(ctx context.Context, tx db.DBTX, bookingID uuid.UUID) (*payment.Payment, error)
	FindByTxnIDForUpdate(ctx context.Context, tx db.DBTX, txnID string) (*payment.Payment, error)
	Update(ctx context.Context, tx db.DBTX, p *payment.Payment) error
}

type IdempotencyRepository interface {
	// TryInsert claims the key. claimed=false means another request holds
	// or held it; inspect the record via Reads().IdempotencyByKey.
	TryInsert(ctx context.Context, tx db.DBTX, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (claimed bool, err error)
	UpdateStatusCompleted(ctx context.Context, tx db.DBTX, key, userID uuid.UUID, resultHash string, bookingID uuid.UUID) error
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, tx db.DBTX, kind, topic string, payload []byte, runAt time.Time) error
}

package repository

import (
	"context"
	"time"

	"gearbook/internal/infra"
	"gearbook/internal/infra/db"
)

type NotificationRepository struct{}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

const insertNotificationJobQuery = `
INSERT INTO notification_jobs (kind, topic, payload, run_at, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, 'queued', now(), now())`

// CreateJob enqueues a delivery job for the external notification worker.
// Delivery happens outside the transaction; a failed delivery never rolls
// back the write that enqueued it.
func (r *NotificationRepository) CreateJob(ctx context.Context, tx db.DBTX, kind, topic string, payload []byte, runAt time.Time) error {
	_, err := tx.Exec(ctx, insertNotificationJobQuery, kind, topic, payload, runAt)
	if err != nil {
		return infra.WrapRepoErr("failed to enqueue notification job", err)
	}
	return nil
}

package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Notification is an in-app inbox entry written by the event subscriber.
type Notification struct {
	ID            uuid.UUID `db:"id"`
	UserID        uuid.UUID `db:"user_id"`
	AppointmentID uuid.UUID `db:"appointment_id"`
	Kind          string    `db:"kind"`
	Body          string    `db:"body"`
}

type NotificationRepository interface {
	Save(ctx context.Context, notification *Notification) error
}

type postgresNotificationRepository struct {
	db *sqlx.DB
}

func NewPostgresNotificationRepository(db *sqlx.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) Save(ctx context.Context, notification *Notification) error {
	query := `
		INSERT INTO notifications (user_id, appointment_id, kind, body)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query,
		notification.UserID, notification.AppointmentID, notification.Kind, notification.Body)
	return err
}

package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type DeviceTokenRepository interface {
	Register(ctx context.Context, userID uuid.UUID, token string) error
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]string, error)
}

type postgresDeviceTokenRepository struct {
	db *sqlx.DB
}

func NewPostgresDeviceTokenRepository(db *sqlx.DB) DeviceTokenRepository {
	return &postgresDeviceTokenRepository{db: db}
}

func (r *postgresDeviceTokenRepository) Register(ctx context.Context, userID uuid.UUID, token string) error {
	query := `
		INSERT INTO user_device_tokens (user_id, device_token)
		VALUES ($1, $2)
		ON CONFLICT (device_token) DO UPDATE SET user_id = $1
	`
	_, err := r.db.ExecContext(ctx, query, userID, token)
	return err
}

func (r *postgresDeviceTokenRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var tokens []string
	query := `SELECT device_token FROM user_device_tokens WHERE user_id = $1`
	err := r.db.SelectContext(ctx, &tokens, query, userID)
	return tokens, err
}

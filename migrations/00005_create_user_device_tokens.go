package migrations

import (
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigration(upCreateUserDeviceTokens, downCreateUserDeviceTokens)
}

func upCreateUserDeviceTokens(tx *sql.Tx) error {
	_, err := tx.Exec(`
	CREATE TABLE user_device_tokens (
	  user_id UUID NOT NULL REFERENCES users(id),
	  device_token TEXT UNIQUE NOT NULL,
	  created_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);
	`)
	return err
}

func downCreateUserDeviceTokens(tx *sql.Tx) error {
	_, err := tx.Exec(`DROP TABLE IF EXISTS user_device_tokens;`)
	return err
}

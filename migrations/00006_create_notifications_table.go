package migrations

import (
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigration(upCreateNotificationsTable, downCreateNotificationsTable)
}

func upCreateNotificationsTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
	CREATE TABLE notifications (
	  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	  user_id UUID NOT NULL REFERENCES users(id),
	  appointment_id UUID NOT NULL,
	  kind TEXT NOT NULL,
	  body TEXT NOT NULL,
	  created_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);
	`)
	return err
}

func downCreateNotificationsTable(tx *sql.Tx) error {
	_, err := tx.Exec(`DROP TABLE IF EXISTS notifications;`)
	return err
}

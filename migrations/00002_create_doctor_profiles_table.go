package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateDoctorProfilesTable, downCreateDoctorProfilesTable)
}

func upCreateDoctorProfilesTable(ctx context.Context, tx *sql.Tx) error {
	query := `
	CREATE TABLE doctor_profiles (
	  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	  user_id UUID UNIQUE NOT NULL REFERENCES users(id),
	  name TEXT NOT NULL DEFAULT '',
	  specialty TEXT NOT NULL DEFAULT '',
	  bio TEXT NOT NULL DEFAULT '',
	  experience INT NOT NULL DEFAULT 0,
	  photo_url TEXT
	);
	`

	_, err := tx.ExecContext(ctx, query)
	return err
}

func downCreateDoctorProfilesTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS doctor_profiles;`)
	return err
}

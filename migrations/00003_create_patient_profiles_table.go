package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreatePatientProfilesTable, downCreatePatientProfilesTable)
}

func upCreatePatientProfilesTable(ctx context.Context, tx *sql.Tx) error {
	query := `
	CREATE TABLE patient_profiles (
	  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	  user_id UUID UNIQUE NOT NULL REFERENCES users(id),
	  name TEXT NOT NULL DEFAULT '',
	  age INT,
	  medical_history TEXT NOT NULL DEFAULT ''
	);
	`

	_, err := tx.ExecContext(ctx, query)
	return err
}

func downCreatePatientProfilesTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS patient_profiles;`)
	return err
}

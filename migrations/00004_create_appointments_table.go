package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateAppointmentsTable, downCreateAppointmentsTable)
}

func upCreateAppointmentsTable(ctx context.Context, tx *sql.Tx) error {
	// date/time are canonical strings (YYYY-MM-DD / HH:MM), validated by the
	// service; the unique index is what makes double booking impossible even
	// when two requests pass the pre-insert lookup at the same time
	query := `
	CREATE TABLE appointments (
	  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	  doctor_id UUID NOT NULL REFERENCES users(id),
	  user_id UUID NOT NULL REFERENCES users(id),
	  date TEXT NOT NULL,
	  time TEXT NOT NULL,
	  reason TEXT NOT NULL,
	  status TEXT NOT NULL DEFAULT 'pending'
	    CHECK (status IN ('pending', 'accepted', 'declined', 'completed', 'cancelled')),
	  notes TEXT NOT NULL DEFAULT '',
	  created_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);

	CREATE UNIQUE INDEX appointments_slot_key ON appointments (doctor_id, date, time);
	`

	_, err := tx.ExecContext(ctx, query)
	return err
}

func downCreateAppointmentsTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS appointments;`)
	return err
}

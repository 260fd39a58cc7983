package repository_test

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"physioconnect/internal/model"
	repo "physioconnect/internal/repository"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestPostgresAppointmentRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	r := repo.NewPostgresAppointmentRepository(db)

	id := uuid.New()
	now := time.Now()
	appointment := &model.Appointment{
		DoctorID: uuid.New(),
		UserID:   uuid.New(),
		Date:     "2026-09-15",
		Time:     "10:30",
		Reason:   "Knee pain",
		Status:   model.StatusPending,
	}

	mock.ExpectQuery(`INSERT INTO appointments`).
		WithArgs(appointment.DoctorID, appointment.UserID, appointment.Date, appointment.Time,
			appointment.Reason, appointment.Status, appointment.Notes).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(id, now))

	created, err := r.Create(context.Background(), appointment)
	require.NoError(t, err)
	require.Equal(t, id, created.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresAppointmentRepository_FindBySlot_Empty(t *testing.T) {
	db, mock := newMockDB(t)
	r := repo.NewPostgresAppointmentRepository(db)

	doctorID := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, doctor_id, user_id, date, time, reason, status, notes, created_at FROM appointments WHERE doctor_id = $1 AND date = $2 AND time = $3`)).
		WithArgs(doctorID, "2026-09-15", "10:30").
		WillReturnError(sql.ErrNoRows)

	found, err := r.FindBySlot(context.Background(), doctorID, "2026-09-15", "10:30")
	require.NoError(t, err)
	require.Nil(t, found)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresAppointmentRepository_FindBySlot_Taken(t *testing.T) {
	db, mock := newMockDB(t)
	r := repo.NewPostgresAppointmentRepository(db)

	doctorID := uuid.New()
	existingID := uuid.New()
	rows := sqlmock.NewRows([]string{"id", "doctor_id", "user_id", "date", "time", "reason", "status", "notes", "created_at"}).
		AddRow(existingID, doctorID, uuid.New(), "2026-09-15", "10:30", "Checkup", "pending", "", time.Now())

	mock.ExpectQuery(`FROM appointments WHERE doctor_id = \$1 AND date = \$2 AND time = \$3`).
		WithArgs(doctorID, "2026-09-15", "10:30").
		WillReturnRows(rows)

	found, err := r.FindBySlot(context.Background(), doctorID, "2026-09-15", "10:30")
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Equal(t, existingID, found.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresAppointmentRepository_UpdateStatus(t *testing.T) {
	db, mock := newMockDB(t)
	r := repo.NewPostgresAppointmentRepository(db)

	id := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE appointments SET status = $1, notes = $2 WHERE id = $3`)).
		WithArgs(model.StatusAccepted, "[2026-09-01 09:00] see you then", id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := r.UpdateStatus(context.Background(), id, model.StatusAccepted, "[2026-09-01 09:00] see you then")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresAppointmentRepository_ListByDoctor_EmptyIsNotNil(t *testing.T) {
	db, mock := newMockDB(t)
	r := repo.NewPostgresAppointmentRepository(db)

	doctorID := uuid.New()
	mock.ExpectQuery(`FROM appointments a`).
		WithArgs(doctorID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "patient_name", "patient_email", "date", "time", "reason", "status", "notes"}))

	views, err := r.ListByDoctor(context.Background(), doctorID)
	require.NoError(t, err)
	require.NotNil(t, views)
	require.Empty(t, views)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresAppointmentRepository_ListByPatient(t *testing.T) {
	db, mock := newMockDB(t)
	r := repo.NewPostgresAppointmentRepository(db)

	userID := uuid.New()
	doctorID := uuid.New()
	rows := sqlmock.NewRows([]string{"id", "doctor_id", "doctor_name", "doctor_email", "date", "time", "reason", "status", "notes"}).
		AddRow(uuid.New(), doctorID, "Dr. Ana", "ana@clinic.com", "2026-09-15", "10:30", "Checkup", "accepted", "").
		AddRow(uuid.New(), doctorID, "Unknown", "Unknown", "2026-09-16", "11:00", "Follow-up", "pending", "")

	mock.ExpectQuery(`FROM appointments a`).
		WithArgs(userID).
		WillReturnRows(rows)

	views, err := r.ListByPatient(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, views, 2)
	require.Equal(t, "Dr. Ana", views[0].DoctorName)
	require.Equal(t, "Unknown", views[1].DoctorName)
	require.NoError(t, mock.ExpectationsWereMet())
}

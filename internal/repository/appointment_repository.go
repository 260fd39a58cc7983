package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"physioconnect/internal/model"
)

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *model.Appointment) (*model.Appointment, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	FindBySlot(ctx context.Context, doctorID uuid.UUID, date, timeOfDay string) (*model.Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.Status, notes string) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]model.DoctorAppointmentView, error)
	ListByPatient(ctx context.Context, userID uuid.UUID) ([]model.PatientAppointmentView, error)
}

type postgresAppointmentRepository struct {
	db *sqlx.DB
}

func NewPostgresAppointmentRepository(db *sqlx.DB) AppointmentRepository {
	return &postgresAppointmentRepository{db: db}
}

func (r *postgresAppointmentRepository) Create(ctx context.Context, appointment *model.Appointment) (*model.Appointment, error) {
	query := `
		INSERT INTO appointments (doctor_id, user_id, date, time, reason, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	row := r.db.QueryRowxContext(ctx, query,
		appointment.DoctorID, appointment.UserID, appointment.Date, appointment.Time,
		appointment.Reason, appointment.Status, appointment.Notes)
	err := row.Scan(&appointment.ID, &appointment.CreatedAt)

	if err != nil {
		return nil, err
	}

	return appointment, nil
}

func (r *postgresAppointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	var appointment model.Appointment
	query := `SELECT id, doctor_id, user_id, date, time, reason, status, notes, created_at FROM appointments WHERE id = $1`
	err := r.db.GetContext(ctx, &appointment, query, id)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return &appointment, nil
}

// FindBySlot looks up the (doctor, date, time) booking key.
func (r *postgresAppointmentRepository) FindBySlot(ctx context.Context, doctorID uuid.UUID, date, timeOfDay string) (*model.Appointment, error) {
	var appointment model.Appointment
	query := `SELECT id, doctor_id, user_id, date, time, reason, status, notes, created_at FROM appointments WHERE doctor_id = $1 AND date = $2 AND time = $3`
	err := r.db.GetContext(ctx, &appointment, query, doctorID, date, timeOfDay)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return &appointment, nil
}

func (r *postgresAppointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.Status, notes string) error {
	query := `UPDATE appointments SET status = $1, notes = $2 WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, status, notes, id)
	return err
}

func (r *postgresAppointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM appointments WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

// ListByDoctor enriches each appointment with the patient's display name
// (profile name when present, email otherwise) and email. The inner join on
// users drops appointments whose patient no longer resolves.
func (r *postgresAppointmentRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]model.DoctorAppointmentView, error) {
	var views []model.DoctorAppointmentView
	query := `
		SELECT a.id, a.user_id,
		       COALESCE(NULLIF(pp.name, ''), u.email) AS patient_name,
		       u.email AS patient_email,
		       a.date, a.time, a.reason, a.status, a.notes
		FROM appointments a
		JOIN users u ON a.user_id = u.id
		LEFT JOIN patient_profiles pp ON pp.user_id = a.user_id
		WHERE a.doctor_id = $1
		ORDER BY a.date, a.time
	`
	err := r.db.SelectContext(ctx, &views, query, doctorID)
	if err != nil {
		return nil, err
	}

	if views == nil {
		views = []model.DoctorAppointmentView{}
	}

	return views, nil
}

func (r *postgresAppointmentRepository) ListByPatient(ctx context.Context, userID uuid.UUID) ([]model.PatientAppointmentView, error) {
	var views []model.PatientAppointmentView
	query := `
		SELECT a.id, a.doctor_id,
		       COALESCE(NULLIF(dp.name, ''), 'Unknown') AS doctor_name,
		       COALESCE(u.email, 'Unknown') AS doctor_email,
		       a.date, a.time, a.reason, a.status, a.notes
		FROM appointments a
		LEFT JOIN users u ON a.doctor_id = u.id
		LEFT JOIN doctor_profiles dp ON dp.user_id = a.doctor_id
		WHERE a.user_id = $1
		ORDER BY a.date, a.time
	`
	err := r.db.SelectContext(ctx, &views, query, userID)
	if err != nil {
		return nil, err
	}

	if views == nil {
		views = []model.PatientAppointmentView{}
	}

	return views, nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"physioconnect/internal/model"
)

// DoctorProfileUpdate carries the fields of a partial profile update. Nil
// means "leave unchanged".
type DoctorProfileUpdate struct {
	Name       *string
	Specialty  *string
	Bio        *string
	Experience *int
	PhotoURL   *string
}

type DoctorProfileRepository interface {
	Create(ctx context.Context, profile *model.DoctorProfile) (uuid.UUID, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.DoctorProfile, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*model.DoctorProfile, error)
	Update(ctx context.Context, id uuid.UUID, update DoctorProfileUpdate) error
	ListWithEmail(ctx context.Context) ([]model.DoctorListing, error)
}

type PatientProfileRepository interface {
	Create(ctx context.Context, profile *model.PatientProfile) (uuid.UUID, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*model.PatientProfile, error)
}

type postgresDoctorProfileRepository struct {
	db *sqlx.DB
}

func NewPostgresDoctorProfileRepository(db *sqlx.DB) DoctorProfileRepository {
	return &postgresDoctorProfileRepository{db: db}
}

func (r *postgresDoctorProfileRepository) Create(ctx context.Context, profile *model.DoctorProfile) (uuid.UUID, error) {
	query := `
		INSERT INTO doctor_profiles (user_id, name, specialty, bio, experience)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	var newID uuid.UUID
	err := r.db.QueryRowxContext(ctx, query, profile.UserID, profile.Name, profile.Specialty, profile.Bio, profile.Experience).Scan(&newID)
	if err != nil {
		return uuid.Nil, err
	}

	return newID, nil
}

func (r *postgresDoctorProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.DoctorProfile, error) {
	var profile model.DoctorProfile
	query := `SELECT id, user_id, name, specialty, bio, experience, photo_url FROM doctor_profiles WHERE id = $1`
	err := r.db.GetContext(ctx, &profile, query, id)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return &profile, nil
}

func (r *postgresDoctorProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*model.DoctorProfile, error) {
	var profile model.DoctorProfile
	query := `SELECT id, user_id, name, specialty, bio, experience, photo_url FROM doctor_profiles WHERE user_id = $1`
	err := r.db.GetContext(ctx, &profile, query, userID)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return &profile, nil
}

func (r *postgresDoctorProfileRepository) Update(ctx context.Context, id uuid.UUID, update DoctorProfileUpdate) error {
	var setClauses []string
	var args []interface{}
	argId := 1

	if update.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", argId))
		args = append(args, *update.Name)
		argId++
	}
	if update.Specialty != nil {
		setClauses = append(setClauses, fmt.Sprintf("specialty = $%d", argId))
		args = append(args, *update.Specialty)
		argId++
	}
	if update.Bio != nil {
		setClauses = append(setClauses, fmt.Sprintf("bio = $%d", argId))
		args = append(args, *update.Bio)
		argId++
	}
	if update.Experience != nil {
		setClauses = append(setClauses, fmt.Sprintf("experience = $%d", argId))
		args = append(args, *update.Experience)
		argId++
	}
	if update.PhotoURL != nil {
		setClauses = append(setClauses, fmt.Sprintf("photo_url = $%d", argId))
		args = append(args, *update.PhotoURL)
		argId++
	}

	if len(setClauses) == 0 {
		return nil
	}

	query := fmt.Sprintf("UPDATE doctor_profiles SET %s WHERE id = $%d", strings.Join(setClauses, ", "), argId)
	args = append(args, id)

	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// ListWithEmail joins profiles against their user row; profiles whose user is
// gone or no longer a doctor fall out of the join.
func (r *postgresDoctorProfileRepository) ListWithEmail(ctx context.Context) ([]model.DoctorListing, error) {
	var listings []model.DoctorListing
	query := `
		SELECT dp.user_id, dp.name, dp.specialty, dp.bio, dp.experience, dp.photo_url, u.email
		FROM doctor_profiles dp
		JOIN users u ON dp.user_id = u.id AND u.role = 'doctor'
		ORDER BY dp.name
	`
	err := r.db.SelectContext(ctx, &listings, query)
	if err != nil {
		return nil, err
	}

	if listings == nil {
		listings = []model.DoctorListing{}
	}

	return listings, nil
}

type postgresPatientProfileRepository struct {
	db *sqlx.DB
}

func NewPostgresPatientProfileRepository(db *sqlx.DB) PatientProfileRepository {
	return &postgresPatientProfileRepository{db: db}
}

func (r *postgresPatientProfileRepository) Create(ctx context.Context, profile *model.PatientProfile) (uuid.UUID, error) {
	query := `
		INSERT INTO patient_profiles (user_id, name, age, medical_history)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	var newID uuid.UUID
	err := r.db.QueryRowxContext(ctx, query, profile.UserID, profile.Name, profile.Age, profile.MedicalHistory).Scan(&newID)
	if err != nil {
		return uuid.Nil, err
	}

	return newID, nil
}

func (r *postgresPatientProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*model.PatientProfile, error) {
	var profile model.PatientProfile
	query := `SELECT id, user_id, name, age, medical_history FROM patient_profiles WHERE user_id = $1`
	err := r.db.GetContext(ctx, &profile, query, userID)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return &profile, nil
}

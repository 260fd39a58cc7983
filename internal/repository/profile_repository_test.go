package repository_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"physioconnect/internal/model"
	repo "physioconnect/internal/repository"
)

func TestPostgresDoctorProfileRepository_Update_Partial(t *testing.T) {
	db, mock := newMockDB(t)
	r := repo.NewPostgresDoctorProfileRepository(db)

	id := uuid.New()
	bio := "Sports physiotherapy"
	experience := 7

	// only the provided fields land in the SET clause
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE doctor_profiles SET bio = $1, experience = $2 WHERE id = $3`)).
		WithArgs(bio, experience, id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := r.Update(context.Background(), id, repo.DoctorProfileUpdate{Bio: &bio, Experience: &experience})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDoctorProfileRepository_Update_NoFields(t *testing.T) {
	db, mock := newMockDB(t)
	r := repo.NewPostgresDoctorProfileRepository(db)

	// nothing to update means no round trip at all
	err := r.Update(context.Background(), uuid.New(), repo.DoctorProfileUpdate{})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDoctorProfileRepository_ListWithEmail(t *testing.T) {
	db, mock := newMockDB(t)
	r := repo.NewPostgresDoctorProfileRepository(db)

	userID := uuid.New()
	rows := sqlmock.NewRows([]string{"user_id", "name", "specialty", "bio", "experience", "photo_url", "email"}).
		AddRow(userID, "Dr. Ana", "Orthopedics", "Bio", 7, nil, "ana@clinic.com")

	mock.ExpectQuery(`FROM doctor_profiles dp`).WillReturnRows(rows)

	listings, err := r.ListWithEmail(context.Background())
	require.NoError(t, err)
	require.Len(t, listings, 1)
	require.Equal(t, userID, listings[0].UserID)
	require.Equal(t, "ana@clinic.com", listings[0].Email)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPatientProfileRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	r := repo.NewPostgresPatientProfileRepository(db)

	id := uuid.New()
	age := 34
	profile := &model.PatientProfile{
		UserID:         uuid.New(),
		Name:           "Budi",
		Age:            &age,
		MedicalHistory: "None",
	}

	mock.ExpectQuery(`INSERT INTO patient_profiles`).
		WithArgs(profile.UserID, profile.Name, profile.Age, profile.MedicalHistory).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id))

	newID, err := r.Create(context.Background(), profile)
	require.NoError(t, err)
	require.Equal(t, id, newID)
	require.NoError(t, mock.ExpectationsWereMet())
}

package model

import "github.com/google/uuid"

type DoctorProfile struct {
	ID         uuid.UUID `db:"id"`
	UserID     uuid.UUID `db:"user_id"`
	Name       string    `db:"name"`
	Specialty  string    `db:"specialty"`
	Bio        string    `db:"bio"`
	Experience int       `db:"experience"`
	PhotoURL   *string   `db:"photo_url"`
}

type PatientProfile struct {
	ID             uuid.UUID `db:"id"`
	UserID         uuid.UUID `db:"user_id"`
	Name           string    `db:"name"`
	Age            *int      `db:"age"`
	MedicalHistory string    `db:"medical_history"`
}

// DoctorListing is a doctor profile joined with its user record, as shown on
// the public find-a-doctor page.
type DoctorListing struct {
	UserID     uuid.UUID `db:"user_id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Specialty  string    `db:"specialty" json:"specialty"`
	Bio        string    `db:"bio" json:"bio"`
	Experience int       `db:"experience" json:"experience"`
	PhotoURL   *string   `db:"photo_url" json:"photo_url,omitempty"`
	Email      string    `db:"email" json:"email"`
}

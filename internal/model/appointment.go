package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is the closed set of appointment states. Transitions between states
// are not constrained beyond membership in this set.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusDeclined  Status = "declined"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusAccepted, StatusDeclined, StatusCompleted, StatusCancelled:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// Appointment keeps date and time as canonical strings (2006-01-02 / 15:04).
// They are validated on the way in and the pair forms the booking slot key
// together with the doctor id.
type Appointment struct {
	ID        uuid.UUID `db:"id"`
	DoctorID  uuid.UUID `db:"doctor_id"`
	UserID    uuid.UUID `db:"user_id"`
	Date      string    `db:"date"`
	Time      string    `db:"time"`
	Reason    string    `db:"reason"`
	Status    Status    `db:"status"`
	Notes     string    `db:"notes"`
	CreatedAt time.Time `db:"created_at"`
}

// DoctorAppointmentView is an appointment enriched with the patient's display
// name and email for the doctor's dashboard.
type DoctorAppointmentView struct {
	ID           uuid.UUID `db:"id" json:"id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	PatientName  string    `db:"patient_name" json:"patient_name"`
	PatientEmail string    `db:"patient_email" json:"patient_email"`
	Date         string    `db:"date" json:"date"`
	Time         string    `db:"time" json:"time"`
	Reason       string    `db:"reason" json:"reason"`
	Status       Status    `db:"status" json:"status"`
	Notes        string    `db:"notes" json:"notes"`
}

// PatientAppointmentView is the patient-side counterpart.
type PatientAppointmentView struct {
	ID          uuid.UUID `db:"id" json:"id"`
	DoctorID    uuid.UUID `db:"doctor_id" json:"doctor_id"`
	DoctorName  string    `db:"doctor_name" json:"doctor_name"`
	DoctorEmail string    `db:"doctor_email" json:"doctor_email"`
	Date        string    `db:"date" json:"date"`
	Time        string    `db:"time" json:"time"`
	Reason      string    `db:"reason" json:"reason"`
	Status      Status    `db:"status" json:"status"`
	Notes       string    `db:"notes" json:"notes"`
}

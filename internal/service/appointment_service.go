package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"physioconnect/internal/events"
	"physioconnect/internal/model"
	"physioconnect/internal/repository"
)

var (
	ErrDoctorNotFound      = errors.New("doctor not found or invalid")
	ErrSlotTaken           = errors.New("time slot already booked")
	ErrInvalidSchedule     = errors.New("invalid date or time format")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrNotParticipant      = errors.New("not your appointment")
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

type CreateAppointmentInput struct {
	DoctorID uuid.UUID
	Date     string
	Time     string
	Reason   string
	Notes    string
}

type AppointmentService interface {
	Create(ctx context.Context, requesterID uuid.UUID, in CreateAppointmentInput) (*model.Appointment, error)
	ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]model.DoctorAppointmentView, error)
	ListForPatient(ctx context.Context, userID uuid.UUID) ([]model.PatientAppointmentView, error)
	UpdateStatus(ctx context.Context, requester *model.User, id uuid.UUID, status, note string) (model.Status, model.Status, error)
	Delete(ctx context.Context, requester *model.User, id uuid.UUID) error
}

type appointmentService struct {
	appointmentRepo repository.AppointmentRepository
	userRepo        repository.UserRepository
	publisher       events.EventPublisher
}

func NewAppointmentService(appointmentRepo repository.AppointmentRepository, userRepo repository.UserRepository, publisher events.EventPublisher) AppointmentService {
	return &appointmentService{
		appointmentRepo: appointmentRepo,
		userRepo:        userRepo,
		publisher:       publisher,
	}
}

func (s *appointmentService) Create(ctx context.Context, requesterID uuid.UUID, in CreateAppointmentInput) (*model.Appointment, error) {
	parsedDate, err := time.Parse(dateLayout, in.Date)
	if err != nil {
		return nil, ErrInvalidSchedule
	}
	parsedTime, err := time.Parse(timeLayout, in.Time)
	if err != nil {
		return nil, ErrInvalidSchedule
	}

	doctor, err := s.userRepo.FindDoctorByID(ctx, in.DoctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	date := parsedDate.Format(dateLayout)
	timeOfDay := parsedTime.Format(timeLayout)

	existing, err := s.appointmentRepo.FindBySlot(ctx, in.DoctorID, date, timeOfDay)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrSlotTaken
	}

	appointment := &model.Appointment{
		DoctorID: in.DoctorID,
		UserID:   requesterID,
		Date:     date,
		Time:     timeOfDay,
		Reason:   in.Reason,
		Notes:    in.Notes,
		Status:   model.StatusPending,
	}

	created, err := s.appointmentRepo.Create(ctx, appointment)
	if err != nil {
		// a concurrent booking can slip past the lookup; the unique index
		// on (doctor_id, date, time) turns it into a conflict here
		if isUniqueViolation(err) {
			return nil, ErrSlotTaken
		}
		return nil, err
	}

	go s.publisher.PublishAppointmentCreated(created)

	return created, nil
}

func (s *appointmentService) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]model.DoctorAppointmentView, error) {
	views, err := s.appointmentRepo.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	// legacy rows may miss schedule fields; keep the response clean and log
	// how much was dropped instead of failing the whole list
	out := views[:0]
	skipped := 0
	for _, v := range views {
		if v.Date == "" || v.Time == "" || v.Reason == "" {
			skipped++
			continue
		}
		out = append(out, v)
	}
	if skipped > 0 {
		slog.Warn("skipped malformed appointments in doctor list",
			"doctor_id", doctorID, "skipped", skipped)
	}

	return out, nil
}

func (s *appointmentService) ListForPatient(ctx context.Context, userID uuid.UUID) ([]model.PatientAppointmentView, error) {
	return s.appointmentRepo.ListByPatient(ctx, userID)
}

func (s *appointmentService) UpdateStatus(ctx context.Context, requester *model.User, id uuid.UUID, status, note string) (model.Status, model.Status, error) {
	newStatus, err := model.ParseStatus(status)
	if err != nil {
		return "", "", ErrInvalidStatus
	}

	appointment, err := s.appointmentRepo.FindByID(ctx, id)
	if err != nil {
		return "", "", err
	}
	if appointment == nil {
		return "", "", ErrAppointmentNotFound
	}

	if err := authorizeParticipant(requester, appointment); err != nil {
		return "", "", err
	}

	notes := appointment.Notes
	if note != "" {
		entry := fmt.Sprintf("[%s] %s", time.Now().UTC().Format("2006-01-02 15:04"), note)
		if notes != "" {
			notes = notes + "\n" + entry
		} else {
			notes = entry
		}
	}

	if err := s.appointmentRepo.UpdateStatus(ctx, id, newStatus, notes); err != nil {
		return "", "", err
	}

	oldStatus := appointment.Status
	appointment.Status = newStatus
	appointment.Notes = notes

	go s.publisher.PublishStatusChanged(appointment, oldStatus)

	return oldStatus, newStatus, nil
}

func (s *appointmentService) Delete(ctx context.Context, requester *model.User, id uuid.UUID) error {
	appointment, err := s.appointmentRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if appointment == nil {
		return ErrAppointmentNotFound
	}

	if err := authorizeParticipant(requester, appointment); err != nil {
		return err
	}

	return s.appointmentRepo.Delete(ctx, id)
}

// authorizeParticipant allows the assigned doctor or the booking patient.
func authorizeParticipant(requester *model.User, appointment *model.Appointment) error {
	switch requester.Role {
	case model.RoleDoctor:
		if appointment.DoctorID != requester.ID {
			return ErrNotParticipant
		}
	case model.RoleUser:
		if appointment.UserID != requester.ID {
			return ErrNotParticipant
		}
	default:
		return ErrNotParticipant
	}
	return nil
}

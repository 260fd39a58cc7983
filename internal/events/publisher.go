package events

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"physioconnect/internal/model"
)

type EventPublisher interface {
	PublishAppointmentCreated(appointment *model.Appointment) error
	PublishStatusChanged(appointment *model.Appointment, oldStatus model.Status) error
}

type NatsPublisher struct {
	conn *nats.Conn
}

func NewNatsPublisher(natsURL string) (EventPublisher, error) {
	nc, err := nats.Connect(natsURL)

	if err != nil {
		return nil, err
	}

	return &NatsPublisher{conn: nc}, nil
}

type AppointmentCreatedEvent struct {
	EventType     string    `json:"event_type"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	DoctorID      uuid.UUID `json:"doctor_id"`
	UserID        uuid.UUID `json:"user_id"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
}

type AppointmentStatusChangedEvent struct {
	EventType     string       `json:"event_type"`
	AppointmentID uuid.UUID    `json:"appointment_id"`
	DoctorID      uuid.UUID    `json:"doctor_id"`
	UserID        uuid.UUID    `json:"user_id"`
	Date          string       `json:"date"`
	Time          string       `json:"time"`
	OldStatus     model.Status `json:"old_status"`
	NewStatus     model.Status `json:"new_status"`
	ChangedAt     time.Time    `json:"changed_at"`
}

const (
	SubjectAppointmentCreated = "appointment.created"
	SubjectStatusChanged      = "appointment.status_changed"
)

func (p *NatsPublisher) PublishAppointmentCreated(appointment *model.Appointment) error {
	event := AppointmentCreatedEvent{
		EventType:     SubjectAppointmentCreated,
		AppointmentID: appointment.ID,
		DoctorID:      appointment.DoctorID,
		UserID:        appointment.UserID,
		Date:          appointment.Date,
		Time:          appointment.Time,
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err := p.conn.Publish(SubjectAppointmentCreated, eventJSON); err != nil {
		log.Printf("Error publishing to NATS: %v", err)
		return err
	}

	return nil
}

func (p *NatsPublisher) PublishStatusChanged(appointment *model.Appointment, oldStatus model.Status) error {
	event := AppointmentStatusChangedEvent{
		EventType:     SubjectStatusChanged,
		AppointmentID: appointment.ID,
		DoctorID:      appointment.DoctorID,
		UserID:        appointment.UserID,
		Date:          appointment.Date,
		Time:          appointment.Time,
		OldStatus:     oldStatus,
		NewStatus:     appointment.Status,
		ChangedAt:     time.Now(),
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err := p.conn.Publish(SubjectStatusChanged, eventJSON); err != nil {
		log.Printf("Error publishing to NATS: %v", err)
		return err
	}

	return nil
}

// NoopPublisher keeps the API usable when the broker is down.
type NoopPublisher struct{}

func (NoopPublisher) PublishAppointmentCreated(*model.Appointment) error { return nil }

func (NoopPublisher) PublishStatusChanged(*model.Appointment, model.Status) error { return nil }

package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"physioconnect/internal/repository"
)

const (
	maxRetries    = 3
	retryDelaySec = 2
	dlqSubject    = "appointment.notify.failed"
)

// NotificationSubscriber turns appointment events into inbox rows for the
// counterparty: a new booking notifies the doctor, a status change notifies
// the patient.
type NotificationSubscriber struct {
	natsConn         *nats.Conn
	notificationRepo repository.NotificationRepository
}

func NewNotificationSubscriber(natsURL string, notificationRepo repository.NotificationRepository) (*NotificationSubscriber, error) {
	nc, err := nats.Connect(natsURL)
	if err != nil {
		return nil, err
	}

	subscriber := &NotificationSubscriber{
		natsConn:         nc,
		notificationRepo: notificationRepo,
	}

	if err := subscriber.subscribe(); err != nil {
		return nil, err
	}

	return subscriber, nil
}

func (s *NotificationSubscriber) subscribe() error {
	_, err := s.natsConn.Subscribe(SubjectAppointmentCreated, func(msg *nats.Msg) {
		var event AppointmentCreatedEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			slog.Error("failed to unmarshal appointment.created event", "error", err)
			return
		}

		s.saveWithRetry(msg, &repository.Notification{
			UserID:        event.DoctorID,
			AppointmentID: event.AppointmentID,
			Kind:          SubjectAppointmentCreated,
			Body:          fmt.Sprintf("New appointment requested for %s %s", event.Date, event.Time),
		})
	})
	if err != nil {
		return err
	}

	_, err = s.natsConn.Subscribe(SubjectStatusChanged, func(msg *nats.Msg) {
		var event AppointmentStatusChangedEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			slog.Error("failed to unmarshal status_changed event", "error", err)
			return
		}

		s.saveWithRetry(msg, &repository.Notification{
			UserID:        event.UserID,
			AppointmentID: event.AppointmentID,
			Kind:          SubjectStatusChanged,
			Body:          fmt.Sprintf("Appointment status changed from %s to %s", event.OldStatus, event.NewStatus),
		})
	})
	return err
}

func (s *NotificationSubscriber) saveWithRetry(msg *nats.Msg, notification *repository.Notification) {
	var saveErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		saveErr = s.notificationRepo.Save(context.Background(), notification)
		if saveErr == nil {
			return
		}

		slog.Warn("failed to save notification, retrying",
			"attempt", attempt, "error", saveErr)
		time.Sleep(time.Second * retryDelaySec)
	}

	slog.Error("giving up on notification after retries",
		"user_id", notification.UserID, "kind", notification.Kind, "error", saveErr)

	if err := s.natsConn.Publish(dlqSubject, msg.Data); err != nil {
		slog.Error("failed to publish to DLQ", "subject", dlqSubject, "error", err)
	}
}

package events_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"physioconnect/internal/events"
	"physioconnect/internal/model"
)

func TestAppointmentCreatedEvent_JSON(t *testing.T) {
	event := events.AppointmentCreatedEvent{
		EventType:     events.SubjectAppointmentCreated,
		AppointmentID: uuid.New(),
		DoctorID:      uuid.New(),
		UserID:        uuid.New(),
		Date:          "2026-09-15",
		Time:          "10:30",
	}

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, "appointment.created", decoded["event_type"])
	require.Equal(t, "2026-09-15", decoded["date"])
	require.Equal(t, "10:30", decoded["time"])
}

func TestAppointmentStatusChangedEvent_JSON(t *testing.T) {
	event := events.AppointmentStatusChangedEvent{
		EventType:     events.SubjectStatusChanged,
		AppointmentID: uuid.New(),
		OldStatus:     model.StatusPending,
		NewStatus:     model.StatusAccepted,
		ChangedAt:     time.Now(),
	}

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var roundTrip events.AppointmentStatusChangedEvent
	require.NoError(t, json.Unmarshal(data, &roundTrip))
	require.Equal(t, model.StatusPending, roundTrip.OldStatus)
	require.Equal(t, model.StatusAccepted, roundTrip.NewStatus)
}

func TestNoopPublisher(t *testing.T) {
	p := events.NoopPublisher{}
	require.NoError(t, p.PublishAppointmentCreated(&model.Appointment{}))
	require.NoError(t, p.PublishStatusChanged(&model.Appointment{}, model.StatusPending))
}

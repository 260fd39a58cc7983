package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"physioconnect/internal/events"
	"physioconnect/internal/model"
	"physioconnect/internal/service"
)

type appointmentFixture struct {
	svc     service.AppointmentService
	repo    *fakeAppointmentRepo
	doctor  *model.User
	patient *model.User
}

func newAppointmentFixture(t *testing.T) *appointmentFixture {
	t.Helper()

	userRepo := newFakeUserRepo()
	doctor := userRepo.add("ana@clinic.com", "hash", model.RoleDoctor)
	patient := userRepo.add("budi@example.com", "hash", model.RoleUser)

	appointmentRepo := newFakeAppointmentRepo()
	svc := service.NewAppointmentService(appointmentRepo, userRepo, events.NoopPublisher{})

	return &appointmentFixture{svc: svc, repo: appointmentRepo, doctor: doctor, patient: patient}
}

func (fx *appointmentFixture) book(t *testing.T, date, timeOfDay string) *model.Appointment {
	t.Helper()
	created, err := fx.svc.Create(context.Background(), fx.patient.ID, service.CreateAppointmentInput{
		DoctorID: fx.doctor.ID,
		Date:     date,
		Time:     timeOfDay,
		Reason:   "Knee pain",
	})
	require.NoError(t, err)
	return created
}

func TestAppointmentService_Create(t *testing.T) {
	fx := newAppointmentFixture(t)

	created := fx.book(t, "2026-09-15", "10:30")
	require.NotEqual(t, uuid.Nil, created.ID)
	require.Equal(t, model.StatusPending, created.Status)
	require.Equal(t, fx.patient.ID, created.UserID)
}

func TestAppointmentService_Create_SlotTaken(t *testing.T) {
	fx := newAppointmentFixture(t)

	fx.book(t, "2026-09-15", "10:30")

	_, err := fx.svc.Create(context.Background(), fx.patient.ID, service.CreateAppointmentInput{
		DoctorID: fx.doctor.ID,
		Date:     "2026-09-15",
		Time:     "10:30",
		Reason:   "Back pain",
	})
	require.ErrorIs(t, err, service.ErrSlotTaken)

	// the same day at a different time is still free
	fx.book(t, "2026-09-15", "11:00")
}

func TestAppointmentService_Create_DoctorNotFound(t *testing.T) {
	fx := newAppointmentFixture(t)

	_, err := fx.svc.Create(context.Background(), fx.patient.ID, service.CreateAppointmentInput{
		DoctorID: uuid.New(),
		Date:     "2026-09-15",
		Time:     "10:30",
		Reason:   "Knee pain",
	})
	require.ErrorIs(t, err, service.ErrDoctorNotFound)
}

func TestAppointmentService_Create_PatientIsNotADoctor(t *testing.T) {
	fx := newAppointmentFixture(t)

	// booking against a plain user account fails the doctor lookup
	_, err := fx.svc.Create(context.Background(), fx.patient.ID, service.CreateAppointmentInput{
		DoctorID: fx.patient.ID,
		Date:     "2026-09-15",
		Time:     "10:30",
		Reason:   "Knee pain",
	})
	require.ErrorIs(t, err, service.ErrDoctorNotFound)
}

func TestAppointmentService_Create_InvalidSchedule(t *testing.T) {
	fx := newAppointmentFixture(t)

	cases := []struct {
		date string
		time string
	}{
		{"15-09-2026", "10:30"},
		{"2026-09-15", "10.30"},
		{"tomorrow", "10:30"},
		{"2026-09-15", "25:00"},
	}
	for _, tc := range cases {
		_, err := fx.svc.Create(context.Background(), fx.patient.ID, service.CreateAppointmentInput{
			DoctorID: fx.doctor.ID,
			Date:     tc.date,
			Time:     tc.time,
			Reason:   "Knee pain",
		})
		require.ErrorIs(t, err, service.ErrInvalidSchedule, "date=%s time=%s", tc.date, tc.time)
	}
}

func TestAppointmentService_UpdateStatus(t *testing.T) {
	fx := newAppointmentFixture(t)
	created := fx.book(t, "2026-09-15", "10:30")

	oldStatus, newStatus, err := fx.svc.UpdateStatus(context.Background(), fx.doctor, created.ID, "accepted", "see you then")
	require.NoError(t, err)
	require.Equal(t, model.StatusPending, oldStatus)
	require.Equal(t, model.StatusAccepted, newStatus)

	stored := fx.repo.appointments[created.ID]
	require.Equal(t, model.StatusAccepted, stored.Status)
	require.True(t, strings.HasSuffix(stored.Notes, "] see you then"))
}

func TestAppointmentService_UpdateStatus_AppendsNotes(t *testing.T) {
	fx := newAppointmentFixture(t)
	created := fx.book(t, "2026-09-15", "10:30")

	_, _, err := fx.svc.UpdateStatus(context.Background(), fx.doctor, created.ID, "accepted", "first note")
	require.NoError(t, err)
	_, _, err = fx.svc.UpdateStatus(context.Background(), fx.doctor, created.ID, "completed", "second note")
	require.NoError(t, err)

	lines := strings.Split(fx.repo.appointments[created.ID].Notes, "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], "first note")
	require.Contains(t, lines[1], "second note")
}

func TestAppointmentService_UpdateStatus_InvalidStatus(t *testing.T) {
	fx := newAppointmentFixture(t)
	created := fx.book(t, "2026-09-15", "10:30")

	_, _, err := fx.svc.UpdateStatus(context.Background(), fx.doctor, created.ID, "approved", "")
	require.ErrorIs(t, err, service.ErrInvalidStatus)
}

func TestAppointmentService_UpdateStatus_Stranger(t *testing.T) {
	fx := newAppointmentFixture(t)
	created := fx.book(t, "2026-09-15", "10:30")

	stranger := &model.User{ID: uuid.New(), Role: model.RoleUser}
	_, _, err := fx.svc.UpdateStatus(context.Background(), stranger, created.ID, "cancelled", "")
	require.ErrorIs(t, err, service.ErrNotParticipant)

	otherDoctor := &model.User{ID: uuid.New(), Role: model.RoleDoctor}
	_, _, err = fx.svc.UpdateStatus(context.Background(), otherDoctor, created.ID, "declined", "")
	require.ErrorIs(t, err, service.ErrNotParticipant)
}

func TestAppointmentService_UpdateStatus_NotFound(t *testing.T) {
	fx := newAppointmentFixture(t)

	_, _, err := fx.svc.UpdateStatus(context.Background(), fx.doctor, uuid.New(), "accepted", "")
	require.ErrorIs(t, err, service.ErrAppointmentNotFound)
}

func TestAppointmentService_Delete(t *testing.T) {
	fx := newAppointmentFixture(t)
	created := fx.book(t, "2026-09-15", "10:30")

	stranger := &model.User{ID: uuid.New(), Role: model.RoleUser}
	err := fx.svc.Delete(context.Background(), stranger, created.ID)
	require.ErrorIs(t, err, service.ErrNotParticipant)

	err = fx.svc.Delete(context.Background(), fx.patient, created.ID)
	require.NoError(t, err)

	// the slot frees up after deletion
	fx.book(t, "2026-09-15", "10:30")
}

func TestAppointmentService_ListForDoctor_SkipsMalformed(t *testing.T) {
	fx := newAppointmentFixture(t)

	fx.repo.doctorViews = []model.DoctorAppointmentView{
		{ID: uuid.New(), Date: "2026-09-15", Time: "10:30", Reason: "Knee pain"},
		{ID: uuid.New(), Date: "", Time: "10:30", Reason: "missing date"},
		{ID: uuid.New(), Date: "2026-09-16", Time: "", Reason: "missing time"},
		{ID: uuid.New(), Date: "2026-09-17", Time: "09:00", Reason: ""},
	}

	views, err := fx.svc.ListForDoctor(context.Background(), fx.doctor.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, "Knee pain", views[0].Reason)
}

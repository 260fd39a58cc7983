package service_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"physioconnect/internal/model"
	repo "physioconnect/internal/repository"
)

func errUniqueViolation() error {
	return &pgconn.PgError{Code: "23505"}
}

// in-memory repositories backing the service tests

type fakeUserRepo struct {
	users     map[uuid.UUID]*model.User
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (f *fakeUserRepo) add(email, passwordHash string, role model.Role) *model.User {
	u := &model.User{ID: uuid.New(), Email: email, PasswordHash: passwordHash, Role: role}
	f.users[u.ID] = u
	return u
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) (uuid.UUID, error) {
	if f.createErr != nil {
		return uuid.Nil, f.createErr
	}
	for _, u := range f.users {
		if u.Email == user.Email {
			return uuid.Nil, errUniqueViolation()
		}
	}
	id := uuid.New()
	stored := *user
	stored.ID = id
	f.users[id] = &stored
	return id, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) FindDoctorByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u := f.users[id]
	if u == nil || u.Role != model.RoleDoctor {
		return nil, nil
	}
	return u, nil
}

type fakeDeviceTokenRepo struct {
	tokens map[uuid.UUID][]string
}

func newFakeDeviceTokenRepo() *fakeDeviceTokenRepo {
	return &fakeDeviceTokenRepo{tokens: make(map[uuid.UUID][]string)}
}

func (f *fakeDeviceTokenRepo) Register(ctx context.Context, userID uuid.UUID, token string) error {
	f.tokens[userID] = append(f.tokens[userID], token)
	return nil
}

func (f *fakeDeviceTokenRepo) FindByUserID(ctx context.Context, userID uuid.UUID) ([]string, error) {
	return f.tokens[userID], nil
}

type slotKey struct {
	doctorID uuid.UUID
	date     string
	time     string
}

type fakeAppointmentRepo struct {
	appointments map[uuid.UUID]*model.Appointment
	slots        map[slotKey]uuid.UUID
	doctorViews  []model.DoctorAppointmentView
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{
		appointments: make(map[uuid.UUID]*model.Appointment),
		slots:        make(map[slotKey]uuid.UUID),
	}
}

func (f *fakeAppointmentRepo) Create(ctx context.Context, appointment *model.Appointment) (*model.Appointment, error) {
	key := slotKey{appointment.DoctorID, appointment.Date, appointment.Time}
	if _, taken := f.slots[key]; taken {
		return nil, errUniqueViolation()
	}
	stored := *appointment
	stored.ID = uuid.New()
	f.appointments[stored.ID] = &stored
	f.slots[key] = stored.ID
	return &stored, nil
}

func (f *fakeAppointmentRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	a := f.appointments[id]
	if a == nil {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAppointmentRepo) FindBySlot(ctx context.Context, doctorID uuid.UUID, date, timeOfDay string) (*model.Appointment, error) {
	id, ok := f.slots[slotKey{doctorID, date, timeOfDay}]
	if !ok {
		return nil, nil
	}
	return f.appointments[id], nil
}

func (f *fakeAppointmentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.Status, notes string) error {
	a := f.appointments[id]
	a.Status = status
	a.Notes = notes
	return nil
}

func (f *fakeAppointmentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	a := f.appointments[id]
	if a != nil {
		delete(f.slots, slotKey{a.DoctorID, a.Date, a.Time})
	}
	delete(f.appointments, id)
	return nil
}

func (f *fakeAppointmentRepo) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]model.DoctorAppointmentView, error) {
	return f.doctorViews, nil
}

func (f *fakeAppointmentRepo) ListByPatient(ctx context.Context, userID uuid.UUID) ([]model.PatientAppointmentView, error) {
	return []model.PatientAppointmentView{}, nil
}

type fakeDoctorProfileRepo struct {
	profiles map[uuid.UUID]*model.DoctorProfile
}

func newFakeDoctorProfileRepo() *fakeDoctorProfileRepo {
	return &fakeDoctorProfileRepo{profiles: make(map[uuid.UUID]*model.DoctorProfile)}
}

func (f *fakeDoctorProfileRepo) Create(ctx context.Context, profile *model.DoctorProfile) (uuid.UUID, error) {
	for _, p := range f.profiles {
		if p.UserID == profile.UserID {
			return uuid.Nil, errUniqueViolation()
		}
	}
	id := uuid.New()
	stored := *profile
	stored.ID = id
	f.profiles[id] = &stored
	return id, nil
}

func (f *fakeDoctorProfileRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.DoctorProfile, error) {
	return f.profiles[id], nil
}

func (f *fakeDoctorProfileRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*model.DoctorProfile, error) {
	for _, p := range f.profiles {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeDoctorProfileRepo) Update(ctx context.Context, id uuid.UUID, update repo.DoctorProfileUpdate) error {
	p := f.profiles[id]
	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.Specialty != nil {
		p.Specialty = *update.Specialty
	}
	if update.Bio != nil {
		p.Bio = *update.Bio
	}
	if update.Experience != nil {
		p.Experience = *update.Experience
	}
	if update.PhotoURL != nil {
		p.PhotoURL = update.PhotoURL
	}
	return nil
}

func (f *fakeDoctorProfileRepo) ListWithEmail(ctx context.Context) ([]model.DoctorListing, error) {
	return []model.DoctorListing{}, nil
}

type fakePatientProfileRepo struct {
	profiles map[uuid.UUID]*model.PatientProfile
}

func newFakePatientProfileRepo() *fakePatientProfileRepo {
	return &fakePatientProfileRepo{profiles: make(map[uuid.UUID]*model.PatientProfile)}
}

func (f *fakePatientProfileRepo) Create(ctx context.Context, profile *model.PatientProfile) (uuid.UUID, error) {
	for _, p := range f.profiles {
		if p.UserID == profile.UserID {
			return uuid.Nil, errUniqueViolation()
		}
	}
	id := uuid.New()
	stored := *profile
	stored.ID = id
	f.profiles[id] = &stored
	return id, nil
}

func (f *fakePatientProfileRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*model.PatientProfile, error) {
	for _, p := range f.profiles {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, nil
}

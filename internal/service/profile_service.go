package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"physioconnect/internal/model"
	"physioconnect/internal/repository"
)

var (
	ErrProfileExists   = errors.New("profile already exists")
	ErrProfileNotFound = errors.New("profile not found")
	ErrNotProfileOwner = errors.New("not the profile owner")
	ErrNotDoctor       = errors.New("invalid doctor profile")
)

type ProfileService interface {
	CreateDoctorProfile(ctx context.Context, userID uuid.UUID, profile *model.DoctorProfile) (uuid.UUID, error)
	CreatePatientProfile(ctx context.Context, userID uuid.UUID, profile *model.PatientProfile) (uuid.UUID, error)
	UpdateDoctorProfile(ctx context.Context, requesterID, profileID uuid.UUID, update repository.DoctorProfileUpdate) (*model.DoctorProfile, error)
	GetDoctorProfile(ctx context.Context, userID uuid.UUID) (*model.DoctorProfile, string, error)
	ListDoctors(ctx context.Context) ([]model.DoctorListing, error)
	DoctorProfileFor(ctx context.Context, userID uuid.UUID) (*model.DoctorProfile, error)
	PatientProfileFor(ctx context.Context, userID uuid.UUID) (*model.PatientProfile, error)
}

type profileService struct {
	userRepo    repository.UserRepository
	doctorRepo  repository.DoctorProfileRepository
	patientRepo repository.PatientProfileRepository
}

func NewProfileService(userRepo repository.UserRepository, doctorRepo repository.DoctorProfileRepository, patientRepo repository.PatientProfileRepository) ProfileService {
	return &profileService{
		userRepo:    userRepo,
		doctorRepo:  doctorRepo,
		patientRepo: patientRepo,
	}
}

func (s *profileService) CreateDoctorProfile(ctx context.Context, userID uuid.UUID, profile *model.DoctorProfile) (uuid.UUID, error) {
	existing, err := s.doctorRepo.FindByUserID(ctx, userID)
	if err != nil {
		return uuid.Nil, err
	}
	if existing != nil {
		return uuid.Nil, ErrProfileExists
	}

	profile.UserID = userID
	newID, err := s.doctorRepo.Create(ctx, profile)
	if err != nil {
		if isUniqueViolation(err) {
			return uuid.Nil, ErrProfileExists
		}
		return uuid.Nil, err
	}

	return newID, nil
}

func (s *profileService) CreatePatientProfile(ctx context.Context, userID uuid.UUID, profile *model.PatientProfile) (uuid.UUID, error) {
	existing, err := s.patientRepo.FindByUserID(ctx, userID)
	if err != nil {
		return uuid.Nil, err
	}
	if existing != nil {
		return uuid.Nil, ErrProfileExists
	}

	profile.UserID = userID
	newID, err := s.patientRepo.Create(ctx, profile)
	if err != nil {
		if isUniqueViolation(err) {
			return uuid.Nil, ErrProfileExists
		}
		return uuid.Nil, err
	}

	return newID, nil
}

func (s *profileService) UpdateDoctorProfile(ctx context.Context, requesterID, profileID uuid.UUID, update repository.DoctorProfileUpdate) (*model.DoctorProfile, error) {
	profile, err := s.doctorRepo.FindByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	if profile.UserID != requesterID {
		return nil, ErrNotProfileOwner
	}

	if err := s.doctorRepo.Update(ctx, profileID, update); err != nil {
		return nil, err
	}

	return s.doctorRepo.FindByID(ctx, profileID)
}

// GetDoctorProfile is the public read: the profile plus the account email,
// confirming the backing user still carries the doctor role.
func (s *profileService) GetDoctorProfile(ctx context.Context, userID uuid.UUID) (*model.DoctorProfile, string, error) {
	profile, err := s.doctorRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	if profile == nil {
		return nil, "", ErrProfileNotFound
	}

	doctor, err := s.userRepo.FindDoctorByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	if doctor == nil {
		return nil, "", ErrNotDoctor
	}

	return profile, doctor.Email, nil
}

func (s *profileService) ListDoctors(ctx context.Context) ([]model.DoctorListing, error) {
	return s.doctorRepo.ListWithEmail(ctx)
}

func (s *profileService) DoctorProfileFor(ctx context.Context, userID uuid.UUID) (*model.DoctorProfile, error) {
	return s.doctorRepo.FindByUserID(ctx, userID)
}

func (s *profileService) PatientProfileFor(ctx context.Context, userID uuid.UUID) (*model.PatientProfile, error) {
	return s.patientRepo.FindByUserID(ctx, userID)
}

package api

import (
	"errors"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"physioconnect/internal/model"
	"physioconnect/internal/repository"
	"physioconnect/internal/s3"
	"physioconnect/internal/service"
)

type ProfileHandler struct {
	profileService service.ProfileService
	validate       *validator.Validate
	photoPresigner *s3.PhotoPresigner
}

func NewProfileHandler(profileService service.ProfileService, presigner *s3.PhotoPresigner) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		validate:       validator.New(),
		photoPresigner: presigner,
	}
}

type CreateDoctorProfileRequest struct {
	Name       string `json:"name" validate:"required,min=2"`
	Specialty  string `json:"specialty"`
	Bio        string `json:"bio"`
	Experience int    `json:"experience" validate:"omitempty,min=0"`
}

type UpdateDoctorProfileRequest struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,min=2"`
	Specialty  *string `json:"specialty,omitempty"`
	Bio        *string `json:"bio,omitempty"`
	Experience *int    `json:"experience,omitempty" validate:"omitempty,min=0"`
	PhotoURL   *string `json:"photo_url,omitempty" validate:"omitempty,url"`
}

type CreatePatientProfileRequest struct {
	Name           string `json:"name" validate:"required,min=2"`
	Age            *int   `json:"age,omitempty" validate:"omitempty,min=0,max=150"`
	MedicalHistory string `json:"medical_history"`
}

type doctorProfilePayload struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Name       string    `json:"name"`
	Specialty  string    `json:"specialty"`
	Bio        string    `json:"bio"`
	Experience int       `json:"experience"`
	PhotoURL   *string   `json:"photo_url,omitempty"`
}

func (h *ProfileHandler) ListDoctors(c *fiber.Ctx) error {
	listings, err := h.profileService.ListDoctors(c.Context())
	if err != nil {
		slog.Error("failed to list doctors", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	return c.Status(fiber.StatusOK).JSON(listings)
}

func (h *ProfileHandler) GetDoctor(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid doctor ID format"})
	}

	profile, email, err := h.profileService.GetDoctorProfile(c.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProfileNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		case errors.Is(err, service.ErrNotDoctor):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid doctor profile"})
		}
		slog.Error("failed to load doctor profile", "user_id", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"id":         profile.UserID,
		"name":       profile.Name,
		"specialty":  profile.Specialty,
		"bio":        profile.Bio,
		"experience": profile.Experience,
		"photo_url":  profile.PhotoURL,
		"email":      email,
	})
}

func (h *ProfileHandler) AddDoctorProfile(c *fiber.Ctx) error {
	user, err := IdentityFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	var request CreateDoctorProfileRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": err.Error()})
	}

	profileID, err := h.profileService.CreateDoctorProfile(c.Context(), user.ID, &model.DoctorProfile{
		Name:       request.Name,
		Specialty:  request.Specialty,
		Bio:        request.Bio,
		Experience: request.Experience,
	})
	if err != nil {
		if errors.Is(err, service.ErrProfileExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Profile already exists for this doctor"})
		}
		slog.Error("failed to create doctor profile", "user_id", user.ID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":   "Doctor profile created successfully",
		"profileId": profileID,
	})
}

func (h *ProfileHandler) UpdateDoctorProfile(c *fiber.Ctx) error {
	user, err := IdentityFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	profileID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid profile ID format"})
	}

	var request UpdateDoctorProfileRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": err.Error()})
	}

	profile, err := h.profileService.UpdateDoctorProfile(c.Context(), user.ID, profileID, repository.DoctorProfileUpdate{
		Name:       request.Name,
		Specialty:  request.Specialty,
		Bio:        request.Bio,
		Experience: request.Experience,
		PhotoURL:   request.PhotoURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProfileNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		case errors.Is(err, service.ErrNotProfileOwner):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Unauthorized"})
		}
		slog.Error("failed to update doctor profile", "profile_id", profileID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Profile updated successfully",
		"profile": doctorProfilePayload{
			ID:         profile.ID,
			UserID:     profile.UserID,
			Name:       profile.Name,
			Specialty:  profile.Specialty,
			Bio:        profile.Bio,
			Experience: profile.Experience,
			PhotoURL:   profile.PhotoURL,
		},
	})
}

func (h *ProfileHandler) AddPatientProfile(c *fiber.Ctx) error {
	user, err := IdentityFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	var request CreatePatientProfileRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": err.Error()})
	}

	profileID, err := h.profileService.CreatePatientProfile(c.Context(), user.ID, &model.PatientProfile{
		Name:           request.Name,
		Age:            request.Age,
		MedicalHistory: request.MedicalHistory,
	})
	if err != nil {
		if errors.Is(err, service.ErrProfileExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Profile already exists for this patient"})
		}
		slog.Error("failed to create patient profile", "user_id", user.ID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":   "Patient profile created successfully",
		"profileId": profileID,
	})
}

// GetOwnProfile returns the identity plus the role-specific profile document
// when one exists.
func (h *ProfileHandler) GetOwnProfile(c *fiber.Ctx) error {
	user, err := IdentityFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	result := fiber.Map{
		"id":    user.ID,
		"email": user.Email,
		"role":  user.Role,
	}

	switch user.Role {
	case model.RoleDoctor:
		profile, err := h.profileService.DoctorProfileFor(c.Context(), user.ID)
		if err != nil {
			slog.Error("failed to load own doctor profile", "user_id", user.ID, "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
		}
		if profile != nil {
			result["profile"] = doctorProfilePayload{
				ID:         profile.ID,
				UserID:     profile.UserID,
				Name:       profile.Name,
				Specialty:  profile.Specialty,
				Bio:        profile.Bio,
				Experience: profile.Experience,
				PhotoURL:   profile.PhotoURL,
			}
		}
	case model.RoleUser:
		profile, err := h.profileService.PatientProfileFor(c.Context(), user.ID)
		if err != nil {
			slog.Error("failed to load own patient profile", "user_id", user.ID, "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
		}
		if profile != nil {
			result["profile"] = fiber.Map{
				"id":              profile.ID,
				"name":            profile.Name,
				"age":             profile.Age,
				"medical_history": profile.MedicalHistory,
			}
		}
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

// GetPhotoUploadURL hands out a presigned PUT URL for a profile photo; the
// client stores the final URL through the profile update endpoint.
func (h *ProfileHandler) GetPhotoUploadURL(c *fiber.Ctx) error {
	user, err := IdentityFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	if h.photoPresigner == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Photo uploads are not configured"})
	}

	objectKey := "doctor-photos/" + user.ID.String() + "/" + uuid.New().String() + ".jpg"

	uploadURL, err := h.photoPresigner.GenerateUploadURL(objectKey)
	if err != nil {
		slog.Error("failed to presign photo upload", "user_id", user.ID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not generate upload URL"})
	}

	finalImageURL := os.Getenv("S3_ENDPOINT") + "/" + h.photoPresigner.BucketName + "/" + objectKey

	return c.JSON(fiber.Map{
		"upload_url":      uploadURL,
		"final_image_url": finalImageURL,
	})
}

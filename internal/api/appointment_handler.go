package api

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"physioconnect/internal/model"
	"physioconnect/internal/service"
)

type AppointmentHandler struct {
	appointmentService service.AppointmentService
	validate           *validator.Validate
}

func NewAppointmentHandler(appointmentService service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentService: appointmentService,
		validate:           validator.New(),
	}
}

type CreateAppointmentRequest struct {
	DoctorID string `json:"doctor_id" validate:"required"`
	Date     string `json:"date" validate:"required"`
	Time     string `json:"time" validate:"required"`
	Reason   string `json:"reason" validate:"required,max=200"`
	Notes    string `json:"notes"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Notes  string `json:"notes"`
}

type appointmentPayload struct {
	ID       uuid.UUID    `json:"id"`
	DoctorID uuid.UUID    `json:"doctor_id"`
	Date     string       `json:"date"`
	Time     string       `json:"time"`
	Reason   string       `json:"reason"`
	Status   model.Status `json:"status"`
	Notes    string       `json:"notes"`
}

func (h *AppointmentHandler) Create(c *fiber.Ctx) error {
	user, err := IdentityFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	var request CreateAppointmentRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing or invalid fields", "details": err.Error()})
	}

	doctorID, err := uuid.Parse(request.DoctorID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Doctor ID must be a valid UUID"})
	}

	appointment, err := h.appointmentService.Create(c.Context(), user.ID, service.CreateAppointmentInput{
		DoctorID: doctorID,
		Date:     request.Date,
		Time:     request.Time,
		Reason:   request.Reason,
		Notes:    request.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidSchedule):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date or time format. Use YYYY-MM-DD for date and HH:MM for time"})
		case errors.Is(err, service.ErrDoctorNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Doctor not found or invalid"})
		case errors.Is(err, service.ErrSlotTaken):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Time slot already booked"})
		}
		slog.Error("failed to create appointment", "user_id", user.ID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Appointment created successfully",
		"appointment": appointmentPayload{
			ID:       appointment.ID,
			DoctorID: appointment.DoctorID,
			Date:     appointment.Date,
			Time:     appointment.Time,
			Reason:   appointment.Reason,
			Status:   appointment.Status,
			Notes:    appointment.Notes,
		},
	})
}

func (h *AppointmentHandler) ListForDoctor(c *fiber.Ctx) error {
	user, err := IdentityFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	views, err := h.appointmentService.ListForDoctor(c.Context(), user.ID)
	if err != nil {
		slog.Error("failed to list doctor appointments", "doctor_id", user.ID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	return c.Status(fiber.StatusOK).JSON(views)
}

func (h *AppointmentHandler) ListForPatient(c *fiber.Ctx) error {
	user, err := IdentityFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	views, err := h.appointmentService.ListForPatient(c.Context(), user.ID)
	if err != nil {
		slog.Error("failed to list patient appointments", "user_id", user.ID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	return c.Status(fiber.StatusOK).JSON(views)
}

func (h *AppointmentHandler) UpdateStatus(c *fiber.Ctx) error {
	user, err := IdentityFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	appointmentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid appointment ID format"})
	}

	var request UpdateStatusRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Status is required", "details": err.Error()})
	}

	oldStatus, newStatus, err := h.appointmentService.UpdateStatus(c.Context(), user, appointmentID, request.Status, request.Notes)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid status. Must be one of: pending, accepted, declined, completed, cancelled"})
		case errors.Is(err, service.ErrAppointmentNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Appointment not found"})
		case errors.Is(err, service.ErrNotParticipant):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Unauthorized. Not your appointment"})
		}
		slog.Error("failed to update appointment status", "appointment_id", appointmentID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": fmt.Sprintf("Appointment status updated from %s to %s", oldStatus, newStatus),
		"status":  newStatus,
	})
}

func (h *AppointmentHandler) Delete(c *fiber.Ctx) error {
	user, err := IdentityFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	appointmentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid appointment ID format"})
	}

	if err := h.appointmentService.Delete(c.Context(), user, appointmentID); err != nil {
		switch {
		case errors.Is(err, service.ErrAppointmentNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Appointment not found"})
		case errors.Is(err, service.ErrNotParticipant):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Unauthorized. Not your appointment"})
		}
		slog.Error("failed to delete appointment", "appointment_id", appointmentID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Appointment deleted successfully"})
}

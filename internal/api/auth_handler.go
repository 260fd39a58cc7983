package api

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"physioconnect/internal/model"
	"physioconnect/internal/service"
)

type AuthHandler struct {
	authService service.AuthService
	validate    *validator.Validate
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"omitempty,oneof=user doctor"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterDeviceRequest struct {
	DeviceToken string `json:"device_token" validate:"required"`
}

type tokenUser struct {
	ID    uuid.UUID  `json:"id"`
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
}

type TokenResponse struct {
	AccessToken string     `json:"access_token"`
	Role        model.Role `json:"role"`
	User        tokenUser  `json:"user"`
}

func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var request SignUpRequest

	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email and password are required", "details": err.Error()})
	}

	user, token, err := h.authService.SignUp(c.Context(), request.Email, request.Password, request.Role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "User already exists"})
		case errors.Is(err, service.ErrInvalidRole):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid role"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	return c.Status(fiber.StatusCreated).JSON(TokenResponse{
		AccessToken: token,
		Role:        user.Role,
		User:        tokenUser{ID: user.ID, Email: user.Email, Role: user.Role},
	})
}

func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var request SignInRequest

	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email and password are required", "details": err.Error()})
	}

	user, token, err := h.authService.SignIn(c.Context(), request.Email, request.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	return c.Status(fiber.StatusOK).JSON(TokenResponse{
		AccessToken: token,
		Role:        user.Role,
		User:        tokenUser{ID: user.ID, Email: user.Email, Role: user.Role},
	})
}

func (h *AuthHandler) RegisterDevice(c *fiber.Ctx) error {
	user, err := IdentityFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	var request RegisterDeviceRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": err.Error()})
	}

	if err := h.authService.RegisterDeviceToken(c.Context(), user.ID, request.DeviceToken); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not register device token"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Device token registered successfully"})
}

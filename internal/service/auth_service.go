package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"physioconnect/internal/jwt"
	"physioconnect/internal/model"
	"physioconnect/internal/repository"
)

var (
	ErrEmailTaken         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRole        = errors.New("invalid role")
	ErrTokenInvalid       = errors.New("token is invalid or expired")
)

type AuthService interface {
	SignUp(ctx context.Context, email, password, role string) (*model.User, string, error)
	SignIn(ctx context.Context, email, password string) (*model.User, string, error)
	Authenticate(ctx context.Context, tokenString string) (*model.User, error)
	RegisterDeviceToken(ctx context.Context, userID uuid.UUID, token string) error
}

type authService struct {
	userRepo   repository.UserRepository
	deviceRepo repository.DeviceTokenRepository
}

func NewAuthService(userRepo repository.UserRepository, deviceRepo repository.DeviceTokenRepository) AuthService {
	return &authService{
		userRepo:   userRepo,
		deviceRepo: deviceRepo,
	}
}

func (s *authService) SignUp(ctx context.Context, email, password, role string) (*model.User, string, error) {
	if role == "" {
		role = string(model.RoleUser)
	}
	parsedRole, err := model.ParseRole(role)
	if err != nil {
		return nil, "", ErrInvalidRole
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &model.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         parsedRole,
	}

	newID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	user.ID = newID

	token, err := jwt.GenerateToken(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

func (s *authService) SignIn(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := jwt.GenerateToken(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Authenticate resolves a bearer token to the user record it was signed for.
func (s *authService) Authenticate(ctx context.Context, tokenString string) (*model.User, error) {
	claims, err := jwt.ValidateToken(tokenString)
	if err != nil {
		// pass the jwt error through so callers can tell expiry apart
		return nil, err
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, ErrTokenInvalid
	}

	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrTokenInvalid
	}

	return user, nil
}

func (s *authService) RegisterDeviceToken(ctx context.Context, userID uuid.UUID, token string) error {
	return s.deviceRepo.Register(ctx, userID, token)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

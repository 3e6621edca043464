package services

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/yukikurage/field-attendance-api/internal/constants"
	"github.com/yukikurage/field-attendance-api/internal/geo"
	"github.com/yukikurage/field-attendance-api/internal/models"
	"github.com/yukikurage/field-attendance-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken            = newDomainError(ErrConflict, "email already registered")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrPasswordTooShort      = validationError("password", "must be at least %d characters", constants.MinPasswordLength)
	ErrInvalidRole           = validationError("role", "must be %q or %q", models.RoleAdmin, models.RoleWorker)
	ErrProfileMissing        = errors.New("user has no profile for its role")
	ErrFailedToHashPassword  = errors.New("failed to hash password")
	ErrFailedToCreateUser    = errors.New("failed to create user")
	ErrFailedToCreateProfile = errors.New("failed to create profile")
)

// AuthService handles authentication and principal resolution.
type AuthService struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, profileRepo repository.ProfileRepository) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
	}
}

// SignupInput represents the required information to create a new user.
type SignupInput struct {
	Name     string
	Email    string
	Password string
	Role     models.UserRole
	// AssignedLocation is the optional home site of a worker.
	AssignedLocation *geo.Point
}

// Signup creates a new user along with the profile for its role.
func (s *AuthService) Signup(input SignupInput) (*models.User, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, validationError("name", "is required")
	}
	addr, err := mail.ParseAddress(strings.TrimSpace(input.Email))
	if err != nil {
		return nil, validationError("email", "is not a valid address")
	}
	// store the bare mailbox so "Name <a@b>" and "a@b" are one account
	email := strings.ToLower(addr.Address)
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if input.Role != models.RoleAdmin && input.Role != models.RoleWorker {
		return nil, ErrInvalidRole
	}
	if input.AssignedLocation != nil {
		if err := input.AssignedLocation.Validate(); err != nil {
			return nil, validationError("assigned_location", "%v", err)
		}
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         input.Role,
	}

	var admin *models.AdminProfile
	var worker *models.WorkerProfile
	if input.Role == models.RoleAdmin {
		admin = &models.AdminProfile{Name: name}
	} else {
		worker = &models.WorkerProfile{Name: name}
		if input.AssignedLocation != nil {
			lat, lng := input.AssignedLocation.Latitude, input.AssignedLocation.Longitude
			worker.AssignedLatitude = &lat
			worker.AssignedLongitude = &lng
		}
	}

	if err := s.userRepo.CreateWithProfile(user, admin, worker); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, ErrEmailTaken
		case errors.Is(err, repository.ErrCreateUser):
			return nil, ErrFailedToCreateUser
		case errors.Is(err, repository.ErrCreateProfile):
			return nil, ErrFailedToCreateProfile
		default:
			return nil, fmt.Errorf("failed to complete signup: %w", err)
		}
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the authenticated user.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// ResolvePrincipal loads the user and the profile its role points at.
func (s *AuthService) ResolvePrincipal(userID uint64) (Principal, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}

	switch user.Role {
	case models.RoleAdmin:
		profile, err := s.profileRepo.FindAdmin(user.ProfileID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProfileMissing
			}
			return nil, fmt.Errorf("failed to find admin profile: %w", err)
		}
		return AdminPrincipal{User: user, Profile: profile}, nil
	case models.RoleWorker:
		profile, err := s.profileRepo.FindWorker(user.ProfileID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProfileMissing
			}
			return nil, fmt.Errorf("failed to find worker profile: %w", err)
		}
		return WorkerPrincipal{User: user, Profile: profile}, nil
	default:
		return nil, fmt.Errorf("user %d has unknown role %q", user.ID, user.Role)
	}
}

// ListWorkers lists all worker profiles.
func (s *AuthService) ListWorkers() ([]models.WorkerProfile, error) {
	workers, err := s.profileRepo.ListWorkers()
	if err != nil {
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}
	return workers, nil
}

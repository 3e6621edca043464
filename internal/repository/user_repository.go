package repository

import (
	"errors"
	"fmt"

	"github.com/yukikurage/field-attendance-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

var (
	// ErrCreateUser is returned when creating a user fails inside the signup transaction.
	ErrCreateUser = errors.New("user repository: create user failed")
	// ErrCreateProfile is returned when creating the role profile fails inside the signup transaction.
	ErrCreateProfile = errors.New("user repository: create profile failed")
	// ErrDuplicateEmail is returned when the email is already registered.
	ErrDuplicateEmail = errors.New("user repository: email already registered")
	// ErrProfileMismatch is returned when the supplied profile does not match the user's role.
	ErrProfileMismatch = errors.New("user repository: profile does not match role")
)

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// CreateWithProfile creates a role profile and the user referencing it atomically.
func (r *GormUserRepository) CreateWithProfile(user *models.User, admin *models.AdminProfile, worker *models.WorkerProfile) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		switch {
		case user.Role == models.RoleAdmin && admin != nil && worker == nil:
			if err := tx.Create(admin).Error; err != nil {
				return fmt.Errorf("%w: %w", ErrCreateProfile, err)
			}
			user.ProfileID = admin.ID
		case user.Role == models.RoleWorker && worker != nil && admin == nil:
			if err := tx.Create(worker).Error; err != nil {
				return fmt.Errorf("%w: %w", ErrCreateProfile, err)
			}
			user.ProfileID = worker.ID
		default:
			return ErrProfileMismatch
		}

		if err := tx.Create(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: %w", ErrDuplicateEmail, err)
			}
			return fmt.Errorf("%w: %w", ErrCreateUser, err)
		}

		return nil
	})
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

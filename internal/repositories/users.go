package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/quillnotes/server/internal/models"
	"gorm.io/gorm"
)

// UserStore persists user credentials. Email and username are each
// globally unique; the email check runs first so a duplicate email is
// reported even when the username also collides.
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	err := s.db.WithContext(ctx).Create(user).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("create user: %w", err)
	}

	// The unique index is the arbiter, so concurrent sign-ups cannot
	// slip past a pre-check. Which field collided decides the error;
	// email wins when both do.
	var existing models.User
	if lookupErr := s.db.WithContext(ctx).Where("email = ?", user.Email).First(&existing).Error; lookupErr == nil {
		return ErrDuplicateEmail
	}
	return ErrDuplicateUsername
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

func (s *UserStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// UpdatePassword replaces the stored password hash. Single-column
// update, committed atomically.
func (s *UserStore) UpdatePassword(ctx context.Context, user *models.User, newHash string) error {
	if err := s.db.WithContext(ctx).Model(user).Update("password", newHash).Error; err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	user.Password = newHash
	return nil
}

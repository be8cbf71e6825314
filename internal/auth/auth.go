// Package auth implements credential verification and account
// lifecycle on top of the user store and the validation policy.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/quillnotes/server/internal/models"
	"github.com/quillnotes/server/internal/policy"
	"github.com/quillnotes/server/internal/repositories"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNoSuchAccount    = errors.New("account not registered")
	ErrWrongPassword    = errors.New("incorrect password")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrSamePassword     = errors.New("new password matches the old one")
)

type Authenticator struct {
	users *repositories.UserStore
}

func NewAuthenticator(users *repositories.UserStore) *Authenticator {
	return &Authenticator{users: users}
}

// SignUp registers a new account and returns it as the caller's
// identity. Checks run in form order: email format, password strength,
// then uniqueness (email before username).
func (a *Authenticator) SignUp(ctx context.Context, username, email, password string) (*models.User, error) {
	if err := policy.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := policy.ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hash),
	}
	if err := a.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SignIn verifies the supplied credentials and returns the matching
// account. bcrypt's comparison is constant-time against the stored hash.
func (a *Authenticator) SignIn(ctx context.Context, email, password string) (*models.User, error) {
	if err := policy.ValidateEmail(email); err != nil {
		return nil, err
	}

	user, err := a.users.FindByEmail(ctx, email)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return nil, ErrNoSuchAccount
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrWrongPassword
	}
	return user, nil
}

// ResetPassword replaces an account's password. A reset to the current
// password is rejected; no-op password changes are not allowed.
func (a *Authenticator) ResetPassword(ctx context.Context, email, newPassword, confirmPassword string) error {
	if err := policy.ValidateEmail(email); err != nil {
		return err
	}
	if err := policy.ValidatePassword(newPassword); err != nil {
		return err
	}
	if newPassword != confirmPassword {
		return ErrPasswordMismatch
	}

	user, err := a.users.FindByEmail(ctx, email)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return ErrNoSuchAccount
	}
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(newPassword)) == nil {
		return ErrSamePassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return a.users.UpdatePassword(ctx, user, string(hash))
}

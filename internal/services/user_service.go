package services

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/plateful/recipe-api/internal/models"
	"github.com/plateful/recipe-api/internal/repository"
	"github.com/plateful/recipe-api/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

var ErrUserNotFound = errors.New("user not found")

type UserService struct {
	users repository.UserRepository
	store storage.ImageStore
}

func NewUserService(users repository.UserRepository, store storage.ImageStore) *UserService {
	return &UserService{users: users, store: store}
}

func (s *UserService) Get(userID uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile changes name and/or password; email is immutable. Nil fields
// are left untouched.
func (s *UserService) UpdateProfile(userID uuid.UUID, name, password *string) (*models.User, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if name != nil {
		user.Name = *name
	}
	if password != nil {
		if len(*password) < minPasswordLength {
			return nil, ErrPasswordTooShort
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = string(hash)
	}

	if err := s.users.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// DeleteAccount removes the user and everything the user owns, stored image
// blobs included.
func (s *UserService) DeleteAccount(userID uuid.UUID, password string) error {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return ErrUserNotFound
	}

	if user.Password != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
			return ErrInvalidCredentials
		}
	}

	imagePaths, err := s.users.Delete(userID)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	for _, path := range imagePaths {
		if err := s.store.Delete(path); err != nil {
			slog.Error("failed to delete image blob", "path", path, "error", err)
		}
	}
	return nil
}

func (s *UserService) List() ([]models.User, error) {
	return s.users.List()
}

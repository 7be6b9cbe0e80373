package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/plateful/recipe-api/internal/config"
	"github.com/plateful/recipe-api/internal/dto"
	"github.com/plateful/recipe-api/internal/models"
	"github.com/plateful/recipe-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 5

var (
	ErrEmailRequired      = errors.New("email is required")
	ErrEmailTaken         = errors.New("email already registered")
	ErrPasswordTooShort   = errors.New("password must be at least 5 characters")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
)

type AuthService struct {
	users  repository.UserRepository
	tokens repository.RefreshTokenRepository
	cfg    *config.Config
}

func NewAuthService(users repository.UserRepository, tokens repository.RefreshTokenRepository, cfg *config.Config) *AuthService {
	return &AuthService{users: users, tokens: tokens, cfg: cfg}
}

// CreateUser persists a new account. The email is normalized to lowercase
// before the uniqueness check. An empty password creates an account with no
// usable password; it cannot authenticate until one is set.
func (s *AuthService) CreateUser(email, password, name string) (*models.User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, ErrEmailRequired
	}

	if _, err := s.users.GetByEmail(email); err == nil {
		return nil, ErrEmailTaken
	}

	var hash string
	if password != "" {
		b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		hash = string(b)
	}

	user := models.User{
		ID:       uuid.New(),
		Email:    email,
		Password: hash,
		Name:     name,
		IsActive: true,
	}

	if err := s.users.Create(&user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

// CreateSuperuser creates a regular account and then escalates it, keeping
// the common creation path free of privilege flags.
func (s *AuthService) CreateSuperuser(email, password string) (*models.User, error) {
	user, err := s.CreateUser(email, password, "")
	if err != nil {
		return nil, err
	}

	user.IsStaff = true
	user.IsSuperuser = true
	if err := s.users.Update(user); err != nil {
		return nil, fmt.Errorf("failed to escalate user: %w", err)
	}
	return user, nil
}

func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if len(req.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	user, err := s.CreateUser(req.Email, req.Password, req.Name)
	if err != nil {
		return nil, err
	}
	return s.generateTokenPair(user)
}

// Authenticate verifies the credentials without revealing which check
// failed: unknown email, wrong password, inactive account and passwordless
// account all come back as ErrInvalidCredentials.
func (s *AuthService) Authenticate(email, password string) (*models.User, error) {
	user, err := s.users.GetByEmail(NormalizeEmail(email))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive || user.Password == "" {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthService) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.Authenticate(req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	return s.generateTokenPair(user)
}

func (s *AuthService) Refresh(req *dto.RefreshRequest) (*dto.AuthResponse, error) {
	tokenHash := hashToken(req.RefreshToken)

	stored, err := s.tokens.GetActiveByHash(tokenHash)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if time.Now().After(stored.ExpiresAt) {
		_ = s.tokens.Revoke(stored)
		return nil, ErrInvalidToken
	}

	if err := s.tokens.Revoke(stored); err != nil {
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	user, err := s.users.GetByID(stored.UserID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	return s.generateTokenPair(user)
}

func (s *AuthService) Logout(req *dto.LogoutRequest) error {
	return s.tokens.RevokeByHash(hashToken(req.RefreshToken))
}

func (s *AuthService) generateTokenPair(user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateRefreshToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User: dto.UserResponse{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.Name,
		},
	}, nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(s.cfg.JWTAccessExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) generateRefreshToken(user *models.User) (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	rawToken := base64.URLEncoding.EncodeToString(rawBytes)

	record := models.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: hashToken(rawToken),
		ExpiresAt: time.Now().Add(s.cfg.JWTRefreshExpiry),
	}

	if err := s.tokens.Create(&record); err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return rawToken, nil
}

// NormalizeEmail lowercases and trims an email address; lookups and
// uniqueness checks always operate on the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}

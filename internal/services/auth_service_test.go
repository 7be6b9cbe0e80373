package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/plateful/recipe-api/internal/config"
	"github.com/plateful/recipe-api/internal/dto"
	"github.com/plateful/recipe-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*models.User
	// image paths handed back by Delete, mimicking the cascade
	deleteImagePaths []string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*models.User)}
}

func (r *fakeUserRepo) Create(user *models.User) error {
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByID(id uuid.UUID) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) Update(user *models.User) error {
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Delete(id uuid.UUID) ([]string, error) {
	delete(r.users, id)
	return r.deleteImagePaths, nil
}

func (r *fakeUserRepo) List() ([]models.User, error) {
	result := make([]models.User, 0, len(r.users))
	for _, user := range r.users {
		result = append(result, *user)
	}
	return result, nil
}

type fakeTokenRepo struct {
	tokens map[string]*models.RefreshToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[string]*models.RefreshToken)}
}

func (r *fakeTokenRepo) Create(token *models.RefreshToken) error {
	copied := *token
	r.tokens[token.TokenHash] = &copied
	return nil
}

func (r *fakeTokenRepo) GetActiveByHash(hash string) (*models.RefreshToken, error) {
	token, ok := r.tokens[hash]
	if !ok || token.Revoked {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *token
	return &copied, nil
}

func (r *fakeTokenRepo) Revoke(token *models.RefreshToken) error {
	if stored, ok := r.tokens[token.TokenHash]; ok {
		stored.Revoked = true
	}
	return nil
}

func (r *fakeTokenRepo) RevokeByHash(hash string) error {
	if stored, ok := r.tokens[hash]; ok {
		stored.Revoked = true
	}
	return nil
}

func newTestAuthService() (*AuthService, *fakeUserRepo, *fakeTokenRepo) {
	users := newFakeUserRepo()
	tokens := newFakeTokenRepo()
	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: time.Hour,
	}
	return NewAuthService(users, tokens, cfg), users, tokens
}

func TestCreateUserNormalizesEmail(t *testing.T) {
	svc, _, _ := newTestAuthService()

	user, err := svc.CreateUser("  Test@EXAMPLE.com ", "secret-pass", "Test User")
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", user.Email)
	assert.True(t, user.IsActive)
	assert.False(t, user.IsStaff)
	assert.False(t, user.IsSuperuser)
	assert.NotEqual(t, "secret-pass", user.Password, "password must be stored hashed")
}

func TestCreateUserEmailRequired(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, err := svc.CreateUser("   ", "secret-pass", "")
	assert.ErrorIs(t, err, ErrEmailRequired)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, err := svc.CreateUser("dup@example.com", "secret-pass", "")
	require.NoError(t, err)

	_, err = svc.CreateUser("DUP@example.com", "other-pass", "")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestCreateUserWithoutPassword(t *testing.T) {
	svc, _, _ := newTestAuthService()

	user, err := svc.CreateUser("nopass@example.com", "", "")
	require.NoError(t, err)
	assert.Empty(t, user.Password)

	// An account with no usable password never authenticates.
	_, err = svc.Authenticate("nopass@example.com", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCreateSuperuser(t *testing.T) {
	svc, users, _ := newTestAuthService()

	user, err := svc.CreateSuperuser("admin@example.com", "admin-pass")
	require.NoError(t, err)
	assert.True(t, user.IsStaff)
	assert.True(t, user.IsSuperuser)

	stored, err := users.GetByID(user.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsStaff)
	assert.True(t, stored.IsSuperuser)
}

func TestRegisterShortPassword(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, err := svc.Register(&dto.RegisterRequest{Email: "short@example.com", Password: "pw"})
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestRegisterReturnsTokenPair(t *testing.T) {
	svc, _, _ := newTestAuthService()

	resp, err := svc.Register(&dto.RegisterRequest{
		Email:    "new@example.com",
		Password: "secret-pass",
		Name:     "New User",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "new@example.com", resp.User.Email)
	assert.Equal(t, "New User", resp.User.Name)
}

func TestLoginMixedCaseEmail(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, err := svc.CreateUser("case@example.com", "secret-pass", "")
	require.NoError(t, err)

	resp, err := svc.Login(&dto.LoginRequest{Email: "Case@Example.COM", Password: "secret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "case@example.com", resp.User.Email)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, err := svc.CreateUser("who@example.com", "secret-pass", "")
	require.NoError(t, err)

	_, err = svc.Login(&dto.LoginRequest{Email: "who@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, err := svc.Login(&dto.LoginRequest{Email: "ghost@example.com", Password: "secret-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginInactiveUser(t *testing.T) {
	svc, users, _ := newTestAuthService()

	user, err := svc.CreateUser("gone@example.com", "secret-pass", "")
	require.NoError(t, err)

	user.IsActive = false
	require.NoError(t, users.Update(user))

	_, err = svc.Login(&dto.LoginRequest{Email: "gone@example.com", Password: "secret-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _, _ := newTestAuthService()

	first, err := svc.Register(&dto.RegisterRequest{Email: "rot@example.com", Password: "secret-pass"})
	require.NoError(t, err)

	second, err := svc.Refresh(&dto.RefreshRequest{RefreshToken: first.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// The first refresh token was revoked by the rotation.
	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: first.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshUnknownToken(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, err := svc.Refresh(&dto.RefreshRequest{RefreshToken: "not-a-token"})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, _, _ := newTestAuthService()

	resp, err := svc.Register(&dto.RegisterRequest{Email: "bye@example.com", Password: "secret-pass"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(&dto.LogoutRequest{RefreshToken: resp.RefreshToken}))

	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

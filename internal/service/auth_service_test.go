package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/campusconnect/portal-api/internal/models"
	appErrors "github.com/campusconnect/portal-api/pkg/errors"
)

type mockAuthRepo struct {
	users            map[string]*models.User
	refreshTokens    map[string]*models.RefreshToken
	auditLogs        []*models.AuditLog
	lastLoginUpdated bool
}

func (m *mockAuthRepo) FindByLogin(ctx context.Context, role models.UserRole, loginID string) (*models.User, error) {
	for _, u := range m.users {
		if u.Role == role && (u.UserID == loginID || u.Email == loginID) {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	m.lastLoginUpdated = true
	return nil
}

func (m *mockAuthRepo) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	return nil
}

func (m *mockAuthRepo) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	if m.refreshTokens == nil {
		m.refreshTokens = make(map[string]*models.RefreshToken)
	}
	m.refreshTokens[token.Token] = token
	return nil
}

func (m *mockAuthRepo) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	rt, ok := m.refreshTokens[token]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return rt, nil
}

func (m *mockAuthRepo) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	for _, token := range m.refreshTokens {
		if token.ID == id {
			token.Revoked = true
			token.RevokedAt = &revokedAt
		}
	}
	return nil
}

func (m *mockAuthRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.auditLogs = append(m.auditLogs, log)
	return nil
}

func newAuthRepo(users ...*models.User) *mockAuthRepo {
	repo := &mockAuthRepo{users: map[string]*models.User{}}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func studentUser(t *testing.T) *models.User {
	t.Helper()
	password, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	require.NoError(t, err)
	return &models.User{
		ID:           "u1",
		UserID:       "21CS042",
		Email:        "priya@campus.edu",
		PasswordHash: string(password),
		FullName:     "Priya R",
		Role:         models.RoleStudent,
		Section:      "A",
		Active:       true,
	}
}

func newAuthService(repo *mockAuthRepo) *AuthService {
	return NewAuthService(repo, validator.New(), zap.NewNop(), AuthConfig{
		AccessTokenSecret:  "secret",
		AccessTokenExpiry:  time.Hour,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "campus-connect",
	})
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	repo := newAuthRepo(studentUser(t))
	svc := newAuthService(repo)

	res, err := svc.Login(context.Background(), models.LoginRequest{
		Role: "student", LoginID: "21CS042", Password: "password",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)
	assert.Equal(t, models.RoleStudent, res.User.Role)
	assert.Equal(t, "21CS042", res.User.UserID)
	assert.True(t, repo.lastLoginUpdated)
	require.Len(t, repo.auditLogs, 1)
	assert.Equal(t, models.AuditActionLogin, repo.auditLogs[0].Action)
}

func TestAuthServiceLoginByEmail(t *testing.T) {
	repo := newAuthRepo(studentUser(t))
	svc := newAuthService(repo)

	res, err := svc.Login(context.Background(), models.LoginRequest{
		Role: "student", LoginID: "priya@campus.edu", Password: "password",
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", res.User.ID)
}

func TestAuthServiceLoginWrongRoleTab(t *testing.T) {
	repo := newAuthRepo(studentUser(t))
	svc := newAuthService(repo)

	// Correct credentials presented against the wrong role are rejected.
	_, err := svc.Login(context.Background(), models.LoginRequest{
		Role: "hod", LoginID: "21CS042", Password: "password",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	repo := newAuthRepo(studentUser(t))
	svc := newAuthService(repo)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Role: "student", LoginID: "21CS042", Password: "nope",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginUnknownRoleRejectedByValidation(t *testing.T) {
	repo := newAuthRepo(studentUser(t))
	svc := newAuthService(repo)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Role: "janitor", LoginID: "21CS042", Password: "password",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceRefreshRotatesToken(t *testing.T) {
	repo := newAuthRepo(studentUser(t))
	svc := newAuthService(repo)

	res, err := svc.Login(context.Background(), models.LoginRequest{
		Role: "student", LoginID: "21CS042", Password: "password",
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: res.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, res.RefreshToken, refreshed.RefreshToken)

	// The used token is revoked; replaying it fails.
	_, err = svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: res.RefreshToken})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceValidateToken(t *testing.T) {
	repo := newAuthRepo(studentUser(t))
	svc := newAuthService(repo)

	res, err := svc.Login(context.Background(), models.LoginRequest{
		Role: "student", LoginID: "21CS042", Password: "password",
	})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleStudent, claims.Role)

	_, err = svc.ValidateToken("garbage")
	assert.Error(t, err)
}

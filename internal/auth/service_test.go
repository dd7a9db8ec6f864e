package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	pkgAuth "github.com/juicejoy/juicejoy-backend/pkg/auth"
	"github.com/juicejoy/juicejoy-backend/pkg/config"
	"github.com/juicejoy/juicejoy-backend/pkg/db/models"
	"github.com/juicejoy/juicejoy-backend/pkg/enums"
	pkgerrors "github.com/juicejoy/juicejoy-backend/pkg/errors"
	"github.com/juicejoy/juicejoy-backend/pkg/security"
)

type stubUserRepo struct {
	byPhone map[string]*models.User
	byEmail map[string]*models.User
	created []*models.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byPhone: map[string]*models.User{},
		byEmail: map[string]*models.User{},
	}
}

func (s *stubUserRepo) FindByPhone(_ context.Context, phone string) (*models.User, error) {
	if user, ok := s.byPhone[phone]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) Create(_ context.Context, user *models.User) (*models.User, error) {
	user.ID = uuid.New()
	if user.Phone != nil {
		s.byPhone[*user.Phone] = user
	}
	if user.Email != nil {
		s.byEmail[*user.Email] = user
	}
	s.created = append(s.created, user)
	return user, nil
}

type stubSessions struct {
	created []string
	revoked []string
}

func (s *stubSessions) Create(_ context.Context, accessID string) error {
	s.created = append(s.created, accessID)
	return nil
}

func (s *stubSessions) Revoke(_ context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "juicejoy",
		ExpirationMinutes: 60,
	}
}

func newTestService(t *testing.T, repo *stubUserRepo, sessions *stubSessions) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		JWTConfig:      testJWTConfig(),
	})
	require.NoError(t, err)
	return svc
}

func TestPhoneLoginCreatesCustomerOnFirstContact(t *testing.T) {
	repo := newStubUserRepo()
	sessions := &stubSessions{}
	svc := newTestService(t, repo, sessions)

	name := "Jordan"
	resp, err := svc.PhoneLogin(context.Background(), PhoneLoginRequest{Phone: "+15551234567", Name: &name})
	require.NoError(t, err)

	require.Len(t, repo.created, 1)
	assert.Equal(t, enums.UserRoleCustomer, repo.created[0].Role)
	assert.Equal(t, "+15551234567", *repo.created[0].Phone)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Len(t, sessions.created, 1)

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, repo.created[0].ID, claims.UserID)
	assert.Equal(t, enums.UserRoleCustomer, claims.Role)
}

func TestPhoneLoginReusesExistingUser(t *testing.T) {
	repo := newStubUserRepo()
	phone := "+15551234567"
	existing := &models.User{ID: uuid.New(), Phone: &phone, Role: enums.UserRoleCustomer}
	repo.byPhone[phone] = existing
	svc := newTestService(t, repo, &stubSessions{})

	resp, err := svc.PhoneLogin(context.Background(), PhoneLoginRequest{Phone: phone})
	require.NoError(t, err)

	assert.Empty(t, repo.created)
	assert.Equal(t, existing.ID, resp.User.ID)
}

func TestEmailLoginNormalizesAddress(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo, &stubSessions{})

	_, err := svc.EmailLogin(context.Background(), EmailLoginRequest{Email: "  Casey@Example.COM "})
	require.NoError(t, err)

	require.Len(t, repo.created, 1)
	assert.Equal(t, "casey@example.com", *repo.created[0].Email)
}

func TestEmailLoginRejectsBusinessOwnerAccount(t *testing.T) {
	repo := newStubUserRepo()
	email := "owner@juicejoy.com"
	repo.byEmail[email] = &models.User{ID: uuid.New(), Email: &email, Role: enums.UserRoleBusinessOwner}
	svc := newTestService(t, repo, &stubSessions{})

	_, err := svc.EmailLogin(context.Background(), EmailLoginRequest{Email: email})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestBusinessLoginVerifiesPassword(t *testing.T) {
	hash, err := security.HashPassword("orchard-gate", config.PasswordConfig{})
	require.NoError(t, err)

	repo := newStubUserRepo()
	email := "owner@juicejoy.com"
	repo.byEmail[email] = &models.User{
		ID:           uuid.New(),
		Email:        &email,
		PasswordHash: &hash,
		Role:         enums.UserRoleBusinessOwner,
	}
	sessions := &stubSessions{}
	svc := newTestService(t, repo, sessions)

	resp, err := svc.BusinessLogin(context.Background(), BusinessLoginRequest{Email: email, Password: "orchard-gate"})
	require.NoError(t, err)
	assert.Equal(t, enums.UserRoleBusinessOwner, resp.User.Role)
	assert.Len(t, sessions.created, 1)

	_, err = svc.BusinessLogin(context.Background(), BusinessLoginRequest{Email: email, Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestBusinessLoginRejectsCustomerAccount(t *testing.T) {
	repo := newStubUserRepo()
	email := "casey@example.com"
	repo.byEmail[email] = &models.User{ID: uuid.New(), Email: &email, Role: enums.UserRoleCustomer}
	svc := newTestService(t, repo, &stubSessions{})

	_, err := svc.BusinessLogin(context.Background(), BusinessLoginRequest{Email: email, Password: "whatever"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestBusinessLoginUnknownEmail(t *testing.T) {
	svc := newTestService(t, newStubUserRepo(), &stubSessions{})

	_, err := svc.BusinessLogin(context.Background(), BusinessLoginRequest{Email: "ghost@example.com", Password: "pw"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestLogoutRevokesSession(t *testing.T) {
	sessions := &stubSessions{}
	svc := newTestService(t, newStubUserRepo(), sessions)

	require.NoError(t, svc.Logout(context.Background(), "access-123"))
	assert.Equal(t, []string{"access-123"}, sessions.revoked)
}

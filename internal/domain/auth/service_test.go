package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/mariiahub/booking-api/pkg/errors"
)

func newTestService(repo Repository, admins ...string) Service {
	return NewService(Config{
		Secret:          "test-secret",
		TokenTTL:        time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
		AdminEmails:     admins,
	}, repo, newTestLogger())
}

func TestService_RegisterLoginAndRefresh(t *testing.T) {
	svc := newTestService(newMemoryRepo())

	view, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "Anna@Test.com",
		Password: "pass1234",
		Name:     "  Anna   Nowak ",
		Phone:    "+48 600 000 000",
	})
	require.NoError(t, err)
	require.Equal(t, "anna@test.com", view.Email)
	require.Equal(t, "Anna Nowak", view.Name)
	require.Equal(t, RoleCustomer, view.Role)
	require.NotZero(t, view.ID)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "anna@test.com",
		Password: "pass1234",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.NotEmpty(t, resp.RefreshToken)
	require.Equal(t, view.Email, resp.User.Email)

	claims, err := svc.ValidateToken(context.Background(), resp.Token)
	require.NoError(t, err)
	require.Equal(t, view.ID, claims.UserID)
	require.Equal(t, view.Email, claims.Email)
	require.False(t, claims.IsAdmin())
	require.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, time.Minute)

	_, err = svc.ValidateToken(context.Background(), resp.RefreshToken)
	require.True(t, apperrors.IsCode(err, "invalid_token"))

	refreshed, err := svc.Refresh(context.Background(), resp.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, resp.Token, refreshed.Token)
	require.Equal(t, "Anna Nowak", refreshed.User.Name)

	profile, err := svc.Profile(context.Background(), view.ID)
	require.NoError(t, err)
	require.Equal(t, "+48 600 000 000", profile.Phone)
}

func TestService_AdminRole(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, " Owner@Studio.pl ")

	view, err := svc.Register(context.Background(), RegisterRequest{Email: "owner@studio.pl", Password: "pass1234", Name: "Mariia"})
	require.NoError(t, err)
	require.Equal(t, RoleAdmin, view.Role)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "owner@studio.pl", Password: "pass1234"})
	require.NoError(t, err)
	claims, err := svc.ValidateToken(context.Background(), resp.Token)
	require.NoError(t, err)
	require.True(t, claims.IsAdmin())
}

func TestService_LoginPromotesListedEmail(t *testing.T) {
	repo := newMemoryRepo()
	_, err := newTestService(repo).Register(context.Background(), RegisterRequest{Email: "ola@studio.pl", Password: "pass1234", Name: "Ola"})
	require.NoError(t, err)

	resp, err := newTestService(repo, "ola@studio.pl").Login(context.Background(), LoginRequest{Email: "ola@studio.pl", Password: "pass1234"})
	require.NoError(t, err)
	require.Equal(t, RoleAdmin, resp.User.Role)

	stored, _, _ := repo.GetByEmail(context.Background(), "ola@studio.pl")
	require.Equal(t, RoleAdmin, stored.Role)
}

func TestService_DuplicateEmail(t *testing.T) {
	svc := newTestService(newMemoryRepo())

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "user@example.com",
		Password: "pass1234",
		Name:     "First",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterRequest{
		Email:    "user@example.com",
		Password: "pass12345",
		Name:     "Second",
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "already registered")
}

func TestService_RejectsBadInput(t *testing.T) {
	svc := newTestService(newMemoryRepo())

	_, err := svc.Register(context.Background(), RegisterRequest{Email: "nope", Password: "pass1234", Name: "Anna"})
	require.True(t, apperrors.IsCode(err, "invalid_input"))
	_, err = svc.Register(context.Background(), RegisterRequest{Email: "a@b.pl", Password: "short", Name: "Anna"})
	require.True(t, apperrors.IsCode(err, "invalid_input"))
	_, err = svc.Register(context.Background(), RegisterRequest{Email: "a@b.pl", Password: "pass1234", Name: "   "})
	require.True(t, apperrors.IsCode(err, "invalid_input"))

	_, err = svc.Login(context.Background(), LoginRequest{Email: "a@b.pl", Password: "pass1234"})
	require.True(t, apperrors.IsCode(err, "invalid_credentials"))
	_, err = svc.ValidateToken(context.Background(), "garbage")
	require.True(t, apperrors.IsCode(err, "invalid_token"))
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

type memoryRepo struct {
	users map[int64]User
	seq   int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{users: make(map[int64]User)}
}

func (m *memoryRepo) Create(_ context.Context, user User) (User, error) {
	m.seq++
	user.ID = m.seq
	user.CreatedAt = time.Now()
	m.users[user.ID] = user
	return user, nil
}

func (m *memoryRepo) GetByEmail(_ context.Context, email string) (User, bool, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, true, nil
		}
	}
	return User{}, false, nil
}

func (m *memoryRepo) GetByID(_ context.Context, id int64) (User, bool, error) {
	user, ok := m.users[id]
	return user, ok, nil
}

func (m *memoryRepo) UpdateRole(_ context.Context, id int64, role Role) error {
	user := m.users[id]
	user.Role = role
	m.users[id] = user
	return nil
}

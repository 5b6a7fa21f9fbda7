package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chamado-hub/helpdesk/internal/api/http/handlers"
	"github.com/chamado-hub/helpdesk/internal/config"
	"github.com/chamado-hub/helpdesk/internal/domain"
	"github.com/chamado-hub/helpdesk/internal/repository"
	"github.com/chamado-hub/helpdesk/internal/service"
)

type stubUserRepo struct {
	byEmail map[string]*domain.User
}

func (s *stubUserRepo) Create(context.Context, *domain.User) error { return nil }
func (s *stubUserRepo) Update(context.Context, *domain.User) error { return nil }

func (s *stubUserRepo) GetByID(context.Context, string) (*domain.User, error) {
	return nil, pgx.ErrNoRows
}

func (s *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := s.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return u, nil
}

func (s *stubUserRepo) ListByCompany(context.Context, string, int, int) ([]domain.User, error) {
	return nil, nil
}

func (s *stubUserRepo) ListByRole(context.Context, domain.Role) ([]domain.User, error) {
	return nil, nil
}

type stubResetRepo struct {
	created []*repository.PasswordResetToken
}

func (s *stubResetRepo) Create(_ context.Context, token *repository.PasswordResetToken) error {
	token.ID = "reset-1"
	s.created = append(s.created, token)
	return nil
}

func (s *stubResetRepo) GetByToken(context.Context, string) (*repository.PasswordResetToken, error) {
	return nil, pgx.ErrNoRows
}

func (s *stubResetRepo) MarkUsed(context.Context, string) error { return nil }

func newAuthTestApp(env string) (*fiber.App, *stubResetRepo) {
	cfg := config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.AccessTokenTTLMinutes = 60
	cfg.Auth.PasswordResetTTLMinutes = 30
	cfg.Auth.BcryptCost = 4

	users := &stubUserRepo{byEmail: map[string]*domain.User{
		"ana@example.com": {ID: "user-1", Email: "ana@example.com", Role: domain.RoleClient, Active: true},
	}}
	resets := &stubResetRepo{}
	authService := service.NewAuthService(cfg, service.AuthDependencies{
		UserRepo:          users,
		PasswordResetRepo: resets,
	})

	app := fiber.New()
	app.Post("/auth/password/reset/request", handlers.NewAuthHandler(authService, env).RequestPasswordReset)
	return app, resets
}

func requestReset(t *testing.T, app *fiber.App, email string) map[string]any {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/auth/password/reset/request",
		strings.NewReader(`{"email":"`+email+`"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return payload.Data
}

func TestPasswordResetEchoesTokenInDevelopment(t *testing.T) {
	app, resets := newAuthTestApp("development")

	data := requestReset(t, app, "ana@example.com")
	require.Len(t, resets.created, 1)
	assert.Equal(t, resets.created[0].Token, data["token"])
}

func TestPasswordResetHidesTokenInProduction(t *testing.T) {
	app, resets := newAuthTestApp("production")

	data := requestReset(t, app, "ana@example.com")
	require.Len(t, resets.created, 1)
	assert.NotContains(t, data, "token")
}

func TestPasswordResetDoesNotRevealUnknownEmails(t *testing.T) {
	app, resets := newAuthTestApp("development")

	data := requestReset(t, app, "ninguem@example.com")
	assert.Empty(t, resets.created)
	assert.NotContains(t, data, "token")
}

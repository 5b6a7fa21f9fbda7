package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httpapi "github.com/chamado-hub/helpdesk/internal/api/http"
	"github.com/chamado-hub/helpdesk/internal/api/http/handlers"
	"github.com/chamado-hub/helpdesk/internal/domain"
	"github.com/chamado-hub/helpdesk/internal/sla"
)

type stubTicketStore struct {
	critical []domain.Ticket
}

func (s *stubTicketStore) ListActiveWithDeadlines(context.Context) ([]domain.Ticket, error) {
	return nil, nil
}

func (s *stubTicketStore) ListCritical(context.Context) ([]domain.Ticket, error) {
	return s.critical, nil
}

func (s *stubTicketStore) UpdateSLAStatus(context.Context, string, domain.SLAStatus) error {
	return nil
}

func newSLATestApp(cronToken string, store *stubTicketStore) *fiber.App {
	policy := sla.DefaultPolicy()
	handler := handlers.NewSLAHandler(
		sla.NewReconciler(store, policy, zap.NewNop()),
		sla.NewSelector(store, policy),
		nil,
		cronToken,
	)

	app := fiber.New()
	httpapi.RegisterMiddlewares(app, zap.NewNop(), nil, 0)
	app.Post("/sla/cron", handler.Cron)
	app.Get("/sla/cron", handler.CronInfo)
	app.Get("/sla/alerts", handler.Alerts)
	return app
}

func TestCronRejectsMissingToken(t *testing.T) {
	app := newSLATestApp("secret", &stubTicketStore{})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/sla/cron", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCronRejectsWrongToken(t *testing.T) {
	app := newSLATestApp("secret", &stubTicketStore{})

	req := httptest.NewRequest(http.MethodPost, "/sla/cron", nil)
	req.Header.Set("Authorization", "Bearer nope")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCronAcceptsBearerToken(t *testing.T) {
	app := newSLATestApp("secret", &stubTicketStore{})

	req := httptest.NewRequest(http.MethodPost, "/sla/cron", nil)
	req.Header.Set("Authorization", "Bearer secret")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCronOpenWhenNoTokenConfigured(t *testing.T) {
	app := newSLATestApp("", &stubTicketStore{})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/sla/cron", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCronInfoNeverReconciles(t *testing.T) {
	app := newSLATestApp("secret", &stubTicketStore{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/sla/cron", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "POST to this endpoint")
}

func TestAlertsReturnsSummary(t *testing.T) {
	deadline := time.Now().Add(30 * time.Minute)
	store := &stubTicketStore{critical: []domain.Ticket{{
		ID:                  "t-1",
		Code:                "CH-AB12CD",
		Status:              domain.TicketStatusOpen,
		SLAStatus:           domain.SLANearingDeadline,
		SLAResponseDeadline: &deadline,
	}}}
	app := newSLATestApp("", store)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/sla/alerts", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Data struct {
			Alerts []struct {
				Urgency string `json:"urgency"`
			} `json:"alerts"`
			Summary sla.Summary `json:"summary"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.Len(t, payload.Data.Alerts, 1)
	assert.Equal(t, string(sla.UrgencyHigh), payload.Data.Alerts[0].Urgency)
	assert.Equal(t, 1, payload.Data.Summary.Total)
	assert.Equal(t, 1, payload.Data.Summary.NearDeadline)
}

package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chamado-hub/helpdesk/internal/domain"
	"github.com/chamado-hub/helpdesk/internal/repository"
	"github.com/chamado-hub/helpdesk/internal/sla"
)

type fakeTicketRepo struct {
	tickets map[string]*domain.Ticket
	seq     int
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[string]*domain.Ticket{}}
}

func (f *fakeTicketRepo) Create(_ context.Context, t *domain.Ticket) error {
	f.seq++
	t.ID = fmt.Sprintf("ticket-%d", f.seq)
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	clone := *t
	f.tickets[t.ID] = &clone
	return nil
}

func (f *fakeTicketRepo) Update(_ context.Context, t *domain.Ticket) error {
	if _, ok := f.tickets[t.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *t
	f.tickets[t.ID] = &clone
	return nil
}

func (f *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	t, ok := f.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *t
	return &clone, nil
}

func (f *fakeTicketRepo) GetByCode(_ context.Context, code string) (*domain.Ticket, error) {
	for _, t := range f.tickets {
		if t.Code == code {
			clone := *t
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeTicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	var out []domain.Ticket
	for _, t := range f.tickets {
		if filter.AuthorID != nil && t.AuthorID != *filter.AuthorID {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeTicketRepo) CountWithFilter(ctx context.Context, filter repository.TicketFilter) (int, error) {
	list, err := f.ListWithFilter(ctx, filter)
	return len(list), err
}

func (f *fakeTicketRepo) ListActiveWithDeadlines(context.Context) ([]domain.Ticket, error) {
	return nil, nil
}

func (f *fakeTicketRepo) ListCritical(context.Context) ([]domain.Ticket, error) {
	return nil, nil
}

func (f *fakeTicketRepo) UpdateSLAStatus(_ context.Context, id string, status domain.SLAStatus) error {
	t, ok := f.tickets[id]
	if !ok {
		return pgx.ErrNoRows
	}
	t.SLAStatus = status
	return nil
}

func (f *fakeTicketRepo) CountCreatedBetween(context.Context, time.Time, time.Time) (int, error) {
	return 0, nil
}

func (f *fakeTicketRepo) CountClosedBetween(context.Context, time.Time, time.Time) (int, error) {
	return 0, nil
}

func (f *fakeTicketRepo) CountByStatuses(context.Context, ...domain.TicketStatus) (int, error) {
	return 0, nil
}

func (f *fakeTicketRepo) CountBySLAStatus(context.Context) (map[domain.SLAStatus]int, error) {
	return nil, nil
}

func (f *fakeTicketRepo) AverageResponseHours(context.Context, time.Time, time.Time) (float64, error) {
	return 0, nil
}

func (f *fakeTicketRepo) AverageResolutionHours(context.Context, time.Time, time.Time) (float64, error) {
	return 0, nil
}

type fakeUpdateRepo struct {
	updates []domain.TicketUpdate
	seq     int
}

func (f *fakeUpdateRepo) Create(_ context.Context, u *domain.TicketUpdate) error {
	f.seq++
	u.ID = fmt.Sprintf("update-%d", f.seq)
	u.CreatedAt = time.Now()
	f.updates = append(f.updates, *u)
	return nil
}

func (f *fakeUpdateRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketUpdate, error) {
	var out []domain.TicketUpdate
	for _, u := range f.updates {
		if u.TicketID == ticketID {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeHistoryRepo struct {
	entries []domain.TicketHistory
}

func (f *fakeHistoryRepo) Create(_ context.Context, e *domain.TicketHistory) error {
	f.entries = append(f.entries, *e)
	return nil
}

func (f *fakeHistoryRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketHistory, error) {
	var out []domain.TicketHistory
	for _, e := range f.entries {
		if e.TicketID == ticketID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeHistoryRepo) byType(changeType domain.TicketChangeType) []domain.TicketHistory {
	var out []domain.TicketHistory
	for _, e := range f.entries {
		if e.ChangeType == changeType {
			out = append(out, e)
		}
	}
	return out
}

type fakeUserRepo struct {
	users map[string]*domain.User
}

func (f *fakeUserRepo) Create(context.Context, *domain.User) error { return nil }
func (f *fakeUserRepo) Update(context.Context, *domain.User) error { return nil }

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(context.Context, string) (*domain.User, error) {
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) ListByCompany(context.Context, string, int, int) ([]domain.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) ListByRole(context.Context, domain.Role) ([]domain.User, error) {
	return nil, nil
}

type fakeTypeRepo struct {
	types map[string]*domain.TicketType
}

func (f *fakeTypeRepo) Create(context.Context, *domain.TicketType) error { return nil }
func (f *fakeTypeRepo) Update(context.Context, *domain.TicketType) error { return nil }
func (f *fakeTypeRepo) Delete(context.Context, string) error             { return nil }

func (f *fakeTypeRepo) GetByID(_ context.Context, id string) (*domain.TicketType, error) {
	tt, ok := f.types[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return tt, nil
}

func (f *fakeTypeRepo) ListByCompany(context.Context, string) ([]domain.TicketType, error) {
	return nil, nil
}

type fixture struct {
	svc     *TicketService
	tickets *fakeTicketRepo
	updates *fakeUpdateRepo
	history *fakeHistoryRepo
}

func newFixture() *fixture {
	company := "company-1"
	four := 4
	twentyFour := 24

	tickets := newFakeTicketRepo()
	updates := &fakeUpdateRepo{}
	history := &fakeHistoryRepo{}
	users := &fakeUserRepo{users: map[string]*domain.User{
		"client-1": {ID: "client-1", CompanyID: &company, Role: domain.RoleClient, Active: true},
		"client-2": {ID: "client-2", CompanyID: &company, Role: domain.RoleClient, Active: true},
		"agent-1":  {ID: "agent-1", Role: domain.RoleAgent, Active: true},
		"agent-2":  {ID: "agent-2", Role: domain.RoleAgent, Active: true},
	}}
	types := &fakeTypeRepo{types: map[string]*domain.TicketType{
		"type-1": {ID: "type-1", CompanyID: company, Name: "Acesso", SLAResponseHours: &four, SLASolutionHours: &twentyFour},
		"type-2": {ID: "type-2", CompanyID: company, Name: "Dúvida"},
	}}

	svc := NewTicketService(TicketDependencies{
		TicketRepo:  tickets,
		UpdateRepo:  updates,
		HistoryRepo: history,
		UserRepo:    users,
		TypeRepo:    types,
		Calculator:  sla.NewCalculator(types),
		Policy:      sla.DefaultPolicy(),
	})
	return &fixture{svc: svc, tickets: tickets, updates: updates, history: history}
}

func (fx *fixture) client() *domain.User {
	company := "company-1"
	return &domain.User{ID: "client-1", CompanyID: &company, Role: domain.RoleClient, Active: true}
}

func (fx *fixture) agent() *domain.User {
	return &domain.User{ID: "agent-1", Role: domain.RoleAgent, Active: true}
}

func (fx *fixture) createTicket(t *testing.T) *domain.Ticket {
	t.Helper()
	ticket, err := fx.svc.CreateTicket(context.Background(), fx.client(), TicketCreateInput{
		TicketTypeID: "type-1",
		Title:        "Sem acesso ao sistema",
		Description:  "Não consigo entrar desde ontem.",
	})
	require.NoError(t, err)
	return ticket
}

func TestCreateTicketStampsDeadlines(t *testing.T) {
	fx := newFixture()
	before := time.Now()

	ticket := fx.createTicket(t)

	assert.Contains(t, ticket.Code, "CH-")
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.Equal(t, domain.SLAWithinDeadline, ticket.SLAStatus)
	require.NotNil(t, ticket.SLAResponseDeadline)
	require.NotNil(t, ticket.SLASolutionDeadline)
	assert.WithinDuration(t, before.Add(4*time.Hour), *ticket.SLAResponseDeadline, 2*time.Second)
	assert.WithinDuration(t, before.Add(24*time.Hour), *ticket.SLASolutionDeadline, 2*time.Second)

	// Description becomes the first thread entry.
	thread, err := fx.updates.ListByTicket(context.Background(), ticket.ID)
	require.NoError(t, err)
	require.Len(t, thread, 1)
	assert.Equal(t, "client-1", thread[0].SenderID)
}

func TestCreateTicketWithoutSLAConfigIsUntracked(t *testing.T) {
	fx := newFixture()

	ticket, err := fx.svc.CreateTicket(context.Background(), fx.client(), TicketCreateInput{
		TicketTypeID: "type-2",
		Title:        "Como exporto o relatório?",
	})
	require.NoError(t, err)
	assert.Nil(t, ticket.SLAResponseDeadline)
	assert.Nil(t, ticket.SLASolutionDeadline)
	assert.Equal(t, domain.SLAWithinDeadline, ticket.SLAStatus)
}

func TestCreateTicketRejectsForeignType(t *testing.T) {
	fx := newFixture()
	other := "company-2"
	author := &domain.User{ID: "client-9", CompanyID: &other, Role: domain.RoleClient, Active: true}

	_, err := fx.svc.CreateTicket(context.Background(), author, TicketCreateInput{
		TicketTypeID: "type-1",
		Title:        "x",
	})
	assert.Error(t, err)
}

func TestStaffReplyStampsFirstResponseOnce(t *testing.T) {
	fx := newFixture()
	ticket := fx.createTicket(t)

	_, err := fx.svc.AddUpdate(context.Background(), fx.agent(), ticket.ID, "Estamos verificando.", nil)
	require.NoError(t, err)

	stored, err := fx.tickets.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.FirstResponseAt)
	first := *stored.FirstResponseAt
	require.NotNil(t, stored.AssigneeID)
	assert.Equal(t, "agent-1", *stored.AssigneeID)
	assert.Equal(t, domain.TicketStatusPendingClient, stored.Status)

	// A second staff reply never moves the first-response stamp.
	second := &domain.User{ID: "agent-2", Role: domain.RoleAgent, Active: true}
	_, err = fx.svc.AddUpdate(context.Background(), second, ticket.ID, "Alguma novidade?", nil)
	require.NoError(t, err)

	stored, err = fx.tickets.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, first, *stored.FirstResponseAt)
	assert.Equal(t, "agent-1", *stored.AssigneeID)
}

func TestClientReplyReturnsTicketToQueue(t *testing.T) {
	fx := newFixture()
	ticket := fx.createTicket(t)

	_, err := fx.svc.AddUpdate(context.Background(), fx.agent(), ticket.ID, "Pode testar novamente?", nil)
	require.NoError(t, err)
	_, err = fx.svc.AddUpdate(context.Background(), fx.client(), ticket.ID, "Continua sem funcionar.", nil)
	require.NoError(t, err)

	stored, err := fx.tickets.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, stored.Status)
	require.NotNil(t, stored.FirstResponseAt)
}

func TestAddUpdateDeniedForOtherClient(t *testing.T) {
	fx := newFixture()
	ticket := fx.createTicket(t)

	company := "company-1"
	intruder := &domain.User{ID: "client-2", CompanyID: &company, Role: domain.RoleClient, Active: true}
	_, err := fx.svc.AddUpdate(context.Background(), intruder, ticket.ID, "oi", nil)
	assert.Error(t, err)
}

func TestAddUpdateRejectedOnClosedTicket(t *testing.T) {
	fx := newFixture()
	ticket := fx.createTicket(t)

	_, err := fx.svc.ChangeStatus(context.Background(), fx.agent(), ticket.ID, domain.TicketStatusClosed)
	require.NoError(t, err)

	_, err = fx.svc.AddUpdate(context.Background(), fx.client(), ticket.ID, "ainda aberto?", nil)
	assert.Error(t, err)
}

func TestChangeStatusSetsClosedAt(t *testing.T) {
	fx := newFixture()
	ticket := fx.createTicket(t)

	closed, err := fx.svc.ChangeStatus(context.Background(), fx.agent(), ticket.ID, domain.TicketStatusClosed)
	require.NoError(t, err)
	require.NotNil(t, closed.ClosedAt)

	entries := fx.history.byType(domain.ChangeTypeStatus)
	require.NotEmpty(t, entries)
	last := entries[len(entries)-1]
	assert.Equal(t, map[string]any{"status": domain.TicketStatusOpen}, last.OldValue)
}

func TestChangeStatusRejectsInvalidTransition(t *testing.T) {
	fx := newFixture()
	ticket := fx.createTicket(t)

	_, err := fx.svc.ChangeStatus(context.Background(), fx.agent(), ticket.ID, domain.TicketStatusClosed)
	require.NoError(t, err)

	_, err = fx.svc.ChangeStatus(context.Background(), fx.agent(), ticket.ID, domain.TicketStatusInProgress)
	assert.Error(t, err)
}

func TestChangeAssigneeValidatesStaff(t *testing.T) {
	fx := newFixture()
	ticket := fx.createTicket(t)

	clientID := "client-2"
	_, err := fx.svc.ChangeAssignee(context.Background(), fx.agent(), ticket.ID, &clientID)
	assert.Error(t, err)

	agentID := "agent-2"
	updated, err := fx.svc.ChangeAssignee(context.Background(), fx.agent(), ticket.ID, &agentID)
	require.NoError(t, err)
	require.NotNil(t, updated.AssigneeID)
	assert.Equal(t, "agent-2", *updated.AssigneeID)
	assert.NotEmpty(t, fx.history.byType(domain.ChangeTypeAssignee))
}

func TestRateTicketRules(t *testing.T) {
	fx := newFixture()
	ticket := fx.createTicket(t)

	// Open tickets cannot be rated.
	_, err := fx.svc.RateTicket(context.Background(), fx.client(), ticket.ID, 5, "")
	assert.Error(t, err)

	_, err = fx.svc.ChangeStatus(context.Background(), fx.agent(), ticket.ID, domain.TicketStatusClosed)
	require.NoError(t, err)

	// Only the author rates.
	_, err = fx.svc.RateTicket(context.Background(), fx.agent(), ticket.ID, 5, "")
	assert.Error(t, err)

	rated, err := fx.svc.RateTicket(context.Background(), fx.client(), ticket.ID, 4, "Resolvido, demorou um pouco.")
	require.NoError(t, err)
	require.NotNil(t, rated.Rating)
	assert.Equal(t, 4, *rated.Rating)

	// Exactly once.
	_, err = fx.svc.RateTicket(context.Background(), fx.client(), ticket.ID, 5, "")
	assert.Error(t, err)
}

func TestStringPreviewTruncatesOnRunes(t *testing.T) {
	assert.Equal(t, "oi", stringPreview("  oi  ", 120))

	// Accented content must never be cut mid-rune.
	long := strings.Repeat("solução não operacional ", 10)
	preview := stringPreview(long, 50)
	assert.True(t, utf8.ValidString(preview))
	assert.Equal(t, 50, len([]rune(preview)))
	assert.True(t, strings.HasSuffix(preview, "..."))
}

func TestGetTicketRefreshesSLAStatus(t *testing.T) {
	fx := newFixture()
	ticket := fx.createTicket(t)

	// Force the stored deadline into the past; the detail read must surface
	// the breach without waiting for the reconciliation job.
	stored := fx.tickets.tickets[ticket.ID]
	past := time.Now().Add(-time.Hour)
	stored.SLAResponseDeadline = &past

	got, _, err := fx.svc.GetTicket(context.Background(), fx.client(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SLABreached, got.SLAStatus)
	assert.NotEmpty(t, fx.history.byType(domain.ChangeTypeSLAStatus))
}

func TestListTicketsScopesClients(t *testing.T) {
	fx := newFixture()
	fx.createTicket(t)

	page, err := fx.svc.ListTickets(context.Background(), fx.client(), TicketListInput{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)

	company := "company-1"
	other := &domain.User{ID: "client-2", CompanyID: &company, Role: domain.RoleClient, Active: true}
	page, err = fx.svc.ListTickets(context.Background(), other, TicketListInput{})
	require.NoError(t, err)
	assert.Equal(t, 0, page.Total)
}

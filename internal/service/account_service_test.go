package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chamado-hub/helpdesk/internal/domain"
)

type fakeAccountUserRepo struct {
	fakeUserRepo
	byEmail map[string]*domain.User
	created []*domain.User
}

func (f *fakeAccountUserRepo) Create(_ context.Context, u *domain.User) error {
	u.ID = "user-new"
	f.created = append(f.created, u)
	return nil
}

func (f *fakeAccountUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return u, nil
}

type fakeCompanyRepo struct {
	companies map[string]*domain.Company
}

func (f *fakeCompanyRepo) Create(context.Context, *domain.Company) error { return nil }
func (f *fakeCompanyRepo) Update(context.Context, *domain.Company) error { return nil }

func (f *fakeCompanyRepo) GetByID(_ context.Context, id string) (*domain.Company, error) {
	c, ok := f.companies[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return c, nil
}

func (f *fakeCompanyRepo) List(context.Context, int, int) ([]domain.Company, error) {
	return nil, nil
}

func newAccountFixture() (*AccountService, *fakeAccountUserRepo) {
	users := &fakeAccountUserRepo{byEmail: map[string]*domain.User{
		"taken@example.com": {ID: "user-1"},
	}}
	companies := &fakeCompanyRepo{companies: map[string]*domain.Company{
		"company-1": {ID: "company-1", Active: true},
		"company-2": {ID: "company-2", Active: false},
	}}
	return NewAccountService(users, companies, 4), users
}

func TestCreateAccountClientRequiresCompany(t *testing.T) {
	svc, _ := newAccountFixture()

	_, err := svc.CreateAccount(context.Background(), AccountCreateInput{
		Name: "Ana", Email: "ana@example.com", Password: "x", Role: domain.RoleClient,
	})
	assert.Error(t, err)
}

func TestCreateAccountClientRejectsInactiveCompany(t *testing.T) {
	svc, _ := newAccountFixture()
	company := "company-2"

	_, err := svc.CreateAccount(context.Background(), AccountCreateInput{
		Name: "Ana", Email: "ana@example.com", Password: "x", Role: domain.RoleClient, CompanyID: &company,
	})
	assert.Error(t, err)
}

func TestCreateAccountStaffRejectsCompany(t *testing.T) {
	svc, _ := newAccountFixture()
	company := "company-1"

	_, err := svc.CreateAccount(context.Background(), AccountCreateInput{
		Name: "Bia", Email: "bia@example.com", Password: "x", Role: domain.RoleAgent, CompanyID: &company,
	})
	assert.Error(t, err)
}

func TestCreateAccountRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newAccountFixture()

	_, err := svc.CreateAccount(context.Background(), AccountCreateInput{
		Name: "Dup", Email: "TAKEN@example.com", Password: "x", Role: domain.RoleAgent,
	})
	assert.Error(t, err)
}

func TestCreateAccountHashesPasswordAndNormalizesEmail(t *testing.T) {
	svc, users := newAccountFixture()
	company := "company-1"

	user, err := svc.CreateAccount(context.Background(), AccountCreateInput{
		Name: "Ana", Email: " Ana@Example.com ", Password: "segredo", Role: domain.RoleClient, CompanyID: &company,
	})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.NotEqual(t, "segredo", user.PasswordHash)
	assert.True(t, user.Active)
	require.Len(t, users.created, 1)
}

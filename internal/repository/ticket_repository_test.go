package repository

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/chamado-hub/helpdesk/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestBuildTicketClausesEmptyFilter(t *testing.T) {
	clauses, args := buildTicketClauses(TicketFilter{})
	assert.Equal(t, []string{"1=1"}, clauses)
	assert.Empty(t, args)
}

func TestBuildTicketClausesNumbersArgsSequentially(t *testing.T) {
	now := time.Now()
	filter := TicketFilter{
		CompanyID:   strPtr("c-1"),
		AuthorID:    strPtr("u-1"),
		Statuses:    []domain.TicketStatus{domain.TicketStatusOpen, domain.TicketStatusInProgress},
		CreatedFrom: &now,
	}
	clauses, args := buildTicketClauses(filter)

	assert.Len(t, args, 5)
	joined := strings.Join(clauses, " AND ")
	assert.Contains(t, joined, "company_id=$1")
	assert.Contains(t, joined, "author_id=$2")
	assert.Contains(t, joined, "status IN ($3,$4)")
	assert.Contains(t, joined, "created_at >= $5")
}

func TestBuildTicketClausesCodeSearch(t *testing.T) {
	clauses, args := buildTicketClauses(TicketFilter{CodeSearch: strPtr("  ch-ab12 ")})
	assert.Contains(t, strings.Join(clauses, " "), "code LIKE $1")
	assert.Equal(t, []any{"%CH-AB12%"}, args)

	// Whitespace-only search adds no clause.
	clauses, args = buildTicketClauses(TicketFilter{CodeSearch: strPtr("   ")})
	assert.Equal(t, []string{"1=1"}, clauses)
	assert.Empty(t, args)
}

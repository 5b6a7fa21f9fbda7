package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chamado-hub/helpdesk/internal/domain"
	"github.com/chamado-hub/helpdesk/internal/events"
	"github.com/chamado-hub/helpdesk/internal/repository"
	"github.com/chamado-hub/helpdesk/internal/sla"
	apperrors "github.com/chamado-hub/helpdesk/pkg/util/errorutil"
)

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	updates    repository.TicketUpdateRepository
	history    repository.TicketHistoryRepository
	users      repository.UserRepository
	types      repository.TicketTypeRepository
	calculator *sla.Calculator
	policy     sla.Policy
	dispatcher events.Dispatcher
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	UpdateRepo  repository.TicketUpdateRepository
	HistoryRepo repository.TicketHistoryRepository
	UserRepo    repository.UserRepository
	TypeRepo    repository.TicketTypeRepository
	Calculator  *sla.Calculator
	Policy      sla.Policy
	Dispatcher  events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		updates:    deps.UpdateRepo,
		history:    deps.HistoryRepo,
		users:      deps.UserRepo,
		types:      deps.TypeRepo,
		calculator: deps.Calculator,
		policy:     deps.Policy,
		dispatcher: deps.Dispatcher,
	}
}

// TicketCreateInput describes ticket creation payload. Description becomes
// the first entry in the ticket thread.
type TicketCreateInput struct {
	TicketTypeID string
	Title        string
	Description  string
	Priority     domain.TicketPriority
}

// TicketListInput describes listing filters. Scoping fields are forced for
// client callers.
type TicketListInput struct {
	CompanyID   *string
	AuthorID    *string
	AssigneeID  *string
	Statuses    []domain.TicketStatus
	Priorities  []domain.TicketPriority
	CodeSearch  *string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// TicketPage is a listing result with the total match count for pagination.
type TicketPage struct {
	Tickets []domain.Ticket
	Total   int
}

// TicketUpdateFileInput defines attachment metadata for an update.
type TicketUpdateFileInput struct {
	FileURL  string
	FileName string
}

// CreateTicket opens a ticket for a client. Deadlines are stamped here from
// the ticket type's SLA durations and are never recalculated.
func (s *TicketService) CreateTicket(ctx context.Context, author *domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	if author.CompanyID == nil {
		return nil, apperrors.NewValidationError("author has no company", nil)
	}

	ticketType, err := s.types.GetByID(ctx, input.TicketTypeID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if ticketType.CompanyID != *author.CompanyID {
		return nil, apperrors.NewForbidden("ticket type belongs to another company")
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title is required", nil)
	}

	now := time.Now()
	deadlines, err := s.calculator.DeadlinesForType(ctx, ticketType.ID, now)
	if err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		Code:                generateTicketCode(),
		CompanyID:           *author.CompanyID,
		AuthorID:            author.ID,
		TicketTypeID:        ticketType.ID,
		Title:               title,
		Priority:            input.Priority,
		Status:              domain.TicketStatusOpen,
		SLAResponseDeadline: deadlines.Response,
		SLASolutionDeadline: deadlines.Solution,
		SLAStatus:           domain.SLAWithinDeadline,
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityMedium
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	if description := strings.TrimSpace(input.Description); description != "" {
		update := &domain.TicketUpdate{
			TicketID: ticket.ID,
			SenderID: author.ID,
			Content:  description,
		}
		if err := s.updates.Create(ctx, update); err != nil {
			return nil, err
		}
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    userActor(author),
		Payload: events.TicketCreatedPayload{
			Code:         ticket.Code,
			CompanyID:    ticket.CompanyID,
			TicketTypeID: ticket.TicketTypeID,
			Priority:     ticket.Priority,
			Title:        ticket.Title,
		},
	})
	return ticket, nil
}

// ListTickets returns a page of tickets visible to the caller. Clients only
// ever see tickets they authored.
func (s *TicketService) ListTickets(ctx context.Context, caller *domain.User, input TicketListInput) (*TicketPage, error) {
	filter := repository.TicketFilter{
		CompanyID:   input.CompanyID,
		AuthorID:    input.AuthorID,
		AssigneeID:  input.AssigneeID,
		Statuses:    input.Statuses,
		Priorities:  input.Priorities,
		CodeSearch:  input.CodeSearch,
		CreatedFrom: input.CreatedFrom,
		CreatedTo:   input.CreatedTo,
		Limit:       input.Limit,
		Offset:      input.Offset,
	}
	if !caller.Role.IsStaff() {
		authorID := caller.ID
		filter.AuthorID = &authorID
		filter.CompanyID = caller.CompanyID
	}

	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.tickets.CountWithFilter(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &TicketPage{Tickets: tickets, Total: total}, nil
}

// GetTicket fetches a ticket plus its thread, enforcing visibility. The
// cached SLA status is refreshed on read so detail views never show a stale
// classification.
func (s *TicketService) GetTicket(ctx context.Context, caller *domain.User, ticketID string) (*domain.Ticket, []domain.TicketUpdate, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	if !s.canAccess(caller, ticket) {
		return nil, nil, apperrors.NewForbidden("access denied")
	}
	if err := s.reclassify(ctx, ticket); err != nil {
		return nil, nil, err
	}
	thread, err := s.updates.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, nil, err
	}
	return ticket, thread, nil
}

// GetTicketByCode resolves a ticket by its human-facing code.
func (s *TicketService) GetTicketByCode(ctx context.Context, caller *domain.User, code string) (*domain.Ticket, []domain.TicketUpdate, error) {
	ticket, err := s.tickets.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	return s.GetTicket(ctx, caller, ticket.ID)
}

// AddUpdate appends a message to a ticket thread and applies the reply side
// effects: the first staff reply stamps FirstResponseAt and takes assignment,
// a staff reply parks the ticket on the client, and a client reply hands it
// back to the queue.
func (s *TicketService) AddUpdate(ctx context.Context, sender *domain.User, ticketID, content string, files []TicketUpdateFileInput) (*domain.TicketUpdate, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !s.canAccess(sender, ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}
	if ticket.Status.IsTerminal() {
		return nil, apperrors.NewConflict("ticket is closed", nil)
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("content is required", nil)
	}

	update := &domain.TicketUpdate{
		TicketID: ticket.ID,
		SenderID: sender.ID,
		Content:  content,
	}
	for _, f := range files {
		update.Files = append(update.Files, domain.TicketUpdateFile{
			FileURL:  f.FileURL,
			FileName: f.FileName,
		})
	}
	if err := s.updates.Create(ctx, update); err != nil {
		return nil, err
	}

	oldStatus := ticket.Status
	oldAssignee := ticket.AssigneeID
	if sender.Role.IsStaff() {
		if ticket.FirstResponseAt == nil {
			now := time.Now()
			ticket.FirstResponseAt = &now
		}
		if ticket.AssigneeID == nil {
			senderID := sender.ID
			ticket.AssigneeID = &senderID
		}
		ticket.Status = domain.TicketStatusPendingClient
	} else {
		ticket.Status = domain.TicketStatusInProgress
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}
	if ticket.Status != oldStatus {
		s.recordStatusChange(ctx, &sender.ID, ticket.ID, oldStatus, ticket.Status)
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketStatusChanged,
			TicketID: ticket.ID,
			Actor:    userActor(sender),
			Payload:  events.TicketStatusChangedPayload{OldStatus: oldStatus, NewStatus: ticket.Status},
		})
	}
	if !equalAssignee(oldAssignee, ticket.AssigneeID) {
		s.recordAssigneeChange(ctx, &sender.ID, ticket.ID, oldAssignee, ticket.AssigneeID)
	}
	if err := s.reclassify(ctx, ticket); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketUpdateAdded,
		TicketID: ticket.ID,
		Actor:    userActor(sender),
		Payload: events.TicketUpdateAddedPayload{
			UpdateID:       update.ID,
			SenderID:       sender.ID,
			FromStaff:      sender.Role.IsStaff(),
			ContentPreview: stringPreview(content, 120),
		},
	})
	return update, nil
}

// ChangeStatus moves a ticket through its lifecycle. Staff only.
func (s *TicketService) ChangeStatus(ctx context.Context, staff *domain.User, ticketID string, newStatus domain.TicketStatus) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !isValidTransition(ticket.Status, newStatus) {
		return nil, apperrors.NewConflict("invalid status transition", map[string]any{
			"from": ticket.Status,
			"to":   newStatus,
		})
	}

	oldStatus := ticket.Status
	ticket.Status = newStatus
	if newStatus == domain.TicketStatusClosed {
		now := time.Now()
		ticket.ClosedAt = &now
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}

	s.recordStatusChange(ctx, &staff.ID, ticket.ID, oldStatus, newStatus)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		Actor:    userActor(staff),
		Payload:  events.TicketStatusChangedPayload{OldStatus: oldStatus, NewStatus: newStatus},
	})
	if !ticket.Status.IsTerminal() {
		if err := s.reclassify(ctx, ticket); err != nil {
			return nil, err
		}
	}
	return ticket, nil
}

// ChangeAssignee reassigns a ticket to another staff member, or unassigns it
// when assigneeID is nil.
func (s *TicketService) ChangeAssignee(ctx context.Context, staff *domain.User, ticketID string, assigneeID *string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if ticket.Status.IsTerminal() {
		return nil, apperrors.NewConflict("ticket is closed", nil)
	}

	if assigneeID != nil {
		assignee, err := s.users.GetByID(ctx, *assigneeID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if !assignee.Role.IsStaff() {
			return nil, apperrors.NewValidationError("assignee must be staff", nil)
		}
	}

	oldAssignee := ticket.AssigneeID
	if equalAssignee(oldAssignee, assigneeID) {
		return ticket, nil
	}
	ticket.AssigneeID = assigneeID
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}

	s.recordAssigneeChange(ctx, &staff.ID, ticket.ID, oldAssignee, assigneeID)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticket.ID,
		Actor:    userActor(staff),
		Payload:  events.TicketAssignedPayload{OldAssigneeID: oldAssignee, NewAssigneeID: assigneeID},
	})
	return ticket, nil
}

// RateTicket records the requester's satisfaction rating on a closed ticket.
// A ticket can be rated once.
func (s *TicketService) RateTicket(ctx context.Context, caller *domain.User, ticketID string, rating int, comment string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if ticket.AuthorID != caller.ID {
		return nil, apperrors.NewForbidden("only the requester can rate a ticket")
	}
	if ticket.Status != domain.TicketStatusClosed {
		return nil, apperrors.NewConflict("only closed tickets can be rated", nil)
	}
	if ticket.Rating != nil {
		return nil, apperrors.NewConflict("ticket already rated", nil)
	}
	if rating < 1 || rating > 5 {
		return nil, apperrors.NewValidationError("rating must be between 1 and 5", nil)
	}

	ticket.Rating = &rating
	comment = strings.TrimSpace(comment)
	if comment != "" {
		ticket.RatingComment = &comment
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}

	if s.history != nil {
		_ = s.history.Create(ctx, &domain.TicketHistory{
			TicketID:    ticket.ID,
			ChangedByID: &caller.ID,
			ChangeType:  domain.ChangeTypeRating,
			NewValue:    map[string]any{"rating": rating, "comment": comment},
		})
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketRated,
		TicketID: ticket.ID,
		Actor:    userActor(caller),
		Payload:  events.TicketRatedPayload{Rating: rating, Comment: comment},
	})
	return ticket, nil
}

// ListHistory returns the audit trail for a ticket. Staff only.
func (s *TicketService) ListHistory(ctx context.Context, ticketID string) ([]domain.TicketHistory, error) {
	if s.history == nil {
		return []domain.TicketHistory{}, nil
	}
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		return nil, apperrors.MapError(err)
	}
	return s.history.ListByTicket(ctx, ticketID)
}

// reclassify recomputes the SLA status against the current clock and
// persists it when it moved. History records the transition with no actor.
func (s *TicketService) reclassify(ctx context.Context, ticket *domain.Ticket) error {
	newStatus := sla.Classify(time.Now(), ticket, s.policy)
	if newStatus == ticket.SLAStatus {
		return nil
	}
	oldStatus := ticket.SLAStatus
	if err := s.tickets.UpdateSLAStatus(ctx, ticket.ID, newStatus); err != nil {
		return err
	}
	ticket.SLAStatus = newStatus
	if s.history != nil {
		_ = s.history.Create(ctx, &domain.TicketHistory{
			TicketID:   ticket.ID,
			ChangeType: domain.ChangeTypeSLAStatus,
			OldValue:   map[string]any{"sla_status": oldStatus},
			NewValue:   map[string]any{"sla_status": newStatus},
		})
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventSLAStatusChanged,
		TicketID: ticket.ID,
		Payload:  events.SLAStatusChangedPayload{OldStatus: oldStatus, NewStatus: newStatus},
	})
	return nil
}

func (s *TicketService) canAccess(caller *domain.User, ticket *domain.Ticket) bool {
	if caller == nil {
		return false
	}
	if caller.Role.IsStaff() {
		return true
	}
	return ticket.AuthorID == caller.ID
}

func (s *TicketService) recordStatusChange(ctx context.Context, actorID *string, ticketID string, oldStatus, newStatus domain.TicketStatus) {
	if s.history == nil {
		return
	}
	_ = s.history.Create(ctx, &domain.TicketHistory{
		TicketID:    ticketID,
		ChangedByID: actorID,
		ChangeType:  domain.ChangeTypeStatus,
		OldValue:    map[string]any{"status": oldStatus},
		NewValue:    map[string]any{"status": newStatus},
	})
}

func (s *TicketService) recordAssigneeChange(ctx context.Context, actorID *string, ticketID string, oldAssignee, newAssignee *string) {
	if s.history == nil {
		return
	}
	old := map[string]any{}
	if oldAssignee != nil {
		old["assignee_id"] = *oldAssignee
	}
	updated := map[string]any{}
	if newAssignee != nil {
		updated["assignee_id"] = *newAssignee
	}
	_ = s.history.Create(ctx, &domain.TicketHistory{
		TicketID:    ticketID,
		ChangedByID: actorID,
		ChangeType:  domain.ChangeTypeAssignee,
		OldValue:    old,
		NewValue:    updated,
	})
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func generateTicketCode() string {
	return "CH-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
}

func userActor(user *domain.User) events.Actor {
	if user == nil {
		return events.Actor{}
	}
	id := user.ID
	return events.Actor{UserID: &id, Role: user.Role}
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	runes := []rune(body)
	if len(runes) <= max {
		return body
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func equalAssignee(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

var allowedTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusOpen:          {domain.TicketStatusInProgress, domain.TicketStatusPendingClient, domain.TicketStatusClosed, domain.TicketStatusCanceled},
	domain.TicketStatusInProgress:    {domain.TicketStatusPendingClient, domain.TicketStatusClosed, domain.TicketStatusCanceled},
	domain.TicketStatusPendingClient: {domain.TicketStatusInProgress, domain.TicketStatusClosed, domain.TicketStatusCanceled},
	domain.TicketStatusClosed:        {},
	domain.TicketStatusCanceled:      {},
}

func isValidTransition(current, next domain.TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

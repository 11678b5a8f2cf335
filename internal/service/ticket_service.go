package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// NewTicketNotificationTitle is the title of the admin notice written for every new ticket.
const NewTicketNotificationTitle = "New Ticket Created"

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	authz      *auth.Authorizer
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TicketDependencies bundles collaborators for ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Authorizer *auth.Authorizer
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title        string
	Description  string
	Topic        string
	Priority     string
	ContactEmail *string
	ContactPhone *string
	DriverID     *string
	ImageURL     *string
}

// TicketListFilter is the caller-facing listing filter. Status accepts any TicketStatus plus
// the DONE alias, and ALL or USERS for no filtering.
type TicketListFilter struct {
	Status   string
	DriverID *string
}

// TicketUpdateInput is a partial admin update. SetAdminNotes with a nil AdminNotes clears them.
type TicketUpdateInput struct {
	Status        *string
	Priority      *string
	SetAdminNotes bool
	AdminNotes    *string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		authz:      deps.Authorizer,
		dispatcher: deps.Dispatcher,
		logger:     orNop(deps.Logger),
	}
}

// CreateTicket stores a ticket together with its admin notification. actor may be nil for
// guest submissions.
func (s *TicketService) CreateTicket(ctx context.Context, actor *domain.Account, input TicketCreateInput) (*domain.Ticket, error) {
	if actor != nil && !s.authz.Allows(actor, auth.ResourceTicket, auth.ActionCreate) {
		return nil, apperrors.NewForbidden("not allowed to create tickets")
	}

	ticket := &domain.Ticket{
		Title:        plainText(input.Title),
		Description:  plainText(input.Description),
		Topic:        plainText(input.Topic),
		Status:       domain.TicketStatusOpen,
		Priority:     domain.TicketPriorityMedium,
		ContactEmail: optionalText(input.ContactEmail),
		ContactPhone: optionalText(input.ContactPhone),
		ImageURL:     optionalText(input.ImageURL),
	}

	var missing []string
	for _, field := range []struct{ name, value string }{
		{"title", ticket.Title},
		{"description", ticket.Description},
		{"topic", ticket.Topic},
	} {
		if field.value == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NewValidationError("missing required fields", map[string]any{"fields": missing})
	}
	if ticket.ContactEmail != nil && !validEmail(*ticket.ContactEmail) {
		return nil, apperrors.NewValidationError("invalid contact email", map[string]any{"field": "contact_email"})
	}
	if strings.TrimSpace(input.Priority) != "" {
		priority, ok := domain.ParseTicketPriority(input.Priority)
		if !ok {
			return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": input.Priority})
		}
		ticket.Priority = priority
	}

	switch {
	case actor == nil:
	case actor.IsAdmin():
		ticket.DriverID = optionalText(input.DriverID)
	default:
		id := actor.ID
		ticket.DriverID = &id
	}

	notice := &domain.Notification{
		Title:   NewTicketNotificationTitle,
		Content: `A new ticket "` + ticket.Title + `" has been submitted.`,
	}
	if err := s.tickets.Create(ctx, ticket, notice); err != nil {
		if errors.Is(err, repository.ErrInvalidReference) {
			return nil, apperrors.NewValidationError("driver does not exist", map[string]any{"field": "driver_id"})
		}
		s.logger.Error("failed to create ticket", zap.Error(err))
		return nil, apperrors.NewCreationError("ticket", err)
	}

	publish(ctx, s.dispatcher, s.logger, events.New(events.EventTicketCreated, ticket.ID, events.ActorFor(actor),
		events.TicketCreatedPayload{
			Title:    ticket.Title,
			Topic:    ticket.Topic,
			Priority: ticket.Priority,
			DriverID: ticket.DriverID,
		}))
	return ticket, nil
}

// GetTickets lists tickets newest first. USER callers only ever see their own tickets.
func (s *TicketService) GetTickets(ctx context.Context, actor *domain.Account, filter TicketListFilter) ([]domain.Ticket, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	statuses, err := resolveStatusFilter(filter.Status)
	if err != nil {
		return nil, err
	}

	repoFilter := repository.TicketFilter{Statuses: statuses}
	switch {
	case s.authz.Allows(actor, auth.ResourceTicket, auth.ActionReadAll):
		repoFilter.DriverID = optionalText(filter.DriverID)
	case s.authz.Allows(actor, auth.ResourceTicket, auth.ActionReadOwn):
		id := actor.ID
		repoFilter.DriverID = &id
	default:
		return nil, apperrors.NewForbidden("not allowed to list tickets")
	}

	tickets, err := s.tickets.List(ctx, repoFilter)
	if err != nil {
		return nil, storeError(s.logger, "list tickets", "ticket", err)
	}
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	return tickets, nil
}

// GetTicket fetches one ticket visible to actor.
func (s *TicketService) GetTicket(ctx context.Context, actor *domain.Account, id string) (*domain.Ticket, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(s.logger, "get ticket", "ticket", err)
	}
	if err := authorizeTicketAccess(s.authz, actor, auth.ResourceTicket, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

// UpdateTicketStatus sets the status of a ticket.
func (s *TicketService) UpdateTicketStatus(ctx context.Context, actor *domain.Account, id, status string) (*domain.Ticket, error) {
	return s.UpdateTicket(ctx, actor, id, TicketUpdateInput{Status: &status})
}

// UpdateTicketPriority sets the priority of a ticket.
func (s *TicketService) UpdateTicketPriority(ctx context.Context, actor *domain.Account, id, priority string) (*domain.Ticket, error) {
	return s.UpdateTicket(ctx, actor, id, TicketUpdateInput{Priority: &priority})
}

// UpdateTicket applies a partial admin update. An empty update returns the ticket unchanged.
// Concurrent updates are last-write-wins.
func (s *TicketService) UpdateTicket(ctx context.Context, actor *domain.Account, id string, input TicketUpdateInput) (*domain.Ticket, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if !s.authz.Allows(actor, auth.ResourceTicket, auth.ActionUpdate) {
		return nil, apperrors.NewForbidden("only admins can update tickets")
	}

	patch := repository.TicketPatch{SetAdminNotes: input.SetAdminNotes}
	if input.Status != nil {
		status, ok := parseStatusValue(*input.Status)
		if !ok {
			return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": *input.Status})
		}
		patch.Status = &status
	}
	if input.Priority != nil {
		priority, ok := domain.ParseTicketPriority(*input.Priority)
		if !ok {
			return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": *input.Priority})
		}
		patch.Priority = &priority
	}
	if input.SetAdminNotes {
		patch.AdminNotes = optionalText(input.AdminNotes)
	}

	current, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(s.logger, "get ticket", "ticket", err)
	}
	if patch.Empty() {
		return current, nil
	}

	updated, err := s.tickets.Update(ctx, id, patch)
	if err != nil {
		return nil, storeError(s.logger, "update ticket", "ticket", err)
	}

	publish(ctx, s.dispatcher, s.logger, events.New(events.EventTicketUpdated, updated.ID, events.ActorFor(actor),
		events.TicketUpdatedPayload{
			Status:           updated.Status,
			Priority:         updated.Priority,
			AdminNotesSet:    patch.SetAdminNotes,
			PreviousStatus:   current.Status,
			PreviousPriority: current.Priority,
		}))
	return updated, nil
}

// resolveStatusFilter maps a listing filter value onto concrete statuses; nil means all.
func resolveStatusFilter(raw string) ([]domain.TicketStatus, error) {
	value := strings.ToUpper(strings.TrimSpace(raw))
	switch value {
	case "", "ALL", "USERS":
		return nil, nil
	}
	status, ok := parseStatusValue(value)
	if !ok {
		return nil, apperrors.NewValidationError("invalid status filter", map[string]any{"status": raw})
	}
	return []domain.TicketStatus{status}, nil
}

func parseStatusValue(raw string) (domain.TicketStatus, bool) {
	if strings.EqualFold(strings.TrimSpace(raw), domain.TicketStatusDoneAlias) {
		return domain.TicketStatusClosed, true
	}
	return domain.ParseTicketStatus(raw)
}

package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// CommentService reads and appends ticket threads.
type CommentService struct {
	tickets    repository.TicketRepository
	messages   repository.MessageRepository
	authz      *auth.Authorizer
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// CommentDependencies bundles collaborators for comment service.
type CommentDependencies struct {
	TicketRepo  repository.TicketRepository
	MessageRepo repository.MessageRepository
	Authorizer  *auth.Authorizer
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// CommentInput is a new comment. Content may still carry a legacy inline attachment token,
// but only when Attachment is nil.
type CommentInput struct {
	Content    string
	Attachment *domain.Attachment
}

// NewCommentService constructs the service.
func NewCommentService(deps CommentDependencies) *CommentService {
	return &CommentService{
		tickets:    deps.TicketRepo,
		messages:   deps.MessageRepo,
		authz:      deps.Authorizer,
		dispatcher: deps.Dispatcher,
		logger:     orNop(deps.Logger),
	}
}

// GetComments returns the thread of a ticket oldest first.
func (s *CommentService) GetComments(ctx context.Context, actor *domain.Account, ticketID string) ([]domain.Message, error) {
	if _, err := s.accessibleTicket(ctx, actor, ticketID); err != nil {
		return nil, err
	}
	messages, err := s.messages.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, storeError(s.logger, "list comments", "comment", err)
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	return messages, nil
}

// CreateComment appends a comment authored by actor.
func (s *CommentService) CreateComment(ctx context.Context, actor *domain.Account, ticketID string, input CommentInput) (*domain.Message, error) {
	ticket, err := s.accessibleTicket(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}
	if !s.authz.Allows(actor, auth.ResourceComment, auth.ActionCreate) {
		return nil, apperrors.NewForbidden("not allowed to comment")
	}

	content, inline := domain.ExtractAttachmentToken(input.Content)
	if inline != nil && input.Attachment != nil {
		return nil, apperrors.NewValidationError("send the attachment either inline or structured, not both", nil)
	}
	attachment := input.Attachment
	if attachment == nil {
		attachment = inline
	}
	if attachment != nil {
		attachment = &domain.Attachment{
			Type: domain.AttachmentType(strings.ToLower(strings.TrimSpace(string(attachment.Type)))),
			URL:  strings.TrimSpace(attachment.URL),
		}
		if !attachment.Type.Valid() {
			return nil, apperrors.NewValidationError("attachment type must be image or video",
				map[string]any{"type": string(attachment.Type)})
		}
		if attachment.URL == "" {
			return nil, apperrors.NewValidationError("attachment url is required", nil)
		}
	}

	message := &domain.Message{
		TicketID:   ticket.ID,
		Content:    plainText(content),
		Attachment: attachment,
	}
	if message.Content == "" && message.Attachment == nil {
		return nil, apperrors.NewValidationError("content or attachment is required", nil)
	}
	id, name, role := actor.ID, actor.FullName, actor.Role
	message.UserID = &id

	if err := s.messages.Create(ctx, message); err != nil {
		s.logger.Error("failed to create comment", zap.String("ticket_id", ticket.ID), zap.Error(err))
		return nil, apperrors.NewCreationError("comment", err)
	}
	message.AuthorName = &name
	message.AuthorRole = &role

	payload := events.CommentAddedPayload{
		MessageID:   message.ID,
		AuthorID:    message.UserID,
		BodyPreview: stringPreview(message.Content, 120),
	}
	if message.Attachment != nil {
		kind := message.Attachment.Type
		payload.AttachmentType = &kind
	}
	publish(ctx, s.dispatcher, s.logger, events.New(events.EventCommentAdded, ticket.ID, events.ActorFor(actor), payload))
	return message, nil
}

func (s *CommentService) accessibleTicket(ctx context.Context, actor *domain.Account, ticketID string) (*domain.Ticket, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, storeError(s.logger, "get ticket", "ticket", err)
	}
	if err := authorizeTicketAccess(s.authz, actor, auth.ResourceComment, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

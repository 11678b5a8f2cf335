package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated EventType = "ticket_created"
	EventTicketUpdated EventType = "ticket_updated"
	EventCommentAdded  EventType = "comment_added"
)

// Actor identifies who caused an event. Both fields are nil for guest submissions.
type Actor struct {
	UserID *string      `json:"user_id,omitempty"`
	Role   *domain.Role `json:"role,omitempty"`
}

// ActorFor builds an Actor from an optional account.
func ActorFor(account *domain.Account) Actor {
	if account == nil {
		return Actor{}
	}
	id, role := account.ID, account.Role
	return Actor{UserID: &id, Role: &role}
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// New stamps an event with a fresh id and the current time.
func New(eventType EventType, ticketID string, actor Actor, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TicketID:  ticketID,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Title    string                `json:"title"`
	Topic    string                `json:"topic"`
	Priority domain.TicketPriority `json:"priority"`
	DriverID *string               `json:"driver_id,omitempty"`
}

// TicketUpdatedPayload lists the fields an admin changed.
type TicketUpdatedPayload struct {
	Status           domain.TicketStatus   `json:"status"`
	Priority         domain.TicketPriority `json:"priority"`
	AdminNotesSet    bool                  `json:"admin_notes_set"`
	PreviousStatus   domain.TicketStatus   `json:"previous_status"`
	PreviousPriority domain.TicketPriority `json:"previous_priority"`
}

// CommentAddedPayload payload.
type CommentAddedPayload struct {
	MessageID      string                 `json:"message_id"`
	AuthorID       *string                `json:"author_id,omitempty"`
	BodyPreview    string                 `json:"body_preview"`
	AttachmentType *domain.AttachmentType `json:"attachment_type,omitempty"`
}

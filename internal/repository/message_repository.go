package repository

import (
	"context"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// MessageRepository stores ticket comments.
type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.Message, error)
}

type messageRepository struct {
	db DB
}

// NewMessageRepository builds repository.
func NewMessageRepository(db DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *domain.Message) error {
	const query = `
        INSERT INTO messages (ticket_id, content, user_id, attachment_type, attachment_url)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`

	var attachmentType, attachmentURL *string
	if message.Attachment != nil {
		kind := string(message.Attachment.Type)
		attachmentType = &kind
		attachmentURL = &message.Attachment.URL
	}
	err := r.db.QueryRow(ctx, query,
		message.TicketID,
		message.Content,
		message.UserID,
		attachmentType,
		attachmentURL,
	).Scan(&message.ID, &message.CreatedAt)
	return TranslateError(err)
}

// ListByTicket returns the thread oldest first with author name and role resolved.
// Legacy inline attachment tokens are lifted into the structured field.
func (r *messageRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.Message, error) {
	const query = `
        SELECT m.id, m.ticket_id, m.content, m.user_id, p.full_name, p.role,
               m.attachment_type, m.attachment_url, m.created_at
        FROM messages m LEFT JOIN profiles p ON p.id = m.user_id
        WHERE m.ticket_id=$1
        ORDER BY m.created_at ASC`

	rows, err := r.db.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Message
	for rows.Next() {
		var (
			message        domain.Message
			attachmentType *string
			attachmentURL  *string
		)
		if err := rows.Scan(
			&message.ID,
			&message.TicketID,
			&message.Content,
			&message.UserID,
			&message.AuthorName,
			&message.AuthorRole,
			&attachmentType,
			&attachmentURL,
			&message.CreatedAt,
		); err != nil {
			return nil, err
		}
		if attachmentType != nil && attachmentURL != nil {
			message.Attachment = &domain.Attachment{
				Type: domain.AttachmentType(*attachmentType),
				URL:  *attachmentURL,
			}
		}
		message.NormalizeAttachment()
		result = append(result, message)
	}
	return result, rows.Err()
}

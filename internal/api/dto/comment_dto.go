package dto

import "time"

// AttachmentPayload references an uploaded file.
type AttachmentPayload struct {
	Type string `json:"type" validate:"required,oneof=image video"`
	URL  string `json:"url" validate:"required,max=2048"`
}

// CreateCommentRequest payload. Either content or attachment must be present.
type CreateCommentRequest struct {
	Content    string             `json:"content"`
	Attachment *AttachmentPayload `json:"attachment"`
}

// CommentResponse representation.
type CommentResponse struct {
	ID         string             `json:"id"`
	TicketID   string             `json:"ticket_id"`
	Content    string             `json:"content"`
	UserID     *string            `json:"user_id"`
	AuthorName *string            `json:"author_name"`
	AuthorRole *string            `json:"author_role"`
	Attachment *AttachmentPayload `json:"attachment"`
	CreatedAt  time.Time          `json:"created_at"`
}

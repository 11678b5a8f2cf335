package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/service"
)

// CommentsHandler serves the ticket comment thread.
type CommentsHandler struct {
	service *service.CommentService
}

// NewCommentsHandler constructs handler.
func NewCommentsHandler(commentService *service.CommentService) *CommentsHandler {
	return &CommentsHandler{service: commentService}
}

// ListComments GET /api/tickets/:id/comments.
func (h *CommentsHandler) ListComments(c *fiber.Ctx) error {
	ticketID, err := idParam(c, "id")
	if err != nil {
		return err
	}
	messages, err := h.service.GetComments(c.UserContext(), auth.AccountFromContext(c), ticketID)
	if err != nil {
		return err
	}
	items := make([]dto.CommentResponse, 0, len(messages))
	for i := range messages {
		items = append(items, commentResponse(&messages[i]))
	}
	return respond(c, fiber.StatusOK, items)
}

// CreateComment POST /api/tickets/:id/comments.
func (h *CommentsHandler) CreateComment(c *fiber.Ctx) error {
	ticketID, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.CreateCommentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	msg, err := h.service.CreateComment(c.UserContext(), auth.AccountFromContext(c), ticketID, service.CommentInput{
		Content:    req.Content,
		Attachment: attachmentInput(req.Attachment),
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, commentResponse(msg))
}

package handlers

import (
	"bytes"
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// TicketsHandler serves ticket endpoints for guests, users and admins.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /api/tickets. Guests may submit without a session.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	ticket, err := h.service.CreateTicket(c.UserContext(), auth.AccountFromContext(c), service.TicketCreateInput{
		Title:        req.Title,
		Description:  req.Description,
		Topic:        req.Topic,
		Priority:     req.Priority,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		DriverID:     req.DriverID,
		ImageURL:     req.ImageURL,
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, ticketResponse(ticket))
}

// ListTickets GET /api/tickets?status=&driver_id=.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	filter := service.TicketListFilter{Status: c.Query("status")}
	if driverID := c.Query("driver_id"); driverID != "" {
		if err := checkID("driver_id", driverID); err != nil {
			return err
		}
		filter.DriverID = &driverID
	}
	tickets, err := h.service.GetTickets(c.UserContext(), auth.AccountFromContext(c), filter)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketResponse(&tickets[i]))
	}
	return respond(c, fiber.StatusOK, items)
}

// GetTicket GET /api/tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	ticket, err := h.service.GetTicket(c.UserContext(), auth.AccountFromContext(c), id)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, ticketResponse(ticket))
}

// UpdateTicket PATCH /api/tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateTicketRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	input := service.TicketUpdateInput{Status: req.Status, Priority: req.Priority}
	if len(req.AdminNotes) > 0 {
		input.SetAdminNotes = true
		if !bytes.Equal(bytes.TrimSpace(req.AdminNotes), []byte("null")) {
			var notes string
			if err := json.Unmarshal(req.AdminNotes, &notes); err != nil {
				return apperrors.NewValidationError("admin_notes must be a string or null", nil)
			}
			input.AdminNotes = &notes
		}
	}
	ticket, err := h.service.UpdateTicket(c.UserContext(), auth.AccountFromContext(c), id, input)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, ticketResponse(ticket))
}

// UpdateStatus PUT /api/tickets/:id/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	ticket, err := h.service.UpdateTicketStatus(c.UserContext(), auth.AccountFromContext(c), id, req.Status)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, ticketResponse(ticket))
}

// UpdatePriority PUT /api/tickets/:id/priority.
func (h *TicketsHandler) UpdatePriority(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdatePriorityRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	ticket, err := h.service.UpdateTicketPriority(c.UserContext(), auth.AccountFromContext(c), id, req.Priority)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, ticketResponse(ticket))
}

func attachmentInput(p *dto.AttachmentPayload) *domain.Attachment {
	if p == nil {
		return nil
	}
	return &domain.Attachment{Type: domain.AttachmentType(p.Type), URL: p.URL}
}

package handlers

import (
	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/service"
)

func ticketResponse(t *domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		Topic:        t.Topic,
		Status:       string(t.Status),
		Priority:     string(t.Priority),
		ContactEmail: t.ContactEmail,
		ContactPhone: t.ContactPhone,
		DriverID:     t.DriverID,
		AdminNotes:   t.AdminNotes,
		ImageURL:     t.ImageURL,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

func commentResponse(m *domain.Message) dto.CommentResponse {
	resp := dto.CommentResponse{
		ID:         m.ID,
		TicketID:   m.TicketID,
		Content:    m.Content,
		UserID:     m.UserID,
		AuthorName: m.AuthorName,
		CreatedAt:  m.CreatedAt,
	}
	if m.AuthorRole != nil {
		role := string(*m.AuthorRole)
		resp.AuthorRole = &role
	}
	if m.Attachment != nil {
		resp.Attachment = &dto.AttachmentPayload{Type: string(m.Attachment.Type), URL: m.Attachment.URL}
	}
	return resp
}

func profileResponse(p *domain.Profile) dto.ProfileResponse {
	return dto.ProfileResponse{
		ID:        p.ID,
		FullName:  p.FullName,
		Username:  p.Username,
		Role:      string(p.Role),
		UpdatedAt: p.UpdatedAt,
	}
}

func accountResponse(a *domain.Account) dto.AccountResponse {
	return dto.AccountResponse{ProfileResponse: profileResponse(&a.Profile), Email: a.Email}
}

func notificationFeedResponse(feed *service.NotificationFeed) dto.NotificationFeedResponse {
	items := make([]dto.NotificationResponse, 0, len(feed.Items))
	for _, n := range feed.Items {
		items = append(items, dto.NotificationResponse{
			ID:        n.ID,
			TicketID:  n.TicketID,
			Title:     n.Title,
			Content:   n.Content,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		})
	}
	return dto.NotificationFeedResponse{Items: items, UnreadCount: feed.UnreadCount}
}

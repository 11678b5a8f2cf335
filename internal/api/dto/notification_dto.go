package dto

import "time"

// NotificationResponse representation.
type NotificationResponse struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticket_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationFeedResponse is the admin dashboard feed.
type NotificationFeedResponse struct {
	Items       []NotificationResponse `json:"items"`
	UnreadCount int                    `json:"unread_count"`
}

// MarkReadResponse reports how many notifications changed.
type MarkReadResponse struct {
	Updated int64 `json:"updated"`
}

// UploadResponse is returned by the upload endpoint.
type UploadResponse struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

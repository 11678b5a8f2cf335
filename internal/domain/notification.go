package domain

import "time"

// Notification is a broadcast record shown to every admin on the dashboard.
type Notification struct {
	ID        string
	TicketID  string
	Title     string
	Content   string
	IsRead    bool
	CreatedAt time.Time
}

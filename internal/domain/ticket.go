package domain

import (
	"strings"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusResolved   TicketStatus = "RESOLVED"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

// TicketStatusDoneAlias is the dashboard label for closed tickets.
const TicketStatusDoneAlias = "DONE"

// TicketStatuses lists every status in display order.
var TicketStatuses = []TicketStatus{
	TicketStatusOpen,
	TicketStatusInProgress,
	TicketStatusResolved,
	TicketStatusClosed,
}

// Valid reports whether s is a known status.
func (s TicketStatus) Valid() bool {
	for _, candidate := range TicketStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseTicketStatus normalizes a status string; ok is false for unknown values.
func ParseTicketStatus(s string) (TicketStatus, bool) {
	status := TicketStatus(strings.ToUpper(strings.TrimSpace(s)))
	return status, status.Valid()
}

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "LOW"
	TicketPriorityMedium   TicketPriority = "MEDIUM"
	TicketPriorityHigh     TicketPriority = "HIGH"
	TicketPriorityCritical TicketPriority = "CRITICAL"
)

// Valid reports whether p is a known priority.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityCritical:
		return true
	}
	return false
}

// ParseTicketPriority normalizes a priority string; ok is false for unknown values.
func ParseTicketPriority(s string) (TicketPriority, bool) {
	priority := TicketPriority(strings.ToUpper(strings.TrimSpace(s)))
	return priority, priority.Valid()
}

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID           string
	Title        string
	Description  string
	Topic        string
	Status       TicketStatus
	Priority     TicketPriority
	ContactEmail *string
	ContactPhone *string
	DriverID     *string
	AdminNotes   *string
	ImageURL     *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OwnedBy reports whether the ticket's driver is userID.
func (t *Ticket) OwnedBy(userID string) bool {
	return t != nil && t.DriverID != nil && *t.DriverID == userID
}

package dto

import (
	"encoding/json"
	"time"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title        string  `json:"title" validate:"required,max=200"`
	Description  string  `json:"description" validate:"required"`
	Topic        string  `json:"topic" validate:"required,max=100"`
	Priority     string  `json:"priority" validate:"omitempty,max=20"`
	ContactEmail *string `json:"contact_email" validate:"omitempty,email"`
	ContactPhone *string `json:"contact_phone" validate:"omitempty,max=40"`
	DriverID     *string `json:"driver_id" validate:"omitempty,uuid"`
	ImageURL     *string `json:"image_url" validate:"omitempty,max=2048"`
}

// UpdateTicketRequest is a partial admin update. AdminNotes is kept raw so an explicit
// null (clear) can be told apart from an absent field.
type UpdateTicketRequest struct {
	Status     *string         `json:"status"`
	Priority   *string         `json:"priority"`
	AdminNotes json.RawMessage `json:"admin_notes"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdatePriorityRequest payload.
type UpdatePriorityRequest struct {
	Priority string `json:"priority" validate:"required"`
}

// TicketResponse representation.
type TicketResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Topic        string    `json:"topic"`
	Status       string    `json:"status"`
	Priority     string    `json:"priority"`
	ContactEmail *string   `json:"contact_email"`
	ContactPhone *string   `json:"contact_phone"`
	DriverID     *string   `json:"driver_id"`
	AdminNotes   *string   `json:"admin_notes"`
	ImageURL     *string   `json:"image_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

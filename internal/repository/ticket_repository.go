package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// TicketFilter narrows ticket listings. Empty fields do not filter.
type TicketFilter struct {
	Statuses []domain.TicketStatus
	DriverID *string
}

// TicketPatch carries a partial admin update. SetAdminNotes distinguishes "leave notes alone"
// from "clear notes" (SetAdminNotes with a nil AdminNotes).
type TicketPatch struct {
	Status        *domain.TicketStatus
	Priority      *domain.TicketPriority
	SetAdminNotes bool
	AdminNotes    *string
}

// Empty reports whether the patch changes nothing.
func (p TicketPatch) Empty() bool {
	return p.Status == nil && p.Priority == nil && !p.SetAdminNotes
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket, notice *domain.Notification) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	Update(ctx context.Context, id string, patch TicketPatch) (*domain.Ticket, error)
}

type ticketRepository struct {
	db DB
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(db DB) TicketRepository {
	return &ticketRepository{db: db}
}

const ticketColumns = `id, title, description, topic, status, priority, contact_email, contact_phone,
               driver_id, admin_notes, image_url, created_at, updated_at`

// Create inserts the ticket and the admin notice pointing at it in one transaction.
// notice.TicketID is filled from the inserted row.
func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket, notice *domain.Notification) error {
	const insertTicket = `
        INSERT INTO tickets (title, description, topic, status, priority, contact_email, contact_phone, driver_id, image_url)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	const insertNotification = `
        INSERT INTO notifications (ticket_id, title, content)
        VALUES ($1,$2,$3)
        RETURNING id, is_read, created_at`

	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, insertTicket,
			ticket.Title,
			ticket.Description,
			ticket.Topic,
			ticket.Status,
			ticket.Priority,
			ticket.ContactEmail,
			ticket.ContactPhone,
			ticket.DriverID,
			ticket.ImageURL,
		).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt); err != nil {
			return TranslateError(err)
		}
		if notice == nil {
			return nil
		}
		notice.TicketID = ticket.ID
		if err := tx.QueryRow(ctx, insertNotification,
			notice.TicketID,
			notice.Title,
			notice.Content,
		).Scan(&notice.ID, &notice.IsRead, &notice.CreatedAt); err != nil {
			return TranslateError(err)
		}
		return nil
	})
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	return scanTicket(r.db.QueryRow(ctx, query, id))
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.DriverID != nil {
		args = append(args, *filter.DriverID)
		clauses = append(clauses, fmt.Sprintf("driver_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY created_at DESC`,
		ticketColumns, strings.Join(clauses, " AND "))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

func (r *ticketRepository) Update(ctx context.Context, id string, patch TicketPatch) (*domain.Ticket, error) {
	fields := []string{}
	args := []any{}
	if patch.Status != nil {
		args = append(args, *patch.Status)
		fields = append(fields, fmt.Sprintf("status=$%d", len(args)))
	}
	if patch.Priority != nil {
		args = append(args, *patch.Priority)
		fields = append(fields, fmt.Sprintf("priority=$%d", len(args)))
	}
	if patch.SetAdminNotes {
		args = append(args, patch.AdminNotes)
		fields = append(fields, fmt.Sprintf("admin_notes=$%d", len(args)))
	}
	fields = append(fields, "updated_at=NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE tickets SET %s WHERE id=$%d RETURNING %s`,
		strings.Join(fields, ", "), len(args), ticketColumns)
	return scanTicket(r.db.QueryRow(ctx, query, args...))
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Topic,
		&ticket.Status,
		&ticket.Priority,
		&ticket.ContactEmail,
		&ticket.ContactPhone,
		&ticket.DriverID,
		&ticket.AdminNotes,
		&ticket.ImageURL,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

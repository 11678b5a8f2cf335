// Package memstore keeps every repository in process memory. It backs demo mode when no
// Postgres DSN is configured and the service and handler tests.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
)

// Store holds the tables shared by the repositories it hands out.
type Store struct {
	mu            sync.RWMutex
	users         map[string]domain.User
	profiles      map[string]domain.Profile
	tickets       map[string]domain.Ticket
	messages      []domain.Message
	notifications []domain.Notification
	now           func() time.Time
	last          time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{
		users:    map[string]domain.User{},
		profiles: map[string]domain.Profile{},
		tickets:  map[string]domain.Ticket{},
		now:      time.Now,
	}
}

// Users returns a UserRepository view of the store.
func (s *Store) Users() repository.UserRepository { return &userRepo{s} }

// Tickets returns a TicketRepository view of the store.
func (s *Store) Tickets() repository.TicketRepository { return &ticketRepo{s} }

// Messages returns a MessageRepository view of the store.
func (s *Store) Messages() repository.MessageRepository { return &messageRepo{s} }

// Notifications returns a NotificationRepository view of the store.
func (s *Store) Notifications() repository.NotificationRepository { return &notificationRepo{s} }

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// tick returns a timestamp strictly after every earlier one so orderings stay stable.
// Callers hold s.mu.
func (s *Store) tick() time.Time {
	t := s.now().UTC()
	if !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}
	s.last = t
	return t
}

type userRepo struct{ s *Store }

func (r *userRepo) CreateWithProfile(_ context.Context, user *domain.User, profile *domain.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Email == user.Email {
			return fmt.Errorf("%w: users_email_key", repository.ErrConflict)
		}
	}
	for _, existing := range r.s.profiles {
		if existing.Username == profile.Username {
			return fmt.Errorf("%w: profiles_username_key", repository.ErrConflict)
		}
	}
	now := r.s.tick()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	profile.ID = user.ID
	profile.UpdatedAt = now
	r.s.users[user.ID] = *user
	r.s.profiles[profile.ID] = *profile
	return nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, user := range r.s.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *userRepo) GetAccount(_ context.Context, id string) (*domain.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	profile, ok := r.s.profiles[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &domain.Account{Profile: profile, Email: r.s.users[id].Email}, nil
}

func (r *userRepo) ListProfiles(context.Context) ([]domain.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result := make([]domain.Profile, 0, len(r.s.profiles))
	for _, profile := range r.s.profiles {
		result = append(result, profile)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})
	return result, nil
}

func (r *userRepo) UpdateProfile(_ context.Context, id string, patch repository.ProfilePatch) (*domain.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	profile, ok := r.s.profiles[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if patch.FullName != nil {
		profile.FullName = *patch.FullName
	}
	if patch.Role != nil {
		profile.Role = *patch.Role
	}
	profile.UpdatedAt = r.s.tick()
	r.s.profiles[id] = profile
	return &profile, nil
}

func (r *userRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.profiles[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.profiles, id)
	delete(r.s.users, id)
	// mirror ON DELETE SET NULL
	for key, ticket := range r.s.tickets {
		if ticket.DriverID != nil && *ticket.DriverID == id {
			ticket.DriverID = nil
			r.s.tickets[key] = ticket
		}
	}
	for i := range r.s.messages {
		if r.s.messages[i].UserID != nil && *r.s.messages[i].UserID == id {
			r.s.messages[i].UserID = nil
		}
	}
	return nil
}

type ticketRepo struct{ s *Store }

func (r *ticketRepo) Create(_ context.Context, ticket *domain.Ticket, notice *domain.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if ticket.DriverID != nil {
		if _, ok := r.s.profiles[*ticket.DriverID]; !ok {
			return fmt.Errorf("%w: tickets_driver_id_fkey", repository.ErrInvalidReference)
		}
	}
	now := r.s.tick()
	ticket.ID = uuid.NewString()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	r.s.tickets[ticket.ID] = *ticket
	if notice != nil {
		notice.ID = uuid.NewString()
		notice.TicketID = ticket.ID
		notice.IsRead = false
		notice.CreatedAt = now
		r.s.notifications = append(r.s.notifications, *notice)
	}
	return nil
}

func (r *ticketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ticket, ok := r.s.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &ticket, nil
}

func (r *ticketRepo) List(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result := []domain.Ticket{}
	for _, ticket := range r.s.tickets {
		if filter.DriverID != nil && (ticket.DriverID == nil || *ticket.DriverID != *filter.DriverID) {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, ticket.Status) {
			continue
		}
		result = append(result, ticket)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *ticketRepo) Update(_ context.Context, id string, patch repository.TicketPatch) (*domain.Ticket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ticket, ok := r.s.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if patch.Status != nil {
		ticket.Status = *patch.Status
	}
	if patch.Priority != nil {
		ticket.Priority = *patch.Priority
	}
	if patch.SetAdminNotes {
		ticket.AdminNotes = patch.AdminNotes
	}
	ticket.UpdatedAt = r.s.tick()
	r.s.tickets[id] = ticket
	return &ticket, nil
}

func containsStatus(statuses []domain.TicketStatus, status domain.TicketStatus) bool {
	for _, candidate := range statuses {
		if candidate == status {
			return true
		}
	}
	return false
}

type messageRepo struct{ s *Store }

func (r *messageRepo) Create(_ context.Context, message *domain.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tickets[message.TicketID]; !ok {
		return fmt.Errorf("%w: messages_ticket_id_fkey", repository.ErrInvalidReference)
	}
	message.ID = uuid.NewString()
	message.CreatedAt = r.s.tick()
	stored := *message
	stored.AuthorName = nil
	stored.AuthorRole = nil
	r.s.messages = append(r.s.messages, stored)
	return nil
}

func (r *messageRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result := []domain.Message{}
	for _, message := range r.s.messages {
		if message.TicketID != ticketID {
			continue
		}
		if message.UserID != nil {
			if profile, ok := r.s.profiles[*message.UserID]; ok {
				name, role := profile.FullName, profile.Role
				message.AuthorName = &name
				message.AuthorRole = &role
			}
		}
		message.NormalizeAttachment()
		result = append(result, message)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

type notificationRepo struct{ s *Store }

func (r *notificationRepo) ListLatest(_ context.Context, limit int) ([]domain.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result := make([]domain.Notification, 0, len(r.s.notifications))
	for i := len(r.s.notifications) - 1; i >= 0; i-- {
		result = append(result, r.s.notifications[i])
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result, nil
}

func (r *notificationRepo) CountUnread(context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	count := 0
	for _, n := range r.s.notifications {
		if !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *notificationRepo) MarkAllRead(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var affected int64
	for i := range r.s.notifications {
		if !r.s.notifications[i].IsRead {
			r.s.notifications[i].IsRead = true
			affected++
		}
	}
	return affected, nil
}

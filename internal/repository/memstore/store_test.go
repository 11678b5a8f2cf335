package memstore

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
)

func seedUser(t *testing.T, s *Store, email, username string, role domain.Role) *domain.Profile {
	t.Helper()
	profile := &domain.Profile{FullName: username, Username: username, Role: role}
	require.NoError(t, s.Users().CreateWithProfile(context.Background(), &domain.User{Email: email, PasswordHash: "h"}, profile))
	return profile
}

func TestUsers_UniqueConstraints(t *testing.T) {
	s := New()
	seedUser(t, s, "a@example.com", "a", domain.RoleUser)

	err := s.Users().CreateWithProfile(context.Background(),
		&domain.User{Email: "a@example.com"}, &domain.Profile{Username: "other"})
	assert.ErrorIs(t, err, repository.ErrConflict)

	err = s.Users().CreateWithProfile(context.Background(),
		&domain.User{Email: "b@example.com"}, &domain.Profile{Username: "a"})
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestUsers_DeleteDetachesTickets(t *testing.T) {
	ctx := context.Background()
	s := New()
	driver := seedUser(t, s, "d@example.com", "driver", domain.RoleUser)

	ticket := &domain.Ticket{Title: "t", Status: domain.TicketStatusOpen, DriverID: &driver.ID}
	require.NoError(t, s.Tickets().Create(ctx, ticket, nil))
	require.NoError(t, s.Users().Delete(ctx, driver.ID))

	stored, err := s.Tickets().GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.DriverID)

	assert.ErrorIs(t, s.Users().Delete(ctx, driver.ID), pgx.ErrNoRows)
}

func TestTickets_CreateWritesOneNotification(t *testing.T) {
	ctx := context.Background()
	s := New()
	ticket := &domain.Ticket{Title: "Broken bulb", Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityMedium}
	notice := &domain.Notification{Title: "New Ticket Created", Content: "c"}
	require.NoError(t, s.Tickets().Create(ctx, ticket, notice))

	items, err := s.Notifications().ListLatest(ctx, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, ticket.ID, items[0].TicketID)
	assert.False(t, items[0].IsRead)
}

func TestTickets_ListOrderingAndFilters(t *testing.T) {
	ctx := context.Background()
	s := New()
	driver := seedUser(t, s, "d@example.com", "driver", domain.RoleUser)

	first := &domain.Ticket{Title: "first", Status: domain.TicketStatusOpen}
	second := &domain.Ticket{Title: "second", Status: domain.TicketStatusClosed, DriverID: &driver.ID}
	require.NoError(t, s.Tickets().Create(ctx, first, nil))
	require.NoError(t, s.Tickets().Create(ctx, second, nil))

	all, err := s.Tickets().List(ctx, repository.TicketFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "second", all[0].Title)

	open, err := s.Tickets().List(ctx, repository.TicketFilter{Statuses: []domain.TicketStatus{domain.TicketStatusOpen}})
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "first", open[0].Title)

	mine, err := s.Tickets().List(ctx, repository.TicketFilter{DriverID: &driver.ID})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "second", mine[0].Title)
}

func TestTickets_CreateRejectsUnknownDriver(t *testing.T) {
	missing := "missing"
	err := New().Tickets().Create(context.Background(), &domain.Ticket{DriverID: &missing}, &domain.Notification{})
	assert.ErrorIs(t, err, repository.ErrInvalidReference)
}

func TestMessages_ListResolvesAuthor(t *testing.T) {
	ctx := context.Background()
	s := New()
	admin := seedUser(t, s, "admin@example.com", "admin", domain.RoleAdmin)
	ticket := &domain.Ticket{Title: "t", Status: domain.TicketStatusOpen}
	require.NoError(t, s.Tickets().Create(ctx, ticket, nil))

	require.NoError(t, s.Messages().Create(ctx, &domain.Message{TicketID: ticket.ID, Content: "first", UserID: &admin.ID}))
	require.NoError(t, s.Messages().Create(ctx, &domain.Message{TicketID: ticket.ID, Content: "second"}))

	messages, err := s.Messages().ListByTicket(ctx, ticket.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "first", messages[0].Content)
	require.NotNil(t, messages[0].AuthorRole)
	assert.Equal(t, domain.RoleAdmin, *messages[0].AuthorRole)
	assert.Nil(t, messages[1].AuthorName)
}

func TestNotifications_MarkAllRead(t *testing.T) {
	ctx := context.Background()
	s := New()
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Tickets().Create(ctx, &domain.Ticket{Title: "t"}, &domain.Notification{Title: "n"}))
	}
	affected, err := s.Notifications().MarkAllRead(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, affected)

	unread, err := s.Notifications().CountUnread(ctx)
	require.NoError(t, err)
	assert.Zero(t, unread)

	affected, err = s.Notifications().MarkAllRead(ctx)
	require.NoError(t, err)
	assert.Zero(t, affected)
}

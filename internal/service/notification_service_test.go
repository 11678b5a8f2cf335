package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/domain"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

func TestNotifications_FeedIsCappedAndNewestFirst(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := f.account(t, "admin@example.com", "admin", domain.RoleAdmin)

	var lastID string
	for i := 0; i < NotificationFeedSize+2; i++ {
		ticket, err := f.tickets.CreateTicket(ctx, nil, TicketCreateInput{Title: "t", Description: "d", Topic: "x"})
		require.NoError(t, err)
		lastID = ticket.ID
	}

	feed, err := f.notifications.GetNotifications(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, feed.Items, NotificationFeedSize)
	assert.Equal(t, lastID, feed.Items[0].TicketID)
	assert.Equal(t, NotificationFeedSize+2, feed.UnreadCount)

	affected, err := f.notifications.MarkAllAsRead(ctx, admin)
	require.NoError(t, err)
	assert.EqualValues(t, NotificationFeedSize+2, affected)

	feed, err = f.notifications.GetNotifications(ctx, admin)
	require.NoError(t, err)
	assert.Zero(t, feed.UnreadCount)
	for _, n := range feed.Items {
		assert.True(t, n.IsRead)
	}
}

func TestNotifications_AdminOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	driver := f.account(t, "driver@example.com", "driver", domain.RoleUser)

	_, err := f.notifications.GetNotifications(ctx, driver)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))

	_, err = f.notifications.MarkAllAsRead(ctx, nil)
	assert.True(t, apperrors.IsCode(err, "UNAUTHORIZED"))
}

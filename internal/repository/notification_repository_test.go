package repository

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationRepository_ListLatestAndCount(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery("FROM notifications").WithArgs(10).
		WillReturnRows(pgxmock.NewRows([]string{"id", "ticket_id", "title", "content", "is_read", "created_at"}).
			AddRow("n-2", "t-2", "New Ticket Created", "second", false, now).
			AddRow("n-1", "t-1", "New Ticket Created", "first", true, now.Add(-time.Minute)))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM notifications WHERE is_read = false`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))

	repo := NewNotificationRepository(mock)
	items, err := repo.ListLatest(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "n-2", items[0].ID)

	unread, err := repo.CountUnread(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, unread)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_MarkAllRead(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`UPDATE notifications SET is_read = true WHERE is_read = false`).
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))

	affected, err := NewNotificationRepository(mock).MarkAllRead(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/domain"
)

func TestMessageRepository_CreateStoresStructuredAttachment(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("INSERT INTO messages").
		WithArgs("t-1", "see photo", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow("m-1", time.Now()))

	userID := "u-1"
	message := &domain.Message{
		TicketID:   "t-1",
		Content:    "see photo",
		UserID:     &userID,
		Attachment: &domain.Attachment{Type: domain.AttachmentTypeImage, URL: "/uploads/a.png"},
	}
	require.NoError(t, NewMessageRepository(mock).Create(context.Background(), message))
	assert.Equal(t, "m-1", message.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageRepository_ListByTicketParsesLegacyTokens(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	userID := "u-1"
	name := "Ana Driver"
	role := domain.RoleUser
	imageType := "image"
	imageURL := "/uploads/b.png"
	now := time.Now()

	rows := pgxmock.NewRows([]string{
		"id", "ticket_id", "content", "user_id", "full_name", "role", "attachment_type", "attachment_url", "created_at",
	}).
		AddRow("m-1", "t-1", "hello\n\n:::attachment|video|/uploads/v.mp4:::", &userID, &name, &role,
			(*string)(nil), (*string)(nil), now).
		AddRow("m-2", "t-1", "structured", (*string)(nil), (*string)(nil), (*domain.Role)(nil),
			&imageType, &imageURL, now.Add(time.Second))

	mock.ExpectQuery("FROM messages m LEFT JOIN profiles p").WithArgs("t-1").WillReturnRows(rows)

	messages, err := NewMessageRepository(mock).ListByTicket(context.Background(), "t-1")
	require.NoError(t, err)
	require.Len(t, messages, 2)

	assert.Equal(t, "hello", messages[0].Content)
	require.NotNil(t, messages[0].Attachment)
	assert.Equal(t, domain.AttachmentTypeVideo, messages[0].Attachment.Type)
	assert.Equal(t, "/uploads/v.mp4", messages[0].Attachment.URL)
	assert.Equal(t, "Ana Driver", *messages[0].AuthorName)

	require.NotNil(t, messages[1].Attachment)
	assert.Equal(t, domain.AttachmentTypeImage, messages[1].Attachment.Type)
	assert.Nil(t, messages[1].AuthorName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

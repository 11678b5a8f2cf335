package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

func TestCreateComment_AttachmentRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	driver := f.account(t, "driver@example.com", "driver", domain.RoleUser)
	ticket, err := f.tickets.CreateTicket(ctx, driver, TicketCreateInput{Title: "a", Description: "b", Topic: "c"})
	require.NoError(t, err)

	_, err = f.comments.CreateComment(ctx, driver, ticket.ID, CommentInput{
		Content:    "photo of the damage",
		Attachment: &domain.Attachment{Type: domain.AttachmentTypeImage, URL: "/uploads/x.png"},
	})
	require.NoError(t, err)

	_, err = f.comments.CreateComment(ctx, driver, ticket.ID, CommentInput{
		Content: domain.AppendAttachmentToken("legacy client", domain.Attachment{Type: domain.AttachmentTypeVideo, URL: "/uploads/y.mp4"}),
	})
	require.NoError(t, err)

	comments, err := f.comments.GetComments(ctx, driver, ticket.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)

	assert.Equal(t, "photo of the damage", comments[0].Content)
	require.NotNil(t, comments[0].Attachment)
	assert.Equal(t, domain.AttachmentTypeImage, comments[0].Attachment.Type)
	assert.Equal(t, "/uploads/x.png", comments[0].Attachment.URL)
	require.NotNil(t, comments[0].AuthorName)
	assert.Equal(t, "driver", *comments[0].AuthorName)

	assert.Equal(t, "legacy client", comments[1].Content)
	require.NotNil(t, comments[1].Attachment)
	assert.Equal(t, domain.AttachmentTypeVideo, comments[1].Attachment.Type)
	assert.Equal(t, "/uploads/y.mp4", comments[1].Attachment.URL)

	assert.Contains(t, f.eventTypes(), events.EventCommentAdded)
}

func TestCreateComment_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := f.account(t, "admin@example.com", "admin", domain.RoleAdmin)
	ticket, err := f.tickets.CreateTicket(ctx, nil, TicketCreateInput{Title: "a", Description: "b", Topic: "c"})
	require.NoError(t, err)

	_, err = f.comments.CreateComment(ctx, admin, ticket.ID, CommentInput{Content: "   "})
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))

	_, err = f.comments.CreateComment(ctx, admin, ticket.ID, CommentInput{
		Attachment: &domain.Attachment{Type: "pdf", URL: "/uploads/a.pdf"},
	})
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))

	_, err = f.comments.CreateComment(ctx, admin, ticket.ID, CommentInput{
		Content:    domain.AppendAttachmentToken("two files", domain.Attachment{Type: domain.AttachmentTypeVideo, URL: "/uploads/v.mp4"}),
		Attachment: &domain.Attachment{Type: domain.AttachmentTypeImage, URL: "/uploads/i.png"},
	})
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))

	message, err := f.comments.CreateComment(ctx, admin, ticket.ID, CommentInput{
		Attachment: &domain.Attachment{Type: "IMAGE", URL: "/uploads/a.png"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.AttachmentTypeImage, message.Attachment.Type)
	assert.Empty(t, message.Content)
	require.NotNil(t, message.AuthorRole)
	assert.Equal(t, domain.RoleAdmin, *message.AuthorRole)
}

func TestComments_Access(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := f.account(t, "admin@example.com", "admin", domain.RoleAdmin)
	driver := f.account(t, "driver@example.com", "driver", domain.RoleUser)
	stranger := f.account(t, "stranger@example.com", "stranger", domain.RoleUser)
	ticket, err := f.tickets.CreateTicket(ctx, driver, TicketCreateInput{Title: "a", Description: "b", Topic: "c"})
	require.NoError(t, err)

	_, err = f.comments.CreateComment(ctx, admin, ticket.ID, CommentInput{Content: "on it"})
	require.NoError(t, err)

	_, err = f.comments.GetComments(ctx, stranger, ticket.ID)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))

	_, err = f.comments.CreateComment(ctx, stranger, ticket.ID, CommentInput{Content: "hi"})
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))

	_, err = f.comments.GetComments(ctx, nil, ticket.ID)
	assert.True(t, apperrors.IsCode(err, "UNAUTHORIZED"))

	_, err = f.comments.GetComments(ctx, admin, "missing")
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))

	comments, err := f.comments.GetComments(ctx, driver, ticket.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, domain.RoleAdmin, *comments[0].AuthorRole)
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachmentTokenRoundTrip(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		attachment Attachment
		wantClean  string
	}{
		{
			name:       "image after text",
			content:    "Photo of the broken unit",
			attachment: Attachment{Type: AttachmentTypeImage, URL: "/uploads/0f3a.png"},
			wantClean:  "Photo of the broken unit",
		},
		{
			name:       "video without text",
			content:    "",
			attachment: Attachment{Type: AttachmentTypeVideo, URL: "https://cdn.example.com/clip.mp4"},
			wantClean:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := AppendAttachmentToken(tt.content, tt.attachment)

			clean, got := ExtractAttachmentToken(encoded)
			require.NotNil(t, got)
			assert.Equal(t, tt.attachment, *got)
			assert.Equal(t, tt.wantClean, clean)
		})
	}
}

func TestExtractAttachmentToken(t *testing.T) {
	t.Run("no token", func(t *testing.T) {
		clean, att := ExtractAttachmentToken("just words | with pipes")
		assert.Nil(t, att)
		assert.Equal(t, "just words | with pipes", clean)
	})

	t.Run("unknown type is left alone", func(t *testing.T) {
		content := "see :::attachment|pdf|/uploads/a.pdf:::"
		clean, att := ExtractAttachmentToken(content)
		assert.Nil(t, att)
		assert.Equal(t, content, clean)
	})

	t.Run("token in the middle", func(t *testing.T) {
		clean, att := ExtractAttachmentToken("before :::attachment|image|/uploads/a.png::: after")
		require.NotNil(t, att)
		assert.Equal(t, "/uploads/a.png", att.URL)
		assert.Equal(t, "before  after", clean)
	})

	t.Run("first of several tokens wins", func(t *testing.T) {
		content := ":::attachment|image|/uploads/1.png:::\n:::attachment|video|/uploads/2.mp4:::"
		clean, att := ExtractAttachmentToken(content)
		require.NotNil(t, att)
		assert.Equal(t, AttachmentTypeImage, att.Type)
		assert.Equal(t, "/uploads/1.png", att.URL)
		assert.Empty(t, clean)
	})
}

func TestMessageNormalizeAttachment(t *testing.T) {
	structured := &Attachment{Type: AttachmentTypeVideo, URL: "/uploads/v.mp4"}
	msg := Message{
		Content:    "hello\n\n:::attachment|image|/uploads/i.png:::",
		Attachment: structured,
	}

	msg.NormalizeAttachment()

	assert.Equal(t, "hello", msg.Content)
	assert.Same(t, structured, msg.Attachment)
}

func TestParseTicketStatus(t *testing.T) {
	status, ok := ParseTicketStatus(" in_progress ")
	assert.True(t, ok)
	assert.Equal(t, TicketStatusInProgress, status)

	_, ok = ParseTicketStatus("DONE")
	assert.False(t, ok)

	_, ok = ParseTicketPriority("URGENT")
	assert.False(t, ok)
}

package domain

import (
	"regexp"
	"strings"
	"time"
)

// AttachmentType is the media kind of a comment attachment.
type AttachmentType string

const (
	AttachmentTypeImage AttachmentType = "image"
	AttachmentTypeVideo AttachmentType = "video"
)

// Valid reports whether t is a supported attachment type.
func (t AttachmentType) Valid() bool {
	return t == AttachmentTypeImage || t == AttachmentTypeVideo
}

// Attachment points at an uploaded file.
type Attachment struct {
	Type AttachmentType
	URL  string
}

// Message is a comment appended to a ticket thread.
type Message struct {
	ID         string
	TicketID   string
	Content    string
	UserID     *string
	AuthorName *string
	AuthorRole *Role
	Attachment *Attachment
	CreatedAt  time.Time
}

// Legacy rows carried attachments inline as :::attachment|<type>|<url>:::.
var attachmentTokenPattern = regexp.MustCompile(`:::attachment\|(image|video)\|(.+?):::`)

// EncodeAttachmentToken renders a in the legacy inline grammar.
func EncodeAttachmentToken(a Attachment) string {
	return ":::attachment|" + string(a.Type) + "|" + a.URL + ":::"
}

// AppendAttachmentToken appends the inline token to content the way older clients did.
func AppendAttachmentToken(content string, a Attachment) string {
	token := EncodeAttachmentToken(a)
	if strings.TrimSpace(content) == "" {
		return token
	}
	return content + "\n\n" + token
}

// ExtractAttachmentToken removes inline tokens from content and returns the first one found.
func ExtractAttachmentToken(content string) (string, *Attachment) {
	match := attachmentTokenPattern.FindStringSubmatch(content)
	if match == nil {
		return content, nil
	}
	clean := strings.TrimSpace(attachmentTokenPattern.ReplaceAllString(content, ""))
	return clean, &Attachment{
		Type: AttachmentType(match[1]),
		URL:  strings.TrimSpace(match[2]),
	}
}

// NormalizeAttachment moves an inline token into the structured field. A structured
// attachment that is already set wins over the inline one.
func (m *Message) NormalizeAttachment() {
	clean, inline := ExtractAttachmentToken(m.Content)
	m.Content = clean
	if m.Attachment == nil {
		m.Attachment = inline
	}
}

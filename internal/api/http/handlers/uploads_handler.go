package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/storage"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// UploadsHandler accepts attachment uploads and serves them back.
type UploadsHandler struct {
	store    *storage.BlobStore
	maxBytes int64
	logger   *zap.Logger
}

// NewUploadsHandler constructs handler. maxBytes <= 0 leaves only the server body limit.
func NewUploadsHandler(store *storage.BlobStore, maxBytes int64, logger *zap.Logger) *UploadsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UploadsHandler{store: store, maxBytes: maxBytes, logger: logger}
}

// Upload POST /api/upload with a multipart "file" field.
func (h *UploadsHandler) Upload(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("file is required", map[string]any{"field": "file"})
	}
	if h.maxBytes > 0 && header.Size > h.maxBytes {
		return apperrors.NewDomainError("PAYLOAD_TOO_LARGE", "file is too large", fiber.StatusRequestEntityTooLarge,
			map[string]any{"max_bytes": h.maxBytes})
	}
	contentType := header.Header.Get(fiber.HeaderContentType)
	attachmentType, ok := storage.AttachmentTypeFor(contentType)
	if !ok {
		return apperrors.NewValidationError("only image and video uploads are supported",
			map[string]any{"content_type": contentType})
	}

	file, err := header.Open()
	if err != nil {
		return apperrors.NewValidationError("unreadable upload", nil)
	}
	defer file.Close()

	url, err := h.store.Upload(c.UserContext(), header.Filename, contentType, file)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedType) {
			return apperrors.NewValidationError("only image and video uploads are supported", nil)
		}
		h.logger.Error("failed to store upload", zap.String("file", header.Filename), zap.Error(err))
		return apperrors.NewInternalError(err)
	}
	return respond(c, fiber.StatusCreated, dto.UploadResponse{URL: url, Type: string(attachmentType)})
}

// Serve GET /uploads/:filename.
func (h *UploadsHandler) Serve(c *fiber.Ctx) error {
	reader, contentType, err := h.store.Open(c.UserContext(), c.Params("filename"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidKey) {
			return apperrors.NewNotFound("file", nil)
		}
		return apperrors.NewInternalError(err)
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderXContentTypeOptions, "nosniff")
	c.Set(fiber.HeaderContentSecurityPolicy, "sandbox")
	c.Set(fiber.HeaderCacheControl, "public, max-age=31536000, immutable")
	return c.SendStream(reader)
}

// Package storage keeps uploaded attachments in a gocloud bucket and hands back the
// public URL they are served from.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	"gocloud.dev/blob/memblob"
	"gocloud.dev/gcerrors"

	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/domain"
)

var (
	// ErrUnsupportedType is returned for uploads that are neither images nor videos.
	ErrUnsupportedType = errors.New("only image and video files are allowed")
	// ErrInvalidKey is returned when a requested name is not a bare file name.
	ErrInvalidKey = errors.New("invalid file name")
	// ErrNotFound is returned when the requested object does not exist.
	ErrNotFound = errors.New("file not found")
)

var contentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".mov":  "video/quicktime",
}

var extensions = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"video/mp4":       ".mp4",
	"video/webm":      ".webm",
	"video/quicktime": ".mov",
}

const defaultContentType = "application/octet-stream"

// SVG can carry script and would run on this origin, so it is never accepted.
const svgContentType = "image/svg+xml"

// BlobStore stores uploads in a bucket.
type BlobStore struct {
	bucket       *blob.Bucket
	publicPrefix string
}

// Open picks a bucket from cfg: BucketURL when set, otherwise a directory bucket at UploadDir.
func Open(ctx context.Context, cfg config.StorageConfig) (*BlobStore, error) {
	var (
		bucket *blob.Bucket
		err    error
	)
	if cfg.BucketURL != "" {
		bucket, err = blob.OpenBucket(ctx, cfg.BucketURL)
	} else {
		bucket, err = fileblob.OpenBucket(cfg.UploadDir, &fileblob.Options{CreateDir: true})
	}
	if err != nil {
		return nil, fmt.Errorf("open upload bucket: %w", err)
	}
	return NewBlobStore(bucket, cfg.PublicPrefix), nil
}

// NewMemoryStore returns a store backed by an in-memory bucket.
func NewMemoryStore(publicPrefix string) *BlobStore {
	return NewBlobStore(memblob.OpenBucket(nil), publicPrefix)
}

// NewBlobStore wraps an already opened bucket.
func NewBlobStore(bucket *blob.Bucket, publicPrefix string) *BlobStore {
	if publicPrefix == "" {
		publicPrefix = "/uploads/"
	}
	if !strings.HasSuffix(publicPrefix, "/") {
		publicPrefix += "/"
	}
	return &BlobStore{bucket: bucket, publicPrefix: publicPrefix}
}

// Close releases the bucket.
func (s *BlobStore) Close() error {
	return s.bucket.Close()
}

// Upload stores r under a fresh <uuid>.<ext> key and returns the public URL.
func (s *BlobStore) Upload(ctx context.Context, fileName, contentType string, r io.Reader) (string, error) {
	contentType = normalizeContentType(contentType)
	if _, ok := AttachmentTypeFor(contentType); !ok {
		return "", ErrUnsupportedType
	}

	key := uuid.NewString() + extensionFor(fileName, contentType)
	w, err := s.bucket.NewWriter(ctx, key, &blob.WriterOptions{ContentType: contentType})
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return s.publicPrefix + key, nil
}

// Open returns the stored object and the content type implied by its extension.
func (s *BlobStore) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	if !validKey(key) {
		return nil, "", ErrInvalidKey
	}
	reader, err := s.bucket.NewReader(ctx, key, nil)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, "", ErrNotFound
		}
		return nil, "", err
	}
	return reader, ContentTypeFor(key), nil
}

// ContentTypeFor maps a file name to the content type it is served with.
func ContentTypeFor(name string) string {
	if ct, ok := contentTypes[strings.ToLower(path.Ext(name))]; ok {
		return ct
	}
	return defaultContentType
}

// AttachmentTypeFor classifies a MIME type as an image or video attachment.
func AttachmentTypeFor(contentType string) (domain.AttachmentType, bool) {
	contentType = normalizeContentType(contentType)
	switch {
	case contentType == svgContentType:
		return "", false
	case strings.HasPrefix(contentType, "image/"):
		return domain.AttachmentTypeImage, true
	case strings.HasPrefix(contentType, "video/"):
		return domain.AttachmentTypeVideo, true
	}
	return "", false
}

func normalizeContentType(contentType string) string {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}

func extensionFor(fileName, contentType string) string {
	ext := strings.ToLower(path.Ext(fileName))
	if ext != "" && len(ext) <= 6 && !strings.ContainsAny(ext, `/\`) {
		return ext
	}
	if ext, ok := extensions[contentType]; ok {
		return ext
	}
	return ".bin"
}

func validKey(key string) bool {
	if key == "" || key == "." || key == ".." {
		return false
	}
	return !strings.ContainsAny(key, `/\`) && !strings.Contains(key, "..")
}

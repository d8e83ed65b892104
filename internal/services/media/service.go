package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"strings"

	"github.com/google/uuid"

	"github.com/forgecommerce/catalog/internal/metrics"
	"github.com/forgecommerce/catalog/internal/storage"
)

var (
	// ErrInvalidContentType is returned when the uploaded file is not an image.
	ErrInvalidContentType = errors.New("invalid content type: only jpeg, png, webp and gif images are allowed")

	// ErrFileTooLarge is returned when the uploaded file exceeds the size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrInvalidMagicBytes is returned when the file content does not match a supported image format.
	ErrInvalidMagicBytes = errors.New("invalid file: content does not match a supported image format")
)

// DefaultMaxSize is the upload limit used when none is configured.
const DefaultMaxSize = 5 * 1024 * 1024

// KeyPrefix is the folder every product image is stored under.
const KeyPrefix = "product-images"

var allowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// Asset describes an image that has been written to the blob store.
type Asset struct {
	Key         string
	URL         string
	ContentType string
	SizeBytes   int64
}

// Service validates product images and writes them to a blob store.
type Service struct {
	store   storage.Storage
	maxSize int64
	logger  *slog.Logger
}

// NewService creates a media service. A non-positive maxSize selects
// DefaultMaxSize.
func NewService(store storage.Storage, maxSize int64, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Service{
		store:   store,
		maxSize: maxSize,
		logger:  logger,
	}
}

// MaxSize is the largest accepted upload in bytes.
func (s *Service) MaxSize() int64 {
	return s.maxSize
}

// Upload validates an uploaded image and stores it under
// "product-images/{uuid}-{filename}".
func (s *Service) Upload(ctx context.Context, file multipart.File, header *multipart.FileHeader) (Asset, error) {
	asset, err := s.upload(ctx, file, header)
	switch {
	case err == nil:
		metrics.ImageUploadsTotal.WithLabelValues("success").Inc()
	case IsRejected(err):
		metrics.ImageUploadsTotal.WithLabelValues("rejected").Inc()
	default:
		metrics.ImageUploadsTotal.WithLabelValues("error").Inc()
	}
	return asset, err
}

func (s *Service) upload(ctx context.Context, file multipart.File, header *multipart.FileHeader) (Asset, error) {
	if header.Size > s.maxSize {
		return Asset{}, ErrFileTooLarge
	}

	contentType := strings.ToLower(strings.TrimSpace(header.Header.Get("Content-Type")))
	if !allowedContentTypes[contentType] {
		return Asset{}, ErrInvalidContentType
	}

	magicBuf := make([]byte, 512)
	n, err := io.ReadFull(file, magicBuf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return Asset{}, fmt.Errorf("reading file header: %w", err)
	}
	if !isValidImageMagicBytes(magicBuf[:n]) {
		return Asset{}, ErrInvalidMagicBytes
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return Asset{}, fmt.Errorf("seeking file: %w", err)
	}

	key := fmt.Sprintf("%s/%s-%s", KeyPrefix, uuid.New().String(), sanitizeFilename(header.Filename))

	url, err := s.store.Put(ctx, key, io.LimitReader(file, s.maxSize), contentType)
	if err != nil {
		return Asset{}, fmt.Errorf("uploading to storage: %w", err)
	}

	s.logger.Info("image uploaded",
		slog.String("key", key),
		slog.Int64("size_bytes", header.Size),
	)

	return Asset{
		Key:         key,
		URL:         url,
		ContentType: contentType,
		SizeBytes:   header.Size,
	}, nil
}

// Delete removes a stored image by key.
func (s *Service) Delete(ctx context.Context, key string) error {
	if err := s.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("deleting image %s: %w", key, err)
	}
	s.logger.Info("image deleted", slog.String("key", key))
	return nil
}

// Cleanup deletes the given assets, logging rather than returning failures.
// Used to discard images whose product could not be saved.
func (s *Service) Cleanup(ctx context.Context, assets []Asset) {
	for _, a := range assets {
		if err := s.Delete(ctx, a.Key); err != nil {
			s.logger.Warn("failed to clean up image",
				slog.String("key", a.Key),
				slog.String("error", err.Error()),
			)
		}
	}
}

// IsRejected reports whether err is a validation failure of the upload itself
// rather than a storage error.
func IsRejected(err error) bool {
	return errors.Is(err, ErrFileTooLarge) ||
		errors.Is(err, ErrInvalidContentType) ||
		errors.Is(err, ErrInvalidMagicBytes)
}

// --- Helpers ---

// isValidImageMagicBytes checks the first bytes of a file against known image signatures.
func isValidImageMagicBytes(buf []byte) bool {
	if len(buf) < 4 {
		return false
	}

	// JPEG: FF D8 FF
	if buf[0] == 0xFF && buf[1] == 0xD8 && buf[2] == 0xFF {
		return true
	}

	// PNG: 89 50 4E 47
	if buf[0] == 0x89 && buf[1] == 0x50 && buf[2] == 0x4E && buf[3] == 0x47 {
		return true
	}

	// GIF: "GIF8"
	if string(buf[0:4]) == "GIF8" {
		return true
	}

	// WebP: "RIFF" ???? "WEBP"
	if len(buf) >= 12 && string(buf[0:4]) == "RIFF" && string(buf[8:12]) == "WEBP" {
		return true
	}

	return false
}

// sanitizeFilename keeps the base name and only ASCII letters, digits,
// hyphens, underscores and dots.
func sanitizeFilename(name string) string {
	name = name[strings.LastIndex(name, "/")+1:]
	if i := strings.LastIndex(name, "\\"); i >= 0 {
		name = name[i+1:]
	}

	var sb strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			sb.WriteRune(r)
		}
	}

	result := strings.TrimLeft(sb.String(), ".")
	if result == "" {
		result = "upload"
	}
	return result
}

// Package attachment stores payment proof images in object storage.
package attachment

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// MaxProofSize is the largest accepted proof upload in bytes
const MaxProofSize = 5 << 20

// allowedProofTypes lists the accepted proof content types and their extension.
// SVG is not accepted since it can carry scripts.
var allowedProofTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

// ObjectStorage is the object store the proofs are written to
type ObjectStorage interface {
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
}

// UploadInput is one uploaded proof file
type UploadInput struct {
	FileName string
	Data     []byte
	// ContentType is the declared type; when empty it is sniffed from Data
	ContentType string
}

// UploadResponse describes a stored proof
type UploadResponse struct {
	Key         string    `json:"key"`
	ContentType string    `json:"content_type"`
	Size        int       `json:"size"`
	URL         string    `json:"url,omitempty"`
	URLExpires  time.Time `json:"url_expires_at,omitempty"`
}

// Service stores payment proofs and hands back their object key, which is
// what supplier payments record in proof_image.
type Service struct {
	storage   ObjectStorage
	urlExpiry time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

// NewService creates a new attachment Service
func NewService(storage ObjectStorage, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		storage:   storage,
		urlExpiry: 15 * time.Minute,
		now:       time.Now,
		logger:    logger,
	}
}

// UploadPaymentProof validates and stores a payment proof
func (s *Service) UploadPaymentProof(ctx context.Context, uploaderID uuid.UUID, in UploadInput) (*UploadResponse, error) {
	verr := shared.NewValidationError()
	if len(in.Data) == 0 {
		verr.Add("file", "File is required")
	}
	if len(in.Data) > MaxProofSize {
		verr.Add("file", fmt.Sprintf("File cannot exceed %d bytes", MaxProofSize))
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	contentType := normalizeContentType(in.ContentType)
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = normalizeContentType(http.DetectContentType(in.Data))
	}
	ext, ok := allowedProofTypes[contentType]
	if !ok {
		verr.Add("file", fmt.Sprintf("Content type '%s' is not allowed", contentType))
		return nil, verr
	}
	if fileExt := strings.ToLower(filepath.Ext(in.FileName)); fileExt == ".jpeg" && ext == ".jpg" {
		ext = fileExt
	}

	key := s.storageKey(uploaderID, ext)
	if err := s.storage.Upload(ctx, key, in.Data, contentType); err != nil {
		s.logger.Error("payment proof upload failed", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("upload payment proof: %w", err)
	}

	resp := &UploadResponse{Key: key, ContentType: contentType, Size: len(in.Data)}
	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, key, s.urlExpiry)
	if err != nil {
		s.logger.Warn("payment proof download url unavailable", zap.String("key", key), zap.Error(err))
	} else {
		resp.URL = url
		resp.URLExpires = expiresAt
	}

	s.logger.Info("payment proof stored",
		zap.String("key", key),
		zap.String("content_type", contentType),
		zap.Int("size", len(in.Data)),
	)
	return resp, nil
}

// storageKey builds payment-proofs/{yyyy}/{mm}/{uploader}/{uuid}{ext}
func (s *Service) storageKey(uploaderID uuid.UUID, ext string) string {
	now := s.now().UTC()
	return fmt.Sprintf("payment-proofs/%04d/%02d/%s/%s%s",
		now.Year(), int(now.Month()), uploaderID.String(), uuid.New().String(), ext)
}

func normalizeContentType(ct string) string {
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

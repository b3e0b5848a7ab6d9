package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/foodlog/foodlog/internal/metrics"
	"github.com/foodlog/foodlog/internal/storage"
	"github.com/foodlog/foodlog/internal/validation"
)

// Image is a validated upload on its way to a bucket.
type Image struct {
	File        io.Reader
	ContentType string // detected from the content, not the client header
}

func (img *Image) ext() string {
	return validation.ImageExtension(img.ContentType)
}

// Storage paths. Every path is namespaced by the owner's id and a unix-millis timestamp.

func newFoodImagePath(userID string, at time.Time, img *Image) string {
	return fmt.Sprintf("%s/food-%d.%s", userID, at.UnixMilli(), img.ext())
}

func replacedFoodImagePath(userID, foodID string, at time.Time, img *Image) string {
	return fmt.Sprintf("user-%s/%s-%d.%s", userID, foodID, at.UnixMilli(), img.ext())
}

func registerAvatarPath(userID string, at time.Time, img *Image) string {
	return fmt.Sprintf("%s/avatar-%d.%s", userID, at.UnixMilli(), img.ext())
}

func profileAvatarPath(userID string, at time.Time, img *Image) string {
	return fmt.Sprintf("user-%s/avatar-%d.%s", userID, at.UnixMilli(), img.ext())
}

// FileService writes uploads to one bucket.
type FileService struct {
	storage storage.Storage
	bucket  string
}

func NewFileService(st storage.Storage, bucket string) *FileService {
	return &FileService{storage: st, bucket: bucket}
}

func (s *FileService) Upload(ctx context.Context, path string, img *Image) error {
	err := s.storage.Save(ctx, path, img.File, img.ContentType)
	if err != nil {
		metrics.Uploads.WithLabelValues(s.bucket, "error").Inc()
		return fmt.Errorf("failed to save file: %w", err)
	}

	metrics.Uploads.WithLabelValues(s.bucket, "ok").Inc()
	return nil
}

// Discard removes an object whose row write failed. Best effort.
func (s *FileService) Discard(ctx context.Context, path string) {
	err := s.storage.Delete(ctx, path)
	if err != nil {
		slog.Error("failed to delete file from storage during cleanup", "error", err, "bucket", s.bucket, "path", path)
		return
	}
	metrics.Uploads.WithLabelValues(s.bucket, "discarded").Inc()
}

package service

import (
	"context"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/scholarhub-org/scholarhub-api/pkg/config"
	appErrors "github.com/scholarhub-org/scholarhub-api/pkg/errors"
	"github.com/scholarhub-org/scholarhub-api/pkg/jobs"
)

// ImageStore abstracts the object store holding record images.
type ImageStore interface {
	Upload(ctx context.Context, filename, contentType string, body io.ReadSeeker) (string, error)
	Delete(ctx context.Context, objectURL string) error
}

// ImageUpload is a parsed multipart image part.
type ImageUpload struct {
	Filename string
	Size     int64
	MimeType string
	Content  io.ReadSeeker
}

// ImageCleanup schedules best-effort deletions of replaced or orphaned
// objects. Failures retry on the queue and are logged on exhaustion; they
// never surface to the request that scheduled them.
type ImageCleanup struct {
	queue   *jobs.Queue
	logger  *zap.Logger
	metrics *MetricsService
}

// NewImageCleanup wires the cleanup queue around the store.
func NewImageCleanup(store ImageStore, metrics *MetricsService, cfg config.CleanupConfig, logger *zap.Logger) *ImageCleanup {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &ImageCleanup{logger: logger, metrics: metrics}
	c.queue = jobs.NewQueue("image-cleanup", func(ctx context.Context, job jobs.Job) error {
		url, _ := job.Payload.(string)
		if url == "" {
			return nil
		}
		if err := store.Delete(ctx, url); err != nil {
			if metrics != nil {
				metrics.RecordCleanup(false)
			}
			return err
		}
		if metrics != nil {
			metrics.RecordCleanup(true)
		}
		return nil
	}, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})
	return c
}

// Start launches the queue workers.
func (c *ImageCleanup) Start(ctx context.Context) {
	c.queue.Start(ctx)
}

// Stop drains the queue workers.
func (c *ImageCleanup) Stop() {
	c.queue.Stop()
}

// Schedule enqueues one object URL for deletion. A full or stopped queue is
// logged and dropped; the caller's write already succeeded.
func (c *ImageCleanup) Schedule(objectURL string) {
	if c == nil || strings.TrimSpace(objectURL) == "" {
		return
	}
	err := c.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    "delete-object",
		Payload: objectURL,
	})
	if err != nil {
		c.logger.Warn("failed to schedule image cleanup", zap.String("url", objectURL), zap.Error(err))
	}
}

// validateUpload enforces the size cap and MIME allow list on an incoming
// image part.
func validateUpload(upload *ImageUpload, cfg config.UploadsConfig) error {
	if upload == nil {
		return nil
	}
	if cfg.MaxFileSizeBytes > 0 && upload.Size > cfg.MaxFileSizeBytes {
		return appErrors.Clone(appErrors.ErrValidation, "image exceeds the maximum allowed size")
	}
	mime := strings.ToLower(strings.TrimSpace(upload.MimeType))
	if !strings.HasPrefix(mime, "image/") {
		return appErrors.Clone(appErrors.ErrValidation, "only image files are accepted")
	}
	if len(cfg.AllowedMIMEs) > 0 {
		for _, allowed := range cfg.AllowedMIMEs {
			if mime == strings.ToLower(strings.TrimSpace(allowed)) {
				return nil
			}
		}
		return appErrors.Clone(appErrors.ErrValidation, "unsupported image type")
	}
	return nil
}

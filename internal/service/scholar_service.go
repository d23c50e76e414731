package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/scholarhub-org/scholarhub-api/internal/forms"
	"github.com/scholarhub-org/scholarhub-api/internal/models"
	"github.com/scholarhub-org/scholarhub-api/pkg/config"
	appErrors "github.com/scholarhub-org/scholarhub-api/pkg/errors"
	"github.com/scholarhub-org/scholarhub-api/pkg/richtext"
)

const scholarListCacheKey = "scholars:list"
const scholarCachePattern = "scholars:*"

type scholarRepository interface {
	List(ctx context.Context) ([]models.Scholar, error)
	FindByID(ctx context.Context, id string) (*models.Scholar, error)
	Create(ctx context.Context, scholar *models.Scholar) error
	Update(ctx context.Context, id string, update models.ScholarUpdate) error
	Delete(ctx context.Context, id string) error
}

// ScholarService implements the scholar collection use cases.
type ScholarService struct {
	repo    scholarRepository
	storage ImageStore
	cleanup *ImageCleanup
	cache   *CacheService
	metrics *MetricsService
	uploads config.UploadsConfig
	logger  *zap.Logger
}

// NewScholarService constructs a ScholarService.
func NewScholarService(repo scholarRepository, storage ImageStore, cleanup *ImageCleanup, cache *CacheService, metrics *MetricsService, uploads config.UploadsConfig, logger *zap.Logger) *ScholarService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScholarService{repo: repo, storage: storage, cleanup: cleanup, cache: cache, metrics: metrics, uploads: uploads, logger: logger}
}

// List returns every scholar, newest first. Public reads go through the
// listing cache when it is enabled.
func (s *ScholarService) List(ctx context.Context) ([]models.Scholar, error) {
	var cached []models.Scholar
	if hit, err := s.cache.Get(ctx, scholarListCacheKey, &cached); err == nil && hit {
		return cached, nil
	}

	scholars, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list scholars")
	}

	if err := s.cache.Set(ctx, scholarListCacheKey, scholars, 0); err != nil {
		s.logger.Warn("failed to cache scholar list", zap.Error(err))
	}
	return scholars, nil
}

// Get returns a single scholar by ID.
func (s *ScholarService) Get(ctx context.Context, id string) (*models.Scholar, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidIdentifier, "invalid scholar id")
	}

	scholar, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "scholar not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load scholar")
	}
	return scholar, nil
}

// Create validates the submitted form, uploads the image when one is
// attached, and persists a new scholar. The upload happens before the row is
// written; a failed upload aborts the request, a failed insert removes the
// just-uploaded object again.
func (s *ScholarService) Create(ctx context.Context, form forms.Values, upload *ImageUpload) (*models.Scholar, error) {
	if err := s.validateCreate(form); err != nil {
		return nil, err
	}
	if err := validateUpload(upload, s.uploads); err != nil {
		return nil, err
	}

	scholar := &models.Scholar{
		Name:         strings.TrimSpace(derefString(form.Text("name"))),
		Email:        strings.TrimSpace(derefString(form.Text("email"))),
		IGAccount:    strings.TrimSpace(derefString(form.Text("ig_acc"))),
		About:        richtext.Sanitize(derefString(form.Text("about"))),
		Sponsor:      strings.TrimSpace(derefString(form.Text("sponsor"))),
		Availability: true,
	}
	if list, ok := form.List("major"); ok {
		scholar.Major = list
	} else {
		scholar.Major = []string{}
	}
	if list, ok := form.List("institution"); ok {
		scholar.Institution = list
	} else {
		scholar.Institution = []string{}
	}
	if avail := form.Bool("availability"); avail != nil {
		scholar.Availability = *avail
	}

	if upload != nil {
		url, err := s.storage.Upload(ctx, upload.Filename, upload.MimeType, upload.Content)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrUpstreamStorage.Code, appErrors.ErrUpstreamStorage.Status, "image upload failed")
		}
		if s.metrics != nil {
			s.metrics.ObserveUpload(upload.Size)
		}
		scholar.Image = &url
	}

	if err := s.repo.Create(ctx, scholar); err != nil {
		if scholar.Image != nil {
			if delErr := s.storage.Delete(ctx, *scholar.Image); delErr != nil {
				s.logger.Warn("failed to remove uploaded image after insert failure", zap.Error(delErr))
			}
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create scholar")
	}

	s.invalidateCache(ctx)
	return scholar, nil
}

// Update stages only the fields present in the submitted form. An update
// with no recognized field and no image change is rejected before any
// storage traffic.
func (s *ScholarService) Update(ctx context.Context, id string, form forms.Values, upload *ImageUpload) (*models.Scholar, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidIdentifier, "invalid scholar id")
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "scholar not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load scholar")
	}

	update := models.ScholarUpdate{}
	if name := form.Text("name"); name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "name must not be empty")
		}
		update.Name = &trimmed
	}
	if email := form.Text("email"); email != nil {
		trimmed := strings.TrimSpace(*email)
		if trimmed == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "email must not be empty")
		}
		update.Email = &trimmed
	}
	if ig := form.Text("ig_acc"); ig != nil {
		trimmed := strings.TrimSpace(*ig)
		update.IGAccount = &trimmed
	}
	if about := form.Text("about"); about != nil {
		if richtext.IsEmpty(*about) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "about must not be empty")
		}
		clean := richtext.Sanitize(*about)
		update.About = &clean
	}
	if sponsor := form.Text("sponsor"); sponsor != nil {
		trimmed := strings.TrimSpace(*sponsor)
		if trimmed == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "sponsor must not be empty")
		}
		update.Sponsor = &trimmed
	}
	if list, ok := form.List("major"); ok {
		update.Major = list
		update.MajorSet = true
	}
	if list, ok := form.List("institution"); ok {
		update.Institution = list
		update.InstitutionSet = true
	}
	if avail := form.Bool("availability"); avail != nil {
		update.Availability = avail
	}

	removeImage := derefString(form.Text("imageAction")) == "remove"

	if update.Empty() && upload == nil && !removeImage {
		return nil, appErrors.Clone(appErrors.ErrNoChanges, "no changes supplied")
	}

	if err := validateUpload(upload, s.uploads); err != nil {
		return nil, err
	}

	if upload != nil {
		url, err := s.storage.Upload(ctx, upload.Filename, upload.MimeType, upload.Content)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrUpstreamStorage.Code, appErrors.ErrUpstreamStorage.Status, "image upload failed")
		}
		if s.metrics != nil {
			s.metrics.ObserveUpload(upload.Size)
		}
		update.Image = &url
		update.ImageSet = true
	} else if removeImage {
		update.Image = nil
		update.ImageSet = true
	}

	if err := s.repo.Update(ctx, id, update); err != nil {
		if update.ImageSet && update.Image != nil {
			if delErr := s.storage.Delete(ctx, *update.Image); delErr != nil {
				s.logger.Warn("failed to remove uploaded image after update failure", zap.Error(delErr))
			}
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "scholar not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update scholar")
	}

	if update.ImageSet && current.Image != nil {
		s.cleanup.Schedule(*current.Image)
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload scholar")
	}

	s.invalidateCache(ctx)
	return updated, nil
}

// Delete removes a scholar and schedules deletion of its image.
func (s *ScholarService) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return appErrors.Clone(appErrors.ErrInvalidIdentifier, "invalid scholar id")
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "scholar not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load scholar")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "scholar not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete scholar")
	}

	if current.Image != nil {
		s.cleanup.Schedule(*current.Image)
	}

	s.invalidateCache(ctx)
	return nil
}

func (s *ScholarService) validateCreate(form forms.Values) error {
	if strings.TrimSpace(derefString(form.Text("name"))) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "name is required")
	}
	if strings.TrimSpace(derefString(form.Text("email"))) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "email is required")
	}
	if strings.TrimSpace(derefString(form.Text("sponsor"))) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "sponsor is required")
	}
	if richtext.IsEmpty(derefString(form.Text("about"))) {
		return appErrors.Clone(appErrors.ErrValidation, "about is required")
	}
	if list, ok := form.List("major"); !ok || len(list) == 0 {
		return appErrors.Clone(appErrors.ErrValidation, "at least one major is required")
	}
	if list, ok := form.List("institution"); !ok || len(list) == 0 {
		return appErrors.Clone(appErrors.ErrValidation, "at least one institution is required")
	}
	return nil
}

func (s *ScholarService) invalidateCache(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, scholarCachePattern); err != nil {
		s.logger.Warn("failed to invalidate scholar cache", zap.Error(err))
	}
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

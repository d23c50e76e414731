package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/scholarhub-org/scholarhub-api/internal/forms"
	"github.com/scholarhub-org/scholarhub-api/internal/models"
	"github.com/scholarhub-org/scholarhub-api/pkg/config"
	appErrors "github.com/scholarhub-org/scholarhub-api/pkg/errors"
	"github.com/scholarhub-org/scholarhub-api/pkg/richtext"
)

const sponsorListCacheKey = "sponsors:list"
const sponsorCachePattern = "sponsors:*"

// Accepted layouts for scholarship window dates.
var sponsorDateLayouts = []string{"2006-01-02", time.RFC3339}

type sponsorRepository interface {
	List(ctx context.Context) ([]models.Sponsor, error)
	FindByID(ctx context.Context, id string) (*models.Sponsor, error)
	Create(ctx context.Context, sponsor *models.Sponsor) error
	Update(ctx context.Context, id string, update models.SponsorUpdate) error
	Delete(ctx context.Context, id string) error
}

// SponsorService implements the scholarship collection use cases.
type SponsorService struct {
	repo    sponsorRepository
	storage ImageStore
	cleanup *ImageCleanup
	cache   *CacheService
	metrics *MetricsService
	uploads config.UploadsConfig
	logger  *zap.Logger
}

// NewSponsorService constructs a SponsorService.
func NewSponsorService(repo sponsorRepository, storage ImageStore, cleanup *ImageCleanup, cache *CacheService, metrics *MetricsService, uploads config.UploadsConfig, logger *zap.Logger) *SponsorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SponsorService{repo: repo, storage: storage, cleanup: cleanup, cache: cache, metrics: metrics, uploads: uploads, logger: logger}
}

// List returns every scholarship, newest first.
func (s *SponsorService) List(ctx context.Context) ([]models.Sponsor, error) {
	var cached []models.Sponsor
	if hit, err := s.cache.Get(ctx, sponsorListCacheKey, &cached); err == nil && hit {
		return cached, nil
	}

	sponsors, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sponsors")
	}

	if err := s.cache.Set(ctx, sponsorListCacheKey, sponsors, 0); err != nil {
		s.logger.Warn("failed to cache sponsor list", zap.Error(err))
	}
	return sponsors, nil
}

// Get returns a single scholarship by ID.
func (s *SponsorService) Get(ctx context.Context, id string) (*models.Sponsor, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidIdentifier, "invalid sponsor id")
	}

	sponsor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "sponsor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sponsor")
	}
	return sponsor, nil
}

// Create validates the form and persists a new scholarship, uploading the
// image first when one is attached.
func (s *SponsorService) Create(ctx context.Context, form forms.Values, upload *ImageUpload) (*models.Sponsor, error) {
	if err := s.validateCreate(form); err != nil {
		return nil, err
	}
	if err := validateUpload(upload, s.uploads); err != nil {
		return nil, err
	}

	timeStart, err := parseSponsorDate(derefString(form.Text("time_start")))
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "time_start must be a valid date")
	}
	timeEnd, err := parseSponsorDate(derefString(form.Text("time_end")))
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "time_end must be a valid date")
	}

	sponsor := &models.Sponsor{
		Sponsor:   strings.TrimSpace(derefString(form.Text("sponsor"))),
		Status:    true,
		TimeStart: timeStart,
		TimeEnd:   timeEnd,
		Link:      strings.TrimSpace(derefString(form.Text("link"))),
		About:     richtext.Sanitize(derefString(form.Text("about"))),
	}
	if list, ok := form.List("programs"); ok {
		sponsor.Programs = list
	} else {
		sponsor.Programs = []string{}
	}
	if list, ok := form.List("majors_offered"); ok {
		sponsor.MajorsOffered = list
	} else {
		sponsor.MajorsOffered = []string{}
	}
	if status := form.Bool("status"); status != nil {
		sponsor.Status = *status
	}

	if upload != nil {
		url, err := s.storage.Upload(ctx, upload.Filename, upload.MimeType, upload.Content)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrUpstreamStorage.Code, appErrors.ErrUpstreamStorage.Status, "image upload failed")
		}
		if s.metrics != nil {
			s.metrics.ObserveUpload(upload.Size)
		}
		sponsor.Image = &url
	}

	if err := s.repo.Create(ctx, sponsor); err != nil {
		if sponsor.Image != nil {
			if delErr := s.storage.Delete(ctx, *sponsor.Image); delErr != nil {
				s.logger.Warn("failed to remove uploaded image after insert failure", zap.Error(delErr))
			}
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create sponsor")
	}

	s.invalidateCache(ctx)
	return sponsor, nil
}

// Update stages only the fields present in the submitted form.
func (s *SponsorService) Update(ctx context.Context, id string, form forms.Values, upload *ImageUpload) (*models.Sponsor, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidIdentifier, "invalid sponsor id")
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "sponsor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sponsor")
	}

	update := models.SponsorUpdate{}
	if name := form.Text("sponsor"); name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "sponsor must not be empty")
		}
		update.Sponsor = &trimmed
	}
	if status := form.Bool("status"); status != nil {
		update.Status = status
	}
	if raw := form.Text("time_start"); raw != nil {
		ts, err := parseSponsorDate(*raw)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "time_start must be a valid date")
		}
		update.TimeStart = &ts
	}
	if raw := form.Text("time_end"); raw != nil {
		ts, err := parseSponsorDate(*raw)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "time_end must be a valid date")
		}
		update.TimeEnd = &ts
	}
	if list, ok := form.List("programs"); ok {
		update.Programs = list
		update.ProgramsSet = true
	}
	if list, ok := form.List("majors_offered"); ok {
		update.MajorsOffered = list
		update.MajorsOfferedSet = true
	}
	if link := form.Text("link"); link != nil {
		trimmed := strings.TrimSpace(*link)
		update.Link = &trimmed
	}
	if about := form.Text("about"); about != nil {
		if richtext.IsEmpty(*about) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "about must not be empty")
		}
		clean := richtext.Sanitize(*about)
		update.About = &clean
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
			return nil, appErrors.Clone(appErrors.ErrNotFound, "sponsor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update sponsor")
	}

	if update.ImageSet && current.Image != nil {
		s.cleanup.Schedule(*current.Image)
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload sponsor")
	}

	s.invalidateCache(ctx)
	return updated, nil
}

// Delete removes a scholarship and schedules deletion of its image.
func (s *SponsorService) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return appErrors.Clone(appErrors.ErrInvalidIdentifier, "invalid sponsor id")
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "sponsor not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sponsor")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "sponsor not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete sponsor")
	}

	if current.Image != nil {
		s.cleanup.Schedule(*current.Image)
	}

	s.invalidateCache(ctx)
	return nil
}

// validateCreate checks the fields a scholarship cannot exist without.
// Link and about are optional here; the admin form enforces its own
// stricter rules before submitting.
func (s *SponsorService) validateCreate(form forms.Values) error {
	if strings.TrimSpace(derefString(form.Text("sponsor"))) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "sponsor is required")
	}
	if strings.TrimSpace(derefString(form.Text("time_start"))) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "time_start is required")
	}
	if strings.TrimSpace(derefString(form.Text("time_end"))) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "time_end is required")
	}
	if list, ok := form.List("programs"); !ok || len(list) == 0 {
		return appErrors.Clone(appErrors.ErrValidation, "at least one program is required")
	}
	if list, ok := form.List("majors_offered"); !ok || len(list) == 0 {
		return appErrors.Clone(appErrors.ErrValidation, "at least one offered major is required")
	}
	return nil
}

func (s *SponsorService) invalidateCache(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, sponsorCachePattern); err != nil {
		s.logger.Warn("failed to invalidate sponsor cache", zap.Error(err))
	}
}

func parseSponsorDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	var lastErr error
	for _, layout := range sponsorDateLayouts {
		ts, err := time.Parse(layout, raw)
		if err == nil {
			return ts.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/scholarhub-org/scholarhub-api/internal/models"
)

const sponsorColumns = "id, sponsor, status, time_start, time_end, programs, majors_offered, link, about, image, created_at, updated_at"

// SponsorRepository manages persistence for scholarship records.
type SponsorRepository struct {
	db *sqlx.DB
}

// NewSponsorRepository constructs a SponsorRepository.
func NewSponsorRepository(db *sqlx.DB) *SponsorRepository {
	return &SponsorRepository{db: db}
}

// List returns every sponsor in the collection.
func (r *SponsorRepository) List(ctx context.Context) ([]models.Sponsor, error) {
	query := fmt.Sprintf("SELECT %s FROM sponsors ORDER BY created_at DESC", sponsorColumns)
	sponsors := []models.Sponsor{}
	if err := r.db.SelectContext(ctx, &sponsors, query); err != nil {
		return nil, fmt.Errorf("list sponsors: %w", err)
	}
	return sponsors, nil
}

// FindByID fetches a sponsor by ID, passing sql.ErrNoRows through.
func (r *SponsorRepository) FindByID(ctx context.Context, id string) (*models.Sponsor, error) {
	query := fmt.Sprintf("SELECT %s FROM sponsors WHERE id = $1", sponsorColumns)
	var sponsor models.Sponsor
	if err := r.db.GetContext(ctx, &sponsor, query, id); err != nil {
		return nil, err
	}
	return &sponsor, nil
}

// Create inserts a new sponsor, assigning the ID and timestamps.
func (r *SponsorRepository) Create(ctx context.Context, sponsor *models.Sponsor) error {
	if sponsor.ID == "" {
		sponsor.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	sponsor.CreatedAt = now
	sponsor.UpdatedAt = now

	query := `INSERT INTO sponsors (id, sponsor, status, time_start, time_end, programs, majors_offered, link, about, image, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	if _, err := r.db.ExecContext(ctx, query,
		sponsor.ID,
		sponsor.Sponsor,
		sponsor.Status,
		sponsor.TimeStart,
		sponsor.TimeEnd,
		sponsor.Programs,
		sponsor.MajorsOffered,
		sponsor.Link,
		sponsor.About,
		sponsor.Image,
		sponsor.CreatedAt,
		sponsor.UpdatedAt,
	); err != nil {
		return fmt.Errorf("insert sponsor: %w", err)
	}
	return nil
}

// Update applies the staged fields only. Returns sql.ErrNoRows when the
// record does not exist.
func (r *SponsorRepository) Update(ctx context.Context, id string, update models.SponsorUpdate) error {
	sets := []string{}
	args := []interface{}{}

	addSet := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Sponsor != nil {
		addSet("sponsor", *update.Sponsor)
	}
	if update.Status != nil {
		addSet("status", *update.Status)
	}
	if update.TimeStart != nil {
		addSet("time_start", *update.TimeStart)
	}
	if update.TimeEnd != nil {
		addSet("time_end", *update.TimeEnd)
	}
	if update.ProgramsSet {
		addSet("programs", pq.Array(update.Programs))
	}
	if update.MajorsOfferedSet {
		addSet("majors_offered", pq.Array(update.MajorsOffered))
	}
	if update.Link != nil {
		addSet("link", *update.Link)
	}
	if update.About != nil {
		addSet("about", *update.About)
	}
	if update.ImageSet {
		addSet("image", update.Image)
	}
	addSet("updated_at", time.Now().UTC())

	args = append(args, id)
	query := fmt.Sprintf("UPDATE sponsors SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update sponsor: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update sponsor rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a sponsor. Returns sql.ErrNoRows when nothing matched.
func (r *SponsorRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM sponsors WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete sponsor: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete sponsor rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

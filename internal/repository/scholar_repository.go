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

const scholarColumns = "id, name, email, ig_acc, about, sponsor, major, institution, availability, image, created_at, updated_at"

// ScholarRepository manages persistence for scholar records.
type ScholarRepository struct {
	db *sqlx.DB
}

// NewScholarRepository constructs a ScholarRepository.
func NewScholarRepository(db *sqlx.DB) *ScholarRepository {
	return &ScholarRepository{db: db}
}

// List returns every scholar in the collection.
func (r *ScholarRepository) List(ctx context.Context) ([]models.Scholar, error) {
	query := fmt.Sprintf("SELECT %s FROM scholars ORDER BY created_at DESC", scholarColumns)
	scholars := []models.Scholar{}
	if err := r.db.SelectContext(ctx, &scholars, query); err != nil {
		return nil, fmt.Errorf("list scholars: %w", err)
	}
	return scholars, nil
}

// FindByID fetches a scholar by ID. sql.ErrNoRows passes through so callers
// can map it to a not-found response.
func (r *ScholarRepository) FindByID(ctx context.Context, id string) (*models.Scholar, error) {
	query := fmt.Sprintf("SELECT %s FROM scholars WHERE id = $1", scholarColumns)
	var scholar models.Scholar
	if err := r.db.GetContext(ctx, &scholar, query, id); err != nil {
		return nil, err
	}
	return &scholar, nil
}

// Create inserts a new scholar, assigning the ID and timestamps.
func (r *ScholarRepository) Create(ctx context.Context, scholar *models.Scholar) error {
	if scholar.ID == "" {
		scholar.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	scholar.CreatedAt = now
	scholar.UpdatedAt = now

	query := `INSERT INTO scholars (id, name, email, ig_acc, about, sponsor, major, institution, availability, image, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	if _, err := r.db.ExecContext(ctx, query,
		scholar.ID,
		scholar.Name,
		scholar.Email,
		scholar.IGAccount,
		scholar.About,
		scholar.Sponsor,
		scholar.Major,
		scholar.Institution,
		scholar.Availability,
		scholar.Image,
		scholar.CreatedAt,
		scholar.UpdatedAt,
	); err != nil {
		return fmt.Errorf("insert scholar: %w", err)
	}
	return nil
}

// Update applies the staged fields only. Returns sql.ErrNoRows when the
// record does not exist.
func (r *ScholarRepository) Update(ctx context.Context, id string, update models.ScholarUpdate) error {
	sets := []string{}
	args := []interface{}{}

	addSet := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Name != nil {
		addSet("name", *update.Name)
	}
	if update.Email != nil {
		addSet("email", *update.Email)
	}
	if update.IGAccount != nil {
		addSet("ig_acc", *update.IGAccount)
	}
	if update.About != nil {
		addSet("about", *update.About)
	}
	if update.Sponsor != nil {
		addSet("sponsor", *update.Sponsor)
	}
	if update.MajorSet {
		addSet("major", pq.Array(update.Major))
	}
	if update.InstitutionSet {
		addSet("institution", pq.Array(update.Institution))
	}
	if update.Availability != nil {
		addSet("availability", *update.Availability)
	}
	if update.ImageSet {
		addSet("image", update.Image)
	}
	addSet("updated_at", time.Now().UTC())

	args = append(args, id)
	query := fmt.Sprintf("UPDATE scholars SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update scholar: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update scholar rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a scholar. Returns sql.ErrNoRows when nothing matched.
func (r *ScholarRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM scholars WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete scholar: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete scholar rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarhub-org/scholarhub-api/internal/models"
)

func sponsorRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "sponsor", "status", "time_start", "time_end", "programs",
		"majors_offered", "link", "about", "image", "created_at", "updated_at",
	})
}

func TestSponsorRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSponsorRepository(db)
	rows := sponsorRows().
		AddRow("id-1", "Acme", true, time.Now(), time.Now(),
			pq.StringArray{"Global"}, pq.StringArray{"CS"}, "https://acme.example", "<p>about</p>", nil, time.Now(), time.Now())
	mock.ExpectQuery("SELECT (.+) FROM sponsors ORDER BY created_at DESC").WillReturnRows(rows)

	sponsors, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, sponsors, 1)
	assert.True(t, sponsors[0].Status)
	assert.Equal(t, []string{"CS"}, []string(sponsors[0].MajorsOffered))
}

func TestSponsorRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSponsorRepository(db)
	mock.ExpectExec("INSERT INTO sponsors").
		WithArgs(sqlmock.AnyArg(), "Acme", true, sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), "", "<p>about</p>", nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	sponsor := &models.Sponsor{
		Sponsor:       "Acme",
		Status:        true,
		TimeStart:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		TimeEnd:       time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Programs:      []string{"Global"},
		MajorsOffered: []string{"CS"},
		About:         "<p>about</p>",
	}
	require.NoError(t, repo.Create(context.Background(), sponsor))
	assert.NotEmpty(t, sponsor.ID)
}

func TestSponsorRepositoryUpdateClearsImage(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSponsorRepository(db)
	mock.ExpectExec(`UPDATE sponsors SET image = \$1, updated_at = \$2 WHERE id = \$3`).
		WithArgs(nil, sqlmock.AnyArg(), "id-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	update := models.SponsorUpdate{ImageSet: true, Image: nil}
	require.NoError(t, repo.Update(context.Background(), "id-1", update))
}

func TestSponsorRepositoryDeleteMissingRow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSponsorRepository(db)
	mock.ExpectExec("DELETE FROM sponsors WHERE id").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

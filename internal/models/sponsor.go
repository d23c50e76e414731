package models

import (
	"time"

	"github.com/lib/pq"
)

// Sponsor is one scholarship program offered through the directory.
type Sponsor struct {
	ID            string         `db:"id" json:"id"`
	Sponsor       string         `db:"sponsor" json:"sponsor"`
	Status        bool           `db:"status" json:"status"`
	TimeStart     time.Time      `db:"time_start" json:"time_start"`
	TimeEnd       time.Time      `db:"time_end" json:"time_end"`
	Programs      pq.StringArray `db:"programs" json:"programs"`
	MajorsOffered pq.StringArray `db:"majors_offered" json:"majors_offered"`
	Link          string         `db:"link" json:"link"`
	About         string         `db:"about" json:"about"`
	Image         *string        `db:"image" json:"image"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}

// SponsorUpdate stages a partial update, mirroring ScholarUpdate.
type SponsorUpdate struct {
	Sponsor          *string
	Status           *bool
	TimeStart        *time.Time
	TimeEnd          *time.Time
	Programs         []string
	ProgramsSet      bool
	MajorsOffered    []string
	MajorsOfferedSet bool
	Link             *string
	About            *string
	Image            *string
	ImageSet         bool
}

// Empty reports whether the update stages no field at all.
func (u SponsorUpdate) Empty() bool {
	return u.Sponsor == nil &&
		u.Status == nil &&
		u.TimeStart == nil &&
		u.TimeEnd == nil &&
		!u.ProgramsSet &&
		!u.MajorsOfferedSet &&
		u.Link == nil &&
		u.About == nil &&
		!u.ImageSet
}

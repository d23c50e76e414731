package models

import (
	"time"

	"github.com/lib/pq"
)

// Scholar is one mentor profile in the public directory. The major and
// institution columns are Postgres text arrays so a stored record always
// carries lists, never a bare scalar.
type Scholar struct {
	ID           string         `db:"id" json:"id"`
	Name         string         `db:"name" json:"name"`
	Email        string         `db:"email" json:"email"`
	IGAccount    string         `db:"ig_acc" json:"ig_acc"`
	About        string         `db:"about" json:"about"`
	Sponsor      string         `db:"sponsor" json:"sponsor"`
	Major        pq.StringArray `db:"major" json:"major"`
	Institution  pq.StringArray `db:"institution" json:"institution"`
	Availability bool           `db:"availability" json:"availability"`
	Image        *string        `db:"image" json:"image"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// ScholarUpdate stages a partial update. Pointer fields are applied when
// non-nil; slice and image fields carry an explicit Set flag because both
// "absent" and "cleared" are legal states on the wire.
type ScholarUpdate struct {
	Name           *string
	Email          *string
	IGAccount      *string
	About          *string
	Sponsor        *string
	Major          []string
	MajorSet       bool
	Institution    []string
	InstitutionSet bool
	Availability   *bool
	Image          *string
	ImageSet       bool
}

// Empty reports whether the update stages no field at all.
func (u ScholarUpdate) Empty() bool {
	return u.Name == nil &&
		u.Email == nil &&
		u.IGAccount == nil &&
		u.About == nil &&
		u.Sponsor == nil &&
		!u.MajorSet &&
		!u.InstitutionSet &&
		u.Availability == nil &&
		!u.ImageSet
}

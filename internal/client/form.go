package client

import (
	"strconv"
	"strings"

	"github.com/scholarhub-org/scholarhub-api/pkg/richtext"
)

// ScholarForm carries a complete scholar submission. List fields are edited
// as comma-separated strings, the way the admin form presents them.
type ScholarForm struct {
	Name         string
	Email        string
	IGAccount    string
	About        string
	Sponsor      string
	Major        string
	Institution  string
	Availability bool
}

// Validate reports per-field problems. An empty map means the form may be
// submitted.
func (f ScholarForm) Validate() map[string]string {
	problems := map[string]string{}
	if strings.TrimSpace(f.Name) == "" {
		problems["name"] = "name is required"
	}
	if strings.TrimSpace(f.Email) == "" {
		problems["email"] = "email is required"
	}
	if strings.TrimSpace(f.Sponsor) == "" {
		problems["sponsor"] = "sponsor is required"
	}
	if richtext.IsEmpty(f.About) {
		problems["about"] = "about is required"
	}
	if len(listFields(f.Major)) == 0 {
		problems["major"] = "at least one major is required"
	}
	if len(listFields(f.Institution)) == 0 {
		problems["institution"] = "at least one institution is required"
	}
	return problems
}

func (f ScholarForm) fields() map[string][]string {
	return map[string][]string{
		"name":         {strings.TrimSpace(f.Name)},
		"email":        {strings.TrimSpace(f.Email)},
		"ig_acc":       {strings.TrimSpace(f.IGAccount)},
		"about":        {f.About},
		"sponsor":      {strings.TrimSpace(f.Sponsor)},
		"major":        listFields(f.Major),
		"institution":  listFields(f.Institution),
		"availability": {strconv.FormatBool(f.Availability)},
	}
}

// ScholarDraft stages a partial update. Nil fields are not sent at all.
type ScholarDraft struct {
	Name         *string
	Email        *string
	IGAccount    *string
	About        *string
	Sponsor      *string
	Major        *string
	Institution  *string
	Availability *bool
	RemoveImage  bool
}

func (d ScholarDraft) fields() map[string][]string {
	fields := map[string][]string{}
	putText(fields, "name", d.Name)
	putText(fields, "email", d.Email)
	putText(fields, "ig_acc", d.IGAccount)
	if d.About != nil {
		fields["about"] = []string{*d.About}
	}
	putText(fields, "sponsor", d.Sponsor)
	putList(fields, "major", d.Major)
	putList(fields, "institution", d.Institution)
	putBool(fields, "availability", d.Availability)
	if d.RemoveImage {
		fields["imageAction"] = []string{"remove"}
	}
	return fields
}

// SponsorForm carries a complete scholarship submission.
type SponsorForm struct {
	Sponsor       string
	Link          string
	About         string
	TimeStart     string
	TimeEnd       string
	Programs      string
	MajorsOffered string
	Status        bool
}

// Validate reports per-field problems. Link is optional; everything else
// must be filled in.
func (f SponsorForm) Validate() map[string]string {
	problems := map[string]string{}
	if strings.TrimSpace(f.Sponsor) == "" {
		problems["sponsor"] = "sponsor is required"
	}
	if richtext.IsEmpty(f.About) {
		problems["about"] = "about is required"
	}
	if strings.TrimSpace(f.TimeStart) == "" {
		problems["time_start"] = "opening date is required"
	}
	if strings.TrimSpace(f.TimeEnd) == "" {
		problems["time_end"] = "closing date is required"
	}
	if len(listFields(f.Programs)) == 0 {
		problems["programs"] = "at least one program is required"
	}
	if len(listFields(f.MajorsOffered)) == 0 {
		problems["majors_offered"] = "at least one offered major is required"
	}
	return problems
}

func (f SponsorForm) fields() map[string][]string {
	return map[string][]string{
		"sponsor":        {strings.TrimSpace(f.Sponsor)},
		"link":           {strings.TrimSpace(f.Link)},
		"about":          {f.About},
		"time_start":     {strings.TrimSpace(f.TimeStart)},
		"time_end":       {strings.TrimSpace(f.TimeEnd)},
		"programs":       listFields(f.Programs),
		"majors_offered": listFields(f.MajorsOffered),
		"status":         {strconv.FormatBool(f.Status)},
	}
}

// SponsorDraft stages a partial update. Nil fields are not sent at all.
type SponsorDraft struct {
	Sponsor       *string
	Link          *string
	About         *string
	TimeStart     *string
	TimeEnd       *string
	Programs      *string
	MajorsOffered *string
	Status        *bool
	RemoveImage   bool
}

func (d SponsorDraft) fields() map[string][]string {
	fields := map[string][]string{}
	putText(fields, "sponsor", d.Sponsor)
	putText(fields, "link", d.Link)
	if d.About != nil {
		fields["about"] = []string{*d.About}
	}
	putText(fields, "time_start", d.TimeStart)
	putText(fields, "time_end", d.TimeEnd)
	putList(fields, "programs", d.Programs)
	putList(fields, "majors_offered", d.MajorsOffered)
	putBool(fields, "status", d.Status)
	if d.RemoveImage {
		fields["imageAction"] = []string{"remove"}
	}
	return fields
}

func putText(fields map[string][]string, key string, value *string) {
	if value != nil {
		fields[key] = []string{strings.TrimSpace(*value)}
	}
}

// putList always sends the key when staged, even when the normalized list
// is empty: an empty value clears the server-side list.
func putList(fields map[string][]string, key string, value *string) {
	if value == nil {
		return
	}
	list := listFields(*value)
	if len(list) == 0 {
		fields[key] = []string{""}
		return
	}
	fields[key] = list
}

func putBool(fields map[string][]string, key string, value *bool) {
	if value != nil {
		fields[key] = []string{strconv.FormatBool(*value)}
	}
}

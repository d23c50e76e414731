package client

import (
	"strings"

	"github.com/scholarhub-org/scholarhub-api/internal/models"
	"github.com/scholarhub-org/scholarhub-api/pkg/richtext"
)

// Page sizes used by the two list surfaces.
const (
	AdminPageSize  = 10
	PublicPageSize = 12
)

// Filter is one active list filter.
type Filter struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// ViewState is the serializable state of a list view: the active filters
// plus the pagination cursor. Zero value is page 1 with no filters.
type ViewState struct {
	Filters  []Filter `json:"filters"`
	Page     int      `json:"page"`
	PageSize int      `json:"page_size"`
}

// NewViewState builds a view-state with the given page size.
func NewViewState(pageSize int) ViewState {
	if pageSize <= 0 {
		pageSize = PublicPageSize
	}
	return ViewState{Page: 1, PageSize: pageSize}
}

// AddFilter activates a filter and resets to the first page. Duplicates
// are ignored.
func (v ViewState) AddFilter(f Filter) ViewState {
	for _, existing := range v.Filters {
		if existing == f {
			return v
		}
	}
	v.Filters = append(append([]Filter{}, v.Filters...), f)
	v.Page = 1
	return v
}

// RemoveFilter deactivates a filter and resets to the first page.
func (v ViewState) RemoveFilter(f Filter) ViewState {
	kept := make([]Filter, 0, len(v.Filters))
	removed := false
	for _, existing := range v.Filters {
		if existing == f {
			removed = true
			continue
		}
		kept = append(kept, existing)
	}
	if !removed {
		return v
	}
	v.Filters = kept
	v.Page = 1
	return v
}

// WithPage moves to the given page, clamped to 1 at the low end.
func (v ViewState) WithPage(page int) ViewState {
	if page < 1 {
		page = 1
	}
	v.Page = page
	return v
}

// ApplyScholars filters then paginates the scholar list.
func (v ViewState) ApplyScholars(records []models.Scholar) []models.Scholar {
	filtered := FilterScholars(records, v.Filters)
	start, end := v.pageBounds(len(filtered))
	return filtered[start:end]
}

// ApplySponsors filters then paginates the scholarship list.
func (v ViewState) ApplySponsors(records []models.Sponsor) []models.Sponsor {
	filtered := FilterSponsors(records, v.Filters)
	start, end := v.pageBounds(len(filtered))
	return filtered[start:end]
}

// TotalPages reports the page count for a filtered total.
func (v ViewState) TotalPages(total int) int {
	size := v.PageSize
	if size <= 0 {
		size = PublicPageSize
	}
	if total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

func (v ViewState) pageBounds(total int) (int, int) {
	size := v.PageSize
	if size <= 0 {
		size = PublicPageSize
	}
	page := v.Page
	if page < 1 {
		page = 1
	}
	start := (page - 1) * size
	if start >= total {
		return 0, 0
	}
	end := start + size
	if end > total {
		end = total
	}
	return start, end
}

// FilterScholars composes the active filters with AND. Name and sponsor
// filters match as case-insensitive substrings, list fields match on
// membership, availability accepts Available/Unavailable labels, anything
// else is exact.
func FilterScholars(records []models.Scholar, filters []Filter) []models.Scholar {
	if len(filters) == 0 {
		return records
	}
	result := make([]models.Scholar, 0, len(records))
	for _, record := range records {
		if scholarMatches(record, filters) {
			result = append(result, record)
		}
	}
	return result
}

// FilterSponsors composes the active filters with AND.
func FilterSponsors(records []models.Sponsor, filters []Filter) []models.Sponsor {
	if len(filters) == 0 {
		return records
	}
	result := make([]models.Sponsor, 0, len(records))
	for _, record := range records {
		if sponsorMatches(record, filters) {
			result = append(result, record)
		}
	}
	return result
}

func scholarMatches(record models.Scholar, filters []Filter) bool {
	for _, f := range filters {
		switch f.Field {
		case "name":
			if !containsFold(record.Name, f.Value) {
				return false
			}
		case "sponsor":
			if !containsFold(record.Sponsor, f.Value) {
				return false
			}
		case "major":
			if !listContains(record.Major, f.Value) {
				return false
			}
		case "institution":
			if !listContains(record.Institution, f.Value) {
				return false
			}
		case "availability":
			if record.Availability != boolFilterValue(f.Value) {
				return false
			}
		case "email":
			if !strings.EqualFold(record.Email, f.Value) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func sponsorMatches(record models.Sponsor, filters []Filter) bool {
	for _, f := range filters {
		switch f.Field {
		case "sponsor", "name":
			if !containsFold(record.Sponsor, f.Value) {
				return false
			}
		case "programs":
			if !listContains(record.Programs, f.Value) {
				return false
			}
		case "majors_offered":
			if !listContains(record.MajorsOffered, f.Value) {
				return false
			}
		case "status":
			if record.Status != boolFilterValue(f.Value) {
				return false
			}
		case "link":
			if !strings.EqualFold(record.Link, f.Value) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(strings.TrimSpace(needle)))
}

func listContains(list []string, value string) bool {
	for _, item := range list {
		if strings.EqualFold(strings.TrimSpace(item), strings.TrimSpace(value)) {
			return true
		}
	}
	return false
}

// boolFilterValue maps the UI's Available/Unavailable (and Active/Inactive)
// labels onto booleans; anything else falls back to the literal "true".
func boolFilterValue(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "available", "active", "true":
		return true
	default:
		return false
	}
}

// RenderRichText sanitizes server-provided HTML before it is displayed.
func RenderRichText(html string) string {
	return richtext.Sanitize(html)
}

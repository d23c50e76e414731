package client

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarhub-org/scholarhub-api/internal/models"
)

func sampleScholars() []models.Scholar {
	return []models.Scholar{
		{ID: "1", Name: "Alya Putri", Sponsor: "LPDP", Major: []string{"Computer Science"}, Availability: true},
		{ID: "2", Name: "Budi Santoso", Sponsor: "Chevening", Major: []string{"Law"}, Availability: false},
		{ID: "3", Name: "Citra Alyani", Sponsor: "LPDP", Major: []string{"Computer Science", "Mathematics"}, Availability: true},
	}
}

func TestFilterScholarsSubstringName(t *testing.T) {
	got := FilterScholars(sampleScholars(), []Filter{{Field: "name", Value: "aly"}})
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)
}

func TestFilterScholarsComposeAND(t *testing.T) {
	filters := []Filter{
		{Field: "sponsor", Value: "lpdp"},
		{Field: "major", Value: "Mathematics"},
	}
	got := FilterScholars(sampleScholars(), filters)
	require.Len(t, got, 1)
	assert.Equal(t, "3", got[0].ID)
}

func TestFilterScholarsAvailabilityLabels(t *testing.T) {
	available := FilterScholars(sampleScholars(), []Filter{{Field: "availability", Value: "Available"}})
	assert.Len(t, available, 2)

	unavailable := FilterScholars(sampleScholars(), []Filter{{Field: "availability", Value: "Unavailable"}})
	require.Len(t, unavailable, 1)
	assert.Equal(t, "2", unavailable[0].ID)
}

func TestFilterSponsorsStatus(t *testing.T) {
	sponsors := []models.Sponsor{
		{ID: "a", Sponsor: "LPDP", Status: true, Programs: []string{"Masters"}},
		{ID: "b", Sponsor: "AAS", Status: false, Programs: []string{"PhD"}},
	}

	active := FilterSponsors(sponsors, []Filter{{Field: "status", Value: "Active"}})
	require.Len(t, active, 1)
	assert.Equal(t, "a", active[0].ID)

	phd := FilterSponsors(sponsors, []Filter{{Field: "programs", Value: "phd"}})
	require.Len(t, phd, 1)
	assert.Equal(t, "b", phd[0].ID)
}

func TestViewStateAddFilterResetsPage(t *testing.T) {
	state := NewViewState(AdminPageSize).WithPage(4)
	state = state.AddFilter(Filter{Field: "sponsor", Value: "LPDP"})
	assert.Equal(t, 1, state.Page)
	require.Len(t, state.Filters, 1)

	state = state.WithPage(3)
	state = state.AddFilter(Filter{Field: "sponsor", Value: "LPDP"})
	assert.Equal(t, 3, state.Page, "duplicate filters change nothing")
	assert.Len(t, state.Filters, 1)

	state = state.RemoveFilter(Filter{Field: "sponsor", Value: "LPDP"})
	assert.Equal(t, 1, state.Page)
	assert.Empty(t, state.Filters)
}

func TestViewStatePagination(t *testing.T) {
	records := make([]models.Scholar, 25)
	for i := range records {
		records[i] = models.Scholar{ID: fmt.Sprintf("s-%02d", i)}
	}

	state := NewViewState(AdminPageSize)
	page1 := state.ApplyScholars(records)
	require.Len(t, page1, 10)
	assert.Equal(t, "s-00", page1[0].ID)

	page3 := state.WithPage(3).ApplyScholars(records)
	require.Len(t, page3, 5)
	assert.Equal(t, "s-20", page3[0].ID)

	beyond := state.WithPage(9).ApplyScholars(records)
	assert.Empty(t, beyond)

	assert.Equal(t, 3, state.TotalPages(len(records)))
	assert.Equal(t, 0, state.TotalPages(0))
}

func TestViewStateSerializable(t *testing.T) {
	state := NewViewState(PublicPageSize).AddFilter(Filter{Field: "major", Value: "Law"}).WithPage(2)

	raw, err := json.Marshal(state)
	require.NoError(t, err)

	var restored ViewState
	require.NoError(t, json.Unmarshal(raw, &restored))
	assert.Equal(t, state, restored)
}

func TestRenderRichTextStripsScripts(t *testing.T) {
	rendered := RenderRichText(`<p>hello</p><script>alert(1)</script>`)
	assert.Contains(t, rendered, "<p>hello</p>")
	assert.NotContains(t, rendered, "script")
}

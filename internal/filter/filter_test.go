package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusconnect/portal-api/internal/models"
)

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

// sampleEvents mirrors the seeded event directory: six events, one of which
// the viewing student has registered for.
func sampleEvents() []models.EventView {
	mk := func(id, title string, cat models.EventCategory, scope models.EventScope, registered bool) models.EventView {
		return models.EventView{
			Event: models.Event{
				ID:        id,
				Title:     title,
				Category:  cat,
				Scope:     scope,
				StartDate: day("2024-10-12"),
				Status:    models.StatusUpcoming,
			},
			IsRegistered: registered,
		}
	}
	return []models.EventView{
		mk("1", "AI & Machine Learning Masterclass", models.CategoryWorkshop, models.ScopeInternal, false),
		mk("2", "Blockchain & Web3 Summit", models.CategorySeminar, models.ScopeExternal, false),
		mk("3", "UX Design Sprint: Mobile First", models.CategoryWorkshop, models.ScopeInternal, false),
		mk("hack-2023", "Annual Hackathon 2023", models.CategoryHackathon, models.ScopeInternal, true),
		mk("5", "Cyber Security Essentials", models.CategoryNetworking, models.ScopeExternal, false),
		mk("6", "Eco-Sustainability Forum", models.CategoryCultural, models.ScopeInternal, false),
	}
}

func ids(events []models.EventView) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.ID)
	}
	return out
}

func TestApplyIdentity(t *testing.T) {
	events := sampleEvents()
	got := Apply(events, Query{Text: "", Tab: TabAll, RegisteredOnly: false})
	assert.Equal(t, ids(events), ids(got))
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	events := sampleEvents()
	before := ids(events)
	_ = Apply(events, Query{Text: "hackathon", Tab: TabRegistered})
	assert.Equal(t, before, ids(events))
}

func TestApplySubsetAndNoDuplicates(t *testing.T) {
	events := sampleEvents()
	queries := []Query{
		{Text: "a"},
		{Tab: TabInternal},
		{Tab: TabTechnical},
		{Text: "summit", Tab: TabExternal},
		{RegisteredOnly: true},
	}
	members := map[string]struct{}{}
	for _, e := range events {
		members[e.ID] = struct{}{}
	}
	for _, q := range queries {
		got := Apply(events, q)
		seen := map[string]struct{}{}
		for _, e := range got {
			_, inInput := members[e.ID]
			assert.True(t, inInput, "filter returned element not in input")
			_, dup := seen[e.ID]
			assert.False(t, dup, "filter returned duplicate %s", e.ID)
			seen[e.ID] = struct{}{}
		}
	}
}

func TestApplyScopePartition(t *testing.T) {
	events := sampleEvents()
	internal := Apply(events, Query{Tab: TabInternal})
	external := Apply(events, Query{Tab: TabExternal})

	assert.Len(t, internal, 4)
	assert.Len(t, external, 2)

	seen := map[string]struct{}{}
	for _, e := range internal {
		seen[e.ID] = struct{}{}
	}
	for _, e := range external {
		_, dup := seen[e.ID]
		assert.False(t, dup, "event %s appears in both partitions", e.ID)
		seen[e.ID] = struct{}{}
	}
	assert.Len(t, seen, len(events))
}

func TestApplyIdempotent(t *testing.T) {
	events := sampleEvents()
	q := Query{Text: "e", Tab: TabTechnical}
	once := Apply(events, q)
	twice := Apply(once, q)
	assert.Equal(t, ids(once), ids(twice))
}

func TestApplyTextMatchesTitleOrCategory(t *testing.T) {
	events := sampleEvents()

	got := Apply(events, Query{Text: "hackathon", Tab: TabAll})
	require.Len(t, got, 1)
	assert.Equal(t, "Annual Hackathon 2023", got[0].Title)

	// Category match: "workshop" hits both Workshop events by category alone.
	got = Apply(events, Query{Text: "workshop"})
	assert.Equal(t, []string{"1", "3"}, ids(got))

	// Case-insensitive.
	got = Apply(events, Query{Text: "CYBER"})
	require.Len(t, got, 1)
	assert.Equal(t, "5", got[0].ID)
}

func TestApplyRegisteredTab(t *testing.T) {
	events := sampleEvents()
	got := Apply(events, Query{Tab: TabRegistered})
	require.Len(t, got, 1)
	assert.Equal(t, "hack-2023", got[0].ID)
	assert.True(t, got[0].IsRegistered)
}

func TestApplyRegisteredOnlyFlag(t *testing.T) {
	events := sampleEvents()
	got := Apply(events, Query{Tab: TabAll, RegisteredOnly: true})
	require.Len(t, got, 1)
	assert.Equal(t, "hack-2023", got[0].ID)
}

func TestApplyTechnicalBuckets(t *testing.T) {
	events := sampleEvents()

	tech := Apply(events, Query{Tab: TabTechnical})
	assert.Equal(t, []string{"1", "2", "3", "hack-2023"}, ids(tech))

	nonTech := Apply(events, Query{Tab: TabNonTechnical})
	assert.Equal(t, []string{"5", "6"}, ids(nonTech))
}

func TestApplyStagesCompose(t *testing.T) {
	events := sampleEvents()
	got := Apply(events, Query{Text: "hack", Tab: TabInternal, RegisteredOnly: true})
	// Only the hackathon is registered; it is internal and its title matches.
	require.Len(t, got, 1)
	assert.Equal(t, "hack-2023", got[0].ID)
}

func TestApplyPreservesOrder(t *testing.T) {
	events := sampleEvents()
	got := Apply(events, Query{Tab: TabInternal})
	assert.Equal(t, []string{"1", "3", "hack-2023", "6"}, ids(got))
}

func TestParseTab(t *testing.T) {
	tab, err := ParseTab("")
	require.NoError(t, err)
	assert.Equal(t, TabAll, tab)

	tab, err = ParseTab("Internal")
	require.NoError(t, err)
	assert.Equal(t, TabInternal, tab)

	_, err = ParseTab("Bogus")
	assert.Error(t, err)
}

func TestCategoryTableIsAPartition(t *testing.T) {
	all := []models.EventCategory{
		models.CategoryWorkshop, models.CategoryHackathon, models.CategorySeminar,
		models.CategoryCultural, models.CategorySports, models.CategoryNetworking,
	}
	for _, c := range all {
		assert.NotEqual(t, Technical(c), NonTechnical(c), "category %s must be in exactly one bucket", c)
	}
}

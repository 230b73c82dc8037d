package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campusconnect/portal-api/internal/models"
	"github.com/campusconnect/portal-api/internal/repository"
	appErrors "github.com/campusconnect/portal-api/pkg/errors"
)

type mockSummaryEvents struct {
	counts []repository.OrganizerCategoryCount
	calls  int
}

func (m *mockSummaryEvents) CountByOrganizerCategory(ctx context.Context) ([]repository.OrganizerCategoryCount, error) {
	m.calls++
	return m.counts, nil
}

type memoryCache struct {
	data map[string][]byte
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.data[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.data == nil {
		m.data = map[string][]byte{}
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func TestSummaryServiceBucketsThroughCategoryPartition(t *testing.T) {
	events := &mockSummaryEvents{counts: []repository.OrganizerCategoryCount{
		{Organizer: "Coding Club", Category: models.CategoryWorkshop, Count: 3},
		{Organizer: "Coding Club", Category: models.CategoryHackathon, Count: 1},
		{Organizer: "Coding Club", Category: models.CategorySports, Count: 2},
		{Organizer: "Arts Club", Category: models.CategoryCultural, Count: 4},
	}}
	svc := NewSummaryService(events, &memoryCache{}, zap.NewNop(), time.Minute)

	summaries, cached, err := svc.ClubActivity(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	require.Len(t, summaries, 2)

	// Sorted by club name.
	assert.Equal(t, "Arts Club", summaries[0].ClubName)
	assert.Equal(t, 4, summaries[0].NonTechnical)
	assert.Equal(t, 0, summaries[0].Technical)

	assert.Equal(t, "Coding Club", summaries[1].ClubName)
	assert.Equal(t, 6, summaries[1].Total)
	assert.Equal(t, 4, summaries[1].Technical)
	assert.Equal(t, 2, summaries[1].NonTechnical)
}

func TestSummaryServiceCachesResult(t *testing.T) {
	events := &mockSummaryEvents{counts: []repository.OrganizerCategoryCount{
		{Organizer: "Coding Club", Category: models.CategoryWorkshop, Count: 1},
	}}
	svc := NewSummaryService(events, &memoryCache{}, zap.NewNop(), time.Minute)

	_, cached, err := svc.ClubActivity(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)

	again, cached, err := svc.ClubActivity(context.Background())
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, 1, events.calls, "second read must come from cache")
	require.Len(t, again, 1)
	assert.Equal(t, "Coding Club", again[0].ClubName)
}

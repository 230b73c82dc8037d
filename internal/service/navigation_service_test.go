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
	"github.com/campusconnect/portal-api/internal/navigation"
	appErrors "github.com/campusconnect/portal-api/pkg/errors"
)

// memoryStateStore round-trips values through JSON like the Redis-backed
// store does in production.
type memoryStateStore struct {
	data map[string][]byte
}

func newMemoryStateStore() *memoryStateStore {
	return &memoryStateStore{data: map[string][]byte{}}
}

func (m *memoryStateStore) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.data[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryStateStore) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *memoryStateStore) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func TestNavigationServiceLoginAndNavigate(t *testing.T) {
	svc := NewNavigationService(newMemoryStateStore(), zap.NewNop(), time.Hour)
	ctx := context.Background()

	state, err := svc.Apply(ctx, "sess1", func(s navigation.State) (navigation.State, error) {
		return s.Login(models.RoleStudent)
	})
	require.NoError(t, err)
	assert.Equal(t, navigation.ViewDiscover, state.View)

	state, err = svc.Apply(ctx, "sess1", func(s navigation.State) (navigation.State, error) {
		return s.Navigate(navigation.ViewVacancies)
	})
	require.NoError(t, err)
	assert.Equal(t, navigation.ViewVacancies, state.View)
}

func TestNavigationServiceIllegalTransitionIsConflict(t *testing.T) {
	svc := NewNavigationService(newMemoryStateStore(), zap.NewNop(), time.Hour)
	ctx := context.Background()

	_, err := svc.Apply(ctx, "sess1", func(s navigation.State) (navigation.State, error) {
		return s.Login(models.RoleAdmin)
	})
	require.NoError(t, err)

	// An admin reaching for the HOD dashboard is rejected loudly.
	_, err = svc.Apply(ctx, "sess1", func(s navigation.State) (navigation.State, error) {
		return s.Navigate(navigation.ViewHODDashboard)
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrIllegalTransition.Code, appErrors.FromError(err).Code)

	// And the stored state is untouched.
	state, err := svc.Current(ctx, "sess1")
	require.NoError(t, err)
	assert.Equal(t, navigation.ViewAdminDashboard, state.View)
}

func TestNavigationServiceDefaultsForNewSession(t *testing.T) {
	svc := NewNavigationService(newMemoryStateStore(), zap.NewNop(), time.Hour)

	state, err := svc.Current(context.Background(), "fresh")
	require.NoError(t, err)
	assert.Equal(t, navigation.DefaultState(), state)
}

func TestNavigationServiceConfirmWithoutRequestIsConflict(t *testing.T) {
	svc := NewNavigationService(newMemoryStateStore(), zap.NewNop(), time.Hour)
	ctx := context.Background()

	_, err := svc.Apply(ctx, "sess1", func(s navigation.State) (navigation.State, error) {
		return s.Login(models.RoleStudent)
	})
	require.NoError(t, err)

	_, err = svc.Apply(ctx, "sess1", func(s navigation.State) (navigation.State, error) {
		return s.ConfirmLogout()
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

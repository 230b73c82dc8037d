package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/campusconnect/portal-api/internal/navigation"
	appErrors "github.com/campusconnect/portal-api/pkg/errors"
)

type stateStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// NavigationService persists each session's navigation state and applies the
// state machine's transitions to it. Every illegal transition surfaces as a
// conflict and leaves the stored state untouched.
type NavigationService struct {
	store  stateStore
	logger *zap.Logger
	ttl    time.Duration
}

// NewNavigationService constructs a NavigationService.
func NewNavigationService(store stateStore, logger *zap.Logger, ttl time.Duration) *NavigationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &NavigationService{store: store, logger: logger, ttl: ttl}
}

func stateKey(sessionID string) string {
	return fmt.Sprintf("nav:state:%s", sessionID)
}

// Current returns the stored state, or the default unauthenticated state when
// none exists.
func (s *NavigationService) Current(ctx context.Context, sessionID string) (navigation.State, error) {
	var state navigation.State
	err := s.store.Get(ctx, stateKey(sessionID), &state)
	if err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return navigation.DefaultState(), nil
		}
		return navigation.State{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load navigation state")
	}
	return state, nil
}

// Transition is one requested state change.
type Transition func(navigation.State) (navigation.State, error)

// Apply loads the session state, applies the transition, and persists the
// result. State machine rejections map onto the API error taxonomy.
func (s *NavigationService) Apply(ctx context.Context, sessionID string, transition Transition) (navigation.State, error) {
	current, err := s.Current(ctx, sessionID)
	if err != nil {
		return navigation.State{}, err
	}

	next, err := transition(current)
	if err != nil {
		switch {
		case errors.Is(err, navigation.ErrViewNotAllowed):
			return current, appErrors.Clone(appErrors.ErrIllegalTransition, err.Error())
		case errors.Is(err, navigation.ErrNotAuthenticated):
			return current, appErrors.Clone(appErrors.ErrUnauthorized, err.Error())
		case errors.Is(err, navigation.ErrNoPendingLogout):
			return current, appErrors.Clone(appErrors.ErrConflict, err.Error())
		case errors.Is(err, navigation.ErrUnknownRole):
			return current, appErrors.Clone(appErrors.ErrValidation, err.Error())
		}
		return current, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "navigation transition failed")
	}

	if err := s.store.Set(ctx, stateKey(sessionID), next, s.ttl); err != nil {
		return current, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist navigation state")
	}
	return next, nil
}

// Reset clears a session's stored state, used after confirmed logout expiry.
func (s *NavigationService) Reset(ctx context.Context, sessionID string) error {
	if err := s.store.Delete(ctx, stateKey(sessionID)); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reset navigation state")
	}
	return nil
}

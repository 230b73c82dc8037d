package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/campusconnect/portal-api/internal/models"
	appErrors "github.com/campusconnect/portal-api/pkg/errors"
)

type clubRepository interface {
	List(ctx context.Context, search string) ([]models.Club, error)
	FindByID(ctx context.Context, id string) (*models.Club, error)
}

// ClubService serves the read-mostly club directory.
type ClubService struct {
	repo   clubRepository
	logger *zap.Logger
}

// NewClubService constructs a ClubService.
func NewClubService(repo clubRepository, logger *zap.Logger) *ClubService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClubService{repo: repo, logger: logger}
}

// List returns clubs matching the optional search text.
func (s *ClubService) List(ctx context.Context, search string) ([]models.Club, error) {
	clubs, err := s.repo.List(ctx, search)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list clubs")
	}
	return clubs, nil
}

// Get returns one club profile.
func (s *ClubService) Get(ctx context.Context, id string) (*models.Club, error) {
	club, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "club not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load club")
	}
	return club, nil
}

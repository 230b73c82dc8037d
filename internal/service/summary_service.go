package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/campusconnect/portal-api/internal/filter"
	"github.com/campusconnect/portal-api/internal/models"
	"github.com/campusconnect/portal-api/internal/repository"
	appErrors "github.com/campusconnect/portal-api/pkg/errors"
)

type summaryEventRepository interface {
	CountByOrganizerCategory(ctx context.Context) ([]repository.OrganizerCategoryCount, error)
}

type summaryCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

const summaryCacheKey = "summary:club_activity"

// SummaryService builds the HOD club-activity summary. Tallies bucket through
// the same category partition the directory tabs use, so the two screens can
// never disagree about what counts as technical.
type SummaryService struct {
	events  summaryEventRepository
	cache   summaryCache
	logger  *zap.Logger
	ttl     time.Duration
	onCache func(hit bool)
}

// NewSummaryService constructs a SummaryService.
func NewSummaryService(events summaryEventRepository, cache summaryCache, logger *zap.Logger, ttl time.Duration) *SummaryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &SummaryService{events: events, cache: cache, logger: logger, ttl: ttl}
}

// SetCacheObserver registers a callback fired on every cache lookup.
func (s *SummaryService) SetCacheObserver(fn func(hit bool)) {
	s.onCache = fn
}

// ClubActivity returns per-club event tallies, cached. The bool reports
// whether the response came from cache.
func (s *SummaryService) ClubActivity(ctx context.Context) ([]models.ClubActivitySummary, bool, error) {
	if s.cache != nil {
		var cached []models.ClubActivitySummary
		err := s.cache.Get(ctx, summaryCacheKey, &cached)
		if err == nil {
			s.observeCache(true)
			return cached, true, nil
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("summary cache read failed", zap.Error(err))
		}
		s.observeCache(false)
	}

	counts, err := s.events.CountByOrganizerCategory(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to tally club activity")
	}

	byClub := map[string]*models.ClubActivitySummary{}
	for _, c := range counts {
		summary, ok := byClub[c.Organizer]
		if !ok {
			summary = &models.ClubActivitySummary{ClubName: c.Organizer}
			byClub[c.Organizer] = summary
		}
		summary.Total += c.Count
		if filter.Technical(c.Category) {
			summary.Technical += c.Count
		} else if filter.NonTechnical(c.Category) {
			summary.NonTechnical += c.Count
		}
	}

	summaries := make([]models.ClubActivitySummary, 0, len(byClub))
	for _, summary := range byClub {
		summaries = append(summaries, *summary)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ClubName < summaries[j].ClubName })

	if s.cache != nil {
		if err := s.cache.Set(ctx, summaryCacheKey, summaries, s.ttl); err != nil {
			s.logger.Warn("summary cache write failed", zap.Error(err))
		}
	}
	return summaries, false, nil
}

func (s *SummaryService) observeCache(hit bool) {
	if s.onCache != nil {
		s.onCache(hit)
	}
}

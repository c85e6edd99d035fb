package service

import (
	"context"
	"fmt"
	"time"

	"played-together/internal/api"
	"played-together/internal/constants"
	"played-together/internal/domain"

	"github.com/rs/zerolog"
)

// WindowOptions bounds the recent-match listing. Zero values take the
// defaults: DefaultMatchCount matches since now-MatchWindow.
type WindowOptions struct {
	Count     int
	StartTime time.Time
}

type MatchService struct {
	riot   RiotAPI
	logger zerolog.Logger
	now    func() time.Time
}

func NewMatchService(riot RiotAPI, logger zerolog.Logger) *MatchService {
	return &MatchService{riot: riot, logger: logger, now: time.Now}
}

// RecentMatchIDs returns match ids for puuid, most recent first. An empty
// slice is a valid result.
func (s *MatchService) RecentMatchIDs(ctx context.Context, route domain.Route, puuid string, opts WindowOptions) ([]string, error) {
	count := opts.Count
	if count <= 0 {
		count = constants.DefaultMatchCount
	}
	start := opts.StartTime
	if start.IsZero() {
		start = s.now().Add(-constants.MatchWindow)
	}

	apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	s.logger.Debug().
		Str("puuid", puuid).
		Int("count", count).
		Time("start_time", start).
		Msg("fetching match ids")

	ids, err := s.riot.GetMatchIDs(apiCtx, route, puuid, api.MatchIDsParams{StartTime: start, Count: count})
	if err != nil {
		s.logger.Error().Err(err).Str("puuid", puuid).Msg("failed to fetch match ids")
		return nil, fmt.Errorf("failed to fetch match ids: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}

	s.logger.Debug().Str("puuid", puuid).Int("match_count", len(ids)).Msg("match ids fetched")
	return ids, nil
}

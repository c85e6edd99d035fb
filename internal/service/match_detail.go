package service

import (
	"context"
	"fmt"

	"played-together/internal/constants"
	"played-together/internal/domain"

	"github.com/rs/zerolog"
)

type MatchDetailService struct {
	riot   RiotAPI
	logger zerolog.Logger
}

func NewMatchDetailService(riot RiotAPI, logger zerolog.Logger) *MatchDetailService {
	return &MatchDetailService{riot: riot, logger: logger}
}

// GetMatch fetches one match. A missing match surfaces as an error wrapping
// api.ErrNotFound.
func (s *MatchDetailService) GetMatch(ctx context.Context, route domain.Route, matchID string) (*domain.MatchRecord, error) {
	apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	s.logger.Debug().Str("match_id", matchID).Msg("getting match")

	resp, err := s.riot.GetMatch(apiCtx, route, matchID)
	if err != nil {
		return nil, fmt.Errorf("match %s: %w", matchID, err)
	}

	record := &domain.MatchRecord{
		MatchID:        resp.Metadata.MatchID,
		StartTimestamp: resp.Info.GameStartTimestamp,
		GameMode:       resp.Info.GameMode,
		GameType:       resp.Info.GameType,
		Participants:   make([]domain.Participant, 0, len(resp.Info.Participants)),
	}
	if record.MatchID == "" {
		record.MatchID = matchID
	}

	for _, p := range resp.Info.Participants {
		record.Participants = append(record.Participants, domain.Participant{
			Puuid:        p.Puuid,
			GameName:     p.RiotIDGameName,
			TagLine:      p.RiotIDTagline,
			ChampionName: p.ChampionName,
			TeamPosition: p.TeamPosition,
			Kills:        p.Kills,
			Deaths:       p.Deaths,
			Assists:      p.Assists,
			Win:          p.Win,
		})
	}

	return record, nil
}

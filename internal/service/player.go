package service

import (
	"context"
	"errors"
	"fmt"

	"played-together/internal/api"
	"played-together/internal/constants"
	"played-together/internal/domain"

	"github.com/rs/zerolog"
)

// PlayerService resolves Riot IDs to PUUIDs. One account lookup per call,
// never retried.
type PlayerService struct {
	riot   RiotAPI
	logger zerolog.Logger
}

func NewPlayerService(riot RiotAPI, logger zerolog.Logger) *PlayerService {
	return &PlayerService{riot: riot, logger: logger}
}

func (s *PlayerService) Resolve(ctx context.Context, route domain.Route, id domain.RiotID) (*domain.Account, error) {
	if id.GameName == "" || id.TagLine == "" {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRiotID, id.String())
	}

	apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	s.logger.Debug().Str("riot_id", id.String()).Str("route", string(route)).Msg("fetching puuid")

	acc, err := s.riot.GetAccountByRiotID(apiCtx, route, id.GameName, id.TagLine)
	if errors.Is(err, api.ErrNotFound) {
		s.logger.Debug().Str("riot_id", id.String()).Str("route", string(route)).Msg("riot id not found")
		return nil, &PlayerNotFoundError{ID: id, Route: route}
	}
	if err != nil {
		s.logger.Error().Err(err).Str("riot_id", id.String()).Msg("failed to fetch account")
		return nil, fmt.Errorf("failed to fetch account for %s: %w", id, err)
	}
	if acc.Puuid == "" {
		return nil, &PlayerNotFoundError{ID: id, Route: route}
	}

	s.logger.Debug().Str("riot_id", id.String()).Str("puuid", acc.Puuid).Msg("puuid resolved")
	return &domain.Account{
		Puuid:    acc.Puuid,
		GameName: acc.GameName,
		TagLine:  acc.TagLine,
	}, nil
}

package service

//go:generate mockgen -source=ports.go -destination=mocks/mock_ports.go -package=mocks

import (
	"context"

	"played-together/internal/api"
	"played-together/internal/domain"
)

// RiotAPI is the slice of the Riot API the correlation engine consumes.
// Implementations return api.ErrNotFound for absent resources.
type RiotAPI interface {
	GetAccountByRiotID(ctx context.Context, route domain.Route, gameName, tagLine string) (*api.AccountResponse, error)
	GetMatchIDs(ctx context.Context, route domain.Route, puuid string, params api.MatchIDsParams) ([]string, error)
	GetMatch(ctx context.Context, route domain.Route, matchID string) (*api.MatchResponse, error)
}

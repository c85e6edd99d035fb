package service

import (
	"errors"
	"fmt"

	"played-together/internal/api"
	"played-together/internal/domain"
)

var (
	ErrInvalidQuery      = errors.New("invalid query")
	ErrMissingSelf       = errors.New("no 'self' Riot ID stored, set it with --self <RIOT_ID> or pass two Riot IDs")
	ErrInconsistentMatch = errors.New("participant data missing for one or both players")
)

// PlayerNotFoundError reports a Riot ID that does not resolve on a route.
type PlayerNotFoundError struct {
	Player int
	ID     domain.RiotID
	Route  domain.Route
}

func (e *PlayerNotFoundError) Error() string {
	return fmt.Sprintf("player %d Riot ID '%s' not found on regional route '%s', check spelling, tag line, and that the account exists and is active in this region",
		e.Player, e.ID, e.Route)
}

func (e *PlayerNotFoundError) Unwrap() error {
	return api.ErrNotFound
}

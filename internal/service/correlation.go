package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"played-together/internal/api"
	"played-together/internal/constants"
	"played-together/internal/domain"
	"played-together/internal/metrics"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	resultOK       = "ok"
	resultNotFound = "player_not_found"
	resultError    = "error"
)

// Query describes one correlation run. Zero Count and Concurrency take the
// defaults; an unset Region routes to Europe and links with the fallback code.
type Query struct {
	Player1 domain.RiotID
	Player2 domain.RiotID
	Region  domain.Region

	Count     int
	StartTime time.Time

	Concurrency int

	// StrictParticipants aborts the run when a match lists player 2 but
	// either player's participant entry is missing.
	StrictParticipants bool
}

func (q *Query) normalize() error {
	if q.Player1.IsZero() || q.Player2.IsZero() {
		return fmt.Errorf("%w: two Riot IDs are required", ErrInvalidQuery)
	}
	if strings.EqualFold(q.Player1.String(), q.Player2.String()) {
		return fmt.Errorf("%w: player 1 and player 2 are both %s", ErrInvalidQuery, q.Player1)
	}

	if q.Count == 0 {
		q.Count = constants.DefaultMatchCount
	}
	if q.Count < 1 || q.Count > constants.MaxMatchCount {
		return fmt.Errorf("%w: match count must be between 1 and %d, got %d", ErrInvalidQuery, constants.MaxMatchCount, q.Count)
	}

	if q.Concurrency == 0 {
		q.Concurrency = constants.DefaultConcurrency
	}
	if q.Concurrency < 1 || q.Concurrency > constants.MaxConcurrency {
		return fmt.Errorf("%w: concurrency must be between 1 and %d, got %d", ErrInvalidQuery, constants.MaxConcurrency, q.Concurrency)
	}
	return nil
}

// Engine checks which of player 1's recent matches player 2 also played.
type Engine struct {
	players *PlayerService
	matches *MatchService
	details *MatchDetailService
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

func NewEngine(players *PlayerService, matches *MatchService, details *MatchDetailService, m *metrics.Metrics, logger zerolog.Logger) *Engine {
	return &Engine{
		players: players,
		matches: matches,
		details: details,
		metrics: m,
		logger:  logger,
	}
}

type matchOutcome struct {
	record *domain.MatchRecord
	err    error
}

// runState holds the state of a single Run call.
type runState struct {
	query   Query
	logger  zerolog.Logger
	report  *ReportBuilder
	player1 string
	player2 string
}

// Run resolves both players, walks player 1's match window and returns the
// report. Unavailable matches are counted as checked and skipped.
func (e *Engine) Run(ctx context.Context, q Query) (*domain.Report, error) {
	start := time.Now()

	if err := q.normalize(); err != nil {
		return nil, err
	}

	runID, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate run id: %w", err)
	}

	r := &runState{
		query:  q,
		logger: e.loggerFrom(ctx).With().Str("run_id", runID).Logger(),
		report: NewReportBuilder(q),
	}

	err = e.run(ctx, r)

	summary := r.report.Summary()
	e.observe(err, summary, r.report.SkippedCount(), start)
	if err != nil {
		return nil, err
	}

	r.logger.Info().
		Str("player1", q.Player1.String()).
		Str("player2", q.Player2.String()).
		Int("checked", summary.CheckedMatchesCount).
		Int("together", summary.MatchesPlayedTogetherCount).
		Int("wins", summary.Player1WinsTogetherCount).
		Dur("elapsed", time.Since(start)).
		Msg("query completed")

	return r.report.Build(), nil
}

func (e *Engine) run(ctx context.Context, r *runState) error {
	q := r.query
	route := q.Region.Route()

	r.logger.Debug().
		Str("player1", q.Player1.String()).
		Str("player2", q.Player2.String()).
		Str("route", string(route)).
		Int("count", q.Count).
		Int("concurrency", q.Concurrency).
		Msg("starting query")

	acc1, err := e.resolve(ctx, route, 1, q.Player1)
	if err != nil {
		return err
	}
	r.player1 = acc1.Puuid
	r.report.Resolved(1)

	acc2, err := e.resolve(ctx, route, 2, q.Player2)
	if err != nil {
		return err
	}
	r.player2 = acc2.Puuid
	r.report.Resolved(2)

	ids, err := e.matches.RecentMatchIDs(ctx, route, r.player1, WindowOptions{Count: q.Count, StartTime: q.StartTime})
	if err != nil {
		return fmt.Errorf("fetch match history for %s: %w", q.Player1, err)
	}
	r.logger.Debug().Int("window", len(ids)).Msg("match window fetched")

	if q.Concurrency > 1 && len(ids) > 1 {
		return e.walkConcurrent(ctx, r, route, ids)
	}
	return e.walkSequential(ctx, r, route, ids)
}

func (e *Engine) resolve(ctx context.Context, route domain.Route, player int, id domain.RiotID) (*domain.Account, error) {
	acc, err := e.players.Resolve(ctx, route, id)
	if err != nil {
		var notFound *PlayerNotFoundError
		if errors.As(err, &notFound) {
			notFound.Player = player
		}
		return nil, err
	}
	return acc, nil
}

func (e *Engine) walkSequential(ctx context.Context, r *runState, route domain.Route, ids []string) error {
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}

		record, err := e.details.GetMatch(ctx, route, id)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err := r.visit(id, matchOutcome{record: record, err: err}); err != nil {
			return err
		}
	}
	return nil
}

// walkConcurrent fetches details on a bounded pool and folds the outcomes in
// window order, so counts and ordering equal the sequential walk.
func (e *Engine) walkConcurrent(ctx context.Context, r *runState, route domain.Route, ids []string) error {
	outcomes := make([]matchOutcome, len(ids))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.query.Concurrency)
	for i, id := range ids {
		g.Go(func() error {
			record, err := e.details.GetMatch(gCtx, route, id)
			outcomes[i] = matchOutcome{record: record, err: err}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}

	for i, id := range ids {
		if err := r.visit(id, outcomes[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *runState) visit(matchID string, outcome matchOutcome) error {
	r.report.Checked()

	if outcome.err != nil {
		r.report.Skipped()
		if errors.Is(outcome.err, api.ErrNotFound) {
			r.logger.Warn().Str("match_id", matchID).Msg("match not found, skipping")
		} else {
			r.logger.Warn().Err(outcome.err).Str("match_id", matchID).Msg("could not fetch match details, skipping")
		}
		return nil
	}

	record := outcome.record
	if _, ok := record.ParticipantSet()[r.player2]; !ok {
		return nil
	}
	r.report.Together()

	p1, ok1 := record.Participant(r.player1)
	p2, ok2 := record.Participant(r.player2)
	if !ok1 || !ok2 {
		if r.query.StrictParticipants {
			return fmt.Errorf("%w: match %s", ErrInconsistentMatch, matchID)
		}
		r.report.Skipped()
		r.logger.Warn().
			Str("match_id", matchID).
			Bool("player1_found", ok1).
			Bool("player2_found", ok2).
			Msg("participant data missing, skipping match")
		return nil
	}

	if p1.Win {
		r.report.Win()
	}

	link, ok := LeagueOfGraphsLink(matchID, r.query.Region)
	if !ok {
		r.logger.Debug().Str("match_id", matchID).Msg("unexpected match id format, no link")
	}

	r.report.Add(domain.CorrelatedMatch{
		MatchID:            matchID,
		Date:               domain.FormatGameStart(record.StartTimestamp),
		GameStart:          record.StartTimestamp,
		GameMode:           record.GameMode,
		GameType:           record.GameType,
		LeagueOfGraphsLink: link,
		Player1:            domain.NewPlayerMatchStats(p1),
		Player2:            domain.NewPlayerMatchStats(p2),
	})
	r.logger.Debug().Str("match_id", matchID).Bool("win", p1.Win).Msg("match played together")
	return nil
}

// LeagueOfGraphsLink builds the match page URL for matchID. It reports false
// when the id has no platform prefix to strip.
func LeagueOfGraphsLink(matchID string, region domain.Region) (string, bool) {
	_, suffix, ok := domain.SplitMatchID(matchID)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%s/%s/%s", constants.LeagueOfGraphsMatchURL, region.LinkCode(), suffix), true
}

// loggerFrom prefers a request-scoped logger attached to ctx.
func (e *Engine) loggerFrom(ctx context.Context) zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return *l
	}
	return e.logger
}

func (e *Engine) observe(err error, summary domain.QuerySummary, skipped int, start time.Time) {
	if e.metrics == nil {
		return
	}

	result := resultOK
	var notFound *PlayerNotFoundError
	switch {
	case errors.As(err, &notFound):
		result = resultNotFound
	case err != nil:
		result = resultError
	}
	e.metrics.ObserveQuery(result, summary.CheckedMatchesCount, summary.MatchesPlayedTogetherCount, skipped, start)
}

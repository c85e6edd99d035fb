package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"played-together/internal/api"
	"played-together/internal/domain"
	"played-together/internal/metrics"
	"played-together/internal/service/mocks"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

var (
	alice = domain.RiotID{GameName: "Alice", TagLine: "EUW"}
	bob   = domain.RiotID{GameName: "Bob", TagLine: "EUW"}
)

const (
	alicePuuid = "puuid-alice"
	bobPuuid   = "puuid-bob"
)

type seat struct {
	puuid string
	win   bool
}

func matchResponse(id string, startMs int64, participants ...seat) *api.MatchResponse {
	resp := &api.MatchResponse{
		Metadata: api.MatchMetadata{MatchID: id},
		Info: api.MatchInfo{
			GameStartTimestamp: startMs,
			GameMode:           "CLASSIC",
			GameType:           "MATCHED_GAME",
		},
	}
	for i, p := range participants {
		resp.Metadata.Participants = append(resp.Metadata.Participants, p.puuid)
		resp.Info.Participants = append(resp.Info.Participants, api.MatchParticipant{
			Puuid:        p.puuid,
			ChampionName: fmt.Sprintf("Champ%d", i),
			TeamPosition: "MIDDLE",
			Kills:        i + 1,
			Deaths:       2,
			Assists:      3,
			Win:          p.win,
		})
	}
	return resp
}

type EngineSuite struct {
	suite.Suite

	riot    *mocks.MockRiotAPI
	metrics *metrics.Metrics
	engine  *Engine
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.riot = mocks.NewMockRiotAPI(ctrl)
	s.metrics = metrics.New()

	logger := zerolog.Nop()
	s.engine = NewEngine(
		NewPlayerService(s.riot, logger),
		NewMatchService(s.riot, logger),
		NewMatchDetailService(s.riot, logger),
		s.metrics,
		logger,
	)
}

func (s *EngineSuite) expectPlayers(route domain.Route) {
	s.riot.EXPECT().
		GetAccountByRiotID(gomock.Any(), route, alice.GameName, alice.TagLine).
		Return(&api.AccountResponse{Puuid: alicePuuid, GameName: alice.GameName, TagLine: alice.TagLine}, nil).
		AnyTimes()
	s.riot.EXPECT().
		GetAccountByRiotID(gomock.Any(), route, bob.GameName, bob.TagLine).
		Return(&api.AccountResponse{Puuid: bobPuuid, GameName: bob.GameName, TagLine: bob.TagLine}, nil).
		AnyTimes()
}

func (s *EngineSuite) expectWindow(route domain.Route, ids ...string) {
	s.riot.EXPECT().
		GetMatchIDs(gomock.Any(), route, alicePuuid, gomock.Any()).
		Return(ids, nil).
		AnyTimes()
}

func (s *EngineSuite) expectMatches(route domain.Route, matches map[string]*api.MatchResponse) {
	s.riot.EXPECT().
		GetMatch(gomock.Any(), route, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ domain.Route, id string) (*api.MatchResponse, error) {
			m, ok := matches[id]
			if !ok {
				return nil, api.ErrNotFound
			}
			return m, nil
		}).
		AnyTimes()
}

func (s *EngineSuite) TestRun_FoundTogether() {
	s.expectPlayers(domain.RouteEurope)
	s.expectWindow(domain.RouteEurope, "EUW1_12345", "EUW1_2", "EUW1_3")
	s.expectMatches(domain.RouteEurope, map[string]*api.MatchResponse{
		"EUW1_12345": matchResponse("EUW1_12345", 1705343400000,
			seat{alicePuuid, true}, seat{bobPuuid, true}, seat{"other", false}),
		"EUW1_2": matchResponse("EUW1_2", 1705343300000,
			seat{alicePuuid, false}, seat{"other", true}),
		"EUW1_3": matchResponse("EUW1_3", 1705343200000,
			seat{bobPuuid, false}, seat{alicePuuid, false}),
	})

	report, err := s.engine.Run(context.Background(), Query{Player1: alice, Player2: bob, Region: domain.RegionEUW})
	s.Require().NoError(err)

	summary := report.QuerySummary
	s.Equal(3, summary.CheckedMatchesCount)
	s.Equal(2, summary.MatchesPlayedTogetherCount)
	s.Equal(1, summary.Player1WinsTogetherCount)
	s.True(summary.Player1Resolved)
	s.True(summary.Player2Resolved)
	s.Equal(domain.RegionEUW, summary.Region)
	s.Equal(domain.RouteEurope, summary.Route)

	s.Require().Len(report.FoundMatches, 2)
	first := report.FoundMatches[0]
	s.Equal("EUW1_12345", first.MatchID)
	s.Equal("https://www.leagueofgraphs.com/match/euw/12345", first.LeagueOfGraphsLink)
	s.Equal("2024-01-15 18:30:00 UTC", first.Date)
	s.Equal("CLASSIC", first.GameMode)
	s.Equal(domain.OutcomeVictory, first.Player1.Outcome)
	s.Equal("Champ0", first.Player1.Champion)
	s.Equal("Champ1", first.Player2.Champion)
	s.Equal("2/2/3", first.Player2.KDA)

	second := report.FoundMatches[1]
	s.Equal("EUW1_3", second.MatchID)
	s.Equal(domain.OutcomeDefeat, second.Player1.Outcome)

	s.Equal(1.0, testutil.ToFloat64(s.metrics.QueriesTotal.WithLabelValues(resultOK)))
	s.Equal(3.0, testutil.ToFloat64(s.metrics.MatchesChecked))
	s.Equal(2.0, testutil.ToFloat64(s.metrics.MatchesTogether))
}

func (s *EngineSuite) TestRun_MatchNotFoundCountedNotListed() {
	s.expectPlayers(domain.RouteEurope)
	s.expectWindow(domain.RouteEurope, "EUW1_404", "EUW1_1")
	s.expectMatches(domain.RouteEurope, map[string]*api.MatchResponse{
		"EUW1_1": matchResponse("EUW1_1", 1, seat{alicePuuid, true}, seat{bobPuuid, true}),
	})

	report, err := s.engine.Run(context.Background(), Query{Player1: alice, Player2: bob, Region: domain.RegionEUW})
	s.Require().NoError(err)

	s.Equal(2, report.QuerySummary.CheckedMatchesCount)
	s.Equal(1, report.QuerySummary.MatchesPlayedTogetherCount)
	s.Require().Len(report.FoundMatches, 1)
	s.Equal("EUW1_1", report.FoundMatches[0].MatchID)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.MatchesSkipped))
}

func (s *EngineSuite) TestRun_DetailErrorIsSoft() {
	s.expectPlayers(domain.RouteEurope)
	s.expectWindow(domain.RouteEurope, "EUW1_1", "EUW1_2")
	s.riot.EXPECT().
		GetMatch(gomock.Any(), domain.RouteEurope, "EUW1_1").
		Return(nil, &api.StatusError{Endpoint: "match", Code: 503})
	s.riot.EXPECT().
		GetMatch(gomock.Any(), domain.RouteEurope, "EUW1_2").
		Return(matchResponse("EUW1_2", 1, seat{alicePuuid, false}, seat{bobPuuid, false}), nil)

	var logs bytes.Buffer
	ctx := zerolog.New(&logs).WithContext(context.Background())

	report, err := s.engine.Run(ctx, Query{Player1: alice, Player2: bob, Region: domain.RegionEUW})
	s.Require().NoError(err)

	s.Equal(2, report.QuerySummary.CheckedMatchesCount)
	s.Equal(1, report.QuerySummary.MatchesPlayedTogetherCount)
	s.Equal(0, report.QuerySummary.Player1WinsTogetherCount)
	s.Contains(logs.String(), "could not fetch match details, skipping")
	s.Contains(logs.String(), `"run_id"`)
}

func (s *EngineSuite) TestRun_EmptyWindow() {
	s.expectPlayers(domain.RouteEurope)
	s.expectWindow(domain.RouteEurope)

	report, err := s.engine.Run(context.Background(), Query{Player1: alice, Player2: bob, Region: domain.RegionEUNE})
	s.Require().NoError(err)

	s.Equal(0, report.QuerySummary.CheckedMatchesCount)
	s.Equal(0, report.QuerySummary.MatchesPlayedTogetherCount)
	s.Equal(0, report.QuerySummary.Player1WinsTogetherCount)
	s.NotNil(report.FoundMatches)
	s.Empty(report.FoundMatches)
}

func (s *EngineSuite) TestRun_PlayerNotFound() {
	s.riot.EXPECT().
		GetAccountByRiotID(gomock.Any(), domain.RouteAmericas, alice.GameName, alice.TagLine).
		Return(&api.AccountResponse{Puuid: alicePuuid}, nil)
	s.riot.EXPECT().
		GetAccountByRiotID(gomock.Any(), domain.RouteAmericas, bob.GameName, bob.TagLine).
		Return(nil, api.ErrNotFound)

	report, err := s.engine.Run(context.Background(), Query{Player1: alice, Player2: bob, Region: domain.RegionNA})
	s.Nil(report)

	var notFound *PlayerNotFoundError
	s.Require().True(errors.As(err, &notFound))
	s.Equal(2, notFound.Player)
	s.Equal(bob, notFound.ID)
	s.Equal(domain.RouteAmericas, notFound.Route)
	s.ErrorIs(err, api.ErrNotFound)
	s.Contains(err.Error(), "Bob#EUW")
	s.Contains(err.Error(), "americas")
	s.Equal(1.0, testutil.ToFloat64(s.metrics.QueriesTotal.WithLabelValues(resultNotFound)))
}

func (s *EngineSuite) TestRun_ResolveFailureAborts() {
	s.riot.EXPECT().
		GetAccountByRiotID(gomock.Any(), domain.RouteEurope, alice.GameName, alice.TagLine).
		Return(nil, &api.StatusError{Endpoint: "account", Code: 403})

	_, err := s.engine.Run(context.Background(), Query{Player1: alice, Player2: bob})
	s.Require().Error(err)

	var statusErr *api.StatusError
	s.True(errors.As(err, &statusErr))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.QueriesTotal.WithLabelValues(resultError)))
}

func (s *EngineSuite) TestRun_WindowFetchError() {
	s.expectPlayers(domain.RouteEurope)
	s.riot.EXPECT().
		GetMatchIDs(gomock.Any(), domain.RouteEurope, alicePuuid, gomock.Any()).
		Return(nil, &api.StatusError{Endpoint: "match_ids", Code: 500})

	_, err := s.engine.Run(context.Background(), Query{Player1: alice, Player2: bob})
	s.Require().Error(err)
	s.Contains(err.Error(), "fetch match history for Alice#EUW")
}

func (s *EngineSuite) TestRun_InconsistentParticipantsSkipped() {
	s.expectPlayers(domain.RouteEurope)
	s.expectWindow(domain.RouteEurope, "EUW1_1", "EUW1_2")
	s.expectMatches(domain.RouteEurope, map[string]*api.MatchResponse{
		"EUW1_1": matchResponse("EUW1_1", 1, seat{bobPuuid, true}),
		"EUW1_2": matchResponse("EUW1_2", 1, seat{alicePuuid, true}, seat{bobPuuid, true}),
	})

	report, err := s.engine.Run(context.Background(), Query{Player1: alice, Player2: bob})
	s.Require().NoError(err)

	s.Equal(2, report.QuerySummary.CheckedMatchesCount)
	s.Equal(2, report.QuerySummary.MatchesPlayedTogetherCount)
	s.Equal(1, report.QuerySummary.Player1WinsTogetherCount)
	s.Require().Len(report.FoundMatches, 1)
	s.Equal("EUW1_2", report.FoundMatches[0].MatchID)
}

func (s *EngineSuite) TestRun_InconsistentParticipantsStrict() {
	s.expectPlayers(domain.RouteEurope)
	s.expectWindow(domain.RouteEurope, "EUW1_1")
	s.expectMatches(domain.RouteEurope, map[string]*api.MatchResponse{
		"EUW1_1": matchResponse("EUW1_1", 1, seat{bobPuuid, true}),
	})

	_, err := s.engine.Run(context.Background(), Query{Player1: alice, Player2: bob, StrictParticipants: true})
	s.ErrorIs(err, ErrInconsistentMatch)
	s.Contains(err.Error(), "EUW1_1")
}

func (s *EngineSuite) TestRun_NoRegionUsesFallbacks() {
	s.expectPlayers(domain.RouteEurope)
	s.expectWindow(domain.RouteEurope, "EUN1_987")
	s.expectMatches(domain.RouteEurope, map[string]*api.MatchResponse{
		"EUN1_987": matchResponse("EUN1_987", 0, seat{alicePuuid, true}, seat{bobPuuid, true}),
	})

	report, err := s.engine.Run(context.Background(), Query{Player1: alice, Player2: bob})
	s.Require().NoError(err)

	s.Equal(domain.RouteEurope, report.QuerySummary.Route)
	s.Require().Len(report.FoundMatches, 1)
	s.Equal("https://www.leagueofgraphs.com/match/eune/987", report.FoundMatches[0].LeagueOfGraphsLink)
	s.Equal(domain.UnknownDate, report.FoundMatches[0].Date)
}

func (s *EngineSuite) TestRun_MatchIDWithoutSeparatorHasNoLink() {
	s.expectPlayers(domain.RouteAsia)
	s.expectWindow(domain.RouteAsia, "12345")
	s.expectMatches(domain.RouteAsia, map[string]*api.MatchResponse{
		"12345": matchResponse("12345", 1, seat{alicePuuid, false}, seat{bobPuuid, false}),
	})

	report, err := s.engine.Run(context.Background(), Query{Player1: alice, Player2: bob, Region: domain.RegionKR})
	s.Require().NoError(err)

	s.Require().Len(report.FoundMatches, 1)
	s.Empty(report.FoundMatches[0].LeagueOfGraphsLink)
}

func (s *EngineSuite) TestRun_PassesWindowOptions() {
	s.expectPlayers(domain.RouteEurope)
	start := testStart
	s.riot.EXPECT().
		GetMatchIDs(gomock.Any(), domain.RouteEurope, alicePuuid, api.MatchIDsParams{StartTime: start, Count: 20}).
		Return([]string{}, nil)

	_, err := s.engine.Run(context.Background(), Query{Player1: alice, Player2: bob, Count: 20, StartTime: start})
	s.NoError(err)
}

func (s *EngineSuite) TestRun_InvalidQuery() {
	cases := map[string]Query{
		"missing player 2":    {Player1: alice},
		"same player":         {Player1: alice, Player2: domain.RiotID{GameName: "alice", TagLine: "euw"}},
		"count too large":     {Player1: alice, Player2: bob, Count: 101},
		"negative count":      {Player1: alice, Player2: bob, Count: -1},
		"concurrency too big": {Player1: alice, Player2: bob, Concurrency: 11},
	}
	for name, q := range cases {
		s.Run(name, func() {
			_, err := s.engine.Run(context.Background(), q)
			s.ErrorIs(err, ErrInvalidQuery)
		})
	}
}

func (s *EngineSuite) TestRun_ConcurrentMatchesSequential() {
	ids := make([]string, 0, 20)
	matches := make(map[string]*api.MatchResponse)
	for i := range 20 {
		id := fmt.Sprintf("EUW1_%d", 1000+i)
		ids = append(ids, id)
		switch {
		case i%7 == 0:
			// absent
		case i%3 == 0:
			matches[id] = matchResponse(id, int64(i+1)*1000,
				seat{alicePuuid, i%2 == 0}, seat{bobPuuid, i%2 == 0})
		default:
			matches[id] = matchResponse(id, int64(i+1)*1000,
				seat{alicePuuid, true}, seat{"someone", false})
		}
	}
	s.expectPlayers(domain.RouteEurope)
	s.expectWindow(domain.RouteEurope, ids...)
	s.expectMatches(domain.RouteEurope, matches)

	sequential, err := s.engine.Run(context.Background(), Query{Player1: alice, Player2: bob, Region: domain.RegionEUW})
	s.Require().NoError(err)

	concurrent, err := s.engine.Run(context.Background(), Query{Player1: alice, Player2: bob, Region: domain.RegionEUW, Concurrency: 4})
	s.Require().NoError(err)

	s.Equal(sequential, concurrent)

	summary := concurrent.QuerySummary
	s.Equal(len(ids), summary.CheckedMatchesCount)
	s.LessOrEqual(summary.Player1WinsTogetherCount, summary.MatchesPlayedTogetherCount)
	s.LessOrEqual(summary.MatchesPlayedTogetherCount, summary.CheckedMatchesCount)
	s.LessOrEqual(summary.CheckedMatchesCount, len(ids))
	s.Equal(len(concurrent.FoundMatches), summary.MatchesPlayedTogetherCount)
}

func (s *EngineSuite) TestRun_CancelledContext() {
	s.expectPlayers(domain.RouteEurope)
	s.expectWindow(domain.RouteEurope, "EUW1_1", "EUW1_2")

	ctx, cancel := context.WithCancel(context.Background())
	s.riot.EXPECT().
		GetMatch(gomock.Any(), domain.RouteEurope, "EUW1_1").
		DoAndReturn(func(context.Context, domain.Route, string) (*api.MatchResponse, error) {
			cancel()
			return nil, context.Canceled
		})

	_, err := s.engine.Run(ctx, Query{Player1: alice, Player2: bob})
	s.ErrorIs(err, context.Canceled)
}

func TestLeagueOfGraphsLink(t *testing.T) {
	tests := []struct {
		name    string
		matchID string
		region  domain.Region
		want    string
		wantOK  bool
	}{
		{"euw", "EUW1_12345", domain.RegionEUW, "https://www.leagueofgraphs.com/match/euw/12345", true},
		{"unset region falls back", "EUW1_12345", domain.RegionUnset, "https://www.leagueofgraphs.com/match/eune/12345", true},
		{"korea", "KR_7000", domain.RegionKR, "https://www.leagueofgraphs.com/match/kr/7000", true},
		{"only first separator stripped", "NA1_1_2", domain.RegionNA, "https://www.leagueofgraphs.com/match/na/1_2", true},
		{"no separator", "12345", domain.RegionEUW, "", false},
		{"empty suffix", "EUW1_", domain.RegionEUW, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := LeagueOfGraphsLink(tt.matchID, tt.region)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

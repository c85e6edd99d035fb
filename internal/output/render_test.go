package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"played-together/internal/domain"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *domain.Report {
	return &domain.Report{
		QuerySummary: domain.QuerySummary{
			Player1:                    domain.RiotID{GameName: "Alice", TagLine: "EUW"},
			Player2:                    domain.RiotID{GameName: "Bøb", TagLine: "EUW"},
			Region:                     domain.RegionEUW,
			Route:                      domain.RouteEurope,
			Player1Resolved:            true,
			Player2Resolved:            true,
			CheckedMatchesCount:        12,
			MatchesPlayedTogetherCount: 2,
			Player1WinsTogetherCount:   1,
		},
		FoundMatches: []domain.CorrelatedMatch{
			{
				MatchID:            "EUW1_12345",
				Date:               "2024-01-15 18:30:00 UTC",
				GameStart:          1705343400000,
				GameMode:           "CLASSIC",
				GameType:           "MATCHED_GAME",
				LeagueOfGraphsLink: "https://www.leagueofgraphs.com/match/euw/12345",
				Player1:            domain.NewPlayerMatchStats(domain.Participant{ChampionName: "Ahri", TeamPosition: "MIDDLE", Kills: 7, Deaths: 2, Assists: 11, Win: true}),
				Player2:            domain.NewPlayerMatchStats(domain.Participant{ChampionName: "Thresh", TeamPosition: "UTILITY", Kills: 1, Deaths: 4, Assists: 19, Win: true}),
			},
			{
				MatchID:  "12346",
				Date:     domain.UnknownDate,
				GameMode: "ARAM",
				Player1:  domain.NewPlayerMatchStats(domain.Participant{ChampionName: "Lux"}),
				Player2:  domain.NewPlayerMatchStats(domain.Participant{ChampionName: "Jinx"}),
			},
		},
	}
}

func render(t *testing.T, mode Mode, report *domain.Report) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, NewRenderer(&buf, mode, WithoutColor()).Render(report))
	return buf.String()
}

func TestRender_Default(t *testing.T) {
	out := render(t, ModeDefault, sampleReport())

	assert.Contains(t, out, "--- Query Summary ---")
	assert.Contains(t, out, "Checked 12 matches for Alice#EUW.")
	assert.Contains(t, out, "Found 2 matches where Alice#EUW and Bøb#EUW played together.")
	assert.Contains(t, out, "Of those, 1 games were won by Alice#EUW.")
	assert.NotContains(t, out, "Found Game Links")
	assert.NotContains(t, out, "┌")
}

func TestRender_Silent(t *testing.T) {
	out := render(t, ModeSilent, sampleReport())

	assert.Contains(t, out, "--- Query Summary ---")
	assert.Contains(t, out, "--- Found Game Links ---")
	assert.Contains(t, out, "https://www.leagueofgraphs.com/match/euw/12345\n")
	assert.NotContains(t, out, NoGamesFound)
}

func TestRender_SilentEmpty(t *testing.T) {
	report := sampleReport()
	report.FoundMatches = []domain.CorrelatedMatch{}

	out := render(t, ModeSilent, report)
	assert.True(t, strings.HasSuffix(out, NoGamesFound+"\n"))
}

func TestRender_Verbose(t *testing.T) {
	out := render(t, ModeVerbose, sampleReport())

	assert.NotContains(t, out, "--- Query Summary ---")
	assert.Equal(t, 2, strings.Count(out, "┌"))
	assert.Contains(t, out, "Players Alice#EUW and Bøb#EUW played together in Match ID: EUW1_12345")
	assert.Contains(t, out, "Game Mode: CLASSIC, Game Type: MATCHED_GAME")
	assert.Contains(t, out, "Game Mode: ARAM │")
	assert.Contains(t, out, "  KDA: 7/2/11")
	assert.Contains(t, out, "Bøb:")
	assert.Contains(t, out, "Won the game?: YES (Victory)")
	assert.Contains(t, out, "Won the game?: NO (Defeat)")

	// every row of a box has the same display width
	for _, box := range strings.Split(strings.TrimSpace(out), "\n\n") {
		rows := strings.Split(box, "\n")
		want := runewidth.StringWidth(rows[0])
		for _, row := range rows {
			assert.Equal(t, want, runewidth.StringWidth(row), row)
		}
	}
}

func TestRender_VerboseEmpty(t *testing.T) {
	report := sampleReport()
	report.FoundMatches = []domain.CorrelatedMatch{}

	assert.Equal(t, NoGamesFound+"\n", render(t, ModeVerbose, report))
}

func TestRender_JSON(t *testing.T) {
	out := render(t, ModeJSON, sampleReport())

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))

	summary := decoded["querySummary"].(map[string]any)
	assert.Equal(t, float64(12), summary["checkedMatchesCount"])
	assert.Equal(t, "EUW", summary["region"])
	assert.Equal(t, "Alice", summary["player1"].(map[string]any)["gameName"])

	matches := decoded["foundMatches"].([]any)
	require.Len(t, matches, 2)
	second := matches[1].(map[string]any)
	assert.NotContains(t, second, "leagueOfGraphsLink")
	assert.Equal(t, "Defeat", second["player1"].(map[string]any)["outcome"])
	assert.True(t, strings.HasPrefix(out, "{\n  \"querySummary\""))
}

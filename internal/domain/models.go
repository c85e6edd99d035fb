package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	GameStartLayout = "2006-01-02 15:04:05 UTC"
	UnknownDate     = "Unknown Date"

	OutcomeVictory = "Victory"
	OutcomeDefeat  = "Defeat"
)

// Account is a resolved Riot ID. Puuid is only meaningful on the route it
// was resolved on.
type Account struct {
	Puuid    string
	GameName string
	TagLine  string
}

type MatchRecord struct {
	MatchID        string
	StartTimestamp int64 // epoch milliseconds
	GameMode       string
	GameType       string
	Participants   []Participant
}

type Participant struct {
	Puuid        string
	GameName     string
	TagLine      string
	ChampionName string
	TeamPosition string
	Kills        int
	Deaths       int
	Assists      int
	Win          bool
}

// ParticipantSet returns the set of participant PUUIDs.
func (m *MatchRecord) ParticipantSet() map[string]struct{} {
	set := make(map[string]struct{}, len(m.Participants))
	for _, p := range m.Participants {
		set[p.Puuid] = struct{}{}
	}
	return set
}

func (m *MatchRecord) Participant(puuid string) (Participant, bool) {
	for _, p := range m.Participants {
		if p.Puuid == puuid {
			return p, true
		}
	}
	return Participant{}, false
}

// FormatGameStart renders an epoch-millisecond timestamp in UTC.
func FormatGameStart(ms int64) string {
	if ms <= 0 {
		return UnknownDate
	}
	return time.UnixMilli(ms).UTC().Format(GameStartLayout)
}

// SplitMatchID splits "EUW1_12345" into its platform prefix and numeric suffix.
func SplitMatchID(matchID string) (platform, suffix string, ok bool) {
	platform, suffix, ok = strings.Cut(matchID, "_")
	if !ok || suffix == "" {
		return "", "", false
	}
	return platform, suffix, true
}

type PlayerMatchStats struct {
	Champion string `json:"champion"`
	Role     string `json:"role"`
	Kills    int    `json:"kills"`
	Deaths   int    `json:"deaths"`
	Assists  int    `json:"assists"`
	KDA      string `json:"kda"`
	Win      bool   `json:"win"`
	Outcome  string `json:"outcome"`
}

func NewPlayerMatchStats(p Participant) PlayerMatchStats {
	outcome := OutcomeDefeat
	if p.Win {
		outcome = OutcomeVictory
	}
	return PlayerMatchStats{
		Champion: p.ChampionName,
		Role:     p.TeamPosition,
		Kills:    p.Kills,
		Deaths:   p.Deaths,
		Assists:  p.Assists,
		KDA:      fmt.Sprintf("%d/%d/%d", p.Kills, p.Deaths, p.Assists),
		Win:      p.Win,
		Outcome:  outcome,
	}
}

// CorrelatedMatch is one match both players took part in.
type CorrelatedMatch struct {
	MatchID            string           `json:"matchId"`
	Date               string           `json:"date"`
	GameStart          int64            `json:"gameStartTimestamp"`
	GameMode           string           `json:"gameMode"`
	GameType           string           `json:"gameType,omitempty"`
	LeagueOfGraphsLink string           `json:"leagueOfGraphsLink,omitempty"`
	Player1            PlayerMatchStats `json:"player1"`
	Player2            PlayerMatchStats `json:"player2"`
}

type QuerySummary struct {
	Player1                    RiotID `json:"player1"`
	Player2                    RiotID `json:"player2"`
	Region                     Region `json:"region,omitempty"`
	Route                      Route  `json:"route"`
	Player1Resolved            bool   `json:"player1Resolved"`
	Player2Resolved            bool   `json:"player2Resolved"`
	CheckedMatchesCount        int    `json:"checkedMatchesCount"`
	MatchesPlayedTogetherCount int    `json:"matchesPlayedTogetherCount"`
	Player1WinsTogetherCount   int    `json:"player1WinsTogetherCount"`
}

type Report struct {
	QuerySummary QuerySummary      `json:"querySummary"`
	FoundMatches []CorrelatedMatch `json:"foundMatches"`
}

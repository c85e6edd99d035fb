package constants

import "time"

const (
	DefaultMatchCount = 100
	MaxMatchCount     = 100
	MatchWindow       = 30 * 24 * time.Hour
)

const (
	DefaultConcurrency = 1
	MaxConcurrency     = 10
)

const (
	ExternalAPITimeout = 10 * time.Second
	RequestTimeout     = 5 * time.Minute
	ShutdownTimeout    = 5 * time.Second
	ReadHeaderTimeout  = 5 * time.Second
)

const (
	APIMaxConnsPerHost     = 20
	APIMaxIdleConnDuration = 1 * time.Minute
	APIDefaultRateLimit    = 20
)

const (
	LeagueOfGraphsMatchURL = "https://www.leagueofgraphs.com/match"
	RiotAPIHostFormat      = "https://%s.api.riotgames.com"
)

const (
	AppName          = "playedtogether"
	SettingsFileName = "config.toml"
)

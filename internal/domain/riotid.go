package domain

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidRiotID = errors.New("invalid Riot ID format, expected 'GameName#TagLine'")

// RiotID is the player-facing identity, GameName#TagLine.
type RiotID struct {
	GameName string `json:"gameName" toml:"game_name"`
	TagLine  string `json:"tagLine" toml:"tag_line"`
}

func ParseRiotID(s string) (RiotID, error) {
	parts := strings.Split(s, "#")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return RiotID{}, fmt.Errorf("%w: %q", ErrInvalidRiotID, s)
	}
	return RiotID{GameName: parts[0], TagLine: parts[1]}, nil
}

func (id RiotID) String() string {
	if id.IsZero() {
		return ""
	}
	return id.GameName + "#" + id.TagLine
}

func (id RiotID) IsZero() bool {
	return id.GameName == "" && id.TagLine == ""
}

// Set and Type let a RiotID be used directly as a command-line flag.
func (id *RiotID) Set(s string) error {
	parsed, err := ParseRiotID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *RiotID) Type() string {
	return "riot-id"
}

package domain

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownRegion = errors.New("unknown region")

// Route is a Riot regional routing value used as the API host prefix.
type Route string

const (
	RouteAmericas Route = "americas"
	RouteEurope   Route = "europe"
	RouteAsia     Route = "asia"
)

// Region is a user-facing League of Legends platform. The zero value means
// no region was selected.
type Region int

const (
	RegionUnset Region = iota
	RegionBR
	RegionEUNE
	RegionEUW
	RegionJP
	RegionKR
	RegionLAN
	RegionLAS
	RegionME
	RegionNA
	RegionOCE
	RegionRU
	RegionSEA
	RegionTR
	RegionTW
	RegionVN
)

const (
	DefaultRoute     = RouteEurope
	FallbackLinkCode = "eune"
)

type regionInfo struct {
	name     string
	route    Route
	linkCode string
}

var regions = map[Region]regionInfo{
	RegionBR:   {"BR", RouteAmericas, "br"},
	RegionEUNE: {"EUNE", RouteEurope, "eune"},
	RegionEUW:  {"EUW", RouteEurope, "euw"},
	RegionJP:   {"JP", RouteAsia, "jp"},
	RegionKR:   {"KR", RouteAsia, "kr"},
	RegionLAN:  {"LAN", RouteAmericas, "lan"},
	RegionLAS:  {"LAS", RouteAmericas, "las"},
	RegionME:   {"ME", RouteEurope, "me"},
	RegionNA:   {"NA", RouteAmericas, "na"},
	RegionOCE:  {"OCE", RouteAmericas, "oce"},
	RegionRU:   {"RU", RouteEurope, "ru"},
	RegionSEA:  {"SEA", RouteAsia, "sea"},
	RegionTR:   {"TR", RouteEurope, "tr"},
	RegionTW:   {"TW", RouteAsia, "tw"},
	RegionVN:   {"VN", RouteAsia, "vn"},
}

// SupportedRegions lists region names in declaration order.
func SupportedRegions() []string {
	names := make([]string, 0, len(regions))
	for r := RegionBR; r <= RegionVN; r++ {
		names = append(names, regions[r].name)
	}
	return names
}

func ParseRegion(s string) (Region, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for r, info := range regions {
		if info.name == name {
			return r, nil
		}
	}
	return RegionUnset, fmt.Errorf("%w: %s (supported: %s)", ErrUnknownRegion, s, strings.Join(SupportedRegions(), ", "))
}

func (r Region) IsSet() bool {
	_, ok := regions[r]
	return ok
}

func (r Region) String() string {
	return regions[r].name
}

// Route falls back to DefaultRoute when no region is selected.
func (r Region) Route() Route {
	if info, ok := regions[r]; ok {
		return info.route
	}
	return DefaultRoute
}

// LinkCode is the League of Graphs region path segment.
func (r Region) LinkCode() string {
	if info, ok := regions[r]; ok {
		return info.linkCode
	}
	return FallbackLinkCode
}

// Or returns r when set, otherwise fallback.
func (r Region) Or(fallback Region) Region {
	if r.IsSet() {
		return r
	}
	return fallback
}

func (r Region) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Region) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*r = RegionUnset
		return nil
	}
	return r.Set(string(text))
}

func (r *Region) Set(s string) error {
	parsed, err := ParseRegion(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func (r *Region) Type() string {
	return "region"
}

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"played-together/internal/domain"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

// Mode selects how a report is printed.
type Mode int

const (
	// ModeDefault prints the query summary.
	ModeDefault Mode = iota
	// ModeVerbose prints one box per shared match and no summary.
	ModeVerbose
	// ModeSilent prints the summary followed by the match links.
	ModeSilent
	// ModeJSON prints the report as indented JSON.
	ModeJSON
)

const NoGamesFound = "No games found together."

type Renderer struct {
	w    io.Writer
	mode Mode

	border  *color.Color
	heading *color.Color
	link    *color.Color
	win     *color.Color
	loss    *color.Color
}

type Option func(*Renderer)

// WithoutColor disables ANSI colours regardless of the terminal.
func WithoutColor() Option {
	return func(r *Renderer) {
		for _, c := range []*color.Color{r.border, r.heading, r.link, r.win, r.loss} {
			c.DisableColor()
		}
	}
}

func NewRenderer(w io.Writer, mode Mode, opts ...Option) *Renderer {
	r := &Renderer{
		w:       w,
		mode:    mode,
		border:  color.New(color.FgHiBlack),
		heading: color.New(color.FgCyan, color.Bold),
		link:    color.New(color.FgBlue, color.Underline),
		win:     color.New(color.FgGreen, color.Bold),
		loss:    color.New(color.FgRed, color.Bold),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Renderer) Render(report *domain.Report) error {
	switch r.mode {
	case ModeJSON:
		return r.renderJSON(report)
	case ModeVerbose:
		return r.renderVerbose(report)
	case ModeSilent:
		if err := r.renderSummary(report.QuerySummary); err != nil {
			return err
		}
		return r.renderLinks(report.FoundMatches)
	default:
		return r.renderSummary(report.QuerySummary)
	}
}

func (r *Renderer) renderJSON(report *domain.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	_, err = fmt.Fprintln(r.w, string(data))
	return err
}

func (r *Renderer) renderSummary(s domain.QuerySummary) error {
	lines := []string{
		"",
		r.heading.Sprint("--- Query Summary ---"),
		fmt.Sprintf("Checked %d matches for %s.", s.CheckedMatchesCount, s.Player1),
		fmt.Sprintf("Found %d matches where %s and %s played together.", s.MatchesPlayedTogetherCount, s.Player1, s.Player2),
		fmt.Sprintf("Of those, %d games were won by %s.", s.Player1WinsTogetherCount, s.Player1),
	}
	_, err := fmt.Fprintln(r.w, strings.Join(lines, "\n"))
	return err
}

func (r *Renderer) renderLinks(matches []domain.CorrelatedMatch) error {
	var b strings.Builder
	b.WriteString("\n" + r.heading.Sprint("--- Found Game Links ---") + "\n")
	if len(matches) == 0 {
		b.WriteString(NoGamesFound + "\n")
	}
	for _, m := range matches {
		if m.LeagueOfGraphsLink != "" {
			b.WriteString(r.link.Sprint(m.LeagueOfGraphsLink) + "\n")
		}
	}
	_, err := io.WriteString(r.w, b.String())
	return err
}

func (r *Renderer) renderVerbose(report *domain.Report) error {
	if len(report.FoundMatches) == 0 {
		_, err := fmt.Fprintln(r.w, NoGamesFound)
		return err
	}
	for _, m := range report.FoundMatches {
		if _, err := io.WriteString(r.w, r.box(r.matchLines(report.QuerySummary, m))+"\n\n"); err != nil {
			return err
		}
	}
	return nil
}

// line is one row of a box. style is applied after padding so escape codes do
// not affect width.
type line struct {
	text  string
	style *color.Color
}

func (r *Renderer) matchLines(s domain.QuerySummary, m domain.CorrelatedMatch) []line {
	mode := "Game Mode: " + m.GameMode
	if m.GameType != "" {
		mode += ", Game Type: " + m.GameType
	}

	lines := []line{
		{text: fmt.Sprintf("Players %s and %s played together in Match ID: %s", s.Player1, s.Player2, m.MatchID)},
		{text: "Date: " + m.Date},
		{text: mode},
	}
	if m.LeagueOfGraphsLink != "" {
		lines = append(lines, line{m.LeagueOfGraphsLink, r.link})
	}

	lines = append(lines, line{"--- Participant Details ---", r.heading})
	lines = append(lines, playerLines(s.Player1.GameName, m.Player1)...)
	lines = append(lines, playerLines(s.Player2.GameName, m.Player2)...)

	outcome := line{"  Won the game?: NO (" + m.Player1.Outcome + ")", r.loss}
	if m.Player1.Win {
		outcome = line{"  Won the game?: YES (" + m.Player1.Outcome + ")", r.win}
	}
	return append(lines, line{"--- Match Outcome ---", r.heading}, outcome)
}

func playerLines(name string, p domain.PlayerMatchStats) []line {
	return []line{
		{text: name + ":"},
		{text: "  Champion: " + p.Champion},
		{text: "  Role: " + p.Role},
		{text: "  KDA: " + p.KDA},
	}
}

func (r *Renderer) box(lines []line) string {
	width := 0
	for _, l := range lines {
		width = max(width, runewidth.StringWidth(l.text))
	}
	edge := strings.Repeat("─", width+2)

	var b strings.Builder
	b.WriteString(r.border.Sprint("┌"+edge+"┐") + "\n")
	for _, l := range lines {
		padded := runewidth.FillRight(l.text, width)
		if l.style != nil {
			padded = l.style.Sprint(padded)
		}
		b.WriteString(r.border.Sprint("│ ") + padded + r.border.Sprint(" │") + "\n")
	}
	b.WriteString(r.border.Sprint("└" + edge + "┘"))
	return b.String()
}

package service

import "played-together/internal/domain"

// ReportBuilder accumulates one engine run. It is not safe for concurrent
// use; the engine folds worker results into it from a single goroutine.
type ReportBuilder struct {
	summary domain.QuerySummary
	skipped int
	matches []domain.CorrelatedMatch
}

func NewReportBuilder(q Query) *ReportBuilder {
	return &ReportBuilder{
		summary: domain.QuerySummary{
			Player1: q.Player1,
			Player2: q.Player2,
			Region:  q.Region,
			Route:   q.Region.Route(),
		},
		matches: []domain.CorrelatedMatch{},
	}
}

func (b *ReportBuilder) Resolved(player int) {
	switch player {
	case 1:
		b.summary.Player1Resolved = true
	case 2:
		b.summary.Player2Resolved = true
	}
}

func (b *ReportBuilder) Checked() { b.summary.CheckedMatchesCount++ }

func (b *ReportBuilder) Together() { b.summary.MatchesPlayedTogetherCount++ }

func (b *ReportBuilder) Win() { b.summary.Player1WinsTogetherCount++ }

func (b *ReportBuilder) Skipped() { b.skipped++ }

func (b *ReportBuilder) Add(m domain.CorrelatedMatch) {
	b.matches = append(b.matches, m)
}

func (b *ReportBuilder) Summary() domain.QuerySummary {
	return b.summary
}

func (b *ReportBuilder) SkippedCount() int {
	return b.skipped
}

// Build returns the report. The match list is copied so the builder can keep
// being used.
func (b *ReportBuilder) Build() *domain.Report {
	matches := make([]domain.CorrelatedMatch, len(b.matches))
	copy(matches, b.matches)
	return &domain.Report{
		QuerySummary: b.summary,
		FoundMatches: matches,
	}
}

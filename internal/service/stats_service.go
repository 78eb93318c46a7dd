package service

import (
	"context"
	"sort"
	"time"

	"github.com/spec-kit/ticket-tracker/internal/domain"
	"github.com/spec-kit/ticket-tracker/internal/repository"
	apperrors "github.com/spec-kit/ticket-tracker/pkg/util"
)

// statsWindow is the trailing period covered by the daily creation series.
const statsWindow = 7 * 24 * time.Hour

// StatsService computes the aggregate ticket report.
type StatsService struct {
	tickets repository.TicketRepository
	now     func() time.Time
}

// NewStatsService constructs the service.
func NewStatsService(tickets repository.TicketRepository) *StatsService {
	return &StatsService{tickets: tickets, now: time.Now}
}

// Report aggregates all non-deleted tickets in one store round-trip:
// total, status and priority distributions, and per-day creation counts
// for the trailing seven days. Every known status and priority appears
// in the report even at zero; days without creations are omitted.
func (s *StatsService) Report(ctx context.Context) (*domain.StatsReport, error) {
	since := s.now().UTC().Add(-statsWindow)
	rows, err := s.tickets.StatsFacets(ctx, since)
	if err != nil {
		return nil, apperrors.NewAggregationError(err)
	}
	return buildReport(rows), nil
}

func buildReport(rows []repository.FacetRow) *domain.StatsReport {
	report := domain.NewStatsReport()
	for _, row := range rows {
		switch row.Facet {
		case repository.FacetTotal:
			report.Total = row.Count
		case repository.FacetStatus:
			report.Status[domain.TicketStatus(row.Key)] = row.Count
		case repository.FacetPriority:
			report.Priority[domain.TicketPriority(row.Key)] = row.Count
		case repository.FacetDay:
			report.Last7Days = append(report.Last7Days, domain.DailyCount{
				Date:  row.Key,
				Count: row.Count,
			})
		}
	}
	sort.Slice(report.Last7Days, func(i, j int) bool {
		return report.Last7Days[i].Date < report.Last7Days[j].Date
	})
	return report
}

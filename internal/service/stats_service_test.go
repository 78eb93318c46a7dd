package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/ticket-tracker/internal/domain"
)

func seedTicket(repo *fakeTicketRepo, status domain.TicketStatus, priority domain.TicketPriority, createdAt time.Time, deleted bool) {
	id := uuid.NewString()
	repo.tickets[id] = &domain.Ticket{
		ID:            id,
		Title:         "seeded",
		Description:   "seeded",
		CustomerEmail: "seed@example.com",
		Status:        status,
		Priority:      priority,
		Deleted:       deleted,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
}

func TestStatsServiceReport(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("status map overlays counts onto fixed keys", func(t *testing.T) {
		repo := newFakeTicketRepo()
		seedTicket(repo, domain.TicketStatusOpen, domain.TicketPriorityMedium, now, false)
		seedTicket(repo, domain.TicketStatusOpen, domain.TicketPriorityMedium, now, false)
		seedTicket(repo, domain.TicketStatusResolved, domain.TicketPriorityHigh, now, false)

		svc := NewStatsService(repo)
		svc.now = func() time.Time { return now }

		report, err := svc.Report(context.Background())
		if err != nil {
			t.Fatalf("report: %v", err)
		}
		if report.Total != 3 {
			t.Errorf("expected total=3, got %d", report.Total)
		}
		if report.Status[domain.TicketStatusOpen] != 2 {
			t.Errorf("expected open=2, got %d", report.Status[domain.TicketStatusOpen])
		}
		if count, ok := report.Status[domain.TicketStatusPending]; !ok || count != 0 {
			t.Errorf("pending must be present at 0, got %d (present=%v)", count, ok)
		}
		if report.Status[domain.TicketStatusResolved] != 1 {
			t.Errorf("expected resolved=1, got %d", report.Status[domain.TicketStatusResolved])
		}
		if count, ok := report.Priority[domain.TicketPriorityLow]; !ok || count != 0 {
			t.Errorf("low must be present at 0, got %d (present=%v)", count, ok)
		}
	})

	t.Run("old tickets counted in totals but not in last7Days", func(t *testing.T) {
		repo := newFakeTicketRepo()
		seedTicket(repo, domain.TicketStatusOpen, domain.TicketPriorityLow, now.AddDate(0, 0, -10), false)
		seedTicket(repo, domain.TicketStatusOpen, domain.TicketPriorityLow, now.AddDate(0, 0, -1), false)

		svc := NewStatsService(repo)
		svc.now = func() time.Time { return now }

		report, err := svc.Report(context.Background())
		if err != nil {
			t.Fatalf("report: %v", err)
		}
		if report.Total != 2 {
			t.Errorf("expected total=2, got %d", report.Total)
		}
		if report.Status[domain.TicketStatusOpen] != 2 {
			t.Errorf("expected open=2, got %d", report.Status[domain.TicketStatusOpen])
		}
		if len(report.Last7Days) != 1 {
			t.Fatalf("expected 1 day in series, got %d", len(report.Last7Days))
		}
		if report.Last7Days[0].Date != "2025-06-14" {
			t.Errorf("expected 2025-06-14, got %s", report.Last7Days[0].Date)
		}
	})

	t.Run("deleted tickets excluded everywhere", func(t *testing.T) {
		repo := newFakeTicketRepo()
		seedTicket(repo, domain.TicketStatusOpen, domain.TicketPriorityHigh, now, false)
		seedTicket(repo, domain.TicketStatusOpen, domain.TicketPriorityHigh, now, true)

		svc := NewStatsService(repo)
		svc.now = func() time.Time { return now }

		report, err := svc.Report(context.Background())
		if err != nil {
			t.Fatalf("report: %v", err)
		}
		if report.Total != 1 {
			t.Errorf("expected total=1, got %d", report.Total)
		}
		if report.Status[domain.TicketStatusOpen] != 1 {
			t.Errorf("expected open=1, got %d", report.Status[domain.TicketStatusOpen])
		}
	})

	t.Run("series ascending with gaps omitted", func(t *testing.T) {
		repo := newFakeTicketRepo()
		seedTicket(repo, domain.TicketStatusOpen, domain.TicketPriorityLow, now.AddDate(0, 0, -1), false)
		seedTicket(repo, domain.TicketStatusOpen, domain.TicketPriorityLow, now.AddDate(0, 0, -5), false)
		seedTicket(repo, domain.TicketStatusOpen, domain.TicketPriorityLow, now.AddDate(0, 0, -5), false)

		svc := NewStatsService(repo)
		svc.now = func() time.Time { return now }

		report, err := svc.Report(context.Background())
		if err != nil {
			t.Fatalf("report: %v", err)
		}
		if len(report.Last7Days) != 2 {
			t.Fatalf("expected 2 days, got %d", len(report.Last7Days))
		}
		if report.Last7Days[0].Date != "2025-06-10" || report.Last7Days[1].Date != "2025-06-14" {
			t.Errorf("expected ascending dates, got %v", report.Last7Days)
		}
		if report.Last7Days[0].Count != 2 {
			t.Errorf("expected 2 creations on 2025-06-10, got %d", report.Last7Days[0].Count)
		}
	})

	t.Run("empty store yields fully zeroed report", func(t *testing.T) {
		svc := NewStatsService(newFakeTicketRepo())
		svc.now = func() time.Time { return now }

		report, err := svc.Report(context.Background())
		if err != nil {
			t.Fatalf("report: %v", err)
		}
		if report.Total != 0 {
			t.Errorf("expected total=0, got %d", report.Total)
		}
		if len(report.Status) != 3 || len(report.Priority) != 3 {
			t.Errorf("expected fixed-shape maps, got status=%d priority=%d",
				len(report.Status), len(report.Priority))
		}
		if len(report.Last7Days) != 0 {
			t.Errorf("expected empty series, got %v", report.Last7Days)
		}
	})

	t.Run("store failure surfaces as aggregation error", func(t *testing.T) {
		repo := newFakeTicketRepo()
		repo.err = errors.New("connection refused")

		svc := NewStatsService(repo)
		_, err := svc.Report(context.Background())
		if code := domainCode(t, err); code != "AGGREGATION_FAILED" {
			t.Errorf("expected AGGREGATION_FAILED, got %s", code)
		}
	})
}

package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/ticket-tracker/internal/domain"
	"github.com/spec-kit/ticket-tracker/internal/repository"
	apperrors "github.com/spec-kit/ticket-tracker/pkg/util"
)

// fakeTicketRepo is an in-memory stand-in for the Postgres repository. It
// mirrors the store contract: soft-deleted rows are invisible to reads,
// conditional writes miss them, and facets cover non-deleted rows only.
type fakeTicketRepo struct {
	tickets map[string]*domain.Ticket
	err     error
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[string]*domain.Ticket)}
}

func (f *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	if f.err != nil {
		return f.err
	}
	ticket.ID = uuid.NewString()
	now := time.Now().UTC()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	copied := *ticket
	f.tickets[ticket.ID] = &copied
	return nil
}

func (f *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	if f.err != nil {
		return nil, f.err
	}
	ticket, ok := f.tickets[id]
	if !ok || ticket.Deleted {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	return &copied, nil
}

func (f *fakeTicketRepo) List(_ context.Context, filter repository.TicketFilter, limit, offset int) ([]domain.Ticket, error) {
	if f.err != nil {
		return nil, f.err
	}
	matched := f.matching(filter)
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (f *fakeTicketRepo) Count(_ context.Context, filter repository.TicketFilter) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return len(f.matching(filter)), nil
}

func (f *fakeTicketRepo) UpdatePartial(_ context.Context, id string, patch repository.TicketPatch) (*domain.Ticket, error) {
	if f.err != nil {
		return nil, f.err
	}
	ticket, ok := f.tickets[id]
	if !ok || ticket.Deleted {
		return nil, pgx.ErrNoRows
	}
	if patch.Status != nil {
		ticket.Status = *patch.Status
	}
	if patch.Priority != nil {
		ticket.Priority = *patch.Priority
	}
	ticket.UpdatedAt = time.Now().UTC()
	copied := *ticket
	return &copied, nil
}

func (f *fakeTicketRepo) SoftDelete(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	ticket, ok := f.tickets[id]
	if !ok || ticket.Deleted {
		return pgx.ErrNoRows
	}
	ticket.Deleted = true
	ticket.UpdatedAt = time.Now().UTC()
	return nil
}

func (f *fakeTicketRepo) StatsFacets(_ context.Context, since time.Time) ([]repository.FacetRow, error) {
	if f.err != nil {
		return nil, f.err
	}
	statusCounts := map[string]int{}
	priorityCounts := map[string]int{}
	dayCounts := map[string]int{}
	total := 0
	for _, ticket := range f.tickets {
		if ticket.Deleted {
			continue
		}
		total++
		statusCounts[string(ticket.Status)]++
		priorityCounts[string(ticket.Priority)]++
		if !ticket.CreatedAt.Before(since) {
			dayCounts[ticket.CreatedAt.UTC().Format("2006-01-02")]++
		}
	}

	rows := []repository.FacetRow{{Facet: repository.FacetTotal, Count: total}}
	for key, count := range statusCounts {
		rows = append(rows, repository.FacetRow{Facet: repository.FacetStatus, Key: key, Count: count})
	}
	for key, count := range priorityCounts {
		rows = append(rows, repository.FacetRow{Facet: repository.FacetPriority, Key: key, Count: count})
	}
	for key, count := range dayCounts {
		rows = append(rows, repository.FacetRow{Facet: repository.FacetDay, Key: key, Count: count})
	}
	return rows, nil
}

func (f *fakeTicketRepo) matching(filter repository.TicketFilter) []domain.Ticket {
	var matched []domain.Ticket
	for _, ticket := range f.tickets {
		if ticket.Deleted {
			continue
		}
		if filter.Status != nil && ticket.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && ticket.Priority != *filter.Priority {
			continue
		}
		if filter.Search != nil {
			needle := strings.ToLower(*filter.Search)
			title := strings.ToLower(ticket.Title)
			email := strings.ToLower(ticket.CustomerEmail)
			if !strings.Contains(title, needle) && !strings.Contains(email, needle) {
				continue
			}
		}
		matched = append(matched, *ticket)
	}
	return matched
}

func mustCreate(t *testing.T, svc *TicketService, title, email string, priority domain.TicketPriority) *domain.Ticket {
	t.Helper()
	ticket, err := svc.Create(context.Background(), TicketCreateInput{
		Title:         title,
		Description:   "something is broken",
		CustomerEmail: email,
		Priority:      priority,
	})
	if err != nil {
		t.Fatalf("create ticket: %v", err)
	}
	return ticket
}

func domainCode(t *testing.T, err error) string {
	t.Helper()
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected DomainError, got %v", err)
	}
	return domainErr.Code
}

func TestTicketServiceCreate(t *testing.T) {
	svc := NewTicketService(newFakeTicketRepo(), nil)

	t.Run("priority defaults to medium", func(t *testing.T) {
		ticket := mustCreate(t, svc, "Login issues", "a@example.com", "")
		if ticket.Priority != domain.TicketPriorityMedium {
			t.Errorf("expected medium priority, got %s", ticket.Priority)
		}
	})

	t.Run("status always starts open", func(t *testing.T) {
		ticket := mustCreate(t, svc, "Billing inquiry", "b@example.com", domain.TicketPriorityHigh)
		if ticket.Status != domain.TicketStatusOpen {
			t.Errorf("expected open status, got %s", ticket.Status)
		}
	})

	t.Run("email lowered and trimmed", func(t *testing.T) {
		ticket, err := svc.Create(context.Background(), TicketCreateInput{
			Title:         "Slow performance",
			Description:   "everything is slow",
			CustomerEmail: "  Casey.Smith@Example.COM ",
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if ticket.CustomerEmail != "casey.smith@example.com" {
			t.Errorf("expected normalized email, got %q", ticket.CustomerEmail)
		}
	})
}

func TestTicketServiceList(t *testing.T) {
	repo := newFakeTicketRepo()
	svc := NewTicketService(repo, nil)

	open1 := mustCreate(t, svc, "Login issues", "alex@acme.com", "")
	mustCreate(t, svc, "Payment failing", "sam@other.org", "")
	resolved := mustCreate(t, svc, "Dashboard blank", "jordan@acme.com", "")
	status := domain.TicketStatusResolved
	if _, err := svc.Update(context.Background(), resolved.ID, TicketUpdateInput{Status: &status}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := svc.Delete(context.Background(), open1.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	t.Run("deleted tickets never listed", func(t *testing.T) {
		result, err := svc.List(context.Background(), TicketListInput{})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if result.Pagination.Total != 2 {
			t.Errorf("expected total=2, got %d", result.Pagination.Total)
		}
		for _, ticket := range result.Tickets {
			if ticket.ID == open1.ID {
				t.Error("soft-deleted ticket appeared in list")
			}
		}
	})

	t.Run("unknown status value means no filter", func(t *testing.T) {
		all, err := svc.List(context.Background(), TicketListInput{})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		filtered, err := svc.List(context.Background(), TicketListInput{Status: "archived"})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if filtered.Pagination.Total != all.Pagination.Total {
			t.Errorf("unknown status should match all: got %d want %d",
				filtered.Pagination.Total, all.Pagination.Total)
		}
	})

	t.Run("valid status filter applies", func(t *testing.T) {
		result, err := svc.List(context.Background(), TicketListInput{Status: "resolved"})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if result.Pagination.Total != 1 {
			t.Errorf("expected 1 resolved ticket, got %d", result.Pagination.Total)
		}
	})

	t.Run("search is case-insensitive on title or email", func(t *testing.T) {
		byTitle, err := svc.List(context.Background(), TicketListInput{Search: "PAYMENT"})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if byTitle.Pagination.Total != 1 {
			t.Errorf("title search: expected 1, got %d", byTitle.Pagination.Total)
		}
		byEmail, err := svc.List(context.Background(), TicketListInput{Search: "Acme.com"})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if byEmail.Pagination.Total != 1 {
			t.Errorf("email search: expected 1 (one acme ticket deleted), got %d", byEmail.Pagination.Total)
		}
	})

	t.Run("search matching nothing yields empty set", func(t *testing.T) {
		result, err := svc.List(context.Background(), TicketListInput{Search: "zzz-no-such-term"})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if result.Pagination.Total != 0 || len(result.Tickets) != 0 {
			t.Errorf("expected empty result, got total=%d", result.Pagination.Total)
		}
	})

	t.Run("pagination metadata", func(t *testing.T) {
		repo := newFakeTicketRepo()
		paged := NewTicketService(repo, nil)
		for i := 0; i < 25; i++ {
			mustCreate(t, paged, "bulk ticket", "bulk@example.com", "")
		}
		result, err := paged.List(context.Background(), TicketListInput{Page: "3", Limit: "10"})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		meta := result.Pagination
		if meta.TotalPages != 3 {
			t.Errorf("expected totalPages=3, got %d", meta.TotalPages)
		}
		if meta.HasNext {
			t.Error("page 3 of 3 should not have next")
		}
		if !meta.HasPrev {
			t.Error("page 3 should have prev")
		}
		if len(result.Tickets) != 5 {
			t.Errorf("expected 5 tickets on last page, got %d", len(result.Tickets))
		}
	})
}

func TestTicketServiceGetByID(t *testing.T) {
	svc := NewTicketService(newFakeTicketRepo(), nil)
	ticket := mustCreate(t, svc, "Account locked", "c@example.com", "")

	t.Run("existing ticket", func(t *testing.T) {
		got, err := svc.GetByID(context.Background(), ticket.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.ID != ticket.ID {
			t.Errorf("expected %s, got %s", ticket.ID, got.ID)
		}
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := svc.GetByID(context.Background(), uuid.NewString())
		if code := domainCode(t, err); code != "NOT_FOUND" {
			t.Errorf("expected NOT_FOUND, got %s", code)
		}
	})

	t.Run("soft-deleted ticket is absent", func(t *testing.T) {
		if err := svc.Delete(context.Background(), ticket.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		_, err := svc.GetByID(context.Background(), ticket.ID)
		if code := domainCode(t, err); code != "NOT_FOUND" {
			t.Errorf("expected NOT_FOUND, got %s", code)
		}
	})

	t.Run("malformed id", func(t *testing.T) {
		_, err := svc.GetByID(context.Background(), "not-a-uuid")
		if code := domainCode(t, err); code != "VALIDATION_FAILED" {
			t.Errorf("expected VALIDATION_FAILED, got %s", code)
		}
	})
}

func TestTicketServiceUpdate(t *testing.T) {
	svc := NewTicketService(newFakeTicketRepo(), nil)

	t.Run("partial update changes only provided fields", func(t *testing.T) {
		ticket := mustCreate(t, svc, "Mobile app issues", "d@example.com", domain.TicketPriorityLow)
		status := domain.TicketStatusPending
		updated, err := svc.Update(context.Background(), ticket.ID, TicketUpdateInput{Status: &status})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.Status != domain.TicketStatusPending {
			t.Errorf("expected pending, got %s", updated.Status)
		}
		if updated.Priority != domain.TicketPriorityLow {
			t.Errorf("priority should be untouched, got %s", updated.Priority)
		}
	})

	t.Run("nonexistent id returns NotFound, nothing created", func(t *testing.T) {
		status := domain.TicketStatusResolved
		_, err := svc.Update(context.Background(), uuid.NewString(), TicketUpdateInput{Status: &status})
		if code := domainCode(t, err); code != "NOT_FOUND" {
			t.Errorf("expected NOT_FOUND, got %s", code)
		}
	})

	t.Run("soft-deleted ticket cannot be updated", func(t *testing.T) {
		ticket := mustCreate(t, svc, "Data export", "e@example.com", "")
		if err := svc.Delete(context.Background(), ticket.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		priority := domain.TicketPriorityHigh
		_, err := svc.Update(context.Background(), ticket.ID, TicketUpdateInput{Priority: &priority})
		if code := domainCode(t, err); code != "NOT_FOUND" {
			t.Errorf("expected NOT_FOUND, got %s", code)
		}
	})
}

func TestTicketServiceDelete(t *testing.T) {
	svc := NewTicketService(newFakeTicketRepo(), nil)
	ticket := mustCreate(t, svc, "UI layout problems", "f@example.com", "")

	if err := svc.Delete(context.Background(), ticket.ID); err != nil {
		t.Fatalf("first delete: %v", err)
	}

	t.Run("second delete fails with NotFound", func(t *testing.T) {
		err := svc.Delete(context.Background(), ticket.ID)
		if code := domainCode(t, err); code != "NOT_FOUND" {
			t.Errorf("expected NOT_FOUND, got %s", code)
		}
	})
}

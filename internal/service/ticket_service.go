package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/ticket-tracker/internal/domain"
	"github.com/spec-kit/ticket-tracker/internal/events"
	"github.com/spec-kit/ticket-tracker/internal/pagination"
	"github.com/spec-kit/ticket-tracker/internal/repository"
	apperrors "github.com/spec-kit/ticket-tracker/pkg/util"
)

// TicketService coordinates ticket queries and mutations.
type TicketService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(tickets repository.TicketRepository, dispatcher events.Dispatcher) *TicketService {
	return &TicketService{tickets: tickets, dispatcher: dispatcher}
}

// TicketListInput carries raw list query parameters.
type TicketListInput struct {
	Status   string
	Priority string
	Search   string
	Page     string
	Limit    string
}

// TicketListResult bundles a page of tickets with its metadata.
type TicketListResult struct {
	Tickets    []domain.Ticket
	Pagination pagination.Meta
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title         string
	Description   string
	CustomerEmail string
	Priority      domain.TicketPriority
}

// TicketUpdateInput describes a partial update; nil fields stay unchanged.
type TicketUpdateInput struct {
	Status   *domain.TicketStatus
	Priority *domain.TicketPriority
}

// List returns tickets matching the filter, newest first, with pagination
// metadata computed from the matching-record count.
func (s *TicketService) List(ctx context.Context, input TicketListInput) (*TicketListResult, error) {
	filter := buildFilter(input)
	params := pagination.Parse(input.Page, input.Limit)

	total, err := s.tickets.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	tickets, err := s.tickets.List(ctx, filter, params.Limit, params.Offset())
	if err != nil {
		return nil, err
	}

	return &TicketListResult{
		Tickets:    tickets,
		Pagination: params.Meta(total),
	}, nil
}

// GetByID fetches a single non-deleted ticket.
func (s *TicketService) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket")
		}
		return nil, err
	}
	return ticket, nil
}

// Create persists a new ticket. Status always starts open; priority
// defaults to medium when omitted.
func (s *TicketService) Create(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	ticket := &domain.Ticket{
		Title:         strings.TrimSpace(input.Title),
		Description:   strings.TrimSpace(input.Description),
		CustomerEmail: strings.ToLower(strings.TrimSpace(input.CustomerEmail)),
		Status:        domain.TicketStatusOpen,
		Priority:      input.Priority,
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityMedium
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			Title:    ticket.Title,
			Status:   ticket.Status,
			Priority: ticket.Priority,
		},
	})
	return ticket, nil
}

// Update applies the provided fields to a non-deleted ticket and refreshes
// updated_at. The store-side conditional write keeps it atomic with respect
// to concurrent deletes.
func (s *TicketService) Update(ctx context.Context, id string, input TicketUpdateInput) (*domain.Ticket, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	patch := repository.TicketPatch{
		Status:   input.Status,
		Priority: input.Priority,
	}
	ticket, err := s.tickets.UpdatePartial(ctx, id, patch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket")
		}
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketUpdated,
		TicketID: ticket.ID,
		Payload: events.TicketUpdatedPayload{
			Status:   input.Status,
			Priority: input.Priority,
		},
	})
	return ticket, nil
}

// Delete soft-deletes a ticket. A second delete of the same ticket fails
// with NotFound rather than applying twice.
func (s *TicketService) Delete(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	if err := s.tickets.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket")
		}
		return err
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketDeleted,
		TicketID: id,
	})
	return nil
}

// buildFilter translates raw query parameters into a predicate. Unknown
// status or priority values are treated as no filter rather than an error.
func buildFilter(input TicketListInput) repository.TicketFilter {
	filter := repository.TicketFilter{}
	if status := domain.TicketStatus(input.Status); input.Status != "" && status.Valid() {
		filter.Status = &status
	}
	if priority := domain.TicketPriority(input.Priority); input.Priority != "" && priority.Valid() {
		filter.Priority = &priority
	}
	if search := strings.TrimSpace(input.Search); search != "" {
		filter.Search = &search
	}
	return filter
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.NewValidationError("invalid id format", nil)
	}
	return nil
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now().UTC()
	_ = s.dispatcher.Publish(ctx, event)
}

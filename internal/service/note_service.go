package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/microcosm-cc/bluemonday"

	"github.com/spec-kit/ticket-tracker/internal/domain"
	"github.com/spec-kit/ticket-tracker/internal/events"
	"github.com/spec-kit/ticket-tracker/internal/repository"
	apperrors "github.com/spec-kit/ticket-tracker/pkg/util"
)

// NoteService manages ticket notes. Notes hang off non-deleted tickets
// only and are stored as plain text.
type NoteService struct {
	notes      repository.NoteRepository
	tickets    repository.TicketRepository
	sanitizer  *bluemonday.Policy
	dispatcher events.Dispatcher
}

// NewNoteService constructs the service.
func NewNoteService(notes repository.NoteRepository, tickets repository.TicketRepository, dispatcher events.Dispatcher) *NoteService {
	return &NoteService{
		notes:      notes,
		tickets:    tickets,
		sanitizer:  bluemonday.StrictPolicy(),
		dispatcher: dispatcher,
	}
}

// ListByTicket returns a ticket's notes newest first with author details.
// A missing or soft-deleted ticket yields NotFound.
func (s *NoteService) ListByTicket(ctx context.Context, ticketID string) ([]domain.NoteWithAuthor, error) {
	if err := validateID(ticketID); err != nil {
		return nil, err
	}
	if err := s.requireTicket(ctx, ticketID); err != nil {
		return nil, err
	}
	notes, err := s.notes.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if notes == nil {
		notes = []domain.NoteWithAuthor{}
	}
	return notes, nil
}

// Create attaches a note written by the authenticated user. The text is
// stripped of any HTML before storage.
func (s *NoteService) Create(ctx context.Context, ticketID, userID, text string) (*domain.NoteWithAuthor, error) {
	if err := validateID(ticketID); err != nil {
		return nil, err
	}
	if err := s.requireTicket(ctx, ticketID); err != nil {
		return nil, err
	}

	cleaned := strings.TrimSpace(s.sanitizer.Sanitize(text))
	if cleaned == "" {
		return nil, apperrors.NewValidationError("validation failed", []apperrors.FieldDetail{
			{Field: "text", Message: "Note text is required"},
		})
	}

	note := &domain.Note{
		TicketID: ticketID,
		UserID:   userID,
		Text:     cleaned,
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, err
	}

	created, err := s.notes.GetWithAuthor(ctx, note.ID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:     events.EventNoteAdded,
		TicketID: ticketID,
		UserID:   &userID,
		Payload: events.NoteAddedPayload{
			NoteID:      created.ID,
			TextPreview: preview(created.Text),
		},
	})
	return created, nil
}

func (s *NoteService) requireTicket(ctx context.Context, ticketID string) error {
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket")
		}
		return err
	}
	return nil
}

func (s *NoteService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now().UTC()
	_ = s.dispatcher.Publish(ctx, event)
}

func preview(text string) string {
	const max = 80
	if len(text) <= max {
		return text
	}
	return text[:max]
}

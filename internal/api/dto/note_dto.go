package dto

import (
	"strings"
	"time"

	"github.com/spec-kit/ticket-tracker/internal/domain"
	apperrors "github.com/spec-kit/ticket-tracker/pkg/util"
)

// CreateNoteRequest payload.
type CreateNoteRequest struct {
	Text string `json:"text"`
}

// Validate checks the note payload.
func (r CreateNoteRequest) Validate() []apperrors.FieldDetail {
	var details []apperrors.FieldDetail
	text := strings.TrimSpace(r.Text)
	if text == "" {
		details = append(details, apperrors.FieldDetail{Field: "text", Message: "Note text is required"})
	} else if len(text) > 1000 {
		details = append(details, apperrors.FieldDetail{Field: "text", Message: "Note text must be at most 1000 characters"})
	}
	return details
}

// NoteAuthor is the author block embedded in note responses.
type NoteAuthor struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NoteResponse is the client-facing note shape.
type NoteResponse struct {
	ID        string     `json:"id"`
	TicketID  string     `json:"ticket_id"`
	Text      string     `json:"text"`
	Author    NoteAuthor `json:"author"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// FromNote maps a joined note to its response shape.
func FromNote(note *domain.NoteWithAuthor) NoteResponse {
	return NoteResponse{
		ID:       note.ID,
		TicketID: note.TicketID,
		Text:     note.Text,
		Author: NoteAuthor{
			ID:    note.UserID,
			Name:  note.AuthorName,
			Email: note.AuthorEmail,
		},
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}

// FromNotes maps a slice of joined notes.
func FromNotes(notes []domain.NoteWithAuthor) []NoteResponse {
	items := make([]NoteResponse, 0, len(notes))
	for i := range notes {
		items = append(items, FromNote(&notes[i]))
	}
	return items
}

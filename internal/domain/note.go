package domain

import "time"

// Note is an internal comment attached to a ticket by an authenticated user.
// Notes are append-only: they are never updated or deleted.
type Note struct {
	ID        string
	TicketID  string
	UserID    string
	Text      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NoteWithAuthor is a note joined with the author's display fields.
type NoteWithAuthor struct {
	Note
	AuthorName  string
	AuthorEmail string
}

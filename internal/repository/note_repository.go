package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ticket-tracker/internal/domain"
)

// NoteRepository encapsulates note persistence.
type NoteRepository interface {
	Create(ctx context.Context, note *domain.Note) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.NoteWithAuthor, error)
	GetWithAuthor(ctx context.Context, id string) (*domain.NoteWithAuthor, error)
}

type noteRepository struct {
	pool *pgxpool.Pool
}

// NewNoteRepository returns a Postgres-backed implementation.
func NewNoteRepository(pool *pgxpool.Pool) NoteRepository {
	return &noteRepository{pool: pool}
}

func (r *noteRepository) Create(ctx context.Context, note *domain.Note) error {
	const query = `
        INSERT INTO notes (ticket_id, user_id, text)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		note.TicketID,
		note.UserID,
		note.Text,
	).Scan(&note.ID, &note.CreatedAt, &note.UpdatedAt)
}

// ListByTicket returns notes newest first with author name and email joined in.
func (r *noteRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.NoteWithAuthor, error) {
	const query = `
        SELECT n.id, n.ticket_id, n.user_id, n.text, n.created_at, n.updated_at, u.name, u.email
        FROM notes n
        JOIN users u ON u.id = n.user_id
        WHERE n.ticket_id = $1
        ORDER BY n.created_at DESC`

	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.NoteWithAuthor
	for rows.Next() {
		var note domain.NoteWithAuthor
		if err := rows.Scan(noteFields(&note)...); err != nil {
			return nil, err
		}
		result = append(result, note)
	}
	return result, rows.Err()
}

func (r *noteRepository) GetWithAuthor(ctx context.Context, id string) (*domain.NoteWithAuthor, error) {
	const query = `
        SELECT n.id, n.ticket_id, n.user_id, n.text, n.created_at, n.updated_at, u.name, u.email
        FROM notes n
        JOIN users u ON u.id = n.user_id
        WHERE n.id = $1`

	var note domain.NoteWithAuthor
	if err := r.pool.QueryRow(ctx, query, id).Scan(noteFields(&note)...); err != nil {
		return nil, err
	}
	return &note, nil
}

func noteFields(n *domain.NoteWithAuthor) []any {
	return []any{
		&n.ID,
		&n.TicketID,
		&n.UserID,
		&n.Text,
		&n.CreatedAt,
		&n.UpdatedAt,
		&n.AuthorName,
		&n.AuthorEmail,
	}
}

package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ticket-tracker/internal/domain"
)

// TicketPatch describes a partial update. Nil fields are left untouched;
// updated_at is always refreshed.
type TicketPatch struct {
	Status   *domain.TicketStatus
	Priority *domain.TicketPriority
}

// FacetRow is one row of the multi-facet statistics query.
type FacetRow struct {
	Facet string
	Key   string
	Count int
}

// Facet names emitted by StatsFacets.
const (
	FacetTotal    = "total"
	FacetStatus   = "status"
	FacetPriority = "priority"
	FacetDay      = "day"
)

// TicketRepository encapsulates ticket persistence. Every operation sees
// only non-deleted tickets; soft-deleted rows stay in storage for audit.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter, limit, offset int) ([]domain.Ticket, error)
	Count(ctx context.Context, filter TicketFilter) (int, error)
	UpdatePartial(ctx context.Context, id string, patch TicketPatch) (*domain.Ticket, error)
	SoftDelete(ctx context.Context, id string) error
	StatsFacets(ctx context.Context, since time.Time) ([]FacetRow, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = "id, title, description, customer_email, status, priority, deleted, created_at, updated_at"

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (title, description, customer_email, status, priority)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, deleted, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.CustomerEmail,
		ticket.Status,
		ticket.Priority,
	).Scan(&ticket.ID, &ticket.Deleted, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE id=$1 AND deleted=FALSE`, ticketColumns)
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(ticketFields(&ticket)...); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter, limit, offset int) ([]domain.Ticket, error) {
	where, args := filter.whereClause()
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		ticketColumns, where, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) Count(ctx context.Context, filter TicketFilter) (int, error) {
	where, args := filter.whereClause()
	query := fmt.Sprintf(`SELECT COUNT(*) FROM tickets WHERE %s`, where)

	var total int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// UpdatePartial applies the provided fields in a single conditional write.
// The deleted=FALSE match makes the update atomic with respect to a
// concurrent soft delete: a deleted ticket can never be resurrected.
func (r *ticketRepository) UpdatePartial(ctx context.Context, id string, patch TicketPatch) (*domain.Ticket, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{}

	if patch.Status != nil {
		args = append(args, *patch.Status)
		sets = append(sets, fmt.Sprintf("status = $%d", len(args)))
	}
	if patch.Priority != nil {
		args = append(args, *patch.Priority)
		sets = append(sets, fmt.Sprintf("priority = $%d", len(args)))
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE tickets SET %s WHERE id=$%d AND deleted=FALSE RETURNING %s`,
		strings.Join(sets, ", "), len(args), ticketColumns)

	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, args...).Scan(ticketFields(&ticket)...); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// SoftDelete marks the ticket deleted. Deleting an already-deleted ticket
// fails with pgx.ErrNoRows because the conditional match finds no row.
func (r *ticketRepository) SoftDelete(ctx context.Context, id string) error {
	const query = `UPDATE tickets SET deleted=TRUE, updated_at=NOW() WHERE id=$1 AND deleted=FALSE`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// StatsFacets runs the multi-facet aggregation as one statement so all
// facets observe the same snapshot. The day facet is limited to tickets
// created at or after since, keyed by UTC calendar date.
func (r *ticketRepository) StatsFacets(ctx context.Context, since time.Time) ([]FacetRow, error) {
	const query = `
        SELECT 'total' AS facet, '' AS key, COUNT(*) AS count
        FROM tickets WHERE deleted = FALSE
        UNION ALL
        SELECT 'status', status, COUNT(*)
        FROM tickets WHERE deleted = FALSE GROUP BY status
        UNION ALL
        SELECT 'priority', priority, COUNT(*)
        FROM tickets WHERE deleted = FALSE GROUP BY priority
        UNION ALL
        SELECT 'day', to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD'), COUNT(*)
        FROM tickets WHERE deleted = FALSE AND created_at >= $1 GROUP BY 2`

	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []FacetRow
	for rows.Next() {
		var row FacetRow
		if err := rows.Scan(&row.Facet, &row.Key, &row.Count); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func ticketFields(t *domain.Ticket) []any {
	return []any{
		&t.ID,
		&t.Title,
		&t.Description,
		&t.CustomerEmail,
		&t.Status,
		&t.Priority,
		&t.Deleted,
		&t.CreatedAt,
		&t.UpdatedAt,
	}
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(ticketFields(&ticket)...); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}

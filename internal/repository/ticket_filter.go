package repository

import (
	"fmt"
	"strings"

	"github.com/spec-kit/ticket-tracker/internal/domain"
)

// TicketFilter captures list query parameters. Nil fields add no constraint.
// The generated predicate always excludes soft-deleted rows, so no call site
// can forget the visibility rule.
type TicketFilter struct {
	Status   *domain.TicketStatus
	Priority *domain.TicketPriority
	Search   *string
}

// whereClause renders the filter as a SQL predicate with positional args.
// Constraints are combined with AND; the search term matches title OR
// customer_email case-insensitively.
func (f TicketFilter) whereClause() (string, []any) {
	clauses := []string{"deleted = FALSE"}
	args := []any{}

	if f.Status != nil {
		args = append(args, *f.Status)
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.Priority != nil {
		args = append(args, *f.Priority)
		clauses = append(clauses, fmt.Sprintf("priority = $%d", len(args)))
	}
	if f.Search != nil && strings.TrimSpace(*f.Search) != "" {
		pattern := "%" + escapeLike(strings.TrimSpace(*f.Search)) + "%"
		args = append(args, pattern)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(title ILIKE %s OR customer_email ILIKE %s)", placeholder, placeholder))
	}

	return strings.Join(clauses, " AND "), args
}

// escapeLike neutralizes LIKE metacharacters so user input matches literally.
func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}

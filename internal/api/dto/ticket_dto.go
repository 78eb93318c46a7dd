package dto

import (
	"net/mail"
	"strings"
	"time"

	"github.com/spec-kit/ticket-tracker/internal/domain"
	"github.com/spec-kit/ticket-tracker/internal/pagination"
	apperrors "github.com/spec-kit/ticket-tracker/pkg/util"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	CustomerEmail string `json:"customer_email"`
	Priority      string `json:"priority"`
}

// Validate checks the create payload, returning one entry per failing field.
func (r CreateTicketRequest) Validate() []apperrors.FieldDetail {
	var details []apperrors.FieldDetail

	title := strings.TrimSpace(r.Title)
	if title == "" {
		details = append(details, apperrors.FieldDetail{Field: "title", Message: "Title is required"})
	} else if len(title) > 200 {
		details = append(details, apperrors.FieldDetail{Field: "title", Message: "Title must be at most 200 characters"})
	}
	if strings.TrimSpace(r.Description) == "" {
		details = append(details, apperrors.FieldDetail{Field: "description", Message: "Description is required"})
	}
	if !validEmail(r.CustomerEmail) {
		details = append(details, apperrors.FieldDetail{Field: "customer_email", Message: "Invalid customer email format"})
	}
	if r.Priority != "" && !domain.TicketPriority(r.Priority).Valid() {
		details = append(details, apperrors.FieldDetail{Field: "priority", Message: "Priority must be one of low, medium, high"})
	}
	return details
}

// UpdateTicketRequest payload; absent fields leave the ticket unchanged.
type UpdateTicketRequest struct {
	Status   *string `json:"status"`
	Priority *string `json:"priority"`
}

// Validate checks the update payload. Unlike list filtering, an invalid
// enum value here is an error rather than silently ignored.
func (r UpdateTicketRequest) Validate() []apperrors.FieldDetail {
	var details []apperrors.FieldDetail
	if r.Status != nil && !domain.TicketStatus(*r.Status).Valid() {
		details = append(details, apperrors.FieldDetail{Field: "status", Message: "Status must be one of open, pending, resolved"})
	}
	if r.Priority != nil && !domain.TicketPriority(*r.Priority).Valid() {
		details = append(details, apperrors.FieldDetail{Field: "priority", Message: "Priority must be one of low, medium, high"})
	}
	return details
}

// TicketResponse is the client-facing ticket shape. The soft-delete flag
// is internal bookkeeping and never exposed.
type TicketResponse struct {
	ID            string                `json:"id"`
	Title         string                `json:"title"`
	Description   string                `json:"description"`
	CustomerEmail string                `json:"customer_email"`
	Status        domain.TicketStatus   `json:"status"`
	Priority      domain.TicketPriority `json:"priority"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// ListTicketsResponse bundles one page of tickets and its metadata.
type ListTicketsResponse struct {
	Tickets    []TicketResponse `json:"tickets"`
	Pagination pagination.Meta  `json:"pagination"`
}

// FromTicket maps a domain ticket to its response shape.
func FromTicket(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:            ticket.ID,
		Title:         ticket.Title,
		Description:   ticket.Description,
		CustomerEmail: ticket.CustomerEmail,
		Status:        ticket.Status,
		Priority:      ticket.Priority,
		CreatedAt:     ticket.CreatedAt,
		UpdatedAt:     ticket.UpdatedAt,
	}
}

// FromTickets maps a slice of domain tickets.
func FromTickets(tickets []domain.Ticket) []TicketResponse {
	items := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, FromTicket(&tickets[i]))
	}
	return items
}

func validEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen     TicketStatus = "open"
	TicketStatusPending  TicketStatus = "pending"
	TicketStatusResolved TicketStatus = "resolved"
)

// TicketStatuses lists every known status.
var TicketStatuses = []TicketStatus{TicketStatusOpen, TicketStatusPending, TicketStatusResolved}

// Valid reports whether the status is a known value.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusPending, TicketStatusResolved:
		return true
	}
	return false
}

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
)

// TicketPriorities lists every known priority.
var TicketPriorities = []TicketPriority{TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh}

// Valid reports whether the priority is a known value.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh:
		return true
	}
	return false
}

// Ticket is the aggregate for support requests. Deleted marks the row
// invisible to every read, update and statistics path; rows are never
// physically removed so the audit trail survives.
type Ticket struct {
	ID            string
	Title         string
	Description   string
	CustomerEmail string
	Status        TicketStatus
	Priority      TicketPriority
	Deleted       bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

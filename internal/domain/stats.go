package domain

// DailyCount is one day of ticket creations within the trailing window.
// Date is a calendar day in "YYYY-MM-DD" form (UTC).
type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// StatsReport aggregates ticket counts over all non-deleted tickets.
// Status and Priority always carry every known category, zero-valued when
// no ticket has it. Last7Days holds only days with at least one creation,
// ascending by date.
type StatsReport struct {
	Total     int                    `json:"total"`
	Status    map[TicketStatus]int   `json:"status"`
	Priority  map[TicketPriority]int `json:"priority"`
	Last7Days []DailyCount           `json:"last7Days"`
}

// NewStatsReport returns a report pre-seeded with every known status and
// priority at zero, ready for counts to be overlaid.
func NewStatsReport() *StatsReport {
	report := &StatsReport{
		Status:    make(map[TicketStatus]int, len(TicketStatuses)),
		Priority:  make(map[TicketPriority]int, len(TicketPriorities)),
		Last7Days: []DailyCount{},
	}
	for _, s := range TicketStatuses {
		report.Status[s] = 0
	}
	for _, p := range TicketPriorities {
		report.Priority[p] = 0
	}
	return report
}

// Package pagination converts raw page/limit request parameters into
// skip/limit values and derives page metadata for list responses.
package pagination

import "strconv"

const (
	// DefaultPage is used when the page parameter is absent or unusable.
	DefaultPage = 1
	// DefaultLimit is used when the limit parameter is absent or unusable.
	DefaultLimit = 10
	// MaxLimit caps the page size a client may request.
	MaxLimit = 100
)

// Params holds effective pagination inputs after defaulting and clamping.
type Params struct {
	Page  int
	Limit int
}

// Parse derives effective pagination parameters from raw query strings.
// Absent, non-numeric or non-positive values fall back to the defaults,
// and the limit is capped at MaxLimit.
func Parse(pageStr, limitStr string) Params {
	page := parsePositive(pageStr, DefaultPage)
	limit := parsePositive(limitStr, DefaultLimit)
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Params{Page: page, Limit: limit}
}

// Offset returns the number of records to skip.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Meta describes the pagination block of a list response.
type Meta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// Meta computes page metadata for the given total matching-record count.
// TotalPages is ceil(total/limit), zero when total is zero.
func (p Params) Meta(total int) Meta {
	totalPages := 0
	if total > 0 {
		totalPages = (total + p.Limit - 1) / p.Limit
	}
	return Meta{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    p.Page < totalPages,
		HasPrev:    p.Page > 1,
	}
}

func parsePositive(val string, fallback int) int {
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed < 1 {
		return fallback
	}
	return parsed
}

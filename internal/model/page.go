package model

import "math"

type Page struct {
	Number int
	Limit  int
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
	// MaxPageNumber keeps Offset from overflowing int.
	MaxPageNumber = math.MaxInt / MaxPageLimit
)

// NewPage applies the listing defaults: page 1, limit 10, limit capped at 100.
// Page numbers beyond MaxPageNumber are clamped.
func NewPage(number, limit int) Page {
	if number < 1 {
		number = 1
	}
	if number > MaxPageNumber {
		number = MaxPageNumber
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return Page{Number: number, Limit: limit}
}

// TotalPages is ceil(total/limit).
func (p Page) TotalPages(total int64) int64 {
	if p.Limit <= 0 {
		return 0
	}
	return (total + int64(p.Limit) - 1) / int64(p.Limit)
}

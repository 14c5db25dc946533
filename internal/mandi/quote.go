package mandi

import (
	"time"

	"krishi-route/internal/geo"
)

// Quote sources.
const (
	SourceLive      = "live"
	SourceMock      = "mock"
	SourceMockLocal = "mock-local"
)

// PricePoint is one day of a quote's price history.
type PricePoint struct {
	Date  string  `json:"date"` // YYYY-MM-DD
	Price float64 `json:"price"`
}

// Quote is a single mandi's offer for a crop, created fresh per request.
type Quote struct {
	Name            string       `json:"name"`
	State           string       `json:"state"`
	District        string       `json:"district"`
	Location        geo.Location `json:"location"`
	PricePerQuintal float64      `json:"pricePerQuintal"`
	Unit            string       `json:"unit"`
	UpdatedAt       time.Time    `json:"updatedAt"`
	Source          string       `json:"source"` // live | mock | mock-local

	// PriceHistory holds the last 3 days, oldest to newest.
	PriceHistory    []PricePoint `json:"priceHistory,omitempty"`
	HistoricalTrend string       `json:"historicalTrend,omitempty"`

	// IsFallback marks quotes substituted by the closest-N policy when
	// nothing was inside the search radius; OriginalDistance keeps the
	// true distance for display.
	IsFallback       bool    `json:"isFallback,omitempty"`
	OriginalDistance float64 `json:"originalDistance,omitempty"`
}

// DroppingHistory reports whether the price history is strictly decreasing
// toward the present, the shape that should raise a volatility alert.
func (q *Quote) DroppingHistory() bool {
	if len(q.PriceHistory) < 2 {
		return false
	}
	for i := 1; i < len(q.PriceHistory); i++ {
		if q.PriceHistory[i].Price >= q.PriceHistory[i-1].Price {
			return false
		}
	}
	return true
}

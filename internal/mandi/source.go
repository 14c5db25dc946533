// Package mandi produces the candidate market list for a crop, from the
// live price feed when configured and from a generated dataset otherwise.
package mandi

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"krishi-route/internal/geo"
	"krishi-route/internal/logger"
)

// Source produces candidate mandi quotes for a crop. The random source and
// clock are injectable so tests can pin mock generation.
type Source struct {
	feed      *FeedClient
	forceMock bool
	rng       *rand.Rand
	now       func() time.Time
}

// SourceOption customizes a Source.
type SourceOption func(*Source)

// WithRand sets the random source used for mock generation.
func WithRand(rng *rand.Rand) SourceOption {
	return func(s *Source) { s.rng = rng }
}

// WithClock sets the time source used for timestamps and history dates.
func WithClock(now func() time.Time) SourceOption {
	return func(s *Source) { s.now = now }
}

// NewSource creates a Source. feed may be nil (mock only); forceMock skips
// the live feed even when it is configured.
func NewSource(feed *FeedClient, forceMock bool, opts ...SourceOption) *Source {
	s := &Source{
		feed:      feed,
		forceMock: forceMock,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetQuotes returns candidate quotes for the crop. Live mode is attempted
// only when the feed is configured and mock is not forced; on any feed
// error it falls back to the mock dataset for this call.
func (s *Source) GetQuotes(ctx context.Context, crop string, source geo.Location) []*Quote {
	if s.forceMock || !s.feed.Configured() {
		logger.Info("Mandi", "Using mock dataset (feed not configured)")
		return s.mockQuotes(crop, source)
	}

	quotes, err := s.feed.FetchQuotes(ctx, crop)
	if err != nil {
		logger.Warn("Mandi", fmt.Sprintf("Feed error, falling back to mock: %v", err))
		return s.mockQuotes(crop, source)
	}
	logger.Success("Mandi", fmt.Sprintf("Fetched %d quotes from live feed", len(quotes)))
	return quotes
}

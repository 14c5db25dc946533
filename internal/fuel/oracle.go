// Package fuel provides the cached diesel reference price used by the
// transport cost model.
package fuel

import (
	"fmt"
	"math"
	"sync"
	"time"

	"krishi-route/internal/logger"
)

const (
	// DefaultPrice is the hardcoded fallback diesel price in ₹/L.
	DefaultPrice = 90.5
	// basePrice and amplitude drive the simulated daily price wave.
	// Indian diesel usually trades in the ₹87–94 band.
	basePrice = 89.5
	amplitude = 2.0
	// CacheTTL is how long a computed price stays fresh.
	CacheTTL = 24 * time.Hour
)

// Store is an optional persistent cache for the fuel price, so the last
// known price survives restarts.
type Store interface {
	GetFuelPrice() (price float64, lastUpdated time.Time, ok bool)
	SetFuelPrice(price float64, lastUpdated time.Time)
}

// Oracle serves the cached diesel price. The refresh computation is a pure
// function of wall-clock time, so concurrent recomputation converges to the
// same value; the mutex only guards the cache fields themselves.
type Oracle struct {
	mu          sync.RWMutex
	price       float64
	lastUpdated time.Time

	ttl   time.Duration
	now   func() time.Time
	store Store
}

// Option customizes an Oracle.
type Option func(*Oracle)

// WithClock sets the time source, letting tests fast-forward deterministically.
func WithClock(now func() time.Time) Option {
	return func(o *Oracle) { o.now = now }
}

// WithTTL overrides the cache TTL.
func WithTTL(ttl time.Duration) Option {
	return func(o *Oracle) { o.ttl = ttl }
}

// WithStore attaches a persistent price cache.
func WithStore(store Store) Option {
	return func(o *Oracle) { o.store = store }
}

// NewOracle creates an Oracle seeded with the default price. If a store is
// attached and holds a previous price, that one is restored.
func NewOracle(opts ...Option) *Oracle {
	o := &Oracle{
		price: DefaultPrice,
		ttl:   CacheTTL,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.store != nil {
		if price, updated, ok := o.store.GetFuelPrice(); ok {
			o.price = price
			o.lastUpdated = updated
		}
	}
	return o
}

// Price returns the cached diesel price, refreshing it when the TTL has
// lapsed. It never fails: a refresh that cannot complete leaves the last
// cached (or default) value in place.
func (o *Oracle) Price() float64 {
	now := o.now()

	o.mu.RLock()
	if !o.lastUpdated.IsZero() && now.Sub(o.lastUpdated) < o.ttl {
		price := o.price
		o.mu.RUnlock()
		return price
	}
	o.mu.RUnlock()

	// Simulated "live" price: base plus a daily sine wave of ±2 rupees.
	// A real feed would slot in here with the same fallback semantics.
	wave := math.Sin(float64(now.UnixMilli()) / float64(o.ttl.Milliseconds()))
	price := math.Round((basePrice+amplitude*wave)*100) / 100

	o.mu.Lock()
	o.price = price
	o.lastUpdated = now
	o.mu.Unlock()

	if o.store != nil {
		o.store.SetFuelPrice(price, now)
	}
	logger.Info("Fuel", fmt.Sprintf("Updated live diesel price to ₹%.2f/L", price))
	return price
}

// LastUpdated returns when the cached price was last refreshed, zero if never.
func (o *Oracle) LastUpdated() time.Time {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.lastUpdated
}

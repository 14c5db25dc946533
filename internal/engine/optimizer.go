// Package engine sequences the optimization pipeline: fuel price, candidate
// sourcing, distance filtering, pool matching, profit computation, and the
// final decision.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"krishi-route/internal/config"
	"krishi-route/internal/decision"
	"krishi-route/internal/distance"
	"krishi-route/internal/fuel"
	"krishi-route/internal/logger"
	"krishi-route/internal/mandi"
	"krishi-route/internal/pooling"
	"krishi-route/internal/profit"
)

// Client-visible failure taxonomy. Upstream feed failures never surface;
// they degrade to mock data inside the mandi source.
var (
	ErrNoCandidates = errors.New("no mandis found for crop")
	ErrInvalidInput = errors.New("invalid input")
)

// HistoryStore records finished runs for the audit history endpoint.
type HistoryStore interface {
	InsertRun(requestID, crop string, quantity int, vehicle string, count int, bestMandi string, bestProfit float64, durationMs int64) int64
	InsertResults(runID int64, results []profit.Result)
}

// Optimizer wires the pipeline stages together per request.
type Optimizer struct {
	Fuel    *fuel.Oracle
	Mandis  *mandi.Source
	Pools   *pooling.Matcher
	History HistoryStore // optional
}

// NewOptimizer creates an Optimizer over the given stage implementations.
func NewOptimizer(oracle *fuel.Oracle, source *mandi.Source, pools *pooling.Matcher) *Optimizer {
	return &Optimizer{Fuel: oracle, Mandis: source, Pools: pools}
}

// validate enforces the input contract before the pipeline runs.
func validate(p OptimizeParams) error {
	if p.Crop == "" {
		return fmt.Errorf("%w: crop is required", ErrInvalidInput)
	}
	if p.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}
	if p.VehicleType == "" {
		return fmt.Errorf("%w: vehicleType is required", ErrInvalidInput)
	}
	if p.Source.IsZero() {
		return fmt.Errorf("%w: source coordinates are required", ErrInvalidInput)
	}
	if p.CustomVehicle != nil && p.CustomVehicle.RatePerKm <= 0 {
		return fmt.Errorf("%w: custom vehicle rate must be positive", ErrInvalidInput)
	}
	return nil
}

// Optimize runs the full pipeline for one request.
func (o *Optimizer) Optimize(ctx context.Context, params OptimizeParams, cfg *config.Config) (*OptimizeResult, error) {
	if err := validate(params); err != nil {
		return nil, err
	}
	started := time.Now()
	requestID := uuid.NewString()

	logger.Info("Optimize", fmt.Sprintf("crop=%s qty=%d vehicle=%s rideShare=%v",
		params.Crop, params.Quantity, params.VehicleType, params.IsRideShare))

	// Step 0: fuel price (cached, never fails).
	fuelPrice := o.Fuel.Price()

	// Step 1: candidate mandis (live feed with mock fallback).
	quotes := o.Mandis.GetQuotes(ctx, params.Crop, params.Source)
	if len(quotes) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoCandidates, params.Crop)
	}

	// Steps 2–3: distances, radius filter, closest-N fallback.
	entries := distance.Compute(params.Source, quotes)
	nearby := distance.FilterByRadius(entries, cfg.MaxDistanceKm)
	if len(nearby) == 0 {
		logger.Warn("Optimize", fmt.Sprintf("No mandis within %.0f km, using closest %d",
			cfg.MaxDistanceKm, cfg.FallbackCount))
		nearby = distance.ClosestFallback(entries, cfg.FallbackCount)
	}
	if len(nearby) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoCandidates, params.Crop)
	}

	// Step 4: pooling partners.
	opportunities := o.Pools.Opportunities(params.Source, params.Crop)
	var partner *pooling.Opportunity
	if params.IsRideShare && len(opportunities) > 0 {
		partner = &opportunities[0]
		logger.Info("Optimize", fmt.Sprintf("Matched pool partner %s (%d quintals)",
			partner.FarmerName, partner.Quantity))
	}

	// Step 5: profit per candidate.
	opts := profit.Options{
		IsRideShare: params.IsRideShare,
		PoolPartner: partner,
		FuelPrice:   fuelPrice,
	}
	if params.CustomVehicle != nil {
		opts.CustomVehicleRate = params.CustomVehicle.RatePerKm
	}
	results := profit.ComputeAll(nearby, params.Quantity, params.VehicleType, opts)

	// Step 6: decision.
	d := decision.Decide(results, params.Crop, decision.Params{
		MinProfitPerExtraKm: cfg.MinProfitPerExtraKm,
		AvgSpeedKmph:        cfg.AvgSpeedKmph,
	})
	logger.Success("Optimize", fmt.Sprintf("Best mandi: %s (net ₹%.0f)",
		d.BestMandi.MandiName, d.BestMandi.NetProfit))

	rate := opts.CustomVehicleRate
	if rate <= 0 {
		rate = profit.VehicleRate(params.VehicleType, fuelPrice)
	}

	out := &OptimizeResult{
		Metadata: Metadata{
			RequestID:           requestID,
			Crop:                params.Crop,
			Quantity:            params.Quantity,
			VehicleType:         params.VehicleType,
			IsRideShare:         params.IsRideShare,
			MaxDistanceKm:       cfg.MaxDistanceKm,
			SourceLocation:      params.Source,
			TotalMandisAnalyzed: len(results),
			VehicleRate:         rate,
			FuelPrice:           fuelPrice,
			CustomVehicle:       params.CustomVehicle,
			Timestamp:           time.Now().UTC(),
		},
		Decision:          d,
		PoolOpportunities: opportunities,
		ActivePoolPartner: partner,
		Results:           d.AllOptions,
	}

	if o.History != nil {
		runID := o.History.InsertRun(requestID, params.Crop, params.Quantity, params.VehicleType,
			len(results), d.BestMandi.MandiName, d.BestMandi.NetProfit, time.Since(started).Milliseconds())
		if runID > 0 {
			o.History.InsertResults(runID, d.AllOptions)
		}
	}

	return out, nil
}

package engine

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"krishi-route/internal/config"
	"krishi-route/internal/fuel"
	"krishi-route/internal/geo"
	"krishi-route/internal/mandi"
	"krishi-route/internal/pooling"
	"krishi-route/internal/profit"
)

func testOptimizer(seed int64) *Optimizer {
	instant := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	oracle := fuel.NewOracle(fuel.WithClock(func() time.Time { return instant }))
	source := mandi.NewSource(nil, true,
		mandi.WithRand(rand.New(rand.NewSource(seed))),
		mandi.WithClock(func() time.Time { return instant }),
	)
	return NewOptimizer(oracle, source, pooling.NewMatcher(rand.New(rand.NewSource(seed))))
}

func validParams() OptimizeParams {
	return OptimizeParams{
		Crop:        "onion",
		Quantity:    10,
		VehicleType: "truck",
		Source:      geo.Location{Lat: 22.57, Lng: 88.36},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*OptimizeParams)
	}{
		{"missing crop", func(p *OptimizeParams) { p.Crop = "" }},
		{"zero quantity", func(p *OptimizeParams) { p.Quantity = 0 }},
		{"negative quantity", func(p *OptimizeParams) { p.Quantity = -5 }},
		{"missing vehicle", func(p *OptimizeParams) { p.VehicleType = "" }},
		{"missing source", func(p *OptimizeParams) { p.Source = geo.Location{} }},
		{"non-positive custom rate", func(p *OptimizeParams) { p.CustomVehicle = &CustomVehicle{RatePerKm: 0} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.mutate(&p)
			_, err := testOptimizer(1).Optimize(context.Background(), p, config.Default())
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestOptimize_PipelineInvariants(t *testing.T) {
	o := testOptimizer(1)
	cfg := config.Default()

	out, err := o.Optimize(context.Background(), validParams(), cfg)
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}

	if out.Metadata.TotalMandisAnalyzed != len(out.Results) {
		t.Errorf("totalMandisAnalyzed = %d, results = %d", out.Metadata.TotalMandisAnalyzed, len(out.Results))
	}
	if len(out.Results) == 0 {
		t.Fatal("no results")
	}
	for _, r := range out.Results {
		if out.Decision.BestMandi.NetProfit < r.NetProfit {
			t.Errorf("best %v < option %s %v", out.Decision.BestMandi.NetProfit, r.MandiName, r.NetProfit)
		}
		if r.TotalCost != r.TransportCost+r.HandlingCost {
			t.Errorf("%s: totalCost %v != transport %v + handling %v",
				r.MandiName, r.TotalCost, r.TransportCost, r.HandlingCost)
		}
	}
	if out.Metadata.RequestID == "" {
		t.Error("missing request id")
	}
	if out.Metadata.FuelPrice <= 0 {
		t.Errorf("fuelPrice = %v", out.Metadata.FuelPrice)
	}
	if out.Metadata.VehicleRate != profit.VehicleRate("truck", out.Metadata.FuelPrice) {
		t.Errorf("metadata vehicleRate = %v", out.Metadata.VehicleRate)
	}
	if out.ActivePoolPartner != nil {
		t.Error("pool partner present without ride share")
	}
}

func TestOptimize_RadiusFallbackKicksIn(t *testing.T) {
	o := testOptimizer(1)
	cfg := config.Default()
	// A source in the Arabian Sea, far from every mock mandi; the synthetic
	// locals stay within ~0.7 degrees so nothing lands inside 1 km.
	params := validParams()
	params.Source = geo.Location{Lat: 15.0, Lng: 65.0}
	cfg.MaxDistanceKm = 1

	out, err := o.Optimize(context.Background(), params, cfg)
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if len(out.Results) != cfg.FallbackCount {
		t.Fatalf("results = %d, want fallback count %d", len(out.Results), cfg.FallbackCount)
	}
	for _, r := range out.Results {
		if !r.IsFallback {
			t.Errorf("%s not flagged as fallback", r.MandiName)
		}
		if r.OriginalDistance <= cfg.MaxDistanceKm {
			t.Errorf("%s originalDistance = %v, expected beyond radius", r.MandiName, r.OriginalDistance)
		}
	}
}

func TestOptimize_RideShareUsesNearestPartner(t *testing.T) {
	o := testOptimizer(1)
	params := validParams()
	params.IsRideShare = true

	out, err := o.Optimize(context.Background(), params, config.Default())
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if out.ActivePoolPartner == nil {
		t.Fatal("no active pool partner despite ride share and compatible roster")
	}
	if out.ActivePoolPartner.FarmerName != out.PoolOpportunities[0].FarmerName {
		t.Errorf("active partner %s is not the nearest opportunity %s",
			out.ActivePoolPartner.FarmerName, out.PoolOpportunities[0].FarmerName)
	}
	for _, r := range out.Results {
		if !r.Breakdown.IsRideShare {
			t.Errorf("%s not computed as ride share", r.MandiName)
		}
		if r.Breakdown.CostShareInfo == nil {
			t.Errorf("%s missing cost share info", r.MandiName)
		}
	}
}

func TestOptimize_CustomVehicleRate(t *testing.T) {
	o := testOptimizer(1)
	params := validParams()
	params.CustomVehicle = &CustomVehicle{RatePerKm: 33}

	out, err := o.Optimize(context.Background(), params, config.Default())
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if out.Metadata.VehicleRate != 33 {
		t.Errorf("metadata vehicleRate = %v, want custom 33", out.Metadata.VehicleRate)
	}
	for _, r := range out.Results {
		if r.Breakdown.VehicleRate != 33 {
			t.Errorf("%s vehicleRate = %v, want 33", r.MandiName, r.Breakdown.VehicleRate)
		}
	}
}

// recordingHistory captures what the optimizer persists.
type recordingHistory struct {
	runs    int
	results int
}

func (h *recordingHistory) InsertRun(requestID, crop string, quantity int, vehicle string, count int, bestMandi string, bestProfit float64, durationMs int64) int64 {
	h.runs++
	return int64(h.runs)
}

func (h *recordingHistory) InsertResults(runID int64, results []profit.Result) {
	h.results += len(results)
}

func TestOptimize_RecordsHistory(t *testing.T) {
	o := testOptimizer(1)
	hist := &recordingHistory{}
	o.History = hist

	out, err := o.Optimize(context.Background(), validParams(), config.Default())
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if hist.runs != 1 {
		t.Errorf("runs recorded = %d, want 1", hist.runs)
	}
	if hist.results != len(out.Results) {
		t.Errorf("result rows recorded = %d, want %d", hist.results, len(out.Results))
	}
}

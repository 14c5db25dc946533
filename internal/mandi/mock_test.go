package mandi

import (
	"context"
	"math"
	"math/rand"
	"testing"
	"time"

	"krishi-route/internal/geo"
)

func testSource(seed int64) *Source {
	return NewSource(nil, true,
		WithRand(rand.New(rand.NewSource(seed))),
		WithClock(func() time.Time { return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC) }),
	)
}

func TestGetQuotes_MockShape(t *testing.T) {
	s := testSource(1)
	source := geo.Location{Lat: 22.57, Lng: 88.36}

	quotes := s.GetQuotes(context.Background(), "onion", source)
	if len(quotes) != 9 {
		t.Fatalf("quotes = %d, want 9 (6 fixed + 3 synthetic)", len(quotes))
	}

	// Synthetic locals are prepended; farthest tier leads.
	wantLead := []string{"Regional Trading Center", "District Main Mandi", "Local Market (Nearby)"}
	wantPrice := []float64{1450, 1320, 1250}
	for i := range wantLead {
		if quotes[i].Name != wantLead[i] {
			t.Errorf("quotes[%d] = %s, want %s", i, quotes[i].Name, wantLead[i])
		}
		if quotes[i].PricePerQuintal != wantPrice[i] {
			t.Errorf("quotes[%d] price = %v, want %v", i, quotes[i].PricePerQuintal, wantPrice[i])
		}
		if quotes[i].Source != SourceMockLocal {
			t.Errorf("quotes[%d] source = %s, want %s", i, quotes[i].Source, SourceMockLocal)
		}
	}
	for _, q := range quotes[3:] {
		if q.Source != SourceMock {
			t.Errorf("%s source = %s, want %s", q.Name, q.Source, SourceMock)
		}
	}
	if quotes[3].Name != "Kolkata Mandi" || quotes[3].PricePerQuintal != 1200 {
		t.Errorf("first fixed market = %s @%v, want Kolkata Mandi @1200", quotes[3].Name, quotes[3].PricePerQuintal)
	}
}

func TestGetQuotes_UnknownCropDefaultPrice(t *testing.T) {
	s := testSource(2)
	quotes := s.GetQuotes(context.Background(), "dragonfruit", geo.Location{Lat: 22.57, Lng: 88.36})
	for _, q := range quotes {
		if q.Source == SourceMock && q.PricePerQuintal != defaultMockPrice {
			t.Errorf("%s price = %v, want default %v", q.Name, q.PricePerQuintal, float64(defaultMockPrice))
		}
	}
}

func TestGetQuotes_SyntheticOffsetBands(t *testing.T) {
	source := geo.Location{Lat: 22.57, Lng: 88.36}
	bands := map[string][2]float64{
		"Local Market (Nearby)":   {0.05, 0.15},
		"District Main Mandi":     {0.15, 0.35},
		"Regional Trading Center": {0.3, 0.7},
	}

	// Offsets are random; verify the bands over several seeds.
	for seed := int64(0); seed < 20; seed++ {
		quotes := testSource(seed).GetQuotes(context.Background(), "onion", source)
		for _, q := range quotes {
			band, ok := bands[q.Name]
			if !ok {
				continue
			}
			dLat := math.Abs(q.Location.Lat - source.Lat)
			dLng := math.Abs(q.Location.Lng - source.Lng)
			for _, d := range []float64{dLat, dLng} {
				if d < band[0] || d > band[1] {
					t.Errorf("seed %d: %s offset %v outside [%v, %v]", seed, q.Name, d, band[0], band[1])
				}
			}
		}
	}
}

func TestGetQuotes_NoSyntheticsForZeroSource(t *testing.T) {
	s := testSource(3)
	quotes := s.GetQuotes(context.Background(), "onion", geo.Location{})
	if len(quotes) != 6 {
		t.Fatalf("quotes = %d, want only the 6 fixed markets", len(quotes))
	}
}

func TestPriceHistory_ShapeAndOrder(t *testing.T) {
	for seed := int64(0); seed < 30; seed++ {
		s := testSource(seed)
		now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
		hist := s.priceHistory(1200, now)

		if len(hist) != 3 {
			t.Fatalf("seed %d: history len = %d, want 3", seed, len(hist))
		}
		// Oldest to newest.
		wantDates := []string{"2026-03-12", "2026-03-13", "2026-03-14"}
		for i, p := range hist {
			if p.Date != wantDates[i] {
				t.Errorf("seed %d: hist[%d].Date = %s, want %s", seed, i, p.Date, wantDates[i])
			}
			if p.Price != math.Round(p.Price) {
				t.Errorf("seed %d: hist[%d].Price = %v not rounded", seed, i, p.Price)
			}
		}
	}
}

func TestPriceHistory_DroppingTrendDetected(t *testing.T) {
	// With enough seeds both shapes must appear, and every dropping series
	// must be flagged by DroppingHistory.
	var sawDropping, sawFluctuating bool
	for seed := int64(0); seed < 50; seed++ {
		s := testSource(seed)
		hist := s.priceHistory(1200, time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC))
		q := &Quote{PriceHistory: hist}

		strictlyDropping := hist[0].Price > hist[1].Price && hist[1].Price > hist[2].Price
		if q.DroppingHistory() != strictlyDropping {
			t.Errorf("seed %d: DroppingHistory = %v for series %v", seed, q.DroppingHistory(), hist)
		}
		if strictlyDropping {
			sawDropping = true
		} else {
			sawFluctuating = true
		}
	}
	if !sawDropping || !sawFluctuating {
		t.Errorf("expected both trend shapes across seeds (dropping=%v fluctuating=%v)", sawDropping, sawFluctuating)
	}
}

func TestTrendHint_FromFixedWeekdaySet(t *testing.T) {
	valid := map[string]bool{}
	for _, d := range peakDays {
		valid["Mandi usually peaks on "+d] = true
	}
	s := testSource(4)
	for i := 0; i < 20; i++ {
		if hint := s.trendHint(); !valid[hint] {
			t.Errorf("unexpected trend hint %q", hint)
		}
	}
}

func TestCrops(t *testing.T) {
	crops := Crops()
	if len(crops) != 5 {
		t.Fatalf("crops = %v, want 5 entries", crops)
	}
	want := map[string]bool{"onion": true, "potato": true, "tomato": true, "rice": true, "wheat": true}
	for _, c := range crops {
		if !want[c] {
			t.Errorf("unexpected crop %q", c)
		}
	}
}

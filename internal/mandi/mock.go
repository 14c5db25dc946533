package mandi

import (
	"math"
	"strings"
	"time"

	"krishi-route/internal/geo"
)

// defaultMockPrice is quoted when a crop is missing from the fixture table.
const defaultMockPrice = 1000

// mockMarket is a fixed market in the development dataset.
type mockMarket struct {
	name     string
	state    string
	district string
	loc      geo.Location
	prices   map[string]float64
}

// mockMarkets is the fixed development dataset. Prices are ₹/quintal.
var mockMarkets = []mockMarket{
	{
		name: "Kolkata Mandi", state: "West Bengal", district: "Kolkata",
		loc:    geo.Location{Lat: 22.5726, Lng: 88.3639},
		prices: map[string]float64{"onion": 1200, "potato": 800, "tomato": 1500, "rice": 2200, "wheat": 2000},
	},
	{
		name: "Howrah Mandi", state: "West Bengal", district: "Howrah",
		loc:    geo.Location{Lat: 22.5958, Lng: 88.2636},
		prices: map[string]float64{"onion": 1350, "potato": 850, "tomato": 1600, "rice": 2300, "wheat": 2100},
	},
	{
		name: "Barasat Mandi", state: "West Bengal", district: "North 24 Parganas",
		loc:    geo.Location{Lat: 22.7212, Lng: 88.4826},
		prices: map[string]float64{"onion": 1100, "potato": 750, "tomato": 1400, "rice": 2100, "wheat": 1900},
	},
	{
		name: "Durgapur Mandi", state: "West Bengal", district: "Paschim Bardhaman",
		loc:    geo.Location{Lat: 23.5204, Lng: 87.3119},
		prices: map[string]float64{"onion": 1250, "potato": 820, "tomato": 1550, "rice": 2250, "wheat": 2050},
	},
	{
		name: "Siliguri Mandi", state: "West Bengal", district: "Darjeeling",
		loc:    geo.Location{Lat: 26.7271, Lng: 88.3953},
		prices: map[string]float64{"onion": 1180, "potato": 800, "tomato": 1480, "rice": 2180, "wheat": 1980},
	},
	{
		name: "Asansol Mandi", state: "West Bengal", district: "Paschim Bardhaman",
		loc:    geo.Location{Lat: 23.6739, Lng: 86.9524},
		prices: map[string]float64{"onion": 1220, "potato": 810, "tomato": 1520, "rice": 2220, "wheat": 2020},
	},
}

// syntheticLocal describes one of the generated near-user quotes. The offset
// bands grow with price so the decision engine has a near/cheap vs far/rich
// trade-off to resolve.
type syntheticLocal struct {
	name      string
	district  string
	price     float64
	offsetMin float64 // degrees
	offsetMax float64
}

var syntheticLocals = []syntheticLocal{
	{name: "Local Market (Nearby)", district: "Local District", price: 1250, offsetMin: 0.05, offsetMax: 0.15},
	{name: "District Main Mandi", district: "Local District", price: 1320, offsetMin: 0.15, offsetMax: 0.35},
	{name: "Regional Trading Center", district: "Neighboring District", price: 1450, offsetMin: 0.3, offsetMax: 0.7},
}

// peakDays feeds the cosmetic trend hint attached to each mock quote.
var peakDays = []string{"Mondays", "Wednesdays", "Fridays", "Saturdays"}

// Crops returns the crop vocabulary of the development dataset.
func Crops() []string {
	return []string{"onion", "potato", "tomato", "rice", "wheat"}
}

// mockQuotes builds the full mock candidate list: the fixed markets plus
// three synthetic quotes around the source. The synthetic quotes are
// prepended so the farthest synthetic one leads the slice.
func (s *Source) mockQuotes(crop string, source geo.Location) []*Quote {
	cropLower := strings.ToLower(crop)
	now := s.now()

	quotes := make([]*Quote, 0, len(mockMarkets)+len(syntheticLocals))
	for _, m := range mockMarkets {
		price, ok := m.prices[cropLower]
		if !ok {
			price = defaultMockPrice
		}
		quotes = append(quotes, &Quote{
			Name:            m.name,
			State:           m.state,
			District:        m.district,
			Location:        m.loc,
			PricePerQuintal: price,
			Unit:            "Quintal",
			UpdatedAt:       now,
			Source:          SourceMock,
			PriceHistory:    s.priceHistory(price, now),
			HistoricalTrend: s.trendHint(),
		})
	}

	if source.IsZero() {
		return quotes
	}

	for _, sl := range syntheticLocals {
		loc := geo.Location{
			Lat: source.Lat + s.randomOffset(sl.offsetMin, sl.offsetMax),
			Lng: source.Lng + s.randomOffset(sl.offsetMin, sl.offsetMax),
		}
		q := &Quote{
			Name:            sl.name,
			State:           "Your State",
			District:        sl.district,
			Location:        loc,
			PricePerQuintal: sl.price,
			Unit:            "Quintal",
			UpdatedAt:       now,
			Source:          SourceMockLocal,
			PriceHistory:    s.priceHistory(sl.price, now),
			HistoricalTrend: s.trendHint(),
		}
		quotes = append([]*Quote{q}, quotes...)
	}

	return quotes
}

// randomOffset draws a degree offset with magnitude in [min, max) and
// random sign.
func (s *Source) randomOffset(min, max float64) float64 {
	off := min + s.rng.Float64()*(max-min)
	if s.rng.Float64() > 0.5 {
		return off
	}
	return -off
}

// priceHistory generates a 3-point synthetic history for the given current
// price, oldest to newest. 30% of the time the series drops consistently
// toward the present, which downstream flags as a volatility alert.
func (s *Source) priceHistory(currentPrice float64, now time.Time) []PricePoint {
	isDropping := s.rng.Float64() > 0.7

	history := make([]PricePoint, 0, 3)
	lastPrice := currentPrice
	for i := 1; i <= 3; i++ {
		var past float64
		if isDropping {
			// Price was higher in the past: walk backward by +10..+60.
			past = lastPrice + s.rng.Float64()*50 + 10
		} else {
			past = lastPrice + s.rng.Float64()*100 - 50
		}
		history = append(history, PricePoint{
			Date:  now.AddDate(0, 0, -i).Format("2006-01-02"),
			Price: math.Round(past),
		})
		lastPrice = past
	}

	// Walked backward in time; emit oldest first.
	for i, j := 0, len(history)-1; i < j; i, j = i+1, j-1 {
		history[i], history[j] = history[j], history[i]
	}
	return history
}

func (s *Source) trendHint() string {
	return "Mandi usually peaks on " + peakDays[s.rng.Intn(len(peakDays))]
}

// Package decision ranks computed profit results, picks the best and the
// nearest mandi, and synthesizes a perishability-aware recommendation.
package decision

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"

	"krishi-route/internal/profit"
)

// extraProfitTravelThreshold is the ₹ gain above which travelling past the
// local mandi is recommended outright.
const extraProfitTravelThreshold = 500

// WorthExtraDistance quantifies whether the best mandi justifies its extra
// distance over the local one.
type WorthExtraDistance struct {
	Worth            bool    `json:"worth"`
	ProfitPerExtraKm float64 `json:"profitPerExtraKm"`
}

// Perishability is the spoilage analysis for the chosen candidates.
type Perishability struct {
	BestMandi           MandiPerishability  `json:"bestMandi"`
	LocalMandi          *MandiPerishability `json:"localMandi,omitempty"`
	ShouldConsiderLocal bool                `json:"shouldConsiderLocal"`
}

// Result is the decision engine's output for one optimization run.
type Result struct {
	BestMandi          profit.Result       `json:"bestMandi"`
	LocalMandi         *profit.Result      `json:"localMandi,omitempty"`
	ExtraProfit        float64             `json:"extraProfit"`
	Recommendation     string              `json:"recommendation"`
	WorthExtraDistance *WorthExtraDistance `json:"worthExtraDistance,omitempty"`
	Perishability      Perishability       `json:"perishability"`
	AllOptions         []profit.Result     `json:"allOptions"`
}

// Params are the configured thresholds consumed by Decide.
type Params struct {
	// MinProfitPerExtraKm is the ₹/km bar for the extra travel to be worth it.
	MinProfitPerExtraKm float64
	// AvgSpeedKmph converts distance into transit time for spoilage.
	AvgSpeedKmph float64
}

// Decide ranks the profit results and produces the recommendation. results
// must be non-empty; order is preserved in AllOptions.
func Decide(results []profit.Result, crop string, params Params) Result {
	best := 0
	local := 0
	for i, r := range results {
		// Ties keep the earlier candidate.
		if r.NetProfit > results[best].NetProfit {
			best = i
		}
		if r.Distance < results[local].Distance {
			local = i
		}
	}

	bestMandi := results[best]
	localMandi := results[local]

	extraProfit := bestMandi.NetProfit - localMandi.NetProfit

	var worth *WorthExtraDistance
	if bestMandi.Distance > localMandi.Distance {
		perKm := extraProfit / (bestMandi.Distance - localMandi.Distance)
		worth = &WorthExtraDistance{
			Worth:            perKm > params.MinProfitPerExtraKm,
			ProfitPerExtraKm: math.Round(perKm*100) / 100,
		}
	}

	recommendation := recommend(best == local, extraProfit, bestMandi.MandiName)

	perish := analyzePerishability(bestMandi, localMandi, best == local, crop, params.AvgSpeedKmph)

	out := Result{
		BestMandi:          bestMandi,
		LocalMandi:         &localMandi,
		ExtraProfit:        extraProfit,
		Recommendation:     recommendation,
		WorthExtraDistance: worth,
		Perishability:      perish,
		AllOptions:         results,
	}
	return out
}

// recommend selects the recommendation text from the extra-profit thresholds.
func recommend(bestIsLocal bool, extraProfit float64, bestName string) string {
	switch {
	case bestIsLocal:
		return fmt.Sprintf("Your local mandi %s is already the best choice.", bestName)
	case extraProfit > extraProfitTravelThreshold:
		return fmt.Sprintf("Travelling to %s earns you ₹%s extra, worth the trip.",
			bestName, humanize.Commaf(extraProfit))
	case extraProfit > 0:
		return fmt.Sprintf("%s pays slightly more (₹%s extra); travelling is optional.",
			bestName, humanize.Commaf(extraProfit))
	default:
		return "Stick to your local mandi; travelling further does not pay."
	}
}

// analyzePerishability builds the spoilage view for best and local and
// decides whether spoilage flips the ranking back to local.
func analyzePerishability(best, local profit.Result, bestIsLocal bool, crop string, avgSpeedKmph float64) Perishability {
	bestView := perishabilityFor(best, crop, avgSpeedKmph)

	p := Perishability{BestMandi: bestView}
	if bestIsLocal {
		return p
	}

	localView := perishabilityFor(local, crop, avgSpeedKmph)
	p.LocalMandi = &localView
	p.ShouldConsiderLocal = bestView.AdjustedProfit < localView.AdjustedProfit
	return p
}

func perishabilityFor(r profit.Result, crop string, avgSpeedKmph float64) MandiPerishability {
	pct := estimateSpoilage(crop, r.Distance, avgSpeedKmph)
	amount := math.Round(r.Revenue * pct / 100)
	return MandiPerishability{
		Warning:            classifySpoilage(crop, pct),
		SpoilagePercentage: pct,
		SpoilageAmount:     amount,
		AdjustedProfit:     r.NetProfit - amount,
	}
}

package decision

import (
	"fmt"
	"math"
	"strings"
)

// decayRatesPerHour is the spoilage rate table in % of value lost per hour
// of transit. Leafy and soft produce decays fast; grains barely at all.
var decayRatesPerHour = map[string]float64{
	"tomato": 2.0,
	"onion":  0.5,
	"potato": 0.3,
	"rice":   0.05,
	"wheat":  0.05,
}

// unknownCropDecayRate covers crops outside the table.
const unknownCropDecayRate = 0.8

// Spoilage severity thresholds in percent of load value.
const (
	lowSpoilagePct    = 2.0
	mediumSpoilagePct = 5.0
	highSpoilagePct   = 15.0
)

// SpoilageWarning classifies the spoilage risk of one trip.
type SpoilageWarning struct {
	HasWarning     bool   `json:"hasWarning"`
	Severity       string `json:"severity"` // none | low | medium | high
	Message        string `json:"message"`
	Recommendation string `json:"recommendation"`
}

// MandiPerishability is the spoilage-adjusted view of one candidate.
type MandiPerishability struct {
	Warning            SpoilageWarning `json:"warning"`
	SpoilagePercentage float64         `json:"spoilagePercentage"`
	SpoilageAmount     float64         `json:"spoilageAmount"`
	AdjustedProfit     float64         `json:"adjustedProfit"`
}

// decayRate returns the %/hour value-loss rate for a crop.
func decayRate(crop string) float64 {
	if r, ok := decayRatesPerHour[strings.ToLower(crop)]; ok {
		return r
	}
	return unknownCropDecayRate
}

// estimateSpoilage computes the spoilage percentage for a trip of the given
// distance at the given average speed, capped at 100%.
func estimateSpoilage(crop string, distanceKm, avgSpeedKmph float64) float64 {
	if avgSpeedKmph <= 0 {
		avgSpeedKmph = 40
	}
	transitHours := distanceKm / avgSpeedKmph
	pct := decayRate(crop) * transitHours
	if pct > 100 {
		pct = 100
	}
	return math.Round(pct*100) / 100
}

// classifySpoilage maps a spoilage percentage to a warning.
func classifySpoilage(crop string, pct float64) SpoilageWarning {
	switch {
	case pct > highSpoilagePct:
		return SpoilageWarning{
			HasWarning:     true,
			Severity:       "high",
			Message:        fmt.Sprintf("Around %.1f%% of your %s could spoil on this trip.", pct, strings.ToLower(crop)),
			Recommendation: "Strongly consider a closer mandi or a faster vehicle.",
		}
	case pct > mediumSpoilagePct:
		return SpoilageWarning{
			HasWarning:     true,
			Severity:       "medium",
			Message:        fmt.Sprintf("Expect roughly %.1f%% spoilage in transit for %s.", pct, strings.ToLower(crop)),
			Recommendation: "Travel early in the day and keep the load covered.",
		}
	case pct > lowSpoilagePct:
		return SpoilageWarning{
			HasWarning:     true,
			Severity:       "low",
			Message:        fmt.Sprintf("Minor spoilage (about %.1f%%) expected for %s.", pct, strings.ToLower(crop)),
			Recommendation: "Acceptable for most loads; pack carefully.",
		}
	default:
		return SpoilageWarning{
			Severity: "none",
			Message:  "Spoilage risk is negligible for this trip.",
		}
	}
}

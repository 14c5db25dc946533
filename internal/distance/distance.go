// Package distance computes travel distances from the farmer's location to
// each candidate mandi and applies the maximum-radius policy.
package distance

import (
	"sort"

	"krishi-route/internal/geo"
	"krishi-route/internal/mandi"
)

// Entry pairs a candidate quote with its travel distance from the source.
type Entry struct {
	Destination *mandi.Quote `json:"destination"`
	DistanceKm  float64      `json:"distanceKm"`
}

// Compute returns one Entry per quote with the great-circle distance from
// source, preserving input order.
func Compute(source geo.Location, quotes []*mandi.Quote) []Entry {
	entries := make([]Entry, 0, len(quotes))
	for _, q := range quotes {
		entries = append(entries, Entry{
			Destination: q,
			DistanceKm:  geo.HaversineKm(source, q.Location),
		})
	}
	return entries
}

// FilterByRadius keeps entries with distance <= maxKm, preserving order.
func FilterByRadius(entries []Entry, maxKm float64) []Entry {
	kept := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.DistanceKm <= maxKm {
			kept = append(kept, e)
		}
	}
	return kept
}

// ClosestFallback returns the n entries with the smallest distance from the
// unfiltered list, marking each selected quote as a fallback and recording
// its true distance. Used when the radius filter empties the candidate set.
func ClosestFallback(entries []Entry, n int) []Entry {
	if n <= 0 || len(entries) == 0 {
		return nil
	}
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	// Stable so equidistant candidates keep their input order.
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DistanceKm < sorted[j].DistanceKm
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	closest := sorted[:n]
	for _, e := range closest {
		e.Destination.IsFallback = true
		e.Destination.OriginalDistance = e.DistanceKm
	}
	return closest
}

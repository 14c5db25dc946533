// Package pooling matches the farmer with nearby cost-sharing partners
// heading to compatible markets.
package pooling

import (
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"krishi-route/internal/geo"
)

// Opportunity is a nearby farmer's pending trip that could share a vehicle.
type Opportunity struct {
	ID               string       `json:"id"`
	FarmerName       string       `json:"farmerName"`
	Location         geo.Location `json:"location"`
	Crop             string       `json:"crop"`
	Quantity         int          `json:"quantity"` // quintals
	DistanceFromUser float64      `json:"distanceFromUser"`
	IsCompatible     bool         `json:"isCompatible"`
}

// rosterEntry is a template for one synthetic pool request. sameCrop entries
// take on the request's crop; the jitter bound spreads the partner around
// the user.
type rosterEntry struct {
	farmerName string
	sameCrop   bool
	crop       string
	qtyMin     int
	qtySpan    int
	distanceKm float64
	jitter     float64 // degrees
}

var roster = []rosterEntry{
	{farmerName: "Rajesh Kumar", sameCrop: true, qtyMin: 10, qtySpan: 20, distanceKm: 1.2, jitter: 0.02},
	{farmerName: "Suresh Patil", crop: "Wheat", qtyMin: 20, qtySpan: 30, distanceKm: 2.8, jitter: 0.03},
	{farmerName: "Meena Devi", sameCrop: true, qtyMin: 5, qtySpan: 15, distanceKm: 4.5, jitter: 0.04},
}

// Matcher produces pooling opportunities near a source location. The random
// source is injectable so tests can pin jitter and quantities.
type Matcher struct {
	rng *rand.Rand
}

// NewMatcher creates a Matcher. rng may be nil, in which case a time-seeded
// source is used.
func NewMatcher(rng *rand.Rand) *Matcher {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Matcher{rng: rng}
}

// Opportunities returns compatible pool requests near source, sorted by
// distance from the user. Compatibility is a case-insensitive crop match.
func (m *Matcher) Opportunities(source geo.Location, crop string) []Opportunity {
	all := make([]Opportunity, 0, len(roster))
	for _, r := range roster {
		partnerCrop := r.crop
		if r.sameCrop {
			partnerCrop = crop
		}
		all = append(all, Opportunity{
			ID:         uuid.NewString(),
			FarmerName: r.farmerName,
			Location: geo.Location{
				Lat: source.Lat + (m.rng.Float64()*2-1)*r.jitter,
				Lng: source.Lng + (m.rng.Float64()*2-1)*r.jitter,
			},
			Crop:             partnerCrop,
			Quantity:         m.rng.Intn(r.qtySpan) + r.qtyMin,
			DistanceFromUser: r.distanceKm,
			IsCompatible:     true,
		})
	}

	matched := make([]Opportunity, 0, len(all))
	for _, op := range all {
		if strings.EqualFold(op.Crop, crop) {
			matched = append(matched, op)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].DistanceFromUser < matched[j].DistanceFromUser
	})
	return matched
}

// CostShareFactor is the fraction of the transport cost the user pays when
// pooling with a partner, proportional to their share of the load and
// clamped to [0.3, 0.7].
func CostShareFactor(userQty, partnerQty int) float64 {
	total := userQty + partnerQty
	if total <= 0 {
		return 0.7
	}
	ratio := float64(userQty) / float64(total)
	return clamp(ratio, 0.3, 0.7)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

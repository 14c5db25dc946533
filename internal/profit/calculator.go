// Package profit converts candidate mandis into full cost/revenue/profit
// breakdowns for a given load and vehicle.
package profit

import (
	"math"
	"strings"

	"krishi-route/internal/distance"
	"krishi-route/internal/mandi"
	"krishi-route/internal/pooling"
)

// Base vehicle rates per kilometer in ₹, referenced to diesel at ₹90/L.
var baseVehicleRates = map[string]float64{
	"tractor":    12,
	"tata-ace":   18,
	"truck":      25,
	"mini-truck": 20,
	"tempo":      15,
}

// fuelSensitivity approximates litres of diesel burned per km.
var fuelSensitivity = map[string]float64{
	"tractor":    0.1,  // 10 km/L
	"tata-ace":   0.15, // 6.6 km/L
	"truck":      0.25, // 4 km/L
	"mini-truck": 0.2,  // 5 km/L
	"tempo":      0.12, // 8 km/L
}

// Handling charges in ₹ per quintal.
const (
	loadingRate    = 20
	unloadingRate  = 20
	commissionRate = 50 // market commission
)

// referenceFuelPrice is the diesel price the base rates assume.
const referenceFuelPrice = 90

// Options carries the recognized calculation knobs, validated at the
// pipeline boundary.
type Options struct {
	// CustomVehicleRate overrides the dynamic per-km rate when > 0.
	CustomVehicleRate float64
	IsRideShare       bool
	// PoolPartner is the matched partner; only consulted when IsRideShare.
	PoolPartner *pooling.Opportunity
	FuelPrice   float64
}

// CostShareInfo describes how a pooled trip's transport cost was split.
type CostShareInfo struct {
	PartnerName     string  `json:"partnerName"`
	PartnerQuantity int     `json:"partnerQuantity"`
	UserRatio       int     `json:"userRatio"` // percent
	Savings         float64 `json:"savings"`
}

// Breakdown itemizes the cost side of a Result.
type Breakdown struct {
	Loading       float64        `json:"loading"`
	Unloading     float64        `json:"unloading"`
	Commission    float64        `json:"commission"`
	Transport     float64        `json:"transport"`
	IsRideShare   bool           `json:"isRideShare"`
	CostShareInfo *CostShareInfo `json:"costShareInfo,omitempty"`
	VehicleRate   float64        `json:"vehicleRate"`
	FuelPrice     float64        `json:"fuelPrice"`
}

// Result is the full profit computation for one candidate mandi.
type Result struct {
	MandiName        string             `json:"mandiName"`
	Distance         float64            `json:"distance"` // km, 1 decimal
	Price            float64            `json:"price"`    // ₹/quintal
	Revenue          float64            `json:"revenue"`
	TransportCost    float64            `json:"transportCost"`
	HandlingCost     float64            `json:"handlingCost"`
	TotalCost        float64            `json:"totalCost"`
	NetProfit        float64            `json:"netProfit"`
	ProfitPerQuintal float64            `json:"profitPerQuintal"`
	ProfitPercentage float64            `json:"profitPercentage"` // 1 decimal
	Breakdown        Breakdown          `json:"breakdown"`
	PriceHistory     []mandi.PricePoint `json:"priceHistory,omitempty"`
	HistoricalTrend  string             `json:"historicalTrend,omitempty"`
	VolatilityAlert  bool               `json:"volatilityAlert"`

	// Carried through for the decision engine's fallback display.
	IsFallback       bool    `json:"isFallback,omitempty"`
	OriginalDistance float64 `json:"originalDistance,omitempty"`
}

// VehicleRate returns the dynamic per-km rate for a vehicle at the given
// diesel price, rounded to 2 decimals. Unknown vehicle types fall back to
// the truck profile.
func VehicleRate(vehicleType string, fuelPrice float64) float64 {
	vt := strings.ToLower(vehicleType)
	base, ok := baseVehicleRates[vt]
	if !ok {
		base = baseVehicleRates["truck"]
	}
	sensitivity, ok := fuelSensitivity[vt]
	if !ok {
		sensitivity = fuelSensitivity["truck"]
	}
	rate := base + (fuelPrice-referenceFuelPrice)*sensitivity
	return math.Round(rate*100) / 100
}

// Compute builds the profit result for one candidate.
func Compute(quote *mandi.Quote, distanceKm float64, quantity int, vehicleType string, opts Options) Result {
	qty := float64(quantity)
	revenue := quote.PricePerQuintal * qty

	rate := opts.CustomVehicleRate
	if rate <= 0 {
		rate = VehicleRate(vehicleType, opts.FuelPrice)
	}
	transportCost := distanceKm * rate

	var shareInfo *CostShareInfo
	if opts.IsRideShare {
		if p := opts.PoolPartner; p != nil && p.Quantity > 0 {
			// Proportional split with a 15% pooling efficiency bonus,
			// clamped so neither side carries the whole trip.
			ratio := clamp(qty/(qty+float64(p.Quantity))*0.85, 0.3, 0.7)
			original := transportCost
			transportCost *= ratio
			shareInfo = &CostShareInfo{
				PartnerName:     p.FarmerName,
				PartnerQuantity: p.Quantity,
				UserRatio:       int(math.Round(ratio * 100)),
				Savings:         math.Round(original - transportCost),
			}
		} else {
			// No partner matched: flat 40% discount.
			transportCost *= 0.6
		}
	}

	loading := loadingRate * qty
	unloading := unloadingRate * qty
	commission := commissionRate * qty
	handlingCost := loading + unloading + commission

	totalCost := transportCost + handlingCost
	netProfit := revenue - totalCost

	// Zero revenue happens when the feed could not parse a price. Keep the
	// percentage finite so the result stays encodable.
	profitPct := 0.0
	if revenue != 0 {
		profitPct = math.Round(netProfit/revenue*1000) / 10
	}

	return Result{
		MandiName:        quote.Name,
		Distance:         math.Round(distanceKm*10) / 10,
		Price:            quote.PricePerQuintal,
		Revenue:          math.Round(revenue),
		TransportCost:    math.Round(transportCost),
		HandlingCost:     math.Round(handlingCost),
		TotalCost:        math.Round(totalCost),
		NetProfit:        math.Round(netProfit),
		ProfitPerQuintal: math.Round(netProfit / qty),
		ProfitPercentage: profitPct,
		Breakdown: Breakdown{
			Loading:       loading,
			Unloading:     unloading,
			Commission:    commission,
			Transport:     math.Round(transportCost),
			IsRideShare:   opts.IsRideShare,
			CostShareInfo: shareInfo,
			VehicleRate:   rate,
			FuelPrice:     opts.FuelPrice,
		},
		PriceHistory:     quote.PriceHistory,
		HistoricalTrend:  quote.HistoricalTrend,
		VolatilityAlert:  quote.DroppingHistory(),
		IsFallback:       quote.IsFallback,
		OriginalDistance: quote.OriginalDistance,
	}
}

// ComputeAll maps Compute over every distance entry, preserving order.
func ComputeAll(entries []distance.Entry, quantity int, vehicleType string, opts Options) []Result {
	results := make([]Result, 0, len(entries))
	for _, e := range entries {
		results = append(results, Compute(e.Destination, e.DistanceKm, quantity, vehicleType, opts))
	}
	return results
}

// Vehicle is one selectable vehicle type with its current dynamic rate.
type Vehicle struct {
	Type        string  `json:"type"`
	RatePerKm   float64 `json:"ratePerKm"`
	DisplayName string  `json:"displayName"`
}

// AvailableVehicles lists every known vehicle type with its rate at the
// given diesel price.
func AvailableVehicles(fuelPrice float64) []Vehicle {
	types := []string{"tractor", "tata-ace", "truck", "mini-truck", "tempo"}
	vehicles := make([]Vehicle, 0, len(types))
	for _, t := range types {
		vehicles = append(vehicles, Vehicle{
			Type:        t,
			RatePerKm:   VehicleRate(t, fuelPrice),
			DisplayName: displayName(t),
		})
	}
	return vehicles
}

// BreakEvenDistance returns the distance at which the revenue gain from a
// higher distant price is eaten by transport cost, rounded to 1 decimal.
func BreakEvenDistance(localPrice, distantPrice float64, vehicleType string, quantity int, fuelPrice float64) float64 {
	revenueGain := (distantPrice - localPrice) * float64(quantity)
	rate := VehicleRate(vehicleType, fuelPrice)
	if rate <= 0 {
		return 0
	}
	return math.Round(revenueGain/rate*10) / 10
}

// displayName turns "tata-ace" into "Tata Ace".
func displayName(vehicleType string) string {
	words := strings.Split(vehicleType, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
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

package engine

import (
	"time"

	"krishi-route/internal/decision"
	"krishi-route/internal/geo"
	"krishi-route/internal/pooling"
	"krishi-route/internal/profit"
)

// CustomVehicle carries a caller-supplied per-km rate that overrides the
// dynamic vehicle rate.
type CustomVehicle struct {
	RatePerKm float64 `json:"ratePerKm"`
}

// OptimizeParams holds the input parameters for one optimization run.
type OptimizeParams struct {
	Crop          string         `json:"crop"`
	Quantity      int            `json:"quantity"` // quintals
	VehicleType   string         `json:"vehicleType"`
	Source        geo.Location   `json:"source"`
	CustomVehicle *CustomVehicle `json:"customVehicle,omitempty"`
	IsRideShare   bool           `json:"isRideShare"`
}

// Metadata echoes the request alongside the figures the run was computed with.
type Metadata struct {
	RequestID           string         `json:"requestId"`
	Crop                string         `json:"crop"`
	Quantity            int            `json:"quantity"`
	VehicleType         string         `json:"vehicleType"`
	IsRideShare         bool           `json:"isRideShare"`
	MaxDistanceKm       float64        `json:"maxDistanceKm"`
	SourceLocation      geo.Location   `json:"sourceLocation"`
	TotalMandisAnalyzed int            `json:"totalMandisAnalyzed"`
	VehicleRate         float64        `json:"vehicleRate"`
	FuelPrice           float64        `json:"fuelPrice"`
	CustomVehicle       *CustomVehicle `json:"customVehicle,omitempty"`
	Timestamp           time.Time      `json:"timestamp"`
}

// OptimizeResult is the full outcome of one pipeline run.
type OptimizeResult struct {
	Metadata          Metadata              `json:"metadata"`
	Decision          decision.Result       `json:"decision"`
	PoolOpportunities []pooling.Opportunity `json:"poolOpportunities"`
	ActivePoolPartner *pooling.Opportunity  `json:"activePoolPartner,omitempty"`
	Results           []profit.Result       `json:"results"`
}

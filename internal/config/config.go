package config

// Config holds application settings (in-memory representation).
// Persistence is handled by internal/db package.
type Config struct {
	// MaxDistanceKm is the search radius for candidate mandis.
	MaxDistanceKm float64 `json:"max_distance_km"`
	// FallbackCount is how many closest mandis to keep when nothing
	// falls inside the radius.
	FallbackCount int `json:"fallback_count"`

	// UseMockData forces the synthetic mandi dataset even when feed
	// credentials are configured.
	UseMockData bool   `json:"use_mock_data"`
	FeedBaseURL string `json:"feed_base_url"`
	FeedAPIKey  string `json:"feed_api_key"`

	// MinProfitPerExtraKm is the ₹/km threshold above which travelling
	// past the nearest mandi is judged worthwhile.
	MinProfitPerExtraKm float64 `json:"min_profit_per_extra_km"`
	// AvgSpeedKmph converts distance into transit time for spoilage estimates.
	AvgSpeedKmph float64 `json:"avg_speed_kmph"`

	// Development enables diagnostic detail in error responses.
	Development bool `json:"development"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		MaxDistanceKm:       100,
		FallbackCount:       5,
		UseMockData:         false,
		MinProfitPerExtraKm: 10,
		AvgSpeedKmph:        40,
	}
}

package db

import (
	"strconv"

	"krishi-route/internal/config"
)

// LoadConfig reads config from SQLite. If empty, returns defaults.
func (d *DB) LoadConfig() *config.Config {
	cfg := config.Default()

	rows, err := d.sql.Query("SELECT key, value FROM config")
	if err != nil {
		return cfg
	}
	defer rows.Close()

	m := make(map[string]string)
	for rows.Next() {
		var k, v string
		rows.Scan(&k, &v)
		m[k] = v
	}
	if len(m) == 0 {
		return cfg
	}

	if v, ok := m["max_distance_km"]; ok {
		cfg.MaxDistanceKm, _ = strconv.ParseFloat(v, 64)
	}
	if v, ok := m["fallback_count"]; ok {
		cfg.FallbackCount, _ = strconv.Atoi(v)
	}
	if v, ok := m["use_mock_data"]; ok {
		cfg.UseMockData, _ = strconv.ParseBool(v)
	}
	if v, ok := m["feed_base_url"]; ok {
		cfg.FeedBaseURL = v
	}
	if v, ok := m["feed_api_key"]; ok {
		cfg.FeedAPIKey = v
	}
	if v, ok := m["min_profit_per_extra_km"]; ok {
		cfg.MinProfitPerExtraKm, _ = strconv.ParseFloat(v, 64)
	}
	if v, ok := m["avg_speed_kmph"]; ok {
		cfg.AvgSpeedKmph, _ = strconv.ParseFloat(v, 64)
	}
	if v, ok := m["development"]; ok {
		cfg.Development, _ = strconv.ParseBool(v)
	}
	return cfg
}

// SaveConfig persists config to SQLite as key/value pairs.
func (d *DB) SaveConfig(cfg *config.Config) error {
	pairs := map[string]string{
		"max_distance_km":         strconv.FormatFloat(cfg.MaxDistanceKm, 'f', -1, 64),
		"fallback_count":          strconv.Itoa(cfg.FallbackCount),
		"use_mock_data":           strconv.FormatBool(cfg.UseMockData),
		"feed_base_url":           cfg.FeedBaseURL,
		"feed_api_key":            cfg.FeedAPIKey,
		"min_profit_per_extra_km": strconv.FormatFloat(cfg.MinProfitPerExtraKm, 'f', -1, 64),
		"avg_speed_kmph":          strconv.FormatFloat(cfg.AvgSpeedKmph, 'f', -1, 64),
		"development":             strconv.FormatBool(cfg.Development),
	}

	tx, err := d.sql.Begin()
	if err != nil {
		return err
	}
	for k, v := range pairs {
		if _, err := tx.Exec("INSERT OR REPLACE INTO config (key, value) VALUES (?, ?)", k, v); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

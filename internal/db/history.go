package db

import (
	"time"

	"krishi-route/internal/profit"
)

// RunRecord is one optimize run in the audit history.
type RunRecord struct {
	ID         int64   `json:"id"`
	RequestID  string  `json:"request_id"`
	Timestamp  string  `json:"timestamp"`
	Crop       string  `json:"crop"`
	Quantity   int     `json:"quantity"`
	Vehicle    string  `json:"vehicle"`
	Count      int     `json:"count"`
	BestMandi  string  `json:"best_mandi"`
	BestProfit float64 `json:"best_profit"`
	DurationMs int64   `json:"duration_ms"`
}

// InsertRun records an optimize run and returns its ID.
func (d *DB) InsertRun(requestID, crop string, quantity int, vehicle string, count int, bestMandi string, bestProfit float64, durationMs int64) int64 {
	result, err := d.sql.Exec(
		`INSERT INTO optimize_history (request_id, timestamp, crop, quantity, vehicle, count, best_mandi, best_profit, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		requestID, time.Now().Format(time.RFC3339), crop, quantity, vehicle, count, bestMandi, bestProfit, durationMs,
	)
	if err != nil {
		return 0
	}
	id, _ := result.LastInsertId()
	return id
}

// InsertResults stores the per-mandi rows for a run.
func (d *DB) InsertResults(runID int64, results []profit.Result) {
	for _, r := range results {
		d.sql.Exec(
			`INSERT INTO mandi_results (run_id, mandi_name, distance_km, price, revenue, transport_cost, handling_cost, net_profit, is_fallback)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, r.MandiName, r.Distance, r.Price, r.Revenue, r.TransportCost, r.HandlingCost, r.NetProfit, r.IsFallback,
		)
	}
}

// GetRuns returns the last N optimize runs (newest first).
func (d *DB) GetRuns(limit int) []RunRecord {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.sql.Query(
		`SELECT id, request_id, timestamp, crop, quantity, vehicle, count, best_mandi, best_profit, duration_ms
		 FROM optimize_history ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return []RunRecord{}
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var r RunRecord
		rows.Scan(&r.ID, &r.RequestID, &r.Timestamp, &r.Crop, &r.Quantity, &r.Vehicle, &r.Count, &r.BestMandi, &r.BestProfit, &r.DurationMs)
		records = append(records, r)
	}
	return records
}

// GetRunResults returns the stored per-mandi rows for a run.
func (d *DB) GetRunResults(runID int64) []profit.Result {
	rows, err := d.sql.Query(
		`SELECT mandi_name, distance_km, price, revenue, transport_cost, handling_cost, net_profit, is_fallback
		 FROM mandi_results WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return []profit.Result{}
	}
	defer rows.Close()

	var results []profit.Result
	for rows.Next() {
		var r profit.Result
		rows.Scan(&r.MandiName, &r.Distance, &r.Price, &r.Revenue, &r.TransportCost, &r.HandlingCost, &r.NetProfit, &r.IsFallback)
		r.TotalCost = r.TransportCost + r.HandlingCost
		results = append(results, r)
	}
	return results
}

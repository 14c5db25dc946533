package db

import "time"

// GetFuelPrice returns the persisted fuel price and its refresh time.
// ok is false when no price has been stored yet.
func (d *DB) GetFuelPrice() (float64, time.Time, bool) {
	var price float64
	var updated string
	err := d.sql.QueryRow("SELECT price, last_updated FROM fuel_price WHERE id = 1").Scan(&price, &updated)
	if err != nil {
		return 0, time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, updated)
	if err != nil {
		return 0, time.Time{}, false
	}
	return price, t, true
}

// SetFuelPrice stores the fuel price, overwriting any previous row.
func (d *DB) SetFuelPrice(price float64, lastUpdated time.Time) {
	d.sql.Exec(
		"INSERT OR REPLACE INTO fuel_price (id, price, last_updated) VALUES (1, ?, ?)",
		price, lastUpdated.Format(time.RFC3339),
	)
}

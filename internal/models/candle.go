package models

import "time"

// Candle is one OHLCV bar served to the chart layer.
type Candle struct {
	Time   time.Time `db:"timestamp" json:"time"`
	Open   float64   `db:"open" json:"open"`
	High   float64   `db:"high" json:"high"`
	Low    float64   `db:"low" json:"low"`
	Close  float64   `db:"close" json:"close"`
	Volume int64     `db:"volume" json:"volume"`
}

// CandleTables is the fixed set of candle table names a request may target.
// Table names are interpolated into SQL, so anything outside this list is
// rejected at the boundary.
var CandleTables = []string{
	"candles_1m",
	"candles_5m",
	"candles_15m",
	"candles_30m",
	"candles_1h",
	"candles_4h",
	"candles_1d",
}

// IsCandleTable reports whether name is an allowlisted candle table.
func IsCandleTable(name string) bool {
	for _, t := range CandleTables {
		if t == name {
			return true
		}
	}
	return false
}

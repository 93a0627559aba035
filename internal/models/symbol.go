package models

// Symbol is a tradable instrument. Reference data, read-only here.
type Symbol struct {
	ID     int64   `db:"id" json:"id"`
	Ticker string  `db:"ticker" json:"ticker"`
	Name   *string `db:"name" json:"name"`
	FIGI   *string `db:"figi" json:"figi,omitempty"`
}

// TimeframeWeight is a scalar boosting or damping a candidate's composite
// score based on its bar interval. Reference data, keyed by timeframe label.
type TimeframeWeight struct {
	Timeframe string  `db:"timeframe" json:"timeframe"`
	Weight    float64 `db:"tf_weight" json:"tf_weight"`
}

// LotChange is one row of an instrument's lot-size history.
type LotChange struct {
	ID         int64  `db:"id" json:"id"`
	SymbolID   int64  `db:"symbol_id" json:"symbol_id"`
	Lot        int    `db:"lot" json:"lot"`
	ChangeDate string `db:"change_date" json:"change_date"`
}

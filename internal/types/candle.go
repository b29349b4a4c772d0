package types

import "time"

// Candle represents a single OHLCV bar of a time series.
// A series is always ordered by time ascending with no gaps; the loader is
// responsible for supplying a clean series.
type Candle struct {
	Time   time.Time `yaml:"time" csv:"time"`
	Open   float64   `yaml:"open" csv:"open"`
	High   float64   `yaml:"high" csv:"high"`
	Low    float64   `yaml:"low" csv:"low"`
	Close  float64   `yaml:"close" csv:"close"`
	Volume float64   `yaml:"volume" csv:"volume"`
	// Aux carries an optional auxiliary series supplied by the caller
	// (e.g. a related instrument's close) referenced by the aux indicator kind.
	Aux float64 `yaml:"aux,omitempty" csv:"aux"`
}

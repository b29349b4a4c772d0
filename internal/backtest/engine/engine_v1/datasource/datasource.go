package datasource

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/stratlab-io/stratsim/internal/types"
)

// DataSource supplies an ordered, gap-free candle series to the engine.
// Implementations own the file handling; the engine only sees candles.
type DataSource interface {
	// Initialize points the data source at the given candle file (CSV or parquet).
	Initialize(path string) error
	// ReadAll streams candles ordered by time ascending, optionally bounded
	// by start/end times (inclusive).
	ReadAll(start optional.Option[time.Time], end optional.Option[time.Time]) func(yield func(types.Candle, error) bool)
	// Count returns the number of candles within the optional bounds.
	Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error)
	// ReadLastCandle returns the most recent candle.
	ReadLastCandle() (types.Candle, error)
	// Close closes the data source and releases any resources.
	Close() error
}

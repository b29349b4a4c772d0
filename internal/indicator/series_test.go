package indicator

import (
	"math"
	"testing"
	"time"

	"github.com/stratlab-io/stratsim/internal/types"
	"github.com/stratlab-io/stratsim/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type SeriesTestSuite struct {
	suite.Suite
}

func TestSeriesSuite(t *testing.T) {
	suite.Run(t, new(SeriesTestSuite))
}

func makeCandles(closes []float64) []types.Candle {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	candles := make([]types.Candle, len(closes))
	for i, c := range closes {
		candles[i] = types.Candle{
			Time:   start.Add(time.Duration(i) * 24 * time.Hour),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		}
	}

	return candles
}

func (suite *SeriesTestSuite) TestStaticKinds() {
	candles := makeCandles([]float64{10, 11, 12})
	candles[1].Aux = 7

	series, err := NewSeries(candles, nil)
	suite.Require().NoError(err)

	suite.Equal(3, series.Len())
	suite.InDelta(11, series.Value(types.IndicatorRef{Kind: types.IndicatorKindPrice}, 1), 1e-9)
	suite.InDelta(11, series.Value(types.IndicatorRef{Kind: types.IndicatorKindOpen}, 1), 1e-9)
	suite.InDelta(12, series.Value(types.IndicatorRef{Kind: types.IndicatorKindHigh}, 1), 1e-9)
	suite.InDelta(10, series.Value(types.IndicatorRef{Kind: types.IndicatorKindLow}, 1), 1e-9)
	suite.InDelta(1000, series.Value(types.IndicatorRef{Kind: types.IndicatorKindVolume}, 1), 1e-9)
	suite.InDelta(7, series.Value(types.IndicatorRef{Kind: types.IndicatorKindAux}, 1), 1e-9)
}

func (suite *SeriesTestSuite) TestComputedColumn() {
	candles := makeCandles([]float64{1, 2, 3, 4, 5})
	ref := types.IndicatorRef{Kind: types.IndicatorKindSMA, Period: 3}

	series, err := NewSeries(candles, []types.IndicatorRef{ref})
	suite.Require().NoError(err)

	suite.True(math.IsNaN(series.Value(ref, 1)))
	suite.InDelta(2, series.Value(ref, 2), 1e-9)
	suite.InDelta(4, series.Value(ref, 4), 1e-9)
}

func (suite *SeriesTestSuite) TestSiblingColumnsComputedTogether() {
	candles := makeCandles([]float64{10, 11, 9, 12, 8, 13, 7, 14})
	upper := types.IndicatorRef{Kind: types.IndicatorKindBBUpper, Period: 3}
	lower := types.IndicatorRef{Kind: types.IndicatorKindBBLower, Period: 3}

	series, err := NewSeries(candles, []types.IndicatorRef{upper})
	suite.Require().NoError(err)

	// Requesting the upper band fills the lower band column too.
	suite.False(math.IsNaN(series.Value(lower, 4)))
	suite.Greater(series.Value(upper, 4), series.Value(lower, 4))
}

func (suite *SeriesTestSuite) TestUnrequestedColumnIsNaN() {
	candles := makeCandles([]float64{1, 2, 3, 4, 5})

	series, err := NewSeries(candles, nil)
	suite.Require().NoError(err)

	ref := types.IndicatorRef{Kind: types.IndicatorKindEMA, Period: 3}
	suite.True(math.IsNaN(series.Value(ref, 4)))
}

func (suite *SeriesTestSuite) TestOutOfRangeIndexIsNaN() {
	candles := makeCandles([]float64{1, 2, 3})

	series, err := NewSeries(candles, nil)
	suite.Require().NoError(err)

	ref := types.IndicatorRef{Kind: types.IndicatorKindPrice}
	suite.True(math.IsNaN(series.Value(ref, -1)))
	suite.True(math.IsNaN(series.Value(ref, 3)))
}

func (suite *SeriesTestSuite) TestInsufficientData() {
	candles := makeCandles([]float64{1, 2, 3})
	ref := types.IndicatorRef{Kind: types.IndicatorKindSMA, Period: 10}

	_, err := NewSeries(candles, []types.IndicatorRef{ref})
	suite.Require().Error(err)

	var insufficientErr *errors.InsufficientDataError
	suite.Require().ErrorAs(err, &insufficientErr)
	suite.Equal(10, insufficientErr.Required)
	suite.Equal(3, insufficientErr.Actual)
}

func (suite *SeriesTestSuite) TestEmptySeries() {
	_, err := NewSeries(nil, nil)
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeDataNotFound))
}

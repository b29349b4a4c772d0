package datasource

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stratlab-io/stratsim/internal/logger"
	"github.com/stratlab-io/stratsim/internal/types"
	"github.com/stretchr/testify/suite"
)

type DuckDBDataSourceTestSuite struct {
	suite.Suite

	source DataSource
}

func TestDuckDBDataSourceSuite(t *testing.T) {
	suite.Run(t, new(DuckDBDataSourceTestSuite))
}

const candlesCSV = `time,open,high,low,close,volume
2024-03-01T00:00:00Z,100,101,99,100.5,1000
2024-03-02T00:00:00Z,100.5,102,100,101.5,1200
2024-03-03T00:00:00Z,101.5,103,101,102.5,900
2024-03-04T00:00:00Z,102.5,104,102,103.5,1100
`

const candlesWithAuxCSV = `time,open,high,low,close,volume,aux
2024-03-01T00:00:00Z,100,101,99,100.5,1000,42.5
2024-03-02T00:00:00Z,100.5,102,100,101.5,1200,43.5
`

func (suite *DuckDBDataSourceTestSuite) SetupTest() {
	source, err := NewDataSource(logger.NewNopLogger())
	suite.Require().NoError(err)

	suite.source = source
}

func (suite *DuckDBDataSourceTestSuite) TearDownTest() {
	if suite.source != nil {
		suite.source.Close()
	}
}

func (suite *DuckDBDataSourceTestSuite) writeCSV(content string) string {
	path := filepath.Join(suite.T().TempDir(), "candles.csv")
	suite.Require().NoError(os.WriteFile(path, []byte(content), 0o644))

	return path
}

func (suite *DuckDBDataSourceTestSuite) TestReadAll() {
	suite.Require().NoError(suite.source.Initialize(suite.writeCSV(candlesCSV)))

	var candles []types.Candle

	for candle, err := range suite.source.ReadAll(optional.None[time.Time](), optional.None[time.Time]()) {
		suite.Require().NoError(err)
		candles = append(candles, candle)
	}

	suite.Require().Len(candles, 4)
	suite.InDelta(100.5, candles[0].Close, 1e-9)
	suite.InDelta(103.5, candles[3].Close, 1e-9)

	for i := 1; i < len(candles); i++ {
		suite.True(candles[i].Time.After(candles[i-1].Time))
	}
}

func (suite *DuckDBDataSourceTestSuite) TestReadAllTimeBounds() {
	suite.Require().NoError(suite.source.Initialize(suite.writeCSV(candlesCSV)))

	start := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)

	var candles []types.Candle

	for candle, err := range suite.source.ReadAll(optional.Some(start), optional.Some(end)) {
		suite.Require().NoError(err)
		candles = append(candles, candle)
	}

	suite.Require().Len(candles, 2)
	suite.InDelta(101.5, candles[0].Close, 1e-9)
	suite.InDelta(102.5, candles[1].Close, 1e-9)
}

func (suite *DuckDBDataSourceTestSuite) TestCount() {
	suite.Require().NoError(suite.source.Initialize(suite.writeCSV(candlesCSV)))

	count, err := suite.source.Count(optional.None[time.Time](), optional.None[time.Time]())
	suite.Require().NoError(err)
	suite.Equal(4, count)

	start := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)
	count, err = suite.source.Count(optional.Some(start), optional.None[time.Time]())
	suite.Require().NoError(err)
	suite.Equal(2, count)
}

func (suite *DuckDBDataSourceTestSuite) TestReadLastCandle() {
	suite.Require().NoError(suite.source.Initialize(suite.writeCSV(candlesCSV)))

	candle, err := suite.source.ReadLastCandle()
	suite.Require().NoError(err)
	suite.InDelta(103.5, candle.Close, 1e-9)
}

func (suite *DuckDBDataSourceTestSuite) TestAuxColumn() {
	suite.Require().NoError(suite.source.Initialize(suite.writeCSV(candlesWithAuxCSV)))

	var candles []types.Candle

	for candle, err := range suite.source.ReadAll(optional.None[time.Time](), optional.None[time.Time]()) {
		suite.Require().NoError(err)
		candles = append(candles, candle)
	}

	suite.Require().Len(candles, 2)
	suite.InDelta(42.5, candles[0].Aux, 1e-9)
	suite.InDelta(43.5, candles[1].Aux, 1e-9)
}

func (suite *DuckDBDataSourceTestSuite) TestAuxDefaultsToZero() {
	suite.Require().NoError(suite.source.Initialize(suite.writeCSV(candlesCSV)))

	candle, err := suite.source.ReadLastCandle()
	suite.Require().NoError(err)
	suite.InDelta(0, candle.Aux, 1e-9)
}

func (suite *DuckDBDataSourceTestSuite) TestInitializeMissingFile() {
	err := suite.source.Initialize(filepath.Join(suite.T().TempDir(), "missing.csv"))
	suite.Error(err)
}

package engine

import (
	"testing"

	"github.com/stratlab-io/stratsim/internal/types"
	"github.com/stratlab-io/stratsim/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type SimulationTestSuite struct {
	suite.Suite
}

func TestSimulationSuite(t *testing.T) {
	suite.Run(t, new(SimulationTestSuite))
}

func (suite *SimulationTestSuite) TestRunSimulation() {
	strategy := alwaysEnterStrategy()
	strategy.TakeProfitPct = 5

	candles := candlesFromCloses([]float64{100, 102, 104, 106, 108})

	result, err := RunSimulation(candles, strategy, 10000)
	suite.Require().NoError(err)

	suite.NotEmpty(result.Trades)
	suite.Len(result.EquityCurve, len(candles))
	suite.InDelta(10000, result.Metrics.InitialCapital, 1e-9)
	suite.Equal(result.EquityCurve[len(result.EquityCurve)-1].Equity, result.Metrics.FinalEquity)
}

func (suite *SimulationTestSuite) TestRunSimulationRejectsInvalidStrategy() {
	strategy := alwaysEnterStrategy()
	strategy.Name = ""

	_, err := RunSimulation(candlesFromCloses([]float64{100, 101}), strategy, 10000)
	suite.Error(err)
}

func (suite *SimulationTestSuite) TestRunSimulationInsufficientData() {
	smaRef := types.IndicatorRef{Kind: types.IndicatorKindSMA, Period: 50}

	strategy := alwaysEnterStrategy()
	strategy.Entry = &types.Group{
		Operator: types.GroupOperatorAnd,
		Children: []types.Node{
			&types.Condition{
				Left:       types.IndicatorRef{Kind: types.IndicatorKindPrice},
				Comparator: types.ComparatorGT,
				Right:      &smaRef,
			},
		},
	}

	_, err := RunSimulation(candlesFromCloses([]float64{100, 101, 102}), strategy, 10000)
	suite.Require().Error(err)
	suite.True(errors.IsInsufficientDataError(err))
}

func (suite *SimulationTestSuite) TestRunSimulationSchemaVersionMismatch() {
	strategy := alwaysEnterStrategy()
	strategy.SchemaVersion = "99.0.0"

	_, err := RunSimulation(candlesFromCloses([]float64{100, 101}), strategy, 10000)
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeVersionMismatch))
}

func (suite *SimulationTestSuite) TestRunSimulationCompatibleSchemaVersion() {
	strategy := alwaysEnterStrategy()
	strategy.SchemaVersion = "1.2.3"

	_, err := RunSimulation(candlesFromCloses([]float64{100, 101}), strategy, 10000)
	suite.NoError(err)
}

func (suite *SimulationTestSuite) TestRunSimulationEmptyCandles() {
	_, err := RunSimulation(nil, alwaysEnterStrategy(), 10000)
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeDataNotFound))
}

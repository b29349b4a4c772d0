package engine

import (
	"testing"
	"time"

	"github.com/stratlab-io/stratsim/internal/indicator"
	"github.com/stratlab-io/stratsim/internal/types"
	"github.com/stretchr/testify/suite"
)

type EvaluatorTestSuite struct {
	suite.Suite
}

func TestEvaluatorSuite(t *testing.T) {
	suite.Run(t, new(EvaluatorTestSuite))
}

func candlesFromCloses(closes []float64) []types.Candle {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

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

func seriesFromCloses(suite *suite.Suite, closes []float64, refs ...types.IndicatorRef) *indicator.Series {
	series, err := indicator.NewSeries(candlesFromCloses(closes), refs)
	suite.Require().NoError(err)

	return series
}

func staticCondition(left types.IndicatorKind, cmp types.Comparator, value float64) *types.Condition {
	return &types.Condition{
		Left:        types.IndicatorRef{Kind: left},
		Comparator:  cmp,
		StaticValue: &value,
	}
}

func (suite *EvaluatorTestSuite) TestComparators() {
	series := seriesFromCloses(&suite.Suite, []float64{10, 20})

	suite.True(Evaluate(staticCondition(types.IndicatorKindPrice, types.ComparatorGT, 15), series, 1))
	suite.False(Evaluate(staticCondition(types.IndicatorKindPrice, types.ComparatorGT, 25), series, 1))
	suite.True(Evaluate(staticCondition(types.IndicatorKindPrice, types.ComparatorLT, 25), series, 1))
	suite.False(Evaluate(staticCondition(types.IndicatorKindPrice, types.ComparatorLT, 15), series, 1))
}

func (suite *EvaluatorTestSuite) TestEQTolerance() {
	series := seriesFromCloses(&suite.Suite, []float64{10})

	suite.True(Evaluate(staticCondition(types.IndicatorKindPrice, types.ComparatorEQ, 10.005), series, 0))
	suite.False(Evaluate(staticCondition(types.IndicatorKindPrice, types.ComparatorEQ, 10.02), series, 0))
}

func (suite *EvaluatorTestSuite) TestCrossesAbove() {
	series := seriesFromCloses(&suite.Suite, []float64{9, 11, 12})
	cond := staticCondition(types.IndicatorKindPrice, types.ComparatorCrossesAbove, 10)

	suite.True(Evaluate(cond, series, 1))
	// Already above on both bars: no crossing.
	suite.False(Evaluate(cond, series, 2))
}

func (suite *EvaluatorTestSuite) TestCrossesBelow() {
	series := seriesFromCloses(&suite.Suite, []float64{11, 9, 8})
	cond := staticCondition(types.IndicatorKindPrice, types.ComparatorCrossesBelow, 10)

	suite.True(Evaluate(cond, series, 1))
	suite.False(Evaluate(cond, series, 2))
}

func (suite *EvaluatorTestSuite) TestNoCrossoverOnFirstBar() {
	series := seriesFromCloses(&suite.Suite, []float64{11, 12})
	cond := staticCondition(types.IndicatorKindPrice, types.ComparatorCrossesAbove, 10)

	// The previous bar is the current one at index 0.
	suite.False(Evaluate(cond, series, 0))
}

func (suite *EvaluatorTestSuite) TestWarmupNaNIsFalse() {
	ref := types.IndicatorRef{Kind: types.IndicatorKindSMA, Period: 3}
	series := seriesFromCloses(&suite.Suite, []float64{10, 11, 12, 13}, ref)

	cond := &types.Condition{
		Left:        ref,
		Comparator:  types.ComparatorGT,
		StaticValue: float64Ptr(0),
	}

	suite.False(Evaluate(cond, series, 1))
	suite.True(Evaluate(cond, series, 2))
}

func (suite *EvaluatorTestSuite) TestIndicatorAgainstIndicator() {
	ref := types.IndicatorRef{Kind: types.IndicatorKindSMA, Period: 2}
	series := seriesFromCloses(&suite.Suite, []float64{10, 12, 14}, ref)

	cond := &types.Condition{
		Left:       types.IndicatorRef{Kind: types.IndicatorKindPrice},
		Comparator: types.ComparatorGT,
		Right:      &ref,
	}

	// Close 14 against SMA(2) of 13.
	suite.True(Evaluate(cond, series, 2))
}

func (suite *EvaluatorTestSuite) TestEmptyGroupIsFalse() {
	series := seriesFromCloses(&suite.Suite, []float64{10})

	suite.False(Evaluate(&types.Group{Operator: types.GroupOperatorAnd}, series, 0))
	suite.False(Evaluate(&types.Group{Operator: types.GroupOperatorOr}, series, 0))
}

func (suite *EvaluatorTestSuite) TestGroupOperators() {
	series := seriesFromCloses(&suite.Suite, []float64{10})

	pass := staticCondition(types.IndicatorKindPrice, types.ComparatorGT, 5)
	fail := staticCondition(types.IndicatorKindPrice, types.ComparatorGT, 15)

	and := &types.Group{Operator: types.GroupOperatorAnd, Children: []types.Node{pass, fail}}
	suite.False(Evaluate(and, series, 0))

	or := &types.Group{Operator: types.GroupOperatorOr, Children: []types.Node{fail, pass}}
	suite.True(Evaluate(or, series, 0))
}

func (suite *EvaluatorTestSuite) TestNestedGroups() {
	series := seriesFromCloses(&suite.Suite, []float64{10})

	pass := staticCondition(types.IndicatorKindPrice, types.ComparatorGT, 5)
	fail := staticCondition(types.IndicatorKindPrice, types.ComparatorLT, 5)

	tree := &types.Group{
		Operator: types.GroupOperatorAnd,
		Children: []types.Node{
			pass,
			&types.Group{
				Operator: types.GroupOperatorOr,
				Children: []types.Node{fail, pass},
			},
		},
	}

	suite.True(Evaluate(tree, series, 0))
}

func float64Ptr(v float64) *float64 {
	return &v
}

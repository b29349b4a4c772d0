package engine

import (
	"math"

	"github.com/stratlab-io/stratsim/internal/indicator"
	"github.com/stratlab-io/stratsim/internal/types"
)

// eqTolerance is the fixed absolute tolerance for the EQ comparator. An
// absolute rather than relative bound is deliberate: comparisons happen at
// price scale, where a one-cent band is what users expect.
const eqTolerance = 0.01

// Evaluate resolves a condition tree against the augmented series at the
// given bar. It is total for validated trees: an indicator value that is
// unavailable (warm-up NaN) makes the enclosing condition false instead of
// failing the run, which can only delay entries and exits.
func Evaluate(node types.Node, series *indicator.Series, idx int) bool {
	switch n := node.(type) {
	case *types.Group:
		return evaluateGroup(n, series, idx)
	case *types.Condition:
		return evaluateCondition(n, series, idx)
	}

	return false
}

// evaluateGroup short-circuits over its children. An empty group is false: a
// required-condition block with nothing in it must never silently pass.
func evaluateGroup(group *types.Group, series *indicator.Series, idx int) bool {
	if len(group.Children) == 0 {
		return false
	}

	if group.Operator == types.GroupOperatorOr {
		for _, child := range group.Children {
			if Evaluate(child, series, idx) {
				return true
			}
		}

		return false
	}

	for _, child := range group.Children {
		if !Evaluate(child, series, idx) {
			return false
		}
	}

	return true
}

func evaluateCondition(cond *types.Condition, series *indicator.Series, idx int) bool {
	// On the first bar the previous values equal the current ones, so no
	// crossover can fire there.
	prevIdx := idx - 1
	if prevIdx < 0 {
		prevIdx = idx
	}

	valA := series.Value(cond.Left, idx)

	var valB, prevB float64
	if cond.StaticValue != nil {
		valB = *cond.StaticValue
		prevB = *cond.StaticValue
	} else {
		valB = series.Value(*cond.Right, idx)
		prevB = series.Value(*cond.Right, prevIdx)
	}

	if math.IsNaN(valA) || math.IsNaN(valB) {
		return false
	}

	switch cond.Comparator {
	case types.ComparatorGT:
		return valA > valB
	case types.ComparatorLT:
		return valA < valB
	case types.ComparatorEQ:
		return math.Abs(valA-valB) < eqTolerance
	case types.ComparatorCrossesAbove:
		prevA := series.Value(cond.Left, prevIdx)
		if math.IsNaN(prevA) || math.IsNaN(prevB) {
			return false
		}

		return prevA <= prevB && valA > valB
	case types.ComparatorCrossesBelow:
		prevA := series.Value(cond.Left, prevIdx)
		if math.IsNaN(prevA) || math.IsNaN(prevB) {
			return false
		}

		return prevA >= prevB && valA < valB
	}

	return false
}

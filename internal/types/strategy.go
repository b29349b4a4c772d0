package types

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/stratlab-io/stratsim/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Comparator is the comparison applied at a condition leaf.
type Comparator string

const (
	ComparatorGT           Comparator = "gt"
	ComparatorLT           Comparator = "lt"
	ComparatorEQ           Comparator = "eq"
	ComparatorCrossesAbove Comparator = "crosses_above"
	ComparatorCrossesBelow Comparator = "crosses_below"
)

// Valid reports whether the comparator is known.
func (c Comparator) Valid() bool {
	switch c {
	case ComparatorGT, ComparatorLT, ComparatorEQ, ComparatorCrossesAbove, ComparatorCrossesBelow:
		return true
	}

	return false
}

// GroupOperator combines the results of a group's children.
type GroupOperator string

const (
	GroupOperatorAnd GroupOperator = "and"
	GroupOperatorOr  GroupOperator = "or"
)

// Valid reports whether the operator is known.
func (o GroupOperator) Valid() bool {
	return o == GroupOperatorAnd || o == GroupOperatorOr
}

// Node is one node of a condition tree: either a Condition leaf or a Group.
// Trees are validated once at construction time so evaluation never has to
// defend against malformed nodes.
type Node interface {
	// Validate checks the node and its subtree for structural errors.
	Validate() error

	isNode()
}

// Condition is a leaf comparing an indicator against another indicator or a
// static value. Exactly one of Right and StaticValue must be set.
type Condition struct {
	Left        IndicatorRef  `yaml:"left"`
	Comparator  Comparator    `yaml:"comparator"`
	Right       *IndicatorRef `yaml:"right,omitempty"`
	StaticValue *float64      `yaml:"value,omitempty"`
}

func (c *Condition) isNode() {}

// Validate implements Node.
func (c *Condition) Validate() error {
	if !c.Comparator.Valid() {
		return errors.Newf(errors.ErrCodeInvalidComparator, "unknown comparator %q", c.Comparator)
	}

	if err := c.Left.Validate(); err != nil {
		return err
	}

	if (c.Right == nil) == (c.StaticValue == nil) {
		return errors.New(errors.ErrCodeInvalidCondition, "condition must set exactly one of right and value")
	}

	if c.Right != nil {
		if err := c.Right.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// Group is an internal node combining child nodes with AND/OR.
// A tree's root is always a Group, possibly with zero children.
type Group struct {
	Operator GroupOperator `yaml:"operator"`
	Children []Node        `yaml:"children"`
}

func (g *Group) isNode() {}

// Validate implements Node.
func (g *Group) Validate() error {
	if !g.Operator.Valid() {
		return errors.Newf(errors.ErrCodeInvalidOperator, "unknown group operator %q", g.Operator)
	}

	for _, child := range g.Children {
		if child == nil {
			return errors.New(errors.ErrCodeInvalidCondition, "group contains a nil child")
		}

		if err := child.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// Empty reports whether the group has no children. An empty group never
// passes; the simulator skips evaluation entirely for empty trees.
func (g *Group) Empty() bool {
	return g == nil || len(g.Children) == 0
}

// UnmarshalYAML decodes a group with heterogeneous children. A child mapping
// containing an "operator" key is a nested group, otherwise a condition leaf.
func (g *Group) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Operator GroupOperator `yaml:"operator"`
		Children []yaml.Node   `yaml:"children"`
	}

	if err := value.Decode(&raw); err != nil {
		return err
	}

	g.Operator = raw.Operator
	g.Children = make([]Node, 0, len(raw.Children))

	for i := range raw.Children {
		child := &raw.Children[i]

		if yamlMappingHasKey(child, "operator") {
			nested := &Group{}
			if err := child.Decode(nested); err != nil {
				return err
			}

			g.Children = append(g.Children, nested)

			continue
		}

		condition := &Condition{}
		if err := child.Decode(condition); err != nil {
			return err
		}

		g.Children = append(g.Children, condition)
	}

	return nil
}

// yamlMappingHasKey reports whether a yaml mapping node contains the key.
func yamlMappingHasKey(node *yaml.Node, key string) bool {
	if node.Kind != yaml.MappingNode {
		return false
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return true
		}
	}

	return false
}

// Strategy describes one tradable rule set: an entry tree, an exit tree and
// the stop-loss / take-profit percentages. A strategy is immutable for the
// duration of one simulation run.
type Strategy struct {
	Name          string  `yaml:"name" validate:"required"`
	SchemaVersion string  `yaml:"schema_version"`
	Symbol        string  `yaml:"symbol"`
	Entry         *Group  `yaml:"entry" validate:"required"`
	Exit          *Group  `yaml:"exit"`
	StopLossPct   float64 `yaml:"stop_loss_pct" validate:"gte=0"`
	TakeProfitPct float64 `yaml:"take_profit_pct" validate:"gte=0"`
}

// Validate checks struct-level constraints and both condition trees.
// A strategy that fails validation never reaches the bar loop.
func (s *Strategy) Validate() error {
	validate := validator.New()
	if err := validate.Struct(s); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid strategy", err)
	}

	if err := s.Entry.Validate(); err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid entry tree for strategy %q", s.Name)
	}

	if s.Exit != nil {
		if err := s.Exit.Validate(); err != nil {
			return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid exit tree for strategy %q", s.Name)
		}
	}

	return nil
}

// ParseStrategy parses and validates a strategy definition from YAML.
func ParseStrategy(data []byte) (*Strategy, error) {
	var strategy Strategy
	if err := yaml.Unmarshal(data, &strategy); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStrategyConfigError, "failed to parse strategy", err)
	}

	if err := strategy.Validate(); err != nil {
		return nil, err
	}

	return &strategy, nil
}

// LoadStrategy reads, parses and validates a strategy definition file.
func LoadStrategy(path string) (*Strategy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeStrategyNotLoaded, err, "failed to read strategy file %s", path)
	}

	return ParseStrategy(data)
}

package engine

import (
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
)

// BacktestEngineV1Config is the engine-level configuration, supplied as YAML
// to Initialize. Strategy-level settings (trees, stop-loss, take-profit)
// live in the strategy files, not here.
type BacktestEngineV1Config struct {
	// InitialCapital is the starting equity for every run.
	InitialCapital float64 `yaml:"initial_capital" json:"initial_capital" validate:"gt=0" jsonschema:"title=Initial Capital,description=Starting equity for every simulation run"`
	// StartTime optionally bounds the candle range (inclusive).
	StartTime *time.Time `yaml:"start_time,omitempty" json:"start_time,omitempty" jsonschema:"title=Start Time,description=Inclusive lower bound on candle time"`
	// EndTime optionally bounds the candle range (inclusive).
	EndTime *time.Time `yaml:"end_time,omitempty" json:"end_time,omitempty" jsonschema:"title=End Time,description=Inclusive upper bound on candle time"`
}

// EmptyConfig returns a zero-value configuration.
func EmptyConfig() BacktestEngineV1Config {
	return BacktestEngineV1Config{
		InitialCapital: 0,
		StartTime:      nil,
		EndTime:        nil,
	}
}

// DefaultConfig returns a configuration suitable for quick local runs.
func DefaultConfig() BacktestEngineV1Config {
	return BacktestEngineV1Config{
		InitialCapital: 10000,
		StartTime:      nil,
		EndTime:        nil,
	}
}

// Validate checks the configuration struct tags.
func (c *BacktestEngineV1Config) Validate() error {
	validate := validator.New()

	return validate.Struct(c)
}

// StartTimeOption returns the start bound as an option for the datasource API.
func (c *BacktestEngineV1Config) StartTimeOption() optional.Option[time.Time] {
	if c.StartTime == nil {
		return optional.None[time.Time]()
	}

	return optional.Some(*c.StartTime)
}

// EndTimeOption returns the end bound as an option for the datasource API.
func (c *BacktestEngineV1Config) EndTimeOption() optional.Option[time.Time] {
	if c.EndTime == nil {
		return optional.None[time.Time]()
	}

	return optional.Some(*c.EndTime)
}

// GenerateSchema generates a JSON schema for the configuration.
func (c *BacktestEngineV1Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		DoNotReference: true,
	}

	schema := reflector.Reflect(c)
	schema.Title = "backtest-engine-v1-config"
	schema.Description = "Configuration schema for BacktestEngineV1"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates the configuration schema as indented JSON.
func (c *BacktestEngineV1Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(data), nil
}

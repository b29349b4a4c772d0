package engine

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v2"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) TestDefaultConfigIsValid() {
	config := DefaultConfig()
	suite.NoError(config.Validate())
	suite.InDelta(10000, config.InitialCapital, 1e-9)
}

func (suite *ConfigTestSuite) TestEmptyConfigIsInvalid() {
	config := EmptyConfig()
	suite.Error(config.Validate())
}

func (suite *ConfigTestSuite) TestNegativeCapitalIsInvalid() {
	config := BacktestEngineV1Config{InitialCapital: -100}
	suite.Error(config.Validate())
}

func (suite *ConfigTestSuite) TestUnmarshalYAML() {
	var config BacktestEngineV1Config

	err := yaml.Unmarshal([]byte("initial_capital: 25000\n"), &config)
	suite.Require().NoError(err)
	suite.InDelta(25000, config.InitialCapital, 1e-9)
	suite.Nil(config.StartTime)
	suite.Nil(config.EndTime)
}

func (suite *ConfigTestSuite) TestTimeOptions() {
	config := DefaultConfig()
	suite.True(config.StartTimeOption().IsNone())
	suite.True(config.EndTimeOption().IsNone())

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	config.StartTime = &start

	value, err := config.StartTimeOption().Take()
	suite.Require().NoError(err)
	suite.True(value.Equal(start))
}

func (suite *ConfigTestSuite) TestGenerateSchemaJSON() {
	config := DefaultConfig()

	schemaJSON, err := config.GenerateSchemaJSON()
	suite.Require().NoError(err)

	var decoded map[string]any
	suite.Require().NoError(json.Unmarshal([]byte(schemaJSON), &decoded))
	suite.Equal("backtest-engine-v1-config", decoded["title"])
	suite.Contains(schemaJSON, "initial_capital")
}

// Package config defines the data structures related to configuration and
// includes functions for loading and resolving the config.
package config

import (
	"fmt"
	"io"
	"time"

	"github.com/iwvelando/freedom-forecast/pkg/constants"
	"github.com/iwvelando/freedom-forecast/pkg/portfolio"
	"github.com/iwvelando/freedom-forecast/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for freedom-forecast.
type Configuration struct {
	Common    Common        `yaml:"common"`
	Scenarios []Scenario    `yaml:"scenarios,omitempty"`
	Logging   LoggingConfig `yaml:"logging,omitempty"`
	Output    OutputConfig  `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json
}

// Common holds the inputs shared by all scenarios.
type Common struct {
	StartYear           int               `yaml:"startYear,omitempty"` // 0 means the current year
	HorizonYears        int               `yaml:"horizonYears,omitempty"`
	CurrentAsset        float64           `yaml:"currentAsset"`
	TargetExpense       float64           `yaml:"targetExpense"`
	MonthlyContribution float64           `yaml:"monthlyContribution"`
	SelectedPeriod      string            `yaml:"selectedPeriod,omitempty"`
	Portfolio           []portfolio.Entry `yaml:"portfolio"`
}

// EffectiveStartYear returns the configured start year, or the year of now
// when none is configured.
func (c Common) EffectiveStartYear(now time.Time) int {
	if c.StartYear > 0 {
		return c.StartYear
	}
	return now.Year()
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault("common.horizonYears", constants.MaxFreedomYears)
	v.SetDefault("common.currentAsset", constants.RecommendedCurrentAsset)
	v.SetDefault("common.targetExpense", constants.RecommendedTargetExpense)
	v.SetDefault("common.monthlyContribution", constants.RecommendedMonthlyContribution)
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	configuration.applyDefaults()
	return &configuration, nil
}

// applyDefaults fills in the recommended portfolio and the implicit baseline
// scenario.
func (conf *Configuration) applyDefaults() {
	if len(conf.Common.Portfolio) == 0 {
		conf.Common.Portfolio = portfolio.Recommended().Entries
	}
	if len(conf.Scenarios) == 0 {
		conf.Scenarios = []Scenario{{Name: constants.DefaultScenarioName, Active: true}}
	}
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (conf *Configuration) ValidateConfiguration() []string {
	validator := validation.ConfigValidator{
		Common: validation.CommonConfig{
			HorizonYears:        conf.Common.HorizonYears,
			CurrentAsset:        conf.Common.CurrentAsset,
			TargetExpense:       conf.Common.TargetExpense,
			MonthlyContribution: conf.Common.MonthlyContribution,
			SelectedPeriod:      conf.Common.SelectedPeriod,
			Portfolio:           toEntryConfigs(conf.Common.Portfolio),
		},
	}

	for _, scenario := range conf.Scenarios {
		actions := make([]string, 0, len(scenario.Adjustments))
		for _, adjustment := range scenario.Adjustments {
			actions = append(actions, adjustment.Action)
		}
		validator.Scenarios = append(validator.Scenarios, validation.ScenarioConfig{
			Name:                scenario.Name,
			Active:              scenario.Active,
			CurrentAsset:        scenario.CurrentAsset,
			TargetExpense:       scenario.TargetExpense,
			MonthlyContribution: scenario.MonthlyContribution,
			SelectedPeriod:      scenario.SelectedPeriod,
			Portfolio:           toEntryConfigs(scenario.Portfolio),
			Actions:             actions,
		})
	}

	return validator.ValidateAll()
}

func toEntryConfigs(entries []portfolio.Entry) []validation.EntryConfig {
	configs := make([]validation.EntryConfig, 0, len(entries))
	for _, entry := range entries {
		configs = append(configs, validation.EntryConfig{
			Ticker:        entry.Ticker,
			AllocationPct: entry.AllocationPct,
			AvgYieldPct:   entry.AvgYieldPct,
		})
	}
	return configs
}

// Package config defines the data structures related to configuration and
// includes functions for loading and validating an analysis dataset.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/finance-analysis/pkg/constants"
	"github.com/iwvelando/finance-analysis/pkg/finance"
	"github.com/spf13/viper"
)

// Configuration holds a dataset to analyze and the options for reporting it.
type Configuration struct {
	Company    CompanyConfig               `yaml:"company,omitempty" json:"company,omitempty" mapstructure:"company"`
	Projection ProjectionConfig            `yaml:"projection,omitempty" json:"projection,omitempty" mapstructure:"projection"`
	Historical []finance.YearlyRecord      `yaml:"historical,omitempty" json:"historical,omitempty" mapstructure:"historical"`
	Monthly    []finance.MonthlyRecord     `yaml:"monthly,omitempty" json:"monthly,omitempty" mapstructure:"monthly"`
	SalesGoals []SalesGoal                 `yaml:"salesGoals,omitempty" json:"salesGoals,omitempty" mapstructure:"salesGoals" validate:"dive"`
	Projects   []finance.InvestmentProject `yaml:"projects,omitempty" json:"projects,omitempty" mapstructure:"projects"`
	Logging    LoggingConfig               `yaml:"logging,omitempty" json:"logging,omitempty" mapstructure:"logging"`
	Output     OutputConfig                `yaml:"output,omitempty" json:"output,omitempty" mapstructure:"output"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" json:"level,omitempty" mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	Format     string `yaml:"format,omitempty" json:"format,omitempty" mapstructure:"format" validate:"omitempty,oneof=json console"`
	OutputFile string `yaml:"outputFile,omitempty" json:"outputFile,omitempty" mapstructure:"outputFile"`
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format   string `yaml:"format,omitempty" json:"format,omitempty" mapstructure:"format" validate:"omitempty,oneof=pretty csv xlsx"`
	Currency string `yaml:"currency,omitempty" json:"currency,omitempty" mapstructure:"currency" validate:"omitempty,len=3,alpha"`
	File     string `yaml:"file,omitempty" json:"file,omitempty" mapstructure:"file"`
}

// CompanyConfig identifies whose statements are being analyzed.
type CompanyConfig struct {
	Name string `yaml:"name,omitempty" json:"name,omitempty" mapstructure:"name"`
}

// ProjectionConfig controls the projection horizon.
type ProjectionConfig struct {
	YearsAhead int `yaml:"yearsAhead,omitempty" json:"yearsAhead,omitempty" mapstructure:"yearsAhead" validate:"omitempty,min=1,max=10"`
}

// SalesGoal is an annual sales target to distribute across months.
type SalesGoal struct {
	Year   int     `yaml:"year" json:"year" mapstructure:"year" validate:"required,gt=0"`
	Amount float64 `yaml:"amount" json:"amount" mapstructure:"amount" validate:"gt=0"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.AutomaticEnv()

	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %w", err)
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	configuration.ApplyDefaults()
	return &configuration, nil
}

// ApplyDefaults fills unset options with their defaults. Values already set,
// including out-of-range ones, are kept so validation can report them.
func (c *Configuration) ApplyDefaults() {
	if c.Projection.YearsAhead == 0 {
		c.Projection.YearsAhead = constants.DefaultYearsAhead
	}
	if strings.TrimSpace(c.Output.Format) == "" {
		c.Output.Format = constants.OutputFormatPretty
	}
	c.Output.Format = strings.ToLower(strings.TrimSpace(c.Output.Format))
	if strings.TrimSpace(c.Output.Currency) == "" {
		c.Output.Currency = constants.DefaultCurrency
	}
	c.Output.Currency = strings.ToUpper(strings.TrimSpace(c.Output.Currency))
	if strings.TrimSpace(c.Output.File) == "" {
		c.Output.File = constants.DefaultXLSXFile
	}
	for i := range c.Historical {
		if c.Historical[i].Type == "" {
			c.Historical[i].Type = finance.Historical
		}
	}
}

// Package config defines the data structures related to configuration and
// includes functions for loading the config and turning its projects into
// engine inputs.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/solar-viability/pkg/constants"
	"github.com/iwvelando/solar-viability/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for solar-viability.
type Configuration struct {
	Logging  LoggingConfig `yaml:"logging,omitempty"`
	Output   OutputConfig  `yaml:"output,omitempty"`
	Defaults Defaults      `yaml:"defaults,omitempty"`
	Projects []Project     `yaml:"projects"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format         string `yaml:"format,omitempty"`         // pretty, csv, json
	CurrencySymbol string `yaml:"currencySymbol,omitempty"` // defaults to R$
	ExportDir      string `yaml:"exportDir,omitempty"`      // write one JSON export per project
}

// Defaults fill project fields left unset.
type Defaults struct {
	Lifetime           int     `yaml:"lifetime,omitempty"`
	SystemCostPerKWp   float64 `yaml:"systemCostPerKWp,omitempty"`
	InverterEfficiency float64 `yaml:"inverterEfficiency,omitempty"`
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

// LoadConfigurationFromReader loads a YAML configuration from r, e.g. an
// uploaded file.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// ActiveProjects returns the projects marked active, in file order.
func (c *Configuration) ActiveProjects() []Project {
	var active []Project
	for _, p := range c.Projects {
		if p.Active {
			active = append(active, p)
		}
	}
	return active
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if len(c.ActiveProjects()) == 0 {
		warnings = append(warnings, "No active projects configured")
	}

	seen := make(map[string]struct{})
	for _, p := range c.Projects {
		if _, dup := seen[p.Name]; dup {
			warnings = append(warnings, fmt.Sprintf("Project name '%s' is used more than once", p.Name))
		}
		seen[p.Name] = struct{}{}

		if !p.Active {
			continue
		}
		warnings = append(warnings, validation.ProjectWarnings(p.Name, p.ToProjectData(c.Defaults))...)
	}

	return warnings
}

package config

import (
	"github.com/iwvelando/solar-viability/pkg/irradiance"
	"github.com/iwvelando/solar-viability/pkg/viability"
)

// Project is one analysis entry of the configuration file.
type Project struct {
	Name        string                `yaml:"name"`
	Active      bool                  `yaml:"active"`
	Client      viability.Client      `yaml:"client"`
	Location    viability.Location    `yaml:"location"`
	Consumption viability.Consumption `yaml:"consumption"`
	System      viability.System      `yaml:"system"`
	Financials  viability.Financials  `yaml:"financials"`
	Financing   *viability.Financing  `yaml:"financing,omitempty"`
	Incentives  viability.Incentives  `yaml:"incentives,omitempty"`
}

// ToProjectData converts the entry into engine input. Unset fields are
// filled from defaults, the client name falls back to the project name, and
// a zero irradiance is taken from the region table when the region is known.
func (p Project) ToProjectData(defaults Defaults) viability.ProjectData {
	data := viability.ProjectData{
		Client:      p.Client,
		Location:    p.Location,
		Consumption: p.Consumption,
		System:      p.System,
		Financials:  p.Financials,
		Incentives:  p.Incentives,
	}
	if p.Financing != nil {
		f := *p.Financing
		data.Financing = &f
	}

	if data.Client.Name == "" {
		data.Client.Name = p.Name
	}
	if data.System.Lifetime == 0 && defaults.Lifetime > 0 {
		data.System.Lifetime = defaults.Lifetime
	}
	if data.System.InverterEfficiency == 0 && defaults.InverterEfficiency > 0 {
		data.System.InverterEfficiency = defaults.InverterEfficiency
	}
	return ApplyRegionIrradiance(data)
}

// ApplyRegionIrradiance fills a zero irradiance from the region table.
func ApplyRegionIrradiance(data viability.ProjectData) viability.ProjectData {
	if data.Location.Irradiance != 0 {
		return data
	}
	if value, ok := irradiance.Lookup(data.Location.Region); ok {
		return data.WithIrradiance(value)
	}
	return data
}

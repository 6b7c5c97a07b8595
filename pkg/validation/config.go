package validation

import (
	"fmt"

	"github.com/iwvelando/solar-viability/pkg/constants"
	"github.com/iwvelando/solar-viability/pkg/irradiance"
	"github.com/iwvelando/solar-viability/pkg/mathutil"
	"github.com/iwvelando/solar-viability/pkg/viability"
)

// ProjectWarnings flags inputs that are accepted but probably not what the
// user meant. Hard violations are reported by ProjectData.Validate instead.
func ProjectWarnings(name string, p viability.ProjectData) []string {
	var warnings []string

	if p.System.MonthlyGeneration == 0 && p.System.InstalledPower == 0 {
		warnings = append(warnings, fmt.Sprintf("Project '%s' has neither monthly generation nor installed power; it will produce nothing", name))
	}
	if p.Consumption.Monthly == 0 {
		warnings = append(warnings, fmt.Sprintf("Project '%s' has no consumption; all generation is treated as injected", name))
	}
	if mathutil.IsZero(p.Consumption.BlendedTariff()) {
		warnings = append(warnings, fmt.Sprintf("Project '%s' has a zero tariff; it cannot save anything", name))
	}
	if p.Financials.Investment == 0 {
		warnings = append(warnings, fmt.Sprintf("Project '%s' has no investment; ROI is reported as 0", name))
	}
	if p.Location.Irradiance == 0 {
		if _, ok := irradiance.Lookup(p.Location.Region); !ok {
			warnings = append(warnings, fmt.Sprintf("Project '%s' has no irradiance and region '%s' is unknown", name, p.Location.Region))
		}
	}
	if p.System.Lifetime > 0 && p.System.Lifetime != constants.DefaultLifetimeYears {
		warnings = append(warnings, fmt.Sprintf("Project '%s' uses a %d-year lifetime; sustainability figures still assume %d years",
			name, p.System.Lifetime, constants.SustainabilityHorizonYears))
	}
	if p.Financing != nil {
		warnings = append(warnings, fmt.Sprintf("Project '%s' financing terms are reported separately and do not affect viability metrics", name))
	}
	if p.Incentives.TaxDiscount != 0 || p.Incentives.Other != 0 {
		warnings = append(warnings, fmt.Sprintf("Project '%s' incentives are recorded but not applied to viability metrics", name))
	}

	return warnings
}

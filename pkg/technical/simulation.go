// Package technical provides the equipment-level simulation: expected
// generation from installed power and site irradiance, the power needed to
// cover consumption, and a simple payback against an assumed system cost.
//
// It is a quick sizing aid and is kept apart from the viability engine; its
// payback is undiscounted and uses a per-kWp cost assumption instead of the
// project's investment.
package technical

import (
	"math"

	"github.com/iwvelando/solar-viability/pkg/constants"
	"github.com/iwvelando/solar-viability/pkg/mathutil"
	"github.com/iwvelando/solar-viability/pkg/viability"
)

// DefaultInverterEfficiency is used when a project leaves the efficiency unset.
const DefaultInverterEfficiency = 97.0

// Result is the outcome of one simulation.
type Result struct {
	PerformanceRatio   float64 `json:"performanceRatio"`
	MonthlyGeneration  float64 `json:"monthlyGeneration"`
	AnnualGeneration   float64 `json:"annualGeneration"`
	RequiredPower      float64 `json:"requiredPower"` // kWp
	Coverage           float64 `json:"coverage"`      // % of consumption
	CostPerKWp         float64 `json:"costPerKWp"`
	EstimatedCost      float64 `json:"estimatedCost"`
	AnnualSavings      float64 `json:"annualSavings"`
	SimplePaybackYears float64 `json:"simplePaybackYears"`
	PaybackReached     bool    `json:"paybackReached"`
}

// PerformanceRatio combines inverter efficiency and system losses, both in
// percent, into a single derate factor.
func PerformanceRatio(inverterEfficiency, systemLoss float64) float64 {
	if inverterEfficiency <= 0 {
		inverterEfficiency = DefaultInverterEfficiency
	}
	pr := mathutil.ApplyPercentage(inverterEfficiency, constants.PercentageMultiplier-systemLoss) / constants.PercentageMultiplier
	return math.Max(0, pr)
}

// MonthlyGeneration estimates kWh per month for kwp installed at a site with
// the given daily irradiance.
func MonthlyGeneration(kwp, irradiance, performanceRatio float64) float64 {
	return kwp * irradiance * constants.DaysPerMonth * performanceRatio
}

// Simulate sizes the system described by p. costPerKWp <= 0 selects the
// default assumption.
func Simulate(p viability.ProjectData, costPerKWp float64) Result {
	if costPerKWp <= 0 {
		costPerKWp = constants.DefaultSystemCostPerKWp
	}

	pr := PerformanceRatio(p.System.InverterEfficiency, p.System.SystemLoss)
	monthly := MonthlyGeneration(p.System.InstalledPower, p.Location.Irradiance, pr)

	r := Result{
		PerformanceRatio:  pr,
		MonthlyGeneration: monthly,
		AnnualGeneration:  monthly * constants.MonthsPerYear,
		Coverage:          mathutil.CalculatePercentage(monthly, p.Consumption.Monthly),
		CostPerKWp:        costPerKWp,
		EstimatedCost:     p.System.InstalledPower * costPerKWp,
	}

	if perKWp := MonthlyGeneration(1, p.Location.Irradiance, pr); perKWp > 0 {
		r.RequiredPower = p.Consumption.Monthly / perKWp
	}

	r.AnnualSavings = math.Min(monthly, p.Consumption.Monthly) * constants.MonthsPerYear * p.Consumption.BlendedTariff()
	if r.AnnualSavings > 0 {
		r.SimplePaybackYears = r.EstimatedCost / r.AnnualSavings
		r.PaybackReached = true
	}
	return r
}

package viability

import "github.com/iwvelando/solar-viability/pkg/constants"

// ComputeSustainability derives 25-year production and its CO2 and tree
// equivalents. Production uses a flat 90% average degradation rather than the
// yearly compounding of the cash flow projection.
func ComputeSustainability(annualGeneration float64) SustainabilityMetrics {
	production := annualGeneration * constants.SustainabilityHorizonYears * constants.SustainabilityDegradationFactor
	co2 := production * constants.CO2KgPerKWh / constants.KgPerTonne

	return SustainabilityMetrics{
		Production25Years: production,
		CO2AvoidedTonnes:  co2,
		TreesEquivalent:   co2 / constants.TreeTonnesCO2,
	}
}

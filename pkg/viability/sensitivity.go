package viability

import "github.com/iwvelando/solar-viability/pkg/constants"

// AnalyzeSensitivity reruns the pipeline with one parameter perturbed at a
// time and keeps the NPV of each run. The input is never modified.
func AnalyzeSensitivity(p ProjectData) SensitivityAnalysis {
	blended := p.Consumption.BlendedTariff()
	investment := p.Financials.Investment

	return SensitivityAnalysis{
		Tariff: SensitivityBand{
			Pessimistic: scenarioNPV(p.WithBlendedTariff(blended * constants.TariffPessimisticFactor)),
			Optimistic:  scenarioNPV(p.WithBlendedTariff(blended * constants.TariffOptimisticFactor)),
		},
		Irradiation: SensitivityBand{
			Pessimistic: scenarioNPV(p.WithIrradianceScale(constants.IrradiationPessimisticFactor)),
			Optimistic:  scenarioNPV(p.WithIrradianceScale(constants.IrradiationOptimisticFactor)),
		},
		Cost: SensitivityBand{
			Pessimistic: scenarioNPV(p.WithInvestment(investment * constants.CostPessimisticFactor)),
			Optimistic:  scenarioNPV(p.WithInvestment(investment * constants.CostOptimisticFactor)),
		},
	}
}

func scenarioNPV(p ProjectData) float64 {
	return compute(p, false).Financial.NPV
}

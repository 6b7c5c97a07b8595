package viability

import (
	"math"

	"github.com/iwvelando/solar-viability/pkg/constants"
	"github.com/iwvelando/solar-viability/pkg/mathutil"
)

// CashFlowProjection is the yearly net cash flow series of a project.
type CashFlowProjection struct {
	// Flows has Lifetime()+1 entries; index 0 is the negated investment.
	Flows             []float64
	CumulativeSavings float64
	AnnualGeneration  float64
	AnnualConsumption float64
}

// ProjectCashFlows builds the year 0..lifetime cash flow series. Output
// degrades 0.5% per year from full output in year 1, energy up to the
// consumption is valued at the tariff and the excess is credited at 95% of
// it. Tariff and maintenance escalate after each year.
func ProjectCashFlows(p ProjectData) CashFlowProjection {
	lifetime := p.Lifetime()
	generationAnnual := p.System.MonthlyGeneration * constants.MonthsPerYear
	consumptionAnnual := p.Consumption.Monthly * constants.MonthsPerYear

	tariff := p.Consumption.BlendedTariff()
	maintenance := p.Financials.Maintenance

	flows := make([]float64, lifetime+1)
	flows[0] = -p.Financials.Investment

	cumulative := 0.0
	for year := 1; year <= lifetime; year++ {
		degradation := math.Pow(1-constants.AnnualDegradation, float64(year-1))
		generation := generationAnnual * degradation

		selfConsumed := math.Min(generation, consumptionAnnual) * tariff
		injected := math.Max(0, generation-consumptionAnnual) * tariff * constants.InjectionCreditFactor

		flows[year] = selfConsumed + injected - maintenance
		cumulative += flows[year]

		tariff = mathutil.Escalate(tariff, p.Consumption.Escalation)
		maintenance = mathutil.Escalate(maintenance, p.Financials.MaintenanceEscalation)
	}

	return CashFlowProjection{
		Flows:             flows,
		CumulativeSavings: cumulative,
		AnnualGeneration:  generationAnnual,
		AnnualConsumption: consumptionAnnual,
	}
}

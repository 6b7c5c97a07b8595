package viability

import (
	"math"

	"github.com/iwvelando/solar-viability/pkg/constants"
	"github.com/iwvelando/solar-viability/pkg/mathutil"
)

// Payback walks the cumulative cash flow and returns i + |before|/flow_i for
// the first year i whose running sum turns non-negative, before being the
// cumulative sum up to year i-1. A project that breaks even during year i is
// therefore reported as i plus the fraction of flow_i needed to close the gap.
// When the horizon ends before that happens it returns (0, false).
func Payback(flows []float64) (float64, bool) {
	cumulative := 0.0
	for i, flow := range flows {
		before := cumulative
		cumulative += flow
		if cumulative < 0 {
			continue
		}
		if i == 0 {
			return 0, true
		}
		return float64(i) + math.Abs(before)/flow, true
	}
	return 0, false
}

// NPVAt discounts flows at rate, flow t being divided by (1+rate)^t.
func NPVAt(flows []float64, rate float64) float64 {
	npv := 0.0
	for t, flow := range flows {
		npv += flow / math.Pow(1+rate, float64(t))
	}
	return npv
}

// NPV discounts flows at the fixed 10% annual rate.
func NPV(flows []float64) float64 {
	return NPVAt(flows, constants.DiscountRate)
}

func npvDerivative(flows []float64, rate float64) float64 {
	d := 0.0
	for t, flow := range flows {
		d -= float64(t) * flow / math.Pow(1+rate, float64(t+1))
	}
	return d
}

// IRRResult is the outcome of the Newton-Raphson search.
type IRRResult struct {
	Rate       float64 // %
	Iterations int
	Converged  bool
}

// IRR approximates the internal rate of return with Newton-Raphson starting
// at 10%. The rate is clamped to [-99%, 1000%] after each step and the search
// stops once |NPV| < 0.01 or after 100 iterations. Whatever rate it lands on
// is returned; Converged tells whether the tolerance was met.
//
// Long horizons pinned at -99% overflow the discount factors. The search
// then stops and keeps the last finite rate.
func IRR(flows []float64) IRRResult {
	rate := constants.IRRInitialGuess
	result := IRRResult{}

	for result.Iterations = 0; result.Iterations < constants.IRRMaxIterations; result.Iterations++ {
		f := NPVAt(flows, rate)
		if !isFinite(f) {
			break
		}
		if mathutil.WithinTolerance(f, 0, constants.IRRTolerance) {
			result.Converged = true
			break
		}
		d := npvDerivative(flows, rate)
		if d == 0 || !isFinite(d) {
			break
		}
		next := mathutil.Clamp(rate-f/d, constants.IRRMinRate, constants.IRRMaxRate)
		if !isFinite(next) {
			break
		}
		rate = next
	}
	if !result.Converged {
		f := NPVAt(flows, rate)
		result.Converged = isFinite(f) && mathutil.WithinTolerance(f, 0, constants.IRRTolerance)
	}

	result.Rate = rate * constants.PercentageMultiplier
	return result
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ROI is cumulative net savings over the investment, in percent. A zero
// investment yields 0.
func ROI(cumulativeSavings, investment float64) float64 {
	return mathutil.CalculatePercentage(cumulativeSavings, investment)
}

// SelfConsumption returns the share of consumption covered by generation,
// capped at 100, and the complementary grid injection share. Zero
// consumption means everything is injected.
func SelfConsumption(annualGeneration, annualConsumption float64) (selfConsumption, gridInjection float64) {
	selfConsumption = math.Min(100, mathutil.CalculatePercentage(annualGeneration, annualConsumption))
	gridInjection = math.Max(0, 100-selfConsumption)
	return selfConsumption, gridInjection
}

// Package financing computes the installment schedule of a project's
// optional financing terms. The summary is informational: none of its
// figures feed the viability metrics.
package financing

import (
	"fmt"
	"math"

	"github.com/iwvelando/solar-viability/pkg/constants"
	"github.com/iwvelando/solar-viability/pkg/mathutil"
	"github.com/iwvelando/solar-viability/pkg/viability"
	"go.uber.org/zap"
)

// Payment holds the values for a given installment.
type Payment struct {
	Month              int     `json:"month"`
	Payment            float64 `json:"payment"`
	Principal          float64 `json:"principal"`
	Interest           float64 `json:"interest"`
	RemainingPrincipal float64 `json:"remainingPrincipal"`
}

// Summary describes a financing plan.
type Summary struct {
	Principal      float64   `json:"principal"`
	MonthlyPayment float64   `json:"monthlyPayment"`
	TotalPaid      float64   `json:"totalPaid"`
	TotalInterest  float64   `json:"totalInterest"`
	Schedule       []Payment `json:"schedule,omitempty"`
}

// CalculateMonthlyPayment calculates the fixed installment with the standard
// amortization formula. The rate is a monthly percentage.
func CalculateMonthlyPayment(amount, downPayment, monthlyInterestRate float64, termMonths int) float64 {
	principal := amount - downPayment
	if termMonths <= 0 || principal <= 0 {
		return 0
	}
	if monthlyInterestRate == 0 {
		return principal / float64(termMonths)
	}

	rate := monthlyInterestRate / constants.PercentageMultiplier
	power := math.Pow(1+rate, float64(termMonths))
	discountFactor := (power - 1) / power
	return principal * rate / discountFactor
}

// CalculateInterestPayment calculates the interest portion of an installment.
func CalculateInterestPayment(remainingPrincipal, monthlyInterestRate float64) float64 {
	return remainingPrincipal * monthlyInterestRate / constants.PercentageMultiplier
}

// ScheduleGenerator builds installment schedules.
type ScheduleGenerator struct {
	logger *zap.Logger
}

// NewScheduleGenerator creates a new generator instance
func NewScheduleGenerator(logger *zap.Logger) *ScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleGenerator{logger: logger}
}

// Summarize builds the schedule for f. A nil f yields (nil, nil).
func (g *ScheduleGenerator) Summarize(f *viability.Financing) (*Summary, error) {
	if f == nil {
		return nil, nil
	}
	if f.TermMonths <= 0 {
		return nil, fmt.Errorf("financing term must be positive, got %d months", f.TermMonths)
	}
	if f.MonthlyInterestRate < 0 {
		return nil, fmt.Errorf("financing interest rate must be >= 0, got %g", f.MonthlyInterestRate)
	}
	if f.DownPayment > f.Amount {
		return nil, fmt.Errorf("down payment %.2f exceeds financed amount %.2f", f.DownPayment, f.Amount)
	}

	principal := f.Amount - f.DownPayment
	monthlyPayment := CalculateMonthlyPayment(f.Amount, f.DownPayment, f.MonthlyInterestRate, f.TermMonths)

	summary := &Summary{
		Principal:      principal,
		MonthlyPayment: monthlyPayment,
		Schedule:       make([]Payment, 0, f.TermMonths),
	}

	remaining := principal
	for month := 1; month <= f.TermMonths; month++ {
		var current Payment
		current.Month = month
		current.Interest = CalculateInterestPayment(remaining, f.MonthlyInterestRate)
		current.Principal = monthlyPayment - current.Interest
		current.Payment = monthlyPayment

		if month == f.TermMonths || mathutil.Round(remaining-current.Principal) == 0 {
			// Absorb machine error into the last installment.
			current.Principal = remaining
			current.Payment = remaining + current.Interest
			current.RemainingPrincipal = 0
		} else {
			current.RemainingPrincipal = remaining - current.Principal
		}

		summary.TotalPaid += current.Payment
		summary.TotalInterest += current.Interest
		summary.Schedule = append(summary.Schedule, current)
		remaining = current.RemainingPrincipal

		if remaining == 0 {
			break
		}
	}

	g.logger.Debug("financing schedule generated",
		zap.String("op", "financing.Summarize"),
		zap.Float64("principal", principal),
		zap.Float64("monthlyPayment", monthlyPayment),
		zap.Int("installments", len(summary.Schedule)),
	)
	return summary, nil
}

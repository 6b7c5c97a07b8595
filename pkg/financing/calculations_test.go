package financing

import (
	"math"
	"testing"

	"github.com/iwvelando/solar-viability/pkg/viability"
	"go.uber.org/zap"
)

func TestCalculateMonthlyPayment(t *testing.T) {
	tests := []struct {
		name          string
		amount        float64
		downPayment   float64
		monthlyRate   float64
		termMonths    int
		expectedRange []float64 // [min, max] expected range
	}{
		{
			name:          "Four-year solar loan",
			amount:        18000,
			downPayment:   3000,
			monthlyRate:   1.5,
			termMonths:    48,
			expectedRange: []float64{440, 441}, // Around 440.61
		},
		{
			name:          "Zero interest",
			amount:        12000,
			downPayment:   2000,
			monthlyRate:   0,
			termMonths:    60,
			expectedRange: []float64{166, 167},
		},
		{
			name:          "Fully paid upfront",
			amount:        18000,
			downPayment:   18000,
			monthlyRate:   1.2,
			termMonths:    36,
			expectedRange: []float64{0, 0},
		},
		{
			name:          "No term",
			amount:        18000,
			monthlyRate:   1.2,
			termMonths:    0,
			expectedRange: []float64{0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateMonthlyPayment(tt.amount, tt.downPayment, tt.monthlyRate, tt.termMonths)
			if got < tt.expectedRange[0] || got > tt.expectedRange[1] {
				t.Errorf("CalculateMonthlyPayment() = %.2f, expected between %.2f and %.2f",
					got, tt.expectedRange[0], tt.expectedRange[1])
			}
		})
	}
}

func TestCalculateInterestPayment(t *testing.T) {
	if got := CalculateInterestPayment(10000, 1.5); math.Abs(got-150) > 1e-9 {
		t.Errorf("CalculateInterestPayment() = %.4f, expected 150", got)
	}
}

func TestSummarize(t *testing.T) {
	g := NewScheduleGenerator(zap.NewNop())

	summary, err := g.Summarize(&viability.Financing{
		Amount:              18000,
		DownPayment:         3000,
		MonthlyInterestRate: 1.5,
		TermMonths:          48,
	})
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	if len(summary.Schedule) != 48 {
		t.Fatalf("expected 48 installments, got %d", len(summary.Schedule))
	}
	if summary.Principal != 15000 {
		t.Errorf("expected principal 15000, got %.2f", summary.Principal)
	}
	last := summary.Schedule[len(summary.Schedule)-1]
	if last.RemainingPrincipal != 0 {
		t.Errorf("expected zero remaining principal, got %.4f", last.RemainingPrincipal)
	}

	principalPaid := 0.0
	for _, p := range summary.Schedule {
		principalPaid += p.Principal
	}
	if math.Abs(principalPaid-15000) > 0.01 {
		t.Errorf("principal paid %.2f does not match financed principal", principalPaid)
	}
	if math.Abs(summary.TotalPaid-(summary.Principal+summary.TotalInterest)) > 0.01 {
		t.Errorf("total paid %.2f != principal + interest %.2f", summary.TotalPaid, summary.Principal+summary.TotalInterest)
	}
	if summary.TotalInterest <= 0 {
		t.Errorf("expected positive interest, got %.2f", summary.TotalInterest)
	}
}

func TestSummarizeZeroInterest(t *testing.T) {
	summary, err := NewScheduleGenerator(nil).Summarize(&viability.Financing{Amount: 1200, TermMonths: 12})
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if summary.MonthlyPayment != 100 {
		t.Errorf("expected 100 per month, got %.2f", summary.MonthlyPayment)
	}
	if summary.TotalInterest != 0 {
		t.Errorf("expected no interest, got %.2f", summary.TotalInterest)
	}
}

func TestSummarizeNil(t *testing.T) {
	summary, err := NewScheduleGenerator(nil).Summarize(nil)
	if err != nil || summary != nil {
		t.Fatalf("expected (nil, nil), got (%v, %v)", summary, err)
	}
}

func TestSummarizeInvalid(t *testing.T) {
	tests := []struct {
		name string
		f    viability.Financing
	}{
		{"No term", viability.Financing{Amount: 1000}},
		{"Negative rate", viability.Financing{Amount: 1000, TermMonths: 12, MonthlyInterestRate: -1}},
		{"Down payment too large", viability.Financing{Amount: 1000, DownPayment: 2000, TermMonths: 12}},
	}

	g := NewScheduleGenerator(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tt.f
			if _, err := g.Summarize(&f); err == nil {
				t.Errorf("expected error")
			}
		})
	}
}

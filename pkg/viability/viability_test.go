package viability

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/iwvelando/solar-viability/pkg/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// referenceProject is the 3 kWp residential example used across tests.
func referenceProject() ProjectData {
	return ProjectData{
		Client:   Client{Name: "Reference", Segment: SegmentResidential},
		Location: Location{City: "Campinas", Region: "SP", Irradiance: 5.5},
		Consumption: Consumption{
			Monthly:    300,
			Tariff:     0.75,
			Surcharge:  0.05,
			Escalation: 8,
		},
		System: System{
			InstalledPower:     3,
			MonthlyGeneration:  450,
			InverterEfficiency: 97,
			SystemLoss:         14,
			Lifetime:           25,
		},
		Financials: Financials{
			Investment:            18000,
			Maintenance:           200,
			MaintenanceEscalation: 5,
		},
	}
}

func TestProjectCashFlowsReference(t *testing.T) {
	projection := ProjectCashFlows(referenceProject())

	require.Len(t, projection.Flows, 26)
	assert.Equal(t, -18000.0, projection.Flows[0])
	assert.InDelta(t, 5400.0, projection.AnnualGeneration, 1e-9)
	assert.InDelta(t, 3600.0, projection.AnnualConsumption, 1e-9)
	assert.InDelta(t, 4048.0, projection.Flows[1], 1e-6)

	// Year 2: 5373 kWh at 0.864 with maintenance at 210.
	assert.InDelta(t, 3600*0.864+1773*0.864*0.95-210, projection.Flows[2], 1e-6)

	sum := 0.0
	for _, flow := range projection.Flows[1:] {
		sum += flow
	}
	assert.InDelta(t, sum, projection.CumulativeSavings, 1e-6)
}

func TestProjectCashFlowsLifetime(t *testing.T) {
	tests := []struct {
		name     string
		lifetime int
		expected int
	}{
		{"Default lifetime", 0, 26},
		{"Short lifetime", 10, 11},
		{"Long lifetime", 30, 31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := referenceProject()
			p.System.Lifetime = tt.lifetime
			flows := ProjectCashFlows(p).Flows
			assert.Len(t, flows, tt.expected)
			assert.Equal(t, -18000.0, flows[0])
		})
	}
}

func TestProjectCashFlowsZeroConsumption(t *testing.T) {
	p := referenceProject()
	p.Consumption.Monthly = 0

	flows := ProjectCashFlows(p).Flows
	assert.InDelta(t, 5400*0.80*0.95-200, flows[1], 1e-6)
}

func TestProjectCashFlowsDeflation(t *testing.T) {
	p := referenceProject()
	p.Consumption.Escalation = -10
	p.Financials.MaintenanceEscalation = 0

	flows := ProjectCashFlows(p).Flows
	assert.Less(t, flows[2], flows[1])
}

func TestPayback(t *testing.T) {
	tests := []struct {
		name        string
		flows       []float64
		wantYears   float64
		wantReached bool
	}{
		{"Exact at year boundary", []float64{-100, 50, 50}, 3, true},
		{"Interpolated", []float64{-100, 40, 40, 40}, 3.5, true},
		{"Never reached", []float64{-1000, 10, 10}, 0, false},
		{"No investment", []float64{0, 10, 10}, 0, true},
		{"First year", []float64{-100, 400}, 1.25, true},
		{"Break-even at year end", []float64{-100, 100, 0}, 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			years, reached := Payback(tt.flows)
			assert.Equal(t, tt.wantReached, reached)
			assert.InDelta(t, tt.wantYears, years, 1e-9)
		})
	}
}

func TestPaybackReference(t *testing.T) {
	years, reached := Payback(ProjectCashFlows(referenceProject()).Flows)
	require.True(t, reached)
	assert.InDelta(t, 4.97365, years, 1e-4)
	assert.Equal(t, 30, paybackPoints(years, reached))
}

func TestPaybackScoreTier(t *testing.T) {
	p := referenceProject()
	p.Financials.Investment = 21000

	m, err := Compute(p)
	require.NoError(t, err)
	assert.InDelta(t, 5.52846, m.Financial.PaybackYears, 1e-4)
	assert.Equal(t, 25, m.ScoreBreakdown.Payback)
}

func TestNPVMatchesAnalyticalSum(t *testing.T) {
	flows := ProjectCashFlows(referenceProject()).Flows

	expected := 0.0
	for year, flow := range flows {
		expected += flow / math.Pow(1.10, float64(year))
	}

	got := NPV(flows)
	assert.InEpsilon(t, expected, got, 1e-6)
	assert.InDelta(t, 0.0, NPV([]float64{-100, 110}), 1e-9)
}

func TestIRR(t *testing.T) {
	tests := []struct {
		name  string
		flows []float64
		rate  float64
	}{
		{"Single period", []float64{-100, 110}, 10},
		{"Two periods", []float64{-1000, 600, 600}, 13.066},
		{"Reference project", ProjectCashFlows(referenceProject()).Flows, math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IRR(tt.flows)
			require.True(t, result.Converged)
			assert.Less(t, math.Abs(NPVAt(tt.flows, result.Rate/100)), 0.01)
			if !math.IsNaN(tt.rate) {
				assert.InDelta(t, tt.rate, result.Rate, 0.01)
			}
		})
	}
}

func TestIRRWithoutSignChange(t *testing.T) {
	result := IRR([]float64{100, 100, 100})
	assert.False(t, result.Converged)
	assert.LessOrEqual(t, result.Rate, 1000.0)
	assert.GreaterOrEqual(t, result.Rate, -99.0)
	assert.LessOrEqual(t, result.Iterations, 100)
}

func TestIRRLongHorizonStaysFinite(t *testing.T) {
	p := referenceProject()
	p.Financials.Investment = 1e9
	p.System.Lifetime = 200

	result := IRR(ProjectCashFlows(p).Flows)
	assert.False(t, math.IsNaN(result.Rate) || math.IsInf(result.Rate, 0), "rate %v", result.Rate)
	assert.GreaterOrEqual(t, result.Rate, -99.0)
	assert.LessOrEqual(t, result.Rate, 1000.0)

	_, err := json.Marshal(FinancialMetrics{IRR: result.Rate, IRRConverged: result.Converged})
	assert.NoError(t, err)
}

func TestComputeDeepLossMarshals(t *testing.T) {
	p := referenceProject()
	p.Financials.Investment = 1e9
	p.System.Lifetime = constants.MaxLifetimeYears

	m, err := Compute(p)
	require.NoError(t, err)
	assert.False(t, m.Financial.PaybackReached)
	assert.Equal(t, ClassificationPoor, m.Classification)

	_, err = json.Marshal(m)
	assert.NoError(t, err)
}

func TestROI(t *testing.T) {
	assert.InDelta(t, 250.0, ROI(45000, 18000), 1e-9)
	assert.Equal(t, 0.0, ROI(45000, 0))
}

func TestSelfConsumptionBounds(t *testing.T) {
	generations := []float64{0, 100, 3599, 3600, 5400, 1e6}
	consumptions := []float64{0, 1, 1200, 3600, 7777.7}

	for _, g := range generations {
		for _, c := range consumptions {
			self, grid := SelfConsumption(g, c)
			assert.GreaterOrEqual(t, self, 0.0)
			assert.LessOrEqual(t, self, 100.0)
			assert.Equal(t, 100.0, self+grid, "generation=%v consumption=%v", g, c)
		}
	}

	self, grid := SelfConsumption(5400, 3600)
	assert.Equal(t, 100.0, self)
	assert.Equal(t, 0.0, grid)

	self, grid = SelfConsumption(1800, 3600)
	assert.Equal(t, 50.0, self)
	assert.Equal(t, 50.0, grid)
}

func TestComputeSustainability(t *testing.T) {
	s := ComputeSustainability(5400)
	assert.InDelta(t, 121500.0, s.Production25Years, 1e-6)
	assert.InDelta(t, 10.29105, s.CO2AvoidedTonnes, 1e-9)
	assert.InDelta(t, 467.775, s.TreesEquivalent, 1e-6)
}

func TestScoreTable(t *testing.T) {
	tests := []struct {
		name     string
		in       ScoreInput
		expected ScoreBreakdown
	}{
		{
			name:     "Top of every band",
			in:       ScoreInput{PaybackYears: 5, PaybackReached: true, NPV: 1000, Investment: 1000, IRR: 20, SelfConsumption: 90, Irradiance: 6},
			expected: ScoreBreakdown{Payback: 30, NPV: 25, IRR: 20, SelfConsumption: 15, Irradiance: 10},
		},
		{
			name:     "Second band boundaries",
			in:       ScoreInput{PaybackYears: 7, PaybackReached: true, NPV: 500, Investment: 1000, IRR: 15, SelfConsumption: 70, Irradiance: 5.5},
			expected: ScoreBreakdown{Payback: 25, NPV: 20, IRR: 15, SelfConsumption: 12, Irradiance: 8},
		},
		{
			name:     "Third band boundaries",
			in:       ScoreInput{PaybackYears: 10, PaybackReached: true, NPV: 0, Investment: 1000, IRR: 12, SelfConsumption: 50, Irradiance: 5},
			expected: ScoreBreakdown{Payback: 20, NPV: 15, IRR: 10, SelfConsumption: 8, Irradiance: 6},
		},
		{
			name:     "Fourth band boundaries",
			in:       ScoreInput{PaybackYears: 15, PaybackReached: true, NPV: -200, Investment: 1000, IRR: 8, SelfConsumption: 30, Irradiance: 4.5},
			expected: ScoreBreakdown{Payback: 10, NPV: 5, IRR: 5, SelfConsumption: 4, Irradiance: 4},
		},
		{
			name:     "Below every band",
			in:       ScoreInput{PaybackYears: 15.01, PaybackReached: true, NPV: -201, Investment: 1000, IRR: 7.99, SelfConsumption: 29.9, Irradiance: 4.49},
			expected: ScoreBreakdown{},
		},
		{
			name:     "Unreached payback earns nothing",
			in:       ScoreInput{PaybackYears: 0, PaybackReached: false},
			expected: ScoreBreakdown{NPV: 25},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Score(tt.in))
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		score    int
		expected Classification
	}{
		{100, ClassificationExcellent},
		{85, ClassificationExcellent},
		{84, ClassificationVeryGood},
		{70, ClassificationVeryGood},
		{69, ClassificationGood},
		{55, ClassificationGood},
		{54, ClassificationRegular},
		{40, ClassificationRegular},
		{39, ClassificationPoor},
		{0, ClassificationPoor},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Classify(tt.score), "score %d", tt.score)
	}
}

func TestComputeReference(t *testing.T) {
	m, err := Compute(referenceProject())
	require.NoError(t, err)

	assert.Len(t, m.CashFlows, 26)
	assert.InDelta(t, 4048.0, m.Savings.Annual, 1e-6)
	assert.InDelta(t, 5400.0, m.Production.Annual, 1e-9)
	assert.Equal(t, 100.0, m.Production.SelfConsumption)
	assert.Equal(t, 0.0, m.Production.GridInjection)
	assert.True(t, m.Financial.PaybackReached)
	assert.True(t, m.Financial.IRRConverged)
	assert.Greater(t, m.Financial.NPV, 18000.0)
	assert.Greater(t, m.Financial.IRR, 20.0)
	assert.InDelta(t, m.Savings.Cumulative/18000*100, m.Financial.ROI, 1e-9)
	assert.Equal(t, ScoreBreakdown{Payback: 30, NPV: 25, IRR: 20, SelfConsumption: 15, Irradiance: 8}, m.ScoreBreakdown)
	assert.Equal(t, 98, m.Score)
	assert.Equal(t, ClassificationExcellent, m.Classification)
	assert.InDelta(t, 10.29105, m.Sustainability.CO2AvoidedTonnes, 1e-9)
}

func TestComputeScoreRange(t *testing.T) {
	projects := []ProjectData{referenceProject()}

	poor := referenceProject()
	poor.Financials.Investment = 500000
	poor.Location.Irradiance = 3
	poor.System.MonthlyGeneration = 50
	projects = append(projects, poor)

	idle := referenceProject()
	idle.System.MonthlyGeneration = 0
	projects = append(projects, idle)

	free := referenceProject()
	free.Financials.Investment = 0
	projects = append(projects, free)

	for _, p := range projects {
		m, err := Compute(p)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, m.Score, 0)
		assert.LessOrEqual(t, m.Score, 100)
		assert.Equal(t, Classify(m.Score), m.Classification)
	}
}

func TestSensitivityMonotonicity(t *testing.T) {
	variants := []ProjectData{referenceProject()}

	small := referenceProject()
	small.System.MonthlyGeneration = 120
	small.Financials.Investment = 9000
	variants = append(variants, small)

	flat := referenceProject()
	flat.Consumption.Escalation = 0
	flat.Financials.Maintenance = 0
	variants = append(variants, flat)

	for _, p := range variants {
		m, err := Compute(p)
		require.NoError(t, err)

		base := m.Financial.NPV
		assert.GreaterOrEqual(t, m.Sensitivity.Tariff.Optimistic, base)
		assert.LessOrEqual(t, m.Sensitivity.Tariff.Pessimistic, base)
		assert.GreaterOrEqual(t, m.Sensitivity.Cost.Optimistic, base)
		assert.LessOrEqual(t, m.Sensitivity.Cost.Pessimistic, base)
		assert.GreaterOrEqual(t, m.Sensitivity.Irradiation.Optimistic, base)
		assert.LessOrEqual(t, m.Sensitivity.Irradiation.Pessimistic, base)
	}
}

func TestSensitivityCostBand(t *testing.T) {
	p := referenceProject()
	m, err := Compute(p)
	require.NoError(t, err)

	// Investment only moves the undiscounted year 0 flow.
	assert.InDelta(t, m.Financial.NPV-0.2*18000, m.Sensitivity.Cost.Pessimistic, 1e-6)
	assert.InDelta(t, m.Financial.NPV+0.2*18000, m.Sensitivity.Cost.Optimistic, 1e-6)
}

func TestSensitivityDoesNotMutateInput(t *testing.T) {
	p := referenceProject()
	p.Financing = &Financing{Amount: 10000, MonthlyInterestRate: 1.2, TermMonths: 48}
	before := p.Clone()

	_, err := Compute(p)
	require.NoError(t, err)
	assert.Equal(t, before, p)
}

func TestOverrides(t *testing.T) {
	p := referenceProject()

	tariff := p.WithBlendedTariff(0.64)
	assert.InDelta(t, 0.64, tariff.Consumption.BlendedTariff(), 1e-12)
	assert.Equal(t, 0.05, tariff.Consumption.Surcharge)

	irr := p.WithIrradianceScale(0.9)
	assert.InDelta(t, 4.95, irr.Location.Irradiance, 1e-12)
	assert.InDelta(t, 405.0, irr.System.MonthlyGeneration, 1e-12)

	assert.Equal(t, 21600.0, p.WithInvestment(21600).Financials.Investment)
	assert.Equal(t, 500.0, p.WithMonthlyGeneration(500).System.MonthlyGeneration)
	assert.Equal(t, 6.1, p.WithIrradiance(6.1).Location.Irradiance)

	assert.Equal(t, referenceProject(), p)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ProjectData)
		wantErr bool
	}{
		{"Valid", func(p *ProjectData) {}, false},
		{"Negative escalation is deflation", func(p *ProjectData) { p.Consumption.Escalation = -3 }, false},
		{"Negative irradiance", func(p *ProjectData) { p.Location.Irradiance = -1 }, true},
		{"Negative consumption", func(p *ProjectData) { p.Consumption.Monthly = -1 }, true},
		{"Negative tariff", func(p *ProjectData) { p.Consumption.Tariff = -0.1 }, true},
		{"Negative investment", func(p *ProjectData) { p.Financials.Investment = -1 }, true},
		{"Negative lifetime", func(p *ProjectData) { p.System.Lifetime = -5 }, true},
		{"Longest lifetime", func(p *ProjectData) { p.System.Lifetime = constants.MaxLifetimeYears }, false},
		{"Lifetime above cap", func(p *ProjectData) { p.System.Lifetime = constants.MaxLifetimeYears + 1 }, true},
		{"Huge lifetime", func(p *ProjectData) { p.System.Lifetime = 2000000000 }, true},
		{"Unknown segment", func(p *ProjectData) { p.Client.Segment = "orbital" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := referenceProject()
			tt.mutate(&p)
			err := p.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, ErrInvalidProject))

			_, computeErr := Compute(p)
			assert.ErrorIs(t, computeErr, ErrInvalidProject)
		})
	}
}

func TestAnalyzer(t *testing.T) {
	analyzer := NewAnalyzer(zap.NewNop())
	m, err := analyzer.Analyze(referenceProject())
	require.NoError(t, err)
	assert.Equal(t, 98, m.Score)

	p := referenceProject()
	p.Financials.Investment = -10
	_, err = NewAnalyzer(nil).Analyze(p)
	assert.ErrorIs(t, err, ErrInvalidProject)
}

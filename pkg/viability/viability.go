package viability

import (
	"go.uber.org/zap"
)

// Compute validates p and runs the full pipeline: cash flows, financial
// metrics, production and sustainability, sensitivity, and scoring.
func Compute(p ProjectData) (ViabilityMetrics, error) {
	if err := p.Validate(); err != nil {
		return ViabilityMetrics{}, err
	}
	return compute(p, true), nil
}

// compute runs the pipeline on a validated input. Sensitivity scenarios call
// it with withSensitivity false so they do not recurse.
func compute(p ProjectData, withSensitivity bool) ViabilityMetrics {
	projection := ProjectCashFlows(p)

	var m ViabilityMetrics
	m.CashFlows = projection.Flows

	m.Financial.PaybackYears, m.Financial.PaybackReached = Payback(projection.Flows)
	m.Financial.NPV = NPV(projection.Flows)
	irr := IRR(projection.Flows)
	m.Financial.IRR = irr.Rate
	m.Financial.IRRConverged = irr.Converged
	m.Financial.ROI = ROI(projection.CumulativeSavings, p.Financials.Investment)

	if len(projection.Flows) > 1 {
		m.Savings.Annual = projection.Flows[1]
	}
	m.Savings.Cumulative = projection.CumulativeSavings

	m.Sustainability = ComputeSustainability(projection.AnnualGeneration)

	m.Production.Annual = projection.AnnualGeneration
	m.Production.Total25Years = m.Sustainability.Production25Years
	m.Production.SelfConsumption, m.Production.GridInjection = SelfConsumption(projection.AnnualGeneration, projection.AnnualConsumption)

	if withSensitivity {
		m.Sensitivity = AnalyzeSensitivity(p)
	}

	m.ScoreBreakdown = Score(ScoreInput{
		PaybackYears:    m.Financial.PaybackYears,
		PaybackReached:  m.Financial.PaybackReached,
		NPV:             m.Financial.NPV,
		Investment:      p.Financials.Investment,
		IRR:             m.Financial.IRR,
		SelfConsumption: m.Production.SelfConsumption,
		Irradiance:      p.Location.Irradiance,
	})
	m.Score = m.ScoreBreakdown.Total()
	m.Classification = Classify(m.Score)

	return m
}

// Analyzer wraps Compute with logging.
type Analyzer struct {
	logger *zap.Logger
}

// NewAnalyzer creates an analyzer with the given logger.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewAnalyzer(logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{logger: logger}
}

// Analyze computes the viability metrics for one project.
func (a *Analyzer) Analyze(p ProjectData) (ViabilityMetrics, error) {
	m, err := Compute(p)
	if err != nil {
		a.logger.Warn("rejected project data",
			zap.String("op", "viability.Analyze"),
			zap.String("client", p.Client.Name),
			zap.Error(err),
		)
		return m, err
	}

	if !m.Financial.IRRConverged {
		a.logger.Debug("IRR did not converge, reporting last iterate",
			zap.String("op", "viability.Analyze"),
			zap.String("client", p.Client.Name),
			zap.Float64("irr", m.Financial.IRR),
		)
	}
	if !m.Financial.PaybackReached {
		a.logger.Debug("payback not reached within horizon",
			zap.String("op", "viability.Analyze"),
			zap.String("client", p.Client.Name),
			zap.Int("lifetime", p.Lifetime()),
		)
	}

	a.logger.Debug("viability computed",
		zap.String("op", "viability.Analyze"),
		zap.String("client", p.Client.Name),
		zap.Float64("npv", m.Financial.NPV),
		zap.Float64("irr", m.Financial.IRR),
		zap.Int("score", m.Score),
		zap.String("classification", string(m.Classification)),
	)
	return m, nil
}

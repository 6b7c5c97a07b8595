package viability

// Classification is the qualitative label derived from the score.
type Classification string

const (
	ClassificationExcellent Classification = "excellent"
	ClassificationVeryGood  Classification = "very good"
	ClassificationGood      Classification = "good"
	ClassificationRegular   Classification = "regular"
	ClassificationPoor      Classification = "poor"
)

// ScoreInput is what the scoring table looks at.
type ScoreInput struct {
	PaybackYears    float64
	PaybackReached  bool
	NPV             float64
	Investment      float64
	IRR             float64 // %
	SelfConsumption float64 // %
	Irradiance      float64
}

// ScoreBreakdown holds the points earned per factor.
type ScoreBreakdown struct {
	Payback         int `json:"payback"`
	NPV             int `json:"npv"`
	IRR             int `json:"irr"`
	SelfConsumption int `json:"selfConsumption"`
	Irradiance      int `json:"irradiance"`
}

// Total sums the factors.
func (b ScoreBreakdown) Total() int {
	return b.Payback + b.NPV + b.IRR + b.SelfConsumption + b.Irradiance
}

// Score rates the project on five factors: payback (30), NPV against the
// investment (25), IRR (20), self-consumption (15) and irradiance (10). All
// thresholds are inclusive. A payback that is never reached earns nothing.
func Score(in ScoreInput) ScoreBreakdown {
	return ScoreBreakdown{
		Payback:         paybackPoints(in.PaybackYears, in.PaybackReached),
		NPV:             npvPoints(in.NPV, in.Investment),
		IRR:             irrPoints(in.IRR),
		SelfConsumption: selfConsumptionPoints(in.SelfConsumption),
		Irradiance:      irradiancePoints(in.Irradiance),
	}
}

func paybackPoints(years float64, reached bool) int {
	switch {
	case !reached:
		return 0
	case years <= 5:
		return 30
	case years <= 7:
		return 25
	case years <= 10:
		return 20
	case years <= 15:
		return 10
	}
	return 0
}

func npvPoints(npv, investment float64) int {
	switch {
	case npv >= investment:
		return 25
	case npv >= 0.5*investment:
		return 20
	case npv >= 0:
		return 15
	case npv >= -0.2*investment:
		return 5
	}
	return 0
}

func irrPoints(irr float64) int {
	switch {
	case irr >= 20:
		return 20
	case irr >= 15:
		return 15
	case irr >= 12:
		return 10
	case irr >= 8:
		return 5
	}
	return 0
}

func selfConsumptionPoints(pct float64) int {
	switch {
	case pct >= 90:
		return 15
	case pct >= 70:
		return 12
	case pct >= 50:
		return 8
	case pct >= 30:
		return 4
	}
	return 0
}

func irradiancePoints(irradiance float64) int {
	switch {
	case irradiance >= 6:
		return 10
	case irradiance >= 5.5:
		return 8
	case irradiance >= 5:
		return 6
	case irradiance >= 4.5:
		return 4
	}
	return 0
}

// Classify maps a score to its label; boundaries are inclusive.
func Classify(score int) Classification {
	switch {
	case score >= 85:
		return ClassificationExcellent
	case score >= 70:
		return ClassificationVeryGood
	case score >= 55:
		return ClassificationGood
	case score >= 40:
		return ClassificationRegular
	}
	return ClassificationPoor
}

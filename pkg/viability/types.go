// Package viability implements the solar project viability engine: a 25-year
// discounted cash-flow projection with payback, NPV, IRR and ROI, the
// sustainability figures derived from production, a sensitivity analysis
// over tariff, irradiation and cost, and a weighted 0-100 score with a
// five-tier classification.
//
// Everything in this package is a pure function of ProjectData. Callers
// decide when to recompute; nothing is cached between runs.
package viability

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iwvelando/solar-viability/pkg/constants"
)

// ErrInvalidProject is wrapped by every validation failure.
var ErrInvalidProject = errors.New("invalid project data")

// Segment is the client market segment.
type Segment string

const (
	SegmentResidential Segment = "residential"
	SegmentCommercial  Segment = "commercial"
	SegmentIndustrial  Segment = "industrial"
	SegmentRural       Segment = "rural"
)

// Valid reports whether s is one of the known segments. The empty segment is
// accepted and treated as residential.
func (s Segment) Valid() bool {
	switch s {
	case "", SegmentResidential, SegmentCommercial, SegmentIndustrial, SegmentRural:
		return true
	}
	return false
}

// Client identifies who the project is for.
type Client struct {
	Name    string  `json:"name" yaml:"name"`
	Segment Segment `json:"segment" yaml:"segment"`
}

// Location holds the site and its solar resource.
type Location struct {
	City       string  `json:"city" yaml:"city"`
	Region     string  `json:"region" yaml:"region"`
	Irradiance float64 `json:"irradiance" yaml:"irradiance"` // kWh/m²/day
}

// Consumption holds the client's energy use and tariff.
type Consumption struct {
	Monthly    float64 `json:"monthly" yaml:"monthly"`       // kWh
	Tariff     float64 `json:"tariff" yaml:"tariff"`         // currency/kWh
	Surcharge  float64 `json:"surcharge" yaml:"surcharge"`   // currency/kWh
	Escalation float64 `json:"escalation" yaml:"escalation"` // %/year
}

// BlendedTariff is the single rate used throughout the projection.
func (c Consumption) BlendedTariff() float64 {
	return c.Tariff + c.Surcharge
}

// System describes the installed equipment.
type System struct {
	InstalledPower     float64 `json:"installedPower" yaml:"installedPower"`         // kWp
	MonthlyGeneration  float64 `json:"monthlyGeneration" yaml:"monthlyGeneration"`   // kWh
	InverterEfficiency float64 `json:"inverterEfficiency" yaml:"inverterEfficiency"` // %
	SystemLoss         float64 `json:"systemLoss" yaml:"systemLoss"`                 // %
	Lifetime           int     `json:"lifetime" yaml:"lifetime"`                     // years
}

// Financials holds the investment and running costs.
type Financials struct {
	Investment            float64 `json:"investment" yaml:"investment"`
	Maintenance           float64 `json:"maintenance" yaml:"maintenance"`                     // per year
	MaintenanceEscalation float64 `json:"maintenanceEscalation" yaml:"maintenanceEscalation"` // %/year
}

// Financing holds optional financing terms. They are accepted and carried
// but do not take part in any viability metric.
type Financing struct {
	Amount              float64 `json:"amount" yaml:"amount"`
	MonthlyInterestRate float64 `json:"monthlyInterestRate" yaml:"monthlyInterestRate"` // %/month
	TermMonths          int     `json:"termMonths" yaml:"termMonths"`
	DownPayment         float64 `json:"downPayment" yaml:"downPayment"`
}

// Incentives are carried with the project but not applied by the engine.
type Incentives struct {
	NetMetering bool    `json:"netMetering" yaml:"netMetering"`
	TaxDiscount float64 `json:"taxDiscount" yaml:"taxDiscount"` // %
	Other       float64 `json:"other" yaml:"other"`
}

// ProjectData is the full input of one viability run.
type ProjectData struct {
	Client      Client      `json:"client" yaml:"client"`
	Location    Location    `json:"location" yaml:"location"`
	Consumption Consumption `json:"consumption" yaml:"consumption"`
	System      System      `json:"system" yaml:"system"`
	Financials  Financials  `json:"financials" yaml:"financials"`
	Financing   *Financing  `json:"financing,omitempty" yaml:"financing,omitempty"`
	Incentives  Incentives  `json:"incentives" yaml:"incentives"`
}

// Lifetime returns the analysis horizon in years; zero means the default.
func (p ProjectData) Lifetime() int {
	if p.System.Lifetime == 0 {
		return constants.DefaultLifetimeYears
	}
	return p.System.Lifetime
}

// Validate checks the input invariants. Escalation rates are not checked:
// negative values represent deflation.
func (p ProjectData) Validate() error {
	var problems []string

	if p.Location.Irradiance < 0 {
		problems = append(problems, fmt.Sprintf("irradiance must be >= 0, got %g", p.Location.Irradiance))
	}
	if p.Consumption.Monthly < 0 {
		problems = append(problems, fmt.Sprintf("monthly consumption must be >= 0, got %g", p.Consumption.Monthly))
	}
	if p.Consumption.Tariff < 0 {
		problems = append(problems, fmt.Sprintf("tariff must be >= 0, got %g", p.Consumption.Tariff))
	}
	if p.Consumption.Surcharge < 0 {
		problems = append(problems, fmt.Sprintf("surcharge must be >= 0, got %g", p.Consumption.Surcharge))
	}
	if p.System.MonthlyGeneration < 0 {
		problems = append(problems, fmt.Sprintf("monthly generation must be >= 0, got %g", p.System.MonthlyGeneration))
	}
	if p.Financials.Investment < 0 {
		problems = append(problems, fmt.Sprintf("investment must be >= 0, got %g", p.Financials.Investment))
	}
	if p.System.Lifetime < 0 || p.System.Lifetime > constants.MaxLifetimeYears {
		problems = append(problems, fmt.Sprintf("lifetime must be between 1 and %d years, got %d", constants.MaxLifetimeYears, p.System.Lifetime))
	}
	if !p.Client.Segment.Valid() {
		problems = append(problems, fmt.Sprintf("unknown segment %q", p.Client.Segment))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidProject, strings.Join(problems, "; "))
	}
	return nil
}

// FinancialMetrics are the discounted cash-flow results.
type FinancialMetrics struct {
	// PaybackYears is 0 when PaybackReached is false.
	PaybackYears   float64 `json:"paybackYears"`
	PaybackReached bool    `json:"paybackReached"`
	NPV            float64 `json:"npv"`
	IRR            float64 `json:"irr"` // %
	IRRConverged   bool    `json:"irrConverged"`
	ROI            float64 `json:"roi"` // %
}

// SavingsMetrics summarize the net cash flows.
type SavingsMetrics struct {
	Annual     float64 `json:"annual"`
	Cumulative float64 `json:"cumulative"`
}

// ProductionMetrics summarize generation against consumption.
type ProductionMetrics struct {
	Annual          float64 `json:"annual"`
	Total25Years    float64 `json:"total25Years"`
	SelfConsumption float64 `json:"selfConsumption"` // %
	GridInjection   float64 `json:"gridInjection"`   // %
}

// SustainabilityMetrics are the environmental equivalents of production.
type SustainabilityMetrics struct {
	Production25Years float64 `json:"production25Years"`
	CO2AvoidedTonnes  float64 `json:"co2AvoidedTonnes"`
	TreesEquivalent   float64 `json:"treesEquivalent"`
}

// SensitivityBand is the NPV of a pessimistic and an optimistic variation
// of one parameter.
type SensitivityBand struct {
	Pessimistic float64 `json:"pessimistic"`
	Optimistic  float64 `json:"optimistic"`
}

// SensitivityAnalysis holds the three parameter bands.
type SensitivityAnalysis struct {
	Tariff      SensitivityBand `json:"tariff"`
	Irradiation SensitivityBand `json:"irradiation"`
	Cost        SensitivityBand `json:"cost"`
}

// ViabilityMetrics is the full output of one run.
type ViabilityMetrics struct {
	Financial      FinancialMetrics      `json:"financial"`
	Savings        SavingsMetrics        `json:"savings"`
	Production     ProductionMetrics     `json:"production"`
	Sustainability SustainabilityMetrics `json:"sustainability"`
	Sensitivity    SensitivityAnalysis   `json:"sensitivity"`
	Score          int                   `json:"score"`
	ScoreBreakdown ScoreBreakdown        `json:"scoreBreakdown"`
	Classification Classification        `json:"classification"`
	CashFlows      []float64             `json:"cashFlows"`
}

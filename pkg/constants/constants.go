// Package constants provides shared constants for the solar-viability application.
package constants

// Time constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DaysPerMonth is the day count used to turn daily irradiance into monthly generation
	DaysPerMonth = 30

	// DefaultLifetimeYears is the default system lifetime and analysis horizon
	DefaultLifetimeYears = 25

	// MaxLifetimeYears is the longest analysis horizon a project may request
	MaxLifetimeYears = 100

	// SustainabilityHorizonYears is the fixed horizon for production and CO2 figures
	SustainabilityHorizonYears = 25
)

// Viability engine constants. These must not change without changing the
// reported figures.
const (
	// DiscountRate is the annual rate used for NPV
	DiscountRate = 0.10

	// AnnualDegradation is the compounding yearly loss of system output
	AnnualDegradation = 0.005

	// InjectionCreditFactor is the share of the tariff credited for injected energy
	InjectionCreditFactor = 0.95

	// SustainabilityDegradationFactor is the flat average degradation applied
	// to 25-year production
	SustainabilityDegradationFactor = 0.9

	// CO2KgPerKWh is the grid displacement emission factor
	CO2KgPerKWh = 0.0847

	// TreeTonnesCO2 is the tonnes of CO2 attributed to one tree
	TreeTonnesCO2 = 0.022

	// DefaultSystemCostPerKWp is the technical-simulation cost assumption
	DefaultSystemCostPerKWp = 4500.0
)

// IRR solver constants
const (
	// IRRInitialGuess is the starting rate for Newton-Raphson
	IRRInitialGuess = 0.10

	// IRRMaxIterations caps the solver
	IRRMaxIterations = 100

	// IRRTolerance is the NPV magnitude considered converged
	IRRTolerance = 0.01

	// IRRMinRate and IRRMaxRate bound the rate on every iteration
	IRRMinRate = -0.99
	IRRMaxRate = 10.0
)

// Sensitivity factors
const (
	TariffPessimisticFactor      = 0.8
	TariffOptimisticFactor       = 1.2
	IrradiationPessimisticFactor = 0.9
	IrradiationOptimisticFactor  = 1.1
	CostPessimisticFactor        = 1.2
	CostOptimisticFactor         = 0.8
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix is the prefix for environment overrides of configuration keys
	EnvPrefix = "SOLAR"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML configs (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024
)

// Numeric constants
const (
	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// KgPerTonne converts kilograms to tonnes
	KgPerTonne = 1000.0
)

// Package analysis defines the report produced for each configured project
// and includes functions for computing them.
package analysis

import (
	"fmt"

	"github.com/iwvelando/solar-viability/internal/config"
	"github.com/iwvelando/solar-viability/pkg/financing"
	"github.com/iwvelando/solar-viability/pkg/technical"
	"github.com/iwvelando/solar-viability/pkg/viability"
	"go.uber.org/zap"
)

// Report holds all information related to one analyzed project.
type Report struct {
	Name      string                     `json:"name"`
	Project   viability.ProjectData      `json:"project"`
	Metrics   viability.ViabilityMetrics `json:"metrics"`
	Technical technical.Result           `json:"technical"`
	Financing *financing.Summary         `json:"financing,omitempty"`
}

// Engine runs the viability pipeline together with the technical simulation
// and the financing summary.
type Engine struct {
	logger     *zap.Logger
	analyzer   *viability.Analyzer
	financing  *financing.ScheduleGenerator
	costPerKWp float64
}

// NewEngine creates an engine. costPerKWp <= 0 selects the default
// technical-simulation cost.
func NewEngine(logger *zap.Logger, costPerKWp float64) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		logger:     logger,
		analyzer:   viability.NewAnalyzer(logger),
		financing:  financing.NewScheduleGenerator(logger),
		costPerKWp: costPerKWp,
	}
}

// Run analyzes one project. When the project has no generation estimate the
// technical simulation provides it.
func (e *Engine) Run(name string, data viability.ProjectData) (Report, error) {
	data = config.ApplyRegionIrradiance(data)
	if name == "" {
		name = data.Client.Name
	}

	tech := technical.Simulate(data, e.costPerKWp)
	if data.System.MonthlyGeneration == 0 && tech.MonthlyGeneration > 0 {
		e.logger.Debug(fmt.Sprintf("using simulated generation of %.1f kWh/month for project %s", tech.MonthlyGeneration, name),
			zap.String("op", "analysis.Run"),
		)
		data = data.WithMonthlyGeneration(tech.MonthlyGeneration)
	}

	metrics, err := e.analyzer.Analyze(data)
	if err != nil {
		return Report{}, fmt.Errorf("project %s: %w", name, err)
	}

	summary, err := e.financing.Summarize(data.Financing)
	if err != nil {
		return Report{}, fmt.Errorf("project %s: %w", name, err)
	}

	return Report{
		Name:      name,
		Project:   data,
		Metrics:   metrics,
		Technical: tech,
		Financing: summary,
	}, nil
}

// GetAnalyses processes the reports for all active projects.
func GetAnalyses(logger *zap.Logger, conf config.Configuration) ([]Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	engine := NewEngine(logger, conf.Defaults.SystemCostPerKWp)

	var results []Report
	for _, project := range conf.Projects {
		if !project.Active {
			logger.Debug(fmt.Sprintf("skipping project %s because it is inactive", project.Name),
				zap.String("op", "analysis.GetAnalyses"),
			)
			continue
		}

		report, err := engine.Run(project.Name, project.ToProjectData(conf.Defaults))
		if err != nil {
			return results, err
		}
		results = append(results, report)
	}

	return results, nil
}

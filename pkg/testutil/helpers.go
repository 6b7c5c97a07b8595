// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/solar-viability/internal/analysis"
	"github.com/iwvelando/solar-viability/pkg/viability"
)

// FindReport finds a report by project name in the results slice.
// Returns a pointer to the report if found, nil otherwise.
func FindReport(results []analysis.Report, name string) *analysis.Report {
	for i := range results {
		if results[i].Name == name {
			return &results[i]
		}
	}
	return nil
}

// ReferenceProject returns the residential reference scenario: 300 kWh
// consumed and 450 kWh generated per month at a 0.80 blended tariff, an
// 18,000 investment and 200/year maintenance. Its year-1 cash flow is 4,048.
func ReferenceProject() viability.ProjectData {
	return viability.ProjectData{
		Client:   viability.Client{Name: "Reference Residence", Segment: viability.SegmentResidential},
		Location: viability.Location{City: "Campinas", Region: "SP", Irradiance: 5.5},
		Consumption: viability.Consumption{
			Monthly:    300,
			Tariff:     0.75,
			Surcharge:  0.05,
			Escalation: 8,
		},
		System: viability.System{
			InstalledPower:     3,
			MonthlyGeneration:  450,
			InverterEfficiency: 97,
			SystemLoss:         14,
			Lifetime:           25,
		},
		Financials: viability.Financials{
			Investment:            18000,
			Maintenance:           200,
			MaintenanceEscalation: 5,
		},
	}
}

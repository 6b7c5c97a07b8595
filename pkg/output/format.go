// Package output provides utilities for formatting and displaying viability
// reports.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/solar-viability/internal/analysis"
	"github.com/iwvelando/solar-viability/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat writes a human-readable report per project.
func PrettyFormat(w io.Writer, results []analysis.Report, symbol string) {
	if symbol == "" {
		symbol = format.DefaultCurrencySymbol
	}
	p := message.NewPrinter(language.English)
	money := func(v float64) string {
		if v < 0 {
			return "-" + symbol + p.Sprintf("%.2f", -v)
		}
		return symbol + p.Sprintf("%.2f", v)
	}

	for i, result := range results {
		m := result.Metrics
		fmt.Fprintf(w, "--- Viability for project %s ---\n", result.Name)
		fmt.Fprintf(w, "Classification     | %s (%d/100)\n", m.Classification, m.Score)
		fmt.Fprintf(w, "Payback            | %s\n", format.Years(m.Financial.PaybackYears, m.Financial.PaybackReached))
		fmt.Fprintf(w, "NPV (10%%)          | %s\n", money(m.Financial.NPV))
		irr := format.Percent(m.Financial.IRR)
		if !m.Financial.IRRConverged {
			irr += " (not converged)"
		}
		fmt.Fprintf(w, "IRR                | %s\n", irr)
		fmt.Fprintf(w, "ROI                | %s\n", format.Percent(m.Financial.ROI))
		fmt.Fprintf(w, "Annual savings     | %s\n", money(m.Savings.Annual))
		fmt.Fprintf(w, "Cumulative savings | %s\n", money(m.Savings.Cumulative))
		_, _ = p.Fprintf(w, "Annual production  | %.0f kWh\n", m.Production.Annual)
		fmt.Fprintf(w, "Self-consumption   | %s (grid injection %s)\n",
			format.Percent(m.Production.SelfConsumption), format.Percent(m.Production.GridInjection))
		_, _ = p.Fprintf(w, "CO2 avoided        | %.2f t (%.0f trees)\n",
			m.Sustainability.CO2AvoidedTonnes, m.Sustainability.TreesEquivalent)
		fmt.Fprintf(w, "Sensitivity (NPV)  | tariff %s / %s, irradiation %s / %s, cost %s / %s\n",
			money(m.Sensitivity.Tariff.Pessimistic), money(m.Sensitivity.Tariff.Optimistic),
			money(m.Sensitivity.Irradiation.Pessimistic), money(m.Sensitivity.Irradiation.Optimistic),
			money(m.Sensitivity.Cost.Pessimistic), money(m.Sensitivity.Cost.Optimistic))
		if result.Financing != nil {
			fmt.Fprintf(w, "Financing          | %d x %s (interest %s)\n",
				len(result.Financing.Schedule), money(result.Financing.MonthlyPayment), money(result.Financing.TotalInterest))
		}

		fmt.Fprintf(w, "\nYear | Cash flow     | Cumulative\n")
		fmt.Fprintf(w, "____ | _____________ | __________\n")
		var cumulative float64
		for year, flow := range m.CashFlows {
			cumulative += flow
			fmt.Fprintf(w, "%4d | %s | %s\n", year, money(flow), money(cumulative))
		}
		if i < len(results)-1 {
			fmt.Fprintf(w, "\n")
		}
	}
}

// CsvFormat writes the yearly cash flows of every report side by side in
// comma-separated value format. Years past a project's lifetime are empty.
func CsvFormat(w io.Writer, results []analysis.Report) {
	fmt.Fprintf(w, `"year"`)
	horizon := 0
	for _, result := range results {
		fmt.Fprintf(w, `,"cash flow (%s)","cumulative (%s)"`, csvEscape(result.Name), csvEscape(result.Name))
		if n := len(result.Metrics.CashFlows); n > horizon {
			horizon = n
		}
	}
	fmt.Fprintf(w, "\n")

	cumulative := make([]float64, len(results))
	for year := 0; year < horizon; year++ {
		fmt.Fprintf(w, `"%d"`, year)
		for i, result := range results {
			if year >= len(result.Metrics.CashFlows) {
				fmt.Fprintf(w, `,"",""`)
				continue
			}
			flow := result.Metrics.CashFlows[year]
			cumulative[i] += flow
			fmt.Fprintf(w, `,"%.2f","%.2f"`, flow, cumulative[i])
		}
		fmt.Fprintf(w, "\n")
	}
}

// CsvString returns the CsvFormat output as a string.
func CsvString(results []analysis.Report) string {
	var buf bytes.Buffer
	CsvFormat(&buf, results)
	return buf.String()
}

// JSONFormat writes the reports as an indented JSON array.
func JSONFormat(w io.Writer, results []analysis.Report) error {
	if results == nil {
		results = []analysis.Report{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(results); err != nil {
		return fmt.Errorf("failed to encode reports: %w", err)
	}
	return nil
}

func csvEscape(s string) string {
	return strings.ReplaceAll(s, `"`, `""`)
}

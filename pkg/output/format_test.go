package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/iwvelando/solar-viability/internal/analysis"
	"github.com/iwvelando/solar-viability/pkg/testutil"
	"github.com/iwvelando/solar-viability/pkg/viability"
)

func referenceReports(t *testing.T) []analysis.Report {
	t.Helper()
	project := testutil.ReferenceProject()
	project.Financing = &viability.Financing{Amount: 18000, MonthlyInterestRate: 1.5, TermMonths: 48, DownPayment: 3000}

	report, err := analysis.NewEngine(nil, 0).Run("Reference Residence", project)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return []analysis.Report{report}
}

func TestPrettyFormat(t *testing.T) {
	var buf bytes.Buffer
	PrettyFormat(&buf, referenceReports(t), "")
	output := buf.String()

	expected := []string{
		"--- Viability for project Reference Residence ---",
		"Classification     | excellent (98/100)",
		"Payback            | 5.0 years",
		"Year | Cash flow     | Cumulative",
		"   0 | -R$18,000.00 | -R$18,000.00",
		"   1 | R$4,048.00 | -R$13,952.00",
		"Financing          | 48 x R$",
	}
	for _, element := range expected {
		if !strings.Contains(output, element) {
			t.Errorf("PrettyFormat missing %q\n%s", element, output)
		}
	}
	if strings.Contains(output, "not converged") {
		t.Errorf("reference IRR should converge")
	}
}

func TestPrettyFormatCustomSymbolAndUnreachedPayback(t *testing.T) {
	report := analysis.Report{
		Name: "Loss",
		Metrics: viability.ViabilityMetrics{
			Financial: viability.FinancialMetrics{NPV: -1234.5, IRR: -99, IRRConverged: false},
			CashFlows: []float64{-1000, 10},
		},
	}

	var buf bytes.Buffer
	PrettyFormat(&buf, []analysis.Report{report}, "$")
	output := buf.String()

	for _, element := range []string{"Payback            | n/a", "-$1,234.50", "(not converged)", "   1 | $10.00 | -$990.00"} {
		if !strings.Contains(output, element) {
			t.Errorf("PrettyFormat missing %q\n%s", element, output)
		}
	}
}

func TestPrettyFormatSeparatesReports(t *testing.T) {
	results := []analysis.Report{
		{Name: "A", Metrics: viability.ViabilityMetrics{CashFlows: []float64{-1}}},
		{Name: "B", Metrics: viability.ViabilityMetrics{CashFlows: []float64{-2}}},
	}

	var buf bytes.Buffer
	PrettyFormat(&buf, results, "")
	output := buf.String()

	if !strings.Contains(output, "\n\n--- Viability for project B ---") {
		t.Errorf("expected blank line between reports\n%s", output)
	}
	if strings.HasSuffix(output, "\n\n") {
		t.Errorf("unexpected trailing blank line")
	}
}

func TestCsvFormat(t *testing.T) {
	results := []analysis.Report{
		{Name: "Short", Metrics: viability.ViabilityMetrics{CashFlows: []float64{-100, 60, 60}}},
		{Name: `Quote "Q"`, Metrics: viability.ViabilityMetrics{CashFlows: []float64{-200, 50, 50, 50}}},
	}

	var buf bytes.Buffer
	CsvFormat(&buf, results)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")

	if len(lines) != 5 {
		t.Fatalf("expected header plus 4 rows, got %d lines", len(lines))
	}
	expectedHeader := `"year","cash flow (Short)","cumulative (Short)","cash flow (Quote ""Q"")","cumulative (Quote ""Q"")"`
	if lines[0] != expectedHeader {
		t.Errorf("unexpected header %s", lines[0])
	}
	if lines[1] != `"0","-100.00","-100.00","-200.00","-200.00"` {
		t.Errorf("unexpected year-0 row %s", lines[1])
	}
	if lines[3] != `"2","60.00","20.00","50.00","-100.00"` {
		t.Errorf("unexpected year-2 row %s", lines[3])
	}
	if lines[4] != `"3","","","50.00","-50.00"` {
		t.Errorf("unexpected year-3 row %s", lines[4])
	}
}

func TestCsvStringMatchesCsvFormat(t *testing.T) {
	results := referenceReports(t)

	var buf bytes.Buffer
	CsvFormat(&buf, results)

	if CsvString(results) != buf.String() {
		t.Fatalf("CsvString and CsvFormat output mismatch")
	}
	if lines := strings.Split(strings.TrimSpace(buf.String()), "\n"); len(lines) != 27 {
		t.Errorf("expected header plus 26 years, got %d lines", len(lines))
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := JSONFormat(&buf, referenceReports(t)); err != nil {
		t.Fatalf("JSONFormat() error = %v", err)
	}

	var decoded []analysis.Report
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 1 || decoded[0].Metrics.Score != 98 {
		t.Errorf("unexpected decoded reports %+v", decoded)
	}

	buf.Reset()
	if err := JSONFormat(&buf, nil); err != nil {
		t.Fatalf("JSONFormat(nil) error = %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("expected empty array, got %s", buf.String())
	}
}

// Package export builds the downloadable JSON summary of a viability run.
// Numbers are rendered as fixed-point strings so the file reads the same on
// every platform.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/iwvelando/solar-viability/pkg/viability"
	"github.com/shopspring/decimal"
)

// Document is the exported summary.
type Document struct {
	Client            string `json:"client"`
	Classification    string `json:"classification"`
	Score             int    `json:"score"`
	Payback           string `json:"payback"`
	NPV               string `json:"npv"`
	IRR               string `json:"irr"`
	ROI               string `json:"roi"`
	AnnualSavings     string `json:"annualSavings"`
	CumulativeSavings string `json:"cumulativeSavings"`
	AnnualProduction  string `json:"annualProduction"`
	CO2AvoidedTonnes  string `json:"co2AvoidedTonnes"`
	TreesEquivalent   string `json:"treesEquivalent"`
	GeneratedAt       string `json:"generatedAt"`
}

// NotAvailable replaces values that cannot be rendered.
const NotAvailable = "n/a"

// Build assembles the document for one client.
func Build(client string, m viability.ViabilityMetrics, generatedAt time.Time) Document {
	payback := NotAvailable
	if m.Financial.PaybackReached {
		payback = fixed(m.Financial.PaybackYears, 1)
	}

	return Document{
		Client:            client,
		Classification:    string(m.Classification),
		Score:             m.Score,
		Payback:           payback,
		NPV:               fixed(m.Financial.NPV, 2),
		IRR:               fixed(m.Financial.IRR, 1),
		ROI:               fixed(m.Financial.ROI, 1),
		AnnualSavings:     fixed(m.Savings.Annual, 2),
		CumulativeSavings: fixed(m.Savings.Cumulative, 2),
		AnnualProduction:  fixed(m.Production.Annual, 1),
		CO2AvoidedTonnes:  fixed(m.Sustainability.CO2AvoidedTonnes, 2),
		TreesEquivalent:   fixed(m.Sustainability.TreesEquivalent, 0),
		GeneratedAt:       generatedAt.UTC().Format(time.RFC3339),
	}
}

// Write encodes doc as indented JSON.
func Write(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode export document: %w", err)
	}
	return nil
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// FileName derives the download file name for a client.
func FileName(client string) string {
	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(client), "-"), "-")
	if slug == "" {
		slug = "project"
	}
	return "viability-" + slug + ".json"
}

func fixed(v float64, places int32) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NotAvailable
	}
	return decimal.NewFromFloat(v).StringFixed(places)
}

// Package irradiance provides the average daily solar irradiance per region,
// used to default a project's irradiance when only its region is known.
package irradiance

import (
	"sort"
	"strings"
)

// Region is one entry of the lookup table.
type Region struct {
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Irradiance float64 `json:"irradiance"` // kWh/m²/day
}

// Average global horizontal irradiance per Brazilian state.
var table = map[string]Region{
	"AC": {"AC", "Acre", 4.6},
	"AL": {"AL", "Alagoas", 5.4},
	"AP": {"AP", "Amapá", 4.9},
	"AM": {"AM", "Amazonas", 4.5},
	"BA": {"BA", "Bahia", 5.6},
	"CE": {"CE", "Ceará", 5.6},
	"DF": {"DF", "Distrito Federal", 5.4},
	"ES": {"ES", "Espírito Santo", 5.0},
	"GO": {"GO", "Goiás", 5.4},
	"MA": {"MA", "Maranhão", 5.2},
	"MT": {"MT", "Mato Grosso", 5.3},
	"MS": {"MS", "Mato Grosso do Sul", 5.2},
	"MG": {"MG", "Minas Gerais", 5.3},
	"PA": {"PA", "Pará", 4.9},
	"PB": {"PB", "Paraíba", 5.6},
	"PR": {"PR", "Paraná", 4.8},
	"PE": {"PE", "Pernambuco", 5.6},
	"PI": {"PI", "Piauí", 5.7},
	"RJ": {"RJ", "Rio de Janeiro", 5.0},
	"RN": {"RN", "Rio Grande do Norte", 5.7},
	"RS": {"RS", "Rio Grande do Sul", 4.7},
	"RO": {"RO", "Rondônia", 4.7},
	"RR": {"RR", "Roraima", 4.9},
	"SC": {"SC", "Santa Catarina", 4.6},
	"SP": {"SP", "São Paulo", 5.0},
	"SE": {"SE", "Sergipe", 5.4},
	"TO": {"TO", "Tocantins", 5.4},
}

// Lookup returns the irradiance for a region code, ignoring case and
// surrounding whitespace.
func Lookup(code string) (float64, bool) {
	r, ok := table[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return 0, false
	}
	return r.Irradiance, true
}

// Regions returns the whole table ordered by code.
func Regions() []Region {
	regions := make([]Region, 0, len(table))
	for _, r := range table {
		regions = append(regions, r)
	}
	sort.Slice(regions, func(i, j int) bool {
		return regions[i].Code < regions[j].Code
	})
	return regions
}

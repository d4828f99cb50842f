package pricing

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Neighborhood is a delivery zone with its flat fee in BRL.
type Neighborhood struct {
	Name string          `json:"name"`
	Fee  decimal.Decimal `json:"fee"`
}

var neighborhoodFees = map[string]int64{
	"Nova Esperança":        5,
	"Vale do Sol":           5,
	"Santa Júlia":           5,
	"Engenho":               5,
	"Bosque Brasil":         8,
	"Bosque das Colinas":    7,
	"Rosas dos Ventos":      6,
	"Passagem de Areia":     7,
	"Santa Tereza":          6,
	"Bela Parnamirim":       8,
	"Santos Reis":           6,
	"Monte Castelo":         7,
	"Vida Nova":             8,
	"Cidade Campestre":      10,
	"Conjunto Flamboyants":  10,
	"Cajupiranga":           7,
	"Centro":                7,
	"Cohabinal":             6,
	"Boa Esperança":         7,
	"Jardim Planalto":       8,
	"Liberdade":             9,
	"Parque de Exposições": 10,
}

// Neighborhoods returns every known delivery zone sorted by name.
func Neighborhoods() []Neighborhood {
	out := make([]Neighborhood, 0, len(neighborhoodFees))
	for name, fee := range neighborhoodFees {
		out = append(out, Neighborhood{Name: name, Fee: decimal.NewFromInt(fee)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// FeeFor resolves the delivery fee for a neighborhood. Lookup is
// case-insensitive on the trimmed name. The second return reports whether the
// neighborhood is a known delivery zone.
func FeeFor(name string) (decimal.Decimal, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for zone, fee := range neighborhoodFees {
		if strings.ToLower(zone) == needle {
			return decimal.NewFromInt(fee), true
		}
	}
	return decimal.Zero, false
}

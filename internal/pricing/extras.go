package pricing

import (
	"math"
	"strconv"
	"strings"
)

// DefaultExtrasText is the starter list of optional per-screen line items.
const DefaultExtrasText = "Spare modules bundle:300\nSpare PSUs & receiving cards:250\nVacuum tool & rails:200"

// Extra is an optional per-screen line item.
type Extra struct {
	Label string  `json:"label"`
	Cost  float64 `json:"cost"`
}

// ParseExtras reads one "Label:Cost" item per line.
// Malformed lines and negative or non-finite costs are skipped.
func ParseExtras(text string) []Extra {
	extras := make([]Extra, 0)
	for _, line := range strings.Split(text, "\n") {
		label, rawCost, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		cost, err := strconv.ParseFloat(strings.TrimSpace(rawCost), 64)
		if err != nil || cost < 0 || math.IsNaN(cost) || math.IsInf(cost, 0) {
			continue
		}
		extras = append(extras, Extra{Label: strings.TrimSpace(label), Cost: cost})
	}
	return extras
}

// FormatExtras renders extras back into the "Label:Cost" text form.
func FormatExtras(extras []Extra) string {
	lines := make([]string, 0, len(extras))
	for _, e := range extras {
		lines = append(lines, e.Label+":"+strconv.FormatFloat(e.Cost, 'f', -1, 64))
	}
	return strings.Join(lines, "\n")
}

// ExtrasTotal sums the cost of all extras.
func ExtrasTotal(extras []Extra) float64 {
	total := 0.0
	for _, e := range extras {
		total += e.Cost
	}
	return total
}

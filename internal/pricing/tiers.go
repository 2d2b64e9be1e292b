package pricing

import (
	"fmt"
	"sort"
)

// Tier is a named markup bracket.
type Tier struct {
	Name      string  `json:"name"`
	MarkupPct float64 `json:"markup_pct"`
}

// TierTable maps tier names to markup percentages. It is read-only after construction.
type TierTable struct {
	tiers       []Tier
	defaultName string
}

// DefaultTiers returns Level A/B/C at 10/20/30 percent with Level B as default.
func DefaultTiers() TierTable {
	t, _ := NewTierTable(map[string]float64{
		"Level A": 10,
		"Level B": 20,
		"Level C": 30,
	}, "Level B")
	return t
}

// NewTierTable builds a table sorted by name. The default tier must be present.
func NewTierTable(markups map[string]float64, defaultName string) (TierTable, error) {
	if len(markups) == 0 {
		return TierTable{}, fmt.Errorf("tier table is empty")
	}

	tiers := make([]Tier, 0, len(markups))
	for name, pct := range markups {
		if pct < 0 {
			return TierTable{}, fmt.Errorf("tier %q has negative markup %v", name, pct)
		}
		tiers = append(tiers, Tier{Name: name, MarkupPct: pct})
	}
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].Name < tiers[j].Name })

	t := TierTable{tiers: tiers, defaultName: defaultName}
	if _, ok := t.Lookup(defaultName); !ok {
		return TierTable{}, fmt.Errorf("default tier %q is not in the table", defaultName)
	}
	return t, nil
}

// Lookup returns the tier with the given name.
func (t TierTable) Lookup(name string) (Tier, bool) {
	for _, tier := range t.tiers {
		if tier.Name == name {
			return tier, true
		}
	}
	return Tier{}, false
}

// Default returns the tier applied when no valid selection is available.
func (t TierTable) Default() Tier {
	tier, _ := t.Lookup(t.defaultName)
	return tier
}

// Tiers returns a copy of all tiers ordered by name.
func (t TierTable) Tiers() []Tier {
	out := make([]Tier, len(t.tiers))
	copy(out, t.tiers)
	return out
}

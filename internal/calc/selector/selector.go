package selector

import (
	"errors"
	"math"
	"sort"

	"Caldera/internal/catalog"
)

var ErrNoQualifyingEquipment = errors.New("no catalog equipment satisfies the capacity and filter requirements")

// Tier says which rule produced an Ascending selection.
type Tier string

const (
	TierMatch       Tier = "match"
	TierLargest     Tier = "largest_available"
	TierPlaceholder Tier = "manual_estimate"
)

// PlaceholderID identifies the record returned when the catalog is empty.
const PlaceholderID = "manual-estimate"

// Capacity reads the figure a requirement is compared against. Callers pass a
// derated kW, an inverter rating, or a tank volume depending on context.
type Capacity func(catalog.Record) float64

func RatedKW(r catalog.Record) float64 { return r.KW }

type Selection struct {
	Record   catalog.Record `json:"record"`
	Capacity float64        `json:"capacity"`
	Tier     Tier           `json:"tier"`
}

// Ascending picks the smallest entry whose capacity meets required; otherwise
// the largest entry; otherwise a manual-estimate placeholder sized to required.
func Ascending(required float64, records []catalog.Record, capacity Capacity) Selection {
	if capacity == nil {
		capacity = RatedKW
	}
	if len(records) == 0 {
		return placeholder(required)
	}
	sorted := sortedByCapacity(records, capacity)
	for _, r := range sorted {
		if c := capacity(r); c >= required {
			return Selection{Record: r, Capacity: c, Tier: TierMatch}
		}
	}
	largest := sorted[len(sorted)-1]
	return Selection{Record: largest, Capacity: capacity(largest), Tier: TierLargest}
}

// Cheapest returns the lowest-priced entry that passes keep and whose capacity
// meets minCapacity. Ties go to the smaller unit, then to the lower ID.
func Cheapest(minCapacity float64, records []catalog.Record, keep func(catalog.Record) bool, capacity Capacity) (Selection, error) {
	candidates := Qualifying(minCapacity, records, keep, capacity)
	if len(candidates) == 0 {
		return Selection{}, ErrNoQualifyingEquipment
	}
	return candidates[0], nil
}

// Qualifying lists every entry passing keep and minCapacity, cheapest first.
func Qualifying(minCapacity float64, records []catalog.Record, keep func(catalog.Record) bool, capacity Capacity) []Selection {
	if capacity == nil {
		capacity = RatedKW
	}
	var out []Selection
	for _, r := range records {
		if keep != nil && !keep(r) {
			continue
		}
		c := capacity(r)
		if c <= 0 || c < minCapacity {
			continue
		}
		out = append(out, Selection{Record: r, Capacity: c, Tier: TierMatch})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Record.Price != b.Record.Price {
			return a.Record.Price < b.Record.Price
		}
		if a.Capacity != b.Capacity {
			return a.Capacity < b.Capacity
		}
		return a.Record.ID < b.Record.ID
	})
	return out
}

func sortedByCapacity(records []catalog.Record, capacity Capacity) []catalog.Record {
	sorted := make([]catalog.Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		ci, cj := capacity(sorted[i]), capacity(sorted[j])
		if ci != cj {
			return ci < cj
		}
		return sorted[i].Price < sorted[j].Price
	})
	return sorted
}

func placeholder(required float64) Selection {
	kw := math.Ceil(math.Max(required, 0))
	return Selection{
		Record: catalog.Record{
			ID:          PlaceholderID,
			Name:        "Manual estimate",
			Category:    "Manual",
			KW:          kw,
			Refrigerant: catalog.Unknown,
		},
		Capacity: kw,
		Tier:     TierPlaceholder,
	}
}

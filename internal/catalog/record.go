// Package catalog turns loosely-typed equipment documents into the canonical
// Record shape the calculators consume.
package catalog

import "strings"

const Unknown = "Unknown"

type Kind string

const (
	KindHeatPump Kind = "heat_pump"
	KindInverter Kind = "inverter"
)

// Record is one equipment SKU. Prices are in USD.
type Record struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	KW          float64 `json:"kw"`
	CoolingKW   float64 `json:"cooling_kw,omitempty"`
	COP         float64 `json:"cop"`
	Refrigerant string  `json:"refrigerant"`
	TankVolumeL float64 `json:"tank_volume_l"`
	Price       float64 `json:"price"`
	Reversible  bool    `json:"reversible"`
}

var heatingCategories = []string{"heat pump", "heatpump", "bomba de calor", "aerotermia", "water heater", "heating", "dhw"}
var accessoryCategories = []string{"battery", "panel", "module", "inverter", "accessory", "bateria", "panel solar"}

func hasAny(s string, words []string) bool {
	s = strings.ToLower(s)
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// IsHeatPump reports whether a record may reach the heat pump selector.
func IsHeatPump(r Record) bool {
	if hasAny(r.Category, accessoryCategories) {
		return false
	}
	return (r.COP > 1.5 && r.KW > 0) || hasAny(r.Category, heatingCategories)
}

// IsInverter reports whether a record is a usable solar inverter.
func IsInverter(r Record) bool {
	return r.KW > 0 && strings.Contains(strings.ToLower(r.Category), "inverter")
}

// Filter keeps the records accepted by keep, preserving order.
func Filter(records []Record, keep func(Record) bool) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func (k Kind) Accepts(r Record) bool {
	switch k {
	case KindInverter:
		return IsInverter(r)
	default:
		return IsHeatPump(r)
	}
}

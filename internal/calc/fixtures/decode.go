package fixtures

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// UnmarshalJSON accepts numbers, numeric strings and junk; junk becomes 0 so a
// half-filled form still produces an estimate.
func (in *Input) UnmarshalJSON(b []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	in.Showers = count(raw["showers"])
	in.Basins = count(raw["basins"])
	in.Sinks = count(raw["sinks"])
	in.Occupants = count(first(raw, "people", "occupants"))
	in.HoursPerDay = lenientNumber(first(raw, "hours_per_day", "hours"))
	return nil
}

func first(raw map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := raw[k]; ok {
			return v
		}
	}
	return nil
}

// count clamps before converting; int(f) is undefined for floats out of range.
func count(v any) int {
	f := lenientNumber(v)
	if f <= 0 {
		return 0
	}
	return int(math.Min(f, MaxCount))
}

func lenientNumber(v any) float64 {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

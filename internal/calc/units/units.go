package units

import (
	"errors"
	"math"
	"strings"
)

// WaterKWhPerLiterDegree is the energy needed to raise one liter of water by 1 °C.
const WaterKWhPerLiterDegree = 0.001163

var ErrInvalidPhysicalInputs = errors.New("target temperature must be above inlet temperature")

type Segment string

const (
	SegmentHome       Segment = "home"
	SegmentRestaurant Segment = "restaurant"
	SegmentResort     Segment = "resort"
	SegmentSpa        Segment = "spa"
	SegmentSchool     Segment = "school"
	SegmentOffice     Segment = "office"
	SegmentCommercial Segment = "commercial"
	SegmentIndustrial Segment = "industrial"
)

type Fuel string

const (
	FuelElectric Fuel = "electric"
	FuelGas      Fuel = "gas"
	FuelPropane  Fuel = "propane"
	FuelDiesel   Fuel = "diesel"
)

// ParseFuel accepts the aliases the CRM forms send ("lpg", "glp", "electricity").
func ParseFuel(s string) Fuel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gas", "natural_gas":
		return FuelGas
	case "propane", "lpg", "glp":
		return FuelPropane
	case "diesel":
		return FuelDiesel
	default:
		return FuelElectric
	}
}

type SystemType string

const (
	SystemGrid      SystemType = "grid"
	SystemGridSolar SystemType = "grid_solar"
)

type Refrigerant string

const (
	RefrigerantAny  Refrigerant = "any"
	RefrigerantR290 Refrigerant = "R290"
	RefrigerantR32  Refrigerant = "R32"
	RefrigerantR744 Refrigerant = "R744"
)

// Matches reports whether a catalog refrigerant satisfies the preference.
func (r Refrigerant) Matches(refrigerant string) bool {
	if r == "" || r == RefrigerantAny {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(refrigerant), string(r))
}

// DeltaT returns target − inlet, or ErrInvalidPhysicalInputs when it is not positive.
func DeltaT(inletC, targetC float64) (float64, error) {
	dt := targetC - inletC
	if dt <= 0 || math.IsNaN(dt) {
		return 0, ErrInvalidPhysicalInputs
	}
	return dt, nil
}

// ThermalLoadKWh is the daily energy to heat liters by deltaT.
func ThermalLoadKWh(liters, deltaT float64) float64 {
	if liters <= 0 || deltaT <= 0 {
		return 0
	}
	return liters * deltaT * WaterKWhPerLiterDegree
}

// LitersPerHour converts a thermal power into the flow it can heat by deltaT.
func LitersPerHour(kw, deltaT float64) float64 {
	if kw <= 0 || deltaT <= 0 {
		return 0
	}
	return kw / (WaterKWhPerLiterDegree * deltaT)
}

// SafeDiv returns 0 instead of ±Inf/NaN when the divisor is not positive.
func SafeDiv(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return num / den
}

func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

package savings

import (
	"errors"
	"math"

	"Caldera/internal/calc/selector"
	"Caldera/internal/calc/tank"
	"Caldera/internal/calc/units"
	"Caldera/internal/catalog"
)

// Demand is the physical side of a request, shared with the bundle engine.
type Demand struct {
	DailyLiters       float64
	OperatingHours    float64
	DeltaT            float64
	ThermalLoadKWh    float64
	RequiredKW        float64
	CoincidenceFactor float64
	AverageDrawLph    float64
	PeakDrawLph       float64
	DerateFactor      float64
}

func NewDemand(t units.Table, in CustomerInputs) (Demand, error) {
	dt, err := units.DeltaT(in.InletTempC, in.TargetTempC)
	if err != nil {
		return Demand{}, err
	}
	liters := math.Max(in.DailyLiters, 0)
	hours := math.Max(in.OperatingHours, 0)
	thermal := units.ThermalLoadKWh(liters, dt)
	cf := t.CoincidenceFactor(in.UserType, in.CoincidenceFactor)
	avg := tank.AverageDraw(liters, hours)

	derate := 1.0
	if in.AmbientTempC != nil {
		derate = t.AmbientDerate(*in.AmbientTempC)
	}
	return Demand{
		DailyLiters:       liters,
		OperatingHours:    hours,
		DeltaT:            dt,
		ThermalLoadKWh:    thermal,
		RequiredKW:        units.SafeDiv(thermal, hours),
		CoincidenceFactor: cf,
		AverageDrawLph:    avg,
		PeakDrawLph:       tank.PeakDraw(avg, cf),
		DerateFactor:      derate,
	}, nil
}

// AdjustedKW is the capacity used for selection: rated kW derated by ambient.
func (d Demand) AdjustedKW(r catalog.Record) float64 {
	return r.KW * d.DerateFactor
}

// HeatPumpFilter keeps units matching the refrigerant preference and, when
// cooling is requested, only reversible ones.
func HeatPumpFilter(in CustomerInputs) func(catalog.Record) bool {
	return func(r catalog.Record) bool {
		if !in.Refrigerant.Matches(r.Refrigerant) {
			return false
		}
		if in.IncludeCooling && !r.Reversible {
			return false
		}
		return true
	}
}

// EffectiveCOP falls back to the table default for records without a rating.
func EffectiveCOP(t units.Table, r catalog.Record) float64 {
	if r.COP > 0 {
		return r.COP
	}
	return t.DefaultCOP
}

// Calculate sizes a heat pump and tank for the inputs and prices the switch
// away from the current fuel. Inputs and records are not modified.
func Calculate(t units.Table, in CustomerInputs, records []catalog.Record) Result {
	d, err := NewDemand(t, in)
	if err != nil {
		return failure(err)
	}

	sel, err := selector.Cheapest(d.RequiredKW, records, HeatPumpFilter(in), d.AdjustedKW)
	if err != nil {
		return failure(err)
	}
	eq := sel.Record
	cop := EffectiveCOP(t, eq)
	sys := &System{
		Equipment:    eq,
		RequiredKW:   d.RequiredKW,
		DerateFactor: d.DerateFactor,
		AdjustedKW:   sel.Capacity,
		COP:          cop,
		RecoveryLph:  units.LitersPerHour(sel.Capacity, d.DeltaT),
	}

	// The tank bridges the required recovery, not the selected unit's surplus,
	// so stepping up to a bigger unit never shrinks it.
	sizing := tank.Size(tank.Input{
		DailyLiters:       d.DailyLiters,
		OperatingHours:    d.OperatingHours,
		CoincidenceFactor: d.CoincidenceFactor,
		RecoveryLph:       units.LitersPerHour(d.RequiredKW, d.DeltaT),
		IntegralTankL:     eq.TankVolumeL,
	}, tank.ParamsFrom(t))

	cur := t.Currency(in.Currency)
	rate := in.ElectricityRate
	if rate <= 0 {
		rate = cur.ElectricityRate
	}

	fuel := t.Fuel(in.CurrentFuel)
	fuelPrice := in.FuelPrice
	if fuelPrice <= 0 {
		if in.CurrentFuel == "" || in.CurrentFuel == units.FuelElectric {
			fuelPrice = rate
		} else {
			fuelPrice = fuel.DefaultPriceUSD * cur.PerUSD
		}
	}

	baselineDaily := units.SafeDiv(units.SafeDiv(d.ThermalLoadKWh, fuel.Efficiency), fuel.KWhPerUnit) * fuelPrice
	hpKWh := units.SafeDiv(d.ThermalLoadKWh, cop)
	hpDaily := hpKWh * rate

	metrics := &Metrics{
		DailyLiters:       d.DailyLiters,
		OperatingHours:    d.OperatingHours,
		DeltaT:            d.DeltaT,
		ThermalLoadKWh:    d.ThermalLoadKWh,
		CoincidenceFactor: d.CoincidenceFactor,
		AverageDrawLph:    d.AverageDrawLph,
		PeakDrawLph:       d.PeakDrawLph,
		WarmUpHours:       units.SafeDiv(math.Max(sizing.RecommendedL, eq.TankVolumeL)*d.DeltaT*units.WaterKWhPerLiterDegree, sys.AdjustedKW),
	}

	fin := &Financials{
		Currency:          cur.Code,
		CurrencySymbol:    cur.Symbol,
		BaselineDailyCost: baselineDaily,
		HeatPumpDailyCost: hpDaily,
		OperatingSavings:  (baselineDaily - hpDaily) * 365,
	}

	coverage := 0.0
	if in.SystemType == units.SystemGridSolar {
		sun := in.SunHours
		if sun <= 0 {
			sun = t.DefaultSunHours
		}
		coverage = math.Min(1, units.SafeDiv(sun, d.OperatingHours))
		fin.SolarCredit = hpDaily * coverage * 365
		metrics.SolarCoverage = coverage
		metrics.SolarPanels = int(math.Ceil(units.SafeDiv(hpKWh, t.PanelWatts/1000*sun)))
	}

	var cooling *Cooling
	if in.IncludeCooling && eq.Reversible {
		share := 1 - units.SafeDiv(1, cop)
		daily := d.ThermalLoadKWh * share
		cooling = &Cooling{
			CapacityKW:    sys.AdjustedKW * share,
			DailyKWh:      daily,
			AnnualSavings: units.SafeDiv(daily, t.AirConditionerCOP) * rate * 365,
		}
		fin.CoolingCredit = cooling.AnnualSavings
	}

	fin.AnnualSavings = fin.OperatingSavings + fin.SolarCredit + fin.CoolingCredit
	fin.EquipmentCost = t.ToCurrency(eq.Price, cur.Code)
	fin.TankCost = t.ToCurrency(sizing.RecommendedL*t.TankCostPerLiterUS, cur.Code)
	fin.InstallCost = math.Max(in.InstallCost, 0)
	fin.TotalCost = fin.EquipmentCost + fin.TankCost + fin.InstallCost
	fin.PaybackYears, fin.PaybackViable = payback(fin.TotalCost, fin.AnnualSavings)
	fin.PaybackStatus = PaybackOK
	if !fin.PaybackViable {
		fin.PaybackStatus = PaybackNotViable
	}

	baselineKg := fuel.KgCO2PerKWh * d.ThermalLoadKWh * 365
	hpKg := hpKWh * t.GridKgCO2PerKWh * (1 - coverage) * 365
	emissions := &Emissions{
		BaselineKgPerYear: baselineKg,
		HeatPumpKgPerYear: hpKg,
		AvoidedKgPerYear:  baselineKg - hpKg,
	}

	res := Result{
		System:     sys,
		Metrics:    metrics,
		Tank:       &sizing,
		Financials: fin,
		Emissions:  emissions,
		Cooling:    cooling,
		Notes:      "Cheapest qualifying unit at derated capacity; tank by max-of-three rule.",
	}
	if in.Enterprise != nil {
		res.Enterprise = enterprise(t, *in.Enterprise, fin)
	}
	return res
}

// payback returns ok=false when savings never recover the cost.
func payback(cost, annualSavings float64) (float64, bool) {
	if annualSavings <= 0 || math.IsNaN(annualSavings) {
		return 0, false
	}
	return math.Max(cost, 0) / annualSavings, true
}

func failure(err error) Result {
	res := Result{Error: err.Error()}
	switch {
	case errors.Is(err, selector.ErrNoQualifyingEquipment):
		res.ErrorCode = CodeNoQualifyingEquipment
	case errors.Is(err, units.ErrInvalidPhysicalInputs):
		res.ErrorCode = CodeInvalidPhysicalInputs
	}
	return res
}

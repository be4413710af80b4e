package bundle

import (
	"errors"
	"math"

	"Caldera/internal/calc/finance"
	"Caldera/internal/calc/savings"
	"Caldera/internal/calc/selector"
	"Caldera/internal/calc/tank"
	"Caldera/internal/calc/units"
	"Caldera/internal/catalog"
)

const daysPerMonth = 365.0 / 12.0

// site holds what both scenarios share.
type site struct {
	t        units.Table
	d        savings.Demand
	currency units.Currency
	rate     float64
	sunHours float64
	baseKW   float64
	baseKWh  float64
	loanRate float64
	months   int
}

// Calculate runs scenario A (solar covers resistive water heating) and
// scenario B (heat pump replaces it, solar covers the rest) and compares them.
func Calculate(t units.Table, in Inputs, heatPumps, inverters []catalog.Record) Analysis {
	d, err := savings.NewDemand(t, in.CustomerInputs)
	if err != nil {
		return failure(err)
	}
	s := newSite(t, d, in)

	a := s.solarOnly(inverters)
	b, err := s.withHeatPump(in.CustomerInputs, heatPumps, inverters)
	if err != nil {
		return failure(err)
	}

	out := Analysis{
		Currency:         s.currency.Code,
		CurrencySymbol:   s.currency.Symbol,
		ThermalLoadKWh:   d.ThermalLoadKWh,
		LoanAnnualRate:   s.loanRate,
		LoanTermMonths:   s.months,
		A:                &a,
		B:                &b,
		PanelsSaved:      PanelsSaved(a.Panels, b.Panels),
		UpfrontSavings:   a.CAPEX - b.CAPEX,
		MonthlyAdvantage: a.TotalMonthlyCost - b.TotalMonthlyCost,
		BenefitYears:     t.BenefitYears,
		Notes:            "Partner bundle versus solar-only; catalog prices converted at fixed exchange rates.",
	}
	out.MultiYearBenefit = out.MonthlyAdvantage * 12 * float64(t.BenefitYears)
	if in.Portfolio != nil {
		out.Portfolio = project(*in.Portfolio, b)
	}
	return out
}

// PanelsSaved never goes below zero.
func PanelsSaved(panelsA, panelsB int) int {
	if panelsA <= panelsB {
		return 0
	}
	return panelsA - panelsB
}

func newSite(t units.Table, d savings.Demand, in Inputs) site {
	cur := t.Currency(in.Currency)
	s := site{
		t:        t,
		d:        d,
		currency: cur,
		rate:     in.ElectricityRate,
		sunHours: in.SunHours,
		baseKW:   math.Max(in.BaseLoadKW, 0),
		baseKWh:  in.BaseDailyKWh,
		loanRate: in.LoanAnnualRate,
		months:   in.LoanTermMonths,
	}
	if s.rate <= 0 {
		s.rate = cur.ElectricityRate
	}
	if s.sunHours <= 0 {
		s.sunHours = t.DefaultSunHours
	}
	if s.baseKWh <= 0 {
		s.baseKWh = s.baseKW * d.OperatingHours
	}
	if s.loanRate <= 0 {
		s.loanRate = t.LoanAnnualRate
	}
	if s.months <= 0 {
		s.months = t.LoanTermMonths
	}
	return s
}

func (s site) solarOnly(inverters []catalog.Record) Scenario {
	resistive := s.t.Fuel(units.FuelElectric).Efficiency
	sc := Scenario{
		Name:           "solar_only",
		WaterHeatingKW: units.SafeDiv(s.d.PeakDrawLph*s.d.DeltaT*units.WaterKWhPerLiterDegree, resistive),
	}
	sc.DailyKWh = s.baseKWh + units.SafeDiv(s.d.ThermalLoadKWh, resistive)
	s.finish(&sc, inverters)
	return sc
}

func (s site) withHeatPump(in savings.CustomerInputs, heatPumps, inverters []catalog.Record) (Scenario, error) {
	filtered := catalog.Filter(heatPumps, savings.HeatPumpFilter(in))
	if len(filtered) == 0 && len(heatPumps) > 0 {
		return Scenario{}, selector.ErrNoQualifyingEquipment
	}
	sel := selector.Ascending(s.d.RequiredKW, filtered, s.d.AdjustedKW)
	hp := sel.Record
	cop := savings.EffectiveCOP(s.t, hp)

	sizing := tank.Size(tank.Input{
		DailyLiters:       s.d.DailyLiters,
		OperatingHours:    s.d.OperatingHours,
		CoincidenceFactor: s.d.CoincidenceFactor,
		RecoveryLph:       units.LitersPerHour(s.d.RequiredKW, s.d.DeltaT),
		IntegralTankL:     hp.TankVolumeL,
	}, tank.ParamsFrom(s.t))

	sc := Scenario{
		Name:           "heat_pump_solar",
		HeatPump:       &hp,
		HeatPumpTier:   sel.Tier,
		Tank:           &sizing,
		WaterHeatingKW: units.SafeDiv(sel.Capacity, cop),
		HeatPumpCost:   s.t.ToCurrency(hp.Price, s.currency.Code),
		TankCost:       s.t.ToCurrency(sizing.RecommendedL*s.t.TankCostPerLiterUS, s.currency.Code),
	}
	sc.DailyKWh = s.baseKWh + units.SafeDiv(s.d.ThermalLoadKWh, cop)
	s.finish(&sc, inverters)
	return sc, nil
}

// finish sizes the inverter and array for sc and prices the scenario.
func (s site) finish(sc *Scenario, inverters []catalog.Record) {
	sc.PeakLoadKW = s.baseKW + sc.WaterHeatingKW
	sc.InverterTargetKW = sc.PeakLoadKW * s.t.SafetyMargin

	inv := selector.Ascending(sc.InverterTargetKW, inverters, selector.RatedKW)
	sc.Inverter = inv.Record
	sc.InverterTier = inv.Tier

	sc.Panels = int(math.Ceil(units.SafeDiv(sc.DailyKWh, s.t.PanelWatts/1000*s.sunHours)))

	code := s.currency.Code
	sc.InverterCost = s.t.ToCurrency(inv.Record.Price, code)
	sc.PanelCost = s.t.ToCurrency(float64(sc.Panels)*(s.t.PanelPriceUSD+s.t.InstallPerPanelUSD), code)
	sc.CAPEX = sc.InverterCost + sc.PanelCost + sc.HeatPumpCost + sc.TankCost

	sc.MonthlyPayment = finance.MonthlyPayment(sc.CAPEX, s.loanRate, s.months)
	sc.MonthlyGridCost = sc.DailyKWh * (1 - s.t.SelfConsumption) * s.rate * daysPerMonth
	sc.TotalMonthlyCost = sc.MonthlyPayment + sc.MonthlyGridCost
}

// project scales one partner deal linearly across a fleet.
func project(p PortfolioInputs, b Scenario) *Portfolio {
	fleet := p.FleetSize
	if fleet < 0 {
		fleet = 0
	}
	conversions := float64(fleet) * units.Clamp(p.ConversionRate, 0, 1)
	perDeal := (b.HeatPumpCost + b.TankCost) * units.Clamp(p.MarginRate, 0, 1)
	return &Portfolio{
		FleetSize:              fleet,
		PipelineValue:          b.CAPEX * float64(fleet),
		ProjectedConversions:   conversions,
		MarginPerDeal:          perDeal,
		TotalIncrementalMargin: perDeal * conversions,
	}
}

func failure(err error) Analysis {
	out := Analysis{Error: err.Error()}
	switch {
	case errors.Is(err, selector.ErrNoQualifyingEquipment):
		out.ErrorCode = savings.CodeNoQualifyingEquipment
	case errors.Is(err, units.ErrInvalidPhysicalInputs):
		out.ErrorCode = savings.CodeInvalidPhysicalInputs
	}
	return out
}

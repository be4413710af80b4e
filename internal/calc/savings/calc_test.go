package savings

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Caldera/internal/calc/finance"
	"Caldera/internal/calc/units"
	"Caldera/internal/catalog"
)

func testCatalog() []catalog.Record {
	return []catalog.Record{
		{ID: "hp-r32-6", Name: "Compact 6", Category: "Heat Pump", KW: 6, COP: 4.0, Refrigerant: "R32", Price: 3000},
		{ID: "hp-r290-8", Name: "Eco 8", Category: "Heat Pump", KW: 8, COP: 4.2, Refrigerant: "R290", Price: 4200, Reversible: true},
		{ID: "hp-r32-4", Name: "Mini 4", Category: "Heat Pump", KW: 4, COP: 3.9, Refrigerant: "R32", Price: 1500},
		{ID: "hp-r290-12", Name: "Eco 12", Category: "Heat Pump", KW: 12, COP: 3.8, Refrigerant: "R290", Price: 5200, TankVolumeL: 300},
	}
}

func restaurant() CustomerInputs {
	return CustomerInputs{
		UserType:        units.SegmentRestaurant,
		DailyLiters:     2500,
		OperatingHours:  16,
		InletTempC:      25,
		TargetTempC:     55,
		CurrentFuel:     units.FuelPropane,
		FuelPrice:       1.2,
		Currency:        "USD",
		ElectricityRate: 0.20,
		SystemType:      units.SystemGrid,
		Refrigerant:     units.RefrigerantAny,
	}
}

func TestCalculateBaseline(t *testing.T) {
	res := Calculate(units.Default(), restaurant(), testCatalog())
	require.False(t, res.Failed(), res.Error)

	assert.InDelta(t, 87.225, res.Metrics.ThermalLoadKWh, 1e-6)
	assert.InDelta(t, 87.225/16, res.System.RequiredKW, 1e-9)
	assert.Equal(t, "hp-r32-6", res.System.Equipment.ID)
	assert.InDelta(t, 6/(0.001163*30), res.System.RecoveryLph, 1e-9)

	assert.InDelta(t, 156.25, res.Metrics.AverageDrawLph, 1e-9)
	assert.InDelta(t, 390.625, res.Metrics.PeakDrawLph, 1e-9)
	assert.Equal(t, 900.0, res.Tank.RecommendedL)

	baseline := 87.225 / 0.85 / 13.8 * 1.2
	hp := 87.225 / 4.0 * 0.20
	assert.InDelta(t, baseline, res.Financials.BaselineDailyCost, 1e-9)
	assert.InDelta(t, hp, res.Financials.HeatPumpDailyCost, 1e-9)
	assert.InDelta(t, (baseline-hp)*365, res.Financials.AnnualSavings, 1e-6)

	assert.InDelta(t, 3000+900*2.5, res.Financials.TotalCost, 1e-9)
	assert.True(t, res.Financials.PaybackViable)
	assert.InDelta(t, 5250/((baseline-hp)*365), res.Financials.PaybackYears, 1e-9)
	assert.Equal(t, "$", res.Financials.CurrencySymbol)

	avoided := 0.227*87.225*365 - 87.225/4.0*0.40*365
	assert.InDelta(t, avoided, res.Emissions.AvoidedKgPerYear, 1e-6)

	assert.Nil(t, res.Cooling)
	assert.Nil(t, res.Enterprise)
	assert.InDelta(t, 900*30*0.001163/6, res.Metrics.WarmUpHours, 1e-9)
}

func TestCalculateIsIdempotent(t *testing.T) {
	in := restaurant()
	in.Enterprise = &EnterpriseInputs{DiscountRate: 0.08, WaterScore: 8, ReliabilityScore: 7, InnovationScore: 9}
	recs := testCatalog()

	first := Calculate(units.Default(), in, recs)
	second := Calculate(units.Default(), in, recs)
	assert.Equal(t, first, second)
	assert.Equal(t, testCatalog(), recs)
}

func TestRefrigerantFilterExclusivity(t *testing.T) {
	in := restaurant()
	in.Refrigerant = units.RefrigerantR290
	onlyR32 := []catalog.Record{testCatalog()[0], testCatalog()[2]}

	res := Calculate(units.Default(), in, onlyR32)
	assert.True(t, res.Failed())
	assert.Equal(t, CodeNoQualifyingEquipment, res.ErrorCode)
	assert.Nil(t, res.System)
	assert.Nil(t, res.Financials)
	assert.Nil(t, res.Tank)
}

func TestRefrigerantPreferencePicksCheapestMatching(t *testing.T) {
	in := restaurant()
	in.Refrigerant = units.RefrigerantR290
	res := Calculate(units.Default(), in, testCatalog())
	require.False(t, res.Failed())
	assert.Equal(t, "hp-r290-8", res.System.Equipment.ID)
}

func TestEmptyCatalog(t *testing.T) {
	res := Calculate(units.Default(), restaurant(), nil)
	assert.Equal(t, CodeNoQualifyingEquipment, res.ErrorCode)
}

func TestInvalidPhysicalInputs(t *testing.T) {
	in := restaurant()
	in.TargetTempC = in.InletTempC
	res := Calculate(units.Default(), in, testCatalog())
	assert.Equal(t, CodeInvalidPhysicalInputs, res.ErrorCode)
	assert.Nil(t, res.Metrics)
}

func TestPaybackSentinel(t *testing.T) {
	in := restaurant()
	in.FuelPrice = 0.01
	in.ElectricityRate = 0.5
	res := Calculate(units.Default(), in, testCatalog())
	require.False(t, res.Failed())

	assert.Less(t, res.Financials.AnnualSavings, 0.0)
	assert.False(t, res.Financials.PaybackViable)
	assert.Equal(t, PaybackNotViable, res.Financials.PaybackStatus)
	assert.Zero(t, res.Financials.PaybackYears)
}

func TestPaybackHelper(t *testing.T) {
	_, ok := payback(1000, -500)
	assert.False(t, ok)
	_, ok = payback(1000, 0)
	assert.False(t, ok)
	years, ok := payback(1000, 500)
	assert.True(t, ok)
	assert.Equal(t, 2.0, years)
}

func TestMonotonicInDailyLiters(t *testing.T) {
	var prevThermal, prevKW, prevTank float64
	for liters := 500.0; liters <= 5000; liters += 250 {
		in := restaurant()
		in.DailyLiters = liters
		res := Calculate(units.Default(), in, testCatalog())
		require.False(t, res.Failed(), "liters=%v: %s", liters, res.Error)

		assert.GreaterOrEqual(t, res.Metrics.ThermalLoadKWh, prevThermal)
		assert.GreaterOrEqual(t, res.System.RequiredKW, prevKW)
		assert.GreaterOrEqual(t, res.Tank.RecommendedL, prevTank)
		prevThermal, prevKW, prevTank = res.Metrics.ThermalLoadKWh, res.System.RequiredKW, res.Tank.RecommendedL
	}
}

func TestTankNeverShrinksWhenBiggerUnitSelected(t *testing.T) {
	records := []catalog.Record{
		{ID: "hp-2", Category: "Heat Pump", KW: 2, COP: 4, Refrigerant: "R32", Price: 100},
		{ID: "hp-20", Category: "Heat Pump", KW: 20, COP: 4, Refrigerant: "R32", Price: 200},
	}
	home := func(liters float64) Result {
		in := restaurant()
		in.UserType = units.SegmentHome
		in.OperatingHours = 4
		in.DailyLiters = liters
		res := Calculate(units.Default(), in, records)
		require.False(t, res.Failed(), "liters=%v: %s", liters, res.Error)
		return res
	}

	small, big := home(229), home(230)
	require.Equal(t, "hp-2", small.System.Equipment.ID)
	require.Equal(t, "hp-20", big.System.Equipment.ID)
	assert.GreaterOrEqual(t, big.Tank.RecommendedL, small.Tank.RecommendedL)

	var prev float64
	for liters := 100.0; liters <= 600; liters += 5 {
		res := home(liters)
		assert.GreaterOrEqual(t, res.Tank.RecommendedL, prev, "liters=%v", liters)
		prev = res.Tank.RecommendedL
	}
}

func TestAmbientDeratingChangesSelection(t *testing.T) {
	in := restaurant()
	cold := 10.0
	in.AmbientTempC = &cold
	res := Calculate(units.Default(), in, testCatalog())
	require.False(t, res.Failed())

	assert.InDelta(t, 0.8, res.System.DerateFactor, 1e-9)
	assert.Equal(t, "hp-r290-8", res.System.Equipment.ID)
	assert.InDelta(t, 6.4, res.System.AdjustedKW, 1e-9)
}

func TestCoolingBonus(t *testing.T) {
	in := restaurant()
	in.IncludeCooling = true
	res := Calculate(units.Default(), in, testCatalog())
	require.False(t, res.Failed())
	require.NotNil(t, res.Cooling)

	share := 1 - 1/4.2
	assert.Equal(t, "hp-r290-8", res.System.Equipment.ID)
	assert.InDelta(t, 8*share, res.Cooling.CapacityKW, 1e-9)
	assert.InDelta(t, 87.225*share/3.0*0.20*365, res.Cooling.AnnualSavings, 1e-9)
	assert.InDelta(t, res.Financials.OperatingSavings+res.Cooling.AnnualSavings, res.Financials.AnnualSavings, 1e-9)
}

func TestSolarOffset(t *testing.T) {
	in := restaurant()
	in.SystemType = units.SystemGridSolar
	in.SunHours = 8
	res := Calculate(units.Default(), in, testCatalog())
	require.False(t, res.Failed())

	hp := 87.225 / 4.0 * 0.20
	assert.InDelta(t, 0.5, res.Metrics.SolarCoverage, 1e-9)
	assert.InDelta(t, hp*0.5*365, res.Financials.SolarCredit, 1e-9)
	assert.Equal(t, 5, res.Metrics.SolarPanels)
	assert.InDelta(t, 87.225/4.0*0.40*0.5*365, res.Emissions.HeatPumpKgPerYear, 1e-9)
}

func TestCurrencyConversionAndDefaults(t *testing.T) {
	in := restaurant()
	in.Currency = "MXN"
	in.ElectricityRate = 0
	in.FuelPrice = 0
	res := Calculate(units.Default(), in, testCatalog())
	require.False(t, res.Failed())

	assert.Equal(t, "MX$", res.Financials.CurrencySymbol)
	assert.InDelta(t, 3000*17.0, res.Financials.EquipmentCost, 1e-9)
	assert.InDelta(t, 87.225/4.0*3.2, res.Financials.HeatPumpDailyCost, 1e-9)
	assert.InDelta(t, 87.225/0.85/13.8*1.10*17, res.Financials.BaselineDailyCost, 1e-9)
}

func TestZeroOperatingHoursStaysFinite(t *testing.T) {
	in := restaurant()
	in.OperatingHours = 0
	in.SystemType = units.SystemGridSolar
	in.Enterprise = &EnterpriseInputs{DiscountRate: 0.1}
	res := Calculate(units.Default(), in, testCatalog())
	require.False(t, res.Failed())

	assert.Zero(t, res.System.RequiredKW)
	assert.Zero(t, res.Metrics.PeakDrawLph)
	_, err := json.Marshal(res)
	require.NoError(t, err)
}

func TestEnterpriseViable(t *testing.T) {
	in := restaurant()
	in.Enterprise = &EnterpriseInputs{DiscountRate: 0.08, FacilityRevenue: 500000, WaterScore: 8, ReliabilityScore: 7, InnovationScore: 9}
	res := Calculate(units.Default(), in, testCatalog())
	require.False(t, res.Failed())
	e := res.Enterprise
	require.NotNil(t, e)

	annual := res.Financials.AnnualSavings
	capex := res.Financials.TotalCost
	flows := finance.Level(capex, annual, 5)

	assert.InDelta(t, finance.NPV(0.08, flows), e.NPV, 1e-9)
	require.True(t, e.IRRDetermined)
	assert.InDelta(t, 0, finance.NPV(e.IRR, flows), 0.1)
	assert.InDelta(t, annual*5/capex, e.SimpleROI, 1e-9)

	fin := math.Min(10, 5*e.SimpleROI)
	assert.InDelta(t, 0.2*8+0.2*7+0.2*9+0.4*fin, e.CSVScore, 1e-9)
	assert.InDelta(t, 1+(e.CSVScore-5)/50, e.StrategicMultiplier, 1e-12)
	assert.InDelta(t, e.NPV*e.StrategicMultiplier, e.StrategicNPV, 1e-9)
	assert.InDelta(t, annual/500000, e.SavingsShareOfRevenue, 1e-12)

	assert.True(t, e.PositiveNPV)
	assert.True(t, e.MeetsHurdle)
	assert.True(t, e.StrategicFit)
	assert.True(t, e.Viable)
	assert.Contains(t, e.Recommendation, "Proceed")
}

func TestEnterpriseNotViable(t *testing.T) {
	in := restaurant()
	in.FuelPrice = 0.01
	in.ElectricityRate = 0.5
	in.Enterprise = &EnterpriseInputs{DiscountRate: 0.08}
	res := Calculate(units.Default(), in, testCatalog())
	e := res.Enterprise
	require.NotNil(t, e)

	assert.False(t, e.IRRDetermined)
	assert.Zero(t, e.IRR)
	assert.False(t, e.PositiveNPV)
	assert.False(t, e.MeetsHurdle)
	assert.False(t, e.StrategicFit)
	assert.False(t, e.Viable)
	assert.InDelta(t, 3.0, e.CSVScore, 1e-9)
	assert.Equal(t, "Not recommended under current assumptions.", e.Recommendation)
}

func TestEnterpriseIRRBeyondBracket(t *testing.T) {
	tbl := units.Default()
	e := enterprise(tbl, EnterpriseInputs{DiscountRate: 0.08}, &Financials{TotalCost: 100, AnnualSavings: 5000})

	assert.False(t, e.IRRDetermined)
	assert.True(t, e.IRRAboveRange)
	assert.True(t, e.MeetsHurdle)
	assert.True(t, e.PositiveNPV)
	assert.Equal(t, 10.0, e.CSVBreakdown.Financial)
	assert.True(t, e.Viable)
	assert.NotContains(t, e.Recommendation, "Marginal")
}

func TestEnterpriseZeroCapex(t *testing.T) {
	tbl := units.Default()
	e := enterprise(tbl, EnterpriseInputs{DiscountRate: 0.08}, &Financials{AnnualSavings: 1000})

	assert.True(t, e.ROIUnbounded)
	assert.Zero(t, e.SimpleROI)
	assert.Equal(t, 10.0, e.CSVBreakdown.Financial)
	assert.InDelta(t, 0.6*5+0.4*10, e.CSVScore, 1e-9)
	assert.True(t, e.IRRAboveRange)
	assert.True(t, e.MeetsHurdle)
	assert.True(t, e.Viable)
	assert.Contains(t, e.Recommendation, "Proceed")

	_, err := json.Marshal(e)
	require.NoError(t, err)

	e = enterprise(tbl, EnterpriseInputs{DiscountRate: 0.08}, &Financials{})
	assert.False(t, e.ROIUnbounded)
	assert.Zero(t, e.CSVBreakdown.Financial)
}

func TestRecommendationTemplates(t *testing.T) {
	tbl := units.Default()
	cases := []struct {
		name string
		in   EnterpriseROI
		want string
	}{
		{"all", EnterpriseROI{PositiveNPV: true, MeetsHurdle: true, StrategicFit: true, Viable: true}, "Proceed: positive NPV, IRR above the 12% hurdle and a strong shared-value score."},
		{"financial only", EnterpriseROI{PositiveNPV: true, MeetsHurdle: true}, "Financially sound; strengthen the shared-value case (score below 6.0)."},
		{"npv only", EnterpriseROI{PositiveNPV: true, StrategicFit: true}, "Marginal: NPV is positive but IRR does not reach the 12% hurdle."},
		{"strategic only", EnterpriseROI{StrategicFit: true}, "Strategic case only: consider incentives or financing to reach a positive NPV."},
		{"none", EnterpriseROI{}, "Not recommended under current assumptions."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := tc.in
			assert.Equal(t, tc.want, recommendation(tbl, &in))
		})
	}
}

func TestQualitativeScores(t *testing.T) {
	assert.Equal(t, 5.0, qualitative(0))
	assert.Equal(t, 1.0, qualitative(0.3))
	assert.Equal(t, 10.0, qualitative(14))
}

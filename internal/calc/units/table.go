package units

import "strings"

// FuelProfile describes how a purchase unit of fuel turns into delivered heat.
type FuelProfile struct {
	Unit            string  `json:"unit"`
	Efficiency      float64 `json:"efficiency"`
	KWhPerUnit      float64 `json:"kwh_per_unit"`
	KgCO2PerKWh     float64 `json:"kg_co2_per_kwh"`
	DefaultPriceUSD float64 `json:"default_price_usd"`
}

type Currency struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
	// PerUSD converts catalog (USD) prices into this currency.
	PerUSD          float64 `json:"per_usd"`
	ElectricityRate float64 `json:"electricity_rate"`
}

// Table is the engine configuration. Default builds a fresh copy on each call so
// callers can override fields without affecting anyone else.
type Table struct {
	Fuels              map[Fuel]FuelProfile
	Currencies         map[string]Currency
	DefaultCurrency    string
	CoincidenceFactors map[Segment]float64

	GridKgCO2PerKWh float64

	ReferenceAmbientC  float64
	DeratePerDegree    float64
	MinDerate          float64
	MaxDerate          float64
	DefaultCOP         float64
	DefaultSunHours    float64
	AirConditionerCOP  float64
	DefaultOperatingHr float64

	PeakDurationHours float64
	PeakTankFactor    float64
	DailyTankFactor   float64
	TankIncrementL    float64

	HorizonYears      int
	HurdleRate        float64
	StrategicMinScore float64
	IRRTolerance      float64
	IRRMaxIterations  int

	SafetyMargin       float64
	PanelWatts         float64
	PanelPriceUSD      float64
	InstallPerPanelUSD float64
	TankCostPerLiterUS float64
	SelfConsumption    float64
	LoanAnnualRate     float64
	LoanTermMonths     int
	BenefitYears       int
}

func Default() Table {
	return Table{
		Fuels: map[Fuel]FuelProfile{
			FuelElectric: {Unit: "kWh", Efficiency: 0.95, KWhPerUnit: 1.0, KgCO2PerKWh: 0.40, DefaultPriceUSD: 0.18},
			FuelGas:      {Unit: "kg", Efficiency: 0.85, KWhPerUnit: 13.8, KgCO2PerKWh: 0.227, DefaultPriceUSD: 1.10},
			FuelPropane:  {Unit: "kg", Efficiency: 0.85, KWhPerUnit: 13.8, KgCO2PerKWh: 0.227, DefaultPriceUSD: 1.10},
			FuelDiesel:   {Unit: "L", Efficiency: 0.85, KWhPerUnit: 10.0, KgCO2PerKWh: 0.267, DefaultPriceUSD: 1.30},
		},
		Currencies: map[string]Currency{
			"USD": {Code: "USD", Symbol: "$", PerUSD: 1, ElectricityRate: 0.18},
			"MXN": {Code: "MXN", Symbol: "MX$", PerUSD: 17.0, ElectricityRate: 3.2},
			"EUR": {Code: "EUR", Symbol: "€", PerUSD: 0.92, ElectricityRate: 0.28},
			"GBP": {Code: "GBP", Symbol: "£", PerUSD: 0.79, ElectricityRate: 0.27},
			"BRL": {Code: "BRL", Symbol: "R$", PerUSD: 5.0, ElectricityRate: 0.85},
		},
		DefaultCurrency: "USD",
		CoincidenceFactors: map[Segment]float64{
			SegmentHome:       0.30,
			SegmentRestaurant: 0.40,
			SegmentResort:     0.35,
			SegmentSpa:        0.45,
			SegmentSchool:     0.50,
			SegmentOffice:     0.60,
			SegmentCommercial: 0.45,
			SegmentIndustrial: 0.55,
		},
		GridKgCO2PerKWh: 0.40,

		ReferenceAmbientC:  20,
		DeratePerDegree:    0.02,
		MinDerate:          0.5,
		MaxDerate:          1.2,
		DefaultCOP:         3.0,
		DefaultSunHours:    5.0,
		AirConditionerCOP:  3.0,
		DefaultOperatingHr: 12,

		PeakDurationHours: 2,
		PeakTankFactor:    0.65,
		DailyTankFactor:   0.35,
		TankIncrementL:    50,

		HorizonYears:      5,
		HurdleRate:        0.12,
		StrategicMinScore: 6.0,
		IRRTolerance:      1e-6,
		IRRMaxIterations:  100,

		SafetyMargin:       1.2,
		PanelWatts:         550,
		PanelPriceUSD:      180,
		InstallPerPanelUSD: 60,
		TankCostPerLiterUS: 2.5,
		SelfConsumption:    0.75,
		LoanAnnualRate:     0.12,
		LoanTermMonths:     60,
		BenefitYears:       10,
	}
}

// Currency resolves a code, falling back to the default currency.
func (t Table) Currency(code string) Currency {
	if c, ok := t.Currencies[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return c
	}
	if c, ok := t.Currencies[t.DefaultCurrency]; ok {
		return c
	}
	return Currency{Code: "USD", Symbol: "$", PerUSD: 1}
}

func (t Table) Fuel(f Fuel) FuelProfile {
	if p, ok := t.Fuels[f]; ok {
		return p
	}
	return t.Fuels[FuelElectric]
}

// CoincidenceFactor returns override when positive, else the segment default.
// Unknown segments use the commercial factor.
func (t Table) CoincidenceFactor(s Segment, override float64) float64 {
	if override > 0 {
		return Clamp(override, 0.05, 1)
	}
	if cf, ok := t.CoincidenceFactors[s]; ok {
		return cf
	}
	if cf, ok := t.CoincidenceFactors[SegmentCommercial]; ok {
		return cf
	}
	return 1
}

// AmbientDerate scales rated output by outdoor temperature.
func (t Table) AmbientDerate(ambientC float64) float64 {
	return Clamp(1+(ambientC-t.ReferenceAmbientC)*t.DeratePerDegree, t.MinDerate, t.MaxDerate)
}

// ToCurrency converts a USD catalog amount.
func (t Table) ToCurrency(usd float64, code string) float64 {
	return usd * t.Currency(code).PerUSD
}

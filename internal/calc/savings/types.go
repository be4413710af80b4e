package savings

import (
	"Caldera/internal/calc/tank"
	"Caldera/internal/calc/units"
	"Caldera/internal/catalog"
)

type EnterpriseInputs struct {
	DiscountRate     float64 `json:"discount_rate" validate:"gte=0,lt=1"`
	FacilityRevenue  float64 `json:"facility_revenue" validate:"gte=0"`
	WaterScore       float64 `json:"water_score" validate:"gte=0,lte=10"`
	ReliabilityScore float64 `json:"reliability_score" validate:"gte=0,lte=10"`
	InnovationScore  float64 `json:"innovation_score" validate:"gte=0,lte=10"`
}

type CustomerInputs struct {
	UserType       units.Segment `json:"user_type" validate:"omitempty,oneof=home restaurant resort spa school office commercial industrial"`
	DailyLiters    float64       `json:"daily_liters" validate:"gte=0"`
	OperatingHours float64       `json:"operating_hours" validate:"gte=0,lte=24"`
	InletTempC     float64       `json:"inlet_temp_c"`
	TargetTempC    float64       `json:"target_temp_c"`
	// AmbientTempC nil means the reference ambient (no derating).
	AmbientTempC *float64 `json:"ambient_temp_c,omitempty"`

	CurrentFuel     units.Fuel `json:"current_fuel" validate:"omitempty,oneof=electric gas propane diesel"`
	FuelPrice       float64    `json:"fuel_price" validate:"gte=0"`
	Currency        string     `json:"currency"`
	ElectricityRate float64    `json:"electricity_rate" validate:"gte=0"`
	InstallCost     float64    `json:"install_cost" validate:"gte=0"`

	SystemType     units.SystemType  `json:"system_type" validate:"omitempty,oneof=grid grid_solar"`
	SunHours       float64           `json:"sun_hours" validate:"gte=0,lte=24"`
	Refrigerant    units.Refrigerant `json:"heat_pump_type" validate:"omitempty,oneof=any R290 R32 R744"`
	IncludeCooling bool              `json:"include_cooling"`

	CoincidenceFactor float64 `json:"coincidence_factor" validate:"gte=0,lte=1"`

	Enterprise *EnterpriseInputs `json:"enterprise,omitempty" validate:"omitempty"`
}

type System struct {
	Equipment    catalog.Record `json:"equipment"`
	RequiredKW   float64        `json:"required_kw"`
	DerateFactor float64        `json:"derate_factor"`
	AdjustedKW   float64        `json:"adjusted_kw"`
	COP          float64        `json:"cop"`
	RecoveryLph  float64        `json:"recovery_lph"`
}

type Metrics struct {
	DailyLiters       float64 `json:"daily_liters"`
	OperatingHours    float64 `json:"operating_hours"`
	DeltaT            float64 `json:"delta_t"`
	ThermalLoadKWh    float64 `json:"thermal_load_kwh"`
	CoincidenceFactor float64 `json:"coincidence_factor"`
	AverageDrawLph    float64 `json:"average_draw_lph"`
	PeakDrawLph       float64 `json:"peak_draw_lph"`
	WarmUpHours       float64 `json:"warm_up_hours"`
	SolarCoverage     float64 `json:"solar_coverage,omitempty"`
	SolarPanels       int     `json:"solar_panels,omitempty"`
}

type Financials struct {
	Currency          string  `json:"currency"`
	CurrencySymbol    string  `json:"currency_symbol"`
	BaselineDailyCost float64 `json:"baseline_daily_cost"`
	HeatPumpDailyCost float64 `json:"heat_pump_daily_cost"`
	OperatingSavings  float64 `json:"operating_savings"`
	SolarCredit       float64 `json:"solar_credit"`
	CoolingCredit     float64 `json:"cooling_credit"`
	AnnualSavings     float64 `json:"annual_savings"`
	EquipmentCost     float64 `json:"equipment_cost"`
	TankCost          float64 `json:"tank_cost"`
	InstallCost       float64 `json:"install_cost"`
	TotalCost         float64 `json:"total_cost"`
	PaybackYears      float64 `json:"payback_years"`
	PaybackViable     bool    `json:"payback_viable"`
	PaybackStatus     string  `json:"payback_status"`
}

type Emissions struct {
	BaselineKgPerYear float64 `json:"baseline_kg_per_year"`
	HeatPumpKgPerYear float64 `json:"heat_pump_kg_per_year"`
	AvoidedKgPerYear  float64 `json:"avoided_kg_per_year"`
}

type Cooling struct {
	CapacityKW    float64 `json:"capacity_kw"`
	DailyKWh      float64 `json:"daily_kwh"`
	AnnualSavings float64 `json:"annual_savings"`
}

type CSVBreakdown struct {
	Water       float64 `json:"water"`
	Reliability float64 `json:"reliability"`
	Innovation  float64 `json:"innovation"`
	Financial   float64 `json:"financial"`
}

type EnterpriseROI struct {
	HorizonYears          int          `json:"horizon_years"`
	DiscountRate          float64      `json:"discount_rate"`
	CashFlows             []float64    `json:"cash_flows"`
	NPV                   float64      `json:"npv"`
	IRR                   float64      `json:"irr"`
	IRRDetermined         bool         `json:"irr_determined"`
	IRRAboveRange         bool         `json:"irr_above_range,omitempty"`
	SimpleROI             float64      `json:"simple_roi"`
	ROIUnbounded          bool         `json:"roi_unbounded,omitempty"`
	PaybackYears          float64      `json:"payback_years"`
	PaybackViable         bool         `json:"payback_viable"`
	SavingsShareOfRevenue float64      `json:"savings_share_of_revenue,omitempty"`
	CSVScore              float64      `json:"csv_score"`
	CSVBreakdown          CSVBreakdown `json:"csv_breakdown"`
	StrategicMultiplier   float64      `json:"strategic_multiplier"`
	StrategicNPV          float64      `json:"strategic_npv"`
	PositiveNPV           bool         `json:"positive_npv"`
	MeetsHurdle           bool         `json:"meets_hurdle"`
	StrategicFit          bool         `json:"strategic_fit"`
	Viable                bool         `json:"viable"`
	Recommendation        string       `json:"recommendation"`
}

// Result is either a full calculation or, when Error is set, nothing else.
type Result struct {
	System     *System        `json:"system,omitempty"`
	Metrics    *Metrics       `json:"metrics,omitempty"`
	Tank       *tank.Result   `json:"tank_sizing,omitempty"`
	Financials *Financials    `json:"financials,omitempty"`
	Emissions  *Emissions     `json:"emissions,omitempty"`
	Cooling    *Cooling       `json:"cooling,omitempty"`
	Enterprise *EnterpriseROI `json:"enterprise_roi,omitempty"`
	Notes      string         `json:"notes,omitempty"`
	Error      string         `json:"error,omitempty"`
	ErrorCode  string         `json:"error_code,omitempty"`
}

const (
	CodeNoQualifyingEquipment = "no_qualifying_equipment"
	CodeInvalidPhysicalInputs = "invalid_physical_inputs"

	PaybackNotViable = "not_viable"
	PaybackOK        = "ok"
)

func (r Result) Failed() bool { return r.Error != "" }

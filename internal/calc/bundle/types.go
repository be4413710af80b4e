package bundle

import (
	"Caldera/internal/calc/savings"
	"Caldera/internal/calc/selector"
	"Caldera/internal/calc/tank"
	"Caldera/internal/catalog"
)

type PortfolioInputs struct {
	FleetSize      int     `json:"fleet_size" validate:"gte=0"`
	ConversionRate float64 `json:"conversion_rate" validate:"gte=0,lte=1"`
	MarginRate     float64 `json:"margin_rate" validate:"gte=0,lte=1"`
}

type Inputs struct {
	savings.CustomerInputs

	// BaseLoadKW is the site's peak electrical load excluding water heating.
	BaseLoadKW float64 `json:"base_load_kw" validate:"gte=0"`
	// BaseDailyKWh defaults to BaseLoadKW × operating hours.
	BaseDailyKWh   float64 `json:"base_daily_kwh" validate:"gte=0"`
	LoanAnnualRate float64 `json:"loan_annual_rate" validate:"gte=0,lt=1"`
	LoanTermMonths int     `json:"loan_term_months" validate:"gte=0,lte=360"`

	Portfolio *PortfolioInputs `json:"portfolio,omitempty" validate:"omitempty"`
}

type Scenario struct {
	Name             string          `json:"name"`
	HeatPump         *catalog.Record `json:"heat_pump,omitempty"`
	HeatPumpTier     selector.Tier   `json:"heat_pump_tier,omitempty"`
	Tank             *tank.Result    `json:"tank,omitempty"`
	Inverter         catalog.Record  `json:"inverter"`
	InverterTier     selector.Tier   `json:"inverter_tier"`
	WaterHeatingKW   float64         `json:"water_heating_kw"`
	PeakLoadKW       float64         `json:"peak_load_kw"`
	InverterTargetKW float64         `json:"inverter_target_kw"`
	DailyKWh         float64         `json:"daily_kwh"`
	Panels           int             `json:"panels"`
	InverterCost     float64         `json:"inverter_cost"`
	PanelCost        float64         `json:"panel_cost"`
	HeatPumpCost     float64         `json:"heat_pump_cost"`
	TankCost         float64         `json:"tank_cost"`
	CAPEX            float64         `json:"capex"`
	MonthlyPayment   float64         `json:"monthly_payment"`
	MonthlyGridCost  float64         `json:"monthly_grid_cost"`
	TotalMonthlyCost float64         `json:"total_monthly_cost"`
}

type Portfolio struct {
	FleetSize              int     `json:"fleet_size"`
	PipelineValue          float64 `json:"pipeline_value"`
	ProjectedConversions   float64 `json:"projected_conversions"`
	MarginPerDeal          float64 `json:"margin_per_deal"`
	TotalIncrementalMargin float64 `json:"total_incremental_margin"`
}

// Analysis compares solar-only (A) against heat pump plus reduced solar (B).
// When Error is set nothing else is populated.
type Analysis struct {
	Currency         string     `json:"currency,omitempty"`
	CurrencySymbol   string     `json:"currency_symbol,omitempty"`
	ThermalLoadKWh   float64    `json:"thermal_load_kwh,omitempty"`
	LoanAnnualRate   float64    `json:"loan_annual_rate,omitempty"`
	LoanTermMonths   int        `json:"loan_term_months,omitempty"`
	A                *Scenario  `json:"scenario_a,omitempty"`
	B                *Scenario  `json:"scenario_b,omitempty"`
	PanelsSaved      int        `json:"panels_saved"`
	UpfrontSavings   float64    `json:"upfront_savings"`
	MonthlyAdvantage float64    `json:"monthly_advantage"`
	BenefitYears     int        `json:"benefit_years,omitempty"`
	MultiYearBenefit float64    `json:"multi_year_benefit"`
	Portfolio        *Portfolio `json:"portfolio,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	Error            string     `json:"error,omitempty"`
	ErrorCode        string     `json:"error_code,omitempty"`
}

func (a Analysis) Failed() bool { return a.Error != "" }

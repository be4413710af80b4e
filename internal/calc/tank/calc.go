package tank

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"Caldera/internal/calc/units"
)

type Input struct {
	DailyLiters       float64 `json:"daily_liters"`
	OperatingHours    float64 `json:"operating_hours"`
	CoincidenceFactor float64 `json:"coincidence_factor"`
	RecoveryLph       float64 `json:"recovery_lph"`
	IntegralTankL     float64 `json:"integral_tank_l"`
}

// Params are the sizing constants, normally taken from units.Table.
type Params struct {
	PeakDurationHours float64
	PeakTankFactor    float64
	DailyTankFactor   float64
	IncrementL        float64
}

func ParamsFrom(t units.Table) Params {
	return Params{
		PeakDurationHours: t.PeakDurationHours,
		PeakTankFactor:    t.PeakTankFactor,
		DailyTankFactor:   t.DailyTankFactor,
		IncrementL:        t.TankIncrementL,
	}
}

type Result struct {
	AverageDrawLph float64 `json:"average_draw_lph"`
	PeakDrawLph    float64 `json:"peak_draw_lph"`
	RecoveryLph    float64 `json:"recovery_lph"`
	GapLph         float64 `json:"gap_lph"`
	ByRecoveryGap  float64 `json:"by_recovery_gap_l"`
	ByPeakDraw     float64 `json:"by_peak_draw_l"`
	ByDailyVolume  float64 `json:"by_daily_volume_l"`
	RequiredL      float64 `json:"required_l"`
	Governing      string  `json:"governing"`
	IntegralTankL  float64 `json:"integral_tank_l"`
	RecommendedL   float64 `json:"recommended_l"`
	Notes          string  `json:"notes"`
}

const (
	GoverningGap   = "recovery_gap"
	GoverningPeak  = "peak_draw"
	GoverningDaily = "daily_volume"
)

// AverageDraw is daily liters spread over operating hours.
func AverageDraw(dailyLiters, hours float64) float64 {
	return units.SafeDiv(dailyLiters, hours)
}

// PeakDraw concentrates the average draw by the coincidence factor.
func PeakDraw(average, coincidence float64) float64 {
	if coincidence <= 0 {
		return average
	}
	return average / coincidence
}

// Size recommends an external buffer tank as the largest of three independent
// estimates, rounded up to the increment. An integral tank at least as large
// as the requirement means no external tank.
func Size(in Input, p Params) Result {
	avg := AverageDraw(in.DailyLiters, in.OperatingHours)
	peak := PeakDraw(avg, in.CoincidenceFactor)
	gap := math.Max(0, peak-math.Max(in.RecoveryLph, 0))

	candidates := []float64{
		gap * p.PeakDurationHours,
		peak * p.PeakTankFactor,
		math.Max(in.DailyLiters, 0) * p.DailyTankFactor,
	}
	required := floats.Max(candidates)
	governing := []string{GoverningGap, GoverningPeak, GoverningDaily}[floats.MaxIdx(candidates)]

	res := Result{
		AverageDrawLph: avg,
		PeakDrawLph:    peak,
		RecoveryLph:    in.RecoveryLph,
		GapLph:         gap,
		ByRecoveryGap:  candidates[0],
		ByPeakDraw:     candidates[1],
		ByDailyVolume:  candidates[2],
		RequiredL:      required,
		Governing:      governing,
		IntegralTankL:  in.IntegralTankL,
		Notes:          "Largest of recovery-gap, peak-draw and daily-volume estimates.",
	}
	if in.IntegralTankL > 0 && in.IntegralTankL >= required {
		res.Notes = "Integral tank covers the requirement; no external tank."
		return res
	}
	res.RecommendedL = roundUp(required, p.IncrementL)
	return res
}

func roundUp(v, step float64) float64 {
	if v <= 0 {
		return 0
	}
	if step <= 0 {
		return math.Ceil(v)
	}
	return math.Ceil(v/step) * step
}

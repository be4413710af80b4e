package autodesign

import (
	"Caldera/internal/calc/fixtures"
	"Caldera/internal/calc/savings"
	"Caldera/internal/calc/units"
	"Caldera/internal/catalog"
)

// QuickInput sizes a system from fixture counts instead of a known daily volume.
// Any daily_liters in the embedded inputs is ignored.
type QuickInput struct {
	savings.CustomerInputs
	Fixtures fixtures.Input `json:"fixtures"`
}

type QuickResult struct {
	Fixtures fixtures.Result `json:"fixtures"`
	savings.Result
}

// Quick estimates daily liters from fixtures and runs the sizing engine on it.
// Operating hours fall back to the fixture hours when not given.
func Quick(t units.Table, in QuickInput, records []catalog.Record) QuickResult {
	est := fixtures.Calculate(in.Fixtures)
	inputs := in.CustomerInputs
	inputs.DailyLiters = float64(est.DailyLiters)
	if inputs.OperatingHours <= 0 {
		inputs.OperatingHours = est.HoursPerDay
	}
	res := savings.Calculate(t, inputs, records)
	if res.Notes != "" && !res.Failed() {
		res.Notes = "Auto-sized from fixture counts. " + res.Notes
	}
	return QuickResult{Fixtures: est, Result: res}
}

package autodesign

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Caldera/internal/calc/fixtures"
	"Caldera/internal/calc/savings"
	"Caldera/internal/calc/units"
	"Caldera/internal/catalog"
)

func records() []catalog.Record {
	return []catalog.Record{
		{ID: "hp-4", KW: 4, COP: 4, Refrigerant: "R290", Price: 1800},
		{ID: "hp-9", KW: 9, COP: 4, Refrigerant: "R290", Price: 3600},
	}
}

func TestQuickUsesFixtureEstimate(t *testing.T) {
	in := QuickInput{
		CustomerInputs: savings.CustomerInputs{
			DailyLiters: 99999,
			InletTempC:  15,
			TargetTempC: 55,
		},
		Fixtures: fixtures.Input{Showers: 4, Basins: 2, Sinks: 1, Occupants: 6, HoursPerDay: 10},
	}
	res := Quick(units.Default(), in, records())
	require.False(t, res.Failed(), res.Error)

	assert.Equal(t, 640, res.Fixtures.DailyLiters)
	assert.Equal(t, 640.0, res.Metrics.DailyLiters)
	assert.Equal(t, 10.0, res.Metrics.OperatingHours)
	assert.Contains(t, res.Notes, "fixture counts")

	direct := savings.Calculate(units.Default(), savings.CustomerInputs{
		DailyLiters: 640, OperatingHours: 10, InletTempC: 15, TargetTempC: 55,
	}, records())
	assert.Equal(t, direct.System, res.System)
	assert.Equal(t, direct.Financials, res.Financials)
}

func TestQuickKeepsExplicitHours(t *testing.T) {
	in := QuickInput{
		CustomerInputs: savings.CustomerInputs{OperatingHours: 16, InletTempC: 20, TargetTempC: 60},
		Fixtures:       fixtures.Input{Showers: 2, HoursPerDay: 8},
	}
	res := Quick(units.Default(), in, records())
	require.False(t, res.Failed())
	assert.Equal(t, 16.0, res.Metrics.OperatingHours)
}

func TestQuickPropagatesEngineErrors(t *testing.T) {
	in := QuickInput{
		CustomerInputs: savings.CustomerInputs{InletTempC: 60, TargetTempC: 40},
		Fixtures:       fixtures.Input{Showers: 2},
	}
	res := Quick(units.Default(), in, records())
	assert.Equal(t, savings.CodeInvalidPhysicalInputs, res.ErrorCode)
	assert.Equal(t, 120, res.Fixtures.DailyLiters)
}

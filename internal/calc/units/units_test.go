package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThermalLoadKWh(t *testing.T) {
	dt, err := DeltaT(25, 55)
	require.NoError(t, err)
	assert.InDelta(t, 87.225, ThermalLoadKWh(2500, dt), 1e-6)
}

func TestDeltaTRejectsNonPositive(t *testing.T) {
	_, err := DeltaT(55, 55)
	assert.ErrorIs(t, err, ErrInvalidPhysicalInputs)

	_, err = DeltaT(60, 40)
	assert.ErrorIs(t, err, ErrInvalidPhysicalInputs)
}

func TestLitersPerHour(t *testing.T) {
	assert.InDelta(t, 10/(0.001163*30), LitersPerHour(10, 30), 1e-9)
	assert.Zero(t, LitersPerHour(0, 30))
	assert.Zero(t, LitersPerHour(10, 0))
}

func TestSafeDiv(t *testing.T) {
	assert.Zero(t, SafeDiv(10, 0))
	assert.Zero(t, SafeDiv(10, -1))
	assert.Equal(t, 5.0, SafeDiv(10, 2))
}

func TestRefrigerantMatches(t *testing.T) {
	assert.True(t, RefrigerantAny.Matches("R32"))
	assert.True(t, Refrigerant("").Matches("Unknown"))
	assert.True(t, RefrigerantR290.Matches(" r290 "))
	assert.False(t, RefrigerantR290.Matches("R32"))
}

func TestParseFuel(t *testing.T) {
	assert.Equal(t, FuelPropane, ParseFuel("LPG"))
	assert.Equal(t, FuelGas, ParseFuel("gas"))
	assert.Equal(t, FuelDiesel, ParseFuel("Diesel"))
	assert.Equal(t, FuelElectric, ParseFuel("anything"))
}

func TestTableLookups(t *testing.T) {
	tbl := Default()

	assert.Equal(t, "€", tbl.Currency("eur").Symbol)
	assert.Equal(t, "$", tbl.Currency("XXX").Symbol)
	assert.InDelta(t, 170.0, tbl.ToCurrency(10, "MXN"), 1e-9)

	assert.Equal(t, 0.40, tbl.CoincidenceFactor(SegmentRestaurant, 0))
	assert.Equal(t, 0.25, tbl.CoincidenceFactor(SegmentRestaurant, 0.25))
	assert.Equal(t, 0.45, tbl.CoincidenceFactor(Segment("unknown"), 0))

	assert.Equal(t, 1.0, tbl.AmbientDerate(20))
	assert.InDelta(t, 0.8, tbl.AmbientDerate(10), 1e-9)
	assert.Equal(t, 0.5, tbl.AmbientDerate(-40))
	assert.Equal(t, 1.2, tbl.AmbientDerate(45))
}

func TestDefaultReturnsIndependentCopies(t *testing.T) {
	a := Default()
	a.CoincidenceFactors[SegmentHome] = 0.9

	b := Default()
	assert.Equal(t, 0.30, b.CoincidenceFactors[SegmentHome])
}

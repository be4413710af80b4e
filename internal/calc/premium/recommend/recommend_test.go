package recommend

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Caldera/internal/calc/savings"
	"Caldera/internal/calc/units"
	"Caldera/internal/catalog"
)

func catalogOf(n int) []catalog.Record {
	out := make([]catalog.Record, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, catalog.Record{
			ID:          fmt.Sprintf("hp-%02d", i),
			KW:          float64(4 + i),
			COP:         4,
			Refrigerant: "R290",
			Price:       float64(5000 - 200*i),
		})
	}
	return out
}

func input() Input {
	return Input{CustomerInputs: savings.CustomerInputs{
		DailyLiters:    2500,
		OperatingHours: 16,
		InletTempC:     25,
		TargetTempC:    55,
		UserType:       units.SegmentRestaurant,
	}}
}

func TestAlternativesCheapestFirstAndLimited(t *testing.T) {
	res := Alternatives(units.Default(), input(), catalogOf(10))
	require.Empty(t, res.Error)
	require.Len(t, res.Options, DefaultLimit)

	for i := 1; i < len(res.Options); i++ {
		assert.LessOrEqual(t, res.Options[i-1].Price, res.Options[i].Price)
		assert.Equal(t, i+1, res.Options[i].Rank)
	}
	for _, o := range res.Options {
		assert.GreaterOrEqual(t, o.AdjustedKW, res.RequiredKW)
	}
	assert.Equal(t, "hp-09", res.Options[0].Equipment.ID)
}

func TestFirstOptionMatchesSizing(t *testing.T) {
	records := catalogOf(10)
	in := input()
	in.Limit = 3
	res := Alternatives(units.Default(), in, records)
	sized := savings.Calculate(units.Default(), in.CustomerInputs, records)

	require.Len(t, res.Options, 3)
	assert.Equal(t, sized.System.Equipment.ID, res.Options[0].Equipment.ID)
}

func TestAlternativesErrors(t *testing.T) {
	in := input()
	in.Refrigerant = units.RefrigerantR32
	res := Alternatives(units.Default(), in, catalogOf(4))
	assert.Equal(t, savings.CodeNoQualifyingEquipment, res.ErrorCode)
	assert.Empty(t, res.Options)

	in = input()
	in.TargetTempC = in.InletTempC
	res = Alternatives(units.Default(), in, catalogOf(4))
	assert.Equal(t, savings.CodeInvalidPhysicalInputs, res.ErrorCode)
}

package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"Caldera/internal/calc/bundle"
	"Caldera/internal/calc/savings"
	"Caldera/internal/calc/units"
	"Caldera/internal/catalog"
)

var now = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func heatPumps() []catalog.Record {
	return []catalog.Record{{ID: "hp-8", Name: "Aqua 8", KW: 8, COP: 4, Refrigerant: "R290", Price: 3500}}
}

func customer() savings.CustomerInputs {
	return savings.CustomerInputs{
		UserType:       units.SegmentSpa,
		DailyLiters:    1200,
		OperatingHours: 12,
		InletTempC:     18,
		TargetTempC:    55,
		CurrentFuel:    units.FuelPropane,
		Currency:       "EUR",
		Enterprise:     &savings.EnterpriseInputs{DiscountRate: 0.08, WaterScore: 7},
	}
}

func TestSizingPDF(t *testing.T) {
	res := savings.Calculate(units.Default(), customer(), heatPumps())
	require.False(t, res.Failed(), res.Error)

	var buf bytes.Buffer
	err := Sizing(&buf, Header{Project: "Spa retrofit", Customer: "Müller GmbH", Lang: "de"}, res, now)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestSizingRefusesFailedResult(t *testing.T) {
	var buf bytes.Buffer
	err := Sizing(&buf, Header{}, savings.Result{Error: "x", ErrorCode: savings.CodeNoQualifyingEquipment}, now)
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}

func TestBundlePDF(t *testing.T) {
	in := bundle.Inputs{CustomerInputs: customer(), BaseLoadKW: 6,
		Portfolio: &bundle.PortfolioInputs{FleetSize: 12, ConversionRate: 0.25, MarginRate: 0.2}}
	inverters := []catalog.Record{{ID: "inv-10", Name: "Inv 10", Category: "Inverter", KW: 10, Price: 1400}}
	a := bundle.Calculate(units.Default(), in, heatPumps(), inverters)
	require.False(t, a.Failed(), a.Error)

	var buf bytes.Buffer
	require.NoError(t, Bundle(&buf, Header{Title: "Partner offer"}, a, now))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestNumberFormattingFollowsLanguage(t *testing.T) {
	en := &doc{p: newPrinter("en")}
	de := &doc{p: newPrinter("de")}
	assert.Equal(t, "12,345.68", en.num(12345.678, 2))
	assert.Equal(t, "12.345,68", de.num(12345.678, 2))
	assert.Equal(t, "-€1,000.00", en.money("€", -1000))
	assert.Equal(t, language.English, Language("not a tag!"))
}

package recommend

import (
	"Caldera/internal/calc/savings"
	"Caldera/internal/calc/selector"
	"Caldera/internal/calc/units"
	"Caldera/internal/catalog"
)

const DefaultLimit = 5

type Input struct {
	savings.CustomerInputs
	Limit int `json:"limit" validate:"gte=0,lte=50"`
}

type Option struct {
	Rank       int            `json:"rank"`
	Equipment  catalog.Record `json:"equipment"`
	AdjustedKW float64        `json:"adjusted_kw"`
	COP        float64        `json:"cop"`
	Price      float64        `json:"price"`
	// DailyCost is the heat pump's electricity cost for the demand.
	DailyCost float64 `json:"daily_cost"`
}

type Result struct {
	RequiredKW     float64  `json:"required_kw,omitempty"`
	DerateFactor   float64  `json:"derate_factor,omitempty"`
	Currency       string   `json:"currency,omitempty"`
	CurrencySymbol string   `json:"currency_symbol,omitempty"`
	Options        []Option `json:"options,omitempty"`
	Notes          string   `json:"notes,omitempty"`
	Error          string   `json:"error,omitempty"`
	ErrorCode      string   `json:"error_code,omitempty"`
}

// Alternatives lists every unit the sizing engine would accept, cheapest first.
// The first option is the one savings.Calculate selects.
func Alternatives(t units.Table, in Input, records []catalog.Record) Result {
	d, err := savings.NewDemand(t, in.CustomerInputs)
	if err != nil {
		return failure(err, savings.CodeInvalidPhysicalInputs)
	}
	limit := in.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	found := selector.Qualifying(d.RequiredKW, records, savings.HeatPumpFilter(in.CustomerInputs), d.AdjustedKW)
	if len(found) == 0 {
		return failure(selector.ErrNoQualifyingEquipment, savings.CodeNoQualifyingEquipment)
	}
	if len(found) > limit {
		found = found[:limit]
	}

	cur := t.Currency(in.Currency)
	rate := in.ElectricityRate
	if rate <= 0 {
		rate = cur.ElectricityRate
	}
	res := Result{
		RequiredKW:     d.RequiredKW,
		DerateFactor:   d.DerateFactor,
		Currency:       cur.Code,
		CurrencySymbol: cur.Symbol,
		Options:        make([]Option, 0, len(found)),
		Notes:          "Qualifying units ordered by price, then capacity.",
	}
	for i, sel := range found {
		cop := savings.EffectiveCOP(t, sel.Record)
		res.Options = append(res.Options, Option{
			Rank:       i + 1,
			Equipment:  sel.Record,
			AdjustedKW: sel.Capacity,
			COP:        cop,
			Price:      t.ToCurrency(sel.Record.Price, cur.Code),
			DailyCost:  units.SafeDiv(d.ThermalLoadKWh, cop) * rate,
		})
	}
	return res
}

func failure(err error, code string) Result {
	return Result{Error: err.Error(), ErrorCode: code}
}

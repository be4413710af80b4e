package batch

import (
	"Caldera/internal/calc/savings"
	"Caldera/internal/calc/units"
	"Caldera/internal/catalog"
)

const MaxItems = 200

type Input struct {
	Items []savings.CustomerInputs `json:"items" validate:"required,min=1,max=200,dive"`
}

type Result struct {
	Results   []savings.Result `json:"results"`
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
}

// Calculate runs every item against the same catalog, in order. One item's
// failure is recorded in its own slot and does not stop the rest.
func Calculate(t units.Table, in Input, records []catalog.Record) Result {
	out := Result{Results: make([]savings.Result, 0, len(in.Items))}
	for _, item := range in.Items {
		res := savings.Calculate(t, item, records)
		if res.Failed() {
			out.Failed++
		} else {
			out.Succeeded++
		}
		out.Results = append(out.Results, res)
	}
	return out
}

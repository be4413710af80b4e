package bundle

import (
	"net/http"
	"time"

	"Caldera/internal/calc"
	"Caldera/internal/catalog"
)

type Request struct {
	Inputs
	HeatPumps []map[string]any `json:"heat_pumps,omitempty"`
	Inverters []map[string]any `json:"inverters,omitempty"`
}

type Handler struct {
	Env *calc.Env
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	var req Request
	if !h.Env.Decode(w, r, &req) {
		return
	}
	heatPumps, err := h.Env.Records(r.Context(), catalog.KindHeatPump, req.HeatPumps)
	if err != nil {
		h.Env.Fail(w, r, err)
		return
	}
	inverters, err := h.Env.Records(r.Context(), catalog.KindInverter, req.Inverters)
	if err != nil {
		h.Env.Fail(w, r, err)
		return
	}
	res := Calculate(h.Env.Table, req.Inputs, heatPumps, inverters)
	h.Env.Outcome(w, r, "bundle", res.ErrorCode, started, res)
}

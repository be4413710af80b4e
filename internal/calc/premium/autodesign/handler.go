package autodesign

import (
	"net/http"
	"time"

	"Caldera/internal/calc"
	"Caldera/internal/catalog"
)

type Request struct {
	QuickInput
	Catalog []map[string]any `json:"catalog,omitempty"`
}

type Handler struct {
	Env *calc.Env
}

func (h *Handler) Quick(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	var req Request
	if !h.Env.Decode(w, r, &req) {
		return
	}
	records, err := h.Env.Records(r.Context(), catalog.KindHeatPump, req.Catalog)
	if err != nil {
		h.Env.Fail(w, r, err)
		return
	}
	res := Quick(h.Env.Table, req.QuickInput, records)
	h.Env.Outcome(w, r, "quick_sizing", res.ErrorCode, started, res)
}

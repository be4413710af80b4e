package batch

import (
	"net/http"
	"time"

	"Caldera/internal/calc"
	"Caldera/internal/catalog"
)

type Request struct {
	Input
	Catalog []map[string]any `json:"catalog,omitempty"`
}

type Handler struct {
	Env *calc.Env
}

// Sizing answers 200 even when some items failed; each result carries its own code.
func (h *Handler) Sizing(w http.ResponseWriter, r *http.Request) {
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
	h.Env.Outcome(w, r, "batch_sizing", "", started, Calculate(h.Env.Table, req.Input, records))
}

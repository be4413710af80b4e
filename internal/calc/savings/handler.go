package savings

import (
	"net/http"
	"time"

	"Caldera/internal/calc"
	"Caldera/internal/catalog"
)

// Request is CustomerInputs plus an optional inline catalog. Without one the
// stored heat pump catalog is used.
type Request struct {
	CustomerInputs
	Catalog []map[string]any `json:"catalog,omitempty"`
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
	records, err := h.Env.Records(r.Context(), catalog.KindHeatPump, req.Catalog)
	if err != nil {
		h.Env.Fail(w, r, err)
		return
	}
	res := Calculate(h.Env.Table, req.CustomerInputs, records)
	h.Env.Outcome(w, r, "sizing", res.ErrorCode, started, res)
}

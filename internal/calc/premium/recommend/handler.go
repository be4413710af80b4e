package recommend

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

func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
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
	res := Alternatives(h.Env.Table, req.Input, records)
	h.Env.Outcome(w, r, "recommend", res.ErrorCode, started, res)
}

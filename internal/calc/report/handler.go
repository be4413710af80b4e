package report

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"Caldera/internal/apperr"
	"Caldera/internal/calc"
	"Caldera/internal/calc/bundle"
	"Caldera/internal/calc/savings"
	"Caldera/internal/catalog"
)

type SizingRequest struct {
	Header
	Inputs  savings.CustomerInputs `json:"inputs"`
	Catalog []map[string]any       `json:"catalog,omitempty"`
}

type BundleRequest struct {
	Header
	Inputs    bundle.Inputs    `json:"inputs"`
	HeatPumps []map[string]any `json:"heat_pumps,omitempty"`
	Inverters []map[string]any `json:"inverters,omitempty"`
}

type Handler struct {
	Env *calc.Env
}

func (h *Handler) Sizing(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	var req SizingRequest
	if !h.Env.Decode(w, r, &req) {
		return
	}
	records, err := h.Env.Records(r.Context(), catalog.KindHeatPump, req.Catalog)
	if err != nil {
		h.Env.Fail(w, r, err)
		return
	}
	res := savings.Calculate(h.Env.Table, req.Inputs, records)
	if res.Failed() {
		h.Env.Outcome(w, r, "sizing_report", res.ErrorCode, started, res)
		return
	}
	var buf bytes.Buffer
	if err := Sizing(&buf, req.Header, res, started); err != nil {
		h.Env.Fail(w, r, apperr.Wrap(apperr.KindInternal, "Report generation error", err))
		return
	}
	h.Env.Log.WithContext(r.Context()).Calculation("sizing_report", "", float64(time.Since(started).Microseconds())/1000)
	writePDF(w, "proposal.pdf", &buf)
}

func (h *Handler) Bundle(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	var req BundleRequest
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
	a := bundle.Calculate(h.Env.Table, req.Inputs, heatPumps, inverters)
	if a.Failed() {
		h.Env.Outcome(w, r, "bundle_report", a.ErrorCode, started, a)
		return
	}
	var buf bytes.Buffer
	if err := Bundle(&buf, req.Header, a, started); err != nil {
		h.Env.Fail(w, r, apperr.Wrap(apperr.KindInternal, "Report generation error", err))
		return
	}
	h.Env.Log.WithContext(r.Context()).Calculation("bundle_report", "", float64(time.Since(started).Microseconds())/1000)
	writePDF(w, "bundle.pdf", &buf)
}

func writePDF(w http.ResponseWriter, name string, buf *bytes.Buffer) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, _ = buf.WriteTo(w)
}

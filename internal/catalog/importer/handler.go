package importer

import (
	"net/http"

	"github.com/gorilla/mux"

	"Caldera/internal/apperr"
	"Caldera/internal/calc"
	"Caldera/internal/catalog"
)

const maxUpload = 10 << 20

type Handler struct {
	Env   *calc.Env
	Store catalog.Store
}

func parseKind(v string) (catalog.Kind, error) {
	switch k := catalog.Kind(v); k {
	case catalog.KindHeatPump, catalog.KindInverter:
		return k, nil
	}
	return "", apperr.Validation("kind must be heat_pump or inverter")
}

// Import replaces the stored catalog of the posted kind with the sheet's records.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		h.Env.Fail(w, r, apperr.Wrap(apperr.KindBadRequest, "File required", err))
		return
	}
	kind, err := parseKind(r.FormValue("kind"))
	if err != nil {
		h.Env.Fail(w, r, err)
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		h.Env.Fail(w, r, apperr.Wrap(apperr.KindBadRequest, "File required", err))
		return
	}
	defer file.Close()

	records, summary, err := Load(file, kind)
	if err != nil {
		h.Env.Fail(w, r, apperr.Wrap(apperr.KindValidation, "Invalid file", err).WithDetails(err.Error()))
		return
	}
	if err := h.Store.ReplaceCatalog(r.Context(), kind, records); err != nil {
		h.Env.Log.DatabaseError("replace catalog", err)
		h.Env.Fail(w, r, apperr.Wrap(apperr.KindInternal, "Could not store catalog", err))
		return
	}
	h.Env.Log.WithContext(r.Context()).Info("catalog_imported",
		"kind", string(kind), "imported", summary.Imported, "rejected", len(summary.Rejected))
	calc.JSON(w, http.StatusCreated, summary)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	kind, err := parseKind(mux.Vars(r)["kind"])
	if err != nil {
		h.Env.Fail(w, r, err)
		return
	}
	records, err := h.Store.Records(r.Context(), kind)
	if err != nil {
		h.Env.Log.DatabaseError("list catalog", err)
		h.Env.Fail(w, r, apperr.Wrap(apperr.KindInternal, "Could not load catalog", err))
		return
	}
	if records == nil {
		records = []catalog.Record{}
	}
	calc.JSON(w, http.StatusOK, records)
}

// Package calc holds what every calculator handler shares: the constants
// table, the equipment catalog, request validation and logging.
package calc

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"Caldera/internal/apperr"
	"Caldera/internal/calc/units"
	"Caldera/internal/catalog"
	"Caldera/internal/logger"
	"Caldera/internal/validation"
)

// MaxBodyBytes caps calculator request bodies.
const MaxBodyBytes = 4 << 20

type Env struct {
	Table    units.Table
	Catalog  catalog.Source
	Validate *validation.Validator
	Log      *logger.Logger
}

// NewEnv fills missing collaborators with working defaults.
func NewEnv(t units.Table, src catalog.Source, v *validation.Validator, log *logger.Logger) *Env {
	if src == nil {
		src = catalog.NewMemory()
	}
	if v == nil {
		v = validation.New()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Env{Table: t, Catalog: src, Validate: v, Log: log}
}

// Decode reads a JSON body into dst and validates it. On failure the error
// response is already written and false is returned.
func (e *Env) Decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		e.Fail(w, r, apperr.Wrap(apperr.KindBadRequest, "Invalid request payload", err))
		return false
	}
	if err := e.Validate.Struct(dst); err != nil {
		e.Fail(w, r, err)
		return false
	}
	return true
}

func (e *Env) Fail(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.Write(w, err)
	if status >= http.StatusInternalServerError {
		e.Log.WithContext(r.Context()).HTTPError(r.Method, r.URL.Path, status, err, r.RemoteAddr)
	}
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Outcome writes a calculator result. Results that carry a business error
// code go out as 422 with the same body.
func (e *Env) Outcome(w http.ResponseWriter, r *http.Request, tool, errorCode string, started time.Time, v any) {
	e.Log.WithContext(r.Context()).Calculation(tool, errorCode, float64(time.Since(started).Microseconds())/1000)
	status := http.StatusOK
	if errorCode != "" {
		status = http.StatusUnprocessableEntity
	}
	JSON(w, status, v)
}

// Records returns inline documents when the request carried any, otherwise
// the stored catalog of that kind.
func (e *Env) Records(ctx context.Context, kind catalog.Kind, inline []map[string]any) ([]catalog.Record, error) {
	if inline != nil {
		records, _, err := catalog.Ingest(kind, inline)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindValidation, "catalog documents need an id or name", err)
		}
		return records, nil
	}
	records, err := e.Catalog.Records(ctx, kind)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "catalog unavailable", err)
	}
	return records, nil
}

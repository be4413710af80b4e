package fixtures

import (
	"encoding/json"
	"net/http"
	"time"

	"Caldera/internal/apperr"
	"Caldera/internal/calc"
)

type Handler struct {
	Env *calc.Env
}

// Calc skips struct validation: the estimator already treats junk and
// negative counts as zero.
func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	var input Input
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, calc.MaxBodyBytes)).Decode(&input); err != nil {
		h.Env.Fail(w, r, apperr.Wrap(apperr.KindBadRequest, "Invalid request payload", err))
		return
	}
	h.Env.Outcome(w, r, "fixtures", "", started, Calculate(input))
}

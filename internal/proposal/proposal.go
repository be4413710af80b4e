// Package proposal stores calculator runs so they can be reopened later.
package proposal

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"Caldera/internal/apperr"
	"Caldera/internal/auth"
	"Caldera/internal/calc"
	"Caldera/internal/calc/bundle"
	"Caldera/internal/calc/savings"
	"Caldera/internal/catalog"
	"Caldera/internal/repo"
)

const (
	KindSizing = "sizing"
	KindBundle = "bundle"
)

type CreateRequest struct {
	Kind   string          `json:"kind" validate:"required,oneof=sizing bundle"`
	Title  string          `json:"title" validate:"max=200"`
	Inputs json.RawMessage `json:"inputs" validate:"required"`
}

type Handler struct {
	Env  *calc.Env
	Repo repo.ProposalRepository
}

// Create recomputes the result from the stored catalog before saving, so a
// saved proposal always matches its inputs.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.Env.Fail(w, r, apperr.Unauthorized("Unauthorized"))
		return
	}
	var req CreateRequest
	if !h.Env.Decode(w, r, &req) {
		return
	}
	result, code, err := h.run(r, req)
	if err != nil {
		h.Env.Fail(w, r, err)
		return
	}
	if code != "" {
		h.Env.Fail(w, r, apperr.Validation("calculation failed; proposal not saved").WithDetails(result))
		return
	}
	encoded, err := json.Marshal(result)
	if err != nil {
		h.Env.Fail(w, r, apperr.Wrap(apperr.KindInternal, "encode result", err))
		return
	}
	p := &repo.Proposal{UserID: userID, Kind: req.Kind, Title: req.Title, Inputs: req.Inputs, Result: encoded}
	if err := h.Repo.SaveProposal(r.Context(), p); err != nil {
		h.Env.Log.DatabaseError("save proposal", err)
		h.Env.Fail(w, r, apperr.Wrap(apperr.KindInternal, "Could not save proposal", err))
		return
	}
	calc.JSON(w, http.StatusCreated, p)
}

func (h *Handler) run(r *http.Request, req CreateRequest) (any, string, error) {
	heatPumps, err := h.Env.Records(r.Context(), catalog.KindHeatPump, nil)
	if err != nil {
		return nil, "", err
	}
	switch req.Kind {
	case KindBundle:
		var in bundle.Inputs
		if err := h.decodeInputs(req.Inputs, &in); err != nil {
			return nil, "", err
		}
		inverters, err := h.Env.Records(r.Context(), catalog.KindInverter, nil)
		if err != nil {
			return nil, "", err
		}
		a := bundle.Calculate(h.Env.Table, in, heatPumps, inverters)
		return a, a.ErrorCode, nil
	default:
		var in savings.CustomerInputs
		if err := h.decodeInputs(req.Inputs, &in); err != nil {
			return nil, "", err
		}
		res := savings.Calculate(h.Env.Table, in, heatPumps)
		return res, res.ErrorCode, nil
	}
}

func (h *Handler) decodeInputs(raw json.RawMessage, dst any) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		return apperr.Wrap(apperr.KindBadRequest, "Invalid inputs", err)
	}
	return h.Env.Validate.Struct(dst)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.Env.Fail(w, r, apperr.Unauthorized("Unauthorized"))
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.Env.Fail(w, r, apperr.BadRequest("Invalid proposal id"))
		return
	}
	p, err := h.Repo.GetProposal(r.Context(), userID, id)
	if errors.Is(err, repo.ErrNotFound) {
		h.Env.Fail(w, r, apperr.NotFound("Proposal not found"))
		return
	}
	if err != nil {
		h.Env.Log.DatabaseError("get proposal", err)
		h.Env.Fail(w, r, apperr.Wrap(apperr.KindInternal, "Could not load proposal", err))
		return
	}
	calc.JSON(w, http.StatusOK, p)
}

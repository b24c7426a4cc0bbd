package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/shafinali-ops/BioCare-sub002/internal/common"
)

type setAvailabilityRequest struct {
	Availability common.Availability `json:"availability"`
}

func (h *Handlers) setAvailability(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req setAvailabilityRequest
	if !decodeBody(w, r, &req) {
		return
	}

	rec, err := h.presence.SetAvailability(r.Context(), p.UserID, p.Role, req.Availability)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *Handlers) getAvailability(w http.ResponseWriter, r *http.Request) {
	if _, ok := principal(w, r); !ok {
		return
	}

	rec, err := h.presence.GetAvailability(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/shafinali-ops/BioCare-sub002/internal/dbmysql"
)

type initiateCallRequest struct {
	ReceiverID string `json:"receiverId"`
}

func (h *Handlers) initiateCall(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req initiateCallRequest
	if !decodeBody(w, r, &req) {
		return
	}

	c, err := h.calls.Initiate(r.Context(), p.UserID, req.ReceiverID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// checkIncomingCall is the poll fallback for clients without a live
// channel. Responds 200 with null when nothing is ringing.
func (h *Handlers) checkIncomingCall(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	c, err := h.calls.CheckIncoming(r.Context(), p.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Call *dbmysql.Call `json:"call"`
	}{Call: c})
}

func (h *Handlers) getCallStatus(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	c, err := h.calls.Get(r.Context(), mux.Vars(r)["id"], p.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handlers) acceptCall(w http.ResponseWriter, r *http.Request) {
	h.callTransition(w, r, h.calls.Accept)
}

func (h *Handlers) rejectCall(w http.ResponseWriter, r *http.Request) {
	h.callTransition(w, r, h.calls.Reject)
}

func (h *Handlers) endCall(w http.ResponseWriter, r *http.Request) {
	h.callTransition(w, r, h.calls.End)
}

func (h *Handlers) callTransition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, callID, actingUserID string) (*dbmysql.Call, error)) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	c, err := op(r.Context(), mux.Vars(r)["id"], p.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/shafinali-ops/BioCare-sub002/internal/common"
)

func (h *Handlers) listNotifications(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	notifications, err := h.notifs.List(r.Context(), p.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notifications)
}

func (h *Handlers) unreadNotificationCount(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	count, err := h.notifs.UnreadCount(r.Context(), p.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Count int64 `json:"count"`
	}{Count: count})
}

func (h *Handlers) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	if err := h.notifs.MarkRead(r.Context(), mux.Vars(r)["id"], p.UserID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *Handlers) markAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	if err := h.notifs.MarkAllRead(r.Context(), p.UserID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

type raiseEventRequest struct {
	UserID    string                  `json:"userId"`
	Type      common.NotificationType `json:"type"`
	Message   string                  `json:"message"`
	RelatedID *string                 `json:"relatedId"`
}

// raiseEvent is the intake for external domain-event producers
// (appointment, consultation and prescription services). Service role
// only; end users never raise notifications directly.
func (h *Handlers) raiseEvent(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	if p.Role != common.RoleService && p.Role != common.RoleAdmin {
		writeError(w, common.Forbiddenf("role %s cannot raise domain events", p.Role))
		return
	}

	var req raiseEventRequest
	if !decodeBody(w, r, &req) {
		return
	}

	notification, err := h.notifs.Raise(r.Context(), req.UserID, req.Type, req.Message, req.RelatedID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, notification)
}

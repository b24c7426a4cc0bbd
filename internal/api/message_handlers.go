package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/shafinali-ops/BioCare-sub002/internal/dbmysql"
)

type sendMessageRequest struct {
	ReceiverID string              `json:"receiverId"`
	Body       *string             `json:"body"`
	Attachment *dbmysql.Attachment `json:"attachment"`
}

func (h *Handlers) sendMessage(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req sendMessageRequest
	if !decodeBody(w, r, &req) {
		return
	}

	msg, err := h.chat.Send(r.Context(), p.UserID, req.ReceiverID, req.Body, req.Attachment)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

func (h *Handlers) markMessagesRead(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	peerID := mux.Vars(r)["peerId"]

	if err := h.chat.MarkRead(r.Context(), p.UserID, peerID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *Handlers) listConversations(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	summaries, err := h.chat.ListConversations(r.Context(), p.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (h *Handlers) listConversation(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	peerID := mux.Vars(r)["peerId"]

	messages, err := h.chat.ListConversation(r.Context(), p.UserID, peerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

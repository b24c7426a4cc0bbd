package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/shafinali-ops/BioCare-sub002/internal/call"
	"github.com/shafinali-ops/BioCare-sub002/internal/chat"
	"github.com/shafinali-ops/BioCare-sub002/internal/common"
	"github.com/shafinali-ops/BioCare-sub002/internal/gateway"
	"github.com/shafinali-ops/BioCare-sub002/internal/notif"
	"github.com/shafinali-ops/BioCare-sub002/internal/presence"
)

// Handlers binds the HTTP surface to the five core services.
type Handlers struct {
	chat     chat.ChatService
	calls    call.CallService
	presence presence.PresenceService
	notifs   notif.NotificationService
	hub      *gateway.Hub
}

func NewHandlers(
	chatSvc chat.ChatService,
	callSvc call.CallService,
	presenceSvc presence.PresenceService,
	notifSvc notif.NotificationService,
	hub *gateway.Hub,
) *Handlers {
	return &Handlers{
		chat:     chatSvc,
		calls:    callSvc,
		presence: presenceSvc,
		notifs:   notifSvc,
		hub:      hub,
	}
}

// NewRouter wires the command, query and push surfaces. Everything under
// /api and /ws requires a valid session token.
func (h *Handlers) NewRouter() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(common.AuthMiddleware)

	// messaging
	api.HandleFunc("/messages", h.sendMessage).Methods(http.MethodPost)
	api.HandleFunc("/messages/{peerId}/read", h.markMessagesRead).Methods(http.MethodPost)
	api.HandleFunc("/conversations", h.listConversations).Methods(http.MethodGet)
	api.HandleFunc("/conversations/{peerId}", h.listConversation).Methods(http.MethodGet)

	// call signaling
	api.HandleFunc("/calls", h.initiateCall).Methods(http.MethodPost)
	api.HandleFunc("/calls/incoming", h.checkIncomingCall).Methods(http.MethodGet)
	api.HandleFunc("/calls/{id}", h.getCallStatus).Methods(http.MethodGet)
	api.HandleFunc("/calls/{id}/accept", h.acceptCall).Methods(http.MethodPost)
	api.HandleFunc("/calls/{id}/reject", h.rejectCall).Methods(http.MethodPost)
	api.HandleFunc("/calls/{id}/end", h.endCall).Methods(http.MethodPost)

	// presence
	api.HandleFunc("/presence", h.setAvailability).Methods(http.MethodPut)
	api.HandleFunc("/presence/{userId}", h.getAvailability).Methods(http.MethodGet)

	// notifications
	api.HandleFunc("/notifications", h.listNotifications).Methods(http.MethodGet)
	api.HandleFunc("/notifications/unread-count", h.unreadNotificationCount).Methods(http.MethodGet)
	api.HandleFunc("/notifications/read-all", h.markAllNotificationsRead).Methods(http.MethodPost)
	api.HandleFunc("/notifications/{id}/read", h.markNotificationRead).Methods(http.MethodPost)

	// domain-event intake for external services
	api.HandleFunc("/events", h.raiseEvent).Methods(http.MethodPost)

	// push surface
	ws := router.PathPrefix("/ws").Subrouter()
	ws.Use(common.AuthMiddleware)
	ws.HandleFunc("", h.serveWS).Methods(http.MethodGet)

	return router
}

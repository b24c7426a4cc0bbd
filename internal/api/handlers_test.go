package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shafinali-ops/BioCare-sub002/internal/common"
	"github.com/shafinali-ops/BioCare-sub002/internal/config"
	"github.com/shafinali-ops/BioCare-sub002/internal/dbmysql"
	"github.com/shafinali-ops/BioCare-sub002/internal/gateway"
)

// stub services return canned results so the tests exercise routing,
// auth and error mapping rather than business logic.

type stubChat struct {
	sendErr error
}

func (s *stubChat) Send(ctx context.Context, senderID, receiverID string, body *string, attachment *dbmysql.Attachment) (*dbmysql.Message, error) {
	if s.sendErr != nil {
		return nil, s.sendErr
	}
	return &dbmysql.Message{ID: "m-1", SenderID: senderID, ReceiverID: receiverID, Body: body}, nil
}

func (s *stubChat) ListConversation(ctx context.Context, userA, userB string) ([]*dbmysql.Message, error) {
	return []*dbmysql.Message{}, nil
}

func (s *stubChat) ListConversations(ctx context.Context, userID string) ([]*dbmysql.ConversationSummary, error) {
	return []*dbmysql.ConversationSummary{}, nil
}

func (s *stubChat) MarkRead(ctx context.Context, userID, peerID string) error { return nil }

type stubCalls struct {
	initiateErr error
	acceptErr   error
}

func (s *stubCalls) Initiate(ctx context.Context, callerID, receiverID string) (*dbmysql.Call, error) {
	if s.initiateErr != nil {
		return nil, s.initiateErr
	}
	return &dbmysql.Call{ID: "c-1", CallerID: callerID, ReceiverID: receiverID, Status: common.CallRinging}, nil
}

func (s *stubCalls) CheckIncoming(ctx context.Context, userID string) (*dbmysql.Call, error) {
	return nil, nil
}

func (s *stubCalls) Accept(ctx context.Context, callID, actingUserID string) (*dbmysql.Call, error) {
	if s.acceptErr != nil {
		return nil, s.acceptErr
	}
	return &dbmysql.Call{ID: callID, Status: common.CallAccepted}, nil
}

func (s *stubCalls) Reject(ctx context.Context, callID, actingUserID string) (*dbmysql.Call, error) {
	return &dbmysql.Call{ID: callID, Status: common.CallRejected}, nil
}

func (s *stubCalls) End(ctx context.Context, callID, actingUserID string) (*dbmysql.Call, error) {
	return &dbmysql.Call{ID: callID, Status: common.CallEnded}, nil
}

func (s *stubCalls) Get(ctx context.Context, callID, actingUserID string) (*dbmysql.Call, error) {
	return &dbmysql.Call{ID: callID, Status: common.CallRinging}, nil
}

func (s *stubCalls) Shutdown() {}

type stubPresence struct{}

func (s *stubPresence) SetAvailability(ctx context.Context, actingUserID string, role common.Role, value common.Availability) (*dbmysql.PresenceRecord, error) {
	if role != common.RoleDoctor {
		return nil, common.Forbiddenf("only doctors can set availability")
	}
	return &dbmysql.PresenceRecord{UserID: actingUserID, Availability: value}, nil
}

func (s *stubPresence) GetAvailability(ctx context.Context, userID string) (*dbmysql.PresenceRecord, error) {
	return &dbmysql.PresenceRecord{UserID: userID, Availability: common.AvailabilityOffline}, nil
}

func (s *stubPresence) OnConnect(userID string)    {}
func (s *stubPresence) OnDisconnect(userID string) {}

type stubNotifs struct {
	markReadErr error
}

func (s *stubNotifs) Raise(ctx context.Context, userID string, notifType common.NotificationType, message string, relatedID *string) (*dbmysql.Notification, error) {
	return &dbmysql.Notification{ID: "n-1", UserID: userID, Type: notifType, Message: message}, nil
}

func (s *stubNotifs) RaiseAsync(event common.NotificationEvent) {}

func (s *stubNotifs) List(ctx context.Context, userID string) ([]*dbmysql.Notification, error) {
	return []*dbmysql.Notification{}, nil
}

func (s *stubNotifs) MarkRead(ctx context.Context, notificationID, actingUserID string) error {
	return s.markReadErr
}

func (s *stubNotifs) MarkAllRead(ctx context.Context, userID string) error { return nil }

func (s *stubNotifs) UnreadCount(ctx context.Context, userID string) (int64, error) { return 0, nil }

func (s *stubNotifs) MissedCall(callerID, receiverID, callID string) {}

func (s *stubNotifs) Shutdown() {}

func newTestRouter(t *testing.T, chat *stubChat, calls *stubCalls, notifs *stubNotifs) http.Handler {
	t.Helper()
	hub := gateway.NewHub(config.GatewayConfig{EgressBufferSize: 8, WriteWait: 10, PongWait: 60, MaxMessageSize: 4096}, nil)
	h := NewHandlers(chat, calls, &stubPresence{}, notifs, hub)
	return h.NewRouter()
}

func authHeader(t *testing.T, userID string, role common.Role) string {
	t.Helper()
	token, err := common.GenerateToken(userID, role)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestHealthzIsPublic(t *testing.T) {
	router := newTestRouter(t, &stubChat{}, &stubCalls{}, &stubNotifs{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPIRequiresToken(t *testing.T) {
	router := newTestRouter(t, &stubChat{}, &stubCalls{}, &stubNotifs{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/conversations", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSendMessage(t *testing.T) {
	router := newTestRouter(t, &stubChat{}, &stubCalls{}, &stubNotifs{})

	body, _ := json.Marshal(map[string]interface{}{
		"receiverId": "patient-1",
		"body":       "hello",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/messages", bytes.NewReader(body))
	req.Header.Set("Authorization", authHeader(t, "doctor-1", common.RoleDoctor))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var msg dbmysql.Message
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg))
	// sender comes from the token, never from the payload
	assert.Equal(t, "doctor-1", msg.SenderID)
	assert.Equal(t, "patient-1", msg.ReceiverID)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   common.ErrorCode
	}{
		{"conflict", common.Conflictf("already in a call"), http.StatusConflict, common.CodeConflict},
		{"invalid argument", common.InvalidArgumentf("empty"), http.StatusBadRequest, common.CodeInvalidArgument},
		{"forbidden", common.Forbiddenf("not yours"), http.StatusForbidden, common.CodeForbidden},
		{"not found", common.NotFoundf("gone"), http.StatusNotFound, common.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t, &stubChat{sendErr: tt.err}, &stubCalls{}, &stubNotifs{})

			body, _ := json.Marshal(map[string]string{"receiverId": "patient-1", "body": "x"})
			req := httptest.NewRequest(http.MethodPost, "/api/messages", bytes.NewReader(body))
			req.Header.Set("Authorization", authHeader(t, "doctor-1", common.RoleDoctor))

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCode, resp.Code)
		})
	}
}

func TestAcceptCallInvalidStateMapsTo422(t *testing.T) {
	calls := &stubCalls{acceptErr: common.InvalidStatef("cannot accept a rejected call")}
	router := newTestRouter(t, &stubChat{}, calls, &stubNotifs{})

	req := httptest.NewRequest(http.MethodPost, "/api/calls/c-1/accept", nil)
	req.Header.Set("Authorization", authHeader(t, "patient-1", common.RolePatient))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRaiseEventServiceRoleOnly(t *testing.T) {
	router := newTestRouter(t, &stubChat{}, &stubCalls{}, &stubNotifs{})

	body, _ := json.Marshal(map[string]string{
		"userId":  "patient-1",
		"type":    "appointment_approved",
		"message": "Your appointment was approved",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/events", bytes.NewReader(body))
	req.Header.Set("Authorization", authHeader(t, "patient-1", common.RolePatient))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/events", bytes.NewReader(body))
	req.Header.Set("Authorization", authHeader(t, "appointment-svc", common.RoleService))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestCheckIncomingReturnsNullWhenIdle(t *testing.T) {
	router := newTestRouter(t, &stubChat{}, &stubCalls{}, &stubNotifs{})

	req := httptest.NewRequest(http.MethodGet, "/api/calls/incoming", nil)
	req.Header.Set("Authorization", authHeader(t, "patient-1", common.RolePatient))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Call *dbmysql.Call `json:"call"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Nil(t, resp.Call)
}

package gateway

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shafinali-ops/BioCare-sub002/internal/common"
	"github.com/shafinali-ops/BioCare-sub002/internal/config"
)

type recordingSink struct {
	mu          sync.Mutex
	connects    []string
	disconnects []string
}

func (s *recordingSink) OnConnect(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connects = append(s.connects, userID)
}

func (s *recordingSink) OnDisconnect(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disconnects = append(s.disconnects, userID)
}

func testGatewayConfig(buffer int) config.GatewayConfig {
	return config.GatewayConfig{
		EgressBufferSize: buffer,
		WriteWait:        10,
		PongWait:         60,
		MaxMessageSize:   4096,
	}
}

// Clients join with a nil conn; the pumps are never started, so tests
// read frames straight off the egress queue.
func TestJoinLeaveDrivesPresence(t *testing.T) {
	sink := &recordingSink{}
	hub := NewHub(testGatewayConfig(8), sink)

	first := hub.Join("user-1", nil)
	second := hub.Join("user-1", nil)

	// only the first channel flips presence
	assert.Equal(t, []string{"user-1"}, sink.connects)
	assert.True(t, hub.Connected("user-1"))

	hub.Leave(first)
	assert.Empty(t, sink.disconnects)
	assert.True(t, hub.Connected("user-1"))

	hub.Leave(second)
	assert.Equal(t, []string{"user-1"}, sink.disconnects)
	assert.False(t, hub.Connected("user-1"))
}

func TestLeaveTwiceIsHarmless(t *testing.T) {
	sink := &recordingSink{}
	hub := NewHub(testGatewayConfig(8), sink)

	c := hub.Join("user-1", nil)
	hub.Leave(c)
	hub.Leave(c)

	assert.Equal(t, []string{"user-1"}, sink.disconnects)
}

func TestPushFansOutToEveryChannel(t *testing.T) {
	hub := NewHub(testGatewayConfig(8), nil)

	phone := hub.Join("patient-1", nil)
	laptop := hub.Join("patient-1", nil)
	other := hub.Join("patient-2", nil)

	hub.Push("patient-1", common.EventMessage, map[string]string{"id": "m-1"})

	for _, c := range []*Client{phone, laptop} {
		select {
		case frame := <-c.egress:
			var event Event
			require.NoError(t, json.Unmarshal(frame, &event))
			assert.Equal(t, common.EventMessage, event.Type)
		default:
			t.Fatal("channel received nothing")
		}
	}

	select {
	case <-other.egress:
		t.Fatal("unrelated user received the event")
	default:
	}
}

func TestPushToOfflineUserIsSilentNoop(t *testing.T) {
	hub := NewHub(testGatewayConfig(8), nil)

	// must not panic or block
	hub.Push("nobody", common.EventCallInvite, map[string]string{"id": "c-1"})
	assert.False(t, hub.Connected("nobody"))
}

func TestPushDropsWhenEgressFull(t *testing.T) {
	hub := NewHub(testGatewayConfig(1), nil)
	c := hub.Join("patient-1", nil)

	// second push finds the queue full and must drop without blocking
	hub.Push("patient-1", common.EventMessage, map[string]string{"id": "m-1"})
	hub.Push("patient-1", common.EventMessage, map[string]string{"id": "m-2"})

	var event Event
	require.NoError(t, json.Unmarshal(<-c.egress, &event))

	payload, ok := event.Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "m-1", payload["id"])

	select {
	case <-c.egress:
		t.Fatal("dropped frame still delivered")
	default:
	}
}

func TestPayloadCarriesFullEntity(t *testing.T) {
	hub := NewHub(testGatewayConfig(8), nil)
	c := hub.Join("doctor-1", nil)

	type callPayload struct {
		ID       string `json:"id"`
		CallerID string `json:"callerId"`
		Status   string `json:"status"`
	}
	hub.Push("doctor-1", common.EventCallRejected, callPayload{
		ID: "call-1", CallerID: "doctor-1", Status: "rejected",
	})

	var event Event
	require.NoError(t, json.Unmarshal(<-c.egress, &event))
	assert.Equal(t, common.EventCallRejected, event.Type)

	payload, ok := event.Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "call-1", payload["id"])
	assert.Equal(t, "rejected", payload["status"])
}

func TestCloseClearsEveryChannel(t *testing.T) {
	hub := NewHub(testGatewayConfig(8), nil)
	hub.Join("user-1", nil)
	hub.Join("user-2", nil)

	hub.Close()

	assert.False(t, hub.Connected("user-1"))
	assert.False(t, hub.Connected("user-2"))
}

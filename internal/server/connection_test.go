package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

type wireMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	v, key := newTestValidator(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	srv := &Server{
		config:       v.config,
		session:      NewSession(v.config, nil),
		jwtValidator: v,
		connections:  make(map[*Connection]bool),
		ctx:          ctx,
		cancel:       cancel,
		upgrader:     websocket.Upgrader{Subprotocols: []string{"access_token"}},
	}
	hs := httptest.NewServer(http.HandlerFunc(srv.handleWebSocket))
	t.Cleanup(hs.Close)

	return srv, "ws" + strings.TrimPrefix(hs.URL, "http") + "?token=" + signToken(t, key, validClaims())
}

func readUntil(t *testing.T, ws *websocket.Conn, msgType string) wireMessage {
	t.Helper()
	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		var msg wireMessage
		if err := ws.ReadJSON(&msg); err != nil {
			t.Fatalf("waiting for %s: %v", msgType, err)
		}
		if msg.Type == msgType {
			return msg
		}
	}
}

func TestWebSocketRejectsMissingToken(t *testing.T) {
	_, url := newTestServer(t)
	bare := url[:strings.Index(url, "?")]
	_, resp, err := websocket.DefaultDialer.Dial(bare, nil)
	if err == nil {
		t.Fatalf("expected dial to fail without a token")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", resp)
	}
}

func TestWebSocketJoinAndGesture(t *testing.T) {
	srv, url := newTestServer(t)
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer ws.Close()

	// Input before joining is refused.
	ws.WriteJSON(map[string]interface{}{"type": "gesture", "payload": map[string]interface{}{"phase": "press"}})
	errMsg := readUntil(t, ws, "error")
	if !strings.Contains(string(errMsg.Payload), "not_joined") {
		t.Fatalf("expected not_joined, got %s", errMsg.Payload)
	}

	ws.WriteJSON(map[string]string{"type": "join"})
	welcome := readUntil(t, ws, "welcome")
	var wp struct {
		PlayerID string `json:"player_id"`
		Snapshot struct {
			Units []json.RawMessage `json:"units"`
		} `json:"snapshot"`
	}
	if err := json.Unmarshal(welcome.Payload, &wp); err != nil {
		t.Fatalf("decode welcome: %v", err)
	}
	if wp.PlayerID != "42" || len(wp.Snapshot.Units) != 4 {
		t.Fatalf("unexpected welcome %s", welcome.Payload)
	}

	// Drag a box over the whole spawn.
	for _, g := range []string{
		`{"type":"gesture","payload":{"phase":"press","x":-100,"y":-100}}`,
		`{"type":"gesture","payload":{"phase":"hold","x":0,"y":0}}`,
		`{"type":"gesture","payload":{"phase":"release","x":100,"y":100}}`,
	} {
		if err := ws.WriteMessage(websocket.TextMessage, []byte(g)); err != nil {
			t.Fatalf("write gesture: %v", err)
		}
	}
	ws.WriteJSON(map[string]string{"type": "ping"})
	readUntil(t, ws, "pong")

	srv.session.Step(0.05)
	snap := readUntil(t, ws, "snapshot")
	var sp struct {
		Units []struct {
			Selected bool `json:"selected"`
		} `json:"units"`
	}
	if err := json.Unmarshal(snap.Payload, &sp); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	for i, u := range sp.Units {
		if !u.Selected {
			t.Fatalf("unit %d not box-selected", i)
		}
	}

	ws.WriteJSON(map[string]string{"type": "dance"})
	errMsg = readUntil(t, ws, "error")
	if !strings.Contains(string(errMsg.Payload), "unknown_message_type") {
		t.Fatalf("expected unknown_message_type, got %s", errMsg.Payload)
	}

	ws.WriteJSON(map[string]string{"type": "leave"})
	ws.WriteJSON(map[string]string{"type": "ping"})
	readUntil(t, ws, "pong")
	if _, ok := srv.session.GetPlayer("42"); ok {
		t.Fatalf("player should have left the session")
	}
}

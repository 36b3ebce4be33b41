package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialWS(t *testing.T, server *httptest.Server, name string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "?name=" + name
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial as %s: %v", name, err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var event Event
	if err := json.Unmarshal(raw, &event); err != nil {
		t.Fatalf("unmarshal %q: %v", raw, err)
	}
	return event
}

func waitForMembers(t *testing.T, hub *Hub, roomID string, want int) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if len(hub.Rooms.MembersOf(roomID)) == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("room %s never reached %d members", roomID, want)
}

func expectSilence(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, raw, err := conn.ReadMessage(); err == nil {
		t.Fatalf("expected no message, got %q", raw)
	}
}

func TestWebsocketCollaboration(t *testing.T) {
	hub := NewHub(nil)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWS(w, r, hub, r.URL.Query().Get("name"))
	}))
	defer server.Close()
	defer hub.Shutdown()

	alice := dialWS(t, server, "alice")
	bob := dialWS(t, server, "bob")

	if err := alice.WriteJSON(map[string]any{"type": "join_note", "noteId": "note-42"}); err != nil {
		t.Fatalf("alice join: %v", err)
	}
	waitForMembers(t, hub, "note-42", 1)
	if err := bob.WriteJSON(map[string]any{"type": "join_note", "noteId": "note-42"}); err != nil {
		t.Fatalf("bob join: %v", err)
	}

	joined := readEvent(t, alice)
	if joined.Type != evtUserJoined || joined.User != "bob" {
		t.Fatalf("unexpected event for alice: %+v", joined)
	}

	if err := alice.WriteJSON(map[string]any{"type": "edit_note", "noteId": "note-42", "content": "hello", "cursor": 5}); err != nil {
		t.Fatalf("alice edit: %v", err)
	}

	edited := readEvent(t, bob)
	if edited.Type != evtNoteEdited || edited.Content != "hello" || edited.User != "alice" {
		t.Fatalf("unexpected event for bob: %+v", edited)
	}
	if edited.Cursor == nil || *edited.Cursor != 5 {
		t.Fatalf("cursor not relayed: %+v", edited)
	}

	if err := bob.Close(); err != nil {
		t.Fatalf("bob close: %v", err)
	}

	// The next thing alice hears must be bob's departure: her own edit was
	// never echoed back, and exactly one user_left arrives.
	left := readEvent(t, alice)
	if left.Type != evtUserLeft || left.User != "bob" {
		t.Fatalf("expected user_left for bob, got %+v", left)
	}
	expectSilence(t, alice)

	// By the time the leave arrives, membership was already cleaned up.
	if members := hub.Rooms.MembersOf("note-42"); len(members) != 1 {
		t.Fatalf("unexpected members after bob left: %v", members)
	}
}

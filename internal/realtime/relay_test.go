package realtime

import (
	"encoding/json"
	"fmt"
	"testing"
)

func newTestRelay(t *testing.T, connIDs ...string) (*ConnectionRegistry, *RoomManager, *EventRelay) {
	t.Helper()
	registry, rooms := newTestRooms(t, connIDs...)
	return registry, rooms, NewEventRelay(registry, rooms)
}

func drainEvents(t *testing.T, conn *Connection) []Event {
	t.Helper()
	var events []Event
	for {
		select {
		case raw := <-conn.Outbound():
			var event Event
			if err := json.Unmarshal(raw, &event); err != nil {
				t.Fatalf("unmarshal event: %v", err)
			}
			events = append(events, event)
		default:
			return events
		}
	}
}

func TestPublishSuppressesSelfEcho(t *testing.T) {
	registry, rooms, relay := newTestRelay(t, "sender", "other")
	mustJoin(t, rooms, "sender", "r1")
	mustJoin(t, rooms, "other", "r1")

	relay.Publish("sender", "r1", Event{Type: evtNoteEdited, Content: "hello", User: "user-sender"})

	sender, _ := registry.Get("sender")
	if events := drainEvents(t, sender); len(events) != 0 {
		t.Fatalf("sender received its own event: %v", events)
	}
	other, _ := registry.Get("other")
	events := drainEvents(t, other)
	if len(events) != 1 || events[0].Type != evtNoteEdited || events[0].Content != "hello" {
		t.Fatalf("unexpected events %v", events)
	}
}

func TestPublishPreservesSenderOrder(t *testing.T) {
	registry, rooms, relay := newTestRelay(t, "sender", "other")
	mustJoin(t, rooms, "sender", "r1")
	mustJoin(t, rooms, "other", "r1")

	for i := 0; i < 5; i++ {
		relay.Publish("sender", "r1", Event{Type: evtNoteEdited, Content: fmt.Sprintf("v%d", i)})
	}

	other, _ := registry.Get("other")
	events := drainEvents(t, other)
	if len(events) != 5 {
		t.Fatalf("expected 5 events, got %d", len(events))
	}
	for i, event := range events {
		if want := fmt.Sprintf("v%d", i); event.Content != want {
			t.Fatalf("event %d out of order: got %q want %q", i, event.Content, want)
		}
	}
}

func TestPublishToLonelyRoomIsNoop(t *testing.T) {
	registry, rooms, relay := newTestRelay(t, "sender")
	mustJoin(t, rooms, "sender", "r1")

	relay.Publish("sender", "r1", Event{Type: evtCursorMoved})
	relay.Publish("sender", "no-such-room", Event{Type: evtCursorMoved})

	sender, _ := registry.Get("sender")
	if events := drainEvents(t, sender); len(events) != 0 {
		t.Fatalf("unexpected events %v", events)
	}
}

func TestPublishDropsForSlowRecipient(t *testing.T) {
	registry, rooms, relay := newTestRelay(t, "sender", "slow")
	mustJoin(t, rooms, "sender", "r1")
	mustJoin(t, rooms, "slow", "r1")

	// Nobody drains the slow recipient; the overflow must be dropped, not
	// block the sender.
	for i := 0; i < sendBuffer+10; i++ {
		relay.Publish("sender", "r1", Event{Type: evtCursorMoved})
	}

	slow, _ := registry.Get("slow")
	if events := drainEvents(t, slow); len(events) != sendBuffer {
		t.Fatalf("expected a full buffer of %d events, got %d", sendBuffer, len(events))
	}
}

func TestSendTargetsSingleConnection(t *testing.T) {
	registry, rooms, relay := newTestRelay(t, "c1", "c2")
	mustJoin(t, rooms, "c1", "r1")
	mustJoin(t, rooms, "c2", "r1")

	relay.Send("c1", Event{Type: evtJoinRejected, NoteID: "r9"})

	c1, _ := registry.Get("c1")
	events := drainEvents(t, c1)
	if len(events) != 1 || events[0].Type != evtJoinRejected || events[0].NoteID != "r9" {
		t.Fatalf("unexpected events %v", events)
	}
	c2, _ := registry.Get("c2")
	if events := drainEvents(t, c2); len(events) != 0 {
		t.Fatalf("rejection leaked to another connection: %v", events)
	}
}

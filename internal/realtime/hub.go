package realtime

import (
	"context"
	"encoding/json"
	"log"
)

// NotesRepository is the persistence hook used to validate joins. A nil
// repository disables validation and any note id becomes a joinable room.
type NotesRepository interface {
	NoteExists(ctx context.Context, noteID string) (bool, error)
}

// Hub owns the realtime components for one server instance: the connection
// registry, room membership, the event relay, and presence. It is constructed
// per instance and passed by reference, so tests can run isolated hubs side
// by side.
type Hub struct {
	Registry *ConnectionRegistry
	Rooms    *RoomManager
	Relay    *EventRelay
	Presence *PresenceTracker

	repo NotesRepository
}

func NewHub(repo NotesRepository) *Hub {
	registry := NewConnectionRegistry()
	rooms := NewRoomManager(registry)
	relay := NewEventRelay(registry, rooms)
	return &Hub{
		Registry: registry,
		Rooms:    rooms,
		Relay:    relay,
		Presence: NewPresenceTracker(registry, rooms, relay),
		repo:     repo,
	}
}

// Connect registers a new session under the given id. The identity comes
// from the verified handshake and is what other room members will see.
func (h *Hub) Connect(id, identity string) (*Connection, error) {
	return h.Registry.Register(id, identity)
}

// Disconnect runs the full cleanup path for a connection: registry removal,
// membership removal in every room it joined, then one user_left to each of
// those rooms' remaining members. Idempotent; forced close and graceful
// leave share this path.
//
// Unregistering before the membership sweep is what makes the cleanup
// complete under concurrency: once the id is gone from the registry, a
// racing join fails RoomManager.Join's registration check, and any join that
// slipped in earlier is still caught by DropAll.
func (h *Hub) Disconnect(id string) {
	conn := h.Registry.Unregister(id)
	if conn == nil {
		return
	}
	rooms := h.Rooms.DropAll(id)
	h.Presence.AnnounceLeave(conn, rooms)
}

// Shutdown disconnects every live session.
func (h *Hub) Shutdown() {
	for _, id := range h.Registry.IDs() {
		h.Disconnect(id)
	}
}

// HandleMessage dispatches one inbound message from a connection. Malformed
// or unknown messages are logged and dropped; nothing a client sends can
// take the process down.
func (h *Hub) HandleMessage(ctx context.Context, conn *Connection, raw []byte) {
	var msg clientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		log.Printf("realtime: malformed message from %s: %v", conn.ID, err)
		return
	}
	if msg.NoteID == "" {
		log.Printf("realtime: %s message from %s without noteId", msg.Type, conn.ID)
		return
	}

	switch msg.Type {
	case msgJoinNote:
		h.handleJoin(ctx, conn, msg.NoteID)
	case msgEditNote:
		cursor := msg.Cursor
		h.Relay.Publish(conn.ID, msg.NoteID, Event{
			Type:    evtNoteEdited,
			Content: msg.Content,
			Cursor:  &cursor,
			User:    conn.Identity,
		})
	case msgCursorMove:
		cursor := msg.Cursor
		h.Relay.Publish(conn.ID, msg.NoteID, Event{
			Type:   evtCursorMoved,
			Cursor: &cursor,
			User:   conn.Identity,
		})
	default:
		log.Printf("realtime: unknown message type %q from %s", msg.Type, conn.ID)
	}
}

func (h *Hub) handleJoin(ctx context.Context, conn *Connection, noteID string) {
	if h.repo != nil {
		exists, err := h.repo.NoteExists(ctx, noteID)
		if err != nil {
			// Storage hiccups must not block collaboration; skip validation.
			log.Printf("realtime: note lookup for %s: %v", noteID, err)
		} else if !exists {
			h.Relay.Send(conn.ID, Event{Type: evtJoinRejected, NoteID: noteID})
			return
		}
	}

	newly, err := h.Rooms.Join(conn.ID, noteID)
	if err != nil {
		log.Printf("realtime: join %s to %s: %v", conn.ID, noteID, err)
		return
	}
	if newly {
		h.Presence.AnnounceJoin(conn, noteID)
	}
}

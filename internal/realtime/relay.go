package realtime

import (
	"encoding/json"
	"log"
)

// EventRelay fans one sender's event out to the other current members of a
// room. Delivery is fire-and-forget, at most once: recipients are never
// awaited, a slow recipient loses the event, and the sender learns nothing
// about individual recipients' health.
//
// Per sender-room pair, events reach each recipient in the order the sender
// produced them: the sender's read loop publishes sequentially and each
// recipient's channel preserves that order. No ordering is guaranteed across
// different senders.
type EventRelay struct {
	registry *ConnectionRegistry
	rooms    *RoomManager
}

func NewEventRelay(registry *ConnectionRegistry, rooms *RoomManager) *EventRelay {
	return &EventRelay{registry: registry, rooms: rooms}
}

// Publish delivers the event to every member of the room except the sender.
// A room with no other members is the common case, not an error.
func (er *EventRelay) Publish(senderID, roomID string, event Event) {
	members := er.rooms.MembersOf(roomID)
	targets := make([]string, 0, len(members))
	for _, id := range members {
		if id != senderID {
			targets = append(targets, id)
		}
	}
	if len(targets) == 0 {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("realtime: marshal %s event: %v", event.Type, err)
		return
	}
	er.registry.deliver(targets, payload)
}

// Send delivers an event to one connection, for replies addressed to a single
// client such as join rejections.
func (er *EventRelay) Send(connID string, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("realtime: marshal %s event: %v", event.Type, err)
		return
	}
	er.registry.deliver([]string{connID}, payload)
}

package realtime

// PresenceTracker translates membership transitions into user_joined and
// user_left events for the affected room's remaining members.
type PresenceTracker struct {
	registry *ConnectionRegistry
	rooms    *RoomManager
	relay    *EventRelay
}

func NewPresenceTracker(registry *ConnectionRegistry, rooms *RoomManager, relay *EventRelay) *PresenceTracker {
	return &PresenceTracker{registry: registry, rooms: rooms, relay: relay}
}

func (pt *PresenceTracker) AnnounceJoin(conn *Connection, roomID string) {
	pt.relay.Publish(conn.ID, roomID, Event{Type: evtUserJoined, User: conn.Identity})
}

// AnnounceLeave emits one user_left per affected room. A disconnect can end
// membership in several rooms at once; each room's remaining members hear
// about it exactly once, and no event crosses rooms.
func (pt *PresenceTracker) AnnounceLeave(conn *Connection, roomIDs []string) {
	for _, roomID := range roomIDs {
		pt.relay.Publish(conn.ID, roomID, Event{Type: evtUserLeft, User: conn.Identity})
	}
}

// Present lists the display identities currently occupying a room.
func (pt *PresenceTracker) Present(roomID string) []string {
	members := pt.rooms.MembersOf(roomID)
	identities := make([]string, 0, len(members))
	for _, connID := range members {
		if conn, ok := pt.registry.Get(connID); ok {
			identities = append(identities, conn.Identity)
		}
	}
	return identities
}

package realtime

import "sync"

// RoomManager maintains the bidirectional room <-> connection relation.
// Both directions live under one mutex so join, leave, and disconnect cleanup
// are atomic with respect to the membership reads used for fan-out: a reader
// sees either the pre- or post-mutation set, never a partial update.
//
// Rooms are ephemeral. A room exists while it has members; when the last one
// leaves, its entry is removed and a later join starts fresh.
type RoomManager struct {
	registry *ConnectionRegistry

	mu      sync.RWMutex
	members map[string]map[string]struct{} // room id -> connection ids
	joined  map[string]map[string]struct{} // connection id -> room ids
}

func NewRoomManager(registry *ConnectionRegistry) *RoomManager {
	return &RoomManager{
		registry: registry,
		members:  map[string]map[string]struct{}{},
		joined:   map[string]map[string]struct{}{},
	}
}

// Join adds the connection to the room and reports whether the membership is
// new; rejoining a room already joined is a no-op. Returns
// ErrConnectionNotFound for ids the registry does not know.
//
// The registration check happens inside the membership lock so the check and
// the insert are atomic with respect to DropAll: a join racing a disconnect
// either fails the check (already unregistered) or lands before the
// disconnect's sweep and is removed by it. Checked outside the lock, a join
// could insert membership for a connection the sweep already passed over,
// leaving a phantom occupant no cleanup path ever removes.
func (rm *RoomManager) Join(connID, roomID string) (bool, error) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	if _, ok := rm.registry.Get(connID); !ok {
		return false, ErrConnectionNotFound
	}
	if _, ok := rm.members[roomID][connID]; ok {
		return false, nil
	}
	if rm.members[roomID] == nil {
		rm.members[roomID] = map[string]struct{}{}
	}
	rm.members[roomID][connID] = struct{}{}
	if rm.joined[connID] == nil {
		rm.joined[connID] = map[string]struct{}{}
	}
	rm.joined[connID][roomID] = struct{}{}
	return true, nil
}

// Leave removes both sides of the membership. Reports whether the connection
// was a member; leaving a room not joined is a no-op.
func (rm *RoomManager) Leave(connID, roomID string) bool {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	if _, ok := rm.members[roomID][connID]; !ok {
		return false
	}
	rm.dropLocked(connID, roomID)
	return true
}

// DropAll removes the connection from every room it had joined and returns
// those room ids, so disconnect cleanup can notify each affected room. Cost
// is proportional to the rooms the connection was in, not all rooms.
func (rm *RoomManager) DropAll(connID string) []string {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	rooms := make([]string, 0, len(rm.joined[connID]))
	for roomID := range rm.joined[connID] {
		rooms = append(rooms, roomID)
	}
	for _, roomID := range rooms {
		rm.dropLocked(connID, roomID)
	}
	return rooms
}

func (rm *RoomManager) dropLocked(connID, roomID string) {
	delete(rm.members[roomID], connID)
	if len(rm.members[roomID]) == 0 {
		delete(rm.members, roomID)
	}
	delete(rm.joined[connID], roomID)
	if len(rm.joined[connID]) == 0 {
		delete(rm.joined, connID)
	}
}

func (rm *RoomManager) MembersOf(roomID string) []string {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	ids := make([]string, 0, len(rm.members[roomID]))
	for connID := range rm.members[roomID] {
		ids = append(ids, connID)
	}
	return ids
}

func (rm *RoomManager) RoomsOf(connID string) []string {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	rooms := make([]string, 0, len(rm.joined[connID]))
	for roomID := range rm.joined[connID] {
		rooms = append(rooms, roomID)
	}
	return rooms
}

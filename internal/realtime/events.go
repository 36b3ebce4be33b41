package realtime

// Inbound message types.
const (
	msgJoinNote   = "join_note"
	msgEditNote   = "edit_note"
	msgCursorMove = "cursor_move"
)

// Outbound event types.
const (
	evtUserJoined   = "user_joined"
	evtNoteEdited   = "note_edited"
	evtCursorMoved  = "cursor_moved"
	evtUserLeft     = "user_left"
	evtJoinRejected = "join_rejected"
)

// clientMessage is the tagged union of everything a client may send over the
// socket. There is deliberately no user field: display identity is bound to
// the verified handshake token and client-supplied identities are ignored.
type clientMessage struct {
	Type    string `json:"type"`
	NoteID  string `json:"noteId"`
	Content string `json:"content"`
	Cursor  int    `json:"cursor"`
}

// Event is one outbound notification delivered to room members. Events are
// transient: never persisted, never replayed to late joiners.
type Event struct {
	Type    string `json:"type"`
	NoteID  string `json:"noteId,omitempty"`
	Content string `json:"content,omitempty"`
	Cursor  *int   `json:"cursor,omitempty"`
	User    string `json:"user,omitempty"`
}

package game

import "time"

type EventKind string

const (
	EventJoined     EventKind = "joined"
	EventRejoined   EventKind = "rejoined"
	EventLeft       EventKind = "left"
	EventHost       EventKind = "host"
	EventStarted    EventKind = "started"
	EventMoved      EventKind = "moved"
	EventSuggested  EventKind = "suggested"
	EventRelocated  EventKind = "relocated"
	EventDisproved  EventKind = "disproved"
	EventNoRefute   EventKind = "no_refute"
	EventAccused    EventKind = "accused"
	EventEliminated EventKind = "eliminated"
	EventWon        EventKind = "won"
	EventTied       EventKind = "tied"
	EventTurn       EventKind = "turn"
)

// Event is one entry of a session's history. Events are kept in memory
// while the game runs and serialized into the archive record when it ends;
// they are never broadcast, so recording hidden details (the disprove card,
// an accusation's guess) does not leak them to the table.
type Event struct {
	At    time.Time `json:"at"`
	Kind  EventKind `json:"kind"`
	Actor string    `json:"actor,omitempty"`

	// Target names the other party of the event: the node moved to, the
	// disprover, the new host or turn holder.
	Target string `json:"target,omitempty"`

	Suspect string `json:"suspect,omitempty"`
	Weapon  string `json:"weapon,omitempty"`
	Room    string `json:"room,omitempty"`
	Card    string `json:"card,omitempty"`
}

func (s *Session) record(event Event) {
	event.At = s.now()
	s.events = append(s.events, event)
}

// Events returns a copy of the session's history so far.
func (s *Session) Events() []Event {
	events := make([]Event, len(s.events))
	copy(events, s.events)
	return events
}

package game

import (
	opt "github.com/repeale/fp-go/option"
)

// Move relocates the acting player to target. Rules run in a fixed order:
// the turn gate, the once-per-turn gate, then same-location, adjacency,
// and hallway occupancy. Moving never ends the turn by itself.
func (s *Session) Move(name string, target Node) (Snapshot, error) {
	found := s.FindPlayer(name)
	if opt.IsNone(found) {
		return Snapshot{}, ErrUnknownPlayer
	}
	player := found.Value

	lobbyRoaming := false
	switch s.status {
	case StatusEnded:
		return Snapshot{}, ErrGameOver
	case StatusLobby:
		if !s.rules.FreeMovement {
			return Snapshot{}, ErrNotYourTurn
		}
		lobbyRoaming = true
	default:
		if s.pending != nil {
			return Snapshot{}, ErrChoicePending
		}
		if s.players[s.turn] != player {
			return Snapshot{}, ErrNotYourTurn
		}
		if player.standing.Eliminated() {
			return Snapshot{}, ErrEliminated
		}
		if player.moved {
			return Snapshot{}, ErrAlreadyMoved
		}
	}

	if target >= nodeCount {
		return Snapshot{}, ErrInvalidMove
	}
	if target == player.Location {
		return Snapshot{}, ErrSameLocation
	}
	if !Adjacent(player.Location, target) {
		return Snapshot{}, ErrInvalidMove
	}
	if target.IsHallway() && s.hallwayOccupied(target) {
		return Snapshot{}, ErrHallwayOccupied
	}

	player.Location = target
	if !lobbyRoaming {
		player.moved = true
	}
	s.record(Event{Kind: EventMoved, Actor: name, Target: target.String()})
	return s.Snapshot(), nil
}

// hallwayOccupied counts every seat, connected or not: a disconnected
// player's token still blocks the hallway it stands in.
func (s *Session) hallwayOccupied(hallway Node) bool {
	for _, player := range s.players {
		if player.Location == hallway {
			return true
		}
	}
	return false
}

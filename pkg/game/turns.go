package game

// EndTurn hands the turn to the next player who is still in the game.
// Ending the turn is the only way the turn moves, besides the automatic
// advance after a failed accusation.
func (s *Session) EndTurn(name string) (Snapshot, error) {
	if _, err := s.actingPlayer(name); err != nil {
		return Snapshot{}, err
	}

	s.advanceTurn()
	return s.Snapshot(), nil
}

// advanceTurn walks forward from the current seat, skipping eliminated
// players and wrapping around. With a sole survivor the walk comes back to
// the same seat, so the survivor keeps every turn. The new holder starts
// with a fresh move and suggestion.
func (s *Session) advanceTurn() {
	count := len(s.players)
	for i := 1; i <= count; i++ {
		index := (s.turn + i) % count
		if !s.players[index].standing.Eliminated() {
			s.turn = index
			break
		}
	}

	holder := s.players[s.turn]
	holder.moved = false
	holder.suggested = false
	s.record(Event{Kind: EventTurn, Target: holder.Name})
}

package game

import (
	opt "github.com/repeale/fp-go/option"
)

// AccusationOutcome is the result of an accusation. A correct one ends the
// game and reveals the solution to everyone. An incorrect one eliminates
// the accuser and advances the turn in the same transition; if nobody is
// left standing the game ends in a tie.
type AccusationOutcome struct {
	Accuser string
	Suspect Suspect
	Weapon  Weapon
	Room    Node

	Correct  bool
	Tie      bool
	Solution opt.Option[CaseFile]
	NextTurn opt.Option[string]
}

func (s *Session) Accuse(name string, suspect Suspect, weapon Weapon, room Node) (AccusationOutcome, error) {
	player, err := s.actingPlayer(name)
	if err != nil {
		return AccusationOutcome{}, err
	}

	outcome := AccusationOutcome{
		Accuser:  name,
		Suspect:  suspect,
		Weapon:   weapon,
		Room:     room,
		Solution: opt.None[CaseFile](),
		NextTurn: opt.None[string](),
	}
	s.record(Event{
		Kind:    EventAccused,
		Actor:   name,
		Suspect: suspect.String(),
		Weapon:  weapon.String(),
		Room:    room.String(),
	})

	if s.caseFile.Matches(suspect, weapon, room) {
		s.status = StatusEnded
		s.winner = player
		s.endedAt = s.now()
		outcome.Correct = true
		outcome.Solution = opt.Some(s.caseFile)
		s.record(Event{Kind: EventWon, Actor: name})
		return outcome, nil
	}

	player.standing = player.standing.eliminate()
	s.record(Event{Kind: EventEliminated, Actor: name})

	if s.livingCount() == 0 {
		s.status = StatusEnded
		s.tie = true
		s.endedAt = s.now()
		s.record(Event{Kind: EventTied})
		return outcome, nil
	}

	s.advanceTurn()
	outcome.NextTurn = opt.Some(s.players[s.turn].Name)
	return outcome, nil
}

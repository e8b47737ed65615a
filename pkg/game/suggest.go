package game

import (
	"time"

	opt "github.com/repeale/fp-go/option"
)

// PendingDisprove suspends a session while a disprover picks which of
// several matching cards to show. No other mutation is accepted until the
// choice arrives or the deadline passes.
type PendingDisprove struct {
	Suggester string
	Disprover string
	Choices   []Card
	Suspect   Suspect
	Weapon    Weapon
	Room      Node
	Deadline  time.Time
}

// Reveal is one card shown privately to the suggester.
type Reveal struct {
	Suggester string
	Disprover string
	Card      Card
}

// SuggestionOutcome is the result of a suggestion. Exactly one of Reveal,
// Pending, and NoRefute is set: a single matching card is shown at once, a
// multi-card match suspends the session on the disprover's choice, and no
// match anywhere records the strongest inference in the game. Reveal and
// NoRefute are for the suggester's eyes only.
type SuggestionOutcome struct {
	Suggester string
	Suspect   Suspect
	Weapon    Weapon
	Room      Node

	Relocated opt.Option[string]
	Reveal    opt.Option[Reveal]
	Pending   *PendingDisprove
	NoRefute  bool
}

// Suggest names a suspect and weapon in the room the player stands in. The
// named suspect's token is pulled into the room, then the players after
// the suggester are visited in turn order until one holds a matching card.
// Eliminated players still disprove.
func (s *Session) Suggest(name string, suspect Suspect, weapon Weapon) (SuggestionOutcome, error) {
	player, err := s.actingPlayer(name)
	if err != nil {
		return SuggestionOutcome{}, err
	}
	if !player.Location.IsRoom() {
		return SuggestionOutcome{}, ErrNotInRoom
	}
	if player.suggested {
		return SuggestionOutcome{}, ErrSuggestionSpent
	}

	room := player.Location
	player.suggested = true

	outcome := SuggestionOutcome{
		Suggester: name,
		Suspect:   suspect,
		Weapon:    weapon,
		Room:      room,
		Relocated: opt.None[string](),
		Reveal:    opt.None[Reveal](),
	}
	s.record(Event{
		Kind:    EventSuggested,
		Actor:   name,
		Suspect: suspect.String(),
		Weapon:  weapon.String(),
		Room:    room.String(),
	})

	if owner := s.characterOwner(suspect); opt.IsSome(owner) && owner.Value.Location != room {
		owner.Value.Location = room
		outcome.Relocated = opt.Some(owner.Value.Name)
		s.record(Event{Kind: EventRelocated, Actor: owner.Value.Name, Target: room.String()})
	}

	query := []Card{SuspectCard(suspect), WeaponCard(weapon), RoomCard(room)}
	count := len(s.players)
	for i := 1; i < count; i++ {
		candidate := s.players[(s.turn+i)%count]
		matches := candidate.matching(query...)
		if len(matches) == 0 {
			continue
		}

		if len(matches) == 1 {
			reveal := Reveal{Suggester: name, Disprover: candidate.Name, Card: matches[0]}
			outcome.Reveal = opt.Some(reveal)
			s.record(Event{
				Kind:   EventDisproved,
				Actor:  candidate.Name,
				Target: name,
				Card:   matches[0].String(),
			})
			return outcome, nil
		}

		s.pending = &PendingDisprove{
			Suggester: name,
			Disprover: candidate.Name,
			Choices:   matches,
			Suspect:   suspect,
			Weapon:    weapon,
			Room:      room,
			Deadline:  s.now().Add(s.rules.DisproveTimeout),
		}
		outcome.Pending = s.pending
		return outcome, nil
	}

	outcome.NoRefute = true
	s.record(Event{Kind: EventNoRefute, Actor: name})
	return outcome, nil
}

// Disprove resolves a pending choice with the card the disprover picked.
func (s *Session) Disprove(name string, card Card) (Reveal, error) {
	if s.status == StatusEnded {
		return Reveal{}, ErrGameOver
	}
	if s.pending == nil || s.pending.Disprover != name {
		return Reveal{}, ErrNotDisprover
	}

	valid := false
	for _, choice := range s.pending.Choices {
		if choice == card {
			valid = true
			break
		}
	}
	if !valid {
		return Reveal{}, ErrInvalidCard
	}

	reveal := Reveal{Suggester: s.pending.Suggester, Disprover: name, Card: card}
	s.pending = nil
	s.record(Event{Kind: EventDisproved, Actor: name, Target: reveal.Suggester, Card: card.String()})
	return reveal, nil
}

// ResolvePendingDefault settles an unanswered choice with the first
// matching card in deck order. The owner calls this when the deadline
// passes.
func (s *Session) ResolvePendingDefault() opt.Option[Reveal] {
	if s.pending == nil {
		return opt.None[Reveal]()
	}

	pending := s.pending
	s.pending = nil
	reveal := Reveal{
		Suggester: pending.Suggester,
		Disprover: pending.Disprover,
		Card:      pending.Choices[0],
	}
	s.record(Event{
		Kind:   EventDisproved,
		Actor:  pending.Disprover,
		Target: pending.Suggester,
		Card:   reveal.Card.String(),
	})
	return opt.Some(reveal)
}

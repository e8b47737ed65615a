package game

import (
	opt "github.com/repeale/fp-go/option"
)

// Join adds an identity to the session, or reconnects it if the identity
// already has a seat. New joins are only possible in the lobby; reconnects
// work at any point of the game.
func (s *Session) Join(name string) (*Player, error) {
	if existing := s.FindPlayer(name); opt.IsSome(existing) {
		player := existing.Value
		player.standing = player.standing.reconnect()
		s.record(Event{Kind: EventRejoined, Actor: name})
		return player, nil
	}

	if s.status != StatusLobby {
		return nil, ErrAlreadyStarted
	}
	if len(s.players) >= s.rules.MaxPlayers {
		return nil, ErrCapacityExceeded
	}

	character := s.randomFreeCharacter()
	if opt.IsNone(character) {
		return nil, ErrCapacityExceeded
	}

	player := &Player{
		Name:      name,
		Character: character.Value,
		Location:  StartingNode(character.Value),
		standing:  StandingPlaying,
	}
	s.players = append(s.players, player)
	s.record(Event{Kind: EventJoined, Actor: name, Suspect: player.Character.String()})

	// Miss Scarlet's player hosts the game. Until she is drawn the first
	// joiner holds the role.
	if player.Character == MissScarlet || len(s.players) == 1 {
		s.setHost(player)
	}

	return player, nil
}

// Leave marks a player as disconnected. The seat, hand, and board position
// all survive; only the standing changes. If the host leaves before the
// game starts, the role moves to the next connected joiner and a later
// reconnect does not take it back.
func (s *Session) Leave(name string) error {
	found := s.FindPlayer(name)
	if opt.IsNone(found) {
		return ErrUnknownPlayer
	}
	player := found.Value

	player.standing = player.standing.disconnect()
	s.record(Event{Kind: EventLeft, Actor: name})

	if player.host && s.status == StatusLobby {
		for _, candidate := range s.players {
			if candidate.standing.Connected() {
				s.setHost(candidate)
				break
			}
		}
	}
	return nil
}

func (s *Session) setHost(player *Player) {
	for _, other := range s.players {
		other.host = false
	}
	player.host = true
	s.record(Event{Kind: EventHost, Target: player.Name})
}

func (s *Session) randomFreeCharacter() opt.Option[Suspect] {
	var free []Suspect
	for suspect := Suspect(0); suspect < NumSuspects; suspect++ {
		if opt.IsNone(s.characterOwner(suspect)) {
			free = append(free, suspect)
		}
	}
	if len(free) == 0 {
		return opt.None[Suspect]()
	}
	return opt.Some(free[s.rand.Intn(len(free))])
}

// Start deals the game: draw the case file, shuffle and deal the rest of
// the deck, place every character on its starting hallway, and hand the
// first turn to seat zero. Only the host can start, and only once at least
// MinPlayers have joined.
func (s *Session) Start(requester string) error {
	found := s.FindPlayer(requester)
	if opt.IsNone(found) {
		return ErrUnknownPlayer
	}
	if s.status != StatusLobby {
		return ErrAlreadyStarted
	}
	if !found.Value.host {
		return ErrNotHost
	}
	if len(s.players) < s.rules.MinPlayers {
		return ErrInsufficientPlayers
	}

	// Turn order is join order rotated so that Miss Scarlet's player, if
	// she was drawn, takes the first turn.
	if scarlet := s.characterOwner(MissScarlet); opt.IsSome(scarlet) {
		for i, player := range s.players {
			if player == scarlet.Value {
				s.players = append(s.players[i:], s.players[:i]...)
				break
			}
		}
	}

	s.caseFile = CaseFile{
		Suspect: Suspect(s.rand.Intn(NumSuspects)),
		Weapon:  Weapon(s.rand.Intn(NumWeapons)),
		Room:    Node(s.rand.Intn(NumRooms)),
	}

	var deck []Card
	for _, card := range Deck() {
		if !s.caseFile.Holds(card) {
			deck = append(deck, card)
		}
	}
	s.rand.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})

	for _, player := range s.players {
		player.hand = nil
		player.Location = StartingNode(player.Character)
		player.moved = false
		player.suggested = false
	}
	for i, card := range deck {
		seat := s.players[i%len(s.players)]
		seat.hand = append(seat.hand, card)
	}

	if err := s.verifyCardConservation(); err != nil {
		return err
	}

	s.turn = 0
	s.status = StatusInProgress
	s.startedAt = s.now()
	s.record(Event{Kind: EventStarted, Actor: requester})
	s.record(Event{Kind: EventTurn, Target: s.players[0].Name})
	return nil
}

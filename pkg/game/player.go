package game

// Standing is a player's participation state. The four values make the
// legal combinations of "connected" and "eliminated" explicit: elimination
// survives a disconnect, and reconnecting never clears it.
type Standing uint8

const (
	StandingPlaying Standing = iota
	StandingEliminated
	StandingGone
	StandingGoneEliminated
)

func (s Standing) Connected() bool {
	return s == StandingPlaying || s == StandingEliminated
}

func (s Standing) Eliminated() bool {
	return s == StandingEliminated || s == StandingGoneEliminated
}

func (s Standing) disconnect() Standing {
	switch s {
	case StandingPlaying:
		return StandingGone
	case StandingEliminated:
		return StandingGoneEliminated
	}
	return s
}

func (s Standing) reconnect() Standing {
	switch s {
	case StandingGone:
		return StandingPlaying
	case StandingGoneEliminated:
		return StandingEliminated
	}
	return s
}

// eliminate is monotonic. There is no inverse.
func (s Standing) eliminate() Standing {
	if s.Connected() {
		return StandingEliminated
	}
	return StandingGoneEliminated
}

// Player is one seat in a session. The record is created on first join and
// persists for the session's whole lifetime; disconnects only change its
// standing.
type Player struct {
	Name      string
	Character Suspect
	Location  Node

	hand      []Card
	standing  Standing
	host      bool
	moved     bool
	suggested bool
}

func (p *Player) Standing() Standing {
	return p.standing
}

func (p *Player) IsHost() bool {
	return p.host
}

// Hand returns a copy of the player's cards.
func (p *Player) Hand() []Card {
	hand := make([]Card, len(p.hand))
	copy(hand, p.hand)
	return hand
}

func (p *Player) Holds(c Card) bool {
	for _, card := range p.hand {
		if card == c {
			return true
		}
	}
	return false
}

// matching returns the cards of p's hand found in the query set, in deck
// order.
func (p *Player) matching(query ...Card) []Card {
	var matches []Card
	for _, deckCard := range Deck() {
		if !p.Holds(deckCard) {
			continue
		}
		for _, queried := range query {
			if deckCard == queried {
				matches = append(matches, deckCard)
				break
			}
		}
	}
	return matches
}

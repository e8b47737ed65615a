package game

import (
	opt "github.com/repeale/fp-go/option"
)

// Suspect is one of the six characters. Every suspect is both a playable
// character and a card in the deck.
type Suspect uint8

const (
	MissScarlet Suspect = iota
	ProfessorPlum
	MrsPeacock
	MrGreen
	MrsWhite
	ColonelMustard

	NumSuspects = 6
)

var suspectNames = [NumSuspects]string{
	"miss_scarlet",
	"professor_plum",
	"mrs_peacock",
	"mr_green",
	"mrs_white",
	"colonel_mustard",
}

func (s Suspect) String() string {
	if s >= NumSuspects {
		return "invalid"
	}
	return suspectNames[s]
}

func ParseSuspect(name string) opt.Option[Suspect] {
	for suspect, known := range suspectNames {
		if known == name {
			return opt.Some(Suspect(suspect))
		}
	}
	return opt.None[Suspect]()
}

type Weapon uint8

const (
	Rope Weapon = iota
	LeadPipe
	Knife
	Wrench
	Candlestick
	Revolver

	NumWeapons = 6
)

var weaponNames = [NumWeapons]string{
	"rope",
	"lead_pipe",
	"knife",
	"wrench",
	"candlestick",
	"revolver",
}

func (w Weapon) String() string {
	if w >= NumWeapons {
		return "invalid"
	}
	return weaponNames[w]
}

func ParseWeapon(name string) opt.Option[Weapon] {
	for weapon, known := range weaponNames {
		if known == name {
			return opt.Some(Weapon(weapon))
		}
	}
	return opt.None[Weapon]()
}

type CardKind uint8

const (
	KindSuspect CardKind = iota
	KindWeapon
	KindRoom
)

// Card enumerates the full deck: six suspects, six weapons, nine rooms.
// The numeric order of the enumeration is the deck order used whenever a
// rule needs a deterministic "first" card.
type Card uint8

const (
	cardWeaponBase = Card(NumSuspects)
	cardRoomBase   = Card(NumSuspects + NumWeapons)

	// NumCards is the size of the full deck.
	NumCards = NumSuspects + NumWeapons + NumRooms
)

func SuspectCard(s Suspect) Card {
	return Card(s)
}

func WeaponCard(w Weapon) Card {
	return cardWeaponBase + Card(w)
}

// RoomCard returns the card for a room node. Only room nodes have cards;
// hallways are not part of the deck.
func RoomCard(room Node) Card {
	return cardRoomBase + Card(room)
}

func (c Card) Kind() CardKind {
	switch {
	case c < cardWeaponBase:
		return KindSuspect
	case c < cardRoomBase:
		return KindWeapon
	default:
		return KindRoom
	}
}

func (c Card) Suspect() Suspect {
	return Suspect(c)
}

func (c Card) Weapon() Weapon {
	return Weapon(c - cardWeaponBase)
}

func (c Card) Room() Node {
	return Node(c - cardRoomBase)
}

func (c Card) String() string {
	switch c.Kind() {
	case KindSuspect:
		return c.Suspect().String()
	case KindWeapon:
		return c.Weapon().String()
	default:
		return c.Room().String()
	}
}

func ParseCard(name string) opt.Option[Card] {
	if suspect := ParseSuspect(name); opt.IsSome(suspect) {
		return opt.Some(SuspectCard(suspect.Value))
	}
	if weapon := ParseWeapon(name); opt.IsSome(weapon) {
		return opt.Some(WeaponCard(weapon.Value))
	}
	if node := ParseNode(name); opt.IsSome(node) && node.Value.IsRoom() {
		return opt.Some(RoomCard(node.Value))
	}
	return opt.None[Card]()
}

// Deck returns all cards in deck order.
func Deck() []Card {
	deck := make([]Card, NumCards)
	for i := range deck {
		deck[i] = Card(i)
	}
	return deck
}

// CaseFile is the hidden solution triple. It is drawn once at start and
// revealed only by a correct accusation.
type CaseFile struct {
	Suspect Suspect
	Weapon  Weapon
	Room    Node
}

func (f CaseFile) Cards() [3]Card {
	return [3]Card{SuspectCard(f.Suspect), WeaponCard(f.Weapon), RoomCard(f.Room)}
}

func (f CaseFile) Matches(suspect Suspect, weapon Weapon, room Node) bool {
	return f.Suspect == suspect && f.Weapon == weapon && f.Room == room
}

func (f CaseFile) Holds(c Card) bool {
	for _, card := range f.Cards() {
		if card == c {
			return true
		}
	}
	return false
}

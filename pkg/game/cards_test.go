package game

import (
	"testing"

	opt "github.com/repeale/fp-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeckComposition(t *testing.T) {
	deck := Deck()
	require.Len(t, deck, NumCards)

	kinds := make(map[CardKind]int)
	for _, card := range deck {
		kinds[card.Kind()]++
	}
	assert.Equal(t, NumSuspects, kinds[KindSuspect])
	assert.Equal(t, NumWeapons, kinds[KindWeapon])
	assert.Equal(t, NumRooms, kinds[KindRoom])
}

func TestCardConversions(t *testing.T) {
	card := SuspectCard(MrsPeacock)
	assert.Equal(t, KindSuspect, card.Kind())
	assert.Equal(t, MrsPeacock, card.Suspect())

	card = WeaponCard(Candlestick)
	assert.Equal(t, KindWeapon, card.Kind())
	assert.Equal(t, Candlestick, card.Weapon())

	card = RoomCard(Ballroom)
	assert.Equal(t, KindRoom, card.Kind())
	assert.Equal(t, Ballroom, card.Room())
}

func TestParseCard(t *testing.T) {
	parsed := ParseCard("revolver")
	require.True(t, opt.IsSome(parsed))
	assert.Equal(t, WeaponCard(Revolver), parsed.Value)

	parsed = ParseCard("kitchen")
	require.True(t, opt.IsSome(parsed))
	assert.Equal(t, RoomCard(Kitchen), parsed.Value)

	// Hallways are locations, not cards.
	assert.True(t, opt.IsNone(ParseCard("study_hall")))
	assert.True(t, opt.IsNone(ParseCard("horseshoe")))
}

func TestCaseFile(t *testing.T) {
	file := CaseFile{Suspect: MrGreen, Weapon: Knife, Room: Lounge}

	assert.True(t, file.Matches(MrGreen, Knife, Lounge))
	assert.False(t, file.Matches(MrGreen, Knife, Study))
	assert.False(t, file.Matches(MrsWhite, Knife, Lounge))

	assert.True(t, file.Holds(SuspectCard(MrGreen)))
	assert.True(t, file.Holds(WeaponCard(Knife)))
	assert.True(t, file.Holds(RoomCard(Lounge)))
	assert.False(t, file.Holds(RoomCard(Kitchen)))
}

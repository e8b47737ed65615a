package game

import (
	"testing"

	opt "github.com/repeale/fp-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardShape(t *testing.T) {
	rooms := 0
	hallways := 0
	for n := Node(0); n < nodeCount; n++ {
		if n.IsRoom() {
			rooms++
		}
		if n.IsHallway() {
			hallways++
		}
	}
	assert.Equal(t, NumRooms, rooms)
	assert.Equal(t, NumHallways, hallways)
}

func TestHallwaysJoinExactlyTwoRooms(t *testing.T) {
	for n := Node(0); n < nodeCount; n++ {
		if !n.IsHallway() {
			continue
		}
		neighbors := Neighbors(n)
		require.Len(t, neighbors, 2, "hallway %s", n)
		for _, neighbor := range neighbors {
			assert.True(t, neighbor.IsRoom(), "hallway %s touches %s", n, neighbor)
		}
	}
}

func TestEveryRoomIsReachable(t *testing.T) {
	for n := Node(0); n < nodeCount; n++ {
		if !n.IsRoom() {
			continue
		}
		assert.NotEmpty(t, Neighbors(n), "room %s has no neighbors", n)
	}
}

func TestAdjacencyIsSymmetric(t *testing.T) {
	for from := Node(0); from < nodeCount; from++ {
		for _, to := range Neighbors(from) {
			assert.True(t, Adjacent(to, from), "%s -> %s is one-way", from, to)
		}
	}
}

func TestSecretPassages(t *testing.T) {
	passage := SecretPassage(Study)
	require.True(t, opt.IsSome(passage))
	assert.Equal(t, Kitchen, passage.Value)

	passage = SecretPassage(Conservatory)
	require.True(t, opt.IsSome(passage))
	assert.Equal(t, Lounge, passage.Value)

	assert.True(t, Adjacent(Study, Kitchen))
	assert.True(t, Adjacent(Lounge, Conservatory))
	assert.True(t, opt.IsNone(SecretPassage(Hall)))
	assert.True(t, opt.IsNone(SecretPassage(StudyHall)))
}

func TestStartingNodesAreDistinctHallways(t *testing.T) {
	seen := make(map[Node]bool)
	for suspect := Suspect(0); suspect < NumSuspects; suspect++ {
		start := StartingNode(suspect)
		assert.True(t, start.IsHallway(), "%s starts in %s", suspect, start)
		assert.False(t, seen[start], "%s shares a starting hallway", suspect)
		seen[start] = true
	}
}

func TestParseNode(t *testing.T) {
	parsed := ParseNode("billiard")
	require.True(t, opt.IsSome(parsed))
	assert.Equal(t, Billiard, parsed.Value)

	parsed = ParseNode("conservatory_ballroom")
	require.True(t, opt.IsSome(parsed))
	assert.Equal(t, ConservatoryBallroom, parsed.Value)

	assert.True(t, opt.IsNone(ParseNode("cellar")))
}

package game

import (
	"testing"

	opt "github.com/repeale/fp-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// park drops every token into room so the hallways under test start empty.
func park(s *Session, room Node) {
	for _, player := range s.players {
		player.Location = room
	}
}

func turnHolder(t *testing.T, s *Session) *Player {
	t.Helper()
	holder := s.TurnHolder()
	require.True(t, opt.IsSome(holder))
	return holder.Value
}

func TestMoveIntoAdjacentHallway(t *testing.T) {
	s := startedGame(t, 3)
	holder := turnHolder(t, s)

	park(s, Ballroom)
	holder.Location = Study

	snapshot, err := s.Move(holder.Name, StudyHall)
	require.NoError(t, err)
	assert.Equal(t, StudyHall, holder.Location)
	assert.True(t, holder.moved)

	for _, view := range snapshot.Players {
		if view.Name == holder.Name {
			assert.Equal(t, StudyHall.String(), view.Location)
		}
	}
}

func TestMoveRejectsSameLocation(t *testing.T) {
	s := startedGame(t, 3)
	holder := turnHolder(t, s)

	park(s, Ballroom)
	holder.Location = Study

	_, err := s.Move(holder.Name, Study)
	assert.ErrorIs(t, err, ErrSameLocation)
}

func TestMoveRejectsNonAdjacentTarget(t *testing.T) {
	s := startedGame(t, 3)
	holder := turnHolder(t, s)

	park(s, Ballroom)
	holder.Location = Study

	_, err := s.Move(holder.Name, Hall)
	assert.ErrorIs(t, err, ErrInvalidMove)

	_, err = s.Move(holder.Name, Node(200))
	assert.ErrorIs(t, err, ErrInvalidMove)
}

func TestMoveRejectsOccupiedHallway(t *testing.T) {
	s := startedGame(t, 3)
	holder := turnHolder(t, s)

	park(s, Ballroom)
	holder.Location = Study
	for _, player := range s.players {
		if player != holder {
			player.Location = StudyHall
			break
		}
	}

	_, err := s.Move(holder.Name, StudyHall)
	assert.ErrorIs(t, err, ErrHallwayOccupied)
}

func TestDisconnectedTokenStillBlocksHallway(t *testing.T) {
	s := startedGame(t, 3)
	holder := turnHolder(t, s)

	park(s, Ballroom)
	holder.Location = Study
	for _, player := range s.players {
		if player != holder {
			player.Location = StudyHall
			require.NoError(t, s.Leave(player.Name))
			break
		}
	}

	_, err := s.Move(holder.Name, StudyHall)
	assert.ErrorIs(t, err, ErrHallwayOccupied)
}

func TestRoomsHoldAnyNumberOfTokens(t *testing.T) {
	s := startedGame(t, 3)
	holder := turnHolder(t, s)

	park(s, Kitchen)
	holder.Location = BallroomKitchen

	_, err := s.Move(holder.Name, Kitchen)
	assert.NoError(t, err)
}

func TestSecretPassage(t *testing.T) {
	s := startedGame(t, 3)
	holder := turnHolder(t, s)

	park(s, Ballroom)
	holder.Location = Study

	_, err := s.Move(holder.Name, Kitchen)
	require.NoError(t, err)
	assert.Equal(t, Kitchen, holder.Location)
}

func TestMoveOutOfTurn(t *testing.T) {
	s := startedGame(t, 3)
	holder := turnHolder(t, s)

	park(s, Ballroom)
	for _, player := range s.players {
		if player == holder {
			continue
		}
		player.Location = Study
		_, err := s.Move(player.Name, StudyHall)
		assert.ErrorIs(t, err, ErrNotYourTurn)
		break
	}
}

func TestMoveOncePerTurn(t *testing.T) {
	s := startedGame(t, 3)
	holder := turnHolder(t, s)

	park(s, Ballroom)
	holder.Location = Study

	_, err := s.Move(holder.Name, StudyHall)
	require.NoError(t, err)

	_, err = s.Move(holder.Name, Study)
	assert.ErrorIs(t, err, ErrAlreadyMoved)
}

func TestMoveUnknownPlayer(t *testing.T) {
	s := startedGame(t, 3)

	_, err := s.Move("nobody", Study)
	assert.ErrorIs(t, err, ErrUnknownPlayer)
}

func TestNoMovingInTheLobby(t *testing.T) {
	s := NewSession("test", Rules{Seed: 9})
	joinAll(t, s, 3)

	_, err := s.Move("alice", Study)
	assert.ErrorIs(t, err, ErrNotYourTurn)
}

func TestLobbyRoaming(t *testing.T) {
	s := NewSession("test", Rules{Seed: 10, FreeMovement: true})
	joinAll(t, s, 3)

	park(s, Ballroom)
	bob := s.FindPlayer("bob").Value
	bob.Location = Study

	_, err := s.Move("bob", StudyHall)
	require.NoError(t, err)

	// Roaming is not rationed: the once-per-turn rule only exists in play.
	_, err = s.Move("bob", Study)
	require.NoError(t, err)
	assert.False(t, bob.moved)

	// Board rules still apply.
	_, err = s.Move("bob", Kitchen)
	require.NoError(t, err)
	_, err = s.Move("bob", Hall)
	assert.ErrorIs(t, err, ErrInvalidMove)
}

func TestNoMovingAfterTheGameEnds(t *testing.T) {
	s := startedGame(t, 3)
	holder := turnHolder(t, s)

	_, err := s.Accuse(holder.Name, s.caseFile.Suspect, s.caseFile.Weapon, s.caseFile.Room)
	require.NoError(t, err)

	_, err = s.Move(holder.Name, Study)
	assert.ErrorIs(t, err, ErrGameOver)
}

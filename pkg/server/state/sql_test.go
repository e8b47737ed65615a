package state

import (
	"context"
	"path/filepath"
	"testing"

	opt "github.com/repeale/fp-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whodunit/parlor/pkg/game"
)

// finishedSession plays a session to its end: everyone hammers the same
// accusation, which either wins outright or eliminates the table into a
// tie.
func finishedSession(t *testing.T) *game.Session {
	t.Helper()

	session := game.NewSession("archived", game.Rules{Seed: 42})
	for _, name := range []string{"alice", "bob", "carol"} {
		_, err := session.Join(name)
		require.NoError(t, err)
	}

	host := session.Host()
	require.True(t, opt.IsSome(host))
	require.NoError(t, session.Start(host.Value.Name))

	for session.Status() != game.StatusEnded {
		holder := session.TurnHolder()
		require.True(t, opt.IsSome(holder))
		_, err := session.Accuse(holder.Value.Name, game.MissScarlet, game.Rope, game.Study)
		require.NoError(t, err)
	}
	return session
}

func TestSaveAndLookup(t *testing.T) {
	store, err := InitDB(filepath.Join(t.TempDir(), "parlor.db"))
	require.NoError(t, err)

	ctx := context.Background()
	session := finishedSession(t)
	require.NoError(t, store.SaveGame(ctx, session))

	found, err := store.LookupGame(ctx, "archived")
	require.NoError(t, err)
	require.True(t, opt.IsSome(found))
	record := found.Value

	assert.Equal(t, "archived", record.SessionID)
	assert.False(t, record.EndedAt.IsZero())
	assert.Equal(t, record.Tie, record.Winner == "")
	assert.NotEmpty(t, record.Suspect)
	assert.NotEmpty(t, record.Weapon)
	assert.NotEmpty(t, record.Room)
	require.Len(t, record.Players, 3)

	dealt := 0
	for _, player := range record.Players {
		hand, err := DecodeHand(player.Hand)
		require.NoError(t, err)
		dealt += len(hand)
		assert.Equal(t, player.Name == record.Winner, player.Won)
	}
	assert.Equal(t, 18, dealt)

	events, err := DecodeEvents(record.Events)
	require.NoError(t, err)
	require.NotEmpty(t, events)
	assert.Equal(t, game.EventJoined, events[0].Kind)
}

func TestLookupMissingGame(t *testing.T) {
	store, err := InitDB(filepath.Join(t.TempDir(), "parlor.db"))
	require.NoError(t, err)

	found, err := store.LookupGame(context.Background(), "nope")
	require.NoError(t, err)
	assert.True(t, opt.IsNone(found))
}

func TestRunningSessionsAreNotArchived(t *testing.T) {
	store, err := InitDB(filepath.Join(t.TempDir(), "parlor.db"))
	require.NoError(t, err)

	session := game.NewSession("live", game.Rules{Seed: 1})
	_, err = session.Join("alice")
	require.NoError(t, err)

	assert.Error(t, store.SaveGame(context.Background(), session))
}

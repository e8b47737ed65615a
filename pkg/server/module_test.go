package server

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	opt "github.com/repeale/fp-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whodunit/parlor/pkg/config"
	"github.com/whodunit/parlor/pkg/game"
	"github.com/whodunit/parlor/pkg/server/protocol"
	"github.com/whodunit/parlor/pkg/server/state"
)

func testCluster(t *testing.T) (*Cluster, context.Context) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewCluster(ctx, nil, game.Rules{Seed: 11}, config.ServerSettings{}), ctx
}

func (c *fakeClient) sawErrorKind(kind string) func() bool {
	return func() bool {
		for _, seen := range c.errorKinds() {
			if seen == kind {
				return true
			}
		}
		return false
	}
}

func TestCommandsBeforeJoiningAreRejected(t *testing.T) {
	cluster, ctx := testCluster(t)
	client := newFakeClient(1)
	go cluster.PollClient(ctx, client)

	client.messages <- protocol.EndTurnMessage{Op: protocol.EndTurnOp}

	require.Eventually(t, client.sawErrorKind("session_not_found"), time.Second, 10*time.Millisecond)
	assert.Zero(t, cluster.Registry().Live())
}

func TestBlankJoinIsRejected(t *testing.T) {
	cluster, ctx := testCluster(t)
	client := newFakeClient(1)
	go cluster.PollClient(ctx, client)

	client.messages <- protocol.JoinMessage{Op: protocol.JoinOp, Session: "   ", Name: "alice"}

	require.Eventually(t, client.sawErrorKind(protocol.KindBadRequest), time.Second, 10*time.Millisecond)
	assert.Zero(t, cluster.Registry().Live())
}

func TestJoinCreatesALobbyAndRoutesCommands(t *testing.T) {
	cluster, ctx := testCluster(t)
	client := newFakeClient(1)
	go cluster.PollClient(ctx, client)

	client.messages <- protocol.JoinMessage{Op: protocol.JoinOp, Session: "g1", Name: "alice"}

	require.Eventually(t, func() bool {
		return len(client.updates()) > 0
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, cluster.Registry().Live())

	update := client.updates()[0]
	require.Len(t, update.Game.Players, 1)
	assert.Equal(t, "alice", update.Game.Players[0].Name)

	// Commands now reach the session and come back with its answers.
	client.messages <- protocol.EndTurnMessage{Op: protocol.EndTurnOp}
	require.Eventually(t, client.sawErrorKind("not_your_turn"), time.Second, 10*time.Millisecond)
}

func TestSwitchingGamesReleasesTheOldSeat(t *testing.T) {
	cluster, ctx := testCluster(t)
	client := newFakeClient(1)
	go cluster.PollClient(ctx, client)

	client.messages <- protocol.JoinMessage{Op: protocol.JoinOp, Session: "g1", Name: "alice"}
	require.Eventually(t, func() bool {
		return cluster.Registry().Live() == 1
	}, time.Second, 10*time.Millisecond)

	client.messages <- protocol.JoinMessage{Op: protocol.JoinOp, Session: "g2", Name: "alice"}

	// Leaving empties the first lobby, which then shuts itself down.
	require.Eventually(t, func() bool {
		return cluster.Registry().Live() == 1 &&
			opt.IsSome(cluster.Registry().FindActor("g2"))
	}, time.Second, 10*time.Millisecond)
	assert.True(t, opt.IsNone(cluster.Registry().FindActor("g1")))
}

func TestDisconnectAbandonsTheLobby(t *testing.T) {
	cluster, ctx := testCluster(t)
	client := newFakeClient(1)
	go cluster.PollClient(ctx, client)

	client.messages <- protocol.JoinMessage{Op: protocol.JoinOp, Session: "g1", Name: "alice"}
	require.Eventually(t, func() bool {
		return cluster.Registry().Live() == 1
	}, time.Second, 10*time.Millisecond)

	client.session.Cancel()

	require.Eventually(t, func() bool {
		return cluster.Registry().Live() == 0
	}, time.Second, 10*time.Millisecond)
}

func TestResolveReturnsTheSameActor(t *testing.T) {
	_, ctx := testCluster(t)
	registry := NewRegistry(ctx, nil, game.Rules{Seed: 11})

	first, err := registry.Resolve(ctx, "g1")
	require.NoError(t, err)
	second, err := registry.Resolve(ctx, "g1")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, registry.Live())
}

func TestArchivedGamesCannotBeRejoined(t *testing.T) {
	store, err := state.InitDB(filepath.Join(t.TempDir(), "parlor.db"))
	require.NoError(t, err)
	ctx := context.Background()

	finishGame(t, store, "done")

	registry := NewRegistry(ctx, store, game.Rules{Seed: 11})
	_, err = registry.Resolve(ctx, "done")
	require.ErrorIs(t, err, game.ErrGameOver)

	// Unarchived ids still resolve to fresh lobbies.
	_, err = registry.Resolve(ctx, "fresh")
	require.NoError(t, err)
}

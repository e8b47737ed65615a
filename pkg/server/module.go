package server

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/whodunit/parlor/pkg/config"
	"github.com/whodunit/parlor/pkg/game"
	"github.com/whodunit/parlor/pkg/server/ingress"
	"github.com/whodunit/parlor/pkg/server/protocol"
	"github.com/whodunit/parlor/pkg/server/state"
	"github.com/whodunit/parlor/pkg/utils"
)

const (
	MAX_GAME_ID_LENGTH = 64
	MAX_NAME_LENGTH    = 32
)

// Client is a connection as the cluster sees it. The websocket ingress
// provides the real one; tests provide their own.
type Client interface {
	Id() uint16
	Host() string
	Logger() zerolog.Logger
	// Lasts for the duration of the connection.
	Session() *utils.Lifetime
	// Messages going to the cluster.
	Receive() <-chan protocol.Inbound
	// Messages going to the client.
	Send(message interface{})
}

var _ Client = (*ingress.Client)(nil)

// Cluster routes connections to game sessions. Each connection gets its
// own poller; each session gets its own actor. The cluster itself holds no
// game state.
type Cluster struct {
	startTime time.Time
	settings  config.ServerSettings
	store     *state.Store
	registry  *Registry
}

func NewCluster(
	ctx context.Context,
	store *state.Store,
	rules game.Rules,
	settings config.ServerSettings,
) *Cluster {
	return &Cluster{
		startTime: time.Now(),
		settings:  settings,
		store:     store,
		registry:  NewRegistry(ctx, store, rules),
	}
}

func (server *Cluster) Registry() *Registry {
	return server.registry
}

func (server *Cluster) Uptime() time.Duration {
	return time.Since(server.startTime)
}

// seat is a connection's binding to a player in one session.
type seat struct {
	actor *Actor
	name  string
}

func (server *Cluster) PollClients(ctx context.Context, newClients <-chan *ingress.Client) {
	for {
		select {
		case client := <-newClients:
			go server.PollClient(ctx, client)
		case <-ctx.Done():
			return
		}
	}
}

// joinGame resolves a join request to a bound seat. Rejections are
// reported to the client here; a nil result just means "not seated".
func (server *Cluster) joinGame(ctx context.Context, client Client, message protocol.JoinMessage) *seat {
	id := strings.TrimSpace(message.Session)
	name := strings.TrimSpace(message.Name)
	if id == "" || name == "" || len(id) > MAX_GAME_ID_LENGTH || len(name) > MAX_NAME_LENGTH {
		client.Send(protocol.ErrorMessage{
			Op:      protocol.ErrorOp,
			Kind:    protocol.KindBadRequest,
			Message: "a game id and a player name are required",
		})
		return nil
	}

	actor, err := server.registry.Resolve(ctx, id)
	if err != nil {
		client.Send(protocol.ErrorMessage{
			Op:      protocol.ErrorOp,
			Kind:    game.Kind(err),
			Message: err.Error(),
		})
		return nil
	}

	// The actor answers the client itself when the join is rejected.
	if err := actor.Join(ctx, client, name); err != nil {
		return nil
	}
	return &seat{actor: actor, name: name}
}

func (server *Cluster) PollClient(ctx context.Context, client Client) {
	logger := client.Logger()
	messages := client.Receive()

	var current *seat
	defer func() {
		if current != nil {
			current.actor.Detach(client, current.name)
		}
	}()

	for {
		select {
		case message := <-messages:
			if server.settings.LogSessions {
				logger.Info().
					Str("op", string(message.InboundOp())).
					Msg("client message")
			}

			join, isJoin := message.(protocol.JoinMessage)
			if isJoin {
				next := server.joinGame(ctx, client, join)
				if next == nil {
					continue
				}
				// Switching games or names releases the old seat.
				if current != nil && (current.actor != next.actor || current.name != next.name) {
					current.actor.Detach(client, current.name)
				}
				current = next
				logger.Info().
					Str("game", next.actor.id).
					Str("player", next.name).
					Msg("client seated")
				continue
			}

			if current == nil {
				client.Send(protocol.ErrorMessage{
					Op:      protocol.ErrorOp,
					Kind:    game.Kind(game.ErrSessionNotFound),
					Message: "join a game first",
				})
				continue
			}

			if !current.actor.Deliver(client, current.name, message) {
				client.Send(protocol.ErrorMessage{
					Op:      protocol.ErrorOp,
					Kind:    game.Kind(game.ErrSessionNotFound),
					Message: game.ErrSessionNotFound.Error(),
				})
				current = nil
			}
		case <-client.Session().Ctx().Done():
			return
		case <-ctx.Done():
			return
		}
	}
}

func (server *Cluster) Shutdown() {
	server.registry.Shutdown()
}

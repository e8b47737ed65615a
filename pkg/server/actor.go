package server

import (
	"context"
	"errors"

	opt "github.com/repeale/fp-go/option"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/whodunit/parlor/pkg/game"
	"github.com/whodunit/parlor/pkg/server/protocol"
	"github.com/whodunit/parlor/pkg/server/state"
	"github.com/whodunit/parlor/pkg/utils"
)

const ACTOR_MAILBOX_LIMIT = 16

// command is one client action bound for a session.
type command struct {
	client  Client
	name    string
	message protocol.Inbound
}

// join asks for a seat and reports back whether the seat was taken, so the
// connection's poller knows where to route everything that follows.
type join struct {
	client   Client
	name     string
	response chan error
}

// detach records that a connection went away.
type detach struct {
	client Client
	name   string
}

// Actor owns one game.Session. Every mutation and every resulting
// broadcast runs on the actor's goroutine, so clients always observe
// mutations in the order they were applied and never an interleaving.
type Actor struct {
	id       string
	session  *game.Session
	store    *state.Store
	finished *utils.Topic[FinishedGame]

	lifetime utils.Lifetime
	joins    chan join
	commands chan command
	detaches chan detach
	expiries chan *game.PendingDisprove

	// Who speaks for each seat right now. Seats of disconnected players
	// have no entry.
	members  map[string]Client
	deadline *utils.Deadline
}

func NewActor(
	ctx context.Context,
	id string,
	rules game.Rules,
	store *state.Store,
	finished *utils.Topic[FinishedGame],
) *Actor {
	return &Actor{
		id:       id,
		session:  game.NewSession(id, rules),
		store:    store,
		finished: finished,
		lifetime: utils.NewLifetime(ctx),
		joins:    make(chan join, ACTOR_MAILBOX_LIMIT),
		commands: make(chan command, ACTOR_MAILBOX_LIMIT),
		detaches: make(chan detach, ACTOR_MAILBOX_LIMIT),
		expiries: make(chan *game.PendingDisprove, 1),
		members:  make(map[string]Client),
	}
}

func (a *Actor) Logger() zerolog.Logger {
	return log.With().Str("game", a.id).Logger()
}

func (a *Actor) Ctx() context.Context {
	return a.lifetime.Ctx()
}

// Join requests a seat and waits for the actor's answer. A nil error means
// the seat is bound and subsequent commands may carry the name.
func (a *Actor) Join(ctx context.Context, client Client, name string) error {
	response := make(chan error, 1)

	select {
	case a.joins <- join{client: client, name: name, response: response}:
	case <-a.lifetime.Ctx().Done():
		return game.ErrSessionNotFound
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-response:
		return err
	case <-a.lifetime.Ctx().Done():
		return game.ErrSessionNotFound
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Deliver queues one action. It reports false if the session is gone.
func (a *Actor) Deliver(client Client, name string, message protocol.Inbound) bool {
	select {
	case a.commands <- command{client: client, name: name, message: message}:
		return true
	case <-a.lifetime.Ctx().Done():
		return false
	}
}

// Detach reports a dropped connection.
func (a *Actor) Detach(client Client, name string) {
	select {
	case a.detaches <- detach{client: client, name: name}:
	case <-a.lifetime.Ctx().Done():
	}
}

func (a *Actor) Poll(ctx context.Context) {
	logger := a.Logger()
	logger.Info().Msg("session opened")
	defer logger.Info().Msg("session closed")
	defer a.lifetime.Cancel()

	for {
		select {
		case request := <-a.joins:
			request.response <- a.handleJoin(request.client, request.name)
		case cmd := <-a.commands:
			a.handleCommand(ctx, cmd)
		case d := <-a.detaches:
			a.handleDetach(d)
		case pending := <-a.expiries:
			a.handleExpiry(pending)
		case <-a.lifetime.Ctx().Done():
			return
		case <-ctx.Done():
			return
		}
	}
}

func (a *Actor) broadcast(message interface{}) {
	for _, client := range a.members {
		client.Send(message)
	}
}

func (a *Actor) unicast(name string, message interface{}) {
	if client, ok := a.members[name]; ok {
		client.Send(message)
	}
}

func (a *Actor) update() {
	a.broadcast(protocol.UpdateMessage{
		Op:   protocol.UpdateOp,
		Game: a.session.Snapshot(),
	})
}

// fail reports a rejected action to the client that sent it. Rule errors
// never mutate state, so there is nothing to broadcast.
func (a *Actor) fail(client Client, err error) {
	if client == nil {
		return
	}
	client.Send(protocol.ErrorMessage{
		Op:      protocol.ErrorOp,
		Kind:    game.Kind(err),
		Message: err.Error(),
	})
}

func (a *Actor) reject(client Client, message string) {
	if client == nil {
		return
	}
	client.Send(protocol.ErrorMessage{
		Op:      protocol.ErrorOp,
		Kind:    protocol.KindBadRequest,
		Message: message,
	})
}

func (a *Actor) sendHand(name string) {
	found := a.session.FindPlayer(name)
	if opt.IsNone(found) {
		return
	}

	hand := found.Value.Hand()
	cards := make([]string, 0, len(hand))
	for _, card := range hand {
		cards = append(cards, card.String())
	}
	a.unicast(name, protocol.HandMessage{Op: protocol.HandOp, Cards: cards})
}

func (a *Actor) handleJoin(client Client, name string) error {
	player, err := a.session.Join(name)
	if err != nil {
		a.fail(client, err)
		return err
	}

	// A reconnect replaces whatever connection held the seat before.
	a.members[name] = client
	logger := a.Logger()
	logger.Info().
		Str("player", name).
		Str("character", player.Character.String()).
		Msg("player joined")

	a.update()

	// A player coming back mid-game needs their private state again.
	if a.session.Status() == game.StatusInProgress {
		a.sendHand(name)
		if pending := a.session.Pending(); pending != nil && pending.Disprover == name {
			a.sendPrompt(pending)
		}
	}
	return nil
}

func (a *Actor) handleCommand(ctx context.Context, cmd command) {
	switch message := cmd.message.(type) {
	case protocol.StartMessage:
		a.handleStart(ctx, cmd)
	case protocol.MoveMessage:
		a.handleMove(cmd, message)
	case protocol.SuggestMessage:
		a.handleSuggest(cmd, message)
	case protocol.DisproveMessage:
		a.handleDisprove(cmd, message)
	case protocol.AccuseMessage:
		a.handleAccuse(ctx, cmd, message)
	case protocol.EndTurnMessage:
		a.handleEndTurn(cmd)
	}
}

func (a *Actor) handleStart(ctx context.Context, cmd command) {
	err := a.session.Start(cmd.name)
	if errors.Is(err, game.ErrCardConservation) {
		// Not a rule violation: the deal itself is broken. Nothing about
		// the session can be trusted, so it is torn down.
		logger := a.Logger()
		logger.Error().Err(err).Msg("aborting session")
		a.broadcast(protocol.ErrorMessage{
			Op:      protocol.ErrorOp,
			Kind:    "internal",
			Message: "the game could not be dealt",
		})
		a.lifetime.Cancel()
		return
	}
	if err != nil {
		a.fail(cmd.client, err)
		return
	}

	logger := a.Logger()
	logger.Info().Int("players", len(a.session.Players())).Msg("game started")
	a.update()
	for _, player := range a.session.Players() {
		a.sendHand(player.Name)
	}
}

func (a *Actor) handleMove(cmd command, message protocol.MoveMessage) {
	target := game.ParseNode(message.Location)
	if opt.IsNone(target) {
		a.fail(cmd.client, game.ErrInvalidMove)
		return
	}

	snapshot, err := a.session.Move(cmd.name, target.Value)
	if err != nil {
		a.fail(cmd.client, err)
		return
	}
	a.broadcast(protocol.UpdateMessage{Op: protocol.UpdateOp, Game: snapshot})
}

func (a *Actor) sendPrompt(pending *game.PendingDisprove) {
	choices := make([]string, 0, len(pending.Choices))
	for _, card := range pending.Choices {
		choices = append(choices, card.String())
	}
	a.unicast(pending.Disprover, protocol.PromptMessage{
		Op:        protocol.PromptOp,
		Suggester: pending.Suggester,
		Suspect:   pending.Suspect.String(),
		Weapon:    pending.Weapon.String(),
		Room:      pending.Room.String(),
		Choices:   choices,
		Deadline:  pending.Deadline,
	})
}

func (a *Actor) handleSuggest(cmd command, message protocol.SuggestMessage) {
	suspect := game.ParseSuspect(message.Suspect)
	if opt.IsNone(suspect) {
		a.reject(cmd.client, "unknown suspect")
		return
	}
	weapon := game.ParseWeapon(message.Weapon)
	if opt.IsNone(weapon) {
		a.reject(cmd.client, "unknown weapon")
		return
	}

	outcome, err := a.session.Suggest(cmd.name, suspect.Value, weapon.Value)
	if err != nil {
		a.fail(cmd.client, err)
		return
	}

	// The relocation and the spent suggestion are public either way.
	a.update()

	switch {
	case opt.IsSome(outcome.Reveal):
		reveal := outcome.Reveal.Value
		a.unicast(cmd.name, protocol.RevealMessage{
			Op:        protocol.RevealOp,
			Refuted:   true,
			Disprover: reveal.Disprover,
			Card:      reveal.Card.String(),
		})
	case outcome.Pending != nil:
		a.sendPrompt(outcome.Pending)
		a.armDeadline(outcome.Pending)
	default:
		a.unicast(cmd.name, protocol.RevealMessage{
			Op:      protocol.RevealOp,
			Refuted: false,
		})
	}
}

// armDeadline schedules the default resolution of a pending choice. The
// expiry goes through the mailbox like everything else; if the disprover
// answers first, the stale expiry is ignored by pointer identity.
func (a *Actor) armDeadline(pending *game.PendingDisprove) {
	a.deadline = utils.NewDeadline(a.session.Rules().DisproveTimeout, func() {
		select {
		case a.expiries <- pending:
		case <-a.lifetime.Ctx().Done():
		}
	})
	a.deadline.Start()
}

func (a *Actor) handleDisprove(cmd command, message protocol.DisproveMessage) {
	card := game.ParseCard(message.Card)
	if opt.IsNone(card) {
		a.fail(cmd.client, game.ErrInvalidCard)
		return
	}

	reveal, err := a.session.Disprove(cmd.name, card.Value)
	if err != nil {
		a.fail(cmd.client, err)
		return
	}

	if a.deadline != nil {
		a.deadline.Stop()
		a.deadline = nil
	}

	a.unicast(reveal.Suggester, protocol.RevealMessage{
		Op:        protocol.RevealOp,
		Refuted:   true,
		Disprover: reveal.Disprover,
		Card:      reveal.Card.String(),
	})
	a.update()
}

func (a *Actor) handleExpiry(pending *game.PendingDisprove) {
	if a.session.Pending() != pending {
		return
	}

	logger := a.Logger()
	logger.Info().
		Str("disprover", pending.Disprover).
		Msg("disprove deadline passed; showing the first match")
	a.deadline = nil

	resolved := a.session.ResolvePendingDefault()
	if opt.IsNone(resolved) {
		return
	}
	reveal := resolved.Value

	a.unicast(reveal.Suggester, protocol.RevealMessage{
		Op:        protocol.RevealOp,
		Refuted:   true,
		Disprover: reveal.Disprover,
		Card:      reveal.Card.String(),
	})
	a.update()
}

func (a *Actor) handleAccuse(ctx context.Context, cmd command, message protocol.AccuseMessage) {
	suspect := game.ParseSuspect(message.Suspect)
	if opt.IsNone(suspect) {
		a.reject(cmd.client, "unknown suspect")
		return
	}
	weapon := game.ParseWeapon(message.Weapon)
	if opt.IsNone(weapon) {
		a.reject(cmd.client, "unknown weapon")
		return
	}
	room := game.ParseNode(message.Room)
	if opt.IsNone(room) || !room.Value.IsRoom() {
		a.reject(cmd.client, "accusations name a room")
		return
	}

	outcome, err := a.session.Accuse(cmd.name, suspect.Value, weapon.Value, room.Value)
	if err != nil {
		a.fail(cmd.client, err)
		return
	}

	a.unicast(cmd.name, protocol.ResultMessage{
		Op:      protocol.ResultOp,
		Correct: outcome.Correct,
	})
	a.update()

	if a.session.Status() == game.StatusEnded {
		a.finish(ctx)
	}
}

func (a *Actor) handleEndTurn(cmd command) {
	snapshot, err := a.session.EndTurn(cmd.name)
	if err != nil {
		a.fail(cmd.client, err)
		return
	}
	a.broadcast(protocol.UpdateMessage{Op: protocol.UpdateOp, Game: snapshot})
}

func (a *Actor) handleDetach(d detach) {
	if a.members[d.name] != d.client {
		// The seat was already rebound by a reconnect.
		return
	}
	delete(a.members, d.name)

	if err := a.session.Leave(d.name); err != nil {
		return
	}
	logger := a.Logger()
	logger.Info().Str("player", d.name).Msg("player left")
	a.update()

	// A lobby everyone has abandoned will never start; drop it.
	if a.session.Status() == game.StatusLobby && len(a.members) == 0 {
		logger.Info().Msg("lobby abandoned")
		a.lifetime.Cancel()
	}
}

// finish archives the ended session, announces it, and shuts the actor
// down.
func (a *Actor) finish(ctx context.Context) {
	logger := a.Logger()

	end := protocol.GameEndMessage{
		Op:  protocol.GameEndOp,
		Tie: a.session.IsTie(),
	}
	if winner := a.session.Winner(); opt.IsSome(winner) {
		end.Winner = winner.Value.Name
	}
	if solution := a.session.Solution(); opt.IsSome(solution) {
		end.Solution = protocol.Solution{
			Suspect: solution.Value.Suspect.String(),
			Weapon:  solution.Value.Weapon.String(),
			Room:    solution.Value.Room.String(),
		}
	}
	a.broadcast(end)

	if a.store != nil {
		if err := a.store.SaveGame(ctx, a.session); err != nil {
			logger.Error().Err(err).Msg("failed to archive game")
		}
	}
	if a.finished != nil {
		a.finished.Publish(FinishedGame{
			ID:     a.id,
			Winner: end.Winner,
			Tie:    end.Tie,
		})
	}

	logger.Info().Str("winner", end.Winner).Bool("tie", end.Tie).Msg("game over")
	a.lifetime.Cancel()
}

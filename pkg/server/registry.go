package server

import (
	"context"

	opt "github.com/repeale/fp-go/option"
	"github.com/sasha-s/go-deadlock"

	"github.com/whodunit/parlor/pkg/game"
	"github.com/whodunit/parlor/pkg/server/state"
	"github.com/whodunit/parlor/pkg/utils"
)

// FinishedGame is published on the registry's topic after a session ends
// and its record is archived.
type FinishedGame struct {
	ID     string
	Winner string
	Tie    bool
}

// Registry maps game identifiers to live session actors. Ended games leave
// the registry and live on only in the archive, which lets a lookup tell
// "this game already ended" apart from "no such game".
type Registry struct {
	ctx   context.Context
	store *state.Store
	rules game.Rules

	mutex    deadlock.Mutex
	sessions map[string]*Actor
	finished *utils.Topic[FinishedGame]
}

func NewRegistry(ctx context.Context, store *state.Store, rules game.Rules) *Registry {
	return &Registry{
		ctx:      ctx,
		store:    store,
		rules:    rules,
		sessions: make(map[string]*Actor),
		finished: utils.NewTopic[FinishedGame](),
	}
}

// Finished is the feed of games that ended and were archived.
func (r *Registry) Finished() *utils.Topic[FinishedGame] {
	return r.finished
}

func (r *Registry) FindActor(id string) opt.Option[*Actor] {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if actor, ok := r.sessions[id]; ok {
		return opt.Some(actor)
	}
	return opt.None[*Actor]()
}

func (r *Registry) Live() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.sessions)
}

// Resolve returns the live actor for id, creating a fresh lobby when the
// id is unknown. Joining an archived game fails with GameOver.
func (r *Registry) Resolve(ctx context.Context, id string) (*Actor, error) {
	if existing := r.FindActor(id); opt.IsSome(existing) {
		return existing.Value, nil
	}

	if r.store != nil {
		record, err := r.store.LookupGame(ctx, id)
		if err != nil {
			return nil, err
		}
		if opt.IsSome(record) {
			return nil, game.ErrGameOver
		}
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	// Someone else may have created it while we checked the archive.
	if actor, ok := r.sessions[id]; ok {
		return actor, nil
	}

	actor := NewActor(r.ctx, id, r.rules, r.store, r.finished)
	r.sessions[id] = actor
	go actor.Poll(r.ctx)
	go r.reap(id, actor)
	return actor, nil
}

// reap drops an actor from the registry once its lifetime ends.
func (r *Registry) reap(id string, actor *Actor) {
	<-actor.Ctx().Done()

	r.mutex.Lock()
	if r.sessions[id] == actor {
		delete(r.sessions, id)
	}
	r.mutex.Unlock()
}

func (r *Registry) Shutdown() {
	r.finished.Close()
}

package server

import (
	"encoding/json"
	"net/http"
	"regexp"
	"time"

	opt "github.com/repeale/fp-go/option"
	"github.com/rs/zerolog/log"

	"github.com/whodunit/parlor/pkg/game"
	"github.com/whodunit/parlor/pkg/server/state"
)

var (
	GAME_PATH_REGEX = regexp.MustCompile(`^/api/games/([\w-]+)$`)
)

type statusReport struct {
	Uptime    string `json:"uptime"`
	LiveGames int    `json:"liveGames"`
}

type playerHistory struct {
	Name       string   `json:"name"`
	Character  string   `json:"character"`
	Hand       []string `json:"hand"`
	Eliminated bool     `json:"eliminated"`
	Won        bool     `json:"won"`
}

// gameHistory is the public form of an archived game. Hands and the case
// file stop being secrets once the game has ended.
type gameHistory struct {
	ID        string          `json:"id"`
	StartedAt time.Time       `json:"startedAt"`
	EndedAt   time.Time       `json:"endedAt"`
	Winner    string          `json:"winner,omitempty"`
	Tie       bool            `json:"tie,omitempty"`
	Suspect   string          `json:"suspect"`
	Weapon    string          `json:"weapon"`
	Room      string          `json:"room"`
	Players   []playerHistory `json:"players"`
	Events    []game.Event    `json:"events"`
}

func buildHistory(record state.GameRecord) (*gameHistory, error) {
	events, err := state.DecodeEvents(record.Events)
	if err != nil {
		return nil, err
	}

	history := gameHistory{
		ID:        record.SessionID,
		StartedAt: record.StartedAt,
		EndedAt:   record.EndedAt,
		Winner:    record.Winner,
		Tie:       record.Tie,
		Suspect:   record.Suspect,
		Weapon:    record.Weapon,
		Room:      record.Room,
		Events:    events,
	}

	for _, player := range record.Players {
		hand, err := state.DecodeHand(player.Hand)
		if err != nil {
			return nil, err
		}
		history.Players = append(history.Players, playerHistory{
			Name:       player.Name,
			Character:  player.Character,
			Hand:       hand,
			Eliminated: player.Eliminated,
			Won:        player.Won,
		})
	}

	return &history, nil
}

func (server *Cluster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/api/status" {
		writeJSON(w, statusReport{
			Uptime:    server.Uptime().Round(time.Second).String(),
			LiveGames: server.registry.Live(),
		})
		return
	}

	matches := GAME_PATH_REGEX.FindStringSubmatch(r.URL.Path)
	if len(matches) == 2 {
		server.serveGameHistory(w, r, matches[1])
		return
	}

	w.WriteHeader(400)
}

func (server *Cluster) serveGameHistory(w http.ResponseWriter, r *http.Request, id string) {
	if server.store == nil {
		w.WriteHeader(404)
		return
	}

	record, err := server.store.LookupGame(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Str("game", id).Msg("archive lookup failed")
		w.WriteHeader(500)
		return
	}
	if opt.IsNone(record) {
		w.WriteHeader(404)
		return
	}

	history, err := buildHistory(record.Value)
	if err != nil {
		log.Error().Err(err).Str("game", id).Msg("archive record is corrupt")
		w.WriteHeader(500)
		return
	}

	writeJSON(w, history)
}

func writeJSON(w http.ResponseWriter, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		w.WriteHeader(500)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

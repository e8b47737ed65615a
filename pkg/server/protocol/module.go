package protocol

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/whodunit/parlor/pkg/game"
)

// Op tags every message on the wire.
type Op string

const (
	// client -> server
	JoinOp     Op = "join"
	StartOp    Op = "start_game"
	MoveOp     Op = "move"
	SuggestOp  Op = "suggest"
	DisproveOp Op = "disprove"
	AccuseOp   Op = "accuse"
	EndTurnOp  Op = "end_turn"

	// server -> client
	UpdateOp  Op = "game_update"
	HandOp    Op = "hand"
	PromptOp  Op = "disprove_prompt"
	RevealOp  Op = "reveal"
	ResultOp  Op = "accusation_result"
	GameEndOp Op = "game_end"
	ErrorOp   Op = "error"
)

// Inbound is the closed set of client messages. Decode matches the ops
// exhaustively; anything outside the set is rejected before it reaches a
// session.
type Inbound interface {
	InboundOp() Op
}

// JoinMessage binds the connection to a seat in a session, creating the
// session if the id is unknown.
type JoinMessage struct {
	Op      Op     `json:"op"`
	Session string `json:"session"`
	Name    string `json:"name"`
}

// StartMessage begins the game. Only the host's request succeeds.
type StartMessage struct {
	Op Op `json:"op"`
}

type MoveMessage struct {
	Op       Op     `json:"op"`
	Location string `json:"location"`
}

type SuggestMessage struct {
	Op      Op     `json:"op"`
	Suspect string `json:"suspect"`
	Weapon  string `json:"weapon"`
}

// DisproveMessage answers a pending disprove_prompt with the chosen card.
type DisproveMessage struct {
	Op   Op     `json:"op"`
	Card string `json:"card"`
}

type AccuseMessage struct {
	Op      Op     `json:"op"`
	Suspect string `json:"suspect"`
	Weapon  string `json:"weapon"`
	Room    string `json:"room"`
}

type EndTurnMessage struct {
	Op Op `json:"op"`
}

func (m JoinMessage) InboundOp() Op     { return JoinOp }
func (m StartMessage) InboundOp() Op    { return StartOp }
func (m MoveMessage) InboundOp() Op     { return MoveOp }
func (m SuggestMessage) InboundOp() Op  { return SuggestOp }
func (m DisproveMessage) InboundOp() Op { return DisproveOp }
func (m AccuseMessage) InboundOp() Op   { return AccuseOp }
func (m EndTurnMessage) InboundOp() Op  { return EndTurnOp }

// UpdateMessage is the broadcast state of a session. It never carries a
// hand or the case file.
type UpdateMessage struct {
	Op   Op            `json:"op"`
	Game game.Snapshot `json:"game"`
}

// HandMessage delivers a player their own cards, after the deal and again
// on reconnect.
type HandMessage struct {
	Op    Op       `json:"op"`
	Cards []string `json:"cards"`
}

// PromptMessage asks the disprover to pick one of several matching cards
// before the deadline.
type PromptMessage struct {
	Op        Op        `json:"op"`
	Suggester string    `json:"suggester"`
	Suspect   string    `json:"suspect"`
	Weapon    string    `json:"weapon"`
	Room      string    `json:"room"`
	Choices   []string  `json:"choices"`
	Deadline  time.Time `json:"deadline"`
}

// RevealMessage tells the suggester how their suggestion fared. Refuted
// false means nobody could show a card; Disprover and Card are empty then.
type RevealMessage struct {
	Op        Op     `json:"op"`
	Refuted   bool   `json:"refuted"`
	Disprover string `json:"disprover,omitempty"`
	Card      string `json:"card,omitempty"`
}

// ResultMessage tells the accuser privately how their accusation fared.
// The table only ever sees the elimination or the win, never the guess.
type ResultMessage struct {
	Op      Op   `json:"op"`
	Correct bool `json:"correct"`
}

// Solution is the revealed case file.
type Solution struct {
	Suspect string `json:"suspect"`
	Weapon  string `json:"weapon"`
	Room    string `json:"room"`
}

// GameEndMessage closes a session: a winner or a tie, and the case file
// everyone has been guessing at.
type GameEndMessage struct {
	Op       Op       `json:"op"`
	Winner   string   `json:"winner,omitempty"`
	Tie      bool     `json:"tie,omitempty"`
	Solution Solution `json:"solution"`
}

// ErrorMessage reports a rejected action to the client that sent it. Kind
// is machine-checkable; Message is for humans.
type ErrorMessage struct {
	Op      Op     `json:"op"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// KindBadRequest is the error kind for frames that never reach a session:
// malformed JSON, an unknown op, or a message sent before joining.
const KindBadRequest = "bad_request"

var _ = []Inbound{
	JoinMessage{},
	StartMessage{},
	MoveMessage{},
	SuggestMessage{},
	DisproveMessage{},
	AccuseMessage{},
	EndTurnMessage{},
}

func decodeAs[T Inbound](raw []byte) (Inbound, error) {
	var message T
	err := json.Unmarshal(raw, &message)
	return message, err
}

// Decode parses one client frame. Unknown ops are an error, not a
// passthrough.
func Decode(raw []byte) (Inbound, error) {
	var envelope struct {
		Op Op `json:"op"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("malformed message: %w", err)
	}

	switch envelope.Op {
	case JoinOp:
		return decodeAs[JoinMessage](raw)
	case StartOp:
		return decodeAs[StartMessage](raw)
	case MoveOp:
		return decodeAs[MoveMessage](raw)
	case SuggestOp:
		return decodeAs[SuggestMessage](raw)
	case DisproveOp:
		return decodeAs[DisproveMessage](raw)
	case AccuseOp:
		return decodeAs[AccuseMessage](raw)
	case EndTurnOp:
		return decodeAs[EndTurnMessage](raw)
	}
	return nil, fmt.Errorf("unknown op %q", envelope.Op)
}

// Encode serializes any outbound message.
func Encode(message interface{}) ([]byte, error) {
	return json.Marshal(message)
}

package game

import "errors"

// Rule errors. All of them are expected, recoverable, and reported only to
// the player whose action was rejected. None of them is fatal to a session.
var (
	ErrNotYourTurn         = errors.New("it is not your turn")
	ErrEliminated          = errors.New("eliminated players cannot act")
	ErrGameOver            = errors.New("the game is over")
	ErrSameLocation        = errors.New("you are already there")
	ErrInvalidMove         = errors.New("you cannot move there from here")
	ErrHallwayOccupied     = errors.New("that hallway is occupied")
	ErrNotInRoom           = errors.New("you must be in a room to suggest")
	ErrNotHost             = errors.New("only the host can start the game")
	ErrInsufficientPlayers = errors.New("not enough players to start")
	ErrCapacityExceeded    = errors.New("the game is full")
	ErrAlreadyStarted      = errors.New("the game has already started")
	ErrSessionNotFound     = errors.New("no such game")
	ErrAlreadyMoved        = errors.New("you have already moved this turn")
	ErrSuggestionSpent     = errors.New("you have already suggested this turn")
	ErrChoicePending       = errors.New("waiting for a card to be shown")
	ErrNotDisprover        = errors.New("you have no suggestion to disprove")
	ErrInvalidCard         = errors.New("you cannot show that card")
	ErrUnknownPlayer       = errors.New("unknown player")
)

// ErrCardConservation signals a broken deal: the case file and the dealt
// hands no longer partition the deck. Unlike the rule errors above it is an
// internal defect and the session must be aborted.
var ErrCardConservation = errors.New("case file and hands do not partition the deck")

var errorKinds = map[error]string{
	ErrNotYourTurn:         "not_your_turn",
	ErrEliminated:          "eliminated",
	ErrGameOver:            "game_over",
	ErrSameLocation:        "same_location",
	ErrInvalidMove:         "invalid_move",
	ErrHallwayOccupied:     "hallway_occupied",
	ErrNotInRoom:           "not_in_room",
	ErrNotHost:             "not_host",
	ErrInsufficientPlayers: "insufficient_players",
	ErrCapacityExceeded:    "capacity_exceeded",
	ErrAlreadyStarted:      "already_started",
	ErrSessionNotFound:     "session_not_found",
	ErrAlreadyMoved:        "already_moved",
	ErrSuggestionSpent:     "suggestion_spent",
	ErrChoicePending:       "choice_pending",
	ErrNotDisprover:        "not_disprover",
	ErrInvalidCard:         "invalid_card",
	ErrUnknownPlayer:       "unknown_player",
}

// Kind maps an error to its machine-checkable wire identifier. Anything
// outside the rule errors is reported as internal.
func Kind(err error) string {
	for rule, kind := range errorKinds {
		if errors.Is(err, rule) {
			return kind
		}
	}
	return "internal"
}

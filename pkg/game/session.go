package game

import (
	"math/rand"
	"time"

	opt "github.com/repeale/fp-go/option"
)

type Status uint8

const (
	StatusLobby Status = iota
	StatusInProgress
	StatusEnded
)

func (s Status) String() string {
	switch s {
	case StatusLobby:
		return "lobby"
	case StatusInProgress:
		return "in_progress"
	default:
		return "ended"
	}
}

// Rules are the per-session knobs. The zero value of any field falls back
// to the default at construction.
type Rules struct {
	MinPlayers      int
	MaxPlayers      int
	DisproveTimeout time.Duration

	// FreeMovement lifts the turn restriction on movement before the game
	// starts. Deprecated compatibility behavior, off unless configured.
	FreeMovement bool

	// Seed fixes the dealing RNG. Zero seeds from the clock.
	Seed int64
}

func DefaultRules() Rules {
	return Rules{
		MinPlayers:      3,
		MaxPlayers:      6,
		DisproveTimeout: 30 * time.Second,
	}
}

// Session is the authoritative record of one game. It is a plain state
// machine: no goroutines, no I/O, no locks. Serializing access is the
// owner's job, and there is exactly one owner per session.
type Session struct {
	id      string
	players []*Player

	caseFile CaseFile
	status   Status
	turn     int
	winner   *Player
	tie      bool
	pending  *PendingDisprove

	rules Rules
	rand  *rand.Rand
	clock func() time.Time

	startedAt time.Time
	endedAt   time.Time
	events    []Event
}

func NewSession(id string, rules Rules) *Session {
	defaults := DefaultRules()
	if rules.MinPlayers <= 0 {
		rules.MinPlayers = defaults.MinPlayers
	}
	if rules.MaxPlayers <= 0 {
		rules.MaxPlayers = defaults.MaxPlayers
	}
	if rules.MaxPlayers > NumSuspects {
		rules.MaxPlayers = NumSuspects
	}
	if rules.DisproveTimeout <= 0 {
		rules.DisproveTimeout = defaults.DisproveTimeout
	}

	seed := rules.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Session{
		id:    id,
		rules: rules,
		rand:  rand.New(rand.NewSource(seed)),
		clock: time.Now,
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Status() Status {
	return s.status
}

func (s *Session) Rules() Rules {
	return s.rules
}

func (s *Session) now() time.Time {
	return s.clock()
}

// Players returns the seats in turn order. The slice is a copy; the
// players are not.
func (s *Session) Players() []*Player {
	players := make([]*Player, len(s.players))
	copy(players, s.players)
	return players
}

func (s *Session) FindPlayer(name string) opt.Option[*Player] {
	for _, player := range s.players {
		if player.Name == name {
			return opt.Some(player)
		}
	}
	return opt.None[*Player]()
}

func (s *Session) characterOwner(suspect Suspect) opt.Option[*Player] {
	for _, player := range s.players {
		if player.Character == suspect {
			return opt.Some(player)
		}
	}
	return opt.None[*Player]()
}

func (s *Session) TurnHolder() opt.Option[*Player] {
	if s.status != StatusInProgress {
		return opt.None[*Player]()
	}
	return opt.Some(s.players[s.turn])
}

func (s *Session) Host() opt.Option[*Player] {
	for _, player := range s.players {
		if player.host {
			return opt.Some(player)
		}
	}
	return opt.None[*Player]()
}

func (s *Session) Winner() opt.Option[*Player] {
	if s.winner == nil {
		return opt.None[*Player]()
	}
	return opt.Some(s.winner)
}

func (s *Session) IsTie() bool {
	return s.tie
}

// Solution reveals the case file once the game has ended. While the game
// runs it stays hidden from every caller.
func (s *Session) Solution() opt.Option[CaseFile] {
	if s.status != StatusEnded {
		return opt.None[CaseFile]()
	}
	return opt.Some(s.caseFile)
}

func (s *Session) Pending() *PendingDisprove {
	return s.pending
}

func (s *Session) StartedAt() time.Time {
	return s.startedAt
}

func (s *Session) EndedAt() time.Time {
	return s.endedAt
}

func (s *Session) livingCount() int {
	living := 0
	for _, player := range s.players {
		if !player.standing.Eliminated() {
			living++
		}
	}
	return living
}

// actingPlayer runs the precondition chain shared by every turn action:
// the session must be running, no disprove choice may be pending, and the
// actor must hold the turn. An eliminated player never holds the turn, so
// the last check is unreachable in normal play.
func (s *Session) actingPlayer(name string) (*Player, error) {
	found := s.FindPlayer(name)
	if opt.IsNone(found) {
		return nil, ErrUnknownPlayer
	}
	player := found.Value

	switch s.status {
	case StatusEnded:
		return nil, ErrGameOver
	case StatusLobby:
		return nil, ErrNotYourTurn
	}
	if s.pending != nil {
		return nil, ErrChoicePending
	}
	if s.players[s.turn] != player {
		return nil, ErrNotYourTurn
	}
	if player.standing.Eliminated() {
		return nil, ErrEliminated
	}
	return player, nil
}

// verifyCardConservation checks that the case file and all hands partition
// the deck. A failure is an internal defect, not a rule violation.
func (s *Session) verifyCardConservation() error {
	seen := make(map[Card]int, NumCards)
	for _, card := range s.caseFile.Cards() {
		seen[card]++
	}
	for _, player := range s.players {
		for _, card := range player.hand {
			seen[card]++
		}
	}
	if len(seen) != NumCards {
		return ErrCardConservation
	}
	for _, count := range seen {
		if count != 1 {
			return ErrCardConservation
		}
	}
	return nil
}

type PlayerView struct {
	Name       string `json:"name"`
	Character  string `json:"character"`
	Location   string `json:"location"`
	Active     bool   `json:"active"`
	Eliminated bool   `json:"eliminated"`
	Host       bool   `json:"host"`
	Turn       bool   `json:"turn"`
}

type PendingView struct {
	Suggester string    `json:"suggester"`
	Disprover string    `json:"disprover"`
	Deadline  time.Time `json:"deadline"`
}

// Snapshot is the broadcastable view of a session. It never contains a
// hand or the case file; those travel only over private messages.
type Snapshot struct {
	ID      string       `json:"id"`
	Status  string       `json:"status"`
	Players []PlayerView `json:"players"`
	Pending *PendingView `json:"pending,omitempty"`
	Winner  string       `json:"winner,omitempty"`
	Tie     bool         `json:"tie,omitempty"`
}

func (s *Session) Snapshot() Snapshot {
	players := make([]PlayerView, len(s.players))
	for i, player := range s.players {
		players[i] = PlayerView{
			Name:       player.Name,
			Character:  player.Character.String(),
			Location:   player.Location.String(),
			Active:     player.standing.Connected(),
			Eliminated: player.standing.Eliminated(),
			Host:       player.host,
			Turn:       s.status == StatusInProgress && i == s.turn,
		}
	}

	snapshot := Snapshot{
		ID:      s.id,
		Status:  s.status.String(),
		Players: players,
		Tie:     s.tie,
	}
	if s.winner != nil {
		snapshot.Winner = s.winner.Name
	}
	if s.pending != nil {
		snapshot.Pending = &PendingView{
			Suggester: s.pending.Suggester,
			Disprover: s.pending.Disprover,
			Deadline:  s.pending.Deadline,
		}
	}
	return snapshot
}

package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
	opt "github.com/repeale/fp-go/option"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/whodunit/parlor/pkg/game"
)

type Entity struct {
	ID uint `gorm:"primaryKey"`
}

// GameRecord is one finished game. The live session is gone by the time a
// record exists; lookups against the archive answer "this game already
// ended" instead of "no such game".
type GameRecord struct {
	Entity

	SessionID string `gorm:"uniqueIndex;size:64"`
	StartedAt time.Time
	EndedAt   time.Time

	Winner string `gorm:"size:32"`
	Tie    bool

	// The revealed case file.
	Suspect string `gorm:"size:32"`
	Weapon  string `gorm:"size:32"`
	Room    string `gorm:"size:32"`

	// CBOR-encoded []game.Event.
	Events []byte

	Players []*PlayerRecord `gorm:"foreignKey:GameID"`
}

type PlayerRecord struct {
	Entity

	GameID uint `gorm:"not null"`

	Name       string `gorm:"size:32"`
	Character  string `gorm:"size:32"`
	Eliminated bool
	Won        bool

	// CBOR-encoded []string of card names.
	Hand []byte
}

type Store struct {
	db *gorm.DB
}

func InitDB(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	db.AutoMigrate(&GameRecord{})
	db.AutoMigrate(&PlayerRecord{})

	return &Store{db: db}, nil
}

// SaveGame archives a finished session. Hands and the event log go in as
// CBOR blobs; they are read back for audit, never broadcast.
func (s *Store) SaveGame(ctx context.Context, session *game.Session) error {
	if session.Status() != game.StatusEnded {
		return fmt.Errorf("session %s has not ended", session.ID())
	}

	events, err := cbor.Marshal(session.Events())
	if err != nil {
		return err
	}

	record := GameRecord{
		SessionID: session.ID(),
		StartedAt: session.StartedAt(),
		EndedAt:   session.EndedAt(),
		Tie:       session.IsTie(),
		Events:    events,
	}
	if winner := session.Winner(); opt.IsSome(winner) {
		record.Winner = winner.Value.Name
	}
	if solution := session.Solution(); opt.IsSome(solution) {
		record.Suspect = solution.Value.Suspect.String()
		record.Weapon = solution.Value.Weapon.String()
		record.Room = solution.Value.Room.String()
	}

	for _, player := range session.Players() {
		names := make([]string, 0, len(player.Hand()))
		for _, card := range player.Hand() {
			names = append(names, card.String())
		}
		hand, err := cbor.Marshal(names)
		if err != nil {
			return err
		}

		record.Players = append(record.Players, &PlayerRecord{
			Name:       player.Name,
			Character:  player.Character.String(),
			Eliminated: player.Standing().Eliminated(),
			Won:        record.Winner == player.Name,
			Hand:       hand,
		})
	}

	return s.db.WithContext(ctx).Create(&record).Error
}

// LookupGame fetches an archived game by its session id.
func (s *Store) LookupGame(ctx context.Context, id string) (opt.Option[GameRecord], error) {
	var record GameRecord
	err := s.db.WithContext(ctx).
		Where(GameRecord{SessionID: id}).
		Preload("Players").
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return opt.None[GameRecord](), nil
	}
	if err != nil {
		return opt.None[GameRecord](), err
	}
	return opt.Some(record), nil
}

// DecodeEvents unpacks a record's event log.
func DecodeEvents(blob []byte) ([]game.Event, error) {
	var events []game.Event
	if err := cbor.Unmarshal(blob, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// DecodeHand unpacks a player record's cards.
func DecodeHand(blob []byte) ([]string, error) {
	var names []string
	if err := cbor.Unmarshal(blob, &names); err != nil {
		return nil, err
	}
	return names, nil
}

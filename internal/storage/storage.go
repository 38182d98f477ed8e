// Package storage defines the persistence contracts the gameplay engine
// consumes: transaction-bound repository primitives, the aggregate state
// provider, and the transaction boundary itself.
//
// Implementations live in subpackages (see storage/sqlite).
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/robalobadob/codenames/internal/game"
)

var (
	// ErrNotFound means the referenced game, round, player or turn does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized means the requesting user is not a participant.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrConflict means the write lost to a concurrent transaction (busy
	// database, or a row changed under a conditional update).
	ErrConflict = errors.New("conflict")
	// ErrAlreadyExists is returned for duplicate unique keys (usernames, seats).
	ErrAlreadyExists = errors.New("already exists")
	// ErrIntegrity means a schema guard (CHECK, NOT NULL, foreign key, trigger)
	// rejected a write. Retrying the same write cannot succeed.
	ErrIntegrity = errors.New("integrity check failed")
)

// StateProvider assembles the aggregate for one game and one requester.
type StateProvider interface {
	// LoadAggregate returns ErrNotFound for an unknown game and
	// ErrUnauthorized when userID holds no seat in it.
	LoadAggregate(ctx context.Context, gamePublicID, userID string) (*game.Aggregate, error)
}

// GameplayRepository holds the mutation primitives the engine drives.
type GameplayRepository interface {
	CreateRound(ctx context.Context, gameID int64, number int) (game.Round, error)
	ReplaceCards(ctx context.Context, roundID int64, cards []game.Card) ([]game.Card, error)
	AssignRole(ctx context.Context, roundID, playerID int64, role game.Role) error
	UpdateRoundStatus(ctx context.Context, roundID int64, status game.RoundStatus) error
	UpdateRoundWinner(ctx context.Context, roundID, teamID int64) error
	CreateTurn(ctx context.Context, roundID, teamID int64, guessesRemaining int) (game.Turn, error)
	UpdateTurnStatus(ctx context.Context, turnID int64, status game.TurnStatus) error
	UpdateTurnGuesses(ctx context.Context, turnID int64, guessesRemaining int) error
	CreateClue(ctx context.Context, turnID int64, word string, count int) (game.Clue, error)
	CreateGuess(ctx context.Context, turnID, playerID, cardID int64, outcome game.Outcome) (game.Guess, error)
	MarkCardSelected(ctx context.Context, cardID int64) error
	UpdateGameStatus(ctx context.Context, gameID int64, status game.GameStatus) error
}

// NewGame is the input for creating a lobby.
type NewGame struct {
	PublicID  string
	Name      string
	Format    game.Format
	CreatedBy string
}

// NewPlayer is the input for seating a user.
type NewPlayer struct {
	PublicID    string
	UserID      string
	GameID      int64
	TeamID      int64
	DisplayName string
}

// LobbyRepository holds the pre-game primitives.
type LobbyRepository interface {
	CreateGame(ctx context.Context, in NewGame) (game.Game, error)
	CreateTeam(ctx context.Context, gameID int64, name string, position int) (game.Team, error)
	GetGame(ctx context.Context, publicID string) (game.Game, error)
	// LoadLobby is LoadAggregate without a requester, for users not yet seated.
	LoadLobby(ctx context.Context, gamePublicID string) (*game.Aggregate, error)
	ListTeams(ctx context.Context, gameID int64) ([]game.Team, error)
	AddPlayer(ctx context.Context, in NewPlayer) (game.Player, error)
	RemovePlayer(ctx context.Context, gameID int64, userID string) error
}

// Repository is everything available inside one transaction.
type Repository interface {
	StateProvider
	GameplayRepository
	LobbyRepository
}

// TxRunner is the transaction boundary. fn's repository is bound to a single
// transaction that commits when fn returns nil and rolls back otherwise.
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error
}

// User is an account for the auth adapter.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// UserStore persists accounts.
type UserStore interface {
	CreateUser(ctx context.Context, u User) error
	FindUserByUsername(ctx context.Context, username string) (User, error)
	FindUserByID(ctx context.Context, id string) (User, error)
}

// Store is the full storage surface wired at startup.
type Store interface {
	StateProvider
	TxRunner
	UserStore
	GetGame(ctx context.Context, publicID string) (game.Game, error)
	Close() error
}

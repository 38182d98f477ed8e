// internal/game/types.go
//
// Core type definitions for the Codenames game model.
// Defines:
//   - Status enums for games, rounds, turns, players and cards.
//   - Role: per-round player role (codemaster/codebreaker/spectator).
//   - Outcome: classification of a revealed card relative to the guessing team.
//   - Entity structs: Game, Team, Player, Round, Card, Turn, Clue, Guess.

package game

import "time"

// GameStatus is the lifecycle state of a game.
type GameStatus string

const (
	GameLobby      GameStatus = "LOBBY"
	GameInProgress GameStatus = "IN_PROGRESS"
	GameCompleted  GameStatus = "COMPLETED"
	GameAbandoned  GameStatus = "ABANDONED"
	GamePaused     GameStatus = "PAUSED"
)

// Format bounds how many rounds a game may have and how many wins end it.
type Format string

const (
	FormatQuick       Format = "QUICK"
	FormatBestOfThree Format = "BEST_OF_THREE"
	FormatRoundRobin  Format = "ROUND_ROBIN"
)

// RoundStatus is the lifecycle state of a round.
type RoundStatus string

const (
	RoundSetup      RoundStatus = "SETUP"
	RoundInProgress RoundStatus = "IN_PROGRESS"
	RoundCompleted  RoundStatus = "COMPLETED"
)

// TurnStatus is the lifecycle state of a turn.
type TurnStatus string

const (
	TurnActive    TurnStatus = "ACTIVE"
	TurnCompleted TurnStatus = "COMPLETED"
)

// PlayerStatus tracks a player's presence in a game.
type PlayerStatus string

const (
	PlayerActive PlayerStatus = "ACTIVE"
	PlayerAway   PlayerStatus = "AWAY"
)

// Role is what a player does during a round.
//   - CODEMASTER:  sees every card and gives clues.
//   - CODEBREAKER: guesses cards for their team.
//   - SPECTATOR:   watches; belongs to no team.
//   - NONE:        no role assigned (no current round).
type Role string

const (
	RoleCodemaster  Role = "CODEMASTER"
	RoleCodebreaker Role = "CODEBREAKER"
	RoleSpectator   Role = "SPECTATOR"
	RoleNone        Role = "NONE"
)

// CardType is the hidden identity of a card.
type CardType string

const (
	CardTeam      CardType = "TEAM"
	CardBystander CardType = "BYSTANDER"
	CardAssassin  CardType = "ASSASSIN"
)

// Outcome classifies a guessed card relative to the guessing team.
type Outcome string

const (
	OutcomeCorrectTeamCard Outcome = "CORRECT_TEAM_CARD"
	OutcomeOtherTeamCard   Outcome = "OTHER_TEAM_CARD"
	OutcomeBystanderCard   Outcome = "BYSTANDER_CARD"
	OutcomeAssassinCard    Outcome = "ASSASSIN_CARD"
)

// Game is the root entity. Teams and rounds hang off it.
type Game struct {
	ID        int64
	PublicID  string
	Name      string
	Status    GameStatus
	Format    Format
	CreatedBy string // owning user id
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Team owns players. Its score is derived from completed rounds.
type Team struct {
	ID       int64
	GameID   int64
	Name     string
	Position int
	Players  []Player
}

// Player is a user's seat in one game.
// TeamID is zero for spectators. Role is the role for the current round.
type Player struct {
	ID          int64
	PublicID    string
	UserID      string
	GameID      int64
	TeamID      int64
	DisplayName string
	Status      PlayerStatus
	Role        Role
	JoinedAt    time.Time
}

// Round is one board of 25 cards played out over a sequence of turns.
// WinnerTeamID is set only once the round is COMPLETED.
type Round struct {
	ID           int64
	GameID       int64
	Number       int
	Status       RoundStatus
	WinnerTeamID int64
	Cards        []Card
	Turns        []Turn
	CreatedAt    time.Time
	CompletedAt  time.Time
}

// Card is one word on a round's board. TeamID is set only for TEAM cards.
// Selected is monotonic: once true it never reverts.
type Card struct {
	ID       int64
	RoundID  int64
	Position int
	Word     string
	Type     CardType
	TeamID   int64
	Selected bool
}

// Turn is one team's go within a round.
type Turn struct {
	ID               int64
	RoundID          int64
	TeamID           int64
	Status           TurnStatus
	GuessesRemaining int
	Clue             *Clue
	Guesses          []Guess
	CreatedAt        time.Time
	CompletedAt      time.Time
}

// Clue is set at most once per turn by the team's codemaster.
type Clue struct {
	ID        int64
	TurnID    int64
	Word      string
	Count     int
	CreatedAt time.Time
}

// Guess is an immutable record of one card selection.
type Guess struct {
	ID        int64
	TurnID    int64
	PlayerID  int64
	CardID    int64
	Outcome   Outcome
	CreatedAt time.Time
}

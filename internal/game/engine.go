// internal/game/engine.go
//
// Guess resolution for a Codenames round.
// Responsibilities:
//   - Classify a revealed card relative to the guessing team (ResolveOutcome).
//   - Compute the turn's remaining guess allowance after an outcome.
//   - Decide the state-machine transition a guess triggers (ResolveTransition):
//       assassin            → end turn, end round, other team wins
//       own cards exhausted → end turn, end round, guessing team wins
//       other cards exhausted → end turn, end round, other team wins
//       miss / no guesses   → end turn, start the other team's turn
//       otherwise           → turn continues
//
// Everything here is pure: it reads an Aggregate and never mutates it.

package game

import (
	"errors"
	"fmt"
)

// ErrInvariant marks a state that validation should have made impossible.
var ErrInvariant = errors.New("invariant violated")

// ResolveOutcome maps a card and the guessing team to an outcome.
func ResolveOutcome(card Card, guessingTeamID int64) Outcome {
	switch card.Type {
	case CardAssassin:
		return OutcomeAssassinCard
	case CardBystander:
		return OutcomeBystanderCard
	}
	if card.TeamID == guessingTeamID {
		return OutcomeCorrectTeamCard
	}
	return OutcomeOtherTeamCard
}

// EndsTurn reports whether the outcome ends the turn regardless of allowance.
func (o Outcome) EndsTurn() bool { return o != OutcomeCorrectTeamCard }

// GuessesAfter is the turn's allowance once a guess with outcome o lands.
func GuessesAfter(o Outcome, remaining int) int {
	if o.EndsTurn() || remaining <= 1 {
		return 0
	}
	return remaining - 1
}

// TransitionKind is what happens to the round after a guess.
type TransitionKind string

const (
	// TransitionContinue keeps the turn open.
	TransitionContinue TransitionKind = "CONTINUE"
	// TransitionSwitchTurn ends the turn and starts the other team's turn.
	TransitionSwitchTurn TransitionKind = "SWITCH_TURN"
	// TransitionEndRound ends the turn and the round.
	TransitionEndRound TransitionKind = "END_ROUND"
)

// Transition is the resolved consequence of a guess.
type Transition struct {
	Kind TransitionKind `json:"kind"`
	// WinnerTeamID is set for TransitionEndRound.
	WinnerTeamID int64 `json:"winnerTeamId,omitempty"`
	// NextTeamID is set for TransitionSwitchTurn.
	NextTeamID int64 `json:"nextTeamId,omitempty"`
}

// ResolveTransition decides the cascade for a guess by guessingTeamID that
// produced outcome. a must already reflect the guess (card selected, allowance
// updated).
func ResolveTransition(a *Aggregate, guessingTeamID int64, outcome Outcome) (Transition, error) {
	other, ok := a.OtherTeam(guessingTeamID)
	if !ok {
		return Transition{}, fmt.Errorf("%w: no opposing team for team %d", ErrInvariant, guessingTeamID)
	}

	switch {
	case outcome == OutcomeAssassinCard:
		return Transition{Kind: TransitionEndRound, WinnerTeamID: other.ID}, nil
	case a.AllTeamCardsSelected(guessingTeamID):
		return Transition{Kind: TransitionEndRound, WinnerTeamID: guessingTeamID}, nil
	case a.AllTeamCardsSelected(other.ID):
		return Transition{Kind: TransitionEndRound, WinnerTeamID: other.ID}, nil
	}

	turn := a.ActiveTurn()
	if turn == nil {
		return Transition{}, fmt.Errorf("%w: no active turn after guess", ErrInvariant)
	}
	if outcome.EndsTurn() || turn.GuessesRemaining == 0 {
		return Transition{Kind: TransitionSwitchTurn, NextTeamID: other.ID}, nil
	}
	return Transition{Kind: TransitionContinue}, nil
}

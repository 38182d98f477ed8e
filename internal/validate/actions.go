package validate

import (
	"fmt"

	"github.com/robalobadob/codenames/internal/game"
)

// StartGame moves a game out of the lobby.
type StartGame struct{}

func (StartGame) Name() string { return "start-game" }

func (StartGame) stages() []stage {
	return []stage{
		{gameStatus(game.GameLobby, CodeGameNotInLobby), enoughTeams},
		{enoughPlayers},
	}
}

// CreateRound opens the next round.
type CreateRound struct{}

func (CreateRound) Name() string { return "create-round" }

func (CreateRound) stages() []stage {
	return []stage{
		{gameStatus(game.GameInProgress, CodeGameNotInProgress), enoughTeams},
		{previousRoundCompleted, roundCap, notDecided},
	}
}

func previousRoundCompleted(a *game.Aggregate) *Error {
	if r := a.CurrentRound; r != nil && r.Status != game.RoundCompleted {
		return fail("currentRound.status", CodeRoundNotCompleted, fmt.Sprintf("round %d is still %s", r.Number, r.Status))
	}
	return nil
}

func roundCap(a *game.Aggregate) *Error {
	if limit := a.Game.Format.MaxRounds(); a.RoundCount() >= limit {
		return fail("rounds", CodeMaxRoundsReached, fmt.Sprintf("format %s allows %d rounds", a.Game.Format, limit))
	}
	return nil
}

func notDecided(a *game.Aggregate) *Error {
	if w, ok := game.CheckGameWinner(a); ok {
		return fail("rounds", CodeGameAlreadyDecided, fmt.Sprintf("team %d has already won the game", w))
	}
	return nil
}

// AssignRoles hands out codemaster/codebreaker roles for the current round.
type AssignRoles struct{}

func (AssignRoles) Name() string { return "assign-roles" }

func (AssignRoles) stages() []stage {
	return []stage{
		{gameStatus(game.GameInProgress, CodeGameNotInProgress), roundPresent, enoughTeams},
		{roundStatus(game.RoundSetup, CodeRoundNotSetup), enoughPlayers},
	}
}

// DealCards lays out the board for the current round.
type DealCards struct{}

func (DealCards) Name() string { return "deal-cards" }

func (DealCards) stages() []stage {
	return []stage{
		{roundPresent, enoughTeams},
		{roundStatus(game.RoundSetup, CodeRoundNotSetup), noCards},
	}
}

func noCards(a *game.Aggregate) *Error {
	if n := len(a.CurrentRound.Cards); n > 0 {
		return fail("currentRound.cards", CodeCardsAlreadyDealt, fmt.Sprintf("round already has %d cards", n))
	}
	return nil
}

// StartRound begins play on a dealt round.
type StartRound struct{}

func (StartRound) Name() string { return "start-round" }

func (StartRound) stages() []stage {
	return []stage{
		{gameStatus(game.GameInProgress, CodeGameNotInProgress), roundPresent},
		{roundStatus(game.RoundSetup, CodeRoundNotSetup), hasCards, codemastersAssigned},
	}
}

func codemastersAssigned(a *game.Aggregate) *Error {
	for _, t := range a.Teams {
		found := false
		for _, p := range t.Players {
			if p.Role == game.RoleCodemaster {
				found = true
				break
			}
		}
		if !found {
			return fail("teams."+t.Name+".players", CodeRolesNotAssigned, fmt.Sprintf("team %s has no codemaster", t.Name))
		}
	}
	return nil
}

// GiveClue sets the active turn's clue.
type GiveClue struct {
	Word  string
	Count int
}

func (GiveClue) Name() string { return "give-clue" }

func (c GiveClue) stages() []stage {
	return []stage{
		{roundPresent},
		{roundStatus(game.RoundInProgress, CodeRoundNotInProgress), requesterRole(game.RoleCodemaster, CodeNotCodemaster), hasTurns},
		{activeTurn},
		{
			requesterOnActiveTeam,
			clueNotGiven,
			clueWordShape(c.Word),
			clueWordNotOnBoard(c.Word),
			clueWordFresh(c.Word),
			clueCount(c.Count),
		},
	}
}

func clueNotGiven(a *game.Aggregate) *Error {
	if a.ActiveTurn().Clue != nil {
		return fail("currentRound.activeTurn.clue", CodeClueAlreadyGiven, "clue already given")
	}
	return nil
}

// MakeGuess selects a card.
type MakeGuess struct {
	CardID int64
}

func (MakeGuess) Name() string { return "make-guess" }

func (g MakeGuess) stages() []stage {
	return []stage{
		{roundPresent},
		{roundStatus(game.RoundInProgress, CodeRoundNotInProgress), requesterRole(game.RoleCodebreaker, CodeNotCodebreaker), hasCards, hasTurns},
		{activeTurn},
		{requesterOnActiveTeam, clueGiven, guessesLeft, cardGuessable(g.CardID)},
	}
}

func guessesLeft(a *game.Aggregate) *Error {
	if t := a.ActiveTurn(); t.Clue != nil && t.GuessesRemaining <= 0 {
		return fail("currentRound.activeTurn.guessesRemaining", CodeNoGuessesRemaining, "no guesses remaining this turn")
	}
	return nil
}

func cardGuessable(id int64) rule {
	return func(a *game.Aggregate) *Error {
		c, ok := a.Card(id)
		if !ok {
			return fail("card", CodeCardNotFound, fmt.Sprintf("card %d is not on this board", id))
		}
		if c.Selected {
			return fail("card.selected", CodeCardAlreadySelected, fmt.Sprintf("card %q is already revealed", c.Word))
		}
		return nil
	}
}

// EndTurn closes the active turn.
type EndTurn struct{}

func (EndTurn) Name() string { return "end-turn" }

func (EndTurn) stages() []stage {
	return []stage{
		{roundPresent},
		{roundStatus(game.RoundInProgress, CodeRoundNotInProgress), hasTurns, requesterRole(game.RoleCodebreaker, CodeNotCodebreaker)},
		{activeTurn},
		{requesterOnActiveTeam, clueGiven},
	}
}

// StartTurn opens a fresh turn for TeamID.
type StartTurn struct {
	TeamID int64
}

func (StartTurn) Name() string { return "start-turn" }

func (s StartTurn) stages() []stage {
	return []stage{
		{roundPresent, enoughTeams},
		{roundStatus(game.RoundInProgress, CodeRoundNotInProgress), teamExists("turn.teamId", s.TeamID), noActiveTurn},
		{alternates(s.TeamID)},
	}
}

func alternates(teamID int64) rule {
	return func(a *game.Aggregate) *Error {
		turns := a.CurrentRound.Turns
		if len(turns) > 0 && turns[len(turns)-1].TeamID == teamID {
			return fail("turn.teamId", CodeTeamsMustAlternate, "the same team cannot take two turns in a row")
		}
		return nil
	}
}

// EndRound completes the current round with a winner.
type EndRound struct {
	WinnerTeamID int64
}

func (EndRound) Name() string { return "end-round" }

func (e EndRound) stages() []stage {
	return []stage{
		{roundPresent, enoughTeams},
		{roundStatus(game.RoundInProgress, CodeRoundNotInProgress), hasTurns, teamExists("round.winnerTeamId", e.WinnerTeamID)},
		{noActiveTurn},
	}
}

// EndGame completes the game.
type EndGame struct {
	WinnerTeamID int64
}

func (EndGame) Name() string { return "end-game" }

func (e EndGame) stages() []stage {
	return []stage{
		{gameStatus(game.GameInProgress, CodeGameNotInProgress), teamExists("game.winnerTeamId", e.WinnerTeamID)},
		{winnerReachedThreshold(e.WinnerTeamID)},
	}
}

func winnerReachedThreshold(teamID int64) rule {
	return func(a *game.Aggregate) *Error {
		if w, ok := game.CheckGameWinner(a); !ok || w != teamID {
			return fail("game.winnerTeamId", CodeWinnerInvalid,
				fmt.Sprintf("team %d has not reached %d wins", teamID, a.Game.Format.WinsNeeded()))
		}
		return nil
	}
}

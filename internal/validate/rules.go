package validate

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/robalobadob/codenames/internal/game"
)

// MinTeams and MinPlayersPerTeam gate starting a game and a round.
const (
	MinTeams          = 2
	MinPlayersPerTeam = 2
)

func gameStatus(want game.GameStatus, code string) rule {
	return func(a *game.Aggregate) *Error {
		if a.Game.Status != want {
			return fail("game.status", code, fmt.Sprintf("game is %s, expected %s", a.Game.Status, want))
		}
		return nil
	}
}

func enoughTeams(a *game.Aggregate) *Error {
	if len(a.Teams) < MinTeams {
		return fail("teams", CodeNotEnoughTeams, fmt.Sprintf("need at least %d teams, have %d", MinTeams, len(a.Teams)))
	}
	return nil
}

func enoughPlayers(a *game.Aggregate) *Error {
	for _, t := range a.Teams {
		if len(t.Players) < MinPlayersPerTeam {
			return fail("teams."+t.Name+".players", CodeNotEnoughPlayers,
				fmt.Sprintf("team %s needs at least %d players, has %d", t.Name, MinPlayersPerTeam, len(t.Players)))
		}
	}
	return nil
}

func roundPresent(a *game.Aggregate) *Error {
	if a.CurrentRound == nil {
		return fail("currentRound", CodeRoundMissing, "no round has been created")
	}
	return nil
}

func roundStatus(want game.RoundStatus, code string) rule {
	return func(a *game.Aggregate) *Error {
		if a.CurrentRound.Status != want {
			return fail("currentRound.status", code,
				fmt.Sprintf("round %d is %s, expected %s", a.CurrentRound.Number, a.CurrentRound.Status, want))
		}
		return nil
	}
}

func hasCards(a *game.Aggregate) *Error {
	if len(a.CurrentRound.Cards) == 0 {
		return fail("currentRound.cards", CodeCardsNotDealt, "cards have not been dealt")
	}
	return nil
}

func hasTurns(a *game.Aggregate) *Error {
	if len(a.CurrentRound.Turns) == 0 {
		return fail("currentRound.turns", CodeTurnsMissing, "round has no turns")
	}
	return nil
}

func activeTurn(a *game.Aggregate) *Error {
	if a.ActiveTurn() == nil {
		return fail("currentRound.activeTurn.status", CodeTurnNotActive, "no active turn")
	}
	return nil
}

func noActiveTurn(a *game.Aggregate) *Error {
	if t := a.ActiveTurn(); t != nil {
		return fail("currentRound.activeTurn", CodeActiveTurnExists, fmt.Sprintf("turn %d is still active", t.ID))
	}
	return nil
}

func requesterRole(want game.Role, code string) rule {
	return func(a *game.Aggregate) *Error {
		if a.Requester.Role != want {
			return fail("requester.role", code, fmt.Sprintf("requester is %s, expected %s", a.Requester.Role, want))
		}
		return nil
	}
}

func requesterOnActiveTeam(a *game.Aggregate) *Error {
	if a.ActiveTurn().TeamID != a.Requester.TeamID() {
		return fail("currentRound.activeTurn.teamId", CodeNotYourTurn, "it is not your team's turn")
	}
	return nil
}

func clueGiven(a *game.Aggregate) *Error {
	if a.ActiveTurn().Clue == nil {
		return fail("currentRound.activeTurn.clue", CodeClueMissing, "no clue has been given this turn")
	}
	return nil
}

func teamExists(path string, id int64) rule {
	return func(a *game.Aggregate) *Error {
		if _, ok := a.Team(id); !ok {
			return fail(path, CodeTeamNotFound, fmt.Sprintf("team %d is not in this game", id))
		}
		return nil
	}
}

// normalizeWord lowercases and trims a clue or card word for comparison.
func normalizeWord(w string) string {
	return strings.ToLower(strings.TrimSpace(w))
}

func clueWordShape(word string) rule {
	return func(a *game.Aggregate) *Error {
		w := normalizeWord(word)
		if w == "" {
			return fail("clue.word", CodeClueWordInvalid, "clue word is required")
		}
		for _, r := range w {
			if !unicode.IsLetter(r) {
				return fail("clue.word", CodeClueWordInvalid, "clue must be a single word of letters")
			}
		}
		return nil
	}
}

func clueWordNotOnBoard(word string) rule {
	return func(a *game.Aggregate) *Error {
		w := normalizeWord(word)
		if w == "" {
			return nil
		}
		for _, c := range a.CurrentRound.Cards {
			cw := normalizeWord(c.Word)
			if w == cw || strings.Contains(w, cw) || strings.Contains(cw, w) {
				return fail("clue.word", CodeClueWordOnBoard, fmt.Sprintf("clue %q overlaps board word %q", w, cw))
			}
		}
		return nil
	}
}

func clueWordFresh(word string) rule {
	return func(a *game.Aggregate) *Error {
		w := normalizeWord(word)
		for _, prev := range a.ClueWords() {
			if normalizeWord(prev) == w {
				return fail("clue.word", CodeClueWordRepeated, fmt.Sprintf("clue %q was already used this round", w))
			}
		}
		return nil
	}
}

func clueCount(count int) rule {
	return func(a *game.Aggregate) *Error {
		if count < 0 {
			return fail("clue.count", CodeClueCountInvalid, "clue count cannot be negative")
		}
		// count+1 guesses must fit in the face-down cards.
		if left := a.UnselectedCards(); count >= left {
			return fail("clue.count", CodeClueCountTooLarge,
				fmt.Sprintf("clue count %d is too large: only %d cards remain", count, left))
		}
		return nil
	}
}

package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/codenames/internal/engine"
	"github.com/robalobadob/codenames/internal/game"
	"github.com/robalobadob/codenames/internal/validate"
)

// GuessResult reports a guess and everything it set off.
type GuessResult struct {
	Guess      game.Guess      `json:"-"`
	CardID     int64           `json:"cardId"`
	Outcome    game.Outcome    `json:"outcome"`
	Transition game.Transition `json:"transition"`
	// RoundWinnerTeamID is set when the guess ended the round.
	RoundWinnerTeamID int64 `json:"roundWinnerTeamId,omitempty"`
	// GameWinnerTeamID is set when the round win also decided the game.
	GameWinnerTeamID int64     `json:"gameWinnerTeamId,omitempty"`
	View             game.View `json:"state"`
}

// GiveClue sets the active turn's clue and its count+1 guess allowance.
func (s *Service) GiveClue(ctx context.Context, gameID, userID, word string, count int) (game.View, error) {
	const op = "give-clue"
	var out game.View
	var clue game.Clue
	err := s.exec.Execute(ctx, engine.Scope{GamePublicID: gameID, UserID: userID}, func(ctx context.Context, uow *engine.UnitOfWork) error {
		a, err := uow.State(ctx)
		if err != nil {
			return err
		}
		v, err := validate.Check(a, validate.GiveClue{Word: word, Count: count})
		if err != nil {
			return err
		}
		if clue, err = uow.GiveClue(ctx, v); err != nil {
			return err
		}
		out, err = view(ctx, uow)
		return err
	})
	if err != nil {
		return game.View{}, failure(op, err)
	}
	log.Info().Str("game", gameID).Str("user", userID).Int64("turn", clue.TurnID).
		Str("clue", clue.Word).Int("count", clue.Count).Msg("clue given")
	return out, nil
}

// MakeGuess reveals a card and runs the cascade it triggers, all in one
// transaction:
//
//	END_ROUND:   end turn → end round → end game if the tally is reached
//	SWITCH_TURN: end turn → start the other team's turn
//	CONTINUE:    nothing further
func (s *Service) MakeGuess(ctx context.Context, gameID, userID string, cardID int64) (GuessResult, error) {
	const op = "make-guess"
	var res GuessResult
	err := s.exec.Execute(ctx, engine.Scope{GamePublicID: gameID, UserID: userID}, func(ctx context.Context, uow *engine.UnitOfWork) error {
		res = GuessResult{}
		a, err := uow.State(ctx)
		if err != nil {
			return err
		}
		v, err := validate.Check(a, validate.MakeGuess{CardID: cardID})
		if err != nil {
			return err
		}
		guessing := a.ActiveTurn().TeamID
		if res.Guess, err = uow.MakeGuess(ctx, v); err != nil {
			return err
		}
		res.CardID, res.Outcome = res.Guess.CardID, res.Guess.Outcome

		if a, err = uow.State(ctx); err != nil {
			return err
		}
		if res.Transition, err = game.ResolveTransition(a, guessing, res.Outcome); err != nil {
			return err
		}

		switch res.Transition.Kind {
		case game.TransitionEndRound:
			if err := endTurn(ctx, uow, a); err != nil {
				return err
			}
			if err := endRound(ctx, uow, res.Transition.WinnerTeamID); err != nil {
				return err
			}
			res.RoundWinnerTeamID = res.Transition.WinnerTeamID
			if res.GameWinnerTeamID, err = endGameIfDecided(ctx, uow); err != nil {
				return err
			}
		case game.TransitionSwitchTurn:
			if err := endTurn(ctx, uow, a); err != nil {
				return err
			}
			if err := startTurn(ctx, uow, res.Transition.NextTeamID); err != nil {
				return err
			}
		case game.TransitionContinue:
		default:
			return fmt.Errorf("%w: unknown transition %q", game.ErrInvariant, res.Transition.Kind)
		}

		res.View, err = view(ctx, uow)
		return err
	})
	if err != nil {
		return GuessResult{}, failure(op, err)
	}

	ev := log.Info().Str("game", gameID).Str("user", userID).
		Int64("turn", res.Guess.TurnID).Int64("card", cardID).
		Str("outcome", string(res.Outcome)).Str("transition", string(res.Transition.Kind))
	if res.RoundWinnerTeamID != 0 {
		ev = ev.Int64("winner", res.RoundWinnerTeamID)
	}
	if res.GameWinnerTeamID != 0 {
		ev = ev.Int64("gameWinner", res.GameWinnerTeamID)
	}
	ev.Msg("guess made")
	return res, nil
}

// EndTurn is a codebreaker passing; the other team's turn starts at once.
func (s *Service) EndTurn(ctx context.Context, gameID, userID string) (game.View, error) {
	const op = "end-turn"
	var out game.View
	var next int64
	err := s.exec.Execute(ctx, engine.Scope{GamePublicID: gameID, UserID: userID}, func(ctx context.Context, uow *engine.UnitOfWork) error {
		a, err := uow.State(ctx)
		if err != nil {
			return err
		}
		v, err := validate.Check(a, validate.EndTurn{})
		if err != nil {
			return err
		}
		ended, err := uow.EndTurn(ctx, v)
		if err != nil {
			return err
		}
		other, ok := a.OtherTeam(ended.TeamID)
		if !ok {
			return fmt.Errorf("%w: no opposing team for team %d", game.ErrInvariant, ended.TeamID)
		}
		next = other.ID
		if err := startTurn(ctx, uow, next); err != nil {
			return err
		}
		out, err = view(ctx, uow)
		return err
	})
	if err != nil {
		return game.View{}, failure(op, err)
	}
	log.Info().Str("game", gameID).Str("user", userID).Int64("team", next).Msg("turn passed")
	return out, nil
}

// endTurn closes the active turn in a, which must be freshly loaded.
func endTurn(ctx context.Context, uow *engine.UnitOfWork, a *game.Aggregate) error {
	v, err := cascade(a, validate.EndTurn{})
	if err != nil {
		return err
	}
	_, err = uow.EndTurn(ctx, v)
	return err
}

func startTurn(ctx context.Context, uow *engine.UnitOfWork, teamID int64) error {
	a, err := uow.State(ctx)
	if err != nil {
		return err
	}
	v, err := cascade(a, validate.StartTurn{TeamID: teamID})
	if err != nil {
		return err
	}
	_, err = uow.StartTurn(ctx, v)
	return err
}

func endRound(ctx context.Context, uow *engine.UnitOfWork, winner int64) error {
	a, err := uow.State(ctx)
	if err != nil {
		return err
	}
	v, err := cascade(a, validate.EndRound{WinnerTeamID: winner})
	if err != nil {
		return err
	}
	return uow.EndRound(ctx, v)
}

// endGameIfDecided completes the game when a team reached the format's win
// tally and returns that team, or zero.
func endGameIfDecided(ctx context.Context, uow *engine.UnitOfWork) (int64, error) {
	a, err := uow.State(ctx)
	if err != nil {
		return 0, err
	}
	winner, ok := game.CheckGameWinner(a)
	if !ok {
		return 0, nil
	}
	v, err := cascade(a, validate.EndGame{WinnerTeamID: winner})
	if err != nil {
		return 0, err
	}
	return winner, uow.EndGame(ctx, v)
}

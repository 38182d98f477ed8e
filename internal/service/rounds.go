package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/codenames/internal/engine"
	"github.com/robalobadob/codenames/internal/game"
	"github.com/robalobadob/codenames/internal/validate"
)

// CreateRound opens the next round and assigns its roles in one transaction.
func (s *Service) CreateRound(ctx context.Context, gameID, userID string) (game.View, error) {
	const op = "create-round"
	var out game.View
	var number int
	err := s.exec.Execute(ctx, engine.Scope{GamePublicID: gameID, UserID: userID}, func(ctx context.Context, uow *engine.UnitOfWork) error {
		a, err := uow.State(ctx)
		if err != nil {
			return err
		}
		cr, err := validate.Check(a, validate.CreateRound{})
		if err != nil {
			return err
		}
		round, err := uow.CreateRound(ctx, cr)
		if err != nil {
			return err
		}
		number = round.Number

		// Role assignment rechecks team sizes against the reloaded state.
		if a, err = uow.State(ctx); err != nil {
			return err
		}
		ar, err := validate.Check(a, validate.AssignRoles{})
		if err != nil {
			return err
		}
		if _, err := uow.AssignRoles(ctx, ar); err != nil {
			return err
		}
		out, err = view(ctx, uow)
		return err
	})
	if err != nil {
		return game.View{}, failure(op, err)
	}
	log.Info().Str("game", gameID).Str("user", userID).Int("round", number).Msg("round created")
	return out, nil
}

// DealCards fetches a board's worth of words, then lays them out on the
// current round.
func (s *Service) DealCards(ctx context.Context, gameID, userID string) (game.View, error) {
	const op = "deal-cards"

	// Fail fast before touching the word source.
	a, err := s.store.LoadAggregate(ctx, gameID, userID)
	if err != nil {
		return game.View{}, failure(op, err)
	}
	if _, err := validate.Check(a, validate.DealCards{}); err != nil {
		return game.View{}, failure(op, err)
	}
	words, err := s.words.RandomWords(ctx, game.BoardSize)
	if err != nil {
		return game.View{}, failure(op, err)
	}

	var out game.View
	var starting int64
	err = s.exec.Execute(ctx, engine.Scope{GamePublicID: gameID, UserID: userID}, func(ctx context.Context, uow *engine.UnitOfWork) error {
		a, err := uow.State(ctx)
		if err != nil {
			return err
		}
		v, err := validate.Check(a, validate.DealCards{})
		if err != nil {
			return err
		}
		layout, err := uow.DealCards(ctx, v, words, s.rand)
		if err != nil {
			return err
		}
		starting = layout.StartingTeamID
		out, err = view(ctx, uow)
		return err
	})
	if err != nil {
		return game.View{}, failure(op, err)
	}
	log.Info().Str("game", gameID).Str("user", userID).Int64("startingTeam", starting).Msg("cards dealt")
	return out, nil
}

// StartRound begins play; the team holding nine cards takes the first turn.
func (s *Service) StartRound(ctx context.Context, gameID, userID string) (game.View, error) {
	const op = "start-round"
	var out game.View
	var turn game.Turn
	err := s.exec.Execute(ctx, engine.Scope{GamePublicID: gameID, UserID: userID}, func(ctx context.Context, uow *engine.UnitOfWork) error {
		a, err := uow.State(ctx)
		if err != nil {
			return err
		}
		v, err := validate.Check(a, validate.StartRound{})
		if err != nil {
			return err
		}
		if turn, err = uow.StartRound(ctx, v); err != nil {
			return err
		}
		out, err = view(ctx, uow)
		return err
	})
	if err != nil {
		return game.View{}, failure(op, err)
	}
	log.Info().Str("game", gameID).Str("user", userID).Int64("turn", turn.ID).Int64("team", turn.TeamID).Msg("round started")
	return out, nil
}

package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/codenames/internal/engine"
	"github.com/robalobadob/codenames/internal/game"
	"github.com/robalobadob/codenames/internal/validate"
)

// TeamNames are the teams every lobby starts with.
var TeamNames = []string{"Red", "Blue"}

const maxDisplayName = 32

// JoinRequest describes how a user takes a seat.
type JoinRequest struct {
	DisplayName string
	// TeamID picks a team; zero picks the smaller one unless Spectate is set.
	TeamID   int64
	Spectate bool
}

func cleanDisplayName(op, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxDisplayName {
		return "", invalid(op, "player.displayName", validate.CodeDisplayNameInvalid, "display name must be 1-32 characters")
	}
	return name, nil
}

// CreateGame opens a lobby with two teams and seats the creator on the first.
func (s *Service) CreateGame(ctx context.Context, userID, displayName, name string, format game.Format) (game.View, error) {
	const op = "create-game"
	if format == "" {
		format = game.FormatQuick
	}
	if !format.Valid() {
		return game.View{}, invalid(op, "game.format", validate.CodeFormatInvalid, "unknown format "+string(format))
	}
	displayName, err := cleanDisplayName(op, displayName)
	if err != nil {
		return game.View{}, err
	}

	scope := engine.Scope{GamePublicID: uuid.NewString(), UserID: userID}
	var out game.View
	err = s.exec.Execute(ctx, scope, func(ctx context.Context, uow *engine.UnitOfWork) error {
		_, teams, err := uow.CreateGame(ctx, strings.TrimSpace(name), format, TeamNames...)
		if err != nil {
			return err
		}
		a, err := uow.Lobby(ctx)
		if err != nil {
			return err
		}
		v, err := validate.Check(a, validate.JoinGame{UserID: userID, TeamID: teams[0].ID})
		if err != nil {
			return err
		}
		if _, err := uow.JoinGame(ctx, v, displayName); err != nil {
			return err
		}
		out, err = view(ctx, uow)
		return err
	})
	if err != nil {
		return game.View{}, failure(op, err)
	}
	log.Info().Str("game", scope.GamePublicID).Str("user", userID).Str("format", string(format)).Msg("game created")
	return out, nil
}

// JoinGame seats userID in a lobby.
func (s *Service) JoinGame(ctx context.Context, gameID, userID string, req JoinRequest) (game.View, error) {
	const op = "join-game"
	displayName, err := cleanDisplayName(op, req.DisplayName)
	if err != nil {
		return game.View{}, err
	}

	var out game.View
	err = s.exec.Execute(ctx, engine.Scope{GamePublicID: gameID, UserID: userID}, func(ctx context.Context, uow *engine.UnitOfWork) error {
		a, err := uow.Lobby(ctx)
		if err != nil {
			return err
		}
		teamID := req.TeamID
		if teamID == 0 && !req.Spectate {
			teamID = smallestTeam(a)
		}
		v, err := validate.Check(a, validate.JoinGame{UserID: userID, TeamID: teamID})
		if err != nil {
			return err
		}
		if _, err := uow.JoinGame(ctx, v, displayName); err != nil {
			return err
		}
		out, err = view(ctx, uow)
		return err
	})
	if err != nil {
		return game.View{}, failure(op, err)
	}
	log.Info().Str("game", gameID).Str("user", userID).Msg("player joined")
	return out, nil
}

// smallestTeam is the team with the fewest players, earliest position first.
func smallestTeam(a *game.Aggregate) int64 {
	var id int64
	best := -1
	for _, t := range a.Teams {
		if best < 0 || len(t.Players) < best {
			id, best = t.ID, len(t.Players)
		}
	}
	return id
}

// LeaveGame gives up userID's seat while the game is still a lobby.
func (s *Service) LeaveGame(ctx context.Context, gameID, userID string) error {
	const op = "leave-game"
	err := s.exec.Execute(ctx, engine.Scope{GamePublicID: gameID, UserID: userID}, func(ctx context.Context, uow *engine.UnitOfWork) error {
		a, err := uow.State(ctx)
		if err != nil {
			return err
		}
		v, err := validate.Check(a, validate.LeaveGame{})
		if err != nil {
			return err
		}
		return uow.LeaveGame(ctx, v)
	})
	if err != nil {
		return failure(op, err)
	}
	log.Info().Str("game", gameID).Str("user", userID).Msg("player left")
	return nil
}

// StartGame moves a full lobby to IN_PROGRESS.
func (s *Service) StartGame(ctx context.Context, gameID, userID string) (game.View, error) {
	const op = "start-game"
	var out game.View
	err := s.exec.Execute(ctx, engine.Scope{GamePublicID: gameID, UserID: userID}, func(ctx context.Context, uow *engine.UnitOfWork) error {
		a, err := uow.State(ctx)
		if err != nil {
			return err
		}
		v, err := validate.Check(a, validate.StartGame{})
		if err != nil {
			return err
		}
		if err := uow.StartGame(ctx, v); err != nil {
			return err
		}
		out, err = view(ctx, uow)
		return err
	})
	if err != nil {
		return game.View{}, failure(op, err)
	}
	log.Info().Str("game", gameID).Str("user", userID).Msg("game started")
	return out, nil
}

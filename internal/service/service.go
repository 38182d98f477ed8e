// internal/service/service.go
//
// Action services for the Codenames engine.
// Responsibilities:
//   - Orchestrate validator → executor → resolver for one use case each.
//   - Keep slow collaborators (the word source) outside the transaction.
//   - Translate every error into a *Failure with a kind the transport can map.
//
// Lobby actions live in lobby.go, round setup in rounds.go, turn play and the
// guess cascade in turns.go.

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/codenames/internal/engine"
	"github.com/robalobadob/codenames/internal/game"
	"github.com/robalobadob/codenames/internal/storage"
	"github.com/robalobadob/codenames/internal/validate"
	"github.com/robalobadob/codenames/internal/words"
)

// Service runs gameplay actions against one store.
type Service struct {
	exec  *engine.Executor
	store storage.Store
	words words.Source
	rand  game.Rand
}

// New wires a Service. A nil r uses game.DefaultRand.
func New(store storage.Store, src words.Source, r game.Rand) *Service {
	if r == nil {
		r = game.DefaultRand
	}
	return &Service{exec: engine.New(store), store: store, words: src, rand: r}
}

// Kind classifies a Failure for the caller.
type Kind string

const (
	KindNotFound     Kind = "NOT_FOUND"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindInvalidState Kind = "INVALID_STATE"
	KindConflict     Kind = "CONFLICT"
	KindDependency   Kind = "DEPENDENCY"
	KindInternal     Kind = "INTERNAL"
)

// Failure is the only error type services return.
type Failure struct {
	Kind    Kind
	Message string
	// Details lists the violated rules for INVALID_STATE and UNAUTHORIZED.
	Details validate.Errors
	Err     error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %v", f.Kind, f.Message, f.Err)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

func (f *Failure) Unwrap() error { return f.Err }

// Retryable reports whether repeating the same request may succeed.
func (f *Failure) Retryable() bool {
	return f.Kind == KindConflict || f.Kind == KindDependency
}

// AsFailure extracts a *Failure from err.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	ok := errors.As(err, &f)
	return f, ok
}

// relationCodes are rule failures about who is asking rather than what
// state the game is in.
var relationCodes = []string{
	validate.CodeNotCodemaster,
	validate.CodeNotCodebreaker,
	validate.CodeNotYourTurn,
}

// failure maps an error from any layer onto a *Failure for action op.
func failure(op string, err error) error {
	if err == nil {
		return nil
	}
	if f, ok := AsFailure(err); ok {
		return f
	}

	var verrs validate.Errors
	switch {
	case errors.As(err, &verrs):
		kind := KindInvalidState
		for _, code := range relationCodes {
			if verrs.Has(code) {
				kind = KindUnauthorized
				break
			}
		}
		return &Failure{Kind: kind, Message: op + " rejected", Details: verrs, Err: err}
	case errors.Is(err, game.ErrInvariant), errors.Is(err, storage.ErrIntegrity):
		log.Error().Err(err).Str("op", op).Msg("invariant violated")
		return &Failure{Kind: KindInternal, Message: op + " hit an inconsistent state", Err: err}
	case errors.Is(err, storage.ErrNotFound):
		return &Failure{Kind: KindNotFound, Message: "game not found", Err: err}
	case errors.Is(err, storage.ErrUnauthorized):
		return &Failure{Kind: KindUnauthorized, Message: "not a player in this game", Err: err}
	case errors.Is(err, storage.ErrConflict), errors.Is(err, storage.ErrAlreadyExists):
		return &Failure{Kind: KindConflict, Message: op + " lost to a concurrent change", Err: err}
	case errors.Is(err, words.ErrNotEnoughWords),
		errors.Is(err, game.ErrWordCount),
		errors.Is(err, game.ErrDuplicateWord),
		errors.Is(err, context.DeadlineExceeded):
		return &Failure{Kind: KindDependency, Message: op + " dependency failed", Err: err}
	}
	log.Error().Err(err).Str("op", op).Msg("unexpected failure")
	return &Failure{Kind: KindInternal, Message: op + " failed", Err: err}
}

// invalid builds an INVALID_STATE failure for input checks done before any
// state is loaded.
func invalid(op, path, code, msg string) error {
	errs := validate.Errors{{Path: path, Message: msg, Code: code}}
	return &Failure{Kind: KindInvalidState, Message: op + " rejected", Details: errs, Err: errs}
}

// cascade checks a follow-up action that the preceding write made
// structurally valid. A rejection there is a bug, not a user error.
func cascade[A validate.Action](a *game.Aggregate, action A) (validate.Valid[A], error) {
	v, err := validate.Check(a, action)
	if err != nil {
		return v, fmt.Errorf("%w: cascaded %s rejected: %v", game.ErrInvariant, action.Name(), err)
	}
	return v, nil
}

// GameState returns the requester's role-scoped view of a game.
func (s *Service) GameState(ctx context.Context, gameID, userID string) (game.View, error) {
	a, err := s.store.LoadAggregate(ctx, gameID, userID)
	if err != nil {
		return game.View{}, failure("game-state", err)
	}
	return game.Project(a), nil
}

// view reloads inside the transaction and projects for the requester.
func view(ctx context.Context, uow *engine.UnitOfWork) (game.View, error) {
	a, err := uow.State(ctx)
	if err != nil {
		return game.View{}, err
	}
	return game.Project(a), nil
}

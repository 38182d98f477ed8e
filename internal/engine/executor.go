// Package engine runs gameplay mutations atomically.
//
// Executor.Execute opens one storage transaction and hands the callback a
// UnitOfWork bound to it. The UnitOfWork exposes only domain operations, each
// of which demands a validate.Valid proof for its action, and it stops
// working once the transaction has finished.
package engine

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/codenames/internal/storage"
)

// ErrClosed is returned by a UnitOfWork used after its transaction ended.
var ErrClosed = errors.New("engine: unit of work used outside its transaction")

// Scope names the game and the user a transaction acts for.
type Scope struct {
	GamePublicID string
	UserID       string
}

// Executor wraps the storage transaction boundary.
type Executor struct {
	runner storage.TxRunner
}

// New returns an Executor over runner.
func New(runner storage.TxRunner) *Executor {
	return &Executor{runner: runner}
}

// Execute runs fn inside one transaction. Every operation fn performs through
// the UnitOfWork commits together when fn returns nil; any error rolls all of
// them back and is returned unchanged.
func (e *Executor) Execute(ctx context.Context, scope Scope, fn func(ctx context.Context, uow *UnitOfWork) error) error {
	var ops []string
	err := e.runner.InTx(ctx, func(ctx context.Context, repo storage.Repository) error {
		uow := &UnitOfWork{repo: repo, scope: scope}
		defer func() {
			ops = uow.ops
			uow.close()
		}()
		return fn(ctx, uow)
	})
	if err != nil {
		log.Warn().Err(err).
			Str("game", scope.GamePublicID).
			Str("user", scope.UserID).
			Str("ops", strings.Join(ops, ",")).
			Msg("transaction rolled back")
		return err
	}
	log.Debug().
		Str("game", scope.GamePublicID).
		Str("user", scope.UserID).
		Str("ops", strings.Join(ops, ",")).
		Msg("transaction committed")
	return nil
}

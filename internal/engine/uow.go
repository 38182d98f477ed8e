package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/robalobadob/codenames/internal/game"
	"github.com/robalobadob/codenames/internal/storage"
	"github.com/robalobadob/codenames/internal/validate"
)

// UnitOfWork is the set of domain operations bound to one transaction.
// It is built fresh by Executor.Execute and must not escape the callback.
type UnitOfWork struct {
	repo   storage.Repository
	scope  Scope
	ops    []string
	closed bool
}

func (u *UnitOfWork) close() {
	u.closed = true
	u.repo = nil
}

// guard checks that the unit of work is live and that v came out of
// validate.Check for this game.
func guard[A validate.Action](u *UnitOfWork, v validate.Valid[A]) (*game.Aggregate, error) {
	name := v.Action().Name()
	if u.closed {
		return nil, fmt.Errorf("%s: %w", name, ErrClosed)
	}
	if !v.Ok() {
		return nil, fmt.Errorf("%w: %s called with unvalidated state", game.ErrInvariant, name)
	}
	if got := v.State().Game.PublicID; got != u.scope.GamePublicID {
		return nil, fmt.Errorf("%w: %s validated game %s inside a transaction for %s", game.ErrInvariant, name, got, u.scope.GamePublicID)
	}
	u.ops = append(u.ops, name)
	return v.State(), nil
}

func (u *UnitOfWork) live(op string) error {
	if u.closed {
		return fmt.Errorf("%s: %w", op, ErrClosed)
	}
	return nil
}

// State reloads the aggregate for the scoped game and user. It sees every
// write made earlier in this transaction.
func (u *UnitOfWork) State(ctx context.Context) (*game.Aggregate, error) {
	if err := u.live("state"); err != nil {
		return nil, err
	}
	return u.repo.LoadAggregate(ctx, u.scope.GamePublicID, u.scope.UserID)
}

// Lobby reloads the scoped game without resolving the user's seat.
func (u *UnitOfWork) Lobby(ctx context.Context) (*game.Aggregate, error) {
	if err := u.live("lobby"); err != nil {
		return nil, err
	}
	return u.repo.LoadLobby(ctx, u.scope.GamePublicID)
}

// CreateGame opens a lobby under the scoped public id with one team per name.
func (u *UnitOfWork) CreateGame(ctx context.Context, name string, format game.Format, teamNames ...string) (game.Game, []game.Team, error) {
	if err := u.live("create-game"); err != nil {
		return game.Game{}, nil, err
	}
	u.ops = append(u.ops, "create-game")
	g, err := u.repo.CreateGame(ctx, storage.NewGame{
		PublicID:  u.scope.GamePublicID,
		Name:      name,
		Format:    format,
		CreatedBy: u.scope.UserID,
	})
	if err != nil {
		return game.Game{}, nil, err
	}
	teams := make([]game.Team, 0, len(teamNames))
	for i, n := range teamNames {
		t, err := u.repo.CreateTeam(ctx, g.ID, n, i)
		if err != nil {
			return game.Game{}, nil, err
		}
		teams = append(teams, t)
	}
	return g, teams, nil
}

// JoinGame seats the scoped user on the checked team.
func (u *UnitOfWork) JoinGame(ctx context.Context, v validate.Valid[validate.JoinGame], displayName string) (game.Player, error) {
	a, err := guard(u, v)
	if err != nil {
		return game.Player{}, err
	}
	if v.Action().UserID != u.scope.UserID {
		return game.Player{}, fmt.Errorf("%w: join checked for user %s, scope is %s", game.ErrInvariant, v.Action().UserID, u.scope.UserID)
	}
	return u.repo.AddPlayer(ctx, storage.NewPlayer{
		PublicID:    uuid.NewString(),
		UserID:      u.scope.UserID,
		GameID:      a.Game.ID,
		TeamID:      v.Action().TeamID,
		DisplayName: displayName,
	})
}

// LeaveGame removes the requester's seat.
func (u *UnitOfWork) LeaveGame(ctx context.Context, v validate.Valid[validate.LeaveGame]) error {
	a, err := guard(u, v)
	if err != nil {
		return err
	}
	return u.repo.RemovePlayer(ctx, a.Game.ID, a.Requester.UserID)
}

// StartGame moves the game to IN_PROGRESS.
func (u *UnitOfWork) StartGame(ctx context.Context, v validate.Valid[validate.StartGame]) error {
	a, err := guard(u, v)
	if err != nil {
		return err
	}
	return u.repo.UpdateGameStatus(ctx, a.Game.ID, game.GameInProgress)
}

// CreateRound opens round RoundCount()+1 in SETUP.
func (u *UnitOfWork) CreateRound(ctx context.Context, v validate.Valid[validate.CreateRound]) (game.Round, error) {
	a, err := guard(u, v)
	if err != nil {
		return game.Round{}, err
	}
	return u.repo.CreateRound(ctx, a.Game.ID, a.RoundCount()+1)
}

// AssignRoles persists each player's role for the current round.
func (u *UnitOfWork) AssignRoles(ctx context.Context, v validate.Valid[validate.AssignRoles]) (map[int64]game.Role, error) {
	a, err := guard(u, v)
	if err != nil {
		return nil, err
	}
	roles := game.AssignRoles(a.Teams, a.Spectators, a.CurrentRound.Number)
	for _, p := range a.Players() {
		role, ok := roles[p.ID]
		if !ok {
			return nil, fmt.Errorf("%w: no role derived for player %d", game.ErrInvariant, p.ID)
		}
		if err := u.repo.AssignRole(ctx, a.CurrentRound.ID, p.ID, role); err != nil {
			return nil, err
		}
	}
	return roles, nil
}

// DealCards lays out words on the current round's board between the first
// two teams.
func (u *UnitOfWork) DealCards(ctx context.Context, v validate.Valid[validate.DealCards], words []string, r game.Rand) (game.Layout, error) {
	a, err := guard(u, v)
	if err != nil {
		return game.Layout{}, err
	}
	layout, err := game.Deal(a.Teams[0].ID, a.Teams[1].ID, words, r)
	if err != nil {
		return game.Layout{}, err
	}
	cards, err := u.repo.ReplaceCards(ctx, a.CurrentRound.ID, layout.Cards)
	if err != nil {
		return game.Layout{}, err
	}
	layout.Cards = cards
	return layout, nil
}

// StartRound moves the round to IN_PROGRESS and opens the first turn for the
// team holding the larger share of cards.
func (u *UnitOfWork) StartRound(ctx context.Context, v validate.Valid[validate.StartRound]) (game.Turn, error) {
	a, err := guard(u, v)
	if err != nil {
		return game.Turn{}, err
	}
	starting, ok := a.StartingTeamID()
	if !ok {
		return game.Turn{}, fmt.Errorf("%w: round %d has no team with %d cards", game.ErrInvariant, a.CurrentRound.Number, game.StartingTeamCards)
	}
	if err := u.repo.UpdateRoundStatus(ctx, a.CurrentRound.ID, game.RoundInProgress); err != nil {
		return game.Turn{}, err
	}
	return u.repo.CreateTurn(ctx, a.CurrentRound.ID, starting, 0)
}

// GiveClue records the clue on the active turn and grants count+1 guesses.
func (u *UnitOfWork) GiveClue(ctx context.Context, v validate.Valid[validate.GiveClue]) (game.Clue, error) {
	a, err := guard(u, v)
	if err != nil {
		return game.Clue{}, err
	}
	turn := a.ActiveTurn()
	if turn == nil {
		return game.Clue{}, fmt.Errorf("%w: give-clue found no active turn", game.ErrInvariant)
	}
	in := v.Action()
	clue, err := u.repo.CreateClue(ctx, turn.ID, strings.ToLower(strings.TrimSpace(in.Word)), in.Count)
	if err != nil {
		return game.Clue{}, err
	}
	if err := u.repo.UpdateTurnGuesses(ctx, turn.ID, in.Count+1); err != nil {
		return game.Clue{}, err
	}
	return clue, nil
}

// MakeGuess reveals the card, records the guess and settles the turn's
// allowance. Cascading transitions are left to the caller.
func (u *UnitOfWork) MakeGuess(ctx context.Context, v validate.Valid[validate.MakeGuess]) (game.Guess, error) {
	a, err := guard(u, v)
	if err != nil {
		return game.Guess{}, err
	}
	turn := a.ActiveTurn()
	if turn == nil {
		return game.Guess{}, fmt.Errorf("%w: make-guess found no active turn", game.ErrInvariant)
	}
	card, ok := a.Card(v.Action().CardID)
	if !ok {
		return game.Guess{}, fmt.Errorf("%w: card %d vanished after validation", game.ErrInvariant, v.Action().CardID)
	}
	outcome := game.ResolveOutcome(*card, turn.TeamID)
	if err := u.repo.MarkCardSelected(ctx, card.ID); err != nil {
		return game.Guess{}, err
	}
	guess, err := u.repo.CreateGuess(ctx, turn.ID, a.Requester.Player.ID, card.ID, outcome)
	if err != nil {
		return game.Guess{}, err
	}
	if err := u.repo.UpdateTurnGuesses(ctx, turn.ID, game.GuessesAfter(outcome, turn.GuessesRemaining)); err != nil {
		return game.Guess{}, err
	}
	return guess, nil
}

// EndTurn completes the active turn.
func (u *UnitOfWork) EndTurn(ctx context.Context, v validate.Valid[validate.EndTurn]) (game.Turn, error) {
	a, err := guard(u, v)
	if err != nil {
		return game.Turn{}, err
	}
	turn := a.ActiveTurn()
	if turn == nil {
		return game.Turn{}, fmt.Errorf("%w: end-turn found no active turn", game.ErrInvariant)
	}
	if err := u.repo.UpdateTurnStatus(ctx, turn.ID, game.TurnCompleted); err != nil {
		return game.Turn{}, err
	}
	ended := *turn
	ended.Status = game.TurnCompleted
	return ended, nil
}

// StartTurn opens a fresh turn with no clue and no guesses for the checked team.
func (u *UnitOfWork) StartTurn(ctx context.Context, v validate.Valid[validate.StartTurn]) (game.Turn, error) {
	a, err := guard(u, v)
	if err != nil {
		return game.Turn{}, err
	}
	return u.repo.CreateTurn(ctx, a.CurrentRound.ID, v.Action().TeamID, 0)
}

// EndRound records the winner and completes the current round.
func (u *UnitOfWork) EndRound(ctx context.Context, v validate.Valid[validate.EndRound]) error {
	a, err := guard(u, v)
	if err != nil {
		return err
	}
	if err := u.repo.UpdateRoundWinner(ctx, a.CurrentRound.ID, v.Action().WinnerTeamID); err != nil {
		return err
	}
	return u.repo.UpdateRoundStatus(ctx, a.CurrentRound.ID, game.RoundCompleted)
}

// EndGame completes the game.
func (u *UnitOfWork) EndGame(ctx context.Context, v validate.Valid[validate.EndGame]) error {
	a, err := guard(u, v)
	if err != nil {
		return err
	}
	return u.repo.UpdateGameStatus(ctx, a.Game.ID, game.GameCompleted)
}

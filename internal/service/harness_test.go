package service

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/robalobadob/codenames/internal/game"
	"github.com/robalobadob/codenames/internal/storage/sqlite"
	"github.com/robalobadob/codenames/internal/words"
)

var natoWords = []string{
	"alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf", "hotel", "india",
	"juliett", "kilo", "lima", "mike", "november", "oscar", "papa", "quebec", "romeo",
	"sierra", "tango", "uniform", "victor", "whiskey", "xray", "yankee", "zulu",
}

type fixedWords []string

func (f fixedWords) RandomWords(_ context.Context, count int) ([]string, error) {
	if count > len(f) {
		return nil, fmt.Errorf("%w: have %d, want %d", words.ErrNotEnoughWords, len(f), count)
	}
	return append([]string(nil), f[:count]...), nil
}

// firstRand always draws 0: the first team starts and the shuffle is fixed.
type firstRand struct{}

func (firstRand) IntN(int) int { return 0 }

// harness drives a four-player game. With firstRand and join order
// alice, bob, carol, dave the seats for round 1 are:
//
//	Red:  alice (codemaster), carol (codebreaker)  starts
//	Blue: bob (codemaster),   dave (codebreaker)
type harness struct {
	svc    *Service
	store  *sqlite.Store
	gameID string
	red    int64
	blue   int64
}

func newHarness(dir string, src words.Source) (*harness, error) {
	store, err := sqlite.Open(filepath.Join(dir, "service.db"))
	if err != nil {
		return nil, err
	}
	return &harness{svc: New(store, src, firstRand{}), store: store}, nil
}

func (h *harness) close() { _ = h.store.Close() }

// lobby creates the game and seats all four players.
func (h *harness) lobby(ctx context.Context, format game.Format) error {
	v, err := h.svc.CreateGame(ctx, "alice", "Alice", "test", format)
	if err != nil {
		return err
	}
	h.gameID = v.Game.PublicID
	h.red, h.blue = v.Teams[0].ID, v.Teams[1].ID
	for _, u := range []string{"bob", "carol", "dave"} {
		if _, err := h.svc.JoinGame(ctx, h.gameID, u, JoinRequest{DisplayName: u}); err != nil {
			return err
		}
	}
	return nil
}

// playable takes a lobby through start-game, round creation, dealing and
// start-round.
func (h *harness) playable(ctx context.Context, format game.Format) error {
	if err := h.lobby(ctx, format); err != nil {
		return err
	}
	if _, err := h.svc.StartGame(ctx, h.gameID, "alice"); err != nil {
		return err
	}
	return h.nextRound(ctx)
}

func (h *harness) nextRound(ctx context.Context) error {
	if _, err := h.svc.CreateRound(ctx, h.gameID, "alice"); err != nil {
		return err
	}
	if _, err := h.svc.DealCards(ctx, h.gameID, "alice"); err != nil {
		return err
	}
	_, err := h.svc.StartRound(ctx, h.gameID, "alice")
	return err
}

// board returns the current cards as a codemaster sees them.
func (h *harness) board(ctx context.Context) ([]game.CardView, error) {
	a, err := h.store.LoadAggregate(ctx, h.gameID, "alice")
	if err != nil {
		return nil, err
	}
	a.Requester.Role = game.RoleCodemaster
	v := game.Project(a)
	if v.Round == nil {
		return nil, fmt.Errorf("no round")
	}
	return v.Round.Cards, nil
}

// cards returns unselected cards of type t, owned by team when t is TEAM.
func (h *harness) cards(ctx context.Context, t game.CardType, team int64) ([]int64, error) {
	board, err := h.board(ctx)
	if err != nil {
		return nil, err
	}
	var out []int64
	for _, c := range board {
		if c.Selected || *c.Type != t {
			continue
		}
		if t == game.CardTeam && *c.TeamID != team {
			continue
		}
		out = append(out, c.ID)
	}
	return out, nil
}

func (h *harness) teamByName(name string) int64 {
	if name == "Blue" {
		return h.blue
	}
	return h.red
}

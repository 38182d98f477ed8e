package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/robalobadob/codenames/internal/game"
	"github.com/robalobadob/codenames/internal/storage"
)

// LoadAggregate assembles the full state of one game for one requester.
// Inside a transaction it reads the transaction's own writes.
func (r *repo) LoadAggregate(ctx context.Context, gamePublicID, userID string) (*game.Aggregate, error) {
	agg, err := r.LoadLobby(ctx, gamePublicID)
	if err != nil {
		return nil, err
	}
	for _, p := range agg.Players() {
		if p.UserID == userID {
			agg.Requester = game.PlayerContext{UserID: userID, Player: p, Role: p.Role}
			return agg, nil
		}
	}
	return nil, fmt.Errorf("user %s in game %s: %w", userID, gamePublicID, storage.ErrUnauthorized)
}

// LoadLobby assembles the same state without resolving a requester.
func (r *repo) LoadLobby(ctx context.Context, gamePublicID string) (*game.Aggregate, error) {
	g, err := r.GetGame(ctx, gamePublicID)
	if err != nil {
		return nil, err
	}
	agg := &game.Aggregate{Game: g}

	if agg.Teams, err = r.ListTeams(ctx, g.ID); err != nil {
		return nil, err
	}
	players, err := r.listPlayers(ctx, g.ID)
	if err != nil {
		return nil, err
	}
	for _, p := range players {
		if p.TeamID == 0 {
			agg.Spectators = append(agg.Spectators, p)
		}
	}

	if agg.History, err = r.listRounds(ctx, g.ID); err != nil {
		return nil, err
	}
	var roles map[int64]game.Role
	if n := len(agg.History); n > 0 {
		if agg.CurrentRound, err = r.loadRound(ctx, agg.History[n-1].ID); err != nil {
			return nil, err
		}
		if roles, err = r.listRoles(ctx, agg.CurrentRound.ID); err != nil {
			return nil, err
		}
	}
	applyRoles(agg, roles)
	return agg, nil
}

// applyRoles stamps each player's role for the current round. Teamless
// players are spectators whether or not a row exists for them.
func applyRoles(agg *game.Aggregate, roles map[int64]game.Role) {
	for ti := range agg.Teams {
		for pi := range agg.Teams[ti].Players {
			p := &agg.Teams[ti].Players[pi]
			if role, ok := roles[p.ID]; ok {
				p.Role = role
			} else {
				p.Role = game.RoleNone
			}
		}
	}
	for i := range agg.Spectators {
		agg.Spectators[i].Role = game.RoleSpectator
	}
}

func (r *repo) listRounds(ctx context.Context, gameID int64) ([]game.RoundSummary, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, number, status, winning_team_id FROM rounds WHERE game_id = ? ORDER BY number`, gameID)
	if err != nil {
		return nil, classify("list rounds", err)
	}
	defer rows.Close()
	var out []game.RoundSummary
	for rows.Next() {
		var s game.RoundSummary
		var winner sql.NullInt64
		if err := rows.Scan(&s.ID, &s.Number, &s.Status, &winner); err != nil {
			return nil, classify("scan round", err)
		}
		s.WinnerTeamID = winner.Int64
		out = append(out, s)
	}
	return out, classify("list rounds", rows.Err())
}

func (r *repo) loadRound(ctx context.Context, roundID int64) (*game.Round, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT id, game_id, number, status, winning_team_id, created_at, completed_at FROM rounds WHERE id = ?`, roundID)
	var rd game.Round
	var winner sql.NullInt64
	var created string
	var completed sql.NullString
	if err := row.Scan(&rd.ID, &rd.GameID, &rd.Number, &rd.Status, &winner, &created, &completed); err != nil {
		return nil, classify(fmt.Sprintf("round %d", roundID), err)
	}
	rd.WinnerTeamID = winner.Int64
	rd.CreatedAt = parseTime(created)
	rd.CompletedAt = parseNullTime(completed)

	var err error
	if rd.Cards, err = r.listCards(ctx, roundID); err != nil {
		return nil, err
	}
	if rd.Turns, err = r.listTurns(ctx, roundID); err != nil {
		return nil, err
	}
	return &rd, nil
}

func (r *repo) listCards(ctx context.Context, roundID int64) ([]game.Card, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, round_id, position, word, card_type, team_id, selected
		 FROM cards WHERE round_id = ? ORDER BY position`, roundID)
	if err != nil {
		return nil, classify("list cards", err)
	}
	defer rows.Close()
	var out []game.Card
	for rows.Next() {
		var c game.Card
		var team sql.NullInt64
		if err := rows.Scan(&c.ID, &c.RoundID, &c.Position, &c.Word, &c.Type, &team, &c.Selected); err != nil {
			return nil, classify("scan card", err)
		}
		c.TeamID = team.Int64
		out = append(out, c)
	}
	return out, classify("list cards", rows.Err())
}

// listTurns returns the round's turns in creation order with clue and
// guesses attached.
func (r *repo) listTurns(ctx context.Context, roundID int64) ([]game.Turn, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, round_id, team_id, status, guesses_remaining, created_at, completed_at
		 FROM turns WHERE round_id = ? ORDER BY id`, roundID)
	if err != nil {
		return nil, classify("list turns", err)
	}
	var turns []game.Turn
	index := map[int64]int{}
	for rows.Next() {
		var t game.Turn
		var created string
		var completed sql.NullString
		if err := rows.Scan(&t.ID, &t.RoundID, &t.TeamID, &t.Status, &t.GuessesRemaining, &created, &completed); err != nil {
			rows.Close()
			return nil, classify("scan turn", err)
		}
		t.CreatedAt = parseTime(created)
		t.CompletedAt = parseNullTime(completed)
		index[t.ID] = len(turns)
		turns = append(turns, t)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, classify("list turns", err)
	}
	if len(turns) == 0 {
		return nil, nil
	}

	clues, err := r.q.QueryContext(ctx,
		`SELECT c.id, c.turn_id, c.word, c.target_count, c.created_at
		 FROM clues c JOIN turns t ON t.id = c.turn_id WHERE t.round_id = ?`, roundID)
	if err != nil {
		return nil, classify("list clues", err)
	}
	for clues.Next() {
		var c game.Clue
		var created string
		if err := clues.Scan(&c.ID, &c.TurnID, &c.Word, &c.Count, &created); err != nil {
			clues.Close()
			return nil, classify("scan clue", err)
		}
		c.CreatedAt = parseTime(created)
		if i, ok := index[c.TurnID]; ok {
			clue := c
			turns[i].Clue = &clue
		}
	}
	err = clues.Err()
	clues.Close()
	if err != nil {
		return nil, classify("list clues", err)
	}

	guesses, err := r.q.QueryContext(ctx,
		`SELECT g.id, g.turn_id, g.player_id, g.card_id, g.outcome, g.created_at
		 FROM guesses g JOIN turns t ON t.id = g.turn_id WHERE t.round_id = ? ORDER BY g.id`, roundID)
	if err != nil {
		return nil, classify("list guesses", err)
	}
	defer guesses.Close()
	for guesses.Next() {
		var g game.Guess
		var created string
		if err := guesses.Scan(&g.ID, &g.TurnID, &g.PlayerID, &g.CardID, &g.Outcome, &created); err != nil {
			return nil, classify("scan guess", err)
		}
		g.CreatedAt = parseTime(created)
		if i, ok := index[g.TurnID]; ok {
			turns[i].Guesses = append(turns[i].Guesses, g)
		}
	}
	return turns, classify("list guesses", guesses.Err())
}

func (r *repo) listRoles(ctx context.Context, roundID int64) (map[int64]game.Role, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT player_id, role FROM player_round_roles WHERE round_id = ?`, roundID)
	if err != nil {
		return nil, classify("list roles", err)
	}
	defer rows.Close()
	out := map[int64]game.Role{}
	for rows.Next() {
		var id int64
		var role game.Role
		if err := rows.Scan(&id, &role); err != nil {
			return nil, classify("scan role", err)
		}
		out[id] = role
	}
	return out, classify("list roles", rows.Err())
}

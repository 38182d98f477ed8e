package sqlite

import (
	"context"
	"fmt"

	"github.com/robalobadob/codenames/internal/game"
	"github.com/robalobadob/codenames/internal/storage"
)

func (r *repo) CreateRound(ctx context.Context, gameID int64, number int) (game.Round, error) {
	ts := now()
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO rounds (game_id, number, status, created_at) VALUES (?, ?, ?, ?)`,
		gameID, number, game.RoundSetup, ts)
	if err != nil {
		return game.Round{}, classify("create round", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return game.Round{}, classify("create round", err)
	}
	return game.Round{ID: id, GameID: gameID, Number: number, Status: game.RoundSetup, CreatedAt: parseTime(ts)}, nil
}

// ReplaceCards drops any existing layout for the round and inserts cards in
// order, returning them with ids filled.
func (r *repo) ReplaceCards(ctx context.Context, roundID int64, cards []game.Card) ([]game.Card, error) {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM cards WHERE round_id = ?`, roundID); err != nil {
		return nil, classify("clear cards", err)
	}
	out := make([]game.Card, len(cards))
	for i, c := range cards {
		res, err := r.q.ExecContext(ctx,
			`INSERT INTO cards (round_id, position, word, card_type, team_id, selected) VALUES (?, ?, ?, ?, ?, 0)`,
			roundID, c.Position, c.Word, c.Type, nullID(c.TeamID))
		if err != nil {
			return nil, classify(fmt.Sprintf("insert card %q", c.Word), err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, classify("insert card", err)
		}
		c.ID, c.RoundID, c.Selected = id, roundID, false
		out[i] = c
	}
	return out, nil
}

func (r *repo) AssignRole(ctx context.Context, roundID, playerID int64, role game.Role) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO player_round_roles (round_id, player_id, role) VALUES (?, ?, ?)
		 ON CONFLICT (round_id, player_id) DO UPDATE SET role = excluded.role`,
		roundID, playerID, role)
	return classify("assign role", err)
}

func (r *repo) UpdateRoundStatus(ctx context.Context, roundID int64, status game.RoundStatus) error {
	var completedAt any
	if status == game.RoundCompleted {
		completedAt = now()
	}
	res, err := r.q.ExecContext(ctx,
		`UPDATE rounds SET status = ?, completed_at = COALESCE(?, completed_at) WHERE id = ?`,
		status, completedAt, roundID)
	if err != nil {
		return classify("update round status", err)
	}
	return expectOne("update round status", res)
}

func (r *repo) UpdateRoundWinner(ctx context.Context, roundID, teamID int64) error {
	res, err := r.q.ExecContext(ctx, `UPDATE rounds SET winning_team_id = ? WHERE id = ?`, teamID, roundID)
	if err != nil {
		return classify("update round winner", err)
	}
	return expectOne("update round winner", res)
}

func (r *repo) CreateTurn(ctx context.Context, roundID, teamID int64, guessesRemaining int) (game.Turn, error) {
	ts := now()
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO turns (round_id, team_id, status, guesses_remaining, created_at) VALUES (?, ?, ?, ?, ?)`,
		roundID, teamID, game.TurnActive, guessesRemaining, ts)
	if err != nil {
		return game.Turn{}, classify("create turn", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return game.Turn{}, classify("create turn", err)
	}
	return game.Turn{
		ID:               id,
		RoundID:          roundID,
		TeamID:           teamID,
		Status:           game.TurnActive,
		GuessesRemaining: guessesRemaining,
		CreatedAt:        parseTime(ts),
	}, nil
}

func (r *repo) UpdateTurnStatus(ctx context.Context, turnID int64, status game.TurnStatus) error {
	var completedAt any
	if status == game.TurnCompleted {
		completedAt = now()
	}
	res, err := r.q.ExecContext(ctx,
		`UPDATE turns SET status = ?, completed_at = COALESCE(?, completed_at) WHERE id = ?`,
		status, completedAt, turnID)
	if err != nil {
		return classify("update turn status", err)
	}
	return expectOne("update turn status", res)
}

func (r *repo) UpdateTurnGuesses(ctx context.Context, turnID int64, guessesRemaining int) error {
	res, err := r.q.ExecContext(ctx, `UPDATE turns SET guesses_remaining = ? WHERE id = ?`, guessesRemaining, turnID)
	if err != nil {
		return classify("update turn guesses", err)
	}
	return expectOne("update turn guesses", res)
}

func (r *repo) CreateClue(ctx context.Context, turnID int64, word string, count int) (game.Clue, error) {
	ts := now()
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO clues (turn_id, word, target_count, created_at) VALUES (?, ?, ?, ?)`,
		turnID, word, count, ts)
	if err != nil {
		return game.Clue{}, classify("create clue", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return game.Clue{}, classify("create clue", err)
	}
	return game.Clue{ID: id, TurnID: turnID, Word: word, Count: count, CreatedAt: parseTime(ts)}, nil
}

func (r *repo) CreateGuess(ctx context.Context, turnID, playerID, cardID int64, outcome game.Outcome) (game.Guess, error) {
	ts := now()
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO guesses (turn_id, player_id, card_id, outcome, created_at) VALUES (?, ?, ?, ?, ?)`,
		turnID, playerID, cardID, outcome, ts)
	if err != nil {
		return game.Guess{}, classify("create guess", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return game.Guess{}, classify("create guess", err)
	}
	return game.Guess{ID: id, TurnID: turnID, PlayerID: playerID, CardID: cardID, Outcome: outcome, CreatedAt: parseTime(ts)}, nil
}

// MarkCardSelected flips an unselected card. A card that is already selected
// (or missing) is reported as a conflict; selection never reverts.
func (r *repo) MarkCardSelected(ctx context.Context, cardID int64) error {
	res, err := r.q.ExecContext(ctx, `UPDATE cards SET selected = 1 WHERE id = ? AND selected = 0`, cardID)
	if err != nil {
		return classify("mark card selected", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return classify("mark card selected", err)
	}
	if n == 0 {
		return fmt.Errorf("mark card %d selected: %w", cardID, storage.ErrConflict)
	}
	return nil
}

func (r *repo) UpdateGameStatus(ctx context.Context, gameID int64, status game.GameStatus) error {
	res, err := r.q.ExecContext(ctx, `UPDATE games SET status = ?, updated_at = ? WHERE id = ?`, status, now(), gameID)
	if err != nil {
		return classify("update game status", err)
	}
	return expectOne("update game status", res)
}

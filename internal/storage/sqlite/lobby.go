package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/robalobadob/codenames/internal/game"
	"github.com/robalobadob/codenames/internal/storage"
)

func (r *repo) CreateGame(ctx context.Context, in storage.NewGame) (game.Game, error) {
	ts := now()
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO games (public_id, name, status, format, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.PublicID, in.Name, game.GameLobby, in.Format, in.CreatedBy, ts, ts)
	if err != nil {
		return game.Game{}, classify("create game", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return game.Game{}, classify("create game", err)
	}
	return game.Game{
		ID:        id,
		PublicID:  in.PublicID,
		Name:      in.Name,
		Status:    game.GameLobby,
		Format:    in.Format,
		CreatedBy: in.CreatedBy,
		CreatedAt: parseTime(ts),
		UpdatedAt: parseTime(ts),
	}, nil
}

func (r *repo) CreateTeam(ctx context.Context, gameID int64, name string, position int) (game.Team, error) {
	res, err := r.q.ExecContext(ctx, `INSERT INTO teams (game_id, name, position) VALUES (?, ?, ?)`, gameID, name, position)
	if err != nil {
		return game.Team{}, classify("create team", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return game.Team{}, classify("create team", err)
	}
	return game.Team{ID: id, GameID: gameID, Name: name, Position: position}, nil
}

func (r *repo) GetGame(ctx context.Context, publicID string) (game.Game, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT id, public_id, name, status, format, created_by, created_at, updated_at
		 FROM games WHERE public_id = ?`, publicID)
	var g game.Game
	var created, updated string
	if err := row.Scan(&g.ID, &g.PublicID, &g.Name, &g.Status, &g.Format, &g.CreatedBy, &created, &updated); err != nil {
		return game.Game{}, classify(fmt.Sprintf("game %s", publicID), err)
	}
	g.CreatedAt, g.UpdatedAt = parseTime(created), parseTime(updated)
	return g, nil
}

// ListTeams returns a game's teams with their players, ordered by position.
func (r *repo) ListTeams(ctx context.Context, gameID int64) ([]game.Team, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, game_id, name, position FROM teams WHERE game_id = ? ORDER BY position, id`, gameID)
	if err != nil {
		return nil, classify("list teams", err)
	}
	defer rows.Close()
	var teams []game.Team
	for rows.Next() {
		var t game.Team
		if err := rows.Scan(&t.ID, &t.GameID, &t.Name, &t.Position); err != nil {
			return nil, classify("scan team", err)
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list teams", err)
	}

	players, err := r.listPlayers(ctx, gameID)
	if err != nil {
		return nil, err
	}
	for _, p := range players {
		for i := range teams {
			if teams[i].ID == p.TeamID {
				teams[i].Players = append(teams[i].Players, p)
			}
		}
	}
	return teams, nil
}

func (r *repo) AddPlayer(ctx context.Context, in storage.NewPlayer) (game.Player, error) {
	ts := now()
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO players (public_id, user_id, game_id, team_id, display_name, status, joined_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.PublicID, in.UserID, in.GameID, nullID(in.TeamID), in.DisplayName, game.PlayerActive, ts)
	if err != nil {
		return game.Player{}, classify("add player", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return game.Player{}, classify("add player", err)
	}
	return game.Player{
		ID:          id,
		PublicID:    in.PublicID,
		UserID:      in.UserID,
		GameID:      in.GameID,
		TeamID:      in.TeamID,
		DisplayName: in.DisplayName,
		Status:      game.PlayerActive,
		Role:        game.RoleNone,
		JoinedAt:    parseTime(ts),
	}, nil
}

// RemovePlayer deletes a user's seat. Only the lobby calls this.
func (r *repo) RemovePlayer(ctx context.Context, gameID int64, userID string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM players WHERE game_id = ? AND user_id = ?`, gameID, userID)
	if err != nil {
		return classify("remove player", err)
	}
	return expectOne("remove player", res)
}

// listPlayers returns every player in a game in join order. Roles are not set.
func (r *repo) listPlayers(ctx context.Context, gameID int64) ([]game.Player, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, public_id, user_id, game_id, team_id, display_name, status, joined_at
		 FROM players WHERE game_id = ? ORDER BY id`, gameID)
	if err != nil {
		return nil, classify("list players", err)
	}
	defer rows.Close()
	var out []game.Player
	for rows.Next() {
		var p game.Player
		var team sql.NullInt64
		var joined string
		if err := rows.Scan(&p.ID, &p.PublicID, &p.UserID, &p.GameID, &team, &p.DisplayName, &p.Status, &joined); err != nil {
			return nil, classify("scan player", err)
		}
		p.TeamID = team.Int64
		p.JoinedAt = parseTime(joined)
		p.Role = game.RoleNone
		out = append(out, p)
	}
	return out, classify("list players", rows.Err())
}
